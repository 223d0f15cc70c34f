package rebalancer

import (
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/require"

	"github.com/devhb1/1nsync-sub000/services/rebalancer/token"
)

var (
	testUSDC = token.Token{Address: common.HexToAddress("0xA0b86991c6218b36c1d19D4a2e9Eb0cE3606eB48"), Symbol: "USDC", Decimals: 6, ChainID: 1}
	testUSDT = token.Token{Address: common.HexToAddress("0xdAC17F958D2ee523a2206206994597C13D831ec7"), Symbol: "USDT", Decimals: 6, ChainID: 1}
	testDAI  = token.Token{Address: common.HexToAddress("0x6B175474E89094C44Da98b954EedeAC495271d0F"), Symbol: "DAI", Decimals: 18, ChainID: 1}
	testWETH = token.Token{Address: common.HexToAddress("0xC02aaA39b223FE8D0A0e5C4F27eAD9083C756Cc2"), Symbol: "WETH", Decimals: 18, ChainID: 1}
)

func usdBalance(tok token.Token, usdValue float64, usdPrice float64) Balance {
	human := usdValue / usdPrice
	raw, _ := new(big.Float).Mul(
		big.NewFloat(human),
		new(big.Float).SetInt(new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(tok.Decimals)), nil)),
	).Int(nil)

	return Balance{
		Token:      tok,
		RawBalance: raw,
		USDPrice:   usdPrice,
		USDValue:   usdValue,
	}
}

func TestPlanAllocationsClassification(t *testing.T) {
	balances := []Balance{
		usdBalance(testUSDC, 1000, 1.0),
	}
	targets := []AllocationTarget{
		{Token: testUSDC, TargetPercentage: 50},
		{Token: testWETH, TargetPercentage: 50},
	}

	deficits, surpluses := PlanAllocations(balances, targets, 1000, 1.0)

	require.Len(t, deficits, 1)
	require.Equal(t, "WETH", deficits[0].Target.Token.Symbol)
	require.InDelta(t, 500, deficits[0].NeedUSD, 1e-9)
	require.InDelta(t, 500, deficits[0].Target.TargetValueUSD, 1e-9)
	require.InDelta(t, 0, deficits[0].Target.CurrentValueUSD, 1e-9)

	require.Len(t, surpluses, 1)
	require.Equal(t, "USDC", surpluses[0].Source.Token.Symbol)
	require.InDelta(t, 500, surpluses[0].AvailableUSD, 1e-9)
}

func TestPlanAllocationsAlreadyBalanced(t *testing.T) {
	balances := []Balance{
		usdBalance(testUSDC, 500, 1.0),
		usdBalance(testWETH, 500, 2500.0),
	}
	targets := []AllocationTarget{
		{Token: testUSDC, TargetPercentage: 50},
		{Token: testWETH, TargetPercentage: 50},
	}

	deficits, surpluses := PlanAllocations(balances, targets, 1000, 1.0)

	require.Empty(t, deficits)
	require.Empty(t, surpluses)
}

func TestPlanAllocationsDeadBand(t *testing.T) {
	// Half a dollar off target on either side stays inside the one dollar
	// dead band.
	balances := []Balance{
		usdBalance(testUSDC, 500.5, 1.0),
		usdBalance(testWETH, 499.5, 2500.0),
	}
	targets := []AllocationTarget{
		{Token: testUSDC, TargetPercentage: 50},
		{Token: testWETH, TargetPercentage: 50},
	}

	deficits, surpluses := PlanAllocations(balances, targets, 1000, 1.0)

	require.Empty(t, deficits)
	require.Empty(t, surpluses)
}

func TestPlanAllocationsOrdering(t *testing.T) {
	balances := []Balance{
		usdBalance(testDAI, 600, 1.0),
		usdBalance(testWETH, 400, 2000.0),
	}
	targets := []AllocationTarget{
		{Token: testUSDC, TargetPercentage: 40},
		{Token: testUSDT, TargetPercentage: 60},
	}

	deficits, surpluses := PlanAllocations(balances, targets, 1000, 1.0)

	require.Len(t, deficits, 2)
	require.Equal(t, "USDT", deficits[0].Target.Token.Symbol)
	require.Equal(t, 0, deficits[0].Priority)
	require.Equal(t, "USDC", deficits[1].Target.Token.Symbol)
	require.Equal(t, 1, deficits[1].Priority)

	require.Len(t, surpluses, 2)
	require.Equal(t, "DAI", surpluses[0].Source.Token.Symbol)
	require.InDelta(t, 600, surpluses[0].AvailableUSD, 1e-9)
	require.Equal(t, "WETH", surpluses[1].Source.Token.Symbol)
	require.InDelta(t, 400, surpluses[1].AvailableUSD, 1e-9)
}

func TestBuildBalances(t *testing.T) {
	tokens := []token.Token{testUSDC, testWETH}
	raws := []*big.Int{
		big.NewInt(250_000000),             // 250 USDC
		big.NewInt(100_000_000_000_000000), // 0.1 WETH
	}
	prices := []float64{1.0, 2500.0}

	balances, total := BuildBalances(tokens, raws, prices)

	require.Len(t, balances, 2)
	require.InDelta(t, 500, total, 1e-6)
	require.InDelta(t, 250, balances[0].USDValue, 1e-6)
	require.InDelta(t, 50, balances[0].Percentage, 1e-6)
	require.Equal(t, "250", balances[0].Formatted)
	require.InDelta(t, 250, balances[1].USDValue, 1e-6)
	require.Equal(t, "0.1", balances[1].Formatted)
}

func TestBuildBalancesSkipsZero(t *testing.T) {
	tokens := []token.Token{testUSDC, testDAI}
	raws := []*big.Int{big.NewInt(0), big.NewInt(1_000000000000000000)}
	prices := []float64{1.0, 1.0}

	balances, total := BuildBalances(tokens, raws, prices)

	require.Len(t, balances, 1)
	require.Equal(t, "DAI", balances[0].Token.Symbol)
	require.InDelta(t, 1.0, total, 1e-9)
}
