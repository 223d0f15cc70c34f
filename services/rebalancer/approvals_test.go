package rebalancer

import (
	"context"
	"math/big"
	"testing"

	ethereum "github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/math"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/devhb1/1nsync-sub000/contracts/ierc20"
	walletCommon "github.com/devhb1/1nsync-sub000/services/rebalancer/common"
	"github.com/devhb1/1nsync-sub000/services/rebalancer/token"
)

// fakeCaller answers every eth_call with a configurable per-token allowance.
type fakeCaller struct {
	allowances map[common.Address]*big.Int
}

func (c *fakeCaller) CodeAt(ctx context.Context, contract common.Address, blockNumber *big.Int) ([]byte, error) {
	return []byte{0x01}, nil
}

func (c *fakeCaller) CallContract(ctx context.Context, call ethereum.CallMsg, blockNumber *big.Int) ([]byte, error) {
	allowance := c.allowances[*call.To]
	if allowance == nil {
		allowance = new(big.Int)
	}
	return common.LeftPadBytes(allowance.Bytes(), 32), nil
}

func quotedLeg(from, to token.Token, amount int64) SwapInstruction {
	return SwapInstruction{
		FromToken:    from,
		ToToken:      to,
		AmountRaw:    big.NewInt(amount),
		Quote:        &Quote{ExpectedOutputRaw: big.NewInt(amount), GasEstimate: 150000},
		MinAmountOut: big.NewInt(amount),
	}
}

func TestRequiredApprovalsAggregatesPerToken(t *testing.T) {
	// Scenario: two legs both selling DAI must produce one combined
	// requirement, not two.
	caller := &fakeCaller{allowances: map[common.Address]*big.Int{}}
	coordinator := NewApprovalCoordinator(caller, DefaultConfig(), zap.NewNop())

	owner := common.HexToAddress("0xaa")
	spender := common.HexToAddress("0xbb")
	legs := []SwapInstruction{
		quotedLeg(testDAI, testUSDT, 600),
		quotedLeg(testWETH, testUSDC, 150),
		quotedLeg(testDAI, testUSDC, 400),
	}

	requirements, err := coordinator.RequiredApprovals(context.Background(), owner, spender, legs)
	require.NoError(t, err)
	require.Len(t, requirements, 2)

	require.Equal(t, "DAI", requirements[0].Token.Symbol)
	require.Equal(t, big.NewInt(1000), requirements[0].RequiredRaw)
	require.Equal(t, spender, requirements[0].Spender)

	require.Equal(t, "WETH", requirements[1].Token.Symbol)
	require.Equal(t, big.NewInt(150), requirements[1].RequiredRaw)
}

func TestRequiredApprovalsIdempotentAfterApproval(t *testing.T) {
	caller := &fakeCaller{allowances: map[common.Address]*big.Int{}}
	coordinator := NewApprovalCoordinator(caller, DefaultConfig(), zap.NewNop())

	owner := common.HexToAddress("0xaa")
	spender := common.HexToAddress("0xbb")
	legs := []SwapInstruction{quotedLeg(testDAI, testUSDT, 500)}

	requirements, err := coordinator.RequiredApprovals(context.Background(), owner, spender, legs)
	require.NoError(t, err)
	require.Len(t, requirements, 1)
	require.Zero(t, big.NewInt(0).Cmp(requirements[0].CurrentRaw))

	// allowance granted on-chain, the re-check sees fresh state
	caller.allowances[testDAI.Address] = big.NewInt(500)

	requirements, err = coordinator.RequiredApprovals(context.Background(), owner, spender, legs)
	require.NoError(t, err)
	require.Empty(t, requirements)
}

func TestRequiredApprovalsSkipsNativeAndUnquoted(t *testing.T) {
	caller := &fakeCaller{allowances: map[common.Address]*big.Int{}}
	coordinator := NewApprovalCoordinator(caller, DefaultConfig(), zap.NewNop())

	native := token.Token{Address: walletCommon.NativeTokenAddress, Symbol: "ETH", Decimals: 18, ChainID: 1}
	failed := quotedLeg(testWETH, testUSDC, 100)
	failed.Error = "no route found"

	legs := []SwapInstruction{
		quotedLeg(native, testUSDC, 1_000000000),
		failed,
	}

	requirements, err := coordinator.RequiredApprovals(context.Background(),
		common.HexToAddress("0xaa"), common.HexToAddress("0xbb"), legs)
	require.NoError(t, err)
	require.Empty(t, requirements)
}

// stubERC20 answers the caller interface directly, no backend involved.
type stubERC20 struct {
	allowance *big.Int
}

func (s *stubERC20) Name(*bind.CallOpts) (string, error)    { return "", nil }
func (s *stubERC20) Symbol(*bind.CallOpts) (string, error)  { return "", nil }
func (s *stubERC20) Decimals(*bind.CallOpts) (uint8, error) { return 18, nil }
func (s *stubERC20) Allowance(*bind.CallOpts, common.Address, common.Address) (*big.Int, error) {
	return s.allowance, nil
}

func TestRequiredApprovalsStubbedContract(t *testing.T) {
	coordinator := NewApprovalCoordinator(nil, DefaultConfig(), zap.NewNop())
	coordinator.erc20 = func(common.Address) (ierc20.IERC20CallerIface, error) {
		return &stubERC20{allowance: big.NewInt(250)}, nil
	}

	requirements, err := coordinator.RequiredApprovals(context.Background(),
		common.HexToAddress("0xaa"), common.HexToAddress("0xbb"),
		[]SwapInstruction{quotedLeg(testDAI, testUSDT, 600)})
	require.NoError(t, err)
	require.Len(t, requirements, 1)
	require.Equal(t, big.NewInt(250), requirements[0].CurrentRaw)
	require.Equal(t, big.NewInt(600), requirements[0].RequiredRaw)
}

func TestApprovalAmountPolicy(t *testing.T) {
	requirement := ApprovalRequirement{
		Token:       testDAI,
		Spender:     common.HexToAddress("0xbb"),
		RequiredRaw: big.NewInt(1000),
		CurrentRaw:  big.NewInt(0),
	}

	exact := NewApprovalCoordinator(&fakeCaller{}, DefaultConfig(), zap.NewNop())
	require.Equal(t, big.NewInt(1000), exact.ApprovalAmount(requirement))

	config := DefaultConfig()
	config.UnlimitedApprovals = true
	unlimited := NewApprovalCoordinator(&fakeCaller{}, config, zap.NewNop())
	require.Equal(t, math.MaxBig256, unlimited.ApprovalAmount(requirement))
}

func TestApprovalCalldata(t *testing.T) {
	coordinator := NewApprovalCoordinator(&fakeCaller{}, DefaultConfig(), zap.NewNop())

	calldata, err := coordinator.ApprovalCalldata(ApprovalRequirement{
		Token:       testDAI,
		Spender:     common.HexToAddress("0xbb"),
		RequiredRaw: big.NewInt(1000),
	})
	require.NoError(t, err)

	// approve(address,uint256) selector
	require.Equal(t, []byte{0x09, 0x5e, 0xa7, 0xb3}, calldata[:4])
	require.Len(t, calldata, 4+32+32)
}
