package rebalancer

import (
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/require"

	walletCommon "github.com/devhb1/1nsync-sub000/services/rebalancer/common"
	"github.com/devhb1/1nsync-sub000/services/rebalancer/token"
)

func TestBuildBatchCall(t *testing.T) {
	// the configured override wins over the deployment registry
	config := DefaultConfig()
	config.RouterAddress = testRouter

	legs := []SwapInstruction{
		quotedLeg(testDAI, testUSDT, 600),
		quotedLeg(testWETH, testUSDC, 400),
	}
	legs[0].RoutePayload = []byte{0x01}
	legs[1].RoutePayload = []byte{0x02}

	recipient := common.HexToAddress("0xaa")
	call, err := BuildBatchCall(legs, recipient, 500000, config)
	require.NoError(t, err)

	require.Equal(t, testRouter, call.RouterAddress)
	require.Len(t, call.Legs, 2)
	require.Equal(t, testDAI.Address, call.Legs[0].TokenIn)
	require.Equal(t, testUSDT.Address, call.Legs[0].TokenOut)
	require.Equal(t, recipient, call.Recipient)
	require.NotEmpty(t, call.Calldata)
	require.Equal(t, uint64(600000), call.GasLimit) // estimate + 20%
	require.Equal(t, int64(0), call.Value.Int64())
}

func TestBuildBatchCallEnforcesMaxBatchSize(t *testing.T) {
	config := DefaultConfig()
	config.RouterAddress = testRouter

	legs := make([]SwapInstruction, config.MaxBatchSize+1)
	for i := range legs {
		legs[i] = quotedLeg(testDAI, testUSDT, int64(i+1))
	}

	call, err := BuildBatchCall(legs, common.HexToAddress("0xaa"), 500000, config)

	require.Nil(t, call, "an oversized plan must yield no payload")
	var planErr *PlanningError
	require.ErrorAs(t, err, &planErr)
}

func TestBuildBatchCallExcludesFailedLegs(t *testing.T) {
	config := DefaultConfig()
	config.RouterAddress = testRouter

	failed := quotedLeg(testWETH, testUSDC, 400)
	failed.Error = "no route found"
	legs := []SwapInstruction{
		quotedLeg(testDAI, testUSDT, 600),
		failed,
	}

	call, err := BuildBatchCall(legs, common.HexToAddress("0xaa"), 500000, config)
	require.NoError(t, err)
	require.Len(t, call.Legs, 1)
	require.Equal(t, testDAI.Address, call.Legs[0].TokenIn)
}

func TestBuildBatchCallNoExecutableLegs(t *testing.T) {
	config := DefaultConfig()
	config.RouterAddress = testRouter

	failed := quotedLeg(testDAI, testUSDT, 600)
	failed.Error = "no route found"

	call, err := BuildBatchCall([]SwapInstruction{failed}, common.HexToAddress("0xaa"), 500000, config)
	require.Nil(t, call)
	var planErr *PlanningError
	require.ErrorAs(t, err, &planErr)
}

func TestBuildBatchCallUnknownChain(t *testing.T) {
	config := DefaultConfig()
	config.ChainID = 424242

	call, err := BuildBatchCall([]SwapInstruction{quotedLeg(testDAI, testUSDT, 1)}, common.HexToAddress("0xaa"), 1, config)
	require.Nil(t, call)
	var planErr *PlanningError
	require.ErrorAs(t, err, &planErr)
}

func TestNativeValueAggregation(t *testing.T) {
	native := token.Token{Address: walletCommon.NativeTokenAddress, Symbol: "ETH", Decimals: 18, ChainID: 1}

	legs := []SwapInstruction{
		quotedLeg(native, testUSDC, 1_000000000),
		quotedLeg(testDAI, testUSDT, 600),
		quotedLeg(native, testUSDT, 500000000),
	}

	require.Equal(t, big.NewInt(1_500000000), NativeValue(legs))
}
