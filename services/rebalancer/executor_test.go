package rebalancer

import (
	"context"
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	gethtypes "github.com/ethereum/go-ethereum/core/types"
	"github.com/stretchr/testify/require"

	"github.com/devhb1/1nsync-sub000/services/rebalancer/thirdparty"
	"github.com/devhb1/1nsync-sub000/services/rebalancer/walletevent"
	"github.com/devhb1/1nsync-sub000/transactions"
)

var testRouter = common.HexToAddress("0x0000000000000000000000000000000010777333")

func noopSigner() transactions.SignerFn {
	return func(address common.Address, tx *gethtypes.Transaction) (*gethtypes.Transaction, error) {
		return tx, nil
	}
}

func TestExecuteRebalanceApprovesThenBatches(t *testing.T) {
	// Two legs both sell DAI: execution must produce exactly one approval
	// for the combined amount, confirmed before the batch goes out.
	backend := newFakeChainBackend()
	daiRaw := new(big.Int).Mul(big.NewInt(1000), big.NewInt(1e18))
	balances := []thirdparty.BalanceItem{
		balanceItem(testDAI.Address, "DAI", 18, daiRaw, 1.0),
	}
	service, _, feed := newTestService(t, backend, balances)

	events := make(chan walletevent.Event, 16)
	sub := feed.Subscribe(events)
	defer sub.Unsubscribe()

	owner := common.HexToAddress("0xaa")
	plan, err := service.PlanRebalance(context.Background(), owner, []AllocationTarget{
		{Token: testUSDT, TargetPercentage: 60},
		{Token: testUSDC, TargetPercentage: 40},
	})
	require.NoError(t, err)
	require.Len(t, plan.Legs, 2)
	require.Equal(t, "DAI", plan.Legs[0].FromToken.Symbol)
	require.Equal(t, "DAI", plan.Legs[1].FromToken.Symbol)

	result, err := service.ExecuteRebalance(context.Background(), owner, owner, plan, noopSigner())
	require.NoError(t, err)
	require.Len(t, result.ApprovalTxHashes, 1)
	require.NotEqual(t, common.Hash{}, result.BatchTxHash)
	require.Equal(t, uint64(420000), result.GasUsed)

	require.Len(t, backend.sent, 2)

	approval := backend.sent[0]
	require.Equal(t, testDAI.Address, *approval.To())
	require.Equal(t, []byte{0x09, 0x5e, 0xa7, 0xb3}, approval.Data()[:4]) // approve selector
	spender := common.BytesToAddress(approval.Data()[4:36])
	amount := new(big.Int).SetBytes(approval.Data()[36:68])
	require.Equal(t, testRouter, spender)
	require.Equal(t, daiRaw, amount, "approval covers the combined amount of both legs")

	batch := backend.sent[1]
	require.Equal(t, testRouter, *batch.To())
	require.NotEmpty(t, batch.Data())

	var seen []walletevent.EventType
	for len(events) > 0 {
		seen = append(seen, (<-events).Type)
	}
	require.Equal(t, []walletevent.EventType{
		EventRebalancePlanned,
		EventApprovalSubmitted,
		EventApprovalConfirmed,
		EventBatchSubmitted,
		EventBatchConfirmed,
	}, seen)
}

func TestExecuteRebalanceSkipsSufficientAllowance(t *testing.T) {
	backend := newFakeChainBackend()
	backend.allowances[testUSDC.Address] = new(big.Int).Mul(big.NewInt(1), big.NewInt(1e15))
	balances := []thirdparty.BalanceItem{
		balanceItem(testUSDC.Address, "USDC", 6, big.NewInt(1000_000000), 1.0),
	}
	service, _, _ := newTestService(t, backend, balances)

	owner := common.HexToAddress("0xaa")
	plan, err := service.PlanRebalance(context.Background(), owner, []AllocationTarget{
		{Token: testUSDC, TargetPercentage: 50},
		{Token: testWETH, TargetPercentage: 50},
	})
	require.NoError(t, err)

	result, err := service.ExecuteRebalance(context.Background(), owner, owner, plan, noopSigner())
	require.NoError(t, err)
	require.Empty(t, result.ApprovalTxHashes)
	require.Len(t, backend.sent, 1) // batch only
	require.Equal(t, testRouter, *backend.sent[0].To())
}

func TestExecuteRebalanceNothingToExecute(t *testing.T) {
	service, _, _ := newTestService(t, newFakeChainBackend(), nil)

	owner := common.HexToAddress("0xaa")
	var planErr *PlanningError

	_, err := service.ExecuteRebalance(context.Background(), owner, owner, nil, noopSigner())
	require.ErrorAs(t, err, &planErr)

	_, err = service.ExecuteRebalance(context.Background(), owner, owner,
		&BatchPlan{NoRebalanceNeeded: true}, noopSigner())
	require.ErrorAs(t, err, &planErr)
}

func TestExecuteRebalanceSurfacesRevert(t *testing.T) {
	backend := newFakeChainBackend()
	backend.allowances[testUSDC.Address] = new(big.Int).Mul(big.NewInt(1), big.NewInt(1e15))
	backend.failReceipts = true
	balances := []thirdparty.BalanceItem{
		balanceItem(testUSDC.Address, "USDC", 6, big.NewInt(1000_000000), 1.0),
	}
	service, _, feed := newTestService(t, backend, balances)

	owner := common.HexToAddress("0xaa")
	plan, err := service.PlanRebalance(context.Background(), owner, []AllocationTarget{
		{Token: testUSDC, TargetPercentage: 50},
		{Token: testWETH, TargetPercentage: 50},
	})
	require.NoError(t, err)

	events := make(chan walletevent.Event, 16)
	sub := feed.Subscribe(events)
	defer sub.Unsubscribe()

	result, err := service.ExecuteRebalance(context.Background(), owner, owner, plan, noopSigner())

	var execErr *ExecutionError
	require.ErrorAs(t, err, &execErr)
	require.NotEqual(t, common.Hash{}, execErr.TxHash)
	// the hash of the failed submission is still reported
	require.Equal(t, execErr.TxHash, result.BatchTxHash)

	var seen []walletevent.EventType
	for len(events) > 0 {
		seen = append(seen, (<-events).Type)
	}
	require.Contains(t, seen, EventRebalanceFailed)
}
