package rebalancer

import (
	"context"
	"errors"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	gethtypes "github.com/ethereum/go-ethereum/core/types"
	"go.uber.org/zap"

	"github.com/devhb1/1nsync-sub000/transactions"
)

// ExecutionResult reports what one execution session did on chain.
type ExecutionResult struct {
	ApprovalTxHashes []common.Hash `json:"approvalTxHashes,omitempty"`
	BatchTxHash      common.Hash   `json:"batchTxHash"`
	GasUsed          uint64        `json:"gasUsed"`
}

// ExecuteRebalance submits a planned batch: route payloads are built, any
// allowance shortfalls are approved strictly sequentially with each approval
// confirmed before the next, then the batch call goes out and is waited to
// its receipt. Execution failures surface verbatim and are never retried,
// a fresh plan is required instead.
func (s *Service) ExecuteRebalance(ctx context.Context, owner, recipient common.Address, plan *BatchPlan, sign transactions.SignerFn) (*ExecutionResult, error) {
	if plan == nil || plan.NoRebalanceNeeded || len(plan.Legs) == 0 {
		return nil, &PlanningError{Reason: "nothing to execute"}
	}
	if recipient == (common.Address{}) {
		recipient = owner
	}

	legs, buildErr := s.resolver.BuildRoutePayloads(ctx, owner, recipient, plan.Legs)
	if buildErr != nil {
		// a leg that lost its route since planning invalidates the plan
		s.emit(EventRebalanceFailed, owner, map[string]string{"error": buildErr.Error()})
		return nil, &ExecutionError{Err: fmt.Errorf("building route payloads: %w", buildErr)}
	}

	call, err := BuildBatchCall(legs, recipient, s.batchGasEstimate(plan), s.config)
	if err != nil {
		return nil, err
	}

	result := &ExecutionResult{}
	if err := s.submitApprovals(ctx, owner, call.RouterAddress, legs, sign, result); err != nil {
		s.emit(EventRebalanceFailed, owner, map[string]string{"error": err.Error()})
		return nil, err
	}

	hash, err := s.transactor.SendTransaction(ctx, transactions.SendTxArgs{
		From:  owner,
		To:    &call.RouterAddress,
		Value: call.Value,
		Gas:   call.GasLimit,
		Data:  call.Calldata,
	}, sign)
	if err != nil {
		s.emit(EventRebalanceFailed, owner, map[string]string{"error": err.Error()})
		return nil, &ExecutionError{Err: err}
	}
	result.BatchTxHash = hash
	s.emit(EventBatchSubmitted, owner, result)
	s.logger.Info("batch submitted", zap.String("hash", hash.Hex()), zap.Int("legs", len(call.Legs)))

	receipt, err := transactions.WaitForReceipt(ctx, s.backend, hash, s.config.ExecutionConfirmTimeout)
	if err != nil {
		s.emit(EventRebalanceFailed, owner, map[string]string{"error": err.Error(), "txHash": hash.Hex()})
		return result, &ExecutionError{TxHash: hash, Err: err}
	}
	if receipt.Status != gethtypes.ReceiptStatusSuccessful {
		err := &ExecutionError{TxHash: hash, Err: errors.New("batch transaction reverted")}
		s.emit(EventRebalanceFailed, owner, map[string]string{"error": err.Error(), "txHash": hash.Hex()})
		return result, err
	}

	result.GasUsed = receipt.GasUsed
	s.emit(EventBatchConfirmed, owner, result)
	s.logger.Info("batch confirmed", zap.String("hash", hash.Hex()), zap.Uint64("gasUsed", receipt.GasUsed))

	return result, nil
}

// submitApprovals checks allowances fresh and processes shortfalls one by
// one, each waited to confirmation before the next. Parallel approvals from
// the same account would race on the nonce.
func (s *Service) submitApprovals(ctx context.Context, owner, spender common.Address, legs []SwapInstruction, sign transactions.SignerFn, result *ExecutionResult) error {
	requirements, err := s.approvals.RequiredApprovals(ctx, owner, spender, legs)
	if err != nil {
		return err
	}

	for _, requirement := range requirements {
		calldata, err := s.approvals.ApprovalCalldata(requirement)
		if err != nil {
			return &ApprovalError{Token: requirement.Token.Address, Symbol: requirement.Token.Symbol, Err: err}
		}

		tokenAddress := requirement.Token.Address
		hash, err := s.transactor.SendTransaction(ctx, transactions.SendTxArgs{
			From: owner,
			To:   &tokenAddress,
			Data: calldata,
		}, sign)
		if err != nil {
			return &ApprovalError{Token: tokenAddress, Symbol: requirement.Token.Symbol, Err: err}
		}
		result.ApprovalTxHashes = append(result.ApprovalTxHashes, hash)
		s.emit(EventApprovalSubmitted, owner, requirement)
		s.logger.Info("approval submitted",
			zap.String("token", requirement.Token.Symbol),
			zap.String("hash", hash.Hex()))

		receipt, err := transactions.WaitForReceipt(ctx, s.backend, hash, s.config.ApprovalConfirmTimeout)
		if err != nil {
			return &ApprovalError{Token: tokenAddress, Symbol: requirement.Token.Symbol, Err: err}
		}
		if receipt.Status != gethtypes.ReceiptStatusSuccessful {
			return &ApprovalError{Token: tokenAddress, Symbol: requirement.Token.Symbol, Err: errors.New("approval transaction reverted")}
		}
		s.emit(EventApprovalConfirmed, owner, requirement)
	}

	return nil
}

// batchGasEstimate picks the gas figure the +20% execution buffer is applied
// to.
func (s *Service) batchGasEstimate(plan *BatchPlan) uint64 {
	if plan.GasComparison.BatchGas > 0 {
		return plan.GasComparison.BatchGas
	}
	return s.gasEstimator.fallbackBatchGas(len(plan.Legs))
}
