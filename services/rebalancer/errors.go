package rebalancer

import (
	"fmt"

	"github.com/ethereum/go-ethereum/common"
)

// PlanningError covers synchronous planning failures: malformed targets,
// batch-size overflow. A plan with zero actionable legs is not a
// PlanningError, it is reported through BatchPlan.NoRebalanceNeeded.
type PlanningError struct {
	Reason string
	Err    error
}

func (e *PlanningError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("planning: %s: %s", e.Reason, e.Err)
	}
	return fmt.Sprintf("planning: %s", e.Reason)
}

func (e *PlanningError) Unwrap() error {
	return e.Err
}

// QuoteError marks a single leg whose quote could not be resolved. It is
// never fatal, the leg is excluded and its siblings proceed.
type QuoteError struct {
	FromSymbol string
	ToSymbol   string
	Err        error
}

func (e *QuoteError) Error() string {
	return fmt.Sprintf("quote %s->%s: %s", e.FromSymbol, e.ToSymbol, e.Err)
}

func (e *QuoteError) Unwrap() error {
	return e.Err
}

// ApprovalError is fatal to the execution session. The caller re-plans and
// retries, the engine never does.
type ApprovalError struct {
	Token  common.Address
	Symbol string
	Err    error
}

func (e *ApprovalError) Error() string {
	return fmt.Sprintf("approval for %s (%s): %s", e.Symbol, e.Token.Hex(), e.Err)
}

func (e *ApprovalError) Unwrap() error {
	return e.Err
}

// ExecutionError carries a batch submission failure verbatim. On-chain
// submissions are not safely idempotent, so there is no automatic retry.
type ExecutionError struct {
	TxHash common.Hash
	Err    error
}

func (e *ExecutionError) Error() string {
	if e.TxHash != (common.Hash{}) {
		return fmt.Sprintf("execution of %s: %s", e.TxHash.Hex(), e.Err)
	}
	return fmt.Sprintf("execution: %s", e.Err)
}

func (e *ExecutionError) Unwrap() error {
	return e.Err
}
