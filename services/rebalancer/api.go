package rebalancer

import (
	"context"

	"github.com/ethereum/go-ethereum/common"
)

func NewAPI(s *Service) *API {
	return &API{s: s}
}

// API is the consumer-facing surface of the rebalancer service.
type API struct {
	s *Service
}

// GetPortfolio returns the current snapshot with USD values and portfolio
// percentages filled in.
func (api *API) GetPortfolio(ctx context.Context, owner common.Address) ([]Balance, error) {
	balances, _, err := api.s.FetchPortfolio(ctx, owner)
	return balances, err
}

// PlanRebalance produces a fresh plan for the given targets.
func (api *API) PlanRebalance(ctx context.Context, owner common.Address, targets []AllocationTarget) (*BatchPlan, error) {
	return api.s.PlanRebalance(ctx, owner, targets)
}

// GetRequiredApprovals previews the allowance shortfalls the plan's legs
// would have to cover towards the batch router.
func (api *API) GetRequiredApprovals(ctx context.Context, owner common.Address, plan *BatchPlan) ([]ApprovalRequirement, error) {
	if plan == nil || len(plan.Legs) == 0 {
		return nil, nil
	}
	router, err := routerAddress(api.s.config)
	if err != nil {
		return nil, &PlanningError{Reason: "no batch router on this chain", Err: err}
	}
	return api.s.approvals.RequiredApprovals(ctx, owner, router, plan.Legs)
}
