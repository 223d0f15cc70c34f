package rebalancer

import (
	"context"
	"fmt"
	"math"
	"math/big"

	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	gethtypes "github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/event"
	"go.uber.org/zap"

	"github.com/devhb1/1nsync-sub000/circuitbreaker"
	"github.com/devhb1/1nsync-sub000/services/rebalancer/thirdparty"
	"github.com/devhb1/1nsync-sub000/services/rebalancer/token"
	"github.com/devhb1/1nsync-sub000/transactions"
)

// ChainBackend is the chain access the service needs: contract calls, gas
// estimation, transaction submission and receipt lookups. An ethclient
// satisfies it.
type ChainBackend interface {
	bind.ContractBackend
	TransactionReceipt(ctx context.Context, txHash common.Hash) (*gethtypes.Receipt, error)
}

// Service is the rebalancer engine. It owns no accounts and keeps no state
// between planning sessions, every call starts from a fresh snapshot.
type Service struct {
	config Config
	logger *zap.Logger
	feed   *event.Feed

	backend          ChainBackend
	registry         *token.Registry
	balanceProviders []thirdparty.BalanceProvider
	resolver         *QuoteResolver
	gasEstimator     *GasEstimator
	approvals        *ApprovalCoordinator
	transactor       *transactions.Transactor
	breaker          *circuitbreaker.CircuitBreaker
}

func NewService(
	config Config,
	backend ChainBackend,
	balanceProviders []thirdparty.BalanceProvider,
	quoteProviders []thirdparty.SwapQuoteProvider,
	feed *event.Feed,
	logger *zap.Logger,
) (*Service, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	logger = logger.Named("Rebalancer")

	return &Service{
		config:           config,
		logger:           logger,
		feed:             feed,
		backend:          backend,
		registry:         token.NewRegistry(backend, config.ChainID, config.TokenCacheTTL, logger),
		balanceProviders: balanceProviders,
		resolver:         NewQuoteResolver(quoteProviders, config, logger),
		gasEstimator:     NewGasEstimator(backend, config, logger),
		approvals:        NewApprovalCoordinator(backend, config, logger),
		transactor:       transactions.NewTransactor(backend, config.ChainID, logger),
		breaker: circuitbreaker.NewCircuitBreaker(circuitbreaker.Config{
			Timeout:                20000,
			MaxConcurrentRequests:  100,
			RequestVolumeThreshold: 25,
			SleepWindow:            300000,
			ErrorPercentThreshold:  25,
		}),
	}, nil
}

func (s *Service) Stop() {
	s.registry.Stop()
}

func (s *Service) Config() Config {
	return s.config
}

// FetchPortfolio takes the balance snapshot a planning session starts from.
// Providers are tried in order behind the circuit breaker.
func (s *Service) FetchPortfolio(ctx context.Context, owner common.Address) ([]Balance, float64, error) {
	cmd := circuitbreaker.NewCommand(ctx)
	for _, provider := range s.balanceProviders {
		provider := provider
		cmd.Add(circuitbreaker.NewAttempt(func() (any, error) {
			return provider.FetchBalances(ctx, owner)
		}, provider.ID()+"_fetchBalances"))
	}

	result := s.breaker.Execute(cmd)
	if result.Error() != nil {
		return nil, 0, result.Error()
	}

	items := result.Value().([]thirdparty.BalanceItem)
	tokens := make([]token.Token, len(items))
	raws := make([]*big.Int, len(items))
	prices := make([]float64, len(items))
	for i, item := range items {
		tokens[i] = token.Token{
			Address:  item.TokenAddress,
			Name:     item.Name,
			Symbol:   item.Symbol,
			Decimals: item.Decimals,
			ChainID:  s.config.ChainID,
			IconURL:  item.IconURL,
		}
		s.registry.Upsert(&tokens[i])
		if item.RawBalance != nil {
			raws[i] = item.RawBalance.Int
		}
		prices[i] = item.USDPrice
	}

	balances, total := BuildBalances(tokens, raws, prices)
	return balances, total, nil
}

// PlanRebalance runs the full planning pipeline: classify, match, quote,
// compare gas. A plan with nothing to do comes back with NoRebalanceNeeded
// set, not as an error.
func (s *Service) PlanRebalance(ctx context.Context, owner common.Address, targets []AllocationTarget) (*BatchPlan, error) {
	if err := validateTargets(targets); err != nil {
		return nil, err
	}

	balances, totalUSD, err := s.FetchPortfolio(ctx, owner)
	if err != nil {
		return nil, err
	}

	return s.planFromSnapshot(ctx, owner, balances, totalUSD, targets)
}

// PlanRebalanceFromSnapshot plans against a snapshot the caller already
// holds, skipping the balance providers.
func (s *Service) PlanRebalanceFromSnapshot(ctx context.Context, owner common.Address, balances []Balance, totalUSD float64, targets []AllocationTarget) (*BatchPlan, error) {
	if err := validateTargets(targets); err != nil {
		return nil, err
	}
	return s.planFromSnapshot(ctx, owner, balances, totalUSD, targets)
}

func (s *Service) planFromSnapshot(ctx context.Context, owner common.Address, balances []Balance, totalUSD float64, targets []AllocationTarget) (*BatchPlan, error) {
	deficits, surpluses := PlanAllocations(balances, targets, totalUSD, s.config.MinSwapValueUSD)
	legs := GenerateInstructions(deficits, surpluses)

	if len(legs) == 0 {
		plan := &BatchPlan{NoRebalanceNeeded: true, NativeValue: new(big.Int)}
		plansTotal.WithLabelValues("no_rebalance").Inc()
		s.emit(EventRebalancePlanned, owner, plan)
		s.logger.Info("portfolio already within tolerance, no rebalance needed")
		return plan, nil
	}

	if len(legs) > s.config.MaxBatchSize {
		return nil, &PlanningError{
			Reason: fmt.Sprintf("%d legs exceed the batch limit of %d", len(legs), s.config.MaxBatchSize),
		}
	}

	resolved, excluded := s.resolver.ResolveQuotes(ctx, legs)
	if excluded != nil {
		s.logger.Warn("some legs excluded by quote failures", zap.Error(excluded))
	}

	plan := &BatchPlan{NativeValue: new(big.Int)}
	for _, leg := range resolved {
		if leg.Quoted() {
			plan.Legs = append(plan.Legs, leg)
			plan.TotalValueUSD += leg.ValueUSD
		} else {
			plan.ExcludedLegs = append(plan.ExcludedLegs, leg)
		}
	}

	if len(plan.Legs) == 0 {
		// every leg failed to quote, nothing is executable
		plan.NoRebalanceNeeded = false
		plansTotal.WithLabelValues("all_legs_excluded").Inc()
		s.emit(EventRebalancePlanned, owner, plan)
		return plan, nil
	}

	plan.NativeValue = NativeValue(plan.Legs)
	plan.GasComparison = s.gasEstimator.Compare(ctx, owner, plan.Legs, plan.NativeValue)

	plansTotal.WithLabelValues("planned").Inc()
	s.emit(EventRebalancePlanned, owner, plan)
	s.logger.Info("rebalance planned",
		zap.Int("legs", len(plan.Legs)),
		zap.Int("excluded", len(plan.ExcludedLegs)),
		zap.Float64("totalValueUsd", plan.TotalValueUSD),
		zap.String("recommendation", string(plan.GasComparison.Recommendation)))

	return plan, nil
}

func validateTargets(targets []AllocationTarget) error {
	if len(targets) == 0 {
		return &PlanningError{Reason: "no allocation targets"}
	}

	sum := 0.0
	for _, target := range targets {
		if target.TargetPercentage < 0 || target.TargetPercentage > 100 {
			return &PlanningError{
				Reason: fmt.Sprintf("target for %s out of range: %.2f%%", target.Token.Symbol, target.TargetPercentage),
			}
		}
		sum += target.TargetPercentage
	}
	if math.Abs(sum-100.0) > 0.01 {
		return &PlanningError{Reason: fmt.Sprintf("target percentages sum to %.2f%%, want 100%%", sum)}
	}
	return nil
}
