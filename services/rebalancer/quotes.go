package rebalancer

import (
	"context"
	"errors"
	"math/big"
	"sync"

	"github.com/ethereum/go-ethereum/common"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/devhb1/1nsync-sub000/circuitbreaker"
	"github.com/devhb1/1nsync-sub000/services/rebalancer/thirdparty"
)

// Quote is the transient, short-lived quote attached to a leg after
// resolution. Prices move, quotes are never reused across sessions.
type Quote struct {
	ExpectedOutputRaw  *big.Int `json:"expectedOutputRaw"`
	PriceImpactPercent float64  `json:"priceImpactPercent"`
	GasEstimate        uint64   `json:"gasEstimate"`
	RouteLabels        []string `json:"routeLabels,omitempty"`

	// HighPriceImpact flags an impact above the configured warn threshold.
	// A warning only, the leg still proceeds.
	HighPriceImpact bool `json:"highPriceImpact,omitempty"`
}

// QuoteResolver fans quote requests out to the configured providers behind
// a circuit breaker. Failures stay per-leg: a failing leg is marked and
// excluded while its siblings proceed.
type QuoteResolver struct {
	providers []thirdparty.SwapQuoteProvider
	breaker   *circuitbreaker.CircuitBreaker
	config    Config
	logger    *zap.Logger
}

func NewQuoteResolver(providers []thirdparty.SwapQuoteProvider, config Config, logger *zap.Logger) *QuoteResolver {
	return &QuoteResolver{
		providers: providers,
		breaker: circuitbreaker.NewCircuitBreaker(circuitbreaker.Config{
			Timeout:                20000,
			MaxConcurrentRequests:  100,
			RequestVolumeThreshold: 25,
			SleepWindow:            300000,
			ErrorPercentThreshold:  25,
		}),
		config: config,
		logger: logger.Named("QuoteResolver"),
	}
}

// ResolveQuotes quotes every leg with at most Config.QuoteConcurrency
// requests in flight. Results are gathered as a settled collection: one
// leg's failure never cancels its siblings. Quoted legs get MinAmountOut =
// floor(expectedOut x (1 - slippage)) attached, failed legs carry their
// error and are kept for diagnostics. The aggregate error lists every
// excluded pair and is informational, not fatal.
func (r *QuoteResolver) ResolveQuotes(ctx context.Context, legs []SwapInstruction) ([]SwapInstruction, error) {
	resolved := make([]SwapInstruction, len(legs))
	copy(resolved, legs)

	var wg sync.WaitGroup
	semaphore := make(chan struct{}, r.config.QuoteConcurrency)

	for i := range resolved {
		wg.Add(1)
		go func(leg *SwapInstruction) {
			defer wg.Done()
			semaphore <- struct{}{}
			defer func() { <-semaphore }()

			quote, err := r.fetchQuote(ctx, leg)
			if err != nil {
				leg.Error = err.Error()
				quoteFailuresTotal.Inc()
				r.logger.Warn("leg excluded, quote failed",
					zap.String("from", leg.FromToken.Symbol),
					zap.String("to", leg.ToToken.Symbol),
					zap.Error(err))
				return
			}

			leg.Quote = quote
			leg.MinAmountOut = applySlippage(quote.ExpectedOutputRaw, r.config.SlippageBasisPoints)
			if quote.HighPriceImpact {
				r.logger.Warn("high price impact",
					zap.String("from", leg.FromToken.Symbol),
					zap.String("to", leg.ToToken.Symbol),
					zap.Float64("impactPercent", quote.PriceImpactPercent))
			}
		}(&resolved[i])
	}
	wg.Wait()

	var excluded error
	for i := range resolved {
		if resolved[i].Error != "" {
			excluded = multierr.Append(excluded, &QuoteError{
				FromSymbol: resolved[i].FromToken.Symbol,
				ToSymbol:   resolved[i].ToToken.Symbol,
				Err:        errors.New(resolved[i].Error),
			})
		}
	}

	return resolved, excluded
}

func (r *QuoteResolver) fetchQuote(ctx context.Context, leg *SwapInstruction) (*Quote, error) {
	params := thirdparty.SwapQuoteParams{
		FromToken:    leg.FromToken.Address,
		ToToken:      leg.ToToken.Address,
		FromDecimals: leg.FromToken.Decimals,
		ToDecimals:   leg.ToToken.Decimals,
		AmountIn:     leg.AmountRaw,
	}

	cmd := circuitbreaker.NewCommand(ctx)
	for _, provider := range r.providers {
		provider := provider
		cmd.Add(circuitbreaker.NewAttempt(func() (any, error) {
			return provider.FetchSwapQuote(ctx, params)
		}, provider.ID()+"_fetchSwapQuote"))
	}

	result := r.breaker.Execute(cmd)
	if result.Error() != nil {
		return nil, result.Error()
	}

	quote := result.Value().(*thirdparty.SwapQuote)
	return &Quote{
		ExpectedOutputRaw:  quote.ExpectedOutputRaw,
		PriceImpactPercent: quote.PriceImpactPercent,
		GasEstimate:        quote.GasEstimate,
		RouteLabels:        quote.RouteLabels,
		HighPriceImpact:    quote.PriceImpactPercent > r.config.PriceImpactWarnPercent,
	}, nil
}

// BuildRoutePayloads asks a provider for executable calldata for every
// quoted leg. Legs whose build fails are excluded the same way quote
// failures are.
func (r *QuoteResolver) BuildRoutePayloads(ctx context.Context, owner, recipient common.Address, legs []SwapInstruction) ([]SwapInstruction, error) {
	built := make([]SwapInstruction, len(legs))
	copy(built, legs)

	var excluded error
	for i := range built {
		leg := &built[i]
		if !leg.Quoted() || len(leg.RoutePayload) > 0 {
			continue
		}

		params := thirdparty.BuildSwapParams{
			SwapQuoteParams: thirdparty.SwapQuoteParams{
				FromToken:    leg.FromToken.Address,
				ToToken:      leg.ToToken.Address,
				FromDecimals: leg.FromToken.Decimals,
				ToDecimals:   leg.ToToken.Decimals,
				AmountIn:     leg.AmountRaw,
			},
			FromAddress:         owner,
			Recipient:           recipient,
			SlippageBasisPoints: uint(r.config.SlippageBasisPoints),
		}

		cmd := circuitbreaker.NewCommand(ctx)
		for _, provider := range r.providers {
			provider := provider
			cmd.Add(circuitbreaker.NewAttempt(func() (any, error) {
				return provider.BuildSwapPayload(ctx, params)
			}, provider.ID()+"_buildSwapPayload"))
		}

		result := r.breaker.Execute(cmd)
		if result.Error() != nil {
			leg.Error = result.Error().Error()
			excluded = multierr.Append(excluded, &QuoteError{
				FromSymbol: leg.FromToken.Symbol,
				ToSymbol:   leg.ToToken.Symbol,
				Err:        result.Error(),
			})
			continue
		}

		leg.RoutePayload = result.Value().(*thirdparty.SwapPayload).Data
	}

	return built, excluded
}

// applySlippage floors expected x (1 - slippage) in integer basis points,
// never rounding in the caller's favor.
func applySlippage(expected *big.Int, slippageBasisPoints uint64) *big.Int {
	if expected == nil {
		return nil
	}
	out := new(big.Int).Mul(expected, new(big.Int).SetUint64(10000-slippageBasisPoints))
	return out.Quo(out, big.NewInt(10000))
}
