package rebalancer

import (
	"context"
	"math/big"
	"strings"

	ethereum "github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"go.uber.org/zap"

	"github.com/devhb1/1nsync-sub000/contracts/batchrouter"
)

type Recommendation string

const (
	RecommendBatch      Recommendation = "batch"
	RecommendIndividual Recommendation = "individual"
)

// GasComparison is the batch-vs-individual verdict for a set of quoted legs.
type GasComparison struct {
	IndividualGas  uint64         `json:"individualGas"`
	BatchGas       uint64         `json:"batchGas"`
	SavingsGas     uint64         `json:"savingsGas"`
	SavingsPercent float64        `json:"savingsPercent"`
	Recommendation Recommendation `json:"recommendation"`

	// LiveEstimate tells whether BatchGas came from eth_estimateGas or from
	// the deterministic fallback model.
	LiveEstimate bool `json:"liveEstimate"`
}

type gasBackend interface {
	EstimateGas(ctx context.Context, msg ethereum.CallMsg) (uint64, error)
}

// GasEstimator compares aggregate per-leg gas against a batch execution
// estimate. The live estimate path may fail for any reason, the comparison
// itself never does.
type GasEstimator struct {
	backend gasBackend
	config  Config
	logger  *zap.Logger
}

func NewGasEstimator(backend gasBackend, config Config, logger *zap.Logger) *GasEstimator {
	return &GasEstimator{
		backend: backend,
		config:  config,
		logger:  logger.Named("GasEstimator"),
	}
}

// Compare sums the per-leg estimates of the quoted legs, estimates the batch
// alternative and recommends "batch" iff the savings percentage reaches the
// configured threshold. Savings are clamped at zero.
func (e *GasEstimator) Compare(ctx context.Context, owner common.Address, legs []SwapInstruction, nativeValue *big.Int) GasComparison {
	comparison := GasComparison{Recommendation: RecommendIndividual}

	legCount := 0
	for _, leg := range legs {
		if !leg.Quoted() {
			continue
		}
		legCount++
		comparison.IndividualGas += leg.Quote.GasEstimate
	}
	if legCount == 0 {
		return comparison
	}

	comparison.BatchGas, comparison.LiveEstimate = e.batchGas(ctx, owner, legs, nativeValue, legCount)

	if comparison.IndividualGas > comparison.BatchGas {
		comparison.SavingsGas = comparison.IndividualGas - comparison.BatchGas
		comparison.SavingsPercent = float64(comparison.SavingsGas) / float64(comparison.IndividualGas) * 100.0
	}
	if comparison.SavingsPercent >= e.config.BatchRecommendPercent {
		comparison.Recommendation = RecommendBatch
	}

	gasSavingsPercent.Observe(comparison.SavingsPercent)
	recommendationsTotal.WithLabelValues(string(comparison.Recommendation)).Inc()

	return comparison
}

// batchGas tries a live estimate against the router first and degrades
// silently to the deterministic model. The fallback path cannot fail.
func (e *GasEstimator) batchGas(ctx context.Context, owner common.Address, legs []SwapInstruction, nativeValue *big.Int, legCount int) (uint64, bool) {
	if estimate, err := e.liveBatchGas(ctx, owner, legs, nativeValue); err == nil {
		return estimate, true
	} else {
		e.logger.Debug("live batch estimate unavailable, using fallback model", zap.Error(err))
	}
	return e.fallbackBatchGas(legCount), false
}

func (e *GasEstimator) liveBatchGas(ctx context.Context, owner common.Address, legs []SwapInstruction, nativeValue *big.Int) (uint64, error) {
	router, err := routerAddress(e.config)
	if err != nil {
		return 0, err
	}

	parsed, err := abi.JSON(strings.NewReader(batchrouter.BatchrouterABI))
	if err != nil {
		return 0, err
	}
	calldata, err := parsed.Pack("executeBatch", routerLegs(legs), owner)
	if err != nil {
		return 0, err
	}

	ctx, cancel := context.WithTimeout(ctx, e.config.GasEstimateTimeout)
	defer cancel()

	return e.backend.EstimateGas(ctx, ethereum.CallMsg{
		From:  owner,
		To:    &router,
		Value: nativeValue,
		Data:  calldata,
	})
}

// fallbackBatchGas assumes roughly a quarter of the legs need a fresh
// approval.
func (e *GasEstimator) fallbackBatchGas(legCount int) uint64 {
	n := uint64(legCount)
	return e.config.BaseGas +
		e.config.BatchOverheadGas +
		n*e.config.PerLegGas +
		(n/4)*e.config.ApprovalGas
}
