package rebalancer

import (
	"errors"
	"time"

	ethCommon "github.com/ethereum/go-ethereum/common"

	"github.com/devhb1/1nsync-sub000/services/rebalancer/common"
)

const (
	defaultMinSwapValueUSD        = 1.0
	defaultSlippageBasisPoints    = 100 // 1%
	defaultPriceImpactWarnPercent = 5.0
	defaultBatchRecommendPercent  = 10.0
	defaultQuoteConcurrency       = 4
	defaultMaxBatchSize           = 10

	defaultGasEstimateTimeout      = 5 * time.Second
	defaultApprovalConfirmTimeout  = 60 * time.Second
	defaultExecutionConfirmTimeout = 5 * time.Minute

	// fallback gas model, used when a live batch estimate is unavailable
	defaultBaseGas          = 21000
	defaultBatchOverheadGas = 35000
	defaultPerLegGas        = 150000
	defaultApprovalGas      = 45000

	defaultTokenCacheTTL = 10 * time.Minute
)

type Config struct {
	ChainID uint64 `json:"chainId"`

	// RouterAddress overrides the registry of deployed batch router
	// addresses, e.g. for a private deployment. Zero means look the router
	// up by chain id.
	RouterAddress ethCommon.Address `json:"routerAddress,omitempty"`

	// MinSwapValueUSD is the dead band around a perfectly balanced
	// allocation. Differences inside it are ignored.
	MinSwapValueUSD float64 `json:"minSwapValueUsd"`

	SlippageBasisPoints    uint64  `json:"slippageBasisPoints"`
	PriceImpactWarnPercent float64 `json:"priceImpactWarnPercent"`
	BatchRecommendPercent  float64 `json:"batchRecommendPercent"`

	QuoteConcurrency int `json:"quoteConcurrency"`
	MaxBatchSize     int `json:"maxBatchSize"`

	// UnlimitedApprovals switches approval amounts from the exact combined
	// leg total to MaxUint256.
	UnlimitedApprovals bool `json:"unlimitedApprovals"`

	GasEstimateTimeout      time.Duration `json:"gasEstimateTimeout"`
	ApprovalConfirmTimeout  time.Duration `json:"approvalConfirmTimeout"`
	ExecutionConfirmTimeout time.Duration `json:"executionConfirmTimeout"`

	BaseGas          uint64 `json:"baseGas"`
	BatchOverheadGas uint64 `json:"batchOverheadGas"`
	PerLegGas        uint64 `json:"perLegGas"`
	ApprovalGas      uint64 `json:"approvalGas"`

	TokenCacheTTL time.Duration `json:"tokenCacheTtl"`
}

func DefaultConfig() Config {
	return Config{
		ChainID:                 common.EthereumMainnet,
		MinSwapValueUSD:         defaultMinSwapValueUSD,
		SlippageBasisPoints:     defaultSlippageBasisPoints,
		PriceImpactWarnPercent:  defaultPriceImpactWarnPercent,
		BatchRecommendPercent:   defaultBatchRecommendPercent,
		QuoteConcurrency:        defaultQuoteConcurrency,
		MaxBatchSize:            defaultMaxBatchSize,
		GasEstimateTimeout:      defaultGasEstimateTimeout,
		ApprovalConfirmTimeout:  defaultApprovalConfirmTimeout,
		ExecutionConfirmTimeout: defaultExecutionConfirmTimeout,
		BaseGas:                 defaultBaseGas,
		BatchOverheadGas:        defaultBatchOverheadGas,
		PerLegGas:               defaultPerLegGas,
		ApprovalGas:             defaultApprovalGas,
		TokenCacheTTL:           defaultTokenCacheTTL,
	}
}

func (c Config) Validate() error {
	if c.ChainID == 0 {
		return errors.New("config: chain id is required")
	}
	if c.MinSwapValueUSD < 0 {
		return errors.New("config: minimum swap value must not be negative")
	}
	if c.SlippageBasisPoints >= 10000 {
		return errors.New("config: slippage must be below 100%")
	}
	if c.QuoteConcurrency <= 0 {
		return errors.New("config: quote concurrency must be positive")
	}
	if c.MaxBatchSize <= 0 {
		return errors.New("config: max batch size must be positive")
	}
	return nil
}
