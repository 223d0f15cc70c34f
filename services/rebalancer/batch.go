package rebalancer

import (
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"

	"github.com/devhb1/1nsync-sub000/contracts/batchrouter"
)

// BatchPlan is the complete output of one planning session: the finalized
// legs, the pairs excluded by quote failures, and the gas verdict. Built
// once per session and discarded on re-planning.
type BatchPlan struct {
	Legs         []SwapInstruction `json:"legs"`
	ExcludedLegs []SwapInstruction `json:"excludedLegs,omitempty"`

	TotalValueUSD     float64       `json:"totalValueUsd"`
	NativeValue       *big.Int      `json:"nativeValue"`
	GasComparison     GasComparison `json:"gasComparison"`
	NoRebalanceNeeded bool          `json:"noRebalanceNeeded"`
}

// BatchCall is an executable description of the router invocation.
type BatchCall struct {
	RouterAddress common.Address              `json:"routerAddress"`
	Legs          []batchrouter.BatchSwapRouterLeg `json:"legs"`
	Recipient     common.Address              `json:"recipient"`
	Calldata      []byte                      `json:"calldata"`
	Value         *big.Int                    `json:"value"`
	GasLimit      uint64                      `json:"gasLimit"`
}

const gasLimitSafetyNumerator = 120 // +20% over the estimate

// BuildBatchCall assembles the router invocation from the finalized legs.
// A leg count above Config.MaxBatchSize is a PlanningError, legs are never
// dropped or split here; the caller must request multiple batches.
func BuildBatchCall(legs []SwapInstruction, recipient common.Address, gasEstimate uint64, config Config) (*BatchCall, error) {
	finalized := make([]SwapInstruction, 0, len(legs))
	for _, leg := range legs {
		if leg.Quoted() {
			finalized = append(finalized, leg)
		}
	}

	if len(finalized) == 0 {
		return nil, &PlanningError{Reason: "no executable legs"}
	}
	if len(finalized) > config.MaxBatchSize {
		return nil, &PlanningError{
			Reason: fmt.Sprintf("%d legs exceed the batch limit of %d", len(finalized), config.MaxBatchSize),
		}
	}

	router, err := routerAddress(config)
	if err != nil {
		return nil, &PlanningError{Reason: "no batch router on this chain", Err: err}
	}

	routerLegs := routerLegs(finalized)

	parsed, err := abi.JSON(strings.NewReader(batchrouter.BatchrouterABI))
	if err != nil {
		return nil, &PlanningError{Reason: "router abi", Err: err}
	}
	calldata, err := parsed.Pack("executeBatch", routerLegs, recipient)
	if err != nil {
		return nil, &PlanningError{Reason: "packing batch calldata", Err: err}
	}

	return &BatchCall{
		RouterAddress: router,
		Legs:          routerLegs,
		Recipient:     recipient,
		Calldata:      calldata,
		Value:         NativeValue(finalized),
		GasLimit:      gasEstimate * gasLimitSafetyNumerator / 100,
	}, nil
}

// routerAddress resolves the batch router the plan executes against: the
// configured override when one is set, the deployment registry otherwise.
func routerAddress(config Config) (common.Address, error) {
	if config.RouterAddress != (common.Address{}) {
		return config.RouterAddress, nil
	}
	return batchrouter.ContractAddress(config.ChainID)
}

// NativeValue sums the sell amounts of legs funded by the chain's native
// asset; that total must ride along as the call's value.
func NativeValue(legs []SwapInstruction) *big.Int {
	total := new(big.Int)
	for _, leg := range legs {
		if leg.FromToken.IsNative() {
			total.Add(total, leg.AmountRaw)
		}
	}
	return total
}

func routerLegs(legs []SwapInstruction) []batchrouter.BatchSwapRouterLeg {
	descriptors := make([]batchrouter.BatchSwapRouterLeg, 0, len(legs))
	for _, leg := range legs {
		if !leg.Quoted() {
			continue
		}
		minOut := leg.MinAmountOut
		if minOut == nil {
			minOut = new(big.Int)
		}
		descriptors = append(descriptors, batchrouter.BatchSwapRouterLeg{
			TokenIn:      leg.FromToken.Address,
			TokenOut:     leg.ToToken.Address,
			AmountIn:     leg.AmountRaw,
			MinAmountOut: minOut,
			RoutePayload: leg.RoutePayload,
		})
	}
	return descriptors
}
