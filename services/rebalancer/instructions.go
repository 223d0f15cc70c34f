package rebalancer

import (
	"math/big"

	"github.com/devhb1/1nsync-sub000/services/rebalancer/token"
)

// SwapInstruction is one planned leg of the batch. AmountRaw is denominated
// in the sell token's smallest unit and never exceeds the surplus it was
// drawn from. Quote, MinAmountOut and RoutePayload are attached later by the
// quote resolver.
type SwapInstruction struct {
	FromToken token.Token `json:"fromToken"`
	ToToken   token.Token `json:"toToken"`
	AmountRaw *big.Int    `json:"amountRaw"`
	ValueUSD  float64     `json:"valueUsd"`
	Priority  int         `json:"priority"`

	Quote        *Quote   `json:"quote,omitempty"`
	MinAmountOut *big.Int `json:"minAmountOut,omitempty"`
	RoutePayload []byte   `json:"routePayload,omitempty"`
	Error        string   `json:"error,omitempty"`
}

func (i *SwapInstruction) Quoted() bool {
	return i.Quote != nil && i.Error == ""
}

// candidateLeg is a USD-valued draw recorded during matching, before raw
// amounts are fixed.
type candidateLeg struct {
	surplusIndex int
	deficit      *Deficit
	valueUSD     float64
}

// GenerateInstructions matches surpluses to deficits with a deterministic
// greedy pass: deficits in priority order each drain surpluses in magnitude
// order, drawing min(need, available) per pair and skipping the pair whose
// sell and buy token coincide. USD draws are then converted to raw sell
// amounts by linear proportion of the surplus holding, floored. Draws too
// small for a single raw unit are dropped, and the per-surplus rounding
// remainder of the surviving draws is folded into the largest leg drawn from
// that surplus so their intended sell amount is consumed exactly. Residual
// unfunded deficits are omitted, no partial-fill leg is synthesized.
//
// Pure function: identical inputs produce identical legs in identical order.
func GenerateInstructions(deficits []Deficit, surpluses []Surplus) []SwapInstruction {
	remainingNeed := make([]float64, len(deficits))
	for i, deficit := range deficits {
		remainingNeed[i] = deficit.NeedUSD
	}
	remainingAvailable := make([]float64, len(surpluses))
	for i, surplus := range surpluses {
		remainingAvailable[i] = surplus.AvailableUSD
	}

	var candidates []candidateLeg
	for d := range deficits {
		for s := range surpluses {
			if remainingNeed[d] <= 0 {
				break
			}
			if remainingAvailable[s] <= 0 {
				continue
			}
			if surpluses[s].Source.Token.Address == deficits[d].Target.Token.Address {
				// same asset cannot fund its own deficit
				continue
			}

			draw := remainingNeed[d]
			if remainingAvailable[s] < draw {
				draw = remainingAvailable[s]
			}

			candidates = append(candidates, candidateLeg{
				surplusIndex: s,
				deficit:      &deficits[d],
				valueUSD:     draw,
			})
			remainingNeed[d] -= draw
			remainingAvailable[s] -= draw
		}
	}

	return settleRawAmounts(candidates, surpluses)
}

// settleRawAmounts converts USD draws into raw sell amounts per surplus and
// redistributes each surplus's rounding remainder onto its largest leg.
// Draws that floor to zero raw units are discarded before the remainder is
// computed; counting their USD towards the intended sell amount would fold
// raw units into the surviving legs that no leg's USD accounts for.
func settleRawAmounts(candidates []candidateLeg, surpluses []Surplus) []SwapInstruction {
	kept := make([]candidateLeg, 0, len(candidates))
	legs := make([]SwapInstruction, 0, len(candidates))
	for _, candidate := range candidates {
		source := surpluses[candidate.surplusIndex].Source
		raw := proportionalRaw(source.RawBalance, candidate.valueUSD, source.USDValue)
		if raw.Sign() <= 0 {
			continue
		}
		kept = append(kept, candidate)
		legs = append(legs, SwapInstruction{
			FromToken: source.Token,
			ToToken:   candidate.deficit.Target.Token,
			AmountRaw: raw,
			ValueUSD:  candidate.valueUSD,
			Priority:  candidate.deficit.Priority,
		})
	}

	for s := range surpluses {
		source := surpluses[s].Source

		drawnUSD := 0.0
		drawnRaw := new(big.Int)
		largest := -1
		for i, candidate := range kept {
			if candidate.surplusIndex != s {
				continue
			}
			drawnUSD += candidate.valueUSD
			drawnRaw.Add(drawnRaw, legs[i].AmountRaw)
			if largest == -1 || legs[i].AmountRaw.Cmp(legs[largest].AmountRaw) > 0 {
				largest = i
			}
		}
		if largest == -1 {
			continue
		}

		intendedRaw := proportionalRaw(source.RawBalance, drawnUSD, source.USDValue)
		remainder := new(big.Int).Sub(intendedRaw, drawnRaw)
		if remainder.Sign() != 0 {
			legs[largest].AmountRaw = new(big.Int).Add(legs[largest].AmountRaw, remainder)
		}
	}

	// the signed fold can zero a leg out at float edges
	finalized := legs[:0]
	for _, leg := range legs {
		if leg.AmountRaw.Sign() <= 0 {
			continue
		}
		finalized = append(finalized, leg)
	}
	return finalized
}

// proportionalRaw converts a USD slice of a holding into the token's raw
// units by linear proportion of the current balance, floored. No fresh price
// lookup is involved, the balance-to-value ratio of the snapshot is the only
// exchange rate used.
func proportionalRaw(balanceRaw *big.Int, sliceUSD, holdingUSD float64) *big.Int {
	if balanceRaw == nil || balanceRaw.Sign() <= 0 || sliceUSD <= 0 || holdingUSD <= 0 {
		return new(big.Int)
	}
	if sliceUSD >= holdingUSD {
		return new(big.Int).Set(balanceRaw)
	}

	value := new(big.Float).SetInt(balanceRaw)
	value.Mul(value, big.NewFloat(sliceUSD))
	value.Quo(value, big.NewFloat(holdingUSD))

	raw, _ := value.Int(nil)
	return raw
}
