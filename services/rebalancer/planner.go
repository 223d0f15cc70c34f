package rebalancer

import (
	"math"
	"math/big"
	"sort"
	"strings"

	"github.com/devhb1/1nsync-sub000/services/rebalancer/token"
)

// Balance is one position of the portfolio snapshot a planning session
// starts from. Instances are never mutated, a fresh snapshot supersedes them.
type Balance struct {
	Token      token.Token `json:"token"`
	RawBalance *big.Int    `json:"rawBalance"`
	Formatted  string      `json:"formatted"`
	USDPrice   float64     `json:"usdPrice"`
	USDValue   float64     `json:"usdValue"`
	Percentage float64     `json:"percentageOfPortfolio"`
}

// AllocationTarget pairs a token with the share of the portfolio the caller
// wants it to hold. The derived fields are filled by the planner, never
// supplied by the caller.
type AllocationTarget struct {
	Token            token.Token `json:"token"`
	TargetPercentage float64     `json:"targetPercentage"`

	TargetValueUSD  float64 `json:"targetValueUsd"`
	CurrentValueUSD float64 `json:"currentValueUsd"`
	DifferenceUSD   float64 `json:"differenceUsd"`
}

// Deficit is a target token currently under-allocated by NeedUSD.
type Deficit struct {
	Target   AllocationTarget `json:"target"`
	NeedUSD  float64          `json:"needUsd"`
	Priority int              `json:"priority"`
}

// Surplus is a held token currently over-allocated by AvailableUSD. Source
// is the balance the excess will be sold from.
type Surplus struct {
	Source       Balance `json:"source"`
	AvailableUSD float64 `json:"availableUsd"`
}

// PlanAllocations classifies every target as deficit, surplus or already
// balanced. Differences within ±minSwapValueUSD are ignored. Deficits are
// ordered by the caller-given target share descending (input order breaks
// ties), surpluses by magnitude descending. No swaps are generated here.
func PlanAllocations(balances []Balance, targets []AllocationTarget, totalUSD float64, minSwapValueUSD float64) ([]Deficit, []Surplus) {
	byToken := make(map[string]Balance, len(balances))
	for _, balance := range balances {
		byToken[strings.ToLower(balance.Token.Address.Hex())] = balance
	}

	var deficits []Deficit
	var surpluses []Surplus

	for _, target := range targets {
		target.TargetValueUSD = totalUSD * target.TargetPercentage / 100.0

		balance, held := byToken[strings.ToLower(target.Token.Address.Hex())]
		if held {
			target.CurrentValueUSD = balance.USDValue
		}
		target.DifferenceUSD = target.TargetValueUSD - target.CurrentValueUSD

		switch {
		case target.DifferenceUSD > minSwapValueUSD:
			deficits = append(deficits, Deficit{
				Target:  target,
				NeedUSD: target.DifferenceUSD,
			})
		case target.DifferenceUSD < -minSwapValueUSD && held:
			surpluses = append(surpluses, Surplus{
				Source:       balance,
				AvailableUSD: -target.DifferenceUSD,
			})
		}
	}

	// Held tokens absent from the target list are fully surplus.
	targeted := make(map[string]bool, len(targets))
	for _, target := range targets {
		targeted[strings.ToLower(target.Token.Address.Hex())] = true
	}
	for _, balance := range balances {
		if targeted[strings.ToLower(balance.Token.Address.Hex())] {
			continue
		}
		if balance.USDValue > minSwapValueUSD {
			surpluses = append(surpluses, Surplus{
				Source:       balance,
				AvailableUSD: balance.USDValue,
			})
		}
	}

	sort.SliceStable(deficits, func(i, j int) bool {
		return deficits[i].Target.TargetPercentage > deficits[j].Target.TargetPercentage
	})
	for i := range deficits {
		deficits[i].Priority = i
	}

	sort.SliceStable(surpluses, func(i, j int) bool {
		return surpluses[i].AvailableUSD > surpluses[j].AvailableUSD
	})

	return deficits, surpluses
}

// BuildBalances normalizes a raw snapshot into planning inputs, computing
// USD values and portfolio percentages. Returns the balances and the total
// portfolio value.
func BuildBalances(tokens []token.Token, rawBalances []*big.Int, usdPrices []float64) ([]Balance, float64) {
	balances := make([]Balance, 0, len(tokens))
	total := 0.0

	for i, tok := range tokens {
		raw := rawBalances[i]
		if raw == nil || raw.Sign() == 0 {
			continue
		}

		human := rawToHuman(raw, tok.Decimals)
		value := human * usdPrices[i]
		balances = append(balances, Balance{
			Token:      tok,
			RawBalance: new(big.Int).Set(raw),
			Formatted:  formatHuman(human),
			USDPrice:   usdPrices[i],
			USDValue:   value,
		})
		total += value
	}

	for i := range balances {
		if total > 0 {
			balances[i].Percentage = balances[i].USDValue / total * 100.0
		}
	}

	return balances, total
}

func rawToHuman(raw *big.Int, decimals uint) float64 {
	value := new(big.Float).SetInt(raw)
	scale := new(big.Float).SetInt(new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(decimals)), nil))
	human, _ := new(big.Float).Quo(value, scale).Float64()
	return human
}

func formatHuman(value float64) string {
	formatted := strings.TrimRight(strings.TrimRight(
		strings.TrimSpace(bigFloatString(value)), "0"), ".")
	if formatted == "" || formatted == "-" {
		return "0"
	}
	return formatted
}

func bigFloatString(value float64) string {
	if math.IsInf(value, 0) || math.IsNaN(value) {
		return "0"
	}
	return big.NewFloat(value).Text('f', 8)
}
