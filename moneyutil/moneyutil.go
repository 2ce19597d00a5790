package moneyutil

import "github.com/shopspring/decimal"

// Round2 rounds a monetary value to 2 decimal places, half away from zero.
// All amounts and budgets pass through here before being persisted or
// returned, so stored values never carry sub-cent precision.
func Round2(v float64) float64 {
	f, _ := decimal.NewFromFloat(v).Round(2).Float64()
	return f
}

// UtilizationPercent formats spent/budget as "NN.NN%". A zero budget yields
// the literal "0%".
func UtilizationPercent(spent, budget float64) string {
	if budget <= 0 {
		return "0%"
	}
	pct := decimal.NewFromFloat(spent).
		Div(decimal.NewFromFloat(budget)).
		Mul(decimal.NewFromInt(100))
	return pct.StringFixed(2) + "%"
}
