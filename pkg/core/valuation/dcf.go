// Package valuation provides acquisition decision support over projected
// cash flows: discounted value, internal rate of return, and payback.
package valuation

import (
	"math"

	"mixeduse_planner/pkg/core/projection"
)

// DCFInput encapsulates the inputs for discounting a monthly cash flow series.
type DCFInput struct {
	InitialOutlay float64 // Cash invested at month 0 (down payment, closing costs)
	AnnualRate    float64 // Fractional discount rate, e.g. 0.08
}

// DCFResult holds the valuation outputs for the consolidated owner series.
type DCFResult struct {
	NPV          float64 `json:"npv"`
	IRR          float64 `json:"irr"`           // Fractional annual rate; NaN when no sign change
	PaybackMonth int     `json:"payback_month"` // First month cumulative covers the outlay; 0 if never
}

// Evaluate discounts the owner cash flow column of the monthly projection.
func Evaluate(rows []projection.MonthlyRow, input DCFInput) DCFResult {
	flows := make([]float64, len(rows))
	for i, r := range rows {
		flows[i] = r.OwnerCashFlow
	}
	return DCFResult{
		NPV:          NPV(flows, input.InitialOutlay, input.AnnualRate),
		IRR:          IRR(flows, input.InitialOutlay),
		PaybackMonth: Payback(flows, input.InitialOutlay),
	}
}

// NPV discounts monthly flows at the annual rate, netting the initial outlay.
// Flow i is received at the end of month i+1.
func NPV(flows []float64, initialOutlay, annualRate float64) float64 {
	monthly := annualRate / 12.0
	discount := 1.0
	pv := -initialOutlay
	for _, f := range flows {
		discount /= 1 + monthly
		pv += f * discount
	}
	return pv
}

// IRR finds the annual rate at which NPV is zero, by bisection over
// [-99%, 1000%]. Returns NaN when the series never changes sign.
func IRR(flows []float64, initialOutlay float64) float64 {
	lo, hi := -0.99, 10.0
	npvLo := NPV(flows, initialOutlay, lo)
	npvHi := NPV(flows, initialOutlay, hi)
	if npvLo*npvHi > 0 {
		return math.NaN()
	}
	for i := 0; i < 200; i++ {
		mid := (lo + hi) / 2
		v := NPV(flows, initialOutlay, mid)
		if math.Abs(v) < 1e-9 {
			return mid
		}
		if v*npvLo > 0 {
			lo, npvLo = mid, v
		} else {
			hi = mid
		}
	}
	return (lo + hi) / 2
}

// Payback returns the 1-based month in which undiscounted cumulative cash
// flow first covers the initial outlay, or 0 if it never does.
func Payback(flows []float64, initialOutlay float64) int {
	cum := -initialOutlay
	for i, f := range flows {
		cum += f
		if cum >= 0 {
			return i + 1
		}
	}
	return 0
}
