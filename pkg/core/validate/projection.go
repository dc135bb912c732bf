// Cross-checks over projection output. These verify the arithmetic
// identities the engine is supposed to maintain, so downstream
// consumers (reports, the advisor payload) can trust the numbers.
package validate

import (
	"fmt"
	"math"

	"mixeduse_planner/pkg/core/projection"
)

// ProjectionReport contains all consistency checks for one projection run.
type ProjectionReport struct {
	Horizon      int      `json:"horizon"`
	AllPassed    bool     `json:"all_passed"`
	FailedChecks []string `json:"failed_checks,omitempty"`
	Tolerance    float64  `json:"tolerance"`
}

// CheckProjection validates a projection result:
//   - every series has exactly horizon rows
//   - net = revenue - cost on every row
//   - cumulative articulates from the nets
//   - portfolio rows equal the elementwise sum across entities
func CheckProjection(res *projection.Result, tolerance float64) *ProjectionReport {
	report := &ProjectionReport{
		Horizon:   res.Horizon,
		AllPassed: true,
		Tolerance: tolerance,
	}
	fail := func(format string, args ...interface{}) {
		report.AllPassed = false
		report.FailedChecks = append(report.FailedChecks, fmt.Sprintf(format, args...))
	}

	for _, ep := range res.Entities {
		if len(ep.Rows) != res.Horizon {
			fail("entity %s: %d rows, want %d", ep.EntityID, len(ep.Rows), res.Horizon)
			continue
		}
		checkSeries(ep.EntityID, ep.Rows, tolerance, fail)
	}

	if len(res.Portfolio) != res.Horizon {
		fail("portfolio: %d rows, want %d", len(res.Portfolio), res.Horizon)
		return report
	}
	checkSeries("portfolio", res.Portfolio, tolerance, fail)

	// Portfolio must equal the elementwise sum of entity rows.
	for i, row := range res.Portfolio {
		var sumRev, sumCost float64
		for _, ep := range res.Entities {
			if i < len(ep.Rows) {
				sumRev += ep.Rows[i].Revenue
				sumCost += ep.Rows[i].Cost
			}
		}
		if math.Abs(row.Revenue-sumRev) > tolerance {
			fail("portfolio revenue year %d: %.6f, entities sum to %.6f", row.Year, row.Revenue, sumRev)
		}
		if math.Abs(row.Cost-sumCost) > tolerance {
			fail("portfolio cost year %d: %.6f, entities sum to %.6f", row.Year, row.Cost, sumCost)
		}
	}

	return report
}

func checkSeries(label string, rows []projection.Row, tolerance float64, fail func(string, ...interface{})) {
	var cum float64
	for _, row := range rows {
		if math.Abs(row.Net-(row.Revenue-row.Cost)) > tolerance {
			fail("%s year %d: net %.6f != revenue - cost %.6f", label, row.Year, row.Net, row.Revenue-row.Cost)
		}
		cum += row.Net
		if math.Abs(row.Cumulative-cum) > tolerance {
			fail("%s year %d: cumulative %.6f, running sum %.6f", label, row.Year, row.Cumulative, cum)
		}
	}
}

// CheckMonthlyCashFlow verifies that owner cash flow articulates from the
// store and property nets on every monthly row, and that the cumulative
// columns are running sums.
func CheckMonthlyCashFlow(rows []projection.MonthlyRow, tolerance float64) *ProjectionReport {
	report := &ProjectionReport{
		Horizon:   len(rows),
		AllPassed: true,
		Tolerance: tolerance,
	}
	fail := func(format string, args ...interface{}) {
		report.AllPassed = false
		report.FailedChecks = append(report.FailedChecks, fmt.Sprintf(format, args...))
	}

	var cumStore, cumProp, cumOwner float64
	for _, row := range rows {
		if math.Abs(row.OwnerCashFlow-(row.StoreNet+row.PropNet)) > tolerance {
			fail("month %d: owner cash flow %.2f != store %.2f + property %.2f", row.Month, row.OwnerCashFlow, row.StoreNet, row.PropNet)
		}
		cumStore += row.StoreNet
		cumProp += row.PropNet
		cumOwner += row.OwnerCashFlow
		if math.Abs(row.StoreCum-cumStore) > tolerance {
			fail("month %d: store cumulative %.2f, running sum %.2f", row.Month, row.StoreCum, cumStore)
		}
		if math.Abs(row.PropCum-cumProp) > tolerance {
			fail("month %d: property cumulative %.2f, running sum %.2f", row.Month, row.PropCum, cumProp)
		}
		if math.Abs(row.OwnerCum-cumOwner) > tolerance {
			fail("month %d: owner cumulative %.2f, running sum %.2f", row.Month, row.OwnerCum, cumOwner)
		}
	}

	return report
}
