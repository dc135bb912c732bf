package projection

import (
	"math"

	"mixeduse_planner/pkg/core/entity"
	"mixeduse_planner/pkg/core/scenario"
)

// DefaultMonths is the standard monthly horizon (10 years).
const DefaultMonths = 120

// DaysInMonth is the staffing-hours convention used by the labor build-up.
const DaysInMonth = 30.5

// Share of the seasonality swing that hourly staffing absorbs. Manager cost
// is fixed; hourly hours flex by half the revenue swing.
const laborFlex = 0.5

// MonthlyRow is one month of the detailed store + property operating model.
// All expense columns are positive magnitudes; nets are signed.
type MonthlyRow struct {
	Month   int `json:"month"` // 1-based
	Year    int `json:"year"`  // 1-based
	Quarter int `json:"quarter"`

	// Store
	StoreRevenue float64 `json:"store_revenue"`
	StoreCOGS    float64 `json:"store_cogs"`
	StoreLabor   float64 `json:"store_labor"` // Includes bonus payout
	StoreBonus   float64 `json:"store_bonus"`
	StoreOpsEx   float64 `json:"store_ops_ex"`
	ExUtilities  float64 `json:"ex_utilities"`
	ExInsurance  float64 `json:"ex_insurance"`
	ExMaint      float64 `json:"ex_maintenance"`
	ExMarketing  float64 `json:"ex_marketing"`
	ExProfFees   float64 `json:"ex_professional_fees"`
	StoreRentEx  float64 `json:"store_rent_ex"`
	StoreNet     float64 `json:"store_net"`
	StoreCum     float64 `json:"store_cum"`

	// Property
	PropIncomeComm float64 `json:"prop_income_commercial"`
	PropIncomeRes  float64 `json:"prop_income_residential"`
	PropDebt       float64 `json:"prop_debt"`
	PropOpsEx      float64 `json:"prop_ops_ex"`
	PropNet        float64 `json:"prop_net"`
	PropCum        float64 `json:"prop_cum"`

	// Consolidated owner view
	OwnerCashFlow float64 `json:"owner_cash_flow"`
	OwnerCum      float64 `json:"owner_cum"`
	Capex         float64 `json:"capex"`
}

// monthImpacts accumulates the event adjustments for a single month.
type monthImpacts struct {
	revenue    float64
	cogs       float64
	labor      float64
	storeOps   float64
	propOps    float64
	rent       float64
	storeCapex float64
	propCapex  float64
}

// ProjectMonthly runs the detailed operating model over the given number of
// months (DefaultMonths when months <= 0). The scenario must carry
// DetailInputs. Like Project, this is stateless and idempotent.
func ProjectMonthly(s *scenario.Scenario, months int) ([]MonthlyRow, error) {
	if s == nil {
		return nil, &entity.ValidationError{Field: "scenario", Reason: "nil scenario"}
	}
	if s.Detail == nil {
		return nil, &scenario.ConfigurationError{Field: "detail", Reason: "monthly model inputs missing"}
	}
	if months <= 0 {
		months = DefaultMonths
	}
	det := s.Detail
	if det.BaseRevenue < 0 || det.BaseCOGSPct < 0 || det.BaseCOGSPct > 1 {
		return nil, &scenario.ConfigurationError{Field: "detail", Reason: "base revenue must be non-negative and COGS fraction within [0, 1]"}
	}
	for i := range s.Events {
		if err := s.Events[i].Validate(); err != nil {
			return nil, err
		}
	}

	debtService := MonthlyPayment(det.LoanAmount, det.InterestRate, det.AmortizationYears)

	rows := make([]MonthlyRow, 0, months)
	var cumStore, cumProp, cumOwner float64
	var accRevPeriod, accNOIPeriod float64

	for m := 1; m <= months; m++ {
		yearIdx := (m - 1) / 12
		monthInYear := (m - 1) % 12
		quarterIdx := monthInYear / 3

		// Growth factors compound annually, stepping each January.
		revGrowth := math.Pow(1+det.RevenueGrowthRate/100.0, float64(yearIdx))
		expGrowth := math.Pow(1+det.ExpenseGrowthRate/100.0, float64(yearIdx))
		wageGrowth := math.Pow(1+det.WageGrowthRate/100.0, float64(yearIdx))
		rentGrowth := math.Pow(1+det.RentEscalationRate/100.0, float64(yearIdx))
		seasonal := det.Seasonality[quarterIdx]
		if seasonal == 0 {
			seasonal = 1.0
		}

		// --- Store operation, base amounts ---
		baseRev := det.BaseRevenue * revGrowth * seasonal
		baseCOGS := det.BaseRevenue * det.BaseCOGSPct * revGrowth * seasonal

		managerMonthly := (det.ManagerSalary / 12.0) * wageGrowth
		staffBase := det.HourlyWage * wageGrowth * det.AvgStaff * float64(det.OperatingHours) * DaysInMonth
		laborSeasonal := 1 + (seasonal-1)*laborFlex
		storeLabor := managerMonthly + staffBase*laborSeasonal

		exUtil := det.Utilities * expGrowth
		exIns := det.Insurance * expGrowth
		exMaint := det.Maintenance * expGrowth
		exMktg := det.Marketing * expGrowth
		exProf := det.ProfessionalFees * expGrowth
		storeOps := exUtil + exIns + exMaint + exMktg + exProf

		storeRent := det.CommercialRentIncome * rentGrowth

		// --- Events ---
		// Percent values resolve against the month's pre-event base amounts,
		// so event ordering is irrelevant.
		impacts := applyEvents(s.Events, m, baseRev, baseCOGS, storeOps)

		storeRevenue := baseRev + impacts.revenue
		storeCOGS := baseCOGS + impacts.cogs
		storeLabor += impacts.labor
		storeOps += impacts.storeOps
		storeRent += impacts.rent
		propOps := impacts.propOps

		// --- Incentive compensation ---
		noiPreBonus := storeRevenue - (storeCOGS + storeLabor + storeOps + storeRent)
		accRevPeriod += storeRevenue
		accNOIPeriod += noiPreBonus

		bonus := 0.0
		if det.IncentivePct > 0 && det.IncentiveMetric != "" && det.IncentiveMetric != "None" {
			payoutDue := false
			switch det.IncentiveFreq {
			case "Quarterly":
				payoutDue = m%3 == 0
			default: // Annual
				payoutDue = monthInYear == 11
			}
			if payoutDue {
				basis := accRevPeriod
				if det.IncentiveMetric == "Net (NOI)" {
					basis = accNOIPeriod
				}
				// A negative basis pays no bonus.
				if basis > 0 {
					bonus = basis * (det.IncentivePct / 100.0)
				}
				accRevPeriod = 0
				accNOIPeriod = 0
			}
		}

		storeNet := noiPreBonus - bonus - impacts.storeCapex

		// --- Property operation ---
		// Commercial rent is linked: the store's rent expense is the
		// property's income.
		propComm := storeRent
		propRes := det.ResidentialRentIncome * rentGrowth
		propNet := (propComm + propRes) - debtService - propOps - impacts.propCapex

		consolidated := storeNet + propNet
		cumStore += storeNet
		cumProp += propNet
		cumOwner += consolidated

		rows = append(rows, MonthlyRow{
			Month:          m,
			Year:           yearIdx + 1,
			Quarter:        quarterIdx + 1,
			StoreRevenue:   storeRevenue,
			StoreCOGS:      storeCOGS,
			StoreLabor:     storeLabor + bonus,
			StoreBonus:     bonus,
			StoreOpsEx:     storeOps,
			ExUtilities:    exUtil,
			ExInsurance:    exIns,
			ExMaint:        exMaint,
			ExMarketing:    exMktg,
			ExProfFees:     exProf,
			StoreRentEx:    storeRent,
			StoreNet:       storeNet,
			StoreCum:       cumStore,
			PropIncomeComm: propComm,
			PropIncomeRes:  propRes,
			PropDebt:       debtService,
			PropOpsEx:      propOps,
			PropNet:        propNet,
			PropCum:        cumProp,
			OwnerCashFlow:  consolidated,
			OwnerCum:       cumOwner,
			Capex:          impacts.storeCapex + impacts.propCapex,
		})
	}

	return rows, nil
}

func applyEvents(events []scenario.Event, month int, baseRev, baseCOGS, baseOps float64) monthImpacts {
	var imp monthImpacts
	for i := range events {
		e := &events[i]
		if !e.AppliesAt(month) {
			continue
		}

		val := 0.0
		switch e.ValueType {
		case scenario.ValueFixed:
			val = e.Value
		case scenario.ValuePctOfRev:
			val = baseRev * (e.Value / 100.0)
		case scenario.ValuePctOfCOGS:
			val = baseCOGS * (e.Value / 100.0)
		case scenario.ValuePctOfOps:
			val = baseOps * (e.Value / 100.0)
		}

		switch e.Target {
		case scenario.TargetRevenue:
			imp.revenue += val
		case scenario.TargetCOGS:
			imp.cogs += val
		case scenario.TargetLabor:
			imp.labor += val
		case scenario.TargetOps:
			if e.Affected == scenario.AffectProperty {
				imp.propOps += val
			} else {
				imp.storeOps += val
			}
		case scenario.TargetRent:
			imp.rent += val
		case scenario.TargetCapex:
			if e.Affected == scenario.AffectProperty {
				imp.propCapex += val
			} else {
				imp.storeCapex += val
			}
		}
	}
	return imp
}
