package projection_test

import (
	"math"
	"testing"

	"mixeduse_planner/pkg/core/projection"
	"mixeduse_planner/pkg/core/scenario"
)

// flatDetail returns operating inputs with no growth and no seasonality so a
// single month is hand-checkable.
func flatDetail() *scenario.DetailInputs {
	return &scenario.DetailInputs{
		Seasonality:           [4]float64{1, 1, 1, 1},
		BaseRevenue:           10000,
		BaseCOGSPct:           0.50,
		OperatingHours:        10,
		ManagerSalary:         24000, // 2000/mo
		HourlyWage:            10,
		AvgStaff:              1,
		Utilities:             100,
		Insurance:             100,
		Maintenance:           100,
		Marketing:             100,
		ProfessionalFees:      100,
		LoanAmount:            100000,
		InterestRate:          0, // Straight-line: 100k / 120 = 833.33/mo
		AmortizationYears:     10,
		CommercialRentIncome:  1000,
		ResidentialRentIncome: 500,
	}
}

func detailScenario() *scenario.Scenario {
	s := scenario.New("detail", 2026)
	s.Detail = flatDetail()
	return s
}

func TestMonthlyPayment(t *testing.T) {
	// Zero interest: 120k over 10 years = 1000/mo.
	if got := projection.MonthlyPayment(120000, 0, 10); math.Abs(got-1000) > 0.01 {
		t.Errorf("zero-interest payment: got %v, want 1000", got)
	}
	// Standard mortgage: 100k, 5%, 30y ~= 536.82/mo.
	if got := projection.MonthlyPayment(100000, 5.0, 30); math.Abs(got-536.82) > 0.05 {
		t.Errorf("5%%/30y payment: got %v, want ~536.82", got)
	}
	if got := projection.MonthlyPayment(0, 5.0, 30); got != 0 {
		t.Errorf("zero principal should pay 0, got %v", got)
	}
}

func TestProjectMonthly_BaseMonth(t *testing.T) {
	rows, err := projection.ProjectMonthly(detailScenario(), 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	row := rows[0]

	if row.StoreRevenue != 10000 {
		t.Errorf("revenue: got %v, want 10000", row.StoreRevenue)
	}
	if row.StoreCOGS != 5000 {
		t.Errorf("cogs: got %v, want 5000", row.StoreCOGS)
	}
	// Labor: manager 24000/12 = 2000; staff 10/hr * 1 * 10h * 30.5d = 3050.
	if math.Abs(row.StoreLabor-5050) > 0.01 {
		t.Errorf("labor: got %v, want 5050", row.StoreLabor)
	}
	if row.StoreOpsEx != 500 {
		t.Errorf("ops: got %v, want 500", row.StoreOpsEx)
	}
	if row.StoreRentEx != 1000 {
		t.Errorf("rent: got %v, want 1000", row.StoreRentEx)
	}
	// Store net = 10000 - 5000 - 5050 - 500 - 1000 = -1550.
	if math.Abs(row.StoreNet-(-1550)) > 0.01 {
		t.Errorf("store net: got %v, want -1550", row.StoreNet)
	}

	// Property: income 1000 + 500; debt 100000/120 = 833.33.
	wantDebt := 100000.0 / 120.0
	if math.Abs(row.PropDebt-wantDebt) > 0.01 {
		t.Errorf("debt: got %v, want %v", row.PropDebt, wantDebt)
	}
	wantPropNet := 1500 - wantDebt
	if math.Abs(row.PropNet-wantPropNet) > 0.01 {
		t.Errorf("prop net: got %v, want %v", row.PropNet, wantPropNet)
	}
	if math.Abs(row.OwnerCashFlow-(row.StoreNet+row.PropNet)) > 1e-9 {
		t.Errorf("owner cash flow is not store + property: %+v", row)
	}
}

func TestProjectMonthly_Seasonality(t *testing.T) {
	s := detailScenario()
	s.Detail.Seasonality = [4]float64{0.5, 1.0, 1.5, 1.0}
	rows, err := projection.ProjectMonthly(s, 12)
	if err != nil {
		t.Fatal(err)
	}
	// Month 1 (Q1, factor 0.5): revenue halves.
	if rows[0].StoreRevenue != 5000 {
		t.Errorf("Q1 revenue: got %v, want 5000", rows[0].StoreRevenue)
	}
	// Month 7 (Q3, factor 1.5).
	if rows[6].StoreRevenue != 15000 {
		t.Errorf("Q3 revenue: got %v, want 15000", rows[6].StoreRevenue)
	}
	// Hourly staffing flexes by half the swing: Q1 factor 1+(0.5-1)*0.5 = 0.75.
	// Labor = 2000 (manager, fixed) + 3050 * 0.75 = 4287.5.
	if math.Abs(rows[0].StoreLabor-4287.5) > 0.01 {
		t.Errorf("Q1 labor: got %v, want 4287.5", rows[0].StoreLabor)
	}
}

func TestProjectMonthly_AnnualGrowthStepsAtYearTwo(t *testing.T) {
	s := detailScenario()
	s.Detail.RevenueGrowthRate = 10
	s.Detail.ExpenseGrowthRate = 5
	s.Detail.RentEscalationRate = 2
	rows, err := projection.ProjectMonthly(s, 13)
	if err != nil {
		t.Fatal(err)
	}
	m1, m13 := rows[0], rows[12]

	if math.Abs(m13.StoreRevenue-m1.StoreRevenue*1.10) > 0.01 {
		t.Errorf("year-2 revenue: got %v, want %v", m13.StoreRevenue, m1.StoreRevenue*1.10)
	}
	if math.Abs(m13.StoreRentEx-1020) > 0.01 {
		t.Errorf("year-2 rent: got %v, want 1020", m13.StoreRentEx)
	}
	if math.Abs(m13.StoreOpsEx-525) > 0.01 {
		t.Errorf("year-2 ops: got %v, want 525", m13.StoreOpsEx)
	}
	// Rent is linked: property commercial income equals store rent expense.
	if m13.PropIncomeComm != m13.StoreRentEx {
		t.Errorf("commercial rent link broken: %v != %v", m13.PropIncomeComm, m13.StoreRentEx)
	}
}

func TestProjectMonthly_EventsAndAttribution(t *testing.T) {
	s := detailScenario()
	s.Events = []scenario.Event{
		{Name: "New product revenue", StartMonth: 6, Frequency: scenario.FreqMonthly,
			Target: scenario.TargetRevenue, ValueType: scenario.ValueFixed, Value: 1000,
			Affected: scenario.AffectStore, Active: true},
		{Name: "New product cost", StartMonth: 6, Frequency: scenario.FreqMonthly,
			Target: scenario.TargetOps, ValueType: scenario.ValueFixed, Value: 500,
			Affected: scenario.AffectStore, Active: true},
		{Name: "Roof repair", StartMonth: 6, Frequency: scenario.FreqMonthly,
			Target: scenario.TargetOps, ValueType: scenario.ValueFixed, Value: 100,
			Affected: scenario.AffectProperty, Active: true},
	}
	rows, err := projection.ProjectMonthly(s, 6)
	if err != nil {
		t.Fatal(err)
	}
	m5, m6 := rows[4], rows[5]

	if math.Abs(m6.StoreRevenue-(m5.StoreRevenue+1000)) > 0.01 {
		t.Errorf("revenue event not applied: m5=%v m6=%v", m5.StoreRevenue, m6.StoreRevenue)
	}
	// Store ops picks up only the store event; the property event lands on
	// the property side.
	if math.Abs(m6.StoreOpsEx-(m5.StoreOpsEx+500)) > 0.01 {
		t.Errorf("store ops event: m5=%v m6=%v", m5.StoreOpsEx, m6.StoreOpsEx)
	}
	if math.Abs(m6.PropOpsEx-100) > 0.01 {
		t.Errorf("property ops event: got %v, want 100", m6.PropOpsEx)
	}
}

func TestProjectMonthly_OneTimeEventFiresOnce(t *testing.T) {
	s := detailScenario()
	s.Events = []scenario.Event{
		{Name: "Kitchen remodel", StartMonth: 3, Frequency: scenario.FreqOneTime,
			Target: scenario.TargetCapex, ValueType: scenario.ValueFixed, Value: 25000,
			Affected: scenario.AffectStore, Active: true},
	}
	rows, err := projection.ProjectMonthly(s, 6)
	if err != nil {
		t.Fatal(err)
	}
	for _, r := range rows {
		want := 0.0
		if r.Month == 3 {
			want = 25000
		}
		if r.Capex != want {
			t.Errorf("month %d capex: got %v, want %v", r.Month, r.Capex, want)
		}
	}
	// Capex hits store net but not NOI-style expense lines.
	if math.Abs(rows[2].StoreNet-(rows[1].StoreNet-25000)) > 0.01 {
		t.Errorf("capex should reduce store net by 25000: m2=%v m3=%v", rows[1].StoreNet, rows[2].StoreNet)
	}
}

func TestProjectMonthly_InactiveEventIgnored(t *testing.T) {
	s := detailScenario()
	s.Events = []scenario.Event{
		{Name: "Disabled", StartMonth: 1, Frequency: scenario.FreqMonthly,
			Target: scenario.TargetRevenue, ValueType: scenario.ValueFixed, Value: 9999,
			Affected: scenario.AffectStore, Active: false},
	}
	rows, err := projection.ProjectMonthly(s, 1)
	if err != nil {
		t.Fatal(err)
	}
	if rows[0].StoreRevenue != 10000 {
		t.Errorf("inactive event leaked into revenue: %v", rows[0].StoreRevenue)
	}
}

func TestProjectMonthly_AnnualIncentivePaysInDecember(t *testing.T) {
	s := detailScenario()
	s.Detail.IncentivePct = 1.0 // 1% of revenue
	s.Detail.IncentiveMetric = "Revenue"
	s.Detail.IncentiveFreq = "Annual"
	rows, err := projection.ProjectMonthly(s, 24)
	if err != nil {
		t.Fatal(err)
	}
	// 12 flat months of 10000 revenue accumulate 120000; 1% = 1200 paid in
	// month 12, nothing in the other months, and the accumulator resets.
	for _, r := range rows {
		want := 0.0
		if r.Month == 12 || r.Month == 24 {
			want = 1200
		}
		if math.Abs(r.StoreBonus-want) > 0.01 {
			t.Errorf("month %d bonus: got %v, want %v", r.Month, r.StoreBonus, want)
		}
	}
}

func TestProjectMonthly_NegativeNOIPaysNoBonus(t *testing.T) {
	s := detailScenario()
	// Flat inputs already produce a negative store NOI (-1550/mo).
	s.Detail.IncentivePct = 10
	s.Detail.IncentiveMetric = "Net (NOI)"
	s.Detail.IncentiveFreq = "Quarterly"
	rows, err := projection.ProjectMonthly(s, 3)
	if err != nil {
		t.Fatal(err)
	}
	if rows[2].StoreBonus != 0 {
		t.Errorf("negative NOI basis must pay no bonus, got %v", rows[2].StoreBonus)
	}
}

func TestProjectMonthly_RequiresDetail(t *testing.T) {
	s := scenario.New("no detail", 2026)
	_, err := projection.ProjectMonthly(s, 12)
	if err == nil {
		t.Fatal("expected configuration error when detail inputs missing")
	}
	if _, ok := err.(*scenario.ConfigurationError); !ok {
		t.Errorf("expected *ConfigurationError, got %T", err)
	}
}

func TestProjectMonthly_DefaultHorizon(t *testing.T) {
	rows, err := projection.ProjectMonthly(detailScenario(), 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != projection.DefaultMonths {
		t.Errorf("default horizon: got %d rows, want %d", len(rows), projection.DefaultMonths)
	}
}
