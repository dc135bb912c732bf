package scenario

// DetailInputs are the operating drivers of the monthly store + property
// model. Rates here are percent-denominated (5.0 == 5%/yr), matching how the
// planner UI collects them; the yearly engine's assumptions stay fractional.
type DetailInputs struct {
	// Global growth drivers
	Seasonality        [4]float64 `json:"seasonality"` // Quarterly factors, 1.0 == flat
	RevenueGrowthRate  float64    `json:"revenue_growth_rate"`
	ExpenseGrowthRate  float64    `json:"expense_growth_rate"`
	WageGrowthRate     float64    `json:"wage_growth_rate"`
	RentEscalationRate float64    `json:"rent_escalation_rate"`

	// Base store operation
	BaseRevenue    float64 `json:"base_revenue"`  // Monthly
	BaseCOGSPct    float64 `json:"base_cogs_pct"` // Fraction of revenue, e.g. 0.70
	OperatingHours int     `json:"operating_hours"`

	// Staffing
	ManagerSalary float64 `json:"manager_salary"` // Annual
	HourlyWage    float64 `json:"hourly_wage"`
	AvgStaff      float64 `json:"avg_staff"`

	// Fixed expenses (monthly)
	Utilities        float64 `json:"utilities"`
	Insurance        float64 `json:"insurance"`
	Maintenance      float64 `json:"maintenance"`
	Marketing        float64 `json:"marketing"`
	ProfessionalFees float64 `json:"professional_fees"`

	// Acquisition
	LoanAmount            float64 `json:"loan_amount"`
	InterestRate          float64 `json:"interest_rate"` // Percent, 5.0 == 5%
	AmortizationYears     int     `json:"amortization_years"`
	CommercialRentIncome  float64 `json:"commercial_rent_income"`  // Monthly; store expense, property income
	ResidentialRentIncome float64 `json:"residential_rent_income"` // Monthly

	// Incentive compensation
	IncentivePct    float64 `json:"incentive_pct"`    // 0-100
	IncentiveMetric string  `json:"incentive_metric"` // "None", "Revenue", "Net (NOI)"
	IncentiveFreq   string  `json:"incentive_freq"`   // "Annual", "Quarterly"
}
