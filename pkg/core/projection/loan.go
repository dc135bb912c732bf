package projection

import "math"

// MonthlyPayment returns the level amortized payment for a loan. The rate is
// percent-denominated (5.0 == 5%/yr). A zero or negative rate degrades to
// straight-line principal repayment.
func MonthlyPayment(principal, annualRatePct float64, years int) float64 {
	if principal <= 0 || years <= 0 {
		return 0
	}
	n := float64(years * 12)
	if annualRatePct <= 0 {
		return principal / n
	}
	r := (annualRatePct / 100.0) / 12.0
	factor := math.Pow(1+r, n)
	return principal * (r * factor) / (factor - 1)
}
