package employee

import "time"

// Fixed salary-structure ratios applied to the entered annual gross.
const (
	basicRatio    = 0.5
	hraRatio      = 0.25
	ltaRatio      = 0.1
	flexibleRatio = 0.05
)

// DeriveSalary computes the component breakdown from an annual gross
// amount. Basic, HRA and LTA follow fixed ratios, special allowance is
// the remainder, and the flexible-benefits pool is tracked separately.
// Every monthly figure is its annual counterpart divided by twelve.
func DeriveSalary(annualGross float64) SalaryBreakdown {
	if annualGross <= 0 {
		return SalaryBreakdown{}
	}
	basic := annualGross * basicRatio
	hra := annualGross * hraRatio
	lta := annualGross * ltaRatio
	special := annualGross - basic - hra - lta
	flexible := annualGross * flexibleRatio

	return SalaryBreakdown{
		AnnualBasic:     basic,
		MonthlyBasic:    basic / 12,
		AnnualHRA:       hra,
		MonthlyHRA:      hra / 12,
		AnnualLTA:       lta,
		MonthlyLTA:      lta / 12,
		AnnualSpecial:   special,
		MonthlySpecial:  special / 12,
		AnnualFlexible:  flexible,
		MonthlyFlexible: flexible / 12,
	}
}

const lastDateOffsetDays = 5

// DeriveLastDate returns the agreement end date, five days after the
// joining date. An unparseable joining date yields an empty string.
func DeriveLastDate(joiningDate string) string {
	parsed, err := time.Parse("2006-01-02", joiningDate)
	if err != nil {
		return ""
	}
	return parsed.AddDate(0, 0, lastDateOffsetDays).Format("2006-01-02")
}
