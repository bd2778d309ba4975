package employee

import "testing"

func TestDeriveSalaryRatios(t *testing.T) {
	gross := 1200000.0
	breakdown := DeriveSalary(gross)

	if breakdown.AnnualBasic != gross/2 {
		t.Fatalf("expected basic %v, got %v", gross/2, breakdown.AnnualBasic)
	}
	if breakdown.AnnualHRA != gross/4 {
		t.Fatalf("expected HRA %v, got %v", gross/4, breakdown.AnnualHRA)
	}
	if breakdown.AnnualLTA != gross/10 {
		t.Fatalf("expected LTA %v, got %v", gross/10, breakdown.AnnualLTA)
	}
	if breakdown.AnnualFlexible != gross/20 {
		t.Fatalf("expected flexible pool %v, got %v", gross/20, breakdown.AnnualFlexible)
	}

	sum := breakdown.AnnualBasic + breakdown.AnnualHRA + breakdown.AnnualLTA + breakdown.AnnualSpecial
	if sum != gross {
		t.Fatalf("components should sum to gross: %v != %v", sum, gross)
	}
}

func TestDeriveSalaryMonthlyIsAnnualOverTwelve(t *testing.T) {
	breakdown := DeriveSalary(900000)

	pairs := [][2]float64{
		{breakdown.AnnualBasic, breakdown.MonthlyBasic},
		{breakdown.AnnualHRA, breakdown.MonthlyHRA},
		{breakdown.AnnualLTA, breakdown.MonthlyLTA},
		{breakdown.AnnualSpecial, breakdown.MonthlySpecial},
		{breakdown.AnnualFlexible, breakdown.MonthlyFlexible},
	}
	for _, pair := range pairs {
		if pair[1] != pair[0]/12 {
			t.Fatalf("monthly %v should equal annual %v / 12", pair[1], pair[0])
		}
	}
}

func TestDeriveSalaryNonPositiveGross(t *testing.T) {
	if breakdown := DeriveSalary(0); breakdown != (SalaryBreakdown{}) {
		t.Fatalf("expected empty breakdown for zero gross, got %+v", breakdown)
	}
	if breakdown := DeriveSalary(-100); breakdown != (SalaryBreakdown{}) {
		t.Fatalf("expected empty breakdown for negative gross, got %+v", breakdown)
	}
}

func TestDeriveLastDate(t *testing.T) {
	if got := DeriveLastDate("2024-01-01"); got != "2024-01-06" {
		t.Fatalf("expected joining date + 5 days, got %q", got)
	}
	if got := DeriveLastDate("2024-02-27"); got != "2024-03-03" {
		t.Fatalf("expected month rollover, got %q", got)
	}
	if got := DeriveLastDate("bogus"); got != "" {
		t.Fatalf("expected empty for bad input, got %q", got)
	}
}
