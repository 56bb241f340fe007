package loans

import (
	"math"
	"testing"

	"go.uber.org/zap"
)

func TestCalculateMonthlyPaymentZeroRate(t *testing.T) {
	if got := CalculateMonthlyPayment(120000, 0, 240); got != 500 {
		t.Errorf("CalculateMonthlyPayment() = %v, expected 500", got)
	}
}

func TestGenerateScheduleInvalid(t *testing.T) {
	generator := NewScheduleGenerator(nil)

	tests := []struct {
		name       string
		principal  float64
		annualRate float64
		termMonths int
	}{
		{"Negative principal", -1, 0.05, 12},
		{"Negative rate", 1000, -0.01, 12},
		{"Zero term", 1000, 0.05, 0},
		{"Infinite principal", math.Inf(1), 0.05, 12},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := generator.GenerateSchedule(tt.principal, tt.annualRate, tt.termMonths); err == nil {
				t.Error("expected error but got none")
			}
		})
	}
}

func TestGenerateScheduleZeroPrincipal(t *testing.T) {
	schedule, err := NewScheduleGenerator(nil).GenerateSchedule(0, 0.05, 12)
	if err != nil {
		t.Fatalf("GenerateSchedule() error = %v", err)
	}
	if len(schedule) != 1 || schedule[0].Payment != 0 {
		t.Errorf("expected a single empty payment, got %+v", schedule)
	}
}

func TestSummarize(t *testing.T) {
	generator := NewScheduleGenerator(zap.NewNop())

	// 195,000 mortgage at 6.29% over 25 years
	r, err := generator.Summarize(195000, 0.0629, 25)
	if err != nil {
		t.Fatalf("Summarize() error = %v", err)
	}

	if r.TermMonths != 300 {
		t.Errorf("TermMonths = %d, expected 300", r.TermMonths)
	}
	if math.Abs(r.MonthlyPayment-1291.18) > 0.01 {
		t.Errorf("MonthlyPayment = %.2f, expected about 1291.18", r.MonthlyPayment)
	}
	if math.Abs(r.AnnualPayment-r.MonthlyPayment*12) > 1e-9 {
		t.Errorf("AnnualPayment = %.2f, expected twelve monthly payments", r.AnnualPayment)
	}
	if math.Abs(r.TotalPaid-(r.Principal+r.TotalInterest)) > 0.01 {
		t.Errorf("TotalPaid %.2f should equal principal plus interest %.2f", r.TotalPaid, r.Principal+r.TotalInterest)
	}
	// Interest-only would cost 12,265.50 a year; repaying capital costs more each month
	// but less in total interest than 25 years of interest-only payments.
	if r.TotalInterest >= 195000*0.0629*25 {
		t.Errorf("TotalInterest %.2f should be below the interest-only total", r.TotalInterest)
	}
}

func TestSummarizeMatchesSchedule(t *testing.T) {
	generator := NewScheduleGenerator(nil)

	r, err := generator.Summarize(175000, 0.045, 30)
	if err != nil {
		t.Fatalf("Summarize() error = %v", err)
	}
	schedule, err := generator.GenerateSchedule(175000, 0.045, 360)
	if err != nil {
		t.Fatalf("GenerateSchedule() error = %v", err)
	}

	var interest, paid float64
	for _, p := range schedule {
		interest += p.Interest
		paid += p.Payment
	}
	if math.Abs(r.TotalInterest-interest) > 1e-6 || math.Abs(r.TotalPaid-paid) > 1e-6 {
		t.Errorf("totals %.2f/%.2f differ from the schedule %.2f/%.2f", r.TotalInterest, r.TotalPaid, interest, paid)
	}
}

func TestSummarizeRejectsTermOutOfRange(t *testing.T) {
	generator := NewScheduleGenerator(nil)
	for _, years := range []int{0, -1, 41, 1000000} {
		if _, err := generator.Summarize(100000, 0.05, years); err == nil {
			t.Errorf("expected error for a %d year term", years)
		}
	}
}
