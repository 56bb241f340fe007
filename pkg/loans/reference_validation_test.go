package loans

import (
	"fmt"
	"math"
	"testing"

	"go.uber.org/zap"
)

// Published amortization figures for 175000 at 4.5% over 360 months.
var referenceSchedule = []Payment{
	{Month: 1, Payment: 886.70, Principal: 230.45, Interest: 656.25, RemainingPrincipal: 174769.55},
	{Month: 2, Payment: 886.70, Principal: 231.31, Interest: 655.39, RemainingPrincipal: 174538.24},
	{Month: 12, Payment: 886.70, Principal: 240.14, Interest: 646.56, RemainingPrincipal: 172176.85},
	{Month: 60, Payment: 886.70, Principal: 287.40, Interest: 599.30, RemainingPrincipal: 159526.36},
	{Month: 180, Payment: 886.70, Principal: 450.35, Interest: 436.35, RemainingPrincipal: 115909.42},
	{Month: 300, Payment: 886.70, Principal: 705.70, Interest: 181.00, RemainingPrincipal: 47562.00},
	{Month: 360, Payment: 886.70, Principal: 883.39, Interest: 3.31, RemainingPrincipal: 0},
}

func TestScheduleAgainstReference(t *testing.T) {
	schedule, err := NewScheduleGenerator(zap.NewNop()).GenerateSchedule(175000, 0.045, 360)
	if err != nil {
		t.Fatalf("GenerateSchedule() error = %v", err)
	}
	if len(schedule) != 360 {
		t.Fatalf("expected 360 payments, got %d", len(schedule))
	}

	const tolerance = 0.50
	for _, ref := range referenceSchedule {
		got := schedule[ref.Month-1]
		t.Run(fmt.Sprintf("Month_%d", ref.Month), func(t *testing.T) {
			checks := []struct {
				field     string
				got, want float64
			}{
				{"payment", got.Payment, ref.Payment},
				{"principal", got.Principal, ref.Principal},
				{"interest", got.Interest, ref.Interest},
				{"balance", got.RemainingPrincipal, ref.RemainingPrincipal},
			}
			for _, c := range checks {
				if math.Abs(c.got-c.want) > tolerance {
					t.Errorf("%s = %.2f, expected %.2f", c.field, c.got, c.want)
				}
			}
			if math.Abs(got.Principal+got.Interest-got.Payment) > 0.01 {
				t.Errorf("principal %.2f and interest %.2f do not add up to %.2f",
					got.Principal, got.Interest, got.Payment)
			}
		})
	}
}

func TestScheduleBalanceFallsEveryMonth(t *testing.T) {
	schedule, err := NewScheduleGenerator(zap.NewNop()).GenerateSchedule(198900, 0.0629, 300)
	if err != nil {
		t.Fatalf("GenerateSchedule() error = %v", err)
	}

	previous := 198900.0
	for _, payment := range schedule {
		if payment.RemainingPrincipal >= previous {
			t.Fatalf("month %d balance %.2f did not fall below %.2f",
				payment.Month, payment.RemainingPrincipal, previous)
		}
		previous = payment.RemainingPrincipal
	}
	if final := schedule[len(schedule)-1]; final.RemainingPrincipal != 0 {
		t.Errorf("final balance should be zero, got %.2f", final.RemainingPrincipal)
	}
}

func TestInterestPaymentOnBalance(t *testing.T) {
	if got := CalculateInterestPayment(300000, 0.06); math.Abs(got-1500) > 1e-9 {
		t.Errorf("CalculateInterestPayment() = %v, expected 1500", got)
	}
	if got := CalculateMonthlyPayment(175000, 0.045, 360); math.Abs(got-886.70) > 0.01 {
		t.Errorf("CalculateMonthlyPayment() = %.2f, expected 886.70", got)
	}
}
