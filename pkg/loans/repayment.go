// Package loans computes capital-and-interest repayment figures for the
// long-term mortgage taken out after refinancing.
package loans

import (
	"fmt"
	"math"

	"github.com/iwvelando/deal-calculator/pkg/constants"
	"github.com/iwvelando/deal-calculator/pkg/mathutil"
	"go.uber.org/zap"
)

// Payment holds the values for a given month of the schedule.
type Payment struct {
	Month              int
	Payment            float64
	Principal          float64
	Interest           float64
	RemainingPrincipal float64
}

// Repayment summarises a fully amortising mortgage.
type Repayment struct {
	Principal      float64 `json:"principal"`
	AnnualRate     float64 `json:"annual_rate"`
	TermMonths     int     `json:"term_months"`
	MonthlyPayment float64 `json:"monthly_payment"`
	AnnualPayment  float64 `json:"annual_payment"`
	TotalInterest  float64 `json:"total_interest"`
	TotalPaid      float64 `json:"total_paid"`
}

// CalculateMonthlyPayment calculates the monthly payment for a loan using the
// standard amortization formula. annualRate is a fraction.
func CalculateMonthlyPayment(principal, annualRate float64, termMonths int) float64 {
	if annualRate == 0 {
		return principal / float64(termMonths)
	}

	periodicInterestRate := annualRate / constants.MonthsPerYear
	power := math.Pow(1.00+periodicInterestRate, float64(termMonths))
	discountFactor := (power - 1.00) / power
	return principal * periodicInterestRate / discountFactor
}

// CalculateInterestPayment calculates the interest portion of a payment.
func CalculateInterestPayment(remainingPrincipal, annualRate float64) float64 {
	return remainingPrincipal * annualRate / constants.MonthsPerYear
}

// ScheduleGenerator builds amortization schedules.
type ScheduleGenerator struct {
	logger *zap.Logger
}

// NewScheduleGenerator creates a new generator instance.
func NewScheduleGenerator(logger *zap.Logger) *ScheduleGenerator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ScheduleGenerator{logger: logger}
}

func validate(principal, annualRate float64, termMonths int) error {
	switch {
	case !mathutil.IsFinite(principal) || principal < 0:
		return fmt.Errorf("invalid principal %v: must be a non-negative number", principal)
	case !mathutil.IsFinite(annualRate) || annualRate < 0:
		return fmt.Errorf("invalid annual rate %v: must be a non-negative number", annualRate)
	case termMonths <= 0:
		return fmt.Errorf("invalid term %d months: must be positive", termMonths)
	}
	return nil
}

// GenerateSchedule returns one Payment per month of the term. The final
// payment clears whatever balance rounding has left.
func (g *ScheduleGenerator) GenerateSchedule(principal, annualRate float64, termMonths int) ([]Payment, error) {
	if err := validate(principal, annualRate, termMonths); err != nil {
		return nil, err
	}

	schedule := make([]Payment, 0, termMonths)
	g.amortize(principal, annualRate, termMonths, func(p Payment) {
		schedule = append(schedule, p)
	})
	return schedule, nil
}

// amortize calls visit for each month until the balance is cleared.
func (g *ScheduleGenerator) amortize(principal, annualRate float64, termMonths int, visit func(Payment)) {
	monthlyPayment := CalculateMonthlyPayment(principal, annualRate, termMonths)
	remaining := principal

	for month := 1; month <= termMonths; month++ {
		p := Payment{Month: month}
		p.Interest = CalculateInterestPayment(remaining, annualRate)
		p.Principal = monthlyPayment - p.Interest

		if month == termMonths || mathutil.Round(remaining-p.Principal) <= 0 {
			// We will get machine error otherwise so just settle the balance.
			p.Principal = remaining
			p.Payment = p.Principal + p.Interest
			p.RemainingPrincipal = 0
			visit(p)
			if month < termMonths {
				g.logger.Debug(fmt.Sprintf("loan cleared after %d of %d months", month, termMonths),
					zap.String("op", "loans.GenerateSchedule"),
				)
			}
			return
		}

		p.Payment = monthlyPayment
		p.RemainingPrincipal = remaining - p.Principal
		remaining = p.RemainingPrincipal
		visit(p)
	}
}

// Summarize amortizes principal over termYears and totals the payments.
// termYears must lie within the accepted mortgage term range.
func (g *ScheduleGenerator) Summarize(principal, annualRate float64, termYears int) (Repayment, error) {
	if termYears < constants.MinMortgageTermYears || termYears > constants.MaxMortgageTermYears {
		return Repayment{}, fmt.Errorf("invalid term %d years: must be between %d and %d",
			termYears, constants.MinMortgageTermYears, constants.MaxMortgageTermYears)
	}
	termMonths := termYears * constants.MonthsPerYear
	if err := validate(principal, annualRate, termMonths); err != nil {
		return Repayment{}, err
	}

	r := Repayment{
		Principal:      principal,
		AnnualRate:     annualRate,
		TermMonths:     termMonths,
		MonthlyPayment: CalculateMonthlyPayment(principal, annualRate, termMonths),
	}
	r.AnnualPayment = r.MonthlyPayment * constants.MonthsPerYear
	g.amortize(principal, annualRate, termMonths, func(p Payment) {
		r.TotalInterest += p.Interest
		r.TotalPaid += p.Payment
	})

	g.logger.Debug("amortized mortgage",
		zap.String("op", "loans.Summarize"),
		zap.Float64("principal", principal),
		zap.Int("term_months", termMonths),
		zap.Float64("monthly_payment", r.MonthlyPayment),
	)
	return r, nil
}
