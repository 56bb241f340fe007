// Package appraisal runs every deal in a configuration through the calculation
// engine and collects the outcome of each.
package appraisal

import (
	"fmt"

	"github.com/iwvelando/deal-calculator/internal/config"
	"github.com/iwvelando/deal-calculator/internal/optimizer"
	"github.com/iwvelando/deal-calculator/pkg/dealcalc"
	"github.com/iwvelando/deal-calculator/pkg/loans"
	"github.com/iwvelando/deal-calculator/pkg/optimization"
	"go.uber.org/zap"
)

// Appraisal holds the outcome for one deal. Exactly one of Result and Err is
// set; a rejected deal never carries figures. Repayment is the capital and
// interest alternative to the interest-only mortgage, present when a mortgage
// is taken. Offer is set when the deal asked for a maximum offer search.
type Appraisal struct {
	Name      string
	Result    *dealcalc.Result
	Repayment *loans.Repayment
	Offer     *optimization.Summary
	Err       error
}

// Rejected reports whether the engine refused the deal.
func (a Appraisal) Rejected() bool {
	return a.Err != nil
}

// GetAppraisals evaluates every deal independently. An error is returned only
// when the engine itself cannot be configured; a bad deal is recorded as
// rejected and the remaining deals still run.
func GetAppraisals(logger *zap.Logger, conf config.Configuration) ([]Appraisal, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	calc, err := conf.NewCalculator(logger)
	if err != nil {
		return nil, fmt.Errorf("failed to configure calculator: %w", err)
	}

	runner, err := optimizer.NewRunner(logger, calc)
	if err != nil {
		return nil, fmt.Errorf("failed to configure optimizer: %w", err)
	}

	results := make([]Appraisal, 0, len(conf.Deals))
	for i, deal := range conf.Deals {
		name := deal.Name
		if name == "" {
			name = fmt.Sprintf("deal %d", i+1)
		}

		result := Evaluate(logger, calc, name, deal.DealForm)
		if deal.Optimizer != nil && !result.Rejected() {
			offer, err := runner.MaxOffer(name, deal.DealForm, *deal.Optimizer)
			if err != nil {
				logger.Warn(fmt.Sprintf("skipping maximum offer for deal %s", name),
					zap.String("op", "appraisal.GetAppraisals"),
					zap.Error(err),
				)
			} else {
				result.Offer = &offer
			}
		}
		results = append(results, result)
	}
	return results, nil
}

// Evaluate converts one form and runs it through calc.
func Evaluate(logger *zap.Logger, calc *dealcalc.Calculator, name string, form dealcalc.DealForm) Appraisal {
	if logger == nil {
		logger = zap.NewNop()
	}

	inputs, err := form.Inputs()
	if err != nil {
		logger.Warn(fmt.Sprintf("rejecting deal %s", name),
			zap.String("op", "appraisal.Evaluate"),
			zap.Error(err),
		)
		return Appraisal{Name: name, Err: err}
	}

	result, err := calc.Evaluate(inputs)
	if err != nil {
		logger.Warn(fmt.Sprintf("rejecting deal %s", name),
			zap.String("op", "appraisal.Evaluate"),
			zap.Error(err),
		)
		return Appraisal{Name: name, Err: err}
	}

	out := Appraisal{Name: name, Result: &result}
	if result.Mortgage.MortgageAmount > 0 {
		term := *form.WithDefaults().MortgageTermYears
		repayment, err := loans.NewScheduleGenerator(logger).Summarize(
			result.Mortgage.MortgageAmount, inputs.MortgageRate, term)
		if err != nil {
			logger.Warn(fmt.Sprintf("skipping repayment figures for deal %s", name),
				zap.String("op", "appraisal.Evaluate"),
				zap.Error(err),
			)
		} else {
			out.Repayment = &repayment
		}
	}

	logger.Debug(fmt.Sprintf("appraised deal %s", name),
		zap.String("op", "appraisal.Evaluate"),
		zap.Float64("total_money_needed", result.PurchaseCost.TotalMoneyNeeded),
		zap.Float64("annual_profit", result.Profitability.AnnualProfit),
	)
	return out
}
