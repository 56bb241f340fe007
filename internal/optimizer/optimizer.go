// Package optimizer searches for the highest purchase price at which a deal
// still meets a target.
package optimizer

import (
	"errors"
	"fmt"
	"math"

	"github.com/iwvelando/deal-calculator/internal/config"
	"github.com/iwvelando/deal-calculator/pkg/dealcalc"
	"github.com/iwvelando/deal-calculator/pkg/format"
	"github.com/iwvelando/deal-calculator/pkg/optimization"
	"go.uber.org/zap"
)

type Runner struct {
	logger *zap.Logger
	calc   *dealcalc.Calculator
}

type evaluation struct {
	value     float64
	achieved  *float64
	threshold float64
	metric    string
	ok        bool
}

func (e evaluation) feasible() bool {
	return e.ok
}

func (e evaluation) headroom() float64 {
	if e.achieved == nil {
		return 0
	}
	if e.metric == config.OptimizerMetricCashLeft {
		return e.threshold - *e.achieved
	}
	return *e.achieved - e.threshold
}

// NewRunner constructs a Runner evaluating deals with calc.
func NewRunner(logger *zap.Logger, calc *dealcalc.Calculator) (*Runner, error) {
	if calc == nil {
		return nil, errors.New("calculator cannot be nil")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Runner{logger: logger, calc: calc}, nil
}

// MaxOffer bisects the purchase price between the configured bounds. Every
// metric it supports gets no better as the price rises, so the search keeps a
// feasible lower end and an infeasible upper end. The form itself must be a
// valid deal; its own price is reported as the original.
func (r *Runner) MaxOffer(name string, form dealcalc.DealForm, cfg config.OptimizerConfig) (optimization.Summary, error) {
	if err := cfg.Validate(); err != nil {
		return optimization.Summary{}, err
	}
	if _, err := r.evaluate(form, cfg, form.PurchasePrice); err != nil {
		return optimization.Summary{}, err
	}

	minVal, maxVal := *cfg.Min, *cfg.Max
	summary := optimization.Summary{
		TargetName:      name,
		Field:           cfg.Field,
		Metric:          cfg.Metric,
		Threshold:       cfg.Threshold,
		Original:        form.PurchasePrice,
		OriginalDisplay: format.Currency(form.PurchasePrice),
	}

	lowerEval, err := r.evaluate(form, cfg, minVal)
	if err != nil {
		return optimization.Summary{}, err
	}
	upperEval, err := r.evaluate(form, cfg, maxVal)
	if err != nil {
		return optimization.Summary{}, err
	}

	if upperEval.feasible() {
		fill(&summary, upperEval)
		summary.Converged = true
		summary.Notes = []string{fmt.Sprintf("target is met at the maximum bound %s", format.Currency(maxVal))}
		r.log(summary)
		return summary, nil
	}
	if !lowerEval.feasible() {
		fill(&summary, lowerEval)
		summary.Notes = []string{fmt.Sprintf("unable to meet %s %s within bounds %s to %s",
			cfg.Metric, thresholdDisplay(cfg), format.Currency(minVal), format.Currency(maxVal))}
		r.log(summary)
		return summary, nil
	}

	iterations := 0
	best := lowerEval
	lower, upper := minVal, maxVal
	for iterations < cfg.MaxIterations && upper-lower > cfg.Tolerance {
		mid := lower + (upper-lower)/2
		evalMid, err := r.evaluate(form, cfg, mid)
		if err != nil {
			return optimization.Summary{}, err
		}
		iterations++
		if evalMid.feasible() {
			best = evalMid
			lower = mid
		} else {
			upper = mid
		}
	}

	if whole := math.Floor(best.value); whole >= minVal && whole != best.value {
		wholeEval, err := r.evaluate(form, cfg, whole)
		if err != nil {
			return optimization.Summary{}, err
		}
		if wholeEval.feasible() {
			best = wholeEval
		}
	}

	fill(&summary, best)
	summary.Iterations = iterations
	summary.Converged = upper-lower <= cfg.Tolerance
	if !summary.Converged {
		summary.Notes = []string{fmt.Sprintf("stopped after %d iterations with a %s gap", iterations, format.Currency(upper-lower))}
	}
	r.log(summary)
	return summary, nil
}

func fill(summary *optimization.Summary, eval evaluation) {
	summary.Value = eval.value
	summary.ValueDisplay = format.Currency(eval.value)
	summary.Achieved = eval.achieved
	summary.Headroom = eval.headroom()
}

func (r *Runner) evaluate(form dealcalc.DealForm, cfg config.OptimizerConfig, price float64) (evaluation, error) {
	form.PurchasePrice = price
	inputs, err := form.Inputs()
	if err != nil {
		return evaluation{}, err
	}
	result, err := r.calc.Evaluate(inputs)
	if err != nil {
		return evaluation{}, err
	}

	eval := evaluation{value: price, threshold: cfg.Threshold, metric: cfg.Metric}
	switch cfg.Metric {
	case config.OptimizerMetricROI:
		p := result.Profitability
		// With no cash left in the deal any positive profit meets the target
		// and a loss never does.
		if p.CashLeftInDeal <= 0 {
			eval.ok = p.AnnualProfit > 0
			return eval, nil
		}
		eval.achieved = p.TotalROI.Ptr()
		eval.ok = eval.achieved != nil && *eval.achieved >= cfg.Threshold
	case config.OptimizerMetricCashLeft:
		cash := result.Profitability.CashLeftInDeal
		eval.achieved = &cash
		eval.ok = cash <= cfg.Threshold
	case config.OptimizerMetricFlipProfit:
		profit := result.Flip.FlipProfitAfterTax
		eval.achieved = &profit
		eval.ok = profit >= cfg.Threshold
	default:
		return evaluation{}, fmt.Errorf("optimizer metric %q is not supported", cfg.Metric)
	}
	return eval, nil
}

func thresholdDisplay(cfg config.OptimizerConfig) string {
	switch cfg.Metric {
	case config.OptimizerMetricROI:
		return fmt.Sprintf("%.2f%%", cfg.Threshold)
	case config.OptimizerMetricCashLeft:
		return "at most " + format.Currency(cfg.Threshold)
	default:
		return "of " + format.Currency(cfg.Threshold)
	}
}

func (r *Runner) log(summary optimization.Summary) {
	r.logger.Info(fmt.Sprintf("optimizer found maximum offer for deal %s", summary.TargetName),
		zap.String("op", "optimizer.MaxOffer"),
		zap.String("metric", summary.Metric),
		zap.Float64("threshold", summary.Threshold),
		zap.Float64("original", summary.Original),
		zap.Float64("value", summary.Value),
		zap.Float64("headroom", summary.Headroom),
		zap.Int("iterations", summary.Iterations),
		zap.Bool("converged", summary.Converged),
	)
}
