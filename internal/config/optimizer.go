package config

import (
	"fmt"
	"strings"
)

const (
	OptimizerFieldPurchasePrice = "purchasePrice"

	// OptimizerMetricROI keeps total ROI at or above the threshold (percent).
	OptimizerMetricROI = "roi"
	// OptimizerMetricCashLeft keeps the cash left in the deal at or below the threshold.
	OptimizerMetricCashLeft = "cashLeft"
	// OptimizerMetricFlipProfit keeps the after-tax flip profit at or above the threshold.
	OptimizerMetricFlipProfit = "flipProfit"

	defaultTolerance     = 1
	defaultMaxIterations = 50
)

// OptimizerConfig asks for the highest purchase price within [Min, Max] at
// which the deal still meets Threshold on Metric.
type OptimizerConfig struct {
	Field         string   `json:"field,omitempty" yaml:"field,omitempty" mapstructure:"field"`
	Metric        string   `json:"metric" yaml:"metric" mapstructure:"metric"`
	Threshold     float64  `json:"threshold" yaml:"threshold" mapstructure:"threshold"`
	Min           *float64 `json:"min,omitempty" yaml:"min,omitempty" mapstructure:"min"`
	Max           *float64 `json:"max,omitempty" yaml:"max,omitempty" mapstructure:"max"`
	Tolerance     float64  `json:"tolerance,omitempty" yaml:"tolerance,omitempty" mapstructure:"tolerance"`
	MaxIterations int      `json:"max_iterations,omitempty" yaml:"maxIterations,omitempty" mapstructure:"maxIterations"`
}

// CanonicalOptimizerMetric returns the canonical identifier for an optimizer metric.
func CanonicalOptimizerMetric(value string) string {
	trimmed := strings.TrimSpace(value)
	switch strings.ToLower(trimmed) {
	case "roi", "total_roi", "totalroi":
		return OptimizerMetricROI
	case "cashleft", "cash_left", "cash-left":
		return OptimizerMetricCashLeft
	case "flipprofit", "flip_profit", "flip-profit":
		return OptimizerMetricFlipProfit
	default:
		return strings.ToLower(trimmed)
	}
}

// Normalize ensures defaults and canonical values are applied before validation.
func (o *OptimizerConfig) Normalize() {
	if o == nil {
		return
	}
	field := strings.ToLower(strings.TrimSpace(o.Field))
	if field == "" || field == "purchaseprice" || field == "purchase_price" {
		o.Field = OptimizerFieldPurchasePrice
	}
	o.Metric = CanonicalOptimizerMetric(o.Metric)
	if o.Min == nil {
		zero := 0.0
		o.Min = &zero
	}
	if o.Tolerance <= 0 {
		o.Tolerance = defaultTolerance
	}
	if o.MaxIterations <= 0 {
		o.MaxIterations = defaultMaxIterations
	}
}

// Validate returns an error when the optimizer configuration is unsupported.
func (o *OptimizerConfig) Validate() error {
	if o == nil {
		return fmt.Errorf("optimizer configuration cannot be nil")
	}

	o.Normalize()

	if o.Field != OptimizerFieldPurchasePrice {
		return fmt.Errorf("optimizer field %q is not supported", o.Field)
	}
	switch o.Metric {
	case OptimizerMetricROI, OptimizerMetricCashLeft, OptimizerMetricFlipProfit:
	case "":
		return fmt.Errorf("optimizer requires a metric")
	default:
		return fmt.Errorf("optimizer metric %q is not supported", o.Metric)
	}
	// A loss-making deal's ROI climbs toward zero as the price rises, so a
	// negative target has no single maximum offer.
	if o.Metric == OptimizerMetricROI && o.Threshold < 0 {
		return fmt.Errorf("optimizer roi threshold %.2f must not be negative", o.Threshold)
	}
	if o.Max == nil {
		return fmt.Errorf("optimizer requires a maximum bound")
	}
	if *o.Min < 0 {
		return fmt.Errorf("optimizer minimum %.2f must not be negative", *o.Min)
	}
	if *o.Min >= *o.Max {
		return fmt.Errorf("optimizer minimum %.2f must be less than maximum %.2f", *o.Min, *o.Max)
	}
	return nil
}
