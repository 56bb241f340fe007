// Package config defines the data structures related to configuration and
// includes functions for loading and validating the deal file.
package config

import (
	"fmt"
	"io"

	"github.com/iwvelando/deal-calculator/pkg/constants"
	"github.com/iwvelando/deal-calculator/pkg/dealcalc"
	"github.com/iwvelando/deal-calculator/pkg/validation"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

// Configuration holds all configuration for deal-calculator.
type Configuration struct {
	Assumptions AssumptionsConfig `yaml:"assumptions,omitempty"`
	Deals       []Deal            `yaml:"deals"`
	Logging     LoggingConfig     `yaml:"logging,omitempty"`
	Output      OutputConfig      `yaml:"output,omitempty"`
}

// LoggingConfig holds logging configuration options
type LoggingConfig struct {
	Level      string `yaml:"level,omitempty"`      // debug, info, warn, error
	Format     string `yaml:"format,omitempty"`     // json, console
	OutputFile string `yaml:"outputFile,omitempty"` // optional file output
}

// OutputConfig holds output format configuration options
type OutputConfig struct {
	Format string `yaml:"format,omitempty"` // pretty, csv, json
}

// AssumptionsConfig overrides the engine's fixed rules. Rates are percentages.
type AssumptionsConfig struct {
	InsuranceCost      float64 `yaml:"insuranceCost"`
	UtilityCostPerRoom float64 `yaml:"utilityCostPerRoom"`
	MaintenanceRate    float64 `yaml:"maintenanceRate"`
	IncomeTaxRate      float64 `yaml:"incomeTaxRate"`
	CorporationTaxRate float64 `yaml:"corporationTaxRate"`
	SellingFeeRate     float64 `yaml:"sellingFeeRate"`
	StampDutyTable     string  `yaml:"stampDutyTable"`
}

// Deal is one named deal in the deal file. Optimizer optionally asks for the
// maximum offer meeting a target.
type Deal struct {
	Name              string           `yaml:"name"`
	Optimizer         *OptimizerConfig `yaml:"optimizer,omitempty" mapstructure:"optimizer"`
	dealcalc.DealForm `yaml:",inline" mapstructure:",squash"`
}

// DefaultAssumptionsConfig returns the standard rules expressed in percent.
func DefaultAssumptionsConfig() AssumptionsConfig {
	return AssumptionsConfig{
		InsuranceCost:      constants.DefaultInsuranceCost,
		UtilityCostPerRoom: constants.DefaultUtilityCostPerRoom,
		MaintenanceRate:    constants.DefaultMaintenanceRate * constants.PercentageMultiplier,
		IncomeTaxRate:      constants.DefaultIncomeTaxRate * constants.PercentageMultiplier,
		CorporationTaxRate: constants.DefaultCorporationTaxRate * constants.PercentageMultiplier,
		SellingFeeRate:     constants.DefaultSellingFeeRate * constants.PercentageMultiplier,
		StampDutyTable:     constants.StampDutyTableStandard,
	}
}

// LoadConfiguration takes a file path as input and loads the YAML-formatted
// configuration there.
func LoadConfiguration(configPath string) (*Configuration, error) {
	v := newViper()
	v.SetConfigFile(configPath)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("error reading config file, %s", err)
	}
	return decode(v)
}

// LoadConfigurationFromReader loads a YAML-formatted configuration from r.
func LoadConfigurationFromReader(r io.Reader) (*Configuration, error) {
	v := newViper()

	if err := v.ReadConfig(r); err != nil {
		return nil, fmt.Errorf("error reading config data, %s", err)
	}
	return decode(v)
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetConfigType("yml")
	v.SetEnvPrefix(constants.EnvPrefix)
	v.AutomaticEnv()

	defaults := DefaultAssumptionsConfig()
	v.SetDefault("assumptions.insuranceCost", defaults.InsuranceCost)
	v.SetDefault("assumptions.utilityCostPerRoom", defaults.UtilityCostPerRoom)
	v.SetDefault("assumptions.maintenanceRate", defaults.MaintenanceRate)
	v.SetDefault("assumptions.incomeTaxRate", defaults.IncomeTaxRate)
	v.SetDefault("assumptions.corporationTaxRate", defaults.CorporationTaxRate)
	v.SetDefault("assumptions.sellingFeeRate", defaults.SellingFeeRate)
	v.SetDefault("assumptions.stampDutyTable", defaults.StampDutyTable)
	return v
}

func decode(v *viper.Viper) (*Configuration, error) {
	var configuration Configuration
	if err := v.Unmarshal(&configuration); err != nil {
		return nil, fmt.Errorf("unable to decode into struct, %s", err)
	}
	return &configuration, nil
}

// ToAssumptions converts the percent-based overrides into engine Assumptions.
func (a AssumptionsConfig) ToAssumptions() (dealcalc.Assumptions, error) {
	table, err := dealcalc.StampDutyTableByName(a.StampDutyTable)
	if err != nil {
		return dealcalc.Assumptions{}, err
	}

	out := dealcalc.Assumptions{
		InsuranceCost:      a.InsuranceCost,
		UtilityCostPerRoom: a.UtilityCostPerRoom,
		StampDuty:          table,
	}
	rates := []struct {
		field   string
		percent float64
		dest    *float64
	}{
		{"maintenance rate", a.MaintenanceRate, &out.MaintenanceRate},
		{"income tax rate", a.IncomeTaxRate, &out.IncomeTaxRate},
		{"corporation tax rate", a.CorporationTaxRate, &out.CorporationTaxRate},
		{"selling fee rate", a.SellingFeeRate, &out.SellingFeeRate},
	}
	for _, r := range rates {
		fraction, err := dealcalc.FromPercent(r.field, r.percent)
		if err != nil {
			return dealcalc.Assumptions{}, fmt.Errorf("assumptions: %w", err)
		}
		*r.dest = fraction
	}
	return out, nil
}

// NewCalculator builds the engine configured by the assumptions section.
func (conf *Configuration) NewCalculator(logger *zap.Logger) (*dealcalc.Calculator, error) {
	assumptions, err := conf.Assumptions.ToAssumptions()
	if err != nil {
		return nil, err
	}
	return dealcalc.NewCalculator(logger, assumptions)
}

// ValidateConfiguration performs general validation of the configuration and returns warnings
func (conf *Configuration) ValidateConfiguration() []string {
	deals := make([]validation.DealInfo, 0, len(conf.Deals))
	for _, deal := range conf.Deals {
		deals = append(deals, validation.DealInfo{
			Name:           deal.Name,
			PurchasePrice:  deal.PurchasePrice,
			ValuationAfter: deal.ValuationAfterRenovation,
			MonthlyRent:    deal.MonthlyRent,
			Rooms:          deal.Rooms,
			InitialCash:    deal.InitialCash,
		})
	}

	validator := validation.DealValidator{Deals: deals}
	warnings := validator.ValidateAll()
	for _, deal := range conf.Deals {
		if deal.Optimizer == nil {
			continue
		}
		cfg := *deal.Optimizer
		if err := cfg.Validate(); err != nil {
			warnings = append(warnings, fmt.Sprintf("Deal '%s': %v", deal.Name, err))
		}
	}
	return warnings
}
