package dealcalc

import (
	"fmt"

	"github.com/iwvelando/deal-calculator/pkg/constants"
)

// DealForm is a deal as a person enters it: rates are percentages and some
// fields fall back to defaults when left blank (nil). Inputs converts it into
// the fraction-based DealInputs the engine works on.
type DealForm struct {
	PurchasePrice            float64  `json:"purchase_price" yaml:"purchasePrice" mapstructure:"purchasePrice"`
	RenovationCost           float64  `json:"renovation_cost" yaml:"renovationCost" mapstructure:"renovationCost"`
	InitialCash              float64  `json:"initial_cash" yaml:"initialCash" mapstructure:"initialCash"`
	Rooms                    int      `json:"rooms" yaml:"rooms" mapstructure:"rooms"`
	MonthlyRent              float64  `json:"monthly_rent" yaml:"monthlyRent" mapstructure:"monthlyRent"`
	ValuationAfterRenovation float64  `json:"valuation_after" yaml:"valuationAfter" mapstructure:"valuationAfter"`
	MortgageLTV              *float64 `json:"mortgage_ltv,omitempty" yaml:"mortgageLtv,omitempty" mapstructure:"mortgageLtv"`
	MortgageRate             *float64 `json:"mortgage_rate,omitempty" yaml:"mortgageRate,omitempty" mapstructure:"mortgageRate"`
	MortgageTermYears        *int     `json:"mortgage_term_years,omitempty" yaml:"mortgageTermYears,omitempty" mapstructure:"mortgageTermYears"`
	LenderFee                float64  `json:"lender_fee" yaml:"lenderFee" mapstructure:"lenderFee"`
	ManagementFee            float64  `json:"management_fee" yaml:"managementFee" mapstructure:"managementFee"`
	BridgingRate             float64  `json:"bridging_rate" yaml:"bridgingRate" mapstructure:"bridgingRate"`
	ArrangementRate          float64  `json:"arrangement_rate" yaml:"arrangementRate" mapstructure:"arrangementRate"`
	BrokerRate               *float64 `json:"broker_rate,omitempty" yaml:"brokerRate,omitempty" mapstructure:"brokerRate"`
	BridgingDurationMonths   int      `json:"bridging_duration" yaml:"bridgingDuration" mapstructure:"bridgingDuration"`
	BuyersFee                *float64 `json:"buyers_fee_percentage,omitempty" yaml:"buyersFee,omitempty" mapstructure:"buyersFee"`
	LegalFees                *float64 `json:"legal_fees,omitempty" yaml:"legalFees,omitempty" mapstructure:"legalFees"`
	SurveyCost               *float64 `json:"survey_cost,omitempty" yaml:"surveyCost,omitempty" mapstructure:"surveyCost"`
	ExtraFees                float64  `json:"extra_fees" yaml:"extraFees" mapstructure:"extraFees"`
}

// FormDefaults are the values a blank field takes.
type FormDefaults struct {
	MortgageLTV       float64 `json:"mortgage_ltv"`
	MortgageRate      float64 `json:"mortgage_rate"`
	MortgageTermYears int     `json:"mortgage_term_years"`
	BrokerRate        float64 `json:"broker_rate"`
	BuyersFee         float64 `json:"buyers_fee_percentage"`
	LegalFees         float64 `json:"legal_fees"`
	SurveyCost        float64 `json:"survey_cost"`
}

// DefaultFormDefaults returns the documented form defaults.
func DefaultFormDefaults() FormDefaults {
	return FormDefaults{
		MortgageLTV:       constants.DefaultMortgageLTVPercent,
		MortgageRate:      constants.DefaultMortgageRatePercent,
		MortgageTermYears: constants.DefaultMortgageTermYears,
		BrokerRate:        constants.DefaultBrokerFeePercent,
		BuyersFee:         constants.DefaultBuyersFeePercent,
		LegalFees:         constants.DefaultLegalFees,
		SurveyCost:        constants.DefaultSurveyCost,
	}
}

// FromPercent converts a percentage in [0,100] into a fraction.
func FromPercent(field string, percent float64) (float64, error) {
	if err := requireNonNegative(field, percent); err != nil {
		return 0, err
	}
	if percent > constants.PercentageMultiplier {
		return 0, invalid(field, percent, "percentage must be between 0 and 100")
	}
	return percent / constants.PercentageMultiplier, nil
}

// WithDefaults returns a copy of the form with every blank field filled in.
func (f DealForm) WithDefaults() DealForm {
	d := DefaultFormDefaults()
	f.MortgageLTV = orDefault(f.MortgageLTV, d.MortgageLTV)
	f.MortgageRate = orDefault(f.MortgageRate, d.MortgageRate)
	f.BrokerRate = orDefault(f.BrokerRate, d.BrokerRate)
	f.BuyersFee = orDefault(f.BuyersFee, d.BuyersFee)
	f.LegalFees = orDefault(f.LegalFees, d.LegalFees)
	f.SurveyCost = orDefault(f.SurveyCost, d.SurveyCost)
	if f.MortgageTermYears == nil {
		years := d.MortgageTermYears
		f.MortgageTermYears = &years
	}
	return f
}

// Inputs applies defaults, validates every percentage and the mortgage term,
// and returns the engine inputs. Legal fees, survey cost and extra fees are
// summed into ExtraPurchaseFees.
func (f DealForm) Inputs() (DealInputs, error) {
	f = f.WithDefaults()

	in := DealInputs{
		PurchasePrice:            f.PurchasePrice,
		RenovationCost:           f.RenovationCost,
		InitialCash:              f.InitialCash,
		Rooms:                    f.Rooms,
		MonthlyRent:              f.MonthlyRent,
		ValuationAfterRenovation: f.ValuationAfterRenovation,
		BridgingDurationMonths:   f.BridgingDurationMonths,
	}

	percentages := []struct {
		field string
		value float64
		dest  *float64
	}{
		{"mortgage ltv", *f.MortgageLTV, &in.MortgageLTV},
		{"mortgage rate", *f.MortgageRate, &in.MortgageRate},
		{"lender fee", f.LenderFee, &in.LenderFee},
		{"management fee", f.ManagementFee, &in.ManagementFee},
		{"bridging rate", f.BridgingRate, &in.BridgingRate},
		{"arrangement rate", f.ArrangementRate, &in.ArrangementRate},
		{"broker rate", *f.BrokerRate, &in.BrokerRate},
		{"buyers fee", *f.BuyersFee, &in.BuyersFeeRate},
	}
	for _, p := range percentages {
		fraction, err := FromPercent(p.field, p.value)
		if err != nil {
			return DealInputs{}, err
		}
		*p.dest = fraction
	}

	if term := *f.MortgageTermYears; term < constants.MinMortgageTermYears || term > constants.MaxMortgageTermYears {
		return DealInputs{}, invalid("mortgage term years", float64(term),
			fmt.Sprintf("must be between %d and %d years", constants.MinMortgageTermYears, constants.MaxMortgageTermYears))
	}

	if err := firstError(
		requireNonNegative("legal fees", *f.LegalFees),
		requireNonNegative("survey cost", *f.SurveyCost),
		requireNonNegative("extra fees", f.ExtraFees),
	); err != nil {
		return DealInputs{}, err
	}
	in.ExtraPurchaseFees = *f.LegalFees + *f.SurveyCost + f.ExtraFees

	if err := in.Validate(); err != nil {
		return DealInputs{}, err
	}
	return in, nil
}

func orDefault(v *float64, def float64) *float64 {
	if v != nil {
		return v
	}
	d := def
	return &d
}
