package dealcalc

import (
	"fmt"

	"github.com/iwvelando/deal-calculator/pkg/constants"
)

// Assumptions holds the fixed rules the engine applies to every deal. Rates are
// fractions. A Calculator copies its Assumptions at construction and never
// changes them.
type Assumptions struct {
	InsuranceCost      float64
	UtilityCostPerRoom float64
	MaintenanceRate    float64
	IncomeTaxRate      float64
	CorporationTaxRate float64
	SellingFeeRate     float64
	StampDuty          StampDutyTable
}

// DefaultAssumptions returns the standard rule set.
func DefaultAssumptions() Assumptions {
	return Assumptions{
		InsuranceCost:      constants.DefaultInsuranceCost,
		UtilityCostPerRoom: constants.DefaultUtilityCostPerRoom,
		MaintenanceRate:    constants.DefaultMaintenanceRate,
		IncomeTaxRate:      constants.DefaultIncomeTaxRate,
		CorporationTaxRate: constants.DefaultCorporationTaxRate,
		SellingFeeRate:     constants.DefaultSellingFeeRate,
		StampDuty:          StandardStampDutyTable,
	}
}

// Validate rejects negative costs and rates outside [0,1].
func (a Assumptions) Validate() error {
	err := firstError(
		requireNonNegative("insurance cost", a.InsuranceCost),
		requireNonNegative("utility cost per room", a.UtilityCostPerRoom),
		requireFraction("maintenance rate", a.MaintenanceRate),
		requireFraction("income tax rate", a.IncomeTaxRate),
		requireFraction("corporation tax rate", a.CorporationTaxRate),
		requireFraction("selling fee rate", a.SellingFeeRate),
	)
	if err != nil {
		return fmt.Errorf("assumptions: %w", err)
	}
	return a.StampDuty.Validate()
}
