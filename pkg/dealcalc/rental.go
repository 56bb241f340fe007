package dealcalc

import "github.com/iwvelando/deal-calculator/pkg/constants"

// RentalParams are the inputs to the rental stage. Rooms may be zero.
type RentalParams struct {
	MonthlyRent   float64
	Rooms         int
	ManagementFee float64
}

// RentalResult holds yearly rent and running costs. RentalIncome is negative
// when costs exceed rent.
type RentalResult struct {
	AnnualRent      float64 `json:"annual_rent"`
	UtilityBills    float64 `json:"utility_bills"`
	Maintenance     float64 `json:"maintenance"`
	ManagementFees  float64 `json:"management_fees"`
	TotalRentalFees float64 `json:"total_rental_fees"`
	RentalIncome    float64 `json:"rental_income"`
}

// ComputeRental nets utilities, maintenance, management and insurance off the
// annual rent.
func (a Assumptions) ComputeRental(p RentalParams) (RentalResult, error) {
	if p.Rooms < 0 {
		return RentalResult{}, invalid("rooms", float64(p.Rooms), "must not be negative")
	}
	if err := firstError(
		requireNonNegative("monthly rent", p.MonthlyRent),
		requireFraction("management fee", p.ManagementFee),
	); err != nil {
		return RentalResult{}, err
	}

	var r RentalResult
	r.AnnualRent = p.MonthlyRent * constants.MonthsPerYear
	r.UtilityBills = float64(p.Rooms) * a.UtilityCostPerRoom
	r.Maintenance = r.AnnualRent * a.MaintenanceRate
	r.ManagementFees = r.AnnualRent * p.ManagementFee
	r.TotalRentalFees = r.ManagementFees + a.InsuranceCost + r.Maintenance
	r.RentalIncome = r.AnnualRent - r.UtilityBills - r.TotalRentalFees
	return r, nil
}
