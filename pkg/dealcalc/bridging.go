package dealcalc

import (
	"github.com/iwvelando/deal-calculator/pkg/mathutil"
)

// BridgingParams are the inputs to the bridging stage. BridgingRate is per month.
type BridgingParams struct {
	InitialCash            float64
	TotalMoneyNeeded       float64
	RenovationCost         float64
	BridgingRate           float64
	ArrangementRate        float64
	BrokerRate             float64
	BridgingDurationMonths int
}

// BridgingResult holds the sizing and cost of the short-term loan.
type BridgingResult struct {
	BridgingNeeded               float64 `json:"bridging_needed"`
	CashLeftoverAfterRenovations float64 `json:"cash_leftover_after_renovations"`
	ArrangementFees              float64 `json:"arrangement_fees"`
	TotalBridging                float64 `json:"total_bridging"`
	BridgingCost                 float64 `json:"bridging_cost"`
	TotalGrossLoan               float64 `json:"total_gross_loan"`
	BrokerFees                   float64 `json:"broker_fees"`
	MonthlyBridgingCost          float64 `json:"monthly_bridging_cost"`
	AmountToRepay                float64 `json:"amount_to_repay"`
}

// Active reports whether the deal needs any bridging finance.
func (b BridgingResult) Active() bool {
	return b.BridgingNeeded > 0
}

// ComputeBridging borrows only the renovation shortfall left after the
// purchase. At most one of BridgingNeeded and CashLeftoverAfterRenovations is
// positive.
func ComputeBridging(p BridgingParams) (BridgingResult, error) {
	if p.BridgingDurationMonths <= 0 {
		return BridgingResult{}, invalid("bridging duration months", float64(p.BridgingDurationMonths), "must be greater than zero")
	}
	if err := firstError(
		requireNonNegative("initial cash", p.InitialCash),
		requireNonNegative("total money needed", p.TotalMoneyNeeded),
		requireNonNegative("renovation cost", p.RenovationCost),
		requireFraction("bridging rate", p.BridgingRate),
		requireFraction("arrangement rate", p.ArrangementRate),
		requireFraction("broker rate", p.BrokerRate),
	); err != nil {
		return BridgingResult{}, err
	}

	months := float64(p.BridgingDurationMonths)
	cashAfterPurchase := p.InitialCash - p.TotalMoneyNeeded

	var r BridgingResult
	r.BridgingNeeded = mathutil.ClampZero(p.RenovationCost - cashAfterPurchase)
	r.CashLeftoverAfterRenovations = mathutil.ClampZero(cashAfterPurchase - p.RenovationCost)
	r.ArrangementFees = r.BridgingNeeded * p.ArrangementRate
	r.TotalBridging = r.BridgingNeeded + r.ArrangementFees
	r.BridgingCost = r.TotalBridging * p.BridgingRate * months
	r.TotalGrossLoan = r.TotalBridging + r.BridgingCost
	r.BrokerFees = r.TotalGrossLoan * p.BrokerRate
	r.MonthlyBridgingCost = r.BridgingCost / months
	r.AmountToRepay = r.TotalGrossLoan
	return r, nil
}
