// Package dealcalc computes the viability of a property deal as a fixed
// pipeline of pure stages: stamp duty, purchase costs, bridging finance,
// refinance mortgage, rental economics, then buy-to-let and flip
// profitability. Each stage only reads the outputs of the stages before it.
package dealcalc

import (
	"fmt"

	"go.uber.org/zap"
)

// Result holds every stage output for one deal.
type Result struct {
	Inputs        DealInputs              `json:"inputs"`
	StampDuty     StampDutyResult         `json:"stamp_duty"`
	PurchaseCost  PurchaseCostResult      `json:"purchase_cost"`
	Bridging      BridgingResult          `json:"bridging"`
	Mortgage      MortgageResult          `json:"mortgage"`
	Rental        RentalResult            `json:"rental"`
	Profitability ProfitabilityResult     `json:"profitability"`
	Flip          FlipProfitabilityResult `json:"flip"`
}

// Calculator runs the pipeline under a fixed set of Assumptions. It holds no
// mutable state and is safe for concurrent use.
type Calculator struct {
	assumptions Assumptions
	logger      *zap.Logger
}

// NewCalculator validates the assumptions and returns a Calculator.
func NewCalculator(logger *zap.Logger, assumptions Assumptions) (*Calculator, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if err := assumptions.Validate(); err != nil {
		return nil, err
	}
	assumptions.StampDuty.Bands = append([]StampDutyBand(nil), assumptions.StampDuty.Bands...)
	return &Calculator{assumptions: assumptions, logger: logger}, nil
}

// Assumptions returns a copy of the rules the calculator applies.
func (c *Calculator) Assumptions() Assumptions {
	a := c.assumptions
	a.StampDuty.Bands = append([]StampDutyBand(nil), a.StampDuty.Bands...)
	return a
}

// Evaluate runs every stage in order. The first failing stage aborts the run
// and a zero Result is returned with the error.
func (c *Calculator) Evaluate(in DealInputs) (Result, error) {
	if err := in.Validate(); err != nil {
		return Result{}, fmt.Errorf("inputs: %w", err)
	}

	a := c.assumptions
	res := Result{Inputs: in}
	var err error

	res.StampDuty, err = a.StampDuty.Compute(in.PurchasePrice)
	if err != nil {
		return Result{}, stageError("stamp duty", err)
	}

	extraFees := in.BuyersFeeRate*in.PurchasePrice + in.ExtraPurchaseFees
	res.PurchaseCost, err = ComputePurchaseCost(res.StampDuty.Amount, extraFees, in.PurchasePrice)
	if err != nil {
		return Result{}, stageError("purchase cost", err)
	}

	res.Bridging, err = ComputeBridging(BridgingParams{
		InitialCash:            in.InitialCash,
		TotalMoneyNeeded:       res.PurchaseCost.TotalMoneyNeeded,
		RenovationCost:         in.RenovationCost,
		BridgingRate:           in.BridgingRate,
		ArrangementRate:        in.ArrangementRate,
		BrokerRate:             in.BrokerRate,
		BridgingDurationMonths: in.BridgingDurationMonths,
	})
	if err != nil {
		return Result{}, stageError("bridging", err)
	}
	if res.Bridging.Active() {
		c.logger.Debug(fmt.Sprintf("bridging %.2f over %d months to cover renovation shortfall",
			res.Bridging.BridgingNeeded, in.BridgingDurationMonths),
			zap.String("op", "dealcalc.Evaluate"),
		)
	}

	res.Mortgage, err = ComputeMortgage(MortgageParams{
		MortgageLTV:    in.MortgageLTV,
		ValuationAfter: in.ValuationAfterRenovation,
		LenderFee:      in.LenderFee,
		MortgageRate:   in.MortgageRate,
	})
	if err != nil {
		return Result{}, stageError("mortgage", err)
	}

	res.Rental, err = a.ComputeRental(RentalParams{
		MonthlyRent:   in.MonthlyRent,
		Rooms:         in.Rooms,
		ManagementFee: in.ManagementFee,
	})
	if err != nil {
		return Result{}, stageError("rental", err)
	}

	res.Profitability, err = a.ComputeProfitability(ProfitabilityParams{
		RentalIncome:           res.Rental.RentalIncome,
		AnnualMortgageInterest: res.Mortgage.AnnualMortgageInterest,
		TotalMoneyNeeded:       res.PurchaseCost.TotalMoneyNeeded,
		BridgingCost:           res.Bridging.BridgingCost,
		RenovationCost:         in.RenovationCost,
		ArrangementFees:        res.Bridging.ArrangementFees,
		BrokerFees:             res.Bridging.BrokerFees,
		MortgageAmount:         res.Mortgage.MortgageAmount,
		ValuationAfter:         in.ValuationAfterRenovation,
	})
	if err != nil {
		return Result{}, stageError("profitability", err)
	}

	res.Flip, err = a.ComputeFlip(FlipParams{
		ValuationAfter:   in.ValuationAfterRenovation,
		TotalMoneyNeeded: res.PurchaseCost.TotalMoneyNeeded,
		RenovationCost:   in.RenovationCost,
		BridgingCost:     res.Bridging.BridgingCost,
		ArrangementFees:  res.Bridging.ArrangementFees,
		BrokerFees:       res.Bridging.BrokerFees,
	})
	if err != nil {
		return Result{}, stageError("flip", err)
	}

	if !res.Profitability.TotalROI.Defined {
		c.logger.Debug("total ROI undefined because no cash is left in the deal",
			zap.String("op", "dealcalc.Evaluate"),
		)
	}

	return res, nil
}

func stageError(stage string, err error) error {
	return fmt.Errorf("%s stage: %w", stage, err)
}
