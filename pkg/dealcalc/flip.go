package dealcalc

// FlipParams collects the earlier stage outputs the resale metrics depend on.
type FlipParams struct {
	ValuationAfter   float64
	TotalMoneyNeeded float64
	RenovationCost   float64
	BridgingCost     float64
	ArrangementFees  float64
	BrokerFees       float64
}

// FlipProfitabilityResult holds the profit from selling at the post-works
// valuation.
type FlipProfitabilityResult struct {
	SellingFees         float64 `json:"selling_fees"`
	FlipProfitBeforeTax float64 `json:"flip_profit_before_tax"`
	CorporationTax      float64 `json:"corporation_tax"`
	FlipProfitAfterTax  float64 `json:"flip_profit_after_tax"`
}

// ComputeFlip applies a flat corporation tax to the resale profit. A loss
// produces a negative tax term rather than a carried-forward loss.
func (a Assumptions) ComputeFlip(p FlipParams) (FlipProfitabilityResult, error) {
	if err := firstError(
		requireNonNegative("valuation after renovation", p.ValuationAfter),
		requireNonNegative("total money needed", p.TotalMoneyNeeded),
		requireNonNegative("renovation cost", p.RenovationCost),
		requireNonNegative("bridging cost", p.BridgingCost),
		requireNonNegative("arrangement fees", p.ArrangementFees),
		requireNonNegative("broker fees", p.BrokerFees),
	); err != nil {
		return FlipProfitabilityResult{}, err
	}

	var r FlipProfitabilityResult
	r.SellingFees = p.ValuationAfter * a.SellingFeeRate
	r.FlipProfitBeforeTax = p.ValuationAfter - (p.TotalMoneyNeeded + p.RenovationCost +
		p.BridgingCost + p.ArrangementFees + p.BrokerFees + r.SellingFees)
	r.CorporationTax = r.FlipProfitBeforeTax * a.CorporationTaxRate
	r.FlipProfitAfterTax = r.FlipProfitBeforeTax - r.CorporationTax
	return r, nil
}
