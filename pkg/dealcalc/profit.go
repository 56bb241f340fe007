package dealcalc

// ProfitabilityParams collects the earlier stage outputs the buy-to-let
// metrics depend on.
type ProfitabilityParams struct {
	RentalIncome           float64
	AnnualMortgageInterest float64
	TotalMoneyNeeded       float64
	BridgingCost           float64
	RenovationCost         float64
	ArrangementFees        float64
	BrokerFees             float64
	MortgageAmount         float64
	ValuationAfter         float64
}

// ProfitabilityResult holds the buy-to-let metrics. TotalROI and TotalYield
// are percentages.
type ProfitabilityResult struct {
	AnnualProfit         float64 `json:"annual_profit"`
	CashLeftInDeal       float64 `json:"cash_left_in_deal"`
	AnnualProfitAfterTax float64 `json:"annual_profit_after_tax"`
	TotalROI             Ratio   `json:"total_roi"`
	TotalYield           Ratio   `json:"total_yield"`
}

// ComputeProfitability derives profit, the capital still tied up after
// refinancing, and the two return ratios. CashLeftInDeal may be zero or
// negative when the mortgage releases all of the capital; a zero value leaves
// TotalROI undefined.
func (a Assumptions) ComputeProfitability(p ProfitabilityParams) (ProfitabilityResult, error) {
	if err := firstError(
		requireNonNegative("total money needed", p.TotalMoneyNeeded),
		requireNonNegative("bridging cost", p.BridgingCost),
		requireNonNegative("renovation cost", p.RenovationCost),
		requireNonNegative("arrangement fees", p.ArrangementFees),
		requireNonNegative("broker fees", p.BrokerFees),
		requireNonNegative("mortgage amount", p.MortgageAmount),
		requireNonNegative("annual mortgage interest", p.AnnualMortgageInterest),
		requireNonNegative("valuation after renovation", p.ValuationAfter),
	); err != nil {
		return ProfitabilityResult{}, err
	}

	var r ProfitabilityResult
	r.AnnualProfit = p.RentalIncome - p.AnnualMortgageInterest
	r.CashLeftInDeal = p.TotalMoneyNeeded + p.BridgingCost + p.RenovationCost +
		p.ArrangementFees + p.BrokerFees - p.MortgageAmount
	r.AnnualProfitAfterTax = r.AnnualProfit * (1 - a.IncomeTaxRate)
	r.TotalROI = percentRatio("total ROI", "cash left in deal", r.AnnualProfit, r.CashLeftInDeal)
	r.TotalYield = percentRatio("total yield", "valuation after renovation", r.AnnualProfit, p.ValuationAfter)
	return r, nil
}
