package dealcalc

// MortgageParams are the inputs to the refinance stage.
type MortgageParams struct {
	MortgageLTV    float64
	ValuationAfter float64
	LenderFee      float64
	MortgageRate   float64
}

// MortgageResult holds the refinance loan and its yearly interest.
type MortgageResult struct {
	MortgageAmount         float64 `json:"mortgage_amount"`
	MortgageFees           float64 `json:"mortgage_fees"`
	AnnualMortgageInterest float64 `json:"annual_mortgage_interest"`
}

// ComputeMortgage sizes the refinance on the post-works valuation with the
// lender fee added to the loan.
func ComputeMortgage(p MortgageParams) (MortgageResult, error) {
	if err := firstError(
		requireNonNegative("mortgage ltv", p.MortgageLTV),
		requireNonNegative("mortgage rate", p.MortgageRate),
		requireNonNegative("valuation after renovation", p.ValuationAfter),
		requireNonNegative("lender fee", p.LenderFee),
	); err != nil {
		return MortgageResult{}, err
	}

	base := p.MortgageLTV * p.ValuationAfter
	amount := base + base*p.LenderFee
	fees := amount * p.LenderFee
	return MortgageResult{
		MortgageAmount:         amount,
		MortgageFees:           fees,
		AnnualMortgageInterest: (amount + fees) * p.MortgageRate,
	}, nil
}
