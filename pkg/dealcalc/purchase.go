package dealcalc

// PurchaseCostResult holds the cash needed to complete the purchase.
type PurchaseCostResult struct {
	TotalPurchaseFees float64 `json:"total_purchase_fees"`
	TotalMoneyNeeded  float64 `json:"total_money_needed"`
}

// ComputeTotalPurchaseFees adds buyer fees on top of stamp duty.
func ComputeTotalPurchaseFees(stampDuty, extraFees float64) (float64, error) {
	if err := firstError(
		requireNonNegative("stamp duty", stampDuty),
		requireNonNegative("extra fees", extraFees),
	); err != nil {
		return 0, err
	}
	return stampDuty + extraFees, nil
}

// ComputeTotalMoneyNeeded adds the purchase price to the purchase fees.
func ComputeTotalMoneyNeeded(totalPurchaseFees, purchasePrice float64) (float64, error) {
	if err := firstError(
		requireNonNegative("total purchase fees", totalPurchaseFees),
		requireNonNegative("purchase price", purchasePrice),
	); err != nil {
		return 0, err
	}
	return totalPurchaseFees + purchasePrice, nil
}

// ComputePurchaseCost runs both purchase cost steps.
func ComputePurchaseCost(stampDuty, extraFees, purchasePrice float64) (PurchaseCostResult, error) {
	fees, err := ComputeTotalPurchaseFees(stampDuty, extraFees)
	if err != nil {
		return PurchaseCostResult{}, err
	}
	total, err := ComputeTotalMoneyNeeded(fees, purchasePrice)
	if err != nil {
		return PurchaseCostResult{}, err
	}
	return PurchaseCostResult{TotalPurchaseFees: fees, TotalMoneyNeeded: total}, nil
}
