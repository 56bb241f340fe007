package validation

import (
	"fmt"
	"strings"
)

// DealInfo is the subset of a deal the validator inspects.
type DealInfo struct {
	Name           string
	PurchasePrice  float64
	ValuationAfter float64
	MonthlyRent    float64
	Rooms          int
	InitialCash    float64
}

// DealValidator checks a deal file for values that are legal but probably
// mistakes. It never rejects a deal; the engine does that.
type DealValidator struct {
	Deals []DealInfo
}

// ValidateDealNames reports missing and repeated deal names.
func ValidateDealNames(deals []DealInfo) []string {
	var warnings []string
	seen := make(map[string]int, len(deals))
	for i, deal := range deals {
		name := strings.TrimSpace(deal.Name)
		if name == "" {
			warnings = append(warnings, fmt.Sprintf("Deal #%d has no name", i+1))
			continue
		}
		seen[name]++
		if seen[name] == 2 {
			warnings = append(warnings, fmt.Sprintf("Deal name '%s' is used more than once", name))
		}
	}
	return warnings
}

// ValidateDealValues reports suspicious combinations within one deal.
func ValidateDealValues(deal DealInfo) []string {
	var warnings []string
	label := deal.Name
	if label == "" {
		label = "unnamed"
	}

	if deal.PurchasePrice == 0 {
		warnings = append(warnings, fmt.Sprintf("Deal '%s' has no purchase price", label))
	}
	if deal.ValuationAfter == 0 {
		warnings = append(warnings, fmt.Sprintf("Deal '%s' has no valuation after renovation - yield will be undefined", label))
	} else if deal.ValuationAfter < deal.PurchasePrice {
		warnings = append(warnings, fmt.Sprintf("Deal '%s' is valued below its purchase price (%.2f < %.2f)",
			label, deal.ValuationAfter, deal.PurchasePrice))
	}
	if deal.MonthlyRent > 0 && deal.Rooms == 0 {
		warnings = append(warnings, fmt.Sprintf("Deal '%s' has rent but no rooms - utility bills will be zero", label))
	}
	if deal.InitialCash == 0 {
		warnings = append(warnings, fmt.Sprintf("Deal '%s' has no initial cash - the whole purchase will be bridged", label))
	}
	return warnings
}

// ValidateAll validates every deal and returns warnings
func (dv *DealValidator) ValidateAll() []string {
	if len(dv.Deals) == 0 {
		return []string{"No deals configured"}
	}

	warnings := ValidateDealNames(dv.Deals)
	for _, deal := range dv.Deals {
		warnings = append(warnings, ValidateDealValues(deal)...)
	}
	return warnings
}
