package dealcalc

import (
	"fmt"
	"math"

	"github.com/iwvelando/deal-calculator/pkg/constants"
	"github.com/iwvelando/deal-calculator/pkg/mathutil"
)

// StampDutyBand is one marginal band. UpTo is the inclusive upper bound of the
// band; math.Inf(1) marks the top band.
type StampDutyBand struct {
	UpTo float64
	Rate float64
}

// StampDutyTable is an ordered set of marginal bands.
type StampDutyTable struct {
	Name       string
	Bands      []StampDutyBand
	RoundWhole bool
}

// StampDutyResult holds the tax due on a purchase.
type StampDutyResult struct {
	Amount float64 `json:"amount"`
}

// StandardStampDutyTable is the canonical investor table.
var StandardStampDutyTable = StampDutyTable{
	Name: constants.StampDutyTableStandard,
	Bands: []StampDutyBand{
		{UpTo: 125000, Rate: 0.05},
		{UpTo: 925000, Rate: 0.08},
		{UpTo: 1500000, Rate: 0.13},
		{UpTo: math.Inf(1), Rate: 0.15},
	},
}

// LegacyStampDutyTable reproduces the quick-estimate table, which starts the
// second band at 250,000 and rounds to whole pounds.
var LegacyStampDutyTable = StampDutyTable{
	Name: constants.StampDutyTableLegacy,
	Bands: []StampDutyBand{
		{UpTo: 250000, Rate: 0.03},
		{UpTo: 925000, Rate: 0.08},
		{UpTo: 1500000, Rate: 0.13},
		{UpTo: math.Inf(1), Rate: 0.15},
	},
	RoundWhole: true,
}

// StampDutyTableByName looks up a table by its configured name. An empty name
// selects the standard table.
func StampDutyTableByName(name string) (StampDutyTable, error) {
	switch name {
	case "", constants.StampDutyTableStandard:
		return StandardStampDutyTable, nil
	case constants.StampDutyTableLegacy:
		return LegacyStampDutyTable, nil
	}
	return StampDutyTable{}, fmt.Errorf("unknown stamp duty table %q, expected %s or %s",
		name, constants.StampDutyTableStandard, constants.StampDutyTableLegacy)
}

// Validate checks that bands are ordered, rates are fractions and the last band
// is unbounded.
func (t StampDutyTable) Validate() error {
	if len(t.Bands) == 0 {
		return fmt.Errorf("stamp duty table %q has no bands", t.Name)
	}
	previous := 0.0
	for i, band := range t.Bands {
		if band.UpTo <= previous {
			return fmt.Errorf("stamp duty table %q band %d upper bound %v is not above %v", t.Name, i, band.UpTo, previous)
		}
		if band.Rate < 0 || band.Rate > 1 {
			return fmt.Errorf("stamp duty table %q band %d rate %v is not a fraction", t.Name, i, band.Rate)
		}
		previous = band.UpTo
	}
	if !math.IsInf(previous, 1) {
		return fmt.Errorf("stamp duty table %q does not cover prices above %v", t.Name, previous)
	}
	return nil
}

// Compute applies each band's rate to the slice of the price falling inside it.
func (t StampDutyTable) Compute(purchasePrice float64) (StampDutyResult, error) {
	if err := requireNonNegative("purchase price", purchasePrice); err != nil {
		return StampDutyResult{}, err
	}

	amount := 0.0
	lower := 0.0
	for _, band := range t.Bands {
		if purchasePrice <= lower {
			break
		}
		amount += (math.Min(purchasePrice, band.UpTo) - lower) * band.Rate
		lower = band.UpTo
	}

	if t.RoundWhole {
		amount = mathutil.RoundWhole(amount)
	}
	return StampDutyResult{Amount: amount}, nil
}
