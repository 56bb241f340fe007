// Package testutil provides common utility functions for testing.
package testutil

import (
	"math"

	"github.com/iwvelando/deal-calculator/internal/appraisal"
	"github.com/iwvelando/deal-calculator/pkg/constants"
)

// FindAppraisal finds a deal by name in the results slice.
// Returns a pointer to the appraisal if found, nil otherwise.
func FindAppraisal(results []appraisal.Appraisal, name string) *appraisal.Appraisal {
	for i := range results {
		if results[i].Name == name {
			return &results[i]
		}
	}
	return nil
}

// WithinPenny reports whether got and want agree to the penny.
func WithinPenny(got, want float64) bool {
	return math.Abs(got-want) < constants.CurrencyTolerance
}
