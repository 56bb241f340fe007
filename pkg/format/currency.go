// Package format renders monetary values for reports.
package format

import (
	"math"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Currency returns amount in pounds with British thousands separators,
// e.g. "-£1,234.56". Amounts that round to zero never carry a sign.
func Currency(amount float64) string {
	rounded := math.Round(amount*100) / 100
	p := message.NewPrinter(language.BritishEnglish)
	if rounded < 0 {
		return p.Sprintf("-£%.2f", -rounded)
	}
	return p.Sprintf("£%.2f", math.Abs(rounded))
}
