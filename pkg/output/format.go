// Package output provides utilities for formatting and displaying deal appraisals.
package output

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/iwvelando/deal-calculator/internal/appraisal"
	"github.com/iwvelando/deal-calculator/pkg/dealcalc"
	"github.com/iwvelando/deal-calculator/pkg/format"
	"github.com/iwvelando/deal-calculator/pkg/loans"
	"github.com/iwvelando/deal-calculator/pkg/optimization"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

type lineItem struct {
	section string
	label   string
	amount  float64
	ratio   *dealcalc.Ratio
}

func (li lineItem) pretty() string {
	if li.ratio != nil {
		return li.ratio.String()
	}
	return format.Currency(li.amount)
}

func (li lineItem) raw() string {
	if li.ratio != nil {
		if !li.ratio.Defined {
			return ""
		}
		return strconv.FormatFloat(li.ratio.Value, 'f', 2, 64)
	}
	return strconv.FormatFloat(li.amount, 'f', 2, 64)
}

func lineItems(a appraisal.Appraisal) []lineItem {
	r := a.Result
	roi := r.Profitability.TotalROI
	yield := r.Profitability.TotalYield
	items := []lineItem{
		{section: "purchase", label: "Stamp duty", amount: r.StampDuty.Amount},
		{section: "purchase", label: "Total purchase fees", amount: r.PurchaseCost.TotalPurchaseFees},
		{section: "purchase", label: "Total money needed", amount: r.PurchaseCost.TotalMoneyNeeded},
		{section: "bridging", label: "Bridging needed", amount: r.Bridging.BridgingNeeded},
		{section: "bridging", label: "Cash left after renovations", amount: r.Bridging.CashLeftoverAfterRenovations},
		{section: "bridging", label: "Arrangement fees", amount: r.Bridging.ArrangementFees},
		{section: "bridging", label: "Total bridging", amount: r.Bridging.TotalBridging},
		{section: "bridging", label: "Bridging cost", amount: r.Bridging.BridgingCost},
		{section: "bridging", label: "Monthly bridging cost", amount: r.Bridging.MonthlyBridgingCost},
		{section: "bridging", label: "Total gross loan", amount: r.Bridging.TotalGrossLoan},
		{section: "bridging", label: "Broker fees", amount: r.Bridging.BrokerFees},
		{section: "bridging", label: "Amount to repay", amount: r.Bridging.AmountToRepay},
		{section: "mortgage", label: "Mortgage amount", amount: r.Mortgage.MortgageAmount},
		{section: "mortgage", label: "Mortgage fees", amount: r.Mortgage.MortgageFees},
		{section: "mortgage", label: "Annual mortgage interest", amount: r.Mortgage.AnnualMortgageInterest},
		{section: "rental", label: "Annual rent", amount: r.Rental.AnnualRent},
		{section: "rental", label: "Utility bills", amount: r.Rental.UtilityBills},
		{section: "rental", label: "Maintenance", amount: r.Rental.Maintenance},
		{section: "rental", label: "Management fees", amount: r.Rental.ManagementFees},
		{section: "rental", label: "Total rental fees", amount: r.Rental.TotalRentalFees},
		{section: "rental", label: "Rental income", amount: r.Rental.RentalIncome},
		{section: "buy-to-let", label: "Annual profit", amount: r.Profitability.AnnualProfit},
		{section: "buy-to-let", label: "Annual profit after tax", amount: r.Profitability.AnnualProfitAfterTax},
		{section: "buy-to-let", label: "Cash left in deal", amount: r.Profitability.CashLeftInDeal},
		{section: "buy-to-let", label: "Total ROI", ratio: &roi},
		{section: "buy-to-let", label: "Total yield", ratio: &yield},
		{section: "flip", label: "Selling fees", amount: r.Flip.SellingFees},
		{section: "flip", label: "Profit before tax", amount: r.Flip.FlipProfitBeforeTax},
		{section: "flip", label: "Corporation tax", amount: r.Flip.CorporationTax},
		{section: "flip", label: "Profit after tax", amount: r.Flip.FlipProfitAfterTax},
	}
	if rp := a.Repayment; rp != nil {
		items = append(items,
			lineItem{section: "repayment", label: "Monthly payment", amount: rp.MonthlyPayment},
			lineItem{section: "repayment", label: "Annual payment", amount: rp.AnnualPayment},
			lineItem{section: "repayment", label: "Total interest over term", amount: rp.TotalInterest},
		)
	}
	if offer := a.Offer; offer != nil {
		items = append(items,
			lineItem{section: "offer", label: "Maximum offer", amount: offer.Value},
			lineItem{section: "offer", label: "Below asking price", amount: offer.Discount()},
		)
	}
	return items
}

// PrettyFormat outputs a human-readable rather than machine-readable table.
func PrettyFormat(w io.Writer, results []appraisal.Appraisal) error {
	p := message.NewPrinter(language.BritishEnglish)
	for i, result := range results {
		if _, err := fmt.Fprintf(w, "--- Results for deal %s ---\n", result.Name); err != nil {
			return err
		}
		if result.Rejected() {
			if _, err := fmt.Fprintf(w, "REJECTED: %v\n", result.Err); err != nil {
				return err
			}
		} else {
			in := result.Result.Inputs
			_, _ = p.Fprintf(w, "Purchase price %s, %d rooms, %d month bridge\n",
				format.Currency(in.PurchasePrice), in.Rooms, in.BridgingDurationMonths)
			_, _ = fmt.Fprintf(w, "%-10s | %-27s | %s\n", "Section", "Item", "Amount")
			_, _ = fmt.Fprintf(w, "%-10s | %-27s | %s\n", "_______", "____", "______")
			for _, item := range lineItems(result) {
				if _, err := fmt.Fprintf(w, "%-10s | %-27s | %s\n", item.section, item.label, item.pretty()); err != nil {
					return err
				}
			}
			if result.Offer != nil {
				for _, note := range result.Offer.Notes {
					if _, err := fmt.Fprintf(w, "Offer note: %s\n", note); err != nil {
						return err
					}
				}
			}
		}
		if len(results) > 1 && i < len(results)-1 {
			if _, err := fmt.Fprintln(w); err != nil {
				return err
			}
		}
	}
	return nil
}

// CsvFormat outputs one row per deal and line item in comma-separated value
// format. A rejected deal produces a single error row.
func CsvFormat(w io.Writer, results []appraisal.Appraisal) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"deal", "section", "item", "value"}); err != nil {
		return err
	}
	for _, result := range results {
		if result.Rejected() {
			if err := cw.Write([]string{result.Name, "error", "", result.Err.Error()}); err != nil {
				return err
			}
			continue
		}
		for _, item := range lineItems(result) {
			if err := cw.Write([]string{result.Name, item.section, item.label, item.raw()}); err != nil {
				return err
			}
		}
	}
	cw.Flush()
	return cw.Error()
}

// CsvString returns the CSV rendering as a string.
func CsvString(results []appraisal.Appraisal) (string, error) {
	var b strings.Builder
	if err := CsvFormat(&b, results); err != nil {
		return "", err
	}
	return b.String(), nil
}

type jsonAppraisal struct {
	Name      string                `json:"name"`
	Status    string                `json:"status"`
	Error     string                `json:"error,omitempty"`
	Result    *dealcalc.Result      `json:"result,omitempty"`
	Repayment *loans.Repayment      `json:"repayment,omitempty"`
	Offer     *optimization.Summary `json:"offer,omitempty"`
}

// JSONFormat outputs the appraisals as an indented JSON array.
func JSONFormat(w io.Writer, results []appraisal.Appraisal) error {
	out := make([]jsonAppraisal, 0, len(results))
	for _, result := range results {
		entry := jsonAppraisal{Name: result.Name, Status: "ok", Result: result.Result, Repayment: result.Repayment, Offer: result.Offer}
		if result.Rejected() {
			entry = jsonAppraisal{Name: result.Name, Status: "rejected", Error: result.Err.Error()}
		}
		out = append(out, entry)
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}
