// Package property stores deals a user is tracking, together with a summary
// of the engine's figures computed when the deal was last saved.
package property

import (
	"context"
	"errors"
	"time"

	"github.com/iwvelando/deal-calculator/pkg/datetime"
	"github.com/iwvelando/deal-calculator/pkg/dealcalc"
)

var (
	// ErrNotFound is returned when no property has the requested id.
	ErrNotFound = errors.New("property not found")

	// ErrInvalidStatus is returned for a status outside the known set.
	ErrInvalidStatus = errors.New("invalid status")

	// ErrInvalidDetails is returned for viewing dates or a void period the
	// tracker cannot hold.
	ErrInvalidDetails = errors.New("invalid property details")
)

// MaxViewingDates is how many viewings a property can have booked.
const MaxViewingDates = 4

// MaxVoidPeriodMonths bounds the expected empty months per year.
const MaxVoidPeriodMonths = 12

// Property statuses.
const (
	StatusViewing   = "viewing"
	StatusOffered   = "offered"
	StatusPurchased = "purchased"
	StatusRejected  = "rejected"
)

// Property is a tracked deal. ViewingDates are booked viewings in the order
// they were entered. VoidPeriodMonths is recorded with the deal but not used
// by the engine.
type Property struct {
	ID               string            `json:"id"`
	CreatedAt        time.Time         `json:"created_at"`
	UpdatedAt        time.Time         `json:"updated_at"`
	ListingURL       string            `json:"listing_url,omitempty"`
	Address          string            `json:"address"`
	Town             string            `json:"town,omitempty"`
	Status           string            `json:"status"`
	IsAuction        bool              `json:"is_auction"`
	AuctionDate      *datetime.Date    `json:"auction_date,omitempty"`
	ViewingDates     []time.Time       `json:"viewing_dates,omitempty"`
	VoidPeriodMonths *int              `json:"void_period_months,omitempty"`
	Notes            string            `json:"notes,omitempty"`
	Inputs           dealcalc.DealForm `json:"inputs"`
	Summary          Summary           `json:"summary"`
}

// Summary is the subset of engine output kept with a property so lists can be
// rendered without re-running the calculation. ROI and yield are nil when
// undefined.
type Summary struct {
	StampDuty          float64  `json:"stamp_duty"`
	TotalPurchaseFees  float64  `json:"total_purchase_fees"`
	TotalMoneyNeeded   float64  `json:"total_money_needed"`
	CashLeftInDeal     float64  `json:"cash_left_in_deal"`
	AnnualProfit       float64  `json:"annual_profit"`
	TotalROI           *float64 `json:"total_roi"`
	TotalYield         *float64 `json:"total_yield"`
	FlipProfitAfterTax float64  `json:"flip_profit_after_tax"`
}

// SummaryOf extracts the stored summary from a full result.
func SummaryOf(r dealcalc.Result) Summary {
	return Summary{
		StampDuty:          r.StampDuty.Amount,
		TotalPurchaseFees:  r.PurchaseCost.TotalPurchaseFees,
		TotalMoneyNeeded:   r.PurchaseCost.TotalMoneyNeeded,
		CashLeftInDeal:     r.Profitability.CashLeftInDeal,
		AnnualProfit:       r.Profitability.AnnualProfit,
		TotalROI:           r.Profitability.TotalROI.Ptr(),
		TotalYield:         r.Profitability.TotalYield.Ptr(),
		FlipProfitAfterTax: r.Flip.FlipProfitAfterTax,
	}
}

// Store persists properties. Implementations are safe for concurrent use.
type Store interface {
	Create(ctx context.Context, p Property) error
	Get(ctx context.Context, id string) (Property, error)
	// List returns every property, newest first.
	List(ctx context.Context) ([]Property, error)
	Update(ctx context.Context, p Property) error
	Delete(ctx context.Context, id string) error
	Close() error
}

// ValidStatus reports whether s is a known status.
func ValidStatus(s string) bool {
	switch s {
	case StatusViewing, StatusOffered, StatusPurchased, StatusRejected:
		return true
	}
	return false
}
