package property

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/iwvelando/deal-calculator/pkg/datetime"
	"github.com/iwvelando/deal-calculator/pkg/dealcalc"
	"go.uber.org/zap"
)

// Details is the user-editable part of a property.
type Details struct {
	ListingURL       string            `json:"listing_url,omitempty"`
	Address          string            `json:"address"`
	Town             string            `json:"town,omitempty"`
	Status           string            `json:"status,omitempty"`
	IsAuction        bool              `json:"is_auction"`
	AuctionDate      *datetime.Date    `json:"auction_date,omitempty"`
	ViewingDates     []time.Time       `json:"viewing_dates,omitempty"`
	VoidPeriodMonths *int              `json:"void_period_months,omitempty"`
	Notes            string            `json:"notes,omitempty"`
	Inputs           dealcalc.DealForm `json:"inputs"`
}

// Service applies the property rules on top of a Store: ids, timestamps,
// status validation and the computed summary.
type Service struct {
	store  Store
	calc   *dealcalc.Calculator
	logger *zap.Logger
	now    func() time.Time
}

// NewService wires a store to the calculator used for summaries.
func NewService(logger *zap.Logger, store Store, calc *dealcalc.Calculator) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		store:  store,
		calc:   calc,
		logger: logger,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

// Create validates d, computes its summary and stores it under a new id.
func (s *Service) Create(ctx context.Context, d Details) (Property, error) {
	p, err := s.build(d)
	if err != nil {
		return Property{}, err
	}
	p.ID = uuid.NewString()
	p.CreatedAt = s.now()
	p.UpdatedAt = p.CreatedAt

	if err := s.store.Create(ctx, p); err != nil {
		return Property{}, err
	}
	s.logger.Info("created property",
		zap.String("op", "property.Service.Create"),
		zap.String("id", p.ID),
		zap.String("address", p.Address),
	)
	return p, nil
}

func (s *Service) Get(ctx context.Context, id string) (Property, error) {
	return s.store.Get(ctx, id)
}

// List returns every property, newest first.
func (s *Service) List(ctx context.Context) ([]Property, error) {
	return s.store.List(ctx)
}

// Update replaces the details of an existing property and recomputes its
// summary. The id and creation time are kept.
func (s *Service) Update(ctx context.Context, id string, d Details) (Property, error) {
	existing, err := s.store.Get(ctx, id)
	if err != nil {
		return Property{}, err
	}

	p, err := s.build(d)
	if err != nil {
		return Property{}, err
	}
	p.ID = existing.ID
	p.CreatedAt = existing.CreatedAt
	p.UpdatedAt = s.now()

	if err := s.store.Update(ctx, p); err != nil {
		return Property{}, err
	}
	s.logger.Info("updated property",
		zap.String("op", "property.Service.Update"),
		zap.String("id", p.ID),
	)
	return p, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	if err := s.store.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info("deleted property",
		zap.String("op", "property.Service.Delete"),
		zap.String("id", id),
	)
	return nil
}

// Duplicate copies an existing property under a new id, suffixing the
// address with " (Copy)".
func (s *Service) Duplicate(ctx context.Context, id string) (Property, error) {
	src, err := s.store.Get(ctx, id)
	if err != nil {
		return Property{}, err
	}

	d := src.Details()
	d.Address = strings.TrimSpace(d.Address + " (Copy)")
	return s.Create(ctx, d)
}

// Details returns the editable part of p.
func (p Property) Details() Details {
	return Details{
		ListingURL:       p.ListingURL,
		Address:          p.Address,
		Town:             p.Town,
		Status:           p.Status,
		IsAuction:        p.IsAuction,
		AuctionDate:      p.AuctionDate,
		ViewingDates:     append([]time.Time(nil), p.ViewingDates...),
		VoidPeriodMonths: p.VoidPeriodMonths,
		Notes:            p.Notes,
		Inputs:           p.Inputs,
	}
}

func (s *Service) build(d Details) (Property, error) {
	status := strings.ToLower(strings.TrimSpace(d.Status))
	if status == "" {
		status = StatusViewing
	}
	if !ValidStatus(status) {
		return Property{}, fmt.Errorf("%w %q", ErrInvalidStatus, d.Status)
	}

	viewings, err := viewingDates(d.ViewingDates)
	if err != nil {
		return Property{}, err
	}
	if v := d.VoidPeriodMonths; v != nil && (*v < 0 || *v > MaxVoidPeriodMonths) {
		return Property{}, fmt.Errorf("%w: void period of %d months must be between 0 and %d",
			ErrInvalidDetails, *v, MaxVoidPeriodMonths)
	}

	inputs, err := d.Inputs.Inputs()
	if err != nil {
		return Property{}, err
	}
	result, err := s.calc.Evaluate(inputs)
	if err != nil {
		return Property{}, err
	}

	return Property{
		ListingURL:       strings.TrimSpace(d.ListingURL),
		Address:          strings.TrimSpace(d.Address),
		Town:             strings.TrimSpace(d.Town),
		Status:           status,
		IsAuction:        d.IsAuction,
		AuctionDate:      d.AuctionDate,
		ViewingDates:     viewings,
		VoidPeriodMonths: d.VoidPeriodMonths,
		Notes:            d.Notes,
		Inputs:           d.Inputs,
		Summary:          SummaryOf(result),
	}, nil
}

// viewingDates drops unset entries and converts the rest to UTC. Nil is
// returned when no viewing is booked.
func viewingDates(in []time.Time) ([]time.Time, error) {
	var out []time.Time
	for _, t := range in {
		if t.IsZero() {
			continue
		}
		out = append(out, t.UTC().Round(0))
	}
	if len(out) > MaxViewingDates {
		return nil, fmt.Errorf("%w: %d viewing dates given, at most %d can be booked",
			ErrInvalidDetails, len(out), MaxViewingDates)
	}
	return out, nil
}
