package model

import (
	"fmt"
	"strings"
	"time"

	"github.com/md-rashed-zaman/storefront/services/delivery-service/internal/availability"
	"github.com/md-rashed-zaman/storefront/services/delivery-service/internal/quote"
)

// DateLayout is the wire format of calendar dates.
const DateLayout = "2006-01-02"

type QuoteRequest struct {
	MerchantID   string   `json:"merchant_id"`
	City         string   `json:"city"`
	Neighborhood string   `json:"neighborhood"`
	DistanceKm   *float64 `json:"distance_km,omitempty"`
	Date         string   `json:"date,omitempty"`
}

// ParseDate returns nil when no date was requested.
func (r QuoteRequest) ParseDate() (*time.Time, error) {
	raw := strings.TrimSpace(r.Date)
	if raw == "" {
		return nil, nil
	}
	d, err := time.Parse(DateLayout, raw)
	if err != nil {
		return nil, fmt.Errorf("invalid date %q: want YYYY-MM-DD", raw)
	}
	return &d, nil
}

type SlotView struct {
	StartTime     string `json:"start_time"`
	Label         string `json:"label"`
	NextAvailable bool   `json:"is_next_available"`
	Remaining     string `json:"remaining_label,omitempty"`
	Weekday       string `json:"weekday_label,omitempty"`
}

type ResolutionView struct {
	FeeCents       int64   `json:"fee_cents"`
	FeeAmount      float64 `json:"fee_amount"`
	LeadMinMinutes int     `json:"lead_min_minutes"`
	LeadMaxMinutes int     `json:"lead_max_minutes"`
	Available      bool    `json:"available"`
	CityValid      bool    `json:"city_valid"`
	ReasonCode     string  `json:"reason_code,omitempty"`
	PricingMode    string  `json:"pricing_mode,omitempty"`
}

type StatusView struct {
	MerchantID       string `json:"merchant_id"`
	Open             bool   `json:"open"`
	Label            string `json:"label"`
	NextTransition   string `json:"next_transition"`
	NextTransitionAt string `json:"next_transition_at,omitempty"`
}

type QuoteResponse struct {
	MerchantID       string         `json:"merchant_id"`
	Open             bool           `json:"open"`
	StatusLabel      string         `json:"status_label"`
	NextTransitionAt string         `json:"next_transition_at,omitempty"`
	CanOrderNow      bool           `json:"can_order_now"`
	Available        bool           `json:"available"`
	ReasonCode       string         `json:"reason_code,omitempty"`
	Resolution       ResolutionView `json:"resolution"`
	Date             string         `json:"date,omitempty"`
	Slots            []SlotView     `json:"slots"`
}

type SlotsResponse struct {
	MerchantID string     `json:"merchant_id"`
	Date       string     `json:"date,omitempty"`
	Available  bool       `json:"available"`
	ReasonCode string     `json:"reason_code,omitempty"`
	Slots      []SlotView `json:"slots"`
}

func NewQuoteResponse(merchantID string, d quote.Decision) QuoteResponse {
	resp := QuoteResponse{
		MerchantID:       merchantID,
		Open:             d.Open,
		StatusLabel:      d.StatusLabel,
		NextTransitionAt: formatInstant(d.NextTransition.At),
		CanOrderNow:      d.CanOrderNow,
		Available:        d.Available,
		ReasonCode:       string(d.Reason),
		Resolution: ResolutionView{
			FeeCents:       d.Resolution.Fee,
			FeeAmount:      float64(d.Resolution.Fee) / 100,
			LeadMinMinutes: d.Resolution.LeadMin,
			LeadMaxMinutes: d.Resolution.LeadMax,
			Available:      d.Resolution.Available,
			CityValid:      d.Resolution.CityValid,
			ReasonCode:     string(d.Resolution.Reason),
			PricingMode:    string(d.Resolution.Mode),
		},
		Slots: NewSlotViews(d.Slots),
	}
	if !d.Date.IsZero() {
		resp.Date = d.Date.Format(DateLayout)
	}
	return resp
}

func NewSlotsResponse(merchantID string, d quote.Decision) SlotsResponse {
	resp := SlotsResponse{
		MerchantID: merchantID,
		Available:  d.Available,
		ReasonCode: string(d.Reason),
		Slots:      NewSlotViews(d.Slots),
	}
	if !d.Date.IsZero() {
		resp.Date = d.Date.Format(DateLayout)
	}
	return resp
}

func NewStatusView(merchantID string, open bool, t availability.Transition) StatusView {
	return StatusView{
		MerchantID:       merchantID,
		Open:             open,
		Label:            t.Label,
		NextTransition:   string(t.Kind),
		NextTransitionAt: formatInstant(t.At),
	}
}

// NewSlotViews never returns nil so that an empty list encodes as [].
func NewSlotViews(slots []availability.Slot) []SlotView {
	out := make([]SlotView, 0, len(slots))
	for _, s := range slots {
		out = append(out, SlotView{
			StartTime:     formatInstant(s.Start),
			Label:         s.Label,
			NextAvailable: s.NextAvailable,
			Remaining:     s.Remaining,
			Weekday:       s.Weekday,
		})
	}
	return out
}

func formatInstant(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(time.RFC3339)
}
