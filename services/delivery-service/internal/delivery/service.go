// Package delivery answers storefront questions about a merchant's delivery: is it open,
// which slots remain, and what an address would cost.
package delivery

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/md-rashed-zaman/storefront/services/delivery-service/internal/availability"
	"github.com/md-rashed-zaman/storefront/services/delivery-service/internal/metrics"
	"github.com/md-rashed-zaman/storefront/services/delivery-service/internal/model"
	"github.com/md-rashed-zaman/storefront/services/delivery-service/internal/quote"
	"github.com/md-rashed-zaman/storefront/services/delivery-service/internal/settings"
)

// ErrInvalidRequest wraps caller mistakes such as a missing merchant id.
var ErrInvalidRequest = errors.New("invalid request")

type Service struct {
	provider settings.Provider
	metrics  *metrics.Metrics
	now      func() time.Time
}

type Option func(*Service)

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

func NewService(provider settings.Provider, opts ...Option) *Service {
	s := &Service{provider: provider, now: time.Now}
	for _, o := range opts {
		o(s)
	}
	return s
}

// load compiles the merchant's settings. Unknown merchants get empty settings so the
// engine fails closed with a config-missing decision.
func (s *Service) load(ctx context.Context, merchantID string) (quote.Settings, error) {
	ms, err := s.provider.Get(ctx, merchantID)
	if errors.Is(err, settings.ErrNotFound) {
		return quote.Settings{}, nil
	}
	if err != nil {
		return quote.Settings{}, fmt.Errorf("load settings for %s: %w", merchantID, err)
	}
	return ms.Compile(), nil
}

func (s *Service) evaluate(ctx context.Context, req model.QuoteRequest) (quote.Decision, error) {
	req.MerchantID = strings.TrimSpace(req.MerchantID)
	if req.MerchantID == "" {
		return quote.Decision{}, fmt.Errorf("%w: merchant_id is required", ErrInvalidRequest)
	}
	if req.DistanceKm != nil && *req.DistanceKm < 0 {
		return quote.Decision{}, fmt.Errorf("%w: distance_km must not be negative", ErrInvalidRequest)
	}
	date, err := req.ParseDate()
	if err != nil {
		return quote.Decision{}, fmt.Errorf("%w: %v", ErrInvalidRequest, err)
	}

	cfg, err := s.load(ctx, req.MerchantID)
	if err != nil {
		return quote.Decision{}, err
	}
	d := quote.Evaluate(cfg, quote.Request{
		City:         req.City,
		Neighborhood: req.Neighborhood,
		DistanceKm:   req.DistanceKm,
		Date:         date,
	}, s.now())
	s.metrics.ObserveQuote(d)
	return d, nil
}

// Quote returns the full checkout decision for an address.
func (s *Service) Quote(ctx context.Context, req model.QuoteRequest) (model.QuoteResponse, error) {
	d, err := s.evaluate(ctx, req)
	if err != nil {
		return model.QuoteResponse{}, err
	}
	return model.NewQuoteResponse(strings.TrimSpace(req.MerchantID), d), nil
}

// Slots lists the delivery slots for an address on the requested day.
func (s *Service) Slots(ctx context.Context, req model.QuoteRequest) (model.SlotsResponse, error) {
	d, err := s.evaluate(ctx, req)
	if err != nil {
		return model.SlotsResponse{}, err
	}
	return model.NewSlotsResponse(strings.TrimSpace(req.MerchantID), d), nil
}

// Status reports whether the merchant is open now, independent of any address.
func (s *Service) Status(ctx context.Context, merchantID string) (model.StatusView, error) {
	merchantID = strings.TrimSpace(merchantID)
	if merchantID == "" {
		return model.StatusView{}, fmt.Errorf("%w: merchant_id is required", ErrInvalidRequest)
	}
	cfg, err := s.load(ctx, merchantID)
	if err != nil {
		return model.StatusView{}, err
	}
	if cfg.Schedule == nil {
		closed := availability.Transition{Kind: availability.TransitionNone, Label: availability.ClosedLabel}
		return model.NewStatusView(merchantID, false, closed), nil
	}
	now := s.now()
	return model.NewStatusView(merchantID,
		availability.IsOpenAt(*cfg.Schedule, now),
		availability.NextTransition(*cfg.Schedule, now),
	), nil
}
