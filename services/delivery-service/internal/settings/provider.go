package settings

import (
	"context"
	"errors"
	"log/slog"

	"github.com/md-rashed-zaman/storefront/services/delivery-service/internal/metrics"
	"github.com/md-rashed-zaman/storefront/services/delivery-service/internal/model"
)

var ErrNotFound = errors.New("delivery settings not found")

// Provider returns a merchant's current delivery settings or ErrNotFound.
type Provider interface {
	Get(ctx context.Context, merchantID string) (model.MerchantSettings, error)
}

// Store is a Provider that also accepts replacements from the merchant admin API.
type Store interface {
	Provider
	Replace(ctx context.Context, s model.MerchantSettings) (model.MerchantSettings, error)
}

// Cache is a read-through cache in front of a Provider. Set must not replace a cached entry
// that carries a higher Version.
type Cache interface {
	Get(ctx context.Context, merchantID string) (model.MerchantSettings, bool, error)
	Set(ctx context.Context, s model.MerchantSettings) error
	Invalidate(ctx context.Context, merchantID string) error
}

type CachedProvider struct {
	source  Provider
	cache   Cache
	logger  *slog.Logger
	metrics *metrics.Metrics
}

// NewCachedProvider wraps source with cache. Cache failures are logged and fall through
// to the source.
func NewCachedProvider(source Provider, cache Cache, logger *slog.Logger, m *metrics.Metrics) *CachedProvider {
	return &CachedProvider{source: source, cache: cache, logger: logger, metrics: m}
}

func (p *CachedProvider) Get(ctx context.Context, merchantID string) (model.MerchantSettings, error) {
	if p.cache != nil {
		s, ok, err := p.cache.Get(ctx, merchantID)
		switch {
		case err != nil:
			p.metrics.CacheLookup("error")
			p.logger.Warn("settings cache read failed", "err", err, "merchant_id", merchantID)
		case ok:
			p.metrics.CacheLookup("hit")
			return s, nil
		default:
			p.metrics.CacheLookup("miss")
		}
	}

	s, err := p.source.Get(ctx, merchantID)
	if err != nil {
		return model.MerchantSettings{}, err
	}
	if p.cache != nil {
		if err := p.cache.Set(ctx, s); err != nil {
			p.logger.Warn("settings cache write failed", "err", err, "merchant_id", merchantID)
		}
	}
	return s, nil
}

// Remember caches settings that were just stored, replacing any older cached version.
func (p *CachedProvider) Remember(ctx context.Context, s model.MerchantSettings) error {
	if p.cache == nil {
		return nil
	}
	return p.cache.Set(ctx, s)
}

// Refresh reloads the merchant from the source into the cache.
func (p *CachedProvider) Refresh(ctx context.Context, merchantID string) error {
	if p.cache == nil {
		return nil
	}
	s, err := p.source.Get(ctx, merchantID)
	if errors.Is(err, ErrNotFound) {
		return p.cache.Invalidate(ctx, merchantID)
	}
	if err != nil {
		return err
	}
	return p.cache.Set(ctx, s)
}

// Invalidate drops the cached entry so the next Get reads the source.
func (p *CachedProvider) Invalidate(ctx context.Context, merchantID string) error {
	if p.cache == nil {
		return nil
	}
	return p.cache.Invalidate(ctx, merchantID)
}
