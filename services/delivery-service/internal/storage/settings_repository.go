package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/md-rashed-zaman/storefront/libs/db"
	"github.com/md-rashed-zaman/storefront/services/delivery-service/internal/availability"
	"github.com/md-rashed-zaman/storefront/services/delivery-service/internal/model"
	"github.com/md-rashed-zaman/storefront/services/delivery-service/internal/outbox"
	"github.com/md-rashed-zaman/storefront/services/delivery-service/internal/settings"
	"github.com/md-rashed-zaman/storefront/services/delivery-service/internal/tariff"
)

// SettingsUpdatedEvent is published after a merchant's settings are replaced.
const SettingsUpdatedEvent = "merchant.delivery_settings.updated.v1"

type SettingsUpdated struct {
	MerchantID string    `json:"merchant_id"`
	Version    int64     `json:"version"`
	UpdatedAt  time.Time `json:"updated_at"`
}

type SettingsRepository struct {
	pool   *db.Pool
	outbox *outbox.Repository
}

func NewSettingsRepository(pool *db.Pool, outboxRepo *outbox.Repository) *SettingsRepository {
	return &SettingsRepository{pool: pool, outbox: outboxRepo}
}

func (r *SettingsRepository) Get(ctx context.Context, merchantID string) (model.MerchantSettings, error) {
	var (
		s       model.MerchantSettings
		mode    *string
		pricing tariff.PricingConfig
	)
	err := r.pool.QueryRow(ctx, `
		SELECT merchant_id, timezone, pricing_mode, flat_fee::float8, default_fallback_fee::float8,
			base_prep_min_minutes, base_prep_max_minutes, service_area, version, updated_at
		FROM delivery_settings
		WHERE merchant_id = $1
	`, merchantID).Scan(&s.MerchantID, &s.Timezone, &mode, &pricing.FlatFee, &pricing.DefaultFallbackFee,
		&pricing.BasePrepMinMinutes, &pricing.BasePrepMaxMinutes, &s.ServiceArea, &s.Version, &s.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return model.MerchantSettings{}, settings.ErrNotFound
	}
	if err != nil {
		return model.MerchantSettings{}, fmt.Errorf("load settings: %w", err)
	}

	if s.Schedule, err = r.scheduleDays(ctx, merchantID); err != nil {
		return model.MerchantSettings{}, err
	}
	if mode != nil {
		pricing.Mode = *mode
		if pricing.Zones, err = r.zones(ctx, merchantID); err != nil {
			return model.MerchantSettings{}, err
		}
		s.Pricing = &pricing
	}
	return s, nil
}

func (r *SettingsRepository) scheduleDays(ctx context.Context, merchantID string) ([]availability.DayConfig, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT weekday, is_open, periods
		FROM delivery_schedule_days
		WHERE merchant_id = $1
		ORDER BY weekday
	`, merchantID)
	if err != nil {
		return nil, fmt.Errorf("load schedule: %w", err)
	}
	defer rows.Close()

	var days []availability.DayConfig
	for rows.Next() {
		var (
			d   availability.DayConfig
			raw []byte
		)
		if err := rows.Scan(&d.Weekday, &d.IsOpen, &raw); err != nil {
			return nil, fmt.Errorf("scan schedule: %w", err)
		}
		if err := json.Unmarshal(raw, &d.Periods); err != nil {
			return nil, fmt.Errorf("decode periods for weekday %d: %w", d.Weekday, err)
		}
		days = append(days, d)
	}
	return days, rows.Err()
}

func (r *SettingsRepository) zones(ctx context.Context, merchantID string) ([]tariff.ZoneConfig, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id::text, city, neighborhood, fee_amount::float8, lead_min_minutes, lead_max_minutes, max_distance_km, active
		FROM delivery_zones
		WHERE merchant_id = $1
		ORDER BY position
	`, merchantID)
	if err != nil {
		return nil, fmt.Errorf("load zones: %w", err)
	}
	zones, err := pgx.CollectRows(rows, pgx.RowToStructByPos[tariff.ZoneConfig])
	if err != nil {
		return nil, fmt.Errorf("scan zones: %w", err)
	}
	return zones, nil
}

// Replace overwrites a merchant's settings and queues a SettingsUpdatedEvent in the same transaction.
func (r *SettingsRepository) Replace(ctx context.Context, s model.MerchantSettings) (model.MerchantSettings, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return model.MerchantSettings{}, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var (
		mode    *string
		pricing tariff.PricingConfig
	)
	if s.Pricing != nil {
		pricing = *s.Pricing
		pricing.Zones = append([]tariff.ZoneConfig(nil), s.Pricing.Zones...)
		s.Pricing = &pricing
		m, _ := tariff.ParseMode(pricing.Mode)
		name := string(m)
		mode = &name
	}
	area := s.ServiceArea
	if area == nil {
		area = []string{}
	}

	err = tx.QueryRow(ctx, `
		INSERT INTO delivery_settings (merchant_id, timezone, pricing_mode, flat_fee, default_fallback_fee,
			base_prep_min_minutes, base_prep_max_minutes, service_area)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (merchant_id) DO UPDATE
		SET timezone = EXCLUDED.timezone,
			pricing_mode = EXCLUDED.pricing_mode,
			flat_fee = EXCLUDED.flat_fee,
			default_fallback_fee = EXCLUDED.default_fallback_fee,
			base_prep_min_minutes = EXCLUDED.base_prep_min_minutes,
			base_prep_max_minutes = EXCLUDED.base_prep_max_minutes,
			service_area = EXCLUDED.service_area,
			version = delivery_settings.version + 1,
			updated_at = now()
		RETURNING version, updated_at
	`, s.MerchantID, s.Timezone, mode, pricing.FlatFee, pricing.DefaultFallbackFee,
		pricing.BasePrepMinMinutes, pricing.BasePrepMaxMinutes, area).Scan(&s.Version, &s.UpdatedAt)
	if err != nil {
		return model.MerchantSettings{}, fmt.Errorf("upsert settings: %w", err)
	}

	batch := &pgx.Batch{}
	batch.Queue(`DELETE FROM delivery_schedule_days WHERE merchant_id = $1`, s.MerchantID)
	for _, d := range s.Schedule {
		periods, err := json.Marshal(d.Periods)
		if err != nil {
			return model.MerchantSettings{}, err
		}
		batch.Queue(`
			INSERT INTO delivery_schedule_days (merchant_id, weekday, is_open, periods)
			VALUES ($1, $2, $3, $4)
			ON CONFLICT (merchant_id, weekday) DO UPDATE
			SET is_open = EXCLUDED.is_open, periods = EXCLUDED.periods
		`, s.MerchantID, d.Weekday, d.IsOpen, periods)
	}
	batch.Queue(`DELETE FROM delivery_zones WHERE merchant_id = $1`, s.MerchantID)
	if s.Pricing != nil {
		for i := range s.Pricing.Zones {
			z := &s.Pricing.Zones[i]
			if _, err := uuid.Parse(z.ID); err != nil {
				z.ID = uuid.NewString()
			}
			batch.Queue(`
				INSERT INTO delivery_zones (id, merchant_id, position, city, neighborhood, fee_amount,
					lead_min_minutes, lead_max_minutes, max_distance_km, active)
				VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
			`, z.ID, s.MerchantID, i, z.City, z.Neighborhood, z.FeeAmount,
				z.LeadMinMinutes, z.LeadMaxMinutes, z.MaxDistanceKm, z.Active)
		}
	}
	if err := tx.SendBatch(ctx, batch).Close(); err != nil {
		return model.MerchantSettings{}, fmt.Errorf("write schedule and zones: %w", err)
	}

	payload, err := json.Marshal(SettingsUpdated{MerchantID: s.MerchantID, Version: s.Version, UpdatedAt: s.UpdatedAt})
	if err != nil {
		return model.MerchantSettings{}, err
	}
	if _, err := r.outbox.Insert(ctx, tx, outbox.Event{
		AggregateType: outbox.AggregateMerchant,
		AggregateID:   s.MerchantID,
		EventType:     SettingsUpdatedEvent,
		Payload:       payload,
	}); err != nil {
		return model.MerchantSettings{}, fmt.Errorf("insert outbox event: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return model.MerchantSettings{}, err
	}
	return s, nil
}
