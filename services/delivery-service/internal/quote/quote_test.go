package quote

import (
	"testing"
	"time"

	"github.com/md-rashed-zaman/storefront/services/delivery-service/internal/availability"
	"github.com/md-rashed-zaman/storefront/services/delivery-service/internal/tariff"
)

func testSettings() Settings {
	schedule := availability.Compile("UTC", []availability.DayConfig{
		{Weekday: 1, IsOpen: true, Periods: []availability.PeriodConfig{{Start: "09:00", End: "18:00"}}},
		{Weekday: 2, IsOpen: true, Periods: []availability.PeriodConfig{{Start: "09:00", End: "18:00"}}},
	})
	pricing := tariff.Pricing{
		Mode:        tariff.ModeByNeighborhood,
		BasePrepMin: 20,
		BasePrepMax: 60,
		Zones: []tariff.Zone{
			{City: "Sao Paulo", Neighborhood: "Centro", Fee: 500, LeadMin: 20, LeadMax: 60, Active: true},
		},
	}
	area := tariff.ServiceArea{Cities: []string{"São Paulo"}}
	return Settings{Schedule: &schedule, Pricing: &pricing, Area: &area}
}

func TestEvaluate_OpenAndPriced(t *testing.T) {
	now := time.Date(2026, 10, 12, 10, 0, 0, 0, time.UTC)
	d := Evaluate(testSettings(), Request{City: "Sao Paulo", Neighborhood: "Centro"}, now)

	if !d.Open || !d.CanOrderNow || !d.Available || d.Reason != "" {
		t.Fatalf("unexpected decision %+v", d)
	}
	if d.StatusLabel != "Closes at 18:00" {
		t.Fatalf("unexpected status %q", d.StatusLabel)
	}
	if d.Resolution.Fee != 500 {
		t.Fatalf("unexpected fee %d", d.Resolution.Fee)
	}
	if len(d.Slots) == 0 || d.Slots[0].Label != "10:30" || !d.Slots[0].NextAvailable {
		t.Fatalf("unexpected slots %+v", d.Slots)
	}
	if d.Date != time.Date(2026, 10, 12, 0, 0, 0, 0, time.UTC) {
		t.Fatalf("unexpected date %s", d.Date)
	}
}

func TestEvaluate_ClosedWithSlotsLaterToday(t *testing.T) {
	now := time.Date(2026, 10, 12, 7, 0, 0, 0, time.UTC)
	d := Evaluate(testSettings(), Request{City: "Sao Paulo", Neighborhood: "Centro"}, now)

	if d.Open || d.CanOrderNow {
		t.Fatalf("expected closed, got %+v", d)
	}
	if !d.Available || len(d.Slots) != 17 || d.Reason != "" {
		t.Fatalf("expected scheduling to be possible, got %+v", d)
	}
	if d.StatusLabel != "Opens Monday 12/10 at 09:00" {
		t.Fatalf("unexpected status %q", d.StatusLabel)
	}
}

func TestEvaluate_ClosedWithoutSlots(t *testing.T) {
	now := time.Date(2026, 10, 12, 17, 30, 0, 0, time.UTC)
	d := Evaluate(testSettings(), Request{City: "Sao Paulo", Neighborhood: "Centro"}, now)

	if d.Available || d.CanOrderNow || d.Reason != ReasonStoreClosed {
		t.Fatalf("unexpected decision %+v", d)
	}
	if !d.Resolution.Available {
		t.Fatalf("resolution should still pass: %+v", d.Resolution)
	}

	tomorrow := time.Date(2026, 10, 13, 0, 0, 0, 0, time.UTC)
	d = Evaluate(testSettings(), Request{City: "Sao Paulo", Neighborhood: "Centro", Date: &tomorrow}, now)
	if !d.Available || len(d.Slots) != 17 || d.Slots[0].Weekday != "Tuesday" {
		t.Fatalf("expected tomorrow's slots, got %+v", d)
	}
}

func TestEvaluate_ResolutionFailureBlocks(t *testing.T) {
	now := time.Date(2026, 10, 12, 10, 0, 0, 0, time.UTC)

	d := Evaluate(testSettings(), Request{City: "Santos", Neighborhood: "Centro"}, now)
	if d.Available || d.CanOrderNow || d.Reason != tariff.ReasonCityNotServed || len(d.Slots) != 0 {
		t.Fatalf("unexpected decision %+v", d)
	}
	if !d.Open {
		t.Fatalf("store status is independent of the address")
	}

	d = Evaluate(testSettings(), Request{City: "Sao Paulo", Neighborhood: "Moema"}, now)
	if d.Available || d.Reason != tariff.ReasonNoZoneForNeighborhood {
		t.Fatalf("unexpected decision %+v", d)
	}
}

func TestEvaluate_ConfigMissing(t *testing.T) {
	now := time.Date(2026, 10, 12, 10, 0, 0, 0, time.UTC)
	full := testSettings()

	for name, s := range map[string]Settings{
		"nothing":     {},
		"no pricing":  {Schedule: full.Schedule, Area: full.Area},
		"no schedule": {Pricing: full.Pricing, Area: full.Area},
	} {
		d := Evaluate(s, Request{City: "Sao Paulo", Neighborhood: "Centro"}, now)
		if d.Open || d.Available || d.CanOrderNow || d.Reason != tariff.ReasonConfigMissing || d.Resolution.Available {
			t.Fatalf("%s: unexpected decision %+v", name, d)
		}
		if d.StatusLabel != availability.ClosedLabel {
			t.Fatalf("%s: unexpected status %q", name, d.StatusLabel)
		}
	}
}

func TestEvaluate_NilAreaServesNowhere(t *testing.T) {
	s := testSettings()
	s.Area = nil
	d := Evaluate(s, Request{City: "Sao Paulo", Neighborhood: "Centro"}, time.Date(2026, 10, 12, 10, 0, 0, 0, time.UTC))
	if d.Available || d.Reason != tariff.ReasonCityNotServed {
		t.Fatalf("unexpected decision %+v", d)
	}
}
