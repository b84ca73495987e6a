// Package quote combines the schedule, slot and tariff rules into one checkout decision.
package quote

import (
	"time"

	"github.com/md-rashed-zaman/storefront/services/delivery-service/internal/availability"
	"github.com/md-rashed-zaman/storefront/services/delivery-service/internal/tariff"
)

// ReasonStoreClosed is reported when the address is priced but nothing can be delivered:
// the store is closed and the requested day has no slots left.
const ReasonStoreClosed tariff.ReasonCode = "store_closed"

// Settings is a merchant's compiled configuration. A nil Schedule or Pricing means the
// merchant has not configured delivery; a nil Area serves nowhere.
type Settings struct {
	Schedule *availability.WeeklySchedule
	Pricing  *tariff.Pricing
	Area     *tariff.ServiceArea
}

type Request struct {
	City         string
	Neighborhood string
	DistanceKm   *float64
	// Date selects the slot day; nil means today in the merchant zone.
	Date *time.Time
}

type Decision struct {
	Open           bool
	StatusLabel    string
	NextTransition availability.Transition
	Resolution     tariff.Resolution
	CanOrderNow    bool
	Slots          []availability.Slot
	Available      bool
	Reason         tariff.ReasonCode
	// Date is the calendar day the slots belong to.
	Date time.Time
}

// Evaluate decides whether an order for the address can go through at now.
func Evaluate(s Settings, req Request, now time.Time) Decision {
	if s.Schedule == nil || s.Pricing == nil {
		return Decision{
			StatusLabel:    availability.ClosedLabel,
			NextTransition: availability.Transition{Kind: availability.TransitionNone, Label: availability.ClosedLabel},
			Resolution:     tariff.Resolution{Reason: tariff.ReasonConfigMissing},
			Reason:         tariff.ReasonConfigMissing,
		}
	}

	d := Decision{
		Open:           availability.IsOpenAt(*s.Schedule, now),
		NextTransition: availability.NextTransition(*s.Schedule, now),
	}
	d.StatusLabel = d.NextTransition.Label

	area := tariff.ServiceArea{}
	if s.Area != nil {
		area = *s.Area
	}
	d.Resolution = tariff.Resolve(*s.Pricing, area, tariff.Request{
		City:         req.City,
		Neighborhood: req.Neighborhood,
		DistanceKm:   req.DistanceKm,
	})
	d.Reason = d.Resolution.Reason

	d.Date = slotDate(*s.Schedule, req.Date, now)
	if d.Resolution.Available {
		d.Slots = availability.ListSlots(*s.Schedule, d.Date, d.Resolution.LeadMin, d.Resolution.LeadMax, now)
	}

	d.CanOrderNow = d.Open && d.Resolution.Available
	d.Available = d.Resolution.Available && (d.Open || len(d.Slots) > 0)
	if d.Resolution.Available && !d.Available {
		d.Reason = ReasonStoreClosed
	}
	return d
}

func slotDate(s availability.WeeklySchedule, date *time.Time, now time.Time) time.Time {
	if date != nil {
		y, m, day := date.Date()
		return time.Date(y, m, day, 0, 0, 0, 0, time.UTC)
	}
	local := now
	if s.Location != nil {
		local = now.In(s.Location)
	}
	y, m, day := local.Date()
	return time.Date(y, m, day, 0, 0, 0, 0, time.UTC)
}
