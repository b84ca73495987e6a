package tariff

type ReasonCode string

const (
	ReasonConfigMissing          ReasonCode = "config_missing"
	ReasonCityNotServed          ReasonCode = "city_not_served"
	ReasonNoZoneForNeighborhood  ReasonCode = "no_zone_for_neighborhood"
	ReasonNoZoneForDistance      ReasonCode = "no_zone_for_distance"
	ReasonDefaultFallbackApplied ReasonCode = "default_fallback_applied"
)

// Request is the delivery address being priced. DistanceKm is only used by distance pricing.
type Request struct {
	City         string
	Neighborhood string
	DistanceKm   *float64
}

// Resolution is the fee and lead window for one address. Fee is in cents.
type Resolution struct {
	Fee       int64
	LeadMin   int
	LeadMax   int
	Available bool
	CityValid bool
	Reason    ReasonCode
	Mode      Mode
}

// Resolve prices a delivery. The service area is checked first; a city outside it is
// never priced, whatever the mode.
func Resolve(p Pricing, area ServiceArea, req Request) Resolution {
	if !IsCityServed(area, req.City) {
		return Resolution{Reason: ReasonCityNotServed, Mode: p.Mode}
	}

	base := Resolution{
		LeadMin:   p.BasePrepMin,
		LeadMax:   p.BasePrepMax,
		Available: true,
		CityValid: true,
		Mode:      p.Mode,
	}

	switch p.Mode {
	case ModeNone:
		return base
	case ModeFlat:
		base.Fee = p.FlatFee
		return base
	case ModeByDistance:
		if req.DistanceKm == nil {
			return blocked(p.Mode, ReasonNoZoneForDistance)
		}
		z, ok := MatchDistance(p.Zones, *req.DistanceKm)
		if !ok {
			return blocked(p.Mode, ReasonNoZoneForDistance)
		}
		return fromZone(p.Mode, z)
	case ModeByNeighborhood:
		if z, ok := MatchNeighborhood(p.Zones, req.City, req.Neighborhood); ok {
			return fromZone(p.Mode, z)
		}
		if p.DefaultFallbackFee > 0 {
			base.Fee = p.DefaultFallbackFee
			base.Reason = ReasonDefaultFallbackApplied
			return base
		}
		return blocked(p.Mode, ReasonNoZoneForNeighborhood)
	default:
		return Resolution{CityValid: true, Reason: ReasonConfigMissing, Mode: p.Mode}
	}
}

func fromZone(mode Mode, z Zone) Resolution {
	return Resolution{
		Fee:       z.Fee,
		LeadMin:   z.LeadMin,
		LeadMax:   z.LeadMax,
		Available: true,
		CityValid: true,
		Mode:      mode,
	}
}

func blocked(mode Mode, reason ReasonCode) Resolution {
	return Resolution{CityValid: true, Reason: reason, Mode: mode}
}
