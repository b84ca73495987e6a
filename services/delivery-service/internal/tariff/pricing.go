package tariff

import (
	"fmt"
	"math"
	"strings"
)

type Mode string

const (
	ModeNone           Mode = "none"
	ModeFlat           Mode = "flat"
	ModeByNeighborhood Mode = "by_neighborhood"
	ModeByDistance     Mode = "by_distance"
)

// ParseMode accepts the configured mode name, case-insensitively.
func ParseMode(raw string) (Mode, bool) {
	switch m := Mode(strings.ToLower(strings.TrimSpace(raw))); m {
	case ModeNone, ModeFlat, ModeByNeighborhood, ModeByDistance:
		return m, true
	default:
		return "", false
	}
}

// Zone is a delivery zone; Fee is in cents and leads are in minutes.
type Zone struct {
	City          string
	Neighborhood  string
	Fee           int64
	LeadMin       int
	LeadMax       int
	MaxDistanceKm float64
	Active        bool
}

// Pricing is a merchant's compiled fee policy. Amounts are in cents.
type Pricing struct {
	Mode               Mode
	FlatFee            int64
	DefaultFallbackFee int64
	BasePrepMin        int
	BasePrepMax        int
	Zones              []Zone
}

// ZoneConfig is the configured form of a Zone with a decimal fee.
type ZoneConfig struct {
	ID             string  `json:"id,omitempty" yaml:"id,omitempty"`
	City           string  `json:"city" yaml:"city"`
	Neighborhood   string  `json:"neighborhood" yaml:"neighborhood"`
	FeeAmount      float64 `json:"fee_amount" yaml:"fee_amount"`
	LeadMinMinutes int     `json:"lead_min_minutes" yaml:"lead_min_minutes"`
	LeadMaxMinutes int     `json:"lead_max_minutes" yaml:"lead_max_minutes"`
	MaxDistanceKm  float64 `json:"max_distance_km,omitempty" yaml:"max_distance_km,omitempty"`
	Active         bool    `json:"active" yaml:"active"`
}

// PricingConfig is the configured fee policy.
type PricingConfig struct {
	Mode               string       `json:"mode" yaml:"mode"`
	FlatFee            float64      `json:"flat_fee" yaml:"flat_fee"`
	DefaultFallbackFee float64      `json:"default_fallback_fee,omitempty" yaml:"default_fallback_fee,omitempty"`
	BasePrepMinMinutes int          `json:"base_prep_min_minutes" yaml:"base_prep_min_minutes"`
	BasePrepMaxMinutes int          `json:"base_prep_max_minutes" yaml:"base_prep_max_minutes"`
	Zones              []ZoneConfig `json:"zones" yaml:"zones"`
}

// Cents rounds a decimal amount to integer cents. Negative amounts become zero.
func Cents(amount float64) int64 {
	if amount <= 0 || math.IsNaN(amount) || math.IsInf(amount, 0) {
		return 0
	}
	return int64(math.Round(amount * 100))
}

// Compile converts the configuration into a Pricing. It fails only on an unknown mode;
// other oddities are corrected and reported.
func (c PricingConfig) Compile() (Pricing, []string, error) {
	mode, ok := ParseMode(c.Mode)
	if !ok {
		return Pricing{}, nil, fmt.Errorf("unknown pricing mode %q", c.Mode)
	}

	var problems []string
	p := Pricing{
		Mode:               mode,
		FlatFee:            Cents(c.FlatFee),
		DefaultFallbackFee: Cents(c.DefaultFallbackFee),
	}
	if c.FlatFee < 0 || c.DefaultFallbackFee < 0 {
		problems = append(problems, "negative amounts are treated as zero")
	}
	p.BasePrepMin, p.BasePrepMax = normalizeLeads(c.BasePrepMinMinutes, c.BasePrepMaxMinutes)
	if p.BasePrepMin != c.BasePrepMinMinutes || p.BasePrepMax != c.BasePrepMaxMinutes {
		problems = append(problems, fmt.Sprintf("base prep window %d-%d adjusted to %d-%d",
			c.BasePrepMinMinutes, c.BasePrepMaxMinutes, p.BasePrepMin, p.BasePrepMax))
	}

	for i, z := range c.Zones {
		zone := Zone{
			City:          strings.TrimSpace(z.City),
			Neighborhood:  strings.TrimSpace(z.Neighborhood),
			Fee:           Cents(z.FeeAmount),
			MaxDistanceKm: z.MaxDistanceKm,
			Active:        z.Active,
		}
		zone.LeadMin, zone.LeadMax = normalizeLeads(z.LeadMinMinutes, z.LeadMaxMinutes)
		if z.FeeAmount < 0 {
			problems = append(problems, fmt.Sprintf("zone %d: negative fee treated as zero", i))
		}
		if zone.LeadMin != z.LeadMinMinutes || zone.LeadMax != z.LeadMaxMinutes {
			problems = append(problems, fmt.Sprintf("zone %d: lead window %d-%d adjusted to %d-%d",
				i, z.LeadMinMinutes, z.LeadMaxMinutes, zone.LeadMin, zone.LeadMax))
		}
		if mode == ModeByDistance && zone.Active && zone.MaxDistanceKm <= 0 {
			problems = append(problems, fmt.Sprintf("zone %d: no max_distance_km, ignored for distance pricing", i))
		}
		if mode == ModeByNeighborhood && zone.Active && (zone.City == "" || zone.Neighborhood == "") {
			problems = append(problems, fmt.Sprintf("zone %d: city and neighborhood are required", i))
		}
		p.Zones = append(p.Zones, zone)
	}
	return p, problems, nil
}

func normalizeLeads(minLead, maxLead int) (int, int) {
	if minLead < 0 {
		minLead = 0
	}
	if maxLead < minLead {
		maxLead = minLead
	}
	return minLead, maxLead
}
