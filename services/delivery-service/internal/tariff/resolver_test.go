package tariff

import "testing"

func saoPauloArea() ServiceArea {
	return ServiceArea{Cities: []string{"São Paulo"}}
}

func km(v float64) *float64 { return &v }

func TestResolve_CityGateDominates(t *testing.T) {
	modes := []Mode{ModeNone, ModeFlat, ModeByNeighborhood, ModeByDistance, Mode("bogus")}
	for _, mode := range modes {
		p := Pricing{Mode: mode, FlatFee: 500, DefaultFallbackFee: 300, BasePrepMin: 20, BasePrepMax: 40}
		got := Resolve(p, saoPauloArea(), Request{City: "Rio de Janeiro", Neighborhood: "Centro", DistanceKm: km(1)})
		want := Resolution{Reason: ReasonCityNotServed, Mode: mode}
		if got != want {
			t.Fatalf("mode %s: got %+v, want %+v", mode, got, want)
		}
	}
}

func TestResolve_NoneAndFlat(t *testing.T) {
	req := Request{City: "Sao Paulo"}

	got := Resolve(Pricing{Mode: ModeNone, FlatFee: 999, BasePrepMin: 20, BasePrepMax: 40}, saoPauloArea(), req)
	if !got.Available || got.Fee != 0 || got.LeadMin != 20 || got.LeadMax != 40 || got.Reason != "" {
		t.Fatalf("unexpected none resolution %+v", got)
	}

	got = Resolve(Pricing{Mode: ModeFlat, FlatFee: 750, BasePrepMin: 15, BasePrepMax: 30}, saoPauloArea(), req)
	if !got.Available || got.Fee != 750 || got.LeadMin != 15 || got.LeadMax != 30 || got.Mode != ModeFlat {
		t.Fatalf("unexpected flat resolution %+v", got)
	}
}

func TestResolve_ByNeighborhood(t *testing.T) {
	zones := []Zone{{City: "Sao Paulo", Neighborhood: "Centro", Fee: 500, LeadMin: 30, LeadMax: 50, Active: true}}
	req := Request{City: "São Paulo", Neighborhood: "Bela Vista"}

	t.Run("fallback", func(t *testing.T) {
		p := Pricing{Mode: ModeByNeighborhood, DefaultFallbackFee: 300, BasePrepMin: 20, BasePrepMax: 40, Zones: zones}
		got := Resolve(p, saoPauloArea(), req)
		want := Resolution{Fee: 300, LeadMin: 20, LeadMax: 40, Available: true, CityValid: true, Reason: ReasonDefaultFallbackApplied, Mode: ModeByNeighborhood}
		if got != want {
			t.Fatalf("got %+v, want %+v", got, want)
		}
	})

	t.Run("no fallback", func(t *testing.T) {
		p := Pricing{Mode: ModeByNeighborhood, BasePrepMin: 20, BasePrepMax: 40, Zones: zones}
		got := Resolve(p, saoPauloArea(), req)
		if got.Available || got.Reason != ReasonNoZoneForNeighborhood || !got.CityValid || got.Fee != 0 {
			t.Fatalf("unexpected resolution %+v", got)
		}
	})

	t.Run("zone match", func(t *testing.T) {
		p := Pricing{Mode: ModeByNeighborhood, DefaultFallbackFee: 300, Zones: zones}
		got := Resolve(p, saoPauloArea(), Request{City: "sao paulo", Neighborhood: " CENTRO "})
		if !got.Available || got.Fee != 500 || got.LeadMin != 30 || got.LeadMax != 50 || got.Reason != "" {
			t.Fatalf("unexpected resolution %+v", got)
		}
	})
}

func TestResolve_ByDistance(t *testing.T) {
	p := Pricing{
		Mode: ModeByDistance,
		Zones: []Zone{
			{Fee: 900, LeadMin: 40, LeadMax: 70, MaxDistanceKm: 10, Active: true},
			{Fee: 400, LeadMin: 20, LeadMax: 40, MaxDistanceKm: 3, Active: true},
			{Fee: 100, MaxDistanceKm: 1, Active: false},
			{Fee: 50, Active: true},
		},
	}
	cases := []struct {
		name   string
		dist   *float64
		fee    int64
		reason ReasonCode
	}{
		{"nearest tier", km(0.5), 400, ""},
		{"on threshold", km(3), 400, ""},
		{"second tier", km(3.1), 900, ""},
		{"beyond tiers", km(12), 0, ReasonNoZoneForDistance},
		{"negative", km(-1), 0, ReasonNoZoneForDistance},
		{"missing", nil, 0, ReasonNoZoneForDistance},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := Resolve(p, saoPauloArea(), Request{City: "Sao Paulo", DistanceKm: tc.dist})
			if got.Fee != tc.fee || got.Reason != tc.reason || got.Available != (tc.reason == "") {
				t.Fatalf("got %+v, want fee=%d reason=%q", got, tc.fee, tc.reason)
			}
		})
	}
}

func TestResolve_UnknownModeFailsClosed(t *testing.T) {
	got := Resolve(Pricing{Mode: Mode("surge"), FlatFee: 100}, saoPauloArea(), Request{City: "Sao Paulo"})
	if got.Available || got.Reason != ReasonConfigMissing {
		t.Fatalf("unexpected resolution %+v", got)
	}
}
