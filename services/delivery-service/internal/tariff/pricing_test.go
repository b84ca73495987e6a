package tariff

import "testing"

func TestParseMode(t *testing.T) {
	for raw, want := range map[string]Mode{
		"none":            ModeNone,
		"FLAT":            ModeFlat,
		" by_neighborhood": ModeByNeighborhood,
		"by_distance":     ModeByDistance,
	} {
		if got, ok := ParseMode(raw); !ok || got != want {
			t.Fatalf("ParseMode(%q) = %q, %v", raw, got, ok)
		}
	}
	if _, ok := ParseMode("neighborhood"); ok {
		t.Fatalf("expected unknown mode")
	}
}

func TestCents(t *testing.T) {
	cases := map[float64]int64{
		5:     500,
		5.5:   550,
		0.1:   10,
		19.99: 1999,
		-3:    0,
	}
	for in, want := range cases {
		if got := Cents(in); got != want {
			t.Fatalf("Cents(%v) = %d, want %d", in, got, want)
		}
	}
}

func TestPricingConfig_Compile(t *testing.T) {
	cfg := PricingConfig{
		Mode:               "by_neighborhood",
		DefaultFallbackFee: 3,
		BasePrepMinMinutes: 40,
		BasePrepMaxMinutes: 20,
		Zones: []ZoneConfig{
			{City: " Sao Paulo ", Neighborhood: "Centro", FeeAmount: 5, LeadMinMinutes: -5, LeadMaxMinutes: 50, Active: true},
			{City: "Sao Paulo", Neighborhood: "", FeeAmount: 4, Active: true},
		},
	}
	p, problems, err := cfg.Compile()
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	if p.Mode != ModeByNeighborhood || p.DefaultFallbackFee != 300 || p.BasePrepMin != 40 || p.BasePrepMax != 40 {
		t.Fatalf("unexpected pricing %+v", p)
	}
	if len(p.Zones) != 2 {
		t.Fatalf("expected 2 zones, got %d", len(p.Zones))
	}
	z := p.Zones[0]
	if z.City != "Sao Paulo" || z.Fee != 500 || z.LeadMin != 0 || z.LeadMax != 50 {
		t.Fatalf("unexpected zone %+v", z)
	}
	if len(problems) != 3 {
		t.Fatalf("expected 3 problems, got %v", problems)
	}

	if _, _, err := (PricingConfig{Mode: "surge"}).Compile(); err == nil {
		t.Fatalf("expected error for unknown mode")
	}
}
