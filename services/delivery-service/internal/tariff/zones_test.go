package tariff

import "testing"

func TestMatchNeighborhood(t *testing.T) {
	zones := []Zone{
		{City: "São Paulo", Neighborhood: "Vila Mariana - Zona Sul", Fee: 700, Active: true},
		{City: "São Paulo", Neighborhood: "Centro", Fee: 500, Active: true},
		{City: "São Paulo", Neighborhood: "Centro Histórico", Fee: 550, Active: true},
		{City: "São Paulo", Neighborhood: "Moema", Fee: 800, Active: false},
		{City: "", Neighborhood: "Pinheiros", Fee: 600, Active: true},
		{City: "Campinas", Neighborhood: "Cambuí", Fee: 400, Active: true},
	}
	cases := []struct {
		name         string
		city         string
		neighborhood string
		fee          int64
		ok           bool
	}{
		{"partial either direction", "Sao Paulo", "Vila Mariana", 700, true},
		{"exact match", "sao paulo", "centro", 500, true},
		{"exact on longer name", "Sao Paulo", "Centro Historico", 550, true},
		{"inactive zone skipped", "Sao Paulo", "Moema", 0, false},
		{"zone without city never matches", "Sao Paulo", "Pinheiros", 0, false},
		{"other city", "Sao Paulo", "Cambui", 0, false},
		{"city substring", "Campinas SP", "Cambuí", 400, true},
		{"empty neighborhood", "Sao Paulo", "", 0, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			z, ok := MatchNeighborhood(zones, tc.city, tc.neighborhood)
			if ok != tc.ok || z.Fee != tc.fee {
				t.Fatalf("got %+v, %v; want fee=%d ok=%v", z, ok, tc.fee, tc.ok)
			}
		})
	}
}

func TestMatchNeighborhood_FirstListedWinsWithinPass(t *testing.T) {
	zones := []Zone{
		{City: "Sao Paulo", Neighborhood: "Vila Nova Conceição", Fee: 900, Active: true},
		{City: "Sao Paulo", Neighborhood: "Vila Nova Cachoeirinha", Fee: 300, Active: true},
	}
	z, ok := MatchNeighborhood(zones, "Sao Paulo", "Vila Nova")
	if !ok || z.Fee != 900 {
		t.Fatalf("expected first listed partial match, got %+v %v", z, ok)
	}
}

func TestMatchDistance_StableForEqualTiers(t *testing.T) {
	zones := []Zone{
		{Fee: 1, MaxDistanceKm: 5, Active: true},
		{Fee: 2, MaxDistanceKm: 5, Active: true},
	}
	z, ok := MatchDistance(zones, 4)
	if !ok || z.Fee != 1 {
		t.Fatalf("expected first listed tier, got %+v %v", z, ok)
	}
}
