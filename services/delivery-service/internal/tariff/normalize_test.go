package tariff

import "testing"

func TestNormalize(t *testing.T) {
	cases := map[string]string{
		"São Paulo":          "sao paulo",
		"  SAO   PAULO ":     "sao paulo",
		"Jundiaí":            "jundiai",
		"Ñuñoa\tCentro":      "nunoa centro",
		"İstanbul":           "istanbul",
		"":                   "",
		"Vila Mariana - Sul": "vila mariana - sul",
	}
	for in, want := range cases {
		if got := Normalize(in); got != want {
			t.Fatalf("Normalize(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestNormalize_Idempotent(t *testing.T) {
	inputs := []string{"São Paulo", "  Ação   Ñ ", "İİ", "ǅ", "é́", "Straße", "ΌΣΟΣ", " x y"}
	for _, in := range inputs {
		once := Normalize(in)
		if twice := Normalize(once); twice != once {
			t.Fatalf("Normalize not idempotent for %q: %q then %q", in, once, twice)
		}
	}
}

func TestMatches(t *testing.T) {
	cases := []struct {
		a, b string
		want bool
	}{
		{"Centro", "centro", true},
		{"Vila Mariana", "Vila Mariana - Zona Sul", true},
		{"Vila Mariana - Zona Sul", "vila mariana", true},
		{"Bela Vista", "Centro", false},
		{"", "Centro", false},
		{"Centro", "   ", false},
	}
	for _, tc := range cases {
		if got := Matches(tc.a, tc.b); got != tc.want {
			t.Fatalf("Matches(%q, %q) = %v, want %v", tc.a, tc.b, got, tc.want)
		}
	}
}

func TestIsCityServed(t *testing.T) {
	area := ServiceArea{Cities: []string{"São Paulo", "Campinas"}}

	for _, city := range []string{"Sao Paulo", "SÃO PAULO", "paulo", "Campinas - SP"} {
		if !IsCityServed(area, city) {
			t.Fatalf("expected %q to be served", city)
		}
	}
	for _, city := range []string{"Santos", "", "  "} {
		if IsCityServed(area, city) {
			t.Fatalf("expected %q not to be served", city)
		}
	}
	if IsCityServed(ServiceArea{}, "Sao Paulo") {
		t.Fatalf("an empty service area serves nowhere")
	}
}
