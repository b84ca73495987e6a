package db

import "testing"

func TestMigrateURL(t *testing.T) {
	cases := map[string]string{
		"postgres://u:p@db:5432/store?sslmode=disable": "pgx5://u:p@db:5432/store?sslmode=disable",
		"postgresql://db/store":                        "pgx5://db/store",
		"pgx5://db/store":                              "pgx5://db/store",
	}
	for in, want := range cases {
		if got := MigrateURL(in); got != want {
			t.Fatalf("MigrateURL(%q) = %q, want %q", in, got, want)
		}
	}
}
