package db

import (
	"testing"

	"github.com/gocql/gocql"

	"github.com/acme/call-analytics/internal/config"
)

func TestDSNDefaultsSSLMode(t *testing.T) {
	got := DSN(config.PostgresConfig{User: "u", Password: "p", Host: "h", Port: 5432, Database: "calls"})
	want := "postgres://u:p@h:5432/calls?sslmode=disable"
	if got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}
}

func TestParseConsistency(t *testing.T) {
	cases := map[string]gocql.Consistency{
		"one":          gocql.One,
		"local_quorum": gocql.LocalQuorum,
		"local_one":    gocql.LocalOne,
		"LOCAL_QUORUM": gocql.LocalQuorum,
		"":             gocql.Quorum,
		"bogus":        gocql.Quorum,
	}
	for in, want := range cases {
		if got := parseConsistency(in); got != want {
			t.Errorf("parseConsistency(%q) = %v, want %v", in, got, want)
		}
	}
}
