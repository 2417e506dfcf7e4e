package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/acme/call-analytics/internal/domain"
)

const sample = `[
  {"call_timestamp": "2024-03-10T12:00:00Z", "duration_seconds": 120, "uf": "SP", "operator_name": "Ana", "tabulation": "Endereço Confirmado"},
  {"call_timestamp": "2024-03-10T13:00:00Z", "duration_seconds": 0, "uf": "SP", "operator_name": "Bruno"},
  {"call_timestamp": "2024-03-10T14:00:00Z", "duration_seconds": null, "uf": "RJ", "operator_name": "Ana", "tabulation": "Cliente Ausente"},
  {"call_timestamp": "2024-03-09T12:00:00Z", "duration_seconds": 60, "uf": "BA", "operator_name": "Carla", "tabulation": "Endereço Confirmado"}
]`

func writeInput(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "calls.json")
	if err := os.WriteFile(path, []byte(sample), 0o600); err != nil {
		t.Fatalf("write input: %v", err)
	}
	return path
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := NewRootCommand(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestReportTable(t *testing.T) {
	out, err := run(t, "report", "--input", writeInput(t), "--tz", "UTC")
	if err != nil {
		t.Fatalf("report: %v\n%s", err, out)
	}
	for _, want := range []string{"Period: all", "Total calls", "50.0%", "Sudeste", "Nordeste", "Endereço Confirmado"} {
		if !strings.Contains(out, want) {
			t.Errorf("expected %q in output:\n%s", want, out)
		}
	}
}

func TestReportJSONWithFilters(t *testing.T) {
	out, err := run(t, "report", "--input", writeInput(t), "--tz", "UTC",
		"--period", "today", "--now", "2024-03-10T18:00:00Z", "--region", "Sudeste", "--format", "json")
	if err != nil {
		t.Fatalf("report: %v\n%s", err, out)
	}
	var report Report
	if err := json.Unmarshal([]byte(out), &report); err != nil {
		t.Fatalf("decode: %v\n%s", err, out)
	}
	if report.Overview.Current.TotalCalls != 3 {
		t.Fatalf("expected 3 Sudeste calls today, got %d", report.Overview.Current.TotalCalls)
	}
	if report.Overview.Previous == nil || report.Overview.Previous.TotalCalls != 0 {
		t.Fatalf("expected an empty previous day for Sudeste, got %+v", report.Overview.Previous)
	}
	if report.Status.Failed != 1 || len(report.Hourly) != 24 {
		t.Fatalf("unexpected status %+v / hourly %d", report.Status, len(report.Hourly))
	}
}

func TestReportRejectsUnknownFormat(t *testing.T) {
	if _, err := run(t, "report", "--input", writeInput(t), "--format", "xml"); err == nil {
		t.Fatal("expected an error for an unknown format")
	}
}

func TestReportRequiresInput(t *testing.T) {
	if _, err := run(t, "report"); err == nil {
		t.Fatal("expected an error without --input")
	}
}

func TestTrendText(t *testing.T) {
	up := "12.5"
	if got := trendText(domain.TrendResult{Magnitude: &up, Direction: domain.TrendUp}); got != "▲ 12.5%" {
		t.Fatalf("unexpected trend text %q", got)
	}
	if got := trendText(domain.TrendResult{Direction: domain.TrendNeutral}); got != "-" {
		t.Fatalf("unexpected trend text %q", got)
	}
}
