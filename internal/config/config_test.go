package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadAppliesDefaults(t *testing.T) {
	path := writeConfig(t, `
app:
  env: local
kafka:
  brokers: ["localhost:9092"]
  records_topic: call-records
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.App.TimeZone != "America/Sao_Paulo" {
		t.Fatalf("expected default time zone, got %q", cfg.App.TimeZone)
	}
	if cfg.HTTP.Port != 8080 || cfg.Cache.SnapshotTTL != time.Minute {
		t.Fatalf("unexpected defaults: %+v %+v", cfg.HTTP, cfg.Cache)
	}
	if cfg.Dashboard.BusinessHoursStart != 8 || cfg.Dashboard.BusinessHoursEnd != 20 {
		t.Fatalf("unexpected business hours: %+v", cfg.Dashboard)
	}
	if cfg.Warmer.LockKey != "callanalytics:warmer:lock" {
		t.Fatalf("unexpected lock key %q", cfg.Warmer.LockKey)
	}
	if len(cfg.Warmer.Periods) != 1 || cfg.Warmer.Periods[0] != "today" {
		t.Fatalf("unexpected warmer periods %v", cfg.Warmer.Periods)
	}
	if cfg.Kafka.DeadLetterTopic != "call-records.dlq" || cfg.Kafka.ConsumerGroupID != "call-analytics" {
		t.Fatalf("unexpected kafka defaults: %+v", cfg.Kafka)
	}
}

func TestLoadEnvOverride(t *testing.T) {
	path := writeConfig(t, `
app:
  env: local
http:
  port: 9000
`)
	t.Setenv("CALLANALYTICS_HTTP_PORT", "9100")
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.HTTP.Port != 9100 {
		t.Fatalf("expected env override, got %d", cfg.HTTP.Port)
	}
}

func TestValidateReportsAllErrors(t *testing.T) {
	cfg := &Config{
		App:       AppConfig{TimeZone: "Mars/Olympus"},
		Kafka:     KafkaConfig{Brokers: []string{"b:9092"}},
		Dashboard: DashboardConfig{BusinessHoursStart: 20, BusinessHoursEnd: 8},
	}
	err := cfg.Validate()
	if err == nil {
		t.Fatalf("expected validation error")
	}
	for _, want := range []string{"time_zone", "records_topic", "business hours"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("expected %q in %v", want, err)
		}
	}
}

func TestLocationFallsBackToUTC(t *testing.T) {
	cfg := &Config{App: AppConfig{TimeZone: "nowhere"}}
	if cfg.Location() != time.UTC {
		t.Fatalf("expected UTC fallback")
	}
}
