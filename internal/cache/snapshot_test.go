package cache

import (
	"strings"
	"testing"
	"time"
)

func TestKeyIsStable(t *testing.T) {
	a := Key("overview", "today", "SP", "")
	b := Key("overview", "today", "SP", "")
	if a != b {
		t.Fatalf("expected identical keys, got %q and %q", a, b)
	}
	if !strings.HasPrefix(a, "overview:") {
		t.Fatalf("expected view prefix, got %q", a)
	}
}

func TestKeySeparatesParts(t *testing.T) {
	if Key("overview", "ab", "c") == Key("overview", "a", "bc") {
		t.Fatal("expected part boundaries to change the key")
	}
	if Key("overview", "today") == Key("hourly", "today") {
		t.Fatal("expected view to change the key")
	}
}

func TestNewSnapshotCacheDefaults(t *testing.T) {
	c := NewSnapshotCache(nil, "", 0)
	if c.ttl != time.Minute || c.prefix != "callanalytics" {
		t.Fatalf("unexpected defaults ttl=%s prefix=%q", c.ttl, c.prefix)
	}
	if got := c.fullKey("x"); got != "callanalytics:snapshot:x" {
		t.Fatalf("unexpected full key %q", got)
	}
}
