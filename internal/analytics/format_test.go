package analytics

import (
	"math"
	"testing"
)

func TestFormatDuration(t *testing.T) {
	cases := map[float64]string{
		0:      "00:00",
		65:     "01:05",
		59.6:   "01:00",
		3600:   "01:00:00",
		3661:   "01:01:01",
		90000:  "1d 01:00:00",
		172861: "2d 00:01:01",
		-5:     "00:00",
	}
	for in, want := range cases {
		if got := FormatDuration(in); got != want {
			t.Errorf("FormatDuration(%v) = %q, want %q", in, got, want)
		}
	}
	if got := FormatDuration(math.NaN()); got != "00:00" {
		t.Errorf("FormatDuration(NaN) = %q", got)
	}
	if got := FormatDuration(math.Inf(1)); got != "00:00" {
		t.Errorf("FormatDuration(+Inf) = %q", got)
	}
}

func TestFormatPercentage(t *testing.T) {
	cases := map[float64]string{
		0.5:     "50.0%",
		0:       "0.0%",
		1:       "100.0%",
		1.0 / 3: "33.3%",
	}
	for in, want := range cases {
		if got := FormatPercentage(in); got != want {
			t.Errorf("FormatPercentage(%v) = %q, want %q", in, got, want)
		}
	}
	if got := FormatPercentage(OrNaN(nil)); got != "0.0%" {
		t.Errorf("FormatPercentage(nil) = %q", got)
	}
}
