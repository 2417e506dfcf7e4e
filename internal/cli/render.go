package cli

import (
	"fmt"
	"io"
	"sort"
	"strconv"

	"github.com/olekukonko/tablewriter"

	"github.com/acme/call-analytics/internal/analytics"
	"github.com/acme/call-analytics/internal/domain"
	"github.com/acme/call-analytics/internal/regions"
)

func renderReport(w io.Writer, r *Report) {
	ov := r.Overview
	fmt.Fprintf(w, "Period: %s\n\n", ov.Period.Preset)

	prev := func(get func(domain.MetricsSnapshot) string) string {
		if ov.Previous == nil {
			return "-"
		}
		return get(*ov.Previous)
	}
	count := func(get func(domain.MetricsSnapshot) int) func(domain.MetricsSnapshot) string {
		return func(m domain.MetricsSnapshot) string { return strconv.Itoa(get(m)) }
	}
	pct := func(get func(domain.MetricsSnapshot) float64) func(domain.MetricsSnapshot) string {
		return func(m domain.MetricsSnapshot) string { return analytics.FormatPercentage(get(m)) }
	}
	dur := func(get func(domain.MetricsSnapshot) float64) func(domain.MetricsSnapshot) string {
		return func(m domain.MetricsSnapshot) string { return analytics.FormatDuration(get(m)) }
	}

	rows := []struct {
		label string
		trend string
		get   func(domain.MetricsSnapshot) string
	}{
		{"Total calls", "total_calls", count(func(m domain.MetricsSnapshot) int { return m.TotalCalls })},
		{"Successful", "successful_count", count(func(m domain.MetricsSnapshot) int { return m.SuccessfulCount })},
		{"Success rate", "success_rate", pct(func(m domain.MetricsSnapshot) float64 { return m.SuccessRate })},
		{"Abandon rate", "abandon_rate", pct(func(m domain.MetricsSnapshot) float64 { return m.AbandonRate })},
		{"Non-effective rate", "non_effective_rate", pct(func(m domain.MetricsSnapshot) float64 { return m.NonEffectiveRate })},
		{"Average handle time", "average_handle_time", dur(func(m domain.MetricsSnapshot) float64 { return m.AverageHandleTimeSeconds })},
		{"Lost time", "lost_time", dur(func(m domain.MetricsSnapshot) float64 { return float64(m.LostTimeSeconds) })},
	}

	printTable(w, []string{"METRIC", "CURRENT", "PREVIOUS", "TREND"}, func(add func(...string)) {
		for _, row := range rows {
			add(row.label, row.get(ov.Current), prev(row.get), trendText(ov.Trends[row.trend]))
		}
	})

	if ov.Goal.Defined {
		fmt.Fprintf(w, "\nGoal: %d of %.0f (%.1f%%), %.0f remaining\n", ov.Goal.Achieved, ov.Goal.Target, ov.Goal.Percent, ov.Goal.Remaining)
	}

	fmt.Fprintln(w)
	printTable(w, []string{"STATUS", "CALLS"}, func(add func(...string)) {
		add("Attended", strconv.Itoa(r.Status.Attended))
		add("Abandoned", strconv.Itoa(r.Status.Abandoned))
		add("Failed", strconv.Itoa(r.Status.Failed))
	})

	fmt.Fprintln(w)
	printTable(w, []string{"HOUR", "CALLS"}, func(add func(...string)) {
		for _, b := range r.Hourly {
			if b.Count == 0 {
				continue
			}
			add(fmt.Sprintf("%02d:00", b.Hour), strconv.Itoa(b.Count))
		}
	})

	fmt.Fprintln(w)
	printTable(w, []string{"TABULATION", "CALLS"}, func(add func(...string)) {
		for _, t := range r.Tabulations {
			add(t.Label, strconv.Itoa(t.Count))
		}
	})

	fmt.Fprintln(w)
	regionMap := regions.Brazil()
	codes := make([]string, 0, len(r.States))
	for code := range r.States {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	printTable(w, []string{"STATE", "REGION", "CALLS", "SUCCESSFUL", "SUCCESS RATE"}, func(add func(...string)) {
		for _, code := range codes {
			m := r.States[code]
			region, ok := regionMap.RegionOf(code)
			if !ok {
				region = "-"
			}
			add(code, region, strconv.Itoa(m.TotalCalls), strconv.Itoa(m.SuccessfulCount), analytics.FormatPercentage(m.SuccessRate))
		}
	})
}

func trendText(t domain.TrendResult) string {
	if t.Magnitude == nil {
		return "-"
	}
	switch t.Direction {
	case domain.TrendUp:
		return "▲ " + *t.Magnitude + "%"
	case domain.TrendDown:
		return "▼ " + *t.Magnitude + "%"
	default:
		return *t.Magnitude + "%"
	}
}

// printTable renders a bordered, left-aligned table.
func printTable(w io.Writer, headers []string, fill func(add func(...string))) {
	tw := tablewriter.NewWriter(w)
	tw.SetHeader(headers)
	tw.SetBorder(true)
	tw.SetRowLine(false)
	tw.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	tw.SetAlignment(tablewriter.ALIGN_LEFT)
	tw.SetAutoWrapText(false)

	fill(func(cols ...string) {
		tw.Append(cols)
	})
	tw.Render()
}
