// Package analytics reduces collections of call records into the statistics
// behind the dashboard: metric snapshots, hourly volume, tabulation and state
// breakdowns, period-over-period trends and their display strings.
//
// Every function here is pure. Inputs are never mutated and each call returns
// freshly allocated output, so identical inputs always produce identical
// results. Records without a timestamp are skipped everywhere.
package analytics
