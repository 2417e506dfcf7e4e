package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/acme/call-analytics/internal/analytics"
	"github.com/acme/call-analytics/internal/domain"
	"github.com/acme/call-analytics/internal/regions"
	"github.com/acme/call-analytics/internal/repository/memory"
	"github.com/acme/call-analytics/internal/service/dashboard"
)

type reportFlags struct {
	input    string
	period   string
	state    string
	operator string
	region   string
	goal     float64
	format   string
	timeZone string
	now      string
}

// Report is everything one report run computes.
type Report struct {
	Overview    *dashboard.Overview            `json:"overview"`
	Status      domain.StatusCounts            `json:"status"`
	Hourly      []domain.HourBucket            `json:"hourly"`
	Tabulations []domain.TabulationCount       `json:"tabulations"`
	States      map[string]domain.StateMetrics `json:"states"`
}

func newReportCommand() *cobra.Command {
	var f reportFlags
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Aggregate a JSON export of call records",
		Example: `  callstats report --input calls.json
  cat calls.json | callstats report --input - --period today --state SP`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runReport(cmd.Context(), cmd.InOrStdin(), cmd.OutOrStdout(), f)
		},
	}

	fl := cmd.Flags()
	fl.StringVarP(&f.input, "input", "i", "", "JSON file with an array of call records (- for stdin)")
	fl.StringVarP(&f.period, "period", "p", analytics.PeriodAll, "today|yesterday|week|month|all")
	fl.StringVar(&f.state, "state", "", "state code (UF) filter")
	fl.StringVar(&f.operator, "operator", "", "operator name filter")
	fl.StringVar(&f.region, "region", "", "region filter, e.g. Sudeste")
	fl.Float64Var(&f.goal, "goal", 0, "successful-call goal for the period")
	fl.StringVarP(&f.format, "format", "f", "table", "table|json")
	fl.StringVar(&f.timeZone, "tz", "America/Sao_Paulo", "time zone used for periods and hours")
	fl.StringVar(&f.now, "now", "", "reference time (RFC3339) for relative periods; defaults to the current time")
	_ = cmd.MarkFlagRequired("input")
	return cmd
}

func runReport(ctx context.Context, stdin io.Reader, out io.Writer, f reportFlags) error {
	if f.format != "table" && f.format != "json" {
		return fmt.Errorf("unknown format %q: expected table or json", f.format)
	}
	loc, err := time.LoadLocation(f.timeZone)
	if err != nil {
		return fmt.Errorf("invalid --tz: %w", err)
	}
	now := time.Now()
	if f.now != "" {
		if now, err = time.Parse(time.RFC3339, f.now); err != nil {
			return fmt.Errorf("invalid --now: %w", err)
		}
	}

	records, err := readRecords(stdin, f.input)
	if err != nil {
		return err
	}

	svc := dashboard.NewService(
		memory.NewCallRecordRepository(records...),
		nil,
		analytics.DefaultEngine(),
		regions.Brazil(),
		dashboard.Options{Location: loc, Now: func() time.Time { return now }},
		nil,
	)

	q := dashboard.Query{Period: f.period, State: f.state, Operator: f.operator, Region: f.region}
	if f.goal > 0 {
		q.Goal = &f.goal
	}

	report, err := buildReport(ctx, svc, q)
	if err != nil {
		return err
	}

	if f.format == "json" {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(report)
	}
	renderReport(out, report)
	return nil
}

func buildReport(ctx context.Context, svc *dashboard.Service, q dashboard.Query) (*Report, error) {
	ov, err := svc.Overview(ctx, q)
	if err != nil {
		return nil, err
	}
	status, err := svc.StatusDistribution(ctx, q)
	if err != nil {
		return nil, err
	}
	hourly, err := svc.Hourly(ctx, q)
	if err != nil {
		return nil, err
	}
	tabs, err := svc.Tabulations(ctx, q)
	if err != nil {
		return nil, err
	}
	states, err := svc.States(ctx, q)
	if err != nil {
		return nil, err
	}
	return &Report{Overview: ov, Status: status, Hourly: hourly, Tabulations: tabs, States: states}, nil
}

func readRecords(stdin io.Reader, path string) ([]domain.CallRecord, error) {
	var r io.Reader = stdin
	if path != "-" {
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("open input: %w", err)
		}
		defer f.Close()
		r = f
	}

	var records []domain.CallRecord
	if err := json.NewDecoder(r).Decode(&records); err != nil {
		return nil, fmt.Errorf("decode input: %w", err)
	}
	return records, nil
}
