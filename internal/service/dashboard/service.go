// Package dashboard serves the aggregated call-center views.
package dashboard

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/acme/call-analytics/internal/analytics"
	"github.com/acme/call-analytics/internal/cache"
	"github.com/acme/call-analytics/internal/domain"
	"github.com/acme/call-analytics/internal/regions"
	"github.com/acme/call-analytics/internal/repository"
	"github.com/acme/call-analytics/pkg/logger"
)

// SnapshotCache stores computed views. *cache.SnapshotCache satisfies it.
type SnapshotCache interface {
	Get(ctx context.Context, key string, dst any) (bool, error)
	Set(ctx context.Context, key string, value any) error
}

// Options tunes the service.
type Options struct {
	Location           *time.Location
	DailyGoal          float64
	ExhibitionTopN     int
	BusinessHoursStart int
	BusinessHoursEnd   int
	Now                func() time.Time
}

// Service computes dashboard views from stored call records.
type Service struct {
	repo    repository.CallRecordRepository
	cache   SnapshotCache
	engine  *analytics.Engine
	regions regions.Map
	opts    Options
	logger  *logger.Logger
	tracer  trace.Tracer
}

// NewService constructs a dashboard service. snapshots may be nil.
func NewService(
	repo repository.CallRecordRepository,
	snapshots SnapshotCache,
	engine *analytics.Engine,
	regionMap regions.Map,
	opts Options,
	log *logger.Logger,
) *Service {
	if opts.Location == nil {
		opts.Location = time.UTC
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.ExhibitionTopN <= 0 {
		opts.ExhibitionTopN = 5
	}
	if opts.BusinessHoursStart == 0 && opts.BusinessHoursEnd == 0 {
		opts.BusinessHoursStart, opts.BusinessHoursEnd = 8, 20
	}
	if engine == nil {
		engine = analytics.DefaultEngine()
	}
	if log == nil {
		log = logger.Nop()
	}
	return &Service{
		repo:    repo,
		cache:   snapshots,
		engine:  engine,
		regions: regionMap,
		opts:    opts,
		logger:  log.Named("dashboard"),
		tracer:  otel.Tracer("callanalytics.dashboard"),
	}
}

// Formatted holds display strings for the headline metrics.
type Formatted struct {
	AverageHandleTime string `json:"average_handle_time"`
	LostTime          string `json:"lost_time"`
	SuccessRate       string `json:"success_rate"`
	AbandonRate       string `json:"abandon_rate"`
	NonEffectiveRate  string `json:"non_effective_rate"`
}

// Overview is the headline view of a query.
type Overview struct {
	Query     Query                         `json:"query"`
	Period    analytics.Period              `json:"period"`
	Current   domain.MetricsSnapshot        `json:"current"`
	Previous  *domain.MetricsSnapshot       `json:"previous,omitempty"`
	Trends    map[string]domain.TrendResult `json:"trends"`
	Formatted Formatted                     `json:"formatted"`
	Goal      analytics.GoalProgress        `json:"goal"`
}

// Exhibition is the wall-screen view: headline metrics, business-hours
// volume and the most frequent outcomes.
type Exhibition struct {
	Overview
	Hourly         []domain.HourBucket      `json:"hourly"`
	TopTabulations []domain.TabulationCount `json:"top_tabulations"`
}

// Overview computes the current and previous snapshots with trends.
func (s *Service) Overview(ctx context.Context, q Query) (*Overview, error) {
	q, period, err := s.resolve(q)
	if err != nil {
		return nil, err
	}
	return cached(ctx, s, cache.Key("overview", q.cacheParts(period)...), func(ctx context.Context) (*Overview, error) {
		return s.overview(ctx, q, period)
	})
}

// Hourly returns the 24 hourly volume buckets of the current window.
func (s *Service) Hourly(ctx context.Context, q Query) ([]domain.HourBucket, error) {
	q, period, err := s.resolve(q)
	if err != nil {
		return nil, err
	}
	return cached(ctx, s, cache.Key("hourly", q.cacheParts(period)...), func(ctx context.Context) ([]domain.HourBucket, error) {
		records, err := s.load(ctx, q, period.Current)
		if err != nil {
			return nil, err
		}
		return analytics.HourlyCounts(records), nil
	})
}

// Tabulations returns the outcome label distribution, most frequent first.
func (s *Service) Tabulations(ctx context.Context, q Query) ([]domain.TabulationCount, error) {
	q, period, err := s.resolve(q)
	if err != nil {
		return nil, err
	}
	return cached(ctx, s, cache.Key("tabulations", q.cacheParts(period)...), func(ctx context.Context) ([]domain.TabulationCount, error) {
		records, err := s.load(ctx, q, period.Current)
		if err != nil {
			return nil, err
		}
		return s.engine.TabulationDistribution(records), nil
	})
}

// States returns per-state totals and success rates.
func (s *Service) States(ctx context.Context, q Query) (map[string]domain.StateMetrics, error) {
	q, period, err := s.resolve(q)
	if err != nil {
		return nil, err
	}
	return cached(ctx, s, cache.Key("states", q.cacheParts(period)...), func(ctx context.Context) (map[string]domain.StateMetrics, error) {
		records, err := s.load(ctx, q, period.Current)
		if err != nil {
			return nil, err
		}
		return s.engine.ByState(records), nil
	})
}

// StatusDistribution splits the current window into attended, abandoned and failed.
func (s *Service) StatusDistribution(ctx context.Context, q Query) (domain.StatusCounts, error) {
	q, period, err := s.resolve(q)
	if err != nil {
		return domain.StatusCounts{}, err
	}
	return cached(ctx, s, cache.Key("status", q.cacheParts(period)...), func(ctx context.Context) (domain.StatusCounts, error) {
		records, err := s.load(ctx, q, period.Current)
		if err != nil {
			return domain.StatusCounts{}, err
		}
		return analytics.StatusDistribution(records), nil
	})
}

// Exhibition computes the wall-screen view. Only the period and goal of q are
// used; the view always covers every state and operator.
func (s *Service) Exhibition(ctx context.Context, q Query) (*Exhibition, error) {
	q, period, err := s.resolve(Query{Period: q.Period, Goal: q.Goal})
	if err != nil {
		return nil, err
	}
	return cached(ctx, s, cache.Key("exhibition", q.cacheParts(period)...), func(ctx context.Context) (*Exhibition, error) {
		return s.exhibition(ctx, q, period)
	})
}

// WarmExhibition recomputes the wall-screen view and overwrites its cache entry.
func (s *Service) WarmExhibition(ctx context.Context, q Query) error {
	q, period, err := s.resolve(Query{Period: q.Period, Goal: q.Goal})
	if err != nil {
		return err
	}
	ex, err := s.exhibition(ctx, q, period)
	if err != nil {
		return err
	}
	if s.cache == nil {
		return nil
	}
	if err := s.cache.Set(ctx, cache.Key("exhibition", q.cacheParts(period)...), ex); err != nil {
		return fmt.Errorf("dashboard service: warm exhibition: %w", err)
	}
	return nil
}

func (s *Service) exhibition(ctx context.Context, q Query, period analytics.Period) (*Exhibition, error) {
	ctx, span := s.tracer.Start(ctx, "dashboard.exhibition", trace.WithAttributes(attribute.String("period", q.Period)))
	defer span.End()

	current, err := s.load(ctx, q, period.Current)
	if err != nil {
		recordErr(span, err)
		return nil, err
	}
	ov, err := s.overviewFrom(ctx, q, period, current)
	if err != nil {
		recordErr(span, err)
		return nil, err
	}

	hourly := analytics.HourWindow(analytics.HourlyCounts(current), s.opts.BusinessHoursStart, s.opts.BusinessHoursEnd)
	top := analytics.TopTabulations(s.engine.TabulationDistribution(current), analytics.ExhibitionExcludedLabels(), s.opts.ExhibitionTopN)
	return &Exhibition{
		Overview:       *ov,
		Hourly:         hourly,
		TopTabulations: top,
	}, nil
}

// Operators lists the operator names available as filters.
func (s *Service) Operators(ctx context.Context) ([]string, error) {
	ops, err := s.repo.DistinctOperators(ctx)
	if err != nil {
		return nil, fmt.Errorf("dashboard service: list operators: %w", err)
	}
	return ops, nil
}

// StateCodes lists the state codes available as filters.
func (s *Service) StateCodes(ctx context.Context) ([]string, error) {
	states, err := s.repo.DistinctStates(ctx)
	if err != nil {
		return nil, fmt.Errorf("dashboard service: list states: %w", err)
	}
	return states, nil
}

// Regions lists the selectable regions.
func (s *Service) Regions() []string {
	return s.regions.Regions()
}

func (s *Service) resolve(q Query) (Query, analytics.Period, error) {
	q = q.Normalize()
	period, err := analytics.ResolvePeriod(q.Period, s.opts.Now(), s.opts.Location)
	if err != nil {
		return q, analytics.Period{}, err
	}
	return q, period, nil
}

func (s *Service) overview(ctx context.Context, q Query, period analytics.Period) (*Overview, error) {
	ctx, span := s.tracer.Start(ctx, "dashboard.overview", trace.WithAttributes(
		attribute.String("period", q.Period),
		attribute.String("state", q.State),
		attribute.String("region", q.Region),
	))
	defer span.End()

	current, err := s.load(ctx, q, period.Current)
	if err != nil {
		recordErr(span, err)
		return nil, err
	}
	ov, err := s.overviewFrom(ctx, q, period, current)
	if err != nil {
		recordErr(span, err)
		return nil, err
	}
	return ov, nil
}

func (s *Service) overviewFrom(ctx context.Context, q Query, period analytics.Period, current []domain.CallRecord) (*Overview, error) {
	cur := s.engine.Aggregate(current)
	ov := &Overview{
		Query:     q,
		Period:    period,
		Current:   cur,
		Formatted: format(cur),
	}

	if period.Previous != nil {
		previous, err := s.load(ctx, q, *period.Previous)
		if err != nil {
			return nil, err
		}
		prev := s.engine.Aggregate(previous)
		ov.Previous = &prev
	}
	ov.Trends = trends(cur, ov.Previous)

	goal := s.opts.DailyGoal
	if q.Goal != nil {
		goal = *q.Goal
	}
	operatorCount := 1
	if q.OperatorSelected() && goal > 0 {
		ops, err := s.repo.DistinctOperators(ctx)
		if err != nil {
			return nil, fmt.Errorf("dashboard service: count operators: %w", err)
		}
		operatorCount = len(ops)
	}
	ov.Goal = analytics.GoalProgressFor(goal, cur.SuccessfulCount, operatorCount, q.OperatorSelected())
	return ov, nil
}

// load fetches one window from storage and narrows it to the query.
func (s *Service) load(ctx context.Context, q Query, w analytics.Window) ([]domain.CallRecord, error) {
	ctx, span := s.tracer.Start(ctx, "dashboard.load")
	defer span.End()

	records, err := s.repo.ListBetween(ctx, w.Start, w.End)
	if err != nil {
		recordErr(span, err)
		return nil, fmt.Errorf("dashboard service: load records: %w", err)
	}
	for i := range records {
		records[i] = records[i].In(s.opts.Location)
	}
	filtered := analytics.Filter(records, q.spec(w, s.regions))
	span.SetAttributes(attribute.Int("records.loaded", len(records)), attribute.Int("records.matched", len(filtered)))
	return filtered, nil
}

func cached[T any](ctx context.Context, s *Service, key string, compute func(context.Context) (T, error)) (T, error) {
	if s.cache != nil {
		var hit T
		ok, err := s.cache.Get(ctx, key, &hit)
		if err != nil {
			s.logger.WithContext(ctx).Warn("snapshot cache read failed", zap.String("key", key), zap.Error(err))
		} else if ok {
			return hit, nil
		}
	}

	value, err := compute(ctx)
	if err != nil {
		var zero T
		return zero, err
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, key, value); err != nil {
			s.logger.WithContext(ctx).Warn("snapshot cache write failed", zap.String("key", key), zap.Error(err))
		}
	}
	return value, nil
}

func format(m domain.MetricsSnapshot) Formatted {
	return Formatted{
		AverageHandleTime: analytics.FormatDuration(m.AverageHandleTimeSeconds),
		LostTime:          analytics.FormatDuration(float64(m.LostTimeSeconds)),
		SuccessRate:       analytics.FormatPercentage(m.SuccessRate),
		AbandonRate:       analytics.FormatPercentage(m.AbandonRate),
		NonEffectiveRate:  analytics.FormatPercentage(m.NonEffectiveRate),
	}
}

func trends(cur domain.MetricsSnapshot, prev *domain.MetricsSnapshot) map[string]domain.TrendResult {
	metric := func(get func(domain.MetricsSnapshot) float64) domain.TrendResult {
		c := get(cur)
		if prev == nil {
			return analytics.TrendOf(&c, nil)
		}
		p := get(*prev)
		return analytics.TrendOf(&c, &p)
	}
	return map[string]domain.TrendResult{
		"total_calls":         metric(func(m domain.MetricsSnapshot) float64 { return float64(m.TotalCalls) }),
		"successful_count":    metric(func(m domain.MetricsSnapshot) float64 { return float64(m.SuccessfulCount) }),
		"average_handle_time": metric(func(m domain.MetricsSnapshot) float64 { return m.AverageHandleTimeSeconds }),
		"lost_time":           metric(func(m domain.MetricsSnapshot) float64 { return float64(m.LostTimeSeconds) }),
		"success_rate":        metric(func(m domain.MetricsSnapshot) float64 { return m.SuccessRate }),
		"abandon_rate":        metric(func(m domain.MetricsSnapshot) float64 { return m.AbandonRate }),
		"non_effective_rate":  metric(func(m domain.MetricsSnapshot) float64 { return m.NonEffectiveRate }),
	}
}

func recordErr(span trace.Span, err error) {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
}
