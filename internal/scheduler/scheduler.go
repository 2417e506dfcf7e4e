package scheduler

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/acme/call-analytics/internal/app"
	"github.com/acme/call-analytics/internal/service/dashboard"
	"github.com/acme/call-analytics/pkg/logger"
)

// Warmer precomputes a cached view.
type Warmer interface {
	WarmExhibition(ctx context.Context, q dashboard.Query) error
}

// Locker elects a single warming instance per tick.
type Locker interface {
	TryAcquire(ctx context.Context) (string, bool, error)
	Release(ctx context.Context, token string) error
}

// Options tunes the scheduler.
type Options struct {
	Interval           time.Duration
	Periods            []string
	Location           *time.Location
	BusinessHoursStart int
	BusinessHoursEnd   int
	Now                func() time.Time
}

// Scheduler periodically refreshes the exhibition snapshots.
type Scheduler struct {
	warmer Warmer
	locker Locker
	opts   Options
	logger *logger.Logger
	tracer trace.Tracer
}

// New constructs a scheduler from the container.
func New(container *app.Container) *Scheduler {
	cfg := container.Config
	return NewScheduler(
		container.Services().Dashboard,
		container.WarmerLock(),
		Options{
			Interval:           cfg.Warmer.TickInterval,
			Periods:            cfg.Warmer.Periods,
			Location:           cfg.Location(),
			BusinessHoursStart: cfg.Dashboard.BusinessHoursStart,
			BusinessHoursEnd:   cfg.Dashboard.BusinessHoursEnd,
		},
		container.Logger.Named("warmer"),
	)
}

// NewScheduler constructs a scheduler from explicit dependencies.
func NewScheduler(warmer Warmer, locker Locker, opts Options, log *logger.Logger) *Scheduler {
	if opts.Interval <= 0 {
		opts.Interval = 30 * time.Second
	}
	if len(opts.Periods) == 0 {
		opts.Periods = []string{"today"}
	}
	if opts.Location == nil {
		opts.Location = time.UTC
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if log == nil {
		log = logger.Nop()
	}
	return &Scheduler{
		warmer: warmer,
		locker: locker,
		opts:   opts,
		logger: log,
		tracer: otel.Tracer("callanalytics.warmer"),
	}
}

// Run executes the warming loop until cancelled.
func (s *Scheduler) Run(ctx context.Context) error {
	ticker := time.NewTicker(s.opts.Interval)
	defer ticker.Stop()

	for {
		if _, err := s.tick(ctx); err != nil && ctx.Err() == nil {
			s.logger.Error("warmer tick failed", zap.Error(err))
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

// tick warms every configured period once. It reports how many were refreshed.
func (s *Scheduler) tick(ctx context.Context) (int, error) {
	now := s.opts.Now()
	if !isWithinBusinessHours(now.In(s.opts.Location), s.opts.BusinessHoursStart, s.opts.BusinessHoursEnd) {
		s.logger.Debug("warmer: outside business hours, skipping")
		return 0, nil
	}

	sctx, span := s.tracer.Start(ctx, "warmer.tick")
	defer span.End()

	token, ok, err := s.locker.TryAcquire(sctx)
	if err != nil {
		span.RecordError(err)
		return 0, err
	}
	if !ok {
		span.SetAttributes(attribute.Bool("lock.acquired", false))
		s.logger.Debug("warmer: lock held elsewhere")
		return 0, nil
	}
	defer func() {
		if err := s.locker.Release(context.WithoutCancel(sctx), token); err != nil {
			s.logger.Warn("warmer: release lock", zap.Error(err))
		}
	}()

	warmed := 0
	for _, period := range s.opts.Periods {
		if err := s.warmer.WarmExhibition(sctx, dashboard.Query{Period: period}); err != nil {
			span.RecordError(err)
			s.logger.Error("warmer: exhibition", zap.String("period", period), zap.Error(err))
			continue
		}
		warmed++
	}
	span.SetAttributes(attribute.Int("periods.warmed", warmed))
	s.logger.Debug("warmer: tick finished", zap.Int("warmed", warmed))
	return warmed, nil
}

// isWithinBusinessHours reports whether local falls in the inclusive hour range.
func isWithinBusinessHours(local time.Time, startHour, endHour int) bool {
	if startHour == 0 && endHour == 0 {
		return true
	}
	h := local.Hour()
	return h >= startHour && h <= endHour
}
