package handlers

import (
	"context"
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/acme/call-analytics/internal/app"
	"github.com/acme/call-analytics/internal/domain"
	"github.com/acme/call-analytics/internal/repository"
	"github.com/acme/call-analytics/internal/service/dashboard"
	"github.com/acme/call-analytics/internal/service/ingest"
	"github.com/acme/call-analytics/pkg/logger"
)

// DashboardService is what the dashboard routes read from.
type DashboardService interface {
	Overview(ctx context.Context, q dashboard.Query) (*dashboard.Overview, error)
	Hourly(ctx context.Context, q dashboard.Query) ([]domain.HourBucket, error)
	Tabulations(ctx context.Context, q dashboard.Query) ([]domain.TabulationCount, error)
	States(ctx context.Context, q dashboard.Query) (map[string]domain.StateMetrics, error)
	StatusDistribution(ctx context.Context, q dashboard.Query) (domain.StatusCounts, error)
	Exhibition(ctx context.Context, q dashboard.Query) (*dashboard.Exhibition, error)
	Operators(ctx context.Context) ([]string, error)
	StateCodes(ctx context.Context) ([]string, error)
	Regions() []string
}

// IngestService accepts uploads.
type IngestService interface {
	Submit(ctx context.Context, records []domain.CallRecord) (*ingest.Receipt, error)
}

// Deps lists the handler dependencies. Archive and Health are optional.
type Deps struct {
	Dashboard   DashboardService
	Ingest      IngestService
	Archive     repository.RecordArchive
	Health      func(ctx context.Context) map[string]error
	Logger      *logger.Logger
	IngestRate  rate.Limit
	IngestBurst int
}

// HandlerSet bundles all HTTP handlers.
type HandlerSet struct {
	dashboard DashboardService
	ingest    IngestService
	archive   repository.RecordArchive
	health    func(ctx context.Context) map[string]error
	logger    *logger.Logger
	limiter   *rate.Limiter
}

// New creates the handler bundle from the container.
func New(container *app.Container) *HandlerSet {
	services := container.Services()
	cfg := container.Config.HTTP
	return NewHandlerSet(Deps{
		Dashboard:   services.Dashboard,
		Ingest:      services.Ingest,
		Archive:     container.Repositories().Archive,
		Health:      container.Ping,
		Logger:      container.Logger.Named("http"),
		IngestRate:  rate.Limit(cfg.IngestRateLimit),
		IngestBurst: cfg.IngestBurst,
	})
}

// NewHandlerSet creates the handler bundle from explicit dependencies.
func NewHandlerSet(deps Deps) *HandlerSet {
	if deps.Logger == nil {
		deps.Logger = logger.Nop()
	}
	if deps.IngestRate <= 0 {
		deps.IngestRate = rate.Inf
	}
	if deps.IngestBurst <= 0 {
		deps.IngestBurst = 1
	}
	return &HandlerSet{
		dashboard: deps.Dashboard,
		ingest:    deps.Ingest,
		archive:   deps.Archive,
		health:    deps.Health,
		logger:    deps.Logger,
		limiter:   rate.NewLimiter(deps.IngestRate, deps.IngestBurst),
	}
}

// Register wires all routes onto the fiber app.
func (h *HandlerSet) Register(app *fiber.App) {
	app.Get("/healthz", h.healthz)

	api := app.Group("/api")
	v1 := api.Group("/v1")

	dash := v1.Group("/dashboard")
	dash.Get("/overview", h.overview)
	dash.Get("/hourly", h.hourly)
	dash.Get("/tabulations", h.tabulations)
	dash.Get("/states", h.states)
	dash.Get("/status", h.status)
	dash.Get("/exhibition", h.exhibition)

	filters := v1.Group("/filters")
	filters.Get("/operators", h.operators)
	filters.Get("/states", h.stateCodes)
	filters.Get("/regions", h.regions)

	records := v1.Group("/records")
	records.Post("/", rateLimited(h.limiter), h.submitRecords)
	records.Get("/archive/:day", h.archiveDay)
}

// ErrorHandler provides centralized error responses.
func (h *HandlerSet) ErrorHandler(ctx *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := err.Error()

	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		code = fiberErr.Code
		message = fiberErr.Message
	}

	if code >= fiber.StatusInternalServerError {
		h.logger.WithContext(ctx.UserContext()).Error("request failed",
			zap.String("path", ctx.Path()),
			zap.Error(err),
		)
	}

	return ctx.Status(code).JSON(fiber.Map{
		"error":    message,
		"trace_id": traceID(ctx),
	})
}

func (h *HandlerSet) healthz(ctx *fiber.Ctx) error {
	if h.health == nil {
		return ctx.Status(fiber.StatusOK).JSON(fiber.Map{"status": "ok"})
	}

	healthCtx, cancel := context.WithTimeout(ctx.UserContext(), 2*time.Second)
	defer cancel()

	errs := make(map[string]string)
	for name, err := range h.health(healthCtx) {
		errs[name] = err.Error()
	}

	status, label := fiber.StatusOK, "ok"
	if len(errs) > 0 {
		status, label = fiber.StatusServiceUnavailable, "degraded"
	}
	return ctx.Status(status).JSON(fiber.Map{"status": label, "errors": errs})
}

func traceID(ctx *fiber.Ctx) string {
	sc := trace.SpanContextFromContext(ctx.UserContext())
	if !sc.IsValid() {
		return ""
	}
	return sc.TraceID().String()
}
