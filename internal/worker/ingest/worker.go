package ingest

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/acme/call-analytics/internal/app"
	"github.com/acme/call-analytics/internal/queue"
	"github.com/acme/call-analytics/internal/repository"
	"github.com/acme/call-analytics/pkg/logger"
)

const (
	maxPersistAttempts = 3
	persistBackoff     = 500 * time.Millisecond
)

// MessageReader is the subset of *kafka.Reader the worker consumes from.
type MessageReader interface {
	FetchMessage(ctx context.Context) (kafka.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// DeadLetterSink parks messages that could not be processed.
type DeadLetterSink interface {
	Publish(ctx context.Context, original kafka.Message, cause error) error
}

// CacheInvalidator drops computed snapshots after new records land.
type CacheInvalidator interface {
	InvalidateAll(ctx context.Context) (int, error)
}

// Deps lists what the worker needs. Archive and Cache are optional.
type Deps struct {
	Reader      MessageReader
	Records     repository.CallRecordRepository
	Archive     repository.RecordArchive
	DeadLetters DeadLetterSink
	Cache       CacheInvalidator
	Logger      *logger.Logger
}

// Worker persists uploaded record batches.
type Worker struct {
	deps    Deps
	tracer  trace.Tracer
	backoff time.Duration
}

// New creates a worker reading the records topic of the container's Kafka.
func New(container *app.Container) *Worker {
	cfg := container.Config
	repos := container.Repositories()
	deps := Deps{
		Reader:      container.Kafka.NewReader(cfg.Kafka.RecordsTopic, cfg.Kafka.ConsumerGroupID+"-ingest"),
		Records:     repos.Records,
		Archive:     repos.Archive,
		DeadLetters: container.Publishers().DeadLetters,
		Cache:       container.Cache(),
		Logger:      container.Logger.Named("ingestworker"),
	}
	return NewWorker(deps)
}

// NewWorker creates a worker from explicit dependencies.
func NewWorker(deps Deps) *Worker {
	if deps.Logger == nil {
		deps.Logger = logger.Nop()
	}
	return &Worker{deps: deps, tracer: otel.Tracer("callanalytics.ingestworker"), backoff: persistBackoff}
}

// Run processes record batches until the context is cancelled.
func (w *Worker) Run(ctx context.Context) error {
	reader := w.deps.Reader
	defer reader.Close()
	log := w.deps.Logger

	for {
		msg, err := reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			log.Error("ingest worker: fetch", zap.Error(err))
			continue
		}

		w.handle(ctx, msg)

		if err := reader.CommitMessages(ctx, msg); err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			log.Error("ingest worker: commit", zap.Error(err))
		}
	}
}

// handle processes one message. Failures are routed to the dead-letter topic
// so the offset can always be committed.
func (w *Worker) handle(ctx context.Context, msg kafka.Message) {
	ctx, span := w.tracer.Start(ctx, "records.ingest", trace.WithAttributes(
		attribute.Int("kafka.partition", msg.Partition),
		attribute.Int64("kafka.offset", msg.Offset),
	))
	defer span.End()
	log := w.deps.Logger.WithContext(ctx)

	var batch queue.RecordBatchMessage
	if err := json.Unmarshal(msg.Value, &batch); err != nil {
		w.deadLetter(ctx, span, msg, fmt.Errorf("decode batch: %w", err))
		return
	}
	span.SetAttributes(attribute.String("batch.id", batch.BatchID.String()), attribute.Int("batch.size", len(batch.Records)))

	if err := w.persist(ctx, batch); err != nil {
		w.deadLetter(ctx, span, msg, err)
		return
	}

	if w.deps.Archive != nil {
		if err := w.deps.Archive.InsertBatch(ctx, batch.Records); err != nil {
			span.RecordError(err)
			log.Warn("ingest worker: archive batch", zap.String("batch_id", batch.BatchID.String()), zap.Error(err))
		}
	}

	if w.deps.Cache != nil {
		if _, err := w.deps.Cache.InvalidateAll(ctx); err != nil {
			span.RecordError(err)
			log.Warn("ingest worker: invalidate snapshots", zap.Error(err))
		}
	}

	log.Info("ingest worker: batch stored",
		zap.String("batch_id", batch.BatchID.String()),
		zap.Int("records", len(batch.Records)),
	)
}

func (w *Worker) persist(ctx context.Context, batch queue.RecordBatchMessage) error {
	var err error
	for attempt := 1; attempt <= maxPersistAttempts; attempt++ {
		if err = w.deps.Records.InsertBatch(ctx, batch.Records); err == nil {
			return nil
		}
		w.deps.Logger.WithContext(ctx).Warn("ingest worker: insert batch",
			zap.String("batch_id", batch.BatchID.String()),
			zap.Int("attempt", attempt),
			zap.Error(err),
		)
		if attempt == maxPersistAttempts {
			break
		}
		select {
		case <-ctx.Done():
			return errors.Join(err, ctx.Err())
		case <-time.After(w.backoff * time.Duration(attempt)):
		}
	}
	return fmt.Errorf("insert batch after %d attempts: %w", maxPersistAttempts, err)
}

func (w *Worker) deadLetter(ctx context.Context, span trace.Span, msg kafka.Message, cause error) {
	span.RecordError(cause)
	span.SetStatus(codes.Error, cause.Error())
	log := w.deps.Logger.WithContext(ctx)
	log.Error("ingest worker: batch failed", zap.Int64("offset", msg.Offset), zap.Error(cause))

	if w.deps.DeadLetters == nil {
		return
	}
	if err := w.deps.DeadLetters.Publish(ctx, msg, cause); err != nil {
		log.Error("ingest worker: dead letter", zap.Error(err))
	}
}
