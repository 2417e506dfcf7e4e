package app

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/acme/call-analytics/internal/analytics"
	"github.com/acme/call-analytics/internal/cache"
	"github.com/acme/call-analytics/internal/config"
	"github.com/acme/call-analytics/internal/infra/db"
	"github.com/acme/call-analytics/internal/infra/redis"
	"github.com/acme/call-analytics/internal/queue"
	"github.com/acme/call-analytics/internal/regions"
	"github.com/acme/call-analytics/internal/repository"
	pgrepo "github.com/acme/call-analytics/internal/repository/postgres"
	scyllarepo "github.com/acme/call-analytics/internal/repository/scylla"
	"github.com/acme/call-analytics/internal/service/dashboard"
	"github.com/acme/call-analytics/internal/service/ingest"
	"github.com/acme/call-analytics/internal/service/lock"
	"github.com/acme/call-analytics/pkg/logger"
)

// Container wires together shared infrastructure dependencies.
type Container struct {
	Config *config.Config
	Logger *logger.Logger

	Postgres *db.Postgres
	Scylla   *db.Scylla
	Redis    *redis.Client
	Kafka    *queue.Kafka

	// lazily initialised components
	components struct {
		once         sync.Once
		repositories *repositories
		services     *services
		publishers   *publishers
		cache        *cache.SnapshotCache
		warmerLock   *lock.Lock
	}
}

type repositories struct {
	Records repository.CallRecordRepository
	// Archive is nil unless scylla.enabled is set.
	Archive repository.RecordArchive
}

type services struct {
	Dashboard *dashboard.Service
	Ingest    *ingest.Service
}

type publishers struct {
	Records     *queue.RecordPublisher
	DeadLetters *queue.DeadLetterPublisher
}

// Build constructs a container for the given configuration path.
func Build(ctx context.Context, configPath string) (*Container, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}

	lg, err := logger.New(cfg.App.Env,
		zap.String("app", cfg.App.Name),
		zap.String("version", cfg.App.Version),
	)
	if err != nil {
		return nil, err
	}

	container := &Container{Config: cfg, Logger: lg}

	pg, err := db.NewPostgres(ctx, cfg.Postgres)
	if err != nil {
		return nil, fmt.Errorf("bootstrap postgres: %w", err)
	}
	container.Postgres = pg

	if cfg.Scylla.Enabled {
		scylla, err := db.NewScylla(cfg.Scylla)
		if err != nil {
			_ = container.Close(ctx)
			return nil, fmt.Errorf("bootstrap scylla: %w", err)
		}
		container.Scylla = scylla
	}

	redisClient, err := redis.NewClient(ctx, cfg.Redis)
	if err != nil {
		_ = container.Close(ctx)
		return nil, fmt.Errorf("bootstrap redis: %w", err)
	}
	container.Redis = redisClient

	kafka, err := queue.NewKafka(cfg.Kafka)
	if err != nil {
		_ = container.Close(ctx)
		return nil, fmt.Errorf("bootstrap kafka: %w", err)
	}
	container.Kafka = kafka

	return container, nil
}

func (c *Container) initComponents() {
	c.components.once.Do(func() {
		repos := &repositories{
			Records: pgrepo.NewCallRecordRepository(c.Postgres.DB()),
		}
		if c.Scylla != nil {
			repos.Archive = scyllarepo.NewRecordArchive(c.Scylla.Session())
		}

		pubs := &publishers{
			Records:     queue.NewRecordPublisher(c.Kafka, c.Config.Kafka.RecordsTopic),
			DeadLetters: queue.NewDeadLetterPublisher(c.Kafka, c.Config.Kafka.DeadLetterTopic),
		}

		snapshots := cache.NewSnapshotCache(c.Redis.Inner(), c.Config.Cache.KeyPrefix, c.Config.Cache.SnapshotTTL)

		dash := c.Config.Dashboard
		svcs := &services{
			Dashboard: dashboard.NewService(
				repos.Records,
				snapshots,
				analytics.DefaultEngine(),
				regions.Brazil(),
				dashboard.Options{
					Location:           c.Config.Location(),
					DailyGoal:          dash.DailyGoal,
					ExhibitionTopN:     dash.ExhibitionTopN,
					BusinessHoursStart: dash.BusinessHoursStart,
					BusinessHoursEnd:   dash.BusinessHoursEnd,
				},
				c.Logger,
			),
			Ingest: ingest.NewService(pubs.Records),
		}

		c.components.repositories = repos
		c.components.publishers = pubs
		c.components.services = svcs
		c.components.cache = snapshots
		c.components.warmerLock = lock.New(c.Redis.Inner(), c.Config.Warmer.LockKey, c.Config.Warmer.LockTTL)
	})
}

// Repositories exposes initialized repositories.
func (c *Container) Repositories() *repositories {
	c.initComponents()
	return c.components.repositories
}

// Services exposes initialized services.
func (c *Container) Services() *services {
	c.initComponents()
	return c.components.services
}

// Publishers exposes Kafka publishers.
func (c *Container) Publishers() *publishers {
	c.initComponents()
	return c.components.publishers
}

// Cache exposes the snapshot cache.
func (c *Container) Cache() *cache.SnapshotCache {
	c.initComponents()
	return c.components.cache
}

// WarmerLock exposes the lock electing the active warmer.
func (c *Container) WarmerLock() *lock.Lock {
	c.initComponents()
	return c.components.warmerLock
}

// Migrate creates the storage schemas.
func (c *Container) Migrate(ctx context.Context) error {
	if err := c.Postgres.Migrate(ctx); err != nil {
		return err
	}
	if c.Scylla != nil && c.Config.Scylla.InitSchema {
		if err := c.Scylla.Migrate(ctx); err != nil {
			return err
		}
	}
	return nil
}

// Ping checks every backing store, keyed by name.
func (c *Container) Ping(ctx context.Context) map[string]error {
	errs := make(map[string]error)
	if err := c.Postgres.DB().PingContext(ctx); err != nil {
		errs["postgres"] = err
	}
	if err := c.Redis.Ping(ctx); err != nil {
		errs["redis"] = err
	}
	if c.Scylla != nil {
		if err := c.Scylla.Ping(ctx); err != nil {
			errs["scylla"] = err
		}
	}
	return errs
}

// Close releases all held resources.
func (c *Container) Close(ctx context.Context) error {
	var errs []error
	if p := c.components.publishers; p != nil {
		if err := p.Records.Close(); err != nil {
			errs = append(errs, fmt.Errorf("record publisher close: %w", err))
		}
		if err := p.DeadLetters.Close(); err != nil {
			errs = append(errs, fmt.Errorf("dead letter publisher close: %w", err))
		}
	}
	if c.Redis != nil {
		if err := c.Redis.Close(); err != nil {
			errs = append(errs, fmt.Errorf("redis close: %w", err))
		}
	}
	if c.Scylla != nil {
		if err := c.Scylla.Close(); err != nil {
			errs = append(errs, fmt.Errorf("scylla close: %w", err))
		}
	}
	if c.Postgres != nil {
		if err := c.Postgres.Close(ctx); err != nil {
			errs = append(errs, fmt.Errorf("postgres close: %w", err))
		}
	}
	if c.Logger != nil {
		c.Logger.Sync()
	}
	if len(errs) > 0 {
		return fmt.Errorf("close errors: %w", errors.Join(errs...))
	}
	return nil
}

// EnsureTopics ensures required Kafka topics exist.
func (c *Container) EnsureTopics(ctx context.Context) error {
	topics := []string{c.Config.Kafka.RecordsTopic, c.Config.Kafka.DeadLetterTopic}
	return c.Kafka.EnsureTopics(ctx, topics, c.Config.Kafka.Partitions, 1)
}
