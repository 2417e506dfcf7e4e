package db

import (
	"context"
	"fmt"

	"github.com/gocql/gocql"

	"github.com/acme/call-analytics/internal/config"
)

// Scylla holds the archive session. It is only built when scylla.enabled is set.
type Scylla struct {
	session  *gocql.Session
	keyspace string
}

const (
	keyspaceSchema = `CREATE KEYSPACE IF NOT EXISTS %s
	WITH replication = {'class': 'SimpleStrategy', 'replication_factor': 1}`

	recordsByDaySchema = `CREATE TABLE IF NOT EXISTS call_records_by_day (
	bucket date,
	call_timestamp timestamp,
	id uuid,
	duration_seconds int,
	uf text,
	operator_name text,
	tabulation text,
	uploaded_at timestamp,
	PRIMARY KEY ((bucket), call_timestamp, id)
) WITH CLUSTERING ORDER BY (call_timestamp ASC, id ASC)`
)

// NewScylla opens a token-aware session on the archive keyspace, creating
// the keyspace first when scylla.init_schema is set.
func NewScylla(cfg config.ScyllaConfig) (*Scylla, error) {
	if cfg.InitSchema {
		if err := createKeyspace(cfg); err != nil {
			return nil, err
		}
	}

	cluster := newCluster(cfg)
	cluster.Keyspace = cfg.Keyspace
	session, err := cluster.CreateSession()
	if err != nil {
		return nil, fmt.Errorf("scylla: create session: %w", err)
	}
	return &Scylla{session: session, keyspace: cfg.Keyspace}, nil
}

func newCluster(cfg config.ScyllaConfig) *gocql.ClusterConfig {
	cluster := gocql.NewCluster(cfg.Hosts...)
	if cfg.Port > 0 {
		cluster.Port = cfg.Port
	}
	if cfg.Timeout > 0 {
		cluster.Timeout = cfg.Timeout
	}
	cluster.Consistency = parseConsistency(cfg.Consistency)
	cluster.RetryPolicy = &gocql.SimpleRetryPolicy{NumRetries: 3}
	cluster.PoolConfig.HostSelectionPolicy = gocql.TokenAwareHostPolicy(gocql.RoundRobinHostPolicy())
	return cluster
}

func createKeyspace(cfg config.ScyllaConfig) error {
	session, err := newCluster(cfg).CreateSession()
	if err != nil {
		return fmt.Errorf("scylla: bootstrap session: %w", err)
	}
	defer session.Close()

	if err := session.Query(fmt.Sprintf(keyspaceSchema, cfg.Keyspace)).Exec(); err != nil {
		return fmt.Errorf("scylla: create keyspace %s: %w", cfg.Keyspace, err)
	}
	return nil
}

// Migrate creates the day-bucketed archive table.
func (s *Scylla) Migrate(ctx context.Context) error {
	if err := s.session.Query(recordsByDaySchema).WithContext(ctx).Exec(); err != nil {
		return fmt.Errorf("scylla: migrate %s: %w", s.keyspace, err)
	}
	return nil
}

// Ping runs a trivial query against the local node.
func (s *Scylla) Ping(ctx context.Context) error {
	if err := s.session.Query("SELECT now() FROM system.local").WithContext(ctx).Exec(); err != nil {
		return fmt.Errorf("scylla: ping: %w", err)
	}
	return nil
}

// Session exposes the gocql session to the archive repository.
func (s *Scylla) Session() *gocql.Session {
	return s.session
}

// Close shuts down the session.
func (s *Scylla) Close() error {
	if s.session != nil {
		s.session.Close()
	}
	return nil
}

// parseConsistency accepts gocql level names in any case and falls back to
// QUORUM.
func parseConsistency(level string) gocql.Consistency {
	if level == "" {
		return gocql.Quorum
	}
	c, err := gocql.ParseConsistencyWrapper(level)
	if err != nil {
		return gocql.Quorum
	}
	return c
}
