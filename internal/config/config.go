package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config captures the full configuration surface for the application.
type Config struct {
	App       AppConfig       `mapstructure:"app"`
	HTTP      HTTPConfig      `mapstructure:"http"`
	Postgres  PostgresConfig  `mapstructure:"postgres"`
	Scylla    ScyllaConfig    `mapstructure:"scylla"`
	Kafka     KafkaConfig     `mapstructure:"kafka"`
	Redis     RedisConfig     `mapstructure:"redis"`
	Telemetry TelemetryConfig `mapstructure:"telemetry"`
	Cache     CacheConfig     `mapstructure:"cache"`
	Warmer    WarmerConfig    `mapstructure:"warmer"`
	Dashboard DashboardConfig `mapstructure:"dashboard"`
}

type AppConfig struct {
	Name     string `mapstructure:"name"`
	Env      string `mapstructure:"env"`
	Version  string `mapstructure:"version"`
	TimeZone string `mapstructure:"time_zone"`
}

type HTTPConfig struct {
	Port            int           `mapstructure:"port"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	IdleTimeout     time.Duration `mapstructure:"idle_timeout"`
	BodyLimit       int           `mapstructure:"body_limit"`
	IngestRateLimit float64       `mapstructure:"ingest_rate_limit"`
	IngestBurst     int           `mapstructure:"ingest_burst"`
}

type PostgresConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	User            string        `mapstructure:"user"`
	Password        string        `mapstructure:"password"`
	Database        string        `mapstructure:"database"`
	SSLMode         string        `mapstructure:"ssl_mode"`
	MaxConns        int32         `mapstructure:"max_conns"`
	MinConns        int32         `mapstructure:"min_conns"`
	MaxConnLifetime time.Duration `mapstructure:"max_conn_lifetime"`
	MaxConnIdleTime time.Duration `mapstructure:"max_conn_idle_time"`
}

type ScyllaConfig struct {
	Enabled     bool          `mapstructure:"enabled"`
	Hosts       []string      `mapstructure:"hosts"`
	Port        int           `mapstructure:"port"`
	Keyspace    string        `mapstructure:"keyspace"`
	Consistency string        `mapstructure:"consistency"`
	Timeout     time.Duration `mapstructure:"timeout"`
	InitSchema  bool          `mapstructure:"init_schema"`
}

type KafkaConfig struct {
	Brokers         []string      `mapstructure:"brokers"`
	ClientID        string        `mapstructure:"client_id"`
	RecordsTopic    string        `mapstructure:"records_topic"`
	DeadLetterTopic string        `mapstructure:"dead_letter_topic"`
	ConsumerGroupID string        `mapstructure:"consumer_group_id"`
	CommitInterval  time.Duration `mapstructure:"commit_interval"`
	Partitions      int           `mapstructure:"partitions"`
}

type RedisConfig struct {
	Address      string        `mapstructure:"address"`
	Password     string        `mapstructure:"password"`
	DB           int           `mapstructure:"db"`
	DialTimeout  time.Duration `mapstructure:"dial_timeout"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	PoolSize     int           `mapstructure:"pool_size"`
	MinIdleConns int           `mapstructure:"min_idle_conns"`
	MaxRetries   int           `mapstructure:"max_retries"`
}

type TelemetryConfig struct {
	Endpoint        string        `mapstructure:"endpoint"`
	SampleRatio     float64       `mapstructure:"sample_ratio"`
	TracingEnabled  bool          `mapstructure:"tracing_enabled"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

type CacheConfig struct {
	SnapshotTTL time.Duration `mapstructure:"snapshot_ttl"`
	KeyPrefix   string        `mapstructure:"key_prefix"`
}

type WarmerConfig struct {
	TickInterval time.Duration `mapstructure:"tick_interval"`
	LockTTL      time.Duration `mapstructure:"lock_ttl"`
	LockKey      string        `mapstructure:"lock_key"`
	Periods      []string      `mapstructure:"periods"`
}

type DashboardConfig struct {
	DailyGoal          float64 `mapstructure:"daily_goal"`
	ExhibitionTopN     int     `mapstructure:"exhibition_top_n"`
	BusinessHoursStart int     `mapstructure:"business_hours_start"`
	BusinessHoursEnd   int     `mapstructure:"business_hours_end"`
}

// Load reads configuration from file and environment variables. A .env file
// in the working directory, when present, is loaded into the environment first.
func Load(path string) (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()

	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	v.AutomaticEnv()
	v.SetEnvPrefix("CALLANALYTICS")
	v.SetEnvKeyReplacer(NewEnvReplacer())

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("config: failed to read config file: %w", err)
	}

	cfg := new(Config)
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("config: failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// NewEnvReplacer standardizes environment variable names.
func NewEnvReplacer() *strings.Replacer {
	return strings.NewReplacer(".", "_", "-", "_")
}

// Validate fills defaults and reports invalid values.
func (c *Config) Validate() error {
	var errs []error

	if c.App.Name == "" {
		c.App.Name = "call-analytics"
	}
	if c.App.TimeZone == "" {
		c.App.TimeZone = "America/Sao_Paulo"
	}
	if _, err := time.LoadLocation(c.App.TimeZone); err != nil {
		errs = append(errs, fmt.Errorf("app.time_zone: %w", err))
	}

	if c.HTTP.Port == 0 {
		c.HTTP.Port = 8080
	}
	if c.HTTP.Port < 0 || c.HTTP.Port > 65535 {
		errs = append(errs, fmt.Errorf("http.port must be a valid port, got %d", c.HTTP.Port))
	}
	if c.HTTP.BodyLimit <= 0 {
		c.HTTP.BodyLimit = 16 << 20
	}
	if c.HTTP.IngestRateLimit <= 0 {
		c.HTTP.IngestRateLimit = 5
	}
	if c.HTTP.IngestBurst <= 0 {
		c.HTTP.IngestBurst = 10
	}

	if len(c.Kafka.Brokers) > 0 && c.Kafka.RecordsTopic == "" {
		errs = append(errs, errors.New("kafka.records_topic is required"))
	}
	if c.Kafka.DeadLetterTopic == "" && c.Kafka.RecordsTopic != "" {
		c.Kafka.DeadLetterTopic = c.Kafka.RecordsTopic + ".dlq"
	}
	if c.Kafka.ConsumerGroupID == "" {
		c.Kafka.ConsumerGroupID = c.App.Name
	}
	if c.Kafka.Partitions <= 0 {
		c.Kafka.Partitions = 12
	}

	if c.Cache.SnapshotTTL <= 0 {
		c.Cache.SnapshotTTL = time.Minute
	}
	if c.Cache.KeyPrefix == "" {
		c.Cache.KeyPrefix = "callanalytics"
	}

	if c.Warmer.TickInterval <= 0 {
		c.Warmer.TickInterval = 30 * time.Second
	}
	if c.Warmer.LockTTL <= 0 {
		c.Warmer.LockTTL = c.Warmer.TickInterval
	}
	if c.Warmer.LockKey == "" {
		c.Warmer.LockKey = c.Cache.KeyPrefix + ":warmer:lock"
	}
	if len(c.Warmer.Periods) == 0 {
		c.Warmer.Periods = []string{"today"}
	}

	if c.Dashboard.ExhibitionTopN <= 0 {
		c.Dashboard.ExhibitionTopN = 5
	}
	if c.Dashboard.BusinessHoursStart == 0 && c.Dashboard.BusinessHoursEnd == 0 {
		c.Dashboard.BusinessHoursStart, c.Dashboard.BusinessHoursEnd = 8, 20
	}
	if c.Dashboard.BusinessHoursStart < 0 || c.Dashboard.BusinessHoursEnd > 23 ||
		c.Dashboard.BusinessHoursStart > c.Dashboard.BusinessHoursEnd {
		errs = append(errs, fmt.Errorf("dashboard business hours must satisfy 0 <= start <= end <= 23, got %d-%d",
			c.Dashboard.BusinessHoursStart, c.Dashboard.BusinessHoursEnd))
	}
	if c.Dashboard.DailyGoal < 0 {
		errs = append(errs, fmt.Errorf("dashboard.daily_goal must not be negative, got %v", c.Dashboard.DailyGoal))
	}

	if len(errs) > 0 {
		return fmt.Errorf("config: %w", errors.Join(errs...))
	}
	return nil
}

// Location returns the time zone dashboards are computed in.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.App.TimeZone)
	if err != nil {
		return time.UTC
	}
	return loc
}
