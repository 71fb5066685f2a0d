// Package config loads process configuration from the environment, an optional
// app.{yaml,json,toml} file and built-in defaults.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server       Server       `mapstructure:"server"`
	Log          Log          `mapstructure:"log"`
	Database     Database     `mapstructure:"database"`
	Redis        RedisConfig  `mapstructure:"redis"`
	Kafka        Kafka        `mapstructure:"kafka"`
	Sync         Sync         `mapstructure:"sync"`
	Notification Notification `mapstructure:"notification"`
	Cascade      Cascade      `mapstructure:"cascade"`
}

// Server captures HTTP server level configuration.
type Server struct {
	Addr            string        `mapstructure:"addr"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
	JWTSigningKey   string        `mapstructure:"jwt_signing_key"`
	JWTIssuer       string        `mapstructure:"jwt_issuer"`
	JWTAudience     string        `mapstructure:"jwt_audience"`
	JWTLeeway       time.Duration `mapstructure:"jwt_leeway"`
	// MaxPageSize caps list page sizes; 0 leaves them unbounded.
	MaxPageSize int `mapstructure:"max_page_size"`
}

type Log struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

type Database struct {
	// Driver is the database/sql driver name: "pgx" or "postgres" (lib/pq).
	Driver          string        `mapstructure:"driver"`
	DSN             string        `mapstructure:"dsn"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
	Migrate         bool          `mapstructure:"migrate"`
	TxTimeout       time.Duration `mapstructure:"tx_timeout"`
}

// RedisConfig is optional; an empty URL disables the course cache.
type RedisConfig struct {
	URL          string        `mapstructure:"url"`
	PoolSize     int           `mapstructure:"pool_size"`
	MinIdleConns int           `mapstructure:"min_idle_conns"`
	DialTimeout  time.Duration `mapstructure:"dial_timeout"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	CourseTTL    time.Duration `mapstructure:"course_ttl"`
	// InvalidationHold keeps a changed course from being re-cached by a slow reader.
	InvalidationHold time.Duration `mapstructure:"invalidation_hold"`
}

type Kafka struct {
	Brokers           []string      `mapstructure:"brokers"`
	UserEventsTopic   string        `mapstructure:"user_events_topic"`
	ConsumerGroup     string        `mapstructure:"consumer_group"`
	NotificationTopic string        `mapstructure:"notification_topic"`
	Partitions        int32         `mapstructure:"partitions"`
	ReplicationFactor int16         `mapstructure:"replication_factor"`
	EnsureTopics      bool          `mapstructure:"ensure_topics"`
	PollTimeout       time.Duration `mapstructure:"poll_timeout"`
}

type Sync struct {
	Workers      int           `mapstructure:"workers"`
	ApplyTimeout time.Duration `mapstructure:"apply_timeout"`
	// Attempts bounds retries of a transient store failure per event.
	Attempts     int           `mapstructure:"attempts"`
	RetryBackoff time.Duration `mapstructure:"retry_backoff"`
	// BatchBackoff caps the wait before a failed batch is handled again.
	BatchBackoff time.Duration `mapstructure:"batch_backoff"`
}

type Notification struct {
	Timeout          time.Duration `mapstructure:"timeout"`
	FailureThreshold int           `mapstructure:"failure_threshold"`
	SuccessThreshold int           `mapstructure:"success_threshold"`
	Cooldown         time.Duration `mapstructure:"cooldown"`
}

type Cascade struct {
	Timeout time.Duration `mapstructure:"timeout"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.addr", ":8080")
	v.SetDefault("server.read_timeout", 10*time.Second)
	v.SetDefault("server.write_timeout", 15*time.Second)
	v.SetDefault("server.shutdown_timeout", 10*time.Second)
	v.SetDefault("server.jwt_signing_key", "dev-secret-key-change-in-production")
	v.SetDefault("server.jwt_issuer", "identity")
	v.SetDefault("server.jwt_audience", "catalog")
	v.SetDefault("server.jwt_leeway", 5*time.Second)
	v.SetDefault("server.max_page_size", 0)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	v.SetDefault("database.driver", "pgx")
	v.SetDefault("database.dsn", "")
	v.SetDefault("database.max_open_conns", 25)
	v.SetDefault("database.max_idle_conns", 5)
	v.SetDefault("database.conn_max_lifetime", 30*time.Minute)
	v.SetDefault("database.migrate", true)
	v.SetDefault("database.tx_timeout", 5*time.Second)

	v.SetDefault("redis.url", "")
	v.SetDefault("redis.pool_size", 10)
	v.SetDefault("redis.min_idle_conns", 2)
	v.SetDefault("redis.dial_timeout", 2*time.Second)
	v.SetDefault("redis.read_timeout", time.Second)
	v.SetDefault("redis.write_timeout", time.Second)
	v.SetDefault("redis.course_ttl", 5*time.Minute)
	v.SetDefault("redis.invalidation_hold", 10*time.Second)

	v.SetDefault("kafka.brokers", []string{})
	v.SetDefault("kafka.user_events_topic", "user-events")
	v.SetDefault("kafka.consumer_group", "catalog-user-replica")
	v.SetDefault("kafka.notification_topic", "notification-commands")
	v.SetDefault("kafka.partitions", 3)
	v.SetDefault("kafka.replication_factor", 1)
	v.SetDefault("kafka.ensure_topics", true)
	v.SetDefault("kafka.poll_timeout", 10*time.Second)

	v.SetDefault("sync.workers", 4)
	v.SetDefault("sync.apply_timeout", 5*time.Second)
	v.SetDefault("sync.attempts", 3)
	v.SetDefault("sync.retry_backoff", 100*time.Millisecond)
	v.SetDefault("sync.batch_backoff", 30*time.Second)

	v.SetDefault("notification.timeout", 2*time.Second)
	v.SetDefault("notification.failure_threshold", 5)
	v.SetDefault("notification.success_threshold", 1)
	v.SetDefault("notification.cooldown", 30*time.Second)

	v.SetDefault("cascade.timeout", 30*time.Second)
}

// Load reads the app config file from path (if present), then overlays environment
// variables such as SERVER_ADDR or KAFKA_BROKERS.
func Load(path string) (Config, error) {
	v := viper.New()
	setDefaults(v)

	v.AddConfigPath(path)
	v.SetConfigName("app")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}
	cfg.Kafka.Brokers = splitList(cfg.Kafka.Brokers)
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// splitList accepts both a real list and a single comma-separated env value.
func splitList(in []string) []string {
	var out []string
	for _, item := range in {
		for _, part := range strings.Split(item, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}

func (c Config) Validate() error {
	if c.Server.MaxPageSize < 0 {
		return errors.New("server.max_page_size must not be negative")
	}
	if c.Sync.Workers < 1 {
		return errors.New("sync.workers must be at least 1")
	}
	switch c.Database.Driver {
	case "pgx", "postgres":
	default:
		return fmt.Errorf("unsupported database.driver %q", c.Database.Driver)
	}
	return nil
}
