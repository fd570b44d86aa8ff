// Package config loads and validates termrank configuration from YAML files
// with environment-variable overrides. It provides typed structs for the
// pipeline itself and for every optional collaborator (result store, Redis
// cache, Kafka publisher, metrics).
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	apperrors "github.com/Adithya-Monish-Kumar-K/termrank/pkg/errors"
	"gopkg.in/yaml.v3"
)

const (
	StemmerSuffix   = "suffix"
	StemmerSnowball = "snowball"

	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// Config is the top-level application configuration.
type Config struct {
	Pipeline   PipelineConfig   `yaml:"pipeline"`
	Cache      CacheConfig      `yaml:"cache"`
	Store      StoreConfig      `yaml:"store"`
	Publish    PublishConfig    `yaml:"publish"`
	Postgres   PostgresConfig   `yaml:"postgres"`
	Redis      RedisConfig      `yaml:"redis"`
	Kafka      KafkaConfig      `yaml:"kafka"`
	Resilience ResilienceConfig `yaml:"resilience"`
	Logging    LoggingConfig    `yaml:"logging"`
	Metrics    MetricsConfig    `yaml:"metrics"`
}

// PipelineConfig controls the inputs, outputs and parallelism of a run.
type PipelineConfig struct {
	Manifest    string `yaml:"manifest"`
	Stopwords   string `yaml:"stopwords"`
	DocumentDir string `yaml:"documentDir"`
	OutputDir   string `yaml:"outputDir"`
	TopN        int    `yaml:"topN"`
	Workers     int    `yaml:"workers"`
	Stemmer     string `yaml:"stemmer"`
}

// CacheConfig toggles the Redis normalized-text cache.
type CacheConfig struct {
	Enabled bool `yaml:"enabled"`
}

// StoreConfig selects the SQL result store. An empty driver disables it.
type StoreConfig struct {
	Driver     string `yaml:"driver"`
	SQLitePath string `yaml:"sqlitePath"`
}

// PublishConfig toggles Kafka scored-document events.
type PublishConfig struct {
	Enabled bool `yaml:"enabled"`
}

// PostgresConfig holds PostgreSQL connection parameters.
type PostgresConfig struct {
	Host            string        `yaml:"host"`
	Port            int           `yaml:"port"`
	Database        string        `yaml:"database"`
	User            string        `yaml:"user"`
	Password        string        `yaml:"password"`
	SSLMode         string        `yaml:"sslMode"`
	MaxOpenConns    int           `yaml:"maxOpenConns"`
	MaxIdleConns    int           `yaml:"maxIdleConns"`
	ConnMaxLifetime time.Duration `yaml:"connMaxLifetime"`
}

// DSN returns a lib/pq-compatible data source name.
func (p PostgresConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		p.Host, p.Port, p.User, p.Password, p.Database, p.SSLMode,
	)
}

// KafkaConfig holds Kafka broker and topic settings.
type KafkaConfig struct {
	Brokers []string    `yaml:"brokers"`
	Topics  KafkaTopics `yaml:"topics"`
}

// KafkaTopics maps logical topic names to their Kafka topic strings.
type KafkaTopics struct {
	DocumentScored string `yaml:"documentScored"`
}

// RedisConfig holds Redis connection and caching parameters.
type RedisConfig struct {
	Addr     string        `yaml:"addr"`
	Password string        `yaml:"password"`
	DB       int           `yaml:"db"`
	PoolSize int           `yaml:"poolSize"`
	CacheTTL time.Duration `yaml:"cacheTTL"`
}

// ResilienceConfig bounds calls to Redis and Kafka. After FailureThreshold
// consecutive failures a sink is skipped for Cooldown.
type ResilienceConfig struct {
	FailureThreshold int           `yaml:"failureThreshold"`
	Cooldown         time.Duration `yaml:"cooldown"`
	CallTimeout      time.Duration `yaml:"callTimeout"`
}

// LoggingConfig controls structured logging level and output format.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// MetricsConfig controls the Prometheus metrics server.
type MetricsConfig struct {
	Enabled bool `yaml:"enabled"`
	Port    int  `yaml:"port"`
}

// Load reads a YAML config file (if provided), applies environment-variable
// overrides and validates the result. A path that does not exist is reported
// as ErrConfigMissing.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			if errors.Is(err, os.ErrNotExist) {
				return nil, apperrors.Wrap(apperrors.ErrConfigMissing, "", fmt.Errorf("reading config file %s: %w", path, err))
			}
			return nil, fmt.Errorf("reading config file %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, apperrors.Wrap(apperrors.ErrInvalidConfig, "", fmt.Errorf("parsing config file %s: %w", path, err))
		}
	}
	applyEnvOverrides(cfg)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Default returns a Config matching the original single-directory layout:
// tfidf_docs.txt and stopwords.txt in the working directory, artifacts
// written next to them.
func Default() *Config {
	return &Config{
		Pipeline: PipelineConfig{
			Manifest:    "tfidf_docs.txt",
			Stopwords:   "stopwords.txt",
			DocumentDir: ".",
			OutputDir:   ".",
			TopN:        5,
			Workers:     4,
			Stemmer:     StemmerSuffix,
		},
		Store: StoreConfig{
			SQLitePath: "termrank.db",
		},
		Postgres: PostgresConfig{
			Host:            "localhost",
			Port:            5432,
			Database:        "termrank",
			User:            "termrank",
			Password:        "localdev",
			SSLMode:         "disable",
			MaxOpenConns:    5,
			MaxIdleConns:    2,
			ConnMaxLifetime: 5 * time.Minute,
		},
		Kafka: KafkaConfig{
			Brokers: []string{"localhost:9092"},
			Topics: KafkaTopics{
				DocumentScored: "document-scored",
			},
		},
		Redis: RedisConfig{
			Addr:     "localhost:6379",
			PoolSize: 10,
			CacheTTL: 24 * time.Hour,
		},
		Resilience: ResilienceConfig{
			FailureThreshold: 5,
			Cooldown:         30 * time.Second,
			CallTimeout:      2 * time.Second,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
		Metrics: MetricsConfig{
			Port: 9090,
		},
	}
}

// Validate rejects configurations the pipeline cannot run with.
func (c *Config) Validate() error {
	p := c.Pipeline
	switch {
	case p.Manifest == "":
		return apperrors.New(apperrors.ErrInvalidConfig, "", "pipeline.manifest must be set")
	case p.TopN < 1:
		return apperrors.Newf(apperrors.ErrInvalidConfig, "", "pipeline.topN must be >= 1, got %d", p.TopN)
	case p.Workers < 0:
		return apperrors.Newf(apperrors.ErrInvalidConfig, "", "pipeline.workers must be >= 0, got %d", p.Workers)
	}
	switch p.Stemmer {
	case StemmerSuffix, StemmerSnowball:
	default:
		return apperrors.Newf(apperrors.ErrInvalidConfig, "", "unknown stemmer %q", p.Stemmer)
	}
	switch c.Store.Driver {
	case "", DriverPostgres:
	case DriverSQLite:
		if c.Store.SQLitePath == "" {
			return apperrors.New(apperrors.ErrInvalidConfig, "", "store.sqlitePath must be set for the sqlite driver")
		}
	default:
		return apperrors.Newf(apperrors.ErrInvalidConfig, "", "unknown store driver %q", c.Store.Driver)
	}
	if c.Publish.Enabled && (len(c.Kafka.Brokers) == 0 || c.Kafka.Topics.DocumentScored == "") {
		return apperrors.New(apperrors.ErrInvalidConfig, "", "publishing requires kafka.brokers and kafka.topics.documentScored")
	}
	return nil
}

// applyEnvOverrides reads TR_* environment variables and overrides the
// corresponding config fields.
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("TR_PIPELINE_MANIFEST"); v != "" {
		cfg.Pipeline.Manifest = v
	}
	if v := os.Getenv("TR_PIPELINE_STOPWORDS"); v != "" {
		cfg.Pipeline.Stopwords = v
	}
	if v := os.Getenv("TR_PIPELINE_DOCUMENT_DIR"); v != "" {
		cfg.Pipeline.DocumentDir = v
	}
	if v := os.Getenv("TR_PIPELINE_OUTPUT_DIR"); v != "" {
		cfg.Pipeline.OutputDir = v
	}
	if v := os.Getenv("TR_PIPELINE_TOP_N"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Pipeline.TopN = n
		}
	}
	if v := os.Getenv("TR_PIPELINE_WORKERS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Pipeline.Workers = n
		}
	}
	if v := os.Getenv("TR_PIPELINE_STEMMER"); v != "" {
		cfg.Pipeline.Stemmer = v
	}
	if v := os.Getenv("TR_CACHE_ENABLED"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.Cache.Enabled = b
		}
	}
	if v := os.Getenv("TR_STORE_DRIVER"); v != "" {
		cfg.Store.Driver = v
	}
	if v := os.Getenv("TR_STORE_SQLITE_PATH"); v != "" {
		cfg.Store.SQLitePath = v
	}
	if v := os.Getenv("TR_PUBLISH_ENABLED"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.Publish.Enabled = b
		}
	}
	if v := os.Getenv("TR_POSTGRES_HOST"); v != "" {
		cfg.Postgres.Host = v
	}
	if v := os.Getenv("TR_POSTGRES_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Postgres.Port = port
		}
	}
	if v := os.Getenv("TR_POSTGRES_DATABASE"); v != "" {
		cfg.Postgres.Database = v
	}
	if v := os.Getenv("TR_POSTGRES_USER"); v != "" {
		cfg.Postgres.User = v
	}
	if v := os.Getenv("TR_POSTGRES_PASSWORD"); v != "" {
		cfg.Postgres.Password = v
	}
	if v := os.Getenv("TR_POSTGRES_SSLMODE"); v != "" {
		cfg.Postgres.SSLMode = v
	}
	if v := os.Getenv("TR_KAFKA_BROKERS"); v != "" {
		cfg.Kafka.Brokers = strings.Split(v, ",")
	}
	if v := os.Getenv("TR_REDIS_ADDR"); v != "" {
		cfg.Redis.Addr = v
	}
	if v := os.Getenv("TR_REDIS_PASSWORD"); v != "" {
		cfg.Redis.Password = v
	}
	if v := os.Getenv("TR_LOGGING_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
	if v := os.Getenv("TR_LOGGING_FORMAT"); v != "" {
		cfg.Logging.Format = v
	}
	if v := os.Getenv("TR_METRICS_ENABLED"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.Metrics.Enabled = b
		}
	}
	if v := os.Getenv("TR_METRICS_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Metrics.Port = port
		}
	}
}
