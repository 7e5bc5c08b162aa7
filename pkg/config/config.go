// Package config loads and validates the run configuration from a YAML file
// with environment-variable overrides. Every section has a typed struct and
// a default suitable for a local run against the bundled dataset layout.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	apperrors "github.com/Adithya-Monish-Kumar-K/Bigram-Search-Engine/pkg/errors"
)

// Config is the top-level run configuration.
type Config struct {
	Corpus     CorpusConfig     `yaml:"corpus"`
	Query      QueryConfig      `yaml:"query"`
	Normalizer NormalizerConfig `yaml:"normalizer"`
	Index      IndexConfig      `yaml:"index"`
	Logging    LoggingConfig    `yaml:"logging"`
	Metrics    MetricsConfig    `yaml:"metrics"`
	Redis      RedisConfig      `yaml:"redis"`
	Kafka      KafkaConfig      `yaml:"kafka"`
	Database   DatabaseConfig   `yaml:"database"`
}

// CorpusConfig locates the dataset directory and bounds loader parallelism.
type CorpusConfig struct {
	Dir     string `yaml:"dir" validate:"required"`
	Workers int    `yaml:"workers" validate:"min=1,max=256"`
	HTML    bool   `yaml:"html"`
}

// QueryConfig names the query input file and the answer output file.
// An output of "-" writes answers to stdout.
type QueryConfig struct {
	File   string `yaml:"file" validate:"required"`
	Output string `yaml:"output" validate:"required"`
}

// NormalizerConfig controls the default text normalizer.
type NormalizerConfig struct {
	Stem           bool `yaml:"stem"`
	DropPossessive bool `yaml:"dropPossessive"`
}

// IndexConfig sizes the inverted index maps.
type IndexConfig struct {
	InitialCapacity int `yaml:"initialCapacity" validate:"min=1"`
}

// LoggingConfig controls structured logging level and output format.
type LoggingConfig struct {
	Level  string `yaml:"level" validate:"oneof=debug info warn error"`
	Format string `yaml:"format" validate:"oneof=text json"`
}

// MetricsConfig controls where Prometheus metrics are written at the end of
// a run. An empty path disables the textfile.
type MetricsConfig struct {
	TextfilePath string `yaml:"textfilePath"`
}

// RedisConfig holds Redis connection and answer-cache parameters.
type RedisConfig struct {
	Enabled  bool          `yaml:"enabled"`
	Addr     string        `yaml:"addr" validate:"required_if=Enabled true"`
	Password string        `yaml:"password"`
	DB       int           `yaml:"db" validate:"min=0"`
	PoolSize int           `yaml:"poolSize" validate:"min=1"`
	CacheTTL time.Duration `yaml:"cacheTTL" validate:"min=0"`
}

// KafkaConfig holds broker and topic settings for query events.
type KafkaConfig struct {
	Enabled       bool          `yaml:"enabled"`
	Brokers       []string      `yaml:"brokers" validate:"required_if=Enabled true"`
	Topic         string        `yaml:"topic" validate:"required_if=Enabled true"`
	BatchSize     int           `yaml:"batchSize" validate:"min=1"`
	FlushInterval time.Duration `yaml:"flushInterval" validate:"min=0"`
}

// DatabaseConfig selects the SQL backend used for run records.
type DatabaseConfig struct {
	Enabled  bool           `yaml:"enabled"`
	Driver   string         `yaml:"driver" validate:"oneof=postgres sqlite"`
	Postgres PostgresConfig `yaml:"postgres"`
	SQLite   SQLiteConfig   `yaml:"sqlite"`
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

// SQLiteConfig holds the path of the local run database.
type SQLiteConfig struct {
	Path string `yaml:"path"`
}

// Load reads a YAML config file (if provided), applies environment-variable
// overrides and validates the result.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file %s: %w", path, err)
		}
	}
	applyEnvOverrides(cfg)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

var validate = validator.New()

// Validate checks struct-tag constraints and cross-field rules.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			parts := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				parts = append(parts, fmt.Sprintf("%s failed %q", fe.Namespace(), fe.Tag()))
			}
			return apperrors.New(apperrors.ErrInvalidConfig, strings.Join(parts, "; "))
		}
		return apperrors.New(apperrors.ErrInvalidConfig, err.Error())
	}
	if c.Database.Enabled && c.Database.Driver == "sqlite" && c.Database.SQLite.Path == "" {
		return apperrors.New(apperrors.ErrInvalidConfig, "database.sqlite.path is required for the sqlite driver")
	}
	return nil
}

// Default returns a Config matching the layout of a local run: dataset in
// ./dataset_subset, queries in ./query.txt, answers in ./solution.txt.
func Default() *Config {
	return &Config{
		Corpus: CorpusConfig{
			Dir:     "dataset_subset",
			Workers: 4,
			HTML:    true,
		},
		Query: QueryConfig{
			File:   "query.txt",
			Output: "solution.txt",
		},
		Normalizer: NormalizerConfig{
			Stem:           false,
			DropPossessive: true,
		},
		Index: IndexConfig{
			InitialCapacity: 32,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
		Redis: RedisConfig{
			Addr:     "localhost:6379",
			PoolSize: 10,
			CacheTTL: 10 * time.Minute,
		},
		Kafka: KafkaConfig{
			Brokers:       []string{"localhost:9092"},
			Topic:         "bigram-search.queries",
			BatchSize:     100,
			FlushInterval: time.Second,
		},
		Database: DatabaseConfig{
			Driver: "sqlite",
			Postgres: PostgresConfig{
				Host:            "localhost",
				Port:            5432,
				Database:        "bigramsearch",
				User:            "bigramsearch",
				Password:        "localdev",
				SSLMode:         "disable",
				MaxOpenConns:    5,
				MaxIdleConns:    2,
				ConnMaxLifetime: 5 * time.Minute,
			},
			SQLite: SQLiteConfig{
				Path: "runs.db",
			},
		},
	}
}

// applyEnvOverrides reads BGS_* environment variables and overrides the
// corresponding config fields.
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("BGS_CORPUS_DIR"); v != "" {
		cfg.Corpus.Dir = v
	}
	if v := os.Getenv("BGS_CORPUS_WORKERS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Corpus.Workers = n
		}
	}
	if v := os.Getenv("BGS_QUERY_FILE"); v != "" {
		cfg.Query.File = v
	}
	if v := os.Getenv("BGS_QUERY_OUTPUT"); v != "" {
		cfg.Query.Output = v
	}
	if v := os.Getenv("BGS_NORMALIZER_STEM"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.Normalizer.Stem = b
		}
	}
	if v := os.Getenv("BGS_LOGGING_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
	if v := os.Getenv("BGS_LOGGING_FORMAT"); v != "" {
		cfg.Logging.Format = v
	}
	if v := os.Getenv("BGS_METRICS_TEXTFILE"); v != "" {
		cfg.Metrics.TextfilePath = v
	}
	if v := os.Getenv("BGS_REDIS_ADDR"); v != "" {
		cfg.Redis.Addr = v
		cfg.Redis.Enabled = true
	}
	if v := os.Getenv("BGS_REDIS_PASSWORD"); v != "" {
		cfg.Redis.Password = v
	}
	if v := os.Getenv("BGS_KAFKA_BROKERS"); v != "" {
		cfg.Kafka.Brokers = strings.Split(v, ",")
		cfg.Kafka.Enabled = true
	}
	if v := os.Getenv("BGS_DATABASE_DRIVER"); v != "" {
		cfg.Database.Driver = v
		cfg.Database.Enabled = true
	}
	if v := os.Getenv("BGS_POSTGRES_HOST"); v != "" {
		cfg.Database.Postgres.Host = v
	}
	if v := os.Getenv("BGS_POSTGRES_PASSWORD"); v != "" {
		cfg.Database.Postgres.Password = v
	}
	if v := os.Getenv("BGS_SQLITE_PATH"); v != "" {
		cfg.Database.SQLite.Path = v
	}
}
