package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"

	pkgstrings "govintel/pkg/platform/strings"
)

// Config is the full runtime configuration. Values resolve in three layers:
// built-in defaults, an optional YAML file, then environment variables.
type Config struct {
	Server   Server      `yaml:"server"`
	Models   Models      `yaml:"models"`
	Audit    Audit       `yaml:"audit"`
	Postgres Postgres    `yaml:"postgres"`
	Redis    RedisConfig `yaml:"redis"`
	Kafka    Kafka       `yaml:"kafka"`
	Privacy  Privacy     `yaml:"privacy"`
	Auth     Auth        `yaml:"auth"`
	LogLevel string      `yaml:"log_level"`
}

// Server captures HTTP server level configuration.
type Server struct {
	Addr            string        `yaml:"addr"`
	Environment     string        `yaml:"environment"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
	ReadTimeout     time.Duration `yaml:"read_timeout"`
	WriteTimeout    time.Duration `yaml:"write_timeout"`
}

// Models locates the trained artifacts loaded at startup.
type Models struct {
	ArtifactDir string `yaml:"artifact_dir"`
	Version     string `yaml:"version"`
}

// Audit selects and tunes the audit sink.
type Audit struct {
	Sink         string        `yaml:"sink"` // file, memory, postgres, redis, kafka
	FilePath     string        `yaml:"file_path"`
	Fsync        bool          `yaml:"fsync"`
	MaxRetries   int           `yaml:"max_retries"`
	RetryBackoff time.Duration `yaml:"retry_backoff"`
}

type Postgres struct {
	DSN string `yaml:"dsn"`
}

// RedisConfig holds connection settings for the redis stream sink.
type RedisConfig struct {
	URL          string        `yaml:"url"`
	PoolSize     int           `yaml:"pool_size"`
	MinIdleConns int           `yaml:"min_idle_conns"`
	DialTimeout  time.Duration `yaml:"dial_timeout"`
	ReadTimeout  time.Duration `yaml:"read_timeout"`
	WriteTimeout time.Duration `yaml:"write_timeout"`
	Stream       string        `yaml:"stream"`
}

type Kafka struct {
	Brokers []string `yaml:"brokers"`
	Topic   string   `yaml:"topic"`
}

// Privacy holds the key used to seal sensitive fields. Hex-encoded, 32 bytes.
type Privacy struct {
	SealKeyHex string `yaml:"seal_key_hex"`
}

// Auth enables bearer-token role checks on the prediction API.
type Auth struct {
	Enabled    bool   `yaml:"enabled"`
	SigningKey string `yaml:"signing_key"`
	Issuer     string `yaml:"issuer"`
}

const (
	SinkFile     = "file"
	SinkMemory   = "memory"
	SinkPostgres = "postgres"
	SinkRedis    = "redis"
	SinkKafka    = "kafka"
)

// Default returns the configuration used when nothing is overridden.
func Default() Config {
	return Config{
		Server: Server{
			Addr:            ":8000",
			Environment:     "development",
			ShutdownTimeout: 10 * time.Second,
			ReadTimeout:     10 * time.Second,
			WriteTimeout:    30 * time.Second,
		},
		Models: Models{
			ArtifactDir: "models",
			Version:     "1.0",
		},
		Audit: Audit{
			Sink:         SinkFile,
			FilePath:     "audit_log.jsonl",
			Fsync:        true,
			MaxRetries:   3,
			RetryBackoff: 50 * time.Millisecond,
		},
		Redis: RedisConfig{
			PoolSize:     10,
			MinIdleConns: 2,
			DialTimeout:  5 * time.Second,
			ReadTimeout:  3 * time.Second,
			WriteTimeout: 3 * time.Second,
			Stream:       "govintel:audit",
		},
		Kafka: Kafka{
			Topic: "govintel.audit",
		},
		Auth: Auth{
			Issuer: "govintel",
		},
		LogLevel: "info",
	}
}

// Load resolves configuration from defaults, the YAML file at path (skipped
// when path is empty) and the environment.
func Load(path string) (Config, error) {
	cfg := Default()
	if path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("read config file: %w", err)
		}
		if err := yaml.Unmarshal(raw, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse config file %s: %w", path, err)
		}
	}
	if err := applyEnv(&cfg); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// FromEnv builds a config from defaults and environment variables only.
func FromEnv() (Config, error) {
	return Load(os.Getenv("GOVINTEL_CONFIG"))
}

func (c Config) Validate() error {
	switch c.Audit.Sink {
	case SinkFile:
		if c.Audit.FilePath == "" {
			return fmt.Errorf("audit sink %q requires a file path", c.Audit.Sink)
		}
	case SinkMemory:
	case SinkPostgres:
		if c.Postgres.DSN == "" {
			return fmt.Errorf("audit sink %q requires DATABASE_URL", c.Audit.Sink)
		}
	case SinkRedis:
		if c.Redis.URL == "" {
			return fmt.Errorf("audit sink %q requires REDIS_URL", c.Audit.Sink)
		}
	case SinkKafka:
		if len(c.Kafka.Brokers) == 0 {
			return fmt.Errorf("audit sink %q requires KAFKA_BROKERS", c.Audit.Sink)
		}
	default:
		return fmt.Errorf("unknown audit sink %q", c.Audit.Sink)
	}
	if c.Audit.MaxRetries < 0 {
		return fmt.Errorf("audit max retries must not be negative")
	}
	if c.Auth.Enabled && c.Auth.SigningKey == "" {
		return fmt.Errorf("auth enabled without JWT_SIGNING_KEY")
	}
	return nil
}

// IsProduction reports whether the server runs in the production environment.
func (c Config) IsProduction() bool {
	return c.Server.Environment == "production"
}

func applyEnv(cfg *Config) error {
	setString(&cfg.Server.Addr, "GOVINTEL_ADDR")
	setString(&cfg.Server.Environment, "ENVIRONMENT")
	setString(&cfg.Models.ArtifactDir, "MODEL_DIR")
	setString(&cfg.Models.Version, "MODEL_VERSION")
	setString(&cfg.Audit.Sink, "AUDIT_SINK")
	setString(&cfg.Audit.FilePath, "AUDIT_LOG_PATH")
	setString(&cfg.Postgres.DSN, "DATABASE_URL")
	setString(&cfg.Redis.URL, "REDIS_URL")
	setString(&cfg.Redis.Stream, "REDIS_AUDIT_STREAM")
	setString(&cfg.Kafka.Topic, "KAFKA_AUDIT_TOPIC")
	setString(&cfg.Privacy.SealKeyHex, "PRIVACY_SEAL_KEY")
	setString(&cfg.Auth.SigningKey, "JWT_SIGNING_KEY")
	setString(&cfg.Auth.Issuer, "JWT_ISSUER")
	setString(&cfg.LogLevel, "LOG_LEVEL")

	if v := os.Getenv("KAFKA_BROKERS"); v != "" {
		cfg.Kafka.Brokers = pkgstrings.SplitList(v)
	}
	if err := setBool(&cfg.Audit.Fsync, "AUDIT_FSYNC"); err != nil {
		return err
	}
	if err := setBool(&cfg.Auth.Enabled, "AUTH_ENABLED"); err != nil {
		return err
	}
	if v := os.Getenv("AUDIT_MAX_RETRIES"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("AUDIT_MAX_RETRIES: %w", err)
		}
		cfg.Audit.MaxRetries = n
	}
	if v := os.Getenv("AUDIT_RETRY_BACKOFF"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("AUDIT_RETRY_BACKOFF: %w", err)
		}
		cfg.Audit.RetryBackoff = d
	}
	return nil
}

func setString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func setBool(dst *bool, key string) error {
	v := os.Getenv(key)
	if v == "" {
		return nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fmt.Errorf("%s: %w", key, err)
	}
	*dst = b
	return nil
}
