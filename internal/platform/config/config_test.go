package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("AUDIT_SINK", "")
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, ":8000", cfg.Server.Addr)
	assert.Equal(t, SinkFile, cfg.Audit.Sink)
	assert.Equal(t, 3, cfg.Audit.MaxRetries)
	assert.Equal(t, "1.0", cfg.Models.Version)
	assert.False(t, cfg.IsProduction())
}

func TestLoadYAMLThenEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "govintel.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
server:
  addr: ":9000"
  environment: production
audit:
  sink: kafka
  retry_backoff: 200ms
kafka:
  brokers: ["broker-a:9092"]
`), 0o600))

	t.Setenv("KAFKA_BROKERS", "k1:9092, k2:9092,,k1:9092")
	t.Setenv("AUDIT_MAX_RETRIES", "5")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, ":9000", cfg.Server.Addr)
	assert.True(t, cfg.IsProduction())
	assert.Equal(t, SinkKafka, cfg.Audit.Sink)
	assert.Equal(t, 200*time.Millisecond, cfg.Audit.RetryBackoff)
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.Kafka.Brokers)
	assert.Equal(t, 5, cfg.Audit.MaxRetries)
	// untouched sections keep their defaults
	assert.Equal(t, "govintel:audit", cfg.Redis.Stream)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"unknown sink", func(c *Config) { c.Audit.Sink = "s3" }, "unknown audit sink"},
		{"postgres without dsn", func(c *Config) { c.Audit.Sink = SinkPostgres }, "DATABASE_URL"},
		{"redis without url", func(c *Config) { c.Audit.Sink = SinkRedis }, "REDIS_URL"},
		{"auth without key", func(c *Config) { c.Auth.Enabled = true }, "JWT_SIGNING_KEY"},
		{"negative retries", func(c *Config) { c.Audit.MaxRetries = -1 }, "negative"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(&cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestLoadRejectsBadEnv(t *testing.T) {
	t.Setenv("AUDIT_FSYNC", "maybe")
	_, err := Load("")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "AUDIT_FSYNC")
}
