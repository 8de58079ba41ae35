package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "localhost:8080", cfg.Addr())
	assert.Equal(t, 2, cfg.Worker.Count)
	assert.Equal(t, 20, cfg.Worker.BufferSize)
	assert.Equal(t, "https://earthquake.usgs.gov/fdsnws/event/1/query", cfg.Sources.USGSURL)
	assert.Equal(t, "India", cfg.Sources.NominatimCountry)
	assert.Empty(t, cfg.Sources.BackendURL)
	assert.Equal(t, 15*time.Second, cfg.Upstream.Timeout)
	assert.Equal(t, 5*time.Minute, cfg.Poll.Interval)
	assert.True(t, cfg.Poll.Enabled)
	assert.False(t, cfg.Kafka.Enabled())
	assert.Equal(t, "json", cfg.Logging.Format)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("BACKEND_URL", "http://localhost:5000/")
	t.Setenv("KAFKA_BROKERS", "kafka-1:9092, kafka-2:9092,")
	t.Setenv("POLL_INTERVAL", "10m")
	t.Setenv("RATE_LIMIT_RPS", "2.5")
	t.Setenv("LOG_FORMAT", "text")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "http://localhost:5000", cfg.Sources.BackendURL)
	assert.Equal(t, []string{"kafka-1:9092", "kafka-2:9092"}, cfg.Kafka.Brokers)
	assert.True(t, cfg.Kafka.Enabled())
	assert.Equal(t, 10*time.Minute, cfg.Poll.Interval)
	assert.InDelta(t, 2.5, cfg.Server.RateLimitRPS, 1e-9)
	assert.Equal(t, "text", cfg.Logging.Format)
}

func TestLoad_UnparseableFallsBack(t *testing.T) {
	t.Setenv("WORKER_COUNT", "many")
	t.Setenv("HTTP_TIMEOUT", "soon")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 2, cfg.Worker.Count)
	assert.Equal(t, 15*time.Second, cfg.Upstream.Timeout)
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{"port out of range", "SERVER_PORT", "70000"},
		{"unknown log level", "LOG_LEVEL", "verbose"},
		{"unknown log format", "LOG_FORMAT", "xml"},
		{"poll interval too short", "POLL_INTERVAL", "30s"},
		{"zero workers", "WORKER_COUNT", "0"},
		{"negative retries", "HTTP_MAX_RETRIES", "-1"},
		{"non-positive rate limit", "RATE_LIMIT_RPS", "0"},
		{"empty geocode cache", "GEOCODE_CACHE_SIZE", "0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.key, tt.value)
			_, err := Load()
			assert.Error(t, err)
		})
	}
}
