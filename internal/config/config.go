package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	Server   ServerConfig
	Worker   WorkerConfig
	Sources  SourcesConfig
	Upstream UpstreamConfig
	Poll     PollConfig
	Kafka    KafkaConfig
	DB       DatabaseConfig
	Logging  LoggingConfig
}

type ServerConfig struct {
	Host         string
	Port         int
	RateLimitRPS float64
}

type WorkerConfig struct {
	Count      int
	BufferSize int
}

type SourcesConfig struct {
	USGSURL          string
	OpenMeteoURL     string
	NominatimURL     string
	NominatimCountry string
	GeocodeCacheSize int
	// BackendURL is the prediction backend. Empty disables flood,
	// heatwave and monitor features.
	BackendURL string
}

type UpstreamConfig struct {
	Timeout    time.Duration
	MaxRetries int
}

type PollConfig struct {
	Enabled  bool
	Interval time.Duration
}

type KafkaConfig struct {
	Brokers    []string
	AlertTopic string
}

func (k KafkaConfig) Enabled() bool {
	return len(k.Brokers) > 0
}

type DatabaseConfig struct {
	Path string
}

type LoggingConfig struct {
	Level  string
	Format string
}

func Load() (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{
			Host:         getEnv("SERVER_HOST", "localhost"),
			Port:         getEnvInt("SERVER_PORT", 8080),
			RateLimitRPS: getEnvFloat("RATE_LIMIT_RPS", 10),
		},
		Worker: WorkerConfig{
			Count:      getEnvInt("WORKER_COUNT", 2),
			BufferSize: getEnvInt("WORKER_BUFFER_SIZE", 20),
		},
		Sources: SourcesConfig{
			USGSURL:          getEnv("USGS_URL", "https://earthquake.usgs.gov/fdsnws/event/1/query"),
			OpenMeteoURL:     getEnv("OPEN_METEO_URL", "https://api.open-meteo.com/v1/forecast"),
			NominatimURL:     getEnv("NOMINATIM_URL", "https://nominatim.openstreetmap.org/search"),
			NominatimCountry: getEnv("NOMINATIM_COUNTRY", "India"),
			GeocodeCacheSize: getEnvInt("GEOCODE_CACHE_SIZE", 256),
			BackendURL:       strings.TrimRight(os.Getenv("BACKEND_URL"), "/"),
		},
		Upstream: UpstreamConfig{
			Timeout:    getEnvDuration("HTTP_TIMEOUT", 15*time.Second),
			MaxRetries: getEnvInt("HTTP_MAX_RETRIES", 2),
		},
		Poll: PollConfig{
			Enabled:  getEnvBool("POLL_ENABLED", true),
			Interval: getEnvDuration("POLL_INTERVAL", 5*time.Minute),
		},
		Kafka: KafkaConfig{
			Brokers:    getEnvList("KAFKA_BROKERS"),
			AlertTopic: getEnv("KAFKA_ALERT_TOPIC", "hazard-alerts"),
		},
		DB: DatabaseConfig{
			Path: getEnv("DB_PATH", "./data/hazard-watch.db"),
		},
		Logging: LoggingConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "json"),
		},
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}

func (c *Config) validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}
	if c.Server.RateLimitRPS <= 0 {
		return fmt.Errorf("rate limit must be positive: %v", c.Server.RateLimitRPS)
	}

	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[c.Logging.Level] {
		return fmt.Errorf("invalid log level: %s", c.Logging.Level)
	}
	if c.Logging.Format != "json" && c.Logging.Format != "text" {
		return fmt.Errorf("invalid log format: %s", c.Logging.Format)
	}

	if c.Worker.Count < 1 {
		return fmt.Errorf("worker count must be at least 1")
	}
	if c.Worker.BufferSize < 0 {
		return fmt.Errorf("worker buffer size must not be negative")
	}

	if c.Poll.Interval < time.Minute {
		return fmt.Errorf("poll interval must be at least 1 minute")
	}
	if c.Upstream.Timeout <= 0 {
		return fmt.Errorf("HTTP timeout must be positive")
	}
	if c.Upstream.MaxRetries < 0 {
		return fmt.Errorf("HTTP max retries must not be negative")
	}
	if c.Sources.GeocodeCacheSize < 1 {
		return fmt.Errorf("geocode cache size must be at least 1")
	}

	if c.Kafka.Enabled() && c.Kafka.AlertTopic == "" {
		return fmt.Errorf("KAFKA_ALERT_TOPIC is required when KAFKA_BROKERS is set")
	}

	return nil
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if val := os.Getenv(key); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			return i
		}
	}
	return fallback
}

func getEnvFloat(key string, fallback float64) float64 {
	if val := os.Getenv(key); val != "" {
		if f, err := strconv.ParseFloat(val, 64); err == nil {
			return f
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if val := os.Getenv(key); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			return b
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if val := os.Getenv(key); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			return d
		}
	}
	return fallback
}

// getEnvList splits a comma separated value, dropping blanks.
func getEnvList(key string) []string {
	var out []string
	for _, part := range strings.Split(os.Getenv(key), ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
