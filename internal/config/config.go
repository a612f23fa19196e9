// Package config loads service settings from defaults, an optional YAML
// file, and APIARY_-prefixed environment variables, in that order of
// precedence (lowest to highest). The file path comes from APIARY_CONFIG.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Config holds all service settings.
type Config struct {
	HTTPAddr        string        `koanf:"http_addr"`
	LogLevel        string        `koanf:"log_level"`
	LogFormat       string        `koanf:"log_format"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`

	// Outbound HTTP policy, shared by all sources.
	UserAgent           string        `koanf:"user_agent"`
	RetryMaxAttempts    int           `koanf:"retry_max_attempts"`
	RetryInitialBackoff time.Duration `koanf:"retry_initial_backoff"`
	SourceRateLimit     float64       `koanf:"source_rate_limit"`

	// Overpass land cover.
	OverpassEndpoints []string      `koanf:"overpass_endpoints"`
	OverpassTimeout   time.Duration `koanf:"overpass_timeout"`
	LandCoverTTL      time.Duration `koanf:"land_cover_ttl"`

	// Open-Meteo weather and elevation.
	WeatherURL       string        `koanf:"weather_url"`
	WeatherTimeout   time.Duration `koanf:"weather_timeout"`
	WeatherTTL       time.Duration `koanf:"weather_ttl"`
	ElevationURL     string        `koanf:"elevation_url"`
	ElevationTimeout time.Duration `koanf:"elevation_timeout"`
	TerrainTTL       time.Duration `koanf:"terrain_ttl"`

	// FailureCacheTTL bounds how long a source's fallback value is served
	// after a failed fetch before the source is tried again.
	FailureCacheTTL time.Duration `koanf:"failure_cache_ttl"`

	// Kafka result publishing (optional).
	KafkaBrokers      []string `koanf:"kafka_brokers"`
	KafkaResultsTopic string   `koanf:"kafka_results_topic"`
	KafkaEnabled      bool     `koanf:"kafka_enabled"`
}

// Default returns the configuration used when nothing is overridden.
func Default() Config {
	return Config{
		HTTPAddr:        ":8080",
		LogLevel:        "info",
		LogFormat:       "json",
		ShutdownTimeout: 10 * time.Second,

		UserAgent:           "ApiarySiteAnalyzer/1.0 (contact: ops@example.com)",
		RetryMaxAttempts:    3,
		RetryInitialBackoff: 600 * time.Millisecond,
		SourceRateLimit:     2,

		OverpassEndpoints: []string{
			"https://overpass-api.de/api/interpreter",
			"https://overpass.kumi.systems/api/interpreter",
		},
		OverpassTimeout: 45 * time.Second,
		LandCoverTTL:    10 * time.Minute,

		WeatherURL:       "https://api.open-meteo.com/v1/forecast",
		WeatherTimeout:   8 * time.Second,
		WeatherTTL:       5 * time.Minute,
		ElevationURL:     "https://api.open-meteo.com/v1/elevation",
		ElevationTimeout: 8 * time.Second,
		TerrainTTL:       time.Hour,

		FailureCacheTTL: time.Minute,

		KafkaBrokers:      []string{"localhost:9092"},
		KafkaResultsTopic: "apiary-site-results",
		KafkaEnabled:      false,
	}
}

// Load reads configuration, applying defaults where unset.
func Load() (*Config, error) {
	cfg := Default()
	k := koanf.New(".")

	if path := os.Getenv("APIARY_CONFIG"); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("load config file %s: %w", path, err)
		}
	}

	// APIARY_HTTP_ADDR -> http_addr, matching the koanf struct tags.
	envProvider := env.Provider("APIARY_", ".", func(s string) string {
		return strings.TrimPrefix(strings.ToLower(s), "apiary_")
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("load environment: %w", err)
	}

	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c Config) validate() error {
	if c.HTTPAddr == "" {
		return fmt.Errorf("http_addr is required")
	}
	if c.ShutdownTimeout <= 0 {
		return fmt.Errorf("shutdown_timeout must be positive")
	}
	if c.RetryMaxAttempts < 1 {
		return fmt.Errorf("retry_max_attempts must be at least 1")
	}
	if c.RetryInitialBackoff <= 0 {
		return fmt.Errorf("retry_initial_backoff must be positive")
	}
	if c.SourceRateLimit < 0 {
		return fmt.Errorf("source_rate_limit must not be negative")
	}
	if len(c.OverpassEndpoints) == 0 {
		return fmt.Errorf("overpass_endpoints is required")
	}
	if c.WeatherURL == "" {
		return fmt.Errorf("weather_url is required")
	}
	if c.ElevationURL == "" {
		return fmt.Errorf("elevation_url is required")
	}
	for _, pair := range []struct {
		name string
		d    time.Duration
	}{
		{"overpass_timeout", c.OverpassTimeout},
		{"weather_timeout", c.WeatherTimeout},
		{"elevation_timeout", c.ElevationTimeout},
		{"land_cover_ttl", c.LandCoverTTL},
		{"weather_ttl", c.WeatherTTL},
		{"terrain_ttl", c.TerrainTTL},
		{"failure_cache_ttl", c.FailureCacheTTL},
	} {
		if pair.d <= 0 {
			return fmt.Errorf("%s must be positive", pair.name)
		}
	}
	if c.KafkaEnabled {
		if len(c.KafkaBrokers) == 0 {
			return fmt.Errorf("kafka_enabled is true but kafka_brokers is empty")
		}
		if c.KafkaResultsTopic == "" {
			return fmt.Errorf("kafka_enabled is true but kafka_results_topic is empty")
		}
	}
	return nil
}
