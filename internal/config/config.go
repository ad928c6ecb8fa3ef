package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/2beens/weighttrend/internal/weighttrend"

	"github.com/BurntSushi/toml"
	"go.uber.org/multierr"
)

const (
	HistorySourcePostgres = "postgres"
	HistorySourceHTTP     = "http"
)

type Config struct {
	Environment string `toml:"environment"`
	Host        string `toml:"host"`
	Port        int    `toml:"port"`

	CorsAllowedOrigins []string `toml:"cors_allowed_origins"`

	// logging
	LogLevel      string `toml:"log_level"`
	LogsPath      string `toml:"logs_path"`
	LogToStdout   bool   `toml:"log_to_stdout"`
	LogFormatJSON bool   `toml:"log_format_json"`
	SentryEnabled bool   `toml:"sentry_enabled"`

	// metrics
	PrometheusMetricsHost string `toml:"prometheus_metrics_host"`
	PrometheusMetricsPort string `toml:"prometheus_metrics_port"`

	// postgres
	PostgresHost     string `toml:"postgres_host"`
	PostgresPort     string `toml:"postgres_port"`
	PostgresDBName   string `toml:"postgres_db_name"`
	PostgresMaxConns int32  `toml:"postgres_max_conns"`

	// redis
	RedisHost string `toml:"redis_host"`
	RedisPort string `toml:"redis_port"`

	// weight history source: "postgres" or "http"
	HistorySource      string `toml:"history_source"`
	HistoryApiBaseURL  string `toml:"history_api_base_url"`
	HistoryApiTimeoutS int    `toml:"history_api_timeout_seconds"`

	// chart
	ChartCacheSizeMB      int                  `toml:"chart_cache_size_mb"`
	ChartCacheTTLSeconds  int                  `toml:"chart_cache_ttl_seconds"`
	ChartRateLimitPerMin  int                  `toml:"chart_rate_limit_per_min"`
	DefaultViewport       weighttrend.Viewport `toml:"default_viewport"`
	DefaultWindow         string               `toml:"default_window"`
	MaxViewportSidePixels float64              `toml:"max_viewport_side_pixels"`
}

type Toml struct {
	Development *Config
	Production  *Config
}

func (t *Toml) Get(env string) (*Config, error) {
	switch strings.ToLower(env) {
	case "dev", "development":
		return t.Development, nil
	case "prod", "production":
		return t.Production, nil
	default:
		return nil, fmt.Errorf("unknown env: %s", env)
	}
}

func Load(env, path string) (*Config, error) {
	var t Toml
	if _, err := toml.DecodeFile(path, &t); err != nil {
		return nil, fmt.Errorf("decode toml config [%s]: %w", path, err)
	}

	cfg, err := t.Get(env)
	if err != nil {
		return nil, err
	}
	if cfg == nil {
		return nil, fmt.Errorf("config for env [%s] missing in [%s]", env, path)
	}

	cfg.setDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config for env [%s]: %w", env, err)
	}

	return cfg, nil
}

func (c *Config) setDefaults() {
	if c.HistorySource == "" {
		c.HistorySource = HistorySourcePostgres
	}
	if c.HistoryApiTimeoutS <= 0 {
		c.HistoryApiTimeoutS = 10
	}
	if c.ChartCacheSizeMB <= 0 {
		c.ChartCacheSizeMB = 32
	}
	if c.ChartCacheTTLSeconds <= 0 {
		c.ChartCacheTTLSeconds = 300
	}
	if c.ChartRateLimitPerMin <= 0 {
		c.ChartRateLimitPerMin = 120
	}
	if c.DefaultWindow == "" {
		c.DefaultWindow = string(weighttrend.TimeWindowMonth)
	}
	if c.DefaultViewport == (weighttrend.Viewport{}) {
		c.DefaultViewport = weighttrend.Viewport{Width: 360, Height: 220, Padding: 20}
	}
	if c.MaxViewportSidePixels <= 0 {
		c.MaxViewportSidePixels = 4096
	}
}

// Validate returns all config problems at once.
func (c *Config) Validate() error {
	var err error
	if c.Port <= 0 {
		err = multierr.Append(err, fmt.Errorf("port must be positive, got %d", c.Port))
	}
	switch c.HistorySource {
	case HistorySourcePostgres:
		if c.PostgresHost == "" || c.PostgresDBName == "" {
			err = multierr.Append(err, errors.New("postgres host and db name required for postgres history source"))
		}
	case HistorySourceHTTP:
		if c.HistoryApiBaseURL == "" {
			err = multierr.Append(err, errors.New("history api base url required for http history source"))
		}
	default:
		err = multierr.Append(err, fmt.Errorf("unknown history source: %s", c.HistorySource))
	}
	if _, wErr := weighttrend.ParseTimeWindow(c.DefaultWindow); wErr != nil {
		err = multierr.Append(err, fmt.Errorf("default window: %w", wErr))
	}
	if vErr := c.DefaultViewport.Validate(); vErr != nil {
		err = multierr.Append(err, fmt.Errorf("default viewport: %w", vErr))
	}
	return err
}
