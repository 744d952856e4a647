package config

import (
	"log"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config represents the overall application configuration.
type Config struct {
	Server     ServerConfig      `yaml:"server"`
	Upstream   UpstreamConfig    `yaml:"upstream"`
	Push       PushChannelConfig `yaml:"push_channel"`
	Poll       PollConfig        `yaml:"poll"`
	Telemetry  TelemetryConfig   `yaml:"telemetry"`
	WebPush    WebPushConfig     `yaml:"web_push"`
	Database   DatabaseConfig    `yaml:"database"`
	WorkerPool WorkerPoolConfig  `yaml:"worker_pool"`
}

// ServerConfig holds the gateway's own HTTP server configuration.
type ServerConfig struct {
	Port            int     `yaml:"port"`
	RateLimitPerSec float64 `yaml:"rate_limit_per_sec"`
	RateLimitBurst  int     `yaml:"rate_limit_burst"`
	CacheTTLSeconds int     `yaml:"cache_ttl_seconds"`
}

// UpstreamConfig describes the backend REST API the gateway proxies.
type UpstreamConfig struct {
	BaseURL        string        `yaml:"base_url"`
	BearerToken    string        `yaml:"bearer_token"`
	TimeoutSeconds int           `yaml:"timeout_seconds"`
	Timeout        time.Duration `yaml:"-"` // Ignored by YAML parser
}

// PushChannelConfig holds the websocket push endpoints and backoff bounds.
type PushChannelConfig struct {
	Enabled     bool   `yaml:"enabled"`
	SensorURL   string `yaml:"sensor_url"`
	AlertURL    string `yaml:"alert_url"`
	BaseDelayMS int    `yaml:"base_delay_ms"`
	MaxDelayMS  int    `yaml:"max_delay_ms"`
}

// PollConfig holds the polling fetcher intervals.
type PollConfig struct {
	Enabled             bool          `yaml:"enabled"`
	BulkIntervalSeconds int           `yaml:"bulk_interval_seconds"`
	SnapIntervalSeconds int           `yaml:"snapshot_interval_seconds"`
	BulkInterval        time.Duration `yaml:"-"`
	SnapInterval        time.Duration `yaml:"-"`
}

// TelemetryConfig bounds the merged per-room reading series.
type TelemetryConfig struct {
	WindowSize int `yaml:"window_size"`
}

// WebPushConfig holds the VAPID keys for browser notifications.
type WebPushConfig struct {
	PublicKey  string `yaml:"vapid_public_key"`
	PrivateKey string `yaml:"vapid_private_key"`
	Subject    string `yaml:"subject"`
	TTL        int    `yaml:"ttl"`
}

// DatabaseConfig holds the local archive connection configuration.
type DatabaseConfig struct {
	Driver                 string `yaml:"driver"` // "sqlite" or "postgres"
	DSN                    string `yaml:"dsn"`
	MaxOpenConns           int    `yaml:"max_open_conns"`
	MaxIdleConns           int    `yaml:"max_idle_conns"`
	ConnMaxLifetimeMinutes int    `yaml:"conn_max_lifetime_minutes"`
}

// WorkerPoolConfig holds the configuration for the notification worker pool.
type WorkerPoolConfig struct {
	Size int `yaml:"size"`
}

// Load reads the configuration from the given path.
func Load(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var cfg Config
	decoder := yaml.NewDecoder(f)
	if err := decoder.Decode(&cfg); err != nil {
		return nil, err
	}

	if cfg.Upstream.TimeoutSeconds <= 0 {
		cfg.Upstream.TimeoutSeconds = 15
	}
	cfg.Upstream.Timeout = time.Duration(cfg.Upstream.TimeoutSeconds) * time.Second

	if cfg.Push.BaseDelayMS <= 0 {
		cfg.Push.BaseDelayMS = 1000
	}
	if cfg.Push.MaxDelayMS <= 0 {
		cfg.Push.MaxDelayMS = 30000
	}

	if cfg.Poll.BulkIntervalSeconds <= 0 {
		cfg.Poll.BulkIntervalSeconds = 30
	}
	if cfg.Poll.SnapIntervalSeconds <= 0 {
		cfg.Poll.SnapIntervalSeconds = 10
	}
	cfg.Poll.BulkInterval = time.Duration(cfg.Poll.BulkIntervalSeconds) * time.Second
	cfg.Poll.SnapInterval = time.Duration(cfg.Poll.SnapIntervalSeconds) * time.Second

	if cfg.Telemetry.WindowSize <= 0 {
		cfg.Telemetry.WindowSize = 50
	}

	if cfg.WebPush.TTL <= 0 {
		cfg.WebPush.TTL = 3600
	}

	if cfg.Database.Driver == "" {
		cfg.Database.Driver = "sqlite"
	}
	if cfg.Database.DSN == "" {
		cfg.Database.DSN = "frontdesk.db"
	}

	if cfg.WorkerPool.Size <= 0 {
		log.Printf("worker_pool.size is not set or invalid; defaulting to 1")
		cfg.WorkerPool.Size = 1
	}

	return &cfg, nil
}
