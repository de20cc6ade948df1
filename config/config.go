package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Config represents the overall application configuration.
type Config struct {
	Server     ServerConfig     `yaml:"server"`
	Database   DatabaseConfig   `yaml:"database"`
	Scheduler  SchedulerConfig  `yaml:"scheduler"`
	Ledger     LedgerConfig     `yaml:"ledger"`
	WorkerPool WorkerPoolConfig `yaml:"worker_pool"`
	Client     ClientConfig     `yaml:"client"`
}

// ServerConfig holds the server-related configuration.
type ServerConfig struct {
	Port            int     `yaml:"port"`
	RateLimitPerSec float64 `yaml:"rate_limit_per_sec"`
	RateLimitBurst  int     `yaml:"rate_limit_burst"`
	CacheTTLSeconds int     `yaml:"cache_ttl_seconds"`
}

// DatabaseConfig holds the database connection configuration.
type DatabaseConfig struct {
	Driver                 string `yaml:"driver"` // postgres or sqlite
	DSN                    string `yaml:"dsn"`
	MaxOpenConns           int    `yaml:"max_open_conns"`
	MaxIdleConns           int    `yaml:"max_idle_conns"`
	ConnMaxLifetimeMinutes int    `yaml:"conn_max_lifetime_minutes"`
	LogLevel               string `yaml:"log_level"` // silent, error, warn, info
}

// SchedulerConfig controls the periodic due-alert sweep.
type SchedulerConfig struct {
	Enabled             bool          `yaml:"enabled"`
	IntervalSeconds     int           `yaml:"interval_seconds"`
	Interval            time.Duration `yaml:"-"`
	Timezone            string        `yaml:"timezone"`
	UpcomingHorizonDays int           `yaml:"upcoming_horizon_days"`
}

// Location resolves Timezone. "Local" and "" mean the process's local zone.
func (s SchedulerConfig) Location() (*time.Location, error) {
	if s.Timezone == "" || s.Timezone == "Local" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(s.Timezone)
	if err != nil {
		return nil, fmt.Errorf("failed to load timezone %q: %w", s.Timezone, err)
	}
	return loc, nil
}

// LedgerConfig selects where shown-alert records are kept.
type LedgerConfig struct {
	Backend        string        `yaml:"backend"` // memory, badger or database
	Path           string        `yaml:"path"`
	RetentionHours int           `yaml:"retention_hours"`
	Retention      time.Duration `yaml:"-"`
}

// WorkerPoolConfig holds the configuration for the notification worker pool.
type WorkerPoolConfig struct {
	Size int `yaml:"size"`
}

// ClientConfig configures alertctl's connection to the API.
type ClientConfig struct {
	BaseURL        string        `yaml:"base_url"`
	TimeoutSeconds int           `yaml:"timeout_seconds"`
	Timeout        time.Duration `yaml:"-"`
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	cfg := &Config{
		Server: ServerConfig{
			Port:            8080,
			RateLimitPerSec: 10,
			RateLimitBurst:  5,
			CacheTTLSeconds: 60,
		},
		Database: DatabaseConfig{
			Driver:                 "sqlite",
			DSN:                    "alerts.db",
			MaxOpenConns:           10,
			MaxIdleConns:           5,
			ConnMaxLifetimeMinutes: 30,
			LogLevel:               "warn",
		},
		Scheduler: SchedulerConfig{
			Enabled:             true,
			IntervalSeconds:     3600,
			Timezone:            "Local",
			UpcomingHorizonDays: 30,
		},
		Ledger: LedgerConfig{
			Backend:        "memory",
			Path:           "./data/ledger",
			RetentionHours: 48,
		},
		WorkerPool: WorkerPoolConfig{Size: 1},
		Client: ClientConfig{
			BaseURL:        "http://localhost:8080/api",
			TimeoutSeconds: 15,
		},
	}
	cfg.finalize()
	return cfg
}

// Load reads the configuration from the given path on top of Default, then
// applies environment overrides.
func Load(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	cfg := Default()
	decoder := yaml.NewDecoder(f)
	if err := decoder.Decode(cfg); err != nil {
		return nil, err
	}

	cfg.ApplyEnv()
	cfg.finalize()
	return cfg, nil
}

// ApplyEnv overrides selected settings from the environment.
func (c *Config) ApplyEnv() {
	if v := os.Getenv("PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			c.Server.Port = port
		} else {
			log.Printf("ignoring invalid PORT %q", v)
		}
	}
	if v := os.Getenv("DATABASE_DSN"); v != "" {
		c.Database.DSN = v
	}
	if v := os.Getenv("DATABASE_DRIVER"); v != "" {
		c.Database.Driver = v
	}
	if v := os.Getenv("LEDGER_BACKEND"); v != "" {
		c.Ledger.Backend = v
	}
	if v := os.Getenv("ALERTS_API_URL"); v != "" {
		c.Client.BaseURL = v
	}
}

// finalize fills invalid values with defaults and derives durations.
func (c *Config) finalize() {
	if c.Scheduler.IntervalSeconds <= 0 {
		c.Scheduler.IntervalSeconds = 3600
	}
	c.Scheduler.Interval = time.Duration(c.Scheduler.IntervalSeconds) * time.Second

	if c.Scheduler.UpcomingHorizonDays <= 0 {
		c.Scheduler.UpcomingHorizonDays = 30
	}

	if c.Ledger.RetentionHours <= 0 {
		c.Ledger.RetentionHours = 48
	}
	c.Ledger.Retention = time.Duration(c.Ledger.RetentionHours) * time.Hour

	if c.Server.CacheTTLSeconds < 0 {
		c.Server.CacheTTLSeconds = 0
	}
	if c.Server.RateLimitPerSec <= 0 {
		c.Server.RateLimitPerSec = 10
	}
	if c.Server.RateLimitBurst <= 0 {
		c.Server.RateLimitBurst = 5
	}

	if c.WorkerPool.Size <= 0 {
		log.Printf("worker_pool.size is not set or invalid; defaulting to 1")
		c.WorkerPool.Size = 1
	}

	if c.Client.TimeoutSeconds <= 0 {
		c.Client.TimeoutSeconds = 15
	}
	c.Client.Timeout = time.Duration(c.Client.TimeoutSeconds) * time.Second
}
