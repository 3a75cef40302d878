// File: internal/config/config.go
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type RuntimeConfig struct {
	Dev bool
}

type ServerConfig struct {
	Port   int    `yaml:"port"`
	APIKey string `yaml:"api_key"`
	// JWT session settings for the dashboard UI.
	SessionSecret string        `yaml:"session_secret"`
	SessionTTL    time.Duration `yaml:"session_ttl"`
	SecureCookie  bool          `yaml:"secure_cookie"`
}

type LogConfig struct {
	Level    string `yaml:"level"`    // trace|debug|info|warn|error
	Format   string `yaml:"format"`   // json|console
	Sampling bool   `yaml:"sampling"` // enable sampling in prod
}

// DatabaseConfig is read from the process environment, not the YAML file:
// DB_HOST, DB_PORT, DB_NAME, DB_USER, DB_PASSWORD. Read once at start; there
// is no hot-reload.
type DatabaseConfig struct {
	Host     string
	Port     string
	Name     string
	User     string
	Password string
	MaxConns int32 `yaml:"max_conns"`
}

// DSN renders the postgres connection string.
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s",
		url.QueryEscape(d.User), url.QueryEscape(d.Password), d.Host, d.Port, d.Name)
}

type CacheConfig struct {
	MetricsTTL time.Duration `yaml:"metrics_ttl"`
}

type AnalyticsConfig struct {
	// Transactions carrying this provider number are excluded from the
	// savings and investment activity unions.
	ExcludedProvider string `yaml:"excluded_provider"`
	// Default dormancy lookback when the caller does not supply one.
	DormancyLookbackDays int `yaml:"dormancy_lookback_days"`
}

type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Log       LogConfig       `yaml:"log"`
	Database  DatabaseConfig  `yaml:"database"`
	Cache     CacheConfig     `yaml:"cache"`
	Analytics AnalyticsConfig `yaml:"analytics"`

	Runtime RuntimeConfig `yaml:"-"`
}

func LoadConfig(configPath string, dev bool) (*Config, error) {
	b, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	cfg.Database.Host = os.Getenv("DB_HOST")
	cfg.Database.Port = os.Getenv("DB_PORT")
	cfg.Database.Name = os.Getenv("DB_NAME")
	cfg.Database.User = os.Getenv("DB_USER")
	cfg.Database.Password = os.Getenv("DB_PASSWORD")

	// defaults
	if cfg.Server.Port <= 0 {
		cfg.Server.Port = 8080
	}
	if cfg.Server.SessionTTL <= 0 {
		cfg.Server.SessionTTL = 30 * time.Minute
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "json"
	}
	if cfg.Database.Port == "" {
		cfg.Database.Port = "5432"
	}
	if cfg.Database.MaxConns <= 0 {
		cfg.Database.MaxConns = 10
	}
	if cfg.Cache.MetricsTTL <= 0 {
		cfg.Cache.MetricsTTL = 300 * time.Second
	}
	if cfg.Analytics.ExcludedProvider == "" {
		cfg.Analytics.ExcludedProvider = "18"
	}
	if cfg.Analytics.DormancyLookbackDays <= 0 {
		cfg.Analytics.DormancyLookbackDays = 30
	}

	// Minimal validation
	if cfg.Database.Host == "" {
		return nil, errors.New("DB_HOST is required")
	}
	if cfg.Database.Name == "" {
		return nil, errors.New("DB_NAME is required")
	}
	if cfg.Database.User == "" {
		return nil, errors.New("DB_USER is required")
	}
	if cfg.Server.APIKey == "" {
		return nil, errors.New("server.api_key is required")
	}
	if cfg.Server.SessionSecret == "" {
		return nil, errors.New("server.session_secret is required")
	}

	cfg.Runtime.Dev = dev
	return &cfg, nil
}
