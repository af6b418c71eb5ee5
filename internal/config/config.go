// Package config provides configuration management for the Jimmy AI application.
package config

import (
	"fmt"
	"time"
)

// Config represents the complete application configuration
type Config struct {
	App       AppConfig       `mapstructure:"app" validate:"required"`
	Database  DatabaseConfig  `mapstructure:"database" validate:"required"`
	OddsAPI   OddsAPIConfig   `mapstructure:"odds_api" validate:"required"`
	Scan      ScanConfig      `mapstructure:"scan" validate:"required"`
	Ingestion IngestionConfig `mapstructure:"ingestion" validate:"required"`
	Narrative NarrativeConfig `mapstructure:"narrative"`
	Metrics   MetricsConfig   `mapstructure:"metrics" validate:"required"`
	Features  FeaturesConfig  `mapstructure:"features"`
}

// AppConfig represents application-level configuration
type AppConfig struct {
	Name        string `mapstructure:"name" validate:"required"`
	Environment string `mapstructure:"environment" validate:"required,environment"`
	LogLevel    string `mapstructure:"log_level" validate:"required,loglevel"`
}

// DatabaseConfig represents database connection configuration
type DatabaseConfig struct {
	Host               string `mapstructure:"host" validate:"required"`
	Port               int    `mapstructure:"port" validate:"required,min=1,max=65535"`
	Name               string `mapstructure:"name" validate:"required"`
	User               string `mapstructure:"user" validate:"required"`
	Password           string `mapstructure:"password" validate:"required"`
	SSLMode            string `mapstructure:"ssl_mode" validate:"required,oneof=disable require verify-full"`
	MaxConnections     int    `mapstructure:"max_connections" validate:"required,gt=0"`
	MaxIdleConnections int    `mapstructure:"max_idle_connections" validate:"required,gt=0"`
}

// OddsAPIConfig represents The Odds API client configuration
type OddsAPIConfig struct {
	BaseURL               string   `mapstructure:"base_url" validate:"required,url"`
	APIKeys               []string `mapstructure:"api_keys" validate:"required,min=1"`
	Region                string   `mapstructure:"region" validate:"required"`
	PreferredBookmakers   []string `mapstructure:"preferred_bookmakers"`
	MaxKeyFailures        int      `mapstructure:"max_key_failures" validate:"required,gt=0"`
	RequestTimeoutSeconds int      `mapstructure:"request_timeout_seconds" validate:"required,gt=0"`
	LineTTLMinutes        int      `mapstructure:"line_ttl_minutes" validate:"required,gt=0"`
	EventCacheTTLMinutes  int      `mapstructure:"event_cache_ttl_minutes" validate:"required,gt=0"`
	RateLimitPerSecond    float64  `mapstructure:"rate_limit_per_second" validate:"required,gt=0"`
}

// ScanConfig represents scan orchestration configuration
type ScanConfig struct {
	Mode                   string   `mapstructure:"mode" validate:"required,scanmode"`
	MinConfidenceScore     float64  `mapstructure:"min_confidence_score" validate:"gte=0,lte=100"`
	MinExpectedValue       float64  `mapstructure:"min_expected_value" validate:"gte=-1"`
	MinProbability         float64  `mapstructure:"min_probability" validate:"gte=0,lte=1"`
	MaxCandidates          int      `mapstructure:"max_candidates" validate:"required,gt=0"`
	Markets                []string `mapstructure:"markets" validate:"required,min=1,markets"`
	SpanGames              int      `mapstructure:"span_games" validate:"required,gt=0"`
	SameDayCacheTTLMinutes int      `mapstructure:"same_day_cache_ttl_minutes" validate:"required,gt=0"`
	Concurrency            int      `mapstructure:"concurrency" validate:"required,gt=0"`
}

// IngestionConfig represents data ingestion configuration
type IngestionConfig struct {
	Sources  []DataSourceConfig `mapstructure:"sources" validate:"required,min=1"`
	Schedule ScheduleConfig     `mapstructure:"schedule" validate:"required"`
	Season   string             `mapstructure:"season" validate:"required"`
}

// DataSourceConfig represents a single data source configuration
type DataSourceConfig struct {
	Name      string `mapstructure:"name" validate:"required"`
	Enabled   bool   `mapstructure:"enabled"`
	BaseURL   string `mapstructure:"base_url"`
	BatchSize int    `mapstructure:"batch_size" validate:"omitempty,gt=0"`
	APIKey    string `mapstructure:"api_key"`
}

// ScheduleConfig represents ingestion scheduling (cron expressions)
type ScheduleConfig struct {
	GameLogSync   string `mapstructure:"game_log_sync" validate:"required"`
	InjuryRefresh string `mapstructure:"injury_refresh" validate:"required"`
}

// NarrativeConfig represents the LLM narrative service configuration
type NarrativeConfig struct {
	Enabled        bool   `mapstructure:"enabled"`
	URL            string `mapstructure:"url" validate:"omitempty,url"`
	APIKey         string `mapstructure:"api_key"`
	Model          string `mapstructure:"model"`
	TimeoutSeconds int    `mapstructure:"timeout_seconds" validate:"omitempty,gt=0"`
	RetryAttempts  int    `mapstructure:"retry_attempts" validate:"gte=0"`
}

// MetricsConfig represents metrics and monitoring configuration
type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Port    int    `mapstructure:"port" validate:"required,min=1,max=65535"`
	Path    string `mapstructure:"path" validate:"required"`
}

// FeaturesConfig represents feature flags
type FeaturesConfig struct {
	NarrativeEnabled  bool `mapstructure:"narrative_enabled"`
	ParlayEnabled     bool `mapstructure:"parlay_enabled"`
	MilestonesEnabled bool `mapstructure:"milestones_enabled"`
}

// IsDevelopment checks if the application is running in development mode
func (c *Config) IsDevelopment() bool {
	return c.App.Environment == "development"
}

// IsStaging checks if the application is running in staging mode
func (c *Config) IsStaging() bool {
	return c.App.Environment == "staging"
}

// IsProduction checks if the application is running in production mode
func (c *Config) IsProduction() bool {
	return c.App.Environment == "production"
}

// GetDatabaseDSN returns a PostgreSQL DSN string
func (c *Config) GetDatabaseDSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.Name,
		c.Database.SSLMode,
	)
}

// LineTTL returns the betting-line validity window as a duration
func (c *OddsAPIConfig) LineTTL() time.Duration {
	return time.Duration(c.LineTTLMinutes) * time.Minute
}

// EventCacheTTL returns the odds event cache lifetime as a duration
func (c *OddsAPIConfig) EventCacheTTL() time.Duration {
	return time.Duration(c.EventCacheTTLMinutes) * time.Minute
}

// SameDayCacheTTL returns the per-player scan memo lifetime as a duration
func (c *ScanConfig) SameDayCacheTTL() time.Duration {
	return time.Duration(c.SameDayCacheTTLMinutes) * time.Minute
}
