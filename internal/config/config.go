// Package config provides configuration management for the grid predictor.
package config

import (
	"fmt"
	"time"
)

// Scoring strategies and training algorithms accepted by the configuration
const (
	StrategyModel     = "model"
	StrategyHeuristic = "heuristic"

	AlgorithmRandomForest = "random_forest"
	AlgorithmLogistic     = "logistic"
)

// Config represents the complete application configuration
type Config struct {
	App       AppConfig       `mapstructure:"app" validate:"required"`
	Data      DataConfig      `mapstructure:"data" validate:"required"`
	Model     ModelConfig     `mapstructure:"model" validate:"required"`
	OpenF1    OpenF1Config    `mapstructure:"openf1" validate:"required"`
	Predictor PredictorConfig `mapstructure:"predictor" validate:"required"`
	Database  DatabaseConfig  `mapstructure:"database"`
	Metrics   MetricsConfig   `mapstructure:"metrics"`
	Watch     WatchConfig     `mapstructure:"watch"`
}

// AppConfig represents application-level configuration
type AppConfig struct {
	Name        string `mapstructure:"name" validate:"required"`
	Environment string `mapstructure:"environment" validate:"required,environment"`
	LogLevel    string `mapstructure:"log_level" validate:"required,loglevel"`
}

// DataConfig locates the historical tables and the flat training table
type DataConfig struct {
	Dir         string `mapstructure:"dir" validate:"required"`
	DatasetPath string `mapstructure:"dataset_path" validate:"required"`
	PreviewRows int    `mapstructure:"preview_rows" validate:"gte=0"`
}

// ModelConfig represents classifier training and persistence configuration
type ModelConfig struct {
	Path         string  `mapstructure:"path" validate:"required"`
	Algorithm    string  `mapstructure:"algorithm" validate:"required,algorithm"`
	Trees        int     `mapstructure:"trees" validate:"gt=0"`
	MaxDepth     int     `mapstructure:"max_depth" validate:"gte=0"`
	MinLeafSize  int     `mapstructure:"min_leaf_size" validate:"gt=0"`
	Seed         int64   `mapstructure:"seed"`
	LearningRate float64 `mapstructure:"learning_rate" validate:"gt=0"`
	Iterations   int     `mapstructure:"iterations" validate:"gt=0"`
}

// OpenF1Config represents the live timing API client configuration
type OpenF1Config struct {
	BaseURL           string  `mapstructure:"base_url" validate:"required,url"`
	APIKey            string  `mapstructure:"api_key"`
	TimeoutSeconds    int     `mapstructure:"timeout_seconds" validate:"gt=0"`
	MaxRetries        int     `mapstructure:"max_retries" validate:"gte=0"`
	RateLimit         float64 `mapstructure:"rate_limit" validate:"gt=0"`
	CircuitBreakerMax int     `mapstructure:"circuit_breaker_max" validate:"gt=0"`
	CacheTTLSeconds   int     `mapstructure:"cache_ttl_seconds" validate:"gte=0"`
}

// PredictorConfig is the explicit per-call configuration of the live predictor
type PredictorConfig struct {
	Country            string             `mapstructure:"country" validate:"required"`
	Year               int                `mapstructure:"year" validate:"required,gte=1950"`
	SessionName        string             `mapstructure:"session_name" validate:"required"`
	Strategy           string             `mapstructure:"strategy" validate:"required,strategy"`
	FormBoostOverrides map[string]float64 `mapstructure:"form_boost_overrides"`
	DriverAliases      map[string]string  `mapstructure:"driver_aliases"`
	JitterSeed         int64              `mapstructure:"jitter_seed"`
	JitterMin          float64            `mapstructure:"jitter_min" validate:"gt=0"`
	JitterMax          float64            `mapstructure:"jitter_max" validate:"gt=0"`
	DisplayScale       float64            `mapstructure:"display_scale" validate:"gt=0"`
	ClampPercentage    bool               `mapstructure:"clamp_percentage"`
	ExportPath         string             `mapstructure:"export_path"`
	StoreResults       bool               `mapstructure:"store_results"`
}

// DatabaseConfig represents database connection configuration
type DatabaseConfig struct {
	Enabled        bool   `mapstructure:"enabled"`
	Host           string `mapstructure:"host"`
	Port           int    `mapstructure:"port" validate:"omitempty,min=1,max=65535"`
	Name           string `mapstructure:"name"`
	User           string `mapstructure:"user"`
	Password       string `mapstructure:"password"`
	SSLMode        string `mapstructure:"ssl_mode" validate:"omitempty,oneof=disable require verify-full"`
	MaxConnections int    `mapstructure:"max_connections" validate:"gte=0"`
}

// MetricsConfig controls the Prometheus endpoint served next to the health checks in watch mode
type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Path    string `mapstructure:"path" validate:"omitempty,startswith=/"`
}

// WatchConfig represents the scheduled refresh of predictions
type WatchConfig struct {
	Schedule       string `mapstructure:"schedule" validate:"omitempty,cron"`
	RunImmediately bool   `mapstructure:"run_immediately"`
	HealthPort     string `mapstructure:"health_port"`
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

// Timeout returns the per-request HTTP timeout
func (o OpenF1Config) Timeout() time.Duration {
	return time.Duration(o.TimeoutSeconds) * time.Second
}

// CacheTTL returns how long session and driver listings are cached
func (o OpenF1Config) CacheTTL() time.Duration {
	return time.Duration(o.CacheTTLSeconds) * time.Second
}

// DefaultFormBoost is the fixed form table applied by the heuristic strategy
// before any configured overrides.
func DefaultFormBoost() map[string]float64 {
	return map[string]float64{
		"max_verstappen":  1.5,
		"lewis_hamilton":  1.1,
		"charles_leclerc": 1.1,
		"piastri":         1.2,
		"norris":          1.2,
	}
}

// FormBoost returns the default form table merged with the configured overrides
func (p PredictorConfig) FormBoost() map[string]float64 {
	boost := DefaultFormBoost()
	for driver, value := range p.FormBoostOverrides {
		boost[driver] = value
	}
	return boost
}
