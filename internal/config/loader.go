package config

import (
	"bytes"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"
)

const (
	defaultConfigPath = "config/config.yaml"
	envPrefix         = "GRID_PREDICTOR"
)

// Load reads and parses the configuration from file and environment variables
// It expands environment variable placeholders in the YAML file (${VAR_NAME})
func Load(configPath string) (*Config, error) {
	if configPath == "" {
		configPath = defaultConfigPath
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("config file not found at %s: %w", configPath, err)
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	v := newViper()
	setDefaults(v)

	expanded := os.ExpandEnv(string(data))
	if err := v.ReadConfig(bytes.NewBufferString(expanded)); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return unmarshal(v)
}

// LoadWithDefaults loads configuration with default values for every field.
// A missing file is not an error; defaults and environment variables apply.
func LoadWithDefaults(configPath string) (*Config, error) {
	if configPath == "" {
		configPath = defaultConfigPath
	}

	v := newViper()
	setDefaults(v)

	if data, err := os.ReadFile(configPath); err == nil {
		expanded := os.ExpandEnv(string(data))
		if err := v.ReadConfig(bytes.NewBufferString(expanded)); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	return unmarshal(v)
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetConfigType("yaml")
	v.SetEnvPrefix(envPrefix)
	v.AutomaticEnv()
	// Replace dots with underscores in environment variable names
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	return v
}

func unmarshal(v *viper.Viper) (*Config, error) {
	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}
	return cfg, nil
}

// setDefaults registers a default for every key so AutomaticEnv can override
// keys that are absent from the file.
func setDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "grid-predictor")
	v.SetDefault("app.environment", "development")
	v.SetDefault("app.log_level", "info")

	v.SetDefault("data.dir", "data")
	v.SetDefault("data.dataset_path", "dataset.csv")
	v.SetDefault("data.preview_rows", 5)

	v.SetDefault("model.path", "model.bin")
	v.SetDefault("model.algorithm", "random_forest")
	v.SetDefault("model.trees", 100)
	v.SetDefault("model.max_depth", 0)
	v.SetDefault("model.min_leaf_size", 1)
	v.SetDefault("model.seed", 42)
	v.SetDefault("model.learning_rate", 0.0001)
	v.SetDefault("model.iterations", 1000)

	v.SetDefault("openf1.base_url", "https://api.openf1.org/v1")
	v.SetDefault("openf1.api_key", "")
	v.SetDefault("openf1.timeout_seconds", 30)
	v.SetDefault("openf1.max_retries", 3)
	v.SetDefault("openf1.rate_limit", 3.0)
	v.SetDefault("openf1.circuit_breaker_max", 5)
	v.SetDefault("openf1.cache_ttl_seconds", 300)

	v.SetDefault("predictor.country", "China")
	v.SetDefault("predictor.year", 2025)
	v.SetDefault("predictor.session_name", "Qualifying")
	v.SetDefault("predictor.strategy", "heuristic")
	v.SetDefault("predictor.jitter_seed", 0)
	v.SetDefault("predictor.jitter_min", 0.95)
	v.SetDefault("predictor.jitter_max", 1.05)
	v.SetDefault("predictor.display_scale", 150.0)
	v.SetDefault("predictor.clamp_percentage", false)
	v.SetDefault("predictor.export_path", "")
	v.SetDefault("predictor.store_results", false)

	v.SetDefault("database.enabled", false)
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.name", "grid_predictor")
	v.SetDefault("database.user", "postgres")
	v.SetDefault("database.password", "")
	v.SetDefault("database.ssl_mode", "disable")
	v.SetDefault("database.max_connections", 4)

	v.SetDefault("metrics.enabled", false)
	v.SetDefault("metrics.path", "/metrics")

	v.SetDefault("watch.schedule", "*/5 * * * *")
	v.SetDefault("watch.run_immediately", true)
	v.SetDefault("watch.health_port", "8080")
}
