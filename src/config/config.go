package config

import (
	"fmt"
	"os"

	"dashboard-builder/src/models"

	"gopkg.in/yaml.v3"
)

// -----------------------------------------------------------------------------

// Config wraps models.MConfig and provides business logic methods
type Config struct {
	*models.MConfig
}

// -----------------------------------------------------------------------------

// NewConfig creates a new Config instance from a YAML file
func NewConfig(configPath string) (*Config, error) {
	// 1. Read the YAML file content
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file '%s': %w", configPath, err)
	}

	// 2. Unmarshal data into the models struct
	var modelConfig models.MConfig
	if err := yaml.Unmarshal(data, &modelConfig); err != nil {
		return nil, fmt.Errorf("failed to parse config from YAML: %w", err)
	}

	config := &Config{MConfig: &modelConfig}
	config.applyDefaults()

	// 3. Validate the loaded configuration
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return config, nil
}

// -----------------------------------------------------------------------------

// applyDefaults fills in values the YAML file may omit
func (c *Config) applyDefaults() {
	if c.Env == "" {
		c.Env = "development"
	}
	if c.Network.RequestTimeout == 0 {
		c.Network.RequestTimeout = 5
	}
	if c.Network.MaxRetries == 0 {
		c.Network.MaxRetries = 2
	}
	if c.Network.CacheTTLSec == 0 {
		c.Network.CacheTTLSec = 300
	}
	if c.Generator.LinePoints == 0 {
		c.Generator.LinePoints = 12
	}
	if c.Generator.ScatterPoints == 0 {
		c.Generator.ScatterPoints = 50
	}
	if c.Generator.HistorySize == 0 {
		c.Generator.HistorySize = 32
	}
	if c.Dashboard.DefaultLayoutName == "" {
		c.Dashboard.DefaultLayoutName = "My Dashboard"
	}
	if c.Dashboard.RefreshIntervalSeconds == 0 {
		c.Dashboard.RefreshIntervalSeconds = 30
	}
}

// -----------------------------------------------------------------------------

// Validate performs basic configuration validation
func (c *Config) Validate() error {
	// Validate App configuration (Flattened)
	if c.Name == "" {
		return fmt.Errorf("application name cannot be empty")
	}

	// Validate Server configuration (Flattened)
	if c.Host == "" {
		return fmt.Errorf("server host cannot be empty")
	}
	if c.Port <= 1024 || c.Port > 65535 {
		return fmt.Errorf("invalid server port number: %d (must be between 1025 and 65535)", c.Port)
	}

	// Validate Storage configuration
	if c.Storage.DBType == "" {
		return fmt.Errorf("database type cannot be empty")
	}
	if c.Storage.DBType == "sqlite" && c.Storage.DBPath == "" {
		return fmt.Errorf("database path cannot be empty for sqlite")
	}
	if c.Storage.DBType == "postgres" && c.Storage.DBConnectionString == "" {
		return fmt.Errorf("connection string cannot be empty for postgres")
	}
	if c.Storage.FallbackPath == "" {
		return fmt.Errorf("fallback store path cannot be empty")
	}

	// Validate Network configuration
	if c.Network.RequestTimeout <= 0 {
		return fmt.Errorf("request timeout must be greater than 0")
	}
	if c.Network.MaxRetries < 0 {
		return fmt.Errorf("max retries cannot be negative")
	}
	if c.Network.CacheTTLSec <= 0 {
		return fmt.Errorf("cache TTL must be greater than 0")
	}

	// Validate Generator configuration
	if c.Generator.LinePoints <= 0 {
		return fmt.Errorf("line points must be greater than 0")
	}
	if c.Generator.ScatterPoints <= 0 {
		return fmt.Errorf("scatter points must be greater than 0")
	}
	if c.Generator.HistorySize <= 0 {
		return fmt.Errorf("history size must be greater than 0")
	}

	// Validate Dashboard configuration
	if c.Dashboard.RefreshIntervalSeconds <= 0 {
		return fmt.Errorf("refresh interval must be greater than 0")
	}

	return nil
}

// -----------------------------------------------------------------------------

// Save persists the current configuration to the specified YAML file path
func (c *Config) Save(configPath string) error {
	// 1. Marshal the struct to YAML
	data, err := yaml.Marshal(c.MConfig)
	if err != nil {
		return fmt.Errorf("failed to marshal config to YAML: %w", err)
	}

	// 2. Write to file (0644 permissions)
	if err := os.WriteFile(configPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write config to file '%s': %w", configPath, err)
	}

	return nil
}
