package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config represents the application configuration
type Config struct {
	Database  DatabaseConfig  `yaml:"database"`
	Search    SearchConfig    `yaml:"search"`
	Server    ServerConfig    `yaml:"server"`
	RateLimit RateLimitConfig `yaml:"rate_limit"`
	Ingest    IngestConfig    `yaml:"ingest"`
	Logging   LoggingConfig   `yaml:"logging"`
}

// DatabaseConfig contains database settings
type DatabaseConfig struct {
	Type     string         `yaml:"type"`
	MySQL    MySQLConfig    `yaml:"mysql"`
	Postgres PostgresConfig `yaml:"postgres"`
}

// MySQLConfig contains MySQL connection settings
type MySQLConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Database string `yaml:"database"`
}

// PostgresConfig contains PostgreSQL connection settings
type PostgresConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Database string `yaml:"database"`
	SSLMode  string `yaml:"sslmode"`
}

// SearchConfig contains search engine settings
type SearchConfig struct {
	Meilisearch MeilisearchConfig `yaml:"meilisearch"`
}

// MeilisearchConfig contains Meilisearch connection settings
type MeilisearchConfig struct {
	Host   string `yaml:"host"`
	APIKey string `yaml:"api_key"`
}

// ServerConfig contains HTTP server settings
type ServerConfig struct {
	Port         string   `yaml:"port"`
	AllowOrigins []string `yaml:"allow_origins"`
	// AdminToken guards /api/admin/* when set; empty leaves the group open
	// for local development.
	AdminToken string `yaml:"admin_token"`
}

// RateLimitConfig contains rate limiting settings for the public endpoints
type RateLimitConfig struct {
	Enabled        bool `yaml:"enabled"`
	LeadsPerMinute int  `yaml:"leads_per_minute"`
	LeadsPerHour   int  `yaml:"leads_per_hour"`
	UploadsPerHour int  `yaml:"uploads_per_hour"`
}

// IngestConfig contains aggregation pass settings
type IngestConfig struct {
	// TotalUnitOverrides maps a tower slug to a fixed total unit count,
	// replacing the count observed from rows for that tower.
	TotalUnitOverrides map[string]int `yaml:"total_unit_overrides"`

	DailyRebuildEnabled bool   `yaml:"daily_rebuild_enabled"`
	DailyRebuildTime    string `yaml:"daily_rebuild_time"`

	// ImportLogRetentionDays bounds how long upload bookkeeping is kept.
	ImportLogRetentionDays int `yaml:"import_log_retention_days"`
}

// LoggingConfig contains logging settings
type LoggingConfig struct {
	Level       string `yaml:"level"`
	LogRequests bool   `yaml:"log_requests"`
}

// DefaultConfig returns default configuration
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Port:         "8084",
			AllowOrigins: []string{"http://localhost:3000"},
		},
		RateLimit: RateLimitConfig{
			Enabled:        true,
			LeadsPerMinute: 10,
			LeadsPerHour:   100,
			UploadsPerHour: 20,
		},
		Ingest: IngestConfig{
			DailyRebuildEnabled:    false,
			DailyRebuildTime:       "02:00",
			ImportLogRetentionDays: 90,
		},
		Logging: LoggingConfig{
			Level:       "info",
			LogRequests: true,
		},
	}
}

// LoadConfig loads configuration from a YAML file
func LoadConfig(filepath string) (*Config, error) {
	// Start with default config
	config := DefaultConfig()

	// If file doesn't exist, return default config
	if _, err := os.Stat(filepath); os.IsNotExist(err) {
		return config, nil
	}

	// Read file
	data, err := os.ReadFile(filepath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	// Parse YAML
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return config, nil
}
