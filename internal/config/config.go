// Package config loads application configuration from file, environment,
// and defaults using Viper.
package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"

	"github.com/phm-match-engine/internal/domain"
)

// Manager loads and validates the application configuration.
type Manager struct {
	config *domain.Config
}

// NewManager creates a new configuration manager
func NewManager() (*Manager, error) {
	m := &Manager{}
	if err := m.loadConfig(); err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	return m, nil
}

// loadConfig loads configuration from various sources
func (m *Manager) loadConfig() error {
	// Set configuration file name and paths
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")
	viper.AddConfigPath("/etc/phm-match-engine/")

	// Set environment variable prefix and enable automatic env binding
	viper.SetEnvPrefix("PHM_MATCH")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	m.setDefaults()

	// Read configuration file (optional - will use defaults and env vars if not found)
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found; using defaults and environment variables
	}

	config := &domain.Config{}
	if err := viper.Unmarshal(config); err != nil {
		return fmt.Errorf("error unmarshaling config: %w", err)
	}

	m.config = config
	return nil
}

// setDefaults sets default configuration values
func (m *Manager) setDefaults() {
	// Engine defaults: the clinical ranking chain over the full
	// transfusion chart is the documented primary behavior.
	viper.SetDefault("engine.ranking_policy", string(domain.CLINICAL))
	viper.SetDefault("engine.compatibility_policy", string(domain.FULL_CHART))

	// Cache defaults
	viper.SetDefault("cache.max_runs", 64)

	// Report defaults
	viper.SetDefault("report.format", "markdown")
	viper.SetDefault("report.output_path", "")

	// Audit defaults
	viper.SetDefault("audit.enabled", true)
	viper.SetDefault("audit.db_path", "./data/match_audit.db")

	// Logging defaults
	viper.SetDefault("logging.level", "info")
	viper.SetDefault("logging.format", "text")
	viper.SetDefault("logging.output", "stderr")
}

// GetConfig returns the complete configuration
func (m *Manager) GetConfig() *domain.Config {
	return m.config
}

// GetEngineConfig returns the engine policy configuration
func (m *Manager) GetEngineConfig() *domain.EngineConfig {
	return &m.config.Engine
}

// GetAuditConfig returns the audit trail configuration
func (m *Manager) GetAuditConfig() *domain.AuditConfig {
	return &m.config.Audit
}

// Reload reloads the configuration
func (m *Manager) Reload() error {
	return m.loadConfig()
}

// Validate validates the configuration
func (m *Manager) Validate() error {
	config := m.config

	if !domain.RankingPolicy(config.Engine.RankingPolicy).IsValid() {
		return fmt.Errorf("invalid ranking policy: %s", config.Engine.RankingPolicy)
	}
	if !domain.CompatibilityPolicy(config.Engine.CompatibilityPolicy).IsValid() {
		return fmt.Errorf("invalid compatibility policy: %s", config.Engine.CompatibilityPolicy)
	}

	if config.Cache.MaxRuns <= 0 {
		return fmt.Errorf("cache.max_runs must be positive: %d", config.Cache.MaxRuns)
	}

	switch strings.ToLower(config.Report.Format) {
	case "markdown", "html":
	default:
		return fmt.Errorf("invalid report format: %s", config.Report.Format)
	}

	if config.Audit.Enabled && config.Audit.DBPath == "" {
		return fmt.Errorf("audit.db_path is required when audit is enabled")
	}

	validLogLevels := map[string]bool{
		"debug": true, "info": true, "warn": true, "error": true, "fatal": true, "panic": true,
	}
	if !validLogLevels[strings.ToLower(config.Logging.Level)] {
		return fmt.Errorf("invalid log level: %s", config.Logging.Level)
	}

	return nil
}
