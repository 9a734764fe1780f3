package domain

// Config represents the complete application configuration, unmarshalled
// by the config manager from file, environment, and defaults.
type Config struct {
	Engine  EngineConfig  `mapstructure:"engine"`
	Cache   CacheConfig   `mapstructure:"cache"`
	Report  ReportConfig  `mapstructure:"report"`
	Audit   AuditConfig   `mapstructure:"audit"`
	Logging LoggingConfig `mapstructure:"logging"`
}

// EngineConfig selects the matching engine policies.
type EngineConfig struct {
	RankingPolicy       string `mapstructure:"ranking_policy"`
	CompatibilityPolicy string `mapstructure:"compatibility_policy"`
}

// CacheConfig configures the in-memory cache of recent match runs.
type CacheConfig struct {
	MaxRuns int `mapstructure:"max_runs"`
}

// ReportConfig configures ranking report generation.
type ReportConfig struct {
	Format     string `mapstructure:"format"` // "markdown" or "html"
	OutputPath string `mapstructure:"output_path"`
}

// AuditConfig configures the match-run audit trail. The audit store keeps
// run metadata only, never patient biometrics.
type AuditConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	DBPath  string `mapstructure:"db_path"`
}

// LoggingConfig configures structured logging output.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"` // "json" or "text"
	Output string `mapstructure:"output"`
}
