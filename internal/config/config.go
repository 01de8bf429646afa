// Package config provides configuration management for the CreditDesk application.
package config

import (
	"fmt"
)

// Config represents the complete application configuration
type Config struct {
	App        AppConfig        `mapstructure:"app" validate:"required"`
	Database   DatabaseConfig   `mapstructure:"database" validate:"required"`
	Engine     EngineConfig     `mapstructure:"engine" validate:"required"`
	Scenarios  ScenariosConfig  `mapstructure:"scenarios" validate:"required"`
	Datasource DatasourceConfig `mapstructure:"datasource" validate:"required"`
	Scheduler  SchedulerConfig  `mapstructure:"scheduler" validate:"required"`
	Metrics    MetricsConfig    `mapstructure:"metrics" validate:"required"`
	Reports    ReportsConfig    `mapstructure:"reports" validate:"required"`
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

// EngineConfig represents the default modeling conventions applied to
// every analysis run unless the run's parameter file overrides them
type EngineConfig struct {
	HorizonYears      int     `mapstructure:"horizon_years" validate:"required,gt=0,lte=30"`
	TaxRate           float64 `mapstructure:"tax_rate" validate:"gte=0,lte=1"`
	MinDSCR           float64 `mapstructure:"min_dscr" validate:"required,gt=0"`
	TargetICR         float64 `mapstructure:"target_icr" validate:"required,gt=0"`
	MaxLeverage       float64 `mapstructure:"max_leverage" validate:"required,gt=0"`
	RiskFreeRate      float64 `mapstructure:"risk_free_rate" validate:"gte=0,lte=1"`
	MarketRiskPremium float64 `mapstructure:"market_risk_premium" validate:"gte=0,lte=1"`
	TerminalGrowth    float64 `mapstructure:"terminal_growth" validate:"gte=-0.2,lte=0.2"`
}

// ScenariosConfig controls stress grid execution
type ScenariosConfig struct {
	Enabled        []string `mapstructure:"enabled" validate:"required,min=1,scenarios"`
	MaxConcurrency int      `mapstructure:"max_concurrency" validate:"required,gt=0"`
}

// DatasourceConfig represents market reference data configuration
type DatasourceConfig struct {
	Provider          string  `mapstructure:"provider" validate:"required,oneof=static http"`
	BaseURL           string  `mapstructure:"base_url" validate:"omitempty,url"`
	APIKey            string  `mapstructure:"api_key"`
	TimeoutSeconds    int     `mapstructure:"timeout_seconds" validate:"required,gt=0"`
	RetryAttempts     int     `mapstructure:"retry_attempts" validate:"gte=0"`
	RateLimitPerSec   float64 `mapstructure:"rate_limit_per_sec" validate:"required,gt=0"`
	CacheTTLSeconds   int     `mapstructure:"cache_ttl_seconds" validate:"required,gt=0"`
	FallbackRiskFree  float64 `mapstructure:"fallback_risk_free" validate:"gte=0,lte=1"`
	FallbackERP       float64 `mapstructure:"fallback_erp" validate:"gte=0,lte=1"`
}

// SchedulerConfig represents scheduled re-analysis configuration
type SchedulerConfig struct {
	Enabled          bool   `mapstructure:"enabled"`
	ReanalysisCron   string `mapstructure:"reanalysis_cron" validate:"required"`
	StaleRunMaxHours int    `mapstructure:"stale_run_max_hours" validate:"required,gt=0"`
}

// MetricsConfig represents metrics and monitoring configuration
type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Port    int    `mapstructure:"port" validate:"required,min=1,max=65535"`
	Path    string `mapstructure:"path" validate:"required"`
}

// ReportsConfig represents report output configuration
type ReportsConfig struct {
	OutputPath string `mapstructure:"output_path" validate:"required"`
	HTMLEnabled bool  `mapstructure:"html_enabled"`
	CSVEnabled  bool  `mapstructure:"csv_enabled"`
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
