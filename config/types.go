package config

import "time"

// Config represents the complete configuration structure
type Config struct {
	API      APIConfig      `mapstructure:"api"`
	Output   OutputConfig   `mapstructure:"output"`
	Scrape   ScrapeConfig   `mapstructure:"scrape"`
	Schedule ScheduleConfig `mapstructure:"schedule"`
	Logging  LoggingConfig  `mapstructure:"logging"`
}

// APIConfig holds the Sejm API connection settings
type APIConfig struct {
	BaseURL      string        `mapstructure:"base_url"`
	Timeout      time.Duration `mapstructure:"timeout"`
	RequestDelay time.Duration `mapstructure:"request_delay"`
	// MaxRetries is read and exposed but requests are never retried
	MaxRetries int    `mapstructure:"max_retries"`
	UserAgent  string `mapstructure:"user_agent"`
}

// OutputConfig contains the output locations
type OutputConfig struct {
	Dir     string `mapstructure:"dir"`
	LogsDir string `mapstructure:"logs_dir"`
}

// ScrapeConfig contains the defaults of a scrape run
type ScrapeConfig struct {
	Term       int    `mapstructure:"term"`
	PDFs       bool   `mapstructure:"pdfs"`
	Statements bool   `mapstructure:"statements"`
	Filter     string `mapstructure:"filter"`
}

// ScheduleConfig contains settings for periodic runs
type ScheduleConfig struct {
	Cron string `mapstructure:"cron"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	Color  bool   `mapstructure:"color"`
}
