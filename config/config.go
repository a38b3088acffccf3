package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment override, e.g. SEJM_API_BASE_URL
const EnvPrefix = "SEJM"

// DefaultEnvFile is loaded into the environment before the configuration is read
const DefaultEnvFile = ".env"

// Load loads the configuration from defaults, an optional config file, the
// optional .env file and the environment, in increasing precedence.
func Load(configPath string) (*Config, error) {
	return LoadWithEnvFile(configPath, DefaultEnvFile)
}

// LoadWithEnvFile is Load with an explicit .env location
func LoadWithEnvFile(configPath, envFile string) (*Config, error) {
	if envFile != "" {
		// godotenv never overrides variables that are already set
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("error loading %s: %w", envFile, err)
		}
	}

	v := viper.New()

	// Set default values
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		// Look for config in standard locations
		v.SetConfigName("config")
		v.SetConfigType("yaml")

		// Check current directory first
		v.AddConfigPath(".")

		// Check home directory
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".sejmscraper"))
		}

		// Check /etc
		v.AddConfigPath("/etc/sejmscraper/")
	}

	// A config file is optional unless one was named explicitly
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configPath != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}
	cfg.API.BaseURL = strings.TrimRight(strings.TrimSpace(cfg.API.BaseURL), "/")

	// Validate configuration
	if err := validate(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	// API defaults
	v.SetDefault("api.base_url", "https://api.sejm.gov.pl")
	v.SetDefault("api.timeout", 30*time.Second)
	v.SetDefault("api.request_delay", time.Second)
	v.SetDefault("api.max_retries", 3)
	v.SetDefault("api.user_agent", "SejmBotScraper/1.0 (Educational Purpose)")

	// Output defaults
	v.SetDefault("output.dir", "stenogramy_sejm")
	v.SetDefault("output.logs_dir", "logs")

	// Scrape defaults
	v.SetDefault("scrape.term", 10)
	v.SetDefault("scrape.pdfs", true)
	v.SetDefault("scrape.statements", false)
	v.SetDefault("scrape.filter", "")

	// Schedule defaults
	v.SetDefault("schedule.cron", "0 6 * * *")

	// Logging defaults
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")
	v.SetDefault("logging.color", true)
}

// validate rejects values nothing can run with
func validate(cfg *Config) error {
	if cfg.API.BaseURL == "" {
		return fmt.Errorf("api.base_url is required")
	}

	if cfg.Output.Dir == "" {
		return fmt.Errorf("output.dir is required")
	}

	// Validate logging level
	validLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLevels[cfg.Logging.Level] {
		return fmt.Errorf("invalid logging level: %s", cfg.Logging.Level)
	}

	// Validate logging format
	validFormats := map[string]bool{
		"console": true,
		"json":    true,
	}
	if !validFormats[cfg.Logging.Format] {
		return fmt.Errorf("invalid logging format: %s", cfg.Logging.Format)
	}

	return nil
}

// Warnings reports implausible values. None of them stop a run.
func (c *Config) Warnings() []string {
	var warnings []string

	if !strings.HasPrefix(c.API.BaseURL, "http://") && !strings.HasPrefix(c.API.BaseURL, "https://") {
		warnings = append(warnings, fmt.Sprintf("api.base_url %q has no http(s) scheme", c.API.BaseURL))
	}
	if c.API.Timeout < 5*time.Second {
		warnings = append(warnings, fmt.Sprintf("api.timeout %s is very short", c.API.Timeout))
	}
	if c.API.Timeout > 5*time.Minute {
		warnings = append(warnings, fmt.Sprintf("api.timeout %s is very long", c.API.Timeout))
	}
	if c.API.RequestDelay < 100*time.Millisecond {
		warnings = append(warnings, fmt.Sprintf("api.request_delay %s may overload the API", c.API.RequestDelay))
	}
	if c.API.RequestDelay > 10*time.Second {
		warnings = append(warnings, fmt.Sprintf("api.request_delay %s makes runs very slow", c.API.RequestDelay))
	}
	if c.API.MaxRetries < 0 || c.API.MaxRetries > 10 {
		warnings = append(warnings, fmt.Sprintf("api.max_retries %d is outside 0-10", c.API.MaxRetries))
	}
	if c.Scrape.Term < 1 {
		warnings = append(warnings, fmt.Sprintf("scrape.term %d is not a valid term number", c.Scrape.Term))
	}
	if !c.Scrape.PDFs && !c.Scrape.Statements {
		warnings = append(warnings, "both scrape.pdfs and scrape.statements are disabled, only session info will be saved")
	}

	return warnings
}

// EnsureDirectories creates the output and log directories
func (c *Config) EnsureDirectories() error {
	for _, dir := range []string{c.Output.Dir, c.Output.LogsDir} {
		if dir == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}
	return nil
}
