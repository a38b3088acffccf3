package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// isolate keeps the user's home and working directory config out of the test
func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("HOME", dir)
	chdir(t, dir)
	return dir
}

func TestLoad_Defaults(t *testing.T) {
	isolate(t)

	cfg, err := LoadWithEnvFile("", "")
	require.NoError(t, err)

	assert.Equal(t, "https://api.sejm.gov.pl", cfg.API.BaseURL)
	assert.Equal(t, 30*time.Second, cfg.API.Timeout)
	assert.Equal(t, time.Second, cfg.API.RequestDelay)
	assert.Equal(t, 3, cfg.API.MaxRetries)
	assert.Equal(t, "stenogramy_sejm", cfg.Output.Dir)
	assert.Equal(t, "logs", cfg.Output.LogsDir)
	assert.Equal(t, 10, cfg.Scrape.Term)
	assert.True(t, cfg.Scrape.PDFs)
	assert.False(t, cfg.Scrape.Statements)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Empty(t, cfg.Warnings())
}

func TestLoad_File(t *testing.T) {
	dir := isolate(t)
	path := filepath.Join(dir, "custom.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
api:
  base_url: "http://localhost:8080/"
  request_delay: 250ms
scrape:
  term: 9
  statements: true
  filter: "Number > 5"
logging:
  level: debug
`), 0o644))

	cfg, err := LoadWithEnvFile(path, "")
	require.NoError(t, err)

	assert.Equal(t, "http://localhost:8080", cfg.API.BaseURL)
	assert.Equal(t, 250*time.Millisecond, cfg.API.RequestDelay)
	assert.Equal(t, 9, cfg.Scrape.Term)
	assert.True(t, cfg.Scrape.Statements)
	assert.Equal(t, "Number > 5", cfg.Scrape.Filter)
	assert.Equal(t, "debug", cfg.Logging.Level)
}

func TestLoad_DiscoversConfigInWorkingDirectory(t *testing.T) {
	dir := isolate(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte("scrape:\n  term: 8\n"), 0o644))

	cfg, err := LoadWithEnvFile("", "")
	require.NoError(t, err)
	assert.Equal(t, 8, cfg.Scrape.Term)
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	dir := isolate(t)

	_, err := LoadWithEnvFile(filepath.Join(dir, "nope.yaml"), "")
	assert.Error(t, err)
}

func TestLoad_EnvironmentOverrides(t *testing.T) {
	isolate(t)
	t.Setenv("SEJM_API_BASE_URL", "http://mirror.example")
	t.Setenv("SEJM_API_TIMEOUT", "10s")
	t.Setenv("SEJM_OUTPUT_DIR", "archive")
	t.Setenv("SEJM_SCRAPE_TERM", "9")
	t.Setenv("SEJM_SCRAPE_PDFS", "false")

	cfg, err := LoadWithEnvFile("", "")
	require.NoError(t, err)

	assert.Equal(t, "http://mirror.example", cfg.API.BaseURL)
	assert.Equal(t, 10*time.Second, cfg.API.Timeout)
	assert.Equal(t, "archive", cfg.Output.Dir)
	assert.Equal(t, 9, cfg.Scrape.Term)
	assert.False(t, cfg.Scrape.PDFs)
}

func TestLoad_EnvFile(t *testing.T) {
	dir := isolate(t)
	envFile := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(envFile, []byte("SEJM_OUTPUT_LOGS_DIR=dotenv-logs\n"), 0o644))
	t.Cleanup(func() { os.Unsetenv("SEJM_OUTPUT_LOGS_DIR") })

	cfg, err := LoadWithEnvFile("", envFile)
	require.NoError(t, err)
	assert.Equal(t, "dotenv-logs", cfg.Output.LogsDir)

	// A missing .env file is not an error
	_, err = LoadWithEnvFile("", filepath.Join(dir, "missing.env"))
	assert.NoError(t, err)
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			API:     APIConfig{BaseURL: "https://api.sejm.gov.pl"},
			Output:  OutputConfig{Dir: "out"},
			Logging: LoggingConfig{Level: "info", Format: "console"},
		}
	}

	tests := []struct {
		name    string
		modify  func(*Config)
		wantErr bool
	}{
		{name: "valid", modify: func(*Config) {}},
		{name: "missing base url", modify: func(c *Config) { c.API.BaseURL = "" }, wantErr: true},
		{name: "missing output dir", modify: func(c *Config) { c.Output.Dir = "" }, wantErr: true},
		{name: "bad level", modify: func(c *Config) { c.Logging.Level = "trace" }, wantErr: true},
		{name: "bad format", modify: func(c *Config) { c.Logging.Format = "xml" }, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.modify(cfg)
			err := validate(cfg)
			if (err != nil) != tt.wantErr {
				t.Errorf("validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestWarnings(t *testing.T) {
	cfg := &Config{
		API: APIConfig{
			BaseURL:      "api.sejm.gov.pl",
			Timeout:      time.Second,
			RequestDelay: 0,
			MaxRetries:   -1,
		},
		Scrape: ScrapeConfig{Term: 0},
	}

	warnings := cfg.Warnings()
	assert.Len(t, warnings, 6)
	assert.Contains(t, warnings[0], "no http(s) scheme")
}

func TestEnsureDirectories(t *testing.T) {
	dir := t.TempDir()
	cfg := &Config{Output: OutputConfig{
		Dir:     filepath.Join(dir, "out", "nested"),
		LogsDir: filepath.Join(dir, "logs"),
	}}

	require.NoError(t, cfg.EnsureDirectories())
	assert.DirExists(t, cfg.Output.Dir)
	assert.DirExists(t, cfg.Output.LogsDir)
}

// chdir changes the working directory for the duration of the test and
// restores it on cleanup (equivalent of testing.T.Chdir, added in Go 1.24)
func chdir(t *testing.T, dir string) {
	t.Helper()
	prev, err := os.Getwd()
	if err != nil {
		t.Fatalf("getwd: %v", err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("chdir: %v", err)
	}
	t.Cleanup(func() {
		if err := os.Chdir(prev); err != nil {
			t.Errorf("restore working directory: %v", err)
		}
	})
}
