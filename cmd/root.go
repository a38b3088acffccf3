package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/s0up4200/sejmscraper/config"
	"github.com/s0up4200/sejmscraper/filter"
	"github.com/s0up4200/sejmscraper/scraper"
	"github.com/s0up4200/sejmscraper/sejm"
	"github.com/s0up4200/sejmscraper/storage"
)

// ErrRunFailed is returned when a run finished but counted errors
var ErrRunFailed = errors.New("scrape finished with errors")

var (
	cfgFile   string
	cfg       *config.Config
	logger    zerolog.Logger
	logCloser io.Closer
	formatter = scraper.NewConsoleFormatter()

	// Command flags
	termNum     int
	sessionNum  int
	noPDFs      bool
	statements  bool
	verbose     bool
	logFileName string
	filterExpr  string
	noBanner    bool
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "sejmscraper",
	Short: "Download Polish Sejm transcripts",
	Long: `sejmscraper downloads stenographic transcripts of the Polish Sejm from the
public api.sejm.gov.pl service and stores them in a deterministic directory tree.

By default every past sitting day of every session of the configured term is
downloaded as PDF. Sessions that have not taken place yet are skipped and picked
up by a later run.`,
	PersistentPreRunE:  initializeApp,
	PersistentPostRunE: closeLogFile,
	RunE:               runScrape,
	SilenceUsage:       true,
	SilenceErrors:      true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	defer func() {
		if r := recover(); r != nil {
			logger.Error().Interface("panic", r).Msg("Unexpected failure")
			fmt.Fprintf(os.Stderr, "Unexpected failure: %v\n", r)
			_ = closeLogFile(nil, nil)
			os.Exit(1)
		}
	}()

	if err := rootCmd.Execute(); err != nil {
		os.Exit(finish(os.Stderr, err))
	}
}

// finish closes the log file, which cobra's post-run hook skips on error,
// and reports err
func finish(w io.Writer, err error) int {
	if closeErr := closeLogFile(nil, nil); closeErr != nil {
		fmt.Fprintf(w, "Failed to close log file: %v\n", closeErr)
	}
	return reportError(w, err)
}

// reportError prints err for the user and returns the process exit code
func reportError(w io.Writer, err error) int {
	if errors.Is(err, ErrInterrupted) {
		fmt.Fprintln(w, "Interrupted by user, partial downloads may remain on disk")
		return 130
	}
	fmt.Fprintf(w, "Error: %v\n", err)
	return 1
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./config.yaml)")
	rootCmd.PersistentFlags().IntVarP(&termNum, "term", "t", 0, "parliamentary term number (default from config)")
	rootCmd.PersistentFlags().StringVar(&filterExpr, "filter", "", `session filter expression, e.g. "Number >= 10 && !Future"`)
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVar(&logFileName, "log-file", "", "also write logs to this file in the logs directory")

	rootCmd.Flags().IntVarP(&sessionNum, "session", "p", 0, "download a single session")
	rootCmd.Flags().BoolVar(&noPDFs, "no-pdfs", false, "do not download transcript PDFs")
	rootCmd.Flags().BoolVar(&statements, "statements", false, "save per-statement HTML stubs")
	rootCmd.Flags().BoolVar(&noBanner, "no-banner", false, "do not print the startup banner")
}

// initializeApp loads the configuration and sets up logging
func initializeApp(cmd *cobra.Command, args []string) error {
	// Load configuration
	var err error
	cfg, err = config.Load(cfgFile)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// Command line overrides
	if cmd.Flags().Changed("term") {
		cfg.Scrape.Term = termNum
	}
	if cmd.Flags().Changed("filter") {
		cfg.Scrape.Filter = filterExpr
	}
	if f := cmd.Flags().Lookup("no-pdfs"); f != nil && f.Changed {
		cfg.Scrape.PDFs = !noPDFs
	}
	if f := cmd.Flags().Lookup("statements"); f != nil && f.Changed {
		cfg.Scrape.Statements = statements
	}
	if verbose {
		cfg.Logging.Level = "debug"
	}

	if err := cfg.EnsureDirectories(); err != nil {
		return err
	}

	var logPath string
	if logFileName != "" {
		logPath = filepath.Join(cfg.Output.LogsDir, logFileName)
	}
	logger, logCloser, err = setupLogger(cfg.Logging, logPath)
	if err != nil {
		return err
	}

	for _, warning := range cfg.Warnings() {
		logger.Warn().Msg(warning)
	}

	return nil
}

func closeLogFile(cmd *cobra.Command, args []string) error {
	if logCloser == nil {
		return nil
	}
	err := logCloser.Close()
	logCloser = nil
	return err
}

// setupLogger configures the zerolog logger. With a log path the events are
// also appended to that file as JSON.
func setupLogger(cfg config.LoggingConfig, logPath string) (zerolog.Logger, io.Closer, error) {
	// Set log level
	level := zerolog.InfoLevel
	switch strings.ToLower(cfg.Level) {
	case "debug":
		level = zerolog.DebugLevel
	case "warn":
		level = zerolog.WarnLevel
	case "error":
		level = zerolog.ErrorLevel
	}

	zerolog.SetGlobalLevel(level)

	// Configure output format
	var output io.Writer = os.Stderr
	if cfg.Format != "json" {
		output = zerolog.ConsoleWriter{
			Out:        os.Stderr,
			TimeFormat: time.RFC3339,
			NoColor:    !cfg.Color || !isatty.IsTerminal(os.Stderr.Fd()),
		}
	}

	if logPath == "" {
		return zerolog.New(output).With().Timestamp().Logger(), nil, nil
	}

	file, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return zerolog.Nop(), nil, fmt.Errorf("failed to open log file: %w", err)
	}

	multi := zerolog.MultiLevelWriter(output, file)
	return zerolog.New(multi).With().Timestamp().Logger(), file, nil
}

// newPipeline wires the API client and the storage writer from the configuration
func newPipeline() (*scraper.Pipeline, error) {
	client, err := sejm.NewClient(cfg.API.BaseURL, logger,
		sejm.WithTimeout(cfg.API.Timeout),
		sejm.WithRequestDelay(cfg.API.RequestDelay),
		sejm.WithMaxRetries(cfg.API.MaxRetries),
		sejm.WithUserAgent(cfg.API.UserAgent),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create API client: %w", err)
	}

	writer, err := storage.NewWriter(cfg.Output.Dir, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create storage writer: %w", err)
	}

	return scraper.NewPipeline(client, writer, logger), nil
}

// scrapeOptions builds the run options from the effective configuration
func scrapeOptions() (scraper.Options, error) {
	opts := scraper.Options{
		Term:       cfg.Scrape.Term,
		PDFs:       cfg.Scrape.PDFs,
		Statements: cfg.Scrape.Statements,
	}

	matcher, err := compileFilter(cfg.Scrape.Filter)
	if err != nil {
		return opts, err
	}
	opts.Filter = matcher
	return opts, nil
}

// compileFilter returns nil for an empty expression
func compileFilter(expression string) (scraper.SessionMatcher, error) {
	if strings.TrimSpace(expression) == "" {
		return nil, nil
	}
	f, err := filter.Compile(expression)
	if err != nil {
		return nil, fmt.Errorf("invalid filter expression: %w", err)
	}
	logger.Info().Str("filter", f.Expression()).Msg("Using session filter")
	return f, nil
}

func runScrape(cmd *cobra.Command, args []string) error {
	opts, err := scrapeOptions()
	if err != nil {
		return err
	}

	pipeline, err := newPipeline()
	if err != nil {
		return err
	}

	if !noBanner {
		fmt.Print(formatter.FormatBanner(appVersion, cfg.Output.Dir, opts))
	}

	single := cmd.Flags().Changed("session")

	return withInterrupt(cmd.Context(), func(ctx context.Context) error {
		var stats scraper.RunStats
		var err error
		if single {
			stats, err = pipeline.RunSession(ctx, opts, sessionNum)
		} else {
			stats, err = pipeline.Run(ctx, opts)
		}
		if err != nil {
			return err
		}

		fmt.Print(formatter.FormatStats(stats))
		if stats.Failed() {
			return fmt.Errorf("%w: %d errors", ErrRunFailed, stats.Errors)
		}
		return nil
	})
}
