package cmd

import (
	"context"
	"errors"
	"fmt"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

var cronSpec string

// scheduleCmd represents the schedule command
var scheduleCmd = &cobra.Command{
	Use:   "schedule",
	Short: "Scrape the configured term periodically",
	Long: `Run the full-term scrape on a cron schedule until interrupted. A run that
is still in progress when the next one is due makes the next one skip.

The schedule uses the standard five field cron syntax, e.g. "0 6 * * *"
for every day at 06:00 local time.`,
	Args: cobra.NoArgs,
	RunE: runSchedule,
}

func init() {
	rootCmd.AddCommand(scheduleCmd)

	scheduleCmd.Flags().StringVar(&cronSpec, "cron", "", "cron schedule (default from config)")
	scheduleCmd.Flags().BoolVar(&noPDFs, "no-pdfs", false, "do not download transcript PDFs")
	scheduleCmd.Flags().BoolVar(&statements, "statements", false, "save per-statement HTML stubs")
}

// cronLogger adapts zerolog to the cron.Logger interface
type cronLogger struct {
	logger zerolog.Logger
}

var _ cron.Logger = cronLogger{}

func (l cronLogger) Info(msg string, keysAndValues ...any) {
	l.logger.Debug().Fields(keysAndValues).Msg(msg)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...any) {
	l.logger.Error().Err(err).Fields(keysAndValues).Msg(msg)
}

// newScheduler registers job on spec. Overlapping runs are skipped and a
// panicking job is logged instead of taking the process down.
func newScheduler(spec string, logger zerolog.Logger, job func()) (*cron.Cron, error) {
	cl := cronLogger{logger: logger.With().Str("component", "scheduler").Logger()}

	c := cron.New(
		cron.WithLogger(cl),
		cron.WithChain(cron.Recover(cl), cron.SkipIfStillRunning(cl)),
	)
	if _, err := c.AddFunc(spec, job); err != nil {
		return nil, fmt.Errorf("invalid cron schedule %q: %w", spec, err)
	}
	return c, nil
}

func runSchedule(cmd *cobra.Command, args []string) error {
	spec := cfg.Schedule.Cron
	if cronSpec != "" {
		spec = cronSpec
	}

	opts, err := scrapeOptions()
	if err != nil {
		return err
	}

	pipeline, err := newPipeline()
	if err != nil {
		return err
	}

	err = withInterrupt(cmd.Context(), func(ctx context.Context) error {
		c, err := newScheduler(spec, logger, func() {
			stats, err := pipeline.Run(ctx, opts)
			switch {
			case errors.Is(err, context.Canceled):
				logger.Info().Msg("Scheduled run cancelled")
			case err != nil:
				logger.Error().Err(err).Msg("Scheduled run failed")
			case stats.Failed():
				logger.Warn().EmbedObject(stats).Msg("Scheduled run finished with errors")
			default:
				logger.Info().EmbedObject(stats).Msg("Scheduled run finished")
			}
		})
		if err != nil {
			return err
		}

		c.Start()
		logger.Info().Str("schedule", spec).Int("term", opts.Term).Msg("Scheduler started")
		next := c.Entries()[0].Next
		logger.Info().Time("next_run", next).Msg("Waiting for next run")

		<-ctx.Done()
		// Wait for a run in progress to notice the cancellation
		<-c.Stop().Done()
		return nil
	})

	// Interrupting is the normal way to stop the scheduler
	if errors.Is(err, ErrInterrupted) {
		logger.Info().Msg("Scheduler stopped")
		return nil
	}
	return err
}
