package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

// sessionsCmd represents the sessions command
var sessionsCmd = &cobra.Command{
	Use:   "sessions",
	Short: "Summarize the sessions of a term",
	Long: `Print every session of a term with its sitting dates. Sessions marked
[future] have not taken place yet and are skipped by a scrape.

Examples:
  sejmscraper sessions -t 10
  sejmscraper sessions --filter 'Number >= 20'`,
	Args: cobra.NoArgs,
	RunE: runSessions,
}

func init() {
	rootCmd.AddCommand(sessionsCmd)
}

func runSessions(cmd *cobra.Command, args []string) error {
	matcher, err := compileFilter(cfg.Scrape.Filter)
	if err != nil {
		return err
	}

	pipeline, err := newPipeline()
	if err != nil {
		return err
	}

	return withInterrupt(cmd.Context(), func(ctx context.Context) error {
		summary, err := pipeline.Summarize(ctx, cfg.Scrape.Term, matcher)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatSessions(cfg.Scrape.Term, summary))
		return nil
	})
}
