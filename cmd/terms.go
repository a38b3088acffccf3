package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

// termsCmd represents the terms command
var termsCmd = &cobra.Command{
	Use:   "terms",
	Short: "List parliamentary terms",
	Long:  `List the parliamentary terms known to the Sejm API and mark the current one.`,
	Args:  cobra.NoArgs,
	RunE:  runTerms,
}

func init() {
	rootCmd.AddCommand(termsCmd)
}

func runTerms(cmd *cobra.Command, args []string) error {
	pipeline, err := newPipeline()
	if err != nil {
		return err
	}

	terms, err := pipeline.Terms(cmd.Context())
	if err != nil {
		return err
	}

	fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatTerms(terms))
	return nil
}
