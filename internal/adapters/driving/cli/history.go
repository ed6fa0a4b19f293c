package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var historyLimit int

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show recent sync runs",
	RunE:  runHistory,
}

func init() {
	historyCmd.Flags().IntVar(&historyLimit, "limit", 20, "maximum runs to show")
	rootCmd.AddCommand(historyCmd)
}

func runHistory(cmd *cobra.Command, _ []string) error {
	if err := initServices(); err != nil {
		return err
	}
	initRunStore()
	if runStore == nil {
		return fmt.Errorf("run history unavailable")
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	runs, err := runStore.Recent(ctx, historyLimit)
	if err != nil {
		return fmt.Errorf("load history: %w", err)
	}
	if len(runs) == 0 {
		cmd.Println("No runs recorded yet.")
		return nil
	}

	for _, run := range runs {
		cmd.Printf("%s  %-10s  %d created, %d updated, %d skipped",
			run.StartedAt.Format("2006-01-02 15:04"), run.Kind,
			run.Created, run.Updated, run.Skipped)
		if run.Failed() > 0 {
			cmd.Printf(", %d failed", run.Failed())
		}
		cmd.Println()
	}
	return nil
}
