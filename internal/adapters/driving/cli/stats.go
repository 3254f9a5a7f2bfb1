package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/worklens/worklens/internal/core/domain"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show stored record counts",
	RunE:  runStats,
}

func init() {
	rootCmd.AddCommand(statsCmd)
}

func runStats(cmd *cobra.Command, _ []string) error {
	account, err := requireOwner()
	if err != nil {
		return err
	}

	stats, err := statsService.Stats(cmd.Context(), account)
	if err != nil {
		return fmt.Errorf("stats failed: %w", err)
	}

	cmd.Printf("Total records: %d\n", stats.Total)
	for _, source := range domain.AllSourceTypes() {
		if n := stats.CountsBySource[source]; n > 0 {
			cmd.Printf("  %-14s %d\n", source, n)
		}
	}
	if !stats.LastSync.IsZero() {
		cmd.Printf("Last sync: %s\n", stats.LastSync.Format("2006-01-02 15:04:05"))
	}
	return nil
}
