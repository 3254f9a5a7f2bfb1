package cli

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/worklens/worklens/internal/core/domain"
)

var (
	syncDaysBack int
	syncSmart    bool
)

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Synchronise activity from connected providers",
	Long: `Fetches recent activity from every connected provider and stores it
locally. Provider failures are reported but never abort the run.`,
	RunE: runSync,
}

func init() {
	syncCmd.Flags().IntVar(&syncDaysBack, "days", domain.DefaultLookbackDays, "lookback window in days")
	syncCmd.Flags().BoolVar(&syncSmart, "smart", false, "skip when a sync ran recently")
	rootCmd.AddCommand(syncCmd)
}

func runSync(cmd *cobra.Command, _ []string) error {
	account, err := requireOwner()
	if err != nil {
		return err
	}
	ctx := cmd.Context()

	if syncSmart {
		result, err := syncService.SmartSync(ctx, account)
		if err != nil {
			return fmt.Errorf("smart sync failed: %w", err)
		}
		if result.Skipped {
			cmd.Printf("Skipped: last sync at %s is within the cool-down window.\n",
				result.LastSync.Format("15:04:05"))
			return nil
		}
		printSyncResult(cmd, result.Result)
		return nil
	}

	result, err := syncService.SyncAll(ctx, account, syncDaysBack)
	if err != nil {
		return fmt.Errorf("sync failed: %w", err)
	}
	printSyncResult(cmd, result)
	return nil
}

func printSyncResult(cmd *cobra.Command, result *domain.SyncResult) {
	cmd.Printf("Synced %d records.\n", result.Total)

	sources := make([]string, 0, len(result.Counts))
	for source := range result.Counts {
		sources = append(sources, string(source))
	}
	sort.Strings(sources)
	for _, source := range sources {
		cmd.Printf("  %-14s %d\n", source, result.Counts[domain.SourceType(source)])
	}

	if len(result.Errors) > 0 {
		cmd.Printf("\n%d error(s):\n", len(result.Errors))
		for _, msg := range result.Errors {
			cmd.Printf("  - %s\n", msg)
		}
	}
}
