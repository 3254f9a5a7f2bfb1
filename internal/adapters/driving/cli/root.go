// Package cli implements the worklens command line interface.
package cli

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/worklens/worklens/internal/core/ports/driving"
	"github.com/worklens/worklens/internal/logger"
)

var version = "dev"

// Services driven by the commands, wired in initServices.
var (
	syncService        driving.SyncService
	searchService      driving.SearchService
	statsService       driving.StatsService
	integrationService driving.IntegrationService
)

var (
	verbose   bool
	configDir string
	owner     string
)

var rootCmd = &cobra.Command{
	Use:   "worklens",
	Short: "Aggregate and search your development activity",
	Long: `worklens syncs pull requests, issues, reviews, commits, tickets and
chat messages from GitHub, Jira and Slack into a local store, and answers
free-text queries with filters and relevance ranking.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		logger.SetVerbose(verbose)
		if skipsWiring(cmd) || syncService != nil {
			return nil
		}
		return initServices()
	},
	PersistentPostRun: func(cmd *cobra.Command, _ []string) {
		closeServices()
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")
	rootCmd.PersistentFlags().StringVar(&configDir, "config", "", "configuration directory (default ~/.worklens)")
	rootCmd.PersistentFlags().StringVarP(&owner, "owner", "o", "", "account the records belong to")
}

// skipsWiring reports whether a command runs without the service stack.
func skipsWiring(cmd *cobra.Command) bool {
	switch cmd.Name() {
	case "version", "help", "completion":
		return true
	}
	return false
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
