// Package cli implements the commit-story command surface. The commands are
// thin wrappers: all correlation logic lives in the internal engine packages.
package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var (
	appVersion = "dev"
	appCommit  = "none"
	appDate    = "unknown"
)

// SetVersionInfo sets the version information injected via ldflags.
func SetVersionInfo(version, commit, date string) {
	appVersion = version
	appCommit = commit
	appDate = date
}

var rootCmd = &cobra.Command{
	Use:   "commit-story",
	Short: "Reconstruct the AI-session story behind your git commits",
	Long: `commit-story correlates each git commit with the AI coding assistant
session transcripts that produced it, filters out tool mechanics and
bookkeeping noise, and keeps the distilled conversation within a token
budget so a narrative generator can turn it into an engineering journal.`,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("commit-story %s\ncommit: %s\nbuilt:  %s\n", appVersion, appCommit, appDate)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
