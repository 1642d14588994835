package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/wiggitywhitney/commit-story-sub002/internal/core"
	"github.com/wiggitywhitney/commit-story-sub002/internal/integration"
	"github.com/wiggitywhitney/commit-story-sub002/internal/transcript"
)

var statusRepo string

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show configuration and transcript discovery state for this repository",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		repoRoot, err := filepath.Abs(statusRepo)
		if err != nil {
			return fmt.Errorf("resolving repository path: %w", err)
		}
		if root, err := integration.RepoRoot(repoRoot); err == nil {
			repoRoot = root
		}

		cfg, err := core.NewConfigurationManager().Load(repoRoot)
		if err != nil {
			return err
		}

		cmd.Println(titleStyle.Render("commit-story status"))
		cmd.Printf("Repository:   %s\n", repoRoot)
		cmd.Printf("Token budget: %d\n", cfg.TokenBudget)
		cmd.Printf("Journal dir:  %s\n", cfg.JournalDir)
		cmd.Printf("Exclusions:   %d pattern(s)\n", len(cfg.ExcludePatterns))

		installed, err := integration.NewHookInstaller().Installed(repoRoot)
		switch {
		case err != nil:
			cmd.Printf("Hook:         %s\n", warnStyle.Render("unknown ("+err.Error()+")"))
		case installed:
			cmd.Printf("Hook:         %s\n", okStyle.Render("installed"))
		default:
			cmd.Printf("Hook:         %s\n", warnStyle.Render("not installed"))
		}

		storageRoot, err := transcript.DefaultStorageRoot()
		if err != nil {
			return err
		}
		dir := filepath.Join(storageRoot, transcript.EncodeRepoPath(repoRoot))
		if _, err := os.Stat(dir); err == nil {
			cmd.Printf("Transcripts:  %s\n", okStyle.Render(dir))
		} else {
			// Valid state: the assistant was never used here.
			cmd.Printf("Transcripts:  %s\n", pathStyle.Render("none recorded ("+dir+")"))
		}
		return nil
	},
}

func init() {
	statusCmd.Flags().StringVar(&statusRepo, "repo", ".", "repository path")
	rootCmd.AddCommand(statusCmd)
}
