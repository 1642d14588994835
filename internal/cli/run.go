package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/wiggitywhitney/commit-story-sub002/internal/core"
	"github.com/wiggitywhitney/commit-story-sub002/internal/journal"
	"github.com/wiggitywhitney/commit-story-sub002/internal/observability"
	"github.com/wiggitywhitney/commit-story-sub002/internal/transcript"
	"github.com/wiggitywhitney/commit-story-sub002/pkg/models"
)

var (
	runRef    string
	runRepo   string
	runJSON   bool
	runDryRun bool
	runBudget int
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Correlate a commit with its assistant session and journal it",
	Long: `Correlate the given commit (HEAD by default) with the assistant session
transcripts recorded for this repository, filter the result, and append a
journal entry. Invoked by the installed post-commit hook with no arguments.

Finding no session context is a valid, silent outcome; the journal entry
then carries the commit message alone.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		fc, cfg, repoRoot, err := correlate(runRepo, runRef, runBudget)
		if err != nil {
			return err
		}

		if runJSON {
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(fc)
		}

		if runDryRun {
			printSummary(cmd, fc)
			return nil
		}

		writer := journal.NewWriter(filepath.Join(repoRoot, cfg.JournalDir))
		path, err := writer.Write(journal.Entry{Context: fc})
		if err != nil {
			return fmt.Errorf("writing journal entry: %w", err)
		}
		cmd.Println(pathStyle.Render(path))
		return nil
	},
}

// correlate loads configuration and runs the engine for one commit.
func correlate(repo, ref string, budgetOverride int) (*models.FilteredContext, models.EngineConfig, string, error) {
	repoRoot, err := filepath.Abs(repo)
	if err != nil {
		return nil, models.EngineConfig{}, "", fmt.Errorf("resolving repository path: %w", err)
	}

	cfg, err := core.NewConfigurationManager().Load(repoRoot)
	if err != nil {
		return nil, models.EngineConfig{}, "", err
	}
	if budgetOverride > 0 {
		cfg.TokenBudget = budgetOverride
	}

	storageRoot, err := transcript.DefaultStorageRoot()
	if err != nil {
		return nil, cfg, "", err
	}

	var events observability.EventLog
	if cfg.Debug {
		logPath := filepath.Join(repoRoot, cfg.JournalDir, "events.jsonl")
		if err := os.MkdirAll(filepath.Dir(logPath), 0o755); err == nil {
			// Tracing is best-effort; a nil log just disables it.
			events, _ = observability.NewJSONLEventLog(logPath)
		}
	}

	engine := core.NewEngine(storageRoot, events)
	fc, err := engine.Correlate(repoRoot, ref, cfg)
	if err != nil {
		return nil, cfg, "", err
	}
	return fc, cfg, fc.Commit.RepoPath, nil
}

// printSummary renders the dry-run view of a filtered context.
func printSummary(cmd *cobra.Command, fc *models.FilteredContext) {
	m := fc.Metrics
	cmd.Println(titleStyle.Render(fmt.Sprintf("Commit %s", fc.Commit.ShortHash())))
	cmd.Printf("Sessions: %d  Records: %d kept / %d collected\n",
		m.SessionCount, len(fc.Records), m.OriginalRecordCount)
	cmd.Printf("Tokens: %d -> %d (budget tier %d)\n", m.TokensBefore, m.TokensAfter, int(m.ReductionTier))
	if m.Ambiguous {
		cmd.Println(warnStyle.Render("ambiguous: multiple concurrent sessions included"))
	}
	if m.OverBudget {
		cmd.Println(warnStyle.Render("over budget after maximal reduction"))
	}
}

func init() {
	runCmd.Flags().StringVar(&runRef, "ref", "HEAD", "commit reference to correlate")
	runCmd.Flags().StringVar(&runRepo, "repo", ".", "repository path")
	runCmd.Flags().BoolVar(&runJSON, "json", false, "print the filtered context as JSON instead of journaling")
	runCmd.Flags().BoolVar(&runDryRun, "dry-run", false, "print a summary without writing anything")
	runCmd.Flags().IntVar(&runBudget, "budget", 0, "override the configured token budget")
	rootCmd.AddCommand(runCmd)
}
