package core

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/wiggitywhitney/commit-story-sub002/internal/correlate"
	"github.com/wiggitywhitney/commit-story-sub002/internal/filter"
	"github.com/wiggitywhitney/commit-story-sub002/internal/integration"
	"github.com/wiggitywhitney/commit-story-sub002/internal/observability"
	"github.com/wiggitywhitney/commit-story-sub002/internal/transcript"
	"github.com/wiggitywhitney/commit-story-sub002/pkg/models"
)

// Engine runs one complete correlation: read the commit, collect in-window
// transcript records, resolve sessions, filter, and reduce. One invocation
// per commit, no state carried between runs.
type Engine struct {
	Reader    integration.CommitReader
	Collector transcript.Collector
	Resolver  correlate.Resolver
	Filter    filter.ContextFilter
	// Events is the optional debug trace; nil disables tracing.
	Events observability.EventLog
}

// NewEngine wires the default pipeline against the given transcript storage
// root.
func NewEngine(storageRoot string, events observability.EventLog) *Engine {
	return &Engine{
		Reader:    integration.NewCommitReader(),
		Collector: transcript.NewCollector(storageRoot),
		Resolver:  correlate.NewResolver(),
		Filter:    filter.NewContextFilter(),
		Events:    events,
	}
}

// Correlate reconstructs the filtered session context behind one commit.
//
// An unresolvable ref or repository is fatal. Missing transcripts are not:
// a commit with no assistant activity yields a FilteredContext with zero
// records and no error.
func (e *Engine) Correlate(repoPath, ref string, cfg models.EngineConfig) (*models.FilteredContext, error) {
	runID := uuid.NewString()

	commit, err := e.Reader.ReadCommit(repoPath, ref)
	if err != nil {
		return nil, fmt.Errorf("reading commit %s: %w", ref, err)
	}

	prev, err := e.Reader.ReadPreviousCommit(repoPath, ref)
	if err != nil {
		return nil, fmt.Errorf("reading previous commit of %s: %w", ref, err)
	}

	window := models.NewCorrelationWindow(*commit, prev, cfg.ClockSkewBuffer)
	observability.Emit(e.Events, runID, "correlate.window", "correlation window computed", map[string]any{
		"start": window.Start, "end": window.End, "commit": commit.Hash,
	})

	sessions, stats, err := e.Collector.Collect(commit.RepoPath, window)
	if err != nil {
		return nil, fmt.Errorf("collecting transcripts: %w", err)
	}
	observability.Emit(e.Events, runID, "collect.done", "transcript collection finished", map[string]any{
		"sessions": len(sessions), "files_scanned": stats.FilesScanned,
		"files_skipped": stats.FilesSkipped, "malformed_lines": stats.MalformedLines,
	})

	records, ambiguous := e.Resolver.Resolve(sessions, *commit)

	fc := e.Filter.Filter(*commit, records, cfg)
	fc.Metrics.RunID = runID
	fc.Metrics.SessionCount = len(sessions)
	fc.Metrics.MalformedLineCount = stats.MalformedLines
	fc.Metrics.Ambiguous = ambiguous

	observability.Emit(e.Events, runID, "filter.done", "context filtered", map[string]any{
		"tier": int(fc.Metrics.ReductionTier), "tokens_before": fc.Metrics.TokensBefore,
		"tokens_after": fc.Metrics.TokensAfter, "over_budget": fc.Metrics.OverBudget,
		"kept_records": len(fc.Records), "ambiguous": ambiguous,
	})

	return fc, nil
}
