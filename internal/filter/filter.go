// Package filter merges commit data with resolved transcript records,
// removes non-narrative noise, redacts secret-shaped content, and reduces the
// payload through successive tiers until it fits a token budget.
package filter

import (
	"strings"
	"time"

	"github.com/wiggitywhitney/commit-story-sub002/pkg/models"
)

// charsPerToken is the cheap length-based token proxy. A full tokenizer is
// overkill for a budget check with this much headroom.
const charsPerToken = 4

// ContextFilter builds the final FilteredContext from a commit and the
// resolver's record list.
type ContextFilter interface {
	Filter(commit models.Commit, records []models.TranscriptRecord, cfg models.EngineConfig) *models.FilteredContext
}

// contextFilter implements ContextFilter as a pure function of its inputs;
// all configuration arrives through cfg, never from ambient state.
type contextFilter struct{}

// NewContextFilter creates the default ContextFilter.
func NewContextFilter() ContextFilter {
	return &contextFilter{}
}

// Filter runs the exclusion, classification, redaction, and budget passes in
// order. A payload that cannot be reduced under budget is returned anyway
// with Metrics.OverBudget set; losing all context would be worse than
// overshooting.
func (f *contextFilter) Filter(commit models.Commit, records []models.TranscriptRecord, cfg models.EngineConfig) *models.FilteredContext {
	metrics := models.ContextMetrics{
		OriginalRecordCount: len(records),
	}

	// Path exclusions come first: excluded file detail never reaches
	// classification or redaction. The commit message is exempt.
	commit.Diff = excludeDiffPaths(commit.Diff, cfg.ExcludePatterns)
	records = excludeRecordPaths(records, cfg.ExcludePatterns)

	signal := classify(records, cfg.MinSignalLen)
	metrics.RemovedRecordCount = metrics.OriginalRecordCount - len(signal)

	// Redaction scans signal text and the diff; matches are replaced with
	// markers, never dropped.
	redactions := 0
	commit.Diff, redactions = countingRedact(commit.Diff, redactions)
	for i := range signal {
		signal[i].Text, redactions = countingRedact(signal[i].Text, redactions)
	}
	metrics.RedactionCount = redactions

	metrics.TokensBefore = estimatePayload(commit, signal)
	metrics.TokensAfter = metrics.TokensBefore

	if metrics.TokensBefore <= cfg.TokenBudget {
		metrics.ReductionTier = models.TierNone
		return &models.FilteredContext{Commit: commit, Records: signal, Metrics: metrics}
	}

	// Tier 1: truncate the diff, keep every signal record.
	commit.Diff = truncateDiff(commit.Diff, cfg.DiffHeadLines)
	metrics.ReductionTier = models.TierDiffTruncate
	metrics.TokensAfter = estimatePayload(commit, signal)
	metrics.TierTokens = append(metrics.TierTokens, metrics.TokensAfter)

	if metrics.TokensAfter <= cfg.TokenBudget {
		return &models.FilteredContext{Commit: commit, Records: signal, Metrics: metrics}
	}

	// Tier 2: drop short mechanical confirmations.
	signal = dropShort(signal, cfg.TierTwoMinLen)
	metrics.RemovedRecordCount = metrics.OriginalRecordCount - len(signal)
	metrics.ReductionTier = models.TierDropShort
	metrics.TokensAfter = estimatePayload(commit, signal)
	metrics.TierTokens = append(metrics.TierTokens, metrics.TokensAfter)

	if metrics.TokensAfter <= cfg.TokenBudget {
		return &models.FilteredContext{Commit: commit, Records: signal, Metrics: metrics}
	}

	// Tier 3: cap the record count, keeping the most recent records and
	// those immediately preceding the commit, in chronological order.
	signal = capRecords(signal, commit.Timestamp, cfg.RecordCap)
	metrics.RemovedRecordCount = metrics.OriginalRecordCount - len(signal)
	metrics.ReductionTier = models.TierRecordCap
	metrics.TokensAfter = estimatePayload(commit, signal)
	metrics.TierTokens = append(metrics.TierTokens, metrics.TokensAfter)

	metrics.OverBudget = metrics.TokensAfter > cfg.TokenBudget
	return &models.FilteredContext{Commit: commit, Records: signal, Metrics: metrics}
}

// countingRedact redacts s and accumulates the match count.
func countingRedact(s string, sofar int) (string, int) {
	out, n := redact(s)
	return out, sofar + n
}

// classify keeps signal records only: not internal, not exclusively tool
// blocks, and carrying at least minLen of trimmed text.
func classify(records []models.TranscriptRecord, minLen int) []models.TranscriptRecord {
	if minLen < 1 {
		// Empty text is never signal, whatever the configuration says.
		minLen = 1
	}
	signal := make([]models.TranscriptRecord, 0, len(records))
	for _, r := range records {
		if r.IsInternal || r.ToolBlocksOnly() {
			continue
		}
		if len(strings.TrimSpace(r.Text)) < minLen {
			continue
		}
		signal = append(signal, r)
	}
	return signal
}

// excludeRecordPaths removes records whose tool invocations reference an
// excluded file path.
func excludeRecordPaths(records []models.TranscriptRecord, patterns []string) []models.TranscriptRecord {
	if len(patterns) == 0 {
		return records
	}
	kept := make([]models.TranscriptRecord, 0, len(records))
	for _, r := range records {
		excluded := false
		for _, b := range r.Blocks {
			if b.FilePath != "" && matchesAny(b.FilePath, patterns) {
				excluded = true
				break
			}
		}
		if !excluded {
			kept = append(kept, r)
		}
	}
	return kept
}

// dropShort removes signal records below the stricter tier-two threshold.
func dropShort(records []models.TranscriptRecord, minLen int) []models.TranscriptRecord {
	kept := make([]models.TranscriptRecord, 0, len(records))
	for _, r := range records {
		if len(strings.TrimSpace(r.Text)) >= minLen {
			kept = append(kept, r)
		}
	}
	return kept
}

// capRecords keeps the union of the limit most recent records and the limit
// records immediately preceding the commit timestamp, preserving the existing
// chronological order. With skew padding, records after the commit timestamp
// can exist, so the two subsets may differ.
func capRecords(records []models.TranscriptRecord, commitTime time.Time, limit int) []models.TranscriptRecord {
	if limit <= 0 || len(records) <= limit {
		return records
	}

	keep := make(map[int]bool, 2*limit)

	// Most recent records overall.
	for i := len(records) - 1; i >= 0 && len(keep) < limit; i-- {
		keep[i] = true
	}

	// Records immediately preceding the commit timestamp.
	before := 0
	for i := len(records) - 1; i >= 0 && before < limit; i-- {
		if records[i].Timestamp.After(commitTime) {
			continue
		}
		keep[i] = true
		before++
	}

	kept := make([]models.TranscriptRecord, 0, len(keep))
	for i, r := range records {
		if keep[i] {
			kept = append(kept, r)
		}
	}
	return kept
}
