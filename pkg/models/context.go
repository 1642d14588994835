package models

// ReductionTier identifies how aggressively the filter had to reduce content
// to approach the token budget. Tiers are applied in order; TierNone means
// the unreduced payload already fit.
type ReductionTier int

const (
	TierNone         ReductionTier = 0
	TierDiffTruncate ReductionTier = 1
	TierDropShort    ReductionTier = 2
	TierRecordCap    ReductionTier = 3
)

// ContextMetrics records what the collection and filtering passes did, so
// degraded outcomes are observable on the output instead of raised as errors.
type ContextMetrics struct {
	RunID               string `json:"run_id"`
	SessionCount        int    `json:"session_count"`
	OriginalRecordCount int    `json:"original_record_count"`
	RemovedRecordCount  int    `json:"removed_record_count"`
	MalformedLineCount  int    `json:"malformed_line_count"`
	RedactionCount      int    `json:"redaction_count"`
	TokensBefore        int    `json:"tokens_before"`
	TokensAfter         int    `json:"tokens_after"`
	// TierTokens holds the estimated token count after each applied
	// reduction tier, in application order. Empty at tier 0.
	TierTokens    []int         `json:"tier_tokens,omitempty"`
	ReductionTier ReductionTier `json:"reduction_tier"`
	OverBudget    bool          `json:"over_budget"`
	// Ambiguous is set when multiple concurrent sessions overlapped the
	// window and could not be disambiguated; all of them are included and
	// the downstream consumer decides how to narrow.
	Ambiguous bool `json:"ambiguous"`
}

// FilteredContext is the engine's output: the commit, the surviving
// chronologically ordered signal records, and the metrics describing what was
// removed or reduced. Constructed once, handed to the narrative generator,
// then discarded.
type FilteredContext struct {
	Commit  Commit             `json:"commit"`
	Records []TranscriptRecord `json:"records"`
	Metrics ContextMetrics     `json:"metrics"`
}
