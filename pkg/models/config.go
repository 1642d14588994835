package models

import "time"

// EngineConfig carries every knob the correlation engine honours. It is
// passed explicitly into the filter rather than read from ambient state, so
// the engine stays pure and independently testable.
type EngineConfig struct {
	// TokenBudget is the target size of the filtered payload, in estimated
	// tokens.
	TokenBudget int `yaml:"token_budget" mapstructure:"token_budget"`
	// ExcludePatterns are gitignore-like path patterns; diff hunks touching
	// a matching file are removed before classification. Commit messages
	// are never filtered by path.
	ExcludePatterns []string `yaml:"exclude_patterns" mapstructure:"exclude_patterns"`
	// ClockSkewBuffer pads both edges of the correlation window to absorb
	// clock differences between git and the transcript writer.
	ClockSkewBuffer time.Duration `yaml:"clock_skew_buffer" mapstructure:"clock_skew_buffer"`
	// MinSignalLen is the minimum trimmed text length for a record to count
	// as signal at all.
	MinSignalLen int `yaml:"min_signal_len" mapstructure:"min_signal_len"`
	// DiffHeadLines is how many leading diff lines tier 1 keeps before
	// switching to per-file change summaries.
	DiffHeadLines int `yaml:"diff_head_lines" mapstructure:"diff_head_lines"`
	// TierTwoMinLen is the stricter text length threshold tier 2 applies.
	TierTwoMinLen int `yaml:"tier_two_min_len" mapstructure:"tier_two_min_len"`
	// RecordCap bounds the record count kept by tier 3: the RecordCap most
	// recent records plus the RecordCap records immediately preceding the
	// commit timestamp.
	RecordCap int `yaml:"record_cap" mapstructure:"record_cap"`
	// JournalDir is where journal entries are written, relative to the
	// repository root.
	JournalDir string `yaml:"journal_dir" mapstructure:"journal_dir"`
	// Debug enables the JSONL trace event log under JournalDir.
	Debug bool `yaml:"debug" mapstructure:"debug"`
}

// DefaultEngineConfig returns the configuration used when no
// .commit-story.yaml is present.
func DefaultEngineConfig() EngineConfig {
	return EngineConfig{
		TokenBudget:     15000,
		ClockSkewBuffer: 2 * time.Minute,
		MinSignalLen:    3,
		DiffHeadLines:   400,
		TierTwoMinLen:   40,
		RecordCap:       50,
		JournalDir:      "journal",
	}
}
