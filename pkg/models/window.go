package models

import "time"

// FallbackWindowSpan bounds the correlation window for a repository's first
// commit, which has no parent to anchor the left edge.
const FallbackWindowSpan = 24 * time.Hour

// CorrelationWindow is the half-open interval (Start, End] of transcript
// timestamps considered relevant to a commit. Both edges already include any
// configured clock-skew padding.
type CorrelationWindow struct {
	Start time.Time
	End   time.Time
}

// NewCorrelationWindow builds the window for a commit. The left edge is the
// previous commit's timestamp, or FallbackWindowSpan before the commit when
// prev is nil (root commit). skew pads both edges outward to tolerate clock
// differences between git and the transcript writer.
func NewCorrelationWindow(commit Commit, prev *Commit, skew time.Duration) CorrelationWindow {
	start := commit.Timestamp.Add(-FallbackWindowSpan)
	if prev != nil {
		start = prev.Timestamp
	}
	return CorrelationWindow{
		Start: start.Add(-skew),
		End:   commit.Timestamp.Add(skew),
	}
}

// Contains reports whether t falls inside the half-open interval (Start, End].
func (w CorrelationWindow) Contains(t time.Time) bool {
	return t.After(w.Start) && !t.After(w.End)
}
