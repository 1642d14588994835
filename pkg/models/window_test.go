package models

import (
	"testing"
	"time"
)

func TestNewCorrelationWindow(t *testing.T) {
	commitTime := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	prevTime := time.Date(2025, 6, 1, 9, 30, 0, 0, time.UTC)

	commit := Commit{Hash: "abc", Timestamp: commitTime}
	prev := &Commit{Hash: "def", Timestamp: prevTime}

	tests := []struct {
		name      string
		prev      *Commit
		skew      time.Duration
		wantStart time.Time
		wantEnd   time.Time
	}{
		{
			name:      "previous commit bounds the left edge",
			prev:      prev,
			wantStart: prevTime,
			wantEnd:   commitTime,
		},
		{
			name:      "root commit falls back to fixed span",
			prev:      nil,
			wantStart: commitTime.Add(-FallbackWindowSpan),
			wantEnd:   commitTime,
		},
		{
			name:      "skew pads both edges outward",
			prev:      prev,
			skew:      2 * time.Minute,
			wantStart: prevTime.Add(-2 * time.Minute),
			wantEnd:   commitTime.Add(2 * time.Minute),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := NewCorrelationWindow(commit, tt.prev, tt.skew)
			if !w.Start.Equal(tt.wantStart) {
				t.Errorf("Start = %v, want %v", w.Start, tt.wantStart)
			}
			if !w.End.Equal(tt.wantEnd) {
				t.Errorf("End = %v, want %v", w.End, tt.wantEnd)
			}
		})
	}
}

func TestCorrelationWindowContains(t *testing.T) {
	start := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)
	end := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	w := CorrelationWindow{Start: start, End: end}

	tests := []struct {
		name string
		t    time.Time
		want bool
	}{
		{"start is excluded", start, false},
		{"just after start is included", start.Add(time.Nanosecond), true},
		{"end is included", end, true},
		{"just after end is excluded", end.Add(time.Nanosecond), false},
		{"before start is excluded", start.Add(-time.Hour), false},
		{"midpoint is included", start.Add(90 * time.Minute), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := w.Contains(tt.t); got != tt.want {
				t.Errorf("Contains(%v) = %v, want %v", tt.t, got, tt.want)
			}
		})
	}
}

func TestSessionOverlaps(t *testing.T) {
	rec := func(ts time.Time) TranscriptRecord {
		return TranscriptRecord{Timestamp: ts}
	}
	base := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)
	span := func(startMin, endMin int) *Session {
		return &Session{Records: []TranscriptRecord{
			rec(base.Add(time.Duration(startMin) * time.Minute)),
			rec(base.Add(time.Duration(endMin) * time.Minute)),
		}}
	}

	if !span(0, 30).Overlaps(span(20, 50)) {
		t.Error("intersecting ranges should overlap")
	}
	if span(0, 10).Overlaps(span(20, 30)) {
		t.Error("disjoint ranges should not overlap")
	}
	if !span(0, 10).Overlaps(span(10, 20)) {
		t.Error("ranges sharing an endpoint should overlap")
	}
	if (&Session{}).Overlaps(span(0, 10)) {
		t.Error("empty session should not overlap anything")
	}
}
