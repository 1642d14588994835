package correlate

import (
	"fmt"
	"testing"
	"time"

	"github.com/wiggitywhitney/commit-story-sub002/pkg/models"
)

var base = time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)

// session builds a test session with one record per offset minute.
func session(id, resumedFrom string, offsets ...int) *models.Session {
	s := &models.Session{ID: id, ResumedFrom: resumedFrom}
	for i, off := range offsets {
		s.Records = append(s.Records, models.TranscriptRecord{
			SessionID: id,
			RecordID:  fmt.Sprintf("%s-r%d", id, i),
			Timestamp: base.Add(time.Duration(off) * time.Minute),
			Text:      "record",
		})
	}
	return s
}

func sessionsOf(ss ...*models.Session) map[string]*models.Session {
	m := make(map[string]*models.Session, len(ss))
	for _, s := range ss {
		m[s.ID] = s
	}
	return m
}

var testCommit = models.Commit{Hash: "abc", Timestamp: base.Add(2 * time.Hour)}

func TestResolveZeroSessions(t *testing.T) {
	records, ambiguous := NewResolver().Resolve(nil, testCommit)
	if len(records) != 0 {
		t.Errorf("records = %d, want 0", len(records))
	}
	if ambiguous {
		t.Error("empty input should not be ambiguous")
	}
}

func TestResolveSingleSessionFastPath(t *testing.T) {
	s := session("s1", "", 0, 5, 10)
	// Include a record that would be classified noise later; the resolver
	// must pass it through untouched.
	s.Records[1].IsInternal = true

	records, ambiguous := NewResolver().Resolve(sessionsOf(s), testCommit)
	if ambiguous {
		t.Error("single session should never be ambiguous")
	}
	if len(records) != len(s.Records) {
		t.Fatalf("records = %d, want %d", len(records), len(s.Records))
	}
	for i := range records {
		if records[i].RecordID != s.Records[i].RecordID {
			t.Errorf("record %d = %s, want %s", i, records[i].RecordID, s.Records[i].RecordID)
		}
	}
	if !records[1].IsInternal {
		t.Error("fast path must not filter records")
	}
}

func TestResolveDisjointSessionsConcatenated(t *testing.T) {
	sessions := sessionsOf(
		session("s-late", "", 40, 50),
		session("s-early", "", 0, 10),
		session("s-mid", "", 20, 30),
		session("s-last", "", 60, 70),
	)

	records, ambiguous := NewResolver().Resolve(sessions, testCommit)
	if ambiguous {
		t.Error("disjoint sessions should not be ambiguous")
	}
	if len(records) != 8 {
		t.Fatalf("records = %d, want 8", len(records))
	}
	for i := 1; i < len(records); i++ {
		if records[i].Timestamp.Before(records[i-1].Timestamp) {
			t.Fatalf("records out of order at %d", i)
		}
	}
	if records[0].SessionID != "s-early" || records[7].SessionID != "s-last" {
		t.Errorf("chronological concat broken: first=%s last=%s", records[0].SessionID, records[7].SessionID)
	}
}

func TestResolveConcurrentSessionsFlaggedAmbiguous(t *testing.T) {
	sessions := sessionsOf(
		session("s1", "", 0, 30),
		session("s2", "", 15, 45),
	)

	records, ambiguous := NewResolver().Resolve(sessions, testCommit)
	if !ambiguous {
		t.Error("overlapping sessions should be flagged ambiguous")
	}
	// Inclusion bias: nothing is dropped at this layer.
	if len(records) != 4 {
		t.Errorf("records = %d, want all 4", len(records))
	}
	for i := 1; i < len(records); i++ {
		if records[i].Timestamp.Before(records[i-1].Timestamp) {
			t.Fatalf("interleaved records out of order at %d", i)
		}
	}
}

func TestResolveContinuationMergedNotAmbiguous(t *testing.T) {
	// s2 resumes s1 and their ranges overlap; the resume marker makes them
	// one logical conversation, so no ambiguity.
	sessions := sessionsOf(
		session("s1", "", 0, 20),
		session("s2", "s1", 15, 40),
	)

	records, ambiguous := NewResolver().Resolve(sessions, testCommit)
	if ambiguous {
		t.Error("continuation chain should not be ambiguous")
	}
	if len(records) != 4 {
		t.Errorf("records = %d, want 4", len(records))
	}
}

func TestResolveContinuationChainAcrossThreeSessions(t *testing.T) {
	sessions := sessionsOf(
		session("s1", "", 0, 10),
		session("s2", "s1", 5, 20),
		session("s3", "s2", 15, 30),
		// A genuinely separate concurrent session keeps the result
		// ambiguous despite the merged chain.
		session("other", "", 8, 25),
	)

	records, ambiguous := NewResolver().Resolve(sessions, testCommit)
	if !ambiguous {
		t.Error("unrelated concurrent session should flag ambiguity")
	}
	if len(records) != 8 {
		t.Errorf("records = %d, want 8", len(records))
	}
}

func TestResolveContinuationOfOutOfWindowSession(t *testing.T) {
	// Both sessions resume a parent that itself is outside the window;
	// they share a chain root and merge without ambiguity.
	sessions := sessionsOf(
		session("s2", "s1", 0, 10),
		session("s3", "s1", 5, 20),
	)

	_, ambiguous := NewResolver().Resolve(sessions, testCommit)
	if ambiguous {
		t.Error("sessions sharing an out-of-window ancestor should merge")
	}
}
