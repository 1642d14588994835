// Package correlate decides which assistant sessions are authoritative for a
// commit when more than one overlaps the correlation window.
package correlate

import (
	"sort"

	"github.com/wiggitywhitney/commit-story-sub002/pkg/models"
)

// Resolver turns the collector's per-session grouping into one ordered record
// list. The commit is part of the contract so alternative resolvers can apply
// relevance selection against it; the default heuristic is purely temporal.
type Resolver interface {
	// Resolve returns the chronologically ordered records of the sessions
	// judged relevant to the commit, and whether the choice was ambiguous
	// (genuinely concurrent sessions that could not be told apart).
	Resolve(sessions map[string]*models.Session, commit models.Commit) ([]models.TranscriptRecord, bool)
}

// temporalResolver implements Resolver with the two-tier time heuristic:
// explicit continuations are merged, disjoint-time sessions are concatenated,
// and genuinely concurrent sessions are all included but flagged.
//
// The bias is deliberate: dropping a relevant session destroys narrative
// value, while an included unrelated session simply fails to connect to the
// diff downstream.
type temporalResolver struct{}

// NewResolver creates the default temporal Resolver.
func NewResolver() Resolver {
	return &temporalResolver{}
}

// Resolve applies the tiered heuristic described on the type.
func (r *temporalResolver) Resolve(sessions map[string]*models.Session, commit models.Commit) ([]models.TranscriptRecord, bool) {
	switch len(sessions) {
	case 0:
		return nil, false
	case 1:
		// Fast path: a single session is returned unfiltered; all
		// noise removal belongs to the filter stage. Sorting is a no-op
		// for the collector's already-ordered output.
		for _, s := range sessions {
			records := make([]models.TranscriptRecord, len(s.Records))
			copy(records, s.Records)
			sortRecords(records)
			return records, false
		}
	}

	groups := mergeContinuations(sessions)

	ambiguous := false
	for i := 0; i < len(groups) && !ambiguous; i++ {
		for j := i + 1; j < len(groups); j++ {
			if groups[i].Overlaps(groups[j]) {
				ambiguous = true
				break
			}
		}
	}

	var records []models.TranscriptRecord
	for _, g := range groups {
		records = append(records, g.Records...)
	}
	sortRecords(records)

	return records, ambiguous
}

// mergeContinuations collapses sessions linked by an explicit resume marker
// into single logical groups, each with its records re-sorted. Group order is
// fixed by start time (then id) so the result is deterministic.
func mergeContinuations(sessions map[string]*models.Session) []*models.Session {
	// rootOf follows ResumedFrom links to the oldest session of a chain.
	rootOf := func(id string) string {
		seen := map[string]bool{}
		for {
			s, ok := sessions[id]
			if !ok || s.ResumedFrom == "" || seen[id] {
				return id
			}
			if _, ok := sessions[s.ResumedFrom]; !ok {
				// The continued session is outside the window; the
				// marker still identifies the chain.
				return s.ResumedFrom
			}
			seen[id] = true
			id = s.ResumedFrom
		}
	}

	merged := make(map[string]*models.Session)
	for id, s := range sessions {
		root := rootOf(id)
		g, ok := merged[root]
		if !ok {
			g = &models.Session{ID: root}
			merged[root] = g
		}
		g.Records = append(g.Records, s.Records...)
	}

	groups := make([]*models.Session, 0, len(merged))
	for _, g := range merged {
		sortRecords(g.Records)
		groups = append(groups, g)
	}
	sort.Slice(groups, func(i, j int) bool {
		if !groups[i].StartTime().Equal(groups[j].StartTime()) {
			return groups[i].StartTime().Before(groups[j].StartTime())
		}
		return groups[i].ID < groups[j].ID
	})
	return groups
}

// sortRecords orders records by timestamp, then session id, then record id,
// so interleaving concurrent sessions stays deterministic.
func sortRecords(records []models.TranscriptRecord) {
	sort.SliceStable(records, func(i, j int) bool {
		a, b := records[i], records[j]
		if !a.Timestamp.Equal(b.Timestamp) {
			return a.Timestamp.Before(b.Timestamp)
		}
		if a.SessionID != b.SessionID {
			return a.SessionID < b.SessionID
		}
		return a.RecordID < b.RecordID
	})
}
