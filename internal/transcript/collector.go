// Package transcript discovers and parses the JSONL session transcripts an
// AI coding assistant writes per repository, returning the records that fall
// inside a correlation window.
package transcript

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/wiggitywhitney/commit-story-sub002/pkg/models"
)

// CollectStats counts what a collection pass saw. Parse failures are
// recoverable by design: they are counted here, never raised.
type CollectStats struct {
	FilesScanned   int
	FilesSkipped   int
	MalformedLines int
}

// Collector finds every transcript record for a repository whose timestamp
// falls inside a correlation window, grouped by session.
type Collector interface {
	Collect(repoPath string, window models.CorrelationWindow) (map[string]*models.Session, CollectStats, error)
}

// collector implements Collector against a transcript storage root on disk.
type collector struct {
	storageRoot string
}

// NewCollector creates a Collector reading transcripts under storageRoot.
// Production callers pass DefaultStorageRoot(); tests point it at a temp dir.
func NewCollector(storageRoot string) Collector {
	return &collector{storageRoot: storageRoot}
}

// DefaultStorageRoot returns the assistant tool's per-repository transcript
// directory root, ~/.claude/projects.
func DefaultStorageRoot() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolving home directory: %w", err)
	}
	return filepath.Join(home, ".claude", "projects"), nil
}

// EncodeRepoPath derives the transcript directory name for a repository: every
// rune of the absolute path that is not a letter or digit becomes a hyphen.
func EncodeRepoPath(repoPath string) string {
	var b strings.Builder
	b.Grow(len(repoPath))
	for _, r := range repoPath {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			b.WriteRune(r)
		default:
			b.WriteRune('-')
		}
	}
	return b.String()
}

// Collect enumerates the repository's transcript files, parses the plausible
// ones, and returns in-window records grouped by session id.
//
// A missing transcript directory is a valid, common state (the assistant was
// never used in this repository) and yields an empty map, not an error.
// Output is deterministic for a fixed filesystem state and window.
func (c *collector) Collect(repoPath string, window models.CorrelationWindow) (map[string]*models.Session, CollectStats, error) {
	var stats CollectStats

	dir := filepath.Join(c.storageRoot, EncodeRepoPath(repoPath))
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return map[string]*models.Session{}, stats, nil
		}
		return nil, stats, fmt.Errorf("reading transcript directory %s: %w", dir, err)
	}

	sessions := make(map[string]*models.Session)

	for _, entry := range entries {
		// Only top-level .jsonl files; subdirectories hold subagent
		// transcripts that never describe this repository's commits.
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".jsonl") {
			continue
		}

		info, err := entry.Info()
		if err != nil {
			stats.FilesSkipped++
			continue
		}
		// A file last modified before the window opened cannot contain
		// in-window records; skip it without opening.
		if info.ModTime().Before(window.Start) {
			stats.FilesSkipped++
			continue
		}

		path := filepath.Join(dir, entry.Name())
		records, malformed, err := parseFile(path)
		if err != nil {
			// Unreadable files are recoverable: count and move on.
			stats.FilesSkipped++
			continue
		}
		stats.FilesScanned++
		stats.MalformedLines += malformed

		for _, rec := range records {
			if rec.WorkingDirectory != repoPath {
				continue
			}
			if !window.Contains(rec.Timestamp) {
				continue
			}
			s, ok := sessions[rec.SessionID]
			if !ok {
				s = &models.Session{ID: rec.SessionID}
				sessions[rec.SessionID] = s
			}
			s.Records = append(s.Records, rec)
			if rec.ResumedFrom != "" && s.ResumedFrom == "" {
				s.ResumedFrom = rec.ResumedFrom
			}
		}
	}

	for _, s := range sessions {
		sortRecords(s.Records)
	}

	return sessions, stats, nil
}

// sortRecords orders records by timestamp, tie-breaking on record id so the
// result is independent of file read order.
func sortRecords(records []models.TranscriptRecord) {
	sort.SliceStable(records, func(i, j int) bool {
		if !records[i].Timestamp.Equal(records[j].Timestamp) {
			return records[i].Timestamp.Before(records[j].Timestamp)
		}
		return records[i].RecordID < records[j].RecordID
	})
}
