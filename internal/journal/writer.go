// Package journal renders correlated commit context into daily markdown
// files and maintains a small yaml index of written entries. Narrative text
// itself is produced outside this module and passed in.
package journal

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/wiggitywhitney/commit-story-sub002/pkg/models"
)

// Entry is one journal section to append: the filtered context plus the
// externally generated narrative.
type Entry struct {
	Context   *models.FilteredContext
	Narrative string
}

// IndexEntry is one row of the journal's yaml index sidecar.
type IndexEntry struct {
	Hash        string    `yaml:"hash"`
	Time        time.Time `yaml:"time"`
	File        string    `yaml:"file"`
	RecordCount int       `yaml:"record_count"`
	Tier        int       `yaml:"tier"`
}

// index is the full sidecar document.
type index struct {
	Entries []IndexEntry `yaml:"entries"`
}

// Writer appends journal entries under a repository's journal directory.
type Writer interface {
	Write(entry Entry) (string, error)
}

// markdownWriter implements Writer with one markdown file per day, grouped in
// month directories.
type markdownWriter struct {
	journalDir string
}

// NewWriter creates a Writer rooted at journalDir (absolute, typically
// <repo>/journal).
func NewWriter(journalDir string) Writer {
	return &markdownWriter{journalDir: journalDir}
}

// Write appends the entry to its daily file and records it in the index.
// It returns the path of the file written.
func (w *markdownWriter) Write(entry Entry) (string, error) {
	if entry.Context == nil {
		return "", fmt.Errorf("journal entry has no context")
	}

	ts := entry.Context.Commit.Timestamp
	dir := filepath.Join(w.journalDir, "entries", ts.Format("2006-01"))
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("creating journal directory %s: %w", dir, err)
	}

	path := filepath.Join(dir, ts.Format("2006-01-02")+".md")
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return "", fmt.Errorf("opening journal file %s: %w", path, err)
	}
	defer func() { _ = f.Close() }()

	if _, err := f.WriteString(renderEntry(entry)); err != nil {
		return "", fmt.Errorf("writing journal entry: %w", err)
	}

	if err := w.appendIndex(entry, path); err != nil {
		return "", err
	}
	return path, nil
}

// renderEntry formats one markdown section for the entry. A run that found
// no session context still gets a section; silence would read as data loss.
func renderEntry(entry Entry) string {
	c := entry.Context.Commit
	m := entry.Context.Metrics

	var b strings.Builder
	fmt.Fprintf(&b, "\n## %s — Commit %s\n\n", c.Timestamp.Format("3:04:05 PM MST"), c.ShortHash())

	body := strings.TrimSpace(entry.Narrative)
	if body == "" {
		body = strings.TrimSpace(c.Message)
	}
	b.WriteString(body)
	b.WriteString("\n")

	if m.Ambiguous {
		b.WriteString("\n> Multiple concurrent sessions overlapped this commit; all are included.\n")
	}
	if m.OverBudget {
		b.WriteString("\n> Context exceeded the token budget even after maximal reduction.\n")
	}
	return b.String()
}

// appendIndex loads, extends, and rewrites the yaml index sidecar.
func (w *markdownWriter) appendIndex(entry Entry, file string) error {
	indexPath := filepath.Join(w.journalDir, "index.yaml")

	var idx index
	data, err := os.ReadFile(indexPath)
	if err == nil {
		if err := yaml.Unmarshal(data, &idx); err != nil {
			return fmt.Errorf("parsing journal index: %w", err)
		}
	} else if !os.IsNotExist(err) {
		return fmt.Errorf("reading journal index: %w", err)
	}

	idx.Entries = append(idx.Entries, IndexEntry{
		Hash:        entry.Context.Commit.Hash,
		Time:        entry.Context.Commit.Timestamp,
		File:        file,
		RecordCount: len(entry.Context.Records),
		Tier:        int(entry.Context.Metrics.ReductionTier),
	})

	out, err := yaml.Marshal(&idx)
	if err != nil {
		return fmt.Errorf("marshalling journal index: %w", err)
	}
	if err := os.WriteFile(indexPath, out, 0o644); err != nil {
		return fmt.Errorf("writing journal index: %w", err)
	}
	return nil
}
