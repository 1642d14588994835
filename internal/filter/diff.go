package filter

import (
	"fmt"
	"path"
	"strings"
)

// fileDiff is one per-file section of a unified git diff.
type fileDiff struct {
	path string
	body string
}

// splitDiff breaks a raw git diff into per-file sections. The file path is
// taken from the "b/" side of the "diff --git" header so renames carry their
// new name.
func splitDiff(diff string) []fileDiff {
	var files []fileDiff
	var current *fileDiff

	for _, line := range strings.SplitAfter(diff, "\n") {
		if strings.HasPrefix(line, "diff --git ") {
			if current != nil {
				files = append(files, *current)
			}
			current = &fileDiff{path: diffHeaderPath(line)}
		}
		if current != nil {
			current.body += line
		}
	}
	if current != nil {
		files = append(files, *current)
	}
	return files
}

// diffHeaderPath extracts the b-side path from a "diff --git a/x b/x" line.
func diffHeaderPath(header string) string {
	fields := strings.Fields(strings.TrimSpace(header))
	if len(fields) < 4 {
		return ""
	}
	return strings.TrimPrefix(fields[len(fields)-1], "b/")
}

// matchesAny reports whether p matches one of the gitignore-like patterns:
// an exact path, a glob against the full path, a glob against the base name,
// or a directory prefix for patterns ending in "/".
func matchesAny(p string, patterns []string) bool {
	for _, pattern := range patterns {
		if pattern == "" {
			continue
		}
		if strings.HasSuffix(pattern, "/") {
			if strings.HasPrefix(p, pattern) || strings.HasPrefix(p, strings.TrimPrefix(pattern, "/")) {
				return true
			}
			continue
		}
		if p == pattern {
			return true
		}
		if ok, err := path.Match(pattern, p); err == nil && ok {
			return true
		}
		if ok, err := path.Match(pattern, path.Base(p)); err == nil && ok {
			return true
		}
	}
	return false
}

// excludeDiffPaths drops per-file diff sections whose paths match an
// exclusion pattern. The commit message is never filtered by path; only the
// diff passes through here.
func excludeDiffPaths(diff string, patterns []string) string {
	if len(patterns) == 0 || diff == "" {
		return diff
	}
	var b strings.Builder
	for _, f := range splitDiff(diff) {
		if matchesAny(f.path, patterns) {
			continue
		}
		b.WriteString(f.body)
	}
	return b.String()
}

// truncateDiff keeps the first headLines lines of the diff and appends a
// per-file change summary for everything, so tier 1 loses hunk detail but
// not the shape of the change.
func truncateDiff(diff string, headLines int) string {
	lines := strings.Split(diff, "\n")
	if len(lines) <= headLines {
		return diff
	}

	var b strings.Builder
	b.WriteString(strings.Join(lines[:headLines], "\n"))
	b.WriteString("\n[diff truncated]\n")
	for _, f := range splitDiff(diff) {
		adds, dels := countChanges(f.body)
		fmt.Fprintf(&b, "%s | +%d -%d\n", f.path, adds, dels)
	}

	// Just past the threshold the summaries can outweigh the dropped tail;
	// truncation must never grow the payload.
	out := b.String()
	if len(out) >= len(diff) {
		return diff
	}
	return out
}

// countChanges counts added and removed lines in one file section, ignoring
// the +++/--- header lines.
func countChanges(body string) (adds, dels int) {
	for _, line := range strings.Split(body, "\n") {
		switch {
		case strings.HasPrefix(line, "+++"), strings.HasPrefix(line, "---"):
		case strings.HasPrefix(line, "+"):
			adds++
		case strings.HasPrefix(line, "-"):
			dels++
		}
	}
	return adds, dels
}
