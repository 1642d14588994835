// Package integration wraps the external tools the correlation engine talks
// to: the git CLI for commit data and the git hooks directory for installing
// the post-commit trigger.
package integration

import (
	"bytes"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"github.com/wiggitywhitney/commit-story-sub002/pkg/models"
)

// metaFormat is the machine-readable pretty format used to read commit
// metadata in one invocation: hash, author name, author email, strict ISO
// author date, and the full message, separated by the ASCII unit separator.
const metaFormat = "%H%x1f%an%x1f%ae%x1f%aI%x1f%B"

// CommitReader reads commit metadata and diffs from a git repository.
// A ref that does not resolve is a configuration error and is returned as-is;
// there is no retry policy.
type CommitReader interface {
	// ReadCommit resolves ref in the repository at repoPath and returns its
	// metadata and full diff.
	ReadCommit(repoPath, ref string) (*models.Commit, error)
	// ReadPreviousCommit returns the first parent of ref, or nil (without
	// error) when ref is the repository's root commit.
	ReadPreviousCommit(repoPath, ref string) (*models.Commit, error)
}

// gitCommitReader implements CommitReader using the git CLI.
type gitCommitReader struct{}

// NewCommitReader creates a CommitReader backed by the git CLI.
func NewCommitReader() CommitReader {
	return &gitCommitReader{}
}

// runGit executes a git command against the repository and returns its
// captured stdout. A non-zero exit wraps the trailing stderr line.
func runGit(repoPath string, args ...string) (string, error) {
	full := append([]string{"-C", repoPath}, args...)
	cmd := exec.Command("git", full...)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		msg := strings.TrimSpace(stderr.String())
		if msg == "" {
			msg = err.Error()
		}
		return "", fmt.Errorf("git %s: %s", strings.Join(args, " "), msg)
	}
	return stdout.String(), nil
}

// RepoRoot returns the absolute top-level directory of the repository
// containing path. Transcript working directories are matched against this
// canonical form.
func RepoRoot(path string) (string, error) {
	out, err := runGit(path, "rev-parse", "--show-toplevel")
	if err != nil {
		return "", fmt.Errorf("resolving repository root for %s: %w", path, err)
	}
	return strings.TrimSpace(out), nil
}

// ReadCommit reads metadata and the full patch for ref.
func (r *gitCommitReader) ReadCommit(repoPath, ref string) (*models.Commit, error) {
	root, err := RepoRoot(repoPath)
	if err != nil {
		return nil, err
	}

	commit, err := readCommitMeta(root, ref)
	if err != nil {
		return nil, err
	}

	diff, err := runGit(root, "show", "--patch", "--format=", ref)
	if err != nil {
		return nil, fmt.Errorf("reading diff for %s: %w", ref, err)
	}
	commit.Diff = diff

	return commit, nil
}

// ReadPreviousCommit reads the first parent of ref. A root commit has no
// parent; that case returns (nil, nil) so the caller can fall back to the
// fixed-span window.
func (r *gitCommitReader) ReadPreviousCommit(repoPath, ref string) (*models.Commit, error) {
	root, err := RepoRoot(repoPath)
	if err != nil {
		return nil, err
	}

	parent := ref + "^"
	if _, err := runGit(root, "rev-parse", "--verify", "--quiet", parent+"^{commit}"); err != nil {
		// ref itself resolved earlier in the run, so a missing parent
		// means ref is the root commit.
		return nil, nil
	}

	return readCommitMeta(root, parent)
}

// readCommitMeta runs the metadata query and parses the delimited output.
func readCommitMeta(root, ref string) (*models.Commit, error) {
	out, err := runGit(root, "show", "--no-patch", "--format="+metaFormat, ref)
	if err != nil {
		return nil, fmt.Errorf("resolving commit %s: %w", ref, err)
	}

	parts := strings.SplitN(out, "\x1f", 5)
	if len(parts) != 5 {
		return nil, fmt.Errorf("unexpected git show output for %s", ref)
	}

	ts, err := time.Parse(time.RFC3339, strings.TrimSpace(parts[3]))
	if err != nil {
		return nil, fmt.Errorf("parsing commit timestamp %q: %w", parts[3], err)
	}

	return &models.Commit{
		Hash:        strings.TrimSpace(parts[0]),
		Ref:         ref,
		AuthorName:  parts[1],
		AuthorEmail: parts[2],
		Timestamp:   ts,
		Message:     strings.TrimSpace(parts[4]),
		RepoPath:    root,
	}, nil
}
