package core

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"testing"
	"time"

	"github.com/wiggitywhitney/commit-story-sub002/internal/integration"
	"github.com/wiggitywhitney/commit-story-sub002/internal/transcript"
	"github.com/wiggitywhitney/commit-story-sub002/pkg/models"
)

func git(t *testing.T, dir string, args ...string) {
	t.Helper()
	cmd := exec.Command("git", append([]string{"-C", dir}, args...)...)
	cmd.Env = append(os.Environ(),
		"GIT_AUTHOR_NAME=Test Author",
		"GIT_AUTHOR_EMAIL=author@example.com",
		"GIT_COMMITTER_NAME=Test Author",
		"GIT_COMMITTER_EMAIL=author@example.com",
	)
	if out, err := cmd.CombinedOutput(); err != nil {
		t.Fatalf("git %v: %v\n%s", args, err, out)
	}
}

func initRepoWithCommit(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	git(t, dir, "init", "--quiet")
	if err := os.WriteFile(filepath.Join(dir, "main.go"), []byte("package main\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	git(t, dir, "add", ".")
	git(t, dir, "commit", "--quiet", "-m", "add entry point")
	return dir
}

// writeSessionFile drops a transcript with three in-window conversational
// records for the given repo root under the encoded storage directory.
func writeSessionFile(t *testing.T, storageRoot, repoRoot string, commitTime time.Time) {
	t.Helper()
	dir := filepath.Join(storageRoot, transcript.EncodeRepoPath(repoRoot))
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatal(err)
	}

	line := func(typ, sid, uid string, ts time.Time, content string) string {
		return fmt.Sprintf(`{"type":%q,"sessionId":%q,"uuid":%q,"cwd":%q,"timestamp":%q,"message":{"role":%q,"content":%q}}`,
			typ, sid, uid, repoRoot, ts.Format(time.RFC3339Nano), typ, content) + "\n"
	}

	content := line("user", "sess-1", "u1", commitTime.Add(-3*time.Minute), "please add a main entry point") +
		line("assistant", "sess-1", "a1", commitTime.Add(-2*time.Minute), "Writing main.go with a minimal package main.") +
		line("user", "sess-1", "u2", commitTime.Add(-48*time.Hour), "this one is long before the window")

	path := filepath.Join(dir, "sess-1.jsonl")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestCorrelateEndToEnd(t *testing.T) {
	repo := initRepoWithCommit(t)

	root, err := integration.RepoRoot(repo)
	if err != nil {
		t.Fatal(err)
	}
	commit, err := integration.NewCommitReader().ReadCommit(repo, "HEAD")
	if err != nil {
		t.Fatal(err)
	}

	storageRoot := t.TempDir()
	writeSessionFile(t, storageRoot, root, commit.Timestamp)

	engine := NewEngine(storageRoot, nil)
	fc, err := engine.Correlate(repo, "HEAD", models.DefaultEngineConfig())
	if err != nil {
		t.Fatalf("correlate: %v", err)
	}

	if fc.Commit.Hash != commit.Hash {
		t.Errorf("Hash = %s, want %s", fc.Commit.Hash, commit.Hash)
	}
	if len(fc.Records) != 2 {
		t.Fatalf("records = %d, want the 2 in-window records", len(fc.Records))
	}
	if fc.Records[0].RecordID != "u1" || fc.Records[1].RecordID != "a1" {
		t.Errorf("record order = %s, %s", fc.Records[0].RecordID, fc.Records[1].RecordID)
	}
	if fc.Metrics.SessionCount != 1 {
		t.Errorf("SessionCount = %d, want 1", fc.Metrics.SessionCount)
	}
	if fc.Metrics.RunID == "" {
		t.Error("RunID not set")
	}
	if fc.Metrics.Ambiguous {
		t.Error("single session flagged ambiguous")
	}
	if fc.Metrics.ReductionTier != models.TierNone {
		t.Errorf("ReductionTier = %d, want none", fc.Metrics.ReductionTier)
	}
}

func TestCorrelateNoTranscriptsYieldsEmptyContext(t *testing.T) {
	repo := initRepoWithCommit(t)

	engine := NewEngine(t.TempDir(), nil)
	fc, err := engine.Correlate(repo, "HEAD", models.DefaultEngineConfig())
	if err != nil {
		t.Fatalf("correlate: %v", err)
	}
	if len(fc.Records) != 0 {
		t.Errorf("records = %d, want 0", len(fc.Records))
	}
	if fc.Metrics.SessionCount != 0 {
		t.Errorf("SessionCount = %d, want 0", fc.Metrics.SessionCount)
	}
	if fc.Commit.Message != "add entry point" {
		t.Errorf("Message = %q", fc.Commit.Message)
	}
}

func TestCorrelateBadRefFails(t *testing.T) {
	repo := initRepoWithCommit(t)
	if _, err := NewEngine(t.TempDir(), nil).Correlate(repo, "no-such-ref", models.DefaultEngineConfig()); err == nil {
		t.Fatal("expected error for unresolvable ref")
	}
}
