package integration

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

const (
	hookBeginMarker = "# >>> commit-story hook >>>"
	hookEndMarker   = "# <<< commit-story hook <<<"
)

// hookBlock is the managed section written into post-commit. The run is
// backgrounded and its output discarded so the hook can never delay or fail
// the commit itself.
const hookBlock = hookBeginMarker + `
commit-story run >/dev/null 2>&1 &
` + hookEndMarker + "\n"

// HookInstaller manages the commit-story block inside a repository's
// post-commit hook. Existing hook content outside the managed block is always
// preserved.
type HookInstaller interface {
	Install(repoPath string) error
	Uninstall(repoPath string) error
	Installed(repoPath string) (bool, error)
}

// gitHookInstaller implements HookInstaller against .git/hooks.
type gitHookInstaller struct{}

// NewHookInstaller creates a HookInstaller.
func NewHookInstaller() HookInstaller {
	return &gitHookInstaller{}
}

// hookPath returns the post-commit hook path for the repository.
func hookPath(repoPath string) (string, error) {
	root, err := RepoRoot(repoPath)
	if err != nil {
		return "", err
	}
	return filepath.Join(root, ".git", "hooks", "post-commit"), nil
}

// Install writes or refreshes the managed block in post-commit. Installing
// twice is a no-op.
func (i *gitHookInstaller) Install(repoPath string) error {
	path, err := hookPath(repoPath)
	if err != nil {
		return err
	}

	existing, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("reading hook %s: %w", path, err)
	}

	content := stripManagedBlock(string(existing))
	if content == "" {
		content = "#!/bin/sh\n"
	}
	if !strings.HasSuffix(content, "\n") {
		content += "\n"
	}
	content += hookBlock

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating hooks directory: %w", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o755); err != nil { //nolint:gosec // hooks must be executable
		return fmt.Errorf("writing hook %s: %w", path, err)
	}
	return nil
}

// Uninstall removes the managed block, leaving the rest of the hook intact.
// A hook reduced to the bare shebang is removed entirely.
func (i *gitHookInstaller) Uninstall(repoPath string) error {
	path, err := hookPath(repoPath)
	if err != nil {
		return err
	}

	existing, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("reading hook %s: %w", path, err)
	}

	content := stripManagedBlock(string(existing))
	if strings.TrimSpace(content) == "" || strings.TrimSpace(content) == "#!/bin/sh" {
		if err := os.Remove(path); err != nil {
			return fmt.Errorf("removing hook %s: %w", path, err)
		}
		return nil
	}

	if err := os.WriteFile(path, []byte(content), 0o755); err != nil { //nolint:gosec
		return fmt.Errorf("writing hook %s: %w", path, err)
	}
	return nil
}

// Installed reports whether the managed block is present.
func (i *gitHookInstaller) Installed(repoPath string) (bool, error) {
	path, err := hookPath(repoPath)
	if err != nil {
		return false, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, fmt.Errorf("reading hook %s: %w", path, err)
	}
	return strings.Contains(string(data), hookBeginMarker), nil
}

// stripManagedBlock removes the commit-story block (inclusive of markers)
// from hook content.
func stripManagedBlock(content string) string {
	begin := strings.Index(content, hookBeginMarker)
	if begin < 0 {
		return content
	}
	end := strings.Index(content, hookEndMarker)
	if end < 0 {
		return content[:begin]
	}
	rest := content[end+len(hookEndMarker):]
	rest = strings.TrimPrefix(rest, "\n")
	return content[:begin] + rest
}
