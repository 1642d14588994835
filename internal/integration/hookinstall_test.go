package integration

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func readHook(t *testing.T, dir string) string {
	t.Helper()
	data, err := os.ReadFile(filepath.Join(dir, ".git", "hooks", "post-commit"))
	if err != nil {
		t.Fatalf("reading hook: %v", err)
	}
	return string(data)
}

func TestInstallWritesManagedBlock(t *testing.T) {
	dir := gitInit(t)
	installer := NewHookInstaller()

	if err := installer.Install(dir); err != nil {
		t.Fatalf("install: %v", err)
	}

	content := readHook(t, dir)
	if !strings.HasPrefix(content, "#!/bin/sh") {
		t.Errorf("hook missing shebang:\n%s", content)
	}
	if !strings.Contains(content, "commit-story run") {
		t.Errorf("hook missing run command:\n%s", content)
	}
	if !strings.Contains(content, "&") {
		t.Error("hook must background the run so commits are never delayed")
	}

	installed, err := installer.Installed(dir)
	if err != nil || !installed {
		t.Errorf("Installed = %v, %v; want true, nil", installed, err)
	}

	info, err := os.Stat(filepath.Join(dir, ".git", "hooks", "post-commit"))
	if err != nil {
		t.Fatal(err)
	}
	if info.Mode()&0o100 == 0 {
		t.Error("hook is not executable")
	}
}

func TestInstallIsIdempotent(t *testing.T) {
	dir := gitInit(t)
	installer := NewHookInstaller()

	if err := installer.Install(dir); err != nil {
		t.Fatal(err)
	}
	first := readHook(t, dir)
	if err := installer.Install(dir); err != nil {
		t.Fatal(err)
	}
	second := readHook(t, dir)

	if first != second {
		t.Errorf("second install changed the hook:\n%s\nvs\n%s", first, second)
	}
	if strings.Count(second, "commit-story run") != 1 {
		t.Error("managed block duplicated")
	}
}

func TestInstallPreservesExistingHook(t *testing.T) {
	dir := gitInit(t)
	hookDir := filepath.Join(dir, ".git", "hooks")
	if err := os.MkdirAll(hookDir, 0o755); err != nil {
		t.Fatal(err)
	}
	existing := "#!/bin/sh\necho custom step\n"
	if err := os.WriteFile(filepath.Join(hookDir, "post-commit"), []byte(existing), 0o755); err != nil {
		t.Fatal(err)
	}

	installer := NewHookInstaller()
	if err := installer.Install(dir); err != nil {
		t.Fatal(err)
	}

	content := readHook(t, dir)
	if !strings.Contains(content, "echo custom step") {
		t.Error("existing hook content lost on install")
	}

	if err := installer.Uninstall(dir); err != nil {
		t.Fatal(err)
	}
	content = readHook(t, dir)
	if strings.Contains(content, "commit-story") {
		t.Error("managed block survived uninstall")
	}
	if !strings.Contains(content, "echo custom step") {
		t.Error("existing hook content lost on uninstall")
	}
}

func TestUninstallRemovesBareHook(t *testing.T) {
	dir := gitInit(t)
	installer := NewHookInstaller()

	if err := installer.Install(dir); err != nil {
		t.Fatal(err)
	}
	if err := installer.Uninstall(dir); err != nil {
		t.Fatal(err)
	}

	if _, err := os.Stat(filepath.Join(dir, ".git", "hooks", "post-commit")); !os.IsNotExist(err) {
		t.Error("hook file should be removed when only our block remained")
	}

	// Uninstalling again is a no-op.
	if err := installer.Uninstall(dir); err != nil {
		t.Errorf("second uninstall: %v", err)
	}
}
