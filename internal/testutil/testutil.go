package testutil

import (
	"os"
	"os/exec"
	"path/filepath"
	"testing"
)

// TempDir returns a temp directory with symlinks resolved.
// On macOS, /var symlinks to /private/var which causes path mismatches
// when comparing with git output.
func TempDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	resolved, err := filepath.EvalSymlinks(dir)
	if err != nil {
		t.Fatalf("failed to resolve symlinks: %v", err)
	}
	return resolved
}

// WriteFile writes content to path, creating parent dirs. Fails test on error.
func WriteFile(t *testing.T, path, content string) {
	t.Helper()
	WriteFileMode(t, path, content, 0o644)
}

// WriteFileMode writes content with specific permissions.
func WriteFileMode(t *testing.T, path, content string, perm os.FileMode) {
	t.Helper()
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("failed to create directory %s: %v", dir, err)
	}
	if err := os.WriteFile(path, []byte(content), perm); err != nil {
		t.Fatalf("failed to write file %s: %v", path, err)
	}
}

// MustExec runs a command in dir, fails on error, returns stdout.
func MustExec(t *testing.T, dir, name string, args ...string) string {
	t.Helper()
	cmd := exec.Command(name, args...) // nolint:gosec
	cmd.Dir = dir
	out, err := cmd.Output()
	if err != nil {
		stderr := ""
		if exitErr, ok := err.(*exec.ExitError); ok {
			stderr = string(exitErr.Stderr)
		}
		t.Fatalf("%s %v failed: %v\n%s", name, args, err, stderr)
	}
	return string(out)
}

// InTempDir changes into a fresh temp directory for the rest of the test.
// Not safe for use with t.Parallel() as it changes process cwd.
func InTempDir(t *testing.T) string {
	t.Helper()
	dir := TempDir(t)
	t.Chdir(dir)
	return dir
}

// RequireGit skips the test when the git binary is unavailable.
func RequireGit(t *testing.T) {
	t.Helper()
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git not available in PATH")
	}
}
