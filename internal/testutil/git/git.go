package git

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/sqve/shipit/internal/testutil"
)

// TestRepo provides a test git repository with proper configuration
type TestRepo struct {
	t    *testing.T
	Dir  string
	Path string
}

// NewTestRepo creates a new test repository with git config set up and an
// initial commit. Pass an optional branch name (default "main").
func NewTestRepo(t *testing.T, branchName ...string) *TestRepo {
	t.Helper()
	testutil.RequireGit(t)

	dir := testutil.TempDir(t)
	repoPath := filepath.Join(dir, "repo")

	if err := os.MkdirAll(repoPath, 0o755); err != nil {
		t.Fatalf("Failed to create repo dir: %v", err)
	}

	branch := "main"
	if len(branchName) > 0 && branchName[0] != "" {
		branch = branchName[0]
	}

	r := &TestRepo{t: t, Dir: dir, Path: repoPath}
	r.Git("init", "-b", branch)

	for _, cfg := range [][]string{
		{"commit.gpgsign", "false"},
		{"user.email", "test@example.com"},
		{"user.name", "Test User"},
	} {
		r.Git("config", cfg[0], cfg[1])
	}

	r.WriteFile("test.txt", "test")
	r.Git("add", ".")
	r.Git("commit", "-m", "initial")

	return r
}

// Git runs a git command in the repository and returns trimmed stdout.
func (r *TestRepo) Git(args ...string) string {
	r.t.Helper()
	return strings.TrimSpace(testutil.MustExec(r.t, r.Path, "git", args...))
}

// AddBareRemote creates a bare repository next to the checkout, registers it
// as remote name and pushes the current branch to it. Returns the bare path.
func (r *TestRepo) AddBareRemote(name string) string {
	r.t.Helper()

	barePath := filepath.Join(r.Dir, name+".git")
	testutil.MustExec(r.t, r.Dir, "git", "init", "--bare", barePath)
	r.Git("remote", "add", name, barePath)
	r.Git("push", name, r.CurrentBranch())

	return barePath
}

// AddRemote adds a remote to the repository
func (r *TestRepo) AddRemote(name, url string) {
	r.t.Helper()
	r.Git("remote", "add", name, url)
}

// CreateBranch creates and checks out a new branch at the current HEAD
func (r *TestRepo) CreateBranch(name string) {
	r.t.Helper()
	r.Git("checkout", "-b", name)
}

// WriteFile writes content to a file in the repository
func (r *TestRepo) WriteFile(name, content string) {
	r.t.Helper()
	testutil.WriteFile(r.t, filepath.Join(r.Path, name), content)
}

// Commit stages everything and creates a commit with the given message
func (r *TestRepo) Commit(message string) {
	r.t.Helper()
	r.Git("add", "-A")
	r.Git("commit", "-m", message)
}

// CurrentBranch returns the checked out branch
func (r *TestRepo) CurrentBranch() string {
	r.t.Helper()
	return r.Git("rev-parse", "--abbrev-ref", "HEAD")
}

// HeadHash returns the full hash of HEAD
func (r *TestRepo) HeadHash() string {
	r.t.Helper()
	return r.Git("rev-parse", "HEAD")
}

// LastMessage returns the subject of the HEAD commit
func (r *TestRepo) LastMessage() string {
	r.t.Helper()
	return r.Git("log", "-1", "--format=%s")
}

// CommitCount returns the number of commits reachable from HEAD
func (r *TestRepo) CommitCount() int {
	r.t.Helper()
	n, err := strconv.Atoi(r.Git("rev-list", "--count", "HEAD"))
	if err != nil {
		r.t.Fatalf("Failed to count commits: %v", err)
	}
	return n
}

// RemoteHash returns the hash of branch in the bare repository at barePath
func (r *TestRepo) RemoteHash(barePath, branch string) string {
	r.t.Helper()
	return strings.TrimSpace(testutil.MustExec(r.t, barePath, "git", "rev-parse", branch))
}
