package git

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	gogit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"

	shiperrors "github.com/sqve/shipit/internal/errors"
	"github.com/sqve/shipit/internal/logger"
)

// ErrNoCommits is returned when HEAD does not point at a commit yet.
var ErrNoCommits = errors.New("repository has no commits")

// Repository is a working-tree checkout. Reads go through go-git; anything
// that mutates history or talks to a remote runs the git binary so that the
// operator's hooks, signing and credential helpers apply.
type Repository struct {
	root      string
	repo      *gogit.Repository
	commander Commander
}

// Open finds the repository containing dir. It returns a NOT_A_REPOSITORY
// error when dir is not inside a working tree.
func Open(dir string, commander Commander) (*Repository, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, shiperrors.ErrFileSystem("resolve path", err)
	}

	repo, err := gogit.PlainOpenWithOptions(abs, &gogit.PlainOpenOptions{
		DetectDotGit:          true,
		EnableDotGitCommonDir: true,
	})
	if err != nil {
		if errors.Is(err, gogit.ErrRepositoryNotExists) {
			return nil, shiperrors.ErrNotARepository(abs)
		}
		return nil, shiperrors.ErrGitOperation("open", err).WithContext("path", abs)
	}

	wt, err := repo.Worktree()
	if err != nil {
		// Bare repositories have no working tree to deploy from.
		return nil, shiperrors.NewShipError(shiperrors.ErrCodeNotARepository, "not a working tree: "+abs, err).
			WithContext("path", abs)
	}

	if commander == nil {
		commander = DefaultCommander
	}

	logger.WithComponent("repository").Debug("opened repository", "root", wt.Filesystem.Root())

	return &Repository{
		root:      wt.Filesystem.Root(),
		repo:      repo,
		commander: commander,
	}, nil
}

// Root returns the top-level directory of the working tree.
func (r *Repository) Root() string {
	return r.root
}

// CurrentBranch returns the branch HEAD points at. Unborn branches are
// reported by name; a detached HEAD returns "HEAD".
func (r *Repository) CurrentBranch() (string, error) {
	ref, err := r.repo.Reference(plumbing.HEAD, false)
	if err != nil {
		return "", shiperrors.ErrGitOperation("read HEAD", err)
	}

	if ref.Type() == plumbing.SymbolicReference {
		return ref.Target().Short(), nil
	}

	return "HEAD", nil
}

// RemoteURL returns the first configured URL of the named remote.
func (r *Repository) RemoteURL(name string) (string, error) {
	remote, err := r.repo.Remote(name)
	if err != nil {
		if errors.Is(err, gogit.ErrRemoteNotFound) {
			return "", fmt.Errorf("remote %q is not configured", name)
		}
		return "", shiperrors.ErrGitOperation("read remote", err)
	}

	urls := remote.Config().URLs
	if len(urls) == 0 {
		return "", fmt.Errorf("remote %q has no URL", name)
	}

	return urls[0], nil
}

// HeadSummary describes the commit HEAD points at.
func (r *Repository) HeadSummary() (CommitSummary, error) {
	head, err := r.repo.Head()
	if err != nil {
		if errors.Is(err, plumbing.ErrReferenceNotFound) {
			return CommitSummary{}, ErrNoCommits
		}
		return CommitSummary{}, shiperrors.ErrGitOperation("read HEAD", err)
	}

	commit, err := r.repo.CommitObject(head.Hash())
	if err != nil {
		return CommitSummary{}, shiperrors.ErrGitOperation("read commit", err)
	}

	return CommitSummary{
		Hash:    commit.Hash.String(),
		Subject: subjectLine(commit.Message),
		Author:  commit.Author.Name,
		When:    commit.Author.When,
	}, nil
}

// Status returns the porcelain status of the working tree.
func (r *Repository) Status(ctx context.Context) (ChangeCounts, error) {
	stdout, _, err := r.commander.Run(ctx, r.root, "status", "--porcelain")
	if err != nil {
		return ChangeCounts{}, shiperrors.ErrGitOperation("status", err)
	}
	return ParsePorcelain(string(stdout)), nil
}

// HasChanges reports whether the working tree has uncommitted modifications,
// including untracked files.
func (r *Repository) HasChanges(ctx context.Context) (bool, error) {
	counts, err := r.Status(ctx)
	if err != nil {
		return false, err
	}
	return counts.HasChanges(), nil
}

// StageAll stages every modification, addition and deletion.
func (r *Repository) StageAll(ctx context.Context) error {
	if _, _, err := r.commander.Run(ctx, r.root, "add", "-A"); err != nil {
		return shiperrors.ErrGitOperation("add", err)
	}
	return nil
}

// Commit records the staged changes with message.
func (r *Repository) Commit(ctx context.Context, message string) error {
	if strings.TrimSpace(message) == "" {
		return errors.New("commit message cannot be empty")
	}
	if _, _, err := r.commander.Run(ctx, r.root, "commit", "-m", message); err != nil {
		return shiperrors.ErrGitOperation("commit", err)
	}
	return nil
}

// Push sends branch to target in a single attempt.
func (r *Repository) Push(ctx context.Context, target PushTarget, branch string) error {
	if _, _, err := r.commander.Run(ctx, r.root, "push", target.Arg(), branch); err != nil {
		return shiperrors.ErrPushFailed(target.String(), err)
	}
	return nil
}

// Exec streams an arbitrary git command in the repository root.
func (r *Repository) Exec(ctx context.Context, stdout, stderr io.Writer, args ...string) error {
	return r.commander.Stream(ctx, r.root, stdout, stderr, args...)
}
