package git

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	shiperrors "github.com/sqve/shipit/internal/errors"
	"github.com/sqve/shipit/internal/testutil"
	testgit "github.com/sqve/shipit/internal/testutil/git"
)

func TestOpen_NotARepository(t *testing.T) {
	dir := testutil.TempDir(t)

	_, err := Open(dir, nil)
	require.Error(t, err)
	assert.True(t, shiperrors.IsShipError(err, shiperrors.ErrCodeNotARepository))
}

func TestOpen_FromSubdirectory(t *testing.T) {
	repo := testgit.NewTestRepo(t)
	repo.WriteFile("pkg/module.py", "x = 1\n")

	r, err := Open(filepath.Join(repo.Path, "pkg"), nil)
	require.NoError(t, err)
	assert.Equal(t, repo.Path, r.Root())
}

func TestRepository_CurrentBranch(t *testing.T) {
	repo := testgit.NewTestRepo(t, "trunk")
	repo.CreateBranch("feature/x")

	r, err := Open(repo.Path, nil)
	require.NoError(t, err)

	branch, err := r.CurrentBranch()
	require.NoError(t, err)
	assert.Equal(t, "feature/x", branch)
}

func TestRepository_CurrentBranch_Detached(t *testing.T) {
	repo := testgit.NewTestRepo(t)
	repo.Git("checkout", "--detach")

	r, err := Open(repo.Path, nil)
	require.NoError(t, err)

	branch, err := r.CurrentBranch()
	require.NoError(t, err)
	assert.Equal(t, "HEAD", branch)
}

func TestRepository_RemoteURL(t *testing.T) {
	repo := testgit.NewTestRepo(t)
	repo.AddRemote("origin", "git@github.com:owner/repo.git")

	r, err := Open(repo.Path, nil)
	require.NoError(t, err)

	url, err := r.RemoteURL("origin")
	require.NoError(t, err)
	assert.Equal(t, "git@github.com:owner/repo.git", url)

	_, err = r.RemoteURL("upstream")
	assert.Error(t, err)
}

func TestRepository_HeadSummary(t *testing.T) {
	repo := testgit.NewTestRepo(t)
	repo.WriteFile("app.py", "print('hi')\n")
	repo.Commit("Add app\n\nWith a body")

	r, err := Open(repo.Path, nil)
	require.NoError(t, err)

	summary, err := r.HeadSummary()
	require.NoError(t, err)
	assert.Equal(t, repo.HeadHash(), summary.Hash)
	assert.Equal(t, "Add app", summary.Subject)
	assert.Equal(t, "Test User", summary.Author)
}

func TestRepository_CommitFlow(t *testing.T) {
	repo := testgit.NewTestRepo(t)
	ctx := context.Background()

	r, err := Open(repo.Path, nil)
	require.NoError(t, err)

	dirty, err := r.HasChanges(ctx)
	require.NoError(t, err)
	assert.False(t, dirty)

	repo.WriteFile("new.py", "x = 1\n")
	repo.WriteFile("test.txt", "changed")

	counts, err := r.Status(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, counts.Total())
	assert.Equal(t, 1, counts.Untracked)

	require.NoError(t, r.StageAll(ctx))
	require.NoError(t, r.Commit(ctx, "ship it"))

	assert.Equal(t, 2, repo.CommitCount())
	assert.Equal(t, "ship it", repo.LastMessage())

	dirty, err = r.HasChanges(ctx)
	require.NoError(t, err)
	assert.False(t, dirty)
}

func TestRepository_CommitRejectsEmptyMessage(t *testing.T) {
	repo := testgit.NewTestRepo(t)

	r, err := Open(repo.Path, nil)
	require.NoError(t, err)

	assert.Error(t, r.Commit(context.Background(), "  "))
}

func TestRepository_PushToRemoteAlias(t *testing.T) {
	repo := testgit.NewTestRepo(t)
	bare := repo.AddBareRemote("origin")
	repo.WriteFile("app.py", "print('v2')\n")
	repo.Commit("v2")

	r, err := Open(repo.Path, nil)
	require.NoError(t, err)

	target, err := ResolvePushTarget("origin", "", "")
	require.NoError(t, err)
	require.NoError(t, r.Push(context.Background(), target, "main"))

	assert.Equal(t, repo.HeadHash(), repo.RemoteHash(bare, "main"))
}

func TestRepository_PushFailure(t *testing.T) {
	repo := testgit.NewTestRepo(t)

	r, err := Open(repo.Path, nil)
	require.NoError(t, err)

	err = r.Push(context.Background(), PushTarget{Remote: "missing"}, "main")
	require.Error(t, err)
	assert.True(t, shiperrors.IsShipError(err, shiperrors.ErrCodePushFailed))
}

func TestRepository_PushUsesTokenURL(t *testing.T) {
	repo := testgit.NewTestRepo(t)
	m := new(mockCommander)
	m.On("Run", repo.Path, "push", "https://tok@github.com/o/r.git", "main").
		Return([]byte(nil), []byte(nil), errors.New("denied"))

	r, err := Open(repo.Path, m)
	require.NoError(t, err)

	target, err := ResolvePushTarget("origin", "https://github.com/o/r.git", "tok")
	require.NoError(t, err)

	err = r.Push(context.Background(), target, "main")
	require.Error(t, err)
	assert.NotContains(t, err.Error(), "tok@")
	m.AssertExpectations(t)
}

func TestRepository_ExecStreams(t *testing.T) {
	repo := testgit.NewTestRepo(t)
	m := new(mockCommander)
	m.On("Stream", repo.Path, "status").Return(nil)

	r, err := Open(repo.Path, m)
	require.NoError(t, err)

	require.NoError(t, r.Exec(context.Background(), nil, nil, "status"))
	m.AssertExpectations(t)
	m.AssertNotCalled(t, "Run", mock.Anything)
}
