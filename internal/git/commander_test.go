package git

import (
	"bytes"
	"context"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	shiperrors "github.com/sqve/shipit/internal/errors"
	testgit "github.com/sqve/shipit/internal/testutil/git"
)

type mockCommander struct {
	mock.Mock
}

func (m *mockCommander) Run(ctx context.Context, workDir string, args ...string) ([]byte, []byte, error) {
	called := m.Called(append([]interface{}{workDir}, toInterfaces(args)...)...)
	stdout, _ := called.Get(0).([]byte)
	stderr, _ := called.Get(1).([]byte)
	return stdout, stderr, called.Error(2)
}

func (m *mockCommander) Stream(ctx context.Context, workDir string, stdout, stderr io.Writer, args ...string) error {
	called := m.Called(append([]interface{}{workDir}, toInterfaces(args)...)...)
	return called.Error(0)
}

func toInterfaces(args []string) []interface{} {
	out := make([]interface{}, len(args))
	for i, a := range args {
		out[i] = a
	}
	return out
}

func TestLiveGitCommander_Run(t *testing.T) {
	repo := testgit.NewTestRepo(t)
	cmd := NewLiveGitCommander()

	stdout, _, err := cmd.Run(context.Background(), repo.Path, "rev-parse", "--abbrev-ref", "HEAD")
	require.NoError(t, err)
	assert.Equal(t, "main", strings.TrimSpace(string(stdout)))
}

func TestLiveGitCommander_RunFailure(t *testing.T) {
	repo := testgit.NewTestRepo(t)
	cmd := NewLiveGitCommander()

	_, stderr, err := cmd.Run(context.Background(), repo.Path, "checkout", "does-not-exist")
	require.Error(t, err)

	var gitErr *GitError
	require.ErrorAs(t, err, &gitErr)
	assert.Equal(t, "git", gitErr.Command)
	assert.NotZero(t, gitErr.ExitCode)
	assert.NotEmpty(t, stderr)
	assert.Contains(t, err.Error(), "checkout does-not-exist")
}

func TestLiveGitCommander_MissingBinary(t *testing.T) {
	cmd := &LiveGitCommander{Binary: "shipit-no-such-git-binary"}

	_, _, err := cmd.Run(context.Background(), t.TempDir(), "status")
	require.Error(t, err)
	assert.True(t, shiperrors.IsShipError(err, shiperrors.ErrCodeGitNotFound))
	assert.Equal(t, "shipit-no-such-git-binary", shiperrors.GetErrorContext(err)["binary"])

	err = cmd.Stream(context.Background(), t.TempDir(), io.Discard, io.Discard, "status")
	assert.True(t, shiperrors.IsShipError(err, shiperrors.ErrCodeGitNotFound))
}

func TestLiveGitCommander_Stream(t *testing.T) {
	repo := testgit.NewTestRepo(t)
	cmd := NewLiveGitCommander()

	var out bytes.Buffer
	err := cmd.Stream(context.Background(), repo.Path, &out, io.Discard, "log", "--oneline", "-n", "1")
	require.NoError(t, err)
	assert.Contains(t, out.String(), "initial")
}

func TestGitError_RedactsCredentials(t *testing.T) {
	err := &GitError{
		Command:  "git",
		Args:     []string{"push", "https://ghp_secret@github.com/o/r.git", "main"},
		Stderr:   "fatal: unable to access 'https://ghp_secret@github.com/o/r.git/'",
		ExitCode: 128,
	}

	msg := err.Error()
	assert.NotContains(t, msg, "ghp_secret")
	assert.Contains(t, msg, "***@github.com")
	assert.Contains(t, msg, "exit 128")
}
