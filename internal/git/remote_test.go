package git

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuthenticatedURL(t *testing.T) {
	tests := []struct {
		name    string
		repoURL string
		want    string
	}{
		{"https", "https://github.com/owner/repo.git", "https://tok@github.com/owner/repo.git"},
		{"https with existing user", "https://olduser@github.com/owner/repo.git", "https://tok@github.com/owner/repo.git"},
		{"scp-like ssh", "git@github.com:owner/repo.git", "https://tok@github.com/owner/repo.git"},
		{"ssh scheme", "ssh://git@github.com/owner/repo.git", "https://tok@github.com/owner/repo.git"},
		{"ssh with port", "ssh://git@github.com:22/owner/repo.git", "https://tok@github.com/owner/repo.git"},
		{"trailing whitespace", "https://github.com/owner/repo.git\n", "https://tok@github.com/owner/repo.git"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := AuthenticatedURL(tt.repoURL, "tok")
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestAuthenticatedURL_Errors(t *testing.T) {
	for _, repoURL := range []string{"", "/local/path/repo.git", "file:///tmp/repo.git", "https:///nohost"} {
		_, err := AuthenticatedURL(repoURL, "tok")
		assert.ErrorIs(t, err, ErrUnsupportedRemoteURL, repoURL)
	}

	_, err := AuthenticatedURL("https://github.com/o/r.git", "")
	assert.Error(t, err)
}

func TestResolvePushTarget_WithoutToken(t *testing.T) {
	target, err := ResolvePushTarget("origin", "", "")
	require.NoError(t, err)

	assert.Equal(t, "origin", target.Arg())
	assert.Equal(t, "origin", target.String())
	assert.False(t, target.IsAuthenticated())
}

func TestResolvePushTarget_WithToken(t *testing.T) {
	target, err := ResolvePushTarget("origin", "https://github.com/owner/repo.git", "ghp_abc123")
	require.NoError(t, err)

	assert.True(t, target.IsAuthenticated())
	assert.Equal(t, "https://ghp_abc123@github.com/owner/repo.git", target.Arg())
	assert.NotContains(t, target.String(), "ghp_abc123")
	assert.Equal(t, "https://***@github.com/owner/repo.git", target.String())
}

func TestResolvePushTarget_TokenWithUnusableURL(t *testing.T) {
	_, err := ResolvePushTarget("origin", "/srv/git/repo.git", "tok")
	assert.ErrorIs(t, err, ErrUnsupportedRemoteURL)
}
