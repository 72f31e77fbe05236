package git

import (
	"errors"
	"fmt"
	"net/url"
	"regexp"
	"strings"

	"github.com/sqve/shipit/internal/logger"
)

// ErrUnsupportedRemoteURL is returned when a token cannot be embedded in a remote URL.
var ErrUnsupportedRemoteURL = errors.New("remote URL cannot carry an access token")

// scpLikePattern matches "user@host:path" remotes.
var scpLikePattern = regexp.MustCompile(`^(?:[^@/]+@)?([^:/]+):(.+)$`)

// PushTarget is the destination of a push: a configured remote alias, or an
// authenticated URL built from an access token.
type PushTarget struct {
	Remote string
	URL    string
}

// Arg returns the value passed to `git push`.
func (t PushTarget) Arg() string {
	if t.URL != "" {
		return t.URL
	}
	return t.Remote
}

// IsAuthenticated reports whether the target carries a token.
func (t PushTarget) IsAuthenticated() bool {
	return t.URL != ""
}

// String is safe to print: embedded credentials are masked.
func (t PushTarget) String() string {
	if t.URL != "" {
		return logger.RedactURL(t.URL)
	}
	return t.Remote
}

// ResolvePushTarget picks the push destination. Without a token the remote
// alias is used as-is; with a token the repository URL is rewritten to carry it.
func ResolvePushTarget(remote, repoURL, token string) (PushTarget, error) {
	if token == "" {
		return PushTarget{Remote: remote}, nil
	}

	authURL, err := AuthenticatedURL(repoURL, token)
	if err != nil {
		return PushTarget{}, err
	}

	return PushTarget{Remote: remote, URL: authURL}, nil
}

// AuthenticatedURL returns an https URL for repoURL with token placed in the
// userinfo, i.e. https://<token>@host/owner/repo.git. SSH remotes are
// converted to their https equivalent.
func AuthenticatedURL(repoURL, token string) (string, error) {
	if token == "" {
		return "", errors.New("token cannot be empty")
	}

	u, err := toHTTPS(strings.TrimSpace(repoURL))
	if err != nil {
		return "", err
	}

	u.User = url.User(token)
	return u.String(), nil
}

func toHTTPS(repoURL string) (*url.URL, error) {
	if repoURL == "" {
		return nil, fmt.Errorf("%w: empty URL", ErrUnsupportedRemoteURL)
	}

	if !strings.Contains(repoURL, "://") {
		m := scpLikePattern.FindStringSubmatch(repoURL)
		if m == nil {
			return nil, fmt.Errorf("%w: %s", ErrUnsupportedRemoteURL, repoURL)
		}
		return &url.URL{Scheme: "https", Host: m[1], Path: "/" + strings.TrimPrefix(m[2], "/")}, nil
	}

	u, err := url.Parse(repoURL)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnsupportedRemoteURL, err)
	}

	switch u.Scheme {
	case "https", "http":
		if u.Host == "" {
			return nil, fmt.Errorf("%w: %s", ErrUnsupportedRemoteURL, logger.RedactURL(repoURL))
		}
		return u, nil
	case "ssh", "git+ssh":
		if u.Hostname() == "" {
			return nil, fmt.Errorf("%w: %s", ErrUnsupportedRemoteURL, repoURL)
		}
		return &url.URL{Scheme: "https", Host: u.Hostname(), Path: u.Path}, nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedRemoteURL, logger.RedactURL(repoURL))
	}
}
