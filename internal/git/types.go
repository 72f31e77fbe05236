package git

import (
	"fmt"
	"strings"
	"time"
)

// CommitSummary describes a single commit for display.
type CommitSummary struct {
	Hash    string
	Subject string
	Author  string
	When    time.Time
}

// ShortHash returns the abbreviated commit hash.
func (c CommitSummary) ShortHash() string {
	if len(c.Hash) > 7 {
		return c.Hash[:7]
	}
	return c.Hash
}

// String renders the summary like `git log -1 --oneline`.
func (c CommitSummary) String() string {
	return fmt.Sprintf("%s %s", c.ShortHash(), c.Subject)
}

func subjectLine(message string) string {
	subject, _, _ := strings.Cut(strings.TrimSpace(message), "\n")
	return strings.TrimSpace(subject)
}
