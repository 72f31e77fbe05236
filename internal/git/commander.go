package git

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"strings"
	"time"

	shiperrors "github.com/sqve/shipit/internal/errors"
	"github.com/sqve/shipit/internal/logger"
)

// Commander abstracts Git command execution to enable dependency injection and testing.
type Commander interface {
	// Run executes a Git command in workDir and captures its output.
	Run(ctx context.Context, workDir string, args ...string) (stdout, stderr []byte, err error)

	// Stream executes a Git command in workDir, forwarding its output as it is produced.
	Stream(ctx context.Context, workDir string, stdout, stderr io.Writer, args ...string) error
}

// GitError represents a failed git invocation.
type GitError struct {
	Command  string
	Args     []string
	Stderr   string
	ExitCode int
}

func (e *GitError) Error() string {
	args := strings.Join(logger.RedactArgs(e.Args), " ")
	stderr := logger.RedactText(strings.TrimSpace(e.Stderr))
	if stderr == "" {
		return fmt.Sprintf("%s %s failed (exit %d)", e.Command, args, e.ExitCode)
	}
	return fmt.Sprintf("%s %s failed (exit %d): %s", e.Command, args, e.ExitCode, stderr)
}

// LiveGitCommander runs the git binary found in PATH.
type LiveGitCommander struct {
	// Binary defaults to "git".
	Binary string
}

func NewLiveGitCommander() *LiveGitCommander {
	return &LiveGitCommander{Binary: "git"}
}

func (c *LiveGitCommander) binary() string {
	if c.Binary == "" {
		return "git"
	}
	return c.Binary
}

// Run executes a Git command with structured logging and error handling.
func (c *LiveGitCommander) Run(ctx context.Context, workDir string, args ...string) (stdout, stderr []byte, err error) {
	log := logger.WithComponent("git_commander")
	start := time.Now()

	log.GitCommand(c.binary(), args, "workdir", workDir)
	cmd := exec.CommandContext(ctx, c.binary(), args...) // nolint:gosec // Arguments are built by shipit, not a shell
	cmd.Dir = workDir

	var outBuf, errBuf bytes.Buffer
	cmd.Stdout = &outBuf
	cmd.Stderr = &errBuf

	runErr := cmd.Run()
	duration := time.Since(start)

	if runErr != nil {
		log.GitResult(c.binary(), false, errBuf.String(), "duration", duration, "workdir", workDir)
		return outBuf.Bytes(), errBuf.Bytes(), c.wrapError(cmd, args, errBuf.String(), runErr)
	}

	log.GitResult(c.binary(), true, outBuf.String(), "duration", duration, "workdir", workDir)
	return outBuf.Bytes(), errBuf.Bytes(), nil
}

// Stream executes a Git command without capturing output, for commands
// whose output belongs to the operator (status, log, pull).
func (c *LiveGitCommander) Stream(ctx context.Context, workDir string, stdout, stderr io.Writer, args ...string) error {
	log := logger.WithComponent("git_commander")
	start := time.Now()

	log.GitCommand(c.binary(), args, "workdir", workDir, "streaming", true)
	cmd := exec.CommandContext(ctx, c.binary(), args...) // nolint:gosec // Arguments are built by shipit, not a shell
	cmd.Dir = workDir
	cmd.Stdout = stdout
	cmd.Stderr = stderr

	err := cmd.Run()
	log.Performance("git "+firstArg(args), time.Since(start), "success", err == nil)
	if err != nil {
		return c.wrapError(cmd, args, "", err)
	}
	return nil
}

func (c *LiveGitCommander) wrapError(cmd *exec.Cmd, args []string, stderr string, err error) error {
	var execErr *exec.Error
	if errors.As(err, &execErr) {
		return shiperrors.ErrGitNotFound(execErr).WithContext("binary", c.binary())
	}

	exitCode := -1
	if cmd.ProcessState != nil {
		exitCode = cmd.ProcessState.ExitCode()
	}

	return &GitError{
		Command:  c.binary(),
		Args:     args,
		Stderr:   stderr,
		ExitCode: exitCode,
	}
}

func firstArg(args []string) string {
	if len(args) == 0 {
		return ""
	}
	return args[0]
}

// DefaultCommander provides a default instance of LiveGitCommander for production use.
var DefaultCommander Commander = NewLiveGitCommander()
