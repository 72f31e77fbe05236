package logger

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decodeLines(t *testing.T, buf *bytes.Buffer) []map[string]any {
	t.Helper()

	var entries []map[string]any
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		if line == "" {
			continue
		}
		var entry map[string]any
		require.NoError(t, json.Unmarshal([]byte(line), &entry), line)
		entries = append(entries, entry)
	}
	return entries
}

func TestLoggerLevels(t *testing.T) {
	var buf bytes.Buffer
	log := New(Config{Level: "info", Format: "json", Output: &buf})

	log.Debug("hidden")
	log.Info("shown", "key", "value")

	entries := decodeLines(t, &buf)
	require.Len(t, entries, 1)
	assert.Equal(t, "shown", entries[0]["msg"])
	assert.Equal(t, "value", entries[0]["key"])
	assert.Equal(t, "info", entries[0]["level"])
}

func TestLoggerUnknownLevelFallsBackToWarn(t *testing.T) {
	var buf bytes.Buffer
	log := New(Config{Level: "verbose", Format: "json", Output: &buf})

	log.Info("hidden")
	log.Warn("shown")

	entries := decodeLines(t, &buf)
	require.Len(t, entries, 1)
	assert.Equal(t, "shown", entries[0]["msg"])
}

func TestLoggerWithComponent(t *testing.T) {
	var buf bytes.Buffer
	log := New(Config{Level: "debug", Format: "json", Output: &buf}).WithComponent("deployer")

	log.DebugOperation("push", "branch", "main")
	log.Performance("push", 2*time.Second)

	entries := decodeLines(t, &buf)
	require.Len(t, entries, 2)
	assert.Equal(t, "deployer", entries[0]["component"])
	assert.Equal(t, "push", entries[0]["operation"])
	assert.Equal(t, "main", entries[0]["branch"])
	assert.Equal(t, "timing", entries[1]["msg"])
}

func TestGitCommandRedactsCredentials(t *testing.T) {
	var buf bytes.Buffer
	log := New(Config{Level: "debug", Format: "json", Output: &buf})

	log.GitCommand("git", []string{"push", "https://s3cr3t@github.com/owner/repo.git", "main"})
	log.GitResult("git", false, "fatal: unable to access 'https://s3cr3t@github.com/owner/repo.git/'")

	assert.NotContains(t, buf.String(), "s3cr3t")
	assert.Contains(t, buf.String(), "https://***@github.com/owner/repo.git")
}

func TestTextFormat(t *testing.T) {
	var buf bytes.Buffer
	log := New(Config{Level: "debug", Format: "text", Output: &buf})

	log.Debug("plain text entry", "key", "value")

	assert.Contains(t, buf.String(), "plain text entry")
	assert.Contains(t, buf.String(), "DEBUG")
}

func TestGlobalLogger(t *testing.T) {
	original := GetGlobalLogger()
	t.Cleanup(func() { SetGlobalLogger(original) })

	var buf bytes.Buffer
	Configure(Config{Level: "debug", Format: "json", Output: &buf})

	WithComponent("validator").Info("checked", "files", 3)
	Error("failed")

	entries := decodeLines(t, &buf)
	require.Len(t, entries, 2)
	assert.Equal(t, "validator", entries[0]["component"])
	assert.Equal(t, float64(3), entries[0]["files"])
	assert.Equal(t, "error", entries[1]["level"])
}

func TestNop(t *testing.T) {
	assert.NotPanics(t, func() {
		Nop().Error("ignored", "key", "value")
	})
}
