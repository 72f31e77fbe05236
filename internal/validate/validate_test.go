package validate

import (
	"bytes"
	"context"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sqve/shipit/internal/config"
	shiperrors "github.com/sqve/shipit/internal/errors"
	"github.com/sqve/shipit/internal/ui"
)

const (
	validTools  = "class GenieQueryTool:\n    pass\n\nclass SQLQueryTool:\n    pass\n"
	validAgents = "class BusinessIntelligenceAgent:\n    def run(self):\n        pass\n"
	validApp    = "def main():\n    pass\n"
)

func newFs(t *testing.T, files map[string]string) afero.Fs {
	t.Helper()
	fs := afero.NewMemMapFs()
	for name, content := range files {
		require.NoError(t, afero.WriteFile(fs, "/proj/"+name, []byte(content), 0o644))
	}
	return fs
}

func defaultOptions() Options {
	return Options{
		Root:        "/proj",
		Files:       []string{"langchain_tools.py", "langchain_agents.py", "app.py"},
		ConfigFiles: []string{"requirements.txt", "app.yaml"},
	}
}

func noEnv(string) (string, bool) { return "", false }

func TestValidator_AllValid(t *testing.T) {
	fs := newFs(t, map[string]string{
		"langchain_tools.py":  validTools,
		"langchain_agents.py": validAgents,
		"app.py":              validApp,
		"requirements.txt":    "langchain\n",
		"app.yaml":            "command: [python, app.py]\n",
	})

	report, err := New(fs, defaultOptions()).WithEnv(noEnv).Run(context.Background())
	require.NoError(t, err)

	assert.True(t, report.OK())
	assert.Len(t, report.Files, 3)
	assert.Empty(t, report.Warnings())
	assert.Equal(t, []string{"main"}, report.Files[2].Functions)
}

func TestValidator_StopsAtFirstInvalidFile(t *testing.T) {
	fs := newFs(t, map[string]string{
		"langchain_tools.py":  validTools,
		"langchain_agents.py": "class Broken(\n",
		"app.py":              "def also broken\n",
	})

	report, err := New(fs, defaultOptions()).WithEnv(noEnv).Run(context.Background())
	require.Error(t, err)

	assert.True(t, shiperrors.IsShipError(err, shiperrors.ErrCodeValidationFailed))
	assert.Contains(t, err.Error(), "langchain_agents.py")
	assert.NotContains(t, err.Error(), "app.py")
	assert.Equal(t, "langchain_agents.py", shiperrors.GetErrorContext(err)["file"])

	require.Len(t, report.Files, 2)
	assert.False(t, report.OK())
	assert.Empty(t, report.MissingConfig)
}

func TestValidator_MissingSourceFails(t *testing.T) {
	fs := newFs(t, map[string]string{"langchain_tools.py": validTools})

	_, err := New(fs, defaultOptions()).WithEnv(noEnv).Run(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "langchain_agents.py")
	assert.Contains(t, err.Error(), "file not found")
}

func TestValidator_MissingConfigFilesWarn(t *testing.T) {
	fs := newFs(t, map[string]string{
		"langchain_tools.py":  validTools,
		"langchain_agents.py": validAgents,
		"app.py":              validApp,
		"requirements.txt":    "",
	})

	report, err := New(fs, defaultOptions()).WithEnv(noEnv).Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []string{"app.yaml"}, report.MissingConfig)
	assert.Equal(t, []string{"app.yaml not found"}, report.Warnings())
}

func TestValidator_ExpectedClassesAndEnv(t *testing.T) {
	fs := newFs(t, map[string]string{
		"langchain_tools.py":  validTools,
		"langchain_agents.py": validAgents,
		"app.py":              validApp,
		"requirements.txt":    "",
		"app.yaml":            "",
	})
	opts := defaultOptions()
	opts.Expect = []config.ExpectRule{
		{File: "langchain_tools.py", Classes: []string{"GenieQueryTool", "ResponseEnhancementTool", "SQLQueryTool"}},
		{File: "not_checked.py", Classes: []string{"Ignored"}},
	}
	opts.Env = []string{"DATABRICKS_HOST", "GENIE_SPACE_ID"}

	env := func(name string) (string, bool) {
		if name == "DATABRICKS_HOST" {
			return "https://example.cloud.databricks.com", true
		}
		return "", false
	}

	report, err := New(fs, opts).WithEnv(env).Run(context.Background())
	require.NoError(t, err)

	require.Len(t, report.MissingClasses, 1)
	assert.Equal(t, MissingClasses{File: "langchain_tools.py", Classes: []string{"ResponseEnhancementTool"}}, report.MissingClasses[0])
	assert.Equal(t, []string{"GENIE_SPACE_ID"}, report.UnsetEnv)
	assert.Equal(t, []string{
		"langchain_tools.py is missing expected classes: ResponseEnhancementTool",
		"GENIE_SPACE_ID is not set",
	}, report.Warnings())
}

func TestValidator_CancelledContext(t *testing.T) {
	fs := newFs(t, map[string]string{"langchain_tools.py": validTools})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := New(fs, defaultOptions()).Run(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestOptionsFromConfig(t *testing.T) {
	cfg := config.DefaultConfig()

	opts := OptionsFromConfig("/root", cfg.Validate)

	assert.Equal(t, "/root", opts.Root)
	assert.Equal(t, []string{"langchain_tools.py", "langchain_agents.py", "app.py"}, opts.Files)
	assert.Equal(t, []string{"requirements.txt", "app.yaml"}, opts.ConfigFiles)
	assert.Len(t, opts.Expect, 2)
}

func TestReport_Print(t *testing.T) {
	prev := config.Global.Plain
	config.Global.Plain = true
	t.Cleanup(func() { config.Global.Plain = prev })

	var out, errOut bytes.Buffer
	report := &Report{
		Files: []FileResult{
			{Path: "tools.py", Classes: []string{"A"}, Functions: []string{"f1", "f2", "f3", "f4", "f5", "f6"}},
		},
		MissingConfig: []string{"app.yaml"},
	}

	report.Print(ui.NewPrinter(&out, &errOut))

	assert.Contains(t, out.String(), "tools.py syntax is valid")
	assert.Contains(t, out.String(), "classes: A")
	assert.Contains(t, out.String(), "functions: f1, f2, f3, f4, f5...")
	assert.Contains(t, out.String(), "app.yaml not found")
	assert.Empty(t, errOut.String())
}

func TestFormatFunctions(t *testing.T) {
	assert.Equal(t, "a, b", formatFunctions([]string{"a", "b"}))
	assert.Equal(t, "1, 2, 3, 4, 5", formatFunctions([]string{"1", "2", "3", "4", "5"}))
}
