package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadFromEnv(t *testing.T) {
	t.Cleanup(Reset)

	t.Run("plain and debug from env", func(t *testing.T) {
		Reset()
		t.Setenv("SHIPIT_PLAIN", "true")
		t.Setenv("SHIPIT_DEBUG", "1")

		LoadFromEnv()

		assert.True(t, IsPlain())
		assert.True(t, IsDebug())
	})

	t.Run("NO_COLOR forces plain", func(t *testing.T) {
		Reset()
		t.Setenv("NO_COLOR", "1")

		LoadFromEnv()

		assert.True(t, IsPlain())
		assert.False(t, IsDebug())
	})
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, "main", cfg.Deploy.Branch)
	assert.Equal(t, "origin", cfg.Deploy.Remote)
	assert.Equal(t, "GITHUB_TOKEN", cfg.Deploy.TokenEnv)
	assert.Equal(t, "Auto-deploy", cfg.Deploy.MessagePrefix)
	assert.Equal(t, time.Duration(0), cfg.Git.PushTimeout)
	assert.Equal(t, ".env.deploy", cfg.Setup.EnvFile)
	assert.Equal(t, "deploy.sh", cfg.Setup.Wrapper)
	assert.Equal(t, []string{"langchain_tools.py", "langchain_agents.py", "app.py"}, cfg.Validate.Files)
	assert.Equal(t, []string{"requirements.txt", "app.yaml"}, cfg.Validate.ConfigFiles)
	require.Len(t, cfg.Validate.Expect, 2)
	assert.Equal(t, "langchain_tools.py", cfg.Validate.Expect[0].File)
	assert.Contains(t, cfg.Validate.Expect[1].Classes, "VisualizationAgent")

	require.NoError(t, ValidateConfig(cfg))
}

func TestInitialize(t *testing.T) {
	t.Cleanup(Reset)

	t.Run("reads project config file", func(t *testing.T) {
		Reset()
		dir := t.TempDir()
		t.Chdir(dir)
		t.Setenv("XDG_CONFIG_HOME", filepath.Join(dir, "xdg"))

		content := "[deploy]\nbranch = \"trunk\"\nremote = \"upstream\"\n"
		require.NoError(t, os.WriteFile(filepath.Join(dir, ProjectFileName), []byte(content), 0o644))

		require.NoError(t, Initialize())

		assert.Equal(t, "trunk", GetString("deploy.branch"))
		assert.Equal(t, "upstream", GetString("deploy.remote"))
		assert.Equal(t, "GITHUB_TOKEN", GetString("deploy.token_env"))
		assert.Equal(t, filepath.Join(dir, ProjectFileName), ConfigFileUsed())
	})

	t.Run("environment overrides defaults", func(t *testing.T) {
		Reset()
		dir := t.TempDir()
		t.Chdir(dir)
		t.Setenv("XDG_CONFIG_HOME", filepath.Join(dir, "xdg"))
		t.Setenv("SHIPIT_DEPLOY_BRANCH", "release")

		require.NoError(t, Initialize())

		cfg, err := Get()
		require.NoError(t, err)
		assert.Equal(t, "release", cfg.Deploy.Branch)
	})

	t.Run("invalid config file is an error", func(t *testing.T) {
		Reset()
		dir := t.TempDir()
		t.Chdir(dir)
		t.Setenv("XDG_CONFIG_HOME", filepath.Join(dir, "xdg"))
		require.NoError(t, os.WriteFile(filepath.Join(dir, ProjectFileName), []byte("[deploy\n"), 0o644))

		assert.Error(t, Initialize())
	})

	t.Run("no config file is fine", func(t *testing.T) {
		Reset()
		dir := t.TempDir()
		t.Chdir(dir)
		t.Setenv("XDG_CONFIG_HOME", filepath.Join(dir, "xdg"))

		require.NoError(t, Initialize())
		assert.Empty(t, ConfigFileUsed())
		assert.Equal(t, "main", GetString("deploy.branch"))
	})
}

func TestFindConfigFile(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	xdg := filepath.Join(dir, "xdg")
	t.Setenv("XDG_CONFIG_HOME", xdg)
	t.Setenv("SHIPIT_CONFIG", "")

	assert.Empty(t, FindConfigFile())

	userFile := filepath.Join(xdg, "shipit", UserFileName)
	require.NoError(t, os.MkdirAll(filepath.Dir(userFile), 0o755))
	require.NoError(t, os.WriteFile(userFile, []byte(""), 0o644))
	assert.Equal(t, userFile, FindConfigFile())

	projectFile := filepath.Join(dir, ProjectFileName)
	require.NoError(t, os.WriteFile(projectFile, []byte(""), 0o644))
	assert.Equal(t, projectFile, FindConfigFile(), "project file wins over user file")

	explicit := filepath.Join(dir, "custom.toml")
	t.Setenv("SHIPIT_CONFIG", explicit)
	assert.Equal(t, explicit, FindConfigFile())
}

func TestWriteDefaultFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", ProjectFileName)

	require.NoError(t, WriteDefaultFile(path, false))

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)
	defaults := DefaultConfig()
	assert.Equal(t, defaults.Deploy, cfg.Deploy)
	assert.Equal(t, defaults.Setup, cfg.Setup)
	assert.Equal(t, defaults.Validate.Files, cfg.Validate.Files)
	assert.Equal(t, defaults.Validate.Expect, cfg.Validate.Expect)
	assert.Equal(t, defaults.Logging, cfg.Logging)

	assert.Error(t, WriteDefaultFile(path, false), "refuses to overwrite")
	assert.NoError(t, WriteDefaultFile(path, true))
}
