package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sqve/shipit/internal/app"
)

func TestRootCommand(t *testing.T) {
	t.Run("lists commands in help", func(t *testing.T) {
		root := app.NewRootCommand()
		var out bytes.Buffer
		root.SetOut(&out)
		root.SetArgs([]string{"--help"})

		require.NoError(t, root.Execute())

		help := out.String()
		for _, name := range []string{"deploy", "validate", "setup", "status", "log", "pull", "config", "completion"} {
			assert.Contains(t, help, name)
		}
	})

	t.Run("prints version", func(t *testing.T) {
		root := app.NewRootCommand()
		var out bytes.Buffer
		root.SetOut(&out)
		root.SetArgs([]string{"--version"})

		require.NoError(t, root.Execute())
		assert.True(t, strings.HasPrefix(out.String(), "shipit version "+app.Version))
	})

	t.Run("rejects unknown commands", func(t *testing.T) {
		root := app.NewRootCommand()
		root.SetOut(&bytes.Buffer{})
		root.SetErr(&bytes.Buffer{})
		root.SetArgs([]string{"launch"})

		assert.Error(t, root.Execute())
	})
}
