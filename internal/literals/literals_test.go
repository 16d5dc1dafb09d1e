package literals

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	table := Default()

	for _, key := range []string{Title, Passed, Failed, Suite, Summary, Suites, Specs, Duration, Status, WhatFailed} {
		assert.NotEmpty(t, table[key], "missing default for %s", key)
	}
	assert.Equal(t, "Summary", table.Get(Summary))
}

func TestTable_GetFallsBackToKey(t *testing.T) {
	table := Table{}
	assert.Equal(t, "whatFailed", table.Get(WhatFailed))
}

func TestLoad(t *testing.T) {
	t.Run("empty path returns defaults", func(t *testing.T) {
		table, err := Load("")
		require.NoError(t, err)
		assert.Equal(t, Default(), table)
	})

	t.Run("file overrides merge over defaults", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "de.yaml")
		require.NoError(t, os.WriteFile(path, []byte("summary: Zusammenfassung\nsuites: Suiten\n"), 0644))

		table, err := Load(path)
		require.NoError(t, err)
		assert.Equal(t, "Zusammenfassung", table.Get(Summary))
		assert.Equal(t, "Suiten", table.Get(Suites))
		assert.Equal(t, Default().Get(Specs), table.Get(Specs))
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
		assert.Error(t, err)
	})

	t.Run("invalid yaml", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "bad.yaml")
		require.NoError(t, os.WriteFile(path, []byte("summary: [unclosed"), 0644))

		_, err := Load(path)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "parse literals file")
	})
}
