package teams

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/albapepper/topina-data/internal/sourcemap"
)

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	abbr := filepath.Join(dir, "team_abbr.yaml")
	ids := filepath.Join(dir, "team_ids.yaml")
	require.NoError(t, os.WriteFile(abbr, []byte("Baltimore Ravens: bal\nRavens D/ST: bal\n"), 0o644))
	require.NoError(t, os.WriteFile(ids, []byte("bal: 33\nari: \"22\"\n"), 0o644))

	tables, err := Load(abbr, ids)
	require.NoError(t, err)

	got, ok := tables.Abbreviation("Ravens D/ST")
	assert.True(t, ok)
	assert.Equal(t, "bal", got)

	id, ok := tables.TeamID("bal")
	assert.True(t, ok)
	assert.Equal(t, "33", id)

	id, ok = tables.TeamID("ari")
	assert.True(t, ok)
	assert.Equal(t, "22", id)
}

func TestLoad_MissingFiles(t *testing.T) {
	dir := t.TempDir()
	tables, err := Load(filepath.Join(dir, "a.yaml"), filepath.Join(dir, "b.yaml"))
	require.NoError(t, err)
	assert.Empty(t, tables.Abbr)
	assert.Empty(t, tables.IDs)

	var nilTables *Tables
	_, ok := nilTables.Abbreviation("x")
	assert.False(t, ok)
}

func TestLoad_InvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("- just\n- a list\n"), 0o644))
	_, err := LoadTable(path)
	require.Error(t, err)
}

func TestSaveTable_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "team_ids.yaml")
	table := FromPairs([]sourcemap.Pair{{Key: "bal", Value: "33"}, {Key: "ari", Value: "22"}, {Key: "bal", Value: "34"}})
	require.NoError(t, SaveTable(path, table))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "ari: \"22\"\nbal: \"34\"\n", string(data))

	back, err := LoadTable(path)
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"ari": "22", "bal": "34"}, back)
}
