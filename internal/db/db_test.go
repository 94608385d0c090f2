package db

import (
	"io/fs"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMigrationsEmbedded(t *testing.T) {
	entries, err := fs.ReadDir(embedMigrations, "migrations")
	require.NoError(t, err)
	require.Len(t, entries, 2)

	for _, e := range entries {
		data, err := fs.ReadFile(embedMigrations, "migrations/"+e.Name())
		require.NoError(t, err)
		assert.Contains(t, string(data), "-- +goose Up", e.Name())
		assert.Contains(t, string(data), "-- +goose Down", e.Name())
	}
}

func TestStatementsCoverTables(t *testing.T) {
	assert.Equal(t, "SELECT 1", Statements[StmtHealthCheck])
	for _, name := range []string{StmtRefByName, StmtRefsBySource} {
		assert.True(t, strings.Contains(Statements[name], "player_image_refs"), name)
	}
	assert.Contains(t, Statements[StmtLatestRun], "coverage_runs")
}
