package sleeper

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/albapepper/topina-data/internal/playermap"
)

const rosterJSON = `{
  "4984": {"first_name": "Josh", "last_name": "Allen", "espn_id": "3918298", "yahoo_id": "30977"},
  "96":   {"first_name": "Aaron", "last_name": "Rodgers", "espn_id": 8439},
  "9999": {"first_name": "No", "last_name": "Espn", "espn_id": null},
  "8888": {"first_name": "Blank", "last_name": "Espn", "espn_id": "  "},
  "7777": {"first_name": "", "last_name": "", "espn_id": "123"},
  "1234": {"first_name": "Josh", "last_name": "Allen", "espn_id": "4000001"},
  "DEF":  {"first_name": "Baltimore", "last_name": "Ravens"},
  "5555": {"first_name": null, "last_name": "Mononym", "espn_id": "55"}
}`

func TestImport(t *testing.T) {
	records, err := DecodeRoster(strings.NewReader(rosterJSON))
	require.NoError(t, err)
	require.Len(t, records, 8)
	assert.Equal(t, "4984", records[0].SleeperID)

	entries := Import(records, DefaultXRefField)
	assert.Equal(t, []playermap.Entry{
		{Name: "Aaron Rodgers", Ref: playermap.ID("8439")},
		{Name: "Josh Allen", Ref: playermap.ID("3918298")},
		{Name: "Josh Allen", Ref: playermap.ID("4000001")},
		{Name: "Mononym", Ref: playermap.ID("55")},
	}, entries)
}

func TestImport_OtherField(t *testing.T) {
	records, err := DecodeRoster(strings.NewReader(rosterJSON))
	require.NoError(t, err)

	entries := Import(records, "yahoo_id")
	assert.Equal(t, []playermap.Entry{{Name: "Josh Allen", Ref: playermap.ID("30977")}}, entries)
}

func TestImport_Deterministic(t *testing.T) {
	a, err := DecodeRoster(strings.NewReader(rosterJSON))
	require.NoError(t, err)
	b, err := DecodeRoster(strings.NewReader(rosterJSON))
	require.NoError(t, err)
	assert.Equal(t, Import(a, ""), Import(b, ""))
}

func TestDecodeRoster_NotObject(t *testing.T) {
	_, err := DecodeRoster(strings.NewReader(`[1, 2]`))
	require.Error(t, err)
}

func TestImportFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sleeper_players.json")
	require.NoError(t, os.WriteFile(path, []byte(rosterJSON), 0o644))

	entries, err := ImportFile(path, "")
	require.NoError(t, err)
	assert.Len(t, entries, 4)

	_, err = ImportFile(filepath.Join(t.TempDir(), "missing.json"), "")
	require.Error(t, err)
}
