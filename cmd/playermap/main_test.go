package main

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/albapepper/topina-data/internal/config"
	"github.com/albapepper/topina-data/internal/playermap"
	"github.com/albapepper/topina-data/internal/teams"
)

const legacyFile = `// Player Name to ESPN ID Mapping
export const PLAYER_ID_MAP = {
    'Julio Jones': '13982',
    // --- Manual Restorations ---
    'Tom Brady': '2330',
};

export const TEAM_ABBR_MAP = {
    'Baltimore Ravens': 'BAL',
    'Ravens D/ST': 'BAL',
};

export const ESPN_TEAM_IDS = {
    'BAL': 33,
    'KC': 12,
};
`

const rosterFile = `{
  "100": {"first_name": "Patrick", "last_name": "Mahomes", "espn_id": 3139477},
  "200": {"first_name": "Julio", "last_name": "Jones", "espn_id": "13982"},
  "300": {"first_name": "No", "last_name": "Xref", "espn_id": null}
}`

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	dir := t.TempDir()
	return &config.Config{
		Paths: config.PathsConfig{
			Roster:       filepath.Join(dir, "roster.json"),
			Overrides:    filepath.Join(dir, "overrides.js"),
			GeneratedMap: filepath.Join(dir, "sleeper_map.js"),
			PlayerMap:    filepath.Join(dir, "player_map.js"),
			TeamAbbr:     filepath.Join(dir, "team_abbr.yaml"),
			TeamIDs:      filepath.Join(dir, "team_ids.yaml"),
			DraftDir:     filepath.Join(dir, "draft"),
			Report:       filepath.Join(dir, "out", "validation_report.json"),
		},
		Sleeper: config.SleeperConfig{XRefField: "espn_id"},
		ESPN: config.ESPNConfig{
			Limit:        5,
			Timeout:      time.Second,
			Delay:        -1,
			ProbeTimeout: time.Second,
		},
		Validate: config.ValidateConfig{SeasonFrom: 2023, SeasonTo: 2024},
	}
}

func TestSplitLegacy(t *testing.T) {
	cfg := testConfig(t)
	legacy := filepath.Join(t.TempDir(), "player-map.js")
	require.NoError(t, os.WriteFile(legacy, []byte(legacyFile), 0o644))

	require.NoError(t, splitLegacy(legacy, cfg.Paths, zap.NewNop()))

	manual, res, err := playermap.LoadOverrides(cfg.Paths.Overrides)
	require.NoError(t, err)
	assert.Empty(t, res.Warnings)
	assert.Equal(t, []playermap.Entry{
		{Name: "Julio Jones", Ref: playermap.ID("13982")},
		{Name: "Tom Brady", Ref: playermap.ID("2330")},
	}, manual)

	tables, err := teams.Load(cfg.Paths.TeamAbbr, cfg.Paths.TeamIDs)
	require.NoError(t, err)
	abbr, ok := tables.Abbreviation("Ravens D/ST")
	require.True(t, ok)
	assert.Equal(t, "BAL", abbr)
	id, ok := tables.TeamID("KC")
	require.True(t, ok)
	assert.Equal(t, "12", id)
}

func TestBuildMap_MissingRosterIsFatal(t *testing.T) {
	cfg := testConfig(t)
	_, err := buildMap(cfg, zap.NewNop())
	require.Error(t, err)
}

func TestValidate_EndToEnd(t *testing.T) {
	cfg := testConfig(t)
	require.NoError(t, os.WriteFile(cfg.Paths.Roster, []byte(rosterFile), 0o644))
	require.NoError(t, playermap.WriteOverridesFile(cfg.Paths.Overrides, []playermap.Entry{
		{Name: "Julio Jones", Ref: playermap.URL("https://x/13982.png")},
	}))
	require.NoError(t, teams.SaveTable(cfg.Paths.TeamAbbr, map[string]string{"Ravens D/ST": "BAL"}))

	require.NoError(t, os.MkdirAll(cfg.Paths.DraftDir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(cfg.Paths.DraftDir, "draft_data_2024.json"), []byte(`{"teams": {
		"Lasers": [{"name": "Julio Jones"}, {"name": "Ravens D/ST"}, {"name": "Zay Flowers"}],
		"Sommo": [{"name": "Patrick Mahomes"}, {"name": "Ghost Player"}, {"name": "AJ Brown"}]
	}}`), 0o644))

	espnSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Query().Get("q") {
		case "AJ Brown":
			w.Write([]byte(`{"items": [{"displayName": "A.J. Brown", "id": "4047646", "headshot": {"href": "https://img/ajb.png"}}]}`))
		case "Zay Flowers":
			w.Write([]byte(`{"items": [{"displayName": "Zay Jones", "id": "1"}]}`))
		default:
			w.Write([]byte(`{"items": []}`))
		}
	}))
	defer espnSrv.Close()
	cfg.ESPN.SearchURL = espnSrv.URL

	report, err := validate(context.Background(), cfg, zap.NewNop(), nil)
	require.NoError(t, err)

	// Draft names are checked in sorted order.
	assert.Equal(t, 6, report.Checked)
	assert.Equal(t, 4, report.Resolved)
	require.Len(t, report.Unresolved, 2)
	assert.Equal(t, "Ghost Player", report.Unresolved[0].Name)
	assert.Equal(t, "Zay Flowers", report.Unresolved[1].Name)
	assert.Equal(t, "name_mismatch(Zay Jones)", report.Unresolved[1].Detail())

	data, err := os.ReadFile(cfg.Paths.Report)
	require.NoError(t, err)
	var file struct {
		Total   int      `json:"total"`
		Missing []string `json:"missing"`
	}
	require.NoError(t, json.Unmarshal(data, &file))
	assert.Equal(t, 6, file.Total)
	assert.Equal(t, []string{
		"Ghost Player -> No API Results",
		"Zay Flowers -> Mismatch (Top: Zay Jones)",
	}, file.Missing)

	var out bytes.Buffer
	printReport(&out, report)
	assert.Contains(t, out.String(), "checked=6 resolved=4 unresolved=2 broken=0")
}
