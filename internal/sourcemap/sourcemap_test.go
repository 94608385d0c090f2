package sourcemap

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const legacyFile = `/**
 * Player Name to ESPN ID Mapping
 */
export const PLAYER_ID_MAP = {
    'Aaron Rodgers': '8439',
    // QBs
    'Patrick Mahomes': '3139477',

    'Julio Jones': 'https://a.espncdn.com/combiner/i?img=/i/headshots/nfl/players/full/13982.png',
    'De\'Von Achane': '4429160',
};

export const TEAM_ABBR_MAP = {
    'Baltimore Ravens': 'bal',
    'Ravens D/ST': 'bal',
};

export const ESPN_TEAM_IDS = {
    'bal': 33,
    ari: 22
};
`

func TestParse_Literal(t *testing.T) {
	res := Parse(legacyFile, "PLAYER_ID_MAP")

	require.Empty(t, res.Warnings)
	assert.Equal(t, StrategyLiteral, res.Strategy)
	assert.True(t, res.Found())
	assert.Equal(t, []Pair{
		{Key: "Aaron Rodgers", Value: "8439"},
		{Key: "Patrick Mahomes", Value: "3139477"},
		{Key: "Julio Jones", Value: "https://a.espncdn.com/combiner/i?img=/i/headshots/nfl/players/full/13982.png"},
		{Key: "De'Von Achane", Value: "4429160"},
	}, res.Pairs)
}

func TestParse_OtherBlocksUntouched(t *testing.T) {
	abbr := Parse(legacyFile, "TEAM_ABBR_MAP")
	require.Empty(t, abbr.Warnings)
	assert.Equal(t, []Pair{
		{Key: "Baltimore Ravens", Value: "bal"},
		{Key: "Ravens D/ST", Value: "bal"},
	}, abbr.Pairs)

	ids := Parse(legacyFile, "ESPN_TEAM_IDS")
	require.Empty(t, ids.Warnings)
	assert.Equal(t, []Pair{
		{Key: "bal", Value: "33"},
		{Key: "ari", Value: "22"},
	}, ids.Pairs)
}

func TestParse_TrailingCommaAndCommentsMatchCleanBlock(t *testing.T) {
	noisy := `const PLAYER_ID_MAP = {
    // header comment
    'X': 'Y',

    /* block comment */
    'Z': '1', // trailing note
};`
	clean := `const PLAYER_ID_MAP = {
    'X': 'Y',
    'Z': '1'
};`

	a := Parse(noisy, "PLAYER_ID_MAP")
	b := Parse(clean, "PLAYER_ID_MAP")
	require.Empty(t, a.Warnings)
	require.Empty(t, b.Warnings)
	assert.Equal(t, b.Pairs, a.Pairs)
}

func TestParse_EmptyBlock(t *testing.T) {
	res := Parse("export const PLAYER_ID_MAP = {};", "PLAYER_ID_MAP")
	require.Empty(t, res.Warnings)
	assert.Equal(t, StrategyLiteral, res.Strategy)
	assert.Empty(t, res.Pairs)
}

func TestParse_MissingBlock(t *testing.T) {
	res := Parse("export const TEAM_ABBR_MAP = {};", "PLAYER_ID_MAP")

	assert.False(t, res.Found())
	assert.Empty(t, res.Pairs)
	require.Len(t, res.Warnings, 1)
	assert.True(t, errors.Is(res.Warnings[0], ErrConfigNotFound))
}

func TestParse_FallsBackToLineScan(t *testing.T) {
	src := `export const PLAYER_ID_MAP = {
    'Josh Allen': '3918298',
    'Broken': getId('x'),
    "Jalen Hurts": "4040715",
    not a pair at all
};`
	res := Parse(src, "PLAYER_ID_MAP")

	assert.Equal(t, StrategyLineScan, res.Strategy)
	require.Len(t, res.Warnings, 1)
	assert.True(t, errors.Is(res.Warnings[0], ErrParseFailure))
	assert.Equal(t, []Pair{
		{Key: "Josh Allen", Value: "3918298"},
		{Key: "Jalen Hurts", Value: "4040715"},
	}, res.Pairs)
}

func TestParse_MalformedLineSkipped(t *testing.T) {
	src := "export const PLAYER_ID_MAP = {\n    'A': '1',\n    'B: '2',\n};\nexport const OTHER = { 'C': '3' };"
	res := Parse(src, "PLAYER_ID_MAP")

	assert.Equal(t, StrategyLineScan, res.Strategy)
	assert.Equal(t, []Pair{{Key: "A", Value: "1"}}, res.Pairs)
}

func TestParseLiteral_Errors(t *testing.T) {
	cases := map[string]string{
		"missing colon":    `{ 'a' 'b' }`,
		"missing brace":    `{ 'a': 'b'`,
		"double comma":     `{ 'a': 'b',, }`,
		"call expression":  `{ 'a': f() }`,
		"unterminated str": `{ 'a': 'b }`,
		"trailing garbage": `{ 'a': 'b' } x`,
	}
	for name, block := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := ParseLiteral(block)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrParseFailure))
		})
	}
}

func TestScanLines_Unescapes(t *testing.T) {
	pairs := ScanLines(`    'Ja\'Marr Chase': '4362628',`)
	assert.Equal(t, []Pair{{Key: "Ja'Marr Chase", Value: "4362628"}}, pairs)
}

func TestLoad_MissingFile(t *testing.T) {
	res, err := Load(filepath.Join(t.TempDir(), "nope.js"), "PLAYER_ID_MAP")
	require.NoError(t, err)
	assert.False(t, res.Found())
	require.Len(t, res.Warnings, 1)
	assert.True(t, errors.Is(res.Warnings[0], ErrConfigNotFound))
}

func TestLoad_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "player-map.js")
	require.NoError(t, os.WriteFile(path, []byte(legacyFile), 0o644))

	res, err := Load(path, "PLAYER_ID_MAP")
	require.NoError(t, err)
	assert.Len(t, res.Pairs, 4)
}

func TestRender_RoundTrip(t *testing.T) {
	doc := Document{
		Header:  []string{"Player Name to ESPN ID Mapping", "", "Generated"},
		Keyword: "PLAYER_ID_MAP",
		Sections: []Section{
			{Pairs: []Pair{{Key: "A.J. Brown", Value: "4047646"}, {Key: "Ka'imi Fairbairn", Value: "2971573"}}},
			{Label: "Manual Overrides", Pairs: []Pair{{Key: `Back\slash`, Value: "https://x/y.png"}}},
		},
	}

	var buf bytes.Buffer
	require.NoError(t, Render(&buf, doc))

	want := `/**
 * Player Name to ESPN ID Mapping
 *
 * Generated
 */
export const PLAYER_ID_MAP = {
    'A.J. Brown': '4047646',
    'Ka\'imi Fairbairn': '2971573',

    // --- Manual Overrides ---
    'Back\\slash': 'https://x/y.png',
};
`
	assert.Equal(t, want, buf.String())

	res := Parse(buf.String(), "PLAYER_ID_MAP")
	require.Empty(t, res.Warnings)
	assert.Equal(t, []Pair{
		{Key: "A.J. Brown", Value: "4047646"},
		{Key: "Ka'imi Fairbairn", Value: "2971573"},
		{Key: `Back\slash`, Value: "https://x/y.png"},
	}, res.Pairs)
}

func TestRender_Deterministic(t *testing.T) {
	doc := Document{
		Keyword:  "PLAYER_ID_MAP",
		Sections: []Section{{Pairs: []Pair{{Key: "B", Value: "2"}, {Key: "A", Value: "1"}}}},
	}
	var a, b bytes.Buffer
	require.NoError(t, Render(&a, doc))
	require.NoError(t, Render(&b, doc))
	assert.Equal(t, a.Bytes(), b.Bytes())
}
