// Package teams holds the two team tables that used to share a file with
// the player map: display name → team abbreviation (defenses and team
// picks) and team abbreviation → ESPN team id. Each is its own YAML file.
package teams

import (
	"errors"
	"os"
	"path/filepath"
	"sort"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"

	"github.com/albapepper/topina-data/internal/provider"
	"github.com/albapepper/topina-data/internal/sourcemap"
)

// Keywords of the legacy literal blocks.
const (
	AbbrKeyword = "TEAM_ABBR_MAP"
	IDsKeyword  = "ESPN_TEAM_IDS"
)

// Tables composes the two team stores.
type Tables struct {
	Abbr map[string]string
	IDs  map[string]string
}

// Empty returns tables with no entries.
func Empty() *Tables {
	return &Tables{Abbr: map[string]string{}, IDs: map[string]string{}}
}

// Load reads both tables. A missing file yields an empty table.
func Load(abbrPath, idsPath string) (*Tables, error) {
	abbr, err := LoadTable(abbrPath)
	if err != nil {
		return nil, err
	}
	ids, err := LoadTable(idsPath)
	if err != nil {
		return nil, err
	}
	return &Tables{Abbr: abbr, IDs: ids}, nil
}

// Abbreviation returns the team abbreviation for a display name.
func (t *Tables) Abbreviation(name string) (string, bool) {
	if t == nil {
		return "", false
	}
	v, ok := t.Abbr[name]
	return v, ok
}

// TeamID returns the ESPN team id for an abbreviation.
func (t *Tables) TeamID(abbr string) (string, bool) {
	if t == nil {
		return "", false
	}
	v, ok := t.IDs[abbr]
	return v, ok
}

// LoadTable reads one YAML mapping of scalar keys to scalar values.
func LoadTable(path string) (map[string]string, error) {
	out := map[string]string{}
	if path == "" {
		return out, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return out, nil
		}
		return nil, eris.Wrapf(err, "teams: read %s", path)
	}

	var raw map[string]interface{}
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, eris.Wrapf(err, "teams: parse %s", path)
	}
	for k, v := range raw {
		if s, ok := provider.ExtractString(v); ok {
			out[k] = s
		}
	}
	return out, nil
}

// SaveTable writes a table as YAML with keys sorted.
func SaveTable(path string, table map[string]string) error {
	keys := make([]string, 0, len(table))
	for k := range table {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	doc := &yaml.Node{Kind: yaml.MappingNode}
	for _, k := range keys {
		doc.Content = append(doc.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Value: k},
			&yaml.Node{Kind: yaml.ScalarNode, Value: table[k], Style: yaml.DoubleQuotedStyle},
		)
	}

	data, err := yaml.Marshal(doc)
	if err != nil {
		return eris.Wrap(err, "teams: marshal table")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return eris.Wrapf(err, "teams: mkdir for %s", path)
	}
	return eris.Wrapf(os.WriteFile(path, data, 0o644), "teams: write %s", path)
}

// FromPairs turns a parsed legacy block into a table. Later keys win.
func FromPairs(pairs []sourcemap.Pair) map[string]string {
	out := make(map[string]string, len(pairs))
	for _, p := range pairs {
		out[p.Key] = p.Value
	}
	return out
}
