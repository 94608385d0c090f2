package playermap

import (
	"bytes"
	"io"
	"os"
	"path/filepath"

	"github.com/rotisserie/eris"

	"github.com/albapepper/topina-data/internal/sourcemap"
)

// Keyword is the block name used by both the override source and the
// written canonical map.
const Keyword = "PLAYER_ID_MAP"

var header = []string{
	"Player Name to ESPN ID Mapping",
	"",
	"Generated from the Sleeper roster with manual overrides applied last.",
	"Values are ESPN athlete ids or direct image URLs.",
}

var overridesHeader = []string{
	"Manual player overrides",
	"",
	"Applied after the Sleeper import; an entry here replaces the imported one.",
}

// FromPairs classifies raw block pairs into entries.
func FromPairs(ps []sourcemap.Pair) []Entry {
	out := make([]Entry, 0, len(ps))
	for _, p := range ps {
		out = append(out, Entry{Name: p.Key, Ref: ParseRef(p.Value)})
	}
	return out
}

// LoadOverrides reads the manual override block from path. A missing file or
// block yields no entries and a warning in the returned result.
func LoadOverrides(path string) ([]Entry, sourcemap.Result, error) {
	res, err := sourcemap.Load(path, Keyword)
	if err != nil {
		return nil, res, err
	}
	return FromPairs(res.Pairs), res, nil
}

// Write renders m in the override-source literal format.
func Write(w io.Writer, m *Map) error {
	return sourcemap.Render(w, sourcemap.Document{
		Header:   header,
		Keyword:  Keyword,
		Sections: m.Sections(),
	})
}

// WriteFile renders m to path, replacing the file atomically.
func WriteFile(path string, m *Map) error {
	var buf bytes.Buffer
	if err := Write(&buf, m); err != nil {
		return err
	}
	return writeAtomic(path, buf.Bytes())
}

// WriteOverridesFile writes entries as a standalone override source, in
// the order given.
func WriteOverridesFile(path string, entries []Entry) error {
	var buf bytes.Buffer
	err := sourcemap.Render(&buf, sourcemap.Document{
		Header:   overridesHeader,
		Keyword:  Keyword,
		Sections: []sourcemap.Section{{Pairs: pairs(entries)}},
	})
	if err != nil {
		return err
	}
	return writeAtomic(path, buf.Bytes())
}

func writeAtomic(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return eris.Wrapf(err, "playermap: mkdir for %s", path)
	}
	tmp, err := os.CreateTemp(filepath.Dir(path), ".playermap-*")
	if err != nil {
		return eris.Wrap(err, "playermap: create temp file")
	}
	defer os.Remove(tmp.Name()) //nolint:errcheck

	if _, err := tmp.Write(data); err != nil {
		tmp.Close() //nolint:errcheck
		return eris.Wrap(err, "playermap: write temp file")
	}
	if err := tmp.Close(); err != nil {
		return eris.Wrap(err, "playermap: close temp file")
	}
	return eris.Wrapf(os.Rename(tmp.Name(), path), "playermap: rename to %s", path)
}
