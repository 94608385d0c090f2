// Package sleeper imports the Sleeper roster dump (an object keyed by Sleeper
// player id) into sorted name → ESPN id pairs.
package sleeper

import (
	"encoding/json"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/rotisserie/eris"

	"github.com/albapepper/topina-data/internal/playermap"
	"github.com/albapepper/topina-data/internal/provider"
)

// DefaultXRefField is the cross-reference field carrying the ESPN id.
const DefaultXRefField = "espn_id"

// Record is one roster entry in document order.
type Record struct {
	SleeperID string
	FirstName string
	LastName  string
	Fields    map[string]interface{}
}

// FullName is "First Last" with surrounding space trimmed.
func (r Record) FullName() string {
	return strings.TrimSpace(r.FirstName + " " + r.LastName)
}

// XRef returns the trimmed cross-reference id stored under field.
func (r Record) XRef(field string) (string, bool) {
	return provider.ExtractString(r.Fields[field])
}

// DecodeRoster streams the roster document, keeping records in the order
// they appear so ties in the later sort stay deterministic.
func DecodeRoster(r io.Reader) ([]Record, error) {
	dec := json.NewDecoder(r)
	dec.UseNumber()

	tok, err := dec.Token()
	if err != nil {
		return nil, eris.Wrap(err, "sleeper: read roster")
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return nil, eris.Errorf("sleeper: roster must be a JSON object, got %v", tok)
	}

	var records []Record
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return nil, eris.Wrap(err, "sleeper: read player key")
		}
		id, _ := keyTok.(string)

		var fields map[string]interface{}
		if err := dec.Decode(&fields); err != nil {
			return nil, eris.Wrapf(err, "sleeper: decode player %s", id)
		}
		if fields == nil {
			continue
		}
		records = append(records, Record{
			SleeperID: id,
			FirstName: provider.StringField(fields, "first_name"),
			LastName:  provider.StringField(fields, "last_name"),
			Fields:    fields,
		})
	}

	if _, err := dec.Token(); err != nil {
		return nil, eris.Wrap(err, "sleeper: read roster end")
	}
	return records, nil
}

// Import keeps the records that carry a non-empty cross-reference id under
// field and a non-empty name, sorted by name. Ties keep document order.
func Import(records []Record, field string) []playermap.Entry {
	if field == "" {
		field = DefaultXRefField
	}

	entries := make([]playermap.Entry, 0, len(records))
	for _, rec := range records {
		xref, ok := rec.XRef(field)
		if !ok {
			continue
		}
		name := rec.FullName()
		if name == "" {
			continue
		}
		entries = append(entries, playermap.Entry{Name: name, Ref: playermap.ID(xref)})
	}

	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Name < entries[j].Name
	})
	return entries
}

// ImportFile reads and imports the roster at path. A missing or unreadable
// roster is fatal to the run, so the error is returned as-is for the caller
// to report.
func ImportFile(path, field string) ([]playermap.Entry, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, eris.Wrapf(err, "sleeper: open roster %s", path)
	}
	defer f.Close()

	records, err := DecodeRoster(f)
	if err != nil {
		return nil, err
	}
	return Import(records, field), nil
}
