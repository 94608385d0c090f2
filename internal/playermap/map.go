package playermap

import "github.com/albapepper/topina-data/internal/sourcemap"

// ManualLabel labels the manual block when a Map is written out.
const ManualLabel = "Manual Overrides"

type slot struct {
	ref    ExternalRef
	source Source
}

// Map is the canonical name → ref table. Keys are unique; when the bulk
// import and the manual source both name a player the manual ref wins.
type Map struct {
	bulk   []Entry
	manual []Entry
	index  map[string]slot
}

// Merge builds a Map. Bulk entries are inserted first in the order given,
// manual entries last, so a manual entry always replaces a bulk entry of
// the same name and a manual-only name is simply appended. Repeated names
// within one source keep their first position and take their last value.
func Merge(bulk, manual []Entry) *Map {
	m := &Map{
		bulk:   collapse(bulk),
		manual: collapse(manual),
	}
	m.index = make(map[string]slot, len(m.bulk)+len(m.manual))
	for _, e := range m.bulk {
		m.index[e.Name] = slot{ref: e.Ref, source: SourceBulk}
	}
	for _, e := range m.manual {
		m.index[e.Name] = slot{ref: e.Ref, source: SourceManual}
	}
	return m
}

func collapse(entries []Entry) []Entry {
	pos := make(map[string]int, len(entries))
	out := make([]Entry, 0, len(entries))
	for _, e := range entries {
		if i, ok := pos[e.Name]; ok {
			out[i].Ref = e.Ref
			continue
		}
		pos[e.Name] = len(out)
		out = append(out, e)
	}
	return out
}

// Lookup returns the canonical ref for name.
func (m *Map) Lookup(name string) (ExternalRef, Source, bool) {
	s, ok := m.index[name]
	return s.ref, s.source, ok
}

// Len returns the number of distinct names.
func (m *Map) Len() int { return len(m.index) }

// Bulk returns the bulk entries that survive the merge, in import order.
func (m *Map) Bulk() []Entry {
	out := make([]Entry, 0, len(m.bulk))
	for _, e := range m.bulk {
		if m.index[e.Name].source == SourceBulk {
			out = append(out, e)
		}
	}
	return out
}

// Manual returns the manual entries in manual source order.
func (m *Map) Manual() []Entry {
	return append([]Entry(nil), m.manual...)
}

// Entries returns every canonical entry in written order: surviving bulk
// entries followed by the manual block.
func (m *Map) Entries() []Entry {
	return append(m.Bulk(), m.manual...)
}

// Overridden returns the names whose bulk ref was replaced by a different
// manual ref, in manual order.
func (m *Map) Overridden() []string {
	bulk := make(map[string]ExternalRef, len(m.bulk))
	for _, e := range m.bulk {
		bulk[e.Name] = e.Ref
	}
	var names []string
	for _, e := range m.manual {
		if ref, ok := bulk[e.Name]; ok && ref != e.Ref {
			names = append(names, e.Name)
		}
	}
	return names
}

// Sections lays the map out for sourcemap.Render.
func (m *Map) Sections() []sourcemap.Section {
	secs := []sourcemap.Section{{Pairs: pairs(m.Bulk())}}
	if len(m.manual) > 0 {
		secs = append(secs, sourcemap.Section{Label: ManualLabel, Pairs: pairs(m.manual)})
	}
	return secs
}

func pairs(entries []Entry) []sourcemap.Pair {
	out := make([]sourcemap.Pair, len(entries))
	for i, e := range entries {
		out[i] = sourcemap.Pair{Key: e.Name, Value: e.Ref.Value}
	}
	return out
}
