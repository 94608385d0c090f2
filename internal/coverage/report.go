// Package coverage accumulates the outcome of a resolution run: how many
// names were checked, which resolved to nothing and why, and which resolved
// references failed a liveness probe.
package coverage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rotisserie/eris"
)

// Reason explains why a name stayed unresolved.
type Reason string

const (
	ReasonNoResults    Reason = "no_results"
	ReasonNameMismatch Reason = "name_mismatch"
)

// Unresolved is one name that produced neither a map hit nor a usable
// candidate.
type Unresolved struct {
	Name         string `json:"name"`
	Reason       Reason `json:"reason"`
	TopCandidate string `json:"top_candidate,omitempty"`
}

// Detail renders the reason with its top candidate, e.g.
// "name_mismatch(Andrew Van Ginkel)".
func (u Unresolved) Detail() string {
	if u.Reason == ReasonNameMismatch {
		return fmt.Sprintf("%s(%s)", u.Reason, u.TopCandidate)
	}
	return string(u.Reason)
}

// Line renders the entry for the human checklist.
func (u Unresolved) Line() string {
	if u.Reason == ReasonNameMismatch {
		return fmt.Sprintf("%s -> Mismatch (Top: %s)", u.Name, u.TopCandidate)
	}
	return fmt.Sprintf("%s -> No API Results", u.Name)
}

// Broken is a resolved reference whose image failed the liveness probe.
// The reference stays in the map; it is only flagged here.
type Broken struct {
	Name   string `json:"name"`
	Source string `json:"source"`
	URL    string `json:"url"`
}

// Report tracks counts and failures from a resolution run. Entries keep the
// order in which names were checked.
type Report struct {
	RunID      string
	Checked    int
	Resolved   int
	Unresolved []Unresolved
	Broken     []Broken
}

// New creates an empty report for a run.
func New(runID string) *Report {
	return &Report{RunID: runID}
}

// Check counts one name as checked.
func (r *Report) Check() {
	r.Checked++
}

// Resolve counts one checked name as resolved.
func (r *Report) Resolve() {
	r.Resolved++
}

// AddNoResults records a name the lookup returned nothing for.
func (r *Report) AddNoResults(name string) {
	r.Unresolved = append(r.Unresolved, Unresolved{Name: name, Reason: ReasonNoResults})
}

// AddMismatch records a name whose candidates all failed to match.
func (r *Report) AddMismatch(name, top string) {
	r.Unresolved = append(r.Unresolved, Unresolved{Name: name, Reason: ReasonNameMismatch, TopCandidate: top})
}

// AddBroken records a reference that failed the liveness probe.
func (r *Report) AddBroken(name, source, url string) {
	r.Broken = append(r.Broken, Broken{Name: name, Source: source, URL: url})
}

// Coverage is the fraction of checked names that resolved.
func (r *Report) Coverage() float64 {
	if r.Checked == 0 {
		return 0
	}
	return float64(r.Resolved) / float64(r.Checked)
}

// Summary returns a human-readable summary of the run.
func (r *Report) Summary() string {
	return fmt.Sprintf(
		"checked=%d resolved=%d unresolved=%d broken=%d coverage=%.1f%%",
		r.Checked, r.Resolved, len(r.Unresolved), len(r.Broken), r.Coverage()*100,
	)
}

// file is the on-disk report layout. Missing keeps the checklist lines the
// team pastes into the override file review.
type file struct {
	RunID      string       `json:"run_id,omitempty"`
	Total      int          `json:"total"`
	Resolved   int          `json:"resolved"`
	Missing    []string     `json:"missing"`
	Unresolved []Unresolved `json:"unresolved"`
	Broken     []Broken     `json:"broken"`
}

// MarshalJSON renders the report in its file layout.
func (r *Report) MarshalJSON() ([]byte, error) {
	f := file{
		RunID:      r.RunID,
		Total:      r.Checked,
		Resolved:   r.Resolved,
		Missing:    make([]string, 0, len(r.Unresolved)),
		Unresolved: r.Unresolved,
		Broken:     r.Broken,
	}
	if f.Unresolved == nil {
		f.Unresolved = []Unresolved{}
	}
	if f.Broken == nil {
		f.Broken = []Broken{}
	}
	for _, u := range r.Unresolved {
		f.Missing = append(f.Missing, u.Line())
	}
	return json.Marshal(f)
}

// WriteJSON writes the report to path.
func (r *Report) WriteJSON(path string) error {
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return eris.Wrap(err, "coverage: marshal report")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return eris.Wrapf(err, "coverage: mkdir for %s", path)
	}
	return eris.Wrapf(os.WriteFile(path, append(data, '\n'), 0o644), "coverage: write %s", path)
}
