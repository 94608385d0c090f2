// Package match decides whether an ESPN search candidate identifies the
// queried player.
//
// The rule is deliberately loose: after normalization either name may
// contain the other. That absorbs suffixes ("Jr.", "III") and initials
// punctuation at the cost of occasional false positives on short names.
// Candidates are scanned in order and the first usable one wins; there is
// no best-of-N ranking.
package match

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/unicode/norm"

	"github.com/albapepper/topina-data/internal/espn"
)

var strip = strings.NewReplacer(".", "", "'", "", "’", "")

// Normalize lowercases name and drops periods and apostrophes.
func Normalize(name string) string {
	// A Caser carries state, so each call gets its own.
	return strip.Replace(cases.Lower(language.Und).String(norm.NFKC.String(name)))
}

// Matches reports whether query and candidate name the same player under
// bidirectional containment. Names that normalize to "" never match.
func Matches(query, candidate string) bool {
	q, c := Normalize(query), Normalize(candidate)
	if q == "" || c == "" {
		return false
	}
	return strings.Contains(c, q) || strings.Contains(q, c)
}

// Outcome is the result of scanning a candidate list.
type Outcome struct {
	Matched   bool
	Candidate espn.Candidate
	Image     string

	// Top is the first candidate's display name when nothing matched, kept
	// for triage in the coverage report.
	Top string
}

// Select returns the first candidate whose name matches query and that has
// an image (headshot preferred over the generic image). A name match without
// any image does not count and scanning continues.
func Select(query string, candidates []espn.Candidate) Outcome {
	for _, c := range candidates {
		if !Matches(query, c.DisplayName) {
			continue
		}
		img := c.Image()
		if img == "" {
			continue
		}
		return Outcome{Matched: true, Candidate: c, Image: img}
	}

	var out Outcome
	if len(candidates) > 0 {
		out.Top = candidates[0].DisplayName
		if out.Top == "" {
			out.Top = "Unknown"
		}
	}
	return out
}
