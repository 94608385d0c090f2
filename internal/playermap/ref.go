// Package playermap holds the canonical player name → external reference
// table and the precedence rules used to build it from the bulk roster
// import and the manual override source.
package playermap

import "strings"

// Kind tags an ExternalRef.
type Kind string

const (
	// KindID is an opaque ESPN athlete id rendered through the headshot template.
	KindID Kind = "id"
	// KindURL is a direct image URL used verbatim.
	KindURL Kind = "url"
)

// ExternalRef points at a player's external identity or image.
type ExternalRef struct {
	Kind  Kind   `json:"kind"`
	Value string `json:"value"`
}

// ID returns an id reference.
func ID(v string) ExternalRef { return ExternalRef{Kind: KindID, Value: v} }

// URL returns a direct-url reference.
func URL(v string) ExternalRef { return ExternalRef{Kind: KindURL, Value: v} }

// ParseRef classifies a raw override value: anything starting with an http(s)
// scheme is a URL, everything else an id.
func ParseRef(raw string) ExternalRef {
	v := strings.TrimSpace(raw)
	lower := strings.ToLower(v)
	if strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://") {
		return URL(v)
	}
	return ID(v)
}

// Source records where a canonical entry came from.
type Source string

const (
	SourceBulk   Source = "bulk"
	SourceManual Source = "manual"
)

// Entry is one name → ref pair.
type Entry struct {
	Name string
	Ref  ExternalRef
}
