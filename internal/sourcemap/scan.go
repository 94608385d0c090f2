package sourcemap

import (
	"regexp"
	"strings"
)

var linePair = regexp.MustCompile(`['"](.+?)['"]\s*:\s*['"](.+?)['"]`)

// ScanLines is the permissive fallback: every line holding a quoted key and a
// quoted value yields a pair, anything else is skipped.
func ScanLines(block string) []Pair {
	var pairs []Pair
	for _, line := range strings.Split(block, "\n") {
		m := linePair.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		pairs = append(pairs, Pair{Key: unquote(m[1]), Value: unquote(m[2])})
	}
	return pairs
}

var scanEscapes = strings.NewReplacer(`\\`, `\`, `\'`, `'`, `\"`, `"`)

func unquote(s string) string {
	return scanEscapes.Replace(s)
}
