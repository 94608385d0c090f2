// Package sourcemap reads and writes the hand-maintained name → value tables
// kept as object-literal blocks of the form
//
//	export const KEYWORD = {
//	    'Name': 'value',   // comments and trailing commas are fine
//	};
//
// Blocks are parsed structurally; nothing in the file is ever executed.
// When the structural parse fails the block is scanned line by line instead.
package sourcemap

import (
	"errors"
	"os"
	"regexp"
	"strings"

	"github.com/rotisserie/eris"
)

var (
	// ErrConfigNotFound reports that the requested block is absent. It is
	// never fatal: callers continue with an empty table.
	ErrConfigNotFound = eris.New("sourcemap: block not found")

	// ErrParseFailure reports that the structural parse of a block failed.
	ErrParseFailure = eris.New("sourcemap: literal parse failed")
)

// Strategy names the parse path that produced a Result.
type Strategy string

const (
	StrategyNone     Strategy = "none"
	StrategyLiteral  Strategy = "literal"
	StrategyLineScan Strategy = "line_scan"
)

// Pair is one key/value line of a block, values kept as text.
type Pair struct {
	Key   string
	Value string
}

// Result is the outcome of reading one block. Warnings carry the non-fatal
// ErrConfigNotFound / ErrParseFailure conditions for the caller to report.
type Result struct {
	Keyword  string
	Pairs    []Pair
	Strategy Strategy
	Warnings []error
}

// Found reports whether the block delimiter was present at all.
func (r Result) Found() bool {
	return r.Strategy != StrategyNone
}

// Parse extracts the block introduced by keyword from src.
func Parse(src, keyword string) Result {
	res := Result{Keyword: keyword, Strategy: StrategyNone}

	start, ok := locate(src, keyword)
	if !ok {
		res.Warnings = append(res.Warnings, eris.Wrapf(ErrConfigNotFound, "keyword %s", keyword))
		return res
	}
	block := src[start:blockEnd(src, start)]

	pairs, err := ParseLiteral(block)
	if err == nil {
		res.Pairs = pairs
		res.Strategy = StrategyLiteral
		return res
	}

	res.Warnings = append(res.Warnings, eris.Wrapf(err, "keyword %s", keyword))
	res.Pairs = ScanLines(block)
	res.Strategy = StrategyLineScan
	return res
}

// Load reads path and parses the block introduced by keyword. A missing file
// is treated like a missing block.
func Load(path, keyword string) (Result, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Result{
				Keyword:  keyword,
				Strategy: StrategyNone,
				Warnings: []error{eris.Wrapf(ErrConfigNotFound, "file %s", path)},
			}, nil
		}
		return Result{}, eris.Wrapf(err, "sourcemap: read %s", path)
	}
	return Parse(string(data), keyword), nil
}

// locate returns the offset of the opening brace that follows "KEYWORD =".
func locate(src, keyword string) (int, bool) {
	re := regexp.MustCompile(`\b` + regexp.QuoteMeta(keyword) + `\s*=\s*\{`)
	loc := re.FindStringIndex(src)
	if loc == nil {
		return 0, false
	}
	return loc[1] - 1, true
}

// blockEnd returns the offset just past the brace closing the block opened
// at start. Quotes and comments are skipped while counting. An unbalanced
// block falls back to the first "};" after start, or the end of src.
func blockEnd(src string, start int) int {
	depth := 0
	for i := start; i < len(src); i++ {
		switch c := src[i]; c {
		case '\'', '"':
			j := i + 1
			for j < len(src) && src[j] != c && src[j] != '\n' {
				if src[j] == '\\' {
					j++
				}
				j++
			}
			i = j
		case '/':
			if strings.HasPrefix(src[i:], "//") {
				if nl := strings.IndexByte(src[i:], '\n'); nl >= 0 {
					i += nl
				} else {
					i = len(src)
				}
			} else if strings.HasPrefix(src[i:], "/*") {
				if end := strings.Index(src[i+2:], "*/"); end >= 0 {
					i += end + 3
				} else {
					i = len(src)
				}
			}
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return i + 1
			}
		}
	}
	if end := strings.Index(src[start:], "};"); end >= 0 {
		return start + end + 1
	}
	return len(src)
}
