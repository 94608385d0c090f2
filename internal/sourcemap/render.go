package sourcemap

import (
	"bufio"
	"io"
	"strings"

	"github.com/rotisserie/eris"
)

// Section is a run of pairs written together, optionally under a label
// comment.
type Section struct {
	Label string
	Pairs []Pair
}

// Document describes one rendered block file.
type Document struct {
	Header   []string
	Keyword  string
	Sections []Section
}

var quoteEscapes = strings.NewReplacer(`\`, `\\`, `'`, `\'`)

// Render writes doc in the same literal format Parse reads. Output depends
// only on doc, so identical inputs produce identical bytes.
func Render(w io.Writer, doc Document) error {
	bw := bufio.NewWriter(w)

	if len(doc.Header) > 0 {
		bw.WriteString("/**\n")
		for _, line := range doc.Header {
			if line == "" {
				bw.WriteString(" *\n")
				continue
			}
			bw.WriteString(" * " + line + "\n")
		}
		bw.WriteString(" */\n")
	}

	bw.WriteString("export const " + doc.Keyword + " = {\n")
	first := true
	for _, sec := range doc.Sections {
		if len(sec.Pairs) == 0 && sec.Label == "" {
			continue
		}
		if !first {
			bw.WriteString("\n")
		}
		first = false
		if sec.Label != "" {
			bw.WriteString("    // --- " + sec.Label + " ---\n")
		}
		for _, p := range sec.Pairs {
			bw.WriteString("    " + quote(p.Key) + ": " + quote(p.Value) + ",\n")
		}
	}
	bw.WriteString("};\n")

	return eris.Wrap(bw.Flush(), "sourcemap: render")
}

func quote(s string) string {
	return "'" + quoteEscapes.Replace(s) + "'"
}
