// Package formatter regenerates canonical ARION text from a value tree.
// It mirrors the parser: the text it emits decodes back to an equal tree
// for every tree the parser can produce, and it rejects string content
// the line grammar cannot carry rather than emitting text that would
// decode to a different value.
package formatter

import (
	"fmt"
	"io"
	"strings"

	"github.com/alpinum/go-arion/ast"
	"github.com/alpinum/go-arion/internal/scalar"
)

const (
	defaultIndent = 2
	headerLine    = "!ARION 1.0"
)

// Formatter writes ARION text to an output stream.
type Formatter struct {
	w      io.Writer
	indent string
	header bool
}

// New returns a formatter writing to w with the given indentation width
// (spaces per level; non-positive selects the default of 2). When header
// is set, the output starts with the version header and a blank line.
func New(w io.Writer, indentWidth int, header bool) *Formatter {
	if indentWidth <= 0 {
		indentWidth = defaultIndent
	}
	return &Formatter{
		w:      w,
		indent: strings.Repeat(" ", indentWidth),
		header: header,
	}
}

// Format writes the ARION encoding of v. The output always ends in
// exactly one trailing newline.
func (f *Formatter) Format(v ast.Value) error {
	var lines []string
	if f.header {
		lines = append(lines, headerLine, "")
	}
	lines, err := f.appendValue(lines, v, "")
	if err != nil {
		return err
	}
	_, err = io.WriteString(f.w, strings.Join(lines, "\n")+"\n")
	return err
}

func (f *Formatter) appendValue(lines []string, v ast.Value, prefix string) ([]string, error) {
	var err error
	switch n := v.(type) {
	case *ast.Object:
		for _, m := range n.Members {
			lines, err = f.appendEntry(lines, "."+m.Key, m.Value, prefix)
			if err != nil {
				return nil, err
			}
		}
	case *ast.Array:
		for _, item := range n.Items {
			lines, err = f.appendEntry(lines, "-", item, prefix)
			if err != nil {
				return nil, err
			}
		}
	default:
		// A bare scalar is not a valid standalone document; emit it as
		// a single array item.
		return f.appendEntry(lines, "-", v, prefix)
	}
	return lines, nil
}

func (f *Formatter) appendEntry(lines []string, marker string, v ast.Value, prefix string) ([]string, error) {
	switch n := v.(type) {
	case *ast.Object, *ast.Array:
		lines = append(lines, prefix+marker)
		return f.appendValue(lines, v, prefix+f.indent)
	case *ast.String:
		if strings.Contains(n.Value, "\n") {
			segments := strings.Split(n.Value, "\n")
			for _, segment := range segments {
				if reason := segmentProblem(segment); reason != "" {
					return nil, fmt.Errorf("arion: string %q has no document form: %s", n.Value, reason)
				}
			}
			lines = append(lines, prefix+marker)
			for _, segment := range segments {
				lines = append(lines, prefix+f.indent+segment)
			}
			return lines, nil
		}
		if hasTrailingSpace(n.Value) {
			return nil, fmt.Errorf("arion: string %q has no document form: trailing whitespace", n.Value)
		}
	}
	return append(lines, prefix+marker+" "+scalar.Format(v)), nil
}

// segmentProblem reports why one line of a multiline string could not be
// read back verbatim, or "" if it can. The tokenizer discards blank,
// comment and header lines, indentation is not part of content, a
// structural prefix would end the run, and trailing whitespace is
// trimmed on decoding.
func segmentProblem(s string) string {
	switch {
	case strings.TrimSpace(s) == "":
		return "blank line"
	case s[0] == ' ' || s[0] == '\t':
		return "leading whitespace"
	case s[0] == '.' || s[0] == '-':
		return "structural line prefix"
	case s[0] == '#':
		return "comment line prefix"
	case strings.HasPrefix(s, "!ARION"):
		return "header line prefix"
	case hasTrailingSpace(s):
		return "trailing whitespace"
	}
	return ""
}

func hasTrailingSpace(s string) bool {
	return strings.TrimRight(s, " \t\r") != s
}
