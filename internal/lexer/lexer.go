// Package lexer splits raw ARION text into indexed line records. It is
// the first decoding stage: blank lines, comments and the version header
// are discarded here, so the parser only ever sees structural content.
package lexer

import (
	"strings"

	"github.com/alpinum/go-arion/errors"
)

// headerPrefix marks metadata lines emitted by conformant encoders.
const headerPrefix = "!ARION"

// Line is a single surviving source line.
type Line struct {
	// Indent is the number of leading space characters.
	Indent int
	// Content is the line with its leading spaces removed. Trailing
	// whitespace is kept: an inline empty-string value depends on it.
	Content string
	// Number is the 1-based line number in the original text.
	Number int
}

// Scan tokenizes src into Line records, preserving source order.
// It fails with *errors.TabIndentationError if any line's leading
// whitespace contains a tab character.
func Scan(src []byte) ([]Line, error) {
	var lines []Line
	for i, raw := range strings.Split(string(src), "\n") {
		// Tolerate CRLF endings. Stray carriage returns at the end of a
		// line are dropped with the line break they belong to.
		raw = strings.TrimRight(raw, "\r")
		if strings.TrimSpace(raw) == "" {
			continue
		}

		indent, err := countIndent(raw, i+1)
		if err != nil {
			return nil, err
		}
		content := raw[indent:]

		if strings.HasPrefix(content, headerPrefix) {
			continue
		}
		if content[0] == '#' {
			continue
		}
		lines = append(lines, Line{Indent: indent, Content: content, Number: i + 1})
	}
	return lines, nil
}

// countIndent measures the leading space run of a non-blank line. A tab
// anywhere before the first non-whitespace character is a hard error,
// never an equivalent width.
func countIndent(raw string, number int) (int, error) {
	for i := 0; i < len(raw); i++ {
		switch raw[i] {
		case ' ':
		case '\t':
			return 0, &errors.TabIndentationError{Line: number}
		default:
			return i, nil
		}
	}
	return len(raw), nil
}
