// Package errors defines the positional errors reported while decoding
// ARION text. All line numbers are 1-based and refer to the original
// source text, before blank, comment and header lines are discarded.
package errors

import "fmt"

// TabIndentationError reports a tab character found in the leading
// whitespace of a line. ARION indentation is spaces only.
type TabIndentationError struct {
	Line int
}

func (e *TabIndentationError) Error() string {
	return fmt.Sprintf("arion: tab in indentation at line %d", e.Line)
}

// MalformedLineError reports a line at structural position that is
// neither '.'- nor '-'-prefixed.
type MalformedLineError struct {
	Line    int
	Content string
}

func (e *MalformedLineError) Error() string {
	return fmt.Sprintf("arion: malformed line %d: %q", e.Line, e.Content)
}

// MixedContainerError reports object-key and array-item lines coexisting
// in a single block.
type MixedContainerError struct {
	Line    int
	Content string
}

func (e *MixedContainerError) Error() string {
	return fmt.Sprintf("arion: mixed object and array entries in one block at line %d: %q", e.Line, e.Content)
}

// InconsistentIndentError reports a line whose indent is at or above the
// block threshold but does not match the indent established by the
// block's first line.
type InconsistentIndentError struct {
	Line    int
	Content string
}

func (e *InconsistentIndentError) Error() string {
	return fmt.Sprintf("arion: inconsistent indentation at line %d: %q", e.Line, e.Content)
}

// MaxDepthError reports that decoding exceeded the configured maximum
// nesting depth.
type MaxDepthError struct {
	Depth int
}

func (e *MaxDepthError) Error() string {
	return fmt.Sprintf("arion: exceeded maximum nesting depth of %d", e.Depth)
}
