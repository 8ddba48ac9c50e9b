// Package parser reconstructs the value tree from the tokenizer's line
// records by recursive descent over indentation.
package parser

import (
	"strings"

	"github.com/alpinum/go-arion/ast"
	"github.com/alpinum/go-arion/errors"
	"github.com/alpinum/go-arion/internal/lexer"
	"github.com/alpinum/go-arion/internal/scalar"
)

// DefaultMaxDepth bounds block recursion when the caller does not.
const DefaultMaxDepth = 1000

// Parse builds the document value from lines. An empty document decodes
// as null. The root block's threshold is seeded from the first line's
// own indent, so uniformly indented documents parse the same as flush
// ones.
func Parse(lines []lexer.Line, maxDepth int) (ast.Value, error) {
	if maxDepth <= 0 {
		maxDepth = DefaultMaxDepth
	}
	if len(lines) == 0 {
		return &ast.Null{}, nil
	}
	p := &parser{lines: lines, maxDepth: maxDepth}
	v, _, err := p.parseBlock(0, lines[0].Indent, 0)
	return v, err
}

type parser struct {
	lines    []lexer.Line
	maxDepth int
}

// The contract for parseBlock and its helpers is cursor threading: each
// takes the index of the first line to consider and returns the index of
// the first line it did not consume.

// parseBlock accumulates one block of lines into an Object or an Array.
// A line belongs to the block while its indent is at least threshold;
// the first consumed line fixes the exact indent every sibling must use.
func (p *parser) parseBlock(idx, threshold, depth int) (ast.Value, int, error) {
	if depth >= p.maxDepth {
		return nil, idx, &errors.MaxDepthError{Depth: p.maxDepth}
	}

	obj := &ast.Object{}
	var arr *ast.Array
	blockIndent := -1

	for idx < len(p.lines) {
		line := p.lines[idx]
		if line.Indent < threshold {
			break
		}
		if blockIndent < 0 {
			blockIndent = line.Indent
		} else if line.Indent != blockIndent {
			return nil, idx, &errors.InconsistentIndentError{Line: line.Number, Content: line.Content}
		}

		var err error
		switch line.Content[0] {
		case '.':
			if arr != nil {
				return nil, idx, &errors.MixedContainerError{Line: line.Number, Content: line.Content}
			}
			idx, err = p.parseKeyLine(obj, idx, depth)
		case '-':
			if obj.Len() > 0 {
				return nil, idx, &errors.MixedContainerError{Line: line.Number, Content: line.Content}
			}
			if arr == nil {
				arr = &ast.Array{}
			}
			idx, err = p.parseItemLine(arr, idx, depth)
		default:
			return nil, idx, &errors.MalformedLineError{Line: line.Number, Content: line.Content}
		}
		if err != nil {
			return nil, idx, err
		}
	}

	if arr != nil {
		return arr, idx, nil
	}
	return obj, idx, nil
}

// parseKeyLine consumes one '.key' line. A space after the key token
// means the remainder is an inline scalar; a bare key takes its value
// from the following block.
func (p *parser) parseKeyLine(obj *ast.Object, idx, depth int) (int, error) {
	content := p.lines[idx].Content[1:]
	if i := strings.IndexByte(content, ' '); i >= 0 {
		obj.Set(content[:i], scalar.Resolve(content[i+1:]))
		return idx + 1, nil
	}
	child, next, err := p.parseChild(idx, depth)
	if err != nil {
		return next, err
	}
	obj.Set(content, child)
	return next, nil
}

// parseItemLine consumes one '-' line. Anything after the marker is an
// inline scalar, so "- " is the inline empty string; a bare marker takes
// its value from the following block.
func (p *parser) parseItemLine(arr *ast.Array, idx, depth int) (int, error) {
	content := p.lines[idx].Content
	if len(content) > 1 {
		arr.Items = append(arr.Items, scalar.Resolve(content[1:]))
		return idx + 1, nil
	}
	child, next, err := p.parseChild(idx, depth)
	if err != nil {
		return next, err
	}
	arr.Items = append(arr.Items, child)
	return next, nil
}

// parseChild resolves the value of a bare marker line by lookahead: no
// deeper line means an empty object, a deeper structural line starts a
// nested block, and a deeper plain line starts a multiline string.
func (p *parser) parseChild(idx, depth int) (ast.Value, int, error) {
	line := p.lines[idx]
	if idx+1 >= len(p.lines) || p.lines[idx+1].Indent <= line.Indent {
		return &ast.Object{}, idx + 1, nil
	}
	next := p.lines[idx+1]
	if !isStructural(next.Content) {
		text, after := p.collectMultiline(idx+1, next.Indent)
		return &ast.String{Value: text}, after, nil
	}
	return p.parseBlock(idx+1, line.Indent+1, depth+1)
}

// collectMultiline gathers the contiguous run of plain lines at exactly
// indent and joins them with newlines. The run stops at a dedent, a
// deeper line, or a structural line. Each segment is right-trimmed, the
// same rule inline scalars get, so the writer can reproduce the string.
func (p *parser) collectMultiline(start, indent int) (string, int) {
	var segments []string
	j := start
	for j < len(p.lines) {
		line := p.lines[j]
		if line.Indent != indent || isStructural(line.Content) {
			break
		}
		segments = append(segments, strings.TrimRight(line.Content, " \t\r"))
		j++
	}
	return strings.Join(segments, "\n"), j
}

func isStructural(content string) bool {
	return content[0] == '.' || content[0] == '-'
}
