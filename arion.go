package arion

import (
	"bytes"

	"github.com/alpinum/go-arion/ast"
	"github.com/alpinum/go-arion/internal/formatter"
	"github.com/alpinum/go-arion/internal/lexer"
	"github.com/alpinum/go-arion/internal/parser"
)

// Marshaler is the interface implemented by types that
// can marshal themselves into valid ARION.
type Marshaler interface {
	MarshalARION() ([]byte, error)
}

// Unmarshaler is the interface implemented by types that
// can unmarshal an ARION description of themselves.
type Unmarshaler interface {
	UnmarshalARION([]byte) error
}

// Marshal returns the ARION encoding of v.
func Marshal(v any, opts ...Option) ([]byte, error) {
	var buf bytes.Buffer
	e := NewEncoder(&buf, opts...)
	if err := e.Encode(v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Unmarshal parses the ARION-encoded data and stores the result
// in the value pointed to by v.
func Unmarshal(data []byte, v any, opts ...Option) error {
	d := NewDecoder(bytes.NewReader(data), opts...)
	return d.Decode(v)
}

// Parse decodes ARION text into its value tree. Unlike Unmarshal into a
// map, the tree preserves object key order exactly as declared in the
// source. An empty document parses as *ast.Null.
func Parse(data []byte, opts ...Option) (ast.Value, error) {
	o := defaultOptions()
	for _, opt := range opts {
		if err := opt(&o); err != nil {
			return nil, err
		}
	}
	lines, err := lexer.Scan(data)
	if err != nil {
		return nil, err
	}
	return parser.Parse(lines, o.maxDepth)
}

// Format encodes a value tree as ARION text, emitting object members in
// order. The output ends in exactly one trailing newline.
func Format(v ast.Value, opts ...Option) ([]byte, error) {
	o := defaultOptions()
	for _, opt := range opts {
		if err := opt(&o); err != nil {
			return nil, err
		}
	}
	var buf bytes.Buffer
	f := formatter.New(&buf, o.indent, o.header)
	if err := f.Format(v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
