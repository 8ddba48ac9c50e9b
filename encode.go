package arion

import (
	"encoding"
	"fmt"
	"io"
	"math"
	"reflect"
	"slices"
	"strings"

	"github.com/alpinum/go-arion/ast"
	"github.com/alpinum/go-arion/errors"
	"github.com/alpinum/go-arion/internal/formatter"
	"github.com/alpinum/go-arion/internal/lexer"
	"github.com/alpinum/go-arion/internal/parser"
)

// Encoder writes ARION values to an output stream.
type Encoder struct {
	w    io.Writer
	opts []Option
}

// NewEncoder returns a new encoder that writes to w.
func NewEncoder(w io.Writer, opts ...Option) *Encoder {
	return &Encoder{w: w, opts: opts}
}

// Encode writes the ARION encoding of v to the stream.
//
// Values already in ast.Value form are written as-is. Other Go values go
// through reflection the same way encoding/json does: structs use
// `arion` field tags, map keys are sorted for deterministic output, and
// nil pointers, interfaces, maps and slices encode as null.
func (e *Encoder) Encode(v any) error {
	o := defaultOptions()
	for _, opt := range e.opts {
		if err := opt(&o); err != nil {
			return err
		}
	}

	es := &encodeState{maxDepth: o.maxDepth}
	node, err := es.marshalValue(reflect.ValueOf(v), 0)
	if err != nil {
		return err
	}

	f := formatter.New(e.w, o.indent, o.header)
	return f.Format(node)
}

type encodeState struct {
	maxDepth int
}

var astValueType = reflect.TypeOf((*ast.Value)(nil)).Elem()

func (e *encodeState) marshalValue(v reflect.Value, depth int) (ast.Value, error) {
	// Value trees are not graphs; the depth guard turns accidental
	// cycles into an error instead of unbounded recursion.
	if depth >= e.maxDepth {
		return nil, &errors.MaxDepthError{Depth: e.maxDepth}
	}

	// Handle nil interfaces explicitly to avoid panics.
	if !v.IsValid() || (v.Kind() == reflect.Interface && v.IsNil()) {
		return &ast.Null{}, nil
	}

	// ast.Value inputs pass through untouched.
	if v.CanInterface() {
		if node, ok := v.Interface().(ast.Value); ok {
			if v.Kind() == reflect.Pointer && v.IsNil() {
				return &ast.Null{}, nil
			}
			return node, nil
		}
	}

	// Check for custom marshaler implementations. We must check the
	// value itself and a pointer to the value, to handle both value and
	// pointer receivers.
	if node, ok, err := e.marshalCustom(v); ok {
		return node, err
	}
	if v.Kind() != reflect.Pointer {
		var pv reflect.Value
		if v.CanAddr() {
			pv = v.Addr()
		} else {
			// For non-addressable values (like struct literals),
			// create a pointer to a copy to check for the interface.
			pv = reflect.New(v.Type())
			pv.Elem().Set(v)
		}
		if node, ok, err := e.marshalCustom(pv); ok {
			return node, err
		}
	}

	// Follow pointers and interfaces to find the concrete value.
	for v.Kind() == reflect.Pointer || v.Kind() == reflect.Interface {
		if v.IsNil() {
			return &ast.Null{}, nil
		}
		v = v.Elem()
	}

	switch v.Kind() {
	case reflect.String:
		return &ast.String{Value: v.String()}, nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return &ast.Int{Value: v.Int()}, nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		val := v.Uint()
		if val > math.MaxInt64 {
			return nil, fmt.Errorf("arion: cannot marshal uint64 %d into ARION (overflows int64)", val)
		}
		return &ast.Int{Value: int64(val)}, nil
	case reflect.Float32, reflect.Float64:
		val := v.Float()
		if math.IsNaN(val) || math.IsInf(val, 0) {
			return nil, fmt.Errorf("arion: unsupported float value %g", val)
		}
		return &ast.Float{Value: val}, nil
	case reflect.Bool:
		return &ast.Bool{Value: v.Bool()}, nil
	case reflect.Slice, reflect.Array:
		return e.marshalSequence(v, depth)
	case reflect.Map:
		return e.marshalMap(v, depth)
	case reflect.Struct:
		return e.marshalStruct(v, depth)
	default:
		return nil, fmt.Errorf("arion: unsupported type for marshaling: %s", v.Type())
	}
}

func (e *encodeState) marshalSequence(v reflect.Value, depth int) (ast.Value, error) {
	if v.Kind() == reflect.Slice && v.IsNil() {
		return &ast.Null{}, nil
	}
	items := make([]ast.Value, v.Len())
	for i := 0; i < v.Len(); i++ {
		item, err := e.marshalValue(v.Index(i), depth+1)
		if err != nil {
			return nil, err
		}
		items[i] = item
	}
	return &ast.Array{Items: items}, nil
}

func (e *encodeState) marshalMap(v reflect.Value, depth int) (ast.Value, error) {
	if v.IsNil() {
		return &ast.Null{}, nil
	}
	if v.Type().Key().Kind() != reflect.String {
		return nil, fmt.Errorf("arion: map key type must be a string, got %s", v.Type().Key())
	}

	// Map iteration is unordered; sort keys so the same map always
	// encodes to the same text.
	keys := make([]string, 0, v.Len())
	for _, key := range v.MapKeys() {
		keys = append(keys, key.String())
	}
	slices.Sort(keys)

	obj := &ast.Object{}
	for _, key := range keys {
		if err := validateKey(key); err != nil {
			return nil, err
		}
		node, err := e.marshalValue(v.MapIndex(reflect.ValueOf(key)), depth+1)
		if err != nil {
			return nil, err
		}
		obj.Set(key, node)
	}
	return obj, nil
}

func (e *encodeState) marshalStruct(v reflect.Value, depth int) (ast.Value, error) {
	t := v.Type()
	obj := &ast.Object{}

	for i := 0; i < v.NumField(); i++ {
		field := t.Field(i)
		fieldValue := v.Field(i)

		if !field.IsExported() {
			continue
		}

		tagName, opts := parseTag(field.Tag.Get("arion"))
		if tagName == "-" {
			continue
		}
		if opts["omitempty"] && isEmptyValue(fieldValue) {
			continue
		}

		key := field.Name
		if tagName != "" {
			key = tagName
		}
		if err := validateKey(key); err != nil {
			return nil, err
		}

		node, err := e.marshalValue(fieldValue, depth+1)
		if err != nil {
			return nil, err
		}
		obj.Set(key, node)
	}
	return obj, nil
}

// marshalCustom invokes a Marshaler or encoding.TextMarshaler on v if it
// implements one. Marshaler output is parsed back into a value tree so
// it integrates into the tree being built.
func (e *encodeState) marshalCustom(v reflect.Value) (ast.Value, bool, error) {
	if v.Type().NumMethod() == 0 || !v.CanInterface() {
		return nil, false, nil
	}

	if m, ok := v.Interface().(Marshaler); ok {
		b, err := m.MarshalARION()
		if err != nil {
			return nil, true, &MarshalerError{Type: v.Type(), Err: err}
		}
		lines, err := lexer.Scan(b)
		if err != nil {
			return nil, true, &MarshalerError{Type: v.Type(), Err: fmt.Errorf("invalid ARION output: %w", err)}
		}
		node, err := parser.Parse(lines, e.maxDepth)
		if err != nil {
			return nil, true, &MarshalerError{Type: v.Type(), Err: fmt.Errorf("invalid ARION output: %w", err)}
		}
		return node, true, nil
	}

	if m, ok := v.Interface().(encoding.TextMarshaler); ok {
		b, err := m.MarshalText()
		if err != nil {
			return nil, true, &MarshalerError{Type: v.Type(), Err: err}
		}
		return &ast.String{Value: string(b)}, true, nil
	}

	return nil, false, nil
}

// validateKey rejects object keys the line grammar cannot carry: a space
// ends the key token and a line break ends the line.
func validateKey(key string) error {
	if strings.ContainsAny(key, " \n\r") {
		return fmt.Errorf("arion: object key %q contains whitespace", key)
	}
	return nil
}

// parseTag splits an arion struct tag into its name and options.
func parseTag(tag string) (string, map[string]bool) {
	parts := strings.Split(tag, ",")
	name := parts[0]
	options := make(map[string]bool)
	for _, part := range parts[1:] {
		options[strings.TrimSpace(part)] = true
	}
	return name, options
}

// isEmptyValue reports whether the value v is empty.
// It is equivalent to the `encoding/json` definition of empty:
// false, 0, a nil pointer, a nil interface value, and any empty array,
// slice, map, or string.
func isEmptyValue(v reflect.Value) bool {
	switch v.Kind() {
	case reflect.Array, reflect.Map, reflect.Slice, reflect.String:
		return v.Len() == 0
	case reflect.Bool:
		return !v.Bool()
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return v.Int() == 0
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return v.Uint() == 0
	case reflect.Float32, reflect.Float64:
		return v.Float() == 0
	case reflect.Interface, reflect.Pointer:
		return v.IsNil()
	}
	return false
}
