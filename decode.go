package arion

import (
	"encoding"
	"fmt"
	"io"
	"reflect"
	"strings"
	"sync"

	"github.com/alpinum/go-arion/ast"
	"github.com/alpinum/go-arion/internal/formatter"
	"github.com/alpinum/go-arion/internal/lexer"
	"github.com/alpinum/go-arion/internal/parser"
)

// Decoder reads and decodes ARION values from an input stream.
type Decoder struct {
	r    io.Reader
	opts []Option
}

// NewDecoder returns a new decoder that reads from r.
//
// Functional options can be provided to configure the decoding process,
// such as setting a maximum nesting depth with the MaxDepth option.
func NewDecoder(r io.Reader, opts ...Option) *Decoder {
	return &Decoder{r: r, opts: opts}
}

// Decode reads the ARION-encoded value from its input and stores it in
// the value pointed to by out. If out is nil or not a pointer, Decode
// returns an error.
//
// Note: this is a non-streaming implementation. It reads the entire
// reader into memory before parsing.
func (d *Decoder) Decode(out any) error {
	if d.r == nil {
		return fmt.Errorf("arion: Decode(nil reader)")
	}
	data, err := io.ReadAll(d.r)
	if err != nil {
		return err
	}

	o := defaultOptions()
	for _, opt := range d.opts {
		if err := opt(&o); err != nil {
			return err
		}
	}

	lines, err := lexer.Scan(data)
	if err != nil {
		return err
	}
	root, err := parser.Parse(lines, o.maxDepth)
	if err != nil {
		return err
	}

	rv := reflect.ValueOf(out)
	if rv.Kind() != reflect.Pointer || rv.IsNil() {
		return fmt.Errorf("arion: Unmarshal(non-pointer %T or nil)", out)
	}
	ds := &decodeState{depth: o.maxDepth}
	return ds.mapValue(root, rv.Elem())
}

type decodeState struct {
	depth int
}

func (ds *decodeState) mapValue(node ast.Value, rv reflect.Value) error {
	ds.depth--
	if ds.depth < 0 {
		return fmt.Errorf("arion: reached max nesting depth")
	}
	defer func() { ds.depth++ }()

	// Targets asking for the value tree itself get it verbatim.
	if rv.Kind() == reflect.Interface && rv.Type() == astValueType {
		rv.Set(reflect.ValueOf(node))
		return nil
	}
	if rv.Kind() == reflect.Pointer && rv.Type() == reflect.TypeOf(node) {
		rv.Set(reflect.ValueOf(node))
		return nil
	}

	if _, isNull := node.(*ast.Null); isNull {
		switch rv.Kind() {
		case reflect.Interface, reflect.Pointer, reflect.Map, reflect.Slice:
			rv.Set(reflect.Zero(rv.Type()))
			return nil
		}
	}

	// Attempt to use a custom unmarshaler if available.
	handled, err := ds.tryCustomUnmarshal(node, rv)
	if err != nil {
		return err
	}
	if handled {
		return nil
	}

	for rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			rv.Set(reflect.New(rv.Type().Elem()))
		}
		rv = rv.Elem()
	}

	if rv.Kind() == reflect.Interface {
		return ds.mapInterface(node, rv)
	}
	if !rv.CanSet() {
		return fmt.Errorf("arion: cannot set value of type %s", rv.Type())
	}

	switch n := node.(type) {
	case *ast.Null:
		rv.Set(reflect.Zero(rv.Type()))
		return nil
	case *ast.String:
		return ds.mapString(n, rv)
	case *ast.Int:
		return ds.mapInt(n, rv)
	case *ast.Float:
		return ds.mapFloat(n, rv)
	case *ast.Bool:
		return ds.mapBool(n, rv)
	case *ast.Array:
		switch rv.Kind() {
		case reflect.Slice:
			return ds.mapSlice(n, rv)
		case reflect.Array:
			return ds.mapArray(n, rv)
		default:
			return fmt.Errorf("arion: cannot unmarshal array into Go value of type %s", rv.Type())
		}
	case *ast.Object:
		switch rv.Kind() {
		case reflect.Struct:
			return ds.mapStruct(n, rv)
		case reflect.Map:
			return ds.mapMap(n, rv)
		default:
			return fmt.Errorf("arion: cannot unmarshal object into Go value of type %s", rv.Type())
		}
	default:
		return fmt.Errorf("arion: no mapping for value of type %s", node.Type())
	}
}

// tryCustomUnmarshal attempts to use a custom unmarshaler
// (arion.Unmarshaler or encoding.TextUnmarshaler) on the given
// reflect.Value. It returns true if a custom unmarshaler was found and
// used, in which case the caller should not proceed with default
// unmarshaling.
func (ds *decodeState) tryCustomUnmarshal(node ast.Value, rv reflect.Value) (bool, error) {
	if !rv.CanAddr() {
		return false, nil
	}
	pv := rv.Addr()
	if !pv.CanInterface() {
		return false, nil
	}

	if u, ok := pv.Interface().(Unmarshaler); ok {
		var buf strings.Builder
		f := formatter.New(&buf, 2, false)
		if err := f.Format(node); err != nil {
			return true, fmt.Errorf("arion: failed to re-encode value for custom unmarshaler: %w", err)
		}
		if err := u.UnmarshalARION([]byte(buf.String())); err != nil {
			return true, &UnmarshalerError{Type: pv.Type(), Err: err}
		}
		return true, nil
	}

	if u, ok := pv.Interface().(encoding.TextUnmarshaler); ok {
		s, isString := node.(*ast.String)
		if !isString {
			// TextUnmarshaler can only be used on string values.
			return false, nil
		}
		if err := u.UnmarshalText([]byte(s.Value)); err != nil {
			return true, &UnmarshalerError{Type: pv.Type(), Err: err}
		}
		return true, nil
	}

	return false, nil
}

func (ds *decodeState) mapString(s *ast.String, rv reflect.Value) error {
	if rv.Kind() != reflect.String {
		return fmt.Errorf("arion: cannot unmarshal string into Go value of type %s", rv.Type())
	}
	rv.SetString(s.Value)
	return nil
}

func (ds *decodeState) mapInt(i *ast.Int, rv reflect.Value) error {
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		if rv.OverflowInt(i.Value) {
			return fmt.Errorf("arion: integer value %d overflows Go value of type %s", i.Value, rv.Type())
		}
		rv.SetInt(i.Value)
		return nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		if i.Value < 0 || rv.OverflowUint(uint64(i.Value)) {
			return fmt.Errorf("arion: integer value %d overflows Go value of type %s", i.Value, rv.Type())
		}
		rv.SetUint(uint64(i.Value))
		return nil
	case reflect.Float32, reflect.Float64:
		// An integer literal fills a float field, as in encoding/json.
		rv.SetFloat(float64(i.Value))
		return nil
	default:
		return fmt.Errorf("arion: cannot unmarshal integer into Go value of type %s", rv.Type())
	}
}

func (ds *decodeState) mapFloat(f *ast.Float, rv reflect.Value) error {
	switch rv.Kind() {
	case reflect.Float32, reflect.Float64:
		if rv.OverflowFloat(f.Value) {
			return fmt.Errorf("arion: float value %f overflows Go value of type %s", f.Value, rv.Type())
		}
		rv.SetFloat(f.Value)
		return nil
	default:
		return fmt.Errorf("arion: cannot unmarshal float into Go value of type %s", rv.Type())
	}
}

func (ds *decodeState) mapBool(b *ast.Bool, rv reflect.Value) error {
	if rv.Kind() != reflect.Bool {
		return fmt.Errorf("arion: cannot unmarshal boolean into Go value of type %s", rv.Type())
	}
	rv.SetBool(b.Value)
	return nil
}

func (ds *decodeState) mapSlice(a *ast.Array, rv reflect.Value) error {
	newSlice := reflect.MakeSlice(rv.Type(), len(a.Items), len(a.Items))
	for i, item := range a.Items {
		if err := ds.mapValue(item, newSlice.Index(i)); err != nil {
			return err
		}
	}
	rv.Set(newSlice)
	return nil
}

func (ds *decodeState) mapArray(a *ast.Array, rv reflect.Value) error {
	if rv.Len() != len(a.Items) {
		return fmt.Errorf("arion: cannot unmarshal array of length %d into Go array of length %d", len(a.Items), rv.Len())
	}
	for i, item := range a.Items {
		if err := ds.mapValue(item, rv.Index(i)); err != nil {
			return err
		}
	}
	return nil
}

func (ds *decodeState) mapMap(obj *ast.Object, rv reflect.Value) error {
	mapType := rv.Type()
	if mapType.Key().Kind() != reflect.String {
		return fmt.Errorf("arion: cannot unmarshal object into map with non-string key type %s", mapType.Key())
	}
	if rv.IsNil() {
		rv.Set(reflect.MakeMap(mapType))
	} else {
		for _, k := range rv.MapKeys() {
			rv.SetMapIndex(k, reflect.Value{}) // The zero Value deletes the key
		}
	}
	elemType := mapType.Elem()
	for _, m := range obj.Members {
		newVal := reflect.New(elemType).Elem()
		if err := ds.mapValue(m.Value, newVal); err != nil {
			return err
		}
		rv.SetMapIndex(reflect.ValueOf(m.Key), newVal)
	}
	return nil
}

func (ds *decodeState) mapStruct(obj *ast.Object, rv reflect.Value) error {
	fields := cachedFields(rv.Type())
	for _, m := range obj.Members {
		if targetField := findField(fields, m.Key); targetField != nil {
			fieldVal := rv.FieldByIndex(targetField.idx)
			if fieldVal.IsValid() && fieldVal.CanSet() {
				if err := ds.mapValue(m.Value, fieldVal); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

func (ds *decodeState) mapInterface(node ast.Value, rv reflect.Value) error {
	if rv.NumMethod() != 0 {
		return fmt.Errorf("arion: cannot unmarshal into non-empty interface %s", rv.Type())
	}
	var concreteVal reflect.Value
	switch node.(type) {
	case *ast.Null:
		rv.Set(reflect.Zero(rv.Type()))
		return nil
	case *ast.String:
		var s string
		concreteVal = reflect.ValueOf(&s).Elem()
	case *ast.Int:
		var i int64
		concreteVal = reflect.ValueOf(&i).Elem()
	case *ast.Float:
		var f float64
		concreteVal = reflect.ValueOf(&f).Elem()
	case *ast.Bool:
		var b bool
		concreteVal = reflect.ValueOf(&b).Elem()
	case *ast.Array:
		var a []any
		concreteVal = reflect.ValueOf(&a).Elem()
	case *ast.Object:
		var o map[string]any
		concreteVal = reflect.ValueOf(&o).Elem()
	default:
		return fmt.Errorf("arion: cannot determine concrete type for value of type %s", node.Type())
	}
	if err := ds.mapValue(node, concreteVal); err != nil {
		return err
	}
	rv.Set(concreteVal)
	return nil
}

// findField finds the target field in a struct's cached fields.
// It first attempts a case-sensitive match, then falls back to a
// case-insensitive match.
func findField(fields map[string]field, key string) *field {
	if f, ok := fields[key]; ok {
		return &f
	}
	if f, ok := fields[strings.ToLower(key)]; ok {
		return &f
	}
	return nil
}

// A field represents a single field in a struct.
type field struct {
	idx []int
}

// fieldCache caches a map of struct field names to their properties.
var fieldCache sync.Map // map[reflect.Type]map[string]field

// cachedFields returns a map of field names to field properties for the
// given type. The result is cached to avoid repeated reflection work.
func cachedFields(t reflect.Type) map[string]field {
	if f, ok := fieldCache.Load(t); ok {
		if fields, ok := f.(map[string]field); ok {
			return fields
		}
	}

	fields := make(map[string]field)
	var walk func(t reflect.Type, idx []int)
	walk = func(t reflect.Type, idx []int) {
		for i := 0; i < t.NumField(); i++ {
			sf := t.Field(i)
			if sf.Anonymous && sf.Type.Kind() == reflect.Struct {
				// Recurse into embedded structs.
				walk(sf.Type, append(idx, i))
				continue
			}
			if !sf.IsExported() {
				continue
			}

			tag := sf.Tag.Get("arion")
			if tag == "-" {
				continue
			}

			f := field{idx: append(append([]int(nil), idx...), i)}
			tagName := strings.Split(tag, ",")[0]

			// Store entries for the original tag name and field name.
			if tagName != "" {
				fields[tagName] = f
			}
			fields[sf.Name] = f

			// Store lower-cased versions for case-insensitive fallback,
			// but do not overwrite an existing case-sensitive match.
			if tagName != "" {
				lowerTagName := strings.ToLower(tagName)
				if _, ok := fields[lowerTagName]; !ok {
					fields[lowerTagName] = f
				}
			}
			lowerFieldName := strings.ToLower(sf.Name)
			if _, ok := fields[lowerFieldName]; !ok {
				fields[lowerFieldName] = f
			}
		}
	}
	walk(t, nil)

	fieldCache.Store(t, fields)
	return fields
}
