package arion

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/alpinum/go-arion/ast"
)

// ToJSON converts ARION text to compact JSON. Object key order is
// preserved exactly as declared in the source.
func ToJSON(data []byte) ([]byte, error) {
	v, err := Parse(data)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := writeJSON(&buf, v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// FromJSON converts JSON text to ARION text, preserving object key
// order. Encoding options such as Indent and OmitHeader apply.
func FromJSON(data []byte, opts ...Option) ([]byte, error) {
	v, err := JSONValue(data)
	if err != nil {
		return nil, err
	}
	return Format(v, opts...)
}

// JSONValue parses JSON text into an ARION value tree. The token stream
// is consumed directly so that object key order survives, which a
// map[string]any round trip would lose.
func JSONValue(data []byte) (ast.Value, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	v, err := readJSONValue(dec)
	if err != nil {
		return nil, fmt.Errorf("arion: invalid JSON: %w", err)
	}
	if dec.More() {
		return nil, fmt.Errorf("arion: trailing content after JSON value")
	}
	return v, nil
}

func writeJSON(buf *bytes.Buffer, v ast.Value) error {
	switch n := v.(type) {
	case *ast.Null:
		buf.WriteString("null")
	case *ast.Bool:
		buf.WriteString(strconv.FormatBool(n.Value))
	case *ast.Int:
		buf.WriteString(strconv.FormatInt(n.Value, 10))
	case *ast.Float:
		s := strconv.FormatFloat(n.Value, 'g', -1, 64)
		if !strings.ContainsAny(s, ".eE") {
			s += ".0"
		}
		buf.WriteString(s)
	case *ast.String:
		quoted, err := json.Marshal(n.Value)
		if err != nil {
			return err
		}
		buf.Write(quoted)
	case *ast.Array:
		buf.WriteByte('[')
		for i, item := range n.Items {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := writeJSON(buf, item); err != nil {
				return err
			}
		}
		buf.WriteByte(']')
	case *ast.Object:
		buf.WriteByte('{')
		for i, m := range n.Members {
			if i > 0 {
				buf.WriteByte(',')
			}
			quoted, err := json.Marshal(m.Key)
			if err != nil {
				return err
			}
			buf.Write(quoted)
			buf.WriteByte(':')
			if err := writeJSON(buf, m.Value); err != nil {
				return err
			}
		}
		buf.WriteByte('}')
	default:
		return fmt.Errorf("arion: cannot encode value of type %s as JSON", v.Type())
	}
	return nil
}

func readJSONValue(dec *json.Decoder) (ast.Value, error) {
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	switch t := tok.(type) {
	case nil:
		return &ast.Null{}, nil
	case bool:
		return &ast.Bool{Value: t}, nil
	case string:
		return &ast.String{Value: t}, nil
	case json.Number:
		if !strings.ContainsAny(t.String(), ".eE") {
			if n, err := t.Int64(); err == nil {
				return &ast.Int{Value: n}, nil
			}
		}
		f, err := t.Float64()
		if err != nil {
			return nil, err
		}
		return &ast.Float{Value: f}, nil
	case json.Delim:
		switch t {
		case '[':
			arr := &ast.Array{}
			for dec.More() {
				item, err := readJSONValue(dec)
				if err != nil {
					return nil, err
				}
				arr.Items = append(arr.Items, item)
			}
			if _, err := dec.Token(); err != nil { // consume ']'
				return nil, err
			}
			return arr, nil
		case '{':
			obj := &ast.Object{}
			for dec.More() {
				keyTok, err := dec.Token()
				if err != nil {
					return nil, err
				}
				key, ok := keyTok.(string)
				if !ok {
					return nil, fmt.Errorf("unexpected object key token %v", keyTok)
				}
				val, err := readJSONValue(dec)
				if err != nil {
					return nil, err
				}
				obj.Set(key, val)
			}
			if _, err := dec.Token(); err != nil { // consume '}'
				return nil, err
			}
			return obj, nil
		}
	}
	return nil, fmt.Errorf("unexpected JSON token %v", tok)
}
