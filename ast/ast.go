// Package ast defines the in-memory representation of an ARION document:
// a tagged union over the JSON value model. Object members keep their
// insertion order so that re-encoding a decoded tree is deterministic.
package ast

import (
	"strconv"
	"strings"
)

// Type identifies the variant of a Value.
type Type int

const (
	NullType Type = iota
	BoolType
	IntType
	FloatType
	StringType
	ArrayType
	ObjectType
)

func (t Type) String() string {
	switch t {
	case NullType:
		return "null"
	case BoolType:
		return "bool"
	case IntType:
		return "int"
	case FloatType:
		return "float"
	case StringType:
		return "string"
	case ArrayType:
		return "array"
	case ObjectType:
		return "object"
	}
	return "<unknown type>"
}

// Value is the base interface for all ARION values.
type Value interface {
	// Type returns the variant of the value.
	Type() Type
	// String returns a compact debug representation of the value.
	String() string

	valueNode()
}

// Null represents the null value.
type Null struct{}

func (n *Null) valueNode()     {}
func (n *Null) Type() Type     { return NullType }
func (n *Null) String() string { return "null" }

// Bool represents a boolean value.
type Bool struct {
	Value bool
}

func (b *Bool) valueNode() {}
func (b *Bool) Type() Type { return BoolType }
func (b *Bool) String() string {
	if b.Value {
		return "true"
	}
	return "false"
}

// Int represents an integer number.
type Int struct {
	Value int64
}

func (i *Int) valueNode()     {}
func (i *Int) Type() Type     { return IntType }
func (i *Int) String() string { return strconv.FormatInt(i.Value, 10) }

// Float represents a floating point number.
type Float struct {
	Value float64
}

func (f *Float) valueNode()     {}
func (f *Float) Type() Type     { return FloatType }
func (f *Float) String() string { return strconv.FormatFloat(f.Value, 'g', -1, 64) }

// String represents a string value.
type String struct {
	Value string
}

func (s *String) valueNode()     {}
func (s *String) Type() Type     { return StringType }
func (s *String) String() string { return strconv.Quote(s.Value) }

// Array represents an ordered sequence of values.
type Array struct {
	Items []Value
}

func (a *Array) valueNode() {}
func (a *Array) Type() Type { return ArrayType }
func (a *Array) String() string {
	var out strings.Builder
	out.WriteString("[")
	for i, item := range a.Items {
		if i > 0 {
			out.WriteString(", ")
		}
		out.WriteString(item.String())
	}
	out.WriteString("]")
	return out.String()
}

// Member is a single key/value pair of an Object.
type Member struct {
	Key   string
	Value Value
}

// Object represents an ordered mapping from unique string keys to values.
// Members preserve the order in which keys were first assigned.
type Object struct {
	Members []Member
}

func (o *Object) valueNode() {}
func (o *Object) Type() Type { return ObjectType }
func (o *Object) String() string {
	var out strings.Builder
	out.WriteString("{")
	for i, m := range o.Members {
		if i > 0 {
			out.WriteString(", ")
		}
		out.WriteString(m.Key)
		out.WriteString(": ")
		out.WriteString(m.Value.String())
	}
	out.WriteString("}")
	return out.String()
}

// Len returns the number of members.
func (o *Object) Len() int { return len(o.Members) }

// Get returns the value for key and whether the key is present.
func (o *Object) Get(key string) (Value, bool) {
	for _, m := range o.Members {
		if m.Key == key {
			return m.Value, true
		}
	}
	return nil, false
}

// Set assigns key to v. An existing key is replaced in place so its
// original position is kept; a new key is appended.
func (o *Object) Set(key string, v Value) {
	for i, m := range o.Members {
		if m.Key == key {
			o.Members[i].Value = v
			return
		}
	}
	o.Members = append(o.Members, Member{Key: key, Value: v})
}
