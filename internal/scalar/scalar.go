// Package scalar implements the leaf value grammar shared by the parser
// and the writer: type inference for raw scalar text, and the inverse
// canonical formatting.
package scalar

import (
	"strconv"
	"strings"

	"github.com/alpinum/go-arion/ast"
)

// Resolve infers the type of a raw inline value. The rules apply in
// strict priority order; the first match wins:
//
//  1. empty text is the empty string
//  2. a leading ' forces the remainder to be a string
//  3. true / false
//  4. null
//  5. a JSON numeric literal
//  6. anything else is a string, verbatim
//
// The raw text is trimmed of surrounding whitespace first.
func Resolve(raw string) ast.Value {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return &ast.String{Value: ""}
	}
	if raw[0] == '\'' {
		return &ast.String{Value: raw[1:]}
	}
	switch raw {
	case "true":
		return &ast.Bool{Value: true}
	case "false":
		return &ast.Bool{Value: false}
	case "null":
		return &ast.Null{}
	}
	if isFloat, ok := IsNumber(raw); ok {
		if !isFloat {
			if n, err := strconv.ParseInt(raw, 10, 64); err == nil {
				return &ast.Int{Value: n}
			}
			// Overflows int64; fall through to float64.
		}
		if f, err := strconv.ParseFloat(raw, 64); err == nil {
			return &ast.Float{Value: f}
		}
		// Out of float64 range. Rule 6: not a hard error, a string.
	}
	return &ast.String{Value: raw}
}

// Format renders a scalar value as canonical inline text. It is the
// inverse of Resolve for every value Resolve can produce. Strings
// containing a newline take the multiline block path in the writer and
// must not reach Format.
func Format(v ast.Value) string {
	switch n := v.(type) {
	case *ast.Null:
		return "null"
	case *ast.Bool:
		if n.Value {
			return "true"
		}
		return "false"
	case *ast.Int:
		return strconv.FormatInt(n.Value, 10)
	case *ast.Float:
		return formatFloat(n.Value)
	case *ast.String:
		if NeedsMarker(n.Value) {
			return "'" + n.Value
		}
		return n.Value
	}
	return ""
}

// NeedsMarker reports whether s requires the forced-string ' marker: it
// is true exactly when resolving s would not yield s itself. This covers
// the keywords and numeric literals, and also strings with a leading '
// or leading whitespace.
func NeedsMarker(s string) bool {
	r, ok := Resolve(s).(*ast.String)
	return !ok || r.Value != s
}

func formatFloat(f float64) string {
	s := strconv.FormatFloat(f, 'g', -1, 64)
	// Keep floats distinguishable from integers across a round trip.
	if !strings.ContainsAny(s, ".eE") {
		s += ".0"
	}
	return s
}

// IsNumber reports whether s is a valid JSON numeric literal, and
// whether it carries a fraction or exponent.
func IsNumber(s string) (isFloat, ok bool) {
	if len(s) == 0 {
		return false, false
	}
	i := 0

	// Optional sign.
	if s[i] == '-' {
		if len(s) == 1 {
			return false, false
		}
		i++
	}

	// Integer part.
	i, ok = integerPart(s, i)
	if !ok {
		return false, false
	}

	// Fractional part.
	var fracFloat bool
	i, ok, fracFloat = fractionalPart(s, i)
	if !ok {
		return false, false
	}

	// Exponent part.
	var expFloat bool
	i, ok, expFloat = exponentPart(s, i)
	if !ok {
		return false, false
	}

	// Must consume the whole string.
	if i != len(s) {
		return false, false
	}
	return fracFloat || expFloat, true
}

func isDigit(ch byte) bool {
	return '0' <= ch && ch <= '9'
}

func consumeDigits(s string, i int) int {
	for i < len(s) && isDigit(s[i]) {
		i++
	}
	return i
}

func integerPart(s string, i int) (newIndex int, ok bool) {
	start := i
	i = consumeDigits(s, i)
	if i == start {
		return i, false // No digits found.
	}
	if i-start > 1 && s[start] == '0' {
		return i, false // Leading zeros are not allowed.
	}
	return i, true
}

func fractionalPart(s string, i int) (newIndex int, ok, isFloat bool) {
	if i >= len(s) || s[i] != '.' {
		return i, true, false
	}
	i++ // Consume '.'.
	start := i
	i = consumeDigits(s, i)
	if i == start {
		return i, false, true // No digits after '.'.
	}
	return i, true, true
}

func exponentPart(s string, i int) (newIndex int, ok, isFloat bool) {
	if i >= len(s) || (s[i] != 'e' && s[i] != 'E') {
		return i, true, false
	}
	i++ // Consume 'e' or 'E'.
	if i < len(s) && (s[i] == '+' || s[i] == '-') {
		i++
	}
	start := i
	i = consumeDigits(s, i)
	if i == start {
		return i, false, true // No digits in exponent.
	}
	return i, true, true
}
