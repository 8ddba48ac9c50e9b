package arion_test

import (
	stderrors "errors"
	"strings"
	"testing"

	arion "github.com/alpinum/go-arion"
	"github.com/alpinum/go-arion/ast"
	arionerrors "github.com/alpinum/go-arion/errors"
	"github.com/stretchr/testify/require"
)

func TestMarshalScenarios(t *testing.T) {
	t.Run("flat object", func(t *testing.T) {
		type person struct {
			Name   string `arion:"name"`
			Age    int    `arion:"age"`
			Active bool   `arion:"active"`
		}
		b, err := arion.Marshal(person{Name: "Joachim", Age: 37, Active: true}, arion.OmitHeader())
		require.NoError(t, err)
		require.Equal(t, ".name Joachim\n.age 37\n.active true\n", string(b))
	})

	t.Run("forced string markers", func(t *testing.T) {
		type doc struct {
			Flag           string `arion:"flag"`
			NumberAsString string `arion:"number_as_string"`
			NullAsString   string `arion:"null_as_string"`
		}
		b, err := arion.Marshal(doc{Flag: "true", NumberAsString: "37", NullAsString: "null"}, arion.OmitHeader())
		require.NoError(t, err)
		require.Equal(t, ".flag 'true\n.number_as_string '37\n.null_as_string 'null\n", string(b))
	})

	t.Run("string array", func(t *testing.T) {
		b, err := arion.Marshal(map[string][]string{"skills": {"Python", "Audio", "AI"}}, arion.OmitHeader())
		require.NoError(t, err)
		require.Equal(t, ".skills\n  - Python\n  - Audio\n  - AI\n", string(b))
	})

	t.Run("multiline string", func(t *testing.T) {
		b, err := arion.Marshal(map[string]string{"bio": "Line one\nLine two\nLine three"}, arion.OmitHeader())
		require.NoError(t, err)
		require.Equal(t, ".bio\n  Line one\n  Line two\n  Line three\n", string(b))
	})

	t.Run("top-level array", func(t *testing.T) {
		b, err := arion.Marshal([]int{1, 2, 3}, arion.OmitHeader())
		require.NoError(t, err)
		require.Equal(t, "- 1\n- 2\n- 3\n", string(b))
	})
}

func TestUnmarshalScenarios(t *testing.T) {
	t.Run("flat object", func(t *testing.T) {
		var v map[string]any
		err := arion.Unmarshal([]byte(".name Joachim\n.age 37\n.active true\n"), &v)
		require.NoError(t, err)
		require.Equal(t, map[string]any{"name": "Joachim", "age": int64(37), "active": true}, v)
	})

	t.Run("forced strings stay strings", func(t *testing.T) {
		var v map[string]any
		err := arion.Unmarshal([]byte(".flag 'true\n.number_as_string '37\n.null_as_string 'null\n"), &v)
		require.NoError(t, err)
		require.Equal(t, map[string]any{"flag": "true", "number_as_string": "37", "null_as_string": "null"}, v)
	})

	t.Run("string array", func(t *testing.T) {
		var v map[string][]string
		err := arion.Unmarshal([]byte(".skills\n  - Python\n  - Audio\n  - AI\n"), &v)
		require.NoError(t, err)
		require.Equal(t, map[string][]string{"skills": {"Python", "Audio", "AI"}}, v)
	})

	t.Run("multiline string", func(t *testing.T) {
		var v map[string]string
		err := arion.Unmarshal([]byte(".bio\n  Line one\n  Line two\n  Line three\n"), &v)
		require.NoError(t, err)
		require.Equal(t, "Line one\nLine two\nLine three", v["bio"])
	})

	t.Run("top-level array", func(t *testing.T) {
		var v []int
		err := arion.Unmarshal([]byte("- 1\n- 2\n- 3\n"), &v)
		require.NoError(t, err)
		require.Equal(t, []int{1, 2, 3}, v)
	})

	t.Run("header and comments are discarded", func(t *testing.T) {
		src := "!ARION 1.0\n\n# a person\n.name Ada\n"
		var v map[string]any
		err := arion.Unmarshal([]byte(src), &v)
		require.NoError(t, err)
		require.Equal(t, map[string]any{"name": "Ada"}, v)
	})
}

func TestRoundTrip(t *testing.T) {
	values := []any{
		map[string]any{"name": "Joachim", "age": int64(37), "active": true},
		map[string]any{"flag": "true", "n": "37", "null": "null", "quote": "'q", "padded": " x"},
		map[string]any{"skills": []any{"Python", "Audio", "AI"}},
		map[string]any{"bio": "Line one\nLine two\nLine three"},
		[]any{int64(1), int64(2), int64(3)},
		[]any{"a\nb", map[string]any{"deep": []any{nil, false, 0.5}}},
		map[string]any{"nested": map[string]any{"a": int64(1), "b": map[string]any{"c": "x"}}},
	}
	for _, v := range values {
		b, err := arion.Marshal(v)
		require.NoError(t, err)
		var got any
		require.NoError(t, arion.Unmarshal(b, &got))
		require.Equal(t, v, got, "encoded form:\n%s", b)
	}
}

func TestRoundTripTrailingSegmentWhitespace(t *testing.T) {
	// Trailing whitespace on a multiline segment is trimmed on the first
	// decode, so the re-encoded text decodes to the same value.
	var v1 map[string]string
	require.NoError(t, arion.Unmarshal([]byte(".k\n  a \n"), &v1))
	require.Equal(t, "a", v1["k"])

	b, err := arion.Marshal(v1, arion.OmitHeader())
	require.NoError(t, err)
	require.Equal(t, ".k a\n", string(b))

	var v2 map[string]string
	require.NoError(t, arion.Unmarshal(b, &v2))
	require.Equal(t, v1, v2)
}

func TestStringEscapeLaw(t *testing.T) {
	for _, s := range []string{"true", "false", "null", "37", "-3.14", "1e3", "0"} {
		b, err := arion.Marshal(map[string]string{"k": s}, arion.OmitHeader())
		require.NoError(t, err)
		require.Equal(t, ".k '"+s+"\n", string(b))

		var got map[string]string
		require.NoError(t, arion.Unmarshal(b, &got))
		require.Equal(t, s, got["k"])
	}
}

func TestHeaderDefault(t *testing.T) {
	b, err := arion.Marshal(map[string]int{"a": 1})
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(string(b), "!ARION 1.0\n\n"))
}

func TestDecodeErrors(t *testing.T) {
	t.Run("tab rejection", func(t *testing.T) {
		var v any
		err := arion.Unmarshal([]byte(".a\n\t.b 1\n"), &v)
		var tabErr *arionerrors.TabIndentationError
		require.True(t, stderrors.As(err, &tabErr))
	})

	t.Run("mixed container rejection", func(t *testing.T) {
		var v any
		err := arion.Unmarshal([]byte(".a 1\n- x\n"), &v)
		var mixed *arionerrors.MixedContainerError
		require.True(t, stderrors.As(err, &mixed))
	})

	t.Run("malformed line", func(t *testing.T) {
		var v any
		err := arion.Unmarshal([]byte("free text\n"), &v)
		var malformed *arionerrors.MalformedLineError
		require.True(t, stderrors.As(err, &malformed))
		require.Contains(t, err.Error(), "free text")
	})
}

func TestParseAndFormat(t *testing.T) {
	t.Run("key order is preserved", func(t *testing.T) {
		v, err := arion.Parse([]byte(".z 1\n.a 2\n.m 3\n"))
		require.NoError(t, err)
		obj, ok := v.(*ast.Object)
		require.True(t, ok)
		require.Equal(t, "z", obj.Members[0].Key)
		require.Equal(t, "a", obj.Members[1].Key)
		require.Equal(t, "m", obj.Members[2].Key)

		out, err := arion.Format(v, arion.OmitHeader())
		require.NoError(t, err)
		require.Equal(t, ".z 1\n.a 2\n.m 3\n", string(out))
	})

	t.Run("empty document parses as null", func(t *testing.T) {
		v, err := arion.Parse([]byte("# only a comment\n"))
		require.NoError(t, err)
		require.Equal(t, &ast.Null{}, v)
	})

	t.Run("tree round trip", func(t *testing.T) {
		src := "!ARION 1.0\n\n.profile\n  .skills\n    - Python\n    - Audio\n  .bio\n    Line one\n    Line two\n"
		v, err := arion.Parse([]byte(src))
		require.NoError(t, err)
		out, err := arion.Format(v)
		require.NoError(t, err)
		require.Equal(t, src, string(out))
	})
}

func TestASTValuePassthrough(t *testing.T) {
	t.Run("marshal a value tree", func(t *testing.T) {
		v := &ast.Object{Members: []ast.Member{
			{Key: "b", Value: &ast.Int{Value: 2}},
			{Key: "a", Value: &ast.Int{Value: 1}},
		}}
		b, err := arion.Marshal(v, arion.OmitHeader())
		require.NoError(t, err)
		require.Equal(t, ".b 2\n.a 1\n", string(b))
	})

	t.Run("unmarshal into a value tree", func(t *testing.T) {
		var v ast.Value
		err := arion.Unmarshal([]byte(".b 2\n.a 1\n"), &v)
		require.NoError(t, err)
		obj, ok := v.(*ast.Object)
		require.True(t, ok)
		require.Equal(t, "b", obj.Members[0].Key)
	})
}

func TestUniformlyIndentedDocument(t *testing.T) {
	var v map[string]int
	err := arion.Unmarshal([]byte("  .a 1\n  .b 2\n"), &v)
	require.NoError(t, err)
	require.Equal(t, map[string]int{"a": 1, "b": 2}, v)
}

func TestOptionValidation(t *testing.T) {
	_, err := arion.Marshal(map[string]int{"a": 1}, arion.Indent(0))
	require.Error(t, err)
	require.Contains(t, err.Error(), "indent width")

	_, err = arion.Marshal(map[string]int{"a": 1}, arion.MaxDepth(-1))
	require.Error(t, err)
	require.Contains(t, err.Error(), "max depth")
}
