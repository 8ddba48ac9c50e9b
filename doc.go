/*
Package arion provides an idiomatic Go interface for parsing and encoding
ARION (Alpinum Readable Indented Object Notation), a reversible,
indentation-based text encoding of the JSON value model. The library's
API is designed to be familiar to Go developers, closely mirroring the
standard `encoding/json` package.

An ARION document is a sequence of lines. Object keys are introduced with
a leading dot, array items with a dash, and nesting with indentation:

	!ARION 1.0

	.name Joachim
	.age 37
	.active true
	.skills
	  - Python
	  - Audio
	  - AI
	.bio
	  Line one
	  Line two

Scalars are typed by inference: `true`, `false`, `null` and JSON numeric
literals resolve to their obvious types, everything else is a string. A
leading apostrophe disables inference, so `.flag 'true` is the
three-character string "true". Comments (`#`) and the version header are
discarded during decoding.

The package offers two workflows:

1. Data-Oriented Decoding and Encoding

For the common task of converting ARION data into Go structs (and vice
versa), Marshal and Unmarshal provide a simple and direct API:

	var data = []byte(".name ARION\n.version 1\n")

	type Config struct {
		Name    string `arion:"name"`
		Version int    `arion:"version"`
	}

	var cfg Config
	if err := arion.Unmarshal(data, &cfg); err != nil {
		// handle error
	}

Struct encoding honors `arion:"name,omitempty"` tags, and types may
customize their representation by implementing the Marshaler and
Unmarshaler interfaces (or encoding.TextMarshaler/TextUnmarshaler).

2. Value-Tree Manipulation

Parse and Format operate on the ast.Value tree directly. The tree keeps
object members in declaration order, so Parse followed by Format is a
faithful canonicalizer:

	v, err := arion.Parse(src)
	if err != nil {
		// handle error
	}
	out, err := arion.Format(v, arion.OmitHeader())

ToJSON, FromJSON and JSONValue convert between ARION and JSON without
disturbing key order.

Decoding is whole-input and side-effect free; concurrent calls need no
coordination. Nesting depth is bounded (default 1000, configurable with
MaxDepth), which also protects the encoder against cyclic input, since a
cyclic value cannot otherwise be detected.

Known format limitations: an empty array is indistinguishable from an
empty object on the wire, and trailing whitespace on any line of a
string is trimmed during decoding. Not every string has a document
form: one whose lines carry trailing whitespace, or whose multiline
segments are blank or begin with whitespace, a structural marker, a
comment or a header prefix, cannot be written so that it decodes back
to itself. Marshal and Format reject such strings rather than emit
text that would decode to a different value.
*/
package arion
