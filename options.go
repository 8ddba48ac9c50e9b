package arion

import "fmt"

const defaultMaxDepth = 1000

// options holds the configuration shared by encoding and decoding.
type options struct {
	indent   int
	header   bool
	maxDepth int
}

func defaultOptions() options {
	return options{
		indent:   2,
		header:   true,
		maxDepth: defaultMaxDepth,
	}
}

// Option configures encoding or decoding behavior.
type Option func(*options) error

// Indent returns an Option that sets the number of spaces per
// indentation level when encoding.
//
// The width n must be a positive integer.
func Indent(n int) Option {
	return func(o *options) error {
		if n <= 0 {
			return fmt.Errorf("arion: indent width must be a positive integer")
		}
		o.indent = n
		return nil
	}
}

// OmitHeader returns an Option that suppresses the "!ARION 1.0" header
// when encoding. The header is emitted by default.
func OmitHeader() Option {
	return func(o *options) error {
		o.header = false
		return nil
	}
}

// MaxDepth returns an Option that sets the maximum nesting depth for
// encoding and decoding. This helps prevent stack overflows on deeply
// nested documents and bounds the encoder on cyclic input.
//
// The depth n must be a positive integer.
func MaxDepth(n int) Option {
	return func(o *options) error {
		if n <= 0 {
			return fmt.Errorf("arion: max depth must be a positive integer")
		}
		o.maxDepth = n
		return nil
	}
}
