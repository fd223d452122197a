package logger

import "io"

// Supported output formats.
const (
	FormatText = "text"
	FormatJSON = "json"
)

type options struct {
	output io.Writer
	format string
	source bool
}

// Option configures Init.
type Option func(*options)

// WithOutput sets the writer logs are written to.
func WithOutput(w io.Writer) Option {
	return func(o *options) {
		if w != nil {
			o.output = w
		}
	}
}

// WithFormat selects "text" or "json" output.
func WithFormat(format string) Option {
	return func(o *options) {
		if format != "" {
			o.format = format
		}
	}
}

// WithSource toggles the source=file:line field.
func WithSource(enabled bool) Option {
	return func(o *options) {
		o.source = enabled
	}
}
