package interpreter

import (
	"io"

	"github.com/deepnoodle-ai/emergent/importer"
	"github.com/rs/zerolog"
)

// Option is a configuration function for an Interpreter.
type Option func(*Interpreter)

// WithOutput sets the writer print writes to. The default is os.Stdout.
func WithOutput(w io.Writer) Option {
	return func(in *Interpreter) {
		in.output = w
	}
}

// WithSeed seeds the generator used for distributions created without an
// explicit seed. Runs with the same seed are reproducible.
func WithSeed(seed int64) Option {
	return func(in *Interpreter) {
		in.seed = seed
		in.seeded = true
	}
}

// WithLogger sets the logger used for diagnostics. The default discards
// all output.
func WithLogger(logger zerolog.Logger) Option {
	return func(in *Interpreter) {
		in.logger = logger
	}
}

// WithImporter supplies the Importer used to execute import statements.
// Without one, import is a fault.
func WithImporter(i importer.Importer) Option {
	return func(in *Interpreter) {
		in.importer = i
	}
}

// WithStrictVariables makes reading an undefined variable a name fault
// instead of yielding 0.
func WithStrictVariables() Option {
	return func(in *Interpreter) {
		in.strict = true
	}
}

// WithFilename sets the filename reported in fault locations.
func WithFilename(filename string) Option {
	return func(in *Interpreter) {
		in.filename = filename
	}
}

// WithSource supplies the program text so that faults can show the
// offending source line.
func WithSource(source string) Option {
	return func(in *Interpreter) {
		in.source = source
	}
}

// WithMaxCallDepth overrides MaxCallDepth.
func WithMaxCallDepth(depth int) Option {
	return func(in *Interpreter) {
		in.maxDepth = depth
	}
}
