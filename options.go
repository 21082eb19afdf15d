package emergent

import (
	"io"

	"github.com/deepnoodle-ai/emergent/importer"
	"github.com/deepnoodle-ai/emergent/optimizer"
	"github.com/deepnoodle-ai/emergent/vm"
	"github.com/rs/zerolog"
)

// Option configures a compilation or execution.
type Option func(*options)

type options struct {
	level        optimizer.Level
	seed         int64
	seeded       bool
	output       io.Writer
	logger       zerolog.Logger
	importer     importer.Importer
	strict       bool
	filename     string
	bytecode     bool
	observer     vm.Observer
	hotThreshold int
	hotDisabled  bool
}

func collectOptions(opts ...Option) *options {
	o := &options{logger: zerolog.Nop()}
	for _, opt := range opts {
		if opt != nil {
			opt(o)
		}
	}
	return o
}

// WithOptimization sets the optimizer level applied after parsing. The
// default is optimizer.None.
func WithOptimization(level optimizer.Level) Option {
	return func(o *options) {
		o.level = level
	}
}

// WithSeed seeds distributions created without an explicit seed, making
// sampling reproducible across runs and across engines.
func WithSeed(seed int64) Option {
	return func(o *options) {
		o.seed = seed
		o.seeded = true
	}
}

// WithOutput sets the writer print writes to. The default is os.Stdout.
func WithOutput(w io.Writer) Option {
	return func(o *options) {
		o.output = w
	}
}

// WithLogger sets the logger shared by the optimizer and the engine.
func WithLogger(logger zerolog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithImporter supplies an Importer used to execute import statements.
// Imports are only available to the interpreter.
func WithImporter(i importer.Importer) Option {
	return func(o *options) {
		o.importer = i
	}
}

// WithLocalImporter enables importing source files from the given directory.
func WithLocalImporter(dir string) Option {
	return WithImporter(importer.NewLocalImporter(dir))
}

// WithStrictVariables makes reading an undefined variable a fault instead
// of yielding 0.
func WithStrictVariables() Option {
	return func(o *options) {
		o.strict = true
	}
}

// WithFilename sets the filename reported in errors.
func WithFilename(filename string) Option {
	return func(o *options) {
		o.filename = filename
	}
}

// WithBytecode runs programs on the register virtual machine instead of the
// tree-walking interpreter.
func WithBytecode() Option {
	return func(o *options) {
		o.bytecode = true
	}
}

// WithObserver sets an observer for virtual machine execution events. It
// implies WithBytecode.
func WithObserver(observer vm.Observer) Option {
	return func(o *options) {
		o.observer = observer
		o.bytecode = true
	}
}

// WithHotPathThreshold tunes the virtual machine hot-path cache.
func WithHotPathThreshold(n int) Option {
	return func(o *options) {
		o.hotThreshold = n
	}
}

// WithoutHotPath disables the virtual machine hot-path cache.
func WithoutHotPath() Option {
	return func(o *options) {
		o.hotDisabled = true
	}
}
