// Package emergent runs programs written in the emergent probabilistic
// scripting language.
//
// Source is lexed, parsed, optionally optimized and then either evaluated by
// the tree-walking interpreter or compiled to bytecode and executed by the
// register virtual machine. Both engines produce the same results:
//
//	result, err := emergent.Run(ctx, `sample(normal(0, 1))`, emergent.WithSeed(1))
//	result, err := emergent.Run(ctx, source, emergent.WithBytecode())
package emergent

import (
	"context"

	"github.com/deepnoodle-ai/emergent/ast"
	"github.com/deepnoodle-ai/emergent/bytecode"
	"github.com/deepnoodle-ai/emergent/compiler"
	"github.com/deepnoodle-ai/emergent/interpreter"
	"github.com/deepnoodle-ai/emergent/object"
	"github.com/deepnoodle-ai/emergent/optimizer"
	"github.com/deepnoodle-ai/emergent/parser"
	"github.com/deepnoodle-ai/emergent/vm"
)

// Parse returns the optimized syntax tree for source. Lex and parse errors
// are returned as-is; there is no partial program.
func Parse(ctx context.Context, source string, opts ...Option) (*ast.Program, error) {
	return collectOptions(opts...).parse(ctx, source)
}

// Run evaluates source and returns the value of its final statement, or
// nil when the program ends with a binding statement.
func Run(ctx context.Context, source string, opts ...Option) (object.Object, error) {
	o := collectOptions(opts...)
	program, err := o.parse(ctx, source)
	if err != nil {
		return nil, err
	}
	if o.bytecode {
		code, err := o.compile(program, source)
		if err != nil {
			return nil, err
		}
		return vm.Run(ctx, code, o.vmOpts()...)
	}
	return interpreter.New(o.interpreterOpts(source)...).Eval(ctx, program)
}

// Eval is like Run but returns the result as a native Go value: float64,
// string, bool, []any, a map describing a distribution, or nil. Functions
// are returned as their printed representation.
func Eval(ctx context.Context, source string, opts ...Option) (any, error) {
	result, err := Run(ctx, source, opts...)
	if err != nil {
		return nil, err
	}
	switch result.(type) {
	case *object.Function, *object.Builtin:
		return result.Inspect(), nil
	}
	return result.Interface(), nil
}

// CompileToBytecode parses, optimizes and compiles source without running
// it. The returned Code is immutable and safe for concurrent use.
func CompileToBytecode(source string, opts ...Option) (*bytecode.Code, error) {
	o := collectOptions(opts...)
	program, err := o.parse(context.Background(), source)
	if err != nil {
		return nil, err
	}
	return o.compile(program, source)
}

func (o *options) parse(ctx context.Context, source string) (*ast.Program, error) {
	var parserOpts []parser.Option
	if o.filename != "" {
		parserOpts = append(parserOpts, parser.WithFilename(o.filename))
	}
	program, err := parser.Parse(ctx, source, parserOpts...)
	if err != nil {
		return nil, err
	}
	if o.level == optimizer.None {
		return program, nil
	}
	optimized, _ := optimizer.Optimize(program, o.level, optimizer.WithLogger(o.logger))
	return optimized, nil
}

func (o *options) compile(program *ast.Program, source string) (*bytecode.Code, error) {
	logger := o.logger
	return compiler.Compile(program, &compiler.Config{
		Filename: o.filename,
		Source:   source,
		Logger:   &logger,
	})
}

func (o *options) interpreterOpts(source string) []interpreter.Option {
	opts := []interpreter.Option{
		interpreter.WithLogger(o.logger),
		interpreter.WithSource(source),
	}
	if o.filename != "" {
		opts = append(opts, interpreter.WithFilename(o.filename))
	}
	if o.output != nil {
		opts = append(opts, interpreter.WithOutput(o.output))
	}
	if o.seeded {
		opts = append(opts, interpreter.WithSeed(o.seed))
	}
	if o.importer != nil {
		opts = append(opts, interpreter.WithImporter(o.importer))
	}
	if o.strict {
		opts = append(opts, interpreter.WithStrictVariables())
	}
	return opts
}

func (o *options) vmOpts() []vm.Option {
	opts := []vm.Option{vm.WithLogger(o.logger)}
	if o.output != nil {
		opts = append(opts, vm.WithOutput(o.output))
	}
	if o.seeded {
		opts = append(opts, vm.WithSeed(o.seed))
	}
	if o.strict {
		opts = append(opts, vm.WithStrictVariables())
	}
	if o.observer != nil {
		opts = append(opts, vm.WithObserver(o.observer))
	}
	if o.hotThreshold > 0 {
		opts = append(opts, vm.WithHotPathThreshold(o.hotThreshold))
	}
	if o.hotDisabled {
		opts = append(opts, vm.WithoutHotPath())
	}
	return opts
}
