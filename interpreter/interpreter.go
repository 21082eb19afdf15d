// Package interpreter evaluates a syntax tree directly.
//
// All state belongs to an Interpreter value: the global scope, the
// function table, recorded morph and goal statements, diagnostics and the
// random generator. Separate interpreters never share state.
package interpreter

import (
	"context"
	"io"
	"time"

	"github.com/deepnoodle-ai/emergent/ast"
	"github.com/deepnoodle-ai/emergent/importer"
	"github.com/deepnoodle-ai/emergent/object"
	"github.com/gofrs/uuid"
	"github.com/hashicorp/go-multierror"
	"github.com/rs/zerolog"
)

// MaxCallDepth is the default limit on nested function calls.
const MaxCallDepth = 1024

// Interpreter is a tree-walking evaluator.
type Interpreter struct {
	id          uuid.UUID
	globals     *object.Environment
	functions   map[string]*object.Function
	morphs      map[string]*ast.Morph
	goals       []ast.Expr
	diagnostics *multierror.Error
	runtime     *object.Runtime
	output      io.Writer
	seed        int64
	seeded      bool
	logger      zerolog.Logger
	importer    importer.Importer
	imported    map[string]bool
	strict      bool
	filename    string
	source      string
	maxDepth    int
	calls       []callRecord
}

// frame holds the state of one function activation, or of the main
// program.
type frame struct {
	name   string
	env    *object.Environment
	last   object.Object // value of the last evaluated expression statement
	result object.Object // value of an executed return statement
}

// control reports how a statement finished.
type control int

const (
	next control = iota
	returning
)

// New returns an Interpreter configured with the given options.
func New(options ...Option) *Interpreter {
	in := &Interpreter{
		globals:   object.NewEnvironment(nil),
		functions: map[string]*object.Function{},
		morphs:    map[string]*ast.Morph{},
		imported:  map[string]bool{},
		logger:    zerolog.Nop(),
		maxDepth:  MaxCallDepth,
	}
	for _, opt := range options {
		opt(in)
	}
	if !in.seeded {
		in.seed = time.Now().UnixNano()
	}
	in.id = uuid.Must(uuid.NewV4())
	in.logger = in.logger.With().Str("engine", "interpreter").Str("id", in.id.String()).Logger()
	in.runtime = object.NewRuntime(in.output, in.seed)
	return in
}

// ID returns the unique id of this interpreter, as used in log entries.
func (in *Interpreter) ID() uuid.UUID {
	return in.id
}

// Eval runs a program and returns its result: the value of the last
// expression statement evaluated while executing the final top-level
// statement, the value of a top-level return, or nil when the program ends
// with a binding statement. Globals and functions persist across calls, so
// an Interpreter can evaluate a program in several pieces.
func (in *Interpreter) Eval(ctx context.Context, program *ast.Program) (object.Object, error) {
	ctx = object.WithRuntime(ctx, in.runtime)
	fr := &frame{name: "main", env: in.globals, last: object.Nil}
	for i, stmt := range program.Stmts {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if i == len(program.Stmts)-1 {
			fr.last = object.Nil
		}
		ctl, err := in.execStmt(ctx, stmt, fr)
		if err != nil {
			return nil, err
		}
		if ctl == returning {
			return fr.result, nil
		}
	}
	if n := len(program.Stmts); n == 0 || ast.IsBinding(program.Stmts[n-1]) {
		return object.Nil, nil
	}
	return fr.last, nil
}

// Globals returns the global scope.
func (in *Interpreter) Globals() *object.Environment {
	return in.globals
}

// Function returns the user-defined function with the given name.
func (in *Interpreter) Function(name string) (*object.Function, bool) {
	fn, ok := in.functions[name]
	return fn, ok
}

// Morphs returns the morph statements executed so far, keyed by name. Their
// rules are recorded for external rewriting tools and never executed.
func (in *Interpreter) Morphs() map[string]*ast.Morph {
	return in.morphs
}

// Goals returns the goal expressions executed so far, unevaluated.
func (in *Interpreter) Goals() []ast.Expr {
	return in.goals
}

// Diagnostics returns non-fatal problems found while running, such as
// type hint mismatches, or nil if there were none.
func (in *Interpreter) Diagnostics() error {
	return in.diagnostics.ErrorOrNil()
}

func (in *Interpreter) diagnose(err error, node ast.Node) {
	pos := node.Pos()
	in.logger.Warn().
		Err(err).
		Int("line", pos.LineNumber()).
		Int("column", pos.ColumnNumber()).
		Msg("type hint mismatch")
	in.diagnostics = multierror.Append(in.diagnostics, err)
}
