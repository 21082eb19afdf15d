// Package optimizer rewrites programs before they are run.
//
// Every pass takes a program and returns a new one, leaving its input
// untouched, and must not change what the program prints or returns.
// Optimize runs the passes selected by a Level in a fixed order, repeating
// them until the program stops changing, so that optimizing an optimized
// program is the identity.
package optimizer

import (
	"github.com/deepnoodle-ai/emergent/ast"
	"github.com/hashicorp/go-multierror"
	"github.com/rs/zerolog"
)

// DefaultMaxIterations bounds how often Optimize repeats its passes while
// looking for a fixpoint.
const DefaultMaxIterations = 16

// Stats summarizes what Optimize did.
type Stats struct {
	Level       Level
	Iterations  int
	Folded      int
	Eliminated  int
	Inlined     int
	Unrolled    int
	NodesBefore int
	NodesAfter  int

	// Warnings lists constant expressions that are certain to fault when
	// evaluated. They are left in place so the fault happens at run time.
	Warnings *multierror.Error
}

// Changes returns the total number of rewrites made.
func (s Stats) Changes() int {
	return s.Folded + s.Eliminated + s.Inlined + s.Unrolled
}

// Option configures Optimize.
type Option func(*config)

type config struct {
	logger        zerolog.Logger
	maxIterations int
}

// WithLogger sets the logger that receives per-pass statistics at debug
// level.
func WithLogger(logger zerolog.Logger) Option {
	return func(c *config) {
		c.logger = logger
	}
}

// WithMaxIterations overrides DefaultMaxIterations.
func WithMaxIterations(n int) Option {
	return func(c *config) {
		if n > 0 {
			c.maxIterations = n
		}
	}
}

// Optimize applies the passes enabled at level: constant folding and
// dead-code elimination from Basic up, followed by inlining and loop
// unrolling from Aggressive up. Level None returns an unchanged copy.
func Optimize(program *ast.Program, level Level, options ...Option) (*ast.Program, Stats) {
	cfg := &config{logger: zerolog.Nop(), maxIterations: DefaultMaxIterations}
	for _, opt := range options {
		opt(cfg)
	}
	stats := Stats{Level: level, NodesBefore: ast.CountNodes(program)}
	current := ast.CloneProgram(program)
	if level <= None {
		stats.NodesAfter = stats.NodesBefore
		return current, stats
	}
	reported := map[string]bool{}
	onFail := func(expr ast.Expr, err error) {
		msg := describe(expr, err)
		if !reported[msg] {
			reported[msg] = true
			stats.Warnings = multierror.Append(stats.Warnings, &FoldError{Expr: expr, Err: err})
		}
	}
	for stats.Iterations < cfg.maxIterations {
		stats.Iterations++
		var folded, eliminated, inlined, unrolled int
		current, folded = foldConstants(current, onFail)
		current, eliminated = EliminateDeadCode(current)
		if level >= Aggressive {
			current, inlined = Inline(current, level)
			current, unrolled = Unroll(current, level)
		}
		stats.Folded += folded
		stats.Eliminated += eliminated
		stats.Inlined += inlined
		stats.Unrolled += unrolled
		cfg.logger.Debug().
			Str("level", level.String()).
			Int("iteration", stats.Iterations).
			Int("folded", folded).
			Int("eliminated", eliminated).
			Int("inlined", inlined).
			Int("unrolled", unrolled).
			Msg("optimizer pass")
		if folded+eliminated+inlined+unrolled == 0 {
			break
		}
	}
	stats.NodesAfter = ast.CountNodes(current)
	cfg.logger.Debug().
		Str("level", level.String()).
		Int("iterations", stats.Iterations).
		Int("nodes_before", stats.NodesBefore).
		Int("nodes_after", stats.NodesAfter).
		Msg("optimized program")
	return current, stats
}

// FoldError describes a constant expression that faults when evaluated.
type FoldError struct {
	Expr ast.Expr
	Err  error
}

func (e *FoldError) Error() string {
	return describe(e.Expr, e.Err)
}

func (e *FoldError) Unwrap() error {
	return e.Err
}
