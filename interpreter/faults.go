package interpreter

import (
	"context"
	stderrors "errors"

	"github.com/deepnoodle-ai/emergent/ast"
	"github.com/deepnoodle-ai/emergent/errors"
	"github.com/deepnoodle-ai/emergent/errz"
)

// fault converts err to a structured runtime fault located at node. Faults
// that already carry a location keep it, so the innermost location wins.
func (in *Interpreter) fault(err error, node ast.Node) error {
	var se *errz.StructuredError
	if !stderrors.As(err, &se) {
		se = errz.New(errz.ErrRuntime, "%s", err.Error()).WithCause(err)
	}
	return se.WithLocation(in.location(node))
}

func (in *Interpreter) location(node ast.Node) errors.SourceLocation {
	pos := node.Pos()
	return errors.SourceLocation{
		Filename: in.filename,
		Line:     pos.LineNumber(),
		Column:   pos.ColumnNumber(),
		Source:   errors.LineText(in.source, pos.LineNumber()),
	}
}

// caughtMessage returns the string bound to a catch variable.
func caughtMessage(err error) string {
	var se *errz.StructuredError
	if stderrors.As(err, &se) {
		return se.Caught()
	}
	return err.Error()
}

func isCancellation(err error) bool {
	return stderrors.Is(err, context.Canceled) || stderrors.Is(err, context.DeadlineExceeded)
}
