package interpreter

import (
	"context"
	"fmt"

	"github.com/deepnoodle-ai/emergent/ast"
	"github.com/deepnoodle-ai/emergent/errz"
	"github.com/deepnoodle-ai/emergent/object"
	"github.com/deepnoodle-ai/emergent/parser"
)

func (in *Interpreter) execStmt(ctx context.Context, stmt ast.Stmt, fr *frame) (control, error) {
	switch stmt := stmt.(type) {
	case *ast.ExprStmt:
		value, err := in.eval(ctx, stmt.X, fr)
		if err != nil {
			return next, err
		}
		fr.last = value
	case *ast.Let:
		value, err := in.eval(ctx, stmt.Value, fr)
		if err != nil {
			return next, err
		}
		if stmt.Hint != "" {
			if err := object.CheckHint(stmt.Name.Name, stmt.Hint, value); err != nil {
				in.diagnose(err, stmt)
			}
		}
		fr.env.Define(stmt.Name.Name, value)
	case *ast.Assign:
		return next, in.execAssign(ctx, stmt, fr)
	case *ast.Def:
		in.functions[stmt.Name.Name] = object.NewFunction(stmt)
	case *ast.If:
		cond, err := in.eval(ctx, stmt.Cond, fr)
		if err != nil {
			return next, err
		}
		if cond.IsTruthy() {
			return in.execBlock(ctx, stmt.Consequence, fr)
		}
		if stmt.Alternative != nil {
			return in.execBlock(ctx, stmt.Alternative, fr)
		}
	case *ast.For:
		return in.execFor(ctx, stmt, fr)
	case *ast.While:
		return in.execWhile(ctx, stmt, fr)
	case *ast.Try:
		return in.execTry(ctx, stmt, fr)
	case *ast.Return:
		fr.result = object.Nil
		if stmt.Value != nil {
			value, err := in.eval(ctx, stmt.Value, fr)
			if err != nil {
				return next, err
			}
			fr.result = value
		}
		return returning, nil
	case *ast.Import:
		return next, in.execImport(ctx, stmt)
	case *ast.Morph:
		in.morphs[stmt.Name.Name] = stmt
	case *ast.Goal:
		in.goals = append(in.goals, stmt.Value)
	default:
		return next, errz.New(errz.ErrRuntime, "unsupported statement %T", stmt)
	}
	return next, nil
}

// execBlock runs statements in the current scope. Blocks do not introduce
// scopes of their own.
func (in *Interpreter) execBlock(ctx context.Context, block *ast.Block, fr *frame) (control, error) {
	for _, stmt := range block.Stmts {
		ctl, err := in.execStmt(ctx, stmt, fr)
		if err != nil || ctl == returning {
			return ctl, err
		}
	}
	return next, nil
}

func (in *Interpreter) execAssign(ctx context.Context, stmt *ast.Assign, fr *frame) error {
	value, err := in.eval(ctx, stmt.Value, fr)
	if err != nil {
		return err
	}
	switch target := stmt.Target.(type) {
	case *ast.Ident:
		fr.env.Define(target.Name, value)
		return nil
	case *ast.Index:
		container, indexes, err := in.evalIndexChain(ctx, target, fr)
		if err != nil {
			return err
		}
		last := len(indexes) - 1
		for _, index := range indexes[:last] {
			if container, err = object.GetItem(container, index); err != nil {
				return in.fault(err, target)
			}
		}
		if err := object.SetItem(container, indexes[last], value); err != nil {
			return in.fault(err, target)
		}
		return nil
	default:
		return in.fault(errz.New(errz.ErrSyntax, "invalid assignment target %s", target), stmt)
	}
}

func (in *Interpreter) execFor(ctx context.Context, stmt *ast.For, fr *frame) (control, error) {
	iterable, err := in.eval(ctx, stmt.Iterable, fr)
	if err != nil {
		return next, err
	}
	n := object.IterLen(iterable)
	for i := 0; i < n; i++ {
		if err := ctx.Err(); err != nil {
			return next, err
		}
		fr.env.Define(stmt.Var.Name, object.IterItem(iterable, i))
		ctl, err := in.execBlock(ctx, stmt.Body, fr)
		if err != nil || ctl == returning {
			return ctl, err
		}
	}
	return next, nil
}

func (in *Interpreter) execWhile(ctx context.Context, stmt *ast.While, fr *frame) (control, error) {
	for {
		if err := ctx.Err(); err != nil {
			return next, err
		}
		cond, err := in.eval(ctx, stmt.Cond, fr)
		if err != nil {
			return next, err
		}
		if !cond.IsTruthy() {
			return next, nil
		}
		ctl, err := in.execBlock(ctx, stmt.Body, fr)
		if err != nil || ctl == returning {
			return ctl, err
		}
	}
}

// execTry runs the try body and, on a fault, binds the fault message to the
// catch variable and runs the catch block. Cancellation is not a fault and
// is never caught.
func (in *Interpreter) execTry(ctx context.Context, stmt *ast.Try, fr *frame) (control, error) {
	depth := len(in.calls)
	ctl, err := in.execBlock(ctx, stmt.Body, fr)
	if err == nil || isCancellation(err) {
		return ctl, err
	}
	in.calls = in.calls[:depth]
	if stmt.CatchVar != nil {
		fr.env.Define(stmt.CatchVar.Name, object.NewString(caughtMessage(err)))
	}
	return in.execBlock(ctx, stmt.CatchBlock, fr)
}

// execImport runs an imported program once in the global scope.
func (in *Interpreter) execImport(ctx context.Context, stmt *ast.Import) error {
	if in.importer == nil {
		return in.fault(errz.New(errz.ErrImport, "cannot import %q: imports are not enabled", stmt.Path.Value), stmt)
	}
	name, source, err := in.importer.Import(ctx, stmt.Path.Value)
	if err != nil {
		if isCancellation(err) {
			return err
		}
		return in.fault(errz.New(errz.ErrImport, "%s", err).WithCause(err), stmt)
	}
	if in.imported[name] {
		return nil
	}
	in.imported[name] = true
	program, err := parser.Parse(ctx, source, parser.WithFilename(name))
	if err != nil {
		return in.fault(errz.New(errz.ErrImport, "%s: %s", stmt.Path.Value, err).WithCause(err), stmt)
	}
	fr := &frame{name: fmt.Sprintf("import %q", stmt.Path.Value), env: in.globals, last: object.Nil}
	for _, s := range program.Stmts {
		ctl, err := in.execStmt(ctx, s, fr)
		if err != nil {
			return err
		}
		if ctl == returning {
			break
		}
	}
	return nil
}
