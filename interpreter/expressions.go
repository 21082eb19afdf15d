package interpreter

import (
	"context"

	"github.com/deepnoodle-ai/emergent/ast"
	"github.com/deepnoodle-ai/emergent/builtins"
	"github.com/deepnoodle-ai/emergent/errz"
	"github.com/deepnoodle-ai/emergent/object"
	"github.com/deepnoodle-ai/emergent/op"
)

func (in *Interpreter) eval(ctx context.Context, expr ast.Expr, fr *frame) (object.Object, error) {
	switch expr := expr.(type) {
	case *ast.Number:
		return object.NewNumber(expr.Value), nil
	case *ast.String:
		return object.NewString(expr.Value), nil
	case *ast.Bool:
		return object.NewBool(expr.Value), nil
	case *ast.Nil:
		return object.Nil, nil
	case *ast.Ident:
		return in.lookup(expr, fr)
	case *ast.List:
		items := make([]object.Object, 0, len(expr.Items))
		for _, item := range expr.Items {
			value, err := in.eval(ctx, item, fr)
			if err != nil {
				return nil, err
			}
			items = append(items, value)
		}
		return object.NewList(items), nil
	case *ast.Prefix:
		return in.evalPrefix(ctx, expr, fr)
	case *ast.Infix:
		return in.evalInfix(ctx, expr, fr)
	case *ast.Call:
		return in.evalCall(ctx, expr, fr)
	case *ast.Index:
		container, indexes, err := in.evalIndexChain(ctx, expr, fr)
		if err != nil {
			return nil, err
		}
		for _, index := range indexes {
			if container, err = object.GetItem(container, index); err != nil {
				return nil, in.fault(err, expr)
			}
		}
		return container, nil
	default:
		return nil, errz.New(errz.ErrRuntime, "unsupported expression %T", expr)
	}
}

// lookup resolves an identifier: variables in scope first, then the
// function table, then builtins. An unknown name reads as 0 unless strict
// variables are enabled.
func (in *Interpreter) lookup(ident *ast.Ident, fr *frame) (object.Object, error) {
	if value, ok := fr.env.Get(ident.Name); ok {
		return value, nil
	}
	if fn, ok := in.functions[ident.Name]; ok {
		return fn, nil
	}
	if b, ok := builtins.Lookup(ident.Name); ok {
		return b, nil
	}
	if in.strict {
		return nil, in.fault(errz.New(errz.ErrName, "undefined variable: %s", ident.Name), ident)
	}
	return object.NewNumber(0), nil
}

func (in *Interpreter) evalPrefix(ctx context.Context, expr *ast.Prefix, fr *frame) (object.Object, error) {
	operand, err := in.eval(ctx, expr.X, fr)
	if err != nil {
		return nil, err
	}
	switch expr.Op {
	case "-":
		result, err := object.Negate(operand)
		if err != nil {
			return nil, in.fault(err, expr)
		}
		return result, nil
	case "not":
		return object.Not(operand), nil
	default:
		return nil, in.fault(errz.New(errz.ErrSyntax, "unknown operator: %s", expr.Op), expr)
	}
}

func (in *Interpreter) evalInfix(ctx context.Context, expr *ast.Infix, fr *frame) (object.Object, error) {
	left, err := in.eval(ctx, expr.X, fr)
	if err != nil {
		return nil, err
	}
	// and/or short-circuit and always produce a bool.
	switch expr.Op {
	case "and":
		if !left.IsTruthy() {
			return object.False, nil
		}
		right, err := in.eval(ctx, expr.Y, fr)
		if err != nil {
			return nil, err
		}
		return object.NewBool(right.IsTruthy()), nil
	case "or":
		if left.IsTruthy() {
			return object.True, nil
		}
		right, err := in.eval(ctx, expr.Y, fr)
		if err != nil {
			return nil, err
		}
		return object.NewBool(right.IsTruthy()), nil
	}
	right, err := in.eval(ctx, expr.Y, fr)
	if err != nil {
		return nil, err
	}
	var result object.Object
	if bop, ok := op.LookupBinaryOp(expr.Op); ok {
		result, err = object.BinaryOp(bop, left, right)
	} else if cop, ok := op.LookupCompareOp(expr.Op); ok {
		result, err = object.Compare(cop, left, right)
	} else {
		err = errz.New(errz.ErrSyntax, "unknown operator: %s", expr.Op)
	}
	if err != nil {
		return nil, in.fault(err, expr)
	}
	return result, nil
}

// evalIndexChain evaluates the base of an index chain followed by every
// index expression, outermost first, before any of them is applied.
func (in *Interpreter) evalIndexChain(ctx context.Context, expr *ast.Index, fr *frame) (object.Object, []object.Object, error) {
	base, indexExprs := expr.Flatten()
	container, err := in.eval(ctx, base, fr)
	if err != nil {
		return nil, nil, err
	}
	indexes := make([]object.Object, 0, len(indexExprs))
	for _, indexExpr := range indexExprs {
		index, err := in.eval(ctx, indexExpr, fr)
		if err != nil {
			return nil, nil, err
		}
		indexes = append(indexes, index)
	}
	return container, indexes, nil
}
