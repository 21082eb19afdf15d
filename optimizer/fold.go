package optimizer

import (
	"context"
	"fmt"
	"math"

	"github.com/deepnoodle-ai/emergent/ast"
	"github.com/deepnoodle-ai/emergent/builtins"
	"github.com/deepnoodle-ai/emergent/internal/token"
	"github.com/deepnoodle-ai/emergent/object"
	"github.com/deepnoodle-ai/emergent/op"
)

// FoldConstants returns a copy of program in which operator expressions
// over literals, and calls of pure builtins with literal arguments, are
// replaced by their values. Expressions whose evaluation fails, or whose
// value has no literal form, are left as they are. The second result is
// the number of expressions folded.
func FoldConstants(program *ast.Program) (*ast.Program, int) {
	return foldConstants(program, nil)
}

// foldConstants folds program and reports each expression that would
// fault at run time to onFail.
func foldConstants(program *ast.Program, onFail func(ast.Expr, error)) (*ast.Program, int) {
	out := ast.CloneProgram(program)
	folded := 0
	rewriteStmts(out.Stmts, func(expr ast.Expr) ast.Expr {
		value, err := evalConstant(expr)
		if err != nil {
			if onFail != nil {
				onFail(expr, err)
			}
			return expr
		}
		if value == nil {
			return expr
		}
		lit, ok := toLiteral(value, expr.Pos())
		if !ok {
			return expr
		}
		folded++
		return lit
	})
	return out, folded
}

// evalConstant evaluates an expression whose operands are all literals. It
// returns a nil object when the expression is not constant.
func evalConstant(expr ast.Expr) (object.Object, error) {
	switch x := expr.(type) {
	case *ast.Prefix:
		operand, ok := literalValue(x.X)
		if !ok {
			return nil, nil
		}
		switch x.Op {
		case "-":
			return object.Negate(operand)
		case "not":
			return object.Not(operand), nil
		}
	case *ast.Infix:
		left, ok := literalValue(x.X)
		if !ok {
			return nil, nil
		}
		// A literal left operand decides and/or without evaluating the
		// right operand when it short-circuits.
		switch x.Op {
		case "and":
			if !left.IsTruthy() {
				return object.False, nil
			}
		case "or":
			if left.IsTruthy() {
				return object.True, nil
			}
		}
		right, ok := literalValue(x.Y)
		if !ok {
			return nil, nil
		}
		if x.Op == "and" || x.Op == "or" {
			return object.NewBool(right.IsTruthy()), nil
		}
		if bop, ok := op.LookupBinaryOp(x.Op); ok {
			return object.BinaryOp(bop, left, right)
		}
		if cop, ok := op.LookupCompareOp(x.Op); ok {
			return object.Compare(cop, left, right)
		}
	case *ast.Call:
		name, ok := x.FunName()
		if !ok || !builtins.IsPure(name) {
			return nil, nil
		}
		args := make([]object.Object, 0, len(x.Args))
		for _, arg := range x.Args {
			value, ok := literalValue(arg)
			if !ok {
				return nil, nil
			}
			args = append(args, value)
		}
		b, _ := builtins.Lookup(name)
		return b.Call(context.Background(), args...)
	}
	return nil, nil
}

// literalValue returns the value of a scalar literal.
func literalValue(expr ast.Expr) (object.Object, bool) {
	switch x := expr.(type) {
	case *ast.Number:
		return object.NewNumber(x.Value), true
	case *ast.String:
		return object.NewString(x.Value), true
	case *ast.Bool:
		return object.NewBool(x.Value), true
	case *ast.Nil:
		return object.Nil, true
	}
	return nil, false
}

// toLiteral converts a value back to a literal node. Values that cannot be
// written as a literal, such as infinities or lists, are rejected.
func toLiteral(value object.Object, pos token.Position) (ast.Expr, bool) {
	switch v := value.(type) {
	case *object.Number:
		f := v.Value()
		if math.IsInf(f, 0) || math.IsNaN(f) {
			return nil, false
		}
		return &ast.Number{ValuePos: pos, Value: f}, true
	case *object.String:
		if !ast.Quotable(v.Value()) {
			return nil, false
		}
		return &ast.String{ValuePos: pos, Value: v.Value()}, true
	case *object.Bool:
		return &ast.Bool{ValuePos: pos, Value: v.Value()}, true
	case *object.NilType:
		return &ast.Nil{NilPos: pos}, true
	}
	return nil, false
}

// describe formats an expression and its position for diagnostics.
func describe(expr ast.Expr, err error) string {
	pos := expr.Pos()
	return fmt.Sprintf("%d:%d: %s: %s", pos.LineNumber(), pos.ColumnNumber(), expr, err)
}
