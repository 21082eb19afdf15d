package compiler

import (
	"github.com/deepnoodle-ai/emergent/ast"
	"github.com/deepnoodle-ai/emergent/bytecode"
	"github.com/deepnoodle-ai/emergent/op"
)

// compileExpr emits code that leaves the value of expr in register dst.
// Register 0 is only ever written by the final instruction, so a fault
// part way through leaves the last expression value untouched. Any other
// dst is a temporary and may hold partial results; see scratch.
func (c *Compiler) compileExpr(expr ast.Expr, dst int) {
	switch expr := expr.(type) {
	case *ast.Number:
		c.emit(expr, op.LoadConst, dst, c.constant(expr.Value))
	case *ast.String:
		c.emit(expr, op.LoadConst, dst, c.constant(expr.Value))
	case *ast.Bool:
		c.emit(expr, op.LoadConst, dst, c.constant(expr.Value))
	case *ast.Nil:
		c.emit(expr, op.LoadNil, dst)
	case *ast.Ident:
		c.emit(expr, op.LoadVar, dst, c.constant(expr.Name))
	case *ast.List:
		c.compileList(expr, dst)
	case *ast.Prefix:
		c.compilePrefix(expr, dst)
	case *ast.Infix:
		c.compileInfix(expr, dst)
	case *ast.Call:
		c.compileCall(expr, dst)
	case *ast.Index:
		m := c.mark()
		defer c.release(m)
		container, indexes := c.compileIndexChain(expr)
		for i, index := range indexes {
			target := dst
			if i < len(indexes)-1 {
				target = c.alloc()
			}
			c.emit(expr, op.ArrayIndex, target, container, index)
			container = target
		}
	default:
		c.fail(c.errorf(expr, "unsupported expression %T", expr))
	}
}

// scratch returns a register to build a partial result in: dst itself
// when it is a temporary, otherwise a fresh one. Left-nested chains such
// as a + b + c therefore reuse one register at every level.
func (c *Compiler) scratch(dst int) int {
	if dst != 0 {
		return dst
	}
	return c.alloc()
}

// listChunk bounds the registers a list literal occupies. Longer literals
// are built chunk by chunk and joined with ADD.
const listChunk = 256

func (c *Compiler) compileList(list *ast.List, dst int) {
	m := c.mark()
	defer c.release(m)
	items := list.Items
	if len(items) <= listChunk {
		base := c.allocN(len(items))
		for i, item := range items {
			c.compileExpr(item, base+i)
		}
		c.emit(list, op.NewList, dst, base, len(items))
		return
	}
	acc := c.scratch(dst)
	part := c.alloc()
	base := c.allocN(listChunk)
	for start := 0; start < len(items); start += listChunk {
		end := min(start+listChunk, len(items))
		for i, item := range items[start:end] {
			c.compileExpr(item, base+i)
		}
		if start == 0 {
			c.emit(list, op.NewList, acc, base, end-start)
			continue
		}
		c.emit(list, op.NewList, part, base, end-start)
		out := acc
		if end == len(items) {
			out = dst
		}
		c.emit(list, op.BinaryAdd, out, acc, part)
	}
}

func (c *Compiler) compilePrefix(expr *ast.Prefix, dst int) {
	m := c.mark()
	defer c.release(m)
	operand := c.scratch(dst)
	c.compileExpr(expr.X, operand)
	switch expr.Op {
	case "-":
		c.emit(expr, op.UnaryNegative, dst, operand)
	case "not":
		c.emit(expr, op.UnaryNot, dst, operand)
	default:
		c.fail(c.errorf(expr, "unknown operator: %s", expr.Op))
	}
}

func (c *Compiler) compileInfix(expr *ast.Infix, dst int) {
	switch expr.Op {
	case "and":
		c.compileLogical(expr, dst, op.JumpIfFalse, op.LogicalAnd, false)
		return
	case "or":
		c.compileLogical(expr, dst, op.JumpIfTrue, op.LogicalOr, true)
		return
	}
	m := c.mark()
	defer c.release(m)
	x := c.scratch(dst)
	c.compileExpr(expr.X, x)
	y := c.alloc()
	c.compileExpr(expr.Y, y)
	if bop, ok := op.LookupBinaryOp(expr.Op); ok {
		c.emit(expr, op.BinaryCode(bop), dst, x, y)
	} else if cop, ok := op.LookupCompareOp(expr.Op); ok {
		c.emit(expr, op.CompareCode(cop), dst, x, y)
	} else {
		c.fail(c.errorf(expr, "unknown operator: %s", expr.Op))
	}
}

// compileLogical short-circuits and/or. When the left operand decides the
// result, the right operand is skipped and the decided bool is loaded.
//
//	x = <left>
//	JUMP_IF_FALSE x short    (JUMP_IF_TRUE for or)
//	y = <right>
//	AND dst x y              (OR for or)
//	JUMP end
//	short: LOAD_CONST dst false    (true for or)
//	end:
func (c *Compiler) compileLogical(expr *ast.Infix, dst int, jump, combine op.Code, decided bool) {
	m := c.mark()
	defer c.release(m)
	x := c.scratch(dst)
	c.compileExpr(expr.X, x)
	short := c.emit(expr, jump, x, 0)
	y := c.alloc()
	c.compileExpr(expr.Y, y)
	c.emit(expr, combine, dst, x, y)
	end := c.emit(expr, op.Jump, 0)
	c.patch(short, c.here())
	c.emit(expr, op.LoadConst, dst, c.constant(decided))
	c.patch(end, c.here())
}

// compileCall places the arguments in consecutive registers. A named call
// resolves its callee at run time after the arguments are evaluated; a
// dynamic call evaluates the callee first into the register preceding the
// arguments. Calls to print compile to PRINT, since builtins always take
// precedence over user functions.
func (c *Compiler) compileCall(call *ast.Call, dst int) {
	m := c.mark()
	defer c.release(m)
	name, named := call.FunName()
	if named && name == "print" {
		base := c.allocN(len(call.Args))
		for i, arg := range call.Args {
			c.compileExpr(arg, base+i)
		}
		c.emit(call, op.Print, dst, base, len(call.Args))
		return
	}
	site := bytecode.CallSite{Name: name, Argc: len(call.Args)}
	var base, first int
	if named {
		base = c.allocN(len(call.Args))
		first = base
	} else {
		base = c.allocN(len(call.Args) + 1)
		first = base + 1
		c.compileExpr(call.Fun, base)
	}
	for i, arg := range call.Args {
		c.compileExpr(arg, first+i)
	}
	c.emit(call, op.Call, dst, c.constant(site), base)
}

// compileIndexChain evaluates the base of an index chain and then each
// index, returning the registers that hold them.
func (c *Compiler) compileIndexChain(expr *ast.Index) (int, []int) {
	base, indexExprs := expr.Flatten()
	container := c.alloc()
	c.compileExpr(base, container)
	indexes := make([]int, len(indexExprs))
	for i, indexExpr := range indexExprs {
		indexes[i] = c.alloc()
		c.compileExpr(indexExpr, indexes[i])
	}
	return container, indexes
}
