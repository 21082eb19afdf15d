package compiler

import (
	"github.com/deepnoodle-ai/emergent/ast"
	"github.com/deepnoodle-ai/emergent/op"
)

// compileStmt emits one statement. Registers allocated while compiling the
// statement are free again once it is done.
func (c *Compiler) compileStmt(stmt ast.Stmt) {
	m := c.mark()
	defer c.release(m)
	switch stmt := stmt.(type) {
	case *ast.ExprStmt:
		c.compileExpr(stmt.X, 0)
	case *ast.Let:
		value := c.alloc()
		c.compileExpr(stmt.Value, value)
		name := c.constant(stmt.Name.Name)
		if stmt.Hint != "" {
			c.emit(stmt, op.CheckType, value, c.constant(stmt.Hint), name)
		}
		c.emit(stmt, op.StoreVar, value, name)
	case *ast.Assign:
		c.compileAssign(stmt)
	case *ast.Def:
		slot := c.reserve()
		c.pending = append(c.pending, &pendingFunction{def: stmt, slot: slot})
		c.emit(stmt, op.DefFunc, slot)
	case *ast.If:
		c.compileIf(stmt)
	case *ast.For:
		c.compileFor(stmt)
	case *ast.While:
		c.compileWhile(stmt)
	case *ast.Try:
		c.compileTry(stmt)
	case *ast.Return:
		value := c.alloc()
		if stmt.Value != nil {
			c.compileExpr(stmt.Value, value)
		} else {
			c.emit(stmt, op.LoadNil, value)
		}
		c.emit(stmt, op.Return, value)
	case *ast.Import:
		c.fail(c.errorf(stmt, "import is not supported in compiled programs"))
	case *ast.Morph, *ast.Goal:
		// Recorded by the interpreter only; nothing to execute.
	default:
		c.fail(c.errorf(stmt, "unsupported statement %T", stmt))
	}
}

func (c *Compiler) compileBlock(block *ast.Block) {
	for _, stmt := range block.Stmts {
		c.compileStmt(stmt)
	}
}

// compileAssign evaluates the value before the target's base and indexes.
func (c *Compiler) compileAssign(stmt *ast.Assign) {
	value := c.alloc()
	c.compileExpr(stmt.Value, value)
	switch target := stmt.Target.(type) {
	case *ast.Ident:
		c.emit(stmt, op.StoreVar, value, c.constant(target.Name))
	case *ast.Index:
		container, indexes := c.compileIndexChain(target)
		last := len(indexes) - 1
		for _, index := range indexes[:last] {
			next := c.alloc()
			c.emit(target, op.ArrayIndex, next, container, index)
			container = next
		}
		c.emit(target, op.ArraySet, container, indexes[last], value)
	default:
		c.fail(c.errorf(stmt, "invalid assignment target %s", stmt.Target))
	}
}

func (c *Compiler) compileIf(stmt *ast.If) {
	cond := c.alloc()
	c.compileExpr(stmt.Cond, cond)
	jumpElse := c.emit(stmt, op.JumpIfFalse, cond, 0)
	c.compileBlock(stmt.Consequence)
	if stmt.Alternative == nil {
		c.patch(jumpElse, c.here())
		return
	}
	jumpEnd := c.emit(stmt, op.Jump, 0)
	c.patch(jumpElse, c.here())
	c.compileBlock(stmt.Alternative)
	c.patch(jumpEnd, c.here())
}

func (c *Compiler) compileWhile(stmt *ast.While) {
	cond := c.alloc()
	top := c.here()
	c.compileExpr(stmt.Cond, cond)
	exit := c.emit(stmt, op.JumpIfFalse, cond, 0)
	c.compileBlock(stmt.Body)
	c.emit(stmt, op.Jump, top)
	c.patch(exit, c.here())
}

// compileFor evaluates the iterable once and walks it with a counter:
//
//	n = len(iterable); i = 0
//	top: if !(i < n) goto end
//	var = iterable[i]; body; i = i + 1; goto top
//
// ARRAY_LEN yields 0 for values that are not iterable.
func (c *Compiler) compileFor(stmt *ast.For) {
	iterable := c.alloc()
	c.compileExpr(stmt.Iterable, iterable)
	n, i, one, cond, item := c.alloc(), c.alloc(), c.alloc(), c.alloc(), c.alloc()
	c.emit(stmt, op.ArrayLen, n, iterable)
	c.emit(stmt, op.LoadConst, i, c.constant(0.0))
	c.emit(stmt, op.LoadConst, one, c.constant(1.0))
	top := c.emit(stmt, op.CompareLess, cond, i, n)
	exit := c.emit(stmt, op.JumpIfFalse, cond, 0)
	c.emit(stmt, op.ArrayIndex, item, iterable, i)
	c.emit(stmt, op.StoreVar, item, c.constant(stmt.Var.Name))
	c.compileBlock(stmt.Body)
	c.emit(stmt, op.BinaryAdd, i, i, one)
	c.emit(stmt, op.Jump, top)
	c.patch(exit, c.here())
}

// compileTry installs a handler for the body. A fault inside the body, or
// inside any call it makes, resumes at the catch block.
func (c *Compiler) compileTry(stmt *ast.Try) {
	name := -1
	if stmt.CatchVar != nil {
		name = c.constant(stmt.CatchVar.Name)
	}
	setup := c.emit(stmt, op.SetupTry, 0, name)
	c.compileBlock(stmt.Body)
	c.emit(stmt, op.PopTry)
	jumpEnd := c.emit(stmt, op.Jump, 0)
	c.patch(setup, c.here())
	c.compileBlock(stmt.CatchBlock)
	c.patch(jumpEnd, c.here())
}
