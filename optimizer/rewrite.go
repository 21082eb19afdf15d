package optimizer

import (
	"github.com/deepnoodle-ai/emergent/ast"
)

// rewriteStmts replaces every expression beneath stmts with fn applied to
// it, children before parents. Assignment targets keep their shape: an
// identifier target is never passed to fn. Morph and goal statements are
// recorded verbatim by the engines and are left alone.
func rewriteStmts(stmts []ast.Stmt, fn func(ast.Expr) ast.Expr) {
	for _, stmt := range stmts {
		rewriteStmt(stmt, fn)
	}
}

func rewriteBlock(b *ast.Block, fn func(ast.Expr) ast.Expr) {
	if b != nil {
		rewriteStmts(b.Stmts, fn)
	}
}

func rewriteStmt(stmt ast.Stmt, fn func(ast.Expr) ast.Expr) {
	switch s := stmt.(type) {
	case *ast.Let:
		s.Value = rewriteExpr(s.Value, fn)
	case *ast.Def:
		rewriteBlock(s.Body, fn)
	case *ast.If:
		s.Cond = rewriteExpr(s.Cond, fn)
		rewriteBlock(s.Consequence, fn)
		rewriteBlock(s.Alternative, fn)
	case *ast.For:
		s.Iterable = rewriteExpr(s.Iterable, fn)
		rewriteBlock(s.Body, fn)
	case *ast.While:
		s.Cond = rewriteExpr(s.Cond, fn)
		rewriteBlock(s.Body, fn)
	case *ast.Try:
		rewriteBlock(s.Body, fn)
		rewriteBlock(s.CatchBlock, fn)
	case *ast.Return:
		if s.Value != nil {
			s.Value = rewriteExpr(s.Value, fn)
		}
	case *ast.ExprStmt:
		s.X = rewriteExpr(s.X, fn)
	case *ast.Assign:
		if index, ok := s.Target.(*ast.Index); ok {
			rewriteIndexTarget(index, fn)
		}
		s.Value = rewriteExpr(s.Value, fn)
	case *ast.Import, *ast.Morph, *ast.Goal:
	}
}

// rewriteIndexTarget rewrites the base and index expressions of an
// assignment target while keeping the chain of index nodes.
func rewriteIndexTarget(index *ast.Index, fn func(ast.Expr) ast.Expr) {
	if inner, ok := index.X.(*ast.Index); ok {
		rewriteIndexTarget(inner, fn)
	} else {
		index.X = rewriteExpr(index.X, fn)
	}
	index.Index = rewriteExpr(index.Index, fn)
}

func rewriteExpr(expr ast.Expr, fn func(ast.Expr) ast.Expr) ast.Expr {
	switch x := expr.(type) {
	case *ast.List:
		for i, item := range x.Items {
			x.Items[i] = rewriteExpr(item, fn)
		}
	case *ast.Prefix:
		x.X = rewriteExpr(x.X, fn)
	case *ast.Infix:
		x.X = rewriteExpr(x.X, fn)
		x.Y = rewriteExpr(x.Y, fn)
	case *ast.Call:
		x.Fun = rewriteExpr(x.Fun, fn)
		for i, arg := range x.Args {
			x.Args[i] = rewriteExpr(arg, fn)
		}
	case *ast.Index:
		x.X = rewriteExpr(x.X, fn)
		x.Index = rewriteExpr(x.Index, fn)
	}
	return fn(expr)
}

// rewriteBlocks calls fn with every statement list in the program,
// innermost lists first, and replaces each list with the result. Morph
// rule bodies are left alone.
func rewriteBlocks(stmts []ast.Stmt, fn func([]ast.Stmt) []ast.Stmt) []ast.Stmt {
	for _, stmt := range stmts {
		for _, block := range childBlocks(stmt) {
			block.Stmts = rewriteBlocks(block.Stmts, fn)
		}
	}
	return fn(stmts)
}

// childBlocks returns the blocks directly owned by a statement.
func childBlocks(stmt ast.Stmt) []*ast.Block {
	var blocks []*ast.Block
	switch s := stmt.(type) {
	case *ast.Def:
		blocks = append(blocks, s.Body)
	case *ast.If:
		blocks = append(blocks, s.Consequence)
		if s.Alternative != nil {
			blocks = append(blocks, s.Alternative)
		}
	case *ast.For:
		blocks = append(blocks, s.Body)
	case *ast.While:
		blocks = append(blocks, s.Body)
	case *ast.Try:
		blocks = append(blocks, s.Body, s.CatchBlock)
	}
	return blocks
}

// hasImport reports whether the program contains an import statement.
// Imported code runs in the global scope and may read any global or
// redefine any function, so the name-based passes stand down.
func hasImport(stmts []ast.Stmt) bool {
	found := false
	for _, stmt := range stmts {
		ast.Inspect(stmt, func(n ast.Node) bool {
			if _, ok := n.(*ast.Import); ok {
				found = true
			}
			return !found
		})
	}
	return found
}
