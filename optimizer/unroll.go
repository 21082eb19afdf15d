package optimizer

import (
	"unicode/utf8"

	"github.com/deepnoodle-ai/emergent/ast"
)

// Unroll returns a copy of program in which for loops over short literal
// sequences are replaced by one copy of the loop body per element, each
// preceded by an assignment of the element to the loop variable. The
// iterable must be a list literal of scalar literals, or a string literal,
// with at most level.UnrollLimit() elements. A loop that is the final
// top-level statement is kept, since the program result depends on it
// being a single statement. The second result is the number of loops
// unrolled.
func Unroll(program *ast.Program, level Level) (*ast.Program, int) {
	out := ast.CloneProgram(program)
	limit := level.UnrollLimit()
	if limit == 0 || len(out.Stmts) == 0 {
		return out, 0
	}
	unrolled := 0
	unrollList := func(stmts []ast.Stmt, keepLast bool) []ast.Stmt {
		result := make([]ast.Stmt, 0, len(stmts))
		for i, stmt := range stmts {
			loop, ok := stmt.(*ast.For)
			if !ok || (keepLast && i == len(stmts)-1) {
				result = append(result, stmt)
				continue
			}
			elements, ok := loopElements(loop.Iterable, limit)
			if !ok {
				result = append(result, stmt)
				continue
			}
			unrolled++
			for _, elem := range elements {
				result = append(result, &ast.Assign{
					Target: &ast.Ident{NamePos: loop.Var.NamePos, Name: loop.Var.Name},
					OpPos:  loop.ForPos,
					Value:  elem,
				})
				result = append(result, ast.CloneStmts(loop.Body.Stmts)...)
			}
		}
		return result
	}
	for _, stmt := range out.Stmts {
		for _, block := range childBlocks(stmt) {
			block.Stmts = rewriteBlocks(block.Stmts, func(stmts []ast.Stmt) []ast.Stmt {
				return unrollList(stmts, false)
			})
		}
	}
	out.Stmts = unrollList(out.Stmts, true)
	return out, unrolled
}

// loopElements returns literal copies of the elements a for loop over expr
// visits, if expr is a short enough literal sequence.
func loopElements(expr ast.Expr, limit int) ([]ast.Expr, bool) {
	switch x := expr.(type) {
	case *ast.List:
		if len(x.Items) > limit {
			return nil, false
		}
		elements := make([]ast.Expr, 0, len(x.Items))
		for _, item := range x.Items {
			if !ast.IsLiteral(item) {
				return nil, false
			}
			elements = append(elements, ast.CloneExpr(item))
		}
		return elements, true
	case *ast.String:
		if utf8.RuneCountInString(x.Value) > limit {
			return nil, false
		}
		elements := make([]ast.Expr, 0, len(x.Value))
		for _, r := range x.Value {
			elements = append(elements, &ast.String{ValuePos: x.ValuePos, Value: string(r)})
		}
		return elements, true
	}
	return nil, false
}
