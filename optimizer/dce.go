package optimizer

import (
	"github.com/deepnoodle-ai/emergent/ast"
)

// EliminateDeadCode returns a copy of program without statements that can
// never affect its behavior:
//
//   - statements following a return in the same block
//   - top-level function definitions whose name is never referenced
//   - let statements without a type hint that bind a pure value to a name
//     that is never referenced
//
// Liveness is computed by reachability: top-level statements are roots,
// and a function body becomes live once its name is referenced from live
// code, which handles forward references. The final top-level statement
// is never removed since it decides the program's result. The pass
// repeats until nothing more can be removed and returns the number of
// statements removed.
func EliminateDeadCode(program *ast.Program) (*ast.Program, int) {
	out := ast.CloneProgram(program)
	removed := 0
	for {
		n := eliminateUnreachable(out)
		if !hasImport(out.Stmts) {
			n += eliminateUnused(out)
		}
		if n == 0 {
			return out, removed
		}
		removed += n
	}
}

// eliminateUnreachable drops statements that follow a return.
func eliminateUnreachable(program *ast.Program) int {
	removed := 0
	program.Stmts = rewriteBlocks(program.Stmts, func(stmts []ast.Stmt) []ast.Stmt {
		for i, stmt := range stmts {
			if _, ok := stmt.(*ast.Return); ok && i < len(stmts)-1 {
				removed += len(stmts) - i - 1
				return stmts[:i+1]
			}
		}
		return stmts
	})
	return removed
}

func eliminateUnused(program *ast.Program) int {
	stmts := program.Stmts
	if len(stmts) == 0 {
		return 0
	}
	final := stmts[len(stmts)-1]
	live := newLiveness()
	defs := map[string][]*ast.Def{}
	for _, stmt := range stmts {
		if def, ok := stmt.(*ast.Def); ok && stmt != final {
			defs[def.Name.Name] = append(defs[def.Name.Name], def)
			continue
		}
		live.stmt(stmt, stmt == final)
	}
	for len(live.queue) > 0 {
		name := live.queue[0]
		live.queue = live.queue[1:]
		for _, def := range defs[name] {
			live.stmts(def.Body.Stmts)
		}
	}

	removed := 0
	kept := stmts[:0:0]
	for _, stmt := range stmts {
		if def, ok := stmt.(*ast.Def); ok && stmt != final && !live.used[def.Name.Name] {
			removed++
			continue
		}
		kept = append(kept, stmt)
	}
	program.Stmts = rewriteBlocks(kept, func(stmts []ast.Stmt) []ast.Stmt {
		out := stmts[:0:0]
		for _, stmt := range stmts {
			if let, ok := stmt.(*ast.Let); ok && live.droppable[let] && !live.used[let.Name.Name] {
				removed++
				continue
			}
			out = append(out, stmt)
		}
		return out
	})
	return removed
}

// liveness collects the names referenced by live code.
type liveness struct {
	used      map[string]bool
	queue     []string
	droppable map[*ast.Let]bool
}

func newLiveness() *liveness {
	return &liveness{
		used:      map[string]bool{},
		droppable: map[*ast.Let]bool{},
	}
}

func (l *liveness) mark(name string) {
	if !l.used[name] {
		l.used[name] = true
		l.queue = append(l.queue, name)
	}
}

func (l *liveness) stmts(stmts []ast.Stmt) {
	for _, stmt := range stmts {
		l.stmt(stmt, false)
	}
}

// stmt records the references made by a live statement. A let of a pure
// value references nothing and is droppable unless it is final.
func (l *liveness) stmt(stmt ast.Stmt, final bool) {
	switch s := stmt.(type) {
	case *ast.Let:
		if !final && s.Hint == "" && isPure(s.Value) {
			l.droppable[s] = true
			return
		}
		l.expr(s.Value)
	case *ast.Def:
		l.stmts(s.Body.Stmts)
	case *ast.If:
		l.expr(s.Cond)
		l.stmts(s.Consequence.Stmts)
		if s.Alternative != nil {
			l.stmts(s.Alternative.Stmts)
		}
	case *ast.For:
		l.expr(s.Iterable)
		l.stmts(s.Body.Stmts)
	case *ast.While:
		l.expr(s.Cond)
		l.stmts(s.Body.Stmts)
	case *ast.Try:
		l.stmts(s.Body.Stmts)
		l.stmts(s.CatchBlock.Stmts)
	case *ast.Return:
		if s.Value != nil {
			l.expr(s.Value)
		}
	case *ast.ExprStmt:
		l.expr(s.X)
	case *ast.Assign:
		if _, ok := s.Target.(*ast.Ident); !ok {
			l.expr(s.Target)
		}
		l.expr(s.Value)
	case *ast.Morph, *ast.Goal:
		l.node(s)
	case *ast.Import:
	}
}

func (l *liveness) expr(expr ast.Expr) {
	l.node(expr)
}

func (l *liveness) node(node ast.Node) {
	ast.Inspect(node, func(n ast.Node) bool {
		if ident, ok := n.(*ast.Ident); ok {
			l.mark(ident.Name)
		}
		return true
	})
}

// isPure reports whether evaluating expr can have no effect and cannot
// fault, whatever the run-time options.
func isPure(expr ast.Expr) bool {
	switch x := expr.(type) {
	case *ast.Number, *ast.String, *ast.Bool, *ast.Nil:
		return true
	case *ast.List:
		for _, item := range x.Items {
			if !isPure(item) {
				return false
			}
		}
		return true
	}
	return false
}
