package optimizer

import (
	"github.com/deepnoodle-ai/emergent/ast"
	"github.com/deepnoodle-ai/emergent/builtins"
)

// candidate is a function whose calls can be replaced by its body.
type candidate struct {
	index  int // position of the definition among top-level statements
	params []string
	body   ast.Expr
}

// Inline returns a copy of program in which calls to small functions are
// replaced by the function's body expression with the arguments
// substituted for the parameters. A function qualifies when it is defined
// once, at top level, without a return hint, and its body is a single
// expression (or return of one) of at most level.InlineThreshold() nodes
// that references only its parameters and calls only builtins. Such a body
// can neither recurse nor observe the scope it is called from. A call is
// replaced only when it appears after the definition, passes the right
// number of arguments, and every argument is a literal or an identifier.
// The second result is the number of calls replaced.
func Inline(program *ast.Program, level Level) (*ast.Program, int) {
	out := ast.CloneProgram(program)
	threshold := level.InlineThreshold()
	if threshold == 0 || hasImport(out.Stmts) {
		return out, 0
	}
	candidates := findCandidates(out.Stmts, threshold)
	if len(candidates) == 0 {
		return out, 0
	}
	inlined := 0
	for i, stmt := range out.Stmts {
		rewriteStmt(stmt, func(expr ast.Expr) ast.Expr {
			call, ok := expr.(*ast.Call)
			if !ok {
				return expr
			}
			name, ok := call.FunName()
			if !ok {
				return expr
			}
			c, ok := candidates[name]
			if !ok || i <= c.index || !inlinableArgs(call.Args, len(c.params)) {
				return expr
			}
			inlined++
			return substitute(c.body, c.params, call.Args)
		})
	}
	return out, inlined
}

func findCandidates(stmts []ast.Stmt, threshold int) map[string]*candidate {
	definitions := map[string]int{}
	for _, stmt := range stmts {
		ast.Inspect(stmt, func(n ast.Node) bool {
			if def, ok := n.(*ast.Def); ok {
				definitions[def.Name.Name]++
			}
			return true
		})
	}
	candidates := map[string]*candidate{}
	for i, stmt := range stmts {
		def, ok := stmt.(*ast.Def)
		if !ok || def.ReturnHint != "" || definitions[def.Name.Name] != 1 || builtins.IsBuiltin(def.Name.Name) {
			continue
		}
		body, ok := bodyExpr(def.Body)
		if !ok || ast.CountNodes(body) > threshold {
			continue
		}
		params := def.ParamNames()
		if !selfContained(body, params) {
			continue
		}
		candidates[def.Name.Name] = &candidate{index: i, params: params, body: body}
	}
	return candidates
}

// bodyExpr returns the expression a single-statement body evaluates to.
func bodyExpr(body *ast.Block) (ast.Expr, bool) {
	if len(body.Stmts) != 1 {
		return nil, false
	}
	switch s := body.Stmts[0].(type) {
	case *ast.ExprStmt:
		return s.X, true
	case *ast.Return:
		if s.Value != nil {
			return s.Value, true
		}
	}
	return nil, false
}

// selfContained reports whether expr reads only the given parameters and
// calls only builtins by name.
func selfContained(expr ast.Expr, params []string) bool {
	isParam := map[string]bool{}
	for _, p := range params {
		isParam[p] = true
	}
	var check func(ast.Expr) bool
	check = func(expr ast.Expr) bool {
		switch x := expr.(type) {
		case *ast.Ident:
			return isParam[x.Name]
		case *ast.Number, *ast.String, *ast.Bool, *ast.Nil:
			return true
		case *ast.List:
			for _, item := range x.Items {
				if !check(item) {
					return false
				}
			}
			return true
		case *ast.Prefix:
			return check(x.X)
		case *ast.Infix:
			return check(x.X) && check(x.Y)
		case *ast.Index:
			return check(x.X) && check(x.Index)
		case *ast.Call:
			name, ok := x.FunName()
			if !ok || !builtins.IsBuiltin(name) {
				return false
			}
			for _, arg := range x.Args {
				if !check(arg) {
					return false
				}
			}
			return true
		}
		return false
	}
	return check(expr)
}

func inlinableArgs(args []ast.Expr, want int) bool {
	if len(args) != want {
		return false
	}
	for _, arg := range args {
		switch arg.(type) {
		case *ast.Ident, *ast.Number, *ast.String, *ast.Bool, *ast.Nil:
		default:
			return false
		}
	}
	return true
}

// substitute returns a copy of body with each parameter replaced by a copy
// of the matching argument. Callee names are not parameters, since named
// calls always resolve to the builtin.
func substitute(body ast.Expr, params []string, args []ast.Expr) ast.Expr {
	bound := map[string]ast.Expr{}
	for i, p := range params {
		bound[p] = args[i]
	}
	out := ast.CloneExpr(body)
	var replace func(ast.Expr) ast.Expr
	replace = func(expr ast.Expr) ast.Expr {
		switch x := expr.(type) {
		case *ast.Ident:
			if arg, ok := bound[x.Name]; ok {
				return ast.CloneExpr(arg)
			}
		case *ast.List:
			for i, item := range x.Items {
				x.Items[i] = replace(item)
			}
		case *ast.Prefix:
			x.X = replace(x.X)
		case *ast.Infix:
			x.X = replace(x.X)
			x.Y = replace(x.Y)
		case *ast.Index:
			x.X = replace(x.X)
			x.Index = replace(x.Index)
		case *ast.Call:
			for i, arg := range x.Args {
				x.Args[i] = replace(arg)
			}
		}
		return expr
	}
	return replace(out)
}
