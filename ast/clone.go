package ast

import "fmt"

// CloneProgram returns a deep copy of a program. Positions are preserved.
func CloneProgram(p *Program) *Program {
	return &Program{Stmts: CloneStmts(p.Stmts)}
}

// CloneStmts returns deep copies of a statement list.
func CloneStmts(stmts []Stmt) []Stmt {
	if stmts == nil {
		return nil
	}
	out := make([]Stmt, len(stmts))
	for i, stmt := range stmts {
		out[i] = CloneStmt(stmt)
	}
	return out
}

// CloneBlock returns a deep copy of a block, or nil for a nil block.
func CloneBlock(b *Block) *Block {
	if b == nil {
		return nil
	}
	return &Block{Lbrace: b.Lbrace, Stmts: CloneStmts(b.Stmts), Rbrace: b.Rbrace}
}

func cloneIdent(x *Ident) *Ident {
	if x == nil {
		return nil
	}
	return &Ident{NamePos: x.NamePos, Name: x.Name}
}

// CloneStmt returns a deep copy of a statement.
func CloneStmt(stmt Stmt) Stmt {
	switch s := stmt.(type) {
	case *Let:
		return &Let{LetPos: s.LetPos, Name: cloneIdent(s.Name), Hint: s.Hint, Value: CloneExpr(s.Value)}
	case *Def:
		params := make([]*Ident, len(s.Params))
		for i, p := range s.Params {
			params[i] = cloneIdent(p)
		}
		return &Def{DefPos: s.DefPos, Name: cloneIdent(s.Name), Params: params, ReturnHint: s.ReturnHint, Body: CloneBlock(s.Body)}
	case *If:
		return &If{IfPos: s.IfPos, Cond: CloneExpr(s.Cond), Consequence: CloneBlock(s.Consequence), Alternative: CloneBlock(s.Alternative)}
	case *For:
		return &For{ForPos: s.ForPos, Var: cloneIdent(s.Var), Iterable: CloneExpr(s.Iterable), Body: CloneBlock(s.Body)}
	case *While:
		return &While{WhilePos: s.WhilePos, Cond: CloneExpr(s.Cond), Body: CloneBlock(s.Body)}
	case *Try:
		return &Try{TryPos: s.TryPos, Body: CloneBlock(s.Body), CatchVar: cloneIdent(s.CatchVar), CatchBlock: CloneBlock(s.CatchBlock)}
	case *Return:
		ret := &Return{ReturnPos: s.ReturnPos}
		if s.Value != nil {
			ret.Value = CloneExpr(s.Value)
		}
		return ret
	case *ExprStmt:
		return &ExprStmt{X: CloneExpr(s.X)}
	case *Assign:
		return &Assign{Target: CloneExpr(s.Target), OpPos: s.OpPos, Value: CloneExpr(s.Value)}
	case *Import:
		return &Import{ImportPos: s.ImportPos, Path: &String{ValuePos: s.Path.ValuePos, Value: s.Path.Value}}
	case *Morph:
		rules := make([]*MorphRule, len(s.Rules))
		for i, r := range s.Rules {
			rules[i] = &MorphRule{IfPos: r.IfPos, Cond: CloneExpr(r.Cond), Body: CloneBlock(r.Body)}
		}
		return &Morph{MorphPos: s.MorphPos, Name: cloneIdent(s.Name), Rules: rules, Rbrace: s.Rbrace}
	case *Goal:
		return &Goal{GoalPos: s.GoalPos, Value: CloneExpr(s.Value)}
	default:
		panic(fmt.Sprintf("ast.CloneStmt: unexpected node type %T", stmt))
	}
}

// CloneExpr returns a deep copy of an expression.
func CloneExpr(expr Expr) Expr {
	switch x := expr.(type) {
	case *Ident:
		return cloneIdent(x)
	case *Number:
		return &Number{ValuePos: x.ValuePos, Literal: x.Literal, Value: x.Value}
	case *String:
		return &String{ValuePos: x.ValuePos, Value: x.Value}
	case *Bool:
		return &Bool{ValuePos: x.ValuePos, Value: x.Value}
	case *Nil:
		return &Nil{NilPos: x.NilPos}
	case *List:
		items := make([]Expr, len(x.Items))
		for i, item := range x.Items {
			items[i] = CloneExpr(item)
		}
		return &List{Lbrack: x.Lbrack, Items: items, Rbrack: x.Rbrack}
	case *Prefix:
		return &Prefix{OpPos: x.OpPos, Op: x.Op, X: CloneExpr(x.X)}
	case *Infix:
		return &Infix{X: CloneExpr(x.X), OpPos: x.OpPos, Op: x.Op, Y: CloneExpr(x.Y)}
	case *Call:
		args := make([]Expr, len(x.Args))
		for i, arg := range x.Args {
			args[i] = CloneExpr(arg)
		}
		return &Call{Fun: CloneExpr(x.Fun), Lparen: x.Lparen, Args: args, Rparen: x.Rparen}
	case *Index:
		return &Index{X: CloneExpr(x.X), Lbrack: x.Lbrack, Index: CloneExpr(x.Index), Rbrack: x.Rbrack}
	default:
		panic(fmt.Sprintf("ast.CloneExpr: unexpected node type %T", expr))
	}
}
