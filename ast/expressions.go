package ast

import (
	"bytes"
	"strings"

	"github.com/deepnoodle-ai/emergent/internal/token"
)

// Ident is an expression node that refers to a variable or function by name.
type Ident struct {
	NamePos token.Position // position of identifier
	Name    string         // identifier name
}

func (x *Ident) exprNode() {}

func (x *Ident) Pos() token.Position { return x.NamePos }
func (x *Ident) End() token.Position { return x.NamePos.Advance(len(x.Name)) }

func (x *Ident) String() string { return x.Name }

// Prefix is an operator expression where the operator precedes the operand.
// Examples include "not done" and "-x".
type Prefix struct {
	OpPos token.Position // position of operator
	Op    string         // operator: "-" or "not"
	X     Expr           // operand
}

func (x *Prefix) exprNode() {}

func (x *Prefix) Pos() token.Position { return x.OpPos }
func (x *Prefix) End() token.Position { return x.X.End() }

func (x *Prefix) String() string {
	var out bytes.Buffer
	out.WriteString("(")
	out.WriteString(x.Op)
	if x.Op == "not" {
		out.WriteString(" ")
	}
	out.WriteString(x.X.String())
	out.WriteString(")")
	return out.String()
}

// Infix is an operator expression where the operator sits between two
// operands. Examples include "a + b" and "x and y".
type Infix struct {
	X     Expr           // left operand
	OpPos token.Position // position of operator
	Op    string         // operator
	Y     Expr           // right operand
}

func (x *Infix) exprNode() {}

func (x *Infix) Pos() token.Position { return x.X.Pos() }
func (x *Infix) End() token.Position { return x.Y.End() }

func (x *Infix) String() string {
	var out bytes.Buffer
	out.WriteString("(")
	out.WriteString(x.X.String())
	out.WriteString(" " + x.Op + " ")
	out.WriteString(x.Y.String())
	out.WriteString(")")
	return out.String()
}

// Call is an expression node that invokes a callee with arguments.
type Call struct {
	Fun    Expr           // function expression
	Lparen token.Position // position of "("
	Args   []Expr         // function arguments
	Rparen token.Position // position of ")"
}

func (x *Call) exprNode() {}

func (x *Call) Pos() token.Position { return x.Fun.Pos() }
func (x *Call) End() token.Position { return x.Rparen.Advance(1) }

func (x *Call) String() string {
	args := make([]string, 0, len(x.Args))
	for _, a := range x.Args {
		args = append(args, a.String())
	}
	return x.Fun.String() + "(" + strings.Join(args, ", ") + ")"
}

// FunName returns the callee name when the callee is a plain identifier.
func (x *Call) FunName() (string, bool) {
	if ident, ok := x.Fun.(*Ident); ok {
		return ident.Name, true
	}
	return "", false
}

// Index is an expression node that reads an element of a list or string.
// Chains left-associate: grid[x][y] is Index{X: Index{X: grid, Index: x}, Index: y}.
type Index struct {
	X      Expr           // expression being indexed
	Lbrack token.Position // position of "["
	Index  Expr           // index expression
	Rbrack token.Position // position of "]"
}

func (x *Index) exprNode() {}

func (x *Index) Pos() token.Position { return x.X.Pos() }
func (x *Index) End() token.Position { return x.Rbrack.Advance(1) }

func (x *Index) String() string {
	return x.X.String() + "[" + x.Index.String() + "]"
}

// Flatten returns the innermost non-index base expression of an index
// chain along with the index expressions ordered outermost-first.
// For grid[x][y] it returns (grid, [x, y]).
func (x *Index) Flatten() (Expr, []Expr) {
	var indexes []Expr
	var cur Expr = x
	for {
		idx, ok := cur.(*Index)
		if !ok {
			break
		}
		indexes = append(indexes, idx.Index)
		cur = idx.X
	}
	for i, j := 0, len(indexes)-1; i < j; i, j = i+1, j-1 {
		indexes[i], indexes[j] = indexes[j], indexes[i]
	}
	return cur, indexes
}
