// Package ast defines the abstract syntax tree representation of emergent code.
package ast

import (
	"strings"

	"github.com/deepnoodle-ai/emergent/internal/token"
)

// Node represents a portion of the syntax tree. All nodes have position
// information indicating where they appear in the source code.
type Node interface {
	// Pos returns the position of the first character belonging to the node.
	Pos() token.Position

	// End returns the position of the first character immediately after the node.
	End() token.Position

	// String returns the canonical source form of the node. Parsing the
	// output yields a structurally equal tree.
	String() string
}

// Stmt represents a statement node. Statements cause side effects and may
// be followed by a terminator (newline, ";", "}" or end of input).
type Stmt interface {
	Node
	stmtNode()
}

// Expr represents an expression node. Expressions evaluate to a value
// and may be embedded within other expressions.
type Expr interface {
	Node
	exprNode()
}

// Program is the root node of a parsed source file.
type Program struct {
	Stmts []Stmt
}

func (p *Program) Pos() token.Position {
	if len(p.Stmts) > 0 {
		return p.Stmts[0].Pos()
	}
	return token.NoPos
}

func (p *Program) End() token.Position {
	if n := len(p.Stmts); n > 0 {
		return p.Stmts[n-1].End()
	}
	return token.NoPos
}

func (p *Program) String() string {
	lines := make([]string, 0, len(p.Stmts))
	for _, stmt := range p.Stmts {
		lines = append(lines, stmt.String())
	}
	return strings.Join(lines, "\n")
}

// Block is a brace-delimited sequence of statements. Blocks do not
// introduce a new variable scope.
type Block struct {
	Lbrace token.Position // position of "{"
	Stmts  []Stmt
	Rbrace token.Position // position of "}"
}

func (b *Block) Pos() token.Position { return b.Lbrace }
func (b *Block) End() token.Position { return b.Rbrace.Advance(1) }

func (b *Block) String() string {
	if len(b.Stmts) == 0 {
		return "{ }"
	}
	parts := make([]string, 0, len(b.Stmts))
	for _, stmt := range b.Stmts {
		parts = append(parts, stmt.String())
	}
	return "{ " + strings.Join(parts, "; ") + " }"
}

// Equal reports whether two nodes are structurally equal, ignoring
// source positions.
func Equal(a, b Node) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return a.String() == b.String()
}

// IsLiteral returns true if the expression is a scalar literal.
func IsLiteral(expr Expr) bool {
	switch expr.(type) {
	case *Number, *String, *Bool, *Nil:
		return true
	}
	return false
}

// IsBinding returns true for statements that bind a name rather than
// produce a value.
func IsBinding(stmt Stmt) bool {
	switch stmt.(type) {
	case *Let, *Def, *Assign, *Import, *Morph, *Goal:
		return true
	}
	return false
}
