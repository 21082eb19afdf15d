package ast

import (
	"testing"

	"github.com/deepnoodle-ai/emergent/internal/token"
	"github.com/stretchr/testify/require"
)

func TestWalk(t *testing.T) {
	// let x = 1 + 2
	program := &Program{
		Stmts: []Stmt{
			&Let{
				LetPos: token.Position{Line: 1, Column: 1},
				Name: &Ident{
					NamePos: token.Position{Line: 1, Column: 5},
					Name:    "x",
				},
				Value: &Infix{
					X:     &Number{ValuePos: token.Position{Line: 1, Column: 9}, Literal: "1", Value: 1},
					OpPos: token.Position{Line: 1, Column: 11},
					Op:    "+",
					Y:     &Number{ValuePos: token.Position{Line: 1, Column: 13}, Literal: "2", Value: 2},
				},
			},
		},
	}

	var visited []string
	Inspect(program, func(n Node) bool {
		switch node := n.(type) {
		case *Program:
			visited = append(visited, "Program")
		case *Let:
			visited = append(visited, "Let")
		case *Ident:
			visited = append(visited, "Ident:"+node.Name)
		case *Infix:
			visited = append(visited, "Infix:"+node.Op)
		case *Number:
			visited = append(visited, "Number")
		}
		return true
	})
	require.Equal(t, []string{"Program", "Let", "Ident:x", "Infix:+", "Number", "Number"}, visited)
}

func TestWalkSkipChildren(t *testing.T) {
	program := &Program{Stmts: []Stmt{
		&Def{Name: ident("f"), Body: &Block{Stmts: []Stmt{&ExprStmt{X: ident("inner")}}}},
		&ExprStmt{X: &Call{Fun: ident("f")}},
	}}
	var names []string
	Inspect(program, func(n Node) bool {
		if _, ok := n.(*Def); ok {
			return false
		}
		if id, ok := n.(*Ident); ok {
			names = append(names, id.Name)
		}
		return true
	})
	require.Equal(t, []string{"f"}, names)
}

func TestCountNodesAndIdentifiers(t *testing.T) {
	expr := &Call{Fun: ident("normal"), Args: []Expr{ident("mu"), &Infix{X: ident("s"), Op: "*", Y: num(2)}}}
	require.Equal(t, 6, CountNodes(expr))
	require.Equal(t, map[string]bool{"normal": true, "mu": true, "s": true}, Identifiers(expr))
}

func TestWalkAllStatements(t *testing.T) {
	program := &Program{Stmts: []Stmt{
		&If{Cond: ident("a"), Consequence: &Block{}, Alternative: &Block{Stmts: []Stmt{&Return{Value: ident("b")}}}},
		&For{Var: ident("c"), Iterable: &List{Items: []Expr{ident("d")}}, Body: &Block{}},
		&While{Cond: &Prefix{Op: "not", X: ident("e")}, Body: &Block{}},
		&Try{Body: &Block{}, CatchVar: ident("f"), CatchBlock: &Block{}},
		&Assign{Target: &Index{X: ident("g"), Index: ident("h")}, Value: &Nil{}},
		&Import{Path: &String{Value: "x"}},
		&Morph{Name: ident("i"), Rules: []*MorphRule{{Cond: ident("j"), Body: &Block{}}}},
		&Goal{Value: ident("k")},
	}}
	ids := Identifiers(program)
	for _, name := range []string{"a", "b", "c", "d", "e", "f", "g", "h", "i", "j", "k"} {
		require.True(t, ids[name], name)
	}
}
