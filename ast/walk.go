package ast

import "fmt"

// Visitor defines the interface for AST traversal. If Visit returns nil,
// children of the node are not visited. Otherwise, the returned Visitor
// is used to visit children.
type Visitor interface {
	Visit(node Node) (w Visitor)
}

// Walk traverses an AST in depth-first order. It starts by calling
// v.Visit(node); if the returned visitor w is not nil, Walk is invoked
// recursively with visitor w for each of the non-nil children of node.
func Walk(v Visitor, node Node) {
	if v = v.Visit(node); v == nil {
		return
	}

	switch n := node.(type) {
	case *Program:
		for _, stmt := range n.Stmts {
			Walk(v, stmt)
		}
	case *Block:
		for _, stmt := range n.Stmts {
			Walk(v, stmt)
		}

	// Statements
	case *Let:
		Walk(v, n.Name)
		Walk(v, n.Value)
	case *Def:
		Walk(v, n.Name)
		for _, p := range n.Params {
			Walk(v, p)
		}
		Walk(v, n.Body)
	case *If:
		Walk(v, n.Cond)
		Walk(v, n.Consequence)
		if n.Alternative != nil {
			Walk(v, n.Alternative)
		}
	case *For:
		Walk(v, n.Var)
		Walk(v, n.Iterable)
		Walk(v, n.Body)
	case *While:
		Walk(v, n.Cond)
		Walk(v, n.Body)
	case *Try:
		Walk(v, n.Body)
		if n.CatchVar != nil {
			Walk(v, n.CatchVar)
		}
		Walk(v, n.CatchBlock)
	case *Return:
		if n.Value != nil {
			Walk(v, n.Value)
		}
	case *ExprStmt:
		Walk(v, n.X)
	case *Assign:
		Walk(v, n.Target)
		Walk(v, n.Value)
	case *Import:
		Walk(v, n.Path)
	case *Morph:
		Walk(v, n.Name)
		for _, r := range n.Rules {
			Walk(v, r.Cond)
			Walk(v, r.Body)
		}
	case *Goal:
		Walk(v, n.Value)

	// Expressions
	case *Prefix:
		Walk(v, n.X)
	case *Infix:
		Walk(v, n.X)
		Walk(v, n.Y)
	case *Call:
		Walk(v, n.Fun)
		for _, a := range n.Args {
			Walk(v, a)
		}
	case *Index:
		Walk(v, n.X)
		Walk(v, n.Index)
	case *List:
		for _, item := range n.Items {
			Walk(v, item)
		}

	// Leaves
	case *Ident, *Number, *String, *Bool, *Nil:

	default:
		panic(fmt.Sprintf("ast.Walk: unexpected node type %T", n))
	}

	v.Visit(nil)
}

type inspector func(Node) bool

func (f inspector) Visit(node Node) Visitor {
	if f(node) {
		return f
	}
	return nil
}

// Inspect traverses an AST in depth-first order: It starts by calling
// f(node); node must not be nil. If f returns true, Inspect invokes f
// recursively for each of the non-nil children of node, followed by a
// call of f(nil).
func Inspect(node Node, f func(Node) bool) {
	Walk(inspector(f), node)
}

// CountNodes returns the number of nodes in the tree rooted at node.
func CountNodes(node Node) int {
	count := 0
	Inspect(node, func(n Node) bool {
		if n != nil {
			count++
		}
		return true
	})
	return count
}

// Identifiers returns every identifier name referenced beneath node,
// including call targets.
func Identifiers(node Node) map[string]bool {
	names := map[string]bool{}
	Inspect(node, func(n Node) bool {
		if ident, ok := n.(*Ident); ok {
			names[ident.Name] = true
		}
		return true
	})
	return names
}
