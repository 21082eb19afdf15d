package ast

import (
	"bytes"
	"strings"

	"github.com/deepnoodle-ai/emergent/internal/token"
)

// Let is a statement node that binds a name in the innermost scope.
// Example: let x: number = 5
type Let struct {
	LetPos token.Position // position of "let" keyword
	Name   *Ident         // variable name
	Hint   string         // optional type hint; empty if absent
	Value  Expr           // bound value
}

func (s *Let) stmtNode() {}

func (s *Let) Pos() token.Position { return s.LetPos }
func (s *Let) End() token.Position { return s.Value.End() }

func (s *Let) String() string {
	var out bytes.Buffer
	out.WriteString("let ")
	out.WriteString(s.Name.Name)
	if s.Hint != "" {
		out.WriteString(": ")
		out.WriteString(s.Hint)
	}
	out.WriteString(" = ")
	out.WriteString(s.Value.String())
	return out.String()
}

// Def is a statement node that registers a named function.
// Example: def add(a, b) -> number { a + b }
type Def struct {
	DefPos     token.Position // position of "def" keyword
	Name       *Ident         // function name
	Params     []*Ident       // parameter names
	ReturnHint string         // optional return type hint
	Body       *Block         // function body
}

func (s *Def) stmtNode() {}

func (s *Def) Pos() token.Position { return s.DefPos }
func (s *Def) End() token.Position { return s.Body.End() }

// ParamNames returns the parameter names in order.
func (s *Def) ParamNames() []string {
	names := make([]string, 0, len(s.Params))
	for _, p := range s.Params {
		names = append(names, p.Name)
	}
	return names
}

func (s *Def) String() string {
	var out bytes.Buffer
	out.WriteString("def ")
	out.WriteString(s.Name.Name)
	out.WriteString("(")
	out.WriteString(strings.Join(s.ParamNames(), ", "))
	out.WriteString(") ")
	if s.ReturnHint != "" {
		out.WriteString("-> ")
		out.WriteString(s.ReturnHint)
		out.WriteString(" ")
	}
	out.WriteString(s.Body.String())
	return out.String()
}

// If is a statement node for conditional execution.
type If struct {
	IfPos       token.Position // position of "if" keyword
	Cond        Expr           // condition
	Consequence *Block         // executed when the condition is truthy
	Alternative *Block         // optional else block; nil if absent
}

func (s *If) stmtNode() {}

func (s *If) Pos() token.Position { return s.IfPos }
func (s *If) End() token.Position {
	if s.Alternative != nil {
		return s.Alternative.End()
	}
	return s.Consequence.End()
}

func (s *If) String() string {
	var out bytes.Buffer
	out.WriteString("if ")
	out.WriteString(s.Cond.String())
	out.WriteString(" ")
	out.WriteString(s.Consequence.String())
	if s.Alternative != nil {
		out.WriteString(" else ")
		out.WriteString(s.Alternative.String())
	}
	return out.String()
}

// For is a statement node that iterates over a list or string.
// Example: for x in items { print(x) }
type For struct {
	ForPos   token.Position // position of "for" keyword
	Var      *Ident         // loop variable
	Iterable Expr           // evaluated once before iteration
	Body     *Block
}

func (s *For) stmtNode() {}

func (s *For) Pos() token.Position { return s.ForPos }
func (s *For) End() token.Position { return s.Body.End() }

func (s *For) String() string {
	return "for " + s.Var.Name + " in " + s.Iterable.String() + " " + s.Body.String()
}

// While is a statement node that loops while its condition is truthy.
type While struct {
	WhilePos token.Position // position of "while" keyword
	Cond     Expr
	Body     *Block
}

func (s *While) stmtNode() {}

func (s *While) Pos() token.Position { return s.WhilePos }
func (s *While) End() token.Position { return s.Body.End() }

func (s *While) String() string {
	return "while " + s.Cond.String() + " " + s.Body.String()
}

// Try is a statement node that catches runtime faults raised by its body.
// Example: try { risky() } catch (e) { print(e) }
type Try struct {
	TryPos     token.Position // position of "try" keyword
	Body       *Block         // guarded block
	CatchVar   *Ident         // receives the fault message; may be nil
	CatchBlock *Block         // executed when Body faults
}

func (s *Try) stmtNode() {}

func (s *Try) Pos() token.Position { return s.TryPos }
func (s *Try) End() token.Position { return s.CatchBlock.End() }

func (s *Try) String() string {
	var out bytes.Buffer
	out.WriteString("try ")
	out.WriteString(s.Body.String())
	out.WriteString(" catch ")
	if s.CatchVar != nil {
		out.WriteString("(")
		out.WriteString(s.CatchVar.Name)
		out.WriteString(") ")
	}
	out.WriteString(s.CatchBlock.String())
	return out.String()
}

// Return is a statement node that ends the current function.
type Return struct {
	ReturnPos token.Position // position of "return" keyword
	Value     Expr           // optional result; nil if absent
}

func (s *Return) stmtNode() {}

func (s *Return) Pos() token.Position { return s.ReturnPos }
func (s *Return) End() token.Position {
	if s.Value != nil {
		return s.Value.End()
	}
	return s.ReturnPos.Advance(6) // len("return")
}

func (s *Return) String() string {
	if s.Value == nil {
		return "return"
	}
	return "return " + s.Value.String()
}

// ExprStmt is a statement node consisting of a single expression. Its
// value becomes the "last value" of the enclosing function or program.
type ExprStmt struct {
	X Expr
}

func (s *ExprStmt) stmtNode() {}

func (s *ExprStmt) Pos() token.Position { return s.X.Pos() }
func (s *ExprStmt) End() token.Position { return s.X.End() }

func (s *ExprStmt) String() string { return s.X.String() }

// Assign is a statement node that updates a variable or a list element.
// The target is either an *Ident or an *Index.
type Assign struct {
	Target Expr
	OpPos  token.Position // position of "="
	Value  Expr
}

func (s *Assign) stmtNode() {}

func (s *Assign) Pos() token.Position { return s.Target.Pos() }
func (s *Assign) End() token.Position { return s.Value.End() }

func (s *Assign) String() string {
	return s.Target.String() + " = " + s.Value.String()
}

// Import is a statement node that loads and runs another source file.
type Import struct {
	ImportPos token.Position // position of "import" keyword
	Path      *String
}

func (s *Import) stmtNode() {}

func (s *Import) Pos() token.Position { return s.ImportPos }
func (s *Import) End() token.Position { return s.Path.End() }

func (s *Import) String() string { return "import " + s.Path.String() }

// MorphRule is a single "if cond { ... }" rule within a morph statement.
type MorphRule struct {
	IfPos token.Position
	Cond  Expr
	Body  *Block
}

func (r *MorphRule) String() string {
	return "if " + r.Cond.String() + " " + r.Body.String()
}

// Morph is a statement node declaring self-rewrite rules for a function.
// The engine records morph declarations but does not execute them.
type Morph struct {
	MorphPos token.Position // position of "morph" keyword
	Name     *Ident
	Rules    []*MorphRule
	Rbrace   token.Position
}

func (s *Morph) stmtNode() {}

func (s *Morph) Pos() token.Position { return s.MorphPos }
func (s *Morph) End() token.Position { return s.Rbrace.Advance(1) }

func (s *Morph) String() string {
	if len(s.Rules) == 0 {
		return "morph " + s.Name.Name + " { }"
	}
	rules := make([]string, 0, len(s.Rules))
	for _, r := range s.Rules {
		rules = append(rules, r.String())
	}
	return "morph " + s.Name.Name + " { " + strings.Join(rules, "; ") + " }"
}

// Goal is a statement node declaring an objective expression.
// Example: goal: accuracy > 0.9
type Goal struct {
	GoalPos token.Position
	Value   Expr
}

func (s *Goal) stmtNode() {}

func (s *Goal) Pos() token.Position { return s.GoalPos }
func (s *Goal) End() token.Position { return s.Value.End() }

func (s *Goal) String() string { return "goal: " + s.Value.String() }
