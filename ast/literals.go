package ast

import (
	"math"
	"strconv"
	"strings"

	"github.com/deepnoodle-ai/emergent/internal/token"
)

// Number is an expression node that holds a numeric literal. All numbers
// are float64 values, including those written without a fraction.
type Number struct {
	ValuePos token.Position // position of the literal
	Literal  string         // the literal text; empty for synthesized nodes
	Value    float64        // the parsed value
}

func (x *Number) exprNode() {}

func (x *Number) Pos() token.Position { return x.ValuePos }
func (x *Number) End() token.Position { return x.ValuePos.Advance(len(x.Literal)) }

func (x *Number) String() string {
	return FormatNumber(x.Value)
}

// FormatNumber returns the canonical source text for a number. Negative
// values are written as a parenthesized negation so they reparse.
func FormatNumber(v float64) string {
	if v < 0 || (v == 0 && math.Signbit(v)) {
		return "(-" + strconv.FormatFloat(-v, 'f', -1, 64) + ")"
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// String is an expression node that holds a string literal.
type String struct {
	ValuePos token.Position // position of the opening quote
	Value    string         // the unquoted value
}

func (x *String) exprNode() {}

func (x *String) Pos() token.Position { return x.ValuePos }
func (x *String) End() token.Position { return x.ValuePos.Advance(len(x.Value) + 2) }

func (x *String) String() string {
	if strings.ContainsRune(x.Value, '"') {
		return "'" + x.Value + "'"
	}
	return `"` + x.Value + `"`
}

// Quotable reports whether a string can be written as a literal. Literals
// have no escapes, so a value holding both quote characters cannot.
func Quotable(s string) bool {
	return !(strings.ContainsRune(s, '"') && strings.ContainsRune(s, '\''))
}

// Bool is an expression node that holds a boolean literal.
type Bool struct {
	ValuePos token.Position // position of "true" or "false"
	Value    bool
}

func (x *Bool) exprNode() {}

func (x *Bool) Pos() token.Position { return x.ValuePos }
func (x *Bool) End() token.Position { return x.ValuePos.Advance(len(x.String())) }

func (x *Bool) String() string {
	if x.Value {
		return "true"
	}
	return "false"
}

// Nil is an expression node that holds a nil literal.
type Nil struct {
	NilPos token.Position // position of "nil" keyword
}

func (x *Nil) exprNode() {}

func (x *Nil) Pos() token.Position { return x.NilPos }
func (x *Nil) End() token.Position { return x.NilPos.Advance(3) } // len("nil")

func (x *Nil) String() string { return "nil" }

// List is an expression node that holds a list literal.
type List struct {
	Lbrack token.Position // position of "["
	Items  []Expr
	Rbrack token.Position // position of "]"
}

func (x *List) exprNode() {}

func (x *List) Pos() token.Position { return x.Lbrack }
func (x *List) End() token.Position { return x.Rbrack.Advance(1) }

func (x *List) String() string {
	items := make([]string, 0, len(x.Items))
	for _, item := range x.Items {
		items = append(items, item.String())
	}
	return "[" + strings.Join(items, ", ") + "]"
}
