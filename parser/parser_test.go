package parser

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/deepnoodle-ai/emergent/ast"
	"github.com/deepnoodle-ai/emergent/internal/lexer"
	"github.com/stretchr/testify/require"
)

func parse(t *testing.T, input string) *ast.Program {
	t.Helper()
	program, err := Parse(context.Background(), input)
	require.Nil(t, err)
	return program
}

func TestTokenLineCol(t *testing.T) {
	code := `
let x = 5;
let y = 10;
	`
	program := parse(t, code)
	require.Len(t, program.Stmts, 2)

	stmt1 := program.Stmts[0].(*ast.Let)
	stmt2 := program.Stmts[1].(*ast.Let)
	require.Equal(t, 2, stmt1.Pos().LineNumber())
	require.Equal(t, 1, stmt1.Pos().ColumnNumber())
	require.Equal(t, 3, stmt2.Pos().LineNumber())
	require.Equal(t, 5, stmt2.Name.Pos().ColumnNumber())
}

func TestPrecedence(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"1 + 2 * 3", "(1 + (2 * 3))"},
		{"(1 + 2) * 3", "((1 + 2) * 3)"},
		{"a - b - c", "((a - b) - c)"},
		{"a / b * c % d", "(((a / b) * c) % d)"},
		{"2 > 1 and 3 > 2", "((2 > 1) and (3 > 2))"},
		{"a or b and c", "(a or (b and c))"},
		{"a == b < c", "(a == (b < c))"},
		{"a != b or c <= d", "((a != b) or (c <= d))"},
		{"-a * b", "((-a) * b)"},
		{"not a and b", "((not a) and b)"},
		{"not a == b", "((not a) == b)"},
		{"- -a", "(-(-a))"},
		{"-f(x)", "(-f(x))"},
		{"a + f(b)[0] * 2", "(a + (f(b)[0] * 2))"},
		{"x >= 1 + 2", "(x >= (1 + 2))"},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			program := parse(t, tt.input)
			require.Len(t, program.Stmts, 1)
			require.Equal(t, tt.expected, program.Stmts[0].String())
		})
	}
}

func TestPostfixChainsLeftAssociate(t *testing.T) {
	program := parse(t, "grid[x][y]")
	outer, ok := program.Stmts[0].(*ast.ExprStmt).X.(*ast.Index)
	require.True(t, ok)
	inner, ok := outer.X.(*ast.Index)
	require.True(t, ok)
	require.Equal(t, "grid", inner.X.String())
	require.Equal(t, "x", inner.Index.String())
	require.Equal(t, "y", outer.Index.String())

	program = parse(t, "f(1)(2)[3](4)")
	call, ok := program.Stmts[0].(*ast.ExprStmt).X.(*ast.Call)
	require.True(t, ok)
	require.Equal(t, "f(1)(2)[3]", call.Fun.String())
	require.Equal(t, "4", call.Args[0].String())
}

func TestBuiltinKeywordsAreIdentifiers(t *testing.T) {
	program := parse(t, "print(sample(normal(0, 1)), consensus([1, 1, 2]))")
	call := program.Stmts[0].(*ast.ExprStmt).X.(*ast.Call)
	name, ok := call.FunName()
	require.True(t, ok)
	require.Equal(t, "print", name)
	inner := call.Args[0].(*ast.Call)
	name, _ = inner.FunName()
	require.Equal(t, "sample", name)
	last := call.Args[1].(*ast.Call)
	name, _ = last.FunName()
	require.Equal(t, "consensus", name)
}

func TestLiterals(t *testing.T) {
	program := parse(t, `[1, 2.5, "s", 'q', true, false, nil, []]`)
	list := program.Stmts[0].(*ast.ExprStmt).X.(*ast.List)
	require.Len(t, list.Items, 8)
	require.Equal(t, 2.5, list.Items[1].(*ast.Number).Value)
	require.Equal(t, "s", list.Items[2].(*ast.String).Value)
	require.Equal(t, "q", list.Items[3].(*ast.String).Value)
	require.True(t, list.Items[4].(*ast.Bool).Value)
	require.IsType(t, &ast.Nil{}, list.Items[6])
	require.Empty(t, list.Items[7].(*ast.List).Items)
}

func TestNewlinesInsideDelimiters(t *testing.T) {
	program := parse(t, "let xs = [\n  1,\n  2,\n]\nf(\n  a,\n  b\n)\nlet y = (\n 1 +\n 2\n)")
	require.Len(t, program.Stmts, 3)
	require.Equal(t, "let xs = [1, 2]", program.Stmts[0].String())
	require.Equal(t, "f(a, b)", program.Stmts[1].String())
	require.Equal(t, "let y = (1 + 2)", program.Stmts[2].String())
}

func TestTrailingOperatorContinues(t *testing.T) {
	program := parse(t, "let x = 1 +\n  2 *\n  3")
	require.Len(t, program.Stmts, 1)
	require.Equal(t, "let x = (1 + (2 * 3))", program.Stmts[0].String())
}

func TestNewlineSeparatesStatements(t *testing.T) {
	program := parse(t, "x\n-y")
	require.Len(t, program.Stmts, 2)
	require.Equal(t, "x", program.Stmts[0].String())
	require.Equal(t, "(-y)", program.Stmts[1].String())
}

func TestMissingTerminator(t *testing.T) {
	_, err := Parse(context.Background(), "let x = 1 let y = 2")
	require.NotNil(t, err)
	var perr *ParseError
	require.True(t, errors.As(err, &perr))
	require.Equal(t, "end of statement", perr.Expected)
	require.Equal(t, `"let"`, perr.Found)
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		input    string
		expected string
		found    string
		line     int
		column   int
	}{
		{"if x 1 }", `"{"`, `"1"`, 1, 6},
		{"def f(a { a }", `")"`, `"{"`, 1, 9},
		{"for x [1] { }", `"in"`, `"["`, 1, 7},
		{"let = 4", "identifier", `"="`, 1, 5},
		{"try { } x { }", `"catch"`, `"x"`, 1, 9},
		{"(1 + 2", `")"`, "end of file", 1, 7},
		{"f(1, 2", `")"`, "end of file", 1, 7},
		{"x[1", `"]"`, "end of file", 1, 4},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			_, err := Parse(context.Background(), tt.input)
			require.NotNil(t, err)
			var errs Errors
			require.True(t, errors.As(err, &errs))
			first := errs.First()
			require.Equal(t, tt.expected, first.Expected)
			require.Equal(t, tt.found, first.Found)
			require.Equal(t, tt.line, first.Line())
			require.Equal(t, tt.column, first.Column())
		})
	}
}

func TestUnterminatedBlock(t *testing.T) {
	_, err := Parse(context.Background(), "def f() {\n  1\n")
	require.NotNil(t, err)
	require.Contains(t, err.Error(), "unterminated block")
}

func TestInvalidAssignmentTarget(t *testing.T) {
	_, err := Parse(context.Background(), "f() = 3")
	require.NotNil(t, err)
	require.Contains(t, err.Error(), "invalid assignment target f()")
}

func TestLexErrorsAbortParsing(t *testing.T) {
	_, err := Parse(context.Background(), "let s = \"open")
	require.NotNil(t, err)
	var lexErr *lexer.Error
	require.True(t, errors.As(err, &lexErr))
	require.Equal(t, lexer.UnterminatedString, lexErr.Kind)
	require.True(t, strings.HasPrefix(err.Error(), "syntax error: unterminated string literal"))

	_, err = Parse(context.Background(), "let a = 1\nlet b = a @ 2")
	require.NotNil(t, err)
	require.True(t, errors.As(err, &lexErr))
	require.Equal(t, lexer.UnexpectedCharacter, lexErr.Kind)
	require.Equal(t, 2, lexErr.Line())
	require.Equal(t, 11, lexErr.Column())
}

func TestFilenameInErrors(t *testing.T) {
	_, err := Parse(context.Background(), "let = 1", WithFilename("main.em"))
	require.NotNil(t, err)
	var errs Errors
	require.True(t, errors.As(err, &errs))
	require.Equal(t, "main.em", errs.First().File)
	require.Contains(t, errs.FriendlyErrorMessage(), "--> main.em:1:5")
}

func TestMaxDepth(t *testing.T) {
	input := strings.Repeat("(", 50) + "1" + strings.Repeat(")", 50)
	_, err := Parse(context.Background(), input, WithMaxDepth(20))
	require.NotNil(t, err)
	require.Contains(t, err.Error(), "maximum nesting depth exceeded")

	_, err = Parse(context.Background(), input)
	require.Nil(t, err)
}

func TestContextCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := Parse(ctx, "let x = 1")
	require.NotNil(t, err)
	require.Contains(t, err.Error(), "context canceled")
}

func TestMultiErrorReporting(t *testing.T) {
	_, err := Parse(context.Background(), "let = 1\nlet = 2\nlet ok = 3")
	require.NotNil(t, err)
	var errs Errors
	require.True(t, errors.As(err, &errs))
	require.Len(t, errs, 2)
	require.Contains(t, err.Error(), "(and 1 more errors)")
}
