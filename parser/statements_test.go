package parser

import (
	"context"
	"testing"

	"github.com/deepnoodle-ai/emergent/ast"
	"github.com/stretchr/testify/require"
)

func TestLet(t *testing.T) {
	program := parse(t, "let x: number = 5\nlet y = x")
	first := program.Stmts[0].(*ast.Let)
	require.Equal(t, "x", first.Name.Name)
	require.Equal(t, "number", first.Hint)
	require.Equal(t, 5.0, first.Value.(*ast.Number).Value)
	second := program.Stmts[1].(*ast.Let)
	require.Equal(t, "", second.Hint)

	program = parse(t, "let u: nil = nil")
	require.Equal(t, "nil", program.Stmts[0].(*ast.Let).Hint)
}

func TestDef(t *testing.T) {
	program := parse(t, "def add(a, b) -> number {\n  return a + b\n}")
	def := program.Stmts[0].(*ast.Def)
	require.Equal(t, "add", def.Name.Name)
	require.Equal(t, []string{"a", "b"}, def.ParamNames())
	require.Equal(t, "number", def.ReturnHint)
	require.Len(t, def.Body.Stmts, 1)
	ret := def.Body.Stmts[0].(*ast.Return)
	require.Equal(t, "(a + b)", ret.Value.String())

	program = parse(t, "def noop() { }")
	def = program.Stmts[0].(*ast.Def)
	require.Empty(t, def.Params)
	require.Empty(t, def.Body.Stmts)

	_, err := Parse(context.Background(), "def f(a, a) { }")
	require.NotNil(t, err)
	require.Contains(t, err.Error(), `duplicate parameter "a"`)
}

func TestIfElse(t *testing.T) {
	program := parse(t, "if x > 1 {\n  a\n} else if x > 0 {\n  b\n}\nelse {\n  c\n}")
	stmt := program.Stmts[0].(*ast.If)
	require.Equal(t, "(x > 1)", stmt.Cond.String())
	require.Len(t, stmt.Alternative.Stmts, 1)
	nested := stmt.Alternative.Stmts[0].(*ast.If)
	require.Equal(t, "(x > 0)", nested.Cond.String())
	require.Equal(t, "c", nested.Alternative.Stmts[0].String())

	program = parse(t, "if a { b }\nc")
	require.Len(t, program.Stmts, 2)
	require.Nil(t, program.Stmts[0].(*ast.If).Alternative)
}

func TestLoops(t *testing.T) {
	program := parse(t, "for x in [1, 2] { print(x) }\nwhile i < 3 { i = i + 1 }")
	loop := program.Stmts[0].(*ast.For)
	require.Equal(t, "x", loop.Var.Name)
	require.Equal(t, "[1, 2]", loop.Iterable.String())
	require.Equal(t, "print(x)", loop.Body.Stmts[0].String())

	while := program.Stmts[1].(*ast.While)
	require.Equal(t, "(i < 3)", while.Cond.String())
	assign := while.Body.Stmts[0].(*ast.Assign)
	require.Equal(t, "i", assign.Target.String())
}

func TestTry(t *testing.T) {
	tests := []struct {
		input    string
		catchVar string
	}{
		{"try { sample(nil) } catch (e) { 42 }", "e"},
		{"try { x }\ncatch err { 1 }", "err"},
		{"try { x } catch { 1 }", ""},
	}
	for _, tt := range tests {
		program := parse(t, tt.input)
		stmt := program.Stmts[0].(*ast.Try)
		if tt.catchVar == "" {
			require.Nil(t, stmt.CatchVar)
		} else {
			require.Equal(t, tt.catchVar, stmt.CatchVar.Name)
		}
		require.Len(t, stmt.CatchBlock.Stmts, 1)
	}
}

func TestReturn(t *testing.T) {
	program := parse(t, "def f() { return }\ndef g() { return; 1 }\ndef h() { return 2 }")
	require.Nil(t, program.Stmts[0].(*ast.Def).Body.Stmts[0].(*ast.Return).Value)
	require.Len(t, program.Stmts[1].(*ast.Def).Body.Stmts, 2)
	require.Equal(t, "2", program.Stmts[2].(*ast.Def).Body.Stmts[0].(*ast.Return).Value.String())
}

func TestAssign(t *testing.T) {
	program := parse(t, "grid[1][0] = 9\nx = grid[1][0]")
	assign := program.Stmts[0].(*ast.Assign)
	index, ok := assign.Target.(*ast.Index)
	require.True(t, ok)
	require.Equal(t, "grid[1][0]", index.String())
	require.Equal(t, "9", assign.Value.String())
	require.IsType(t, &ast.Ident{}, program.Stmts[1].(*ast.Assign).Target)
}

func TestImportMorphGoal(t *testing.T) {
	program := parse(t, `import "lib/stats.em"
morph optimize {
  if slow { rewrite() }
  if wrong { retry() }
}
goal: accuracy > 0.9`)
	require.Len(t, program.Stmts, 3)
	require.Equal(t, "lib/stats.em", program.Stmts[0].(*ast.Import).Path.Value)
	morph := program.Stmts[1].(*ast.Morph)
	require.Equal(t, "optimize", morph.Name.Name)
	require.Len(t, morph.Rules, 2)
	require.Equal(t, "wrong", morph.Rules[1].Cond.String())
	goal := program.Stmts[2].(*ast.Goal)
	require.Equal(t, "(accuracy > 0.9)", goal.Value.String())

	// goal is only special when followed by a colon.
	program = parse(t, "goal = 3\ngoal")
	require.IsType(t, &ast.Assign{}, program.Stmts[0])
	require.IsType(t, &ast.ExprStmt{}, program.Stmts[1])
}

func TestSemicolons(t *testing.T) {
	program := parse(t, "let a = 1; let b = 2;; a + b;")
	require.Len(t, program.Stmts, 3)
}

func TestRoundTrip(t *testing.T) {
	sources := []string{
		"let x = 1 + 2 * 3",
		"let s: string = 'he said \"hi\"'",
		"def f(x) -> number { let y = x + 1\n return y }\nf(5)",
		"if a and not b { print(1) } else if c { print(2) } else { print(3) }",
		"for i in [1, [2, 3], 'x'] { total = total + i }",
		"while n > 0 { n = n - 1 }",
		"try { sample(nil) } catch (e) { 42 }",
		"try { risky() } catch { }",
		"grid = [[1, 2], [3, 4]]\ngrid[1][0] = 9\ngrid[1][0]",
		"import \"lib.em\"",
		"morph f { if x > 1 { y }; if z { } }",
		"goal: score >= 0.5",
		"print(-(1 - -2), 10 % 3 / 4, nil, true == false, \"a\" != 'b')",
		"def g() { return }\ng()",
		"let d = normal(0, 1)\nlet v = sample(d)\nconsensus([v, v])",
		"morph empty { }",
		"x = (((1)))",
	}
	for _, src := range sources {
		t.Run(src, func(t *testing.T) {
			program := parse(t, src)
			text := program.String()
			reparsed := parse(t, text)
			require.True(t, ast.Equal(program, reparsed), "round trip changed %q to %q", text, reparsed.String())
			require.Equal(t, text, reparsed.String())
		})
	}
}
