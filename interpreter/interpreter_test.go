package interpreter

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/deepnoodle-ai/emergent/errz"
	"github.com/deepnoodle-ai/emergent/importer"
	"github.com/deepnoodle-ai/emergent/object"
	"github.com/deepnoodle-ai/emergent/parser"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

func run(t *testing.T, source string, options ...Option) (object.Object, *Interpreter, error) {
	t.Helper()
	program, err := parser.Parse(context.Background(), source)
	require.Nil(t, err)
	in := New(options...)
	result, err := in.Eval(context.Background(), program)
	return result, in, err
}

func eval(t *testing.T, source string) object.Object {
	t.Helper()
	var out bytes.Buffer
	result, _, err := run(t, source, WithOutput(&out), WithSeed(1))
	require.Nil(t, err)
	return result
}

func TestExpressions(t *testing.T) {
	tests := []struct {
		input    string
		expected object.Object
	}{
		{"1 + 2 * 3", object.NewNumber(7)},
		{"(1 + 2) * 3", object.NewNumber(9)},
		{"2 > 1 and 3 > 2", object.True},
		{"1 > 2 or 0", object.False},
		{"not 0", object.True},
		{"-(2 + 3)", object.NewNumber(-5)},
		{"7 % 4", object.NewNumber(3)},
		{"1 / 0", object.NewNumber(1.0 / zero())},
		{`"a" + 1`, object.NewString("a1")},
		{"[1] + [2, 3]", object.NewList([]object.Object{object.NewNumber(1), object.NewNumber(2), object.NewNumber(3)})},
		{`"abc"[-1]`, object.NewString("c")},
		{"1 == 1 and 2 != 3", object.True},
		{"nil", object.Nil},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			result := eval(t, tt.input)
			require.True(t, tt.expected.Equals(result), "got %s", result.Inspect())
		})
	}
}

func zero() float64 { return 0 }

func TestNestedIndexing(t *testing.T) {
	require.Equal(t, object.NewNumber(3), eval(t, "grid = [[1, 2], [3, 4]]\ngrid[1][0]"))
	require.Equal(t, object.NewNumber(9), eval(t, `
grid = [[1, 2], [3, 4]]
grid[1][0] = 9
grid[1][0]
`))
}

func TestListsAreShared(t *testing.T) {
	result := eval(t, `
let a = [1, 2]
let b = a
b[0] = 5
a[0]
`)
	require.Equal(t, object.NewNumber(5), result)
}

func TestFunctionScoping(t *testing.T) {
	require.Equal(t, object.NewNumber(6), eval(t, "def f(x) { x + 1 }\nf(5)"))

	result, in, err := run(t, `
def f(x) {
  let inner = x * 2
  inner
}
let y = f(5)
inner
`, WithSeed(1))
	require.Nil(t, err)
	require.Equal(t, object.NewNumber(0), result)
	y, ok := in.Globals().Get("y")
	require.True(t, ok)
	require.Equal(t, object.NewNumber(10), y)
	_, ok = in.Globals().Get("inner")
	require.False(t, ok)
}

func TestCallerLocalsAreHidden(t *testing.T) {
	result := eval(t, `
def g() { secret }
def f() {
  let secret = 7
  g()
}
f()
`)
	require.Equal(t, object.NewNumber(0), result)
}

func TestReturn(t *testing.T) {
	result := eval(t, `
def pick(x) {
  if x > 0 {
    return "positive"
  }
  "other"
}
pick(1) + " " + pick(-1)
`)
	require.Equal(t, object.NewString("positive other"), result)
	require.Equal(t, object.NewNumber(3), eval(t, "return 3\n4"))
}

func TestProgramResult(t *testing.T) {
	require.Equal(t, object.Nil, eval(t, "let x = 1"))
	require.Equal(t, object.Nil, eval(t, "1\ndef f() { 2 }"))
	require.Equal(t, object.Nil, eval(t, "5\nx = 1"))
	require.Equal(t, object.NewNumber(2), eval(t, "if true { 1\n2 }"))
	require.Equal(t, object.Nil, eval(t, "1\nif false { 2 }"))
}

func TestBuiltinsShadowFunctions(t *testing.T) {
	require.Equal(t, object.NewNumber(2), eval(t, `
def len(x) { 99 }
len("ab")
`))
}

func TestLoops(t *testing.T) {
	require.Equal(t, object.NewNumber(6), eval(t, `
let total = 0
for x in [1, 2, 3] { total = total + x }
total
`))
	require.Equal(t, object.NewString("cba"), eval(t, `
let s = ""
for c in "abc" { s = c + s }
s
`))
	require.Equal(t, object.NewNumber(0), eval(t, `
let n = 0
for x in nil { n = 1 }
n
`))
	require.Equal(t, object.NewNumber(10), eval(t, `
let i = 0
while i < 10 { i = i + 1 }
i
`))
}

func TestTryCatch(t *testing.T) {
	result, in, err := run(t, `
let msg = ""
try { sample(nil) } catch (e) { msg = e
42 }
`, WithSeed(1))
	require.Nil(t, err)
	require.Equal(t, object.NewNumber(42), result)
	msg, _ := in.Globals().Get("msg")
	require.Equal(t, object.NewString("type error: sample: expected distribution (got unit)"), msg)

	require.Equal(t, object.NewNumber(42), eval(t, "try { sample(nil) } catch (e) { 42 }"))
	require.Equal(t, object.NewString("name error: undefined function: missing"),
		eval(t, `try { missing(1) } catch (e) { e }`))
}

func TestTryInsideFunction(t *testing.T) {
	result := eval(t, `
def bad() { nope() }
def safe() {
  try { bad() } catch (e) { "caught" }
}
safe()
`)
	require.Equal(t, object.NewString("caught"), result)
}

func TestFaults(t *testing.T) {
	_, _, err := run(t, "let x = 1\nmissing(x)", WithSource("let x = 1\nmissing(x)"))
	require.NotNil(t, err)
	se, ok := err.(*errz.StructuredError)
	require.True(t, ok)
	require.Equal(t, errz.ErrName, se.Kind)
	require.Equal(t, "undefined function: missing", se.Message)
	require.Equal(t, 2, se.Location.Line)
	require.Equal(t, "missing(x)", se.Location.Source)

	_, _, err = run(t, `1 < "a"`)
	require.Equal(t, "type error: unsupported operand types for <: number and string (1:1)", err.Error())

	_, _, err = run(t, "def f(a) { a }\nf(1, 2)")
	require.Contains(t, err.Error(), "f: expected 1 arguments, got 2")
}

func TestStackTrace(t *testing.T) {
	_, _, err := run(t, `
def inner() { sample(1) }
def outer() { inner() }
outer()
`)
	se, ok := err.(*errz.StructuredError)
	require.True(t, ok)
	require.Len(t, se.Stack, 2)
	require.Equal(t, "inner", se.Stack[0].Function)
	require.Equal(t, "outer", se.Stack[1].Function)
}

func TestUndefinedVariables(t *testing.T) {
	require.Equal(t, object.NewNumber(1), eval(t, "undefined + 1"))

	_, _, err := run(t, "undefined + 1", WithStrictVariables())
	require.NotNil(t, err)
	require.Contains(t, err.Error(), "name error: undefined variable: undefined")
}

func TestTypeHints(t *testing.T) {
	var logs bytes.Buffer
	result, in, err := run(t, `
let x: number = "five"
let y: string = "ok"
def f() -> bool { 1 }
f()
`, WithLogger(zerolog.New(&logs)))
	require.Nil(t, err)
	require.Equal(t, object.NewNumber(1), result)
	diags := in.Diagnostics()
	require.NotNil(t, diags)
	require.Contains(t, diags.Error(), "x: expected number, got string")
	require.Contains(t, diags.Error(), "f: expected bool, got number")
	require.Contains(t, logs.String(), `"level":"warn"`)
	require.Contains(t, logs.String(), `"engine":"interpreter"`)

	_, in, err = run(t, "let z: list = [1]")
	require.Nil(t, err)
	require.Nil(t, in.Diagnostics())
}

func TestImport(t *testing.T) {
	lib := importer.MapImporter{
		"lib": "def double(x) { x * 2 }\nlet loaded = loaded + 1",
	}
	result, in, err := run(t, `
import "lib"
import "lib"
double(21)
`, WithImporter(lib))
	require.Nil(t, err)
	require.Equal(t, object.NewNumber(42), result)
	loaded, _ := in.Globals().Get("loaded")
	require.Equal(t, object.NewNumber(1), loaded)

	_, _, err = run(t, `import "lib"`)
	require.Contains(t, err.Error(), "import error")

	_, _, err = run(t, `import "other"`, WithImporter(lib))
	require.Contains(t, err.Error(), "import error")
}

func TestMorphAndGoal(t *testing.T) {
	result, in, err := run(t, `
def f() { 1 }
morph f { if slow { f = 2 } }
goal: f() > 0
`)
	require.Nil(t, err)
	require.Equal(t, object.Nil, result)
	require.Contains(t, in.Morphs(), "f")
	require.Len(t, in.Goals(), 1)
	require.Equal(t, "(f() > 0)", in.Goals()[0].String())
}

func TestMaxCallDepth(t *testing.T) {
	_, _, err := run(t, "def f(n) { f(n + 1) }\nf(0)", WithMaxCallDepth(50))
	require.NotNil(t, err)
	require.Contains(t, err.Error(), "maximum call depth exceeded (50)")
}

func TestCancellation(t *testing.T) {
	program, err := parser.Parse(context.Background(), "while true { 1 }")
	require.Nil(t, err)
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err = New().Eval(ctx, program)
	require.ErrorIs(t, err, context.DeadlineExceeded)

	program, err = parser.Parse(context.Background(), "try { while true { 1 } } catch { 2 }")
	require.Nil(t, err)
	ctx, cancel = context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err = New().Eval(ctx, program)
	require.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestSeededSampling(t *testing.T) {
	source := `
let d = normal(0, 1)
[sample(d), sample(d), sample(uniform(0, 10))]
`
	a, _, err := run(t, source, WithSeed(7))
	require.Nil(t, err)
	b, _, err := run(t, source, WithSeed(7))
	require.Nil(t, err)
	require.True(t, a.Equals(b))

	c, _, err := run(t, source, WithSeed(8))
	require.Nil(t, err)
	require.False(t, a.Equals(c))
}

func TestPrint(t *testing.T) {
	var out bytes.Buffer
	_, _, err := run(t, `
print("x", 1.5, [1, "a"], nil)
print()
`, WithOutput(&out))
	require.Nil(t, err)
	require.Equal(t, "x 1.5 [1, \"a\"] nil\n\n", out.String())
}

func TestFunctionValues(t *testing.T) {
	require.Equal(t, object.NewNumber(8), eval(t, `
def twice(x) { x * 2 }
let g = twice
g(4)
`))
	require.Equal(t, object.NewNumber(3), eval(t, `
let h = len
h("abc")
`))
}

func TestInterpreterIDs(t *testing.T) {
	require.NotEqual(t, New().ID(), New().ID())
}
