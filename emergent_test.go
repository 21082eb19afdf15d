package emergent

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/deepnoodle-ai/emergent/ast"
	"github.com/deepnoodle-ai/emergent/importer"
	"github.com/deepnoodle-ai/emergent/object"
	"github.com/deepnoodle-ai/emergent/optimizer"
	"github.com/deepnoodle-ai/emergent/parser"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

var programs = map[string]string{
	"recursion": `
def fib(n) {
  if n < 2 { return n }
  fib(n - 1) + fib(n - 2)
}
fib(12)
`,
	"sampling": `
let d = normal(10, 2)
let coin = bernoulli(0.5)
let xs = []
for i in [1, 2, 3, 4] {
  xs = xs + [sample(d), sample(coin), sample(uniform(0, i))]
}
[xs, consensus(d, 50), consensus(["a", "b", "b"])]
`,
	"printing": `
let names = ["ada", "bob"]
for n in names { print("hello", n, len(n)) }
let i = 0
while i < 3 {
  print(i, i * 1.5, i > 1 and i < 3)
  i = i + 1
}
`,
	"faults caught": `
def risky(x) {
  if x > 2 { sample(x) }
  x
}
let log = []
for v in [1, 2, 3] {
  try { log = log + [risky(v)] } catch (e) { log = log + [e] }
}
log
`,
	"nested lists": `
let grid = [[1, 2], [3, 4]]
grid[0][1] = grid[1][0] * 10
grid[1] = grid[1] + ["x"]
[grid, len(grid[1]), "abc"[1], not (1 == 1) or 2 != 3]
`,
	"function values": `
def square(x) -> number { x * x }
let fs = [square, len]
let f = fs[0]
[f(3), fs[1]("four"), -square(2) % 3]
`,
	"constants": `
let a = 2 * 3 + 4
let unused = 1 / 0
def twice(x) { x + x }
if a > 5 { twice(a) } else { 0 }
`,
	"unrolled loop": `
let total = 0
for x in [1, 2, 3, 4, 5] { total = total + x * 2 }
total
`,
	"top level return": `
def f(x) { return x + 1 }
let y = f(1)
if y == 2 { return "early" }
"late"
`,
	"morph and goal": `
goal: score > 1
let score = 2
score
`,
	"binding result": "let z = 5",
	"undefined reads": "missing + 1",
}

// largePrograms have expressions far longer or wider than any single
// register window would hold if every operand kept its own register.
var largePrograms = map[string]string{
	"long sum":        strings.Repeat("1 + ", 2100) + "1",
	"long sum in def": "def f(a) { " + strings.Repeat("a * 1 + ", 2100) + "a }\nf(3)",
	"long list":       "let xs = [" + strings.TrimSuffix(strings.Repeat("7, ", 5000), ", ") + "]\n[len(xs), xs[0], xs[4999]]",
	"mixed list":      "let x = 2\nlet ys = [" + strings.TrimSuffix(strings.Repeat(`x * 3, "s", `, 300), ", ") + "]\n[len(ys), ys[598], ys[599]]",
}

var faultingPrograms = map[string]string{
	"undefined function": "let x = 1\nmissing(x)",
	"bad sample":         "def f() {\n  sample(3)\n}\nf()",
	"type mismatch":      `1 < "a"`,
	"arity":              "def f(a) { a }\nf(1, 2)",
}

type outcome struct {
	result object.Object
	output string
	err    error
}

func runWith(t *testing.T, source string, opts ...Option) outcome {
	t.Helper()
	var out bytes.Buffer
	opts = append([]Option{WithOutput(&out), WithSeed(42)}, opts...)
	result, err := Run(context.Background(), source, opts...)
	return outcome{result: result, output: out.String(), err: err}
}

func requireSame(t *testing.T, expected, actual outcome) {
	t.Helper()
	if expected.err != nil {
		require.NotNil(t, actual.err)
		require.Equal(t, expected.err.Error(), actual.err.Error())
		return
	}
	require.Nil(t, actual.err)
	require.True(t, expected.result.Equals(actual.result),
		"%s != %s", expected.result.Inspect(), actual.result.Inspect())
	require.Equal(t, expected.output, actual.output)
}

var levels = []optimizer.Level{optimizer.None, optimizer.Basic, optimizer.Aggressive, optimizer.Extreme}

func requireEnginesAgree(t *testing.T, source string) {
	t.Helper()
	for _, level := range levels {
		interpreted := runWith(t, source, WithOptimization(level))
		require.Nil(t, interpreted.err)
		compiled := runWith(t, source, WithOptimization(level), WithBytecode())
		requireSame(t, interpreted, compiled)
		uncached := runWith(t, source, WithOptimization(level), WithBytecode(), WithoutHotPath())
		requireSame(t, interpreted, uncached)
	}
}

func TestEnginesAgree(t *testing.T) {
	for name, source := range programs {
		t.Run(name, func(t *testing.T) {
			requireEnginesAgree(t, source)
		})
	}
}

func TestEnginesAgreeOnLargePrograms(t *testing.T) {
	for name, source := range largePrograms {
		t.Run(name, func(t *testing.T) {
			requireEnginesAgree(t, source)
		})
	}
	result, err := Run(context.Background(), largePrograms["long sum"], WithBytecode())
	require.Nil(t, err)
	require.Equal(t, object.NewNumber(2101), result)
	result, err = Run(context.Background(), largePrograms["mixed list"], WithBytecode())
	require.Nil(t, err)
	require.Equal(t, `[600, 6, "s"]`, result.Inspect())
}

func TestLongConsensusIsCancellable(t *testing.T) {
	source := "try { consensus(normal(0, 1), 1000000000000000) } catch (e) { e }"
	for _, opts := range [][]Option{nil, {WithBytecode()}} {
		ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
		_, err := Run(ctx, source, opts...)
		cancel()
		require.ErrorIs(t, err, context.DeadlineExceeded)
	}
}

func TestEnginesAgreeOnFaults(t *testing.T) {
	for name, source := range faultingPrograms {
		t.Run(name, func(t *testing.T) {
			interpreted := runWith(t, source)
			require.NotNil(t, interpreted.err)
			compiled := runWith(t, source, WithBytecode())
			requireSame(t, interpreted, compiled)
		})
	}
}

func TestOptimizationPreservesBehavior(t *testing.T) {
	for name, source := range programs {
		t.Run(name, func(t *testing.T) {
			baseline := runWith(t, source)
			for _, level := range levels[1:] {
				requireSame(t, baseline, runWith(t, source, WithOptimization(level)))
			}
		})
	}
}

func TestOptimizationIsIdempotent(t *testing.T) {
	for name, source := range programs {
		t.Run(name, func(t *testing.T) {
			for _, level := range levels {
				once, err := Parse(context.Background(), source, WithOptimization(level))
				require.Nil(t, err)
				twice, _ := optimizer.Optimize(once, level)
				require.True(t, ast.Equal(once, twice), "%s\n!=\n%s", once, twice)
			}
		})
	}
}

func TestUnparseRoundTrip(t *testing.T) {
	for name, source := range programs {
		t.Run(name, func(t *testing.T) {
			first, err := Parse(context.Background(), source)
			require.Nil(t, err)
			second, err := parser.Parse(context.Background(), first.String())
			require.Nil(t, err)
			require.True(t, ast.Equal(first, second))
		})
	}
}

func TestSeedsAreReproducible(t *testing.T) {
	source := programs["sampling"]
	a := runWith(t, source, WithSeed(7))
	b := runWith(t, source, WithSeed(7))
	requireSame(t, a, b)
	c := runWith(t, source, WithSeed(8))
	require.False(t, a.result.Equals(c.result))
}

func TestEval(t *testing.T) {
	ctx := context.Background()
	value, err := Eval(ctx, `[1, "a", true, nil]`)
	require.Nil(t, err)
	require.Equal(t, []any{1.0, "a", true, nil}, value)

	value, err = Eval(ctx, "def f() { 1 }\nf", WithBytecode())
	require.Nil(t, err)
	_, ok := value.(string)
	require.True(t, ok)

	value, err = Eval(ctx, "let x = 1")
	require.Nil(t, err)
	require.Nil(t, value)
}

func TestParseErrorsAbort(t *testing.T) {
	var out bytes.Buffer
	_, err := Run(context.Background(), "print(1)\nlet = 2", WithOutput(&out))
	require.NotNil(t, err)
	require.Empty(t, out.String())

	_, err = CompileToBytecode(`"unterminated`)
	require.NotNil(t, err)
}

func TestCompileToBytecode(t *testing.T) {
	code, err := CompileToBytecode("1 + 2", WithOptimization(optimizer.Basic))
	require.Nil(t, err)
	require.Equal(t, 1, code.ConstantCount())
	require.Equal(t, 3.0, code.ConstantAt(0))

	code, err = CompileToBytecode("1 + 2", WithFilename("sum.em"))
	require.Nil(t, err)
	require.Equal(t, "sum.em", code.Filename())
	require.Equal(t, 2, code.ConstantCount())
}

func TestImports(t *testing.T) {
	lib := importer.MapImporter{"lib.em": "def double(x) { x * 2 }"}
	result, err := Run(context.Background(), "import \"lib\"\ndouble(4)", WithImporter(lib))
	require.Nil(t, err)
	require.Equal(t, object.NewNumber(8), result)

	_, err = Run(context.Background(), "import \"lib\"\ndouble(4)", WithImporter(lib), WithBytecode())
	require.NotNil(t, err)
	require.Contains(t, err.Error(), "import is not supported in compiled programs")
}

func TestStrictVariables(t *testing.T) {
	for _, opts := range [][]Option{
		{WithStrictVariables()},
		{WithStrictVariables(), WithBytecode()},
	} {
		_, err := Run(context.Background(), "missing + 1", opts...)
		require.NotNil(t, err)
		require.Contains(t, err.Error(), "undefined variable: missing")
	}
}

func TestLoggerIsShared(t *testing.T) {
	var logs bytes.Buffer
	logger := zerolog.New(&logs).Level(zerolog.DebugLevel)
	_, err := Run(context.Background(), "let x: string = 1\nx", WithLogger(logger), WithBytecode())
	require.Nil(t, err)
	require.Contains(t, logs.String(), "compiled program")
	require.Contains(t, logs.String(), "type hint mismatch")
}
