package compiler

import (
	"bytes"
	"context"
	stderrors "errors"
	"strings"
	"testing"

	"github.com/deepnoodle-ai/emergent/bytecode"
	"github.com/deepnoodle-ai/emergent/errors"
	"github.com/deepnoodle-ai/emergent/op"
	"github.com/deepnoodle-ai/emergent/parser"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

func compile(t *testing.T, source string) *bytecode.Code {
	t.Helper()
	program, err := parser.Parse(context.Background(), source)
	require.Nil(t, err)
	code, err := Compile(program, &Config{Source: source, Filename: "t.em"})
	require.Nil(t, err)
	return code
}

func listing(code *bytecode.Code) []string {
	lines := make([]string, code.InstructionCount())
	for i := range lines {
		lines[i] = code.InstructionAt(i).String()
	}
	return lines
}

func TestCompileExpressions(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected []string
	}{
		{
			name:  "arithmetic",
			input: "1 + 2",
			expected: []string{
				"LOAD_NIL 0",
				"LOAD_CONST 1 0",
				"LOAD_CONST 2 1",
				"ADD 0 1 2",
				"HALT",
			},
		},
		{
			name:  "nil",
			input: "nil",
			expected: []string{
				"LOAD_NIL 0",
				"LOAD_NIL 0",
				"HALT",
			},
		},
		{
			name:  "variables",
			input: "let x = 5\nx",
			expected: []string{
				"LOAD_CONST 1 0",
				"STORE_VAR 1 1",
				"LOAD_NIL 0",
				"LOAD_VAR 0 1",
				"HALT",
			},
		},
		{
			name:  "if else",
			input: "if true { 1 } else { 2 }",
			expected: []string{
				"LOAD_NIL 0",
				"LOAD_CONST 1 0",
				"JUMP_IF_FALSE 1 5",
				"LOAD_CONST 0 1",
				"JUMP 6",
				"LOAD_CONST 0 2",
				"HALT",
			},
		},
		{
			name:  "and short circuits",
			input: "true and false",
			expected: []string{
				"LOAD_NIL 0",
				"LOAD_CONST 1 0",
				"JUMP_IF_FALSE 1 6",
				"LOAD_CONST 2 1",
				"AND 0 1 2",
				"JUMP 7",
				"LOAD_CONST 0 1",
				"HALT",
			},
		},
		{
			name:  "print",
			input: "print(1, 2)",
			expected: []string{
				"LOAD_NIL 0",
				"LOAD_CONST 1 0",
				"LOAD_CONST 2 1",
				"PRINT 0 1 2",
				"HALT",
			},
		},
		{
			name:  "list and index",
			input: "[1, 2][0]",
			expected: []string{
				"LOAD_NIL 0",
				"LOAD_CONST 2 0",
				"LOAD_CONST 3 1",
				"NEW_LIST 1 2 2",
				"LOAD_CONST 2 2",
				"ARRAY_INDEX 0 1 2",
				"HALT",
			},
		},
		{
			name:  "nested operands reuse the destination",
			input: "let y = 1 - 2 - 3",
			expected: []string{
				"LOAD_NIL 0",
				"LOAD_CONST 1 0",
				"LOAD_CONST 2 1",
				"SUB 1 1 2",
				"LOAD_CONST 2 2",
				"SUB 1 1 2",
				"STORE_VAR 1 3",
				"HALT",
			},
		},
		{
			name:  "negation",
			input: "-x",
			expected: []string{
				"LOAD_NIL 0",
				"LOAD_VAR 1 0",
				"NEG 0 1",
				"HALT",
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code := compile(t, tt.input)
			require.Equal(t, tt.expected, listing(code))
		})
	}
}

func TestCompileFunction(t *testing.T) {
	code := compile(t, "def f(a) { a }\nf(2)")
	require.Equal(t, []string{
		"DEF_FUNC 0",
		"LOAD_NIL 0",
		"LOAD_CONST 1 1",
		"CALL 0 2 1",
		"HALT",
		"LOAD_VAR 0 3",
		"RETURN 0",
	}, listing(code))

	fn, ok := code.ConstantAt(0).(*bytecode.Function)
	require.True(t, ok)
	require.Equal(t, "f", fn.Name())
	require.Equal(t, []string{"a"}, fn.Parameters())
	require.Equal(t, 5, fn.Entry())
	require.Equal(t, 1, fn.Registers())
	require.Equal(t, bytecode.CallSite{Name: "f", Argc: 1}, code.ConstantAt(2))
}

func TestCompileNestedFunctions(t *testing.T) {
	code := compile(t, "def outer() {\n  def inner() { 1 }\n  inner()\n}\nouter()")
	require.Equal(t, []string{"outer", "inner"}, code.FunctionNames())
	for _, fn := range code.Functions() {
		body := code.InstructionAt(fn.Entry())
		require.NotEqual(t, op.Halt, body.Op)
		require.Equal(t, fn, code.FunctionAt(fn.Entry()))
	}
	last := code.InstructionAt(code.InstructionCount() - 1)
	require.Equal(t, op.Return, last.Op)
}

func TestCompileDynamicCall(t *testing.T) {
	code := compile(t, "fs[0](1)")
	var site bytecode.CallSite
	for i := 0; i < code.InstructionCount(); i++ {
		ins := code.InstructionAt(i)
		if ins.Op == op.Call {
			site = code.ConstantAt(ins.B).(bytecode.CallSite)
		}
	}
	require.True(t, site.Dynamic())
	require.Equal(t, 1, site.Argc)
}

func TestCompileForLoop(t *testing.T) {
	code := compile(t, "for x in [1, 2] { print(x) }")
	var sawLen, sawBackJump bool
	for i := 0; i < code.InstructionCount(); i++ {
		ins := code.InstructionAt(i)
		switch ins.Op {
		case op.ArrayLen:
			sawLen = true
		case op.Jump:
			if ins.A < i {
				sawBackJump = true
			}
		}
	}
	require.True(t, sawLen)
	require.True(t, sawBackJump)
}

func TestCompileTry(t *testing.T) {
	code := compile(t, "try { 1 } catch (e) { 2 }")
	require.Equal(t, []string{
		"LOAD_NIL 0",
		"SETUP_TRY 5 0",
		"LOAD_CONST 0 1",
		"POP_TRY",
		"JUMP 6",
		"LOAD_CONST 0 2",
		"HALT",
	}, listing(code))
	require.Equal(t, "e", code.ConstantAt(0))
}

func TestCompileTypeHints(t *testing.T) {
	code := compile(t, "let x: number = 1")
	require.Equal(t, []string{
		"LOAD_NIL 0",
		"LOAD_CONST 1 0",
		"CHECK_TYPE 1 2 1",
		"STORE_VAR 1 1",
		"HALT",
	}, listing(code))
	require.Equal(t, "x", code.ConstantAt(1))
	require.Equal(t, "number", code.ConstantAt(2))
}

func TestConstantsAreShared(t *testing.T) {
	code := compile(t, "1\n1\n\"a\"\n\"a\"\ntrue\ntrue")
	require.Equal(t, 3, code.ConstantCount())
}

func TestMorphAndGoalEmitNothing(t *testing.T) {
	code := compile(t, "goal: x > 1\n1")
	require.Equal(t, []string{"LOAD_NIL 0", "LOAD_CONST 0 0", "HALT"}, listing(code))
}

func TestCompileImport(t *testing.T) {
	program, err := parser.Parse(context.Background(), `import "lib"`)
	require.Nil(t, err)
	_, err = Compile(program, &Config{Filename: "t.em"})
	require.NotNil(t, err)
	var compileErr *errors.CompileError
	require.True(t, stderrors.As(err, &compileErr))
	require.Equal(t, 1, compileErr.Line)
	require.Equal(t, "compile error: import is not supported in compiled programs (t.em:1:1)", err.Error())
}

func TestInstructionLocations(t *testing.T) {
	code := compile(t, "let x = 1\n  len(x, x)")
	for i := 0; i < code.InstructionCount(); i++ {
		if code.InstructionAt(i).Op == op.Call {
			require.Equal(t, bytecode.SourceLocation{Line: 2, Column: 3}, code.LocationAt(i))
			return
		}
	}
	t.Fatal("no call instruction")
}

func TestRegisterCounts(t *testing.T) {
	code := compile(t, "1 + 2 * 3")
	require.Equal(t, 4, code.Registers())
	code = compile(t, "1")
	require.Equal(t, 1, code.Registers())
}

func TestLongChainsUseConstantRegisters(t *testing.T) {
	code := compile(t, strings.Repeat("1 + ", 3000)+"1")
	require.Equal(t, 3, code.Registers())

	code = compile(t, "def f(a) { "+strings.Repeat("a * 2 - ", 3000)+"a }\nf(1)")
	fn, ok := code.ConstantAt(0).(*bytecode.Function)
	require.True(t, ok)
	require.LessOrEqual(t, fn.Registers(), 4)
}

func TestLargeListsAreChunked(t *testing.T) {
	items := strings.TrimSuffix(strings.Repeat("1, ", 10000), ", ")
	code := compile(t, "let xs = ["+items+"]")
	require.LessOrEqual(t, code.Registers(), listChunk+3)
	var lists, joins int
	for i := 0; i < code.InstructionCount(); i++ {
		switch code.InstructionAt(i).Op {
		case op.NewList:
			lists++
		case op.BinaryAdd:
			joins++
		}
	}
	require.Equal(t, 40, lists)
	require.Equal(t, 39, joins)
}

func TestCompileLogsStats(t *testing.T) {
	program, err := parser.Parse(context.Background(), "1")
	require.Nil(t, err)
	var buf bytes.Buffer
	logger := zerolog.New(&buf).Level(zerolog.DebugLevel)
	_, err = Compile(program, &Config{Logger: &logger})
	require.Nil(t, err)
	require.Contains(t, buf.String(), `"message":"compiled program"`)
	require.Contains(t, buf.String(), `"instructions":3`)
}

func TestNilConfig(t *testing.T) {
	program, err := parser.Parse(context.Background(), "1")
	require.Nil(t, err)
	code, err := Compile(program, nil)
	require.Nil(t, err)
	require.Equal(t, "main", code.Name())
}
