package object

import (
	"math"
	"testing"

	"github.com/deepnoodle-ai/emergent/ast"
	"github.com/deepnoodle-ai/emergent/bytecode"
	"github.com/stretchr/testify/require"
)

func TestTruthiness(t *testing.T) {
	tests := []struct {
		obj  Object
		want bool
	}{
		{NewNumber(0), false},
		{NewNumber(-1.5), true},
		{NewNumber(math.NaN()), true},
		{NewString(""), false},
		{NewString("a"), true},
		{True, true},
		{False, false},
		{NewList(nil), false},
		{NewList([]Object{Nil}), true},
		{Nil, false},
		{NewBuiltin("f", nil), true},
	}
	for _, tt := range tests {
		require.Equal(t, tt.want, tt.obj.IsTruthy(), tt.obj.Inspect())
	}
}

func TestInspect(t *testing.T) {
	require.Equal(t, "7", NewNumber(7).Inspect())
	require.Equal(t, "2.5", NewNumber(2.5).Inspect())
	require.Equal(t, "+Inf", NewNumber(math.Inf(1)).Inspect())
	require.Equal(t, `"hi"`, NewString("hi").Inspect())
	require.Equal(t, "nil", Nil.Inspect())
	require.Equal(t, `[1, "a", [true]]`,
		NewList([]Object{NewNumber(1), NewString("a"), NewList([]Object{True})}).Inspect())
	require.Equal(t, "builtin(print)", NewBuiltin("print", nil).Inspect())
}

func TestPrintableValue(t *testing.T) {
	require.Equal(t, "hi", PrintableValue(NewString("hi")))
	require.Equal(t, "3", PrintableValue(NewNumber(3)))
	require.Equal(t, `["a"]`, PrintableValue(NewList([]Object{NewString("a")})))
}

func TestEquals(t *testing.T) {
	require.True(t, NewNumber(1).Equals(NewNumber(1)))
	require.False(t, NewNumber(1).Equals(NewString("1")))
	require.False(t, NewNumber(math.NaN()).Equals(NewNumber(math.NaN())))
	require.True(t, Nil.Equals(Nil))
	require.False(t, Nil.Equals(False))
	a := NewList([]Object{NewNumber(1), NewList([]Object{NewString("x")})})
	b := NewList([]Object{NewNumber(1), NewList([]Object{NewString("x")})})
	require.True(t, a.Equals(b))
	require.False(t, a.Equals(NewList([]Object{NewNumber(1)})))
	require.Equal(t, True, NewBool(true))
	require.Equal(t, False, Not(NewNumber(3)))
}

func TestInterface(t *testing.T) {
	require.Equal(t, 1.5, NewNumber(1.5).Interface())
	require.Equal(t, "s", NewString("s").Interface())
	require.Nil(t, Nil.Interface())
	require.Equal(t, []interface{}{1.0, true}, NewList([]Object{NewNumber(1), True}).Interface())
}

func TestListReferenceSemantics(t *testing.T) {
	inner := NewList([]Object{NewNumber(1), NewNumber(2)})
	grid := NewList([]Object{inner})
	alias := grid
	require.NoError(t, SetItem(inner, NewNumber(0), NewNumber(9)))
	item, err := GetItem(alias, NewNumber(0))
	require.NoError(t, err)
	got, err := GetItem(item, NewNumber(0))
	require.NoError(t, err)
	require.Equal(t, 9.0, got.(*Number).Value())
}

func TestIndexing(t *testing.T) {
	list := NewList([]Object{NewNumber(10), NewNumber(20), NewNumber(30)})
	item, err := GetItem(list, NewNumber(-1))
	require.NoError(t, err)
	require.Equal(t, NewNumber(30), item)

	_, err = GetItem(list, NewNumber(3))
	require.EqualError(t, err, "index error: index out of range: 3 (length 3)")
	_, err = GetItem(list, NewNumber(1e300))
	require.Error(t, err)
	_, err = GetItem(list, NewNumber(0.5))
	require.EqualError(t, err, "index error: index must be an integer (got 0.5)")
	_, err = GetItem(list, NewString("a"))
	require.EqualError(t, err, "type error: index must be a number (got string)")
	_, err = GetItem(NewNumber(1), NewNumber(0))
	require.EqualError(t, err, "type error: number is not indexable")

	ch, err := GetItem(NewString("héllo"), NewNumber(1))
	require.NoError(t, err)
	require.Equal(t, "é", ch.(*String).Value())
	require.EqualError(t, SetItem(NewString("x"), NewNumber(0), NewString("y")),
		"type error: string does not support item assignment")
	require.Error(t, SetItem(Nil, NewNumber(0), Nil))
}

func TestIteration(t *testing.T) {
	list := NewList([]Object{NewNumber(1), NewNumber(2)})
	require.Equal(t, 2, IterLen(list))
	require.Equal(t, NewNumber(2), IterItem(list, 1))
	s := NewString("ab")
	require.Equal(t, 2, IterLen(s))
	require.Equal(t, "b", IterItem(s, 1).(*String).Value())
	require.Equal(t, 0, IterLen(Nil))
	require.Equal(t, 0, IterLen(NewNumber(5)))
}

func TestEnvironment(t *testing.T) {
	global := NewEnvironment(nil)
	global.Define("x", NewNumber(1))
	local := NewEnvironment(global)
	v, ok := local.Get("x")
	require.True(t, ok)
	require.Equal(t, NewNumber(1), v)

	local.Define("x", NewNumber(2))
	v, _ = local.Get("x")
	require.Equal(t, NewNumber(2), v)
	v, _ = global.Get("x")
	require.Equal(t, NewNumber(1), v)

	_, ok = local.Get("missing")
	require.False(t, ok)
	require.Equal(t, global, local.Parent())
	require.Equal(t, []string{"x"}, local.Names())
}

func TestFunctions(t *testing.T) {
	def := &ast.Def{
		Name:       &ast.Ident{Name: "f"},
		Params:     []*ast.Ident{{Name: "a"}, {Name: "b"}},
		ReturnHint: "number",
		Body:       &ast.Block{},
	}
	fn := NewFunction(def)
	require.Equal(t, "f", fn.Name())
	require.Equal(t, []string{"a", "b"}, fn.Params())
	require.Equal(t, "number", fn.ReturnHint())
	require.NotNil(t, fn.Body())
	require.Nil(t, fn.Code())
	require.Equal(t, "function(f(a, b))", fn.Inspect())
	require.True(t, fn.Equals(fn))
	require.False(t, fn.Equals(NewFunction(def)))

	proto := bytecode.NewFunction(bytecode.FunctionParams{Name: "g", Parameters: []string{"x"}, Entry: 4})
	compiled := NewCompiledFunction(proto)
	require.Equal(t, "g", compiled.Name())
	require.Equal(t, proto, compiled.Code())
	require.Nil(t, compiled.Body())
}

func TestCheckHint(t *testing.T) {
	require.NoError(t, CheckHint("x", "number", NewNumber(1)))
	require.NoError(t, CheckHint("x", "int", NewNumber(1)))
	require.NoError(t, CheckHint("x", "str", NewString("a")))
	require.NoError(t, CheckHint("x", "nil", Nil))
	require.NoError(t, CheckHint("f", "fn", NewBuiltin("print", nil)))
	require.EqualError(t, CheckHint("x", "number", NewString("a")), "x: expected number, got string")
	require.EqualError(t, CheckHint("x", "widget", NewNumber(1)), `x: unknown type "widget"`)
}

func TestFromConstant(t *testing.T) {
	for _, tt := range []struct {
		in   any
		want Object
	}{
		{nil, Nil},
		{2.0, NewNumber(2)},
		{"s", NewString("s")},
		{true, True},
	} {
		got, err := FromConstant(tt.in)
		require.NoError(t, err)
		require.True(t, tt.want.Equals(got))
	}
	_, err := FromConstant(3)
	require.Error(t, err)
}

func TestAsHelpers(t *testing.T) {
	v, err := AsNumber(NewNumber(4))
	require.NoError(t, err)
	require.Equal(t, 4.0, v)
	_, err = AsNumber(Nil)
	require.EqualError(t, err, "type error: expected number (got unit)")
	_, err = AsList(NewNumber(1))
	require.Error(t, err)
	_, err = AsDistribution(NewNumber(1))
	require.EqualError(t, err, "type error: expected distribution (got number)")
}
