package object

import (
	"math"

	"github.com/deepnoodle-ai/emergent/errz"
	"github.com/deepnoodle-ai/emergent/op"
)

// Compare two objects using the given comparison operator. Equality is
// defined for every pair of objects; ordering is defined for two numbers or
// two strings and is a type fault otherwise.
func Compare(opType op.CompareOpType, a, b Object) (Object, error) {
	switch opType {
	case op.Equal:
		return NewBool(a.Equals(b)), nil
	case op.NotEqual:
		return NewBool(!a.Equals(b)), nil
	}
	switch a := a.(type) {
	case *Number:
		if b, ok := b.(*Number); ok {
			return NewBool(compareOrdered(opType, a.value, b.value)), nil
		}
	case *String:
		if b, ok := b.(*String); ok {
			return NewBool(compareOrdered(opType, a.value, b.value)), nil
		}
	}
	return nil, errz.TypeErrorf("unsupported operand types for %s: %s and %s", opType, a.Type(), b.Type())
}

func compareOrdered[T float64 | string](opType op.CompareOpType, a, b T) bool {
	switch opType {
	case op.LessThan:
		return a < b
	case op.LessThanOrEqual:
		return a <= b
	case op.GreaterThan:
		return a > b
	default:
		return a >= b
	}
}

// BinaryOp performs an arithmetic operation on two objects. Numbers follow
// IEEE-754 rules, so division by zero yields an infinity or NaN rather than
// a fault. "+" also concatenates lists, and concatenates strings with any
// value when either operand is a string.
func BinaryOp(opType op.BinaryOpType, a, b Object) (Object, error) {
	switch a := a.(type) {
	case *Number:
		if b, ok := b.(*Number); ok {
			return NewNumber(numberOp(opType, a.value, b.value)), nil
		}
	case *List:
		if b, ok := b.(*List); ok && opType == op.Add {
			return a.Concat(b), nil
		}
	}
	if opType == op.Add {
		_, aIsString := a.(*String)
		_, bIsString := b.(*String)
		if aIsString || bIsString {
			return NewString(PrintableValue(a) + PrintableValue(b)), nil
		}
	}
	return nil, errz.TypeErrorf("unsupported operand types for %s: %s and %s", opType, a.Type(), b.Type())
}

func numberOp(opType op.BinaryOpType, a, b float64) float64 {
	switch opType {
	case op.Add:
		return a + b
	case op.Subtract:
		return a - b
	case op.Multiply:
		return a * b
	case op.Divide:
		return a / b
	default:
		return math.Mod(a, b)
	}
}

// Negate implements unary minus.
func Negate(obj Object) (Object, error) {
	if num, ok := obj.(*Number); ok {
		return NewNumber(-num.value), nil
	}
	return nil, errz.TypeErrorf("bad operand type for unary -: %s", obj.Type())
}
