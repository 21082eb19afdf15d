package object

import (
	"math"
	"strconv"
)

// Number wraps float64 and implements Object. All numeric values in the
// language are numbers.
type Number struct {
	value float64
}

func (n *Number) sealed() {}

func (n *Number) Type() Type {
	return NUMBER
}

func (n *Number) Value() float64 {
	return n.value
}

func (n *Number) Inspect() string {
	return strconv.FormatFloat(n.value, 'f', -1, 64)
}

func (n *Number) String() string {
	return n.Inspect()
}

func (n *Number) Interface() interface{} {
	return n.value
}

func (n *Number) Equals(other Object) bool {
	if other, ok := other.(*Number); ok {
		return n.value == other.value
	}
	return false
}

func (n *Number) IsTruthy() bool {
	return n.value != 0.0
}

// IsInteger returns true if the number has no fractional part.
func (n *Number) IsInteger() bool {
	return n.value == math.Trunc(n.value) && !math.IsInf(n.value, 0)
}

func NewNumber(value float64) *Number {
	return &Number{value: value}
}
