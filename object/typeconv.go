package object

import (
	"fmt"

	"github.com/deepnoodle-ai/emergent/errz"
)

// FromConstant converts a compiled constant to an object.
func FromConstant(value any) (Object, error) {
	switch v := value.(type) {
	case nil:
		return Nil, nil
	case float64:
		return NewNumber(v), nil
	case string:
		return NewString(v), nil
	case bool:
		return NewBool(v), nil
	}
	return nil, fmt.Errorf("unsupported constant type: %T", value)
}

// AsNumber returns the float64 value of a number object.
func AsNumber(obj Object) (float64, error) {
	num, ok := obj.(*Number)
	if !ok {
		return 0, errz.TypeErrorf("expected number (got %s)", obj.Type())
	}
	return num.value, nil
}

// AsList returns the list held by obj.
func AsList(obj Object) (*List, error) {
	list, ok := obj.(*List)
	if !ok {
		return nil, errz.TypeErrorf("expected list (got %s)", obj.Type())
	}
	return list, nil
}

// AsDistribution returns the distribution held by obj.
func AsDistribution(obj Object) (*Distribution, error) {
	dist, ok := obj.(*Distribution)
	if !ok {
		return nil, errz.TypeErrorf("expected distribution (got %s)", obj.Type())
	}
	return dist, nil
}
