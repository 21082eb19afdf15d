package object

import (
	"strings"

	"github.com/deepnoodle-ai/emergent/errz"
)

// List is a mutable sequence of objects. Lists have reference semantics:
// an item assignment is visible through every variable holding the list.
type List struct {
	items []Object
}

func (ls *List) sealed() {}

func (ls *List) Type() Type {
	return LIST
}

// Value returns the backing slice. Callers must not modify it.
func (ls *List) Value() []Object {
	return ls.items
}

func (ls *List) Inspect() string {
	items := make([]string, 0, len(ls.items))
	for _, item := range ls.items {
		items = append(items, item.Inspect())
	}
	return "[" + strings.Join(items, ", ") + "]"
}

func (ls *List) String() string {
	return ls.Inspect()
}

func (ls *List) Interface() interface{} {
	items := make([]interface{}, 0, len(ls.items))
	for _, item := range ls.items {
		items = append(items, item.Interface())
	}
	return items
}

func (ls *List) Equals(other Object) bool {
	otherList, ok := other.(*List)
	if !ok {
		return false
	}
	if ls == otherList {
		return true
	}
	if len(ls.items) != len(otherList.items) {
		return false
	}
	for i, item := range ls.items {
		if !item.Equals(otherList.items[i]) {
			return false
		}
	}
	return true
}

func (ls *List) IsTruthy() bool {
	return len(ls.items) > 0
}

func (ls *List) Len() int {
	return len(ls.items)
}

// GetItem implements the [index] operator.
func (ls *List) GetItem(index Object) (Object, error) {
	idx, err := resolveIndex(index, len(ls.items))
	if err != nil {
		return nil, err
	}
	return ls.items[idx], nil
}

// SetItem implements the [index] = value operator.
func (ls *List) SetItem(index, value Object) error {
	idx, err := resolveIndex(index, len(ls.items))
	if err != nil {
		return err
	}
	ls.items[idx] = value
	return nil
}

// Concat returns a new list holding the items of both lists.
func (ls *List) Concat(other *List) *List {
	items := make([]Object, 0, len(ls.items)+len(other.items))
	items = append(items, ls.items...)
	items = append(items, other.items...)
	return NewList(items)
}

// NewList returns a list that takes ownership of items.
func NewList(items []Object) *List {
	if items == nil {
		items = []Object{}
	}
	return &List{items: items}
}

// resolveIndex converts an index object to a position in a sequence of the
// given length. Negative indexes count back from the end.
func resolveIndex(index Object, length int) (int, error) {
	num, ok := index.(*Number)
	if !ok {
		return 0, errz.TypeErrorf("index must be a number (got %s)", index.Type())
	}
	if !num.IsInteger() {
		return 0, errz.New(errz.ErrIndex, "index must be an integer (got %s)", num.Inspect())
	}
	if num.value >= float64(length) || num.value < -float64(length) {
		return 0, errz.New(errz.ErrIndex, "index out of range: %s (length %d)", num.Inspect(), length)
	}
	idx := int(num.value)
	if idx < 0 {
		idx += length
	}
	return idx, nil
}
