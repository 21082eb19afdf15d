package object

import "github.com/deepnoodle-ai/emergent/errz"

// GetItem implements the [index] operator for lists and strings. Indexing a
// string yields a one-character string.
func GetItem(container, index Object) (Object, error) {
	switch c := container.(type) {
	case *List:
		return c.GetItem(index)
	case *String:
		chars := []rune(c.value)
		idx, err := resolveIndex(index, len(chars))
		if err != nil {
			return nil, err
		}
		return NewString(string(chars[idx])), nil
	}
	return nil, errz.TypeErrorf("%s is not indexable", container.Type())
}

// SetItem implements the [index] = value operator. Only lists support item
// assignment.
func SetItem(container, index, value Object) error {
	switch c := container.(type) {
	case *List:
		return c.SetItem(index, value)
	case *String:
		return errz.TypeErrorf("string does not support item assignment")
	}
	return errz.TypeErrorf("%s is not indexable", container.Type())
}

// IterLen returns the number of elements a for loop visits: the items of a
// list or the characters of a string. Other values are not iterable and
// yield zero, which makes iterating them a no-op.
func IterLen(obj Object) int {
	switch obj := obj.(type) {
	case *List:
		return len(obj.items)
	case *String:
		return obj.Len()
	}
	return 0
}

// IterItem returns the i-th element visited by a for loop over obj.
func IterItem(obj Object, i int) Object {
	switch obj := obj.(type) {
	case *List:
		return obj.items[i]
	case *String:
		return NewString(string([]rune(obj.value)[i]))
	}
	return Nil
}
