// Package object provides the runtime values shared by the interpreter and
// the virtual machine.
//
// Values form a closed set. Code that inspects values type switches over
// the concrete types:
//
//	switch obj := obj.(type) {
//	case *object.Number:
//		// do something with obj.Value()
//	case *object.String:
//		// do something with obj.Value()
//	}
//
// The Type() method of each object may also be used to get a string name of
// the object type, such as "number" or "list".
package object

// Type of an object as a string.
type Type string

// Type constants
const (
	BOOL         Type = "bool"
	BUILTIN      Type = "builtin"
	DISTRIBUTION Type = "distribution"
	FUNCTION     Type = "function"
	LIST         Type = "list"
	NUMBER       Type = "number"
	STRING       Type = "string"
	UNIT         Type = "unit"
)

var (
	Nil   = &NilType{}
	True  = &Bool{value: true}
	False = &Bool{value: false}
)

// Object is the interface that all emergent values implement. The set of
// implementations is closed: only the types in this package satisfy it.
type Object interface {
	// Type of the object.
	Type() Type

	// Inspect returns a string representation of the given object.
	Inspect() string

	// Interface converts the given object to a native Go value.
	Interface() interface{}

	// Returns true if the given object is equal to this object.
	Equals(other Object) bool

	// IsTruthy returns true if the object is considered "truthy".
	IsTruthy() bool

	sealed()
}

// PrintableValue returns the text print writes for an object. Strings are
// written without quotes; everything else uses Inspect.
func PrintableValue(obj Object) string {
	if s, ok := obj.(*String); ok {
		return s.value
	}
	return obj.Inspect()
}
