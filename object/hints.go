package object

import "fmt"

var hintTypes = map[string]Type{
	"number":       NUMBER,
	"num":          NUMBER,
	"float":        NUMBER,
	"int":          NUMBER,
	"string":       STRING,
	"str":          STRING,
	"bool":         BOOL,
	"list":         LIST,
	"distribution": DISTRIBUTION,
	"dist":         DISTRIBUTION,
	"function":     FUNCTION,
	"fn":           FUNCTION,
	"unit":         UNIT,
	"nil":          UNIT,
}

// HintType returns the type named by a type hint.
func HintType(hint string) (Type, bool) {
	typ, ok := hintTypes[hint]
	return typ, ok
}

// CheckHint compares a value against a type hint. It returns a descriptive
// error when the hint is unknown or the value has a different type. The
// caller decides whether a mismatch is fatal; both engines only report it.
func CheckHint(name, hint string, value Object) error {
	typ, ok := HintType(hint)
	if !ok {
		return fmt.Errorf("%s: unknown type %q", name, hint)
	}
	actual := value.Type()
	if actual == BUILTIN {
		actual = FUNCTION
	}
	if actual != typ {
		return fmt.Errorf("%s: expected %s, got %s", name, typ, value.Type())
	}
	return nil
}
