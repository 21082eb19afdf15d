package object

import (
	"strconv"
	"unicode/utf8"
)

// String wraps string and implements Object. Strings are immutable.
type String struct {
	value string
}

func (s *String) sealed() {}

func (s *String) Type() Type {
	return STRING
}

func (s *String) Value() string {
	return s.value
}

func (s *String) Inspect() string {
	return strconv.Quote(s.value)
}

func (s *String) String() string {
	return s.value
}

func (s *String) Interface() interface{} {
	return s.value
}

func (s *String) Equals(other Object) bool {
	if other, ok := other.(*String); ok {
		return s.value == other.value
	}
	return false
}

func (s *String) IsTruthy() bool {
	return s.value != ""
}

// Len returns the number of characters in the string.
func (s *String) Len() int {
	return utf8.RuneCountInString(s.value)
}

// Chars returns the characters of the string as one-character strings.
func (s *String) Chars() []Object {
	chars := make([]Object, 0, len(s.value))
	for _, r := range s.value {
		chars = append(chars, NewString(string(r)))
	}
	return chars
}

func NewString(s string) *String {
	return &String{value: s}
}
