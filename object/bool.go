package object

// Bool wraps bool and implements Object. The only instances are True and
// False.
type Bool struct {
	value bool
}

func (b *Bool) sealed() {}

func (b *Bool) Type() Type {
	return BOOL
}

func (b *Bool) Value() bool {
	return b.value
}

func (b *Bool) Inspect() string {
	if b.value {
		return "true"
	}
	return "false"
}

func (b *Bool) String() string {
	return b.Inspect()
}

func (b *Bool) Interface() interface{} {
	return b.value
}

func (b *Bool) Equals(other Object) bool {
	if other, ok := other.(*Bool); ok {
		return b.value == other.value
	}
	return false
}

func (b *Bool) IsTruthy() bool {
	return b.value
}

func NewBool(value bool) *Bool {
	if value {
		return True
	}
	return False
}

// Not returns the boolean negation of an object's truthiness.
func Not(obj Object) *Bool {
	return NewBool(!obj.IsTruthy())
}
