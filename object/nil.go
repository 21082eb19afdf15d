package object

// NilType is the unit value. Statements that produce no value evaluate to
// Nil, which is written as nil in source code.
type NilType struct{}

func (n *NilType) sealed() {}

func (n *NilType) Type() Type {
	return UNIT
}

func (n *NilType) Inspect() string {
	return "nil"
}

func (n *NilType) String() string {
	return n.Inspect()
}

func (n *NilType) Interface() interface{} {
	return nil
}

func (n *NilType) Equals(other Object) bool {
	_, ok := other.(*NilType)
	return ok
}

func (n *NilType) IsTruthy() bool {
	return false
}
