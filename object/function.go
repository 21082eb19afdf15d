package object

import (
	"fmt"
	"strings"

	"github.com/deepnoodle-ai/emergent/ast"
	"github.com/deepnoodle-ai/emergent/bytecode"
)

// Function is a user-defined function. A function created by the
// interpreter carries its syntax tree body; one created by the virtual
// machine carries its compiled prototype.
type Function struct {
	name       string
	params     []string
	returnHint string
	body       *ast.Block
	code       *bytecode.Function
}

func (f *Function) sealed() {}

func (f *Function) Type() Type {
	return FUNCTION
}

func (f *Function) Name() string {
	return f.name
}

// Params returns the parameter names. Callers must not modify the slice.
func (f *Function) Params() []string {
	return f.params
}

func (f *Function) ReturnHint() string {
	return f.returnHint
}

// Body returns the syntax tree body, or nil for a compiled function.
func (f *Function) Body() *ast.Block {
	return f.body
}

// Code returns the compiled prototype, or nil for an interpreted function.
func (f *Function) Code() *bytecode.Function {
	return f.code
}

func (f *Function) Inspect() string {
	return fmt.Sprintf("function(%s(%s))", f.name, strings.Join(f.params, ", "))
}

func (f *Function) String() string {
	return f.Inspect()
}

func (f *Function) Interface() interface{} {
	return nil
}

func (f *Function) Equals(other Object) bool {
	return f == other
}

func (f *Function) IsTruthy() bool {
	return true
}

// NewFunction returns a function for a definition evaluated by the
// interpreter.
func NewFunction(def *ast.Def) *Function {
	return &Function{
		name:       def.Name.Name,
		params:     def.ParamNames(),
		returnHint: def.ReturnHint,
		body:       def.Body,
	}
}

// NewCompiledFunction returns a function for a compiled prototype.
func NewCompiledFunction(fn *bytecode.Function) *Function {
	return &Function{
		name:       fn.Name(),
		params:     fn.Parameters(),
		returnHint: fn.ReturnHint(),
		code:       fn,
	}
}
