package bytecode

import (
	"fmt"
	"strings"
)

// Function represents a compiled function prototype. It is immutable after
// creation. Its body starts at Entry in the enclosing Code's instruction
// stream and always ends with a Return instruction.
type Function struct {
	name       string
	parameters []string
	returnHint string
	entry      int
	registers  int
}

// FunctionParams contains parameters for creating a new Function.
type FunctionParams struct {
	Name       string
	Parameters []string
	ReturnHint string
	Entry      int
	Registers  int
}

// NewFunction creates a new immutable Function from the given parameters.
func NewFunction(params FunctionParams) *Function {
	return &Function{
		name:       params.Name,
		parameters: copyStrings(params.Parameters),
		returnHint: params.ReturnHint,
		entry:      params.Entry,
		registers:  params.Registers,
	}
}

// Name returns the function name.
func (f *Function) Name() string {
	return f.name
}

// ParameterCount returns the number of parameters.
func (f *Function) ParameterCount() int {
	return len(f.parameters)
}

// Parameter returns the name of the parameter at the given index.
func (f *Function) Parameter(index int) string {
	return f.parameters[index]
}

// Parameters returns a copy of the parameter names.
func (f *Function) Parameters() []string {
	return copyStrings(f.parameters)
}

// ReturnHint returns the declared return type name, if any.
func (f *Function) ReturnHint() string {
	return f.returnHint
}

// Entry returns the index of the first instruction of the body.
func (f *Function) Entry() int {
	return f.entry
}

// Registers returns the size of the function's register window. Register 0
// holds the value of the last expression statement; parameters are bound
// in the call's scope, not in registers.
func (f *Function) Registers() int {
	return f.registers
}

func (f *Function) String() string {
	s := fmt.Sprintf("def %s(%s)", f.name, strings.Join(f.parameters, ", "))
	if f.returnHint != "" {
		s += " -> " + f.returnHint
	}
	return fmt.Sprintf("%s @%d regs=%d", s, f.entry, f.registers)
}
