package vm

import (
	"fmt"

	"github.com/deepnoodle-ai/emergent/bytecode"
	"github.com/deepnoodle-ai/emergent/errors"
	"github.com/deepnoodle-ai/emergent/object"
)

// code wraps a *bytecode.Code with its constants converted to the form the
// VM uses while executing.
type code struct {
	*bytecode.Code
	Instructions []bytecode.Instruction
	Constants    []object.Object
	Names        []string // string constants, indexed like Constants
	CallSites    []bytecode.CallSite
}

func loadCode(bc *bytecode.Code) (*code, error) {
	c := &code{
		Code:         bc,
		Instructions: make([]bytecode.Instruction, bc.InstructionCount()),
		Constants:    make([]object.Object, bc.ConstantCount()),
		Names:        make([]string, bc.ConstantCount()),
		CallSites:    make([]bytecode.CallSite, bc.ConstantCount()),
	}
	for i := range c.Instructions {
		c.Instructions[i] = bc.InstructionAt(i)
	}
	for i := range c.Constants {
		switch constant := bc.ConstantAt(i).(type) {
		case *bytecode.Function:
			c.Constants[i] = object.NewCompiledFunction(constant)
		case bytecode.CallSite:
			c.CallSites[i] = constant
			c.Constants[i] = object.Nil
		case string:
			c.Names[i] = constant
			c.Constants[i] = object.NewString(constant)
		default:
			value, err := object.FromConstant(constant)
			if err != nil {
				return nil, fmt.Errorf("constant %d: %w", i, err)
			}
			c.Constants[i] = value
		}
	}
	return c, nil
}

// location returns the source location of the instruction at ip, in the
// form used by runtime faults.
func (c *code) location(ip int) errors.SourceLocation {
	loc := c.LocationAt(ip)
	return errors.SourceLocation{
		Filename: c.Filename(),
		Line:     loc.Line,
		Column:   loc.Column,
		Source:   errors.LineText(c.Source(), loc.Line),
	}
}
