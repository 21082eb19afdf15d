package bytecode

import (
	"fmt"
	"strings"

	"github.com/deepnoodle-ai/emergent/op"
)

// Instruction is a single register machine instruction. Unused operands
// are zero. Instructions are values and are never modified once emitted.
type Instruction struct {
	Op op.Code
	A  int
	B  int
	C  int
}

// Operands returns the operands used by the opcode.
func (i Instruction) Operands() []int {
	all := []int{i.A, i.B, i.C}
	n := op.GetInfo(i.Op).OperandCount
	if n > len(all) {
		n = len(all)
	}
	return all[:n]
}

func (i Instruction) String() string {
	operands := i.Operands()
	if len(operands) == 0 {
		return i.Op.String()
	}
	parts := make([]string, len(operands))
	for j, operand := range operands {
		parts[j] = fmt.Sprintf("%d", operand)
	}
	return i.Op.String() + " " + strings.Join(parts, " ")
}

// CallSite is the constant referenced by a Call instruction. Named call
// sites resolve the callee by name at run time; dynamic call sites read the
// callee from register C and the arguments from the registers after it.
type CallSite struct {
	Name string
	Argc int
}

// Dynamic returns true if the callee is a value held in a register.
func (c CallSite) Dynamic() bool {
	return c.Name == ""
}

func (c CallSite) String() string {
	name := c.Name
	if name == "" {
		name = "<dynamic>"
	}
	return fmt.Sprintf("%s/%d", name, c.Argc)
}
