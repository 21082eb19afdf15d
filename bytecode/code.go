package bytecode

import (
	"strings"
)

// MaxRegisters is the largest register window one frame may use. It
// matches the VM's default register file, so any program the compiler
// accepts fits in a fresh machine.
const MaxRegisters = 1 << 16

// Code represents a compiled program. It is immutable after creation and
// safe for concurrent use by multiple VMs.
type Code struct {
	name         string
	instructions []Instruction
	constants    []any
	locations    []SourceLocation
	registers    int
	source       string
	filename     string
}

// CodeParams contains parameters for creating a new Code.
type CodeParams struct {
	Name         string
	Instructions []Instruction
	Constants    []any
	Locations    []SourceLocation // one per instruction
	Registers    int              // register window size of the main program
	Source       string
	Filename     string
}

// NewCode creates a new immutable Code from the given parameters.
// Input slices are copied to ensure immutability.
func NewCode(params CodeParams) *Code {
	return &Code{
		name:         params.Name,
		instructions: copyInstructions(params.Instructions),
		constants:    copyAny(params.Constants),
		locations:    copyLocations(params.Locations),
		registers:    params.Registers,
		source:       params.Source,
		filename:     params.Filename,
	}
}

// Name returns the name of this code block.
func (c *Code) Name() string {
	return c.name
}

// InstructionCount returns the number of instructions.
func (c *Code) InstructionCount() int {
	return len(c.instructions)
}

// InstructionAt returns the instruction at the given index.
func (c *Code) InstructionAt(index int) Instruction {
	return c.instructions[index]
}

// ConstantCount returns the number of constants.
func (c *Code) ConstantCount() int {
	return len(c.constants)
}

// ConstantAt returns the constant at the given index.
func (c *Code) ConstantAt(index int) any {
	return c.constants[index]
}

// Registers returns the register window size of the main program.
func (c *Code) Registers() int {
	return c.registers
}

// Source returns the source code the program was compiled from.
func (c *Code) Source() string {
	return c.source
}

// Filename returns the source filename.
func (c *Code) Filename() string {
	return c.filename
}

// LocationAt returns the source location for the instruction at the given index.
func (c *Code) LocationAt(ip int) SourceLocation {
	if ip < 0 || ip >= len(c.locations) {
		return SourceLocation{}
	}
	return c.locations[ip]
}

// GetSourceLine returns the source code line at the given 1-based line number.
func (c *Code) GetSourceLine(lineNum int) string {
	if lineNum < 1 || c.source == "" {
		return ""
	}
	lines := strings.Split(c.source, "\n")
	if lineNum > len(lines) {
		return ""
	}
	return lines[lineNum-1]
}

// Functions returns the function prototypes in the constant pool.
func (c *Code) Functions() []*Function {
	var fns []*Function
	for _, constant := range c.constants {
		if fn, ok := constant.(*Function); ok {
			fns = append(fns, fn)
		}
	}
	return fns
}

// FunctionAt returns the function whose body contains the instruction at
// ip, or nil when ip belongs to the main program.
func (c *Code) FunctionAt(ip int) *Function {
	var found *Function
	for _, fn := range c.Functions() {
		if fn.Entry() <= ip && (found == nil || fn.Entry() > found.Entry()) {
			found = fn
		}
	}
	return found
}

// FunctionNames returns the names of all functions in this code.
func (c *Code) FunctionNames() []string {
	var names []string
	for _, fn := range c.Functions() {
		names = append(names, fn.Name())
	}
	return names
}

// Stats returns statistics about this code block.
func (c *Code) Stats() Stats {
	return Stats{
		InstructionCount: c.InstructionCount(),
		ConstantCount:    c.ConstantCount(),
		FunctionCount:    len(c.Functions()),
		MainRegisters:    c.registers,
		SourceBytes:      len(c.source),
	}
}
