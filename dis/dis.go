// Package dis supports analysis of compiled emergent programs by
// disassembling their bytecode into annotated instructions.
package dis

import (
	"fmt"
	"io"
	"strings"

	"github.com/deepnoodle-ai/emergent/bytecode"
	"github.com/deepnoodle-ai/emergent/internal/table"
	"github.com/deepnoodle-ai/emergent/op"
	"github.com/fatih/color"
)

// Instruction represents a single bytecode instruction and its operands.
type Instruction struct {
	Offset     int
	Name       string
	Opcode     op.Code
	Operands   []int
	Line       int
	Function   string // enclosing function, empty for the main program
	Annotation string
	Constant   any
}

// Disassemble returns a parsed representation of the given bytecode.
func Disassemble(code *bytecode.Code) ([]Instruction, error) {
	instructions := make([]Instruction, 0, code.InstructionCount())
	for ip := 0; ip < code.InstructionCount(); ip++ {
		ins := code.InstructionAt(ip)
		info := op.GetInfo(ins.Op)
		if info.Name == "" {
			return nil, fmt.Errorf("invalid opcode %d at offset %d", ins.Op, ip)
		}
		annotation, constant, err := annotate(code, ins)
		if err != nil {
			return nil, fmt.Errorf("offset %d: %w", ip, err)
		}
		var function string
		if fn := code.FunctionAt(ip); fn != nil {
			function = fn.Name()
		}
		instructions = append(instructions, Instruction{
			Offset:     ip,
			Name:       info.Name,
			Opcode:     ins.Op,
			Operands:   ins.Operands(),
			Line:       code.LocationAt(ip).Line,
			Function:   function,
			Annotation: annotation,
			Constant:   constant,
		})
	}
	return instructions, nil
}

func annotate(code *bytecode.Code, ins bytecode.Instruction) (string, any, error) {
	switch ins.Op {
	case op.LoadConst:
		c, err := constantAt(code, ins.B)
		return "", c, err
	case op.LoadVar, op.StoreVar:
		name, err := nameAt(code, ins.B)
		return name, nil, err
	case op.Call:
		c, err := constantAt(code, ins.B)
		if err != nil {
			return "", nil, err
		}
		return fmt.Sprint(c), nil, nil
	case op.DefFunc:
		c, err := constantAt(code, ins.A)
		return "", c, err
	case op.CheckType:
		hint, err := nameAt(code, ins.B)
		if err != nil {
			return "", nil, err
		}
		name, err := nameAt(code, ins.C)
		if err != nil {
			return "", nil, err
		}
		return name + ": " + hint, nil, nil
	case op.SetupTry:
		if ins.B < 0 {
			return fmt.Sprintf("catch -> %d", ins.A), nil, nil
		}
		name, err := nameAt(code, ins.B)
		if err != nil {
			return "", nil, err
		}
		return fmt.Sprintf("catch %s -> %d", name, ins.A), nil, nil
	case op.Jump:
		return fmt.Sprintf("-> %d", ins.A), nil, nil
	case op.JumpIfFalse, op.JumpIfTrue:
		return fmt.Sprintf("-> %d", ins.B), nil, nil
	}
	return "", nil, nil
}

func constantAt(code *bytecode.Code, index int) (any, error) {
	if index < 0 || code.ConstantCount() <= index {
		return nil, fmt.Errorf("constant index out of range: %d", index)
	}
	return code.ConstantAt(index), nil
}

func nameAt(code *bytecode.Code, index int) (string, error) {
	c, err := constantAt(code, index)
	if err != nil {
		return "", err
	}
	name, ok := c.(string)
	if !ok {
		return "", fmt.Errorf("constant %d is not a name", index)
	}
	return name, nil
}

var (
	bold    = color.New(color.Bold).SprintFunc()
	yellow  = color.New(color.FgYellow).SprintFunc()
	green   = color.New(color.FgGreen).SprintFunc()
	magenta = color.New(color.FgMagenta).SprintFunc()
	cyan    = color.New(color.FgHiCyan).SprintFunc()
	italic  = color.New(color.Italic).SprintFunc()
)

// Print a string representation of the given instructions to the given
// writer. Each function body is introduced by a row naming the function.
// Colors follow color.NoColor.
func Print(instructions []Instruction, writer io.Writer) error {
	var rows [][]string
	function := ""
	for _, instr := range instructions {
		if instr.Function != function {
			function = instr.Function
			name := function
			if name == "" {
				name = "main"
			}
			rows = append(rows, []string{"", "", italic(name + ":"), "", ""})
		}
		rows = append(rows, []string{
			fmt.Sprintf("%d", instr.Offset),
			formatLine(instr.Line),
			bold(instr.Name),
			formatOperands(instr.Operands),
			formatInfo(instr),
		})
	}
	return table.NewTable(writer).
		WithHeader([]string{"OFFSET", "LINE", "OPCODE", "OPERANDS", "INFO"}).
		WithColumnAlignment([]table.Alignment{
			table.AlignRight,
			table.AlignRight,
			table.AlignLeft,
			table.AlignRight,
			table.AlignLeft,
		}).
		WithHeaderAlignment([]table.Alignment{
			table.AlignCenter,
			table.AlignCenter,
			table.AlignCenter,
			table.AlignCenter,
			table.AlignCenter,
		}).
		WithRows(rows).
		Render()
}

func formatInfo(instr Instruction) string {
	switch c := instr.Constant.(type) {
	case nil:
		if instr.Annotation != "" {
			return cyan(instr.Annotation)
		}
		return ""
	case float64:
		return yellow(fmt.Sprintf("%g", c))
	case string:
		if len(c) > 80 {
			c = c[:77] + "..."
		}
		return green(fmt.Sprintf("%q", c))
	case *bytecode.Function:
		return magenta(fmt.Sprintf("func:%s", c.Name()))
	default:
		return bold(fmt.Sprintf("%v", c))
	}
}

func formatLine(line int) string {
	if line == 0 {
		return ""
	}
	return fmt.Sprintf("%d", line)
}

func formatOperands(operands []int) string {
	var sb strings.Builder
	for i, operand := range operands {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(fmt.Sprintf("%d", operand))
	}
	return sb.String()
}
