package main

import (
	"fmt"
	"os"

	"github.com/deepnoodle-ai/emergent"
	"github.com/deepnoodle-ai/emergent/dis"
	"github.com/spf13/cobra"
)

var disCmd = &cobra.Command{
	Use:   "dis [file]",
	Short: "Disassemble a program's bytecode",
	Args:  cobra.MaximumNArgs(1),
	RunE:  disHandler,
}

func init() {
	f := disCmd.Flags()
	f.StringP("code", "c", "", "code to disassemble")
	f.Bool("stdin", false, "read code from stdin")
	f.String("func", "", "function to disassemble")
	f.Bool("stats", false, "print code statistics after the listing")
}

func disHandler(cmd *cobra.Command, args []string) error {
	source, filename, err := readCode(cmd, args, os.Stdin)
	if err != nil {
		return err
	}
	opts, err := engineOptions(filename)
	if err != nil {
		return err
	}
	code, err := emergent.CompileToBytecode(source, opts...)
	if err != nil {
		return err
	}
	instructions, err := dis.Disassemble(code)
	if err != nil {
		return err
	}

	// If a function name was provided, disassemble its body only
	if name, _ := cmd.Flags().GetString("func"); name != "" {
		var body []dis.Instruction
		for _, instr := range instructions {
			if instr.Function == name {
				body = append(body, instr)
			}
		}
		if len(body) == 0 {
			return fmt.Errorf("function %q not found", name)
		}
		instructions = body
	}
	if err := dis.Print(instructions, cmd.OutOrStdout()); err != nil {
		return err
	}
	if stats, _ := cmd.Flags().GetBool("stats"); stats {
		s := code.Stats()
		fmt.Fprintf(cmd.OutOrStdout(), "instructions: %d  constants: %d  functions: %d  registers: %d\n",
			s.InstructionCount, s.ConstantCount, s.FunctionCount, s.MainRegisters)
	}
	return nil
}
