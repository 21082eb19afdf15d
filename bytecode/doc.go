// Package bytecode provides immutable representations of compiled emergent
// code.
//
// This package defines the output of compilation: a single linear stream of
// register instructions plus a constant pool. Function bodies live in the
// same stream after the main program and are entered by absolute
// instruction index.
//
// # Key Types
//
//   - [Code]: An immutable compiled program
//   - [Instruction]: One register instruction with up to three operands
//   - [Function]: An immutable function prototype held in the constant pool
//   - [CallSite]: The callee name and argument count of a call instruction
//   - [SourceLocation]: Maps instructions to source positions (value type)
//
// # Package Dependencies
//
// This package depends only on [github.com/deepnoodle-ai/emergent/op] to
// avoid circular dependencies with the object package. Constants are stored
// as []any (float64, string, bool, nil, *Function, CallSite) and converted to
// object.Object values by the VM at load time.
//
// Example:
//
//	code, err := compiler.Compile(program)
//	if err != nil {
//	    return err
//	}
//	fmt.Printf("Instructions: %d\n", code.InstructionCount())
//	result, err := vm.Run(ctx, code)
package bytecode
