package bytecode

// Stats summarizes a compiled program, for tooling that inspects code
// without running it.
type Stats struct {
	InstructionCount int
	ConstantCount    int
	FunctionCount    int // DEF_FUNC protos in the constant pool
	MainRegisters    int // register window of the top-level frame
	SourceBytes      int
}
