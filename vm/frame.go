package vm

import (
	"github.com/deepnoodle-ai/emergent/object"
)

// frame is one activation: the main program or a function call. Each frame
// owns the registers [base, base+size) of the register file.
type frame struct {
	fn       *object.Function // nil for the main program
	env      *object.Environment
	base     int
	size     int
	returnIP int // where the caller resumes
	dst      int // absolute register receiving the result
	callIP   int // ip of the CALL instruction, for stack traces
}

func (f *frame) name() string {
	if f.fn == nil {
		return "main"
	}
	return f.fn.Name()
}

// handler is an active try block.
type handler struct {
	frame  int // index of the frame that installed it
	target int // ip of the catch block
	name   int // constant index of the catch variable name, or -1
}
