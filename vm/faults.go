package vm

import (
	"context"
	stderrors "errors"

	"github.com/deepnoodle-ai/emergent/errors"
	"github.com/deepnoodle-ai/emergent/errz"
	"github.com/deepnoodle-ai/emergent/object"
)

// handleFault converts err, raised by the instruction before vm.ip, into a
// located fault. If a try handler is active, execution resumes at its
// catch block and nil is returned. Cancellation and observer halts are
// never caught.
func (vm *VirtualMachine) handleFault(err error) error {
	if isCancellation(err) || stderrors.Is(err, ErrHalted) {
		return err
	}
	fault := vm.fault(err, vm.ip-1)
	if len(vm.handlers) == 0 {
		return fault
	}
	h := vm.handlers[len(vm.handlers)-1]
	vm.handlers = vm.handlers[:len(vm.handlers)-1]
	vm.frames = vm.frames[:h.frame+1]
	if h.name >= 0 {
		vm.frames[h.frame].env.Define(vm.code.Names[h.name], object.NewString(caughtMessage(fault)))
	}
	vm.ip = h.target
	return nil
}

// fault locates err at the instruction at ip and attaches the active calls.
// Faults that already carry a location keep it.
func (vm *VirtualMachine) fault(err error, ip int) error {
	var se *errz.StructuredError
	if !stderrors.As(err, &se) {
		se = errz.New(errz.ErrRuntime, "%s", err.Error()).WithCause(err)
	}
	se.WithLocation(vm.code.location(ip))
	if len(vm.frames) > 1 {
		se.WithStack(vm.stackTrace())
	}
	return se
}

// stackTrace returns the active calls, innermost first, each located at
// its call site.
func (vm *VirtualMachine) stackTrace() []errors.StackFrame {
	frames := make([]errors.StackFrame, 0, len(vm.frames)-1)
	for i := len(vm.frames) - 1; i > 0; i-- {
		frames = append(frames, errors.StackFrame{
			Function: vm.frames[i].name(),
			Location: vm.code.location(vm.frames[i].callIP),
		})
	}
	return frames
}

// caughtMessage returns the string bound to a catch variable.
func caughtMessage(err error) string {
	var se *errz.StructuredError
	if stderrors.As(err, &se) {
		return se.Caught()
	}
	return err.Error()
}

func isCancellation(err error) bool {
	return stderrors.Is(err, context.Canceled) || stderrors.Is(err, context.DeadlineExceeded)
}
