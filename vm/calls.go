package vm

import (
	"context"

	"github.com/deepnoodle-ai/emergent/builtins"
	"github.com/deepnoodle-ai/emergent/bytecode"
	"github.com/deepnoodle-ai/emergent/errz"
	"github.com/deepnoodle-ai/emergent/object"
)

// call executes CALL. Arguments are already in registers when the callee
// is resolved: a named callee resolves to a builtin first, then to the
// function table, then to a function value held in a variable.
func (vm *VirtualMachine) call(ctx context.Context, ins bytecode.Instruction, fr *frame) error {
	site := vm.code.CallSites[ins.B]
	first := fr.base + ins.C
	var callee object.Object
	if site.Dynamic() {
		callee = vm.registers[first]
		first++
	}
	args := make([]object.Object, site.Argc)
	copy(args, vm.registers[first:first+site.Argc])
	if !site.Dynamic() {
		callee = vm.resolveCallee(site.Name, fr)
		if callee == nil {
			return errz.New(errz.ErrName, "undefined function: %s", site.Name)
		}
	}
	dst := fr.base + ins.A
	switch fn := callee.(type) {
	case *object.Builtin:
		result, err := fn.Call(ctx, args...)
		if err != nil {
			return err
		}
		vm.registers[dst] = result
		return nil
	case *object.Function:
		return vm.enter(fn, args, dst)
	default:
		return errz.TypeErrorf("%s is not callable", callee.Type())
	}
}

func (vm *VirtualMachine) resolveCallee(name string, fr *frame) object.Object {
	if b, ok := builtins.Lookup(name); ok {
		return b
	}
	if fn, ok := vm.functions[name]; ok {
		return fn
	}
	if value, ok := fr.env.Get(name); ok {
		return value
	}
	return nil
}

// enter pushes a frame for a call to fn. The callee runs in a fresh scope
// whose parent is the global scope, with a register window that starts
// just past the caller's.
func (vm *VirtualMachine) enter(fn *object.Function, args []object.Object, dst int) error {
	params := fn.Params()
	if len(args) != len(params) {
		return errz.TypeErrorf("%s: expected %d arguments, got %d", fn.Name(), len(params), len(args))
	}
	proto := fn.Code()
	if proto == nil {
		return errz.TypeErrorf("%s: interpreted functions cannot be called from compiled code", fn.Name())
	}
	if len(vm.frames)-1 >= vm.maxDepth {
		return errz.New(errz.ErrRuntime, "maximum call depth exceeded (%d)", vm.maxDepth)
	}
	caller := vm.frames[len(vm.frames)-1]
	base := caller.base + caller.size
	size := proto.Registers()
	if base+size > len(vm.registers) {
		return errz.New(errz.ErrRuntime, "register file exhausted (%d registers)", len(vm.registers))
	}
	clearRegisters(vm.registers[base : base+size])
	env := object.NewEnvironment(vm.globals)
	for i, param := range params {
		env.Define(param, args[i])
	}
	vm.frames = append(vm.frames, frame{
		fn:       fn,
		env:      env,
		base:     base,
		size:     size,
		returnIP: vm.ip,
		dst:      dst,
		callIP:   vm.ip - 1,
	})
	vm.ip = proto.Entry()
	if vm.observer != nil {
		if vm.observerConfig.ObserveCalls && !vm.observer.OnCall(CallEvent{
			FunctionName: fn.Name(),
			ArgCount:     len(args),
			Location:     vm.code.LocationAt(vm.frames[len(vm.frames)-1].callIP),
			FrameDepth:   len(vm.frames),
		}) {
			return ErrHalted
		}
	}
	return nil
}

// ret pops the active function frame and delivers value to the caller.
// Try handlers installed by the popped frame are discarded.
func (vm *VirtualMachine) ret(value object.Object) error {
	n := len(vm.frames) - 1
	fr := vm.frames[n]
	returnAt := vm.code.LocationAt(vm.ip - 1)
	vm.frames = vm.frames[:n]
	for len(vm.handlers) > 0 && vm.handlers[len(vm.handlers)-1].frame >= n {
		vm.handlers = vm.handlers[:len(vm.handlers)-1]
	}
	if hint := fr.fn.ReturnHint(); hint != "" {
		if err := object.CheckHint(fr.fn.Name(), hint, value); err != nil {
			vm.diagnose(err, fr.callIP)
		}
	}
	vm.registers[fr.dst] = value
	vm.ip = fr.returnIP
	if vm.observer != nil {
		if vm.observerConfig.ObserveReturns && !vm.observer.OnReturn(ReturnEvent{
			FunctionName: fr.fn.Name(),
			Location:     returnAt,
			FrameDepth:   len(vm.frames),
		}) {
			return ErrHalted
		}
	}
	return nil
}
