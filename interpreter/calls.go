package interpreter

import (
	"context"

	"github.com/deepnoodle-ai/emergent/ast"
	"github.com/deepnoodle-ai/emergent/builtins"
	"github.com/deepnoodle-ai/emergent/errors"
	"github.com/deepnoodle-ai/emergent/errz"
	"github.com/deepnoodle-ai/emergent/object"
)

// callRecord is one entry of the call stack reported with faults.
type callRecord struct {
	name string
	call *ast.Call
}

// evalCall evaluates the arguments left to right and then resolves the
// callee. A named callee resolves to a builtin first, then to the function
// table, then to a function value held in a variable.
func (in *Interpreter) evalCall(ctx context.Context, call *ast.Call, fr *frame) (object.Object, error) {
	var callee object.Object
	name, named := call.FunName()
	if !named {
		var err error
		if callee, err = in.eval(ctx, call.Fun, fr); err != nil {
			return nil, err
		}
	}
	args := make([]object.Object, 0, len(call.Args))
	for _, arg := range call.Args {
		value, err := in.eval(ctx, arg, fr)
		if err != nil {
			return nil, err
		}
		args = append(args, value)
	}
	if named {
		callee = in.resolveCallee(name, fr)
		if callee == nil {
			return nil, in.fault(errz.New(errz.ErrName, "undefined function: %s", name), call)
		}
	}
	switch fn := callee.(type) {
	case *object.Builtin:
		result, err := fn.Call(ctx, args...)
		if err != nil {
			if isCancellation(err) {
				return nil, err
			}
			return nil, in.fault(err, call)
		}
		return result, nil
	case *object.Function:
		return in.callFunction(ctx, fn, args, call)
	default:
		return nil, in.fault(errz.TypeErrorf("%s is not callable", callee.Type()), call)
	}
}

func (in *Interpreter) resolveCallee(name string, fr *frame) object.Object {
	if b, ok := builtins.Lookup(name); ok {
		return b
	}
	if fn, ok := in.functions[name]; ok {
		return fn
	}
	if value, ok := fr.env.Get(name); ok {
		return value
	}
	return nil
}

// callFunction runs a user function in a fresh scope whose parent is the
// global scope, so the caller's locals are not visible. The result is the
// returned value, or else the value of the last expression statement
// evaluated during the call.
func (in *Interpreter) callFunction(ctx context.Context, fn *object.Function, args []object.Object, call *ast.Call) (object.Object, error) {
	params := fn.Params()
	if len(args) != len(params) {
		return nil, in.fault(errz.TypeErrorf("%s: expected %d arguments, got %d", fn.Name(), len(params), len(args)), call)
	}
	if fn.Body() == nil {
		return nil, in.fault(errz.TypeErrorf("%s: compiled functions cannot be interpreted", fn.Name()), call)
	}
	if len(in.calls) >= in.maxDepth {
		return nil, in.fault(errz.New(errz.ErrRuntime, "maximum call depth exceeded (%d)", in.maxDepth), call)
	}
	env := object.NewEnvironment(in.globals)
	for i, param := range params {
		env.Define(param, args[i])
	}
	in.calls = append(in.calls, callRecord{name: fn.Name(), call: call})
	fr := &frame{name: fn.Name(), env: env, last: object.Nil}
	ctl, err := in.execBlock(ctx, fn.Body(), fr)
	if err != nil {
		if se, ok := err.(*errz.StructuredError); ok {
			se.WithStack(in.stackTrace())
		}
		in.calls = in.calls[:len(in.calls)-1]
		return nil, err
	}
	in.calls = in.calls[:len(in.calls)-1]
	result := fr.last
	if ctl == returning {
		result = fr.result
	}
	if hint := fn.ReturnHint(); hint != "" {
		if err := object.CheckHint(fn.Name(), hint, result); err != nil {
			in.diagnose(err, call)
		}
	}
	return result, nil
}

// stackTrace returns the active calls, innermost first.
func (in *Interpreter) stackTrace() []errors.StackFrame {
	frames := make([]errors.StackFrame, 0, len(in.calls))
	for i := len(in.calls) - 1; i >= 0; i-- {
		frames = append(frames, errors.StackFrame{
			Function: in.calls[i].name,
			Location: in.location(in.calls[i].call),
		})
	}
	return frames
}
