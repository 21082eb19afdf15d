// Package vm provides a register-based VirtualMachine that executes
// compiled emergent bytecode.
//
// Every frame owns a window of a shared register file. Variables live in
// scopes exactly as in the interpreter: the main program uses the global
// scope and each call gets a fresh scope whose parent is the global scope.
// Runs of instructions that only touch registers are compiled into cached
// closures once they are executed often enough; see HotPathStats.
package vm

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/deepnoodle-ai/emergent/builtins"
	"github.com/deepnoodle-ai/emergent/bytecode"
	"github.com/deepnoodle-ai/emergent/errz"
	"github.com/deepnoodle-ai/emergent/object"
	"github.com/deepnoodle-ai/emergent/op"
	"github.com/gofrs/uuid"
	"github.com/hashicorp/go-multierror"
	"github.com/rs/zerolog"
)

const (
	// MaxCallDepth is the default limit on nested function calls.
	MaxCallDepth = 1024

	// DefaultRegisterFileSize is the default number of registers shared by
	// all frames.
	DefaultRegisterFileSize = bytecode.MaxRegisters

	// DefaultContextCheckInterval is the number of instructions between
	// deterministic checks of ctx.Done(). Set to 0 to disable.
	DefaultContextCheckInterval = 1000
)

// ErrHalted is returned when an observer stops execution.
var ErrHalted = stderrors.New("execution halted by observer")

// VirtualMachine executes one compiled program. Globals and functions
// persist across calls to Run.
type VirtualMachine struct {
	id          uuid.UUID
	main        *bytecode.Code
	code        *code
	ip          int
	registers   []object.Object
	frames      []frame
	handlers    []handler
	globals     *object.Environment
	functions   map[string]*object.Function
	diagnostics *multierror.Error
	runtime     *object.Runtime
	hot         *hotPath
	stepper     *stepper
	running     bool
	runMutex    sync.Mutex

	output               io.Writer
	seed                 int64
	seeded               bool
	logger               zerolog.Logger
	strict               bool
	hotThreshold         int
	hotWindow            int
	hotDisabled          bool
	registerFileSize     int
	maxDepth             int
	contextCheckInterval int
	observer             Observer
	observerConfig       ObserverConfig
}

// New creates a Virtual Machine for the given code.
func New(main *bytecode.Code, options ...Option) *VirtualMachine {
	vm := &VirtualMachine{
		main:                 main,
		globals:              object.NewEnvironment(nil),
		functions:            map[string]*object.Function{},
		logger:               zerolog.Nop(),
		hotThreshold:         DefaultHotPathThreshold,
		hotWindow:            DefaultHotPathWindow,
		registerFileSize:     DefaultRegisterFileSize,
		maxDepth:             MaxCallDepth,
		contextCheckInterval: DefaultContextCheckInterval,
	}
	for _, opt := range options {
		opt(vm)
	}
	if !vm.seeded {
		vm.seed = time.Now().UnixNano()
	}
	vm.id = uuid.Must(uuid.NewV4())
	vm.logger = vm.logger.With().Str("engine", "vm").Str("id", vm.id.String()).Logger()
	vm.runtime = object.NewRuntime(vm.output, vm.seed)
	if vm.observer != nil {
		cfg := NormalizeConfig(vm.observer.Config())
		vm.observerConfig = cfg
		if cfg.StepMode != StepNone {
			vm.stepper = &stepper{cfg: cfg}
			vm.hotDisabled = true
		}
	}
	if !vm.hotDisabled {
		vm.hot = newHotPath(vm.hotThreshold, vm.hotWindow)
	}
	return vm
}

// ID returns the unique id of this VM, as used in log entries.
func (vm *VirtualMachine) ID() uuid.UUID {
	return vm.id
}

// Globals returns the global scope.
func (vm *VirtualMachine) Globals() *object.Environment {
	return vm.globals
}

// Function returns the function defined with the given name.
func (vm *VirtualMachine) Function(name string) (*object.Function, bool) {
	fn, ok := vm.functions[name]
	return fn, ok
}

// Diagnostics returns non-fatal problems found while running, such as
// type hint mismatches, or nil if there were none.
func (vm *VirtualMachine) Diagnostics() error {
	return vm.diagnostics.ErrorOrNil()
}

// HotPathStats reports hot-path cache activity so far.
func (vm *VirtualMachine) HotPathStats() HotPathStats {
	if vm.hot == nil {
		return HotPathStats{}
	}
	return vm.hot.stats
}

func (vm *VirtualMachine) start() error {
	vm.runMutex.Lock()
	defer vm.runMutex.Unlock()
	if vm.running {
		return fmt.Errorf("vm is already running")
	}
	vm.running = true
	return nil
}

func (vm *VirtualMachine) stop() {
	vm.runMutex.Lock()
	defer vm.runMutex.Unlock()
	vm.running = false
}

// Run executes the program and returns its result: the value of a
// top-level return, or else the value of the last expression statement
// evaluated while executing the final top-level statement.
func (vm *VirtualMachine) Run(ctx context.Context) (result object.Object, err error) {
	if vm.main == nil {
		return nil, fmt.Errorf("no code to run")
	}
	if err := vm.start(); err != nil {
		return nil, err
	}
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
		vm.stop()
	}()
	if vm.code == nil {
		if vm.code, err = loadCode(vm.main); err != nil {
			return nil, err
		}
	}
	size := vm.code.Registers()
	if size < 1 {
		size = 1
	}
	if size > vm.registerFileSize {
		return nil, errz.New(errz.ErrRuntime, "register file exhausted (%d registers)", vm.registerFileSize)
	}
	vm.registers = make([]object.Object, vm.registerFileSize)
	clearRegisters(vm.registers[:size])
	vm.frames = append(vm.frames[:0], frame{env: vm.globals, size: size})
	vm.handlers = vm.handlers[:0]
	vm.ip = 0
	if vm.observer != nil && vm.stepper != nil {
		vm.stepper = &stepper{cfg: vm.stepper.cfg}
	}
	started := time.Now()
	result, err = vm.eval(object.WithRuntime(ctx, vm.runtime))
	event := vm.logger.Debug().Dur("elapsed", time.Since(started))
	if vm.hot != nil {
		event = event.Int("hot_chunks", vm.hot.stats.Chunks).Int("hot_hits", vm.hot.stats.Hits)
	}
	event.Msg("vm halted")
	return result, err
}

func clearRegisters(r []object.Object) {
	for i := range r {
		r[i] = object.Nil
	}
}

// eval runs until HALT, a top-level RETURN, the end of the instructions or
// an uncaught fault.
func (vm *VirtualMachine) eval(ctx context.Context) (object.Object, error) {
	var instructionCount int
	checkInterval := vm.contextCheckInterval
	done := ctx.Done()
	instructions := vm.code.Instructions
	for {
		if vm.ip >= len(instructions) {
			return vm.registers[0], nil
		}
		if checkInterval > 0 && done != nil {
			instructionCount++
			if instructionCount >= checkInterval {
				instructionCount = 0
				select {
				case <-done:
					return nil, ctx.Err()
				default:
				}
			}
		}
		if vm.hot != nil {
			if ch := vm.hot.lookup(vm.ip); ch != nil {
				fr := &vm.frames[len(vm.frames)-1]
				ip, err := ch.run(vm.registers[fr.base : fr.base+fr.size])
				vm.hot.stats.Hits++
				vm.hot.stats.Instructions += ip - ch.start
				instructionCount += ip - ch.start
				vm.ip = ip
				if err != nil {
					if err := vm.handleFault(err); err != nil {
						return nil, err
					}
				}
				continue
			}
		}
		ins := instructions[vm.ip]
		if vm.stepper != nil {
			if err := vm.observeStep(ins); err != nil {
				return nil, err
			}
		}
		vm.ip++
		result, halted, err := vm.exec(ctx, ins)
		if err != nil {
			if err := vm.handleFault(err); err != nil {
				return nil, err
			}
			continue
		}
		if halted {
			return result, nil
		}
		if vm.hot != nil && vm.hot.tick() {
			if ch := vm.hot.compile(vm.code, vm.ip); ch != nil {
				vm.logger.Debug().
					Int("ip", ch.start).
					Int("length", len(ch.steps)).
					Msg("hot path compiled")
			}
		}
	}
}

// exec executes one instruction. vm.ip already points past it.
func (vm *VirtualMachine) exec(ctx context.Context, ins bytecode.Instruction) (object.Object, bool, error) {
	fr := &vm.frames[len(vm.frames)-1]
	r := vm.registers[fr.base : fr.base+fr.size]
	c := vm.code
	switch ins.Op {
	case op.Nop:
	case op.Halt:
		return vm.registers[0], true, nil
	case op.LoadConst:
		r[ins.A] = c.Constants[ins.B]
	case op.LoadNil:
		r[ins.A] = object.Nil
	case op.Move:
		r[ins.A] = r[ins.B]
	case op.LoadVar:
		value, err := vm.lookup(c.Names[ins.B], fr)
		if err != nil {
			return nil, false, err
		}
		r[ins.A] = value
	case op.StoreVar:
		fr.env.Define(c.Names[ins.B], r[ins.A])
	case op.Jump:
		vm.ip = ins.A
	case op.JumpIfFalse:
		if !r[ins.A].IsTruthy() {
			vm.ip = ins.B
		}
	case op.JumpIfTrue:
		if r[ins.A].IsTruthy() {
			vm.ip = ins.B
		}
	case op.UnaryNegative:
		value, err := object.Negate(r[ins.B])
		if err != nil {
			return nil, false, err
		}
		r[ins.A] = value
	case op.UnaryNot:
		r[ins.A] = object.Not(r[ins.B])
	case op.LogicalAnd:
		r[ins.A] = object.NewBool(r[ins.B].IsTruthy() && r[ins.C].IsTruthy())
	case op.LogicalOr:
		r[ins.A] = object.NewBool(r[ins.B].IsTruthy() || r[ins.C].IsTruthy())
	case op.NewList:
		items := make([]object.Object, ins.C)
		copy(items, r[ins.B:ins.B+ins.C])
		r[ins.A] = object.NewList(items)
	case op.ArrayIndex:
		value, err := object.GetItem(r[ins.B], r[ins.C])
		if err != nil {
			return nil, false, err
		}
		r[ins.A] = value
	case op.ArraySet:
		if err := object.SetItem(r[ins.A], r[ins.B], r[ins.C]); err != nil {
			return nil, false, err
		}
	case op.ArrayLen:
		r[ins.A] = object.NewNumber(float64(object.IterLen(r[ins.B])))
	case op.Print:
		args := make([]object.Object, ins.C)
		copy(args, r[ins.B:ins.B+ins.C])
		value, err := builtins.Print(ctx, args...)
		if err != nil {
			return nil, false, err
		}
		r[ins.A] = value
	case op.Call:
		if err := vm.call(ctx, ins, fr); err != nil {
			return nil, false, err
		}
	case op.Return:
		value := r[ins.A]
		if len(vm.frames) == 1 {
			return value, true, nil
		}
		if err := vm.ret(value); err != nil {
			return nil, false, err
		}
	case op.DefFunc:
		fn, ok := c.Constants[ins.A].(*object.Function)
		if !ok {
			return nil, false, errz.New(errz.ErrRuntime, "invalid function constant %d", ins.A)
		}
		vm.functions[fn.Name()] = fn
	case op.CheckType:
		if err := object.CheckHint(c.Names[ins.C], c.Names[ins.B], r[ins.A]); err != nil {
			vm.diagnose(err, vm.ip-1)
		}
	case op.SetupTry:
		vm.handlers = append(vm.handlers, handler{frame: len(vm.frames) - 1, target: ins.A, name: ins.B})
	case op.PopTry:
		if n := len(vm.handlers); n > 0 {
			vm.handlers = vm.handlers[:n-1]
		}
	default:
		if bop, ok := ins.Op.BinaryOp(); ok {
			value, err := object.BinaryOp(bop, r[ins.B], r[ins.C])
			if err != nil {
				return nil, false, err
			}
			r[ins.A] = value
		} else if cop, ok := ins.Op.CompareOp(); ok {
			value, err := object.Compare(cop, r[ins.B], r[ins.C])
			if err != nil {
				return nil, false, err
			}
			r[ins.A] = value
		} else {
			return nil, false, errz.New(errz.ErrRuntime, "invalid opcode %d", ins.Op)
		}
	}
	return nil, false, nil
}

// lookup resolves a variable read: scopes first, then the function table,
// then builtins. An unknown name reads as 0 unless strict variables are
// enabled.
func (vm *VirtualMachine) lookup(name string, fr *frame) (object.Object, error) {
	if value, ok := fr.env.Get(name); ok {
		return value, nil
	}
	if fn, ok := vm.functions[name]; ok {
		return fn, nil
	}
	if b, ok := builtins.Lookup(name); ok {
		return b, nil
	}
	if vm.strict {
		return nil, errz.New(errz.ErrName, "undefined variable: %s", name)
	}
	return object.NewNumber(0), nil
}

func (vm *VirtualMachine) diagnose(err error, ip int) {
	loc := vm.code.LocationAt(ip)
	vm.logger.Warn().
		Err(err).
		Int("line", loc.Line).
		Int("column", loc.Column).
		Msg("type hint mismatch")
	vm.diagnostics = multierror.Append(vm.diagnostics, err)
}

func (vm *VirtualMachine) observeStep(ins bytecode.Instruction) error {
	loc := vm.code.LocationAt(vm.ip)
	if !vm.stepper.want(loc) {
		return nil
	}
	event := StepEvent{
		IP:         vm.ip,
		Opcode:     ins.Op,
		OpcodeName: ins.Op.String(),
		Location:   loc,
		Function:   vm.frames[len(vm.frames)-1].name(),
		FrameDepth: len(vm.frames),
	}
	if !vm.observer.OnStep(event) {
		return ErrHalted
	}
	return nil
}
