package vm

import (
	"io"

	"github.com/rs/zerolog"
)

// Option is a configuration function for a Virtual Machine.
type Option func(*VirtualMachine)

// WithOutput sets the writer print writes to. The default is os.Stdout.
func WithOutput(w io.Writer) Option {
	return func(vm *VirtualMachine) {
		vm.output = w
	}
}

// WithSeed seeds the generator used for distributions created without an
// explicit seed.
func WithSeed(seed int64) Option {
	return func(vm *VirtualMachine) {
		vm.seed = seed
		vm.seeded = true
	}
}

// WithLogger sets the logger used for diagnostics and hot-path statistics.
// The default discards all output.
func WithLogger(logger zerolog.Logger) Option {
	return func(vm *VirtualMachine) {
		vm.logger = logger
	}
}

// WithStrictVariables makes reading an undefined variable a name fault
// instead of yielding 0.
func WithStrictVariables() Option {
	return func(vm *VirtualMachine) {
		vm.strict = true
	}
}

// WithHotPathThreshold sets how many instructions execute between attempts
// to compile the code at the current instruction into a cached closure.
func WithHotPathThreshold(n int) Option {
	return func(vm *VirtualMachine) {
		if n > 0 {
			vm.hotThreshold = n
		}
	}
}

// WithHotPathWindow sets the maximum number of instructions compiled into
// one cached closure.
func WithHotPathWindow(n int) Option {
	return func(vm *VirtualMachine) {
		if n > 0 {
			vm.hotWindow = n
		}
	}
}

// WithoutHotPath disables the hot-path cache. Every instruction then goes
// through normal dispatch.
func WithoutHotPath() Option {
	return func(vm *VirtualMachine) {
		vm.hotDisabled = true
	}
}

// WithRegisterFileSize sets the number of registers shared by all frames.
// Deep recursion in functions with large register windows may need more
// than DefaultRegisterFileSize.
func WithRegisterFileSize(n int) Option {
	return func(vm *VirtualMachine) {
		if n > 0 {
			vm.registerFileSize = n
		}
	}
}

// WithMaxCallDepth overrides MaxCallDepth.
func WithMaxCallDepth(depth int) Option {
	return func(vm *VirtualMachine) {
		vm.maxDepth = depth
	}
}

// WithContextCheckInterval sets how often, in instructions, the VM checks
// ctx.Done() during execution. A value of 0 disables deterministic checks,
// relying only on the goroutine that watches the context. The default is
// DefaultContextCheckInterval.
func WithContextCheckInterval(interval int) Option {
	return func(vm *VirtualMachine) {
		vm.contextCheckInterval = interval
	}
}

// WithObserver sets an observer for VM execution events. Instructions that
// run inside cached hot-path closures are not reported as steps, so an
// observer that steps disables the hot-path cache.
func WithObserver(observer Observer) Option {
	return func(vm *VirtualMachine) {
		vm.observer = observer
	}
}
