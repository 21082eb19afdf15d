package vm

import (
	"github.com/deepnoodle-ai/emergent/bytecode"
	"github.com/deepnoodle-ai/emergent/op"
)

// StepMode controls when OnStep callbacks are triggered.
type StepMode uint8

const (
	// StepAll calls OnStep for every instruction.
	StepAll StepMode = iota

	// StepNone never calls OnStep. Use for observers that only need call
	// and return events.
	StepNone

	// StepSampled calls OnStep every SampleInterval instructions.
	StepSampled

	// StepOnLine calls OnStep when the source line changes.
	StepOnLine
)

// ObserverConfig specifies what events an observer wants to receive.
// Use NewObserverConfig() to create configs with safe defaults.
type ObserverConfig struct {
	// StepMode controls OnStep callback frequency.
	StepMode StepMode

	// SampleInterval is the number of instructions between OnStep calls
	// when StepMode is StepSampled. Values <= 0 are treated as 1.
	SampleInterval int

	// ObserveCalls enables OnCall callbacks.
	ObserveCalls bool

	// ObserveReturns enables OnReturn callbacks.
	ObserveReturns bool
}

// NewObserverConfig creates a config that observes calls and returns and
// steps according to mode.
func NewObserverConfig(mode StepMode) ObserverConfig {
	return ObserverConfig{
		StepMode:       mode,
		SampleInterval: 1000,
		ObserveCalls:   true,
		ObserveReturns: true,
	}
}

// NormalizeConfig clamps config values.
func NormalizeConfig(cfg ObserverConfig) ObserverConfig {
	if cfg.StepMode == StepSampled && cfg.SampleInterval <= 0 {
		cfg.SampleInterval = 1
	}
	return cfg
}

// Observer receives VM execution events, for tracing, profiling or
// coverage tools. Methods are called synchronously during execution.
// Returning false from any method halts execution with ErrHalted.
//
// Implementations can embed NoOpObserver for methods they don't need.
type Observer interface {
	// Config is called once when a run starts.
	Config() ObserverConfig

	OnStep(event StepEvent) bool
	OnCall(event CallEvent) bool
	OnReturn(event ReturnEvent) bool
}

// StepEvent describes the instruction about to execute.
type StepEvent struct {
	IP         int
	Opcode     op.Code
	OpcodeName string
	Location   bytecode.SourceLocation
	Function   string // "main" outside of calls
	FrameDepth int
}

// CallEvent describes a call to a user-defined function.
type CallEvent struct {
	FunctionName string
	ArgCount     int
	Location     bytecode.SourceLocation // the call site
	FrameDepth   int                     // depth after the call
}

// ReturnEvent describes a return from a user-defined function.
type ReturnEvent struct {
	FunctionName string
	Location     bytecode.SourceLocation
	FrameDepth   int // depth after returning
}

// NoOpObserver is an Observer that does nothing. It steps on every
// instruction and observes calls and returns.
type NoOpObserver struct{}

func (NoOpObserver) Config() ObserverConfig {
	return NewObserverConfig(StepAll)
}

func (NoOpObserver) OnStep(StepEvent) bool     { return true }
func (NoOpObserver) OnCall(CallEvent) bool     { return true }
func (NoOpObserver) OnReturn(ReturnEvent) bool { return true }

var _ Observer = NoOpObserver{}

// stepper decides which instructions are reported to an observer.
type stepper struct {
	cfg      ObserverConfig
	count    int
	lastLine int
}

func (s *stepper) want(loc bytecode.SourceLocation) bool {
	switch s.cfg.StepMode {
	case StepAll:
		return true
	case StepSampled:
		s.count++
		if s.count >= s.cfg.SampleInterval {
			s.count = 0
			return true
		}
	case StepOnLine:
		if loc.Line != s.lastLine {
			s.lastLine = loc.Line
			return true
		}
	}
	return false
}
