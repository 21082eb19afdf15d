// Package errz defines the structured runtime fault shared by both
// execution engines.
package errz

import (
	"fmt"
	"strings"

	"github.com/deepnoodle-ai/emergent/errors"
)

// ErrorKind classifies a fault. Its String form prefixes every message
// and is what a catch variable sees.
type ErrorKind int

const (
	ErrSyntax ErrorKind = iota
	ErrType             // operand or argument of the wrong type
	ErrName             // undefined function, or variable in strict mode
	ErrValue            // right type, unusable value
	ErrIndex            // list or string index out of range
	ErrRuntime          // call depth, registers, halted runs
	ErrImport           // unresolvable import
)

var kindNames = [...]string{
	ErrSyntax:  "syntax error",
	ErrType:    "type error",
	ErrName:    "name error",
	ErrValue:   "value error",
	ErrIndex:   "index error",
	ErrRuntime: "runtime error",
	ErrImport:  "import error",
}

func (k ErrorKind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return "error"
	}
	return kindNames[k]
}

// StructuredError is a runtime fault with an optional source location and
// call stack. Faults raised inside a try block are caught and converted to
// their Caught() message.
type StructuredError struct {
	Message  string
	Kind     ErrorKind
	Location errors.SourceLocation
	Stack    []errors.StackFrame
	Cause    error
}

func (e *StructuredError) Error() string {
	if e.Location.IsZero() {
		return e.Caught()
	}
	return fmt.Sprintf("%s (%d:%d)", e.Caught(), e.Location.Line, e.Location.Column)
}

// Caught returns the message bound to a catch variable. It omits the
// location so that both engines produce identical strings.
func (e *StructuredError) Caught() string {
	return fmt.Sprintf("%s: %s", e.Kind.String(), e.Message)
}

func (e *StructuredError) Unwrap() error {
	return e.Cause
}

// FriendlyErrorMessage renders the fault with a caret under the faulting
// column and the call stack, without color.
func (e *StructuredError) FriendlyErrorMessage() string {
	var b strings.Builder
	fmt.Fprintln(&b, e.Error())
	if src := e.Location.Source; src != "" {
		fmt.Fprintf(&b, " | %s\n", src)
		if col := e.Location.Column; col > 0 {
			fmt.Fprintf(&b, " | %s^\n", strings.Repeat(" ", col-1))
		}
	}
	if trace := errors.FormatStackTrace(e.Stack); trace != "" {
		b.WriteString("\n" + trace)
	}
	return b.String()
}

// ToFormatted converts the fault for display by errors.Formatter.
func (e *StructuredError) ToFormatted() *errors.FormattedError {
	fe := &errors.FormattedError{
		Kind:     e.Kind.String(),
		Message:  e.Message,
		Filename: e.Location.Filename,
		Line:     e.Location.Line,
		Column:   e.Location.Column,
		Stack:    e.Stack,
	}
	if e.Location.Source != "" {
		fe.SourceLines = []errors.SourceLineEntry{
			{Number: e.Location.Line, Text: e.Location.Source, IsMain: true},
		}
	}
	return fe
}

// New creates a fault of the given kind with a formatted message.
func New(kind ErrorKind, format string, args ...any) *StructuredError {
	return &StructuredError{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// TypeErrorf creates a type fault.
func TypeErrorf(format string, args ...any) *StructuredError {
	return New(ErrType, format, args...)
}

// WithLocation sets the location if one has not been set yet and
// returns the error.
func (e *StructuredError) WithLocation(loc errors.SourceLocation) *StructuredError {
	if e.Location.IsZero() {
		e.Location = loc
	}
	return e
}

// WithCause records the error that produced this fault.
func (e *StructuredError) WithCause(cause error) *StructuredError {
	e.Cause = cause
	return e
}

// WithStack sets the call stack if one has not been set yet.
func (e *StructuredError) WithStack(stack []errors.StackFrame) *StructuredError {
	if e.Stack == nil {
		e.Stack = stack
	}
	return e
}
