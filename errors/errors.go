// Package errors holds source locations, call stacks and the display
// formatter shared by every stage of the engine.
package errors

import (
	"fmt"
	"strings"
)

// SourceLocation is a 1-based position in a program's source.
type SourceLocation struct {
	Filename string
	Line     int
	Column   int
	Source   string // text of Line, for display
}

func (s SourceLocation) String() string {
	pos := fmt.Sprintf("%d:%d", s.Line, s.Column)
	if s.Filename == "" {
		return pos
	}
	return s.Filename + ":" + pos
}

// IsZero reports whether no position was recorded.
func (s SourceLocation) IsZero() bool {
	return s.Line == 0 && s.Column == 0
}

// StackFrame is one active call at the time of a fault, innermost first.
type StackFrame struct {
	Function string
	Location SourceLocation
}

func (f StackFrame) String() string {
	switch {
	case f.Location.IsZero():
		return "at " + f.Function
	case f.Function == "":
		return "at " + f.Location.String()
	}
	return fmt.Sprintf("at %s (%s)", f.Function, f.Location)
}

// FormatStackTrace renders frames one per line under a "Stack trace:"
// heading. It returns "" for an empty stack.
func FormatStackTrace(frames []StackFrame) string {
	if len(frames) == 0 {
		return ""
	}
	lines := make([]string, 0, len(frames)+1)
	lines = append(lines, "Stack trace:")
	for _, frame := range frames {
		lines = append(lines, "  "+frame.String())
	}
	return strings.Join(lines, "\n") + "\n"
}

// FormattableError is implemented by errors that can be rendered with
// source context by a Formatter.
type FormattableError interface {
	error
	ToFormatted() *FormattedError
}

// LineText returns the 1-based line of source, or "" when out of range.
func LineText(source string, line int) string {
	if line < 1 || source == "" {
		return ""
	}
	lines := strings.Split(source, "\n")
	if line > len(lines) {
		return ""
	}
	return strings.TrimRight(lines[line-1], "\r")
}
