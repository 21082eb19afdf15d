package errors

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
)

// Formatter renders errors with source context and optional color.
type Formatter struct {
	// UseColor enables ANSI color codes in output.
	UseColor bool
}

// NewFormatter creates a new error formatter.
func NewFormatter(useColor bool) *Formatter {
	return &Formatter{UseColor: useColor}
}

func newColor(attrs ...color.Attribute) *color.Color {
	c := color.New(attrs...)
	// The formatter decides for itself whether to colorize.
	c.EnableColor()
	return c
}

var (
	colorError     = newColor(color.FgRed)
	colorErrorBold = newColor(color.FgHiRed, color.Bold)
	colorLocation  = newColor(color.FgCyan)
	colorGutter    = newColor(color.FgHiBlack)
	colorCaret     = newColor(color.FgHiRed)
	colorHint      = newColor(color.FgHiYellow)
	colorNote      = newColor(color.FgHiBlue)
)

// FormattedError represents an error ready for display.
type FormattedError struct {
	Kind        string // "error", "parse error", "compile error", etc.
	Message     string
	Filename    string
	Line        int
	Column      int
	EndColumn   int // for multi-character underlines
	SourceLines []SourceLineEntry
	Hint        string
	Note        string
	Stack       []StackFrame
}

// SourceLineEntry represents a line of source code with its number.
type SourceLineEntry struct {
	Number int
	Text   string
	IsMain bool // true if this is the line with the error
}

func (f *Formatter) paint(c *color.Color, s string) string {
	if !f.UseColor {
		return s
	}
	return c.Sprint(s)
}

// Format formats a single error.
func (f *Formatter) Format(err *FormattedError) string {
	return f.FormatWithPrefix(err, "")
}

// FormatWithPrefix formats the error with an optional prefix like "1/5".
func (f *Formatter) FormatWithPrefix(err *FormattedError, prefix string) string {
	var b strings.Builder
	width := 2
	if err.Line >= 100 {
		width = len(fmt.Sprintf("%d", err.Line))
	}
	pad := strings.Repeat(" ", width)

	label := "error"
	if err.Kind != "" {
		label = err.Kind
	}
	b.WriteString(f.paint(colorErrorBold, label))
	if prefix != "" {
		b.WriteString(f.paint(colorGutter, "["+prefix+"]"))
	}
	b.WriteString(f.paint(colorError, ": "))
	b.WriteString(err.Message)
	b.WriteString("\n")

	if err.Line > 0 || err.Filename != "" {
		loc := fmt.Sprintf("%d:%d", err.Line, err.Column)
		if err.Filename != "" {
			loc = err.Filename + ":" + loc
		}
		b.WriteString(pad)
		b.WriteString(f.paint(colorLocation, "--> "+loc))
		b.WriteString("\n")
	}

	if len(err.SourceLines) > 0 {
		b.WriteString(f.paint(colorGutter, pad+" |"))
		b.WriteString("\n")
		for _, line := range err.SourceLines {
			b.WriteString(f.paint(colorGutter, fmt.Sprintf("%*d | ", width, line.Number)))
			b.WriteString(line.Text)
			b.WriteString("\n")
			if !line.IsMain || err.Column <= 0 {
				continue
			}
			n := 1
			if err.EndColumn > err.Column {
				n = err.EndColumn - err.Column + 1
			}
			b.WriteString(f.paint(colorGutter, pad+" | "))
			b.WriteString(strings.Repeat(" ", err.Column-1))
			b.WriteString(f.paint(colorCaret, strings.Repeat("^", n)))
			b.WriteString("\n")
		}
	}

	if err.Hint != "" {
		b.WriteString(f.paint(colorGutter, pad+" = "))
		b.WriteString(f.paint(colorHint, "hint: "))
		b.WriteString(err.Hint)
		b.WriteString("\n")
	}
	if err.Note != "" {
		b.WriteString(f.paint(colorGutter, pad+" = "))
		b.WriteString(f.paint(colorNote, "note: "))
		b.WriteString(err.Note)
		b.WriteString("\n")
	}
	if len(err.Stack) > 0 {
		b.WriteString(f.paint(colorGutter, pad+" = "))
		b.WriteString(f.paint(colorNote, "stack trace:"))
		b.WriteString("\n")
		for _, frame := range err.Stack {
			b.WriteString(pad + "     ")
			b.WriteString(frame.String())
			b.WriteString("\n")
		}
	}
	return b.String()
}

// FormatMultiple formats multiple errors with consistent styling.
func (f *Formatter) FormatMultiple(errs []*FormattedError) string {
	switch len(errs) {
	case 0:
		return ""
	case 1:
		return f.Format(errs[0])
	}
	var b strings.Builder
	for i, err := range errs {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(f.FormatWithPrefix(err, fmt.Sprintf("%d/%d", i+1, len(errs))))
	}
	b.WriteString("\n")
	b.WriteString(f.paint(colorErrorBold, fmt.Sprintf("found %d errors", len(errs))))
	b.WriteString("\n")
	return b.String()
}
