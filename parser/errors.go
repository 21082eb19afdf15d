package parser

import (
	"fmt"
	"strings"

	"github.com/deepnoodle-ai/emergent/errors"
	"github.com/deepnoodle-ai/emergent/internal/token"
)

const (
	kindParse   = "parse error"
	kindSyntax  = "syntax error"
	kindContext = "context error"
)

// ParseError is a structural mismatch between the token stream and the
// grammar. Syntax errors carry the lexical failure in Err.
type ParseError struct {
	Kind     string
	Msg      string
	Expected string // what the grammar wanted here, if known
	Found    string // description of the offending token
	Err      error
	File     string
	Start    token.Position
	End      token.Position
	Text     string // source line containing Start
}

func (e *ParseError) message() string {
	if e.Err != nil {
		return e.Err.Error()
	}
	return e.Msg
}

func (e *ParseError) Error() string {
	msg := e.message()
	if e.Kind != "" {
		msg = e.Kind + ": " + msg
	}
	if e.Start.IsValid() || e.Text != "" {
		msg += fmt.Sprintf(" (line %d, column %d)", e.Start.LineNumber(), e.Start.ColumnNumber())
	}
	return msg
}

func (e *ParseError) Unwrap() error { return e.Err }

// Line is the 1-based line of the error.
func (e *ParseError) Line() int { return e.Start.LineNumber() }

// Column is the 1-based column of the error.
func (e *ParseError) Column() int { return e.Start.ColumnNumber() }

func (e *ParseError) FriendlyErrorMessage() string {
	return errors.NewFormatter(false).Format(e.ToFormatted())
}

// ToFormatted converts the error for display with source context.
func (e *ParseError) ToFormatted() *errors.FormattedError {
	fe := &errors.FormattedError{
		Kind:     e.Kind,
		Message:  e.message(),
		Filename: e.File,
		Line:     e.Start.LineNumber(),
		Column:   e.Start.ColumnNumber(),
	}
	if e.End.Line == e.Start.Line {
		fe.EndColumn = e.End.ColumnNumber()
	}
	if e.Text != "" {
		fe.SourceLines = []errors.SourceLineEntry{{Number: fe.Line, Text: e.Text, IsMain: true}}
	}
	return fe
}

// Errors is every error recorded during one parse, in source order.
type Errors []*ParseError

func (e Errors) Error() string {
	switch len(e) {
	case 0:
		return ""
	case 1:
		return e[0].Error()
	}
	return fmt.Sprintf("%s (and %d more errors)", e[0].Error(), len(e)-1)
}

// First returns the earliest error, or nil.
func (e Errors) First() *ParseError {
	if len(e) == 0 {
		return nil
	}
	return e[0]
}

func (e Errors) FriendlyErrorMessage() string {
	formatted := make([]*errors.FormattedError, len(e))
	for i, err := range e {
		formatted[i] = err.ToFormatted()
	}
	return errors.NewFormatter(false).FormatMultiple(formatted)
}

func (e Errors) Unwrap() []error {
	errs := make([]error, len(e))
	for i, err := range e {
		errs[i] = err
	}
	return errs
}

// errorAt builds an error located at tok.
func (p *Parser) errorAt(tok token.Token, expected, format string, args ...any) *ParseError {
	return &ParseError{
		Kind:     kindParse,
		Msg:      fmt.Sprintf(format, args...),
		Expected: expected,
		Found:    describeToken(tok),
		File:     p.filename,
		Start:    tok.StartPosition,
		End:      tok.EndPosition,
		Text:     p.lineText(tok),
	}
}

func describeType(t token.Type) string {
	switch t {
	case token.EOF:
		return "end of file"
	case token.IDENT:
		return "identifier"
	case token.NEWLINE:
		return "newline"
	case token.NUMBER:
		return "number"
	case token.STRING:
		return "string"
	}
	// Keyword and operator types spell their lexeme in upper case.
	return fmt.Sprintf("%q", strings.ToLower(string(t)))
}

func describeToken(t token.Token) string {
	switch {
	case t.Type == token.EOF:
		return "end of file"
	case t.Type == token.NEWLINE:
		return "newline"
	case t.Literal == "":
		return string(t.Type)
	}
	return fmt.Sprintf("%q", t.Literal)
}
