// Package lexer converts source text into a stream of tokens.
package lexer

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/deepnoodle-ai/emergent/internal/token"
)

// ErrorKind distinguishes the lexical failures.
type ErrorKind string

const (
	UnterminatedString  ErrorKind = "unterminated string"
	UnexpectedCharacter ErrorKind = "unexpected character"
)

// Error describes a lexical failure at a specific location.
type Error struct {
	Kind     ErrorKind
	Char     rune
	Position token.Position
}

func (e *Error) Error() string {
	if e.Kind == UnexpectedCharacter {
		return fmt.Sprintf("unexpected character: %q", e.Char)
	}
	return "unterminated string literal"
}

// Line returns the 1-indexed line of the failure.
func (e *Error) Line() int { return e.Position.LineNumber() }

// Column returns the 1-indexed column of the failure.
func (e *Error) Column() int { return e.Position.ColumnNumber() }

// IllegalTokenError returns the lexical error represented by an ILLEGAL token.
func IllegalTokenError(tok token.Token) *Error {
	var ch rune
	for _, r := range tok.Literal {
		ch = r
		break
	}
	return &Error{Kind: UnexpectedCharacter, Char: ch, Position: tok.StartPosition}
}

// Option configures a Lexer.
type Option func(*Lexer)

// WithFile sets the filename recorded in token positions.
func WithFile(file string) Option {
	return func(l *Lexer) {
		l.file = file
	}
}

// Lexer holds our object-state.
type Lexer struct {
	input     []rune
	pos       int // index of the current character
	line      int
	lineStart int
	char      int // byte offset of the current character
	file      string
}

// New creates a Lexer for the given input.
func New(input string, opts ...Option) *Lexer {
	l := &Lexer{input: []rune(input)}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Filename returns the filename recorded in token positions.
func (l *Lexer) Filename() string {
	return l.file
}

// Position returns the position of the next unread character.
func (l *Lexer) Position() token.Position {
	return token.Position{
		Char:      l.char,
		LineStart: l.lineStart,
		Line:      l.line,
		Column:    l.char - l.lineStart,
		File:      l.file,
	}
}

// Tokenize lexes the entire input. The resulting slice always ends with
// exactly one EOF token. The only failure is an unterminated string.
func Tokenize(input string, opts ...Option) ([]token.Token, error) {
	l := New(input, opts...)
	var tokens []token.Token
	for {
		tok, err := l.Next()
		if err != nil {
			return nil, err
		}
		tokens = append(tokens, tok)
		if tok.Type == token.EOF {
			return tokens, nil
		}
	}
}

// Next returns the next token. Once the input is exhausted, every call
// returns an EOF token.
func (l *Lexer) Next() (token.Token, error) {
	l.skipWhitespace()
	start := l.Position()
	ch, ok := l.peek(0)
	if !ok {
		return token.Token{Type: token.EOF, StartPosition: start, EndPosition: start}, nil
	}
	switch {
	case ch == '\n':
		l.advance()
		tok := l.token(token.NEWLINE, "\n", start)
		l.line++
		l.lineStart = l.char
		return tok, nil
	case ch == '"' || ch == '\'':
		return l.readString(ch, start)
	case isDigit(ch):
		return l.readNumber(start), nil
	case isLetter(ch):
		return l.readIdentifier(start), nil
	}
	if next, ok := l.peek(1); ok {
		if typ, found := twoCharOperators[string([]rune{ch, next})]; found {
			l.advance()
			l.advance()
			return l.token(typ, string([]rune{ch, next}), start), nil
		}
	}
	l.advance()
	if typ, found := oneCharOperators[ch]; found {
		return l.token(typ, string(ch), start), nil
	}
	return l.token(token.ILLEGAL, string(ch), start), nil
}

var twoCharOperators = map[string]token.Type{
	"==": token.EQ,
	"!=": token.NOT_EQ,
	"<=": token.LT_EQUALS,
	">=": token.GT_EQUALS,
	"->": token.ARROW,
}

var oneCharOperators = map[rune]token.Type{
	'+': token.PLUS,
	'-': token.MINUS,
	'*': token.ASTERISK,
	'/': token.SLASH,
	'%': token.MOD,
	'=': token.ASSIGN,
	'<': token.LT,
	'>': token.GT,
	'(': token.LPAREN,
	')': token.RPAREN,
	'{': token.LBRACE,
	'}': token.RBRACE,
	'[': token.LBRACKET,
	']': token.RBRACKET,
	',': token.COMMA,
	':': token.COLON,
	';': token.SEMICOLON,
}

// GetLineText returns the full source line containing the given token.
func (l *Lexer) GetLineText(tok token.Token) string {
	lines := strings.Split(string(l.input), "\n")
	line := tok.StartPosition.Line
	if line < 0 || line >= len(lines) {
		return ""
	}
	return strings.TrimSuffix(lines[line], "\r")
}

func (l *Lexer) token(typ token.Type, literal string, start token.Position) token.Token {
	end := l.Position()
	end.Char--
	end.Column--
	if end.Column < start.Column {
		end = start
	}
	return token.Token{Type: typ, Literal: literal, StartPosition: start, EndPosition: end}
}

func (l *Lexer) peek(offset int) (rune, bool) {
	if l.pos+offset >= len(l.input) {
		return 0, false
	}
	return l.input[l.pos+offset], true
}

func (l *Lexer) advance() rune {
	ch := l.input[l.pos]
	l.pos++
	l.char += len(string(ch))
	return ch
}

func (l *Lexer) skipWhitespace() {
	for {
		ch, ok := l.peek(0)
		if !ok {
			return
		}
		switch {
		case ch == ' ' || ch == '\t' || ch == '\r':
			l.advance()
		case ch == '/':
			if next, ok := l.peek(1); ok && next == '/' {
				for {
					c, ok := l.peek(0)
					if !ok || c == '\n' {
						break
					}
					l.advance()
				}
				continue
			}
			return
		default:
			return
		}
	}
}

func (l *Lexer) readString(quote rune, start token.Position) (token.Token, error) {
	l.advance()
	var sb strings.Builder
	for {
		ch, ok := l.peek(0)
		if !ok {
			return token.Token{}, &Error{Kind: UnterminatedString, Char: quote, Position: start}
		}
		if ch == '\n' {
			// Newlines inside a literal still advance line tracking.
			l.advance()
			sb.WriteRune(ch)
			l.line++
			l.lineStart = l.char
			continue
		}
		l.advance()
		if ch == quote {
			break
		}
		sb.WriteRune(ch)
	}
	body := sb.String()
	tok := l.token(token.STRING, body, start)
	tok.Value = body
	return tok, nil
}

func (l *Lexer) readNumber(start token.Position) token.Token {
	begin := l.pos
	for ch, ok := l.peek(0); ok && isDigit(ch); ch, ok = l.peek(0) {
		l.advance()
	}
	if ch, ok := l.peek(0); ok && ch == '.' {
		if next, ok := l.peek(1); ok && isDigit(next) {
			l.advance()
			for ch, ok := l.peek(0); ok && isDigit(ch); ch, ok = l.peek(0) {
				l.advance()
			}
		}
	}
	literal := string(l.input[begin:l.pos])
	// Out of range literals saturate to +Inf.
	value, _ := strconv.ParseFloat(literal, 64)
	tok := l.token(token.NUMBER, literal, start)
	tok.Value = value
	return tok
}

func (l *Lexer) readIdentifier(start token.Position) token.Token {
	begin := l.pos
	for ch, ok := l.peek(0); ok && (isLetter(ch) || isDigit(ch)); ch, ok = l.peek(0) {
		l.advance()
	}
	literal := string(l.input[begin:l.pos])
	return l.token(token.LookupIdentifier(literal), literal, start)
}

func isDigit(ch rune) bool {
	return '0' <= ch && ch <= '9'
}

func isLetter(ch rune) bool {
	return ('a' <= ch && ch <= 'z') || ('A' <= ch && ch <= 'Z') || ch == '_'
}
