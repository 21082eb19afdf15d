// Package token defines language keywords and tokens used when lexing source code.
package token

// Type describes the type of a token as a string.
type Type string

// Position points to a particular location in an input string.
type Position struct {
	Char      int    // byte offset within the file
	LineStart int    // byte offset of the start of the current line
	Line      int    // 0-indexed line number
	Column    int    // 0-indexed column number
	File      string // filename
}

// LineNumber returns the 1-indexed line number for this position in the input.
func (p Position) LineNumber() int {
	return p.Line + 1
}

// ColumnNumber returns the 1-indexed column number for this position in the input.
func (p Position) ColumnNumber() int {
	return p.Column + 1
}

// Advance returns a new Position advanced by n bytes on the same line.
func (p Position) Advance(n int) Position {
	return Position{
		Char:      p.Char + n,
		LineStart: p.LineStart,
		Line:      p.Line,
		Column:    p.Column + n,
		File:      p.File,
	}
}

// IsValid returns true if this position has been set.
func (p Position) IsValid() bool {
	return p.File != "" || p.Line > 0 || p.Column > 0 || p.Char > 0
}

// NoPos is the zero value Position, representing an invalid/unset position.
var NoPos = Position{}

// Token represents one token lexed from the input source code.
type Token struct {
	Type    Type
	Literal string
	// Value holds the decoded literal: a float64 for NUMBER tokens and the
	// unquoted body for STRING tokens. It is nil for all other tokens.
	Value         any
	StartPosition Position
	EndPosition   Position
}

// Token types
const (
	AND       Type = "AND"
	ARROW     Type = "->"
	ASSIGN    Type = "="
	ASTERISK  Type = "*"
	CATCH     Type = "CATCH"
	COLON     Type = ":"
	COMMA     Type = ","
	CONSENSUS Type = "CONSENSUS"
	DEF       Type = "DEF"
	ELSE      Type = "ELSE"
	EOF       Type = "EOF"
	EQ        Type = "=="
	FALSE     Type = "FALSE"
	FOR       Type = "FOR"
	GT        Type = ">"
	GT_EQUALS Type = ">="
	IDENT     Type = "ID"
	IF        Type = "IF"
	ILLEGAL   Type = "ILLEGAL"
	IMPORT    Type = "IMPORT"
	IN        Type = "IN"
	LBRACE    Type = "{"
	LBRACKET  Type = "["
	LET       Type = "LET"
	LPAREN    Type = "("
	LT        Type = "<"
	LT_EQUALS Type = "<="
	MINUS     Type = "-"
	MOD       Type = "%"
	MORPH     Type = "MORPH"
	NEWLINE   Type = "NEWLINE"
	NIL       Type = "NIL"
	NOT       Type = "NOT"
	NOT_EQ    Type = "!="
	NUMBER    Type = "NUMBER"
	OR        Type = "OR"
	PLUS      Type = "+"
	PRINT     Type = "PRINT"
	RBRACE    Type = "}"
	RBRACKET  Type = "]"
	RETURN    Type = "RETURN"
	RPAREN    Type = ")"
	SAMPLE    Type = "SAMPLE"
	SEMICOLON Type = ";"
	SLASH     Type = "/"
	STRING    Type = "STRING"
	TRUE      Type = "TRUE"
	TRY       Type = "TRY"
	WHILE     Type = "WHILE"
)

// Reserved keywords
var keywords = map[string]Type{
	"and":       AND,
	"catch":     CATCH,
	"consensus": CONSENSUS,
	"def":       DEF,
	"else":      ELSE,
	"false":     FALSE,
	"for":       FOR,
	"if":        IF,
	"import":    IMPORT,
	"in":        IN,
	"let":       LET,
	"morph":     MORPH,
	"nil":       NIL,
	"not":       NOT,
	"or":        OR,
	"print":     PRINT,
	"return":    RETURN,
	"sample":    SAMPLE,
	"true":      TRUE,
	"try":       TRY,
	"while":     WHILE,
}

// LookupIdentifier reports the keyword type for the given identifier, or
// IDENT if it is not a reserved word.
func LookupIdentifier(identifier string) Type {
	if tok, ok := keywords[identifier]; ok {
		return tok
	}
	return IDENT
}

// IsKeyword returns true if the given word is reserved.
func IsKeyword(word string) bool {
	_, ok := keywords[word]
	return ok
}
