// Package parser is used to generate the abstract syntax tree (AST) for a program.
//
// The parser consumes the token stream produced by the lexer and builds the
// tree using recursive descent for statements and precedence climbing for
// expressions.
package parser

import (
	"context"
	stderrors "errors"
	"strings"

	"github.com/deepnoodle-ai/emergent/ast"
	"github.com/deepnoodle-ai/emergent/internal/lexer"
	"github.com/deepnoodle-ai/emergent/internal/token"
)

type (
	prefixParseFn func() ast.Expr
	infixParseFn  func(ast.Expr) ast.Expr
)

// statementTerminators defines tokens that can end a statement.
//
// Newlines separate statements, except that a trailing binary operator
// continues the expression on the next line, and newlines are ignored
// directly inside parentheses and brackets.
var statementTerminators = map[token.Type]bool{
	token.SEMICOLON: true,
	token.NEWLINE:   true,
	token.RBRACE:    true,
	token.EOF:       true,
}

// Parse the provided input as source code and return the AST. This is
// shorthand for tokenizing the input and then calling Parse on a Parser.
func Parse(ctx context.Context, input string, options ...Option) (*ast.Program, error) {
	var cfg Parser
	for _, opt := range options {
		opt(&cfg)
	}
	tokens, err := lexer.Tokenize(input, lexer.WithFile(cfg.filename))
	if err != nil {
		var lexErr *lexer.Error
		perr := &ParseError{Kind: kindSyntax, Err: err, File: cfg.filename}
		if stderrors.As(err, &lexErr) {
			perr.Start = lexErr.Position
			perr.End = lexErr.Position
			perr.Text = lineText(input, lexErr.Position.Line)
		}
		return nil, Errors{perr}
	}
	p := New(tokens, options...)
	p.source = input
	return p.Parse(ctx)
}

// Option is a configuration function for a Parser.
type Option func(*Parser)

// WithFilename sets the file name reported in errors.
func WithFilename(filename string) Option {
	return func(p *Parser) {
		p.filename = filename
	}
}

// WithMaxDepth sets the maximum nesting depth for the parser.
// This prevents stack overflow on deeply nested input.
// The default is 500.
func WithMaxDepth(depth int) Option {
	return func(p *Parser) {
		p.maxDepth = depth
	}
}

// DefaultMaxDepth is the default maximum nesting depth for parsing.
const DefaultMaxDepth = 500

// MaxErrors is the maximum number of errors to collect before stopping.
const MaxErrors = 10

// Parser object
type Parser struct {
	// the Context supplied in the Parse() call
	ctx context.Context

	// tokens is the complete token stream, ending with EOF
	tokens []token.Token

	// pos is the index of curToken within tokens
	pos int

	// prevToken holds the previous token, which we already processed.
	prevToken token.Token

	// curToken holds the current token.
	curToken token.Token

	// peekToken holds the next token.
	peekToken token.Token

	// parsing errors collected during parsing
	errors Errors

	// stmtErrorCount tracks error count at start of current statement.
	stmtErrorCount int

	prefixParseFns map[token.Type]prefixParseFn
	infixParseFns  map[token.Type]infixParseFn

	// source text, used to attach the offending line to errors
	source string

	// The filename of the input
	filename string

	// Current recursion depth
	depth int

	// Maximum allowed recursion depth
	maxDepth int
}

// New returns a Parser for the given token stream, which must end with an
// EOF token as produced by lexer.Tokenize.
func New(tokens []token.Token, options ...Option) *Parser {
	if n := len(tokens); n == 0 || tokens[n-1].Type != token.EOF {
		tokens = append(tokens, token.Token{Type: token.EOF})
	}
	p := &Parser{
		tokens:         tokens,
		pos:            -1,
		prefixParseFns: map[token.Type]prefixParseFn{},
		infixParseFns:  map[token.Type]infixParseFn{},
		maxDepth:       DefaultMaxDepth,
	}
	for _, opt := range options {
		opt(p)
	}
	p.nextToken()

	p.registerPrefix(token.CONSENSUS, p.parseIdent)
	p.registerPrefix(token.FALSE, p.parseBoolean)
	p.registerPrefix(token.IDENT, p.parseIdent)
	p.registerPrefix(token.LBRACKET, p.parseList)
	p.registerPrefix(token.LPAREN, p.parseGroupedExpr)
	p.registerPrefix(token.MINUS, p.parsePrefixExpr)
	p.registerPrefix(token.NIL, p.parseNil)
	p.registerPrefix(token.NOT, p.parsePrefixExpr)
	p.registerPrefix(token.NUMBER, p.parseNumber)
	p.registerPrefix(token.PRINT, p.parseIdent)
	p.registerPrefix(token.SAMPLE, p.parseIdent)
	p.registerPrefix(token.STRING, p.parseString)
	p.registerPrefix(token.TRUE, p.parseBoolean)

	p.registerInfix(token.AND, p.parseInfixExpr)
	p.registerInfix(token.ASTERISK, p.parseInfixExpr)
	p.registerInfix(token.EQ, p.parseInfixExpr)
	p.registerInfix(token.GT_EQUALS, p.parseInfixExpr)
	p.registerInfix(token.GT, p.parseInfixExpr)
	p.registerInfix(token.LBRACKET, p.parseIndex)
	p.registerInfix(token.LPAREN, p.parseCall)
	p.registerInfix(token.LT_EQUALS, p.parseInfixExpr)
	p.registerInfix(token.LT, p.parseInfixExpr)
	p.registerInfix(token.MINUS, p.parseInfixExpr)
	p.registerInfix(token.MOD, p.parseInfixExpr)
	p.registerInfix(token.NOT_EQ, p.parseInfixExpr)
	p.registerInfix(token.OR, p.parseInfixExpr)
	p.registerInfix(token.PLUS, p.parseInfixExpr)
	p.registerInfix(token.SLASH, p.parseInfixExpr)
	return p
}

// nextToken moves to the next token, updating all of prevToken, curToken,
// and peekToken. Advancing past EOF keeps returning EOF.
func (p *Parser) nextToken() {
	p.prevToken = p.curToken
	if p.pos < len(p.tokens)-1 {
		p.pos++
	}
	p.curToken = p.tokens[p.pos]
	p.peekToken = p.tokenAt(p.pos + 1)
}

func (p *Parser) tokenAt(i int) token.Token {
	if i >= len(p.tokens) {
		return p.tokens[len(p.tokens)-1]
	}
	return p.tokens[i]
}

// Parse the program that is provided via the token stream.
// Returns the AST and any errors encountered. If there are errors, the AST
// may be partial (containing only successfully parsed statements).
func (p *Parser) Parse(ctx context.Context) (*ast.Program, error) {
	p.ctx = ctx
	// Lexical failures abort parsing before any statement is built.
	for _, tok := range p.tokens {
		if tok.Type == token.ILLEGAL {
			perr := p.errorAt(tok, "", "")
			perr.Kind = kindSyntax
			perr.Err = lexer.IllegalTokenError(tok)
			p.addError(perr)
			return nil, p.err()
		}
	}
	var statements []ast.Stmt
	for !p.curTokenIs(token.EOF) {
		if p.cancelled() {
			break
		}
		if p.tooManyErrors() {
			break
		}
		if p.curTokenIs(token.NEWLINE) || p.curTokenIs(token.SEMICOLON) {
			p.nextToken()
			continue
		}
		p.stmtErrorCount = len(p.errors)
		stmt := p.parseStatementStrict()
		if stmt != nil {
			statements = append(statements, stmt)
		} else if p.hadNewError() {
			p.synchronize()
		}
		p.nextToken()
	}
	if p.hasErrors() {
		return &ast.Program{Stmts: statements}, p.err()
	}
	return &ast.Program{Stmts: statements}, nil
}

// registerPrefix registers a function for handling a prefix-based expression.
func (p *Parser) registerPrefix(tokenType token.Type, fn prefixParseFn) {
	p.prefixParseFns[tokenType] = fn
}

// registerInfix registers a function for handling an infix-based expression.
func (p *Parser) registerInfix(tokenType token.Type, fn infixParseFn) {
	p.infixParseFns[tokenType] = fn
}

func (p *Parser) addError(err *ParseError) {
	p.errors = append(p.errors, err)
}

// err returns the recorded errors, or nil when there are none.
func (p *Parser) err() error {
	if len(p.errors) == 0 {
		return nil
	}
	return p.errors
}

func (p *Parser) hasErrors() bool {
	return len(p.errors) > 0
}

func (p *Parser) tooManyErrors() bool {
	return len(p.errors) >= MaxErrors
}

// hadNewError returns true if an error was added during the current statement.
func (p *Parser) hadNewError() bool {
	return len(p.errors) > p.stmtErrorCount
}

// synchronize skips tokens until a statement boundary is reached.
// This is used for error recovery to continue parsing after an error.
func (p *Parser) synchronize() {
	for !p.curTokenIs(token.EOF) {
		if p.curTokenIs(token.NEWLINE) || p.curTokenIs(token.SEMICOLON) {
			return
		}
		switch p.peekToken.Type {
		case token.LET, token.DEF, token.IF, token.FOR, token.WHILE,
			token.TRY, token.RETURN, token.IMPORT, token.MORPH:
			return
		}
		p.nextToken()
	}
}

// cancelled checks if the parsing context has been cancelled.
// Returns true if cancelled, in which case parsing should stop.
func (p *Parser) cancelled() bool {
	if p.ctx == nil {
		return false
	}
	select {
	case <-p.ctx.Done():
		p.addError(&ParseError{Kind: kindContext, Msg: p.ctx.Err().Error()})
		return true
	default:
		return false
	}
}

func (p *Parser) noPrefixParseFnError(t token.Token) {
	p.addError(p.errorAt(t, "expression", "invalid syntax (unexpected %s)", describeToken(t)))
}

// peekError records that the next token is not the expected type.
func (p *Parser) peekError(context string, expected token.Type, got token.Token) {
	want := describeType(expected)
	p.addError(p.errorAt(got, want, "unexpected %s while parsing %s (expected %s)",
		describeToken(got), context, want))
}

func (p *Parser) setTokenError(t token.Token, msg string, args ...interface{}) {
	p.addError(p.errorAt(t, "", msg, args...))
}

func (p *Parser) parseStatementStrict() ast.Stmt {
	stmt := p.parseStatement()
	if stmt == nil || p.hadNewError() {
		return nil
	}
	// A statement must be followed by a terminator.
	if !statementTerminators[p.peekToken.Type] {
		p.addError(p.errorAt(p.peekToken, "end of statement",
			"unexpected %s following statement", describeToken(p.peekToken)))
		return nil
	}
	return stmt
}

func (p *Parser) parseStatement() ast.Stmt {
	switch p.curToken.Type {
	case token.LET:
		return p.parseLet()
	case token.DEF:
		return p.parseDef()
	case token.IF:
		return p.parseIf()
	case token.FOR:
		return p.parseFor()
	case token.WHILE:
		return p.parseWhile()
	case token.TRY:
		return p.parseTry()
	case token.RETURN:
		return p.parseReturn()
	case token.IMPORT:
		return p.parseImport()
	case token.MORPH:
		return p.parseMorph()
	case token.IDENT:
		if p.curToken.Literal == "goal" && p.peekTokenIs(token.COLON) {
			return p.parseGoal()
		}
	}
	return p.parseExpressionStatement()
}

func (p *Parser) parseExpression(precedence int) ast.Expr {
	if p.curTokenIs(token.EOF) || p.hadNewError() {
		if p.curTokenIs(token.EOF) && !p.hadNewError() {
			p.noPrefixParseFnError(p.curToken)
		}
		return nil
	}
	p.depth++
	defer func() { p.depth-- }()
	if p.depth > p.maxDepth {
		p.setTokenError(p.curToken, "maximum nesting depth exceeded")
		return nil
	}
	prefix := p.prefixParseFns[p.curToken.Type]
	if prefix == nil {
		p.noPrefixParseFnError(p.curToken)
		return nil
	}
	left := prefix()
	if left == nil || p.hadNewError() {
		return nil
	}
	for precedence < p.peekPrecedence() {
		infix := p.infixParseFns[p.peekToken.Type]
		if infix == nil {
			return left
		}
		p.nextToken()
		left = infix(left)
		if left == nil || p.hadNewError() {
			return nil
		}
	}
	return left
}

// newIdent creates a new Ident node from a token.
func (p *Parser) newIdent(tok token.Token) *ast.Ident {
	return &ast.Ident{NamePos: tok.StartPosition, Name: tok.Literal}
}

// curTokenIs returns true if the current token has the given type.
func (p *Parser) curTokenIs(t token.Type) bool {
	return p.curToken.Type == t
}

// peekTokenIs returns true if the next token has the given type.
func (p *Parser) peekTokenIs(t token.Type) bool {
	return p.peekToken.Type == t
}

// expectPeek advances if the next token has the given type, and records
// an error otherwise.
func (p *Parser) expectPeek(context string, t token.Type) bool {
	if p.peekTokenIs(t) {
		p.nextToken()
		return true
	}
	p.peekError(context, t, p.peekToken)
	return false
}

// eatNewlines advances past newline tokens at the current position.
func (p *Parser) eatNewlines() {
	for p.curTokenIs(token.NEWLINE) {
		p.nextToken()
	}
}

// skipPeekNewlines advances until the next token is not a newline.
func (p *Parser) skipPeekNewlines() {
	for p.peekTokenIs(token.NEWLINE) {
		p.nextToken()
	}
}

// peekPastNewlines returns the first non-newline token after the current one
// without consuming anything.
func (p *Parser) peekPastNewlines() token.Token {
	for i := p.pos + 1; i < len(p.tokens); i++ {
		if p.tokens[i].Type != token.NEWLINE {
			return p.tokens[i]
		}
	}
	return p.tokens[len(p.tokens)-1]
}

func (p *Parser) peekPrecedence() int {
	if prec, ok := precedences[p.peekToken.Type]; ok {
		return prec
	}
	return LOWEST
}

func (p *Parser) curPrecedence() int {
	if prec, ok := precedences[p.curToken.Type]; ok {
		return prec
	}
	return LOWEST
}

func (p *Parser) lineText(t token.Token) string {
	return lineText(p.source, t.StartPosition.Line)
}

func lineText(source string, line int) string {
	if source == "" {
		return ""
	}
	lines := strings.Split(source, "\n")
	if line < 0 || line >= len(lines) {
		return ""
	}
	return strings.TrimSuffix(lines[line], "\r")
}
