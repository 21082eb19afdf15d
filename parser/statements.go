package parser

import (
	"github.com/deepnoodle-ai/emergent/ast"
	"github.com/deepnoodle-ai/emergent/internal/token"
)

func (p *Parser) parseLet() ast.Stmt {
	letTok := p.curToken
	if !p.expectPeek("let statement", token.IDENT) {
		return nil
	}
	name := p.newIdent(p.curToken)
	var hint string
	if p.peekTokenIs(token.COLON) {
		p.nextToken()
		hint = p.parseTypeName("let statement")
		if hint == "" {
			return nil
		}
	}
	if !p.expectPeek("let statement", token.ASSIGN) {
		return nil
	}
	p.nextToken()
	value := p.parseExpression(LOWEST)
	if value == nil {
		return nil
	}
	return &ast.Let{LetPos: letTok.StartPosition, Name: name, Hint: hint, Value: value}
}

// parseTypeName consumes a type name following ":" or "->". Type names are
// plain identifiers, with "nil" accepted for the unit type.
func (p *Parser) parseTypeName(context string) string {
	if p.peekTokenIs(token.NIL) {
		p.nextToken()
		return "nil"
	}
	if !p.expectPeek(context, token.IDENT) {
		return ""
	}
	return p.curToken.Literal
}

func (p *Parser) parseDef() ast.Stmt {
	defTok := p.curToken
	if !p.expectPeek("function definition", token.IDENT) {
		return nil
	}
	name := p.newIdent(p.curToken)
	if !p.expectPeek("function definition", token.LPAREN) {
		return nil
	}
	params, ok := p.parseParams()
	if !ok {
		return nil
	}
	var returnHint string
	if p.peekTokenIs(token.ARROW) {
		p.nextToken()
		returnHint = p.parseTypeName("function definition")
		if returnHint == "" {
			return nil
		}
	}
	if !p.expectPeek("function definition", token.LBRACE) {
		return nil
	}
	body := p.parseBlock()
	if body == nil {
		return nil
	}
	return &ast.Def{
		DefPos:     defTok.StartPosition,
		Name:       name,
		Params:     params,
		ReturnHint: returnHint,
		Body:       body,
	}
}

// parseParams parses "a, b)" with the current token at "(". On success the
// current token is ")".
func (p *Parser) parseParams() ([]*ast.Ident, bool) {
	var params []*ast.Ident
	p.skipPeekNewlines()
	if p.peekTokenIs(token.RPAREN) {
		p.nextToken()
		return params, true
	}
	seen := map[string]bool{}
	for {
		p.skipPeekNewlines()
		if !p.expectPeek("function parameters", token.IDENT) {
			return nil, false
		}
		if seen[p.curToken.Literal] {
			p.setTokenError(p.curToken, "duplicate parameter %q", p.curToken.Literal)
			return nil, false
		}
		seen[p.curToken.Literal] = true
		params = append(params, p.newIdent(p.curToken))
		p.skipPeekNewlines()
		if !p.peekTokenIs(token.COMMA) {
			break
		}
		p.nextToken()
	}
	if !p.expectPeek("function parameters", token.RPAREN) {
		return nil, false
	}
	return params, true
}

// parseBlock parses "{ statements }" with the current token at "{". On
// success the current token is "}".
func (p *Parser) parseBlock() *ast.Block {
	block := &ast.Block{Lbrace: p.curToken.StartPosition}
	p.nextToken()
	for !p.curTokenIs(token.RBRACE) {
		if p.curTokenIs(token.EOF) {
			p.addError(p.errorAt(p.curToken, describeType(token.RBRACE),
				"unterminated block (expected %s)", describeType(token.RBRACE)))
			return nil
		}
		if p.curTokenIs(token.NEWLINE) || p.curTokenIs(token.SEMICOLON) {
			p.nextToken()
			continue
		}
		stmt := p.parseStatementStrict()
		if stmt == nil {
			return nil
		}
		block.Stmts = append(block.Stmts, stmt)
		p.nextToken()
	}
	block.Rbrace = p.curToken.StartPosition
	return block
}

func (p *Parser) parseIf() ast.Stmt {
	ifTok := p.curToken
	p.nextToken()
	cond := p.parseExpression(LOWEST)
	if cond == nil {
		return nil
	}
	if !p.expectPeek("if statement", token.LBRACE) {
		return nil
	}
	consequence := p.parseBlock()
	if consequence == nil {
		return nil
	}
	stmt := &ast.If{IfPos: ifTok.StartPosition, Cond: cond, Consequence: consequence}
	if p.peekPastNewlines().Type != token.ELSE {
		return stmt
	}
	p.skipPeekNewlines()
	p.nextToken() // else
	if p.peekTokenIs(token.IF) {
		p.nextToken()
		nested := p.parseIf()
		if nested == nil {
			return nil
		}
		// else-if chains are represented as an else block holding one if.
		stmt.Alternative = &ast.Block{
			Lbrace: nested.Pos(),
			Stmts:  []ast.Stmt{nested},
			Rbrace: p.curToken.StartPosition,
		}
		return stmt
	}
	if !p.expectPeek("else block", token.LBRACE) {
		return nil
	}
	alternative := p.parseBlock()
	if alternative == nil {
		return nil
	}
	stmt.Alternative = alternative
	return stmt
}

func (p *Parser) parseFor() ast.Stmt {
	forTok := p.curToken
	if !p.expectPeek("for loop", token.IDENT) {
		return nil
	}
	variable := p.newIdent(p.curToken)
	if !p.expectPeek("for loop", token.IN) {
		return nil
	}
	p.nextToken()
	iterable := p.parseExpression(LOWEST)
	if iterable == nil {
		return nil
	}
	if !p.expectPeek("for loop", token.LBRACE) {
		return nil
	}
	body := p.parseBlock()
	if body == nil {
		return nil
	}
	return &ast.For{ForPos: forTok.StartPosition, Var: variable, Iterable: iterable, Body: body}
}

func (p *Parser) parseWhile() ast.Stmt {
	whileTok := p.curToken
	p.nextToken()
	cond := p.parseExpression(LOWEST)
	if cond == nil {
		return nil
	}
	if !p.expectPeek("while loop", token.LBRACE) {
		return nil
	}
	body := p.parseBlock()
	if body == nil {
		return nil
	}
	return &ast.While{WhilePos: whileTok.StartPosition, Cond: cond, Body: body}
}

func (p *Parser) parseTry() ast.Stmt {
	tryTok := p.curToken
	if !p.expectPeek("try statement", token.LBRACE) {
		return nil
	}
	body := p.parseBlock()
	if body == nil {
		return nil
	}
	if p.peekPastNewlines().Type == token.CATCH {
		p.skipPeekNewlines()
	}
	if !p.expectPeek("try statement", token.CATCH) {
		return nil
	}
	var catchVar *ast.Ident
	switch {
	case p.peekTokenIs(token.LPAREN):
		p.nextToken()
		if !p.expectPeek("catch clause", token.IDENT) {
			return nil
		}
		catchVar = p.newIdent(p.curToken)
		if !p.expectPeek("catch clause", token.RPAREN) {
			return nil
		}
	case p.peekTokenIs(token.IDENT):
		p.nextToken()
		catchVar = p.newIdent(p.curToken)
	}
	if !p.expectPeek("catch clause", token.LBRACE) {
		return nil
	}
	catchBlock := p.parseBlock()
	if catchBlock == nil {
		return nil
	}
	return &ast.Try{TryPos: tryTok.StartPosition, Body: body, CatchVar: catchVar, CatchBlock: catchBlock}
}

func (p *Parser) parseReturn() ast.Stmt {
	stmt := &ast.Return{ReturnPos: p.curToken.StartPosition}
	if statementTerminators[p.peekToken.Type] {
		return stmt
	}
	p.nextToken()
	stmt.Value = p.parseExpression(LOWEST)
	if stmt.Value == nil {
		return nil
	}
	return stmt
}

func (p *Parser) parseImport() ast.Stmt {
	importTok := p.curToken
	if !p.expectPeek("import statement", token.STRING) {
		return nil
	}
	path := p.parseString().(*ast.String)
	return &ast.Import{ImportPos: importTok.StartPosition, Path: path}
}

func (p *Parser) parseMorph() ast.Stmt {
	morphTok := p.curToken
	if !p.expectPeek("morph statement", token.IDENT) {
		return nil
	}
	name := p.newIdent(p.curToken)
	if !p.expectPeek("morph statement", token.LBRACE) {
		return nil
	}
	stmt := &ast.Morph{MorphPos: morphTok.StartPosition, Name: name}
	p.nextToken()
	for !p.curTokenIs(token.RBRACE) {
		switch p.curToken.Type {
		case token.NEWLINE, token.SEMICOLON:
			p.nextToken()
			continue
		case token.IF:
		default:
			p.setTokenError(p.curToken, "unexpected %s in morph statement (expected \"if\" rule)",
				describeToken(p.curToken))
			return nil
		}
		ifTok := p.curToken
		p.nextToken()
		cond := p.parseExpression(LOWEST)
		if cond == nil {
			return nil
		}
		if !p.expectPeek("morph rule", token.LBRACE) {
			return nil
		}
		body := p.parseBlock()
		if body == nil {
			return nil
		}
		stmt.Rules = append(stmt.Rules, &ast.MorphRule{IfPos: ifTok.StartPosition, Cond: cond, Body: body})
		p.nextToken()
	}
	stmt.Rbrace = p.curToken.StartPosition
	return stmt
}

func (p *Parser) parseGoal() ast.Stmt {
	goalTok := p.curToken
	p.nextToken() // ":"
	p.nextToken()
	value := p.parseExpression(LOWEST)
	if value == nil {
		return nil
	}
	return &ast.Goal{GoalPos: goalTok.StartPosition, Value: value}
}

// parseExpressionStatement parses a bare expression, or an assignment when
// the expression is followed by "=".
func (p *Parser) parseExpressionStatement() ast.Stmt {
	expr := p.parseExpression(LOWEST)
	if expr == nil {
		return nil
	}
	if !p.peekTokenIs(token.ASSIGN) {
		return &ast.ExprStmt{X: expr}
	}
	switch expr.(type) {
	case *ast.Ident, *ast.Index:
	default:
		p.setTokenError(p.peekToken, "invalid assignment target %s", expr.String())
		return nil
	}
	p.nextToken()
	assignTok := p.curToken
	p.nextToken()
	value := p.parseExpression(LOWEST)
	if value == nil {
		return nil
	}
	return &ast.Assign{Target: expr, OpPos: assignTok.StartPosition, Value: value}
}
