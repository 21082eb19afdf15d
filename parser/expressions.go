package parser

import (
	"github.com/deepnoodle-ai/emergent/ast"
	"github.com/deepnoodle-ai/emergent/internal/token"
)

// parseIdent parses identifiers. The print, sample and consensus keywords
// are bound names of builtins and parse as identifiers too.
func (p *Parser) parseIdent() ast.Expr {
	return p.newIdent(p.curToken)
}

func (p *Parser) parseNumber() ast.Expr {
	tok := p.curToken
	value, ok := tok.Value.(float64)
	if !ok {
		p.setTokenError(tok, "invalid number literal %q", tok.Literal)
		return nil
	}
	return &ast.Number{ValuePos: tok.StartPosition, Literal: tok.Literal, Value: value}
}

func (p *Parser) parseString() ast.Expr {
	return &ast.String{ValuePos: p.curToken.StartPosition, Value: p.curToken.Literal}
}

func (p *Parser) parseBoolean() ast.Expr {
	return &ast.Bool{ValuePos: p.curToken.StartPosition, Value: p.curTokenIs(token.TRUE)}
}

func (p *Parser) parseNil() ast.Expr {
	return &ast.Nil{NilPos: p.curToken.StartPosition}
}

func (p *Parser) parsePrefixExpr() ast.Expr {
	opTok := p.curToken
	p.nextToken()
	operand := p.parseExpression(PREFIX)
	if operand == nil {
		return nil
	}
	return &ast.Prefix{OpPos: opTok.StartPosition, Op: opTok.Literal, X: operand}
}

func (p *Parser) parseInfixExpr(left ast.Expr) ast.Expr {
	opTok := p.curToken
	precedence := p.curPrecedence()
	// A trailing operator continues the expression on the next line.
	p.skipPeekNewlines()
	p.nextToken()
	right := p.parseExpression(precedence)
	if right == nil {
		return nil
	}
	return &ast.Infix{X: left, OpPos: opTok.StartPosition, Op: opTok.Literal, Y: right}
}

func (p *Parser) parseGroupedExpr() ast.Expr {
	p.nextToken()
	p.eatNewlines()
	expr := p.parseExpression(LOWEST)
	if expr == nil {
		return nil
	}
	p.skipPeekNewlines()
	if !p.expectPeek("grouped expression", token.RPAREN) {
		return nil
	}
	return expr
}

func (p *Parser) parseList() ast.Expr {
	lbrack := p.curToken
	items := p.parseExprList("list", token.RBRACKET)
	if items == nil {
		return nil
	}
	return &ast.List{Lbrack: lbrack.StartPosition, Items: *items, Rbrack: p.curToken.StartPosition}
}

func (p *Parser) parseCall(fn ast.Expr) ast.Expr {
	lparen := p.curToken
	args := p.parseExprList("call arguments", token.RPAREN)
	if args == nil {
		return nil
	}
	return &ast.Call{Fun: fn, Lparen: lparen.StartPosition, Args: *args, Rparen: p.curToken.StartPosition}
}

func (p *Parser) parseIndex(left ast.Expr) ast.Expr {
	lbrack := p.curToken
	p.nextToken()
	p.eatNewlines()
	index := p.parseExpression(LOWEST)
	if index == nil {
		return nil
	}
	p.skipPeekNewlines()
	if !p.expectPeek("index expression", token.RBRACKET) {
		return nil
	}
	return &ast.Index{X: left, Lbrack: lbrack.StartPosition, Index: index, Rbrack: p.curToken.StartPosition}
}

// parseExprList parses a comma separated list of expressions with the
// current token at the opening delimiter. On success the current token is
// the closing delimiter. A nil result indicates an error.
func (p *Parser) parseExprList(context string, end token.Type) *[]ast.Expr {
	list := []ast.Expr{}
	p.skipPeekNewlines()
	if p.peekTokenIs(end) {
		p.nextToken()
		return &list
	}
	for {
		p.nextToken()
		p.eatNewlines()
		expr := p.parseExpression(LOWEST)
		if expr == nil {
			return nil
		}
		list = append(list, expr)
		p.skipPeekNewlines()
		if !p.peekTokenIs(token.COMMA) {
			break
		}
		p.nextToken()
		// Allow a trailing comma before the closing delimiter.
		p.skipPeekNewlines()
		if p.peekTokenIs(end) {
			break
		}
	}
	if !p.expectPeek(context, end) {
		return nil
	}
	return &list
}
