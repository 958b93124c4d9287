package parser

import (
	"fmt"
	"strconv"

	"minijavac/internal/ast"
	"minijavac/internal/token"
)

// parseExpression is the heart of the Pratt parser
func (p *Parser) parseExpression(precedence int) ast.Expression {
	prefix := p.prefixParseFns[p.curToken.Type]
	if prefix == nil {
		p.noPrefixParseFnError(p.curToken.Type)
		return nil
	}
	leftExp := prefix()
	if leftExp == nil {
		return nil
	}

	// While next token is an infix operator with higher precedence than ours,
	// consume it and build the expression tree
	for !p.peekTokenIs(token.SEMICOLON) && precedence < p.peekPrecedence() {
		infix := p.infixParseFns[p.peekToken.Type]
		if infix == nil {
			return leftExp
		}

		p.nextToken()            // Advance to the operator
		leftExp = infix(leftExp) // Parse with left side already known
		if leftExp == nil {
			return nil
		}
	}

	return leftExp
}

func (p *Parser) noPrefixParseFnError(t token.TokenType) {
	p.addErrorCurrent("no prefix parse function for %s found", t)
}

// parseIdentifier parses a variable name
func (p *Parser) parseIdentifier() ast.Expression {
	return &ast.Identifier{Token: p.curToken, Value: p.curToken.Literal}
}

// parseIntegerLiteral parses a number; MiniJava ints are 32-bit
func (p *Parser) parseIntegerLiteral() ast.Expression {
	lit := &ast.IntegerLiteral{Token: p.curToken}

	value, err := strconv.ParseInt(p.curToken.Literal, 10, 32)
	if err != nil {
		p.addErrorCurrent("%s", fmt.Sprintf("could not parse %q as 32-bit integer", p.curToken.Literal))
		return nil
	}

	lit.Value = int32(value)
	return lit
}

func (p *Parser) parseBoolean() ast.Expression {
	return &ast.Boolean{Token: p.curToken, Value: p.curTokenIs(token.TRUE)}
}

func (p *Parser) parseThis() ast.Expression {
	return &ast.ThisExpression{Token: p.curToken}
}

// parsePrefixExpression parses !<exp>
func (p *Parser) parsePrefixExpression() ast.Expression {
	expression := &ast.PrefixExpression{
		Token:    p.curToken,
		Operator: p.curToken.Literal,
	}
	p.nextToken()
	expression.Right = p.parseExpression(PREFIX)
	if expression.Right == nil {
		return nil
	}
	return expression
}

func (p *Parser) parseGroupedExpression() ast.Expression {
	p.nextToken()
	exp := p.parseExpression(LOWEST)
	if exp == nil || !p.expectPeek(token.RPAREN) {
		return nil
	}
	return exp
}

// parseNewExpression parses new int[<exp>] and new <Class>()
func (p *Parser) parseNewExpression() ast.Expression {
	newTok := p.curToken
	switch {
	case p.peekTokenIs(token.INT_TYPE):
		p.nextToken()
		if !p.expectPeek(token.LBRACKET) {
			return nil
		}
		p.nextToken()
		size := p.parseExpression(LOWEST)
		if size == nil || !p.expectPeek(token.RBRACKET) {
			return nil
		}
		return &ast.NewArrayExpression{Token: newTok, Size: size}
	case p.peekTokenIs(token.IDENT):
		p.nextToken()
		class := &ast.Identifier{Token: p.curToken, Value: p.curToken.Literal}
		if !p.expectPeek(token.LPAREN) || !p.expectPeek(token.RPAREN) {
			return nil
		}
		return &ast.NewObjectExpression{Token: newTok, Class: class}
	default:
		p.addErrorAt(p.peekToken, fmt.Sprintf("expected int[...] or class name after new, got %s", p.peekToken.Type))
		return nil
	}
}

// parseInfixExpression parses <left> op <right>; all operators are left-associative
func (p *Parser) parseInfixExpression(left ast.Expression) ast.Expression {
	expression := &ast.InfixExpression{
		Token:    p.curToken,
		Operator: p.curToken.Literal,
		Left:     left,
	}

	precedence := p.curPrecedence()
	p.nextToken()
	expression.Right = p.parseExpression(precedence)
	if expression.Right == nil {
		return nil
	}
	return expression
}

func (p *Parser) parseIndexExpression(left ast.Expression) ast.Expression {
	exp := &ast.IndexExpression{Token: p.curToken, Left: left}
	p.nextToken()
	exp.Index = p.parseExpression(LOWEST)
	if exp.Index == nil || !p.expectPeek(token.RBRACKET) {
		return nil
	}
	return exp
}

// parseMemberExpression parses <left>.length and <left>.<method>(<args>)
func (p *Parser) parseMemberExpression(left ast.Expression) ast.Expression {
	if p.peekTokenIs(token.LENGTH) {
		p.nextToken()
		return &ast.LengthExpression{Token: p.curToken, Array: left}
	}
	if !p.expectPeek(token.IDENT) {
		return nil
	}
	call := &ast.CallExpression{
		Token:    p.curToken,
		Receiver: left,
		Method:   &ast.Identifier{Token: p.curToken, Value: p.curToken.Literal},
	}
	if !p.expectPeek(token.LPAREN) {
		return nil
	}
	args, ok := p.parseExpressionList(token.RPAREN)
	if !ok {
		return nil
	}
	call.Arguments = args
	return call
}

// parseExpressionList parses comma-separated expressions after an opening
// delimiter and stops on end.
func (p *Parser) parseExpressionList(end token.TokenType) ([]ast.Expression, bool) {
	list := []ast.Expression{}
	if p.peekTokenIs(end) {
		p.nextToken()
		return list, true
	}

	p.nextToken()
	exp := p.parseExpression(LOWEST)
	if exp == nil {
		return nil, false
	}
	list = append(list, exp)

	for p.peekTokenIs(token.COMMA) {
		p.nextToken()
		p.nextToken()
		exp := p.parseExpression(LOWEST)
		if exp == nil {
			return nil, false
		}
		list = append(list, exp)
	}

	if !p.expectPeek(end) {
		return nil, false
	}
	return list, true
}
