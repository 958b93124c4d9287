package parser

import (
	"minijavac/internal/ast"
	"minijavac/internal/token"
)

// parseStatementsUntil parses statements until stop, a closing brace or EOF
// and leaves the current token on that terminator.
func (p *Parser) parseStatementsUntil(stop token.TokenType) ([]ast.Statement, bool) {
	stmts := []ast.Statement{}
	for !p.curTokenIs(stop) && !p.curTokenIs(token.RBRACE) && !p.curTokenIs(token.EOF) {
		if p.isVarDeclStart() {
			p.addErrorCurrent("variable declarations must precede statements")
			return nil, false
		}
		stmt := p.parseStatement()
		if stmt == nil {
			return nil, false
		}
		stmts = append(stmts, stmt)
		p.nextToken()
	}
	return stmts, true
}

// parseStatement dispatches to specific statement parsers based on token type
func (p *Parser) parseStatement() ast.Statement {
	switch p.curToken.Type {
	case token.LBRACE:
		return p.parseBlockStatement()
	case token.IF:
		return p.parseIfStatement()
	case token.WHILE:
		return p.parseWhileStatement()
	case token.SYSTEM:
		return p.parsePrintStatement()
	case token.IDENT:
		switch {
		case p.peekTokenIs(token.ASSIGN):
			return p.parseAssignStatement()
		case p.peekTokenIs(token.LBRACKET):
			return p.parseArrayAssignStatement()
		}
		p.addErrorAt(p.peekToken, "expected = or [ after "+p.curToken.Literal)
		return nil
	default:
		p.addErrorCurrent("unexpected %s at start of statement", p.curToken.Type)
		return nil
	}
}

func (p *Parser) parseBlockStatement() ast.Statement {
	block := &ast.BlockStatement{Token: p.curToken}
	p.nextToken()
	stmts, ok := p.parseStatementsUntil(token.RBRACE)
	if !ok {
		return nil
	}
	if !p.curTokenIs(token.RBRACE) {
		p.addErrorCurrent("unterminated block")
		return nil
	}
	block.Statements = stmts
	return block
}

func (p *Parser) parseIfStatement() ast.Statement {
	stmt := &ast.IfStatement{Token: p.curToken}
	if !p.expectPeek(token.LPAREN) {
		return nil
	}
	p.nextToken()
	stmt.Condition = p.parseExpression(LOWEST)
	if stmt.Condition == nil || !p.expectPeek(token.RPAREN) {
		return nil
	}
	p.nextToken()
	stmt.Consequence = p.parseStatement()
	if stmt.Consequence == nil || !p.expectPeek(token.ELSE) {
		return nil
	}
	p.nextToken()
	stmt.Alternative = p.parseStatement()
	if stmt.Alternative == nil {
		return nil
	}
	return stmt
}

func (p *Parser) parseWhileStatement() ast.Statement {
	stmt := &ast.WhileStatement{Token: p.curToken}
	if !p.expectPeek(token.LPAREN) {
		return nil
	}
	p.nextToken()
	stmt.Condition = p.parseExpression(LOWEST)
	if stmt.Condition == nil || !p.expectPeek(token.RPAREN) {
		return nil
	}
	p.nextToken()
	stmt.Body = p.parseStatement()
	if stmt.Body == nil {
		return nil
	}
	return stmt
}

// parsePrintStatement parses System.out.println(<exp>);
func (p *Parser) parsePrintStatement() ast.Statement {
	stmt := &ast.PrintStatement{Token: p.curToken}
	if !p.expectPeek(token.DOT) || !p.expectPeekIdent("out") ||
		!p.expectPeek(token.DOT) || !p.expectPeekIdent("println") ||
		!p.expectPeek(token.LPAREN) {
		return nil
	}
	p.nextToken()
	stmt.Value = p.parseExpression(LOWEST)
	if stmt.Value == nil || !p.expectPeek(token.RPAREN) || !p.expectPeek(token.SEMICOLON) {
		return nil
	}
	return stmt
}

func (p *Parser) parseAssignStatement() ast.Statement {
	stmt := &ast.AssignStatement{Token: p.curToken}
	stmt.Name = &ast.Identifier{Token: p.curToken, Value: p.curToken.Literal}
	p.nextToken() // =
	p.nextToken()
	stmt.Value = p.parseExpression(LOWEST)
	if stmt.Value == nil || !p.expectPeek(token.SEMICOLON) {
		return nil
	}
	return stmt
}

func (p *Parser) parseArrayAssignStatement() ast.Statement {
	stmt := &ast.ArrayAssignStatement{Token: p.curToken}
	stmt.Name = &ast.Identifier{Token: p.curToken, Value: p.curToken.Literal}
	p.nextToken() // [
	p.nextToken()
	stmt.Index = p.parseExpression(LOWEST)
	if stmt.Index == nil || !p.expectPeek(token.RBRACKET) || !p.expectPeek(token.ASSIGN) {
		return nil
	}
	p.nextToken()
	stmt.Value = p.parseExpression(LOWEST)
	if stmt.Value == nil || !p.expectPeek(token.SEMICOLON) {
		return nil
	}
	return stmt
}
