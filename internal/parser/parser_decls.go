package parser

import (
	"minijavac/internal/ast"
	"minijavac/internal/token"
)

// parseMainClass parses:
// class <name> { public static void main(String[] <arg>) { vars stmts } }
func (p *Parser) parseMainClass() *ast.MainClass {
	mc := &ast.MainClass{Token: p.curToken}
	if !p.expectPeek(token.IDENT) {
		return nil
	}
	mc.Name = &ast.Identifier{Token: p.curToken, Value: p.curToken.Literal}

	for _, t := range []token.TokenType{
		token.LBRACE, token.PUBLIC, token.STATIC, token.VOID, token.MAIN,
		token.LPAREN, token.STRING, token.LBRACKET, token.RBRACKET, token.IDENT,
	} {
		if !p.expectPeek(t) {
			return nil
		}
	}
	mc.ArgName = &ast.Identifier{Token: p.curToken, Value: p.curToken.Literal}
	if !p.expectPeek(token.RPAREN) || !p.expectPeek(token.LBRACE) {
		return nil
	}
	p.nextToken()

	vars, ok := p.parseVarDecls()
	if !ok {
		return nil
	}
	mc.Vars = vars

	body, ok := p.parseStatementsUntil(token.RBRACE)
	if !ok {
		return nil
	}
	mc.Body = body
	if !p.curTokenIs(token.RBRACE) {
		p.addErrorCurrent("expected } to close main, got %s", p.curToken.Type)
		return nil
	}
	if !p.expectPeek(token.RBRACE) {
		return nil
	}
	return mc
}

// parseClassDecl parses: class <name> [extends <parent>] { fields methods }
func (p *Parser) parseClassDecl() *ast.ClassDecl {
	cd := &ast.ClassDecl{Token: p.curToken}
	if !p.expectPeek(token.IDENT) {
		return nil
	}
	cd.Name = &ast.Identifier{Token: p.curToken, Value: p.curToken.Literal}

	if p.peekTokenIs(token.EXTENDS) {
		p.nextToken()
		if !p.expectPeek(token.IDENT) {
			return nil
		}
		cd.Parent = &ast.Identifier{Token: p.curToken, Value: p.curToken.Literal}
	}
	if !p.expectPeek(token.LBRACE) {
		return nil
	}
	p.nextToken()

	fields, ok := p.parseVarDecls()
	if !ok {
		return nil
	}
	cd.Fields = fields

	cd.Methods = []*ast.MethodDecl{}
	for p.curTokenIs(token.PUBLIC) {
		m := p.parseMethodDecl()
		if m == nil {
			return nil
		}
		cd.Methods = append(cd.Methods, m)
		p.nextToken()
	}

	if !p.curTokenIs(token.RBRACE) {
		p.addErrorCurrent("expected method declaration or }, got %s", p.curToken.Type)
		return nil
	}
	return cd
}

// parseMethodDecl parses:
// public <type> <name>(<formals>) { vars stmts return <exp>; }
func (p *Parser) parseMethodDecl() *ast.MethodDecl {
	md := &ast.MethodDecl{Token: p.curToken}
	p.nextToken()
	md.ReturnType = p.parseType()
	if md.ReturnType == nil {
		return nil
	}
	if !p.expectPeek(token.IDENT) {
		return nil
	}
	md.Name = &ast.Identifier{Token: p.curToken, Value: p.curToken.Literal}
	if !p.expectPeek(token.LPAREN) {
		return nil
	}
	params, ok := p.parseFormals()
	if !ok {
		return nil
	}
	md.Params = params
	if !p.expectPeek(token.LBRACE) {
		return nil
	}
	p.nextToken()

	vars, ok := p.parseVarDecls()
	if !ok {
		return nil
	}
	md.Vars = vars

	body, ok := p.parseStatementsUntil(token.RETURN)
	if !ok {
		return nil
	}
	md.Body = body
	if !p.curTokenIs(token.RETURN) {
		p.addErrorCurrent("method %s must end with a return statement", md.Name.Value)
		return nil
	}
	p.nextToken()
	md.Return = p.parseExpression(LOWEST)
	if md.Return == nil {
		return nil
	}
	if !p.expectPeek(token.SEMICOLON) || !p.expectPeek(token.RBRACE) {
		return nil
	}
	return md
}

// parseFormals parses the parameter list after "(" and stops on ")"
func (p *Parser) parseFormals() ([]*ast.Formal, bool) {
	formals := []*ast.Formal{}
	if p.peekTokenIs(token.RPAREN) {
		p.nextToken()
		return formals, true
	}
	for {
		p.nextToken()
		f := &ast.Formal{Token: p.curToken}
		f.Type = p.parseType()
		if f.Type == nil {
			return nil, false
		}
		if !p.expectPeek(token.IDENT) {
			return nil, false
		}
		f.Name = &ast.Identifier{Token: p.curToken, Value: p.curToken.Literal}
		formals = append(formals, f)
		if p.peekTokenIs(token.COMMA) {
			p.nextToken()
			continue
		}
		if !p.expectPeek(token.RPAREN) {
			return nil, false
		}
		return formals, true
	}
}
