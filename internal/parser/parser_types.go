package parser

import (
	"minijavac/internal/ast"
	"minijavac/internal/token"
)

// parseType parses int, int[], boolean or a class name starting at the
// current token and leaves the current token on the last token of the type.
func (p *Parser) parseType() *ast.Type {
	typ := &ast.Type{Token: p.curToken}
	switch p.curToken.Type {
	case token.INT_TYPE:
		if p.peekTokenIs(token.LBRACKET) {
			p.nextToken()
			if !p.expectPeek(token.RBRACKET) {
				return nil
			}
			typ.Kind = ast.IntArrayType
			return typ
		}
		typ.Kind = ast.IntType
	case token.BOOLEAN:
		typ.Kind = ast.BooleanType
	case token.IDENT:
		typ.Kind = ast.ClassType
		typ.ClassName = p.curToken.Literal
	default:
		p.addErrorCurrent("expected type, got %s", p.curToken.Type)
		return nil
	}
	return typ
}

// isVarDeclStart reports whether the current token begins "<type> <name>;"
// rather than a statement. A leading identifier is a declaration only when
// another identifier follows it.
func (p *Parser) isVarDeclStart() bool {
	switch p.curToken.Type {
	case token.INT_TYPE, token.BOOLEAN:
		return true
	case token.IDENT:
		return p.peekTokenIs(token.IDENT)
	default:
		return false
	}
}

// parseVarDecls consumes consecutive variable declarations and leaves the
// current token on the first token after them. ok is false after an error.
func (p *Parser) parseVarDecls() ([]*ast.VarDecl, bool) {
	decls := []*ast.VarDecl{}
	for p.isVarDeclStart() {
		decl := p.parseVarDecl()
		if decl == nil {
			return nil, false
		}
		decls = append(decls, decl)
		p.nextToken()
	}
	return decls, true
}

func (p *Parser) parseVarDecl() *ast.VarDecl {
	decl := &ast.VarDecl{Token: p.curToken}
	decl.Type = p.parseType()
	if decl.Type == nil {
		return nil
	}
	if !p.expectPeek(token.IDENT) {
		return nil
	}
	decl.Name = &ast.Identifier{Token: p.curToken, Value: p.curToken.Literal}
	if !p.expectPeek(token.SEMICOLON) {
		return nil
	}
	return decl
}
