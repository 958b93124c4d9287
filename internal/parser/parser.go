package parser

import (
	"fmt"

	"minijavac/internal/ast"
	"minijavac/internal/lexer"
	"minijavac/internal/token"
)

// precedence levels (lowest to highest)
// These determine operator binding: 5 + 3 * 2 parses as 5 + (3 * 2) because * has higher precedence
const (
	_ int = iota // Start at 0, ignore this
	LOWEST
	LOGICAND    // &&
	LESSGREATER // <
	SUM         // + or -
	PRODUCT     // *
	PREFIX      // !X
	INDEX       // array[X]
	MEMBER      // obj.method(...) or arr.length
)

// precedence table maps token types to their precedence level
var precedences = map[token.TokenType]int{
	token.AND:      LOGICAND,
	token.LT:       LESSGREATER,
	token.PLUS:     SUM,
	token.MINUS:    SUM,
	token.ASTERISK: PRODUCT,
	token.LBRACKET: INDEX,
	token.DOT:      MEMBER,
}

type Parser struct {
	l *lexer.Lexer // The lexer feeding us tokens

	curToken  token.Token // Current token under examination
	peekToken token.Token // Next Token (for look-ahead)

	errors []string // Accumulated parse errors

	// Pratt parser tables
	prefixParseFns map[token.TokenType]prefixParseFn // Functions for tokens that start expressions
	infixParseFns  map[token.TokenType]infixParseFn  // Functions for tokens that appear in the middle
}

// prefixParseFn parses expressions that start with a specific token
// Example: !b, 42, x, new Foo()
type prefixParseFn func() ast.Expression

// infixParseFn parses expressions where the operator follows a complete left side
// Example: 5 + 3, a[i], t.f(2)
type infixParseFn func(ast.Expression) ast.Expression

// New creates a new parser for the given lexer
func New(l *lexer.Lexer) *Parser {
	p := &Parser{
		l:      l,
		errors: []string{},
	}

	p.prefixParseFns = make(map[token.TokenType]prefixParseFn)
	p.infixParseFns = make(map[token.TokenType]infixParseFn)

	// Register prefix parsers (tokens that can START an expression)
	p.registerPrefix(token.IDENT, p.parseIdentifier)
	p.registerPrefix(token.INT, p.parseIntegerLiteral)
	p.registerPrefix(token.TRUE, p.parseBoolean)
	p.registerPrefix(token.FALSE, p.parseBoolean)
	p.registerPrefix(token.THIS, p.parseThis)
	p.registerPrefix(token.BANG, p.parsePrefixExpression)
	p.registerPrefix(token.LPAREN, p.parseGroupedExpression)
	p.registerPrefix(token.NEW, p.parseNewExpression)

	// Register infix parsers (tokens that appear AFTER a complete expression)
	p.registerInfix(token.AND, p.parseInfixExpression)
	p.registerInfix(token.LT, p.parseInfixExpression)
	p.registerInfix(token.PLUS, p.parseInfixExpression)
	p.registerInfix(token.MINUS, p.parseInfixExpression)
	p.registerInfix(token.ASTERISK, p.parseInfixExpression)
	p.registerInfix(token.LBRACKET, p.parseIndexExpression)
	p.registerInfix(token.DOT, p.parseMemberExpression)

	// Read two tokens to set curToken and peekToken
	p.nextToken()
	p.nextToken()

	return p
}

// registerPrefix adds a prefix parser for a token type
func (p *Parser) registerPrefix(tokenType token.TokenType, fn prefixParseFn) {
	p.prefixParseFns[tokenType] = fn
}

// registerInfix adds an infix parser for a token type
func (p *Parser) registerInfix(tokenType token.TokenType, fn infixParseFn) {
	p.infixParseFns[tokenType] = fn
}

// nextToken advances to the next token
func (p *Parser) nextToken() {
	p.curToken = p.peekToken
	p.peekToken = p.l.NextToken()
}

// Errors returns accumulated parse errors
func (p *Parser) Errors() []string {
	return p.errors
}

func (p *Parser) addErrorAt(tok token.Token, msg string) {
	p.errors = append(p.errors, fmt.Sprintf("%d:%d: %s", tok.Line, tok.Column, msg))
}

func (p *Parser) addErrorCurrent(format string, args ...interface{}) {
	p.addErrorAt(p.curToken, fmt.Sprintf(format, args...))
}

// peekError adds an error when we expected a different token
func (p *Parser) peekError(t token.TokenType) {
	msg := fmt.Sprintf("expected next token to be %s, got %s instead", t, p.peekToken.Type)
	p.addErrorAt(p.peekToken, msg)
}

// curTokenIs checks if current token matches
func (p *Parser) curTokenIs(t token.TokenType) bool {
	return p.curToken.Type == t
}

// peekTokenIs checks if next token matches
func (p *Parser) peekTokenIs(t token.TokenType) bool {
	return p.peekToken.Type == t
}

// expectPeek checks next token and advances if correct, else errors
// Used for mandatory syntax like "class <ident> {"
func (p *Parser) expectPeek(t token.TokenType) bool {
	if p.peekTokenIs(t) {
		p.nextToken()
		return true
	}
	p.peekError(t)
	return false
}

// expectPeekIdent is expectPeek for the contextual words "out" and "println"
func (p *Parser) expectPeekIdent(name string) bool {
	if p.peekTokenIs(token.IDENT) && p.peekToken.Literal == name {
		p.nextToken()
		return true
	}
	p.addErrorAt(p.peekToken, fmt.Sprintf("expected %q, got %q instead", name, p.peekToken.Literal))
	return false
}

// peekPrecedence returns precedence of next token
func (p *Parser) peekPrecedence() int {
	if p, ok := precedences[p.peekToken.Type]; ok {
		return p
	}
	return LOWEST
}

// curPrecedence returns precedence of current token
func (p *Parser) curPrecedence() int {
	if p, ok := precedences[p.curToken.Type]; ok {
		return p
	}
	return LOWEST
}

// ParseProgram parses the entry class followed by any number of class
// declarations. On error the partial program is still returned; callers
// must check Errors().
func (p *Parser) ParseProgram() *ast.Program {
	program := &ast.Program{Classes: []*ast.ClassDecl{}}

	if !p.curTokenIs(token.CLASS) {
		p.addErrorCurrent("expected entry class declaration, got %s", p.curToken.Type)
		p.synchronize()
	} else {
		program.Main = p.parseMainClass()
		if program.Main == nil {
			p.synchronize()
		} else {
			p.nextToken()
		}
	}

	for !p.curTokenIs(token.EOF) {
		if !p.curTokenIs(token.CLASS) {
			p.addErrorCurrent("expected class declaration, got %s", p.curToken.Type)
			p.synchronize()
			continue
		}
		decl := p.parseClassDecl()
		if decl == nil {
			p.synchronize()
			continue
		}
		program.Classes = append(program.Classes, decl)
		p.nextToken()
	}

	return program
}

// synchronize skips to the next top-level class keyword after an error
func (p *Parser) synchronize() {
	p.nextToken()
	for !p.curTokenIs(token.EOF) && !p.curTokenIs(token.CLASS) {
		p.nextToken()
	}
}
