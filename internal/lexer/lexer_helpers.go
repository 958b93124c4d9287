package lexer

import "minijavac/internal/token"

// skipIgnored moves past whitespace and both comment forms. When a block
// comment runs to the end of input it returns an ILLEGAL "/*" token placed
// at the comment opener.
func (l *Lexer) skipIgnored() (token.Token, bool) {
	for {
		switch {
		case isSpace(l.ch):
			l.readChar()
		case l.ch == '/' && l.peekChar() == '/':
			for l.ch != '\n' && l.ch != 0 {
				l.readChar()
			}
		case l.ch == '/' && l.peekChar() == '*':
			open := token.Token{Type: token.ILLEGAL, Literal: "/*", Line: l.line, Column: l.column}
			if !l.skipBlockComment() {
				return open, true
			}
		default:
			return token.Token{}, false
		}
	}
}

// skipBlockComment consumes "/* ... */" and reports whether the closer was found.
// Block comments do not nest.
func (l *Lexer) skipBlockComment() bool {
	l.readChar()
	l.readChar()
	for l.ch != 0 {
		if l.ch == '*' && l.peekChar() == '/' {
			l.readChar()
			l.readChar()
			return true
		}
		l.readChar()
	}
	return false
}

// readWhile consumes the run of bytes accepted by ok, starting at the current one.
func (l *Lexer) readWhile(ok func(byte) bool) string {
	start := l.position
	for l.ch != 0 && ok(l.ch) {
		l.readChar()
	}
	return l.input[start:l.position]
}

func isSpace(ch byte) bool {
	return ch == ' ' || ch == '\t' || ch == '\n' || ch == '\r' || ch == '\f'
}

// MiniJava identifiers: a letter or underscore, then letters, digits, underscores.
func isIdentStart(ch byte) bool {
	return 'a' <= ch && ch <= 'z' || 'A' <= ch && ch <= 'Z' || ch == '_'
}

func isIdentPart(ch byte) bool { return isIdentStart(ch) || isDigit(ch) }

func isDigit(ch byte) bool { return '0' <= ch && ch <= '9' }

func newToken(tokenType token.TokenType, ch byte) token.Token {
	return token.Token{Type: tokenType, Literal: string(ch)}
}
