package token

// TokenType is a string alias for token types
// Using string makes debugging easier (we can print "PLUS" instead of a number)
type TokenType string

// Token struct holds the type, literal value and source position
// For example: Token{Type: INT, Literal: "5", Line: 3, Column: 9}
type Token struct {
	Type    TokenType
	Literal string
	Line    int
	Column  int
}

// Token constants - these are the vocabulary of MiniJava
const (
	// Special
	ILLEGAL TokenType = "ILLEGAL" // Unknown/invalid character
	EOF     TokenType = "EOF"     // End of file, tells parser we're done

	// Identifiers and literals
	IDENT TokenType = "IDENT" // Names: x, Foo, println
	INT   TokenType = "INT"   // Integer literals: 1, 42, 999

	// Operators
	ASSIGN   TokenType = "="
	PLUS     TokenType = "+"
	MINUS    TokenType = "-"
	ASTERISK TokenType = "*"
	BANG     TokenType = "!"
	LT       TokenType = "<"
	AND      TokenType = "&&"

	// Delimiters
	COMMA     TokenType = ","
	SEMICOLON TokenType = ";"
	DOT       TokenType = "."
	LPAREN    TokenType = "("
	RPAREN    TokenType = ")"
	LBRACE    TokenType = "{"
	RBRACE    TokenType = "}"
	LBRACKET  TokenType = "["
	RBRACKET  TokenType = "]"

	// Keywords
	CLASS    TokenType = "CLASS"
	PUBLIC   TokenType = "PUBLIC"
	STATIC   TokenType = "STATIC"
	VOID     TokenType = "VOID"
	MAIN     TokenType = "MAIN"
	STRING   TokenType = "STRING"
	EXTENDS  TokenType = "EXTENDS"
	RETURN   TokenType = "RETURN"
	INT_TYPE TokenType = "INT_TYPE"
	BOOLEAN  TokenType = "BOOLEAN"
	IF       TokenType = "IF"
	ELSE     TokenType = "ELSE"
	WHILE    TokenType = "WHILE"
	SYSTEM   TokenType = "SYSTEM"
	LENGTH   TokenType = "LENGTH"
	TRUE     TokenType = "TRUE"
	FALSE    TokenType = "FALSE"
	THIS     TokenType = "THIS"
	NEW      TokenType = "NEW"
)

// keywords maps reserved words to their token type
// "out" and "println" stay identifiers; the parser checks them after SYSTEM.
var keywords = map[string]TokenType{
	"class":   CLASS,
	"public":  PUBLIC,
	"static":  STATIC,
	"void":    VOID,
	"main":    MAIN,
	"String":  STRING,
	"extends": EXTENDS,
	"return":  RETURN,
	"int":     INT_TYPE,
	"boolean": BOOLEAN,
	"if":      IF,
	"else":    ELSE,
	"while":   WHILE,
	"System":  SYSTEM,
	"length":  LENGTH,
	"true":    TRUE,
	"false":   FALSE,
	"this":    THIS,
	"new":     NEW,
}

// LookupIdent checks if an identifier is a keyword
// If "class" is in keywords map, returns CLASS token type
// Otherwise returns IDENT (it's a user-defined name)
func LookupIdent(ident string) TokenType {
	if tok, ok := keywords[ident]; ok {
		return tok
	}
	return IDENT
}
