package token

import "testing"

func TestLookupIdent(t *testing.T) {
	tests := map[string]TokenType{
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
		"x":       IDENT,
		"out":     IDENT,
		"println": IDENT,
		"string":  IDENT,
	}

	for in, want := range tests {
		if got := LookupIdent(in); got != want {
			t.Fatalf("LookupIdent(%q)=%q want=%q", in, got, want)
		}
	}
}
