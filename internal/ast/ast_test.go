package ast

import (
	"testing"

	"minijavac/internal/token"
)

func tok(tt token.TokenType, lit string) token.Token { return token.Token{Type: tt, Literal: lit} }

func ident(name string) *Identifier { return &Identifier{Token: tok(token.IDENT, name), Value: name} }

func TestProgramAndNodeStrings(t *testing.T) {
	intType := &Type{Token: tok(token.INT_TYPE, "int"), Kind: IntType}
	arrType := &Type{Token: tok(token.INT_TYPE, "int"), Kind: IntArrayType}
	boolType := &Type{Token: tok(token.BOOLEAN, "boolean"), Kind: BooleanType}
	fooType := &Type{Token: tok(token.IDENT, "Foo"), Kind: ClassType, ClassName: "Foo"}

	one := &IntegerLiteral{Token: tok(token.INT, "1"), Value: 1}
	x := ident("x")
	call := &CallExpression{
		Token:     tok(token.IDENT, "run"),
		Receiver:  &NewObjectExpression{Token: tok(token.NEW, "new"), Class: ident("Foo")},
		Method:    ident("run"),
		Arguments: []Expression{one, x},
	}

	main := &MainClass{
		Token:   tok(token.CLASS, "class"),
		Name:    ident("Main"),
		ArgName: ident("a"),
		Vars:    []*VarDecl{{Token: intType.Token, Type: intType, Name: ident("x")}},
		Body: []Statement{
			&AssignStatement{Token: x.Token, Name: x, Value: one},
			&PrintStatement{Token: tok(token.SYSTEM, "System"), Value: call},
		},
	}
	foo := &ClassDecl{
		Token:  tok(token.CLASS, "class"),
		Name:   ident("Foo"),
		Parent: ident("Base"),
		Fields: []*VarDecl{
			{Token: arrType.Token, Type: arrType, Name: ident("arr")},
			{Token: boolType.Token, Type: boolType, Name: ident("ok")},
		},
		Methods: []*MethodDecl{{
			Token:      tok(token.PUBLIC, "public"),
			ReturnType: fooType,
			Name:       ident("run"),
			Params: []*Formal{
				{Token: intType.Token, Type: intType, Name: ident("n")},
				{Token: intType.Token, Type: intType, Name: ident("m")},
			},
			Body: []Statement{
				&ArrayAssignStatement{Token: tok(token.IDENT, "arr"), Name: ident("arr"), Index: one, Value: ident("n")},
				&WhileStatement{
					Token:     tok(token.WHILE, "while"),
					Condition: &PrefixExpression{Token: tok(token.BANG, "!"), Operator: "!", Right: ident("ok")},
					Body:      &BlockStatement{Token: tok(token.LBRACE, "{")},
				},
				&IfStatement{
					Token:       tok(token.IF, "if"),
					Condition:   &InfixExpression{Token: tok(token.LT, "<"), Left: ident("n"), Operator: "<", Right: one},
					Consequence: &BlockStatement{Token: tok(token.LBRACE, "{")},
					Alternative: &PrintStatement{Token: tok(token.SYSTEM, "System"), Value: &LengthExpression{Token: tok(token.LENGTH, "length"), Array: ident("arr")}},
				},
			},
			Return: &ThisExpression{Token: tok(token.THIS, "this")},
		}},
	}
	prog := &Program{Main: main, Classes: []*ClassDecl{foo}}

	want := "class Main { public static void main(String[] a) { int x; x = 1; System.out.println(new Foo().run(1, x)); } }\n" +
		"class Foo extends Base { int[] arr; boolean ok; public Foo run(int n, int m) { arr[1] = n; while ((!ok)) { } " +
		"if ((n < 1)) { } else System.out.println(arr.length); return this; } }"
	if got := prog.String(); got != want {
		t.Fatalf("program String mismatch\n got=%q\nwant=%q", got, want)
	}
	if prog.TokenLiteral() != "class" {
		t.Fatalf("program TokenLiteral=%q", prog.TokenLiteral())
	}
}

func TestExpressionStrings(t *testing.T) {
	arr := ident("arr")
	tests := []struct {
		node Expression
		want string
	}{
		{&IndexExpression{Token: tok(token.LBRACKET, "["), Left: arr, Index: ident("i")}, "(arr[i])"},
		{&NewArrayExpression{Token: tok(token.NEW, "new"), Size: &IntegerLiteral{Token: tok(token.INT, "3"), Value: 3}}, "new int[3]"},
		{&Boolean{Token: tok(token.TRUE, "true"), Value: true}, "true"},
		{&InfixExpression{Token: tok(token.AND, "&&"), Left: ident("a"), Operator: "&&", Right: ident("b")}, "(a && b)"},
		{&InfixExpression{Token: tok(token.ASTERISK, "*"), Left: ident("a"), Operator: "*", Right: ident("b")}, "(a * b)"},
	}
	for _, tt := range tests {
		if got := tt.node.String(); got != tt.want {
			t.Fatalf("%T String=%q want=%q", tt.node, got, tt.want)
		}
	}
}

func TestTypeStrings(t *testing.T) {
	tests := []struct {
		typ  *Type
		want string
	}{
		{&Type{Kind: IntType}, "int"},
		{&Type{Kind: BooleanType}, "boolean"},
		{&Type{Kind: IntArrayType}, "int[]"},
		{&Type{Kind: ClassType, ClassName: "Tree"}, "Tree"},
	}
	for _, tt := range tests {
		if got := tt.typ.String(); got != tt.want {
			t.Fatalf("Type String=%q want=%q", got, tt.want)
		}
	}
}
