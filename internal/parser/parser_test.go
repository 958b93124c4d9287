package parser

import (
	"strings"
	"testing"

	"github.com/davecgh/go-spew/spew"

	"minijavac/internal/ast"
	"minijavac/internal/lexer"
)

const factorialProgram = `
class Factorial {
    public static void main(String[] a) {
        System.out.println(new Fac().ComputeFac(10));
    }
}

class Fac {
    public int ComputeFac(int num) {
        int num_aux;
        if (num < 1)
            num_aux = 1;
        else
            num_aux = num * (this.ComputeFac(num - 1));
        return num_aux;
    }
}
`

func parse(t *testing.T, input string) *ast.Program {
	t.Helper()
	p := New(lexer.New(input))
	program := p.ParseProgram()
	checkNoParserErrors(t, p)
	return program
}

func TestFactorialProgramParses(t *testing.T) {
	program := parse(t, factorialProgram)

	if program.Main == nil || program.Main.Name.Value != "Factorial" {
		t.Fatalf("unexpected main class: %s", spew.Sdump(program.Main))
	}
	if program.Main.ArgName.Value != "a" {
		t.Fatalf("wrong main arg name. got=%q", program.Main.ArgName.Value)
	}
	if len(program.Classes) != 1 {
		t.Fatalf("expected 1 class, got=%d", len(program.Classes))
	}
	fac := program.Classes[0]
	if fac.Name.Value != "Fac" || fac.Parent != nil {
		t.Fatalf("unexpected class header: %s", spew.Sdump(fac.Name, fac.Parent))
	}
	if len(fac.Methods) != 1 {
		t.Fatalf("expected 1 method, got=%d", len(fac.Methods))
	}
	m := fac.Methods[0]
	if m.Name.Value != "ComputeFac" || len(m.Params) != 1 || len(m.Vars) != 1 || len(m.Body) != 1 {
		t.Fatalf("unexpected method shape: %s", m.String())
	}
	if _, ok := m.Body[0].(*ast.IfStatement); !ok {
		t.Fatalf("expected if statement, got=%T", m.Body[0])
	}
	if m.Return.String() != "num_aux" {
		t.Fatalf("wrong return expression. got=%q", m.Return.String())
	}
}

func TestMainWithLocalsAndStatements(t *testing.T) {
	program := parse(t, `class M { public static void main(String[] args) {
		int x; int[] arr; boolean b; Foo f;
		x = 5; arr = new int[3]; arr[0] = x; b = !true; f = new Foo();
		while (x < 10) { x = x + 1; }
		System.out.println(arr.length);
	} }`)

	main := program.Main
	if len(main.Vars) != 4 {
		t.Fatalf("expected 4 locals, got=%d", len(main.Vars))
	}
	wantTypes := []string{"int", "int[]", "boolean", "Foo"}
	for i, v := range main.Vars {
		if v.Type.String() != wantTypes[i] {
			t.Fatalf("var %d: wrong type. got=%q want=%q", i, v.Type.String(), wantTypes[i])
		}
	}
	if len(main.Body) != 7 {
		t.Fatalf("expected 7 statements, got=%d", len(main.Body))
	}
	if _, ok := main.Body[2].(*ast.ArrayAssignStatement); !ok {
		t.Fatalf("expected array assign, got=%T", main.Body[2])
	}
	if _, ok := main.Body[5].(*ast.WhileStatement); !ok {
		t.Fatalf("expected while, got=%T", main.Body[5])
	}
	ps, ok := main.Body[6].(*ast.PrintStatement)
	if !ok {
		t.Fatalf("expected print, got=%T", main.Body[6])
	}
	if _, ok := ps.Value.(*ast.LengthExpression); !ok {
		t.Fatalf("expected length expression, got=%T", ps.Value)
	}
}

func TestClassWithParentAndFields(t *testing.T) {
	program := parse(t, `class M { public static void main(String[] a) { } }
class A { int x; public int get() { return x; } }
class B extends A { int y; boolean z; public int set(int v, boolean w) { y = v; z = w; return y; } }`)

	if len(program.Classes) != 2 {
		t.Fatalf("expected 2 classes, got=%d", len(program.Classes))
	}
	b := program.Classes[1]
	if b.Parent == nil || b.Parent.Value != "A" {
		t.Fatalf("expected parent A, got %s", spew.Sdump(b.Parent))
	}
	if len(b.Fields) != 2 {
		t.Fatalf("expected 2 fields, got=%d", len(b.Fields))
	}
	set := b.Methods[0]
	if len(set.Params) != 2 || set.Params[1].Type.String() != "boolean" {
		t.Fatalf("unexpected params: %s", set.String())
	}
}

func TestOperatorPrecedenceParsing(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"a + b * c", "(a + (b * c))"},
		{"a * b + c", "((a * b) + c)"},
		{"a - b - c", "((a - b) - c)"},
		{"a < b && c < d", "((a < b) && (c < d))"},
		{"a + b < c", "((a + b) < c)"},
		{"!a && b", "((!a) && b)"},
		{"!a < b", "((!a) < b)"},
		{"a[i + 1] * 2", "((a[(i + 1)]) * 2)"},
		{"a.length + 1", "(a.length + 1)"},
		{"this.f(1, x + 2).g()", "this.f(1, (x + 2)).g()"},
		{"new Foo().bar()", "new Foo().bar()"},
		{"new int[n + 1].length", "new int[(n + 1)].length"},
		{"(a + b) * c", "((a + b) * c)"},
		{"!!true", "(!(!true))"},
	}

	for _, tt := range tests {
		program := parse(t, "class M { public static void main(String[] a) { System.out.println("+tt.input+"); } }")
		stmt := program.Main.Body[0].(*ast.PrintStatement)
		if got := stmt.Value.String(); got != tt.expected {
			t.Fatalf("input %q: expected=%q, got=%q", tt.input, tt.expected, got)
		}
	}
}

func TestIntegerLiteralBounds(t *testing.T) {
	program := parse(t, "class M { public static void main(String[] a) { System.out.println(2147483647); } }")
	lit, ok := program.Main.Body[0].(*ast.PrintStatement).Value.(*ast.IntegerLiteral)
	if !ok || lit.Value != 2147483647 {
		t.Fatalf("unexpected literal: %s", spew.Sdump(lit))
	}

	p := New(lexer.New("class M { public static void main(String[] a) { System.out.println(2147483648); } }"))
	_ = p.ParseProgram()
	if len(p.Errors()) == 0 {
		t.Fatalf("expected out of range error")
	}
}

func TestNestedIfElse(t *testing.T) {
	program := parse(t, `class M { public static void main(String[] a) {
		if (true) if (false) System.out.println(1); else System.out.println(2); else { }
	} }`)
	outer := program.Main.Body[0].(*ast.IfStatement)
	if _, ok := outer.Consequence.(*ast.IfStatement); !ok {
		t.Fatalf("expected nested if, got=%T", outer.Consequence)
	}
	if _, ok := outer.Alternative.(*ast.BlockStatement); !ok {
		t.Fatalf("expected block alternative, got=%T", outer.Alternative)
	}
}

func TestParserErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"missing semicolon", "class M { public static void main(String[] a) { x = 1 } }", "expected next token to be ;"},
		{"if without else", "class M { public static void main(String[] a) { if (true) x = 1; } }", "expected next token to be ELSE"},
		{"method without return", "class M { public static void main(String[] a) { } } class A { public int f() { } }", "must end with a return statement"},
		{"decl after statement", "class M { public static void main(String[] a) { x = 1; int y; } }", "variable declarations must precede statements"},
		{"bad println", "class M { public static void main(String[] a) { System.err.println(1); } }", `expected "out"`},
		{"bad new", "class M { public static void main(String[] a) { x = new 3; } }", "expected int[...] or class name after new"},
		{"missing prefix", "class M { public static void main(String[] a) { x = ; } }", "no prefix parse function for ;"},
		{"stray token", "class M { public static void main(String[] a) { } } int", "expected class declaration"},
		{"lone ampersand", "class M { public static void main(String[] a) { x = a & b; } }", "expected next token to be ;"},
	}

	for _, tt := range tests {
		p := New(lexer.New(tt.input))
		_ = p.ParseProgram()
		errs := p.Errors()
		if len(errs) == 0 {
			t.Fatalf("%s: expected parser errors, got none", tt.name)
		}
		if !strings.Contains(strings.Join(errs, "\n"), tt.want) {
			t.Fatalf("%s: expected error containing %q, got %v", tt.name, tt.want, errs)
		}
	}
}

func TestErrorsCarryPosition(t *testing.T) {
	p := New(lexer.New("class M {\n  public static void main(String[] a) {\n    x = 1\n  }\n}"))
	_ = p.ParseProgram()
	errs := p.Errors()
	if len(errs) == 0 || !strings.HasPrefix(errs[0], "4:3: ") {
		t.Fatalf("expected error at 4:3, got %v", errs)
	}
}

func TestRecoveryContinuesWithNextClass(t *testing.T) {
	p := New(lexer.New(`class M { public static void main(String[] a) { } }
class Bad { int; }
class Good { public int f() { return 1; } }`))
	program := p.ParseProgram()
	if len(p.Errors()) == 0 {
		t.Fatalf("expected parser errors")
	}
	if len(program.Classes) != 1 || program.Classes[0].Name.Value != "Good" {
		t.Fatalf("expected recovery to keep class Good, got %s", program.String())
	}
}

func checkNoParserErrors(t *testing.T, p *Parser) {
	t.Helper()
	if len(p.Errors()) == 0 {
		return
	}
	t.Fatalf("parser errors: %v", p.Errors())
}
