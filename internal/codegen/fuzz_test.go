package codegen

import (
	"testing"

	"minijavac/internal/lexer"
	"minijavac/internal/parser"
	"minijavac/internal/symbols"
)

// FuzzCodegenNoPanic ensures codegen never panics for arbitrary parser outputs.
func FuzzCodegenNoPanic(f *testing.F) {
	seeds := []string{
		"",
		"class M { public static void main(String[] a) { System.out.println(1); } }",
		"class M { public static void main(String[] a) { int[] x; x = new int[3]; x[0] = x.length; } }",
		"class M { public static void main(String[] a) { System.out.println(new A().f(1, 2)); } } class A { public int f(int a, int b) { return a - b; } }",
		"class M { public static void main(String[] a) { System.out.println(this); } }",
		"class M { public static void main(String[] a) { System.out.println(new B().g()); } } class A { int x; } class B extends A { public A g() { x = 1; return new A(); } }",
		"class M { public static void main(String[] a) { while (1 < 2) { } } } class A_b { public int c() { return 1; } } class A { public int b_c() { return 2; } }",
	}
	for _, s := range seeds {
		f.Add(s)
	}

	f.Fuzz(func(t *testing.T, input string) {
		defer func() {
			if r := recover(); r != nil {
				t.Fatalf("codegen panicked for input %q: %v", input, r)
			}
		}()

		p := parser.New(lexer.New(input))
		program := p.ParseProgram()
		if program == nil || len(p.Errors()) > 0 {
			return
		}
		table, err := symbols.Build(program)
		if err != nil {
			return
		}

		cg := New()
		_, _ = cg.Generate(program, table)
	})
}
