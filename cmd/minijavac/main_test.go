package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/davecgh/go-spew/spew"
)

const factorial = `class Factorial {
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

func runArgs(t *testing.T, stdin string, args ...string) (int, string, string) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	code := runCLI(args, strings.NewReader(stdin), &stdout, &stderr)
	return code, stdout.String(), stderr.String()
}

func writeSource(t *testing.T, name, src string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(src), 0o644); err != nil {
		t.Fatalf("write source: %v", err)
	}
	return path
}

func TestRunCLINoArgs(t *testing.T) {
	code, out, errOut := runArgs(t, "")
	if code != 1 {
		t.Fatalf("runCLI() code=%d want=1", code)
	}
	if !strings.Contains(out, "COMMANDS:") || !strings.Contains(out, "dumpconfig") {
		t.Fatalf("expected usage output, got:\n%s", out)
	}
	if !strings.Contains(errOut, "no input file") {
		t.Fatalf("expected missing input error, got:\n%s", errOut)
	}
}

func TestMainUsesExitFn(t *testing.T) {
	oldArgs := os.Args
	oldExit := exitFn
	defer func() {
		os.Args = oldArgs
		exitFn = oldExit
	}()

	os.Args = []string{"minijavac", "dumpconfig"}
	got := -1
	exitFn = func(code int) { got = code }
	main()
	if got != 0 {
		t.Fatalf("main exit code=%d want=0", got)
	}
}

func TestBuildFromStdin(t *testing.T) {
	code, out, errOut := runArgs(t, factorial, "build", "-")
	if code != 0 {
		t.Fatalf("build failed code=%d stderr:\n%s", code, errOut)
	}
	for _, want := range []string{".globl main\nmain:\n", "Fac_ComputeFac_entry:\n", "_print_int:\n"} {
		if !strings.Contains(out, want) {
			t.Fatalf("assembly missing %q:\n%s", want, out)
		}
	}

	// bare file argument uses the default action
	code, out2, _ := runArgs(t, factorial, "-")
	if code != 0 || out2 != out {
		t.Fatalf("default action differs from build, code=%d", code)
	}
}

func TestBuildErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{
			"parse",
			"class Main {\n  public static void main(String[] a) { x = ; }\n}\n",
			[]string{
				"Parse error: <stdin>: 2:45: no prefix parse function for ; found",
				"\n      public static void main(String[] a) { x = ; }\n    " + strings.Repeat(" ", 44) + "^",
			},
		},
		{
			"symbol",
			"class Main { public static void main(String[] a) { } }\nclass B extends Z { }\n",
			[]string{"Symbol error: <stdin>: 2:17: unknown parent class: Z", "class B extends Z { }"},
		},
		{
			"codegen",
			"class Main {\n  public static void main(String[] a) {\n    System.out.println(x);\n  }\n}\n",
			[]string{"Codegen error: <stdin>: 3:24:", "cannot resolve x"},
		},
	}
	for _, tt := range tests {
		code, out, errOut := runArgs(t, tt.input, "build", "-")
		if code != 1 {
			t.Fatalf("%s: code=%d want=1", tt.name, code)
		}
		if out != "" {
			t.Fatalf("%s: unexpected stdout %q", tt.name, out)
		}
		for _, want := range tt.want {
			if !strings.Contains(errOut, want) {
				t.Fatalf("%s: stderr missing %q:\n%s", tt.name, want, errOut)
			}
		}
		if strings.Contains(errOut, "compilation failed") {
			t.Fatalf("%s: diagnostics reported twice:\n%s", tt.name, errOut)
		}
	}
}

func TestBuildWritesFiles(t *testing.T) {
	src := writeSource(t, "Factorial.java", factorial)
	want := strings.TrimSuffix(src, ".java") + ".s"

	code, out, errOut := runArgs(t, "", "build", src)
	if code != 0 {
		t.Fatalf("build failed code=%d stderr:\n%s", code, errOut)
	}
	if !strings.Contains(out, "Compiled to: "+want) {
		t.Fatalf("unexpected output %q", out)
	}
	asm, err := os.ReadFile(want)
	if err != nil || !strings.Contains(string(asm), "main:") {
		t.Fatalf("default output not written: %v", err)
	}

	custom := filepath.Join(t.TempDir(), "custom.s")
	if code, _, errOut := runArgs(t, "", "build", "-o", custom, src); code != 0 {
		t.Fatalf("build -o failed: %s", errOut)
	}
	if _, err := os.Stat(custom); err != nil {
		t.Fatalf("build -o did not write: %v", err)
	}

	global := filepath.Join(t.TempDir(), "global.s")
	if code, _, errOut := runArgs(t, "", "--output", global, src); code != 0 {
		t.Fatalf("global --output failed: %s", errOut)
	}
	if _, err := os.Stat(global); err != nil {
		t.Fatalf("global --output did not write: %v", err)
	}

	if code, _, errOut := runArgs(t, "", "build", filepath.Join(t.TempDir(), "missing.java")); code != 1 || errOut == "" {
		t.Fatalf("missing file code=%d stderr=%q", code, errOut)
	}
}

func TestRunOnSimulator(t *testing.T) {
	code, out, errOut := runArgs(t, factorial, "run", "-")
	if code != 0 {
		t.Fatalf("run failed code=%d stderr:\n%s", code, errOut)
	}
	if out != "3628800\n" {
		t.Fatalf("run output=%q", out)
	}

	src := "class Main { public static void main(String[] a) { int[] x; x = new int[2]; System.out.println(x[2]); } }\n"
	code, out, _ = runArgs(t, src, "run", "-")
	if code != 0 || out != "Index out of bound exception\n" {
		t.Fatalf("bounds fault code=%d out=%q", code, out)
	}
}

func TestRunStepLimit(t *testing.T) {
	src := "class Main { public static void main(String[] a) { while (true) { } } }\n"
	code, _, errOut := runArgs(t, src, "run", "--maxsteps", "100", "-")
	if code != 1 || !strings.Contains(errOut, "execution failed") {
		t.Fatalf("expected step limit failure, code=%d stderr=%q", code, errOut)
	}

	t.Setenv("MJC_MAX_STEPS", "100")
	code, _, errOut = runArgs(t, src, "run", "-")
	if code != 1 || !strings.Contains(errOut, "execution failed") {
		t.Fatalf("expected env step limit failure, code=%d stderr=%q", code, errOut)
	}
}

func TestRunUnderSpim(t *testing.T) {
	oldSpim := spimFn
	defer func() { spimFn = oldSpim }()

	var gotPath, gotAsm string
	spimFn = func(_ context.Context, path, asm string) (string, error) {
		gotPath, gotAsm = path, asm
		return "3628800\n", nil
	}

	code, out, errOut := runArgs(t, factorial, "run", "--spim", "/opt/spim/bin/spim", "-")
	if code != 0 || out != "3628800\n" {
		t.Fatalf("spim run code=%d out=%q stderr=%q", code, out, errOut)
	}
	if gotPath != "/opt/spim/bin/spim" || !strings.Contains(gotAsm, "Fac_ComputeFac_entry:") {
		t.Fatalf("spim called with path=%q", gotPath)
	}

	t.Setenv("MJC_SPIM", "spim-from-env")
	if code, _, errOut := runArgs(t, factorial, "run", "-"); code != 0 {
		t.Fatalf("env spim run failed: %s", errOut)
	}
	if gotPath != "spim-from-env" {
		t.Fatalf("MJC_SPIM ignored, path=%q", gotPath)
	}
}

func TestLogLevel(t *testing.T) {
	code, _, errOut := runArgs(t, factorial, "--loglevel", "debug", "run", "-")
	if code != 0 {
		t.Fatalf("run failed: %s", errOut)
	}
	for _, want := range []string{"Running on simulator", "pkg=codegen"} {
		if !strings.Contains(errOut, want) {
			t.Fatalf("debug log missing %q:\n%s", want, errOut)
		}
	}

	code, _, errOut = runArgs(t, factorial, "--loglevel", "loud", "run", "-")
	if code != 1 || !strings.Contains(errOut, "invalid log level") {
		t.Fatalf("expected bad level error, code=%d stderr=%q", code, errOut)
	}
}

func TestOutputPath(t *testing.T) {
	tests := map[string]string{
		"Factorial.java":     "Factorial.s",
		"dir/Tree.java":      "dir/Tree.s",
		"noext":              "noext.s",
		"a.b/BinarySearch.j": "a.b/BinarySearch.s",
	}
	for in, want := range tests {
		if got := outputPath(in); got != want {
			t.Fatalf("outputPath(%q)=%q want=%q", in, got, want)
		}
	}
}

func TestParseErrorPosition(t *testing.T) {
	tests := []struct {
		in   string
		line int
		col  int
		msg  string
	}{
		{"4:3: expected ;", 4, 3, "expected ;"},
		{"x:3: bad", 0, 0, "x:3: bad"},
		{"no position", 0, 0, "no position"},
		{"12: half", 0, 0, "12: half"},
	}
	for _, tt := range tests {
		got := parseErrorPosition(tt.in)
		if got.Line != tt.line || got.Column != tt.col || got.Message != tt.msg {
			t.Fatalf("parseErrorPosition(%q)=%s", tt.in, spew.Sdump(got))
		}
	}
}
