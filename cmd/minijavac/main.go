package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/mattn/go-colorable"
	"github.com/mattn/go-isatty"
	"github.com/pkg/errors"
	log15 "gopkg.in/inconshreveable/log15.v2"
	cli "gopkg.in/urfave/cli.v1"

	"minijavac/internal/codegen"
	"minijavac/internal/diag"
	"minijavac/internal/lexer"
	"minijavac/internal/mips"
	"minijavac/internal/parser"
	"minijavac/internal/symbols"
)

var (
	exitFn = os.Exit
	spimFn = mips.RunSPIM
	log    = log15.New("pkg", "cli")
)

// errReported marks failures whose diagnostics were already printed.
var errReported = errors.New("compilation failed")

var errNoInput = errors.New("no input file")

type cliState struct {
	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer
	cfg    minijavacConfig
}

func main() {
	exitFn(runCLI(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

// runCLI runs the command line and returns the process exit code.
func runCLI(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	s := &cliState{stdin: stdin, stdout: stdout, stderr: stderr}
	app := s.newApp()
	if err := app.Run(append([]string{app.Name}, args...)); err != nil {
		if errors.Cause(err) != errReported {
			fmt.Fprintln(stderr, err)
		}
		return 1
	}
	return 0
}

func (s *cliState) newApp() *cli.App {
	app := cli.NewApp()
	app.Name = "minijavac"
	app.Usage = "MiniJava to MIPS compiler"
	app.HideVersion = true
	app.Writer = s.stdout
	app.ErrWriter = s.stderr
	app.Flags = []cli.Flag{
		configFileFlag,
		logLevelFlag,
		outputFlag,
	}
	app.Commands = []cli.Command{
		{
			Action:    s.buildCommand,
			Name:      "build",
			Usage:     "Compile a MiniJava file to SPIM assembly",
			ArgsUsage: "<file.java | ->",
			Flags:     []cli.Flag{outputFlag},
			Description: `
Compiles the program and writes the assembly next to the input, or to the
path given with --output. "-" reads the program from standard input and
writes the assembly to standard output unless --output is set.`,
		},
		{
			Action:    s.runCommand,
			Name:      "run",
			Usage:     "Compile a MiniJava file and execute it",
			ArgsUsage: "<file.java | ->",
			Flags:     []cli.Flag{spimFlag, maxStepsFlag},
			Description: `
Runs the compiled program on the built-in MIPS simulator. With --spim or
MJC_SPIM the program is handed to an external spim binary instead.`,
		},
		{
			Action:      s.dumpConfig,
			Name:        "dumpconfig",
			Usage:       "Show configuration values",
			ArgsUsage:   "",
			Category:    "MISCELLANEOUS COMMANDS",
			Description: `The dumpconfig command shows configuration values.`,
		},
	}
	app.Action = s.buildCommand
	app.Before = s.setup
	return app
}

// setup resolves the configuration and installs the log handler.
func (s *cliState) setup(ctx *cli.Context) error {
	cfg, err := makeConfig(ctx)
	if err != nil {
		return err
	}
	lvl, err := log15.LvlFromString(cfg.Build.LogLevel)
	if err != nil {
		return errors.Wrapf(err, "invalid log level %q", cfg.Build.LogLevel)
	}
	log15.Root().SetHandler(log15.LvlFilterHandler(lvl, logHandler(s.stderr)))
	s.cfg = cfg
	return nil
}

// logHandler colours output only when w is a terminal.
func logHandler(w io.Writer) log15.Handler {
	if f, ok := w.(*os.File); ok && isatty.IsTerminal(f.Fd()) {
		return log15.StreamHandler(colorable.NewColorable(f), log15.TerminalFormat())
	}
	return log15.StreamHandler(w, log15.LogfmtFormat())
}

func (s *cliState) buildCommand(ctx *cli.Context) error {
	if ctx.NArg() == 0 {
		cli.ShowAppHelp(ctx)
		return errNoInput
	}
	path := ctx.Args().First()
	name, source, err := s.readSource(path)
	if err != nil {
		return err
	}
	asm, ok := compile(name, source, s.stderr)
	if !ok {
		return errReported
	}

	output := s.cfg.Build.Output
	if ctx.IsSet("output") {
		output = ctx.String("output")
	} else if ctx.GlobalIsSet("output") {
		output = ctx.GlobalString("output")
	}
	if output == "" && path == "-" {
		_, err := io.WriteString(s.stdout, asm)
		return err
	}
	if output == "" {
		output = outputPath(path)
	}
	if err := os.WriteFile(output, []byte(asm), 0o644); err != nil {
		return errors.Wrap(err, "failed to write assembly")
	}
	log.Info("Wrote assembly", "path", output, "bytes", len(asm))
	fmt.Fprintf(s.stdout, "Compiled to: %s\n", output)
	return nil
}

func (s *cliState) runCommand(ctx *cli.Context) error {
	if ctx.NArg() == 0 {
		cli.ShowCommandHelp(ctx, "run")
		return errNoInput
	}
	name, source, err := s.readSource(ctx.Args().First())
	if err != nil {
		return err
	}
	asm, ok := compile(name, source, s.stderr)
	if !ok {
		return errReported
	}

	rc := s.cfg.Run
	if ctx.IsSet(spimFlag.Name) {
		rc.Spim = ctx.String(spimFlag.Name)
	}
	if ctx.IsSet(maxStepsFlag.Name) {
		rc.MaxSteps = ctx.Int(maxStepsFlag.Name)
	}

	if rc.Spim != "" {
		out, err := spimFn(context.Background(), rc.Spim, asm)
		if err != nil {
			return errors.Wrap(err, "execution failed")
		}
		_, err = io.WriteString(s.stdout, out)
		return err
	}
	log.Debug("Running on simulator", "maxsteps", rc.MaxSteps, "stack", rc.StackBytes, "heap", rc.HeapBytes)
	if err := mips.Execute(context.Background(), asm, rc.machine(), s.stdout); err != nil {
		return errors.Wrap(err, "execution failed")
	}
	return nil
}

func (s *cliState) readSource(path string) (string, string, error) {
	if path == "-" {
		data, err := io.ReadAll(s.stdin)
		if err != nil {
			return "", "", errors.Wrap(err, "failed to read stdin")
		}
		return "<stdin>", string(data), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", "", err
	}
	return path, string(data), nil
}

// outputPath replaces the extension of the input with .s.
func outputPath(input string) string {
	base := strings.TrimSuffix(input, filepath.Ext(input))
	return base + ".s"
}

// compile runs the front end and code generator, printing every diagnostic
// to w. It reports false when anything was printed.
func compile(name, source string, w io.Writer) (string, bool) {
	l := lexer.New(source)
	p := parser.New(l)
	program := p.ParseProgram()
	if errs := p.Errors(); len(errs) != 0 {
		for _, msg := range errs {
			printError(w, "Parse", name, source, parseErrorPosition(msg))
		}
		return "", false
	}

	table, err := symbols.Build(program)
	if err != nil {
		var se *symbols.Error
		if errors.As(err, &se) {
			printError(w, "Symbol", name, source, se.CodeError())
		} else {
			printError(w, "Symbol", name, source, diag.CodeError{Message: err.Error()})
		}
		return "", false
	}

	asm, err := codegen.New().Generate(program, table)
	if err != nil {
		var ce *codegen.Error
		if errors.As(err, &ce) {
			printError(w, "Codegen", name, source, ce.CodeError())
		} else {
			printError(w, "Codegen", name, source, diag.CodeError{Message: err.Error()})
		}
		return "", false
	}
	return asm, true
}

func printError(w io.Writer, kind, name, source string, ce diag.CodeError) {
	fmt.Fprintf(w, "%s error: %s: %s\n", kind, name, diag.Format(source, ce))
}

// parseErrorPosition splits a "line:col: message" parser error.
func parseErrorPosition(msg string) diag.CodeError {
	parts := strings.SplitN(msg, ": ", 2)
	if len(parts) != 2 {
		return diag.CodeError{Message: msg}
	}
	pos := strings.SplitN(parts[0], ":", 2)
	if len(pos) != 2 {
		return diag.CodeError{Message: msg}
	}
	line, err1 := strconv.Atoi(pos[0])
	col, err2 := strconv.Atoi(pos[1])
	if err1 != nil || err2 != nil {
		return diag.CodeError{Message: msg}
	}
	return diag.CodeError{Message: parts[1], Line: line, Column: col}
}
