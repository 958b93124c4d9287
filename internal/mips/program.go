package mips

import (
	"bufio"
	"encoding/binary"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

const (
	TextBase = 0x00400000
	DataBase = 0x10010000
	StackTop = 0x7ffffffc
)

// Instr is one decoded text-segment instruction.
type Instr struct {
	Op     string
	Rd     int
	Rs     int
	Rt     int
	Imm    int32
	UseImm bool // second source operand is Imm rather than Rt
	Label  string
	Line   int
}

// Program is an assembled text and data image.
type Program struct {
	Text       []Instr
	Data       []byte
	DataLabels map[string]uint32 // label -> address
	TextLabels map[string]int    // label -> instruction index
	Entry      string
}

// Address returns the memory address of a data or text label.
func (p *Program) Address(label string) (uint32, bool) {
	if a, ok := p.DataLabels[label]; ok {
		return a, true
	}
	if idx, ok := p.TextLabels[label]; ok {
		return TextBase + 4*uint32(idx), true
	}
	return 0, false
}

func (p *Program) defined(label string) bool {
	_, ok := p.Address(label)
	return ok
}

// Parse assembles SPIM-style source text.
func Parse(src string) (*Program, error) {
	p := &Program{DataLabels: map[string]uint32{}, TextLabels: map[string]int{}, Entry: "main"}
	inData := false
	type pending struct {
		fields []string
		op     string
		line   int
	}
	var instrs []pending

	sc := bufio.NewScanner(strings.NewReader(src))
	sc.Buffer(make([]byte, 0, 64*1024), 1<<20)
	lineNo := 0
	for sc.Scan() {
		lineNo++
		line := strings.TrimSpace(stripComment(sc.Text()))
		var lineLabels []string
		for line != "" {
			label, rest, ok := splitLabel(line)
			if !ok {
				break
			}
			if p.defined(label) {
				return nil, errors.Wrapf(ErrDuplicateLabel, "line %d: %s", lineNo, label)
			}
			if inData {
				p.DataLabels[label] = DataBase + uint32(len(p.Data))
				lineLabels = append(lineLabels, label)
			} else {
				p.TextLabels[label] = len(instrs)
			}
			line = rest
		}
		if line == "" {
			continue
		}

		op, args := splitOp(line)
		if strings.HasPrefix(op, ".") {
			switch op {
			case ".data":
				inData = true
			case ".text":
				inData = false
			case ".globl", ".align":
			case ".asciiz":
				s, err := unquote(args)
				if err != nil {
					return nil, errors.Wrapf(ErrSyntax, "line %d: %v", lineNo, err)
				}
				p.Data = append(p.Data, s...)
				p.Data = append(p.Data, 0)
			case ".word":
				for len(p.Data)%4 != 0 {
					p.Data = append(p.Data, 0)
				}
				for _, l := range lineLabels {
					p.DataLabels[l] = DataBase + uint32(len(p.Data))
				}
				for _, f := range splitArgs(args) {
					v, err := parseImm(f)
					if err != nil {
						return nil, errors.Wrapf(ErrSyntax, "line %d: bad word %q", lineNo, f)
					}
					p.Data = binary.LittleEndian.AppendUint32(p.Data, uint32(v))
				}
			default:
				return nil, errors.Wrapf(ErrSyntax, "line %d: unknown directive %s", lineNo, op)
			}
			continue
		}
		if inData {
			return nil, errors.Wrapf(ErrSyntax, "line %d: instruction in data segment", lineNo)
		}
		instrs = append(instrs, pending{fields: splitArgs(args), op: op, line: lineNo})
	}
	if err := sc.Err(); err != nil {
		return nil, errors.Wrap(err, "read source")
	}

	p.Text = make([]Instr, 0, len(instrs))
	for _, pi := range instrs {
		in, err := decode(pi.op, pi.fields)
		if err != nil {
			return nil, errors.Wrapf(err, "line %d", pi.line)
		}
		if in.Label != "" && !p.defined(in.Label) {
			return nil, errors.Wrapf(ErrUnknownLabel, "line %d: %s", pi.line, in.Label)
		}
		in.Line = pi.line
		p.Text = append(p.Text, in)
	}
	if _, ok := p.TextLabels[p.Entry]; !ok {
		return nil, errors.Wrapf(ErrUnknownLabel, "entry %s", p.Entry)
	}
	return p, nil
}

type operandKind int

const (
	opReg operandKind = iota
	opRegOrImm
	opImm
	opMem
	opLabel
)

var formats = map[string][]operandKind{
	"li":      {opReg, opImm},
	"la":      {opReg, opLabel},
	"move":    {opReg, opReg},
	"lw":      {opReg, opMem},
	"sw":      {opReg, opMem},
	"addi":    {opReg, opReg, opImm},
	"addiu":   {opReg, opReg, opImm},
	"add":     {opReg, opReg, opRegOrImm},
	"addu":    {opReg, opReg, opRegOrImm},
	"sub":     {opReg, opReg, opRegOrImm},
	"subu":    {opReg, opReg, opRegOrImm},
	"and":     {opReg, opReg, opRegOrImm},
	"or":      {opReg, opReg, opRegOrImm},
	"nor":     {opReg, opReg, opRegOrImm},
	"slt":     {opReg, opReg, opRegOrImm},
	"sll":     {opReg, opReg, opImm},
	"mult":    {opReg, opReg},
	"mflo":    {opReg},
	"beq":     {opReg, opRegOrImm, opLabel},
	"bne":     {opReg, opRegOrImm, opLabel},
	"bgeu":    {opReg, opRegOrImm, opLabel},
	"bge":     {opReg, opRegOrImm, opLabel},
	"bgt":     {opReg, opRegOrImm, opLabel},
	"blt":     {opReg, opRegOrImm, opLabel},
	"bltz":    {opReg, opLabel},
	"j":       {opLabel},
	"jal":     {opLabel},
	"jr":      {opReg},
	"syscall": {},
}

// decode maps operands onto Instr fields. The first register is Rd, the
// second Rs and a trailing register operand Rt. Memory operands set Rs and Imm.
func decode(op string, args []string) (Instr, error) {
	in := Instr{Op: op}
	kinds, ok := formats[op]
	if !ok {
		return in, errors.Wrapf(ErrSyntax, "unknown instruction %s", op)
	}
	if len(args) != len(kinds) {
		return in, errors.Wrapf(ErrSyntax, "%s expects %d operands, got %d", op, len(kinds), len(args))
	}
	regs := 0
	for i, kind := range kinds {
		a := args[i]
		switch kind {
		case opReg, opRegOrImm:
			if r, ok := parseRegister(a); ok {
				switch regs {
				case 0:
					in.Rd = r
				case 1:
					in.Rs = r
				default:
					in.Rt = r
				}
				regs++
				continue
			}
			if kind == opReg {
				return in, errors.Wrapf(ErrSyntax, "%s: bad register %q", op, a)
			}
			v, err := parseImm(a)
			if err != nil {
				return in, errors.Wrapf(ErrSyntax, "%s: bad operand %q", op, a)
			}
			in.Imm, in.UseImm = v, true
		case opImm:
			v, err := parseImm(a)
			if err != nil {
				return in, errors.Wrapf(ErrSyntax, "%s: bad immediate %q", op, a)
			}
			in.Imm, in.UseImm = v, true
		case opMem:
			open := strings.IndexByte(a, '(')
			if open < 0 || !strings.HasSuffix(a, ")") {
				return in, errors.Wrapf(ErrSyntax, "%s: bad memory operand %q", op, a)
			}
			if off := strings.TrimSpace(a[:open]); off != "" {
				v, err := parseImm(off)
				if err != nil {
					return in, errors.Wrapf(ErrSyntax, "%s: bad offset %q", op, off)
				}
				in.Imm = v
			}
			r, ok := parseRegister(strings.TrimSpace(a[open+1 : len(a)-1]))
			if !ok {
				return in, errors.Wrapf(ErrSyntax, "%s: bad base register in %q", op, a)
			}
			in.Rs = r
		case opLabel:
			if !isLabel(a) {
				return in, errors.Wrapf(ErrSyntax, "%s: bad label %q", op, a)
			}
			in.Label = a
		}
	}
	return in, nil
}

func parseImm(s string) (int32, error) {
	v, err := strconv.ParseInt(s, 0, 64)
	if err != nil {
		return 0, err
	}
	if v < -1<<31 || v > 1<<32-1 {
		return 0, strconv.ErrRange
	}
	return int32(uint32(v)), nil
}

// stripComment drops a trailing # comment that is not inside a string.
func stripComment(line string) string {
	inStr := false
	for i := 0; i < len(line); i++ {
		switch line[i] {
		case '\\':
			if inStr {
				i++
			}
		case '"':
			inStr = !inStr
		case '#':
			if !inStr {
				return line[:i]
			}
		}
	}
	return line
}

// splitLabel splits "name: rest" when the line starts with a label.
func splitLabel(line string) (string, string, bool) {
	colon := strings.IndexByte(line, ':')
	if colon <= 0 {
		return "", line, false
	}
	name := line[:colon]
	if !isLabel(name) {
		return "", line, false
	}
	return name, strings.TrimSpace(line[colon+1:]), true
}

func isLabel(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c == '_' || c == '$' || c == '.':
		case 'a' <= c && c <= 'z' || 'A' <= c && c <= 'Z':
		case '0' <= c && c <= '9':
			if i == 0 {
				return false
			}
		default:
			return false
		}
	}
	_, isReg := parseRegister(s)
	return !isReg
}

func splitOp(line string) (string, string) {
	idx := strings.IndexAny(line, " \t")
	if idx < 0 {
		return line, ""
	}
	return line[:idx], strings.TrimSpace(line[idx+1:])
}

func splitArgs(args string) []string {
	if strings.TrimSpace(args) == "" {
		return nil
	}
	parts := strings.Split(args, ",")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return parts
}

func unquote(s string) (string, error) {
	s = strings.TrimSpace(s)
	if len(s) < 2 || s[0] != '"' || s[len(s)-1] != '"' {
		return "", errors.Errorf("bad string literal %s", s)
	}
	var b strings.Builder
	body := s[1 : len(s)-1]
	for i := 0; i < len(body); i++ {
		c := body[i]
		if c != '\\' {
			b.WriteByte(c)
			continue
		}
		i++
		if i >= len(body) {
			return "", errors.Errorf("dangling escape in %s", s)
		}
		switch body[i] {
		case 'n':
			b.WriteByte('\n')
		case 't':
			b.WriteByte('\t')
		case '0':
			b.WriteByte(0)
		case '\\', '"':
			b.WriteByte(body[i])
		default:
			return "", errors.Errorf("unknown escape \\%c", body[i])
		}
	}
	return b.String(), nil
}
