package mips

import (
	"context"
	"encoding/binary"
	"fmt"
	"io"

	"github.com/pkg/errors"
	"gopkg.in/inconshreveable/log15.v2"
)

const stackEnd = uint64(StackTop) + 4

var logger = log15.New("pkg", "mips")

// Machine executes a Program. It is not safe for concurrent use.
type Machine struct {
	prog *Program
	cfg  Config
	out  io.Writer

	regs   [32]uint32
	hi, lo uint32
	pc     int

	heap  []byte // data image followed by memory handed out by sbrk, based at DataBase
	stack []byte // ends at StackTop+4

	steps  int
	exited bool
}

// New prepares a machine with the program's data loaded and $sp at StackTop.
func New(prog *Program, cfg Config, out io.Writer) *Machine {
	m := &Machine{prog: prog, cfg: cfg, out: out}
	m.heap = append([]byte(nil), prog.Data...)
	for len(m.heap)%4 != 0 {
		m.heap = append(m.heap, 0)
	}
	m.stack = make([]byte, cfg.StackBytes)
	if cfg.Poison {
		fillPoison(m.stack)
	}
	m.regs[regSP] = StackTop
	m.regs[28] = 0x10008000
	m.pc = prog.TextLabels[prog.Entry]
	return m
}

// Execute assembles src and runs it to completion.
func Execute(ctx context.Context, src string, cfg Config, out io.Writer) error {
	prog, err := Parse(src)
	if err != nil {
		return err
	}
	return New(prog, cfg, out).Run(ctx)
}

// Steps reports how many instructions have executed.
func (m *Machine) Steps() int { return m.steps }

// Register returns the current value of register r.
func (m *Machine) Register(r int) uint32 { return m.regs[r&31] }

// Exited reports whether the program terminated through the exit syscall.
func (m *Machine) Exited() bool { return m.exited }

// Run executes until the exit syscall, a machine fault or cancellation.
func (m *Machine) Run(ctx context.Context) error {
	for !m.exited {
		if m.cfg.MaxSteps > 0 && m.steps >= m.cfg.MaxSteps {
			return errors.Wrapf(ErrStepLimit, "after %d steps", m.steps)
		}
		if m.steps%4096 == 0 {
			if err := ctx.Err(); err != nil {
				return err
			}
		}
		if err := m.step(); err != nil {
			if m.pc >= 0 && m.pc < len(m.prog.Text) {
				return errors.Wrapf(err, "line %d (%s)", m.prog.Text[m.pc].Line, m.prog.Text[m.pc].Op)
			}
			return err
		}
	}
	logger.Debug("program exited", "steps", m.steps, "heap", len(m.heap))
	return nil
}

// target resolves the text label of a branch or jump.
func (m *Machine) target(in *Instr) (int, error) {
	idx, ok := m.prog.TextLabels[in.Label]
	if !ok {
		return 0, errors.Wrapf(ErrUnknownLabel, "%s %s", in.Op, in.Label)
	}
	return idx, nil
}

func (m *Machine) step() error {
	if m.pc < 0 || m.pc >= len(m.prog.Text) {
		return errors.Wrapf(ErrPCOutOfRange, "index %d", m.pc)
	}
	in := &m.prog.Text[m.pc]
	m.steps++
	next := m.pc + 1
	r := &m.regs

	switch in.Op {
	case "li":
		r[in.Rd] = uint32(in.Imm)
	case "la":
		addr, ok := m.prog.Address(in.Label)
		if !ok {
			return errors.Wrapf(ErrUnknownLabel, "la %s", in.Label)
		}
		r[in.Rd] = addr
	case "move":
		r[in.Rd] = r[in.Rs]
	case "lw":
		v, err := m.loadWord(r[in.Rs] + uint32(in.Imm))
		if err != nil {
			return err
		}
		r[in.Rd] = v
	case "sw":
		if err := m.storeWord(r[in.Rs]+uint32(in.Imm), r[in.Rd]); err != nil {
			return err
		}
	case "add", "addi":
		sum := int64(int32(r[in.Rs])) + int64(int32(m.operand(in, in.Rt)))
		if sum != int64(int32(sum)) {
			return ErrOverflow
		}
		r[in.Rd] = uint32(sum)
	case "addu", "addiu":
		r[in.Rd] = r[in.Rs] + m.operand(in, in.Rt)
	case "sub":
		diff := int64(int32(r[in.Rs])) - int64(int32(m.operand(in, in.Rt)))
		if diff != int64(int32(diff)) {
			return ErrOverflow
		}
		r[in.Rd] = uint32(diff)
	case "subu":
		r[in.Rd] = r[in.Rs] - m.operand(in, in.Rt)
	case "and":
		r[in.Rd] = r[in.Rs] & m.operand(in, in.Rt)
	case "or":
		r[in.Rd] = r[in.Rs] | m.operand(in, in.Rt)
	case "nor":
		r[in.Rd] = ^(r[in.Rs] | m.operand(in, in.Rt))
	case "slt":
		if int32(r[in.Rs]) < int32(m.operand(in, in.Rt)) {
			r[in.Rd] = 1
		} else {
			r[in.Rd] = 0
		}
	case "sll":
		r[in.Rd] = r[in.Rs] << (uint32(in.Imm) & 31)
	case "mult":
		prod := int64(int32(r[in.Rd])) * int64(int32(r[in.Rs]))
		m.lo = uint32(prod)
		m.hi = uint32(prod >> 32)
	case "mflo":
		r[in.Rd] = m.lo
	case "beq", "bne", "bgeu", "bge", "bgt", "blt":
		a, b := r[in.Rd], m.operand(in, in.Rs)
		var taken bool
		switch in.Op {
		case "beq":
			taken = a == b
		case "bne":
			taken = a != b
		case "bgeu":
			taken = a >= b
		case "bge":
			taken = int32(a) >= int32(b)
		case "bgt":
			taken = int32(a) > int32(b)
		case "blt":
			taken = int32(a) < int32(b)
		}
		if taken {
			target, err := m.target(in)
			if err != nil {
				return err
			}
			next = target
		}
	case "bltz":
		if int32(r[in.Rd]) < 0 {
			target, err := m.target(in)
			if err != nil {
				return err
			}
			next = target
		}
	case "j", "jal":
		target, err := m.target(in)
		if err != nil {
			return err
		}
		if in.Op == "jal" {
			r[regRA] = TextBase + 4*uint32(next)
		}
		next = target
	case "jr":
		addr := r[in.Rd]
		if addr < TextBase || addr%4 != 0 {
			return errors.Wrapf(ErrPCOutOfRange, "jump to %#x", addr)
		}
		next = int((addr - TextBase) / 4)
	case "syscall":
		if err := m.syscall(); err != nil {
			return err
		}
	default:
		return errors.Wrapf(ErrSyntax, "unknown instruction %s", in.Op)
	}

	r[regZero] = 0
	if !m.exited {
		m.pc = next
	}
	return nil
}

func (m *Machine) operand(in *Instr, reg int) uint32 {
	if in.UseImm {
		return uint32(in.Imm)
	}
	return m.regs[reg]
}

func (m *Machine) syscall() error {
	a0 := m.regs[regA0]
	switch code := m.regs[regV0]; code {
	case 1:
		if _, err := fmt.Fprint(m.out, int32(a0)); err != nil {
			return errors.Wrap(err, "print int")
		}
	case 4:
		s, err := m.cstring(a0)
		if err != nil {
			return err
		}
		if _, err := io.WriteString(m.out, s); err != nil {
			return errors.Wrap(err, "print string")
		}
	case 9:
		addr, err := m.sbrk(int32(a0))
		if err != nil {
			return err
		}
		m.regs[regV0] = addr
	case 10:
		m.exited = true
	default:
		return errors.Wrapf(ErrBadSyscall, "code %d", code)
	}
	return nil
}

// sbrk extends the heap by n bytes rounded up to a word and returns the old break.
func (m *Machine) sbrk(n int32) (uint32, error) {
	if n < 0 {
		return 0, errors.Wrapf(ErrHeapExhausted, "negative sbrk %d", n)
	}
	size := (int(n) + 3) &^ 3
	if len(m.heap)+size > m.cfg.HeapBytes {
		return 0, errors.Wrapf(ErrHeapExhausted, "sbrk %d with %d of %d bytes in use", n, len(m.heap), m.cfg.HeapBytes)
	}
	brk := DataBase + uint32(len(m.heap))
	fresh := make([]byte, size)
	if m.cfg.Poison {
		fillPoison(fresh)
	}
	m.heap = append(m.heap, fresh...)
	logger.Debug("sbrk", "bytes", size, "addr", fmt.Sprintf("%#x", brk))
	return brk, nil
}

// segment maps an address range onto backing memory.
func (m *Machine) segment(addr uint32, n int) ([]byte, error) {
	a := uint64(addr)
	if a >= DataBase && a+uint64(n) <= DataBase+uint64(len(m.heap)) {
		off := a - DataBase
		return m.heap[off : off+uint64(n)], nil
	}
	base := stackEnd - uint64(len(m.stack))
	if a >= base && a+uint64(n) <= stackEnd {
		off := a - base
		return m.stack[off : off+uint64(n)], nil
	}
	return nil, errors.Wrapf(ErrBadAddress, "%#x", addr)
}

func (m *Machine) loadWord(addr uint32) (uint32, error) {
	if addr%4 != 0 {
		return 0, errors.Wrapf(ErrUnaligned, "%#x", addr)
	}
	b, err := m.segment(addr, 4)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(b), nil
}

func (m *Machine) storeWord(addr, v uint32) error {
	if addr%4 != 0 {
		return errors.Wrapf(ErrUnaligned, "%#x", addr)
	}
	b, err := m.segment(addr, 4)
	if err != nil {
		return err
	}
	binary.LittleEndian.PutUint32(b, v)
	return nil
}

// ReadWord reads a word of simulated memory.
func (m *Machine) ReadWord(addr uint32) (uint32, error) { return m.loadWord(addr) }

func (m *Machine) cstring(addr uint32) (string, error) {
	var out []byte
	for {
		b, err := m.segment(addr, 1)
		if err != nil {
			return "", err
		}
		if b[0] == 0 {
			return string(out), nil
		}
		out = append(out, b[0])
		addr++
	}
}

func fillPoison(b []byte) {
	for i := 0; i+4 <= len(b); i += 4 {
		binary.LittleEndian.PutUint32(b[i:], poisonWord)
	}
}
