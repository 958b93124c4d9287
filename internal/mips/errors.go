package mips

import "github.com/pkg/errors"

var (
	ErrSyntax          = errors.New("syntax error")
	ErrUnknownLabel    = errors.New("unknown label")
	ErrDuplicateLabel  = errors.New("duplicate label")
	ErrBadAddress      = errors.New("address out of range")
	ErrUnaligned       = errors.New("unaligned word access")
	ErrOverflow        = errors.New("arithmetic overflow")
	ErrBadSyscall      = errors.New("unsupported syscall")
	ErrHeapExhausted   = errors.New("heap exhausted")
	ErrStepLimit       = errors.New("step limit exceeded")
	ErrPCOutOfRange    = errors.New("program counter out of range")
	ErrSpimUnavailable = errors.New("spim executable not available")
)
