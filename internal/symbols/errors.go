package symbols

import (
	"fmt"

	"github.com/pkg/errors"

	"minijavac/internal/ast"
	"minijavac/internal/diag"
)

var (
	ErrDuplicateClass     = errors.New("duplicate class")
	ErrDuplicateField     = errors.New("duplicate field")
	ErrDuplicateMethod    = errors.New("duplicate method")
	ErrDuplicateParameter = errors.New("duplicate parameter")
	ErrDuplicateLocal     = errors.New("duplicate local")
	ErrUnknownParent      = errors.New("unknown parent class")
	ErrInheritanceCycle   = errors.New("inheritance cycle")
	ErrUnknownType        = errors.New("unknown class in type")
)

// Error is a positioned symbol-table error wrapping one of the sentinels.
type Error struct {
	Err     error
	Name    string
	Context string
	Line    int
	Column  int
}

func (e *Error) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("%d:%d: %s: %s", e.Line, e.Column, e.Err, e.Name)
	}
	return fmt.Sprintf("%s: %s", e.Err, e.Name)
}

func (e *Error) Cause() error  { return e.Err }
func (e *Error) Unwrap() error { return e.Err }

// CodeError converts e for source-snippet rendering.
func (e *Error) CodeError() diag.CodeError {
	return diag.CodeError{
		Message: fmt.Sprintf("%s: %s", e.Err, e.Name),
		Context: e.Context,
		Line:    e.Line,
		Column:  e.Column,
	}
}

func newError(sentinel error, name string, id *ast.Identifier) *Error {
	e := &Error{Err: sentinel, Name: name}
	if id != nil {
		e.Context = id.String()
		e.Line = id.Token.Line
		e.Column = id.Token.Column
	}
	return e
}
