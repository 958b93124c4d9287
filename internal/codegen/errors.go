package codegen

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"

	"minijavac/internal/ast"
	"minijavac/internal/diag"
	"minijavac/internal/token"
)

var (
	ErrUnresolvedIdentifier = errors.New("unresolved identifier")
	ErrUnknownClass         = errors.New("unknown class")
	ErrUnknownMethod        = errors.New("unknown method")
	ErrObjectLayout         = errors.New("invalid object layout")
	ErrThisInMain           = errors.New("this used in entry method")
	ErrArity                = errors.New("argument count mismatch")
	ErrNotObject            = errors.New("receiver is not an object")
	ErrNotArray             = errors.New("not an int array")
	ErrDuplicateLabel       = errors.New("duplicate entry label")
	ErrUnsupportedNode      = errors.New("unsupported node")
)

// Error is a generation failure tied to the offending node.
type Error struct {
	Err     error
	Message string
	Context string
	Line    int
	Column  int
}

func (e *Error) Error() string {
	msg := e.Message
	if e.Context != "" {
		msg = fmt.Sprintf("%s (at `%s`)", msg, e.Context)
	}
	if e.Line > 0 {
		return fmt.Sprintf("%d:%d: %s", e.Line, e.Column, msg)
	}
	return msg
}

func (e *Error) Cause() error  { return e.Err }
func (e *Error) Unwrap() error { return e.Err }

// CodeError converts e for source-snippet rendering.
func (e *Error) CodeError() diag.CodeError {
	return diag.CodeError{Message: e.Message, Context: e.Context, Line: e.Line, Column: e.Column}
}

func (cg *CodeGen) fail(node ast.Node, sentinel error, format string, args ...interface{}) *Error {
	e := &Error{
		Err:     sentinel,
		Message: errors.Wrapf(sentinel, format, args...).Error(),
	}
	if node != nil {
		e.Context = strings.TrimSpace(node.String())
		if e.Context == "" {
			e.Context = strings.TrimSpace(node.TokenLiteral())
		}
		if tok, ok := tokenFromNode(node); ok {
			e.Line = tok.Line
			e.Column = tok.Column
		}
	}
	cg.log.Debug("generation failed", "err", e.Message, "line", e.Line, "col", e.Column)
	return e
}

func tokenFromNode(node ast.Node) (token.Token, bool) {
	var tok token.Token
	switch n := node.(type) {
	case *ast.Identifier:
		tok = n.Token
	case *ast.IntegerLiteral:
		tok = n.Token
	case *ast.Boolean:
		tok = n.Token
	case *ast.ThisExpression:
		tok = n.Token
	case *ast.PrefixExpression:
		tok = n.Token
	case *ast.InfixExpression:
		tok = n.Token
	case *ast.IndexExpression:
		tok = n.Token
	case *ast.LengthExpression:
		tok = n.Token
	case *ast.CallExpression:
		tok = n.Token
	case *ast.NewArrayExpression:
		tok = n.Token
	case *ast.NewObjectExpression:
		tok = n.Token
	case *ast.BlockStatement:
		tok = n.Token
	case *ast.IfStatement:
		tok = n.Token
	case *ast.WhileStatement:
		tok = n.Token
	case *ast.PrintStatement:
		tok = n.Token
	case *ast.AssignStatement:
		tok = n.Token
	case *ast.ArrayAssignStatement:
		tok = n.Token
	default:
		return token.Token{}, false
	}
	return tok, tok.Line > 0 && tok.Column > 0
}
