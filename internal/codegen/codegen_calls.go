package codegen

import (
	"minijavac/internal/ast"
	"minijavac/internal/symbols"
)

// generateCall resolves the method statically on the receiver's type and
// builds the callee's incoming frame: saved $fp, receiver, then arguments
// from last to first so argument 0 sits nearest the callee's $fp.
func (cg *CodeGen) generateCall(ce *ast.CallExpression) (symbols.Type, error) {
	recv, err := cg.generateExpression(ce.Receiver)
	if err != nil {
		return symbols.Type{}, err
	}
	if recv.Kind != symbols.KindClass {
		return symbols.Type{}, cg.fail(ce, ErrNotObject, "cannot call %s on a value of type %s", ce.Method.Value, recv)
	}
	class := cg.table.Class(recv.Class)
	if class == nil {
		return symbols.Type{}, cg.fail(ce, ErrUnknownClass, "receiver class %s", recv.Class)
	}
	method := class.Method(ce.Method.Value)
	if method == nil {
		return symbols.Type{}, cg.fail(ce.Method, ErrUnknownMethod, "%s has no method %s", class.Name, ce.Method.Value)
	}
	if len(ce.Arguments) != len(method.Params) {
		return symbols.Type{}, cg.fail(ce, ErrArity, "%s.%s takes %d arguments, got %d",
			method.Owner.Name, method.Name, len(method.Params), len(ce.Arguments))
	}

	cg.nullCheck("$a0")
	cg.push("$fp")
	cg.push("$a0")
	for i := len(ce.Arguments) - 1; i >= 0; i-- {
		if _, err := cg.generateExpression(ce.Arguments[i]); err != nil {
			return symbols.Type{}, err
		}
		cg.push("$a0")
	}
	cg.emit("    jal %s", entryLabel(method.Owner.Name, method.Name))
	cg.emit("    move $a0, $v0")
	return method.ReturnType, nil
}
