package codegen

import (
	"minijavac/internal/ast"
	"minijavac/internal/symbols"
)

// Object header: class tag, total byte size, dispatch word.
const headerWords = 3

func paramOffset(index int) int { return 4 * (index + 1) }

func localOffset(index int) int { return -4 * (index + 1) }

func thisOffset(paramCount int) int { return 4 * (paramCount + 1) }

func fieldOffset(index int) int { return 4 * (index + headerWords) }

// objectLayout is the allocation shape of a class instance.
type objectLayout struct {
	tag    int
	fields int
	bytes  int
}

// layoutOf computes (and memoises) the instance layout of c over its whole
// inheritance chain.
func (cg *CodeGen) layoutOf(c *symbols.Class, node ast.Node) (objectLayout, error) {
	if cached, ok := cg.layouts.Get(c); ok {
		return cached.(objectLayout), nil
	}
	l := objectLayout{tag: c.Tag, fields: c.FieldCount()}
	l.bytes = 4 * (headerWords + l.fields)
	if l.bytes < 4*headerWords {
		return objectLayout{}, cg.fail(node, ErrObjectLayout, "class %s is %d bytes, smaller than the object header", c.Name, l.bytes)
	}
	cg.layouts.Add(c, l)
	return l, nil
}

// lookupVariable resolves a name as parameter, then local, then field.
func (cg *CodeGen) lookupVariable(id *ast.Identifier) (*symbols.Variable, error) {
	name := id.Value
	if v := cg.method.Param(name); v != nil {
		return v, nil
	}
	if v := cg.method.Local(name); v != nil {
		return v, nil
	}
	if !cg.isMain {
		if v := cg.class.Field(name); v != nil {
			return v, nil
		}
	}
	return nil, cg.fail(id, ErrUnresolvedIdentifier, "cannot resolve %s in %s.%s", name, cg.class.Name, cg.method.Name)
}

// variableAddress returns the base register and byte offset of v. For fields
// it first loads the receiver into $t1. Every read and every write of a
// variable goes through here.
func (cg *CodeGen) variableAddress(v *symbols.Variable) (string, int) {
	switch v.Role {
	case symbols.Parameter:
		return "$fp", paramOffset(v.Index)
	case symbols.Local:
		return "$fp", localOffset(v.Index)
	default:
		cg.emit("    lw $t1, %d($fp)", thisOffset(len(cg.method.Params)))
		return "$t1", fieldOffset(v.Index)
	}
}

func (cg *CodeGen) loadVariable(v *symbols.Variable) {
	base, off := cg.variableAddress(v)
	cg.emit("    lw $a0, %d(%s)", off, base)
}

// storeVariable writes $a0 to v and leaves $a0 unchanged.
func (cg *CodeGen) storeVariable(v *symbols.Variable) {
	base, off := cg.variableAddress(v)
	cg.emit("    sw $a0, %d(%s)", off, base)
}
