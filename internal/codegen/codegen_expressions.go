package codegen

import (
	"minijavac/internal/ast"
	"minijavac/internal/symbols"
)

// generateExpression leaves the value in $a0 and the operand stack at its
// prior depth. The returned type is the expression's static type; for class
// types it decides which class a method call resolves against.
func (cg *CodeGen) generateExpression(expr ast.Expression) (symbols.Type, error) {
	switch e := expr.(type) {
	case *ast.IntegerLiteral:
		cg.emit("    li $a0, %d", e.Value)
		return symbols.Int, nil
	case *ast.Boolean:
		cg.emit("    li $a0, 0")
		if e.Value {
			cg.emit("    nor $a0, $a0, $a0")
		}
		return symbols.Boolean, nil
	case *ast.ThisExpression:
		return cg.generateThis(e)
	case *ast.Identifier:
		v, err := cg.lookupVariable(e)
		if err != nil {
			return symbols.Type{}, err
		}
		cg.loadVariable(v)
		return v.Type, nil
	case *ast.PrefixExpression:
		return cg.generatePrefix(e)
	case *ast.InfixExpression:
		return cg.generateInfix(e)
	case *ast.IndexExpression:
		return cg.generateIndex(e)
	case *ast.LengthExpression:
		return cg.generateLength(e)
	case *ast.NewArrayExpression:
		if _, err := cg.generateExpression(e.Size); err != nil {
			return symbols.Type{}, err
		}
		cg.emit("    jal %s", labelAllocIntArray)
		cg.emit("    move $a0, $v0")
		return symbols.IntArray, nil
	case *ast.NewObjectExpression:
		return cg.generateNewObject(e)
	case *ast.CallExpression:
		return cg.generateCall(e)
	default:
		return symbols.Type{}, cg.fail(expr, ErrUnsupportedNode, "cannot generate expression %T", expr)
	}
}

func (cg *CodeGen) generateThis(te *ast.ThisExpression) (symbols.Type, error) {
	if cg.isMain {
		return symbols.Type{}, cg.fail(te, ErrThisInMain, "this has no receiver in %s.main", cg.class.Name)
	}
	cg.emit("    lw $a0, %d($fp)", thisOffset(len(cg.method.Params)))
	return symbols.ClassType(cg.class.Name), nil
}

// generatePrefix handles !e as a bitwise complement; true is all ones.
func (cg *CodeGen) generatePrefix(pe *ast.PrefixExpression) (symbols.Type, error) {
	if pe.Operator != "!" {
		return symbols.Type{}, cg.fail(pe, ErrUnsupportedNode, "unknown prefix operator %s", pe.Operator)
	}
	if _, err := cg.generateExpression(pe.Right); err != nil {
		return symbols.Type{}, err
	}
	cg.emit("    nor $a0, $a0, $a0")
	return symbols.Boolean, nil
}

func (cg *CodeGen) generateInfix(ie *ast.InfixExpression) (symbols.Type, error) {
	if _, err := cg.generateExpression(ie.Left); err != nil {
		return symbols.Type{}, err
	}
	cg.push("$a0")
	if _, err := cg.generateExpression(ie.Right); err != nil {
		return symbols.Type{}, err
	}
	cg.emit("    lw $t1, 4($sp)")

	result := symbols.Int
	switch ie.Operator {
	case "&&":
		cg.emit("    and $a0, $t1, $a0")
		result = symbols.Boolean
	case "<":
		// slt yields 0/1; negate to keep true as all ones for !
		cg.emit("    slt $a0, $t1, $a0")
		cg.emit("    subu $a0, $zero, $a0")
		result = symbols.Boolean
	case "+":
		cg.emit("    addu $a0, $t1, $a0")
	case "-":
		cg.emit("    subu $a0, $t1, $a0")
	case "*":
		cg.emit("    mult $t1, $a0")
		cg.emit("    mflo $a0")
	default:
		return symbols.Type{}, cg.fail(ie, ErrUnsupportedNode, "unknown infix operator %s", ie.Operator)
	}
	cg.emit("    addiu $sp, $sp, 4")
	return result, nil
}

func (cg *CodeGen) generateIndex(ie *ast.IndexExpression) (symbols.Type, error) {
	t, err := cg.generateExpression(ie.Left)
	if err != nil {
		return symbols.Type{}, err
	}
	if t.Kind != symbols.KindIntArray {
		return symbols.Type{}, cg.fail(ie, ErrNotArray, "cannot index a value of type %s", t)
	}
	cg.push("$a0")
	if _, err := cg.generateExpression(ie.Index); err != nil {
		return symbols.Type{}, err
	}
	cg.emit("    lw $t1, 4($sp)        # array")
	cg.emit("    addiu $sp, $sp, 4")
	cg.nullCheck("$t1")
	cg.emit("    lw $t2, 0($t1)        # length")
	cg.emit("    bgeu $a0, $t2, %s", labelIndexOutOfBound)
	cg.emit("    sll $a0, $a0, 2")
	cg.emit("    addu $a0, $a0, $t1")
	cg.emit("    lw $a0, 4($a0)")
	return symbols.Int, nil
}

func (cg *CodeGen) generateLength(le *ast.LengthExpression) (symbols.Type, error) {
	t, err := cg.generateExpression(le.Array)
	if err != nil {
		return symbols.Type{}, err
	}
	if t.Kind != symbols.KindIntArray {
		return symbols.Type{}, cg.fail(le, ErrNotArray, "length of a value of type %s", t)
	}
	cg.emit("    lw $a0, 0($a0)")
	return symbols.Int, nil
}

// generateNewObject allocates the header plus every field slot of the class
// chain and zero-fills the fields.
func (cg *CodeGen) generateNewObject(no *ast.NewObjectExpression) (symbols.Type, error) {
	class := cg.table.Class(no.Class.Value)
	if class == nil || class == cg.table.Main {
		return symbols.Type{}, cg.fail(no.Class, ErrUnknownClass, "cannot instantiate %s", no.Class.Value)
	}
	layout, err := cg.layoutOf(class, no)
	if err != nil {
		return symbols.Type{}, err
	}

	loop := cg.newLabel()
	done := cg.newLabel()
	cg.emit("    li $a0, %d", layout.bytes)
	cg.emit("    li $v0, 9")
	cg.emit("    syscall")
	cg.emit("    move $a0, $v0")
	cg.emit("    li $t1, %d", layout.tag)
	cg.emit("    sw $t1, 0($a0)        # class tag")
	cg.emit("    li $t1, %d", layout.bytes)
	cg.emit("    sw $t1, 4($a0)        # object size")
	cg.emit("    sw $zero, 8($a0)      # dispatch word")
	cg.emit("    addiu $t1, $a0, %d", 4*headerWords)
	cg.emit("    li $t0, 0")
	cg.emit("    li $t2, %d", layout.fields)
	cg.emit("%s:", loop)
	cg.emit("    bge $t0, $t2, %s", done)
	cg.emit("    sw $zero, 0($t1)")
	cg.emit("    addiu $t1, $t1, 4")
	cg.emit("    addiu $t0, $t0, 1")
	cg.emit("    j %s", loop)
	cg.emit("%s:", done)
	return symbols.ClassType(class.Name), nil
}
