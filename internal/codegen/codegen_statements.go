package codegen

import (
	"minijavac/internal/ast"
	"minijavac/internal/symbols"
)

func (cg *CodeGen) generateStatement(stmt ast.Statement) error {
	switch s := stmt.(type) {
	case *ast.BlockStatement:
		return cg.generateBlockStatement(s)
	case *ast.IfStatement:
		return cg.generateIf(s)
	case *ast.WhileStatement:
		return cg.generateWhile(s)
	case *ast.PrintStatement:
		return cg.generatePrint(s)
	case *ast.AssignStatement:
		return cg.generateAssign(s)
	case *ast.ArrayAssignStatement:
		return cg.generateArrayAssign(s)
	default:
		return cg.fail(stmt, ErrUnsupportedNode, "cannot generate statement %T", stmt)
	}
}

func (cg *CodeGen) generateBlockStatement(block *ast.BlockStatement) error {
	for _, stmt := range block.Statements {
		if err := cg.generateStatement(stmt); err != nil {
			return err
		}
	}
	return nil
}

func (cg *CodeGen) generateIf(is *ast.IfStatement) error {
	elseLabel := cg.newLabel()
	endLabel := cg.newLabel()

	if _, err := cg.generateExpression(is.Condition); err != nil {
		return err
	}
	cg.emit("    beq $a0, $zero, %s", elseLabel)
	if err := cg.generateStatement(is.Consequence); err != nil {
		return err
	}
	cg.emit("    j %s", endLabel)
	cg.emit("%s:", elseLabel)
	if err := cg.generateStatement(is.Alternative); err != nil {
		return err
	}
	cg.emit("%s:", endLabel)
	return nil
}

func (cg *CodeGen) generateWhile(ws *ast.WhileStatement) error {
	topLabel := cg.newLabel()
	exitLabel := cg.newLabel()

	cg.emit("%s:", topLabel)
	if _, err := cg.generateExpression(ws.Condition); err != nil {
		return err
	}
	cg.emit("    beq $a0, $zero, %s", exitLabel)
	if err := cg.generateStatement(ws.Body); err != nil {
		return err
	}
	cg.emit("    j %s", topLabel)
	cg.emit("%s:", exitLabel)
	return nil
}

func (cg *CodeGen) generatePrint(ps *ast.PrintStatement) error {
	if _, err := cg.generateExpression(ps.Value); err != nil {
		return err
	}
	cg.emit("    jal %s", labelPrintInt)
	return nil
}

// generateAssign stores the value in the target slot. A reference-typed
// target rejects a null value before the store.
func (cg *CodeGen) generateAssign(as *ast.AssignStatement) error {
	if _, err := cg.generateExpression(as.Value); err != nil {
		return err
	}
	v, err := cg.lookupVariable(as.Name)
	if err != nil {
		return err
	}
	if v.Type.IsReference() {
		cg.nullCheck("$a0")
	}
	cg.storeVariable(v)
	return nil
}

// generateArrayAssign evaluates index then value, then checks the array
// pointer and the bounds before storing.
func (cg *CodeGen) generateArrayAssign(aa *ast.ArrayAssignStatement) error {
	v, err := cg.lookupVariable(aa.Name)
	if err != nil {
		return err
	}
	if v.Type.Kind != symbols.KindIntArray {
		return cg.fail(aa.Name, ErrNotArray, "%s has type %s", v.Name, v.Type)
	}

	if _, err := cg.generateExpression(aa.Index); err != nil {
		return err
	}
	cg.push("$a0")
	if _, err := cg.generateExpression(aa.Value); err != nil {
		return err
	}
	cg.push("$a0")

	cg.loadVariable(v)
	cg.nullCheck("$a0")
	cg.emit("    lw $t1, 8($sp)        # index")
	cg.emit("    lw $t2, 0($a0)        # length")
	cg.emit("    bgeu $t1, $t2, %s", labelIndexOutOfBound)
	cg.emit("    sll $t1, $t1, 2")
	cg.emit("    addu $t1, $t1, $a0")
	cg.emit("    lw $t2, 4($sp)        # value")
	cg.emit("    sw $t2, 4($t1)")
	cg.emit("    addiu $sp, $sp, 8")
	return nil
}
