package codegen

import (
	"minijavac/internal/ast"
	"minijavac/internal/symbols"
)

type methodContext struct {
	class  *symbols.Class
	method *symbols.Method
	isMain bool
}

func (cg *CodeGen) snapshotContext() methodContext {
	return methodContext{class: cg.class, method: cg.method, isMain: cg.isMain}
}

func (cg *CodeGen) restoreContext(st methodContext) {
	cg.class = st.class
	cg.method = st.method
	cg.isMain = st.isMain
}

// enterMethod switches the traversal context and returns the previous one.
func (cg *CodeGen) enterMethod(class *symbols.Class, method *symbols.Method, isMain bool) methodContext {
	saved := cg.snapshotContext()
	cg.class = class
	cg.method = method
	cg.isMain = isMain
	return saved
}

// generateMain emits the entry method. It has no receiver or return address,
// so it only reserves room for its locals.
func (cg *CodeGen) generateMain(mc *ast.MainClass) error {
	method := cg.table.Main.Method("main")
	if method == nil {
		return cg.fail(mc.Name, ErrUnknownMethod, "entry class %s has no main method", mc.Name.Value)
	}
	saved := cg.enterMethod(cg.table.Main, method, true)
	defer cg.restoreContext(saved)

	cg.emit("main:")
	cg.emit("    move $fp, $sp")
	cg.emit("    addiu $sp, $sp, %d", -4*(len(method.Locals)+1))
	for _, stmt := range mc.Body {
		if err := cg.generateStatement(stmt); err != nil {
			return err
		}
	}
	return nil
}

// generateMethod emits one method. On entry the caller has pushed its $fp,
// the receiver and the arguments (argument 0 last).
func (cg *CodeGen) generateMethod(class *symbols.Class, md *ast.MethodDecl) error {
	method := class.Methods[md.Name.Value]
	if method == nil {
		return cg.fail(md.Name, ErrUnknownMethod, "method %s.%s is not in the symbol table", class.Name, md.Name.Value)
	}
	saved := cg.enterMethod(class, method, false)
	defer cg.restoreContext(saved)

	label := entryLabel(class.Name, method.Name)
	cg.log.Debug("emit method", "class", class.Name, "method", method.Name, "label", label,
		"params", len(method.Params), "locals", len(method.Locals))

	cg.emit("# %s.%s", class.Name, method.Name)
	cg.emit("%s:", label)
	cg.emit("    move $fp, $sp")
	cg.emit("    sw $ra, 0($sp)")
	cg.emit("    addiu $sp, $sp, %d", -4*(len(method.Locals)+2))

	for _, stmt := range md.Body {
		if err := cg.generateStatement(stmt); err != nil {
			return err
		}
	}
	if _, err := cg.generateExpression(md.Return); err != nil {
		return err
	}

	cg.emit("    move $v0, $a0")
	cg.emit("    addiu $sp, $sp, %d", 4*(len(method.Locals)+1))
	cg.emit("    lw $ra, 4($sp)")
	cg.emit("    addiu $sp, $sp, %d", 4*len(method.Params)+12)
	cg.emit("    lw $fp, 0($sp)")
	cg.emit("    jr $ra")
	cg.emit("")
	return nil
}
