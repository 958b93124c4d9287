package codegen

import (
	"fmt"
	"strings"

	lru "github.com/hashicorp/golang-lru"
	"gopkg.in/inconshreveable/log15.v2"

	"minijavac/internal/ast"
	"minijavac/internal/symbols"
)

const layoutCacheSize = 256

// CodeGen holds the state for code generation
type CodeGen struct {
	output     strings.Builder
	labelCount int
	table      *symbols.Table

	// traversal context, saved and restored around each method
	class  *symbols.Class
	method *symbols.Method
	isMain bool

	entryLabels map[string]string // label -> Class.method that owns it
	layouts     *lru.Cache        // *symbols.Class -> objectLayout
	log         log15.Logger
}

// New creates a new code generator. A CodeGen may be reused for many programs
// one after another but is not safe for concurrent use.
func New() *CodeGen {
	layouts, err := lru.New(layoutCacheSize)
	if err != nil {
		panic(err)
	}
	return &CodeGen{
		entryLabels: make(map[string]string),
		layouts:     layouts,
		log:         log15.New("pkg", "codegen"),
	}
}

// Generate produces SPIM assembly for a program and its symbol table. It stops
// at the first error, which is always a *Error.
func (cg *CodeGen) Generate(program *ast.Program, table *symbols.Table) (string, error) {
	cg.reset()
	if program == nil || program.Main == nil || table == nil || table.Main == nil {
		return "", cg.fail(nil, ErrUnsupportedNode, "program has no entry class")
	}
	cg.table = table

	if err := cg.assignEntryLabels(program); err != nil {
		return "", err
	}

	cg.emitHeader()
	if err := cg.generateMain(program.Main); err != nil {
		return "", err
	}
	cg.emit("    # exit")
	cg.emit("    li $v0, 10")
	cg.emit("    syscall")
	cg.emit("")

	for _, decl := range program.Classes {
		class := table.Class(decl.Name.Value)
		if class == nil {
			return "", cg.fail(decl.Name, ErrUnknownClass, "class %s is not in the symbol table", decl.Name.Value)
		}
		for _, md := range decl.Methods {
			if err := cg.generateMethod(class, md); err != nil {
				return "", err
			}
		}
	}

	cg.emitRuntime()
	cg.log.Debug("generated program", "classes", len(program.Classes), "labels", cg.labelCount, "bytes", cg.output.Len())
	return cg.output.String(), nil
}

// emit adds a line of assembly
func (cg *CodeGen) emit(format string, args ...interface{}) {
	cg.output.WriteString(fmt.Sprintf(format, args...))
	cg.output.WriteString("\n")
}

// emitHeader outputs the data section and the text preamble
func (cg *CodeGen) emitHeader() {
	cg.emit(".data")
	cg.emit("newline: .asciiz \"\\n\"")
	cg.emit("msg_index_out_of_bound_exception: .asciiz \"Index out of bound exception\\n\"")
	cg.emit("msg_null_pointer_exception: .asciiz \"Null pointer exception\\n\"")
	cg.emit("")
	cg.emit(".text")
	cg.emit(".globl main")
}

// push saves $a0 on the operand stack; 0($sp) is always the free slot
func (cg *CodeGen) push(reg string) {
	cg.emit("    sw %s, 0($sp)", reg)
	cg.emit("    addiu $sp, $sp, -4")
}

func (cg *CodeGen) nullCheck(reg string) {
	cg.emit("    beq %s, $zero, %s", reg, labelNullPointer)
}

// newLabel mints a label that can never collide with a MiniJava identifier
func (cg *CodeGen) newLabel() string {
	label := fmt.Sprintf("$L%d", cg.labelCount)
	cg.labelCount++
	return label
}

func entryLabel(class, method string) string {
	return class + "_" + method + "_entry"
}

// assignEntryLabels reserves every method label up front so calls can target
// methods emitted later, and rejects names that would mangle to the same label.
func (cg *CodeGen) assignEntryLabels(program *ast.Program) error {
	for _, decl := range program.Classes {
		for _, md := range decl.Methods {
			label := entryLabel(decl.Name.Value, md.Name.Value)
			owner := decl.Name.Value + "." + md.Name.Value
			if prev, dup := cg.entryLabels[label]; dup {
				return cg.fail(md.Name, ErrDuplicateLabel, "%s and %s both map to label %s", prev, owner, label)
			}
			cg.entryLabels[label] = owner
		}
	}
	return nil
}

func (cg *CodeGen) reset() {
	cg.output = strings.Builder{}
	cg.labelCount = 0
	cg.table = nil
	cg.class = nil
	cg.method = nil
	cg.isMain = false
	cg.entryLabels = make(map[string]string)
	cg.layouts.Purge()
}
