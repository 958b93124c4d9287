package codegen

const (
	labelPrintInt        = "_print_int"
	labelNullPointer     = "_null_pointer_exception"
	labelIndexOutOfBound = "_array_index_out_of_bound_exception"
	labelAllocIntArray   = "_alloc_int_array"
)

// emitRuntime outputs the support routines every program links against
func (cg *CodeGen) emitRuntime() {
	// Input: $a0 = value; prints it followed by a newline
	cg.emit("%s:", labelPrintInt)
	cg.emit("    li $v0, 1")
	cg.emit("    syscall")
	cg.emit("    la $a0, newline")
	cg.emit("    li $v0, 4")
	cg.emit("    syscall")
	cg.emit("    jr $ra")
	cg.emit("")

	cg.emit("%s:", labelNullPointer)
	cg.emit("    la $a0, msg_null_pointer_exception")
	cg.emit("    li $v0, 4")
	cg.emit("    syscall")
	cg.emit("    li $v0, 10")
	cg.emit("    syscall")
	cg.emit("")

	cg.emit("%s:", labelIndexOutOfBound)
	cg.emit("    la $a0, msg_index_out_of_bound_exception")
	cg.emit("    li $v0, 4")
	cg.emit("    syscall")
	cg.emit("    li $v0, 10")
	cg.emit("    syscall")
	cg.emit("")

	// Input: $a0 = length; output: $v0 = array with length word and zeroed elements
	cg.emit("%s:", labelAllocIntArray)
	cg.emit("    bltz $a0, %s   # negative size", labelIndexOutOfBound)
	cg.emit("    move $a2, $a0")
	cg.emit("    addi $a0, $a0, 1     # one more word for the length")
	cg.emit("    sll $a0, $a0, 2")
	cg.emit("    li $v0, 9")
	cg.emit("    syscall")
	cg.emit("    sw $a2, 0($v0)")
	cg.emit("    li $t0, 1")
	cg.emit("    move $t1, $v0")
	cg.emit("_alloc_int_array_loop:")
	cg.emit("    bgt $t0, $a2, _alloc_int_array_end")
	cg.emit("    addi $t1, $t1, 4")
	cg.emit("    sw $zero, 0($t1)")
	cg.emit("    addi $t0, $t0, 1")
	cg.emit("    j _alloc_int_array_loop")
	cg.emit("_alloc_int_array_end:")
	cg.emit("    jr $ra")
}
