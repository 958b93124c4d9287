package codegen

import (
	"strings"
	"testing"

	"minijavac/internal/ast"
	"minijavac/internal/symbols"
)

func TestOffsets(t *testing.T) {
	tests := []struct {
		name string
		got  int
		want int
	}{
		{"param 0", paramOffset(0), 4},
		{"param 2", paramOffset(2), 12},
		{"local 0", localOffset(0), -4},
		{"local 3", localOffset(3), -16},
		{"this, no params", thisOffset(0), 4},
		{"this, 2 params", thisOffset(2), 12},
		{"field 0", fieldOffset(0), 12},
		{"field 2", fieldOffset(2), 20},
	}
	for _, tt := range tests {
		if tt.got != tt.want {
			t.Fatalf("%s: got %d want %d", tt.name, tt.got, tt.want)
		}
	}
}

// TestReadWriteAgree checks that loads and stores of every role address the
// same slot.
func TestReadWriteAgree(t *testing.T) {
	class := &symbols.Class{Name: "C", Methods: map[string]*symbols.Method{}}
	field := &symbols.Variable{Name: "f", Type: symbols.Int, Role: symbols.Field, Index: 1}
	class.Fields = []*symbols.Variable{{Name: "e", Type: symbols.Int, Role: symbols.Field}, field}
	method := &symbols.Method{
		Name:  "m",
		Owner: class,
		Params: []*symbols.Variable{
			{Name: "p0", Type: symbols.Int, Role: symbols.Parameter, Index: 0},
			{Name: "p1", Type: symbols.Int, Role: symbols.Parameter, Index: 1},
		},
		Locals: []*symbols.Variable{
			{Name: "l0", Type: symbols.Int, Role: symbols.Local, Index: 0},
			{Name: "l1", Type: symbols.Int, Role: symbols.Local, Index: 1},
		},
	}

	tests := []struct {
		v     *symbols.Variable
		load  string
		store string
	}{
		{method.Params[1], "    lw $a0, 8($fp)\n", "    sw $a0, 8($fp)\n"},
		{method.Locals[1], "    lw $a0, -8($fp)\n", "    sw $a0, -8($fp)\n"},
		{field, "    lw $t1, 12($fp)\n    lw $a0, 16($t1)\n", "    lw $t1, 12($fp)\n    sw $a0, 16($t1)\n"},
	}
	for _, tt := range tests {
		cg := New()
		saved := cg.enterMethod(class, method, false)

		cg.loadVariable(tt.v)
		load := cg.output.String()
		cg.output.Reset()
		cg.storeVariable(tt.v)
		store := cg.output.String()
		cg.restoreContext(saved)

		if load != tt.load || store != tt.store {
			t.Fatalf("%s %s: load %q store %q", tt.v.Role, tt.v.Name, load, store)
		}
		if strings.Replace(load, "lw $a0", "sw $a0", 1) != store {
			t.Fatalf("%s %s: load and store disagree", tt.v.Role, tt.v.Name)
		}
		if cg.method != nil || cg.class != nil {
			t.Fatalf("context was not restored")
		}
	}
}

func TestLookupOrder(t *testing.T) {
	class := &symbols.Class{Name: "C", Methods: map[string]*symbols.Method{}}
	class.Fields = []*symbols.Variable{{Name: "x", Type: symbols.Int, Role: symbols.Field}, {Name: "y", Type: symbols.Int, Role: symbols.Field, Index: 1}}
	method := &symbols.Method{
		Name:   "m",
		Owner:  class,
		Params: []*symbols.Variable{{Name: "x", Type: symbols.Int, Role: symbols.Parameter}},
		Locals: []*symbols.Variable{{Name: "x", Type: symbols.Int, Role: symbols.Local}, {Name: "y", Type: symbols.Int, Role: symbols.Local}},
	}
	cg := New()
	cg.enterMethod(class, method, false)

	tests := []struct {
		name string
		want symbols.Role
	}{
		{"x", symbols.Parameter},
		{"y", symbols.Local},
	}
	for _, tt := range tests {
		v, err := cg.lookupVariable(&ast.Identifier{Value: tt.name})
		if err != nil {
			t.Fatalf("lookup %s: %v", tt.name, err)
		}
		if v.Role != tt.want {
			t.Fatalf("lookup %s: got %s want %s", tt.name, v.Role, tt.want)
		}
	}

	cg.enterMethod(class, method, true)
	method.Params, method.Locals = nil, nil
	if _, err := cg.lookupVariable(&ast.Identifier{Value: "x"}); err == nil {
		t.Fatalf("fields must not resolve in the entry method")
	}
}

func TestLayoutCache(t *testing.T) {
	a := &symbols.Class{Name: "A", Tag: 1, Fields: []*symbols.Variable{{Name: "x"}}}
	b := &symbols.Class{Name: "B", Tag: 2, Parent: a, Fields: []*symbols.Variable{{Name: "y", Index: 1}, {Name: "z", Index: 2}}}

	cg := New()
	l, err := cg.layoutOf(b, nil)
	if err != nil {
		t.Fatalf("layoutOf failed: %v", err)
	}
	if l.tag != 2 || l.fields != 3 || l.bytes != 24 {
		t.Fatalf("unexpected layout %+v", l)
	}
	if cg.layouts.Len() != 1 {
		t.Fatalf("expected layout to be cached")
	}
	again, _ := cg.layoutOf(b, nil)
	if again != l {
		t.Fatalf("cached layout differs")
	}
	cg.reset()
	if cg.layouts.Len() != 0 {
		t.Fatalf("reset must purge cached layouts")
	}
}
