package symbols

import (
	"minijavac/internal/ast"
)

// Build constructs the symbol table for a parsed program. The entry class gets
// tag 0 and a single method "main" with its locals; declared classes are
// tagged 1..n in source order.
func Build(program *ast.Program) (*Table, error) {
	t := &Table{classes: map[string]*Class{}}
	if program == nil || program.Main == nil {
		return t, nil
	}

	mainClass := &Class{Name: program.Main.Name.Value, Methods: map[string]*Method{}}
	t.Main = mainClass
	t.classes[mainClass.Name] = mainClass

	for i, decl := range program.Classes {
		if _, dup := t.classes[decl.Name.Value]; dup {
			return nil, newError(ErrDuplicateClass, decl.Name.Value, decl.Name)
		}
		c := &Class{Name: decl.Name.Value, Methods: map[string]*Method{}, Tag: i + 1}
		t.classes[c.Name] = c
		t.order = append(t.order, c)
	}

	for i, decl := range program.Classes {
		if decl.Parent == nil {
			continue
		}
		parent := t.classes[decl.Parent.Value]
		if parent == nil || parent == mainClass {
			return nil, newError(ErrUnknownParent, decl.Parent.Value, decl.Parent)
		}
		t.order[i].Parent = parent
	}
	for i, c := range t.order {
		if hasCycle(c) {
			return nil, newError(ErrInheritanceCycle, c.Name, program.Classes[i].Name)
		}
	}

	// Parents are laid out first so inherited fields take the low slots.
	declOf := map[*Class]*ast.ClassDecl{}
	for i, c := range t.order {
		declOf[c] = program.Classes[i]
	}
	done := map[*Class]bool{}
	var layout func(c *Class, decl *ast.ClassDecl) error
	layout = func(c *Class, decl *ast.ClassDecl) error {
		if done[c] {
			return nil
		}
		base := 0
		if c.Parent != nil {
			if err := layout(c.Parent, declOf[c.Parent]); err != nil {
				return err
			}
			base = c.Parent.FieldCount()
		}
		for _, f := range decl.Fields {
			if ownField(c, f.Name.Value) != nil {
				return newError(ErrDuplicateField, f.Name.Value, f.Name)
			}
			typ, err := t.resolve(f.Type)
			if err != nil {
				return err
			}
			c.Fields = append(c.Fields, &Variable{Name: f.Name.Value, Type: typ, Role: Field, Index: base + len(c.Fields)})
		}
		done[c] = true
		return nil
	}
	for _, c := range t.order {
		if err := layout(c, declOf[c]); err != nil {
			return nil, err
		}
	}

	mainMethod := &Method{Name: "main", Owner: mainClass, ReturnType: Int}
	if err := t.addLocals(mainMethod, program.Main.Vars); err != nil {
		return nil, err
	}
	mainClass.Methods["main"] = mainMethod
	mainClass.order = []string{"main"}

	for _, c := range t.order {
		for _, md := range declOf[c].Methods {
			if _, dup := c.Methods[md.Name.Value]; dup {
				return nil, newError(ErrDuplicateMethod, md.Name.Value, md.Name)
			}
			m, err := t.buildMethod(c, md)
			if err != nil {
				return nil, err
			}
			c.Methods[m.Name] = m
			c.order = append(c.order, m.Name)
		}
	}
	return t, nil
}

func (t *Table) buildMethod(owner *Class, md *ast.MethodDecl) (*Method, error) {
	ret, err := t.resolve(md.ReturnType)
	if err != nil {
		return nil, err
	}
	m := &Method{Name: md.Name.Value, Owner: owner, ReturnType: ret}
	for _, p := range md.Params {
		if m.Param(p.Name.Value) != nil {
			return nil, newError(ErrDuplicateParameter, p.Name.Value, p.Name)
		}
		typ, err := t.resolve(p.Type)
		if err != nil {
			return nil, err
		}
		m.Params = append(m.Params, &Variable{Name: p.Name.Value, Type: typ, Role: Parameter, Index: len(m.Params)})
	}
	if err := t.addLocals(m, md.Vars); err != nil {
		return nil, err
	}
	return m, nil
}

func (t *Table) addLocals(m *Method, vars []*ast.VarDecl) error {
	for _, v := range vars {
		if m.Local(v.Name.Value) != nil || m.Param(v.Name.Value) != nil {
			return newError(ErrDuplicateLocal, v.Name.Value, v.Name)
		}
		typ, err := t.resolve(v.Type)
		if err != nil {
			return err
		}
		m.Locals = append(m.Locals, &Variable{Name: v.Name.Value, Type: typ, Role: Local, Index: len(m.Locals)})
	}
	return nil
}

// resolve maps a declared type to a static type, checking class names.
func (t *Table) resolve(typ *ast.Type) (Type, error) {
	switch typ.Kind {
	case ast.IntType:
		return Int, nil
	case ast.BooleanType:
		return Boolean, nil
	case ast.IntArrayType:
		return IntArray, nil
	}
	c := t.classes[typ.ClassName]
	if c == nil || c == t.Main {
		return Type{}, &Error{
			Err:     ErrUnknownType,
			Name:    typ.ClassName,
			Context: typ.ClassName,
			Line:    typ.Token.Line,
			Column:  typ.Token.Column,
		}
	}
	return ClassType(c.Name), nil
}

func ownField(c *Class, name string) *Variable {
	for _, f := range c.Fields {
		if f.Name == name {
			return f
		}
	}
	return nil
}

func hasCycle(c *Class) bool {
	seen := map[*Class]bool{}
	for k := c; k != nil; k = k.Parent {
		if seen[k] {
			return true
		}
		seen[k] = true
	}
	return false
}
