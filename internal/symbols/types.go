package symbols

// Kind classifies a MiniJava static type.
type Kind int

const (
	KindInt Kind = iota
	KindBoolean
	KindIntArray
	KindClass
)

// Type is a resolved static type. Class is set only for KindClass.
type Type struct {
	Kind  Kind
	Class string
}

var (
	Int      = Type{Kind: KindInt}
	Boolean  = Type{Kind: KindBoolean}
	IntArray = Type{Kind: KindIntArray}
)

// ClassType returns the reference type of the named class.
func ClassType(name string) Type { return Type{Kind: KindClass, Class: name} }

func (t Type) String() string {
	switch t.Kind {
	case KindInt:
		return "int"
	case KindBoolean:
		return "boolean"
	case KindIntArray:
		return "int[]"
	default:
		return t.Class
	}
}

// IsReference reports whether values of t are heap pointers that may be null.
func (t Type) IsReference() bool {
	return t.Kind == KindClass || t.Kind == KindIntArray
}

// Role is where a variable lives at run time.
type Role int

const (
	Parameter Role = iota
	Local
	Field
)

func (r Role) String() string {
	switch r {
	case Parameter:
		return "parameter"
	case Local:
		return "local"
	default:
		return "field"
	}
}

// Variable is a named slot. Index is zero-based within its role; for fields it
// counts inherited fields first.
type Variable struct {
	Name  string
	Type  Type
	Role  Role
	Index int
}

// Method is a declared method with its frame-relevant variables.
type Method struct {
	Name       string
	Owner      *Class
	Params     []*Variable
	Locals     []*Variable
	ReturnType Type
}

// Param returns the parameter with the given name, or nil.
func (m *Method) Param(name string) *Variable {
	for _, v := range m.Params {
		if v.Name == name {
			return v
		}
	}
	return nil
}

// Local returns the local with the given name, or nil.
func (m *Method) Local(name string) *Variable {
	for _, v := range m.Locals {
		if v.Name == name {
			return v
		}
	}
	return nil
}

// Class is a declared class. Fields holds only the class's own fields.
type Class struct {
	Name    string
	Parent  *Class
	Fields  []*Variable
	Methods map[string]*Method
	Tag     int

	// Method declaration order, for deterministic emission.
	order []string
}

// Field looks the name up in the class and then its ancestors.
func (c *Class) Field(name string) *Variable {
	for k := c; k != nil; k = k.Parent {
		for _, f := range k.Fields {
			if f.Name == name {
				return f
			}
		}
	}
	return nil
}

// Method looks the name up in the class and then its ancestors.
func (c *Class) Method(name string) *Method {
	for k := c; k != nil; k = k.Parent {
		if m, ok := k.Methods[name]; ok {
			return m
		}
	}
	return nil
}

// OwnMethods returns the methods declared by c itself in source order.
func (c *Class) OwnMethods() []*Method {
	out := make([]*Method, 0, len(c.order))
	for _, name := range c.order {
		out = append(out, c.Methods[name])
	}
	return out
}

// FieldCount is the number of field slots including inherited ones.
func (c *Class) FieldCount() int {
	n := 0
	for k := c; k != nil; k = k.Parent {
		n += len(k.Fields)
	}
	return n
}

// AllFields returns every field slot in index order, inherited first.
func (c *Class) AllFields() []*Variable {
	var chain []*Class
	for k := c; k != nil; k = k.Parent {
		chain = append(chain, k)
	}
	out := make([]*Variable, 0, c.FieldCount())
	for i := len(chain) - 1; i >= 0; i-- {
		out = append(out, chain[i].Fields...)
	}
	return out
}

// Table is the read-only symbol table consumed by the code generator.
type Table struct {
	Main    *Class
	classes map[string]*Class
	order   []*Class
}

// Class returns the named class (including the entry class), or nil.
func (t *Table) Class(name string) *Class {
	return t.classes[name]
}

// Classes returns the declared classes in source order, without the entry class.
func (t *Table) Classes() []*Class {
	out := make([]*Class, len(t.order))
	copy(out, t.order)
	return out
}
