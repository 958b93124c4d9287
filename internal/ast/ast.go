package ast

import (
	"bytes"
	"strings"

	"minijavac/internal/token"
)

// Node is the base interface for all AST nodes
// Every node must provide a TokenLiteral (for debugging) and String (for printing)
type Node interface {
	TokenLiteral() string
	String() string
}

// Statement nodes don't produce values
// Examples: x = 5; while (c) s
type Statement interface {
	Node
	statementNode() // Dummy method to distinguish statements from expressions
}

// Expression nodes produce values
// Examples: 5, x, a.f(2, 3), 5 + 3
type Expression interface {
	Node
	expressionNode() // Dummy method to distinguish expressions from statements
}

// Program is the root node of every AST: the entry class followed by the
// declared classes in source order.
type Program struct {
	Main    *MainClass
	Classes []*ClassDecl
}

func (p *Program) TokenLiteral() string {
	if p.Main != nil {
		return p.Main.TokenLiteral()
	}
	return ""
}

// String builds the program back into source code (useful for debugging)
func (p *Program) String() string {
	var out bytes.Buffer
	if p.Main != nil {
		out.WriteString(p.Main.String())
	}
	for _, c := range p.Classes {
		out.WriteString("\n")
		out.WriteString(c.String())
	}
	return out.String()
}

// TypeKind enumerates the declarable types.
type TypeKind int

const (
	IntType TypeKind = iota
	BooleanType
	IntArrayType
	ClassType
)

// Type is a declared type: int, boolean, int[] or a class name.
type Type struct {
	Token     token.Token
	Kind      TypeKind
	ClassName string
}

func (t *Type) TokenLiteral() string { return t.Token.Literal }
func (t *Type) String() string {
	switch t.Kind {
	case IntType:
		return "int"
	case BooleanType:
		return "boolean"
	case IntArrayType:
		return "int[]"
	default:
		return t.ClassName
	}
}

// Identifier represents a name
// It's an expression because it produces a value (the variable's value)
type Identifier struct {
	Token token.Token // The IDENT token
	Value string      // The actual name: "x", "foo"
}

func (i *Identifier) expressionNode()      {}
func (i *Identifier) TokenLiteral() string { return i.Token.Literal }
func (i *Identifier) String() string       { return i.Value }

// VarDecl is a field or local declaration: <type> <name>;
type VarDecl struct {
	Token token.Token // first token of the type
	Type  *Type
	Name  *Identifier
}

func (vd *VarDecl) TokenLiteral() string { return vd.Token.Literal }
func (vd *VarDecl) String() string       { return vd.Type.String() + " " + vd.Name.String() + ";" }

// Formal is a method parameter: <type> <name>
type Formal struct {
	Token token.Token
	Type  *Type
	Name  *Identifier
}

func (f *Formal) TokenLiteral() string { return f.Token.Literal }
func (f *Formal) String() string       { return f.Type.String() + " " + f.Name.String() }

// MainClass is the entry class holding the static main method.
type MainClass struct {
	Token   token.Token // The CLASS token
	Name    *Identifier
	ArgName *Identifier // name of the String[] parameter, never referenced
	Vars    []*VarDecl
	Body    []Statement
}

func (mc *MainClass) TokenLiteral() string { return mc.Token.Literal }
func (mc *MainClass) String() string {
	var out bytes.Buffer
	out.WriteString("class " + mc.Name.String() + " { public static void main(String[] ")
	if mc.ArgName != nil {
		out.WriteString(mc.ArgName.String())
	}
	out.WriteString(") { ")
	for _, v := range mc.Vars {
		out.WriteString(v.String() + " ")
	}
	for _, s := range mc.Body {
		out.WriteString(s.String() + " ")
	}
	out.WriteString("} }")
	return out.String()
}

// ClassDecl represents: class <name> [extends <parent>] { fields methods }
type ClassDecl struct {
	Token   token.Token // The CLASS token
	Name    *Identifier
	Parent  *Identifier // nil when the class has no explicit parent
	Fields  []*VarDecl
	Methods []*MethodDecl
}

func (cd *ClassDecl) TokenLiteral() string { return cd.Token.Literal }
func (cd *ClassDecl) String() string {
	var out bytes.Buffer
	out.WriteString("class " + cd.Name.String())
	if cd.Parent != nil {
		out.WriteString(" extends " + cd.Parent.String())
	}
	out.WriteString(" { ")
	for _, f := range cd.Fields {
		out.WriteString(f.String() + " ")
	}
	for _, m := range cd.Methods {
		out.WriteString(m.String() + " ")
	}
	out.WriteString("}")
	return out.String()
}

// MethodDecl represents: public <type> <name>(<formals>) { vars stmts return <exp>; }
type MethodDecl struct {
	Token      token.Token // The PUBLIC token
	ReturnType *Type
	Name       *Identifier
	Params     []*Formal
	Vars       []*VarDecl
	Body       []Statement
	Return     Expression
}

func (md *MethodDecl) TokenLiteral() string { return md.Token.Literal }
func (md *MethodDecl) String() string {
	var out bytes.Buffer
	params := make([]string, 0, len(md.Params))
	for _, p := range md.Params {
		params = append(params, p.String())
	}
	out.WriteString("public " + md.ReturnType.String() + " " + md.Name.String())
	out.WriteString("(" + strings.Join(params, ", ") + ") { ")
	for _, v := range md.Vars {
		out.WriteString(v.String() + " ")
	}
	for _, s := range md.Body {
		out.WriteString(s.String() + " ")
	}
	if md.Return != nil {
		out.WriteString("return " + md.Return.String() + "; ")
	}
	out.WriteString("}")
	return out.String()
}

// BlockStatement represents { statements }
type BlockStatement struct {
	Token      token.Token // The { token
	Statements []Statement
}

func (bs *BlockStatement) statementNode()       {}
func (bs *BlockStatement) TokenLiteral() string { return bs.Token.Literal }
func (bs *BlockStatement) String() string {
	parts := make([]string, 0, len(bs.Statements))
	for _, s := range bs.Statements {
		parts = append(parts, s.String())
	}
	if len(parts) == 0 {
		return "{ }"
	}
	return "{ " + strings.Join(parts, " ") + " }"
}

// IfStatement represents: if (<condition>) <consequence> else <alternative>
type IfStatement struct {
	Token       token.Token // The IF token
	Condition   Expression
	Consequence Statement
	Alternative Statement
}

func (is *IfStatement) statementNode()       {}
func (is *IfStatement) TokenLiteral() string { return is.Token.Literal }
func (is *IfStatement) String() string {
	return "if (" + is.Condition.String() + ") " + is.Consequence.String() + " else " + is.Alternative.String()
}

// WhileStatement represents: while (<condition>) <body>
type WhileStatement struct {
	Token     token.Token // The WHILE token
	Condition Expression
	Body      Statement
}

func (ws *WhileStatement) statementNode()       {}
func (ws *WhileStatement) TokenLiteral() string { return ws.Token.Literal }
func (ws *WhileStatement) String() string {
	return "while (" + ws.Condition.String() + ") " + ws.Body.String()
}

// PrintStatement represents: System.out.println(<value>);
type PrintStatement struct {
	Token token.Token // The SYSTEM token
	Value Expression
}

func (ps *PrintStatement) statementNode()       {}
func (ps *PrintStatement) TokenLiteral() string { return ps.Token.Literal }
func (ps *PrintStatement) String() string {
	return "System.out.println(" + ps.Value.String() + ");"
}

// AssignStatement represents: <name> = <value>;
type AssignStatement struct {
	Token token.Token // The IDENT token of the target
	Name  *Identifier
	Value Expression
}

func (as *AssignStatement) statementNode()       {}
func (as *AssignStatement) TokenLiteral() string { return as.Token.Literal }
func (as *AssignStatement) String() string {
	return as.Name.String() + " = " + as.Value.String() + ";"
}

// ArrayAssignStatement represents: <name>[<index>] = <value>;
type ArrayAssignStatement struct {
	Token token.Token // The IDENT token of the array
	Name  *Identifier
	Index Expression
	Value Expression
}

func (aa *ArrayAssignStatement) statementNode()       {}
func (aa *ArrayAssignStatement) TokenLiteral() string { return aa.Token.Literal }
func (aa *ArrayAssignStatement) String() string {
	return aa.Name.String() + "[" + aa.Index.String() + "] = " + aa.Value.String() + ";"
}

// IntegerLiteral represents a number like 5 or 42
type IntegerLiteral struct {
	Token token.Token
	Value int32
}

func (il *IntegerLiteral) expressionNode()      {}
func (il *IntegerLiteral) TokenLiteral() string { return il.Token.Literal }
func (il *IntegerLiteral) String() string       { return il.Token.Literal }

// Boolean represents true or false
type Boolean struct {
	Token token.Token
	Value bool
}

func (b *Boolean) expressionNode()      {}
func (b *Boolean) TokenLiteral() string { return b.Token.Literal }
func (b *Boolean) String() string       { return b.Token.Literal }

// ThisExpression represents the receiver of the current method.
type ThisExpression struct {
	Token token.Token
}

func (te *ThisExpression) expressionNode()      {}
func (te *ThisExpression) TokenLiteral() string { return te.Token.Literal }
func (te *ThisExpression) String() string       { return "this" }

// PrefixExpression represents !<right>
type PrefixExpression struct {
	Token    token.Token // The prefix token: !
	Operator string
	Right    Expression
}

func (pe *PrefixExpression) expressionNode()      {}
func (pe *PrefixExpression) TokenLiteral() string { return pe.Token.Literal }
func (pe *PrefixExpression) String() string {
	return "(" + pe.Operator + pe.Right.String() + ")"
}

// InfixExpression represents <left> <operator> <right> for &&, <, +, -, *
type InfixExpression struct {
	Token    token.Token // The operator token
	Left     Expression
	Operator string
	Right    Expression
}

func (ie *InfixExpression) expressionNode()      {}
func (ie *InfixExpression) TokenLiteral() string { return ie.Token.Literal }
func (ie *InfixExpression) String() string {
	return "(" + ie.Left.String() + " " + ie.Operator + " " + ie.Right.String() + ")"
}

// IndexExpression represents <left>[<index>]
type IndexExpression struct {
	Token token.Token // The [ token
	Left  Expression
	Index Expression
}

func (ie *IndexExpression) expressionNode()      {}
func (ie *IndexExpression) TokenLiteral() string { return ie.Token.Literal }
func (ie *IndexExpression) String() string {
	return "(" + ie.Left.String() + "[" + ie.Index.String() + "])"
}

// LengthExpression represents <array>.length
type LengthExpression struct {
	Token token.Token // The LENGTH token
	Array Expression
}

func (le *LengthExpression) expressionNode()      {}
func (le *LengthExpression) TokenLiteral() string { return le.Token.Literal }
func (le *LengthExpression) String() string       { return le.Array.String() + ".length" }

// CallExpression represents <receiver>.<method>(<arguments>)
type CallExpression struct {
	Token     token.Token // The method name token
	Receiver  Expression
	Method    *Identifier
	Arguments []Expression
}

func (ce *CallExpression) expressionNode()      {}
func (ce *CallExpression) TokenLiteral() string { return ce.Token.Literal }
func (ce *CallExpression) String() string {
	args := make([]string, 0, len(ce.Arguments))
	for _, a := range ce.Arguments {
		args = append(args, a.String())
	}
	return ce.Receiver.String() + "." + ce.Method.String() + "(" + strings.Join(args, ", ") + ")"
}

// NewArrayExpression represents new int[<size>]
type NewArrayExpression struct {
	Token token.Token // The NEW token
	Size  Expression
}

func (na *NewArrayExpression) expressionNode()      {}
func (na *NewArrayExpression) TokenLiteral() string { return na.Token.Literal }
func (na *NewArrayExpression) String() string       { return "new int[" + na.Size.String() + "]" }

// NewObjectExpression represents new <class>()
type NewObjectExpression struct {
	Token token.Token // The NEW token
	Class *Identifier
}

func (no *NewObjectExpression) expressionNode()      {}
func (no *NewObjectExpression) TokenLiteral() string { return no.Token.Literal }
func (no *NewObjectExpression) String() string       { return "new " + no.Class.String() + "()" }
