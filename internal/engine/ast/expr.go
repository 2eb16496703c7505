package ast

// Expr is implemented by all expression nodes.
type Expr interface {
	Node
	expr()
}

// Ref is an expression that names a declared entity.
type Ref interface {
	Expr
	// Target returns the referenced declaration, nil when unresolved.
	Target() Decl
	RefName() string
}

// LiteralKind classifies literals.
type LiteralKind int

const (
	LitInt LiteralKind = iota
	LitLong
	LitFloat
	LitDouble
	LitChar
	LitString
	LitBool
	LitNull
)

// Literal is a literal value kept as written.
type Literal struct {
	nodeBase
	Kind  LiteralKind
	Value string
}

// IsTrue reports whether l is the boolean literal true.
func (l *Literal) IsTrue() bool {
	return l.Kind == LitBool && l.Value == "true"
}

// Name is a simple name referring to a local, parameter or field.
type Name struct {
	nodeBase
	Name string
	Decl Decl
}

func (n *Name) Target() Decl    { return n.Decl }
func (n *Name) RefName() string { return n.Name }

// FieldAccess is x.name. Decl is nil for array length and unresolved
// fields.
type FieldAccess struct {
	nodeBase
	X    Expr
	Name string
	Decl Decl
}

func (f *FieldAccess) Target() Decl    { return f.Decl }
func (f *FieldAccess) RefName() string { return f.Name }

// Assign is an assignment; Op is "=", "+=", ...
type Assign struct {
	nodeBase
	Op  string
	Lhs Expr
	Rhs Expr
}

// Unary is a prefix or postfix unary operation.
type Unary struct {
	nodeBase
	Op      string
	Postfix bool
	X       Expr
}

// IsIncDec reports whether u is ++ or --.
func (u *Unary) IsIncDec() bool {
	return u.Op == "++" || u.Op == "--"
}

// Binary is a binary operation.
type Binary struct {
	nodeBase
	Op string
	L  Expr
	R  Expr
}

// Invocation is a method call. X is nil for unqualified calls.
type Invocation struct {
	nodeBase
	X      Expr
	Name   string
	Args   []Expr
	Method *Method
}

// New is an instance creation expression; Body is the anonymous class, if any.
type New struct {
	nodeBase
	Type *TypeRef
	Args []Expr
	Body *Type
}

// Paren is a parenthesized expression.
type Paren struct {
	nodeBase
	X Expr
}

// ArrayAccess is x[index].
type ArrayAccess struct {
	nodeBase
	X     Expr
	Index Expr
}

// Conditional is cond ? then : else.
type Conditional struct {
	nodeBase
	Cond Expr
	Then Expr
	Else Expr
}

// Cast is (type) x.
type Cast struct {
	nodeBase
	Type *TypeRef
	X    Expr
}

// This is "this", "Outer.this" or "super".
type This struct {
	nodeBase
	Qualifier string
	Super     bool
}

// Lambda is a lambda expression; Body is an Expr or a *Block.
type Lambda struct {
	nodeBase
	Params []*Param
	Body   Node
}

// OpaqueExpr is an expression kept as source text (method references, array
// creation, switch expressions, ...), with converted children. Type is set
// when the front end knows the static type, as for array creation.
type OpaqueExpr struct {
	nodeBase
	Source   string
	Children []Node
	Type     *TypeRef
}

func (*Literal) expr()     {}
func (*Name) expr()        {}
func (*FieldAccess) expr() {}
func (*Assign) expr()      {}
func (*Unary) expr()       {}
func (*Binary) expr()      {}
func (*Invocation) expr()  {}
func (*New) expr()         {}
func (*Paren) expr()       {}
func (*ArrayAccess) expr() {}
func (*Conditional) expr() {}
func (*Cast) expr()        {}
func (*This) expr()        {}
func (*Lambda) expr()      {}
func (*OpaqueExpr) expr()  {}

// IsWrite reports whether ref is written: the left side of an assignment or
// the operand of an increment or decrement.
// Parentheses around the reference are looked through.
func IsWrite(ref Ref) bool {
	var operand Expr = ref
	parent := ref.Parent()
	for {
		p, ok := parent.(*Paren)
		if !ok {
			break
		}
		operand, parent = p, p.Parent()
	}
	switch p := parent.(type) {
	case *Assign:
		return p.Lhs == operand
	case *Unary:
		return p.IsIncDec() && p.X == operand
	}
	return false
}

// Unparen strips any parentheses around e.
func Unparen(e Expr) Expr {
	for {
		p, ok := e.(*Paren)
		if !ok {
			return e
		}
		e = p.X
	}
}
