package ast

// Constructors attach their children, so a tree built with them has
// consistent parent links. Positions are left invalid; the front end sets
// them with SetPos.

func NewBlock(stmts ...Stmt) *Block {
	b := &Block{}
	b.Append(stmts...)
	return b
}

func NewLocalVar(name string, typ *TypeRef, init Expr) *LocalVar {
	v := &LocalVar{Name: name, Type: typ}
	v.SetInit(init)
	return v
}

func NewExprStmt(x Expr) *ExprStmt {
	s := &ExprStmt{X: x}
	attach(s, x)
	return s
}

func NewIf(cond Expr, then, els Stmt) *If {
	s := &If{Cond: cond, Then: then, Else: els}
	attach(s, cond)
	attach(s, then)
	attach(s, els)
	return s
}

func NewWhile(cond Expr, body Stmt) *While {
	s := &While{Cond: cond, Body: body}
	attach(s, cond)
	attach(s, body)
	return s
}

func NewDoWhile(body Stmt, cond Expr) *DoWhile {
	s := &DoWhile{Body: body, Cond: cond}
	attach(s, body)
	attach(s, cond)
	return s
}

func NewFor(init []Stmt, cond Expr, update []Stmt, body Stmt) *For {
	s := &For{Init: init, Cond: cond, Update: update, Body: body}
	for _, st := range init {
		attach(s, st)
	}
	attach(s, cond)
	for _, st := range update {
		attach(s, st)
	}
	attach(s, body)
	return s
}

func NewForEach(v *LocalVar, iterable Expr, body Stmt) *ForEach {
	s := &ForEach{Var: v, Iterable: iterable, Body: body}
	attach(s, v)
	attach(s, iterable)
	attach(s, body)
	return s
}

func NewReturn(result Expr) *Return {
	s := &Return{Result: result}
	attach(s, result)
	return s
}

func NewBreak(label string) *Break { return &Break{Label: label} }

func NewContinue(label string) *Continue { return &Continue{Label: label} }

func NewThrow(x Expr) *Throw {
	s := &Throw{X: x}
	attach(s, x)
	return s
}

func NewEmpty() *Empty { return &Empty{} }

func NewOpaqueStmt(source string, children []Node) *OpaqueStmt {
	s := &OpaqueStmt{Source: source, Children: children}
	for _, c := range children {
		attach(s, c)
	}
	return s
}

func NewLiteral(kind LiteralKind, value string) *Literal {
	return &Literal{Kind: kind, Value: value}
}

func NewName(name string, decl Decl) *Name {
	return &Name{Name: name, Decl: decl}
}

func NewFieldAccess(x Expr, name string, decl Decl) *FieldAccess {
	e := &FieldAccess{X: x, Name: name, Decl: decl}
	attach(e, x)
	return e
}

func NewAssign(op string, lhs, rhs Expr) *Assign {
	e := &Assign{Op: op, Lhs: lhs, Rhs: rhs}
	attach(e, lhs)
	attach(e, rhs)
	return e
}

func NewUnary(op string, postfix bool, x Expr) *Unary {
	e := &Unary{Op: op, Postfix: postfix, X: x}
	attach(e, x)
	return e
}

func NewBinary(op string, l, r Expr) *Binary {
	e := &Binary{Op: op, L: l, R: r}
	attach(e, l)
	attach(e, r)
	return e
}

func NewInvocation(x Expr, name string, args []Expr, method *Method) *Invocation {
	e := &Invocation{X: x, Name: name, Args: args, Method: method}
	attach(e, x)
	for _, a := range args {
		attach(e, a)
	}
	return e
}

func NewNew(typ *TypeRef, args []Expr, body *Type) *New {
	e := &New{Type: typ, Args: args, Body: body}
	for _, a := range args {
		attach(e, a)
	}
	attach(e, body)
	return e
}

func NewParen(x Expr) *Paren {
	e := &Paren{X: x}
	attach(e, x)
	return e
}

func NewArrayAccess(x, index Expr) *ArrayAccess {
	e := &ArrayAccess{X: x, Index: index}
	attach(e, x)
	attach(e, index)
	return e
}

func NewConditional(cond, then, els Expr) *Conditional {
	e := &Conditional{Cond: cond, Then: then, Else: els}
	attach(e, cond)
	attach(e, then)
	attach(e, els)
	return e
}

func NewCast(typ *TypeRef, x Expr) *Cast {
	e := &Cast{Type: typ, X: x}
	attach(e, x)
	return e
}

func NewThis(qualifier string, super bool) *This {
	return &This{Qualifier: qualifier, Super: super}
}

func NewLambda(params []*Param, body Node) *Lambda {
	e := &Lambda{Params: params, Body: body}
	for _, p := range params {
		attach(e, p)
	}
	attach(e, body)
	return e
}

func NewOpaqueExpr(source string, children []Node) *OpaqueExpr {
	e := &OpaqueExpr{Source: source, Children: children}
	for _, c := range children {
		attach(e, c)
	}
	return e
}
