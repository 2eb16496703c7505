package ast

// Cloner deep-copies sub-trees. Clones are detached: they have no parent
// and share no node with the source tree. Declarations cloned by the same
// Cloner are remembered, and references cloned later point at the copy
// instead of the original, so a group of clones stays consistent.
type Cloner struct {
	decls map[Decl]Decl
}

// NewCloner returns an empty Cloner.
func NewCloner() *Cloner {
	return &Cloner{decls: make(map[Decl]Decl)}
}

// Clone returns a deep copy of n.
func Clone[T Node](c *Cloner, n T) T {
	if isNil(n) {
		return n
	}
	return c.clone(n).(T)
}

// CloneStmts clones every statement of a list.
func CloneStmts(c *Cloner, stmts []Stmt) []Stmt {
	out := make([]Stmt, 0, len(stmts))
	for _, s := range stmts {
		out = append(out, Clone(c, s))
	}
	return out
}

func (c *Cloner) decl(d Decl) Decl {
	if d == nil {
		return nil
	}
	if cd, ok := c.decls[d]; ok {
		return cd
	}
	return d
}

func (c *Cloner) newField(f *Field) *Field {
	cf := &Field{
		Name: f.Name, Visibility: f.Visibility, Static: f.Static, Final: f.Final,
		Type: f.Type.Clone(), EnumConstant: f.EnumConstant,
	}
	c.decls[f] = cf
	return cf
}

func (c *Cloner) expr(e Expr) Expr {
	if isNil(e) {
		return nil
	}
	return c.clone(e).(Expr)
}

func (c *Cloner) stmt(s Stmt) Stmt {
	if isNil(s) {
		return nil
	}
	return c.clone(s).(Stmt)
}

func (c *Cloner) block(b *Block) *Block {
	if b == nil {
		return nil
	}
	return c.clone(b).(*Block)
}

func (c *Cloner) nodes(ns []Node) []Node {
	out := make([]Node, 0, len(ns))
	for _, n := range ns {
		out = append(out, c.clone(n))
	}
	return out
}

func (c *Cloner) exprs(es []Expr) []Expr {
	out := make([]Expr, 0, len(es))
	for _, e := range es {
		out = append(out, c.expr(e))
	}
	return out
}

func (c *Cloner) params(ps []*Param) []*Param {
	out := make([]*Param, 0, len(ps))
	for _, p := range ps {
		out = append(out, c.clone(p).(*Param))
	}
	return out
}

func (c *Cloner) clone(n Node) Node {
	var out Node
	switch n := n.(type) {
	case *Param:
		p := &Param{Name: n.Name, Type: n.Type.Clone(), Final: n.Final, Varargs: n.Varargs}
		c.decls[n] = p
		out = p
	case *LocalVar:
		v := &LocalVar{Name: n.Name, Type: n.Type.Clone(), Final: n.Final}
		c.decls[n] = v
		v.SetInit(c.expr(n.Init))
		out = v
	case *Field:
		f := c.newField(n)
		f.SetInit(c.expr(n.Init))
		out = f
	case *Method:
		m := &Method{
			Name: n.Name, Visibility: n.Visibility, Static: n.Static, Abstract: n.Abstract,
			Constructor: n.Constructor, Return: n.Return.Clone(),
		}
		for _, p := range c.params(n.Params) {
			m.AddParam(p)
		}
		m.SetBody(c.block(n.Body))
		out = m
	case *Initializer:
		i := &Initializer{Static: n.Static}
		i.SetBody(c.block(n.Body))
		out = i
	case *Type:
		t := &Type{
			Name: n.Name, Kind: n.Kind, Visibility: n.Visibility, Static: n.Static,
			Superclass: n.Superclass.Clone(), Unit: n.Unit,
		}
		for _, iface := range n.Interfaces {
			t.Interfaces = append(t.Interfaces, iface.Clone())
		}
		// fields are registered up front so that references in earlier
		// members resolve to the copies
		fields := make(map[*Field]*Field)
		for _, m := range n.Members {
			if f, ok := m.(*Field); ok {
				fields[f] = c.newField(f)
			}
		}
		for _, m := range n.Members {
			f, ok := m.(*Field)
			if !ok {
				t.AddMember(c.clone(m).(Member))
				continue
			}
			cf := fields[f]
			cf.SetInit(c.expr(f.Init))
			cf.pos, cf.implicit = f.Pos(), f.Implicit()
			t.AddMember(cf)
		}
		out = t
	case *Package:
		panic("ast: packages cannot be cloned")
	case *Block:
		b := &Block{}
		for _, s := range n.Stmts {
			b.Append(c.stmt(s))
		}
		out = b
	case *ExprStmt:
		out = NewExprStmt(c.expr(n.X))
	case *If:
		out = NewIf(c.expr(n.Cond), c.stmt(n.Then), c.stmt(n.Else))
	case *While:
		out = NewWhile(c.expr(n.Cond), c.stmt(n.Body))
	case *DoWhile:
		body := c.stmt(n.Body)
		out = NewDoWhile(body, c.expr(n.Cond))
	case *For:
		init := CloneStmts(c, n.Init)
		cond := c.expr(n.Cond)
		update := CloneStmts(c, n.Update)
		out = NewFor(init, cond, update, c.stmt(n.Body))
	case *ForEach:
		iterable := c.expr(n.Iterable)
		v := Clone(c, n.Var)
		out = NewForEach(v, iterable, c.stmt(n.Body))
	case *Return:
		out = NewReturn(c.expr(n.Result))
	case *Break:
		out = NewBreak(n.Label)
	case *Continue:
		out = NewContinue(n.Label)
	case *Throw:
		out = NewThrow(c.expr(n.X))
	case *Empty:
		out = NewEmpty()
	case *OpaqueStmt:
		out = NewOpaqueStmt(n.Source, c.nodes(n.Children))
	case *Literal:
		out = NewLiteral(n.Kind, n.Value)
	case *Name:
		out = NewName(n.Name, c.decl(n.Decl))
	case *FieldAccess:
		out = NewFieldAccess(c.expr(n.X), n.Name, c.decl(n.Decl))
	case *Assign:
		out = NewAssign(n.Op, c.expr(n.Lhs), c.expr(n.Rhs))
	case *Unary:
		out = NewUnary(n.Op, n.Postfix, c.expr(n.X))
	case *Binary:
		out = NewBinary(n.Op, c.expr(n.L), c.expr(n.R))
	case *Invocation:
		out = NewInvocation(c.expr(n.X), n.Name, c.exprs(n.Args), n.Method)
	case *New:
		var body *Type
		if n.Body != nil {
			body = c.clone(n.Body).(*Type)
		}
		out = NewNew(n.Type.Clone(), c.exprs(n.Args), body)
	case *Paren:
		out = NewParen(c.expr(n.X))
	case *ArrayAccess:
		out = NewArrayAccess(c.expr(n.X), c.expr(n.Index))
	case *Conditional:
		out = NewConditional(c.expr(n.Cond), c.expr(n.Then), c.expr(n.Else))
	case *Cast:
		out = NewCast(n.Type.Clone(), c.expr(n.X))
	case *This:
		out = NewThis(n.Qualifier, n.Super)
	case *Lambda:
		params := c.params(n.Params)
		var body Node
		if !isNil(n.Body) {
			body = c.clone(n.Body)
		}
		out = NewLambda(params, body)
	case *OpaqueExpr:
		e := NewOpaqueExpr(n.Source, c.nodes(n.Children))
		e.Type = n.Type.Clone()
		out = e
	default:
		panic("ast: cannot clone node")
	}
	b := out.base()
	b.pos = n.Pos()
	b.implicit = n.Implicit()
	return out
}
