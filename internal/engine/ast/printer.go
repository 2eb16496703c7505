package ast

import "strings"

const indentUnit = "    "

// Render returns Java source for the tree rooted at n. Nested statements are
// indented with four spaces; the first line is not indented.
func Render(n Node) string {
	p := &printer{}
	p.node(n)
	return p.sb.String()
}

type printer struct {
	sb     strings.Builder
	indent int
}

func (p *printer) write(parts ...string) {
	for _, s := range parts {
		p.sb.WriteString(s)
	}
}

func (p *printer) newline() {
	p.sb.WriteByte('\n')
	p.sb.WriteString(strings.Repeat(indentUnit, p.indent))
}

func (p *printer) node(n Node) {
	switch n := n.(type) {
	case Stmt:
		p.stmt(n)
	case Expr:
		p.expr(n)
	case *Param:
		p.param(n)
	case *Field:
		p.field(n)
	case *Method:
		p.method(n)
	case *Initializer:
		if n.Static {
			p.write("static ")
		}
		p.block(n.Body)
	case *Type:
		p.typeDecl(n)
	case *Package:
		if !n.IsRoot() {
			p.write("package ", n.Name, ";")
		}
		for _, t := range n.Types {
			p.newline()
			p.typeDecl(t)
		}
	}
}

func modifiers(vis Visibility, static, final bool) string {
	var parts []string
	if kw := vis.Keyword(); kw != "" {
		parts = append(parts, kw)
	}
	if static {
		parts = append(parts, "static")
	}
	if final {
		parts = append(parts, "final")
	}
	if len(parts) == 0 {
		return ""
	}
	return strings.Join(parts, " ") + " "
}

func (p *printer) typeDecl(t *Type) {
	if t.Name != "" {
		p.write(modifiers(t.Visibility, t.Static, false), t.Kind.String(), " ", t.Name)
		if t.Superclass != nil {
			p.write(" extends ", t.Superclass.Text)
		}
		if len(t.Interfaces) > 0 {
			names := make([]string, 0, len(t.Interfaces))
			for _, i := range t.Interfaces {
				names = append(names, i.Text)
			}
			kw := " implements "
			if t.Kind == KindInterface {
				kw = " extends "
			}
			p.write(kw, strings.Join(names, ", "))
		}
		p.write(" ")
	}
	p.write("{")
	p.indent++
	for _, m := range t.Members {
		p.newline()
		p.node(m)
	}
	p.indent--
	p.newline()
	p.write("}")
}

func (p *printer) field(f *Field) {
	if f.EnumConstant {
		p.write(f.Name, ",")
		return
	}
	p.write(modifiers(f.Visibility, f.Static, f.Final), f.Type.String(), " ", f.Name)
	if f.Init != nil {
		p.write(" = ")
		p.expr(f.Init)
	}
	p.write(";")
}

func (p *printer) method(m *Method) {
	mods := modifiers(m.Visibility, m.Static, false)
	if m.Abstract {
		mods += "abstract "
	}
	p.write(mods)
	if !m.Constructor {
		p.write(m.Return.String(), " ")
	}
	p.write(m.Name, "(")
	for i, param := range m.Params {
		if i > 0 {
			p.write(", ")
		}
		p.param(param)
	}
	p.write(")")
	if m.Body == nil {
		p.write(";")
		return
	}
	p.write(" ")
	p.block(m.Body)
}

func (p *printer) param(param *Param) {
	if param.Final {
		p.write("final ")
	}
	if param.Type != nil {
		if param.Varargs && param.Type.IsArray() {
			p.write(param.Type.Element().String(), "... ")
		} else {
			p.write(param.Type.String(), " ")
		}
	}
	p.write(param.Name)
}

func (p *printer) block(b *Block) {
	p.write("{")
	p.indent++
	for _, s := range b.Stmts {
		p.newline()
		p.stmt(s)
	}
	p.indent--
	p.newline()
	p.write("}")
}

// body writes a nested statement: blocks stay on the same line, anything
// else goes on its own indented line.
func (p *printer) body(s Stmt) {
	if b, ok := s.(*Block); ok {
		p.write(" ")
		p.block(b)
		return
	}
	p.indent++
	p.newline()
	p.stmt(s)
	p.indent--
}

func (p *printer) localVar(v *LocalVar, withType bool) {
	if withType {
		if v.Final {
			p.write("final ")
		}
		p.write(v.Type.String(), " ")
	}
	p.write(v.Name)
	if v.Init != nil {
		p.write(" = ")
		p.expr(v.Init)
	}
}

func (p *printer) stmt(s Stmt) {
	switch s := s.(type) {
	case *Block:
		p.block(s)
	case *LocalVar:
		p.localVar(s, true)
		p.write(";")
	case *ExprStmt:
		p.expr(s.X)
		p.write(";")
	case *If:
		p.write("if (")
		p.expr(s.Cond)
		p.write(")")
		p.body(s.Then)
		if s.Else != nil {
			if _, ok := s.Then.(*Block); ok {
				p.write(" ")
			} else {
				p.newline()
			}
			p.write("else")
			if _, ok := s.Else.(*If); ok {
				p.write(" ")
				p.stmt(s.Else)
			} else {
				p.body(s.Else)
			}
		}
	case *While:
		p.write("while (")
		p.expr(s.Cond)
		p.write(")")
		p.body(s.Body)
	case *DoWhile:
		p.write("do")
		p.body(s.Body)
		if _, ok := s.Body.(*Block); ok {
			p.write(" ")
		} else {
			p.newline()
		}
		p.write("while (")
		p.expr(s.Cond)
		p.write(");")
	case *For:
		p.write("for (")
		p.forInit(s.Init)
		p.write(";")
		if s.Cond != nil {
			p.write(" ")
			p.expr(s.Cond)
		}
		p.write(";")
		for i, u := range s.Update {
			if i == 0 {
				p.write(" ")
			} else {
				p.write(", ")
			}
			p.clause(u)
		}
		p.write(")")
		p.body(s.Body)
	case *ForEach:
		p.write("for (")
		p.localVar(s.Var, true)
		p.write(" : ")
		p.expr(s.Iterable)
		p.write(")")
		p.body(s.Body)
	case *Return:
		p.write("return")
		if s.Result != nil {
			p.write(" ")
			p.expr(s.Result)
		}
		p.write(";")
	case *Break:
		p.write("break")
		if s.Label != "" {
			p.write(" ", s.Label)
		}
		p.write(";")
	case *Continue:
		p.write("continue")
		if s.Label != "" {
			p.write(" ", s.Label)
		}
		p.write(";")
	case *Throw:
		p.write("throw ")
		p.expr(s.X)
		p.write(";")
	case *Empty:
		p.write(";")
	case *OpaqueStmt:
		p.write(s.Source)
	}
}

func (p *printer) forInit(init []Stmt) {
	declared := false
	for i, s := range init {
		if i > 0 {
			p.write(", ")
		}
		if v, ok := s.(*LocalVar); ok {
			p.localVar(v, !declared)
			declared = true
			continue
		}
		p.clause(s)
	}
}

// clause writes a statement of a for header without its semicolon.
func (p *printer) clause(s Stmt) {
	switch s := s.(type) {
	case *ExprStmt:
		p.expr(s.X)
	case *LocalVar:
		p.localVar(s, true)
	default:
		p.stmt(s)
	}
}

func (p *printer) exprList(es []Expr) {
	for i, e := range es {
		if i > 0 {
			p.write(", ")
		}
		p.expr(e)
	}
}

func (p *printer) expr(e Expr) {
	switch e := e.(type) {
	case *Literal:
		p.write(e.Value)
	case *Name:
		p.write(e.Name)
	case *FieldAccess:
		if e.X != nil {
			p.expr(e.X)
			p.write(".")
		}
		p.write(e.Name)
	case *Assign:
		p.expr(e.Lhs)
		p.write(" ", e.Op, " ")
		p.expr(e.Rhs)
	case *Unary:
		if e.Postfix {
			p.expr(e.X)
			p.write(e.Op)
		} else {
			p.write(e.Op)
			p.expr(e.X)
		}
	case *Binary:
		p.expr(e.L)
		p.write(" ", e.Op, " ")
		p.expr(e.R)
	case *Invocation:
		if e.X != nil {
			p.expr(e.X)
			p.write(".")
		}
		p.write(e.Name, "(")
		p.exprList(e.Args)
		p.write(")")
	case *New:
		p.write("new ", e.Type.String(), "(")
		p.exprList(e.Args)
		p.write(")")
		if e.Body != nil {
			p.write(" ")
			p.typeDecl(e.Body)
		}
	case *Paren:
		p.write("(")
		p.expr(e.X)
		p.write(")")
	case *ArrayAccess:
		p.expr(e.X)
		p.write("[")
		p.expr(e.Index)
		p.write("]")
	case *Conditional:
		p.expr(e.Cond)
		p.write(" ? ")
		p.expr(e.Then)
		p.write(" : ")
		p.expr(e.Else)
	case *Cast:
		p.write("(", e.Type.String(), ") ")
		p.expr(e.X)
	case *This:
		if e.Qualifier != "" {
			p.write(e.Qualifier, ".")
		}
		if e.Super {
			p.write("super")
		} else {
			p.write("this")
		}
	case *Lambda:
		p.lambda(e)
	case *OpaqueExpr:
		p.write(e.Source)
	}
}

func (p *printer) lambda(l *Lambda) {
	if len(l.Params) == 1 && l.Params[0].Type == nil {
		p.write(l.Params[0].Name)
	} else {
		p.write("(")
		for i, param := range l.Params {
			if i > 0 {
				p.write(", ")
			}
			p.param(param)
		}
		p.write(")")
	}
	p.write(" -> ")
	switch body := l.Body.(type) {
	case *Block:
		p.block(body)
	case Expr:
		p.expr(body)
	}
}
