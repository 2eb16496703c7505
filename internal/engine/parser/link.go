package parser

import (
	"idiomlint/internal/core/errors"
	"idiomlint/internal/engine/ast"
	"idiomlint/internal/shared/observability"
	"log/slog"
	"slices"
	"strings"
	"time"
)

// Link assembles parsed units into one program and binds names to
// declarations. The package hierarchy follows the dotted names: a.b is a
// child of a, which is a child of the root package. Units must not have been
// linked before. Units are kept in path order.
//
// Binding is best effort. A name that cannot be resolved stays unbound and
// simply contributes no reference.
func Link(units []*ast.CompilationUnit) (*ast.Program, error) {
	start := time.Now()
	defer func() {
		observability.LinkDuration.Observe(time.Since(start).Seconds())
	}()

	units = slices.DeleteFunc(slices.Clone(units), func(u *ast.CompilationUnit) bool { return u == nil })
	for _, u := range units {
		for _, t := range u.Types {
			if t.Parent() != nil {
				return nil, errors.AddContext(
					errors.New(errors.CodeConflict, "compilation unit is already linked"),
					errors.CtxPath, u.Path,
				)
			}
		}
	}
	slices.SortStableFunc(units, func(a, b *ast.CompilationUnit) int {
		return strings.Compare(a.Path, b.Path)
	})

	prog := ast.NewProgram()

	l := &linker{types: make(map[string]*ast.Type), lib: jdk()}
	for _, u := range units {
		pkg := prog.EnsurePackage(u.PackageName)
		for _, t := range u.Types {
			pkg.AddType(t)
			l.register(t)
		}
		prog.Units = append(prog.Units, u)
	}

	for _, u := range prog.Units {
		file := &scope{unit: u}
		for _, t := range u.Types {
			l.declare(t, file)
		}
	}
	for _, u := range prog.Units {
		file := &scope{unit: u}
		for _, t := range u.Types {
			l.bindType(t, file)
		}
	}
	return prog, nil
}

type linker struct {
	types map[string]*ast.Type
	lib   *library
}

// scope is one level of the lexical environment: a type body or a block
// that declares variables.
type scope struct {
	parent *scope
	unit   *ast.CompilationUnit
	typ    *ast.Type
	vars   map[string]ast.Decl
}

func (s *scope) child() *scope {
	return &scope{parent: s, unit: s.unit}
}

func (s *scope) withType(t *ast.Type) *scope {
	return &scope{parent: s, unit: s.unit, typ: t}
}

func (s *scope) declare(d ast.Decl) {
	if d.DeclName() == "" {
		return
	}
	if s.vars == nil {
		s.vars = make(map[string]ast.Decl)
	}
	s.vars[d.DeclName()] = d
}

// lookupVar finds a local, parameter or field visible from s.
func (s *scope) lookupVar(name string) ast.Decl {
	for cur := s; cur != nil; cur = cur.parent {
		if d, ok := cur.vars[name]; ok {
			return d
		}
		if cur.typ != nil {
			if f := ast.LookupField(cur.typ, name); f != nil {
				return f
			}
		}
	}
	return nil
}

// innermostType returns the closest enclosing type body.
func (s *scope) innermostType() *ast.Type {
	for cur := s; cur != nil; cur = cur.parent {
		if cur.typ != nil {
			return cur.typ
		}
	}
	return nil
}

func (l *linker) register(t *ast.Type) {
	if t.Name == "" {
		return
	}
	qn := t.QualifiedName()
	if prev, ok := l.types[qn]; ok && prev != t {
		path := ""
		if t.Unit != nil {
			path = t.Unit.Path
		}
		slog.Warn("duplicate type declaration, keeping the first", "type", qn, "path", path)
		return
	}
	l.types[qn] = t
	for _, m := range t.Members {
		if nested, ok := m.(*ast.Type); ok {
			l.register(nested)
		}
	}
}

// lookupType resolves a type name as written at s.
func (l *linker) lookupType(name string, s *scope) *ast.Type {
	if name == "" {
		return nil
	}
	if head, rest, qualified := strings.Cut(name, "."); qualified {
		if t := l.types[name]; t != nil {
			return t
		}
		if t := l.lookupType(head, s); t != nil {
			for _, part := range strings.Split(rest, ".") {
				if t = t.NestedType(part); t == nil {
					break
				}
			}
			if t != nil {
				return t
			}
		}
		return l.lib.lookup(name)
	}

	for cur := s; cur != nil; cur = cur.parent {
		if cur.typ == nil {
			continue
		}
		for st := range ast.Supertypes(cur.typ) {
			if st.Name == name {
				return st
			}
			if nested := st.NestedType(name); nested != nil {
				return nested
			}
		}
	}

	var unit *ast.CompilationUnit
	if s != nil {
		unit = s.unit
	}
	if unit != nil {
		for _, imp := range unit.Imports {
			if imp.Static || imp.OnDemand {
				continue
			}
			if imp.Name == name || strings.HasSuffix(imp.Name, "."+name) {
				if t := l.types[imp.Name]; t != nil {
					return t
				}
				if t := l.lib.byQualified[imp.Name]; t != nil {
					return t
				}
			}
		}
		if t := l.types[qualify(unit.PackageName, name)]; t != nil {
			return t
		}
		for _, imp := range unit.Imports {
			if imp.Static || !imp.OnDemand {
				continue
			}
			if t := l.types[imp.Name+"."+name]; t != nil {
				return t
			}
			if t := l.lib.byQualified[imp.Name+"."+name]; t != nil {
				return t
			}
		}
	}
	// types of the unnamed package cannot be imported, but sources that
	// mix it with named packages still refer to them by simple name
	if t := l.types[name]; t != nil {
		return t
	}
	return l.lib.lookup(name)
}

func qualify(pkg, name string) string {
	if pkg == "" {
		return name
	}
	return pkg + "." + name
}

func (l *linker) resolveType(ref *ast.TypeRef, s *scope) {
	if ref == nil || ref.Decl != nil || ref.IsPrimitive() || ref.Name == "void" || ref.Name == "var" {
		return
	}
	ref.Decl = l.lookupType(ref.Name, s)
}

// declare resolves the declared types of t and its member types: supertypes,
// field types and method signatures. Bodies are bound later, once every
// member type is known.
func (l *linker) declare(t *ast.Type, outer *scope) {
	s := outer.withType(t)
	l.resolveType(t.Superclass, s)
	for _, iface := range t.Interfaces {
		l.resolveType(iface, s)
	}
	for _, m := range t.Members {
		switch m := m.(type) {
		case *ast.Field:
			l.resolveType(m.Type, s)
		case *ast.Method:
			l.resolveType(m.Return, s)
			for _, p := range m.Params {
				l.resolveType(p.Type, s)
			}
		case *ast.Type:
			l.declare(m, s)
		}
	}
}

func (l *linker) bindType(t *ast.Type, outer *scope) {
	s := outer.withType(t)
	for _, m := range t.Members {
		switch m := m.(type) {
		case *ast.Field:
			l.bindExpr(m.Init, s)
		case *ast.Method:
			ms := s.child()
			for _, p := range m.Params {
				ms.declare(p)
			}
			if m.Body != nil {
				l.bindStmt(m.Body, ms)
			}
		case *ast.Initializer:
			if m.Body != nil {
				l.bindStmt(m.Body, s)
			}
		case *ast.Type:
			l.bindType(m, s)
		}
	}
}

// localType handles a class declared inside a body.
func (l *linker) localType(t *ast.Type, s *scope) {
	l.declare(t, s)
	l.bindType(t, s)
}

func (l *linker) bindLocal(v *ast.LocalVar, s *scope) {
	l.resolveType(v.Type, s)
	l.bindExpr(v.Init, s)
	if v.Type != nil && v.Type.Text == "var" {
		if inferred := ast.TypeOf(v.Init); inferred != nil {
			v.Type = &ast.TypeRef{Text: "var", Name: inferred.Name, Dims: inferred.Dims, Decl: inferred.Decl}
		}
	}
	s.declare(v)
}

func (l *linker) bindStmt(st ast.Stmt, s *scope) {
	switch st := st.(type) {
	case nil:
	case *ast.Block:
		inner := s.child()
		for _, child := range st.Stmts {
			l.bindStmt(child, inner)
		}
	case *ast.LocalVar:
		l.bindLocal(st, s)
	case *ast.ExprStmt:
		l.bindExpr(st.X, s)
	case *ast.If:
		l.bindExpr(st.Cond, s)
		l.bindStmt(st.Then, s.child())
		l.bindStmt(st.Else, s.child())
	case *ast.While:
		l.bindExpr(st.Cond, s)
		l.bindStmt(st.Body, s.child())
	case *ast.DoWhile:
		l.bindStmt(st.Body, s.child())
		l.bindExpr(st.Cond, s)
	case *ast.For:
		fs := s.child()
		for _, init := range st.Init {
			l.bindStmt(init, fs)
		}
		l.bindExpr(st.Cond, fs)
		for _, update := range st.Update {
			l.bindStmt(update, fs)
		}
		l.bindStmt(st.Body, fs.child())
	case *ast.ForEach:
		l.bindExpr(st.Iterable, s)
		fs := s.child()
		if st.Var == nil {
			l.bindStmt(st.Body, fs)
			return
		}
		l.resolveType(st.Var.Type, fs)
		if st.Var.Type != nil && st.Var.Type.Text == "var" {
			if elem := ast.TypeOf(st.Iterable).Element(); elem != nil {
				st.Var.Type = &ast.TypeRef{Text: "var", Name: elem.Name, Dims: elem.Dims, Decl: elem.Decl}
			}
		}
		fs.declare(st.Var)
		l.bindStmt(st.Body, fs.child())
	case *ast.Return:
		l.bindExpr(st.Result, s)
	case *ast.Throw:
		l.bindExpr(st.X, s)
	case *ast.OpaqueStmt:
		l.bindOpaque(st.Children, s)
	}
}

// bindOpaque binds the converted parts of an unsupported construct in one
// shared scope, in source order, so catch parameters and resources are
// visible to the blocks after them.
func (l *linker) bindOpaque(kids []ast.Node, s *scope) {
	os := s.child()
	for _, kid := range kids {
		switch kid := kid.(type) {
		case *ast.Type:
			l.localType(kid, os)
		case ast.Stmt:
			l.bindStmt(kid, os)
		case ast.Expr:
			l.bindExpr(kid, os)
		}
	}
}

func (l *linker) bindExpr(e ast.Expr, s *scope) {
	switch e := e.(type) {
	case nil:
	case *ast.Name:
		if e.Decl == nil {
			if d := s.lookupVar(e.Name); d != nil {
				e.Decl = d
			}
		}
	case *ast.FieldAccess:
		l.bindFieldAccess(e, s)
	case *ast.Assign:
		l.bindExpr(e.Lhs, s)
		l.bindExpr(e.Rhs, s)
	case *ast.Unary:
		l.bindExpr(e.X, s)
	case *ast.Binary:
		l.bindExpr(e.L, s)
		l.bindExpr(e.R, s)
	case *ast.Invocation:
		l.bindInvocation(e, s)
	case *ast.New:
		l.resolveType(e.Type, s)
		for _, arg := range e.Args {
			l.bindExpr(arg, s)
		}
		if e.Body != nil {
			if e.Body.Superclass != nil && e.Body.Superclass.Decl == nil {
				e.Body.Superclass.Decl = e.Type.Decl
			}
			l.localType(e.Body, s)
		}
	case *ast.Paren:
		l.bindExpr(e.X, s)
	case *ast.ArrayAccess:
		l.bindExpr(e.X, s)
		l.bindExpr(e.Index, s)
	case *ast.Conditional:
		l.bindExpr(e.Cond, s)
		l.bindExpr(e.Then, s)
		l.bindExpr(e.Else, s)
	case *ast.Cast:
		l.resolveType(e.Type, s)
		l.bindExpr(e.X, s)
	case *ast.Lambda:
		ls := s.child()
		for _, p := range e.Params {
			l.resolveType(p.Type, ls)
			ls.declare(p)
		}
		switch body := e.Body.(type) {
		case ast.Stmt:
			l.bindStmt(body, ls)
		case ast.Expr:
			l.bindExpr(body, ls)
		}
	case *ast.OpaqueExpr:
		l.resolveType(e.Type, s)
		l.bindOpaque(e.Children, s)
	}
}

// thisType returns the type that this (or Outer.this) denotes at s.
func (l *linker) thisType(this *ast.This, s *scope) *ast.Type {
	var t *ast.Type
	if this.Qualifier == "" {
		t = s.innermostType()
	} else {
		for cur := s; cur != nil; cur = cur.parent {
			if cur.typ != nil && cur.typ.Name == this.Qualifier {
				t = cur.typ
				break
			}
		}
	}
	if t != nil && this.Super {
		if t.Superclass == nil {
			return nil
		}
		return t.Superclass.Decl
	}
	return t
}

// staticType interprets an unbound name or dotted name as a type, for
// static member access like Type.field or pkg.Type.field.
func (l *linker) staticType(e ast.Expr, s *scope) *ast.Type {
	if name, ok := dottedName(e); ok {
		return l.lookupType(name, s)
	}
	return nil
}

// dottedName renders a chain of unbound names as text.
func dottedName(e ast.Expr) (string, bool) {
	switch e := e.(type) {
	case *ast.Name:
		return e.Name, e.Decl == nil
	case *ast.FieldAccess:
		if e.Decl != nil {
			return "", false
		}
		head, ok := dottedName(e.X)
		if !ok {
			return "", false
		}
		return head + "." + e.Name, true
	}
	return "", false
}

// receiverType returns the type whose members x.member refers to.
func (l *linker) receiverType(x ast.Expr, s *scope) *ast.Type {
	if this, ok := x.(*ast.This); ok {
		return l.thisType(this, s)
	}
	l.bindExpr(x, s)
	if t := ast.TypeOf(x); t != nil {
		if t.IsArray() {
			return nil
		}
		return t.Decl
	}
	return l.staticType(x, s)
}

func (l *linker) bindFieldAccess(e *ast.FieldAccess, s *scope) {
	t := l.receiverType(e.X, s)
	if t == nil {
		return
	}
	if f := ast.LookupField(t, e.Name); f != nil {
		e.Decl = f
	}
}

func (l *linker) bindInvocation(e *ast.Invocation, s *scope) {
	for _, arg := range e.Args {
		l.bindExpr(arg, s)
	}
	var candidates []*ast.Method
	if e.X == nil {
		for cur := s; cur != nil && len(candidates) == 0; cur = cur.parent {
			if cur.typ != nil {
				candidates = methodsOf(cur.typ, e.Name)
			}
		}
	} else if t := l.receiverType(e.X, s); t != nil {
		candidates = methodsOf(t, e.Name)
	}
	e.Method = pickMethod(candidates, len(e.Args))
}

func methodsOf(t *ast.Type, name string) []*ast.Method {
	return (&ast.TypeRef{Name: t.Name, Decl: t}).MethodsByName(name)
}

// pickMethod chooses an overload by arity, preferring exact matches over
// variable arity ones.
func pickMethod(candidates []*ast.Method, args int) *ast.Method {
	for _, m := range candidates {
		if len(m.Params) == args && !isVarargs(m) {
			return m
		}
	}
	for _, m := range candidates {
		if isVarargs(m) && args >= len(m.Params)-1 {
			return m
		}
	}
	return nil
}

func isVarargs(m *ast.Method) bool {
	return len(m.Params) > 0 && m.Params[len(m.Params)-1].Varargs
}
