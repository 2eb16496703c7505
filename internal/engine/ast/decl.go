package ast

import (
	"iter"
	"slices"
	"strings"
)

// Program is a whole analyzed code base. The root package is the root of the
// syntax tree and the whole-program scope.
type Program struct {
	Root  *Package
	Units []*CompilationUnit

	packages map[string]*Package
}

// NewProgram returns a program with an empty root package.
func NewProgram() *Program {
	root := &Package{}
	return &Program{
		Root:     root,
		packages: map[string]*Package{"": root},
	}
}

// Package returns the package with the given qualified name, or nil.
func (p *Program) Package(name string) *Package {
	return p.packages[name]
}

// EnsurePackage returns the package with the given qualified name, creating
// it and its missing ancestors.
func (p *Program) EnsurePackage(name string) *Package {
	if pkg, ok := p.packages[name]; ok {
		return pkg
	}
	parentName := ""
	simple := name
	if i := strings.LastIndexByte(name, '.'); i >= 0 {
		parentName, simple = name[:i], name[i+1:]
	}
	parent := p.EnsurePackage(parentName)
	pkg := &Package{Name: name, SimpleName: simple}
	parent.Packages = append(parent.Packages, pkg)
	attach(parent, pkg)
	slices.SortFunc(parent.Packages, func(a, b *Package) int { return strings.Compare(a.Name, b.Name) })
	p.packages[name] = pkg
	return pkg
}

// Packages returns all packages in name order, the root package first.
func (p *Program) Packages() []*Package {
	names := make([]string, 0, len(p.packages))
	for name := range p.packages {
		names = append(names, name)
	}
	slices.Sort(names)
	out := make([]*Package, 0, len(names))
	for _, name := range names {
		out = append(out, p.packages[name])
	}
	return out
}

// CompilationUnit is one parsed source file. It is bookkeeping for the front
// end and not part of the parent chain: top-level types hang off packages.
type CompilationUnit struct {
	Path        string
	PackageName string
	Imports     []Import
	Types       []*Type
	HasErrors   bool
}

// Import is a single import declaration.
type Import struct {
	Name     string // qualified name without the trailing ".*"
	Static   bool
	OnDemand bool
}

// Package is a Java package. The root package has an empty name.
type Package struct {
	nodeBase
	Name       string
	SimpleName string
	Packages   []*Package
	Types      []*Type
}

// IsRoot reports whether p is the unnamed root package.
func (p *Package) IsRoot() bool { return p.Name == "" }

// AddType attaches a top-level type to the package.
func (p *Package) AddType(t *Type) {
	p.Types = append(p.Types, t)
	attach(p, t)
}

// Member is a declaration directly inside a type body.
type Member interface {
	Node
	member()
}

// Decl is a named entity that references point to.
type Decl interface {
	Node
	DeclName() string
	DeclType() *TypeRef
	decl()
}

// TypeKind distinguishes the kinds of type declarations.
type TypeKind int

const (
	KindClass TypeKind = iota
	KindInterface
	KindEnum
	KindRecord
	KindAnnotation
)

func (k TypeKind) String() string {
	switch k {
	case KindClass:
		return "class"
	case KindInterface:
		return "interface"
	case KindEnum:
		return "enum"
	case KindRecord:
		return "record"
	case KindAnnotation:
		return "@interface"
	}
	return "type"
}

// Type is a class, interface, enum, record or annotation declaration.
// Anonymous classes have an empty name.
type Type struct {
	nodeBase
	Name       string
	Kind       TypeKind
	Visibility Visibility
	Static     bool
	Superclass *TypeRef
	Interfaces []*TypeRef
	Members    []Member

	// Unit is the file the type was declared in, nil for library stubs.
	Unit *CompilationUnit
}

func (*Type) member() {}

// AddMember attaches m to the type body.
func (t *Type) AddMember(m Member) {
	t.Members = append(t.Members, m)
	attach(t, m)
}

// QualifiedName returns the dotted name, nested types joined with '.'.
// Package names are already qualified, so only the nearest one is used.
func (t *Type) QualifiedName() string {
	var parts []string
walk:
	for n := Node(t); n != nil; n = n.Parent() {
		switch v := n.(type) {
		case *Type:
			parts = append(parts, v.Name)
		case *Package:
			if !v.IsRoot() {
				parts = append(parts, v.Name)
			}
			break walk
		}
	}
	slices.Reverse(parts)
	return strings.Join(parts, ".")
}

// Fields returns the fields declared directly in t.
func (t *Type) Fields() []*Field {
	var out []*Field
	for _, m := range t.Members {
		if f, ok := m.(*Field); ok {
			out = append(out, f)
		}
	}
	return out
}

// Field returns the field with the given name declared directly in t.
func (t *Type) Field(name string) *Field {
	for _, m := range t.Members {
		if f, ok := m.(*Field); ok && f.Name == name {
			return f
		}
	}
	return nil
}

// Methods returns the methods (not constructors) with the given name declared
// directly in t.
func (t *Type) Methods(name string) []*Method {
	var out []*Method
	for _, m := range t.Members {
		if md, ok := m.(*Method); ok && !md.Constructor && md.Name == name {
			out = append(out, md)
		}
	}
	return out
}

// NestedType returns the member type with the given name.
func (t *Type) NestedType(name string) *Type {
	for _, m := range t.Members {
		if nt, ok := m.(*Type); ok && nt.Name == name {
			return nt
		}
	}
	return nil
}

// Field is a field or enum constant declaration.
type Field struct {
	nodeBase
	Name         string
	Visibility   Visibility
	Static       bool
	Final        bool
	Type         *TypeRef
	Init         Expr
	EnumConstant bool
}

func (*Field) member()              {}
func (*Field) decl()                {}
func (f *Field) DeclName() string   { return f.Name }
func (f *Field) DeclType() *TypeRef { return f.Type }

// SetInit attaches the initializer expression.
func (f *Field) SetInit(e Expr) {
	f.Init = e
	attach(f, e)
}

// Method is a method or constructor declaration.
type Method struct {
	nodeBase
	Name        string
	Visibility  Visibility
	Static      bool
	Abstract    bool
	Constructor bool
	Return      *TypeRef
	Params      []*Param
	Body        *Block
}

func (*Method) member() {}

// AddParam attaches a formal parameter.
func (m *Method) AddParam(p *Param) {
	m.Params = append(m.Params, p)
	attach(m, p)
}

// SetBody attaches the method body.
func (m *Method) SetBody(b *Block) {
	m.Body = b
	attach(m, b)
}

// Initializer is a static or instance initializer block.
type Initializer struct {
	nodeBase
	Static bool
	Body   *Block
}

func (*Initializer) member() {}

// SetBody attaches the initializer body.
func (i *Initializer) SetBody(b *Block) {
	i.Body = b
	attach(i, b)
}

// Param is a formal parameter of a method, constructor or lambda.
type Param struct {
	nodeBase
	Name    string
	Type    *TypeRef
	Final   bool
	Varargs bool
}

func (*Param) decl()                {}
func (p *Param) DeclName() string   { return p.Name }
func (p *Param) DeclType() *TypeRef { return p.Type }

// TypeRef is a type as written in source. It is a value, not a tree node.
type TypeRef struct {
	// Text is the type as written, e.g. "List<String>" or "int[]".
	Text string
	// Name is the raw name without type arguments or dimensions.
	Name string
	// Dims is the number of array dimensions.
	Dims int
	// Decl is the resolved declaration, nil for primitives and unknown types.
	Decl *Type
}

var numericPrimitives = map[string]bool{
	"byte":   true,
	"short":  true,
	"int":    true,
	"long":   true,
	"char":   true,
	"float":  true,
	"double": true,
}

// IsPrimitiveNumeric reports whether r is a numeric primitive (not an array).
func (r *TypeRef) IsPrimitiveNumeric() bool {
	return r != nil && r.Dims == 0 && numericPrimitives[r.Name]
}

// IsPrimitive reports whether r names a primitive type including boolean.
func (r *TypeRef) IsPrimitive() bool {
	return r != nil && r.Dims == 0 && (numericPrimitives[r.Name] || r.Name == "boolean")
}

// IsArray reports whether r is an array type.
func (r *TypeRef) IsArray() bool {
	return r != nil && r.Dims > 0
}

// Element returns the component type of an array type.
func (r *TypeRef) Element() *TypeRef {
	if !r.IsArray() {
		return nil
	}
	text := strings.TrimSpace(r.Text)
	if strings.HasSuffix(text, "[]") {
		text = strings.TrimSpace(strings.TrimSuffix(text, "[]"))
	}
	return &TypeRef{Text: text, Name: r.Name, Dims: r.Dims - 1, Decl: r.Decl}
}

// MethodsByName looks up methods of the referenced type and all of its
// supertypes, closest first. Arrays and unresolved types have no methods.
func (r *TypeRef) MethodsByName(name string) []*Method {
	if r == nil || r.IsArray() || r.Decl == nil {
		return nil
	}
	var out []*Method
	for t := range Supertypes(r.Decl) {
		out = append(out, t.Methods(name)...)
	}
	return out
}

// Supertypes yields t, then its superclasses and interfaces breadth first.
// Each type is yielded once; unresolved supertypes are skipped.
func Supertypes(t *Type) iter.Seq[*Type] {
	return func(yield func(*Type) bool) {
		seen := map[*Type]bool{t: true}
		queue := []*Type{t}
		for len(queue) > 0 {
			cur := queue[0]
			queue = queue[1:]
			if !yield(cur) {
				return
			}
			supers := make([]*TypeRef, 0, len(cur.Interfaces)+1)
			supers = append(supers, cur.Superclass)
			supers = append(supers, cur.Interfaces...)
			for _, ref := range supers {
				if ref == nil || ref.Decl == nil || seen[ref.Decl] {
					continue
				}
				seen[ref.Decl] = true
				queue = append(queue, ref.Decl)
			}
		}
	}
}

// FieldByName looks up a field of the referenced type and its supertypes.
func (r *TypeRef) FieldByName(name string) *Field {
	if r == nil || r.IsArray() || r.Decl == nil {
		return nil
	}
	return LookupField(r.Decl, name)
}

// LookupField searches t and its supertypes for a field.
func LookupField(t *Type, name string) *Field {
	if t == nil {
		return nil
	}
	for st := range Supertypes(t) {
		if f := st.Field(name); f != nil {
			return f
		}
	}
	return nil
}

// Clone returns a copy of r.
func (r *TypeRef) Clone() *TypeRef {
	if r == nil {
		return nil
	}
	c := *r
	return &c
}

func (r *TypeRef) String() string {
	if r == nil {
		return ""
	}
	return r.Text
}
