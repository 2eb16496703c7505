package parser

import (
	"idiomlint/internal/engine/ast"
	"strings"

	sitter "github.com/tree-sitter/go-tree-sitter"
)

var typeDeclKinds = map[string]ast.TypeKind{
	"class_declaration":           ast.KindClass,
	"interface_declaration":       ast.KindInterface,
	"enum_declaration":            ast.KindEnum,
	"record_declaration":          ast.KindRecord,
	"annotation_type_declaration": ast.KindAnnotation,
}

type modifierSet struct {
	visibility ast.Visibility
	explicit   bool
	static     bool
	final      bool
	abstract   bool
}

func (c *Converter) modifiers(node *sitter.Node) modifierSet {
	m := modifierSet{visibility: ast.Default}
	mods := c.ChildOfKind(node, "modifiers")
	if mods == nil {
		return m
	}
	for _, tok := range children(mods) {
		switch tok.Kind() {
		case "public":
			m.visibility, m.explicit = ast.Public, true
		case "protected":
			m.visibility, m.explicit = ast.Protected, true
		case "private":
			m.visibility, m.explicit = ast.Private, true
		case "static":
			m.static = true
		case "final":
			m.final = true
		case "abstract":
			m.abstract = true
		}
	}
	return m
}

// Program converts the root node of a file into the unit.
func (c *Converter) Program(root *sitter.Node) {
	for _, child := range namedChildren(root) {
		switch child.Kind() {
		case "package_declaration":
			c.Unit.PackageName = c.qualifiedName(child)
		case "import_declaration":
			c.Unit.Imports = append(c.Unit.Imports, c.importDecl(child))
		default:
			if t := c.typeDecl(child); t != nil {
				c.Unit.Types = append(c.Unit.Types, t)
			}
		}
	}
}

func (c *Converter) qualifiedName(node *sitter.Node) string {
	for _, child := range namedChildren(node) {
		if child.Kind() == "identifier" || child.Kind() == "scoped_identifier" {
			return strings.Join(strings.Fields(c.Text(child)), "")
		}
	}
	return ""
}

func (c *Converter) importDecl(node *sitter.Node) ast.Import {
	return ast.Import{
		Name:     c.qualifiedName(node),
		Static:   c.ChildOfKind(node, "static") != nil,
		OnDemand: c.ChildOfKind(node, "asterisk") != nil,
	}
}

// typeDecl converts a type declaration, or returns nil for other kinds.
func (c *Converter) typeDecl(node *sitter.Node) *ast.Type {
	kind, ok := typeDeclKinds[node.Kind()]
	if !ok {
		return nil
	}
	mods := c.modifiers(node)
	t := at(c, node, &ast.Type{
		Name:       c.Text(node.ChildByFieldName("name")),
		Kind:       kind,
		Visibility: mods.visibility,
		Static:     mods.static || kind == ast.KindEnum || kind == ast.KindRecord || kind == ast.KindInterface,
		Unit:       c.Unit,
	})
	if sc := node.ChildByFieldName("superclass"); sc != nil {
		t.Superclass = c.typeRef(firstNamed(sc))
	}
	for _, list := range []*sitter.Node{
		node.ChildByFieldName("interfaces"),
		c.ChildOfKind(node, "super_interfaces"),
		c.ChildOfKind(node, "extends_interfaces"),
	} {
		typeList := firstNamed(list)
		if typeList == nil || len(t.Interfaces) > 0 {
			continue
		}
		for _, typ := range namedChildren(typeList) {
			t.Interfaces = append(t.Interfaces, c.typeRef(typ))
		}
	}
	if kind == ast.KindRecord {
		c.recordComponents(t, node.ChildByFieldName("parameters"))
	}
	c.typeBody(t, node.ChildByFieldName("body"))
	return t
}

// recordComponents adds the implicit private final fields of a record.
func (c *Converter) recordComponents(t *ast.Type, params *sitter.Node) {
	if params == nil {
		return
	}
	for _, p := range c.params(params) {
		f := &ast.Field{
			Name:       p.Name,
			Visibility: ast.Private,
			Final:      true,
			Type:       p.Type,
		}
		ast.SetPos(f, p.Pos())
		ast.MarkImplicit(f)
		t.AddMember(f)
	}
}

func (c *Converter) typeBody(t *ast.Type, body *sitter.Node) {
	if body == nil {
		return
	}
	for _, child := range namedChildren(body) {
		switch child.Kind() {
		case "enum_constant":
			t.AddMember(c.enumConstant(t, child))
		case "enum_body_declarations":
			for _, member := range namedChildren(child) {
				c.member(t, member)
			}
		default:
			c.member(t, child)
		}
	}
}

func (c *Converter) enumConstant(owner *ast.Type, node *sitter.Node) *ast.Field {
	typ := &ast.TypeRef{Text: owner.Name, Name: owner.Name}
	f := at(c, node, &ast.Field{
		Name:         c.Text(node.ChildByFieldName("name")),
		Visibility:   ast.Public,
		Static:       true,
		Final:        true,
		Type:         typ,
		EnumConstant: true,
	})
	args := node.ChildByFieldName("arguments")
	body := node.ChildByFieldName("body")
	if args != nil || body != nil {
		var anon *ast.Type
		if body != nil {
			anon = c.anonymousType(typ, body)
		}
		f.SetInit(at(c, node, ast.NewNew(typ.Clone(), c.arguments(args), anon)))
	}
	return f
}

func (c *Converter) anonymousType(super *ast.TypeRef, body *sitter.Node) *ast.Type {
	t := at(c, body, &ast.Type{
		Kind:       ast.KindClass,
		Visibility: ast.Default,
		Superclass: super.Clone(),
		Unit:       c.Unit,
	})
	c.typeBody(t, body)
	return t
}

func (c *Converter) member(owner *ast.Type, node *sitter.Node) {
	switch node.Kind() {
	case "field_declaration", "constant_declaration":
		for _, f := range c.fields(owner, node) {
			owner.AddMember(f)
		}
	case "method_declaration", "annotation_type_element_declaration":
		owner.AddMember(c.method(owner, node, false))
	case "constructor_declaration", "compact_constructor_declaration":
		owner.AddMember(c.method(owner, node, true))
	case "static_initializer":
		init := at(c, node, &ast.Initializer{Static: true})
		init.SetBody(c.block(c.ChildOfKind(node, "block")))
		owner.AddMember(init)
	case "block":
		init := at(c, node, &ast.Initializer{})
		init.SetBody(c.block(node))
		owner.AddMember(init)
	default:
		nested := c.typeDecl(node)
		if nested == nil {
			return
		}
		if owner.Kind == ast.KindInterface || owner.Kind == ast.KindAnnotation {
			nested.Static = true
			if nested.Visibility == ast.Default {
				nested.Visibility = ast.Public
			}
		}
		owner.AddMember(nested)
	}
}

func (c *Converter) fields(owner *ast.Type, node *sitter.Node) []*ast.Field {
	mods := c.modifiers(node)
	inInterface := owner.Kind == ast.KindInterface || owner.Kind == ast.KindAnnotation
	if inInterface {
		mods.static, mods.final = true, true
		if !mods.explicit {
			mods.visibility = ast.Public
		}
	}
	base := c.typeRef(node.ChildByFieldName("type"))
	var out []*ast.Field
	for _, decl := range namedChildren(node) {
		if decl.Kind() != "variable_declarator" {
			continue
		}
		f := at(c, node, &ast.Field{
			Name:       c.Text(decl.ChildByFieldName("name")),
			Visibility: mods.visibility,
			Static:     mods.static,
			Final:      mods.final,
			Type:       c.withDims(base, decl.ChildByFieldName("dimensions")),
		})
		f.SetInit(c.expr(decl.ChildByFieldName("value")))
		out = append(out, f)
	}
	return out
}

func (c *Converter) method(owner *ast.Type, node *sitter.Node, ctor bool) *ast.Method {
	mods := c.modifiers(node)
	m := at(c, node, &ast.Method{
		Name:        c.Text(node.ChildByFieldName("name")),
		Visibility:  mods.visibility,
		Static:      mods.static,
		Abstract:    mods.abstract,
		Constructor: ctor,
	})
	if !ctor {
		m.Return = c.withDims(c.typeRef(node.ChildByFieldName("type")), node.ChildByFieldName("dimensions"))
	}
	if params := node.ChildByFieldName("parameters"); params != nil {
		for _, p := range c.params(params) {
			m.AddParam(p)
		}
	}
	body := node.ChildByFieldName("body")
	if body != nil {
		m.SetBody(c.block(body))
	}
	switch owner.Kind {
	case ast.KindInterface, ast.KindAnnotation:
		if !mods.explicit {
			m.Visibility = ast.Public
		}
		if body == nil && !mods.static {
			m.Abstract = true
		}
	case ast.KindEnum:
		if ctor && !mods.explicit {
			m.Visibility = ast.Private
		}
	}
	return m
}

func (c *Converter) params(node *sitter.Node) []*ast.Param {
	var out []*ast.Param
	for _, child := range namedChildren(node) {
		switch child.Kind() {
		case "formal_parameter":
			mods := c.modifiers(child)
			out = append(out, at(c, child, &ast.Param{
				Name:  c.Text(child.ChildByFieldName("name")),
				Type:  c.withDims(c.typeRef(child.ChildByFieldName("type")), child.ChildByFieldName("dimensions")),
				Final: mods.final,
			}))
		case "spread_parameter":
			out = append(out, c.spreadParam(child))
		}
	}
	return out
}

func (c *Converter) spreadParam(node *sitter.Node) *ast.Param {
	mods := c.modifiers(node)
	p := at(c, node, &ast.Param{Final: mods.final, Varargs: true})
	for _, child := range namedChildren(node) {
		switch child.Kind() {
		case "modifiers", "annotation", "marker_annotation":
		case "variable_declarator":
			p.Name = c.Text(child.ChildByFieldName("name"))
		default:
			if p.Type == nil {
				elem := c.typeRef(child)
				p.Type = &ast.TypeRef{Text: elem.Text + "[]", Name: elem.Name, Dims: elem.Dims + 1}
			}
		}
	}
	return p
}

// typeRef converts a type node as written. Type arguments are kept in Text
// and dropped from Name.
func (c *Converter) typeRef(node *sitter.Node) *ast.TypeRef {
	if node == nil {
		return nil
	}
	text := c.CompactText(node)
	switch node.Kind() {
	case "array_type":
		elem := c.typeRef(node.ChildByFieldName("element"))
		if elem == nil {
			return &ast.TypeRef{Text: text, Name: text}
		}
		dims := countDims(c.Text(node.ChildByFieldName("dimensions")))
		return &ast.TypeRef{Text: text, Name: elem.Name, Dims: elem.Dims + dims}
	case "generic_type":
		return &ast.TypeRef{Text: text, Name: strings.ReplaceAll(c.CompactText(firstNamed(node)), " ", "")}
	case "scoped_type_identifier":
		return &ast.TypeRef{Text: text, Name: strings.ReplaceAll(text, " ", "")}
	}
	return &ast.TypeRef{Text: text, Name: text}
}

// withDims applies C-style dimensions written after a declarator name.
func (c *Converter) withDims(base *ast.TypeRef, dims *sitter.Node) *ast.TypeRef {
	if base == nil {
		return nil
	}
	out := base.Clone()
	if n := countDims(c.Text(dims)); n > 0 {
		out.Dims += n
		out.Text += strings.Repeat("[]", n)
	}
	return out
}

func countDims(text string) int {
	return strings.Count(text, "[")
}
