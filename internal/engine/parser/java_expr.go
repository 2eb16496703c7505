package parser

import (
	"idiomlint/internal/engine/ast"
	"strings"

	sitter "github.com/tree-sitter/go-tree-sitter"
)

var literalKinds = map[string]ast.LiteralKind{
	"decimal_integer_literal":        ast.LitInt,
	"hex_integer_literal":            ast.LitInt,
	"octal_integer_literal":          ast.LitInt,
	"binary_integer_literal":         ast.LitInt,
	"decimal_floating_point_literal": ast.LitDouble,
	"hex_floating_point_literal":     ast.LitDouble,
	"character_literal":              ast.LitChar,
	"string_literal":                 ast.LitString,
	"text_block":                     ast.LitString,
	"true":                           ast.LitBool,
	"false":                          ast.LitBool,
	"null_literal":                   ast.LitNull,
}

// Nodes that only name types or carry metadata. They are dropped from opaque
// nodes so that an identifier inside them is not taken for a variable.
var skippedKinds = map[string]bool{
	"modifiers":              true,
	"annotation":             true,
	"marker_annotation":      true,
	"type_identifier":        true,
	"scoped_type_identifier": true,
	"generic_type":           true,
	"array_type":             true,
	"integral_type":          true,
	"floating_point_type":    true,
	"boolean_type":           true,
	"void_type":              true,
	"type_arguments":         true,
	"type_parameters":        true,
	"dimensions":             true,
	"catch_type":             true,
	"throws":                 true,
}

// Parents whose identifier children are labels or member names.
var labelParents = map[string]bool{
	"labeled_statement":  true,
	"method_reference":   true,
	"break_statement":    true,
	"continue_statement": true,
}

func javaExprHandlers() map[string]ExprHandler {
	return map[string]ExprHandler{
		"identifier": func(c *Converter, n *sitter.Node) ast.Expr {
			return at(c, n, ast.NewName(c.Text(n), nil))
		},
		"this": func(c *Converter, n *sitter.Node) ast.Expr {
			return at(c, n, ast.NewThis("", false))
		},
		"super": func(c *Converter, n *sitter.Node) ast.Expr {
			return at(c, n, ast.NewThis("", true))
		},
		"parenthesized_expression": func(c *Converter, n *sitter.Node) ast.Expr {
			return at(c, n, ast.NewParen(c.expr(firstNamed(n))))
		},
		"assignment_expression": func(c *Converter, n *sitter.Node) ast.Expr {
			return at(c, n, ast.NewAssign(
				c.Text(n.ChildByFieldName("operator")),
				c.expr(n.ChildByFieldName("left")),
				c.expr(n.ChildByFieldName("right")),
			))
		},
		"binary_expression": func(c *Converter, n *sitter.Node) ast.Expr {
			return at(c, n, ast.NewBinary(
				c.Text(n.ChildByFieldName("operator")),
				c.expr(n.ChildByFieldName("left")),
				c.expr(n.ChildByFieldName("right")),
			))
		},
		"unary_expression": func(c *Converter, n *sitter.Node) ast.Expr {
			return at(c, n, ast.NewUnary(
				c.Text(n.ChildByFieldName("operator")),
				false,
				c.expr(n.ChildByFieldName("operand")),
			))
		},
		"update_expression":          (*Converter).updateExpr,
		"ternary_expression":         (*Converter).ternaryExpr,
		"cast_expression":            (*Converter).castExpr,
		"field_access":               (*Converter).fieldAccess,
		"array_access":               (*Converter).arrayAccess,
		"method_invocation":          (*Converter).invocation,
		"object_creation_expression": (*Converter).objectCreation,
		"array_creation_expression":  (*Converter).arrayCreation,
		"lambda_expression":          (*Converter).lambda,
		"instanceof_expression":      (*Converter).instanceOf,
	}
}

func (c *Converter) expr(node *sitter.Node) ast.Expr {
	if node == nil {
		return nil
	}
	kind := node.Kind()
	if h, ok := c.exprHandlers[kind]; ok {
		return h(c, node)
	}
	if lk, ok := literalKinds[kind]; ok {
		return c.literal(node, lk)
	}
	return c.opaqueExpr(node)
}

func (c *Converter) literal(node *sitter.Node, kind ast.LiteralKind) ast.Expr {
	text := c.Text(node)
	suffix := ""
	if text != "" {
		suffix = strings.ToLower(text[len(text)-1:])
	}
	switch {
	case kind == ast.LitInt && suffix == "l":
		kind = ast.LitLong
	case kind == ast.LitDouble && suffix == "f":
		kind = ast.LitFloat
	}
	return at(c, node, ast.NewLiteral(kind, text))
}

func (c *Converter) arguments(node *sitter.Node) []ast.Expr {
	if node == nil {
		return nil
	}
	var out []ast.Expr
	for _, child := range namedChildren(node) {
		out = append(out, c.expr(child))
	}
	return out
}

// updateExpr converts ++ and --. The grammar has no fields here; the
// position of the operator token tells prefix from postfix.
func (c *Converter) updateExpr(node *sitter.Node) ast.Expr {
	var op string
	postfix := true
	for i, child := range children(node) {
		if k := child.Kind(); k == "++" || k == "--" {
			op = k
			postfix = i > 0
		}
	}
	return at(c, node, ast.NewUnary(op, postfix, c.expr(firstNamed(node))))
}

func (c *Converter) ternaryExpr(node *sitter.Node) ast.Expr {
	return at(c, node, ast.NewConditional(
		c.expr(node.ChildByFieldName("condition")),
		c.expr(node.ChildByFieldName("consequence")),
		c.expr(node.ChildByFieldName("alternative")),
	))
}

func (c *Converter) castExpr(node *sitter.Node) ast.Expr {
	return at(c, node, ast.NewCast(
		c.typeRef(node.ChildByFieldName("type")),
		c.expr(node.ChildByFieldName("value")),
	))
}

func (c *Converter) fieldAccess(node *sitter.Node) ast.Expr {
	object := node.ChildByFieldName("object")
	field := node.ChildByFieldName("field")
	if field != nil && field.Kind() == "this" {
		return at(c, node, ast.NewThis(c.CompactText(object), false))
	}
	return at(c, node, ast.NewFieldAccess(c.expr(object), c.Text(field), nil))
}

func (c *Converter) arrayAccess(node *sitter.Node) ast.Expr {
	return at(c, node, ast.NewArrayAccess(
		c.expr(node.ChildByFieldName("array")),
		c.expr(node.ChildByFieldName("index")),
	))
}

func (c *Converter) invocation(node *sitter.Node) ast.Expr {
	return at(c, node, ast.NewInvocation(
		c.expr(node.ChildByFieldName("object")),
		c.Text(node.ChildByFieldName("name")),
		c.arguments(node.ChildByFieldName("arguments")),
		nil,
	))
}

func (c *Converter) objectCreation(node *sitter.Node) ast.Expr {
	typ := c.typeRef(node.ChildByFieldName("type"))
	if typ == nil {
		return c.opaqueExpr(node)
	}
	var body *ast.Type
	if cb := c.ChildOfKind(node, "class_body"); cb != nil {
		body = c.anonymousType(typ, cb)
	}
	return at(c, node, ast.NewNew(typ, c.arguments(node.ChildByFieldName("arguments")), body))
}

// arrayCreation keeps the expression opaque but records its array type.
func (c *Converter) arrayCreation(node *sitter.Node) ast.Expr {
	e := ast.NewOpaqueExpr(c.Text(node), c.opaqueChildren(node))
	if elem := c.typeRef(node.ChildByFieldName("type")); elem != nil {
		dims := 0
		for _, child := range namedChildren(node) {
			switch child.Kind() {
			case "dimensions_expr":
				dims++
			case "dimensions":
				dims += countDims(c.Text(child))
			}
		}
		e.Type = elem.Clone()
		e.Type.Dims += dims
		e.Type.Text += strings.Repeat("[]", dims)
	}
	return at(c, node, e)
}

func (c *Converter) lambda(node *sitter.Node) ast.Expr {
	var params []*ast.Param
	switch p := node.ChildByFieldName("parameters"); {
	case p == nil:
	case p.Kind() == "identifier":
		params = append(params, at(c, p, &ast.Param{Name: c.Text(p)}))
	case p.Kind() == "formal_parameters":
		params = c.params(p)
	default:
		for _, id := range namedChildren(p) {
			if id.Kind() == "identifier" {
				params = append(params, at(c, id, &ast.Param{Name: c.Text(id)}))
			}
		}
	}
	var body ast.Node
	if b := node.ChildByFieldName("body"); b != nil {
		if b.Kind() == "block" {
			body = c.block(b)
		} else {
			body = c.expr(b)
		}
	}
	return at(c, node, ast.NewLambda(params, body))
}

// instanceOf keeps the test as an opaque node. A binding pattern variable
// becomes a local declared inside it.
func (c *Converter) instanceOf(node *sitter.Node) ast.Expr {
	var kids []ast.Node
	if left := node.ChildByFieldName("left"); left != nil {
		kids = append(kids, c.expr(left))
	}
	if name := node.ChildByFieldName("name"); name != nil {
		kids = append(kids, at(c, name, &ast.LocalVar{
			Name: c.Text(name),
			Type: c.typeRef(node.ChildByFieldName("right")),
		}))
	}
	return at(c, node, ast.NewOpaqueExpr(c.Text(node), kids))
}

func (c *Converter) opaqueExpr(node *sitter.Node) ast.Expr {
	return at(c, node, ast.NewOpaqueExpr(c.Text(node), c.opaqueChildren(node)))
}

// opaqueChildren converts the recognizable parts below an unsupported
// construct so that references and loops inside it are still seen.
func (c *Converter) opaqueChildren(node *sitter.Node) []ast.Node {
	var out []ast.Node
	for _, child := range namedChildren(node) {
		out = append(out, c.opaqueNode(node, child)...)
	}
	return out
}

func (c *Converter) opaqueNode(parent, node *sitter.Node) []ast.Node {
	kind := node.Kind()
	switch {
	case skippedKinds[kind]:
		return nil
	case kind == "identifier" && labelParents[parent.Kind()]:
		return nil
	case kind == "catch_formal_parameter" || kind == "resource" && node.ChildByFieldName("name") != nil:
		v := at(c, node, &ast.LocalVar{
			Name: c.Text(node.ChildByFieldName("name")),
			Type: c.typeRef(c.firstType(node)),
		})
		v.SetInit(c.expr(node.ChildByFieldName("value")))
		return []ast.Node{v}
	case kind == "local_variable_declaration":
		var out []ast.Node
		for _, s := range c.localVars(node) {
			out = append(out, s)
		}
		return out
	}
	if t := c.typeDecl(node); t != nil {
		return []ast.Node{t}
	}
	if _, ok := c.stmtHandlers[kind]; ok {
		return []ast.Node{c.stmt(node)}
	}
	if _, ok := c.exprHandlers[kind]; ok {
		return []ast.Node{c.expr(node)}
	}
	if _, ok := literalKinds[kind]; ok {
		return []ast.Node{c.expr(node)}
	}
	return c.opaqueChildren(node)
}

// firstType returns the declared type of a catch parameter or resource.
func (c *Converter) firstType(node *sitter.Node) *sitter.Node {
	if t := node.ChildByFieldName("type"); t != nil {
		return t
	}
	if ct := c.ChildOfKind(node, "catch_type"); ct != nil {
		return firstNamed(ct)
	}
	return nil
}
