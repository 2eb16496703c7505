package parser

import (
	"idiomlint/internal/engine/ast"

	sitter "github.com/tree-sitter/go-tree-sitter"
)

func javaStmtHandlers() map[string]StmtHandler {
	return map[string]StmtHandler{
		"block":                  func(c *Converter, n *sitter.Node) ast.Stmt { return c.block(n) },
		"expression_statement":   (*Converter).exprStmt,
		"if_statement":           (*Converter).ifStmt,
		"while_statement":        (*Converter).whileStmt,
		"do_statement":           (*Converter).doStmt,
		"for_statement":          (*Converter).forStmt,
		"enhanced_for_statement": (*Converter).forEachStmt,
		"return_statement":       (*Converter).returnStmt,
		"break_statement":        (*Converter).breakStmt,
		"continue_statement":     (*Converter).continueStmt,
		"throw_statement":        (*Converter).throwStmt,
	}
}

// block converts any node whose children are statements: blocks,
// constructor bodies and switch groups.
func (c *Converter) block(node *sitter.Node) *ast.Block {
	if node == nil {
		return nil
	}
	b := at(c, node, &ast.Block{})
	for _, child := range children(node) {
		switch child.Kind() {
		case "{", "}":
			continue
		}
		b.Append(c.stmts(child)...)
	}
	return b
}

// stmts converts one statement node. A local variable declaration with
// several declarators yields one statement per variable.
func (c *Converter) stmts(node *sitter.Node) []ast.Stmt {
	switch node.Kind() {
	case "local_variable_declaration":
		return c.localVars(node)
	case ";":
		return []ast.Stmt{at(c, node, ast.NewEmpty())}
	}
	if !node.IsNamed() {
		return nil
	}
	if h, ok := c.stmtHandlers[node.Kind()]; ok {
		return []ast.Stmt{h(c, node)}
	}
	return []ast.Stmt{c.opaqueStmt(node)}
}

// stmt converts a statement in a single-statement slot such as a loop body.
func (c *Converter) stmt(node *sitter.Node) ast.Stmt {
	if node == nil {
		return nil
	}
	converted := c.stmts(node)
	switch len(converted) {
	case 0:
		return nil
	case 1:
		return converted[0]
	}
	return at(c, node, ast.NewBlock(converted...))
}

func (c *Converter) localVars(node *sitter.Node) []ast.Stmt {
	mods := c.modifiers(node)
	base := c.typeRef(node.ChildByFieldName("type"))
	var out []ast.Stmt
	for _, decl := range namedChildren(node) {
		if decl.Kind() != "variable_declarator" {
			continue
		}
		v := at(c, node, &ast.LocalVar{
			Name:  c.Text(decl.ChildByFieldName("name")),
			Type:  c.withDims(base, decl.ChildByFieldName("dimensions")),
			Final: mods.final,
		})
		v.SetInit(c.expr(decl.ChildByFieldName("value")))
		out = append(out, v)
	}
	return out
}

func (c *Converter) exprStmt(node *sitter.Node) ast.Stmt {
	return at(c, node, ast.NewExprStmt(c.expr(firstNamed(node))))
}

// condition unwraps the parentheses that Java requires around a condition.
func (c *Converter) condition(node *sitter.Node) ast.Expr {
	cond := node.ChildByFieldName("condition")
	if cond != nil && cond.Kind() == "parenthesized_expression" {
		return c.expr(firstNamed(cond))
	}
	return c.expr(cond)
}

func (c *Converter) ifStmt(node *sitter.Node) ast.Stmt {
	return at(c, node, ast.NewIf(
		c.condition(node),
		c.stmt(node.ChildByFieldName("consequence")),
		c.stmt(node.ChildByFieldName("alternative")),
	))
}

func (c *Converter) whileStmt(node *sitter.Node) ast.Stmt {
	return at(c, node, ast.NewWhile(c.condition(node), c.stmt(node.ChildByFieldName("body"))))
}

func (c *Converter) doStmt(node *sitter.Node) ast.Stmt {
	return at(c, node, ast.NewDoWhile(c.stmt(node.ChildByFieldName("body")), c.condition(node)))
}

// forStmt walks the header token by token: init and update may each hold
// several expressions and the grammar gives all of them the same field name.
func (c *Converter) forStmt(node *sitter.Node) ast.Stmt {
	const (
		inInit = iota
		inCond
		inUpdate
		inBody
	)
	var (
		init, update []ast.Stmt
		cond         ast.Expr
		body         ast.Stmt
	)
	state := inInit
	for _, child := range children(node) {
		kind := child.Kind()
		switch {
		case state == inBody:
			body = c.stmt(child)
		case kind == "for", kind == "(", kind == ",":
		case kind == ";":
			state++
		case kind == ")":
			state = inBody
		case state == inInit && kind == "local_variable_declaration":
			init = append(init, c.localVars(child)...)
			state = inCond
		case state == inInit:
			init = append(init, at(c, child, ast.NewExprStmt(c.expr(child))))
		case state == inCond:
			cond = c.expr(child)
		case state == inUpdate:
			update = append(update, at(c, child, ast.NewExprStmt(c.expr(child))))
		}
	}
	return at(c, node, ast.NewFor(init, cond, update, body))
}

func (c *Converter) forEachStmt(node *sitter.Node) ast.Stmt {
	mods := c.modifiers(node)
	typeNode := node.ChildByFieldName("type")
	v := at(c, node, &ast.LocalVar{
		Name:  c.Text(node.ChildByFieldName("name")),
		Type:  c.withDims(c.typeRef(typeNode), node.ChildByFieldName("dimensions")),
		Final: mods.final,
	})
	return at(c, node, ast.NewForEach(
		v,
		c.expr(node.ChildByFieldName("value")),
		c.stmt(node.ChildByFieldName("body")),
	))
}

func (c *Converter) returnStmt(node *sitter.Node) ast.Stmt {
	return at(c, node, ast.NewReturn(c.expr(firstNamed(node))))
}

func (c *Converter) label(node *sitter.Node) string {
	return c.Text(c.ChildOfKind(node, "identifier"))
}

func (c *Converter) breakStmt(node *sitter.Node) ast.Stmt {
	return at(c, node, ast.NewBreak(c.label(node)))
}

func (c *Converter) continueStmt(node *sitter.Node) ast.Stmt {
	return at(c, node, ast.NewContinue(c.label(node)))
}

func (c *Converter) throwStmt(node *sitter.Node) ast.Stmt {
	return at(c, node, ast.NewThrow(c.expr(firstNamed(node))))
}

func (c *Converter) opaqueStmt(node *sitter.Node) ast.Stmt {
	return at(c, node, ast.NewOpaqueStmt(c.Text(node), c.opaqueChildren(node)))
}
