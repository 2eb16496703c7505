package parser

import (
	"idiomlint/internal/engine/ast"
	"strings"

	sitter "github.com/tree-sitter/go-tree-sitter"
)

// StmtHandler converts a statement node of one kind.
type StmtHandler func(c *Converter, node *sitter.Node) ast.Stmt

// ExprHandler converts an expression node of one kind.
type ExprHandler func(c *Converter, node *sitter.Node) ast.Expr

// Converter turns one concrete syntax tree into AST nodes, dispatching on
// node kind. Kinds without a handler become opaque nodes whose recognizable
// sub-trees are still converted.
type Converter struct {
	Source []byte
	Unit   *ast.CompilationUnit

	stmtHandlers map[string]StmtHandler
	exprHandlers map[string]ExprHandler
}

func NewConverter(source []byte, unit *ast.CompilationUnit) *Converter {
	return &Converter{
		Source:       source,
		Unit:         unit,
		stmtHandlers: javaStmtHandlers(),
		exprHandlers: javaExprHandlers(),
	}
}

func (c *Converter) Text(node *sitter.Node) string {
	if node == nil {
		return ""
	}
	return string(c.Source[node.StartByte():node.EndByte()])
}

// CompactText returns the node text with runs of white space collapsed.
func (c *Converter) CompactText(node *sitter.Node) string {
	return strings.Join(strings.Fields(c.Text(node)), " ")
}

func (c *Converter) Location(node *sitter.Node) ast.Position {
	p := node.StartPosition()
	return ast.Position{
		File:   c.Unit.Path,
		Line:   int(p.Row) + 1,
		Column: int(p.Column) + 1,
	}
}

// ChildOfKind returns the first direct child with the given kind.
func (c *Converter) ChildOfKind(node *sitter.Node, kind string) *sitter.Node {
	if node == nil {
		return nil
	}
	for i := uint(0); i < node.ChildCount(); i++ {
		child := node.Child(i)
		if child != nil && child.Kind() == kind {
			return child
		}
	}
	return nil
}

// at records the source position of node on n and returns n.
func at[T ast.Node](c *Converter, node *sitter.Node, n T) T {
	ast.SetPos(n, c.Location(node))
	return n
}

func isComment(node *sitter.Node) bool {
	switch node.Kind() {
	case "line_comment", "block_comment", "comment":
		return true
	}
	return false
}

// children returns all direct children except comments.
func children(node *sitter.Node) []*sitter.Node {
	out := make([]*sitter.Node, 0, node.ChildCount())
	for i := uint(0); i < node.ChildCount(); i++ {
		child := node.Child(i)
		if child == nil || isComment(child) {
			continue
		}
		out = append(out, child)
	}
	return out
}

// namedChildren returns the named direct children except comments.
func namedChildren(node *sitter.Node) []*sitter.Node {
	out := make([]*sitter.Node, 0, node.NamedChildCount())
	for i := uint(0); i < node.NamedChildCount(); i++ {
		child := node.NamedChild(i)
		if child == nil || isComment(child) {
			continue
		}
		out = append(out, child)
	}
	return out
}

func firstNamed(node *sitter.Node) *sitter.Node {
	if node == nil {
		return nil
	}
	named := namedChildren(node)
	if len(named) == 0 {
		return nil
	}
	return named[0]
}
