// Package ast models the Java syntax tree the checks run on.
//
// Nodes are created by the front end (internal/engine/parser) or by the
// constructors in factory.go. Every node knows its parent; a parent link is
// set once when the node is attached and never changes afterwards. Checks
// treat the tree as read-only and build suggestions from clones.
package ast

import (
	"fmt"
	"reflect"
)

// Position is a source location. Line and Column are 1-based.
type Position struct {
	File   string
	Line   int
	Column int
}

// Valid reports whether the position points into a source file.
func (p Position) Valid() bool {
	return p.Line > 0
}

func (p Position) String() string {
	if !p.Valid() {
		return "-"
	}
	return fmt.Sprintf("%s:%d:%d", p.File, p.Line, p.Column)
}

// Node is implemented by every syntax tree node.
type Node interface {
	Parent() Node
	Pos() Position
	Implicit() bool

	base() *nodeBase
}

type nodeBase struct {
	parent   Node
	pos      Position
	implicit bool
}

func (b *nodeBase) Parent() Node    { return b.parent }
func (b *nodeBase) Pos() Position   { return b.pos }
func (b *nodeBase) Implicit() bool  { return b.implicit }
func (b *nodeBase) base() *nodeBase { return b }

// SetPos records the source position of n. Used by the front end only.
func SetPos(n Node, pos Position) {
	n.base().pos = pos
}

// MarkImplicit flags n as synthetic (library stubs, compiler provided members).
func MarkImplicit(n Node) {
	n.base().implicit = true
}

// attach links child to parent. A nil child (optional slot) is ignored.
func attach(parent Node, child Node) {
	if isNil(child) {
		return
	}
	b := child.base()
	if b.parent != nil && b.parent != parent {
		panic(fmt.Sprintf("ast: node at %s already has a parent", b.pos))
	}
	b.parent = parent
}

func isNil(n Node) bool {
	if n == nil {
		return true
	}
	v := reflect.ValueOf(n)
	return v.Kind() == reflect.Pointer && v.IsNil()
}

// Visibility is a declared access level. The zero value is Private and the
// order of the constants is the restrictiveness order.
type Visibility int

const (
	Private Visibility = iota
	Default
	Protected
	Public
)

// MoreRestrictiveThan reports whether v grants less access than other.
func (v Visibility) MoreRestrictiveThan(other Visibility) bool {
	return v < other
}

// String returns the Java keyword, "default" for package-private.
func (v Visibility) String() string {
	switch v {
	case Private:
		return "private"
	case Default:
		return "default"
	case Protected:
		return "protected"
	case Public:
		return "public"
	default:
		return fmt.Sprintf("Visibility(%d)", int(v))
	}
}

// Keyword returns the modifier to write in source, empty for package-private.
func (v Visibility) Keyword() string {
	if v == Default {
		return ""
	}
	return v.String()
}
