package ast

import "iter"

// Ancestors yields n followed by its parents up to the root, closest first.
func Ancestors(n Node) iter.Seq[Node] {
	return func(yield func(Node) bool) {
		for cur := n; !isNil(cur); cur = cur.Parent() {
			if !yield(cur) {
				return
			}
		}
	}
}

// AncestorChain returns n followed by its parents up to the root.
func AncestorChain(n Node) []Node {
	var chain []Node
	for a := range Ancestors(n) {
		chain = append(chain, a)
	}
	return chain
}

// CommonAncestor returns the closest node that is an ancestor of (or equal
// to) first and every node in others. Each chain is materialized once and
// intersected as a set; the order of first's chain decides the result. It
// returns nil when the nodes do not share a root.
func CommonAncestor[T Node](first Node, others []T) Node {
	chain := AncestorChain(first)
	alive := make([]bool, len(chain))
	index := make(map[Node]int, len(chain))
	for i, n := range chain {
		alive[i] = true
		index[n] = i
	}
	remaining := len(chain)

	for _, other := range others {
		if remaining == 0 {
			break
		}
		keep := make([]bool, len(chain))
		for a := range Ancestors(other) {
			if i, ok := index[a]; ok {
				keep[i] = true
			}
		}
		for i := range chain {
			if alive[i] && !keep[i] {
				alive[i] = false
				remaining--
			}
		}
	}

	for i, n := range chain {
		if alive[i] {
			return n
		}
	}
	return nil
}

// EnclosingMember returns the member (field, method, initializer or nested
// type) that directly belongs to a type and contains n, or nil.
func EnclosingMember(n Node) Member {
	for a := range Ancestors(n) {
		m, ok := a.(Member)
		if !ok {
			continue
		}
		if _, inType := a.Parent().(*Type); inType {
			return m
		}
	}
	return nil
}

// DeclaringType returns the type that declares member m.
func DeclaringType(m Member) *Type {
	t, _ := m.Parent().(*Type)
	return t
}

// EnclosingType returns the closest type strictly containing n.
func EnclosingType(n Node) *Type {
	if isNil(n) {
		return nil
	}
	for a := range Ancestors(n.Parent()) {
		if t, ok := a.(*Type); ok {
			return t
		}
	}
	return nil
}

// TopLevelType returns the outermost type containing n (n itself when it is
// a top-level type).
func TopLevelType(n Node) *Type {
	var top *Type
	for a := range Ancestors(n) {
		if t, ok := a.(*Type); ok {
			top = t
		}
	}
	return top
}

// EnclosingPackage returns the package n belongs to.
func EnclosingPackage(n Node) *Package {
	for a := range Ancestors(n) {
		if p, ok := a.(*Package); ok {
			return p
		}
	}
	return nil
}

// RootPackage returns the root of the tree containing n.
func RootPackage(n Node) *Package {
	var root *Package
	for a := range Ancestors(n) {
		if p, ok := a.(*Package); ok {
			root = p
		}
	}
	return root
}

// EffectiveStatements flattens a loop body: the statements of a block, or
// the statement itself.
func EffectiveStatements(s Stmt) []Stmt {
	if isNil(s) {
		return nil
	}
	if b, ok := s.(*Block); ok {
		return b.Stmts
	}
	return []Stmt{s}
}

// PreviousStatement returns the statement right before s in its block.
func PreviousStatement(s Stmt) (Stmt, bool) {
	b, ok := s.Parent().(*Block)
	if !ok {
		return nil, false
	}
	i := b.IndexOf(s)
	if i <= 0 {
		return nil, false
	}
	return b.Stmts[i-1], true
}

// NextStatements returns the statements following s in its block.
func NextStatements(s Stmt) []Stmt {
	b, ok := s.Parent().(*Block)
	if !ok {
		return nil
	}
	i := b.IndexOf(s)
	if i < 0 {
		return nil
	}
	return b.Stmts[i+1:]
}

// HasAnyUsesIn reports whether a reference to d occurs in the tree rooted at
// n. A non-nil filter further restricts which references count.
func HasAnyUsesIn(d Decl, n Node, filter func(Ref) bool) bool {
	for ref := range Preorder[Ref](n) {
		if ref.Target() == d && (filter == nil || filter(ref)) {
			return true
		}
	}
	return false
}
