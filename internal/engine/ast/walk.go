package ast

import "iter"

// Children returns the direct children of n in source order.
func Children(n Node) []Node {
	var out []Node
	add := func(c Node) {
		if !isNil(c) {
			out = append(out, c)
		}
	}
	switch n := n.(type) {
	case *Package:
		for _, t := range n.Types {
			add(t)
		}
		for _, p := range n.Packages {
			add(p)
		}
	case *Type:
		for _, m := range n.Members {
			add(m)
		}
	case *Field:
		add(n.Init)
	case *Method:
		for _, p := range n.Params {
			add(p)
		}
		add(n.Body)
	case *Initializer:
		add(n.Body)
	case *Param:
	case *Block:
		for _, s := range n.Stmts {
			add(s)
		}
	case *LocalVar:
		add(n.Init)
	case *ExprStmt:
		add(n.X)
	case *If:
		add(n.Cond)
		add(n.Then)
		add(n.Else)
	case *While:
		add(n.Cond)
		add(n.Body)
	case *DoWhile:
		add(n.Body)
		add(n.Cond)
	case *For:
		for _, s := range n.Init {
			add(s)
		}
		add(n.Cond)
		for _, s := range n.Update {
			add(s)
		}
		add(n.Body)
	case *ForEach:
		add(n.Var)
		add(n.Iterable)
		add(n.Body)
	case *Return:
		add(n.Result)
	case *Throw:
		add(n.X)
	case *Break, *Continue, *Empty:
	case *OpaqueStmt:
		for _, c := range n.Children {
			add(c)
		}
	case *Literal, *Name, *This:
	case *FieldAccess:
		add(n.X)
	case *Assign:
		add(n.Lhs)
		add(n.Rhs)
	case *Unary:
		add(n.X)
	case *Binary:
		add(n.L)
		add(n.R)
	case *Invocation:
		add(n.X)
		for _, a := range n.Args {
			add(a)
		}
	case *New:
		for _, a := range n.Args {
			add(a)
		}
		add(n.Body)
	case *Paren:
		add(n.X)
	case *ArrayAccess:
		add(n.X)
		add(n.Index)
	case *Conditional:
		add(n.Cond)
		add(n.Then)
		add(n.Else)
	case *Cast:
		add(n.X)
	case *Lambda:
		for _, p := range n.Params {
			add(p)
		}
		add(n.Body)
	case *OpaqueExpr:
		for _, c := range n.Children {
			add(c)
		}
	}
	return out
}

// Inspect traverses the tree rooted at n in depth-first pre-order. If f
// returns false the children of the node are skipped. The traversal keeps an
// explicit stack, so deep trees do not grow the goroutine stack.
func Inspect(n Node, f func(Node) bool) {
	if isNil(n) {
		return
	}
	stack := []Node{n}
	for len(stack) > 0 {
		top := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if !f(top) {
			continue
		}
		children := Children(top)
		for i := len(children) - 1; i >= 0; i-- {
			stack = append(stack, children[i])
		}
	}
}

// All yields every node of the tree rooted at n in pre-order.
func All(n Node) iter.Seq[Node] {
	return func(yield func(Node) bool) {
		stopped := false
		Inspect(n, func(c Node) bool {
			if stopped {
				return false
			}
			if !yield(c) {
				stopped = true
				return false
			}
			return true
		})
	}
}

// Preorder yields the nodes of type T below and including n.
func Preorder[T Node](n Node) iter.Seq[T] {
	return func(yield func(T) bool) {
		for c := range All(n) {
			if t, ok := c.(T); ok {
				if !yield(t) {
					return
				}
			}
		}
	}
}
