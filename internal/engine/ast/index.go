package ast

// Index maps declarations to the references that target them. It is built
// once per program and never modified afterwards, so it can be shared by
// checks running concurrently.
type Index struct {
	refs  map[Decl][]Ref
	decls []Decl
}

// NewIndex walks the whole program once and records every resolved
// reference in traversal order.
func NewIndex(p *Program) *Index {
	idx := &Index{refs: make(map[Decl][]Ref)}
	if p == nil || p.Root == nil {
		return idx
	}
	Inspect(p.Root, func(n Node) bool {
		switch v := n.(type) {
		case Decl:
			idx.decls = append(idx.decls, v)
		case Ref:
			if d := v.Target(); d != nil {
				idx.refs[d] = append(idx.refs[d], v)
			}
		}
		return true
	})
	return idx
}

// References returns the references to d. The slice must not be modified.
func (idx *Index) References(d Decl) []Ref {
	return idx.refs[d]
}

// Writes returns the references that write d.
func (idx *Index) Writes(d Decl) []Ref {
	var out []Ref
	for _, r := range idx.refs[d] {
		if IsWrite(r) {
			out = append(out, r)
		}
	}
	return out
}

// Decls returns every declaration in traversal order.
func (idx *Index) Decls() []Decl {
	return idx.decls
}

// Len returns the number of declarations with at least one reference.
func (idx *Index) Len() int {
	return len(idx.refs)
}
