package checks

import (
	"idiomlint/internal/engine/ast"
	"idiomlint/internal/engine/check"
)

// FieldShouldBeLocal reports private fields that every using method
// overwrites before reading them, so no value survives between calls.
type FieldShouldBeLocal struct{}

func (FieldShouldBeLocal) Name() string { return "field-should-be-local" }

func (FieldShouldBeLocal) Problems() []check.ProblemType {
	return []check.ProblemType{ProblemFieldShouldBeLocal}
}

func (c FieldShouldBeLocal) Run(pass *check.Pass) {
	for f := range ast.Preorder[*ast.Field](pass.Program.Root) {
		if f.Implicit() || f.EnumConstant || f.Visibility != ast.Private {
			continue
		}
		pass.Guard(f, func() {
			if overwrittenFirst(f, pass.Index.References(f)) {
				pass.Report(f, ProblemFieldShouldBeLocal, c.Name(), map[string]string{
					"name": f.Name,
				})
			}
		})
	}
}

// overwrittenFirst reports whether refs is non-empty and, in every member
// that uses f, the first reference is an unconditional plain assignment.
func overwrittenFirst(f *ast.Field, refs []ast.Ref) bool {
	if len(refs) == 0 {
		return false
	}
	seen := map[ast.Member]bool{}
	for _, r := range refs {
		m := ast.EnclosingMember(r)
		if seen[m] {
			continue
		}
		seen[m] = true
		if !startsWithWrite(f, m, r) {
			return false
		}
	}
	return true
}

func startsWithWrite(f *ast.Field, m ast.Member, r ast.Ref) bool {
	var body *ast.Block
	switch v := m.(type) {
	case *ast.Method:
		body = v.Body
	case *ast.Initializer:
		body = v.Body
	default:
		return false
	}
	if !ownAccess(r) {
		return false
	}
	a, ok := r.Parent().(*ast.Assign)
	if !ok || a.Op != "=" || a.Lhs != r || ast.HasAnyUsesIn(f, a.Rhs, nil) {
		return false
	}
	stmt, ok := a.Parent().(*ast.ExprStmt)
	return ok && body != nil && stmt.Parent() == body
}

// ownAccess reports whether r names the field of the current instance.
func ownAccess(r ast.Ref) bool {
	switch v := r.(type) {
	case *ast.Name:
		return true
	case *ast.FieldAccess:
		t, ok := v.X.(*ast.This)
		return ok && !t.Super && t.Qualifier == ""
	}
	return false
}
