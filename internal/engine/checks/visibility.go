package checks

import (
	"idiomlint/internal/engine/ast"
	"idiomlint/internal/engine/check"
	"idiomlint/internal/engine/visibility"
)

// UseDifferentVisibility reports fields whose declared access level is wider
// than any of their references need.
type UseDifferentVisibility struct{}

func (UseDifferentVisibility) Name() string { return "use-different-visibility" }

func (UseDifferentVisibility) Problems() []check.ProblemType {
	return []check.ProblemType{ProblemUseDifferentVisibility}
}

func (c UseDifferentVisibility) Run(pass *check.Pass) {
	for f := range ast.Preorder[*ast.Field](pass.Program.Root) {
		pass.Guard(f, func() {
			s, ok, err := visibility.Suggest(pass.Index, f)
			if err != nil {
				pass.Fail(f, err)
				return
			}
			if !ok {
				return
			}
			pass.Report(f, ProblemUseDifferentVisibility, c.Name(), map[string]string{
				"name":       f.Name,
				"suggestion": s.Suggested.String(),
			})
		})
	}
}
