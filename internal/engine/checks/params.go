package checks

import (
	"idiomlint/internal/engine/ast"
	"idiomlint/internal/engine/check"
)

// ReassignedParameter reports method and constructor parameters that are
// assigned in the body. Each parameter is reported once, at its first write.
type ReassignedParameter struct{}

func (ReassignedParameter) Name() string { return "reassigned-parameter" }

func (ReassignedParameter) Problems() []check.ProblemType {
	return []check.ProblemType{ProblemReassignedParameter}
}

func (c ReassignedParameter) Run(pass *check.Pass) {
	for m := range ast.Preorder[*ast.Method](pass.Program.Root) {
		if m.Implicit() || m.Body == nil {
			continue
		}
		for _, p := range m.Params {
			writes := pass.Index.Writes(p)
			if len(writes) == 0 {
				continue
			}
			pass.Report(writes[0], ProblemReassignedParameter, c.Name(), map[string]string{
				"name": p.Name,
			})
		}
	}
}
