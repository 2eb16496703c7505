package checks

import (
	"idiomlint/internal/engine/ast"
	"idiomlint/internal/engine/check"
	"idiomlint/internal/engine/loops"
)

// LoopShouldBeFor reports counter loops that read better as a basic for
// loop. The suggestion parameter carries the rendered replacement.
type LoopShouldBeFor struct{}

func (LoopShouldBeFor) Name() string { return "loop-should-be-for" }

func (LoopShouldBeFor) Problems() []check.ProblemType {
	return []check.ProblemType{ProblemLoopShouldBeFor}
}

func (c LoopShouldBeFor) Run(pass *check.Pass) {
	for loop := range ast.Preorder[ast.Loop](pass.Program.Root) {
		pass.Guard(loop, func() {
			s, ok := loops.Canonicalize(loop)
			if !ok {
				return
			}
			pass.Report(loop, ProblemLoopShouldBeFor, c.Name(), map[string]string{
				"suggestion": s.String(),
			})
		})
	}
}
