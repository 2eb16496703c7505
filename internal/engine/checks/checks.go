// Package checks holds the built-in checks.
package checks

import (
	"idiomlint/internal/engine/check"
)

// Problem types reported by the built-in checks.
const (
	ProblemUseDifferentVisibility check.ProblemType = "USE_DIFFERENT_VISIBILITY"
	ProblemLoopShouldBeFor        check.ProblemType = "LOOP_SHOULD_BE_FOR"
	ProblemReassignedParameter    check.ProblemType = "REASSIGNED_PARAMETER"
	ProblemFieldShouldBeLocal     check.ProblemType = "FIELD_SHOULD_BE_LOCAL"
)

// Default returns a registry with every built-in check.
func Default() *check.Registry {
	r, err := check.NewRegistry(
		UseDifferentVisibility{},
		LoopShouldBeFor{},
		ReassignedParameter{},
		FieldShouldBeLocal{},
	)
	if err != nil {
		// names are constants
		panic(err)
	}
	return r
}
