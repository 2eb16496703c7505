// Package check runs checks over a linked program and collects their
// diagnostics.
package check

import (
	"idiomlint/internal/engine/ast"
)

// ProblemType classifies a diagnostic independently of its wording.
type ProblemType string

// Message is a localizable message: a catalog key plus named parameters.
type Message struct {
	Key    string
	Params map[string]string
}

// Diagnostic is one finding anchored at a source position.
type Diagnostic struct {
	Check    string
	Problem  ProblemType
	Position ast.Position
	Message  Message
}

// Check is a fixed analysis over the whole program. Run must not modify the
// program; it reports through the pass.
type Check interface {
	Name() string
	Problems() []ProblemType
	Run(pass *Pass)
}
