package check

import (
	"fmt"
	"idiomlint/internal/core/errors"
	"idiomlint/internal/engine/ast"
	"idiomlint/internal/shared/observability"
	"log/slog"
	"maps"
)

// Pass is the execution context of one check. It is owned by a single
// goroutine; the program and index it exposes are shared read-only.
type Pass struct {
	Program *ast.Program
	Index   *ast.Index
	Logger  *slog.Logger

	check    string
	diags    []Diagnostic
	failures int
}

// NewPass prepares a pass for the named check.
func NewPass(check string, prog *ast.Program, idx *ast.Index, logger *slog.Logger) *Pass {
	if logger == nil {
		logger = slog.Default()
	}
	return &Pass{
		Program: prog,
		Index:   idx,
		Logger:  logger.With("check", check),
		check:   check,
	}
}

// Report records a diagnostic at node.
func (p *Pass) Report(node ast.Node, problem ProblemType, key string, params map[string]string) {
	p.diags = append(p.diags, Diagnostic{
		Check:    p.check,
		Problem:  problem,
		Position: node.Pos(),
		Message:  Message{Key: key, Params: maps.Clone(params)},
	})
}

// Fail records that the check could not analyze node. The traversal goes on.
func (p *Pass) Fail(node ast.Node, err error) {
	p.failures++
	observability.InternalErrorsTotal.WithLabelValues(p.check).Inc()
	p.Logger.Error("check failed on node, skipping it",
		errors.CtxPosition, node.Pos().String(),
		"error", err,
	)
}

// Guard runs fn for a single node and turns a panic into a failure of that
// node only.
func (p *Pass) Guard(node ast.Node, fn func()) {
	defer func() {
		if r := recover(); r != nil {
			err := errors.AddContext(
				errors.New(errors.CodeInternal, fmt.Sprint(r)),
				errors.CtxCheck, p.check,
			)
			p.Fail(node, err)
		}
	}()
	fn()
}

// Diagnostics returns the findings in report order.
func (p *Pass) Diagnostics() []Diagnostic {
	return p.diags
}

// Failures returns the number of nodes the check gave up on.
func (p *Pass) Failures() int {
	return p.failures
}
