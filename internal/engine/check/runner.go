package check

import (
	"context"
	"fmt"
	"idiomlint/internal/core/errors"
	"idiomlint/internal/engine/ast"
	"idiomlint/internal/shared/observability"
	"log/slog"
	"runtime"
	"time"

	"github.com/sourcegraph/conc/pool"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// Runner executes checks over a program in parallel. Every check gets its
// own pass; the program and the reference index are shared read-only.
type Runner struct {
	Workers int
	Logger  *slog.Logger
}

// Run builds the reference index once and runs checks concurrently. The
// result holds the diagnostics of each check in the order of checks, and
// within a check in report order. A check that panics outside a guarded
// node loses its diagnostics; the others are unaffected.
func (r *Runner) Run(ctx context.Context, prog *ast.Program, checks []Check) ([]Diagnostic, error) {
	ctx, span := observability.Tracer.Start(ctx, "check.Runner.Run",
		trace.WithAttributes(attribute.Int("checks", len(checks))))
	defer span.End()

	logger := r.Logger
	if logger == nil {
		logger = slog.Default()
	}
	workers := r.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	idx := ast.NewIndex(prog)
	results := make([][]Diagnostic, len(checks))

	p := pool.New().WithMaxGoroutines(workers).WithContext(ctx)
	for i, c := range checks {
		p.Go(func(ctx context.Context) error {
			if err := ctx.Err(); err != nil {
				return err
			}
			results[i] = runOne(ctx, c, prog, idx, logger)
			return nil
		})
	}
	if err := p.Wait(); err != nil {
		return nil, errors.Wrap(err, errors.CodeInternal, "check run interrupted")
	}

	var out []Diagnostic
	for _, diags := range results {
		out = append(out, diags...)
	}
	span.SetAttributes(attribute.Int("diagnostics", len(out)))
	return out, nil
}

func runOne(ctx context.Context, c Check, prog *ast.Program, idx *ast.Index, logger *slog.Logger) (diags []Diagnostic) {
	name := c.Name()
	_, span := observability.Tracer.Start(ctx, "check."+name)
	defer span.End()

	start := time.Now()
	pass := NewPass(name, prog, idx, logger)
	defer func() {
		observability.CheckDuration.WithLabelValues(name).Observe(time.Since(start).Seconds())
		if r := recover(); r != nil {
			observability.InternalErrorsTotal.WithLabelValues(name).Inc()
			logger.Error("check aborted", "check", name, "error", fmt.Sprint(r))
			diags = nil
			return
		}
		observability.DiagnosticsTotal.WithLabelValues(name).Add(float64(len(diags)))
		span.SetAttributes(
			attribute.Int("diagnostics", len(diags)),
			attribute.Int("failures", pass.Failures()),
		)
	}()

	c.Run(pass)
	return pass.Diagnostics()
}
