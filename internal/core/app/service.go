package app

import (
	"cmp"
	"context"
	"idiomlint/internal/core/errors"
	"idiomlint/internal/core/ports"
	"idiomlint/internal/data/history"
	"idiomlint/internal/engine/check"
	"idiomlint/internal/engine/parser"
	"idiomlint/internal/shared/observability"
	"idiomlint/internal/shared/util"
	"slices"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

var _ ports.LintService = (*App)(nil)

// Lint runs one full pass: scan, parse, link, check. With history enabled
// the run is stored, and a baseline request hides findings already present
// in the previous run.
func (a *App) Lint(ctx context.Context, req ports.LintRequest) (ports.LintResult, error) {
	ctx, span := observability.Tracer.Start(ctx, "app.Lint",
		trace.WithAttributes(attribute.Bool("baseline", req.Baseline)))
	defer span.End()

	start := time.Now()
	res, err := a.lint(ctx, req)
	a.recordRun(start, res.Files, len(res.Diagnostics), err)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return ports.LintResult{}, err
	}
	span.SetAttributes(
		attribute.Int("files", res.Files),
		attribute.Int("diagnostics", len(res.Diagnostics)),
	)
	return res, nil
}

func (a *App) lint(ctx context.Context, req ports.LintRequest) (ports.LintResult, error) {
	start := time.Now()
	cfg := a.Config()

	enabled := cfg.Checks.Enabled
	if len(req.Checks) > 0 {
		enabled = req.Checks
	}
	selected, err := a.Registry.Select(enabled, cfg.Checks.Disabled)
	if err != nil {
		return ports.LintResult{}, err
	}

	roots := req.Paths
	if len(roots) == 0 {
		roots = a.Paths.SourcePaths
	}
	files, err := a.ScanDirectories(roots, cfg.Exclude.Dirs, cfg.Exclude.Files)
	if err != nil {
		return ports.LintResult{}, errors.Wrap(err, errors.CodeIO, "scan sources")
	}
	observability.FilesAnalyzed.Set(float64(len(files)))
	a.logger.Debug("scanned sources", "files", len(files), "roots", len(roots))

	units, failures, err := a.parseFiles(ctx, files, cfg.Workers)
	if err != nil {
		return ports.LintResult{}, err
	}

	prog, err := parser.Link(units)
	if err != nil {
		return ports.LintResult{}, err
	}

	runner := &check.Runner{Workers: cfg.Workers, Logger: a.logger}
	diags, err := runner.Run(ctx, prog, selected)
	if err != nil {
		return ports.LintResult{}, err
	}
	sortDiagnostics(diags)

	res := ports.LintResult{
		Files:         len(files),
		ParseFailures: failures,
		Diagnostics:   diags,
	}

	if a.history != nil {
		key := cfg.History.ProjectKey
		if req.Baseline {
			baseline, err := a.history.Baseline(key)
			if err != nil {
				return ports.LintResult{}, errors.Wrap(err, errors.CodeIO, "load baseline")
			}
			res.Diagnostics = baseline.Filter(diags)
			res.Suppressed = len(diags) - len(res.Diagnostics)
		}
		if err := a.saveRun(key, start, len(files), diags); err != nil {
			return ports.LintResult{}, err
		}
	} else if req.Baseline {
		return ports.LintResult{}, errors.New(errors.CodeValidationError, "baseline requires history to be enabled")
	}

	res.Duration = time.Since(start)
	a.logger.Info("lint finished",
		"files", res.Files,
		"findings", len(res.Diagnostics),
		"suppressed", res.Suppressed,
		"parseFailures", res.ParseFailures,
		"duration", res.Duration,
		"heapMB", util.HeapAllocMB(),
	)
	return res, nil
}

// saveRun stores every finding of the run, including those a baseline hid,
// so the next baseline compares against the full picture.
func (a *App) saveRun(key string, start time.Time, files int, diags []check.Diagnostic) error {
	run := history.Run{
		Timestamp: start.UTC(),
		FileCount: files,
		Findings:  make([]history.Finding, 0, len(diags)),
	}
	for _, d := range diags {
		run.Findings = append(run.Findings, history.NewFinding(d))
	}
	id, err := a.history.SaveRun(key, run)
	if err != nil {
		return errors.Wrap(err, errors.CodeIO, "save run")
	}
	a.logger.Debug("run saved", "id", id, "projectKey", key)
	return nil
}

func sortDiagnostics(diags []check.Diagnostic) {
	slices.SortStableFunc(diags, func(a, b check.Diagnostic) int {
		return cmp.Or(
			cmp.Compare(a.Position.File, b.Position.File),
			cmp.Compare(a.Position.Line, b.Position.Line),
			cmp.Compare(a.Position.Column, b.Position.Column),
			cmp.Compare(a.Check, b.Check),
		)
	})
}
