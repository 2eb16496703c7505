package ports

import (
	"context"
	"idiomlint/internal/data/history"
	"idiomlint/internal/engine/ast"
	"idiomlint/internal/engine/check"
	"time"
)

// CodeParser abstracts source parsing and language-file support checks.
type CodeParser interface {
	ParseFile(path string, content []byte) (*ast.CompilationUnit, error)
	IsSupportedPath(filePath string) bool
	SupportedExtensions() []string
}

// HistoryStore abstracts run persistence for baseline filtering.
type HistoryStore interface {
	SaveRun(projectKey string, run history.Run) (int64, error)
	LoadRuns(projectKey string, since time.Time) ([]history.Run, error)
	Baseline(projectKey string) (history.Baseline, error)
	Close() error
}

// LintRequest defines a lint run for driving adapters. Empty fields fall
// back to the configuration.
type LintRequest struct {
	Paths []string
	// Checks restricts the run to the named checks.
	Checks []string
	// Baseline reports only findings that are not in the latest stored run.
	Baseline bool
}

// LintResult summarizes a completed lint run.
type LintResult struct {
	Files         int
	ParseFailures int
	Diagnostics   []check.Diagnostic
	// Suppressed counts findings hidden by the baseline.
	Suppressed int
	Duration   time.Duration
}

// LintService is the driving port used by the CLI.
type LintService interface {
	Lint(ctx context.Context, req LintRequest) (LintResult, error)
	Watch(ctx context.Context, req LintRequest, handler func(LintResult, error)) error
	Close() error
}
