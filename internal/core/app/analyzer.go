package app

import (
	"context"
	"idiomlint/internal/core/errors"
	"idiomlint/internal/engine/ast"
	"idiomlint/internal/engine/parser"
	"idiomlint/internal/shared/observability"
	"idiomlint/internal/shared/util"
	"os"
	"path/filepath"
	"runtime"

	"github.com/sourcegraph/conc/pool"
)

// parseFiles parses files concurrently. Units come back in file order; a
// slot is nil for files that were skipped or failed to parse. Only
// cancellation is returned as an error.
func (a *App) parseFiles(ctx context.Context, files []string, workers int) ([]*ast.CompilationUnit, int, error) {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	units := make([]*ast.CompilationUnit, len(files))
	failed := make([]bool, len(files))

	p := pool.New().WithMaxGoroutines(workers).WithContext(ctx)
	for i, path := range files {
		p.Go(func(ctx context.Context) error {
			if err := ctx.Err(); err != nil {
				return err
			}
			unit, err := a.parseFile(path)
			if err != nil {
				failed[i] = true
				observability.ParseFailuresTotal.Inc()
				a.logger.Warn("failed to parse file", "path", path, "error", err)
				return nil
			}
			units[i] = unit
			return nil
		})
	}
	if err := p.Wait(); err != nil {
		return nil, 0, errors.Wrap(err, errors.CodeInternal, "parse interrupted")
	}

	failures := 0
	for _, f := range failed {
		if f {
			failures++
		}
	}
	return units, failures, nil
}

func (a *App) parseFile(path string) (*ast.CompilationUnit, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.AddContext(errors.Wrap(err, errors.CodeIO, "read source"), errors.CtxPath, path)
	}

	// Skip generated files: check after reading so we have the real content.
	if parser.IsGeneratedFile(content) {
		a.logger.Debug("skipping generated file", "path", path)
		return nil, nil
	}

	unit, err := a.codeParser.ParseFile(a.displayPath(path), content)
	if err != nil {
		return nil, err
	}
	if unit.HasErrors {
		a.logger.Debug("file has syntax errors, analyzing what parsed", "path", path)
	}
	return unit, nil
}

// displayPath is the path recorded in positions: relative to the project
// root when the file lies under it.
func (a *App) displayPath(path string) string {
	root := a.Paths.ProjectRoot
	if root == "" || !filepath.IsAbs(path) {
		return path
	}
	rel, err := filepath.Rel(root, path)
	if err != nil || util.Within(rel, "..") {
		return path
	}
	return filepath.ToSlash(rel)
}
