// Package app wires parsing, linking, checks and history into lint runs.
package app

import (
	"idiomlint/internal/core/config"
	"idiomlint/internal/core/errors"
	"idiomlint/internal/core/ports"
	"idiomlint/internal/data/history"
	"idiomlint/internal/engine/check"
	"idiomlint/internal/engine/checks"
	"idiomlint/internal/engine/parser"
	"idiomlint/internal/shared/i18n"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"
)

type App struct {
	Paths    config.ResolvedPaths
	Registry *check.Registry
	Catalog  *i18n.Catalog

	codeParser ports.CodeParser
	history    ports.HistoryStore
	logger     *slog.Logger
	configPath string

	cfgMu sync.RWMutex
	cfg   *config.Config

	lastRun atomic.Pointer[RunSummary]
}

// Option customizes an App before it opens its resources.
type Option func(*App)

func WithParser(p ports.CodeParser) Option {
	return func(a *App) { a.codeParser = p }
}

func WithHistoryStore(s ports.HistoryStore) Option {
	return func(a *App) { a.history = s }
}

func WithRegistry(r *check.Registry) Option {
	return func(a *App) { a.Registry = r }
}

func WithLogger(l *slog.Logger) Option {
	return func(a *App) { a.logger = l }
}

// WithConfigPath enables configuration reloads while watching.
func WithConfigPath(path string) Option {
	return func(a *App) { a.configPath = path }
}

// New resolves the configured paths and opens the history store when it is
// enabled.
func New(cfg *config.Config, cwd string, opts ...Option) (*App, error) {
	paths, err := config.ResolvePaths(cfg, cwd)
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeValidationError, "resolve paths")
	}

	a := &App{cfg: cfg, Paths: paths}
	for _, opt := range opts {
		opt(a)
	}
	if a.logger == nil {
		a.logger = slog.Default()
	}
	if a.codeParser == nil {
		a.codeParser = parser.NewParser(parser.NewGrammarLoader())
	}
	if a.Registry == nil {
		a.Registry = checks.Default()
	}
	if a.Catalog == nil {
		catalog, err := i18n.Load()
		if err != nil {
			return nil, err
		}
		a.Catalog = catalog
	}

	// Unknown check names fail here rather than on the first run.
	if _, err := a.Registry.Select(cfg.Checks.Enabled, cfg.Checks.Disabled); err != nil {
		return nil, err
	}

	if a.history == nil && cfg.History.Enabled {
		store, err := history.Open(paths.HistoryPath)
		if err != nil {
			code, msg := errors.CodeIO, "open history"
			if history.IsCorruptError(err) {
				code, msg = errors.CodeConflict, "history database is damaged, remove it to start a new one"
			}
			return nil, errors.AddContext(errors.Wrap(err, code, msg), errors.CtxPath, paths.HistoryPath)
		}
		a.history = store
	}
	return a, nil
}

// Config returns the active configuration.
func (a *App) Config() *config.Config {
	a.cfgMu.RLock()
	defer a.cfgMu.RUnlock()
	return a.cfg
}

// SetConfig swaps the configuration used by subsequent runs. Paths stay as
// resolved at startup.
func (a *App) SetConfig(cfg *config.Config) {
	a.cfgMu.Lock()
	a.cfg = cfg
	a.cfgMu.Unlock()
}

// HasHistory reports whether runs are persisted.
func (a *App) HasHistory() bool {
	return a.history != nil
}

func (a *App) Close() error {
	if a.history == nil {
		return nil
	}
	return a.history.Close()
}

// Runs returns the stored runs of the configured project since the given
// time, oldest first.
func (a *App) Runs(since time.Time) ([]history.Run, error) {
	if a.history == nil {
		return nil, errors.New(errors.CodeValidationError, "history is not enabled")
	}
	runs, err := a.history.LoadRuns(a.Config().History.ProjectKey, since)
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeIO, "load runs")
	}
	return runs, nil
}
