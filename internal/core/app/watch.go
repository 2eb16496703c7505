package app

import (
	"context"
	"idiomlint/internal/core/config"
	"idiomlint/internal/core/errors"
	"idiomlint/internal/core/ports"
	"idiomlint/internal/core/watcher"
	"idiomlint/internal/shared/observability"
	"idiomlint/internal/shared/util"
)

// Watch lints once and then again whenever a watched source file changes,
// until ctx is done. Every result goes to handler. Changes that arrive during
// a run are coalesced into one follow-up run. Runs beyond the configured rate
// wait for the throttle instead of being dropped.
func (a *App) Watch(ctx context.Context, req ports.LintRequest, handler func(ports.LintResult, error)) error {
	cfg := a.Config()
	trigger := make(chan struct{}, 1)
	kick := func() {
		select {
		case trigger <- struct{}{}:
		default:
		}
	}

	w, err := watcher.NewWatcher(cfg.Watch.Debounce, cfg.Exclude.Dirs, cfg.Exclude.Files, func(paths []string) {
		a.logger.Info("sources changed", "files", len(paths))
		kick()
	})
	if err != nil {
		return errors.Wrap(err, errors.CodeValidationError, "create watcher")
	}
	defer w.Close()
	w.SetExtensions(a.codeParser.SupportedExtensions())

	roots := req.Paths
	if len(roots) == 0 {
		roots = a.Paths.SourcePaths
	}
	if err := w.Watch(roots); err != nil {
		return errors.Wrap(err, errors.CodeIO, "watch sources")
	}

	if a.configPath != "" {
		reloader := config.NewReloader(a.configPath, func(next *config.Config) {
			if _, err := a.Registry.Select(next.Checks.Enabled, next.Checks.Disabled); err != nil {
				a.logger.Warn("reloaded configuration names unknown checks, keeping the previous one", "error", err)
				return
			}
			a.SetConfig(next)
			w.SetDebounce(next.Watch.Debounce)
			kick()
		})
		if stop, err := reloader.Start(ctx); err != nil {
			a.logger.Warn("config reload disabled", "path", a.configPath, "error", err)
		} else {
			defer stop()
		}
	}

	throttle := util.NewThrottle(cfg.Watch.MaxRunsPerMinute)

	kick()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-trigger:
		}
		if !throttle.TryAcquire() {
			observability.WatchRunsThrottledTotal.Inc()
			a.logger.Debug("run throttled")
			if err := throttle.Acquire(ctx); err != nil {
				return nil
			}
		}
		res, err := a.Lint(ctx, req)
		if ctx.Err() != nil {
			return nil
		}
		handler(res, err)
	}
}
