package cli

import (
	"context"
	stderrors "errors"
	"flag"
	"fmt"
	coreapp "idiomlint/internal/core/app"
	"idiomlint/internal/core/config"
	"idiomlint/internal/core/errors"
	"idiomlint/internal/core/ports"
	"idiomlint/internal/engine/checks"
	"idiomlint/internal/shared/observability"
	"idiomlint/internal/shared/version"
	"idiomlint/internal/ui/report"
	"idiomlint/internal/ui/report/formats"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/mattn/go-isatty"
)

const (
	exitOK       = 0
	exitFindings = 1
	exitUsage    = 2
	exitFailure  = 3
)

func Run(args []string) int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return run(ctx, args, os.Stdout, os.Stderr)
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	opts, err := parseOptions(args, stderr)
	if err != nil {
		if stderrors.Is(err, flag.ErrHelp) {
			return exitOK
		}
		return exitUsage
	}

	if opts.version {
		fmt.Fprintf(stdout, "idiomlint %s\n", version.Version)
		return exitOK
	}

	configureLogging(stderr, opts.verbose)

	if opts.listChecks {
		printChecks(stdout)
		return exitOK
	}

	cwd, err := os.Getwd()
	if err != nil {
		slog.Error("failed to detect working directory", "error", err)
		return exitFailure
	}

	cfg, cfgPath, err := loadConfig(opts.configPath, cwd)
	if err != nil {
		fmt.Fprintln(stderr, err.Error())
		return exitCodeFor(err)
	}
	if err := applyOptions(opts, cfg); err != nil {
		fmt.Fprintln(stderr, err.Error())
		return exitUsage
	}
	if errs := config.Validate(cfg, cwd); len(errs) > 0 {
		for _, e := range errs {
			fmt.Fprintln(stderr, e.Error())
		}
		return exitUsage
	}

	shutdownTracing, err := observability.SetupTracing(ctx, cfg.Observability.OTLPEndpoint)
	if err != nil {
		slog.Warn("tracing disabled", "error", err)
	} else {
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := shutdownTracing(shutdownCtx); err != nil {
				slog.Warn("failed to flush traces", "error", err)
			}
		}()
	}

	appOpts := []coreapp.Option{coreapp.WithLogger(slog.Default())}
	if opts.watch && cfgPath != "" {
		appOpts = append(appOpts, coreapp.WithConfigPath(cfgPath))
	}
	app, err := coreapp.New(cfg, cwd, appOpts...)
	if err != nil {
		fmt.Fprintln(stderr, err.Error())
		return exitCodeFor(err)
	}
	defer app.Close()

	if opts.history != "" {
		return printHistory(app, opts, stdout, stderr)
	}

	if cfg.Observability.MetricsAddr != "" {
		server := NewObservabilityServer(cfg.Observability.MetricsAddr, app)
		if err := server.Start(ctx); err != nil {
			slog.Error("failed to start observability server", "error", err)
			return exitFailure
		}
		defer func() {
			stopCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = server.Stop(stopCtx)
		}()
	}

	req := ports.LintRequest{Baseline: opts.baseline}
	reportOpts := formats.Options{Color: useColor(stdout, cfg)}

	if opts.watch {
		err := app.Watch(ctx, req, func(res ports.LintResult, err error) {
			if err != nil {
				slog.Error("lint run failed", "error", err)
				return
			}
			if err := app.WriteOutputs(stdout, res, reportOpts); err != nil {
				slog.Error("failed to write report", "error", err)
			}
		})
		if err != nil {
			fmt.Fprintln(stderr, err.Error())
			return exitCodeFor(err)
		}
		return exitOK
	}

	res, err := app.Lint(ctx, req)
	if err != nil {
		fmt.Fprintln(stderr, err.Error())
		return exitCodeFor(err)
	}
	if err := app.WriteOutputs(stdout, res, reportOpts); err != nil {
		fmt.Fprintln(stderr, err.Error())
		return exitFailure
	}
	if len(res.Diagnostics) > 0 && app.Config().ShouldFail() {
		return exitFindings
	}
	return exitOK
}

// loadConfig reads the given file, or idiomlint.toml in cwd when path is
// empty. Only the implicit file may be missing; defaults are used then and
// the returned path is empty.
func loadConfig(path, cwd string) (*config.Config, string, error) {
	if path != "" {
		cfg, err := config.Load(path)
		if err != nil {
			return nil, "", err
		}
		return cfg, path, nil
	}

	candidate := filepath.Join(cwd, config.DefaultFile)
	cfg, err := config.Load(candidate)
	if err == nil {
		return cfg, candidate, nil
	}
	if !errors.IsCode(err, errors.CodeNotFound) {
		return nil, "", err
	}
	slog.Debug("no config file found, using defaults", "path", candidate)
	cfg = config.Default()
	config.ApplyEnvOverrides(cfg)
	if err := config.Finalize(cfg); err != nil {
		return nil, "", err
	}
	return cfg, "", nil
}

// applyOptions lets flags and positional paths override the configuration.
func applyOptions(opts cliOptions, cfg *config.Config) error {
	if opts.format != "" {
		cfg.Output.Format = opts.format
	}
	if opts.output != "" {
		cfg.Output.Path = opts.output
	}
	if opts.lang != "" {
		cfg.Language = opts.lang
	}
	if opts.checks != "" {
		cfg.Checks.Enabled = splitList(opts.checks)
	}
	if len(opts.args) > 0 {
		cfg.SourcePaths = opts.args
	}
	if (opts.baseline || opts.history != "") && !cfg.History.Enabled {
		return fmt.Errorf("-baseline and -history require history.enabled = true in the config")
	}
	switch opts.history {
	case "", "tsv", "json":
	default:
		return fmt.Errorf("-history must be tsv or json, got %q", opts.history)
	}
	if opts.since != "" && opts.history == "" {
		return fmt.Errorf("-since requires -history")
	}
	return config.Finalize(cfg)
}

func printHistory(app *coreapp.App, opts cliOptions, stdout, stderr io.Writer) int {
	since, err := parseSince(opts.since)
	if err != nil {
		fmt.Fprintln(stderr, err.Error())
		return exitUsage
	}
	runs, err := app.Runs(since)
	if err != nil {
		fmt.Fprintln(stderr, err.Error())
		return exitCodeFor(err)
	}
	trends := report.Trends(runs)
	if opts.history == "json" {
		data, err := report.RenderTrendJSON(trends)
		if err != nil {
			fmt.Fprintln(stderr, err.Error())
			return exitFailure
		}
		fmt.Fprintln(stdout, string(data))
		return exitOK
	}
	stdout.Write(report.RenderTrendTSV(trends))
	return exitOK
}

func printChecks(w io.Writer) {
	registry := checks.Default()
	for _, name := range registry.Names() {
		c, _ := registry.Lookup(name)
		problems := make([]string, 0, len(c.Problems()))
		for _, p := range c.Problems() {
			problems = append(problems, string(p))
		}
		fmt.Fprintf(w, "%s\t%s\n", name, strings.Join(problems, ","))
	}
}

func exitCodeFor(err error) int {
	switch errors.CodeOf(err) {
	case errors.CodeValidationError, errors.CodeNotFound, errors.CodeConflict:
		return exitUsage
	default:
		return exitFailure
	}
}

// useColor enables styled text output on terminals unless NO_COLOR is set.
func useColor(w io.Writer, cfg *config.Config) bool {
	if cfg.Output.Path != "" || os.Getenv("NO_COLOR") != "" {
		return false
	}
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

func configureLogging(w io.Writer, verbose bool) {
	logLevel := slog.LevelInfo
	if verbose {
		logLevel = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: logLevel}))
	slog.SetDefault(logger)
}
