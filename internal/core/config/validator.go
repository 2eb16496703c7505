package config

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/gobwas/glob"
)

// Languages with a message catalog.
var Languages = []string{"en", "de"}

func validate(cfg *Config) error {
	for _, fn := range []func(*Config) error{
		validateVersion,
		validateLanguage,
		validateOutput,
		validateExclude,
		validateWatch,
		validateHistory,
	} {
		if err := fn(cfg); err != nil {
			return err
		}
	}
	return nil
}

func validateVersion(cfg *Config) error {
	if cfg.Version != 1 {
		return fmt.Errorf("unsupported config version %d; supported version is 1", cfg.Version)
	}
	return nil
}

func validateLanguage(cfg *Config) error {
	if !slices.Contains(Languages, cfg.Language) {
		return fmt.Errorf("language must be one of: %s, got %q", strings.Join(Languages, ", "), cfg.Language)
	}
	return nil
}

func validateOutput(cfg *Config) error {
	if !slices.Contains(Formats, cfg.Output.Format) {
		return fmt.Errorf("output.format must be one of: %s, got %q", strings.Join(Formats, ", "), cfg.Output.Format)
	}

	seen := map[string]string{}
	targets := []struct{ key, path string }{
		{"output.path", cfg.Output.Path},
		{"output.sarif", cfg.Output.SARIF},
		{"output.markdown", cfg.Output.Markdown},
		{"output.tsv", cfg.Output.TSV},
	}
	for _, t := range targets {
		p := strings.TrimSpace(t.path)
		if p == "" {
			continue
		}
		p = filepath.Clean(p)
		if prev, ok := seen[p]; ok {
			return fmt.Errorf("output conflict: %s and %s share the same path %q", prev, t.key, t.path)
		}
		seen[p] = t.key
	}
	return nil
}

func validateExclude(cfg *Config) error {
	for i, pattern := range cfg.Exclude.Files {
		if _, err := glob.Compile(pattern, '/'); err != nil {
			return fmt.Errorf("exclude.files[%d] %q is not a valid glob: %w", i, pattern, err)
		}
	}
	for i, dir := range cfg.Exclude.Dirs {
		if strings.TrimSpace(dir) == "" {
			return fmt.Errorf("exclude.dirs[%d] must not be empty", i)
		}
	}
	return nil
}

func validateWatch(cfg *Config) error {
	if cfg.Watch.Debounce < 0 {
		return fmt.Errorf("watch.debounce must not be negative, got %s", cfg.Watch.Debounce)
	}
	if cfg.Watch.MaxRunsPerMinute < 0 {
		return fmt.Errorf("watch.max_runs_per_minute must not be negative, got %d", cfg.Watch.MaxRunsPerMinute)
	}
	return nil
}

func validateHistory(cfg *Config) error {
	if !cfg.History.Enabled {
		return nil
	}
	if cfg.History.ProjectKey == "" {
		return fmt.Errorf("history.project_key must not be empty")
	}
	return nil
}

// Validate reports problems that depend on the file system. They are
// returned together so the CLI can print all of them.
func Validate(cfg *Config, root string) []error {
	var errs []error
	for i, p := range cfg.SourcePaths {
		abs := ResolveRelative(root, p)
		info, err := os.Stat(abs)
		if err != nil {
			errs = append(errs, fmt.Errorf("source_paths[%d] %q does not exist", i, p))
			continue
		}
		if !info.IsDir() && !strings.EqualFold(filepath.Ext(abs), ".java") {
			errs = append(errs, fmt.Errorf("source_paths[%d] %q is neither a directory nor a Java file", i, p))
		}
	}
	if cfg.History.Enabled {
		if info, err := os.Stat(ResolveRelative(root, cfg.History.Path)); err == nil && info.IsDir() {
			errs = append(errs, fmt.Errorf("history.path %q is a directory", cfg.History.Path))
		}
	}
	return errs
}
