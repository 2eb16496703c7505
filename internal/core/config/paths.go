package config

import (
	"idiomlint/internal/core/errors"
	"os"
	"path/filepath"
	"strings"
)

// ResolvedPaths holds the absolute locations a run reads from and writes to.
type ResolvedPaths struct {
	ProjectRoot string
	StateDir    string
	SourcePaths []string
	HistoryPath string
}

// projectMarkers identify the root of a Java project, checked in order in
// every directory on the way up.
var projectMarkers = []string{
	DefaultFile,
	"pom.xml",
	"build.gradle",
	"build.gradle.kts",
	"settings.gradle",
	".git",
}

// ResolvePaths makes every configured path absolute. Source paths are
// relative to cwd. Without an explicit project root, the nearest directory
// holding a project marker above a source path (or cwd) is used. The state
// directory is relative to the project root and holds the history database
// unless that path is absolute.
func ResolvePaths(cfg *Config, cwd string) (ResolvedPaths, error) {
	cwd = strings.TrimSpace(cwd)
	if cwd == "" {
		return ResolvedPaths{}, errors.New(errors.CodeValidationError, "working directory must not be empty")
	}

	sources := make([]string, 0, len(cfg.SourcePaths))
	for _, p := range cfg.SourcePaths {
		sources = append(sources, ResolveRelative(cwd, p))
	}

	root := ResolveRelative(cwd, cfg.Paths.ProjectRoot)
	if strings.TrimSpace(cfg.Paths.ProjectRoot) == "" {
		root = DetectProjectRoot(append(sources, cwd))
	}

	stateDir := ResolveRelative(root, cfg.Paths.StateDir)
	return ResolvedPaths{
		ProjectRoot: root,
		StateDir:    stateDir,
		SourcePaths: sources,
		HistoryPath: ResolveRelative(stateDir, cfg.History.Path),
	}, nil
}

// ResolveRelative returns value as a clean absolute path, joined to base when
// relative. An empty value means base itself.
func ResolveRelative(base, value string) string {
	raw := strings.TrimSpace(value)
	switch {
	case raw == "":
		return filepath.Clean(base)
	case filepath.IsAbs(raw):
		return filepath.Clean(raw)
	default:
		return filepath.Join(base, raw)
	}
}

// DetectProjectRoot returns the first directory, walking up from each
// candidate in turn, that contains a project marker. When none does, the
// last candidate is returned, so callers pass the working directory last.
func DetectProjectRoot(candidates []string) string {
	fallback := ""
	for _, c := range candidates {
		c = strings.TrimSpace(c)
		if c == "" {
			continue
		}
		abs, err := filepath.Abs(c)
		if err != nil {
			continue
		}
		fallback = abs
		if info, err := os.Stat(abs); err == nil && !info.IsDir() {
			abs = filepath.Dir(abs)
		}
		if root, ok := markedAncestor(abs); ok {
			return root
		}
	}
	return fallback
}

func markedAncestor(dir string) (string, bool) {
	for {
		for _, marker := range projectMarkers {
			if _, err := os.Stat(filepath.Join(dir, marker)); err == nil {
				return dir, true
			}
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", false
		}
		dir = parent
	}
}
