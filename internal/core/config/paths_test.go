package config

import (
	"os"
	"path/filepath"
	"testing"
)

func touch(t *testing.T, path string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, nil, 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestResolvePaths(t *testing.T) {
	root := t.TempDir()
	touch(t, filepath.Join(root, "pom.xml"))
	src := filepath.Join(root, "src", "main", "java")
	if err := os.MkdirAll(src, 0o755); err != nil {
		t.Fatal(err)
	}
	elsewhere := t.TempDir()

	cases := []struct {
		name        string
		cwd         string
		configure   func(*Config)
		wantRoot    string
		wantHistory string
		wantSources []string
	}{
		{
			name:        "root detected from source path",
			cwd:         elsewhere,
			configure:   func(c *Config) { c.SourcePaths = []string{src} },
			wantRoot:    root,
			wantHistory: filepath.Join(root, ".idiomlint", "history.db"),
			wantSources: []string{src},
		},
		{
			name:        "sources relative to cwd",
			cwd:         root,
			configure:   func(c *Config) { c.SourcePaths = []string{"src/main/java"} },
			wantRoot:    root,
			wantHistory: filepath.Join(root, ".idiomlint", "history.db"),
			wantSources: []string{src},
		},
		{
			name: "explicit root and absolute history",
			cwd:  elsewhere,
			configure: func(c *Config) {
				c.Paths = Paths{ProjectRoot: root, StateDir: "state"}
				c.History.Path = filepath.Join(elsewhere, "runs.db")
			},
			wantRoot:    root,
			wantHistory: filepath.Join(elsewhere, "runs.db"),
			wantSources: []string{elsewhere},
		},
		{
			name:        "no marker falls back to cwd",
			cwd:         elsewhere,
			configure:   func(c *Config) {},
			wantRoot:    elsewhere,
			wantHistory: filepath.Join(elsewhere, ".idiomlint", "history.db"),
			wantSources: []string{elsewhere},
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := Default()
			tc.configure(cfg)
			got, err := ResolvePaths(cfg, tc.cwd)
			if err != nil {
				t.Fatal(err)
			}
			if got.ProjectRoot != tc.wantRoot {
				t.Errorf("project root: expected %q, got %q", tc.wantRoot, got.ProjectRoot)
			}
			if got.HistoryPath != tc.wantHistory {
				t.Errorf("history path: expected %q, got %q", tc.wantHistory, got.HistoryPath)
			}
			if len(got.SourcePaths) != len(tc.wantSources) || got.SourcePaths[0] != tc.wantSources[0] {
				t.Errorf("sources: expected %v, got %v", tc.wantSources, got.SourcePaths)
			}
		})
	}
}

func TestResolvePaths_EmptyCwd(t *testing.T) {
	if _, err := ResolvePaths(Default(), " "); err == nil {
		t.Fatal("expected error for empty cwd")
	}
}

func TestDetectProjectRoot(t *testing.T) {
	root := t.TempDir()
	touch(t, filepath.Join(root, "build.gradle"))
	nested := filepath.Join(root, "app")
	touch(t, filepath.Join(nested, "pom.xml"))
	file := filepath.Join(nested, "src", "A.java")
	touch(t, file)
	bare := t.TempDir()

	cases := []struct {
		name       string
		candidates []string
		want       string
	}{
		{"nearest marker wins", []string{filepath.Dir(file)}, nested},
		{"file candidate uses its directory", []string{file}, nested},
		{"later candidate searched when first has none", []string{"", bare, root}, root},
		{"fallback is last candidate", []string{bare}, bare},
		{"no candidates", nil, ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := DetectProjectRoot(tc.candidates); got != tc.want {
				t.Errorf("expected %q, got %q", tc.want, got)
			}
		})
	}
}
