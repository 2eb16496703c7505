package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestValidateSourcePaths(t *testing.T) {
	root := t.TempDir()
	if err := os.WriteFile(filepath.Join(root, "A.java"), nil, 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(root, "notes.txt"), nil, 0o644); err != nil {
		t.Fatal(err)
	}

	cfg := Default()
	cfg.SourcePaths = []string{".", "A.java", "notes.txt", "missing"}
	errs := Validate(cfg, root)
	if len(errs) != 2 {
		t.Fatalf("expected 2 errors, got %v", errs)
	}
	if !strings.Contains(errs[0].Error(), "neither a directory nor a Java file") {
		t.Errorf("unexpected error %v", errs[0])
	}
	if errs[1].Error() != `source_paths[3] "missing" does not exist` {
		t.Errorf("unexpected error %v", errs[1])
	}
}

func TestValidateHistoryPath(t *testing.T) {
	root := t.TempDir()
	cfg := Default()
	cfg.History.Enabled = true
	cfg.History.Path = "."
	errs := Validate(cfg, root)
	if len(errs) != 1 || !strings.Contains(errs[0].Error(), "is a directory") {
		t.Fatalf("expected directory error, got %v", errs)
	}
}
