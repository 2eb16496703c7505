package app

import (
	"bytes"
	"context"
	"idiomlint/internal/core/config"
	"idiomlint/internal/core/errors"
	"idiomlint/internal/core/ports"
	"idiomlint/internal/ui/report/formats"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"
	"time"
)

const counterSource = `package demo;

public class Counter {
    public int count;

    void inc() { count++; }
}
`

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func testConfig(root string) *config.Config {
	cfg := config.Default()
	cfg.Workers = 2
	cfg.Paths.ProjectRoot = root
	cfg.SourcePaths = []string{root}
	return cfg
}

func newTestApp(t *testing.T, cfg *config.Config) *App {
	t.Helper()
	a, err := New(cfg, cfg.Paths.ProjectRoot)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = a.Close() })
	return a
}

func TestApp_LintReportsFindings(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "demo", "Counter.java"), counterSource)

	a := newTestApp(t, testConfig(root))
	res, err := a.Lint(context.Background(), ports.LintRequest{})
	if err != nil {
		t.Fatal(err)
	}
	if res.Files != 1 {
		t.Fatalf("expected 1 file, got %d", res.Files)
	}
	if len(res.Diagnostics) != 1 {
		t.Fatalf("expected 1 diagnostic, got %d: %+v", len(res.Diagnostics), res.Diagnostics)
	}
	d := res.Diagnostics[0]
	if d.Check != "use-different-visibility" {
		t.Errorf("unexpected check %q", d.Check)
	}
	if d.Position.File != "demo/Counter.java" || d.Position.Line != 4 {
		t.Errorf("unexpected position %s", d.Position)
	}
}

func TestApp_LintRestrictsChecks(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "demo", "Counter.java"), counterSource)

	a := newTestApp(t, testConfig(root))
	res, err := a.Lint(context.Background(), ports.LintRequest{Checks: []string{"loop-should-be-for"}})
	if err != nil {
		t.Fatal(err)
	}
	if len(res.Diagnostics) != 0 {
		t.Fatalf("expected no diagnostics, got %+v", res.Diagnostics)
	}

	_, err = a.Lint(context.Background(), ports.LintRequest{Checks: []string{"no-such-check"}})
	if !errors.IsCode(err, errors.CodeNotFound) {
		t.Fatalf("expected not found error, got %v", err)
	}
}

func TestNew_RejectsUnknownConfiguredCheck(t *testing.T) {
	cfg := testConfig(t.TempDir())
	cfg.Checks.Disabled = []string{"no-such-check"}
	if _, err := New(cfg, cfg.Paths.ProjectRoot); !errors.IsCode(err, errors.CodeNotFound) {
		t.Fatalf("expected not found error, got %v", err)
	}
}

func TestApp_ScanDirectories(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "src", "A.java"), "class A {}")
	writeFile(t, filepath.Join(root, "src", "BGenerated.java"), "class BGenerated {}")
	writeFile(t, filepath.Join(root, "src", "notes.txt"), "not java")
	writeFile(t, filepath.Join(root, "build", "C.java"), "class C {}")
	single := filepath.Join(root, "Main.java")
	writeFile(t, single, "class Main {}")

	a := newTestApp(t, testConfig(root))
	files, err := a.ScanDirectories(
		[]string{root, filepath.Join(root, "src"), single},
		[]string{"build"},
		[]string{"*Generated.java"},
	)
	if err != nil {
		t.Fatal(err)
	}
	want := []string{single, filepath.Join(root, "src", "A.java")}
	slices.Sort(want)
	if !slices.Equal(files, want) {
		t.Fatalf("expected %v, got %v", want, files)
	}

	if _, err := a.ScanDirectories([]string{root}, []string{"["}, nil); err == nil {
		t.Fatal("expected invalid pattern error")
	}
}

func TestApp_LintSkipsGeneratedFiles(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "demo", "Counter.java"), "// Generated by a tool. DO NOT EDIT.\n"+counterSource)

	a := newTestApp(t, testConfig(root))
	res, err := a.Lint(context.Background(), ports.LintRequest{})
	if err != nil {
		t.Fatal(err)
	}
	if res.Files != 1 || len(res.Diagnostics) != 0 || res.ParseFailures != 0 {
		t.Fatalf("unexpected result %+v", res)
	}
}

func TestApp_LintWithBaseline(t *testing.T) {
	root := t.TempDir()
	counter := filepath.Join(root, "demo", "Counter.java")
	writeFile(t, counter, counterSource)

	cfg := testConfig(root)
	cfg.History.Enabled = true
	a := newTestApp(t, cfg)
	if !a.HasHistory() {
		t.Fatal("expected history store to be open")
	}
	if _, err := os.Stat(filepath.Join(root, ".idiomlint", "history.db")); err != nil {
		t.Fatalf("expected history database in state dir: %v", err)
	}

	first, err := a.Lint(context.Background(), ports.LintRequest{Baseline: true})
	if err != nil {
		t.Fatal(err)
	}
	if len(first.Diagnostics) != 1 || first.Suppressed != 0 {
		t.Fatalf("first run: unexpected result %+v", first)
	}

	second, err := a.Lint(context.Background(), ports.LintRequest{Baseline: true})
	if err != nil {
		t.Fatal(err)
	}
	if len(second.Diagnostics) != 0 || second.Suppressed != 1 {
		t.Fatalf("second run: unexpected result %+v", second)
	}

	// A new field shows up while the known one stays suppressed, even though
	// its line moved.
	writeFile(t, counter, `package demo;

public class Counter {
    public int total;
    public int count;

    void inc() { count++; total++; }
}
`)
	third, err := a.Lint(context.Background(), ports.LintRequest{Baseline: true})
	if err != nil {
		t.Fatal(err)
	}
	if len(third.Diagnostics) != 1 || third.Suppressed != 1 {
		t.Fatalf("third run: unexpected result %+v", third)
	}
	if name := third.Diagnostics[0].Message.Params["name"]; name != "total" {
		t.Errorf("expected new finding for total, got %q", name)
	}
}

func TestApp_BaselineRequiresHistory(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "A.java"), "class A {}")

	a := newTestApp(t, testConfig(root))
	_, err := a.Lint(context.Background(), ports.LintRequest{Baseline: true})
	if !errors.IsCode(err, errors.CodeValidationError) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestApp_WriteOutputs(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "demo", "Counter.java"), counterSource)

	cfg := testConfig(root)
	cfg.Language = "de"
	cfg.Output.TSV = "reports/findings.tsv"
	cfg.Output.SARIF = filepath.Join(root, "reports", "findings.sarif")
	a := newTestApp(t, cfg)

	res, err := a.Lint(context.Background(), ports.LintRequest{})
	if err != nil {
		t.Fatal(err)
	}
	var buf bytes.Buffer
	if err := a.WriteOutputs(&buf, res, formats.Options{}); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	if !strings.Contains(out, "demo/Counter.java:4:") {
		t.Errorf("expected location in text output, got:\n%s", out)
	}
	if !strings.Contains(out, "Das Feld 'count' kann private sein.") {
		t.Errorf("expected German message, got:\n%s", out)
	}

	tsv, err := os.ReadFile(filepath.Join(root, "reports", "findings.tsv"))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(string(tsv), "Check\tProblem\tFile") {
		t.Errorf("unexpected TSV output:\n%s", tsv)
	}
	if _, err := os.Stat(cfg.Output.SARIF); err != nil {
		t.Errorf("expected SARIF report: %v", err)
	}
}

func TestApp_WriteOutputsToConfiguredPath(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "demo", "Counter.java"), counterSource)

	cfg := testConfig(root)
	cfg.Output.Format = "markdown"
	cfg.Output.Path = "out/report.md"
	a := newTestApp(t, cfg)

	res, err := a.Lint(context.Background(), ports.LintRequest{})
	if err != nil {
		t.Fatal(err)
	}
	var buf bytes.Buffer
	if err := a.WriteOutputs(&buf, res, formats.Options{}); err != nil {
		t.Fatal(err)
	}
	if buf.Len() != 0 {
		t.Errorf("expected nothing on the writer, got:\n%s", buf.String())
	}
	if _, err := os.Stat(filepath.Join(root, "out", "report.md")); err != nil {
		t.Fatalf("expected markdown report: %v", err)
	}
}

func TestApp_WatchRelintsOnChange(t *testing.T) {
	root := t.TempDir()
	counter := filepath.Join(root, "demo", "Counter.java")
	writeFile(t, counter, counterSource)

	cfg := testConfig(root)
	cfg.Watch.Debounce = 20 * time.Millisecond
	cfg.Watch.MaxRunsPerMinute = 600
	a := newTestApp(t, cfg)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	results := make(chan ports.LintResult, 8)
	done := make(chan error, 1)
	go func() {
		done <- a.Watch(ctx, ports.LintRequest{}, func(res ports.LintResult, err error) {
			if err != nil {
				t.Errorf("lint failed: %v", err)
				return
			}
			results <- res
		})
	}()

	next := func() ports.LintResult {
		t.Helper()
		select {
		case res := <-results:
			return res
		case <-time.After(5 * time.Second):
			t.Fatal("timed out waiting for a lint run")
			return ports.LintResult{}
		}
	}

	if got := len(next().Diagnostics); got != 1 {
		t.Fatalf("initial run: expected 1 diagnostic, got %d", got)
	}

	writeFile(t, counter, `package demo;

public class Counter {
    public int count;
    public int total;

    void inc() { count++; total++; }
}
`)
	if got := len(next().Diagnostics); got != 2 {
		t.Fatalf("after change: expected 2 diagnostics, got %d", got)
	}

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("watch returned %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("watch did not stop")
	}
}

func TestHealth(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "demo", "Counter.java"), counterSource)
	a := newTestApp(t, testConfig(root))

	h := a.Health(context.Background())
	if h.Status != StatusUp || h.LastRun != nil {
		t.Fatalf("expected up without a run, got %+v", h)
	}
	if h.Components["history"] != "disabled" {
		t.Errorf("unexpected history component %q", h.Components["history"])
	}
	if !strings.HasPrefix(h.Components["checks"], "ok (4") {
		t.Errorf("unexpected checks component %q", h.Components["checks"])
	}

	if _, err := a.Lint(context.Background(), ports.LintRequest{}); err != nil {
		t.Fatal(err)
	}
	h = a.Health(context.Background())
	if h.LastRun == nil || h.LastRun.Files != 1 || h.LastRun.Findings != 1 {
		t.Fatalf("expected the last run to be recorded, got %+v", h.LastRun)
	}

	if _, err := a.Lint(context.Background(), ports.LintRequest{Checks: []string{"no-such-check"}}); err == nil {
		t.Fatal("expected unknown check to fail")
	}
	h = a.Health(context.Background())
	if h.Status != StatusDegraded || h.Components["last_run"] != "failed" {
		t.Fatalf("expected a failed run to degrade health, got %+v", h)
	}
}
