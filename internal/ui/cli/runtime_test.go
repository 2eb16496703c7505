package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"idiomlint/internal/core/app"
	"idiomlint/internal/core/config"
	"net/http"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"
)

const counterSource = `package demo;

public class Counter {
    public int count;

    void inc() { count++; }
}
`

// project creates a temp project with a config file and makes it the
// working directory.
func project(t *testing.T, configBody string, files map[string]string) string {
	t.Helper()
	root := t.TempDir()
	if err := os.WriteFile(filepath.Join(root, config.DefaultFile), []byte(configBody), 0o644); err != nil {
		t.Fatal(err)
	}
	for name, content := range files {
		path := filepath.Join(root, name)
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	t.Chdir(root)
	return root
}

func runCLI(t *testing.T, args ...string) (int, string, string) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	code := run(context.Background(), args, &stdout, &stderr)
	return code, stdout.String(), stderr.String()
}

func TestRun_Version(t *testing.T) {
	code, out, _ := runCLI(t, "-version")
	if code != exitOK || !strings.HasPrefix(out, "idiomlint ") {
		t.Fatalf("unexpected result %d %q", code, out)
	}
}

func TestRun_ListChecks(t *testing.T) {
	code, out, _ := runCLI(t, "-list-checks")
	if code != exitOK {
		t.Fatalf("unexpected exit code %d", code)
	}
	lines := strings.Split(strings.TrimSpace(out), "\n")
	want := []string{
		"field-should-be-local\tFIELD_SHOULD_BE_LOCAL",
		"loop-should-be-for\tLOOP_SHOULD_BE_FOR",
		"reassigned-parameter\tREASSIGNED_PARAMETER",
		"use-different-visibility\tUSE_DIFFERENT_VISIBILITY",
	}
	if !slices.Equal(lines, want) {
		t.Fatalf("unexpected checks:\n%s", out)
	}
}

func TestRun_FindingsExitCode(t *testing.T) {
	project(t, "version = 1\n", map[string]string{"demo/Counter.java": counterSource})

	code, out, _ := runCLI(t)
	if code != exitFindings {
		t.Fatalf("expected exit %d, got %d", exitFindings, code)
	}
	if !strings.Contains(out, "demo/Counter.java:4:") ||
		!strings.Contains(out, "[use-different-visibility] Field 'count' can be made private.") {
		t.Errorf("unexpected output:\n%s", out)
	}
	if !strings.Contains(out, "1 findings in 1 files.") {
		t.Errorf("missing summary:\n%s", out)
	}
}

func TestRun_NoFindings(t *testing.T) {
	project(t, "version = 1\n", map[string]string{"demo/Clean.java": "package demo;\nclass Clean {}\n"})

	code, out, _ := runCLI(t)
	if code != exitOK {
		t.Fatalf("expected exit %d, got %d", exitOK, code)
	}
	if strings.TrimSpace(out) != "No findings in 1 files." {
		t.Errorf("unexpected output:\n%s", out)
	}
}

func TestRun_FlagsOverrideConfig(t *testing.T) {
	project(t, "version = 1\nfail_on_findings = false\n", map[string]string{"demo/Counter.java": counterSource})

	code, out, _ := runCLI(t, "-format", "tsv", "-lang", "de", "demo")
	if code != exitOK {
		t.Fatalf("expected exit %d with fail_on_findings disabled, got %d", exitOK, code)
	}
	if !strings.HasPrefix(out, "Check\tProblem\tFile") {
		t.Errorf("expected TSV output, got:\n%s", out)
	}
	if !strings.Contains(out, "Das Feld 'count' kann private sein.") {
		t.Errorf("expected German message, got:\n%s", out)
	}
}

func TestRun_OutputFile(t *testing.T) {
	root := project(t, "version = 1\n", map[string]string{"demo/Counter.java": counterSource})

	code, out, _ := runCLI(t, "-format", "sarif", "-output", "reports/idiomlint.sarif")
	if code != exitFindings {
		t.Fatalf("expected exit %d, got %d", exitFindings, code)
	}
	if out != "" {
		t.Errorf("expected empty stdout, got:\n%s", out)
	}
	data, err := os.ReadFile(filepath.Join(root, "reports", "idiomlint.sarif"))
	if err != nil {
		t.Fatal(err)
	}
	var doc map[string]any
	if err := json.Unmarshal(data, &doc); err != nil {
		t.Fatalf("invalid SARIF: %v", err)
	}
}

func TestRun_UsageErrors(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"unknown flag", []string{"-nope"}},
		{"bad format", []string{"-format", "xml"}},
		{"bad language", []string{"-lang", "fr"}},
		{"unknown check", []string{"-checks", "no-such-check"}},
		{"missing config", []string{"-config", "missing.toml"}},
		{"missing source path", []string{"does-not-exist"}},
		{"baseline without history", []string{"-baseline"}},
		{"history without history", []string{"-history", "tsv"}},
		{"since without history flag", []string{"-since", "2026-01-01"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			project(t, "version = 1\n", map[string]string{"demo/Clean.java": "class Clean {}\n"})
			if code, _, _ := runCLI(t, tt.args...); code != exitUsage {
				t.Fatalf("expected exit %d, got %d", exitUsage, code)
			}
		})
	}
}

func TestRun_InvalidConfigFile(t *testing.T) {
	project(t, "version = 1\nunknown_key = true\n", nil)
	code, _, errOut := runCLI(t)
	if code != exitUsage {
		t.Fatalf("expected exit %d, got %d", exitUsage, code)
	}
	if !strings.Contains(errOut, "unknown config key") {
		t.Errorf("unexpected stderr:\n%s", errOut)
	}
}

func TestRun_BaselineWithHistory(t *testing.T) {
	project(t, "version = 1\n[history]\nenabled = true\n", map[string]string{"demo/Counter.java": counterSource})

	if code, _, _ := runCLI(t, "-baseline"); code != exitFindings {
		t.Fatalf("first run: expected exit %d, got %d", exitFindings, code)
	}
	code, out, _ := runCLI(t, "-baseline")
	if code != exitOK {
		t.Fatalf("second run: expected exit %d, got %d", exitOK, code)
	}
	if !strings.Contains(out, "No findings") {
		t.Errorf("expected known finding to be suppressed:\n%s", out)
	}

	code, out, _ = runCLI(t, "-history", "tsv")
	if code != exitOK {
		t.Fatalf("history: expected exit %d, got %d", exitOK, code)
	}
	lines := strings.Split(strings.TrimSpace(out), "\n")
	if len(lines) != 3 || !strings.HasPrefix(lines[0], "Run\tTimestamp") {
		t.Fatalf("expected header and two runs:\n%s", out)
	}
	if !strings.HasSuffix(lines[2], "\t+0\t+0") {
		t.Errorf("both runs stored the same finding, got %q", lines[2])
	}
}

func TestParseSince(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		wantZero  bool
		wantError bool
	}{
		{name: "empty", input: "", wantZero: true},
		{name: "date", input: "2026-02-13"},
		{name: "rfc3339", input: "2026-02-13T15:00:00Z"},
		{name: "invalid", input: "13/02/2026", wantError: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseSince(tt.input)
			if tt.wantError {
				if err == nil {
					t.Fatal("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if tt.wantZero != got.IsZero() {
				t.Fatalf("unexpected time %v", got)
			}
		})
	}
}

func TestSplitList(t *testing.T) {
	got := splitList(" a, ,b,")
	if !slices.Equal(got, []string{"a", "b"}) {
		t.Fatalf("unexpected list %v", got)
	}
	if splitList("") != nil {
		t.Fatal("expected nil for empty input")
	}
}

func TestObservabilityServer(t *testing.T) {
	root := t.TempDir()
	cfg := config.Default()
	cfg.Paths.ProjectRoot = root
	cfg.SourcePaths = []string{root}
	a, err := app.New(cfg, root)
	if err != nil {
		t.Fatal(err)
	}
	defer a.Close()

	server := NewObservabilityServer("127.0.0.1:0", a)
	if err := server.Start(context.Background()); err != nil {
		t.Fatal(err)
	}
	defer server.Stop(context.Background())

	resp, err := http.Get("http://" + server.Addr() + "/health")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("unexpected status %d", resp.StatusCode)
	}
	var status app.Health
	if err := json.NewDecoder(resp.Body).Decode(&status); err != nil {
		t.Fatal(err)
	}
	if status.Status != "up" {
		t.Errorf("unexpected health %+v", status)
	}

	metrics, err := http.Get("http://" + server.Addr() + "/metrics")
	if err != nil {
		t.Fatal(err)
	}
	metrics.Body.Close()
	if metrics.StatusCode != http.StatusOK {
		t.Fatalf("unexpected metrics status %d", metrics.StatusCode)
	}
}
