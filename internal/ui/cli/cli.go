// Package cli implements the idiomlint command line.
package cli

import (
	"flag"
	"fmt"
	"io"
	"strings"
	"time"
)

type cliOptions struct {
	configPath string
	format     string
	output     string
	lang       string
	checks     string
	listChecks bool
	watch      bool
	baseline   bool
	history    string
	since      string
	verbose    bool
	version    bool
	args       []string
}

func parseOptions(args []string, stderr io.Writer) (cliOptions, error) {
	var opts cliOptions
	fs := flag.NewFlagSet("idiomlint", flag.ContinueOnError)
	fs.SetOutput(stderr)

	fs.StringVar(&opts.configPath, "config", "", "Path to config file (default ./idiomlint.toml when present)")
	fs.StringVar(&opts.format, "format", "", "Report format: text, sarif, markdown or tsv")
	fs.StringVar(&opts.output, "output", "", "Write the report to this file instead of stdout")
	fs.StringVar(&opts.lang, "lang", "", "Message language: en or de")
	fs.StringVar(&opts.checks, "checks", "", "Comma-separated checks to enable")
	fs.BoolVar(&opts.listChecks, "list-checks", false, "Print the registered checks and exit")
	fs.BoolVar(&opts.watch, "watch", false, "Re-run on file changes until interrupted")
	fs.BoolVar(&opts.baseline, "baseline", false, "Report only findings that are new since the last stored run (requires history)")
	fs.StringVar(&opts.history, "history", "", "Print stored runs as tsv or json and exit (requires history)")
	fs.StringVar(&opts.since, "since", "", "With -history, only runs at/after this time (RFC3339 or YYYY-MM-DD)")
	fs.BoolVar(&opts.verbose, "verbose", false, "Enable verbose logging")
	fs.BoolVar(&opts.version, "version", false, "Print version and exit")

	if err := fs.Parse(args); err != nil {
		return cliOptions{}, err
	}

	opts.args = fs.Args()
	return opts, nil
}

// splitList splits a comma-separated flag value, dropping empty entries.
func splitList(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func parseSince(value string) (time.Time, error) {
	raw := strings.TrimSpace(value)
	if raw == "" {
		return time.Time{}, nil
	}

	rfc3339, err := time.Parse(time.RFC3339, raw)
	if err == nil {
		return rfc3339.UTC(), nil
	}

	dateOnly, err := time.Parse("2006-01-02", raw)
	if err == nil {
		return dateOnly.UTC(), nil
	}

	return time.Time{}, fmt.Errorf("-since must be RFC3339 or YYYY-MM-DD, got %q", value)
}
