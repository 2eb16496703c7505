// Package formats renders lint results as text, SARIF, Markdown or TSV.
package formats

import (
	"cmp"
	"fmt"
	"idiomlint/internal/core/errors"
	"io"
	"path/filepath"
	"slices"
	"strings"
	"time"
)

// Report is everything a format needs about one run.
type Report struct {
	Tool        string
	Version     string
	ProjectRoot string
	GeneratedAt time.Time
	// RunID identifies the run in SARIF output; a random one is used when empty.
	RunID    string
	Files    int
	Findings []Finding
}

// Finding is a diagnostic with its message already translated.
type Finding struct {
	Check   string
	Problem string
	File    string
	Line    int
	Column  int
	Message string
}

// Options tune the human readable formats.
type Options struct {
	Color bool
}

// SortFindings orders findings by file, line, column and check. The sort is
// stable so findings at the same place keep their report order.
func SortFindings(findings []Finding) {
	slices.SortStableFunc(findings, func(a, b Finding) int {
		return cmp.Or(
			cmp.Compare(a.File, b.File),
			cmp.Compare(a.Line, b.Line),
			cmp.Compare(a.Column, b.Column),
			cmp.Compare(a.Check, b.Check),
		)
	})
}

// Write renders r in the named format.
func Write(w io.Writer, format string, r Report, opts Options) error {
	var (
		out string
		err error
	)
	switch strings.ToLower(format) {
	case "text", "":
		out = NewTextGenerator(opts).Generate(r)
	case "sarif":
		var data []byte
		data, err = GenerateSARIF(r)
		out = string(data) + "\n"
	case "markdown":
		out = NewMarkdownGenerator().Generate(r)
	case "tsv":
		out = NewTSVGenerator().Generate(r)
	default:
		return errors.Newf(errors.CodeValidationError, "unknown report format %q", format)
	}
	if err != nil {
		return err
	}
	if _, err := io.WriteString(w, out); err != nil {
		return errors.Wrap(err, errors.CodeIO, "write report")
	}
	return nil
}

// relativePath makes filePath relative to projectRoot with forward slashes.
// Paths outside the root stay absolute.
func relativePath(projectRoot, filePath string) string {
	if projectRoot != "" && filepath.IsAbs(filePath) {
		if rel, err := filepath.Rel(projectRoot, filePath); err == nil && !strings.HasPrefix(rel, "..") {
			filePath = rel
		}
	}
	return filepath.ToSlash(filePath)
}

func location(root string, f Finding) string {
	return fmt.Sprintf("%s:%d:%d", relativePath(root, f.File), f.Line, f.Column)
}
