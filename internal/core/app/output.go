package app

import (
	"bytes"
	"idiomlint/internal/core/config"
	"idiomlint/internal/core/errors"
	"idiomlint/internal/core/ports"
	"idiomlint/internal/shared/util"
	"idiomlint/internal/shared/version"
	"idiomlint/internal/ui/report/formats"
	"io"
	"time"
)

const toolName = "idiomlint"

// Report converts a lint result into its presentation form with messages
// translated into the configured language.
func (a *App) Report(res ports.LintResult) formats.Report {
	lang := a.Config().Language
	findings := make([]formats.Finding, 0, len(res.Diagnostics))
	for _, d := range res.Diagnostics {
		findings = append(findings, formats.Finding{
			Check:   d.Check,
			Problem: string(d.Problem),
			File:    d.Position.File,
			Line:    d.Position.Line,
			Column:  d.Position.Column,
			Message: a.Catalog.Translate(lang, d.Message),
		})
	}
	formats.SortFindings(findings)
	return formats.Report{
		Tool:        toolName,
		Version:     version.Version,
		ProjectRoot: a.Paths.ProjectRoot,
		GeneratedAt: time.Now().UTC(),
		Files:       res.Files,
		Findings:    findings,
	}
}

// WriteOutputs renders the main report to w, or to the configured output
// file when one is set, and writes every extra report file.
func (a *App) WriteOutputs(w io.Writer, res ports.LintResult, opts formats.Options) error {
	cfg := a.Config()
	r := a.Report(res)

	if cfg.Output.Path != "" {
		if err := writeReportFile(a.resolveOutput(cfg.Output.Path), cfg.Output.Format, r); err != nil {
			return err
		}
	} else if err := formats.Write(w, cfg.Output.Format, r, opts); err != nil {
		return err
	}

	extra := cfg.Output.ExtraOutputs()
	for _, format := range util.SortedKeys(extra) {
		if err := writeReportFile(a.resolveOutput(extra[format]), format, r); err != nil {
			return err
		}
	}
	return nil
}

func (a *App) resolveOutput(path string) string {
	return config.ResolveRelative(a.Paths.ProjectRoot, path)
}

func writeReportFile(path, format string, r formats.Report) error {
	var buf bytes.Buffer
	if err := formats.Write(&buf, format, r, formats.Options{}); err != nil {
		return err
	}
	if err := util.WriteFileAtomic(path, buf.Bytes(), 0o644); err != nil {
		return errors.AddContext(errors.Wrap(err, errors.CodeIO, "write report"), errors.CtxPath, path)
	}
	return nil
}
