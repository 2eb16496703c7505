package formats

import (
	"fmt"
	"strings"
	"time"
)

type MarkdownGenerator struct{}

func NewMarkdownGenerator() *MarkdownGenerator {
	return &MarkdownGenerator{}
}

func (m *MarkdownGenerator) Generate(r Report) string {
	if r.GeneratedAt.IsZero() {
		r.GeneratedAt = time.Now().UTC()
	}

	var b strings.Builder
	b.WriteString("---\n")
	b.WriteString("title: Lint Report\n")
	b.WriteString("generated_at: " + r.GeneratedAt.UTC().Format(time.RFC3339) + "\n")
	b.WriteString("version: " + nonEmpty(r.Version, "unknown") + "\n")
	b.WriteString("---\n\n")

	b.WriteString("# Lint Report\n\n")
	b.WriteString("## Summary\n")
	b.WriteString("| Metric | Value |\n")
	b.WriteString("| --- | --- |\n")
	b.WriteString(fmt.Sprintf("| Files | %d |\n", r.Files))
	b.WriteString(fmt.Sprintf("| Findings | %d |\n", len(r.Findings)))
	for _, row := range countByCheck(r.Findings) {
		b.WriteString(fmt.Sprintf("| `%s` | %d |\n", row.check, row.count))
	}
	b.WriteString("\n")

	b.WriteString("## Findings\n")
	if len(r.Findings) == 0 {
		b.WriteString("No findings.\n")
		return b.String()
	}
	b.WriteString("| Location | Check | Message |\n")
	b.WriteString("| --- | --- | --- |\n")
	for _, f := range r.Findings {
		b.WriteString(fmt.Sprintf("| `%s` | `%s` | %s |\n",
			location(r.ProjectRoot, f), f.Check, escapeMarkdownCell(f.Message)))
	}
	return b.String()
}

type checkCount struct {
	check string
	count int
}

// countByCheck counts findings per check in order of first appearance.
func countByCheck(findings []Finding) []checkCount {
	var out []checkCount
	pos := map[string]int{}
	for _, f := range findings {
		i, ok := pos[f.Check]
		if !ok {
			i = len(out)
			pos[f.Check] = i
			out = append(out, checkCount{check: f.Check})
		}
		out[i].count++
	}
	return out
}

func escapeMarkdownCell(s string) string {
	s = strings.TrimSpace(s)
	s = strings.ReplaceAll(s, "|", `\|`)
	return strings.ReplaceAll(s, "\n", "<br>")
}

func nonEmpty(value, fallback string) string {
	if strings.TrimSpace(value) == "" {
		return fallback
	}
	return value
}
