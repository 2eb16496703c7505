package formats

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	locationStyle = lipgloss.NewStyle().Bold(true)
	checkStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#FBBF24"))
	summaryStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#9CA3AF"))
	successStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#10B981")).Bold(true)
)

// TextGenerator writes one line per finding followed by a summary:
//
//	src/A.java:3:5: [use-different-visibility] Field 'x' can be made private.
type TextGenerator struct {
	color bool
}

func NewTextGenerator(opts Options) *TextGenerator {
	return &TextGenerator{color: opts.Color}
}

func (t *TextGenerator) style(s lipgloss.Style, text string) string {
	if !t.color {
		return text
	}
	return s.Render(text)
}

func (t *TextGenerator) Generate(r Report) string {
	var b strings.Builder
	for _, f := range r.Findings {
		fmt.Fprintf(&b, "%s: %s %s\n",
			t.style(locationStyle, location(r.ProjectRoot, f)),
			t.style(checkStyle, "["+f.Check+"]"),
			f.Message,
		)
	}
	if len(r.Findings) == 0 {
		b.WriteString(t.style(successStyle, fmt.Sprintf("No findings in %d files.", r.Files)))
	} else {
		b.WriteString(t.style(summaryStyle, fmt.Sprintf("%d findings in %d files.", len(r.Findings), r.Files)))
	}
	b.WriteString("\n")
	return b.String()
}
