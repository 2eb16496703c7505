package formats

import (
	"fmt"
	"strings"
)

type TSVGenerator struct{}

func NewTSVGenerator() *TSVGenerator {
	return &TSVGenerator{}
}

func (t *TSVGenerator) Generate(r Report) string {
	var buf strings.Builder

	buf.WriteString("Check\tProblem\tFile\tLine\tColumn\tMessage\n")
	for _, f := range r.Findings {
		buf.WriteString(fmt.Sprintf("%s\t%s\t%s\t%d\t%d\t%s\n",
			f.Check,
			f.Problem,
			relativePath(r.ProjectRoot, f.File),
			f.Line,
			f.Column,
			escapeTSV(f.Message),
		))
	}
	return buf.String()
}

var tsvEscaper = strings.NewReplacer(`\`, `\\`, "\t", `\t`, "\n", `\n`, "\r", `\r`)

func escapeTSV(s string) string {
	return tsvEscaper.Replace(s)
}
