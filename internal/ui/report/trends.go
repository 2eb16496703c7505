package report

import (
	"encoding/json"
	"fmt"
	"idiomlint/internal/data/history"
	"strings"
	"time"
)

// RunTrend is one stored run with its change against the run before it.
type RunTrend struct {
	ID            int64     `json:"id"`
	Timestamp     time.Time `json:"timestamp"`
	Files         int       `json:"files"`
	Findings      int       `json:"findings"`
	DeltaFiles    int       `json:"delta_files"`
	DeltaFindings int       `json:"delta_findings"`
}

// Trends pairs each run with its predecessor. runs must be oldest first;
// the first run has zero deltas.
func Trends(runs []history.Run) []RunTrend {
	out := make([]RunTrend, 0, len(runs))
	for i, r := range runs {
		t := RunTrend{
			ID:        r.ID,
			Timestamp: r.Timestamp.UTC(),
			Files:     r.FileCount,
			Findings:  r.FindingCount,
		}
		if i > 0 {
			prev := runs[i-1]
			t.DeltaFiles = r.FileCount - prev.FileCount
			t.DeltaFindings = r.FindingCount - prev.FindingCount
		}
		out = append(out, t)
	}
	return out
}

func RenderTrendTSV(trends []RunTrend) []byte {
	var buf strings.Builder

	buf.WriteString("Run\tTimestamp\tFiles\tFindings\tDeltaFiles\tDeltaFindings\n")
	for _, t := range trends {
		buf.WriteString(fmt.Sprintf("%d\t%s\t%d\t%d\t%+d\t%+d\n",
			t.ID,
			t.Timestamp.Format("2006-01-02T15:04:05Z07:00"),
			t.Files,
			t.Findings,
			t.DeltaFiles,
			t.DeltaFindings,
		))
	}

	return []byte(buf.String())
}

func RenderTrendJSON(trends []RunTrend) ([]byte, error) {
	return json.MarshalIndent(trends, "", "  ")
}
