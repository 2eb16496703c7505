package history

import (
	"idiomlint/internal/engine/check"
	"maps"
	"time"
)

// Baseline counts the fingerprints of a project's latest run. An empty
// baseline is returned when the project has no runs yet.
func (s *Store) Baseline(projectKey string) (Baseline, error) {
	runs, err := s.LoadRuns(projectKey, time.Time{})
	if err != nil {
		return nil, err
	}
	if len(runs) == 0 {
		return Baseline{}, nil
	}
	findings, err := s.Findings(runs[len(runs)-1].ID)
	if err != nil {
		return nil, err
	}
	b := make(Baseline, len(findings))
	for _, f := range findings {
		b[f.Fingerprint]++
	}
	return b, nil
}

// Baseline maps a fingerprint to the number of findings that carried it.
type Baseline map[string]int

// Filter returns the diagnostics not covered by the baseline. Identical
// fingerprints are matched one to one, so a second copy of a known finding
// is still reported.
func (b Baseline) Filter(diags []check.Diagnostic) []check.Diagnostic {
	left := maps.Clone(b)
	var out []check.Diagnostic
	for _, d := range diags {
		fp := Fingerprint(d)
		if left[fp] > 0 {
			left[fp]--
			continue
		}
		out = append(out, d)
	}
	return out
}
