package formats

import (
	"encoding/json"
	"idiomlint/internal/core/errors"
	"slices"
	"strings"
	"unicode"

	"github.com/google/uuid"
)

// SARIF v2.1.0 schema – see https://schemastore.azurewebsites.net/schemas/json/sarif-2.1.0-rtm.5.json

const (
	sarifSchema  = "https://schemastore.azurewebsites.net/schemas/json/sarif-2.1.0-rtm.5.json"
	sarifVersion = "2.1.0"
)

// sarifReport is the top-level SARIF document.
type sarifReport struct {
	Schema  string     `json:"$schema"`
	Version string     `json:"version"`
	Runs    []sarifRun `json:"runs"`
}

type sarifRun struct {
	Tool              sarifTool              `json:"tool"`
	AutomationDetails sarifAutomationDetails `json:"automationDetails"`
	Results           []sarifResult          `json:"results"`
}

type sarifAutomationDetails struct {
	GUID string `json:"guid"`
}

type sarifTool struct {
	Driver sarifDriver `json:"driver"`
}

type sarifDriver struct {
	Name    string      `json:"name"`
	Version string      `json:"version"`
	Rules   []sarifRule `json:"rules"`
}

type sarifRule struct {
	ID               string                 `json:"id"`
	Name             string                 `json:"name"`
	ShortDescription sarifMessage           `json:"shortDescription"`
	DefaultConfig    sarifRuleDefaultConfig `json:"defaultConfiguration"`
}

type sarifRuleDefaultConfig struct {
	Level string `json:"level"`
}

type sarifResult struct {
	RuleID    string          `json:"ruleId"`
	RuleIndex int             `json:"ruleIndex"`
	Level     string          `json:"level"`
	Message   sarifMessage    `json:"message"`
	Locations []sarifLocation `json:"locations,omitempty"`
}

type sarifMessage struct {
	Text string `json:"text"`
}

type sarifLocation struct {
	PhysicalLocation sarifPhysicalLocation `json:"physicalLocation"`
}

type sarifPhysicalLocation struct {
	ArtifactLocation sarifArtifactLocation `json:"artifactLocation"`
	Region           *sarifRegion          `json:"region,omitempty"`
}

type sarifArtifactLocation struct {
	URI       string `json:"uri"`
	URIBaseID string `json:"uriBaseId"`
}

type sarifRegion struct {
	StartLine   int `json:"startLine,omitempty"`
	StartColumn int `json:"startColumn,omitempty"`
}

// GenerateSARIF builds a SARIF v2.1.0 document with one rule per problem
// type. File URIs are made relative to the project root so that reports are
// safe to share.
func GenerateSARIF(r Report) ([]byte, error) {
	rules, index := buildSARIFRules(r.Findings)
	results := make([]sarifResult, 0, len(r.Findings))
	for _, f := range r.Findings {
		result := sarifResult{
			RuleID:    f.Problem,
			RuleIndex: index[f.Problem],
			Level:     "warning",
			Message:   sarifMessage{Text: f.Message},
		}
		if f.File != "" {
			loc := sarifLocation{
				PhysicalLocation: sarifPhysicalLocation{
					ArtifactLocation: sarifArtifactLocation{
						URI:       relativePath(r.ProjectRoot, f.File),
						URIBaseID: "%SRCROOT%",
					},
				},
			}
			if f.Line > 0 {
				loc.PhysicalLocation.Region = &sarifRegion{
					StartLine:   f.Line,
					StartColumn: f.Column,
				}
			}
			result.Locations = []sarifLocation{loc}
		}
		results = append(results, result)
	}

	runID := r.RunID
	if runID == "" {
		runID = uuid.NewString()
	}
	report := sarifReport{
		Schema:  sarifSchema,
		Version: sarifVersion,
		Runs: []sarifRun{
			{
				Tool: sarifTool{
					Driver: sarifDriver{
						Name:    r.Tool,
						Version: r.Version,
						Rules:   rules,
					},
				},
				AutomationDetails: sarifAutomationDetails{GUID: runID},
				Results:           results,
			},
		},
	}

	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeInternal, "encode sarif")
	}
	return data, nil
}

// buildSARIFRules returns one rule per problem type present in findings,
// sorted by id, and the index of each rule.
func buildSARIFRules(findings []Finding) ([]sarifRule, map[string]int) {
	checkOf := make(map[string]string)
	for _, f := range findings {
		if _, ok := checkOf[f.Problem]; !ok {
			checkOf[f.Problem] = f.Check
		}
	}
	ids := make([]string, 0, len(checkOf))
	for id := range checkOf {
		ids = append(ids, id)
	}
	slices.Sort(ids)

	rules := make([]sarifRule, 0, len(ids))
	index := make(map[string]int, len(ids))
	for i, id := range ids {
		index[id] = i
		rules = append(rules, sarifRule{
			ID:               id,
			Name:             ruleName(id),
			ShortDescription: sarifMessage{Text: "Reported by the " + checkOf[id] + " check."},
			DefaultConfig:    sarifRuleDefaultConfig{Level: "warning"},
		})
	}
	return rules, index
}

// ruleName turns USE_DIFFERENT_VISIBILITY into UseDifferentVisibility.
func ruleName(problem string) string {
	var b strings.Builder
	for _, part := range strings.Split(strings.ToLower(problem), "_") {
		if part == "" {
			continue
		}
		runes := []rune(part)
		runes[0] = unicode.ToUpper(runes[0])
		b.WriteString(string(runes))
	}
	return b.String()
}
