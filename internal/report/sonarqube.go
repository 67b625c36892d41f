package report

import (
	"encoding/json"
	"io"

	"github.com/gremlins-go/gremlins/internal/aggregate"
	"github.com/gremlins-go/gremlins/internal/model"
)

// sonarIssues is SonarQube's "generic issue import" format
// (https://docs.sonarqube.org/latest/analysis/generic-issue/): a flat list
// of issues, one per surviving gremlin, so a mutation-testing run's
// survivors show up as code-smell findings in a SonarQube dashboard. This
// is one of SPEC_FULL.md's SUPPLEMENTED FEATURES, grounded on
// original_source/reporting/sonarqube.py's export shape.
type sonarIssues struct {
	Issues []sonarIssue `json:"issues"`
}

type sonarIssue struct {
	EngineID        string        `json:"engineId"`
	RuleID          string        `json:"ruleId"`
	Severity        string        `json:"severity"`
	Type            string        `json:"type"`
	PrimaryLocation sonarLocation `json:"primaryLocation"`
}

type sonarLocation struct {
	Message   string         `json:"message"`
	FilePath  string         `json:"filePath"`
	TextRange sonarTextRange `json:"textRange"`
}

type sonarTextRange struct {
	StartLine int `json:"startLine"`
	EndLine   int `json:"endLine"`
}

// sonarSeverity maps operator severity (model.Gremlin.Severity, lower is
// more severe) onto SonarQube's severity vocabulary.
func sonarSeverity(g model.Gremlin) string {
	switch g.Severity() {
	case 0, 1:
		return "MAJOR"
	case 2, 3:
		return "MINOR"
	default:
		return "INFO"
	}
}

// RenderSonarQube writes every surviving gremlin in score as a SonarQube
// generic-issue JSON document.
func RenderSonarQube(w io.Writer, score *aggregate.MutationScore) error {
	out := sonarIssues{Issues: make([]sonarIssue, 0, len(score.Survivors))}
	for _, g := range score.Survivors {
		out.Issues = append(out.Issues, sonarIssue{
			EngineID: "gremlins",
			RuleID:   g.Operator,
			Severity: sonarSeverity(g),
			Type:     "CODE_SMELL",
			PrimaryLocation: sonarLocation{
				Message:  "surviving mutant: " + g.Description,
				FilePath: g.Path,
				TextRange: sonarTextRange{
					StartLine: g.Line,
					EndLine:   g.Line,
				},
			},
		})
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}
