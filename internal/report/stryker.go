package report

import (
	"encoding/json"
	"io"

	"github.com/gremlins-go/gremlins/internal/aggregate"
	"github.com/gremlins-go/gremlins/internal/model"
)

// strykerReport is a reduced form of the Stryker mutation-testing-elements
// schema (https://github.com/stryker-mutator/mutation-testing-elements):
// one FileResult per mutated path, each carrying its Gremlin-derived
// mutants with Stryker's status vocabulary. This is one of
// SPEC_FULL.md's SUPPLEMENTED FEATURES, grounded on
// original_source/reporting/stryker.py's export shape.
type strykerReport struct {
	Schema string                 `json:"schemaVersion"`
	Files  map[string]strykerFile `json:"files"`
}

type strykerFile struct {
	Language string          `json:"language"`
	Mutants  []strykerMutant `json:"mutants"`
}

type strykerMutant struct {
	ID          string `json:"id"`
	MutatorName string `json:"mutatorName"`
	Status      string `json:"status"`
	Description string `json:"description"`
	Location    struct {
		Start struct {
			Line int `json:"line"`
		} `json:"start"`
		End struct {
			Line int `json:"line"`
		} `json:"end"`
	} `json:"location"`
}

// strykerStatus maps a model.Status onto Stryker's vocabulary
// (Killed/Survived/Timeout/RuntimeError), per their schema's MutantStatus enum.
func strykerStatus(s model.Status) string {
	switch s {
	case model.StatusZapped:
		return "Killed"
	case model.StatusSurvived:
		return "Survived"
	case model.StatusTimeout:
		return "Timeout"
	default:
		return "RuntimeError"
	}
}

// RenderStryker writes score as a Stryker-mutation-testing-elements-
// compatible JSON document, grouping gremlins by file.
func RenderStryker(w io.Writer, score *aggregate.MutationScore) error {
	resultsByID := make(map[string]model.Result, len(score.Results))
	for _, r := range score.Results {
		resultsByID[r.GremlinID] = r
	}

	files := make(map[string]strykerFile)
	for _, fb := range score.ByFile {
		files[fb.Path] = strykerFile{Language: "go", Mutants: nil}
	}
	for id, g := range score.Gremlins {
		addStrykerMutant(files, g, resultsByID[id])
	}

	out := strykerReport{Schema: "1.0", Files: files}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

func addStrykerMutant(files map[string]strykerFile, g model.Gremlin, res model.Result) {
	f := files[g.Path]
	m := strykerMutant{
		ID:          g.ID,
		MutatorName: g.Operator,
		Status:      strykerStatus(res.Status),
		Description: g.Description,
	}
	m.Location.Start.Line = g.Line
	m.Location.End.Line = g.Line
	f.Mutants = append(f.Mutants, m)
	files[g.Path] = f
}
