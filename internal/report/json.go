package report

import (
	"encoding/json"
	"io"

	"github.com/gremlins-go/gremlins/internal/aggregate"
	"github.com/gremlins-go/gremlins/internal/model"
)

// jsonReport is the plain JSON report shape spec.md §6's
// --gremlin-report=json value produces: the full MutationScore, field
// names snake_cased for consumption by non-Go tooling.
type jsonReport struct {
	Total      int              `json:"total"`
	Zapped     int              `json:"zapped"`
	Survived   int              `json:"survived"`
	Timeout    int              `json:"timeout"`
	Error      int              `json:"error"`
	Percentage float64          `json:"percentage"`
	Results    []jsonResult     `json:"results"`
	ByFile     []jsonFileResult `json:"by_file"`
}

type jsonResult struct {
	GremlinID   string `json:"gremlin_id"`
	Status      string `json:"status"`
	KillingTest string `json:"killing_test,omitempty"`
	DurationNs  int64  `json:"duration_ns"`
}

type jsonFileResult struct {
	Path       string  `json:"path"`
	Total      int     `json:"total"`
	Zapped     int     `json:"zapped"`
	Survived   int     `json:"survived"`
	Timeout    int     `json:"timeout"`
	Error      int     `json:"error"`
	Percentage float64 `json:"percentage"`
}

// RenderJSON writes score as indented JSON to w.
func RenderJSON(w io.Writer, score *aggregate.MutationScore) error {
	out := jsonReport{
		Total:      score.Total,
		Zapped:     score.Zapped,
		Survived:   score.Survived,
		Timeout:    score.Timeout,
		Error:      score.Error,
		Percentage: score.Percentage,
	}
	for _, r := range score.Results {
		out.Results = append(out.Results, toJSONResult(r))
	}
	for _, fb := range score.ByFile {
		out.ByFile = append(out.ByFile, jsonFileResult{
			Path: fb.Path, Total: fb.Total, Zapped: fb.Zapped, Survived: fb.Survived,
			Timeout: fb.Timeout, Error: fb.Error, Percentage: fb.Percentage,
		})
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

func toJSONResult(r model.Result) jsonResult {
	return jsonResult{
		GremlinID:   r.GremlinID,
		Status:      string(r.Status),
		KillingTest: r.KillingTest,
		DurationNs:  r.Duration,
	}
}
