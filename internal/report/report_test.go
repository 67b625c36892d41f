package report

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gremlins-go/gremlins/internal/aggregate"
	"github.com/gremlins-go/gremlins/internal/model"
)

func sampleScore() *aggregate.MutationScore {
	a := aggregate.New()
	a.Record(model.Gremlin{ID: "g001", Path: "a.go", Line: 10, Operator: "comparison", Description: ">= to >"}, model.Result{Status: model.StatusSurvived})
	a.Record(model.Gremlin{ID: "g002", Path: "a.go", Line: 10, Operator: "comparison", Description: ">= to <"}, model.Result{Status: model.StatusZapped, KillingTest: "TestX"})
	s := a.Score()
	return &s
}

func TestRenderConsoleDoesNotPanic(t *testing.T) {
	var buf bytes.Buffer
	RenderConsole(&buf, sampleScore())
	assert.Contains(t, buf.String(), "50.0%")
}

func TestRenderJSONRoundTrips(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, RenderJSON(&buf, sampleScore()))

	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &out))
	assert.Equal(t, float64(2), out["total"])
}

func TestRenderHTMLIncludesSurvivor(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, RenderHTML(&buf, sampleScore()))
	assert.Contains(t, buf.String(), "a.go")
	assert.Contains(t, buf.String(), "<td>g001</td>")
}

func TestRenderStrykerGroupsMutantsByFile(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, RenderStryker(&buf, sampleScore()))

	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &out))
	files := out["files"].(map[string]interface{})
	file := files["a.go"].(map[string]interface{})
	mutants := file["mutants"].([]interface{})
	assert.Len(t, mutants, 2)
}

func TestRenderSonarQubeOnlyListsSurvivors(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, RenderSonarQube(&buf, sampleScore()))

	var out struct {
		Issues []map[string]interface{} `json:"issues"`
	}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &out))
	assert.Len(t, out.Issues, 1)
}

func TestWriteAllFormatsToOutDir(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, Write(sampleScore(), []string{"all"}, dir))

	for _, name := range []string{"report.html", "report.json", "mutation-report-stryker.json", "sonarqube-generic-issues.json"} {
		_, err := os.Stat(filepath.Join(dir, name))
		assert.NoError(t, err, "expected %s to exist", name)
	}
}
