package aggregate

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/gremlins-go/gremlins/internal/model"
)

func TestScoreOnEmptyAggregatorIsZero(t *testing.T) {
	a := New()
	s := a.Score()
	assert.Equal(t, 0, s.Total)
	assert.Equal(t, float64(0), s.Percentage)
}

func TestScoreCountsTimeoutsAsDetected(t *testing.T) {
	a := New()
	a.Record(model.Gremlin{ID: "g001", Path: "a.go"}, model.Result{Status: model.StatusZapped, KillingTest: "T"})
	a.Record(model.Gremlin{ID: "g002", Path: "a.go"}, model.Result{Status: model.StatusTimeout})
	a.Record(model.Gremlin{ID: "g003", Path: "a.go"}, model.Result{Status: model.StatusSurvived})
	a.Record(model.Gremlin{ID: "g004", Path: "a.go"}, model.Result{Status: model.StatusError})

	s := a.Score()
	assert.Equal(t, 4, s.Total)
	assert.Equal(t, 50.0, s.Percentage) // (1 zapped + 1 timeout) / 4 * 100
}

func TestScoreOrdersResultsByGremlinID(t *testing.T) {
	a := New()
	a.Record(model.Gremlin{ID: "g002"}, model.Result{GremlinID: "g002", Status: model.StatusSurvived})
	a.Record(model.Gremlin{ID: "g001"}, model.Result{GremlinID: "g001", Status: model.StatusSurvived})

	s := a.Score()
	// Recorded out of order; Score walks ids sorted, so g001 comes first.
	assert.Len(t, s.Results, 2)
	assert.Equal(t, "g001", s.Results[0].GremlinID)
	assert.Equal(t, "g002", s.Results[1].GremlinID)
}

func TestScorePerFileBreakdown(t *testing.T) {
	a := New()
	a.Record(model.Gremlin{ID: "g001", Path: "a.go"}, model.Result{Status: model.StatusZapped, KillingTest: "T"})
	a.Record(model.Gremlin{ID: "g002", Path: "b.go"}, model.Result{Status: model.StatusSurvived})

	s := a.Score()
	assert.Len(t, s.ByFile, 2)
	assert.Equal(t, "a.go", s.ByFile[0].Path)
	assert.Equal(t, 100.0, s.ByFile[0].Percentage)
	assert.Equal(t, "b.go", s.ByFile[1].Path)
	assert.Equal(t, 0.0, s.ByFile[1].Percentage)
}

func TestScoreSurvivorsRankedBySeverityThenLocation(t *testing.T) {
	a := New()
	a.Record(model.Gremlin{ID: "g001", Operator: "arithmetic", Path: "a.go", Line: 10}, model.Result{Status: model.StatusSurvived})
	a.Record(model.Gremlin{ID: "g002", Operator: "comparison", Path: "a.go", Line: 5}, model.Result{Status: model.StatusSurvived})

	s := a.Score()
	assert.Len(t, s.Survivors, 2)
	assert.Equal(t, "comparison", s.Survivors[0].Operator)
	assert.Equal(t, "arithmetic", s.Survivors[1].Operator)
}

func TestRecordOverwritesPriorResult(t *testing.T) {
	a := New()
	g := model.Gremlin{ID: "g001", Path: "a.go"}
	a.Record(g, model.Result{Status: model.StatusSurvived})
	a.Record(g, model.Result{Status: model.StatusZapped, KillingTest: "T"})

	s := a.Score()
	assert.Equal(t, 1, s.Total)
	assert.Equal(t, model.StatusZapped, s.Results[0].Status)
}
