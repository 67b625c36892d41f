// Package aggregate implements the thread-safe result accumulator and
// MutationScore computation spec.md §4.8 describes.
package aggregate

import (
	"sort"
	"sync"

	"github.com/gremlins-go/gremlins/internal/model"
)

// FileBreakdown is the per-source-path count summary.
type FileBreakdown struct {
	Path       string
	Total      int
	Zapped     int
	Survived   int
	Timeout    int
	Error      int
	Percentage float64
}

// MutationScore is the final, ordered report of one run.
type MutationScore struct {
	Total      int
	Zapped     int
	Survived   int
	Timeout    int
	Error      int
	Percentage float64
	Results    []model.Result
	ByFile     []FileBreakdown
	Survivors  []model.Gremlin
	// Gremlins indexes every recorded gremlin by id, for presentation
	// layers (internal/report) that need a result's location/operator
	// alongside its status and not just the subset that survived.
	Gremlins map[string]model.Gremlin
}

// Aggregator collects results as they arrive from the worker pool (or the
// cache) and is safe for concurrent use by multiple reporting goroutines,
// per spec.md §4.7's "aggregator is the only consumer" contract.
type Aggregator struct {
	mu       sync.Mutex
	results  map[string]model.Result
	gremlins map[string]model.Gremlin
}

// New returns an empty Aggregator.
func New() *Aggregator {
	return &Aggregator{
		results:  make(map[string]model.Result),
		gremlins: make(map[string]model.Gremlin),
	}
}

// Record stores g's result, keyed by gremlin id. A later Record for the same
// id overwrites the earlier one (re-running a gremlin replaces its outcome).
func (a *Aggregator) Record(g model.Gremlin, res model.Result) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.gremlins[g.ID] = g
	a.results[g.ID] = res
}

// Score computes the final MutationScore over every recorded result,
// ordered by gremlin id per spec.md §4.8.
func (a *Aggregator) Score() MutationScore {
	a.mu.Lock()
	defer a.mu.Unlock()

	ids := make([]string, 0, len(a.results))
	for id := range a.results {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	score := MutationScore{
		Results:  make([]model.Result, 0, len(ids)),
		Gremlins: make(map[string]model.Gremlin, len(ids)),
	}
	byFile := make(map[string]*FileBreakdown)

	for _, id := range ids {
		res := a.results[id]
		g := a.gremlins[id]
		score.Results = append(score.Results, res)
		score.Gremlins[id] = g
		score.Total++

		fb, ok := byFile[g.Path]
		if !ok {
			fb = &FileBreakdown{Path: g.Path}
			byFile[g.Path] = fb
		}
		fb.Total++

		switch res.Status {
		case model.StatusZapped:
			score.Zapped++
			fb.Zapped++
		case model.StatusSurvived:
			score.Survived++
			fb.Survived++
			score.Survivors = append(score.Survivors, g)
		case model.StatusTimeout:
			score.Timeout++
			fb.Timeout++
		case model.StatusError:
			score.Error++
			fb.Error++
		}
	}

	score.Percentage = percentage(score.Zapped, score.Timeout, score.Total)

	paths := make([]string, 0, len(byFile))
	for path := range byFile {
		paths = append(paths, path)
	}
	sort.Strings(paths)
	for _, path := range paths {
		fb := byFile[path]
		fb.Percentage = percentage(fb.Zapped, fb.Timeout, fb.Total)
		score.ByFile = append(score.ByFile, *fb)
	}

	sort.Slice(score.Survivors, func(i, j int) bool {
		si, sj := score.Survivors[i], score.Survivors[j]
		if si.Severity() != sj.Severity() {
			return si.Severity() < sj.Severity()
		}
		if si.Path != sj.Path {
			return si.Path < sj.Path
		}
		return si.Line < sj.Line
	})

	return score
}

// percentage implements spec.md §4.8's detection-rate formula: timeouts
// count toward detection because they indicate observable behavioural
// change, same as a killed test.
func percentage(zapped, timeout, total int) float64 {
	if total == 0 {
		return 0
	}
	return float64(zapped+timeout) / float64(total) * 100
}
