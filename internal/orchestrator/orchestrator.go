package orchestrator

import (
	"context"
	"fmt"
	"path/filepath"
	"runtime"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/gremlins-go/gremlins/internal/aggregate"
	"github.com/gremlins-go/gremlins/internal/cache"
	"github.com/gremlins-go/gremlins/internal/config"
	"github.com/gremlins-go/gremlins/internal/discover"
	"github.com/gremlins-go/gremlins/internal/hashing"
	"github.com/gremlins-go/gremlins/internal/instrument"
	"github.com/gremlins-go/gremlins/internal/logging"
	"github.com/gremlins-go/gremlins/internal/model"
	"github.com/gremlins-go/gremlins/internal/operators"
	"github.com/gremlins-go/gremlins/internal/testrunner"
	"github.com/gremlins-go/gremlins/internal/worker"
)

// Orchestrator drives the full discover -> hash -> coverage -> instrument ->
// select -> run -> flush -> aggregate pipeline (spec.md §4.9) against one
// module root.
type Orchestrator struct {
	cfg  *config.RunConfig
	root string

	// OnGremlin, if set, is called once with worker.StateQueued after the
	// cache probe (done then counts uncovered gremlins and cache hits) and
	// again each time a dispatched work item changes worker.ItemState, for a
	// live progress display (cmd/gremlins/tui) to track without polling.
	OnGremlin func(total int, done int, state worker.ItemState)
}

// New returns an Orchestrator for the module rooted at root, configured by
// cfg. root must be an absolute path to the module's go.mod directory.
func New(cfg *config.RunConfig, root string) *Orchestrator {
	return &Orchestrator{cfg: cfg, root: root}
}

// Run executes one complete mutation testing pass and returns the resulting
// score. It returns an error when coverage collection fails, and also when
// discovery, test-name parsing, timeout parsing, instrumentation or staging
// of the scratch module fails. Failures of a single gremlin's run degrade
// that gremlin to StatusError; unreadable files and cache failures are
// logged and skipped.
func (o *Orchestrator) Run(ctx context.Context) (*aggregate.MutationScore, error) {
	runID := uuid.NewString()
	audit := logging.AuditWithRun(runID)
	audit.RunStart(o.cfg.Targets)
	timer := logging.StartTimer(logging.CategoryOrchestrator, "run "+runID)
	logging.Orchestrator("run %s starting, targets=%v", runID, o.cfg.Targets)

	disc := discover.New(o.cfg.Excludes)
	sources, err := disc.Sources(ctx, o.cfg.Targets)
	if err != nil {
		audit.Error("discover.Sources", err)
		return nil, fmt.Errorf("orchestrator: discover sources: %w", err)
	}
	tests, err := disc.Tests(ctx, o.cfg.Targets)
	if err != nil {
		audit.Error("discover.Tests", err)
		return nil, fmt.Errorf("orchestrator: discover tests: %w", err)
	}
	logging.Orchestrator("discovered %d sources, %d test files", len(sources), len(tests))

	sourceHashes, sourceWarnings := hashing.HashFiles(sources)
	warnUnhashed(runID, "sources", sourceWarnings)
	testHashes, testWarnings := hashing.HashFiles(tests)
	warnUnhashed(runID, "tests", testWarnings)

	testFilesByName, err := discover.TestNames(tests)
	if err != nil {
		audit.Error("discover.TestNames", err)
		return nil, fmt.Errorf("orchestrator: enumerate test names: %w", err)
	}
	names := discover.SortedNames(testFilesByName)

	coverageTimeout, err := o.cfg.CoverageTimeout()
	if err != nil {
		return nil, fmt.Errorf("orchestrator: coverage timeout: %w", err)
	}
	hostRunner := testrunner.New(o.root, coverageTimeout)
	cov := model.NewCoverageMap()

	audit.CoverageStart(len(names))
	coverageStart := time.Now()
	covErr := hostRunner.CollectCoverage(ctx, names, cov)
	audit.CoverageComplete(time.Since(coverageStart).Milliseconds(), covErr == nil, errMsg(covErr))
	if covErr != nil {
		logging.CoverageError("coverage collection failed: %v", covErr)
		return nil, fmt.Errorf("orchestrator: coverage collection: %w", covErr)
	}
	logging.Coverage("coverage collected for %d tests", len(names))

	registry := operators.NewRegistry()
	instrumenter := instrument.New(registry, o.cfg.Operators)
	modules, catalogue, err := instrumenter.Run(sources)
	if err != nil {
		audit.Error("instrument.Run", err)
		return nil, fmt.Errorf("orchestrator: instrument: %w", err)
	}
	for _, w := range instrumenter.Warnings {
		logging.InstrumentWarn("%s", w)
	}
	logging.Instrument("catalogue has %d gremlins across %d files", len(catalogue.Gremlins), len(modules))

	scratchDir := filepath.Join(o.cfg.CacheDir, "instrumented", runID)
	if err := copyModule(o.root, scratchDir, o.cfg.Excludes); err != nil {
		audit.Error("copyModule", err)
		return nil, fmt.Errorf("orchestrator: stage scratch module: %w", err)
	}
	if err := instrument.WriteScratch(scratchDir, o.root, modules); err != nil {
		audit.Error("instrument.WriteScratch", err)
		return nil, fmt.Errorf("orchestrator: write instrumented sources: %w", err)
	}

	store, err := cache.Open(filepath.Join(o.cfg.CacheDir, "results.db"))
	if err != nil {
		logging.CacheWarn("cache open failed, proceeding uncached: %v", err)
		store = nil
	} else {
		defer store.Close()
	}

	agg := aggregate.New()
	var items []worker.WorkItem
	uncovered := 0
	for _, g := range catalogue.Gremlins {
		coveringTests := cov.SelectTests(g.Path, g.Line)
		if len(coveringTests) == 0 {
			// No test executes this line: the gremlin survives without a run.
			agg.Record(g, model.Result{GremlinID: g.ID, Status: model.StatusSurvived})
			uncovered++
			continue
		}
		testFiles := filesFor(coveringTests, testFilesByName)
		combinedHash := hashing.CombinedTestHash(testHashes, testFiles)
		key := model.CacheKey(g.ID, sourceHashes[g.Path], combinedHash)

		if store != nil {
			if res, ok := store.Get(key); ok {
				audit.CacheProbe(g.ID, true)
				agg.Record(g, res)
				continue
			}
		}
		audit.CacheProbe(g.ID, false)
		items = append(items, worker.WorkItem{Gremlin: g, TestIDs: coveringTests, CacheKey: key})
	}
	cacheHits := len(catalogue.Gremlins) - len(items) - uncovered
	logging.Orchestrator("%d gremlins uncovered, %d resolved from cache, %d to run", uncovered, cacheHits, len(items))

	total := len(catalogue.Gremlins)
	var doneMu sync.Mutex
	done := cacheHits + uncovered
	if o.OnGremlin != nil {
		o.OnGremlin(total, done, worker.StateQueued)
	}

	perGremlinTimeout, err := o.cfg.PerGremlinTimeout()
	if err != nil {
		return nil, fmt.Errorf("orchestrator: per-gremlin timeout: %w", err)
	}
	scratchRunner := testrunner.New(scratchDir, perGremlinTimeout)
	pool := worker.New(workerCount(o.cfg), scratchRunner)
	pool.Batch = o.cfg.Workers.Batch
	if o.cfg.Workers.BatchSize > 0 {
		pool.BatchSize = o.cfg.Workers.BatchSize
	}
	workerLog := logging.WithRequestID(logging.CategoryWorker, runID)
	pool.OnProgress = func(item worker.WorkItem, state worker.ItemState) {
		workerLog.WithField("gremlin", item.Gremlin.ID).Debug("-> %s", state)
		if o.OnGremlin == nil {
			return
		}
		if state != worker.StateReported {
			o.OnGremlin(total, doneSnapshot(&doneMu, &done, 0), state)
			return
		}
		o.OnGremlin(total, doneSnapshot(&doneMu, &done, 1), state)
	}

	var buckets [][]worker.WorkItem
	if o.cfg.Workers.Distribution == "weighted" {
		buckets = pool.Weighted(items)
	} else {
		buckets = pool.RoundRobin(items)
	}
	if o.cfg.Workers.Batch {
		logBatchPlan(buckets, pool.BatchSize)
	}

	outcomes := pool.Run(ctx, buckets)

	newResults := make(map[string]model.Result, len(outcomes))
	for _, oc := range outcomes {
		res := model.Result{
			GremlinID:   oc.Item.Gremlin.ID,
			Status:      oc.Result.Status,
			KillingTest: oc.Result.KillingTest,
			Duration:    int64(oc.Result.Duration),
		}
		agg.Record(oc.Item.Gremlin, res)
		newResults[oc.Item.CacheKey] = res
		audit.GremlinResult(res.GremlinID, string(res.Status), int64(oc.Result.Duration/time.Millisecond))
	}

	if store != nil && len(newResults) > 0 {
		if err := store.PutBatch(newResults); err != nil {
			logging.CacheWarn("flush failed, retrying once: %v", err)
			if err := store.PutBatch(newResults); err != nil {
				logging.CacheWarn("flush retry failed, proceeding uncached: %v", err)
			}
		}
	}

	score := agg.Score()
	audit.RunComplete(score.Total, score.Zapped, score.Percentage, timer.Stop().Milliseconds())
	logging.Orchestrator("run %s complete: %.1f%% (%d/%d)", runID, score.Percentage, score.Zapped, score.Total)

	return &score, nil
}

func filesFor(testNames []string, byName map[string]string) []string {
	var out []string
	for _, n := range testNames {
		if f, ok := byName[n]; ok {
			out = append(out, f)
		}
	}
	return out
}

func workerCount(cfg *config.RunConfig) int {
	if !cfg.Workers.Parallel {
		return 1
	}
	if cfg.Workers.Count > 0 {
		return cfg.Workers.Count
	}
	return runtime.NumCPU()
}

func logBatchPlan(buckets [][]worker.WorkItem, batchSize int) {
	for w, bucket := range buckets {
		batches := worker.Batches(bucket, batchSize)
		logging.WorkerDebug("worker %d: %d items in %d batches", w, len(bucket), len(batches))
	}
}

// doneSnapshot adds delta to *done under mu and returns the new value, the
// simplest thread-safe counter for OnGremlin callbacks fired concurrently
// from multiple worker-pool goroutines.
func doneSnapshot(mu *sync.Mutex, done *int, delta int) int {
	mu.Lock()
	defer mu.Unlock()
	*done += delta
	return *done
}

// warnUnhashed logs one warning per file hashing.HashFiles couldn't read,
// tagged with the run id and which pass (sources/tests) hit it, via
// ContextLogger, which appends those fields to the text line as "ctx=...".
func warnUnhashed(runID, pass string, warnings []string) {
	if len(warnings) == 0 {
		return
	}
	ctxLogger := logging.Get(logging.CategoryHash).WithContext(map[string]interface{}{
		"run":  runID,
		"pass": pass,
	})
	for _, w := range warnings {
		ctxLogger.Warn("%s", w)
	}
}

func errMsg(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}
