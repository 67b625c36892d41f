// Package worker implements the fixed-size process pool spec.md §4.7
// describes: workers are OS processes (via internal/procexec and
// internal/testrunner), never goroutines racing on shared code-under-test,
// so the only concurrency primitive needed at the Go level is bounding how
// many subprocesses run at once. golang.org/x/sync/errgroup supplies that
// bound the same way the teacher's batch jobs cap goroutine fan-out.
package worker

import (
	"context"
	"os"
	"sort"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/gremlins-go/gremlins/internal/model"
	"github.com/gremlins-go/gremlins/internal/testrunner"
)

// ItemState is a work item's position in the state machine spec.md §4.7
// defines: queued -> dispatched -> running -> terminal -> reported.
type ItemState string

const (
	StateQueued     ItemState = "queued"
	StateDispatched ItemState = "dispatched"
	StateRunning    ItemState = "running"
	StateReported   ItemState = "reported"
)

// WorkItem is one gremlin dispatched to a single worker slot; in batch mode
// a slot's consecutive items are grouped by Batches.
type WorkItem struct {
	Gremlin  model.Gremlin
	TestIDs  []string
	CacheKey string
}

// Outcome pairs a WorkItem with its terminal RunResult.
type Outcome struct {
	Item   WorkItem
	Result testrunner.RunResult
}

// Pool runs WorkItems across W worker slots, each slot a sequential stream
// of `go test` subprocess invocations via a shared *testrunner.Runner.
type Pool struct {
	Parallelism int
	Runner      *testrunner.Runner
	Batch       bool // when true, dispatch groups items through Batches and one compiled binary per group
	BatchSize   int
	OnProgress  func(item WorkItem, state ItemState)
}

// New returns a Pool with parallelism W (spec.md default: number of logical
// CPUs, resolved by the caller) driving runner.
func New(parallelism int, runner *testrunner.Runner) *Pool {
	if parallelism < 1 {
		parallelism = 1
	}
	return &Pool{Parallelism: parallelism, Runner: runner, BatchSize: 10}
}

// RoundRobin assigns items to workers by gremlin[i] -> worker[i mod W],
// per spec.md §4.7's deterministic round-robin distribution strategy.
func (p *Pool) RoundRobin(items []WorkItem) [][]WorkItem {
	buckets := make([][]WorkItem, p.Parallelism)
	for i, item := range items {
		w := i % p.Parallelism
		buckets[w] = append(buckets[w], item)
	}
	return buckets
}

// Weighted sorts items by estimated cost (selected-test count) descending
// and greedily assigns each to the currently least-loaded worker, per
// spec.md §4.7's weighted distribution strategy.
func (p *Pool) Weighted(items []WorkItem) [][]WorkItem {
	sorted := make([]WorkItem, len(items))
	copy(sorted, items)
	sort.SliceStable(sorted, func(i, j int) bool {
		return len(sorted[i].TestIDs) > len(sorted[j].TestIDs)
	})

	buckets := make([][]WorkItem, p.Parallelism)
	load := make([]int, p.Parallelism)
	for _, item := range sorted {
		least := 0
		for w := 1; w < p.Parallelism; w++ {
			if load[w] < load[least] {
				least = w
			}
		}
		buckets[least] = append(buckets[least], item)
		load[least] += len(item.TestIDs)
	}
	return buckets
}

// Run dispatches buckets (one per worker slot) concurrently, running each
// bucket's items sequentially within its slot, one subprocess per item (in
// batch mode each group shares one compiled test binary), and
// returns one Outcome per item in no particular cross-worker order — the
// aggregator (internal/aggregate) re-sorts by gremlin id.
func (p *Pool) Run(ctx context.Context, buckets [][]WorkItem) []Outcome {
	results := make(chan Outcome)
	g, gctx := errgroup.WithContext(ctx)

	for _, bucket := range buckets {
		bucket := bucket
		if len(bucket) == 0 {
			continue
		}
		g.Go(func() error {
			p.runBucket(gctx, bucket, results)
			return nil
		})
	}

	done := make(chan struct{})
	go func() {
		g.Wait()
		close(done)
	}()

	var out []Outcome
	for {
		select {
		case o := <-results:
			out = append(out, o)
		case <-done:
			// Drain anything buffered between the last receive and close.
			for {
				select {
				case o := <-results:
					out = append(out, o)
				default:
					return out
				}
			}
		}
	}
}

func (p *Pool) runBucket(ctx context.Context, bucket []WorkItem, results chan<- Outcome) {
	if p.Batch {
		p.runBucketBatched(ctx, bucket, results)
		return
	}

	for _, item := range bucket {
		p.report(item, StateDispatched)
		if ctx.Err() != nil {
			results <- Outcome{Item: item, Result: testrunner.RunResult{Status: model.StatusError}}
			p.report(item, StateReported)
			continue
		}

		p.report(item, StateRunning)
		start := time.Now()
		res := p.Runner.RunSelected(ctx, item.Gremlin.ID, item.TestIDs)
		if res.Duration == 0 {
			res.Duration = time.Since(start)
		}
		results <- Outcome{Item: item, Result: res}
		p.report(item, StateReported)
	}
}

// runBucketBatched groups bucket into Batches of BatchSize and, for each
// group, compiles the instrumented test binary once and reuses it across
// every item in the group (gremlinrt.Active selects the mutant at runtime,
// so the same binary serves any of them), amortizing `go test`'s build step
// across the whole group instead of paying it per gremlin.
func (p *Pool) runBucketBatched(ctx context.Context, bucket []WorkItem, results chan<- Outcome) {
	for _, batch := range Batches(bucket, p.BatchSize) {
		if ctx.Err() != nil {
			p.failBatch(batch, results)
			continue
		}

		binary, err := p.Runner.CompileBinary(ctx)
		if err != nil {
			p.failBatch(batch, results)
			continue
		}

		for _, item := range batch {
			p.report(item, StateDispatched)
			if ctx.Err() != nil {
				results <- Outcome{Item: item, Result: testrunner.RunResult{Status: model.StatusError}}
				p.report(item, StateReported)
				continue
			}

			p.report(item, StateRunning)
			start := time.Now()
			res := p.Runner.RunCompiled(ctx, binary, item.Gremlin.ID, item.TestIDs)
			if res.Duration == 0 {
				res.Duration = time.Since(start)
			}
			results <- Outcome{Item: item, Result: res}
			p.report(item, StateReported)
		}
		os.Remove(binary)
	}
}

func (p *Pool) failBatch(batch []WorkItem, results chan<- Outcome) {
	for _, item := range batch {
		p.report(item, StateDispatched)
		results <- Outcome{Item: item, Result: testrunner.RunResult{Status: model.StatusError}}
		p.report(item, StateReported)
	}
}

func (p *Pool) report(item WorkItem, state ItemState) {
	if p.OnProgress != nil {
		p.OnProgress(item, state)
	}
}

// Batches groups items into runs of at most size, preserving order, for
// the batch-mode work-item packing spec.md §4.7 describes.
func Batches(items []WorkItem, size int) [][]WorkItem {
	if size < 1 {
		size = 1
	}
	var out [][]WorkItem
	for i := 0; i < len(items); i += size {
		end := i + size
		if end > len(items) {
			end = len(items)
		}
		out = append(out, items[i:end])
	}
	return out
}
