// Package testrunner adapts the host test runner (go test) to the protocol
// spec.md §6 requires: run an ordered, filtered set of tests, fail fast,
// report exit status and the first failing test id; separately, run in a
// coverage-enabled mode that yields a (path, line) -> executed enumerable.
// This is explicitly "out of scope" core logic per spec.md §1 (an external
// collaborator the core invokes as an opaque subprocess) but gremlins still
// needs one concrete adapter to drive against.
package testrunner

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/gremlins-go/gremlins/internal/model"
	"github.com/gremlins-go/gremlins/internal/procexec"
)

// goTestEvent mirrors the subset of `go test -json` event fields this
// adapter needs.
type goTestEvent struct {
	Action string
	Test   string
}

// RunResult is the outcome of one RunSelected invocation, already mapped to
// spec.md §4.7's status vocabulary.
type RunResult struct {
	Status      model.Status
	KillingTest string
	Duration    time.Duration
}

// Runner drives `go test` as the host test runner, per spec.md §6's
// host-test-runner contract.
type Runner struct {
	exec    *procexec.Runner
	pkgDir  string
	timeout time.Duration
}

// New returns a Runner rooted at pkgDir (the module/package directory the
// `go test` invocation runs against) with the given default timeout
// (spec.md §4.7 default 30s).
func New(pkgDir string, timeout time.Duration) *Runner {
	return &Runner{
		exec:    procexec.NewRunner(timeout),
		pkgDir:  pkgDir,
		timeout: timeout,
	}
}

// RunSelected sets ACTIVE_GREMLIN to gremlinID and runs exactly the named
// tests, stopping at the first failure (spec.md §4.5 "stops on the first
// failure"). testIDs may be empty, in which case the gremlin is never
// invoked by the caller (spec.md §4.5's uncovered-gremlin short-circuit is
// the caller's responsibility, not this adapter's).
func (r *Runner) RunSelected(ctx context.Context, gremlinID string, testIDs []string) RunResult {
	args := []string{"test", "-json", "-failfast", "-run", runRegexp(testIDs), r.pkgDir}

	res := r.exec.Run(ctx, procexec.Command{
		Binary:      "go",
		Arguments:   args,
		Environment: []string{"ACTIVE_GREMLIN=" + gremlinID},
		Timeout:     r.timeout,
	})

	if res.Killed {
		return RunResult{Status: model.StatusTimeout, Duration: res.Duration}
	}
	if res.Err != nil {
		return RunResult{Status: model.StatusError, Duration: res.Duration}
	}

	killer := firstFailingTest(res.Stdout)
	if killer != "" {
		return RunResult{Status: model.StatusZapped, KillingTest: killer, Duration: res.Duration}
	}
	if res.ExitCode != 0 {
		// Non-zero exit with no identifiable failing test: build/panic-level
		// failure, not a test assertion we can attribute. Treat as error
		// per spec.md §7's "test-runner subprocess crash" policy.
		return RunResult{Status: model.StatusError, Duration: res.Duration}
	}
	return RunResult{Status: model.StatusSurvived, Duration: res.Duration}
}

// CompileBinary builds one test binary for r.pkgDir with `go test -c`, so a
// batch of gremlins sharing the same instrumented sources (gremlinrt.Active
// selects among them at runtime, not at compile time) can be exercised by
// repeated direct invocation of the same binary instead of a fresh `go test`
// build per gremlin. Caller is responsible for removing the returned path.
func (r *Runner) CompileBinary(ctx context.Context) (string, error) {
	out, err := os.CreateTemp("", "gremlins-batch-*.test")
	if err != nil {
		return "", fmt.Errorf("testrunner: create batch binary: %w", err)
	}
	binPath := out.Name()
	out.Close()

	res := r.exec.Run(ctx, procexec.Command{
		Binary:    "go",
		Arguments: []string{"test", "-c", "-o", binPath, r.pkgDir},
		Timeout:   r.timeout,
	})
	if res.Err != nil || res.ExitCode != 0 {
		os.Remove(binPath)
		return "", fmt.Errorf("testrunner: compile batch binary: exit=%d err=%v stderr=%s", res.ExitCode, res.Err, res.Stderr)
	}
	return binPath, nil
}

// RunCompiled is RunSelected against a binary already built by
// CompileBinary: it skips the `go test` build step and instead execs the
// binary's own `-test.run`/`-test.v` flags directly, then converts the
// verbose text output to the same event stream `go test -json` produces via
// `go tool test2json`, so firstFailingTest needs no separate parser for the
// batch path.
func (r *Runner) RunCompiled(ctx context.Context, binaryPath, gremlinID string, testIDs []string) RunResult {
	start := time.Now()
	raw := r.exec.Run(ctx, procexec.Command{
		Binary:      binaryPath,
		Arguments:   []string{"-test.run=" + runRegexp(testIDs), "-test.v=true", "-test.failfast"},
		Environment: []string{"ACTIVE_GREMLIN=" + gremlinID},
		Timeout:     r.timeout,
	})
	if raw.Killed {
		return RunResult{Status: model.StatusTimeout, Duration: raw.Duration}
	}
	if raw.Err != nil {
		return RunResult{Status: model.StatusError, Duration: raw.Duration}
	}

	converted := r.exec.Run(ctx, procexec.Command{
		Binary:    "go",
		Arguments: []string{"tool", "test2json", "-t"},
		Stdin:     raw.Stdout,
		Timeout:   r.timeout,
	})
	duration := time.Since(start)

	killer := firstFailingTest(converted.Stdout)
	if killer != "" {
		return RunResult{Status: model.StatusZapped, KillingTest: killer, Duration: duration}
	}
	if raw.ExitCode != 0 {
		return RunResult{Status: model.StatusError, Duration: duration}
	}
	return RunResult{Status: model.StatusSurvived, Duration: duration}
}

// firstFailingTest scans `go test -json` output for the first "fail" action
// naming a specific test, matching spec.md §4.7's killing-test extraction.
func firstFailingTest(jsonOutput string) string {
	scanner := bufio.NewScanner(strings.NewReader(jsonOutput))
	for scanner.Scan() {
		var ev goTestEvent
		if err := json.Unmarshal(scanner.Bytes(), &ev); err != nil {
			continue
		}
		if ev.Action == "fail" && ev.Test != "" {
			return ev.Test
		}
	}
	return ""
}

// runRegexp builds the `-run` filter regexp selecting exactly testIDs, or
// a never-matching pattern if testIDs is empty.
func runRegexp(testIDs []string) string {
	if len(testIDs) == 0 {
		return "^$"
	}
	escaped := make([]string, len(testIDs))
	for i, id := range testIDs {
		escaped[i] = "^" + id + "$"
	}
	return strings.Join(escaped, "|")
}

// ErrNoTestBinary is a sentinel for a package with no test files at all.
// Neither this package nor internal/worker or internal/orchestrator
// returns or checks it.
var ErrNoTestBinary = fmt.Errorf("testrunner: package has no tests")
