package testrunner

import (
	"bufio"
	"context"
	"os"
	"strconv"
	"strings"

	"github.com/gremlins-go/gremlins/internal/model"
	"github.com/gremlins-go/gremlins/internal/procexec"
)

// CollectCoverage runs the uninstrumented test suite for every test in
// testNames, once per test, in coverage mode, and folds the resulting
// per-test profile into cov. Go's coverage profile is per-run rather than
// per-line-to-test, so per-test isolation via `-run ^name$` is how this
// adapter recovers the (path, line) -> test mapping spec.md §4.5 requires.
// A failed collection is fatal to the whole run per spec.md §7 (the one
// error kind surfaced at run level).
func (r *Runner) CollectCoverage(ctx context.Context, testNames []string, cov *model.CoverageMap) error {
	for _, name := range testNames {
		profile, err := r.collectOne(ctx, name)
		if err != nil {
			return err
		}
		for _, loc := range profile {
			cov.Add(loc.Path, loc.Line, name)
		}
	}
	return nil
}

type location struct {
	Path string
	Line int
}

func (r *Runner) collectOne(ctx context.Context, testName string) ([]location, error) {
	tmp, err := os.CreateTemp("", "gremlins-cover-*.out")
	if err != nil {
		return nil, err
	}
	tmpPath := tmp.Name()
	tmp.Close()
	defer os.Remove(tmpPath)

	res := r.exec.Run(ctx, procexec.Command{
		Binary: "go",
		Arguments: []string{
			"test", "-run", "^" + testName + "$",
			"-covermode=count", "-coverprofile=" + tmpPath,
			r.pkgDir,
		},
		Timeout: r.timeout,
	})
	if res.Err != nil || res.Killed {
		return nil, errCoverageFailed(testName, res)
	}

	data, err := os.ReadFile(tmpPath)
	if err != nil {
		// No statements executed under this test is not an error; an empty
		// or missing profile just means it covers nothing.
		return nil, nil
	}
	return parseProfile(data), nil
}

// parseProfile reads a `go test -coverprofile` file:
//
//	mode: count
//	path/file.go:12.12,14.3 2 1
//
// and returns every (path, line) pair whose statement count is > 0,
// expanding the start..end line range per block.
func parseProfile(data []byte) []location {
	var out []location
	scanner := bufio.NewScanner(strings.NewReader(string(data)))
	for scanner.Scan() {
		line := scanner.Text()
		if line == "" || strings.HasPrefix(line, "mode:") {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) != 3 {
			continue
		}
		count, err := strconv.Atoi(fields[2])
		if err != nil || count == 0 {
			continue
		}

		pathAndRange := fields[0]
		colon := strings.LastIndex(pathAndRange, ":")
		if colon < 0 {
			continue
		}
		path := pathAndRange[:colon]
		rangeSpec := pathAndRange[colon+1:]

		startEnd := strings.Split(rangeSpec, ",")
		if len(startEnd) != 2 {
			continue
		}
		startLine := leadingInt(startEnd[0])
		endLine := leadingInt(startEnd[1])
		if startLine == 0 || endLine == 0 {
			continue
		}
		for l := startLine; l <= endLine; l++ {
			out = append(out, location{Path: path, Line: l})
		}
	}
	return out
}

func leadingInt(s string) int {
	dot := strings.Index(s, ".")
	if dot < 0 {
		dot = len(s)
	}
	n, _ := strconv.Atoi(s[:dot])
	return n
}

func errCoverageFailed(testName string, res procexec.Result) error {
	return &CoverageError{TestName: testName, Err: res.Err}
}

// CoverageError is returned when coverage collection fails for a test;
// callers should treat this as fatal per spec.md §7.
type CoverageError struct {
	TestName string
	Err      error
}

func (e *CoverageError) Error() string {
	return "testrunner: coverage collection failed for " + e.TestName + ": " + errString(e.Err)
}

func errString(err error) string {
	if err == nil {
		return "non-zero exit"
	}
	return err.Error()
}
