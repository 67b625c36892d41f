// Package model holds the shared data types that flow through the gremlins
// pipeline: sources, gremlins, coverage, results and scores. Nothing in this
// package does I/O; it is pure data plus the small invariant-preserving
// helpers attached to it.
package model

import "sort"

// Status is the terminal outcome of running a single gremlin.
type Status string

const (
	StatusZapped   Status = "zapped"
	StatusSurvived Status = "survived"
	StatusTimeout  Status = "timeout"
	StatusError    Status = "error"
)

// Source is a named source location plus its content hash. The parsed tree
// lives alongside it only transiently during instrumentation (see
// internal/instrument) and is not retained here.
type Source struct {
	Path string
	Hash string
	Text []byte
}

// MutationPoint is a syntax-tree node that at least one operator can mutate.
type MutationPoint struct {
	Path   string
	Line   int
	Column int
	// Variants enumerates every (operator name, variant index) pair that
	// applies to this node, in operator-priority order.
	Variants []VariantRef
}

// VariantRef names one operator's one alternative for a mutation point.
type VariantRef struct {
	Operator string
	Index    int
}

// Gremlin is one specific, id-bearing mutation.
type Gremlin struct {
	ID          string
	Path        string
	Line        int
	Operator    string
	Description string
}

// Severity ranks a gremlin's operator for "top survivors" ordering.
// Lower rank sorts first (more severe).
func (g Gremlin) Severity() int {
	switch g.Operator {
	case "comparison":
		return 0
	case "boolean":
		return 1
	case "boundary":
		return 2
	case "return":
		return 3
	case "arithmetic":
		return 4
	default:
		return 5
	}
}

// CoverageMap is the location -> covering-test-ids index built from a single
// coverage-instrumented pass of the test suite.
type CoverageMap struct {
	byLocation map[Location]map[string]struct{}
	// testFootprint is the total count of (path, line) pairs each test
	// covers; used for specificity ordering (lower = more specific).
	testFootprint map[string]int
}

// Location is a (path, line) pair.
type Location struct {
	Path string
	Line int
}

// NewCoverageMap returns an empty map ready for Add calls.
func NewCoverageMap() *CoverageMap {
	return &CoverageMap{
		byLocation:    make(map[Location]map[string]struct{}),
		testFootprint: make(map[string]int),
	}
}

// Add records that test covers (path, line).
func (c *CoverageMap) Add(path string, line int, test string) {
	loc := Location{Path: path, Line: line}
	set, ok := c.byLocation[loc]
	if !ok {
		set = make(map[string]struct{})
		c.byLocation[loc] = set
	}
	if _, seen := set[test]; !seen {
		set[test] = struct{}{}
		c.testFootprint[test]++
	}
}

// TestsCovering returns the tests that execute (path, line), or nil if none.
func (c *CoverageMap) TestsCovering(path string, line int) []string {
	set, ok := c.byLocation[Location{Path: path, Line: line}]
	if !ok {
		return nil
	}
	out := make([]string, 0, len(set))
	for t := range set {
		out = append(out, t)
	}
	return out
}

// Specificity returns a test's total covered-line count. A test with no
// coverage data gets 0, the same as a measured test that covers nothing;
// HasTest tells the two apart. A test with no coverage data is not in any
// location's TestsCovering set, so SelectTests never selects it.
func (c *CoverageMap) Specificity(test string) int {
	return c.testFootprint[test]
}

// HasTest reports whether coverage data exists for the named test.
func (c *CoverageMap) HasTest(test string) bool {
	_, ok := c.testFootprint[test]
	return ok
}

// SelectTests returns the tests selected for a gremlin at (path, line),
// sorted ascending by specificity then lexicographically by test id.
func (c *CoverageMap) SelectTests(path string, line int) []string {
	tests := c.TestsCovering(path, line)
	sort.Slice(tests, func(i, j int) bool {
		si, sj := c.Specificity(tests[i]), c.Specificity(tests[j])
		if si != sj {
			return si < sj
		}
		return tests[i] < tests[j]
	})
	return tests
}

// Result is the terminal outcome of executing one gremlin.
type Result struct {
	GremlinID  string
	Status     Status
	KillingTest string
	Duration    int64 // nanoseconds
}

// Valid reports whether the result obeys the "killing-test set iff zapped" invariant.
func (r Result) Valid() bool {
	if r.Status == StatusZapped {
		return r.KillingTest != ""
	}
	return r.KillingTest == ""
}

// CacheKey builds the composite cache key for a gremlin result: gremlin id,
// source hash, and the combined hash of its covering test files.
func CacheKey(gremlinID, sourceHash, combinedTestHash string) string {
	return gremlinID + ":" + sourceHash + ":" + combinedTestHash
}
