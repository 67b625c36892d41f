package main

// ExitError carries a specific process exit code out of a cobra RunE,
// matching spec.md §6's three-way exit contract: 0 success, 1 pipeline
// failure, 2 score below the configured minimum. Ordinary errors (build
// failures, bad flags) fall through cobra's default path and exit 1.
type ExitError struct {
	Code int
	Err  error
}

func (e *ExitError) Error() string { return e.Err.Error() }
func (e *ExitError) Unwrap() error { return e.Err }
