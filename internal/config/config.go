// Package config loads and validates the gremlins RunConfig: source paths,
// exclusion globs, enabled operators, score threshold, cache location and
// parallelism knobs, per spec.md §6's "Configuration source" contract.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// RunConfig holds the full configuration for one mutation-testing run.
type RunConfig struct {
	// Targets are the source roots to discover gremlins in.
	Targets []string `yaml:"targets"`

	// Excludes are glob patterns, matched against each file's path relative
	// to its target root and against its base name, that are skipped during
	// discovery. A pattern is not matched against intermediate directory
	// names on their own.
	Excludes []string `yaml:"excludes"`

	// Operators is the enabled operator name subset; empty means all.
	Operators []string `yaml:"operators"`

	// MinScore is the minimum acceptable mutation score percentage; a run
	// scoring below it exits 2 per spec.md §6.
	MinScore float64 `yaml:"min_score"`

	// CacheDir is the persisted-state root (spec.md §6's cache-dir layout).
	CacheDir string `yaml:"cache_dir"`

	Workers   WorkersConfig   `yaml:"workers"`
	Report    ReportConfig    `yaml:"report"`
	Logging   LoggingConfig   `yaml:"logging"`
	Timeouts  TimeoutsConfig  `yaml:"timeouts"`
}

// WorkersConfig configures the worker pool (spec.md §4.7).
type WorkersConfig struct {
	Parallel    bool   `yaml:"parallel"`
	Count       int    `yaml:"count"`
	Batch       bool   `yaml:"batch"`
	BatchSize   int    `yaml:"batch_size"`
	Distribution string `yaml:"distribution"` // round_robin | weighted
}

// ReportConfig configures report output (spec.md §6, SUPPLEMENTED FEATURES).
type ReportConfig struct {
	Formats []string `yaml:"formats"` // console, html, json, stryker, sonarqube
	OutDir  string   `yaml:"out_dir"`
}

// TimeoutsConfig configures per-gremlin and coverage-collection timeouts.
type TimeoutsConfig struct {
	PerGremlin string `yaml:"per_gremlin"` // default 30s
	Coverage   string `yaml:"coverage"`    // default 60s
}

// DefaultConfig returns the baseline RunConfig, overridden by file contents
// and environment variables in Load.
func DefaultConfig() *RunConfig {
	return &RunConfig{
		Targets:  []string{"."},
		Excludes: []string{"vendor", "*_test.go", ".git"},
		CacheDir: ".gremlins-cache",
		MinScore: 0,
		Workers: WorkersConfig{
			Parallel:     true,
			Count:        0, // 0 means "number of logical CPUs", resolved by the caller
			Batch:        true,
			BatchSize:    10,
			Distribution: "round_robin",
		},
		Report: ReportConfig{
			Formats: []string{"console"},
			OutDir:  ".gremlins-cache/report",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
			File:   "gremlins.log",
		},
		Timeouts: TimeoutsConfig{
			PerGremlin: "30s",
			Coverage:   "60s",
		},
	}
}

// Load reads a YAML RunConfig at path, falling back to DefaultConfig when
// the file does not exist, then applies environment overrides.
func Load(path string) (*RunConfig, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			cfg.applyEnvOverrides()
			return cfg, nil
		}
		return nil, fmt.Errorf("config: read: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("config: parse: %w", err)
	}

	cfg.applyEnvOverrides()
	return cfg, nil
}

// Save writes cfg as YAML to path, creating parent directories as needed.
func (c *RunConfig) Save(path string) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("config: create directory: %w", err)
		}
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("config: marshal: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("config: write: %w", err)
	}
	return nil
}

// applyEnvOverrides layers GREMLINS_-prefixed environment variables over
// file/default settings, highest priority last.
func (c *RunConfig) applyEnvOverrides() {
	if v := os.Getenv("GREMLINS_CACHE_DIR"); v != "" {
		c.CacheDir = v
	}
	if v := os.Getenv("GREMLINS_MIN_SCORE"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			c.MinScore = f
		}
	}
	if v := os.Getenv("GREMLINS_WORKERS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.Workers.Count = n
		}
	}
	if v := os.Getenv("GREMLINS_OPERATORS"); v != "" {
		c.Operators = strings.Split(v, ",")
	}
	if v := os.Getenv("GREMLINS_REPORT"); v != "" {
		c.Report.Formats = strings.Split(v, ",")
	}
	if v := os.Getenv("GREMLINS_LOG_LEVEL"); v != "" {
		c.Logging.Level = v
	}
}

// Validate checks the configuration for obviously unrunnable settings.
func (c *RunConfig) Validate() error {
	if len(c.Targets) == 0 {
		return fmt.Errorf("config: no targets configured")
	}
	if c.MinScore < 0 || c.MinScore > 100 {
		return fmt.Errorf("config: min_score must be within [0, 100], got %v", c.MinScore)
	}
	if c.Workers.Count < 0 {
		return fmt.Errorf("config: workers.count must be >= 0, got %d", c.Workers.Count)
	}
	if _, err := c.PerGremlinTimeout(); err != nil {
		return fmt.Errorf("config: invalid timeouts.per_gremlin: %w", err)
	}
	if _, err := c.CoverageTimeout(); err != nil {
		return fmt.Errorf("config: invalid timeouts.coverage: %w", err)
	}
	return nil
}

// PerGremlinTimeout parses Timeouts.PerGremlin, defaulting to 30s when unset.
func (c *RunConfig) PerGremlinTimeout() (time.Duration, error) {
	return parseDurationOrDefault(c.Timeouts.PerGremlin, 30*time.Second)
}

// CoverageTimeout parses Timeouts.Coverage, defaulting to 60s when unset.
func (c *RunConfig) CoverageTimeout() (time.Duration, error) {
	return parseDurationOrDefault(c.Timeouts.Coverage, 60*time.Second)
}

func parseDurationOrDefault(s string, fallback time.Duration) (time.Duration, error) {
	if s == "" {
		return fallback, nil
	}
	return time.ParseDuration(s)
}
