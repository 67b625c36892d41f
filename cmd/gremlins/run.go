package main

import (
	"context"
	"fmt"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/gremlins-go/gremlins/internal/aggregate"
	"github.com/gremlins-go/gremlins/internal/cache"
	"github.com/gremlins-go/gremlins/internal/config"
	"github.com/gremlins-go/gremlins/internal/orchestrator"
	"github.com/gremlins-go/gremlins/internal/report"
	"github.com/gremlins-go/gremlins/internal/worker"

	"github.com/gremlins-go/gremlins/cmd/gremlins/tui"
)

// Config keys bound to viper, shared with watch.go's rerun path.
const (
	keyEnabled    = "gremlins"
	keyTargets    = "gremlin-targets"
	keyOperators  = "gremlin-operators"
	keyReport     = "gremlin-report"
	keyCache      = "gremlin-cache"
	keyClearCache = "gremlin-clear-cache"
	keyParallel   = "gremlin-parallel"
	keyWorkers    = "gremlin-workers"
	keyBatch      = "gremlin-batch"
	keyBatchSize  = "gremlin-batch-size"
	keyMinScore   = "gremlin-min-score"
	keyTUI        = "gremlin-tui"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run one mutation-testing pass",
	Long: `Discovers sources and tests under the configured targets, instruments
every mutation point, runs the covering subset of tests against each one,
and reports the resulting mutation score.`,
	RunE: runRun,
}

func init() {
	flags := runCmd.Flags()
	flags.Bool("gremlins", true, "enable the mutation-testing pipeline")
	flags.StringSlice("gremlin-targets", nil, "comma-separated source roots (default: config or '.')")
	flags.StringSlice("gremlin-operators", nil, "comma-separated operator subset (default: all)")
	flags.StringSlice("gremlin-report", nil, "report format(s): console, html, json, stryker, sonarqube, all")
	flags.Bool("gremlin-cache", true, "enable the incremental result cache")
	flags.Bool("gremlin-clear-cache", false, "clear the result cache before running")
	flags.Bool("gremlin-parallel", true, "run the worker pool with more than one worker")
	flags.Int("gremlin-workers", 0, "worker count (default: number of logical CPUs)")
	flags.Bool("gremlin-batch", true, "batch gremlins sharing test-file context per worker")
	flags.Int("gremlin-batch-size", 0, "gremlins per batch (default: config or 10)")
	flags.Float64("gremlin-min-score", -1, "minimum acceptable mutation score percentage; exit 2 below it")
	flags.Bool("gremlin-tui", false, "show a live progress bar while gremlins run")

	for _, key := range []string{keyEnabled, keyTargets, keyOperators, keyReport, keyCache, keyClearCache, keyParallel, keyWorkers, keyBatch, keyBatchSize, keyMinScore, keyTUI} {
		bindFlagToConfig(flags.Lookup(key), key)
	}
}

func loadRunConfig() (*config.RunConfig, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	applyFlagOverrides(cfg)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// applyFlagOverrides layers viper-bound CLI flags (themselves already
// layered over GREMLINS_-prefixed env and the YAML config file by
// spf13/viper) on top of the config.Load result, the outermost tier of the
// priority chain spec.md §6's "Configuration source" describes.
func applyFlagOverrides(cfg *config.RunConfig) {
	if v := viper.GetStringSlice(keyTargets); len(v) > 0 {
		cfg.Targets = v
	}
	if v := viper.GetStringSlice(keyOperators); len(v) > 0 {
		cfg.Operators = v
	}
	if v := viper.GetStringSlice(keyReport); len(v) > 0 {
		cfg.Report.Formats = v
	}
	if viper.IsSet(keyParallel) {
		cfg.Workers.Parallel = viper.GetBool(keyParallel)
	}
	if v := viper.GetInt(keyWorkers); v > 0 {
		cfg.Workers.Count = v
	}
	if viper.IsSet(keyBatch) {
		cfg.Workers.Batch = viper.GetBool(keyBatch)
	}
	if v := viper.GetInt(keyBatchSize); v > 0 {
		cfg.Workers.BatchSize = v
	}
	if v := viper.GetFloat64(keyMinScore); v >= 0 {
		cfg.MinScore = v
	}
}

func runRun(cmd *cobra.Command, args []string) error {
	if !viper.GetBool(keyEnabled) {
		fmt.Fprintln(cmd.OutOrStdout(), "gremlins: pipeline disabled (--gremlins=false)")
		return nil
	}

	cfg, err := loadRunConfig()
	if err != nil {
		return &ExitError{Code: 1, Err: err}
	}

	if viper.GetBool(keyClearCache) {
		if err := clearCacheAt(cfg.CacheDir); err != nil {
			logger.Warn("cache clear failed", zap.Error(err))
		}
	}
	if !viper.GetBool(keyCache) {
		cfg.CacheDir = ""
	}

	score, err := runPipeline(cmd.Context(), cfg, viper.GetBool(keyTUI))
	if err != nil {
		return &ExitError{Code: 1, Err: err}
	}

	if err := report.Write(score, cfg.Report.Formats, cfg.Report.OutDir); err != nil {
		logger.Warn("report rendering failed", zap.Error(err))
	}

	if cfg.MinScore > 0 && score.Percentage < cfg.MinScore {
		return &ExitError{Code: 2, Err: fmt.Errorf(
			"mutation score %.1f%% is below the configured minimum %.1f%%", score.Percentage, cfg.MinScore)}
	}
	return nil
}

func runPipeline(ctx context.Context, cfg *config.RunConfig, withTUI bool) (*aggregate.MutationScore, error) {
	orch := orchestrator.New(cfg, workspace)

	var program *tea.Program
	if withTUI {
		program = tea.NewProgram(tui.New())
		orch.OnGremlin = func(total, done int, state worker.ItemState) {
			program.Send(tui.Update{Total: total, Done: done, State: string(state)})
		}
		go func() {
			if _, err := program.Run(); err != nil {
				logger.Warn("tui exited with error", zap.Error(err))
			}
		}()
	}

	start := time.Now()
	score, err := orch.Run(ctx)
	if program != nil {
		program.Send(tui.Done{})
	}
	if err != nil {
		return nil, err
	}
	logger.Info("run complete",
		zap.Float64("percentage", score.Percentage),
		zap.Int("zapped", score.Zapped),
		zap.Int("total", score.Total),
		zap.Duration("elapsed", time.Since(start)),
	)
	return score, nil
}

func clearCacheAt(cacheDir string) error {
	if cacheDir == "" {
		return nil
	}
	path := cacheDir + string(os.PathSeparator) + "results.db"
	store, err := cache.Open(path)
	if err != nil {
		return err
	}
	defer store.Close()
	return store.Clear()
}
