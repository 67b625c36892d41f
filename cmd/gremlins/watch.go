package main

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/gremlins-go/gremlins/internal/config"
	"github.com/gremlins-go/gremlins/internal/discover"
	"github.com/gremlins-go/gremlins/internal/report"
)

const watchDebounce = 500 * time.Millisecond

// watchCmd is SPEC_FULL.md's SUPPLEMENTED FEATURES watch mode: re-run the
// pipeline whenever a .go file under a configured target changes, reusing
// the incremental cache so only the gremlins touched by the edit actually
// re-execute their covering tests.
var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Re-run the pipeline whenever source or test files change",
	RunE:  runWatch,
}

func runWatch(cmd *cobra.Command, args []string) error {
	cfg, err := loadRunConfig()
	if err != nil {
		return &ExitError{Code: 1, Err: err}
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return &ExitError{Code: 1, Err: fmt.Errorf("start watcher: %w", err)}
	}
	defer watcher.Close()

	if err := addWatchDirs(watcher, cfg.Targets, cfg.Excludes); err != nil {
		return &ExitError{Code: 1, Err: err}
	}

	fmt.Fprintf(cmd.OutOrStdout(), "watching %v for changes (ctrl-c to stop)\n", cfg.Targets)
	if err := runWatchIteration(cmd.Context(), cfg); err != nil {
		logger.Warn("initial run failed", zap.Error(err))
	}

	ctx := cmd.Context()
	var debounce <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			return nil
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warn("watcher error", zap.Error(err))
		case ev, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !relevantEvent(ev) {
				continue
			}
			debounce = time.After(watchDebounce)
		case <-debounce:
			debounce = nil
			fmt.Fprintln(cmd.OutOrStdout(), "change detected, re-running...")
			if err := runWatchIteration(ctx, cfg); err != nil {
				logger.Warn("watch run failed", zap.Error(err))
			}
		}
	}
}

func relevantEvent(ev fsnotify.Event) bool {
	if !strings.HasSuffix(ev.Name, ".go") {
		return false
	}
	return ev.Has(fsnotify.Write) || ev.Has(fsnotify.Create) || ev.Has(fsnotify.Remove) || ev.Has(fsnotify.Rename)
}

func runWatchIteration(ctx context.Context, cfg *config.RunConfig) error {
	score, err := runPipeline(ctx, cfg, false)
	if err != nil {
		return err
	}
	if err := report.Write(score, cfg.Report.Formats, cfg.Report.OutDir); err != nil {
		logger.Warn("report rendering failed", zap.Error(err))
	}
	return nil
}

// addWatchDirs registers the directory of every source file that
// discover.Discoverer finds under the target roots, so watch mode and the
// pipeline agree on what counts as in-scope. A directory that holds no
// discovered source file (for example, only test files) is not watched.
func addWatchDirs(watcher *fsnotify.Watcher, targets, excludes []string) error {
	disc := discover.New(excludes)
	sources, err := disc.Sources(context.Background(), targets)
	if err != nil {
		return fmt.Errorf("enumerate sources to watch: %w", err)
	}
	seen := make(map[string]bool)
	for _, src := range sources {
		dir := filepath.Dir(src)
		if seen[dir] {
			continue
		}
		seen[dir] = true
		if err := watcher.Add(dir); err != nil {
			logger.Warn("watch directory failed", zap.String("dir", dir), zap.Error(err))
		}
	}
	return nil
}
