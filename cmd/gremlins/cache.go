package main

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/gremlins-go/gremlins/internal/cache"
	"github.com/gremlins-go/gremlins/internal/config"
)

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Inspect or clear the incremental result cache",
}

var cacheClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete every cached mutation result",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(cfgFile)
		if err != nil {
			return &ExitError{Code: 1, Err: err}
		}
		store, err := cache.Open(filepath.Join(cfg.CacheDir, "results.db"))
		if err != nil {
			return &ExitError{Code: 1, Err: fmt.Errorf("open cache: %w", err)}
		}
		defer store.Close()

		n, _ := store.Count()
		if err := store.Clear(); err != nil {
			return &ExitError{Code: 1, Err: fmt.Errorf("clear cache: %w", err)}
		}
		fmt.Fprintf(cmd.OutOrStdout(), "cleared %d cached result(s) from %s\n", n, cfg.CacheDir)
		return nil
	},
}

var cacheInfoCmd = &cobra.Command{
	Use:   "info",
	Short: "Report the number of cached results",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(cfgFile)
		if err != nil {
			return &ExitError{Code: 1, Err: err}
		}
		store, err := cache.Open(filepath.Join(cfg.CacheDir, "results.db"))
		if err != nil {
			return &ExitError{Code: 1, Err: fmt.Errorf("open cache: %w", err)}
		}
		defer store.Close()

		n, err := store.Count()
		if err != nil {
			return &ExitError{Code: 1, Err: err}
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s: %d cached result(s)\n", cfg.CacheDir, n)
		return nil
	},
}

func init() {
	cacheCmd.AddCommand(cacheClearCmd, cacheInfoCmd)
}
