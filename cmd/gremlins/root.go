// Package main is the gremlins CLI driver: the thin presentation layer
// spec.md §1 says sits outside the core (argument parsing, config loading,
// report rendering) wired onto internal/orchestrator. Grounded on the
// teacher's cmd/nerd/main.go cobra root-command skeleton (persistent flags,
// PersistentPreRunE zap setup) and gooze's cmd/root.go viper flag-binding
// helper (bindFlagToConfig), since gooze is itself a Go mutation-testing
// CLI and its flag-to-config wiring maps onto this domain directly.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/gremlins-go/gremlins/internal/logging"
)

var (
	verbose   bool
	workspace string
	cfgFile   string
	logger    *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "gremlins",
	Short: "Mutation testing engine for Go",
	Long: `gremlins injects small semantic defects ("gremlins") into Go source,
runs the covering subset of your test suite against each one, and reports
which were caught ("zapped") versus missed ("survived").

A low mutation score on code your tests already "cover" is the signal this
tool exists to surface: lines executed is not the same as behaviour
verified.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if workspace == "" {
			wd, err := os.Getwd()
			if err != nil {
				return fmt.Errorf("resolve workspace: %w", err)
			}
			workspace = wd
		}

		zapCfg := zap.NewProductionConfig()
		if verbose {
			zapCfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		}
		zapCfg.Encoding = "console"
		zapCfg.EncoderConfig = zap.NewDevelopmentEncoderConfig()
		var err error
		logger, err = zapCfg.Build()
		if err != nil {
			return fmt.Errorf("build logger: %w", err)
		}

		if err := logging.Initialize(workspace); err != nil {
			logger.Warn("category logging unavailable", zap.Error(err))
		}
		if err := logging.InitAudit(); err != nil {
			logger.Warn("audit logging unavailable", zap.Error(err))
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
		logging.CloseAll()
		logging.CloseAudit()
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return cmd.Help()
	},
}

func init() {
	rootCmd.SilenceErrors = true
	rootCmd.SilenceUsage = true

	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug-level logging")
	rootCmd.PersistentFlags().StringVarP(&workspace, "workspace", "w", "", "module root (default: current directory)")
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", ".gremlins.yaml", "path to the RunConfig YAML file")

	viper.SetEnvPrefix("gremlins")
	viper.AutomaticEnv()

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(cacheCmd)
	rootCmd.AddCommand(watchCmd)
	rootCmd.AddCommand(profileCmd)
	rootCmd.AddCommand(operatorsCmd)
}

// bindFlagToConfig wires a cobra flag to a viper key so config-file and
// GREMLINS_-prefixed environment values feed it too, matching gooze's
// cmd/root.go helper of the same name.
func bindFlagToConfig(flag *pflag.Flag, key string) {
	if flag == nil {
		cobra.CheckErr(fmt.Errorf("flag for config key %q not found", key))
		return
	}
	cobra.CheckErr(viper.BindPFlag(key, flag))
}

// Execute runs the root command and returns its error, letting main decide
// the process exit code (spec.md §6's three-way exit contract needs more
// than cobra's built-in 0/1).
func Execute() error {
	return rootCmd.Execute()
}
