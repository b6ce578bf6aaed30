package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"causeway/internal/config"
	"causeway/internal/logging"
	"causeway/internal/model"
)

var (
	// Global flags
	verbose   bool
	workspace string

	// Loaded configuration and logger, set in PersistentPreRunE.
	cfg    *config.Config
	logger *zap.Logger
)

// rootCmd represents the base command.
var rootCmd = &cobra.Command{
	Use:   "causeway",
	Short: "causeway - causal-inference graph engine",
	Long: `causeway evaluates causal models: directed graphs of causaloids that
propagate a typed effect from node to node and aggregate results under
quantifier logic.

Models are YAML files naming nodes, built-in causal-function kinds, and
edges. Build one, then evaluate observations against it:

  causeway run model.yaml --observe 0.8
  causeway inspect model.yaml
  causeway watch model.yaml --observe 0.8`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		zcfg := zap.NewProductionConfig()
		if verbose {
			zcfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		}
		var err error
		logger, err = zcfg.Build()
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}

		cfg, err = config.Load(config.Path(workspace))
		if err != nil {
			return err
		}
		model.SetDefaultRadixThreshold(cfg.Engine.RadixSortThreshold)
		if err := logging.Initialize(workspace); err != nil {
			logger.Warn("file logging unavailable", zap.Error(err))
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		logging.CloseAll()
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVarP(&workspace, "workspace", "w", ".", "workspace directory")

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(inspectCmd)
	rootCmd.AddCommand(watchCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
