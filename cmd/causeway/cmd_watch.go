package main

import (
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"causeway/internal/model"
)

// watchCmd re-evaluates the observations whenever the model file changes.
var watchCmd = &cobra.Command{
	Use:   "watch [model-file]",
	Short: "Re-run observations whenever the model file changes",
	Long: `Watches the model file and re-evaluates the given observations against
each successfully rebuilt model. A broken edit keeps the previous model
in effect. Stop with Ctrl-C.`,
	Args: cobra.ExactArgs(1),
	RunE: watchModel,
}

func init() {
	watchCmd.Flags().Float64SliceVar(&observations, "observe", nil, "observation to propagate (repeatable)")
	watchCmd.Flags().IntVar(&concurrency, "concurrency", 4, "max concurrent evaluations in a batch")
}

func watchModel(cmd *cobra.Command, args []string) error {
	if len(observations) == 0 {
		return fmt.Errorf("at least one --observe value is required")
	}

	var mu sync.Mutex
	evaluate := func(m *model.Model) {
		mu.Lock()
		defer mu.Unlock()
		results, err := m.EvaluateBatch(cmd.Context(), observations, concurrency)
		if err != nil {
			logger.Error("batch evaluation failed", zap.Error(err))
			return
		}
		fmt.Fprintf(cmd.OutOrStdout(), "--- %s ---\n", m.Name)
		for i, res := range results {
			printResult(cmd, m, observations[i], res)
		}
	}

	m, err := model.LoadFile(args[0])
	if err != nil {
		return err
	}
	evaluate(m)

	w, err := model.NewWatcher(args[0], evaluate)
	if err != nil {
		return err
	}
	if err := w.Start(cmd.Context()); err != nil {
		return err
	}
	defer w.Stop()

	logger.Info("watching model file", zap.String("path", args[0]))

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig
	return nil
}
