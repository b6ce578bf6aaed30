package main

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"causeway/internal/effect"
	"causeway/internal/model"
)

var (
	observations []float64
	concurrency  int
	explain      bool
)

// runCmd evaluates observations against a model.
var runCmd = &cobra.Command{
	Use:   "run [model-file]",
	Short: "Evaluate observations against a causal model",
	Long: `Loads a YAML causal model, freezes its graph, and propagates each
observation from the root. Observations in a batch are evaluated
concurrently; the frozen graph is shared read-only.

Example:
  causeway run wildfire.yaml --observe 0.2 --observe 0.8`,
	Args: cobra.ExactArgs(1),
	RunE: runModel,
}

func init() {
	runCmd.Flags().Float64SliceVar(&observations, "observe", nil, "observation to propagate (repeatable)")
	runCmd.Flags().IntVar(&concurrency, "concurrency", 4, "max concurrent evaluations in a batch")
	runCmd.Flags().BoolVar(&explain, "explain", false, "print per-node activation after each run")
}

func runModel(cmd *cobra.Command, args []string) error {
	if len(observations) == 0 {
		return fmt.Errorf("at least one --observe value is required")
	}

	m, err := model.LoadFile(args[0])
	if err != nil {
		return err
	}

	runID := uuid.New()
	logger.Info("running model",
		zap.String("model", m.Name),
		zap.String("run_id", runID.String()),
		zap.Int("observations", len(observations)))

	results, err := m.EvaluateBatch(cmd.Context(), observations, concurrency)
	if err != nil {
		return err
	}

	for i, res := range results {
		printResult(cmd, m, observations[i], res)
	}
	return nil
}

func printResult(cmd *cobra.Command, m *model.Model, obs float64, res *effect.PropagatingEffect) {
	out := cmd.OutOrStdout()
	if res.IsErr() {
		fmt.Fprintf(out, "observe %g -> error: %v\n", obs, res.Err)
		return
	}
	fmt.Fprintf(out, "observe %g -> %s\n", obs, res.Value)

	if p, ok := res.Value.(effect.Probability); ok {
		th := m.DecisionThreshold(cfg.Engine.DefaultThreshold)
		fmt.Fprintf(out, "  verdict: %t (threshold %g)\n", float64(p) > th, th)
	}

	if explain {
		var active []string
		for i := 0; i < m.Graph.NumberNodes(); i++ {
			node, err := m.Graph.GetNode(i)
			if err != nil {
				continue
			}
			mark := " "
			if node.IsActive() {
				mark = "*"
			}
			active = append(active, fmt.Sprintf("  [%s] %s", mark, m.NodeName(i)))
		}
		fmt.Fprintln(out, strings.Join(active, "\n"))
	}
}
