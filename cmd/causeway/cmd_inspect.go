package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"causeway/internal/model"
)

// inspectCmd prints the frozen structure of a model.
var inspectCmd = &cobra.Command{
	Use:   "inspect [model-file]",
	Short: "Print the frozen graph structure of a causal model",
	Args:  cobra.ExactArgs(1),
	RunE:  inspectModel,
}

func inspectModel(cmd *cobra.Command, args []string) error {
	m, err := model.LoadFile(args[0])
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "model:  %s (%s)\n", m.Name, m.ID)
	fmt.Fprintf(out, "nodes:  %d\n", m.Graph.NumberNodes())
	fmt.Fprintf(out, "edges:  %d\n", m.Graph.NumberEdges())

	if root, ok := m.Graph.GetRootIndex(); ok {
		fmt.Fprintf(out, "root:   %s\n", m.NodeName(root))
	} else {
		fmt.Fprintln(out, "root:   (none)")
	}

	for i := 0; i < m.Graph.NumberNodes(); i++ {
		successors, err := m.Graph.GetEdges(i)
		if err != nil {
			return err
		}
		names := make([]string, len(successors))
		for k, s := range successors {
			names[k] = m.NodeName(s)
		}
		fmt.Fprintf(out, "  %-20s -> %s\n", m.NodeName(i), strings.Join(names, ", "))
	}
	return nil
}
