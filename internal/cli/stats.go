package cli

import (
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/graphgazer/graphgazer/pkg/graph"
)

// statsCommand creates the stats command for inspecting a graph snapshot.
func (c *CLI) statsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stats [graph.json]",
		Short: "Show statistics for a graph snapshot",
		Long: `Show statistics for a graph snapshot.

Reports node and edge counts, directed density, and the clusters present.
Density is computed as E / (N * (N - 1)) and is zero for graphs with fewer
than two nodes.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runStats(args[0])
		},
	}
	return cmd
}

// runStats loads the graph and prints its statistics.
func (c *CLI) runStats(input string) error {
	g, err := loadGraph(c.Logger, input)
	if err != nil {
		return err
	}

	stats := graph.ComputeStats(g)

	printKeyValue("Nodes", fmt.Sprintf("%d", stats.NodeCount))
	printKeyValue("Edges", fmt.Sprintf("%d", stats.EdgeCount))
	printKeyValue("Density", fmt.Sprintf("%.4f", stats.Density))

	clusters := g.Clusters()
	names := make([]string, 0, len(clusters))
	for name := range clusters {
		names = append(names, name)
	}
	sort.Strings(names)
	if len(names) > 0 {
		parts := make([]string, 0, len(names))
		for _, name := range names {
			parts = append(parts, fmt.Sprintf("%s (%d)", name, clusters[name]))
		}
		printKeyValue("Clusters", strings.Join(parts, ", "))
	}

	return nil
}
