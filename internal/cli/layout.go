package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/graphgazer/graphgazer/pkg/graph"
	"github.com/graphgazer/graphgazer/pkg/layout"
)

// layoutCommand creates the layout command for computing node positions.
func (c *CLI) layoutCommand() *cobra.Command {
	var (
		mode       string
		iterations int
		seed       uint64
		output     string
	)

	cmd := &cobra.Command{
		Use:   "layout [graph.json]",
		Short: "Compute node positions for a graph snapshot",
		Long: `Compute node positions for a graph snapshot.

Runs the selected layout strategy (forceatlas, circle, grid, random) and
writes the positioned graph back to disk. Positions are deterministic for
a given seed.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runLayout(args[0], layout.Mode(mode), layout.Options{
				Iterations: iterations,
				Seed:       seed,
			}, output)
		},
	}

	cmd.Flags().StringVarP(&mode, "mode", "m", string(layout.ModeForceAtlas), "layout mode: forceatlas (default), circle, grid, random")
	cmd.Flags().IntVar(&iterations, "iterations", layout.DefaultIterations, "iteration budget for force-directed layout")
	cmd.Flags().Uint64Var(&seed, "seed", layout.DefaultSeed, "random seed for reproducible placement")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: overwrite input)")

	return cmd
}

// runLayout applies the layout and writes the positioned snapshot.
func (c *CLI) runLayout(input string, mode layout.Mode, opts layout.Options, output string) error {
	if err := layout.ValidateMode(mode); err != nil {
		return err
	}

	g, err := loadGraph(c.Logger, input)
	if err != nil {
		return err
	}

	prog := newProgress(c.Logger)
	layout.Scatter(g, opts.Seed)
	if err := layout.Apply(g, mode, opts); err != nil {
		return fmt.Errorf("layout: %w", err)
	}
	prog.done(fmt.Sprintf("Laid out %d nodes with %s", g.NodeCount(), mode))

	if output == "" {
		output = input
	}
	if err := graph.WriteFile(g, output); err != nil {
		return fmt.Errorf("write layout: %w", err)
	}

	printSuccess("Layout complete")
	printFile(output)
	printNextStep("View the graph", fmt.Sprintf("graphgazer view %s", output))
	return nil
}
