package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/graphgazer/graphgazer/pkg/cache"
	"github.com/graphgazer/graphgazer/pkg/graph"
	"github.com/graphgazer/graphgazer/pkg/overlay"
	"github.com/graphgazer/graphgazer/pkg/render"
)

// validExportFormats lists the supported export formats.
var validExportFormats = []string{"json", "dot", "svg", "png"}

// exportCommand creates the export command for writing graphs to other formats.
func (c *CLI) exportCommand() *cobra.Command {
	var (
		format  string
		output  string
		noCache bool
	)

	cmd := &cobra.Command{
		Use:   "export [graph.json]",
		Short: "Export a graph snapshot to another format",
		Long: `Export a graph snapshot to another format.

Supported formats: json (normalized snapshot), dot (Graphviz source with
pinned positions), svg, png. The svg and png formats render through
Graphviz neato using the stored node positions; rendered artifacts are
cached locally, keyed by the snapshot contents.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runExport(cmd.Context(), args[0], format, output, noCache)
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "json", "output format: json (default), dot, svg, png")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: input name with new extension)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")

	return cmd
}

// runExport loads the graph and writes it in the requested format.
func (c *CLI) runExport(ctx context.Context, input, format, output string, noCache bool) error {
	format = strings.ToLower(format)
	supported := false
	for _, f := range validExportFormats {
		if format == f {
			supported = true
			break
		}
	}
	if !supported {
		return fmt.Errorf("invalid format: %q (must be one of: %s)", format, strings.Join(validExportFormats, ", "))
	}

	g, err := loadGraph(c.Logger, input)
	if err != nil {
		return err
	}

	if output == "" {
		base := strings.TrimSuffix(input, filepath.Ext(input))
		output = base + "." + format
	}

	var data []byte
	switch format {
	case "json":
		data, err = graph.Marshal(g)
	case "dot":
		data = []byte(render.ToDOT(g, overlay.Overlay{}))
	case "svg", "png":
		store, cerr := newCache(noCache)
		if cerr != nil {
			return fmt.Errorf("initialize cache: %w", cerr)
		}
		defer store.Close()
		data, err = renderCached(ctx, store, g, format)
	}
	if err != nil {
		return fmt.Errorf("export %s: %w", format, err)
	}

	if err := os.WriteFile(output, data, 0o644); err != nil {
		return fmt.Errorf("write output: %w", err)
	}

	printSuccess("Exported %s", format)
	printFile(output)
	return nil
}

// renderCached renders g in the given format, consulting the artifact
// cache first. The key derives from the serialized snapshot, so any node
// or edge change invalidates it.
func renderCached(ctx context.Context, store cache.Cache, g *graph.Graph, format string) ([]byte, error) {
	snap, err := graph.Marshal(g)
	if err != nil {
		return nil, err
	}
	key := cache.GraphKey(cache.Hash(snap), format)
	if data, hit, gerr := store.Get(ctx, key); gerr == nil && hit {
		return data, nil
	}

	dot := render.ToDOT(g, overlay.Overlay{})
	var out []byte
	switch format {
	case "svg":
		out, err = render.RenderSVG(ctx, dot)
	case "png":
		out, err = render.RenderPNG(ctx, dot)
	}
	if err != nil {
		return nil, err
	}
	_ = store.Set(ctx, key, out, cache.DefaultTTL)
	return out, nil
}
