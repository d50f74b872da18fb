// Package render generates static export artifacts from the canonical
// graph: Graphviz DOT, and SVG/PNG rasterizations of it.
//
// Node positions computed by the layout engine are pinned in the DOT
// output, so the static artifact matches the interactive view instead of
// being re-laid-out by Graphviz.
package render

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/graphgazer/graphgazer/pkg/graph"
	"github.com/graphgazer/graphgazer/pkg/overlay"
)

// dotScale converts graph-space units to Graphviz points. Layout
// coordinates span hundreds of units; divide down so labels stay legible.
const dotScale = 0.72 / 10

// ToDOT converts a graph to Graphviz DOT with positions pinned.
// Overlay overrides are baked in: hidden nodes are omitted, dimmed and
// highlighted nodes carry their override color, and hidden edges are
// dropped. Pass a zero overlay to render canonical attributes.
func ToDOT(g *graph.Graph, ov overlay.Overlay) string {
	var buf bytes.Buffer
	buf.WriteString("graph G {\n")
	buf.WriteString("  layout=neato;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=circle, style=filled, fillcolor=white, fontsize=10];\n")
	buf.WriteString("\n")

	visible := make(map[string]bool, g.NodeCount())
	for _, n := range g.Nodes() {
		style, hasStyle := ov.Nodes[n.ID]
		if hasStyle && style.Hidden {
			continue
		}
		visible[n.ID] = true
		fmt.Fprintf(&buf, "  %q [%s];\n", n.ID, strings.Join(nodeAttrs(n, style, hasStyle), ", "))
	}

	buf.WriteString("\n")
	if !ov.EdgesHidden {
		for _, e := range g.Edges() {
			if !visible[e.Source] || !visible[e.Target] {
				continue
			}
			fmt.Fprintf(&buf, "  %q -- %q;\n", e.Source, e.Target)
		}
	}

	buf.WriteString("}\n")
	return buf.String()
}

func nodeAttrs(n *graph.Node, style overlay.NodeStyle, hasStyle bool) []string {
	label := n.DisplayLabel()
	color := n.Color
	if hasStyle {
		if style.LabelHidden {
			label = ""
		}
		if style.Color != "" {
			color = style.Color
		}
	}

	attrs := []string{
		fmt.Sprintf("label=%q", label),
		// The trailing "!" pins the position against the neato engine.
		fmt.Sprintf("pos=\"%.2f,%.2f!\"", n.X*dotScale, -n.Y*dotScale),
	}
	if color != "" {
		attrs = append(attrs, fmt.Sprintf("fillcolor=%q", dotColor(color)))
	}
	if n.Size > 0 {
		attrs = append(attrs, fmt.Sprintf("width=%.2f", n.Size/10))
	}
	return attrs
}

// dotColor strips an alpha suffix from #rrggbbaa colors; Graphviz
// accepts them but renders more predictably without.
func dotColor(c string) string {
	if strings.HasPrefix(c, "#") && len(c) == 9 {
		return c[:7]
	}
	return c
}

// RenderSVG renders a DOT graph to SVG using Graphviz.
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	return renderFormat(ctx, dot, graphviz.SVG)
}

// RenderPNG renders a DOT graph to PNG using Graphviz.
func RenderPNG(ctx context.Context, dot string) ([]byte, error) {
	return renderFormat(ctx, dot, graphviz.PNG)
}

func renderFormat(ctx context.Context, dot string, format graphviz.Format) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, format, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return buf.Bytes(), nil
}
