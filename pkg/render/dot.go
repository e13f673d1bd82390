package render

import (
	"bytes"
	"context"
	"fmt"

	"github.com/goccy/go-graphviz"

	"github.com/knotworks/forcemap/pkg/graph"
)

// pointsPerInch converts node radii (canvas points) to Graphviz node sizes.
const pointsPerInch = 72.0

// Options configures DOT generation.
type Options struct {
	// EdgeLabels includes each edge's shared attribute value as a label.
	// When false, edges are drawn unlabeled.
	EdgeLabels bool
}

// ToDOT converts a layout to Graphviz DOT format for the neato engine.
// Every node position is pinned (pos="x,y!"), so rendering reproduces the
// simulated coordinates exactly. The y axis is flipped because the canvas
// grows downward while Graphviz grows upward.
func ToDOT(l graph.Layout, opts Options) string {
	var buf bytes.Buffer
	buf.WriteString("graph G {\n")
	buf.WriteString("  layout=neato;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=circle, style=filled, fillcolor=white, fixedsize=true];\n")
	buf.WriteString("\n")

	for _, n := range l.Nodes {
		label := n.Label
		if label == "" {
			label = n.ID
		}
		size := n.Radius * 2 / pointsPerInch
		fmt.Fprintf(&buf, "  %q [label=%q, pos=\"%.2f,%.2f!\", width=%.3f, height=%.3f];\n",
			n.ID, label, n.X, l.Height-n.Y, size, size)
	}

	buf.WriteString("\n")
	for _, e := range l.Edges {
		if opts.EdgeLabels && e.Label != "" {
			fmt.Fprintf(&buf, "  %q -- %q [label=%q, fontsize=10];\n", e.Source, e.Target, e.Label)
		} else {
			fmt.Fprintf(&buf, "  %q -- %q;\n", e.Source, e.Target)
		}
	}

	buf.WriteString("}\n")
	return buf.String()
}

// SVG renders a DOT graph to SVG using Graphviz.
func SVG(dot string) ([]byte, error) {
	return renderFormat(dot, graphviz.SVG)
}

// PNG renders a DOT graph to PNG using Graphviz.
func PNG(dot string) ([]byte, error) {
	return renderFormat(dot, graphviz.PNG)
}

func renderFormat(dot string, format graphviz.Format) ([]byte, error) {
	ctx := context.Background()
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
