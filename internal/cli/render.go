package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/knotworks/forcemap/pkg/graph"
	"github.com/knotworks/forcemap/pkg/pipeline"
	"github.com/knotworks/forcemap/pkg/render"
)

// renderCommand creates the render command for generating output files.
func (c *CLI) renderCommand() *cobra.Command {
	var (
		output     string
		formatsStr string
		edgeLabels bool
	)

	cmd := &cobra.Command{
		Use:   "render [layout.json]",
		Short: "Render a computed layout to SVG, PNG, or DOT",
		Long: `Render a computed layout to one or more output formats.

The render command takes a layout.json file (produced by 'layout') and emits
the drawing in the requested formats. SVG and PNG are produced by Graphviz
with every node pinned at its computed position; DOT output can be fed to
other Graphviz tools.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			formats := parseList(formatsStr)
			if len(formats) == 0 {
				formats = c.Config.Formats
			}
			if len(formats) == 0 {
				formats = []string{pipeline.FormatSVG}
			}
			return c.runRender(args[0], output, formats, edgeLabels)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (single format) or base path (multiple)")
	cmd.Flags().StringVarP(&formatsStr, "format", "f", "", "output format(s): svg (default), png, dot (comma-separated)")
	cmd.Flags().BoolVar(&edgeLabels, "edge-labels", false, "draw relationship labels on edges")

	return cmd
}

func (c *CLI) runRender(input, output string, formats []string, edgeLabels bool) error {
	for _, f := range formats {
		if f != pipeline.FormatSVG && f != pipeline.FormatPNG && f != pipeline.FormatDOT {
			return fmt.Errorf("unknown format %q (want svg, png, or dot)", f)
		}
	}

	layout, err := graph.ReadLayoutFile(input)
	if err != nil {
		return fmt.Errorf("load layout %s: %w", input, err)
	}

	base := output
	if base == "" {
		base = strings.TrimSuffix(input, filepath.Ext(input))
		base = strings.TrimSuffix(base, ".layout")
	} else if len(formats) == 1 {
		// Single format with explicit output: use the path as given.
		base = strings.TrimSuffix(output, filepath.Ext(output))
	}

	dot := render.ToDOT(layout, render.Options{EdgeLabels: edgeLabels})

	prog := newProgress(c.Logger)
	for _, format := range formats {
		var data []byte
		switch format {
		case pipeline.FormatDOT:
			data = []byte(dot)
		case pipeline.FormatSVG:
			if data, err = render.SVG(dot); err != nil {
				return fmt.Errorf("render svg: %w", err)
			}
		case pipeline.FormatPNG:
			if data, err = render.PNG(dot); err != nil {
				return fmt.Errorf("render png: %w", err)
			}
		}

		path := base + "." + format
		if err := os.WriteFile(path, data, 0o644); err != nil {
			return fmt.Errorf("write %s: %w", path, err)
		}
		printFile(path)
	}
	prog.done(fmt.Sprintf("Rendered %d file(s)", len(formats)))

	printSuccess("Render complete")
	printStats(len(layout.Nodes), len(layout.Edges), false)

	return nil
}
