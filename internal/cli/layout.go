package cli

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/knotworks/forcemap/pkg/entity"
	"github.com/knotworks/forcemap/pkg/graph"
	"github.com/knotworks/forcemap/pkg/pipeline"
)

// layoutCommand creates the layout command for computing force-directed layouts.
func (c *CLI) layoutCommand() *cobra.Command {
	var (
		output   string
		attrsStr string
		noCache  bool
	)
	opts := pipeline.Options{}

	cmd := &cobra.Command{
		Use:   "layout [entities.json]",
		Short: "Compute a force-directed layout from an entity file",
		Long: `Compute a force-directed layout from an entity file.

The layout command derives relationships, places every entity at a random
position, and runs a fixed number of simulation steps where connected nodes
attract and all nodes repel. The output is a layout.json file that can be
rendered with 'render' or browsed with 'inspect'.

The same seed always produces the same layout. Results are cached locally
for faster subsequent runs.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.Attrs = parseList(attrsStr)
			c.Config.apply(&opts)
			return c.runLayout(cmd.Context(), args[0], opts, output, noCache)
		},
	}

	// Common flags
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: <input>.layout.json)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&opts.Refresh, "refresh", false, "recompute even if cached")

	// Relate flags
	cmd.Flags().StringVarP(&attrsStr, "attrs", "a", "", "grouping attributes (comma-separated, default: classification,family)")

	// Simulation flags
	cmd.Flags().Float64Var(&opts.Width, "width", opts.Width, "canvas width")
	cmd.Flags().Float64Var(&opts.Height, "height", opts.Height, "canvas height")
	cmd.Flags().IntVar(&opts.Iterations, "iterations", opts.Iterations, "simulation steps")
	cmd.Flags().Float64Var(&opts.Damping, "damping", opts.Damping, "velocity damping factor (0-1)")
	cmd.Flags().Float64Var(&opts.Repulsion, "repulsion", opts.Repulsion, "node repulsion strength")
	cmd.Flags().Float64Var(&opts.Attraction, "attraction", opts.Attraction, "edge attraction strength")
	cmd.Flags().StringVarP(&opts.Engine, "engine", "e", opts.Engine, "layout engine: brute (default), barneshut")
	cmd.Flags().Float64Var(&opts.Theta, "theta", opts.Theta, "barneshut opening angle")
	cmd.Flags().Uint64Var(&opts.Seed, "seed", opts.Seed, "random seed for reproducible layouts")

	return cmd
}

// runLayout loads the entities, runs the pipeline, and writes output.
func (c *CLI) runLayout(ctx context.Context, input string, opts pipeline.Options, output string, noCache bool) error {
	entities, err := entity.ReadEntitiesFile(input)
	if err != nil {
		return fmt.Errorf("load entities %s: %w", input, err)
	}
	opts.Entities = entities
	opts.Formats = []string{pipeline.FormatJSON}

	runner, err := c.newRunner(noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	spinner := newSpinnerWithContext(ctx, "Computing layout...")
	spinner.Start()

	result, err := runner.Execute(ctx, opts)
	if err != nil {
		spinner.StopWithError("Layout failed")
		return fmt.Errorf("compute layout: %w", err)
	}
	spinner.Stop()

	if ctx.Err() != nil {
		return ctx.Err()
	}

	outputPath := output
	if outputPath == "" {
		base := strings.TrimSuffix(input, filepath.Ext(input))
		outputPath = base + ".layout.json"
	}

	if err := graph.WriteLayoutFile(result.Layout, outputPath); err != nil {
		return fmt.Errorf("write output %s: %w", outputPath, err)
	}

	printSuccess("Layout complete")
	printFile(outputPath)
	printStats(result.Stats.NodeCount, result.Stats.EdgeCount, result.CacheInfo.LayoutHit)
	printNewline()
	printNextStep("Render", appName+" render "+outputPath)

	return nil
}
