package cli

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/knotworks/forcemap/pkg/entity"
	"github.com/knotworks/forcemap/pkg/graph"
	"github.com/knotworks/forcemap/pkg/relate"
)

// relateCommand creates the relate command for deriving relationships.
func (c *CLI) relateCommand() *cobra.Command {
	var (
		output   string
		attrsStr string
	)

	cmd := &cobra.Command{
		Use:   "relate [entities.json]",
		Short: "Derive relationships from entities sharing attribute values",
		Long: `Derive relationships from an entity file.

Entities that share a value for a grouping attribute are chained into
sequential relationships, one chain per shared value. The output is a
relations.json file for inspection or downstream tooling; 'layout' derives
the same relationships itself from the entity file.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runRelate(args[0], output, parseList(attrsStr))
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: <input>.relations.json)")
	cmd.Flags().StringVarP(&attrsStr, "attrs", "a", "", "grouping attributes (comma-separated, default: classification,family)")

	return cmd
}

func (c *CLI) runRelate(input, output string, attrs []string) error {
	entities, err := entity.ReadEntitiesFile(input)
	if err != nil {
		return fmt.Errorf("load entities %s: %w", input, err)
	}
	if err := entity.Validate(entities); err != nil {
		return fmt.Errorf("validate entities: %w", err)
	}
	if len(attrs) == 0 {
		attrs = c.Config.Attrs
	}
	if len(attrs) == 0 {
		attrs = relate.DefaultAttrs
	}

	prog := newProgress(c.Logger)
	rels := relate.Build(entities, attrs)
	prog.done(fmt.Sprintf("Derived %d relationships from %d entities", len(rels), len(entities)))

	outputPath := output
	if outputPath == "" {
		base := strings.TrimSuffix(input, filepath.Ext(input))
		outputPath = base + ".relations.json"
	}

	if err := graph.WriteRelationsFile(graph.Relations{Attrs: attrs, Relationships: rels}, outputPath); err != nil {
		return fmt.Errorf("write output %s: %w", outputPath, err)
	}

	printSuccess("Relationships derived")
	printFile(outputPath)
	printDetail("Attributes: %s", strings.Join(attrs, ", "))
	printNewline()
	printNextStep("Layout", appName+" layout "+input)

	return nil
}
