// Package render turns computed layouts into visual artifacts.
//
// # Overview
//
// The renderer is a pure consumer of the [graph.Layout] value: it reads
// positioned nodes and validated edges and never reaches back into
// simulation state.
//
// # Usage
//
// Convert a layout to DOT format with pinned positions, then render:
//
//	dot := render.ToDOT(layout, render.Options{})
//	svg, err := render.SVG(dot)
//	png, err := render.PNG(dot)
//
// # DOT Format
//
// [ToDOT] produces Graphviz DOT source for the neato engine with every
// node's position pinned (pos="x,y!"), so Graphviz draws exactly the
// coordinates the simulation produced instead of computing its own layout.
// The DOT string can also be saved and processed with external Graphviz
// tools.
//
// # Dependencies
//
// This package uses [github.com/goccy/go-graphviz] for in-process
// rendering; no external binaries are required.
package render
