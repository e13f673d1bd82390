// Package pipeline provides the core visualization pipeline for forcemap.
//
// This package implements the relate → layout → render pipeline shared by
// the CLI and the HTTP server. Centralizing it keeps behavior consistent
// across entry points and gives every caller the same caching.
//
// # Architecture
//
// The pipeline consists of three stages:
//
//  1. Relate: derive relationships from entities by shared attributes
//  2. Layout: run the force simulation and produce positioned nodes
//  3. Render: generate output in various formats (JSON, DOT, SVG, PNG)
//
// Each stage can be run independently or as part of the complete pipeline.
//
// # Usage
//
// Create a Runner and execute the pipeline:
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	opts := pipeline.Options{
//	    Entities: entities,
//	    Formats:  []string{"svg"},
//	}
//	result, err := runner.Execute(ctx, opts)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	svg := result.Artifacts["svg"]
package pipeline

import (
	"github.com/knotworks/forcemap/pkg/entity"
	"github.com/knotworks/forcemap/pkg/errors"
	"github.com/knotworks/forcemap/pkg/graph"
	"github.com/knotworks/forcemap/pkg/relate"
	"github.com/knotworks/forcemap/pkg/sim"
)

// Default values shared by CLI and server.
const (
	// DefaultSeed is the default random seed for reproducibility.
	DefaultSeed = uint64(42)

	// DefaultEngine is the default layout engine.
	DefaultEngine = graph.EngineBruteForce
)

// Format constants for output formats.
const (
	FormatJSON = "json"
	FormatDOT  = "dot"
	FormatSVG  = "svg"
	FormatPNG  = "png"
)

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatJSON: true,
	FormatDOT:  true,
	FormatSVG:  true,
	FormatPNG:  true,
}

// ValidEngines is the set of supported layout engines.
var ValidEngines = map[string]bool{
	graph.EngineBruteForce: true,
	graph.EngineBarnesHut:  true,
}

// Options contains all configuration for the visualization pipeline.
// This struct supports JSON serialization for API requests.
type Options struct {
	// Input
	Entities []entity.Entity `json:"entities"`
	Attrs    []string        `json:"attrs,omitempty"` // grouping attributes, default relate.DefaultAttrs

	// Layout options
	Width      float64 `json:"width,omitempty"`
	Height     float64 `json:"height,omitempty"`
	Iterations int     `json:"iterations,omitempty"`
	Damping    float64 `json:"damping,omitempty"`
	Repulsion  float64 `json:"repulsion,omitempty"`
	Attraction float64 `json:"attraction,omitempty"`
	Engine     string  `json:"engine,omitempty"` // "brute" (default) or "barneshut"
	Theta      float64 `json:"theta,omitempty"`  // barneshut opening angle
	Seed       uint64  `json:"seed,omitempty"`

	// Render options
	Formats    []string `json:"formats,omitempty"`
	EdgeLabels bool     `json:"edge_labels,omitempty"`

	// Refresh bypasses cached results and recomputes every stage.
	Refresh bool `json:"refresh,omitempty"`
}

// ValidateAndSetDefaults validates the options and fills defaults.
func (o *Options) ValidateAndSetDefaults() error {
	if err := entity.Validate(o.Entities); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidEntity, err, "invalid entities")
	}

	if len(o.Attrs) == 0 {
		o.Attrs = relate.DefaultAttrs
	}
	if o.Engine == "" {
		o.Engine = DefaultEngine
	}
	if !ValidEngines[o.Engine] {
		return errors.New(errors.ErrCodeInvalidEngine, "unknown engine: %s", o.Engine)
	}
	if o.Seed == 0 {
		o.Seed = DefaultSeed
	}
	if len(o.Formats) == 0 {
		o.Formats = []string{FormatJSON}
	}
	for _, f := range o.Formats {
		if !ValidFormats[f] {
			return errors.New(errors.ErrCodeInvalidFormat, "unknown format: %s", f)
		}
	}

	if o.Width <= 0 {
		o.Width = sim.DefaultWidth
	}
	if o.Height <= 0 {
		o.Height = sim.DefaultHeight
	}
	if o.Iterations <= 0 {
		o.Iterations = sim.DefaultIterations
	}
	if o.Damping <= 0 || o.Damping >= 1 {
		o.Damping = sim.DefaultDamping
	}
	if o.Repulsion <= 0 {
		o.Repulsion = sim.DefaultRepulsion
	}
	if o.Attraction <= 0 {
		o.Attraction = sim.DefaultAttraction
	}
	return nil
}

// simConfig builds the simulation config from validated options.
func (o *Options) simConfig() sim.Config {
	return sim.Config{
		Width:      o.Width,
		Height:     o.Height,
		Iterations: o.Iterations,
		Damping:    o.Damping,
		Repulsion:  o.Repulsion,
		Attraction: o.Attraction,
	}
}
