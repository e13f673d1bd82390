// Package graph defines the canonical serialization format for computed
// layouts and derived relationship sets.
//
// The format is human-readable JSON designed for round-trip fidelity:
// compute → export → re-import yields identical values. The same types carry
// bson tags so the serve mode can persist layouts without a second schema.
package graph

import (
	"slices"

	"github.com/knotworks/forcemap/pkg/relate"
	"github.com/knotworks/forcemap/pkg/sim"
)

// Engine names recorded in a Layout, matching the sim engines.
const (
	EngineBruteForce = "brute"
	EngineBarnesHut  = "barneshut"
)

// Layout is the serialized result of one simulation run: positioned nodes,
// validated edges, and the parameters needed to reproduce or render it.
type Layout struct {
	Width  float64 `json:"width" bson:"width"`
	Height float64 `json:"height" bson:"height"`
	Seed   uint64  `json:"seed,omitempty" bson:"seed,omitempty"`
	Engine string  `json:"engine,omitempty" bson:"engine,omitempty"`

	Nodes []Node `json:"nodes" bson:"nodes"`
	Edges []Edge `json:"edges" bson:"edges"`
}

// Node is a positioned node ready for any rendering layer.
type Node struct {
	ID     string  `json:"id" bson:"id"`
	Label  string  `json:"label,omitempty" bson:"label,omitempty"`
	Group  string  `json:"group,omitempty" bson:"group,omitempty"`
	X      float64 `json:"x" bson:"x"`
	Y      float64 `json:"y" bson:"y"`
	Radius float64 `json:"radius" bson:"radius"`
}

// Edge references nodes by ID - pointers are a simulation artifact and do
// not survive serialization.
type Edge struct {
	Source string `json:"source" bson:"source"`
	Target string `json:"target" bson:"target"`
	Type   string `json:"type" bson:"type"`
	Label  string `json:"label,omitempty" bson:"label,omitempty"`
}

// FromSim converts a simulated graph to its serialization format.
// Nodes are sorted by ID for deterministic output; edges keep the
// relationship-builder order, duplicates included.
func FromSim(g *sim.Graph, cfg sim.Config, seed uint64, engine string) Layout {
	out := Layout{
		Width:  cfg.Width,
		Height: cfg.Height,
		Seed:   seed,
		Engine: engine,
		Nodes:  make([]Node, len(g.Nodes)),
		Edges:  make([]Edge, len(g.Edges)),
	}

	for i, n := range g.Nodes {
		out.Nodes[i] = Node{
			ID:     n.ID,
			Label:  n.Label,
			Group:  n.Group,
			X:      n.X,
			Y:      n.Y,
			Radius: n.Radius,
		}
	}
	slices.SortFunc(out.Nodes, func(a, b Node) int {
		if a.ID < b.ID {
			return -1
		}
		if a.ID > b.ID {
			return 1
		}
		return 0
	})

	for i, e := range g.Edges {
		out.Edges[i] = Edge{
			Source: e.Source.ID,
			Target: e.Target.ID,
			Type:   e.Type,
			Label:  e.Label,
		}
	}

	return out
}

// Relations wraps a derived relationship set for serialization, so the
// relate stage can be exported and re-imported independently of layout.
type Relations struct {
	Attrs         []string              `json:"attrs,omitempty" bson:"attrs,omitempty"`
	Relationships []relate.Relationship `json:"relationships" bson:"relationships"`
}
