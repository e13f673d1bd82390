package sim

import (
	"math/rand/v2"

	"github.com/knotworks/forcemap/pkg/entity"
	"github.com/knotworks/forcemap/pkg/relate"
)

// Node radius derivation from entity weight.
const (
	baseRadius  = 20.0
	radiusScale = 0.2
	maxRadius   = 40.0
)

// Node is the simulation-time representation of an entity.
// Position and velocity are mutated by an Engine; Radius is fixed at
// construction and only influences boundary clamping and rendering,
// never the forces themselves.
type Node struct {
	ID     string
	Label  string
	Group  string // primary grouping attribute value, for renderer legends
	X, Y   float64
	VX, VY float64
	Radius float64
}

// Edge connects two resolved nodes. Both endpoints are always non-nil:
// relationships whose endpoints have no matching node are dropped during
// NewGraph, never carried as dangling references.
type Edge struct {
	Source *Node
	Target *Node
	Type   string
	Label  string
}

// Graph is the aggregate of nodes and edges for one visualization request.
// It is created fresh per request, simulated once, and discarded - no
// instance is shared or incrementally updated.
type Graph struct {
	Nodes []*Node
	Edges []*Edge
}

// GroupAttr is the entity attribute copied into Node.Group.
const GroupAttr = "classification"

// NewGraph builds a simulation graph from entities and relationships.
//
// Each entity becomes one node with a position drawn uniformly at random
// within the canvas interior and zero velocity. Pass a seeded generator for
// reproducible placement; a nil rng falls back to an unseeded one for
// interactive use.
//
// Relationships are resolved against the nodes by ID. A relationship whose
// source or target is unknown is silently dropped - the graph never holds
// an edge with a missing endpoint.
func NewGraph(entities []entity.Entity, rels []relate.Relationship, cfg Config, rng *rand.Rand) *Graph {
	cfg.setDefaults()
	if rng == nil {
		rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}

	g := &Graph{Nodes: make([]*Node, 0, len(entities))}
	byID := make(map[string]*Node, len(entities))

	for _, e := range entities {
		n := &Node{
			ID:     e.ID,
			Label:  e.DisplayLabel(),
			Group:  e.Attr(GroupAttr),
			X:      rng.Float64() * cfg.Width,
			Y:      rng.Float64() * cfg.Height,
			Radius: radiusFor(e.Weight),
		}
		g.Nodes = append(g.Nodes, n)
		byID[n.ID] = n
	}

	for _, r := range rels {
		src, okS := byID[r.Source]
		dst, okT := byID[r.Target]
		if !okS || !okT {
			continue
		}
		g.Edges = append(g.Edges, &Edge{Source: src, Target: dst, Type: r.Type, Label: r.Label})
	}

	return g
}

// radiusFor maps an entity weight (e.g., a reuse score) to a node radius.
// Zero or negative weights get the base radius; large weights are capped so
// a single node cannot dominate the canvas.
func radiusFor(weight float64) float64 {
	if weight <= 0 {
		return baseRadius
	}
	return min(baseRadius+weight*radiusScale, maxRadius)
}
