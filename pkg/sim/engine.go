package sim

import "math"

// Default simulation parameters. They match the tuning the knowledge-graph
// view ships with and are applied by Config.setDefaults for zero fields.
const (
	DefaultWidth      = 800.0
	DefaultHeight     = 600.0
	DefaultIterations = 100
	DefaultDamping    = 0.9
	DefaultRepulsion  = 5000.0
	DefaultAttraction = 0.01

	// minDistance floors every computed distance before it is used as a
	// divisor, so coincident nodes never produce non-finite forces.
	minDistance = 1.0
)

// Config holds the tunable parameters for one simulation run.
// The zero value is usable: setDefaults fills every unset field.
type Config struct {
	Width  float64 // canvas width
	Height float64 // canvas height

	Iterations int     // fixed step count, no convergence check
	Damping    float64 // per-step velocity scale, must be in (0,1)
	Repulsion  float64 // pairwise repulsion strength (force = k/d²)
	Attraction float64 // edge attraction strength (force = d·k)
}

// setDefaults fills zero-valued fields with the package defaults.
func (c *Config) setDefaults() {
	if c.Width <= 0 {
		c.Width = DefaultWidth
	}
	if c.Height <= 0 {
		c.Height = DefaultHeight
	}
	if c.Iterations <= 0 {
		c.Iterations = DefaultIterations
	}
	if c.Damping <= 0 || c.Damping >= 1 {
		c.Damping = DefaultDamping
	}
	if c.Repulsion <= 0 {
		c.Repulsion = DefaultRepulsion
	}
	if c.Attraction <= 0 {
		c.Attraction = DefaultAttraction
	}
}

// Engine runs a force simulation over a graph, mutating node positions
// in place. A graph moves from unsimulated to simulated through a single
// Run call; runs are never partial or resumable.
type Engine interface {
	Run(g *Graph)
}

// BruteForce is the exact pairwise engine. Every iteration evaluates all
// unordered node pairs, so the total cost is O(n² · iterations). That is
// the documented scaling limit: fine for tens to low hundreds of nodes,
// use BarnesHut beyond that.
type BruteForce struct {
	cfg Config
}

// NewBruteForce creates the exact pairwise engine.
// Zero-valued config fields are filled with the package defaults.
func NewBruteForce(cfg Config) *BruteForce {
	cfg.setDefaults()
	return &BruteForce{cfg: cfg}
}

// Run performs exactly cfg.Iterations simulation steps.
// An empty graph is a valid no-op.
func (e *BruteForce) Run(g *Graph) {
	for range e.cfg.Iterations {
		e.step(g)
	}
}

func (e *BruteForce) step(g *Graph) {
	// Pairwise repulsion, accumulated symmetrically.
	for i, a := range g.Nodes {
		for _, b := range g.Nodes[i+1:] {
			dx, dy, d := separation(a, b)
			f := e.cfg.Repulsion / (d * d)
			fx, fy := dx/d*f, dy/d*f
			a.VX -= fx
			a.VY -= fy
			b.VX += fx
			b.VY += fy
		}
	}

	applyAttraction(g, e.cfg.Attraction)
	integrate(g, e.cfg)
}

// separation returns the vector from a to b and its length, floored at
// minDistance. For coincident nodes the vector is (0,0) with length 1, so
// the resulting force contribution is zero rather than NaN.
func separation(a, b *Node) (dx, dy, d float64) {
	dx = b.X - a.X
	dy = b.Y - a.Y
	d = math.Hypot(dx, dy)
	if d < minDistance {
		d = minDistance
	}
	return dx, dy, d
}

// applyAttraction pulls each edge's endpoints together with a force
// proportional to their distance.
func applyAttraction(g *Graph, strength float64) {
	for _, e := range g.Edges {
		dx, dy, d := separation(e.Source, e.Target)
		f := d * strength
		fx, fy := dx/d*f, dy/d*f
		e.Source.VX += fx
		e.Source.VY += fy
		e.Target.VX -= fx
		e.Target.VY -= fy
	}
}

// integrate advances positions by velocity, applies damping, and clamps
// each node's center so the full circle stays on canvas.
func integrate(g *Graph, cfg Config) {
	for _, n := range g.Nodes {
		n.X += n.VX
		n.Y += n.VY
		n.VX *= cfg.Damping
		n.VY *= cfg.Damping
		n.X = clamp(n.X, n.Radius, cfg.Width-n.Radius)
		n.Y = clamp(n.Y, n.Radius, cfg.Height-n.Radius)
	}
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
