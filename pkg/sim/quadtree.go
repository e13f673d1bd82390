package sim

import "math"

// DefaultTheta is the Barnes-Hut opening angle. A region whose size over
// distance ratio is below theta is treated as a single point mass.
const DefaultTheta = 0.7

// maxQuadDepth bounds tree depth so coincident nodes cannot recurse forever.
const maxQuadDepth = 32

// BarnesHut approximates pairwise repulsion through a quadtree: distant
// clusters act as a single body at their center of mass, which reduces the
// per-iteration cost from O(n²) to roughly O(n log n).
//
// Attraction, damping, and clamping are identical to BruteForce - only the
// repulsion term is approximate. It satisfies the same bounds and
// finiteness guarantees.
type BarnesHut struct {
	cfg   Config
	theta float64
}

// NewBarnesHut creates the approximating engine.
// A theta of 0 selects DefaultTheta; larger values are faster but coarser,
// and theta = 0 approaches exact pairwise behavior at O(n²) cost.
func NewBarnesHut(cfg Config, theta float64) *BarnesHut {
	cfg.setDefaults()
	if theta <= 0 {
		theta = DefaultTheta
	}
	return &BarnesHut{cfg: cfg, theta: theta}
}

// Run performs exactly cfg.Iterations simulation steps.
func (e *BarnesHut) Run(g *Graph) {
	for range e.cfg.Iterations {
		e.step(g)
	}
}

func (e *BarnesHut) step(g *Graph) {
	if len(g.Nodes) > 1 {
		root := buildQuadTree(g.Nodes)
		for _, n := range g.Nodes {
			fx, fy := root.repulsion(n, e.theta, e.cfg.Repulsion)
			n.VX += fx
			n.VY += fy
		}
	}

	applyAttraction(g, e.cfg.Attraction)
	integrate(g, e.cfg)
}

// quadNode is one square region of the tree. Leaves hold a single occupant
// (or several coincident ones at maxQuadDepth); interior nodes aggregate
// their children's mass and center of mass.
type quadNode struct {
	x, y, size float64 // top-left corner and side length

	occupant *Node // leaf occupant, nil for interior nodes
	children *[4]*quadNode

	mass       float64 // number of bodies in this region
	comX, comY float64 // center of mass
}

// buildQuadTree builds a fresh tree over the nodes' current positions.
// The root square covers the bounding box of all nodes.
func buildQuadTree(nodes []*Node) *quadNode {
	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	for _, n := range nodes {
		minX = min(minX, n.X)
		minY = min(minY, n.Y)
		maxX = max(maxX, n.X)
		maxY = max(maxY, n.Y)
	}

	size := max(maxX-minX, maxY-minY)
	if size < minDistance {
		size = minDistance
	}

	root := &quadNode{x: minX, y: minY, size: size}
	for _, n := range nodes {
		root.insert(n, 0)
	}
	return root
}

func (q *quadNode) insert(n *Node, depth int) {
	// Update aggregate mass and center of mass on the way down.
	q.comX = (q.comX*q.mass + n.X) / (q.mass + 1)
	q.comY = (q.comY*q.mass + n.Y) / (q.mass + 1)
	q.mass++

	if q.children == nil && q.occupant == nil {
		q.occupant = n
		return
	}

	// Coincident or near-coincident bodies: stop subdividing and let the
	// leaf aggregate them. Their mutual repulsion degrades to zero, the
	// same guard BruteForce applies at minDistance.
	if depth >= maxQuadDepth {
		return
	}

	if q.children == nil {
		prev := q.occupant
		q.occupant = nil
		q.children = &[4]*quadNode{}
		q.childFor(prev).insert(prev, depth+1)
	}
	q.childFor(n).insert(n, depth+1)
}

// childFor returns the quadrant child covering the node's position,
// creating it on demand.
func (q *quadNode) childFor(n *Node) *quadNode {
	half := q.size / 2
	col, row := 0, 0
	if n.X >= q.x+half {
		col = 1
	}
	if n.Y >= q.y+half {
		row = 1
	}
	idx := row*2 + col
	if q.children[idx] == nil {
		q.children[idx] = &quadNode{
			x:    q.x + float64(col)*half,
			y:    q.y + float64(row)*half,
			size: half,
		}
	}
	return q.children[idx]
}

// repulsion returns the approximate repulsive force on n from this region.
func (q *quadNode) repulsion(n *Node, theta, strength float64) (fx, fy float64) {
	if q.mass == 0 || q.occupant == n {
		return 0, 0
	}

	dx := q.comX - n.X
	dy := q.comY - n.Y
	d := math.Hypot(dx, dy)
	if d < minDistance {
		d = minDistance
	}

	// Leaf, or far enough away to treat as one body. A leaf that
	// aggregates bodies coincident with n still yields a zero-direction
	// force, since its center of mass sits on n itself.
	if q.children == nil || q.size/d < theta {
		f := strength * q.mass / (d * d)
		return -dx / d * f, -dy / d * f
	}

	for _, c := range q.children {
		if c == nil {
			continue
		}
		cfx, cfy := c.repulsion(n, theta, strength)
		fx += cfx
		fy += cfy
	}
	return fx, fy
}
