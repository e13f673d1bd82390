// Package sim computes 2-D positions for a graph via force simulation.
//
// Entities become nodes with a random initial placement inside the canvas;
// relationships become edges resolved against those nodes. An Engine then
// runs a fixed number of iterations combining pairwise repulsion, edge
// attraction, velocity damping, and boundary clamping. Strongly related
// nodes cluster; unrelated nodes spread out.
//
// # Engines
//
// Two engines implement the same contract:
//
//   - BruteForce evaluates every node pair per iteration. Cost is
//     O(n² · iterations), which is fine for tens to low hundreds of nodes
//     and is the reference behavior.
//   - BarnesHut approximates repulsion from distant clusters through a
//     quadtree, trading exact pairwise forces for O(n log n) per iteration.
//
// Both run exactly Config.Iterations steps with no convergence check, so
// cost is deterministic. Given the same initial positions and parameters,
// a run is fully deterministic; the only randomness is the initial
// placement, controlled by the generator passed to NewGraph.
//
// # Numeric safety
//
// Every distance is floored at 1.0 before use as a divisor, so coincident
// nodes contribute zero-direction forces instead of NaN or Inf. An empty
// graph is valid and simulates to an empty result.
//
// # Usage
//
//	rng := rand.New(rand.NewPCG(seed, seed^0x9e3779b9))
//	g := sim.NewGraph(entities, rels, cfg, rng)
//	sim.NewBruteForce(cfg).Run(g)
//	// g.Nodes now hold final positions
package sim
