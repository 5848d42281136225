// Package layout solves one-dimensional constraint layouts for schematics.
//
// A Graph collects pairwise distance requirements between nodes along a
// single axis. Each requirement is either fixed (the distance is an input)
// or stretchy (the distance is a free unknown the solver determines). Nodes
// that occupy the same physical position are merged with Link. Solve turns
// the surviving constraints into a sparse linear system whose unknowns are
// node positions relative to a reference node plus one unknown per stretchy
// constraint, factorizes it, and back-solves for coordinates.
//
// # Usage
//
//	g := layout.New("horizontal")
//	g.Link("r1.2", "c1.1")
//	if err := g.Add("r1.1", "r1.2", 2, false); err != nil {
//	    return err
//	}
//	if err := g.Add("c1.1", "c1.2", 1.5, true); err != nil {
//	    return err
//	}
//	res, err := g.Solve()
//	if err != nil {
//	    return err
//	}
//	x := res.Positions["c1.2"]
//
// Solved coordinates are normalized so the minimum is exactly 0; Result.Span
// reports the distance between the leftmost and rightmost nodes.
//
// # Caveats
//
// The algorithm is experimental. Stretch unknowns that never receive a
// determining equation during factorization are treated as zero rather than
// optimized, and which unknowns become basic depends on constraint insertion
// order. A poor selection can produce a negative stretch value; this is
// reported as a non-fatal Warning on the Result, not an error.
//
// A Graph is not safe for concurrent use. Callers must serialize Add, Link,
// and Solve.
package layout
