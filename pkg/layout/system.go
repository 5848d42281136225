package layout

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/schemline/schemline/pkg/observability"
)

// solve builds the linear system for the current constraint set and
// back-solves it into normalized positions.
//
// Unknown columns are, in order: one position offset per canonical node
// except the first-discovered (reference) node, then one stretch magnitude
// per stretchy constraint in insertion order. Each constraint contributes
// one equation: position(to) - position(from) - stretch = size.
func (g *Graph) solve() (*Result, error) {
	// Canonical index table in discovery order. Index 0 is the reference
	// node whose offset is defined as 0 before normalization.
	cmap := make(map[string]int)
	var clist []string
	for _, n := range g.cnodes.Nodes() {
		cn := g.cnodes.Canonical(n)
		if _, ok := cmap[cn]; !ok {
			cmap[cn] = len(clist)
			clist = append(clist, cn)
		}
	}

	nnodes := len(clist)
	if nnodes == 0 {
		return &Result{Positions: make(map[string]float64)}, nil
	}
	if nnodes == 1 {
		// Nothing to solve; every node shares the single position.
		pos := make(map[string]float64, g.cnodes.Len())
		for _, n := range g.cnodes.Nodes() {
			pos[n] = 0
		}
		return &Result{Positions: pos}, nil
	}

	nstretch := 0
	for _, k := range g.store.keys() {
		if c, _ := g.store.get(k); c.Stretch {
			nstretch++
		}
	}

	nunknowns := nnodes - 1 + nstretch
	ncons := g.store.len()
	if ncons == 0 {
		return nil, &UnderdeterminedError{Node: clist[0]}
	}

	// Augmented matrix W = [A | b].
	cols := nunknowns + 1
	W := mat.NewDense(ncons, cols, nil)
	stretchKeys := make([]Key, 0, nstretch)

	for m, k := range g.store.keys() {
		c, _ := g.store.get(k)
		si := cmap[k.From]
		di := cmap[k.To]

		if si != 0 {
			W.Set(m, si-1, -1)
		}
		if di != 0 {
			W.Set(m, di-1, 1)
		}
		if c.Stretch {
			W.Set(m, nnodes-1+len(stretchKeys), -1)
			stretchKeys = append(stretchKeys, k)
		}
		W.Set(m, nunknowns, c.Size)
	}

	g.logger.Debug("built system", "axis", g.axis,
		"constraints", ncons, "unknowns", nunknowns, "stretches", nstretch)

	// Reduce to upper-trapezoidal form with row pivoting. The zero/non-zero
	// diagonal pattern tells us which unknowns received a determining
	// equation.
	rowEchelon(W)

	diag := min(ncons, cols)
	for r := 0; r < nnodes-1; r++ {
		if r >= diag || W.At(r, r) == 0 {
			return nil, &UnderdeterminedError{Node: clist[r]}
		}
	}

	bound := make([]bool, cols)
	nbasic := 0
	for r := 0; r < diag; r++ {
		if W.At(r, r) == 0 {
			continue
		}
		bound[r] = true
		nbasic++
		// Keep pivots positive. Cosmetic only; does not change the solution.
		if W.At(r, r) < 0 {
			for j := r; j < cols; j++ {
				W.Set(r, j, -W.At(r, j))
			}
		}
	}

	observability.Solver().OnFactorized(g.axis, ncons, cols, nbasic)

	// Basic submatrix and right-hand side. Unknowns whose column never got
	// a pivot are left out and implicitly treated as zero.
	basicCols := make([]int, 0, nbasic)
	for j, ok := range bound {
		if ok {
			basicCols = append(basicCols, j)
		}
	}

	Ur := mat.NewDense(nbasic, nbasic, nil)
	br := mat.NewVecDense(nbasic, nil)
	for i := 0; i < nbasic; i++ {
		for j, col := range basicCols {
			Ur.Set(i, j, W.At(i, col))
		}
		br.SetVec(i, W.At(i, nunknowns))
	}

	var xx mat.VecDense
	if err := xx.SolveVec(Ur, br); err != nil {
		var cond mat.Condition
		if !errors.As(err, &cond) {
			return nil, fmt.Errorf("back-substitute %s system: %w", g.axis, err)
		}
		g.logger.Debug("ill-conditioned system", "axis", g.axis, "cond", float64(cond))
	}

	// Negative resolved stretches are reported, not rejected. They usually
	// mean the factorization picked an unfortunate basic variable.
	var warnings []Warning
	for m := nnodes - 1; m < nbasic; m++ {
		v := xx.AtVec(m)
		if v >= 0 {
			continue
		}
		s := basicCols[m] - (nnodes - 1)
		if s < 0 || s >= len(stretchKeys) {
			continue
		}
		warnings = append(warnings, Warning{Key: stretchKeys[s], Value: v})
	}

	// Normalize so the smallest coordinate, the implicit reference 0
	// included, lands at exactly 0.
	minx, maxx := 0.0, 0.0
	for m := 0; m < nnodes-1; m++ {
		v := xx.AtVec(m)
		minx = math.Min(minx, v)
		maxx = math.Max(maxx, v)
	}

	pos := make(map[string]float64, g.cnodes.Len())
	for _, n := range g.cnodes.Nodes() {
		idx := cmap[g.cnodes.Canonical(n)]
		if idx == 0 {
			pos[n] = 0 - minx
		} else {
			pos[n] = xx.AtVec(idx-1) - minx
		}
	}

	return &Result{
		Positions: pos,
		Span:      maxx - minx,
		Warnings:  warnings,
	}, nil
}

// rowEchelon reduces W in place to upper-trapezoidal form using Gaussian
// elimination with partial (row) pivoting, the U factor of an LU
// decomposition with full row permutation. A column whose remaining entries
// are all zero keeps a zero diagonal and elimination moves on; callers
// inspect the diagonal to find unknowns without a determining equation.
func rowEchelon(W *mat.Dense) {
	rows, cols := W.Dims()
	for k := 0; k < min(rows, cols); k++ {
		p := k
		pivAbs := math.Abs(W.At(k, k))
		for i := k + 1; i < rows; i++ {
			if v := math.Abs(W.At(i, k)); v > pivAbs {
				p, pivAbs = i, v
			}
		}
		if pivAbs == 0 {
			continue
		}
		if p != k {
			swapRows(W, k, p)
		}

		piv := W.At(k, k)
		for i := k + 1; i < rows; i++ {
			f := W.At(i, k) / piv
			if f == 0 {
				continue
			}
			W.Set(i, k, 0)
			for j := k + 1; j < cols; j++ {
				W.Set(i, j, W.At(i, j)-f*W.At(k, j))
			}
		}
	}
}

func swapRows(W *mat.Dense, a, b int) {
	_, cols := W.Dims()
	for j := 0; j < cols; j++ {
		va, vb := W.At(a, j), W.At(b, j)
		W.Set(a, j, vb)
		W.Set(b, j, va)
	}
}
