// Package diameters loads the diameter table that drives the tiling engine.
//
// The table gives, for every point of the sub-lattice (spacing 1/Nb), the
// squared diameter d2 of the largest polyomino that may be anchored there.
// Rows are indexed by the lattice x index and may have different lengths:
// points outside the computation domain are simply absent.
package diameters

import "math"

// Table holds squared diameters d2(ix, iy) on the sub-lattice.
type Table struct {
	// Nb is the sub-lattice density (lattice points per unit length).
	Nb int
	// D2 holds the squared diameters, indexed D2[ix][iy].
	D2 [][]int
	// Tau holds the optional tau column of the three-column format.
	// It is nil when the source used the two-column format.
	Tau [][]float64
}

// Rows returns the number of lattice x indices present in the table.
func (t *Table) Rows() int {
	return len(t.D2)
}

// RowLen returns the number of lattice y indices present for row ix.
func (t *Table) RowLen(ix int) int {
	if ix < 0 || ix >= len(t.D2) {
		return 0
	}
	return len(t.D2[ix])
}

// Has reports whether lattice point (ix, iy) is present in the table.
func (t *Table) Has(ix, iy int) bool {
	return iy >= 0 && iy < t.RowLen(ix)
}

// At returns d2(ix, iy), or 0 for points that are absent from the table.
// Absent points are treated like degenerate ones.
func (t *Table) At(ix, iy int) int {
	if !t.Has(ix, iy) {
		return 0
	}
	return t.D2[ix][iy]
}

// MaxD2 returns the largest squared diameter in the table.
func (t *Table) MaxD2() int {
	max := 0
	for _, row := range t.D2 {
		for _, d2 := range row {
			if d2 > max {
				max = d2
			}
		}
	}
	return max
}

// TMax returns the half-width of the forward search window used by the
// axis phases, in lattice units: floor(sqrt(MaxD2)) + 1.
func (t *Table) TMax() int {
	return int(math.Sqrt(float64(t.MaxD2()))) + 1
}

// Ndiv returns the number of grid cells per unit length (Nb/2).
func (t *Table) Ndiv() int {
	return t.Nb / 2
}
