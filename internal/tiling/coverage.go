package tiling

import (
	"github.com/banshee-data/polytile/internal/diameters"
)

// Cell is a grid cell (jx, jy) of edge 1/Ndiv.
type Cell struct {
	X, Y int
}

// Point is a sub-lattice point (ix, iy) of spacing 1/Nb = 1/(2*Ndiv).
type Point struct {
	X, Y int
}

// Parity returns the parity class (ix mod 2, iy mod 2).
func (p Point) Parity() (sx, sy int) {
	return p.X & 1, p.Y & 1
}

// Anchor returns the grid cell containing the lattice point.
func (p Point) Anchor() Cell {
	return Cell{X: p.X / 2, Y: p.Y / 2}
}

// Resolver maps lattice points to the grid cells their polyomino covers.
type Resolver struct {
	table    *diameters.Table
	patterns *PatternTable
}

// NewResolver creates a Resolver over a diameter table and pattern table.
func NewResolver(table *diameters.Table, patterns *PatternTable) *Resolver {
	return &Resolver{table: table, patterns: patterns}
}

// Resolve returns the cells covered by the pattern anchored at p, in column
// order. Cells with negative coordinates are dropped; cell ownership is not
// consulted. It fails with *DomainError if d2(p) is zero.
func (r *Resolver) Resolve(p Point) ([]Cell, error) {
	d2 := r.table.At(p.X, p.Y)
	if d2 == 0 {
		return nil, &DomainError{Point: p}
	}
	sx, sy := p.Parity()
	pat := r.patterns.Pattern(sx, sy, d2)

	mx, my := p.X/2, p.Y/2
	lx := len(pat)
	cells := make([]Cell, 0, pat.Area())
	for nx, ly := range pat {
		jx := mx + nx - lx/2
		if jx < 0 {
			continue
		}
		for ny := 0; ny < ly; ny++ {
			jy := ny + my - ly/2
			if jy < 0 {
				continue
			}
			cells = append(cells, Cell{X: jx, Y: jy})
		}
	}
	return cells, nil
}

// CoverageTable holds Q(ix, iy) for every non-degenerate lattice point,
// plus the inverse map from cells to the points covering them.
type CoverageTable struct {
	sets     [][][]Cell
	covering map[Cell][]Point
	points   int
}

// NewCoverageTable resolves every lattice point of the table once.
// Degenerate points get no coverage set and never appear as coverers.
func NewCoverageTable(table *diameters.Table, r *Resolver) *CoverageTable {
	c := &CoverageTable{
		sets:     make([][][]Cell, table.Rows()),
		covering: make(map[Cell][]Point),
	}
	for ix := 0; ix < table.Rows(); ix++ {
		c.sets[ix] = make([][]Cell, table.RowLen(ix))
		for iy := range c.sets[ix] {
			if table.At(ix, iy) == 0 {
				continue
			}
			p := Point{X: ix, Y: iy}
			cells, err := r.Resolve(p)
			if err != nil {
				continue
			}
			c.sets[ix][iy] = cells
			c.points++
			for _, cell := range cells {
				c.covering[cell] = append(c.covering[cell], p)
			}
		}
	}
	return c
}

// Cells returns Q(p), or nil for degenerate or absent points.
func (c *CoverageTable) Cells(p Point) []Cell {
	if p.X < 0 || p.X >= len(c.sets) || p.Y < 0 || p.Y >= len(c.sets[p.X]) {
		return nil
	}
	return c.sets[p.X][p.Y]
}

// Covering returns the points whose coverage set contains cell, in lattice
// scan order (ix ascending, then iy ascending).
func (c *CoverageTable) Covering(cell Cell) []Point {
	return c.covering[cell]
}

// Points returns the number of non-degenerate lattice points.
func (c *CoverageTable) Points() int {
	return c.points
}

func containsCell(cells []Cell, target Cell) bool {
	for _, c := range cells {
		if c == target {
			return true
		}
	}
	return false
}
