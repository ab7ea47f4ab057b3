package tiling

import (
	"fmt"
	"strings"
)

// Cell states below zero. Non-negative states are tile indices.
const (
	Outside   = -1
	Uncovered = -2
)

// RadiusConvention selects how the domain circle is compared against a
// cell's squared corner distance jx*jx + jy*jy.
type RadiusConvention int

const (
	// Strict keeps cells with jx*jx + jy*jy < (Rtot*Ndiv)^2.
	Strict RadiusConvention = iota
	// Inclusive keeps cells with jx*jx + jy*jy <= (Rtot*Ndiv)^2.
	Inclusive
)

func (c RadiusConvention) String() string {
	switch c {
	case Strict:
		return "strict"
	case Inclusive:
		return "inclusive"
	default:
		return fmt.Sprintf("RadiusConvention(%d)", int(c))
	}
}

// ParseRadiusConvention parses "strict" or "inclusive".
func ParseRadiusConvention(s string) (RadiusConvention, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "strict":
		return Strict, nil
	case "inclusive":
		return Inclusive, nil
	default:
		return Strict, fmt.Errorf("unknown radius convention %q (want strict or inclusive)", s)
	}
}

// Inside reports whether a squared distance lies inside a circle of squared
// radius r2 under the convention.
func (c RadiusConvention) Inside(d2, r2 int) bool {
	if c == Inclusive {
		return d2 <= r2
	}
	return d2 < r2
}

// Field is the Nax x Nax array of cell states. Cells move from Uncovered to
// a tile index exactly once and never back.
type Field struct {
	n         int
	cells     []int
	eligible  int
	remaining int
	reserved  []bool
}

// NewField creates a field of nax x nax cells. A cell is Uncovered if it
// lies inside the circle of radius rtot*ndiv cells, Outside otherwise.
func NewField(nax, rtot, ndiv int, conv RadiusConvention) *Field {
	f := &Field{n: nax, cells: make([]int, nax*nax), reserved: make([]bool, nax*nax)}
	r2 := (rtot * ndiv) * (rtot * ndiv)
	for jx := 0; jx < nax; jx++ {
		for jy := 0; jy < nax; jy++ {
			if conv.Inside(jx*jx+jy*jy, r2) {
				f.cells[jx*nax+jy] = Uncovered
				f.remaining++
			} else {
				f.cells[jx*nax+jy] = Outside
			}
		}
	}
	f.eligible = f.remaining
	return f
}

// Size returns Nax.
func (f *Field) Size() int {
	return f.n
}

func (f *Field) index(c Cell) (int, bool) {
	if c.X < 0 || c.Y < 0 || c.X >= f.n || c.Y >= f.n {
		return 0, false
	}
	return c.X*f.n + c.Y, true
}

// State returns the state of c. Cells beyond the grid are Outside.
func (f *Field) State(c Cell) int {
	i, ok := f.index(c)
	if !ok {
		return Outside
	}
	return f.cells[i]
}

// Claim assigns every Uncovered cell of cells to tile and returns how many
// cells changed. Cells owned by an earlier tile are left untouched.
func (f *Field) Claim(cells []Cell, tile int) int {
	if tile < 0 {
		panic(fmt.Sprintf("tiling: claim with negative tile index %d", tile))
	}
	n := 0
	for _, c := range cells {
		i, ok := f.index(c)
		if !ok || f.cells[i] != Uncovered {
			continue
		}
		f.cells[i] = tile
		n++
	}
	f.remaining -= n
	return n
}

// Reserve hands cells to tile before the greedy phases start and removes
// them from the eligible set, e.g. the region around the origin that is
// served by a separate series expansion. Reserved cells never anchor a
// tile.
func (f *Field) Reserve(cells []Cell, tile int) int {
	if tile < 0 {
		panic(fmt.Sprintf("tiling: reserve with negative tile index %d", tile))
	}
	n := 0
	for _, c := range cells {
		i, ok := f.index(c)
		if !ok || f.cells[i] != Uncovered {
			continue
		}
		f.cells[i] = tile
		f.reserved[i] = true
		n++
	}
	f.remaining -= n
	f.eligible -= n
	return n
}

// Reserved reports whether c was handed out by Reserve.
func (f *Field) Reserved(c Cell) bool {
	i, ok := f.index(c)
	return ok && f.reserved[i]
}

// CanAnchor reports whether a tile may be anchored in c: the cell lies in
// the domain and was not reserved.
func (f *Field) CanAnchor(c Cell) bool {
	return f.State(c) != Outside && !f.Reserved(c)
}

// CountNaked returns how many of cells are still Uncovered.
func (f *Field) CountNaked(cells []Cell) int {
	n := 0
	for _, c := range cells {
		if i, ok := f.index(c); ok && f.cells[i] == Uncovered {
			n++
		}
	}
	return n
}

// Remaining returns the number of Uncovered cells.
func (f *Field) Remaining() int {
	return f.remaining
}

// Eligible returns the number of cells the greedy phases must cover.
func (f *Field) Eligible() int {
	return f.eligible
}

// Uncovered returns all Uncovered cells with jx >= minX and jy >= minY in
// row-major order (jx outer, jy inner).
func (f *Field) Uncovered(minX, minY int) []Cell {
	var out []Cell
	for jx := minX; jx < f.n; jx++ {
		for jy := minY; jy < f.n; jy++ {
			if f.cells[jx*f.n+jy] == Uncovered {
				out = append(out, Cell{X: jx, Y: jy})
			}
		}
	}
	return out
}

// Rows returns a copy of the states as rows[jx][jy].
func (f *Field) Rows() [][]int {
	rows := make([][]int, f.n)
	for jx := range rows {
		rows[jx] = make([]int, f.n)
		copy(rows[jx], f.cells[jx*f.n:(jx+1)*f.n])
	}
	return rows
}
