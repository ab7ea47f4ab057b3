package tiling

// Pattern is a polyomino given as column heights. Column nx of a pattern
// anchored at lattice point (ix, iy) covers grid column ix/2 + nx - len/2.
type Pattern []int

// Area returns the number of cells in the pattern.
func (p Pattern) Area() int {
	n := 0
	for _, h := range p {
		n += h
	}
	return n
}

// PolyominoPattern builds the maximal polyomino inscribed in the circle of
// squared diameter d2 around an anchor of parity class (sx, sy).
//
// Distances are in lattice units, i.e. half grid cells. The column whose
// outer edge lies at distance k has height 2*int(dx) + sy with
// dx = sqrt(d2-k*k)/2 - sy/2 truncated toward zero. Odd sx anchors sit in
// the middle of a column, so the k=1 column is the centre and is not
// mirrored; even sx anchors sit on a column boundary and every column comes
// in a mirrored pair.
func PolyominoPattern(d2, sx, sy int) Pattern {
	sx, sy = sx&1, sy&1

	var p Pattern
	for k := 2 - sx; k*k <= d2; k += 2 {
		h := 2*((isqrt(d2-k*k)-sy)/2) + sy
		if h <= 0 {
			continue
		}
		if k > sx {
			p = append(Pattern{h}, p...)
		}
		p = append(p, h)
	}
	return p
}

// PatternTable caches the patterns P[sx][sy][d2].
type PatternTable struct {
	byClass  [2][2]map[int]Pattern
	offCount int
}

// NewPatternTable precomputes the pattern of every catalog entry.
func NewPatternTable(c *Catalog) *PatternTable {
	t := &PatternTable{}
	for sx := 0; sx < 2; sx++ {
		for sy := 0; sy < 2; sy++ {
			ds := c.Diameters(sx, sy)
			m := make(map[int]Pattern, len(ds))
			for _, d2 := range ds {
				m[d2] = PolyominoPattern(d2, sx, sy)
			}
			t.byClass[sx][sy] = m
		}
	}
	return t
}

// Pattern returns P[sx][sy][d2]. Diameters missing from the catalog are
// built on first use and cached.
func (t *PatternTable) Pattern(sx, sy, d2 int) Pattern {
	m := t.byClass[sx&1][sy&1]
	if p, ok := m[d2]; ok {
		return p
	}
	p := PolyominoPattern(d2, sx, sy)
	m[d2] = p
	t.offCount++
	return p
}

// Len returns the number of cached patterns of class (sx, sy).
func (t *PatternTable) Len(sx, sy int) int {
	return len(t.byClass[sx&1][sy&1])
}

// OffCatalog returns how many patterns were built for diameters that are
// not achievable for their parity class.
func (t *PatternTable) OffCatalog() int {
	return t.offCount
}
