package tiling

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPolyominoPattern(t *testing.T) {
	tests := []struct {
		d2, sx, sy int
		want       Pattern
	}{
		{10, 0, 0, Pattern{2, 2}},
		{26, 0, 0, Pattern{2, 4, 4, 2}},
		{50, 0, 0, Pattern{2, 4, 6, 6, 4, 2}},
		{100, 0, 0, Pattern{6, 8, 8, 8, 8, 8, 8, 6}},
		{8, 1, 1, Pattern{1}},
		{20, 1, 1, Pattern{3, 3, 3}},
		{32, 1, 1, Pattern{1, 3, 5, 3, 1}},
		{40, 1, 1, Pattern{3, 5, 5, 5, 3}},
		{5, 1, 0, Pattern{2}},
		{13, 1, 0, Pattern{2, 2, 2}},
		{17, 1, 0, Pattern{2, 4, 2}},
		{25, 1, 0, Pattern{4, 4, 4}},
		{5, 0, 1, Pattern{1, 1}},
		{13, 0, 1, Pattern{3, 3}},
		// Off-catalog squares: a zero-width column still keeps its odd
		// centre cell when sy is odd.
		{4, 0, 1, Pattern{1, 1}},
		{16, 0, 1, Pattern{1, 3, 3, 1}},
		{9, 1, 1, Pattern{1, 1, 1}},
	}
	for _, tt := range tests {
		got := PolyominoPattern(tt.d2, tt.sx, tt.sy)
		assert.Equal(t, tt.want, got, "P[%d][%d][%d]", tt.sx, tt.sy, tt.d2)
	}
}

func TestPolyominoPattern_Empty(t *testing.T) {
	assert.Empty(t, PolyominoPattern(0, 0, 0))
	assert.Empty(t, PolyominoPattern(0, 1, 1))
	assert.Empty(t, PolyominoPattern(2, 0, 0))
}

// Every non-empty pattern of the catalog is symmetric, has len ≡ sx and heights ≡ sy
// (mod 2), and all its cell corners lie inside the circle.
func TestPolyominoPattern_Shape(t *testing.T) {
	c := NewCatalog(400)
	for sx := 0; sx < 2; sx++ {
		for sy := 0; sy < 2; sy++ {
			for _, d2 := range c.Diameters(sx, sy) {
				p := PolyominoPattern(d2, sx, sy)
				if len(p) == 0 {
					// Only the unit square's diagonal is too short to hold a column.
					assert.Equal(t, [3]int{0, 0, 2}, [3]int{sx, sy, d2})
					continue
				}
				assert.Equal(t, sx, len(p)%2, "len P[%d][%d][%d]=%v", sx, sy, d2, p)
				for i, h := range p {
					assert.Equal(t, sy, h%2, "height P[%d][%d][%d]=%v", sx, sy, d2, p)
					assert.Equal(t, h, p[len(p)-1-i], "symmetry P[%d][%d][%d]=%v", sx, sy, d2, p)
				}
				for i, h := range p {
					kx := outerEdge(i, len(p), sx)
					assert.LessOrEqual(t, kx*kx+h*h, d2, "corner of column %d in P[%d][%d][%d]=%v", i, sx, sy, d2, p)
				}
			}
		}
	}
}

// outerEdge returns the distance, in lattice units, from the anchor to the
// far edge of column i of an n-column pattern of x parity sx.
func outerEdge(i, n, sx int) int {
	o := i - n/2
	if sx == 1 {
		if o < 0 {
			o = -o
		}
		return 2*o + 1
	}
	if o < 0 {
		return -2 * o
	}
	return 2*o + 2
}

func TestPatternTable(t *testing.T) {
	c := NewCatalog(50)
	pt := NewPatternTable(c)

	assert.Equal(t, 6, pt.Len(0, 0))
	assert.Equal(t, 4, pt.Len(1, 1))
	assert.Equal(t, Pattern{2, 4, 4, 2}, pt.Pattern(0, 0, 26))
	assert.Equal(t, 0, pt.OffCatalog())

	// 25 is not a sum of two odd squares.
	assert.Equal(t, PolyominoPattern(25, 0, 0), pt.Pattern(0, 0, 25))
	assert.Equal(t, 1, pt.OffCatalog())
	assert.Equal(t, 7, pt.Len(0, 0))

	pt.Pattern(0, 0, 25)
	assert.Equal(t, 1, pt.OffCatalog(), "off-catalog patterns are cached")
}

func TestPattern_Area(t *testing.T) {
	assert.Equal(t, 12, Pattern{2, 4, 4, 2}.Area())
	assert.Equal(t, 0, Pattern(nil).Area())
}
