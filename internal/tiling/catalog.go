package tiling

import (
	"math"
	"sort"
)

// SortedDiameters returns the distinct squared diameters d2 = i*i + j*j
// with i ≡ 1+sx and j ≡ 1+sy (mod 2), 0 < i, j < n and d2 <= n, in
// ascending order. Each value is the squared diagonal of a rectangle that an
// anchor of parity class (sx, sy) can carry.
func SortedDiameters(n, sx, sy int) []int {
	seen := make(map[int]struct{})
	for j := 1 + sy; j < n && j*j < n; j += 2 {
		for i := 1 + sx; i < n; i += 2 {
			d2 := i*i + j*j
			if d2 > n {
				break
			}
			seen[d2] = struct{}{}
		}
	}

	out := make([]int, 0, len(seen))
	for d2 := range seen {
		out = append(out, d2)
	}
	sort.Ints(out)
	return out
}

// Catalog holds SortedDiameters for all four parity classes.
type Catalog struct {
	MaxD2   int
	classes [2][2][]int
}

// NewCatalog enumerates the diameters up to maxD2 for every parity class.
func NewCatalog(maxD2 int) *Catalog {
	c := &Catalog{MaxD2: maxD2}
	for sx := 0; sx < 2; sx++ {
		for sy := 0; sy < 2; sy++ {
			c.classes[sx][sy] = SortedDiameters(maxD2, sx, sy)
		}
	}
	return c
}

// Diameters returns the sorted diameters of parity class (sx, sy).
func (c *Catalog) Diameters(sx, sy int) []int {
	return c.classes[sx&1][sy&1]
}

// Contains reports whether d2 is achievable for parity class (sx, sy).
func (c *Catalog) Contains(sx, sy, d2 int) bool {
	ds := c.Diameters(sx, sy)
	i := sort.SearchInts(ds, d2)
	return i < len(ds) && ds[i] == d2
}

// Floor returns the largest diameter of class (sx, sy) not exceeding d2,
// or 0 if there is none.
func (c *Catalog) Floor(sx, sy, d2 int) int {
	ds := c.Diameters(sx, sy)
	i := sort.SearchInts(ds, d2+1)
	if i == 0 {
		return 0
	}
	return ds[i-1]
}

// isqrt returns floor(sqrt(n)) for n >= 0.
func isqrt(n int) int {
	r := int(math.Sqrt(float64(n)))
	for r*r > n {
		r--
	}
	for (r+1)*(r+1) <= n {
		r++
	}
	return r
}
