// Package coloring assigns each tile of a cover map one of a few colours so
// that tiles sharing an edge never get the same one.
package coloring

import (
	"errors"
	"fmt"
	"sort"
)

// DefaultColors is enough for any planar map.
const DefaultColors = 4

// maxSteps bounds the backtracking search.
const maxSteps = 5_000_000

var (
	// ErrNoColoring is returned when no assignment with the requested number
	// of colours exists.
	ErrNoColoring = errors.New("no colouring exists")
	// ErrSearchLimit is returned when the search gives up before finding an
	// assignment or proving there is none.
	ErrSearchLimit = errors.New("colouring search limit reached")
)

// Graph is the undirected adjacency graph of tiles.
type Graph struct {
	adj [][]int
}

// Adjacency builds the graph of a cover map: two tiles are adjacent if they
// own 4-neighbouring cells. Negative entries are outside the domain.
func Adjacency(cover [][]int) *Graph {
	n := 0
	for _, row := range cover {
		for _, t := range row {
			if t+1 > n {
				n = t + 1
			}
		}
	}

	sets := make([]map[int]struct{}, n)
	link := func(a, b int) {
		if a < 0 || b < 0 || a == b {
			return
		}
		if sets[a] == nil {
			sets[a] = make(map[int]struct{})
		}
		if sets[b] == nil {
			sets[b] = make(map[int]struct{})
		}
		sets[a][b] = struct{}{}
		sets[b][a] = struct{}{}
	}
	for jx, row := range cover {
		for jy, t := range row {
			if jy+1 < len(row) {
				link(t, row[jy+1])
			}
			if jx+1 < len(cover) && jy < len(cover[jx+1]) {
				link(t, cover[jx+1][jy])
			}
		}
	}

	g := &Graph{adj: make([][]int, n)}
	for v, set := range sets {
		for w := range set {
			g.adj[v] = append(g.adj[v], w)
		}
		sort.Ints(g.adj[v])
	}
	return g
}

// Len returns the number of vertices.
func (g *Graph) Len() int { return len(g.adj) }

// Neighbors returns the sorted neighbours of v.
func (g *Graph) Neighbors(v int) []int { return g.adj[v] }

// Edges returns the number of undirected edges.
func (g *Graph) Edges() int {
	n := 0
	for _, a := range g.adj {
		n += len(a)
	}
	return n / 2
}

// Color assigns colours 1..m to the vertices in index order, backtracking
// on conflicts. The first colour that fits is always tried first, so the
// result is deterministic.
func (g *Graph) Color(m int) ([]int, error) {
	if m < 1 {
		return nil, fmt.Errorf("need at least one colour, got %d", m)
	}
	colors := make([]int, len(g.adj))
	steps := 0

	var assign func(v int) (bool, error)
	assign = func(v int) (bool, error) {
		if v == len(g.adj) {
			return true, nil
		}
		for c := 1; c <= m; c++ {
			if steps++; steps > maxSteps {
				return false, ErrSearchLimit
			}
			if !g.safe(v, c, colors) {
				continue
			}
			colors[v] = c
			ok, err := assign(v + 1)
			if err != nil || ok {
				return ok, err
			}
			colors[v] = 0
		}
		return false, nil
	}

	ok, err := assign(0)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("%d colours for %d tiles: %w", m, len(g.adj), ErrNoColoring)
	}
	return colors, nil
}

func (g *Graph) safe(v, c int, colors []int) bool {
	for _, w := range g.adj[v] {
		if colors[w] == c {
			return false
		}
	}
	return true
}

// CellColors maps a cover map to per-cell colours; cells outside the domain
// get 0.
func CellColors(cover [][]int, colors []int) [][]int {
	out := make([][]int, len(cover))
	for jx, row := range cover {
		out[jx] = make([]int, len(row))
		for jy, t := range row {
			if t >= 0 && t < len(colors) {
				out[jx][jy] = colors[t]
			}
		}
	}
	return out
}
