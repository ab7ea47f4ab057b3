package tiling

import "sort"

// phaseStrategy supplies the two things that differ between the greedy
// phases: which cell to cover next and which lattice points may cover it.
type phaseStrategy interface {
	phase() Phase
	// next returns the next target cell, or false when the phase is done.
	next() (Cell, bool)
	// candidates returns the points to score for target, in scan order.
	candidates(target Cell) []Point
	// required reports whether an uncoverable target is fatal.
	required() bool
}

// runPhase repeatedly picks the candidate covering the target with the most
// uncovered cells and commits it. Ties go to the earliest candidate.
func (e *Engine) runPhase(s phaseStrategy) error {
	for {
		target, ok := s.next()
		if !ok {
			return nil
		}

		var best Point
		bestN := 0
		for _, p := range s.candidates(target) {
			qs := e.coverage.Cells(p)
			if !containsCell(qs, target) {
				continue
			}
			if n := e.field.CountNaked(qs); n > bestN {
				best, bestN = p, n
			}
		}

		if bestN == 0 {
			if !s.required() {
				return nil
			}
			err := &CompletenessError{
				Phase:     s.phase(),
				Target:    target,
				Remaining: e.field.Remaining(),
				Tiles:     len(e.centers),
			}
			opsf("%v", err)
			return err
		}
		e.commit(s.phase(), best, target)
	}
}

// axisStrategy walks one coordinate axis outward from the origin. Candidates
// lie on the same axis in a forward window of 2*tmax lattice points starting
// just past the target cell.
type axisStrategy struct {
	e        *Engine
	ph       Phase
	vertical bool
}

func newAxisStrategy(e *Engine, ph Phase) *axisStrategy {
	return &axisStrategy{e: e, ph: ph, vertical: ph == PhaseYAxis}
}

func (s *axisStrategy) phase() Phase   { return s.ph }
func (s *axisStrategy) required() bool { return false }

func (s *axisStrategy) cell(i int) Cell {
	if s.vertical {
		return Cell{X: 0, Y: i}
	}
	return Cell{X: i, Y: 0}
}

func (s *axisStrategy) point(i int) Point {
	if s.vertical {
		return Point{X: 0, Y: i}
	}
	return Point{X: i, Y: 0}
}

func (s *axisStrategy) next() (Cell, bool) {
	for i := 1; i < s.e.nax; i++ {
		c := s.cell(i)
		switch s.e.field.State(c) {
		case Outside:
			return Cell{}, false
		case Uncovered:
			return c, true
		}
	}
	return Cell{}, false
}

func (s *axisStrategy) candidates(target Cell) []Point {
	j0 := target.Y
	if !s.vertical {
		j0 = target.X
	}
	lo := 2*j0 + 1
	hi := min(2*s.e.nax, 2*j0+2*s.e.tmax+1)

	pts := make([]Point, 0, hi-lo)
	for i := lo; i < hi; i++ {
		p := s.point(i)
		if !s.e.field.CanAnchor(p.Anchor()) || !s.e.table.Has(p.X, p.Y) {
			break
		}
		pts = append(pts, p)
	}
	return pts
}

// quadrantStrategy covers the interior cells jx, jy >= 1, nearest to a
// reference point left of the domain first. The frontier is fixed when the
// phase starts; since cells are never uncovered again, a cursor that skips
// claimed cells yields the same targets as rescanning the field.
type quadrantStrategy struct {
	e        *Engine
	frontier []Cell
	cursor   int
}

func newQuadrantStrategy(e *Engine) *quadrantStrategy {
	cells := e.field.Uncovered(1, 1)
	rx := -e.params.ReferenceOffset * e.ndiv
	dist2 := func(c Cell) int {
		dx := c.X - rx
		return dx*dx + c.Y*c.Y
	}
	sort.SliceStable(cells, func(i, j int) bool {
		return dist2(cells[i]) < dist2(cells[j])
	})
	return &quadrantStrategy{e: e, frontier: cells}
}

func (s *quadrantStrategy) phase() Phase   { return PhaseQuadrant }
func (s *quadrantStrategy) required() bool { return true }

func (s *quadrantStrategy) next() (Cell, bool) {
	for s.cursor < len(s.frontier) {
		c := s.frontier[s.cursor]
		if s.e.field.State(c) == Uncovered {
			return c, true
		}
		s.cursor++
	}
	return Cell{}, false
}

func (s *quadrantStrategy) candidates(target Cell) []Point {
	all := s.e.coverage.Covering(target)
	pts := make([]Point, 0, len(all))
	for _, p := range all {
		if p.X < 1 || p.Y < 1 {
			continue
		}
		if !s.e.field.CanAnchor(p.Anchor()) {
			continue
		}
		pts = append(pts, p)
	}
	return pts
}
