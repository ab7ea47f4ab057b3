package tiling

import (
	"errors"
	"fmt"

	"github.com/banshee-data/polytile/internal/diameters"
)

// Phase identifies the stage of the engine that committed a tile.
type Phase int

const (
	// PhaseOrigin is the bootstrap tile at lattice (0,0).
	PhaseOrigin Phase = iota
	// PhaseYAxis covers the cells of column jx = 0.
	PhaseYAxis
	// PhaseXAxis covers the cells of row jy = 0.
	PhaseXAxis
	// PhaseQuadrant covers the interior jx, jy >= 1.
	PhaseQuadrant

	numPhases
)

func (p Phase) String() string {
	switch p {
	case PhaseOrigin:
		return "origin"
	case PhaseYAxis:
		return "y-axis"
	case PhaseXAxis:
		return "x-axis"
	case PhaseQuadrant:
		return "quadrant"
	default:
		return fmt.Sprintf("Phase(%d)", int(p))
	}
}

// Params is the immutable configuration of one engine run.
type Params struct {
	// Rtot is the radius of the domain, in coarse units.
	Rtot int
	// Nrge is the grid extent in coarse units: 0 <= x, y < Nrge.
	Nrge int
	// OriginRadius is the radius, in cells, of the region around the origin
	// reserved for tile 0: cells with jx*jx + jy*jy < OriginRadius^2.
	OriginRadius int
	// ReferenceOffset places the point from which the quadrant phase orders
	// its targets at (-ReferenceOffset*Ndiv, 0).
	ReferenceOffset int
	// Convention decides whether boundary cells belong to the domain.
	Convention RadiusConvention
}

// DefaultParams returns the parameters of the w(z) cover: |z| < 7 on the
// square 0 <= x, y < 8, with only the origin cell reserved.
func DefaultParams() Params {
	return Params{
		Rtot:            7,
		Nrge:            8,
		OriginRadius:    1,
		ReferenceOffset: 20,
		Convention:      Strict,
	}
}

// Validate checks that the parameters describe a usable domain.
func (p Params) Validate() error {
	if p.Rtot <= 0 {
		return fmt.Errorf("rtot must be positive, got %d", p.Rtot)
	}
	if p.Nrge < p.Rtot {
		return fmt.Errorf("nrge (%d) must be at least rtot (%d)", p.Nrge, p.Rtot)
	}
	if p.OriginRadius < 1 {
		return fmt.Errorf("origin_radius must be at least 1, got %d", p.OriginRadius)
	}
	if p.ReferenceOffset < 0 {
		return fmt.Errorf("reference_offset must be non-negative, got %d", p.ReferenceOffset)
	}
	if p.Convention != Strict && p.Convention != Inclusive {
		return fmt.Errorf("invalid radius convention %v", p.Convention)
	}
	return nil
}

// Step records one committed tile.
type Step struct {
	Phase     Phase
	Tile      int
	Center    Point
	Target    Cell
	Claimed   int
	Remaining int
}

// Result is the outcome of a complete run.
type Result struct {
	Nb   int
	Ndiv int
	Nax  int
	// Centers lists the expansion centers; the index is the tile index.
	Centers []Point
	// Cover holds the owning tile of every cell as Cover[jx][jy],
	// or Outside (-1).
	Cover [][]int
	// Steps lists every committed tile in creation order.
	Steps []Step
	// PerPhase counts the tiles committed by each phase.
	PerPhase [numPhases]int
	Stats    Stats
}

// TileCount returns the number of tiles, including the origin tile.
func (r *Result) TileCount() int {
	return len(r.Centers)
}

// Engine runs the greedy tiling over one diameter table. An Engine is
// single-use: Run mutates its field.
type Engine struct {
	params Params
	table  *diameters.Table
	ndiv   int
	nax    int
	tmax   int

	catalog  *Catalog
	patterns *PatternTable
	coverage *CoverageTable
	field    *Field

	centers []Point
	steps   []Step
	ran     bool
}

// NewEngine validates the inputs and precomputes the pattern and coverage
// tables and the initial field.
func NewEngine(params Params, table *diameters.Table) (*Engine, error) {
	if err := params.Validate(); err != nil {
		return nil, fmt.Errorf("invalid tiling params: %w", err)
	}
	if table == nil || table.Rows() == 0 {
		return nil, errors.New("empty diameter table")
	}
	if table.Nb < 2 || table.Nb%2 != 0 {
		return nil, fmt.Errorf("lattice density must be even, got %d", table.Nb)
	}
	if table.At(0, 0) == 0 {
		opsf("diameter table has d2=0 at the origin; tile 0 is still reserved for the origin")
	}

	e := &Engine{
		params: params,
		table:  table,
		ndiv:   table.Ndiv(),
		tmax:   table.TMax(),
	}
	e.nax = params.Nrge * e.ndiv
	e.catalog = NewCatalog(table.MaxD2())
	e.patterns = NewPatternTable(e.catalog)
	e.coverage = NewCoverageTable(table, NewResolver(table, e.patterns))
	e.field = NewField(e.nax, params.Rtot, e.ndiv, params.Convention)

	if n := e.patterns.OffCatalog(); n > 0 {
		diagf("%d diameters in the table are not achievable for their parity class", n)
	}
	diagf("precomputed coverage for %d lattice points: nax=%d ndiv=%d tmax=%d eligible=%d",
		e.coverage.Points(), e.nax, e.ndiv, e.tmax, e.field.Remaining())
	return e, nil
}

// Field returns the engine's field.
func (e *Engine) Field() *Field { return e.field }

// Coverage returns the precomputed coverage table.
func (e *Engine) Coverage() *CoverageTable { return e.coverage }

// Patterns returns the pattern table.
func (e *Engine) Patterns() *PatternTable { return e.patterns }

// Nax returns the grid size in cells.
func (e *Engine) Nax() int { return e.nax }

// Run places the origin tile and then runs the y-axis, x-axis and quadrant
// phases. It fails with *CompletenessError if any eligible cell is left
// uncovered.
func (e *Engine) Run() (*Result, error) {
	if e.ran {
		return nil, errors.New("engine already ran")
	}
	e.ran = true

	e.bootstrap()

	strategies := []phaseStrategy{
		newAxisStrategy(e, PhaseYAxis),
		newAxisStrategy(e, PhaseXAxis),
		newQuadrantStrategy(e),
	}
	for _, s := range strategies {
		before := len(e.centers)
		if err := e.runPhase(s); err != nil {
			return nil, err
		}
		diagf("%s phase: %d tiles, %d cells left", s.phase(), len(e.centers)-before, e.field.Remaining())
	}

	if e.field.Remaining() > 0 {
		left := e.field.Uncovered(0, 0)
		err := &CompletenessError{
			Phase:     PhaseQuadrant,
			Target:    left[0],
			Remaining: e.field.Remaining(),
			Tiles:     len(e.centers),
		}
		opsf("%v", err)
		return nil, err
	}

	res := &Result{
		Nb:      e.table.Nb,
		Ndiv:    e.ndiv,
		Nax:     e.nax,
		Centers: append([]Point(nil), e.centers...),
		Cover:   e.field.Rows(),
		Steps:   append([]Step(nil), e.steps...),
	}
	for _, s := range e.steps {
		res.PerPhase[s.Phase]++
	}
	res.Stats = ComputeStats(res, e.coverage)
	return res, nil
}

// bootstrap commits tile 0 at the origin and reserves the cells around it.
func (e *Engine) bootstrap() {
	r2 := e.params.OriginRadius * e.params.OriginRadius
	var cells []Cell
	for jx := 0; jx < e.params.OriginRadius && jx < e.nax; jx++ {
		for jy := 0; jy < e.params.OriginRadius && jy < e.nax; jy++ {
			if jx*jx+jy*jy < r2 {
				cells = append(cells, Cell{X: jx, Y: jy})
			}
		}
	}
	origin := Point{}
	e.centers = append(e.centers, origin)
	n := e.field.Reserve(cells, 0)
	e.steps = append(e.steps, Step{
		Phase:     PhaseOrigin,
		Tile:      0,
		Center:    origin,
		Claimed:   n,
		Remaining: e.field.Remaining(),
	})
	tracef("tile 0 at (0,0): reserved %d origin cells", n)
}

// commit appends p as a new center and claims its coverage set.
func (e *Engine) commit(phase Phase, p Point, target Cell) int {
	tile := len(e.centers)
	e.centers = append(e.centers, p)
	n := e.field.Claim(e.coverage.Cells(p), tile)
	e.steps = append(e.steps, Step{
		Phase:     phase,
		Tile:      tile,
		Center:    p,
		Target:    target,
		Claimed:   n,
		Remaining: e.field.Remaining(),
	})
	tracef("tile %d at (%d,%d) [%s]: target (%d,%d) claimed %d, %d left",
		tile, p.X, p.Y, phase, target.X, target.Y, n, e.field.Remaining())
	return n
}
