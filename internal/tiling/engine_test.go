package tiling

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/banshee-data/polytile/internal/diameters"
	"github.com/banshee-data/polytile/internal/testutil"
)

// uniformTable returns a quarter-disk table where every point carries the
// largest diameter of its parity class not exceeding max.
func uniformTable(nb, radius, max int) *diameters.Table {
	c := NewCatalog(400)
	return testutil.DiskTable(nb, radius, func(ix, iy int) int {
		return c.Floor(ix&1, iy&1, max)
	})
}

func runEngine(t *testing.T, p Params, tab *diameters.Table) (*Engine, *Result) {
	t.Helper()
	e, err := NewEngine(p, tab)
	require.NoError(t, err)
	res, err := e.Run()
	require.NoError(t, err)
	return e, res
}

// checkResult verifies the properties every complete tiling must have.
func checkResult(t *testing.T, e *Engine, res *Result) {
	t.Helper()

	assert.Equal(t, 0, e.Field().Remaining())
	require.Len(t, res.Cover, res.Nax)
	assert.Equal(t, 0, res.Cover[0][0], "origin cell belongs to tile 0")
	assert.Equal(t, Point{}, res.Centers[0])

	for jx, row := range res.Cover {
		for jy, tile := range row {
			c := Cell{jx, jy}
			if tile == Outside {
				continue
			}
			require.Less(t, tile, res.TileCount(), "cell %v", c)
			if tile == 0 {
				continue
			}
			assert.Contains(t, e.Coverage().Cells(res.Centers[tile]), c,
				"cell %v owned by tile %d outside its polyomino", c, tile)
		}
	}

	for i, p := range res.Centers[1:] {
		tile := i + 1
		assert.NotEqual(t, Outside, res.Cover[p.X/2][p.Y/2], "tile %d anchored outside the domain", tile)
		assert.False(t, e.Field().Reserved(p.Anchor()), "tile %d anchored in a reserved cell", tile)
		sx, sy := p.Parity()
		pat := e.Patterns().Pattern(sx, sy, e.table.At(p.X, p.Y))
		assert.Equal(t, sx, len(pat)%2)
	}

	require.Len(t, res.Steps, res.TileCount())
	prev := res.Steps[0].Remaining
	for _, s := range res.Steps[1:] {
		assert.GreaterOrEqual(t, s.Claimed, 1, "tile %d claimed nothing", s.Tile)
		assert.Equal(t, prev-s.Claimed, s.Remaining, "tile %d", s.Tile)
		prev = s.Remaining
	}
	assert.Equal(t, 0, prev)

	total := 0
	for _, n := range res.PerPhase {
		total += n
	}
	assert.Equal(t, res.TileCount(), total)
	assert.Equal(t, 1, res.PerPhase[PhaseOrigin])
}

func TestEngine_SmallGolden(t *testing.T) {
	tab := uniformTable(4, 2, 20)
	e, res := runEngine(t, Params{Rtot: 2, Nrge: 3, OriginRadius: 1, ReferenceOffset: 20}, tab)
	checkResult(t, e, res)

	assert.Equal(t, 4, res.Nb)
	assert.Equal(t, 2, res.Ndiv)
	assert.Equal(t, 6, res.Nax)
	assert.Equal(t, []Point{{0, 0}, {0, 5}, {5, 0}, {5, 5}}, res.Centers)

	want := [][]int{
		{0, 1, 1, 1, -1, -1},
		{2, 3, 1, 3, -1, -1},
		{2, 2, 3, 3, -1, -1},
		{2, 3, 3, -1, -1, -1},
		{-1, -1, -1, -1, -1, -1},
		{-1, -1, -1, -1, -1, -1},
	}
	if diff := cmp.Diff(want, res.Cover); diff != "" {
		t.Errorf("cover mismatch (-want +got):\n%s", diff)
	}

	wantSteps := []Step{
		{Phase: PhaseOrigin, Tile: 0, Claimed: 1, Remaining: 14},
		{Phase: PhaseYAxis, Tile: 1, Center: Point{0, 5}, Target: Cell{0, 1}, Claimed: 4, Remaining: 10},
		{Phase: PhaseXAxis, Tile: 2, Center: Point{5, 0}, Target: Cell{1, 0}, Claimed: 4, Remaining: 6},
	}
	if diff := cmp.Diff(wantSteps, res.Steps[:3]); diff != "" {
		t.Errorf("steps mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, PhaseQuadrant, res.Steps[3].Phase)
	assert.Equal(t, 6, res.Steps[3].Claimed)
	assert.Equal(t, [numPhases]int{1, 1, 1, 1}, res.PerPhase)
}

func TestEngine_MediumGolden(t *testing.T) {
	tab := uniformTable(8, 3, 40)
	e, res := runEngine(t, Params{Rtot: 3, Nrge: 4, OriginRadius: 1, ReferenceOffset: 20}, tab)
	checkResult(t, e, res)

	want := []Point{
		{0, 0}, {0, 7}, {0, 17}, {0, 23}, {7, 0}, {17, 0}, {23, 0},
		{5, 7}, {7, 15}, {9, 19}, {13, 7}, {17, 13}, {10, 19}, {19, 7},
	}
	if diff := cmp.Diff(want, res.Centers); diff != "" {
		t.Errorf("centers mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, [numPhases]int{1, 3, 3, 7}, res.PerPhase)
}

func TestEngine_OriginRadius(t *testing.T) {
	tab := uniformTable(8, 3, 40)
	e, res := runEngine(t, Params{Rtot: 3, Nrge: 4, OriginRadius: 3, ReferenceOffset: 20}, tab)
	checkResult(t, e, res)

	// Every cell of the 3x3 corner has jx^2+jy^2 < 9.
	for jx := 0; jx < 3; jx++ {
		for jy := 0; jy < 3; jy++ {
			assert.Equal(t, 0, res.Cover[jx][jy], "cell (%d,%d)", jx, jy)
		}
	}
	assert.NotEqual(t, 0, res.Cover[0][3])
	assert.Equal(t, 9, res.Steps[0].Claimed)
	assert.Equal(t, e.Field().Eligible(), res.Steps[0].Remaining)
	assert.Equal(t, 13, res.TileCount())
}

func TestEngine_InclusiveConvention(t *testing.T) {
	tab := uniformTable(4, 3, 20)
	p := Params{Rtot: 3, Nrge: 4, OriginRadius: 1, ReferenceOffset: 20}

	e, strict := runEngine(t, p, tab)
	checkResult(t, e, strict)
	assert.Equal(t, 9, strict.TileCount())
	assert.Equal(t, Outside, strict.Cover[0][6])

	p.Convention = Inclusive
	e, incl := runEngine(t, p, tab)
	checkResult(t, e, incl)
	assert.Equal(t, 8, incl.TileCount())
	assert.NotEqual(t, Outside, incl.Cover[0][6])
	assert.NotEqual(t, Outside, incl.Cover[6][0])
}

func TestEngine_DefaultDomain(t *testing.T) {
	tab := uniformTable(16, 7, 400)
	e, res := runEngine(t, DefaultParams(), tab)
	checkResult(t, e, res)

	assert.Equal(t, 64, res.Nax)
	assert.Equal(t, 23, res.TileCount())
	assert.Equal(t, []Point{{0, 0}, {0, 21}, {0, 59}, {0, 93}, {21, 0}}, res.Centers[:5])
	assert.Equal(t, Outside, res.Cover[63][63])
}

func TestEngine_VaryingDiameters(t *testing.T) {
	c := NewCatalog(400)
	tab := testutil.DiskTable(16, 7, func(ix, iy int) int {
		return c.Floor(ix&1, iy&1, min(400, 20+(ix*ix+iy*iy)/32))
	})
	e, res := runEngine(t, DefaultParams(), tab)
	checkResult(t, e, res)
	assert.Equal(t, 64, res.TileCount())
}

func TestEngine_SkipsReservedAnchors(t *testing.T) {
	// Point (1,1) anchors in the reserved origin cell. A large polyomino
	// there would out-score its neighbours if the reservation were ignored.
	c := NewCatalog(400)
	tab := testutil.DiskTable(16, 7, func(ix, iy int) int {
		if ix == 1 && iy == 1 {
			return c.Floor(1, 1, 200)
		}
		return c.Floor(ix&1, iy&1, 40)
	})
	e, res := runEngine(t, DefaultParams(), tab)
	checkResult(t, e, res)

	for i, p := range res.Centers[1:] {
		assert.False(t, e.Field().Reserved(p.Anchor()), "tile %d centered at %v", i+1, p)
	}
	assert.NotContains(t, res.Centers, Point{1, 1})
	assert.Equal(t, 167, res.TileCount())
}

func TestEngine_Deterministic(t *testing.T) {
	tab := uniformTable(16, 7, 100)

	_, first := runEngine(t, DefaultParams(), tab)
	_, second := runEngine(t, DefaultParams(), tab)

	if diff := cmp.Diff(first, second); diff != "" {
		t.Errorf("runs differ (-first +second):\n%s", diff)
	}
	assert.Equal(t, 73, first.TileCount())
}

func TestEngine_Incomplete(t *testing.T) {
	// The table stops at |z| = 6 with small polyominoes, so cells near the
	// rim of the |z| < 7 domain have no candidate.
	tab := uniformTable(16, 6, 13)
	e, err := NewEngine(DefaultParams(), tab)
	require.NoError(t, err)

	res, err := e.Run()
	require.Error(t, err)
	assert.Nil(t, res)
	assert.True(t, errors.Is(err, ErrIncomplete))

	var ce *CompletenessError
	require.True(t, errors.As(err, &ce))
	assert.Equal(t, PhaseQuadrant, ce.Phase)
	assert.Equal(t, e.Field().Remaining(), ce.Remaining)
	assert.Greater(t, ce.Remaining, 0)
	assert.Equal(t, Uncovered, e.Field().State(ce.Target))
	assert.Contains(t, err.Error(), "quadrant phase")
}

func TestEngine_SingleUse(t *testing.T) {
	e, err := NewEngine(Params{Rtot: 2, Nrge: 3, OriginRadius: 1}, uniformTable(4, 2, 20))
	require.NoError(t, err)
	_, err = e.Run()
	require.NoError(t, err)

	_, err = e.Run()
	assert.EqualError(t, err, "engine already ran")
}

func TestNewEngine_Errors(t *testing.T) {
	good := Params{Rtot: 2, Nrge: 3, OriginRadius: 1}

	_, err := NewEngine(good, nil)
	assert.Error(t, err)

	_, err = NewEngine(good, &diameters.Table{Nb: 4})
	assert.Error(t, err)

	_, err = NewEngine(good, &diameters.Table{Nb: 3, D2: [][]int{{5, 5}}})
	assert.ErrorContains(t, err, "must be even")

	_, err = NewEngine(Params{Rtot: 0, Nrge: 3, OriginRadius: 1}, uniformTable(4, 2, 20))
	assert.ErrorContains(t, err, "invalid tiling params")
}

func TestParams_Validate(t *testing.T) {
	assert.NoError(t, DefaultParams().Validate())

	tests := []struct {
		name   string
		mutate func(*Params)
		want   string
	}{
		{"rtot", func(p *Params) { p.Rtot = -1 }, "rtot must be positive"},
		{"nrge", func(p *Params) { p.Nrge = 6 }, "nrge (6) must be at least rtot (7)"},
		{"origin", func(p *Params) { p.OriginRadius = 0 }, "origin_radius"},
		{"offset", func(p *Params) { p.ReferenceOffset = -3 }, "reference_offset"},
		{"convention", func(p *Params) { p.Convention = RadiusConvention(5) }, "radius convention"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := DefaultParams()
			tt.mutate(&p)
			assert.ErrorContains(t, p.Validate(), tt.want)
		})
	}
}

func TestPhase_String(t *testing.T) {
	assert.Equal(t, "origin", PhaseOrigin.String())
	assert.Equal(t, "y-axis", PhaseYAxis.String())
	assert.Equal(t, "x-axis", PhaseXAxis.String())
	assert.Equal(t, "quadrant", PhaseQuadrant.String())
	assert.Equal(t, "Phase(9)", Phase(9).String())
}

func TestComputeStats(t *testing.T) {
	tab := uniformTable(4, 2, 20)
	_, res := runEngine(t, Params{Rtot: 2, Nrge: 3, OriginRadius: 1, ReferenceOffset: 20}, tab)

	s := res.Stats
	assert.Equal(t, 4, s.Tiles)
	assert.Equal(t, 14, s.Covered)
	assert.InDelta(t, 14.0/3, s.MeanArea, 1e-9)
	assert.InDelta(t, 1.1547005, s.StdArea, 1e-6)
	assert.Equal(t, 4.0, s.MinArea)
	assert.Equal(t, 6.0, s.MaxArea)
	assert.Greater(t, s.Efficiency, 0.0)
	assert.LessOrEqual(t, s.Efficiency, 1.0)
}

func TestComputeStats_SingleGreedyTile(t *testing.T) {
	r := &Result{
		Centers: []Point{{0, 0}, {1, 1}},
		Cover:   [][]int{{0, 1}, {1, 1}},
	}
	tab := smallTable()
	ct := NewCoverageTable(tab, NewResolver(tab, NewPatternTable(NewCatalog(tab.MaxD2()))))

	s := ComputeStats(r, ct)
	assert.Equal(t, 3, s.Covered)
	assert.Equal(t, 3.0, s.MeanArea)
	assert.Equal(t, 0.0, s.StdArea)
	assert.InDelta(t, 0.75, s.Efficiency, 1e-12)

	assert.Equal(t, Stats{Tiles: 1}, ComputeStats(&Result{Centers: []Point{{}}}, ct))
}
