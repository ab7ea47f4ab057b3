package diameters_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/banshee-data/polytile/internal/diameters"
	"github.com/banshee-data/polytile/internal/fsutil"
	"github.com/banshee-data/polytile/internal/testutil"
)

const twoColumn = `# d2 table, Nb=4
0
0 10
0.25 13
0.5 10

0.25
0 13
0.25 8
`

func TestParse_TwoColumn(t *testing.T) {
	t.Parallel()

	tab, err := diameters.Parse(strings.NewReader(twoColumn))
	require.NoError(t, err)

	assert.Equal(t, 4, tab.Nb)
	assert.Equal(t, 2, tab.Ndiv())
	assert.Equal(t, [][]int{{10, 13, 10}, {13, 8}}, tab.D2)
	assert.Nil(t, tab.Tau)
	assert.Equal(t, 13, tab.MaxD2())
	assert.Equal(t, 4, tab.TMax())
}

func TestParse_ThreeAndFourColumn(t *testing.T) {
	t.Parallel()

	src := "0\n0 0.61 37\n0.0625 0.62 40 7\n\n0.0625\n0 0.6 34\n"
	tab, err := diameters.Parse(strings.NewReader(src))
	require.NoError(t, err)

	assert.Equal(t, 16, tab.Nb)
	assert.Equal(t, [][]int{{37, 40}, {34}}, tab.D2)
	require.NotNil(t, tab.Tau)
	assert.InDelta(t, 0.62, tab.Tau[0][1], 1e-12)
	assert.InDelta(t, 0.6, tab.Tau[1][0], 1e-12)
}

func TestParse_ExtraBlankLines(t *testing.T) {
	t.Parallel()

	src := "\n0\n0 5\n0.5 5\n\n\n\n0.5\n0 5\n\n"
	tab, err := diameters.Parse(strings.NewReader(src))
	require.NoError(t, err)
	assert.Equal(t, 2, tab.Rows())
}

func TestParse_FormatErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		src      string
		wantLine int
		reason   string
	}{
		{"empty", "# nothing\n", 0, "no data blocks"},
		{"bad x", "zero\n0 5\n0.5 5\n", 1, "expected x coordinate"},
		{"first x nonzero", "0.5\n0 5\n0.5 5\n", 1, "x=0"},
		{"single data line", "0\n0 5\n", 1, "two data lines"},
		{"too many fields", "0\n0 5\n0.5 1 2 3 4\n", 3, "unexpected data line"},
		{"one field", "0\n0\n", 2, "unexpected data line"},
		{"bad d2", "0\n0 5\n0.5 five\n", 3, "invalid d2"},
		{"negative d2", "0\n0 5\n0.5 -5\n", 3, "invalid d2"},
		{"odd density", "0\n0 5\n0.333333 5\n", 3, "must be even"},
		{"y spacing", "0\n0 5\n0.5 5\n1.5 5\n", 4, "unexpected y entry"},
		{"x spacing", "0\n0 5\n0.5 5\n\n1.0\n0 5\n", 5, "unexpected x entry"},
		{"column mix", "0\n0 5\n0.5 0.1 5\n", 3, "inconsistent column count"},
		{"bad tau", "0\n0 x 5\n0.5 0.1 5\n", 2, "invalid tau"},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := diameters.Parse(strings.NewReader(tt.src))
			require.Error(t, err)
			assert.True(t, errors.Is(err, diameters.ErrFormat), "want ErrFormat, got %v", err)

			var fe *diameters.FormatError
			require.True(t, errors.As(err, &fe))
			assert.Equal(t, tt.wantLine, fe.Line)
			assert.Contains(t, fe.Error(), tt.reason)
		})
	}
}

func TestParse_RoundTripSynthetic(t *testing.T) {
	t.Parallel()

	want := testutil.DiskTable(16, 1, func(ix, iy int) int { return (ix*7 + iy*3) % 50 })
	got, err := diameters.Parse(strings.NewReader(testutil.FormatTable(want)))
	require.NoError(t, err)

	assert.Equal(t, want.Nb, got.Nb)
	assert.Equal(t, want.D2, got.D2)
}

func TestLoad(t *testing.T) {
	t.Parallel()

	mfs := fsutil.NewMemoryFileSystem()
	require.NoError(t, mfs.WriteFile("/in/d2.dat", []byte(twoColumn), 0644))

	tab, err := diameters.Load(mfs, "/in/d2.dat")
	require.NoError(t, err)
	assert.Equal(t, 2, tab.Rows())

	_, err = diameters.Load(mfs, "/in/missing.dat")
	assert.Error(t, err)

	require.NoError(t, mfs.WriteFile("/in/bad.dat", []byte("0\n0 5\n0.5 x\n"), 0644))
	_, err = diameters.Load(mfs, "/in/bad.dat")
	require.Error(t, err)
	assert.ErrorIs(t, err, diameters.ErrFormat)
	assert.Contains(t, err.Error(), "/in/bad.dat")
}

func TestTable_Accessors(t *testing.T) {
	t.Parallel()

	tab := &diameters.Table{Nb: 4, D2: [][]int{{5, 13}, {8}}}
	assert.True(t, tab.Has(0, 1))
	assert.False(t, tab.Has(1, 1))
	assert.False(t, tab.Has(-1, 0))
	assert.False(t, tab.Has(2, 0))
	assert.Equal(t, 0, tab.At(1, 1))
	assert.Equal(t, 8, tab.At(1, 0))
	assert.Equal(t, 0, tab.RowLen(5))
}
