// Package render draws a cover map as a PNG image or an interactive HTML
// heatmap.
package render

import (
	"bytes"
	"fmt"
	"image/color"
	"io"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"github.com/banshee-data/polytile/internal/tiling"
)

// Map is what gets drawn: the cover map, the expansion centers and a colour
// per tile (1-based, as produced by the coloring package).
type Map struct {
	Title   string
	Nb      int
	Cover   [][]int
	Centers []tiling.Point
	Colors  []int
}

// NewMap builds a Map from a result and its tile colouring.
func NewMap(title string, res *tiling.Result, colors []int) Map {
	return Map{Title: title, Nb: res.Nb, Cover: res.Cover, Centers: res.Centers, Colors: colors}
}

func (m Map) numColors() int {
	n := 0
	for _, c := range m.Colors {
		if c > n {
			n = c
		}
	}
	return n
}

// cellPlotter fills one square per grid cell in its tile's colour.
type cellPlotter struct {
	m   Map
	pal []color.Color
}

func (cp cellPlotter) cellColor(tile int) color.Color {
	if tile < 0 || tile >= len(cp.m.Colors) {
		return outsideColor
	}
	c := cp.m.Colors[tile]
	if c < 1 || c > len(cp.pal) {
		return outsideColor
	}
	return cp.pal[c-1]
}

// Plot implements plot.Plotter.
func (cp cellPlotter) Plot(c draw.Canvas, plt *plot.Plot) {
	trX, trY := plt.Transforms(&c)
	for jx, row := range cp.m.Cover {
		for jy, tile := range row {
			x0, x1 := trX(float64(jx)), trX(float64(jx+1))
			y0, y1 := trY(float64(jy)), trY(float64(jy+1))
			c.FillPolygon(cp.cellColor(tile), []vg.Point{
				{X: x0, Y: y0}, {X: x1, Y: y0}, {X: x1, Y: y1}, {X: x0, Y: y1},
			})
		}
	}
}

// DataRange implements plot.DataRanger.
func (cp cellPlotter) DataRange() (xmin, xmax, ymin, ymax float64) {
	n := float64(len(cp.m.Cover))
	return 0, n, 0, n
}

// centerXYs places each center in cell units: lattice point (ix, iy) sits at
// (ix/2, iy/2).
func (m Map) centerXYs() plotter.XYs {
	pts := make(plotter.XYs, len(m.Centers))
	for i, c := range m.Centers {
		pts[i] = plotter.XY{X: float64(c.X) / 2, Y: float64(c.Y) / 2}
	}
	return pts
}

// WritePNG renders the map as a square PNG of the given size.
func WritePNG(w io.Writer, m Map, size vg.Length) error {
	if len(m.Cover) == 0 {
		return fmt.Errorf("empty cover map")
	}

	p := plot.New()
	p.Title.Text = m.Title
	p.X.Label.Text = "jx"
	p.Y.Label.Text = "jy"

	p.Add(cellPlotter{m: m, pal: palette(max(m.numColors(), 1))})

	centers, err := plotter.NewScatter(m.centerXYs())
	if err != nil {
		return fmt.Errorf("center scatter: %w", err)
	}
	centers.GlyphStyle.Shape = draw.CircleGlyph{}
	centers.GlyphStyle.Radius = vg.Points(2)
	centers.GlyphStyle.Color = color.Black
	p.Add(centers)
	p.Legend.Add(fmt.Sprintf("centers (%d)", len(m.Centers)), centers)
	p.Legend.Top = true
	p.Legend.XOffs = -10
	p.Legend.YOffs = -10

	wt, err := p.WriterTo(size, size, "png")
	if err != nil {
		return fmt.Errorf("png writer: %w", err)
	}
	if _, err := wt.WriteTo(w); err != nil {
		return fmt.Errorf("write png: %w", err)
	}
	return nil
}

// WriteHTML renders the map as a go-echarts heatmap of tile indices.
func WriteHTML(w io.Writer, m Map) error {
	n := len(m.Cover)
	if n == 0 {
		return fmt.Errorf("empty cover map")
	}

	axis := make([]string, n)
	for i := range axis {
		axis[i] = fmt.Sprint(i)
	}

	data := make([]opts.HeatMapData, 0, n*n)
	maxTile := 0
	for jx, row := range m.Cover {
		for jy, tile := range row {
			if tile < 0 {
				continue
			}
			maxTile = max(maxTile, tile)
			data = append(data, opts.HeatMapData{Value: []interface{}{jx, jy, tile}})
		}
	}

	hm := charts.NewHeatMap()
	hm.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{PageTitle: "Tile map", Width: "900px", Height: "900px"}),
		charts.WithTitleOpts(opts.Title{Title: m.Title, Subtitle: fmt.Sprintf("nb=%d cells=%d tiles=%d", m.Nb, n, len(m.Centers))}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithXAxisOpts(opts.XAxis{Type: "category", Data: axis, Name: "jx", NameLocation: "middle", NameGap: 25}),
		charts.WithYAxisOpts(opts.YAxis{Type: "category", Data: axis, Name: "jy", NameLocation: "middle", NameGap: 30}),
		charts.WithVisualMapOpts(opts.VisualMap{
			Show:       opts.Bool(true),
			Calculable: opts.Bool(true),
			Min:        0,
			Max:        float32(maxTile),
			InRange:    &opts.VisualMapInRange{Color: hexPalette(8)},
		}),
	)
	hm.AddSeries("tiles", data)

	var buf bytes.Buffer
	if err := hm.Render(&buf); err != nil {
		return fmt.Errorf("render heatmap: %w", err)
	}
	_, err := w.Write(buf.Bytes())
	return err
}
