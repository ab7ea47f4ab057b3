// Package emit writes the tiling result as C source tables and a JSON
// manifest describing the expansion centers.
package emit

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/banshee-data/polytile/internal/fsutil"
	"github.com/banshee-data/polytile/internal/monitoring"
	"github.com/banshee-data/polytile/internal/tiling"
)

// Artifact file names.
const (
	CentersFile  = "w_taylor_centers.c"
	CoverFile    = "w_taylor_cover.c"
	ManifestFile = "w_taylor_expansions.json"
)

// Provenance identifies the invocation that produced an artifact.
type Provenance struct {
	Command string
	Time    time.Time
}

// Header returns the provenance comment line that opens each C file.
func (p Provenance) Header() string {
	return fmt.Sprintf("// Created by %s on %s", p.Command, p.Time.Format("2006-01-02 15:04:05.000000"))
}

// Emitter writes the artifacts of one run into a directory.
type Emitter struct {
	fsys fsutil.FileSystem
	dir  string
	ntay int
	prov Provenance
}

// New returns an Emitter writing to dir. ntay is the Taylor order recorded in
// the manifest for the coefficient step.
func New(fsys fsutil.FileSystem, dir string, ntay int, prov Provenance) *Emitter {
	return &Emitter{fsys: fsys, dir: dir, ntay: ntay, prov: prov}
}

// WriteAll writes the centers table, the cover table and the manifest, in
// that order, and returns the paths written.
func (e *Emitter) WriteAll(res *tiling.Result) ([]string, error) {
	writers := []struct {
		name string
		fill func(io.Writer) error
	}{
		{CentersFile, func(w io.Writer) error { return WriteCenters(w, res, e.prov) }},
		{CoverFile, func(w io.Writer) error { return WriteCover(w, res, e.prov) }},
		{ManifestFile, func(w io.Writer) error { return WriteManifest(w, res, e.ntay) }},
	}

	paths := make([]string, 0, len(writers))
	for _, wr := range writers {
		path, err := fsutil.WriteArtifact(e.fsys, e.dir, wr.name, wr.fill)
		if err != nil {
			return paths, err
		}
		monitoring.Logf("wrote %s", path)
		paths = append(paths, path)
	}
	return paths, nil
}

// WriteCenters writes Centers[2*N] as (ix, iy) lattice pairs in tile order.
func WriteCenters(w io.Writer, res *tiling.Result, prov Provenance) error {
	var b strings.Builder
	fmt.Fprintln(&b, prov.Header())
	fmt.Fprintf(&b, "static const int Centers[2*%d] = {\n", len(res.Centers))
	for _, c := range res.Centers {
		fmt.Fprintf(&b, "%3d,%3d,\n", c.X, c.Y)
	}
	b.WriteString("};\n")
	_, err := io.WriteString(w, b.String())
	return err
}

// WriteCover writes Cover[Nax*Nax] with one line per jx and -1 for cells
// outside the domain.
func WriteCover(w io.Writer, res *tiling.Result, prov Provenance) error {
	var b strings.Builder
	fmt.Fprintln(&b, prov.Header())
	fmt.Fprintf(&b, "static const int Cover[%d] = {\n", res.Nax*res.Nax)
	for _, row := range res.Cover {
		for _, t := range row {
			fmt.Fprintf(&b, "%2d,", t)
		}
		b.WriteByte('\n')
	}
	b.WriteString("};\n")
	_, err := io.WriteString(w, b.String())
	return err
}

// Center is one expansion center in lattice and complex-plane coordinates.
type Center struct {
	Tile int     `json:"tile"`
	IX   int     `json:"ix"`
	IY   int     `json:"iy"`
	X    float64 `json:"x"`
	Y    float64 `json:"y"`
	Area int     `json:"area"`
}

// Manifest is the input of the Taylor-coefficient step.
type Manifest struct {
	NTay    int          `json:"ntay"`
	Nb      int          `json:"nb"`
	Ndiv    int          `json:"ndiv"`
	Nax     int          `json:"nax"`
	Centers []Center     `json:"centers"`
	Stats   tiling.Stats `json:"stats"`
}

// NewManifest builds the manifest of a result. Center z = (ix + i*iy)/(2*Ndiv).
func NewManifest(res *tiling.Result, ntay int) Manifest {
	areas := make([]int, len(res.Centers))
	for _, row := range res.Cover {
		for _, t := range row {
			if t >= 0 && t < len(areas) {
				areas[t]++
			}
		}
	}

	m := Manifest{
		NTay:    ntay,
		Nb:      res.Nb,
		Ndiv:    res.Ndiv,
		Nax:     res.Nax,
		Centers: make([]Center, len(res.Centers)),
		Stats:   res.Stats,
	}
	scale := float64(2 * res.Ndiv)
	for i, c := range res.Centers {
		m.Centers[i] = Center{
			Tile: i,
			IX:   c.X,
			IY:   c.Y,
			X:    float64(c.X) / scale,
			Y:    float64(c.Y) / scale,
			Area: areas[i],
		}
	}
	return m
}

// WriteManifest writes the JSON manifest.
func WriteManifest(w io.Writer, res *tiling.Result, ntay int) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(NewManifest(res, ntay)); err != nil {
		return fmt.Errorf("encode manifest: %w", err)
	}
	return nil
}
