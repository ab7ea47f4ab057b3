package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strconv"
	"time"

	"gonum.org/v1/plot/vg"

	"github.com/banshee-data/polytile/internal/coloring"
	"github.com/banshee-data/polytile/internal/config"
	"github.com/banshee-data/polytile/internal/db"
	"github.com/banshee-data/polytile/internal/diameters"
	"github.com/banshee-data/polytile/internal/emit"
	"github.com/banshee-data/polytile/internal/fsutil"
	"github.com/banshee-data/polytile/internal/monitoring"
	"github.com/banshee-data/polytile/internal/render"
	"github.com/banshee-data/polytile/internal/tiling"
)

// Map artifact names.
const (
	mapPNGFile  = "w_taylor_map.png"
	mapHTMLFile = "w_taylor_map.html"
)

const tileUsage = "polytile [tile] [flags] <table> [ntay]"

// tileOptions are the per-invocation switches of the tile command.
type tileOptions struct {
	tablePath string
	dbPath    string
	png       bool
	html      bool
	command   string
}

// tileOutcome is what one tile invocation produced.
type tileOutcome struct {
	paths []string
	runID string
}

func (a *app) handleTile(args []string) int {
	fs := a.newFlagSet("tile")
	configPath := fs.String("config", "", "Tiling config JSON (default: built-in defaults)")
	outDir := fs.String("out", "", "Output directory (overrides output_dir)")
	dbPath := fs.String("db", "", "Record the run in this SQLite registry")
	writePNG := fs.Bool("png", false, "Also write "+mapPNGFile)
	writeHTML := fs.Bool("html", false, "Also write "+mapHTMLFile)
	logLevel := fs.String("log-level", "ops", "Log level: quiet, ops, diag, trace")
	if code, ok := parseFlags(fs, args); !ok {
		return code
	}

	if fs.NArg() < 1 || fs.NArg() > 2 {
		return a.usageError(tileUsage, "expected a diameter table and an optional expansion order")
	}
	level, err := monitoring.ParseLevel(*logLevel)
	if err != nil {
		return a.usageError(tileUsage, "%v", err)
	}

	cfg := config.DefaultTilingConfig()
	if *configPath != "" {
		loaded, err := config.LoadTilingConfig(a.fsys, *configPath)
		if err != nil {
			return a.fail("%v", err)
		}
		cfg.Merge(loaded)
	}
	if fs.NArg() == 2 {
		ntay, err := strconv.Atoi(fs.Arg(1))
		if err != nil || ntay < 1 {
			return a.usageError(tileUsage, "invalid expansion order %q", fs.Arg(1))
		}
		cfg.NTay = &ntay
	}
	if *outDir != "" {
		cfg.OutputDir = outDir
	}
	if err := cfg.Validate(); err != nil {
		return a.fail("invalid configuration: %v", err)
	}

	lw := monitoring.WritersFor(level, a.stderr)
	tiling.SetLogWriters(lw.Ops, lw.Diag, lw.Trace)
	monitoring.SetLogger(monitoring.LoggerFor(level, a.stderr))

	out, err := a.tile(cfg, tileOptions{
		tablePath: fs.Arg(0),
		dbPath:    *dbPath,
		png:       *writePNG,
		html:      *writeHTML,
		command:   commandLine(args),
	})
	if err != nil {
		return a.fail("%v", err)
	}

	for _, p := range out.paths {
		fmt.Fprintf(a.stdout, "wrote %s\n", p)
	}
	if out.runID != "" {
		fmt.Fprintf(a.stdout, "recorded run %s\n", out.runID)
	}
	return exitOK
}

// tile runs the engine on one table and writes every requested artifact.
func (a *app) tile(cfg *config.TilingConfig, opts tileOptions) (*tileOutcome, error) {
	start := a.clock.Now()
	table, err := diameters.Load(a.fsys, opts.tablePath)
	if err != nil {
		return nil, err
	}
	params, err := cfg.Params()
	if err != nil {
		return nil, err
	}

	eng, err := tiling.NewEngine(params, table)
	if err != nil {
		return nil, err
	}
	res, err := eng.Run()
	if err != nil {
		var ce *tiling.CompletenessError
		if errors.As(err, &ce) {
			fmt.Fprintf(a.stdout, "%d tiles placed before failure\n", ce.Tiles)
		}
		return nil, err
	}
	monitoring.Logf("tiled %s in %s", opts.tablePath, a.clock.Since(start))
	fmt.Fprintf(a.stdout, "%d tiles (origin %d, y-axis %d, x-axis %d, quadrant %d)\n",
		res.TileCount(),
		res.PerPhase[tiling.PhaseOrigin], res.PerPhase[tiling.PhaseYAxis],
		res.PerPhase[tiling.PhaseXAxis], res.PerPhase[tiling.PhaseQuadrant])

	dir := cfg.GetOutputDir()
	prov := emit.Provenance{Command: opts.command, Time: start}
	paths, err := emit.New(a.fsys, dir, cfg.GetNTay(), prov).WriteAll(res)
	out := &tileOutcome{paths: paths}
	if err != nil {
		return out, err
	}

	colors, err := coloring.Adjacency(res.Cover).Color(cfg.GetColors())
	if err != nil {
		if opts.png || opts.html {
			return out, fmt.Errorf("colour cover map: %w", err)
		}
		monitoring.Logf("skipping tile colouring: %v", err)
	}

	m := render.NewMap(filepath.Base(opts.tablePath), res, colors)
	if opts.png {
		p, err := fsutil.WriteArtifact(a.fsys, dir, mapPNGFile, func(w io.Writer) error {
			return render.WritePNG(w, m, 8*vg.Inch)
		})
		if err != nil {
			return out, err
		}
		out.paths = append(out.paths, p)
	}
	if opts.html {
		p, err := fsutil.WriteArtifact(a.fsys, dir, mapHTMLFile, func(w io.Writer) error {
			return render.WriteHTML(w, m)
		})
		if err != nil {
			return out, err
		}
		out.paths = append(out.paths, p)
	}

	if opts.dbPath != "" {
		id, err := recordRun(opts.dbPath, cfg, opts.tablePath, res, colors, start)
		if err != nil {
			return out, err
		}
		out.runID = id
	}
	return out, nil
}

// recordRun stores a finished run in the registry at path.
func recordRun(path string, cfg *config.TilingConfig, tablePath string, res *tiling.Result, colors []int, created time.Time) (string, error) {
	database, err := db.Open(path)
	if err != nil {
		return "", err
	}
	defer database.Close()

	manifest := emit.NewManifest(res, cfg.GetNTay())
	centersJSON, err := json.Marshal(manifest.Centers)
	if err != nil {
		return "", fmt.Errorf("encode centers: %w", err)
	}
	statsJSON, err := json.Marshal(res.Stats)
	if err != nil {
		return "", fmt.Errorf("encode stats: %w", err)
	}

	used := 0
	for _, c := range colors {
		if c > used {
			used = c
		}
	}

	r := &db.Run{
		CreatedAt:        created.UnixNano(),
		TablePath:        tablePath,
		OutputDir:        cfg.GetOutputDir(),
		Nb:               res.Nb,
		Ndiv:             res.Ndiv,
		Nax:              res.Nax,
		Rtot:             cfg.GetRtot(),
		Nrge:             cfg.GetNrge(),
		OriginRadius:     cfg.GetOriginRadius(),
		ReferenceOffset:  cfg.GetReferenceOffset(),
		RadiusConvention: cfg.GetRadiusConvention(),
		NTay:             cfg.GetNTay(),
		Tiles:            res.TileCount(),
		Colors:           used,
		MeanArea:         res.Stats.MeanArea,
		StdArea:          res.Stats.StdArea,
		Efficiency:       res.Stats.Efficiency,
		CentersJSON:      centersJSON,
		StatsJSON:        statsJSON,
	}
	if err := db.NewRunStore(database).Insert(r); err != nil {
		return "", err
	}
	return r.RunID, nil
}
