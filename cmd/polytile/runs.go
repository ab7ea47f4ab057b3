package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"path/filepath"

	"github.com/banshee-data/polytile/internal/db"
)

const runsUsage = "polytile runs [-db file] [-limit n] [-json] [run-id]"

func (a *app) handleRuns(args []string) int {
	fs := a.newFlagSet("runs")
	dbPath := fs.String("db", defaultDBPath, "SQLite run registry")
	limit := fs.Int("limit", 20, "Maximum number of runs to list (0 for all)")
	asJSON := fs.Bool("json", false, "Print JSON instead of a table")
	if code, ok := parseFlags(fs, args); !ok {
		return code
	}
	if fs.NArg() > 1 {
		return a.usageError(runsUsage, "expected at most one run id")
	}
	if !a.fsys.Exists(*dbPath) {
		return a.fail("no run registry at %s", *dbPath)
	}

	database, err := db.Open(*dbPath)
	if err != nil {
		return a.fail("%v", err)
	}
	defer database.Close()
	store := db.NewRunStore(database)

	if fs.NArg() == 1 {
		r, err := store.Get(fs.Arg(0))
		if errors.Is(err, db.ErrRunNotFound) {
			return a.fail("run %s not found", fs.Arg(0))
		}
		if err != nil {
			return a.fail("%v", err)
		}
		if err := writeJSON(a.stdout, r); err != nil {
			return a.fail("%v", err)
		}
		return exitOK
	}

	runs, err := store.List(*limit)
	if err != nil {
		return a.fail("%v", err)
	}
	if *asJSON {
		if runs == nil {
			runs = []*db.Run{}
		}
		if err := writeJSON(a.stdout, runs); err != nil {
			return a.fail("%v", err)
		}
		return exitOK
	}
	printRuns(a.stdout, runs)
	return exitOK
}

func writeJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encode json: %w", err)
	}
	return nil
}

// printRuns writes one fixed-width line per run.
func printRuns(w io.Writer, runs []*db.Run) {
	if len(runs) == 0 {
		fmt.Fprintln(w, "no runs recorded")
		return
	}
	fmt.Fprintf(w, "%-36s  %-19s  %5s  %3s  %8s  %5s  %s\n",
		"RUN ID", "CREATED", "TILES", "NB", "MEAN", "EFF", "TABLE")
	for _, r := range runs {
		fmt.Fprintf(w, "%-36s  %-19s  %5d  %3d  %8.2f  %5.3f  %s\n",
			r.RunID, r.Created().Format("2006-01-02 15:04:05"), r.Tiles, r.Nb,
			r.MeanArea, r.Efficiency, filepath.Base(r.TablePath))
	}
}
