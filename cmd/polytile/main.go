// Command polytile computes the polyomino cover of the first quadrant used to
// pick Taylor-expansion centers for w(z), and writes the centers and the
// cell-to-tile map as C source tables.
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/banshee-data/polytile/internal/fsutil"
	"github.com/banshee-data/polytile/internal/timeutil"
	"github.com/banshee-data/polytile/internal/version"
)

// Exit codes.
const (
	exitOK      = 0
	exitFailure = 1
	exitUsage   = 2
)

// defaultDBPath is the run registry used by the runs and serve commands.
const defaultDBPath = "polytile.db"

type app struct {
	fsys   fsutil.FileSystem
	stdout io.Writer
	stderr io.Writer
	clock  timeutil.Clock
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	a := &app{
		fsys:   fsutil.OSFileSystem{},
		stdout: stdout,
		stderr: stderr,
		clock:  timeutil.RealClock{},
	}
	return a.run(args)
}

func (a *app) run(args []string) int {
	if len(args) < 1 {
		a.printUsage(a.stderr)
		return exitUsage
	}

	command := args[0]
	switch command {
	case "tile":
		return a.handleTile(args[1:])
	case "runs":
		return a.handleRuns(args[1:])
	case "serve":
		return a.handleServe(args[1:])
	case "version":
		fmt.Fprintln(a.stdout, version.String())
		return exitOK
	case "help", "-h", "-help", "--help":
		a.printUsage(a.stdout)
		return exitOK
	default:
		// polytile <table> [ntay] is shorthand for the tile command.
		return a.handleTile(args)
	}
}

func (a *app) printUsage(w io.Writer) {
	fmt.Fprint(w, `polytile - polyomino cover of the first quadrant for w(z) Taylor tables

Usage:
  polytile [tile] [flags] <table> [ntay]
  polytile runs [flags] [run-id]
  polytile serve [flags]
  polytile version

Commands:
  tile       Tile the domain from a diameter table and write the C tables
  runs       List runs recorded in the registry, or show one run
  serve      Serve the run registry over HTTP with the debug console
  version    Show polytile version
  help       Show this help message

Tile flags:
  -config <file>       Tiling config JSON (default: built-in defaults)
  -out <dir>           Output directory, overrides output_dir
  -db <file>           Record the run in this SQLite registry
  -png, -html          Also write a coloured cover map
  -log-level <level>   quiet, ops, diag or trace (default: ops)

Examples:
  polytile d30N20b16.dat 20
  polytile tile -out build -png d30N20b16.dat
  polytile tile -db polytile.db d30N20b16.dat
  polytile runs -db polytile.db
`)
}

// newFlagSet returns a flag set that reports errors instead of exiting.
func (a *app) newFlagSet(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(a.stderr)
	return fs
}

// parseFlags maps a flag parse outcome onto an exit code; ok is false when
// the caller should return code.
func parseFlags(fs *flag.FlagSet, args []string) (code int, ok bool) {
	err := fs.Parse(args)
	switch {
	case err == nil:
		return exitOK, true
	case errors.Is(err, flag.ErrHelp):
		return exitOK, false
	default:
		return exitUsage, false
	}
}

func (a *app) fail(format string, args ...interface{}) int {
	fmt.Fprintf(a.stderr, "polytile: "+format+"\n", args...)
	return exitFailure
}

func (a *app) usageError(usage, format string, args ...interface{}) int {
	fmt.Fprintf(a.stderr, "polytile: "+format+"\n", args...)
	fmt.Fprintf(a.stderr, "usage: %s\n", usage)
	return exitUsage
}

// commandLine renders the invocation for provenance headers.
func commandLine(args []string) string {
	return strings.TrimSpace("polytile " + strings.Join(args, " "))
}
