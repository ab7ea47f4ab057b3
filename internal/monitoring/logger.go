// Package monitoring holds the shared diagnostic logger and maps a log
// level onto the ops, diag and trace streams used by the other packages.
package monitoring

import (
	"fmt"
	"io"
	"log"
	"strings"
)

// Logf is the package-level diagnostic logger. It defaults to log.Printf but may
// be replaced by SetLogger. Tests or production code can redirect or mute it.
var Logf func(format string, v ...interface{}) = log.Printf

// SetLogger replaces the package logger. Passing nil will set a no-op logger.
func SetLogger(f func(format string, v ...interface{})) {
	if f == nil {
		Logf = func(string, ...interface{}) {}
		return
	}
	Logf = f
}

// Level selects which logging streams are enabled.
type Level int

const (
	// LevelQuiet disables every stream, including Logf.
	LevelQuiet Level = iota
	// LevelOps enables actionable warnings and failures only.
	LevelOps
	// LevelDiag adds phase summaries and precomputation sizes.
	LevelDiag
	// LevelTrace adds one line per committed tile.
	LevelTrace
)

var levelNames = []string{"quiet", "ops", "diag", "trace"}

func (l Level) String() string {
	if l < 0 || int(l) >= len(levelNames) {
		return fmt.Sprintf("Level(%d)", int(l))
	}
	return levelNames[l]
}

// ParseLevel parses a level name.
func ParseLevel(s string) (Level, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for i, name := range levelNames {
		if s == name {
			return Level(i), nil
		}
	}
	return LevelQuiet, fmt.Errorf("unknown log level %q (want one of %s)", s, strings.Join(levelNames, ", "))
}

// LogWriters holds the io.Writers for each logging stream. A nil writer
// disables its stream.
type LogWriters struct {
	Ops   io.Writer
	Diag  io.Writer
	Trace io.Writer
}

// WritersFor routes every stream enabled at level l to w.
func WritersFor(l Level, w io.Writer) LogWriters {
	var lw LogWriters
	if l >= LevelOps {
		lw.Ops = w
	}
	if l >= LevelDiag {
		lw.Diag = w
	}
	if l >= LevelTrace {
		lw.Trace = w
	}
	return lw
}

// LoggerFor returns a Logf replacement writing to w at LevelDiag and above,
// and nil below it. Pass the result to SetLogger.
func LoggerFor(l Level, w io.Writer) func(format string, v ...interface{}) {
	if l < LevelDiag {
		return nil
	}
	return log.New(w, "", log.LstdFlags).Printf
}
