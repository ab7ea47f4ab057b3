package diameters

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/banshee-data/polytile/internal/fsutil"
)

// ErrFormat is the sentinel matched by every *FormatError.
var ErrFormat = errors.New("malformed diameter table")

// FormatError reports a malformed line in a diameter table.
type FormatError struct {
	Line   int    // 1-based line number in the source
	Text   string // offending line, trimmed
	Reason string
}

func (e *FormatError) Error() string {
	if e.Line == 0 {
		return fmt.Sprintf("diameter table: %s", e.Reason)
	}
	return fmt.Sprintf("diameter table line %d: %s: %q", e.Line, e.Reason, e.Text)
}

// Is makes errors.Is(err, ErrFormat) true for format errors.
func (e *FormatError) Is(target error) bool {
	return target == ErrFormat
}

type line struct {
	num  int
	text string
}

// Load reads and parses the diameter table at path.
func Load(fsys fsutil.FileSystem, path string) (*Table, error) {
	f, err := fsys.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open diameter table: %w", err)
	}
	defer f.Close()

	t, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return t, nil
}

// Parse reads a diameter table.
//
// The input consists of blocks separated by blank lines. Each block starts
// with a line holding the coarse x coordinate, followed by data lines of the
// form "<y> <d2>", "<y> <tau> <d2>" or "<y> <tau> <d2> <index>". Lines starting
// with '#' are ignored. The second data line of the first block fixes the
// sub-lattice density as Nb = round(1/y); every other x and y must then be
// the expected multiple of 1/Nb.
func Parse(r io.Reader) (*Table, error) {
	blocks, err := splitBlocks(r)
	if err != nil {
		return nil, err
	}
	if len(blocks) == 0 {
		return nil, &FormatError{Reason: "no data blocks"}
	}

	t := &Table{}
	withTau := false
	for ix, block := range blocks {
		head := block[0]
		x, err := strconv.ParseFloat(strings.TrimSpace(head.text), 64)
		if err != nil {
			return nil, &FormatError{Line: head.num, Text: head.text, Reason: "expected x coordinate"}
		}
		if ix == 0 {
			if x != 0 {
				return nil, &FormatError{Line: head.num, Text: head.text, Reason: "first block must start at x=0"}
			}
		} else if int(math.Round(float64(t.Nb)*x)) != ix {
			return nil, &FormatError{Line: head.num, Text: head.text, Reason: fmt.Sprintf("unexpected x entry, want x=%d/%d", ix, t.Nb)}
		}

		d2row := make([]int, 0, len(block)-1)
		var taurow []float64
		for iy, l := range block[1:] {
			fields := strings.Fields(l.text)
			var ys, taus, d2s string
			switch len(fields) {
			case 2:
				ys, d2s = fields[0], fields[1]
			case 3, 4:
				ys, taus, d2s = fields[0], fields[1], fields[2]
			default:
				return nil, &FormatError{Line: l.num, Text: l.text, Reason: "unexpected data line"}
			}
			if ix == 0 && iy == 0 {
				withTau = taus != ""
			} else if withTau != (taus != "") {
				return nil, &FormatError{Line: l.num, Text: l.text, Reason: "inconsistent column count"}
			}

			y, err := strconv.ParseFloat(ys, 64)
			if err != nil {
				return nil, &FormatError{Line: l.num, Text: l.text, Reason: "invalid y value"}
			}
			switch {
			case ix == 0 && iy == 0:
			case ix == 0 && iy == 1:
				if y <= 0 {
					return nil, &FormatError{Line: l.num, Text: l.text, Reason: "cannot derive lattice density"}
				}
				t.Nb = int(math.Round(1 / y))
				if t.Nb < 2 || t.Nb%2 != 0 {
					return nil, &FormatError{Line: l.num, Text: l.text, Reason: fmt.Sprintf("lattice density %d must be even", t.Nb)}
				}
			default:
				if int(math.Round(float64(t.Nb)*y)) != iy {
					return nil, &FormatError{Line: l.num, Text: l.text, Reason: fmt.Sprintf("unexpected y entry, want y=%d/%d", iy, t.Nb)}
				}
			}

			d2, err := strconv.Atoi(d2s)
			if err != nil || d2 < 0 {
				return nil, &FormatError{Line: l.num, Text: l.text, Reason: "invalid d2 value"}
			}
			d2row = append(d2row, d2)

			if taus != "" {
				tau, err := strconv.ParseFloat(taus, 64)
				if err != nil {
					return nil, &FormatError{Line: l.num, Text: l.text, Reason: "invalid tau value"}
				}
				taurow = append(taurow, tau)
			}
		}
		if ix == 0 && t.Nb == 0 {
			return nil, &FormatError{Line: head.num, Text: head.text, Reason: "first block needs at least two data lines"}
		}
		t.D2 = append(t.D2, d2row)
		if withTau {
			t.Tau = append(t.Tau, taurow)
		}
	}
	return t, nil
}

// splitBlocks groups non-comment lines into blank-line separated blocks.
func splitBlocks(r io.Reader) ([][]line, error) {
	var blocks [][]line
	var cur []line

	sc := bufio.NewScanner(r)
	num := 0
	for sc.Scan() {
		num++
		text := strings.TrimSpace(sc.Text())
		if strings.HasPrefix(text, "#") {
			continue
		}
		if text == "" {
			if len(cur) > 0 {
				blocks = append(blocks, cur)
				cur = nil
			}
			continue
		}
		cur = append(cur, line{num: num, text: text})
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read diameter table: %w", err)
	}
	if len(cur) > 0 {
		blocks = append(blocks, cur)
	}
	return blocks, nil
}
