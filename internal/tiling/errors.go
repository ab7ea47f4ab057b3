package tiling

import (
	"errors"
	"fmt"
)

var (
	// ErrDomain is matched by *DomainError.
	ErrDomain = errors.New("degenerate expansion point")
	// ErrIncomplete is matched by *CompletenessError.
	ErrIncomplete = errors.New("incomplete tiling")
)

// DomainError reports an attempt to resolve coverage around a lattice point
// whose squared diameter is zero. Callers must never present such a point.
type DomainError struct {
	Point Point
}

func (e *DomainError) Error() string {
	return fmt.Sprintf("cannot add an expansion around degenerate point (%d,%d): d2=0", e.Point.X, e.Point.Y)
}

// Is makes errors.Is(err, ErrDomain) true.
func (e *DomainError) Is(target error) bool {
	return target == ErrDomain
}

// CompletenessError reports that the engine stopped with cells still
// uncovered. The output map is meaningless in that case.
type CompletenessError struct {
	Phase     Phase
	Target    Cell // first cell no candidate could cover
	Remaining int  // uncovered cells left in the field
	Tiles     int  // tiles committed before giving up
}

func (e *CompletenessError) Error() string {
	return fmt.Sprintf("tiling incomplete after %d tiles: %d cells uncovered, no candidate covers cell (%d,%d) in %s phase",
		e.Tiles, e.Remaining, e.Target.X, e.Target.Y, e.Phase)
}

// Is makes errors.Is(err, ErrIncomplete) true.
func (e *CompletenessError) Is(target error) bool {
	return target == ErrIncomplete
}
