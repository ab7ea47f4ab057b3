// Package testutil provides shared test utilities and fixtures.
//
// This package centralises common test helpers to reduce code duplication
// across test files and improve test maintainability.
package testutil

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/banshee-data/polytile/internal/diameters"
)

// AssertStatusCode checks that the response status code matches expected.
func AssertStatusCode(t testing.TB, got, want int) {
	t.Helper()
	if got != want {
		t.Errorf("status code = %d, want %d", got, want)
	}
}

// AssertNoError fails the test if err is not nil.
func AssertNoError(t testing.TB, err error) {
	t.Helper()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

// AssertError fails the test if err is nil.
func AssertError(t testing.TB, err error) {
	t.Helper()
	if err == nil {
		t.Fatal("expected error, got nil")
	}
}

// NewTestRequest creates a test HTTP request.
func NewTestRequest(method, path string) *http.Request {
	return httptest.NewRequest(method, path, nil)
}

// NewTestRecorder creates a test response recorder.
func NewTestRecorder() *httptest.ResponseRecorder {
	return httptest.NewRecorder()
}

// DiskTable builds a diameter table with density nb covering the quarter
// disk |z| <= radius: row ix holds every iy with ix^2+iy^2 <= (radius*nb)^2,
// as the table generator emits it. d2 supplies the value of each point.
func DiskTable(nb, radius int, d2 func(ix, iy int) int) *diameters.Table {
	r := radius * nb
	t := &diameters.Table{Nb: nb}
	for ix := 0; ix <= r; ix++ {
		var row []int
		for iy := 0; ix*ix+iy*iy <= r*r; iy++ {
			row = append(row, d2(ix, iy))
		}
		t.D2 = append(t.D2, row)
	}
	return t
}

// FormatTable renders t in the two-column text format read by
// diameters.Parse, or the three-column format when t carries tau values.
func FormatTable(t *diameters.Table) string {
	var b strings.Builder
	b.WriteString("# synthetic diameter table\n")
	for ix, row := range t.D2 {
		if ix > 0 {
			b.WriteString("\n")
		}
		fmt.Fprintf(&b, "%g\n", float64(ix)/float64(t.Nb))
		for iy, d2 := range row {
			y := float64(iy) / float64(t.Nb)
			if t.Tau != nil {
				fmt.Fprintf(&b, "%10.5g %14.8g %6d\n", y, t.Tau[ix][iy], d2)
			} else {
				fmt.Fprintf(&b, "%10.5g %6d\n", y, d2)
			}
		}
	}
	return b.String()
}
