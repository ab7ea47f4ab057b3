package tiling

import (
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Stats summarises the quality of a tiling.
type Stats struct {
	Tiles    int     `json:"tiles"`
	Covered  int     `json:"covered_cells"`
	MeanArea float64 `json:"mean_area"`
	StdArea  float64 `json:"std_area"`
	MinArea  float64 `json:"min_area"`
	MaxArea  float64 `json:"max_area"`
	// Efficiency is the share of the greedy tiles' polyomino cells that
	// ended up owned by them; 1 means no overlap and no spill outside.
	Efficiency float64 `json:"efficiency"`
}

// ComputeStats derives tile-area statistics from a finished result. The
// origin tile is excluded: its area is fixed by the reserved region.
func ComputeStats(r *Result, coverage *CoverageTable) Stats {
	s := Stats{Tiles: len(r.Centers)}
	if len(r.Centers) < 2 {
		return s
	}

	areas := make([]float64, len(r.Centers))
	for _, row := range r.Cover {
		for _, t := range row {
			if t >= 0 {
				areas[t]++
			}
		}
	}
	greedy := areas[1:]
	s.Covered = int(floats.Sum(greedy))
	if len(greedy) > 1 {
		s.MeanArea, s.StdArea = stat.MeanStdDev(greedy, nil)
	} else {
		s.MeanArea = greedy[0]
	}
	s.MinArea = floats.Min(greedy)
	s.MaxArea = floats.Max(greedy)

	potential := 0
	for _, p := range r.Centers[1:] {
		potential += len(coverage.Cells(p))
	}
	if potential > 0 {
		s.Efficiency = float64(s.Covered) / float64(potential)
	}
	return s
}
