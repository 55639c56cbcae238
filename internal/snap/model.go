// Package snap places the magnetic snap points of a track and drives the
// scroll/zoom state machine that settles the view onto them.
package snap

import (
	"errors"
	"fmt"
	"math"
	"slices"

	"gonum.org/v1/gonum/floats"
)

// ErrInvalidArgument reports a percentage outside [0,1] or a malformed
// controller option.
var ErrInvalidArgument = errors.New("snap: invalid argument")

const (
	minMagnetDistance = 10
	maxMagnetDistance = 30

	// rebuild subtracts this from half the smallest gap
	modelMagnetInset = 5
	// the settle threshold uses a smaller inset per gap
	settleMagnetInset = 3
)

// Point is one snap position. Offset is derived from Percent and the
// track width it was built for.
type Point struct {
	Percent float64
	Offset  float64
}

// MagnetConfig controls how strongly snap points attract the view.
type MagnetConfig struct {
	DistanceToMagnet     float64
	MagnetWhileScrolling bool
}

// Rebuild converts percentages to absolute offsets along a track of
// trackWidth and derives the magnet distance from the smallest gap. The
// input is copied and sorted.
func Rebuild(percentages []float64, trackWidth, markerSize float64) ([]Point, MagnetConfig, error) {
	for i, p := range percentages {
		if math.IsNaN(p) || p < 0 || p > 1 {
			return nil, MagnetConfig{}, fmt.Errorf("snap point %d: percent %g outside [0,1]: %w", i, p, ErrInvalidArgument)
		}
	}

	sorted := slices.Clone(percentages)
	slices.Sort(sorted)

	points := make([]Point, len(sorted))
	for i, p := range sorted {
		points[i] = Point{Percent: p, Offset: trackWidth*p - markerSize/2}
	}

	return points, MagnetConfig{DistanceToMagnet: magnetDistance(points)}, nil
}

func magnetDistance(points []Point) float64 {
	if len(points) < 2 {
		return minMagnetDistance
	}
	gaps := make([]float64, len(points)-1)
	for i := range gaps {
		gaps[i] = points[i+1].Offset - points[i].Offset
	}
	return clamp(floats.Min(gaps)/2-modelMagnetInset, minMagnetDistance, maxMagnetDistance)
}

// Offsets returns the absolute offsets of points.
func Offsets(points []Point) []float64 {
	out := make([]float64, len(points))
	for i, p := range points {
		out[i] = p.Offset
	}
	return out
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
