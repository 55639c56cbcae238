// Package waveform turns an amplitude array into the mirrored envelope
// outline of a scrollable track and caches the path and lookup table
// built from it.
package waveform

import (
	"fmt"

	"gonum.org/v1/gonum/floats"

	"github.com/olivier-w/wavetrack/internal/curve"
	"github.com/olivier-w/wavetrack/internal/geom"
)

// ErrInvalidArgument is curve.ErrInvalidArgument so callers can test
// either package's failures with a single errors.Is.
var ErrInvalidArgument = curve.ErrInvalidArgument

// BuildEnvelope returns the closed outline of the bars described by
// amplitudes. The first half holds one top-edge point per bar, left to
// right; the second half repeats them right to left, reflected about
// trackHeight so the outline is symmetric around the centre line.
func BuildEnvelope(amplitudes []float64, barWidth, spacing, trackHeight float64) ([]geom.Point, error) {
	if len(amplitudes) == 0 {
		return nil, fmt.Errorf("envelope: no amplitudes: %w", ErrInvalidArgument)
	}
	for i, a := range amplitudes {
		if a < 0 {
			return nil, fmt.Errorf("envelope: amplitude %d is negative (%g): %w", i, a, ErrInvalidArgument)
		}
	}

	peak := floats.Max(amplitudes)
	if peak == 0 {
		peak = 1
	}
	middle := trackHeight / 2

	n := len(amplitudes)
	out := make([]geom.Point, 2*n)
	for i, a := range amplitudes {
		half := trackHeight * (a / peak) / 2
		out[i] = geom.Point{
			X: float64(i)*barWidth + float64(i-1)*spacing,
			Y: middle - half,
		}
	}
	for i := range n {
		top := out[n-1-i]
		out[n+i] = geom.Point{X: top.X, Y: trackHeight - top.Y}
	}
	return out, nil
}
