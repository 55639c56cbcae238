package curve

import (
	"fmt"

	"github.com/olivier-w/wavetrack/internal/geom"
)

// DefaultCapacity is the lookup table budget used by the track view.
const DefaultCapacity = 1000

// LookupTable is a dense point approximation of a Path.
type LookupTable []geom.Point

// Sample evaluates every drawing segment of path at perSegment+1 evenly
// spaced parameter values, where perSegment = capacity / segments. The
// spacing is uniform in t, not in arc length, so short and long segments
// receive the same number of points. When capacity is smaller than the
// segment count each segment contributes only its start point.
func Sample(path Path, capacity int) (LookupTable, error) {
	if capacity <= 0 {
		return nil, fmt.Errorf("sample: capacity %d: %w", capacity, ErrInvalidArgument)
	}
	segments := path.Segments()
	if segments == 0 {
		return nil, fmt.Errorf("sample: path has no segments: %w", ErrInvalidArgument)
	}

	perSegment := capacity / segments
	if perSegment == 0 {
		table := make(LookupTable, 0, segments)
		var start geom.Point
		for _, c := range path.Commands {
			if c.Kind != MoveTo {
				table = append(table, start)
			}
			start = c.End
		}
		return table, nil
	}

	table := make(LookupTable, 0, segments*(perSegment+1))
	var start geom.Point
	for _, c := range path.Commands {
		if c.Kind == MoveTo {
			start = c.End
			continue
		}
		for i := 0; i <= perSegment; i++ {
			t := float64(i) / float64(perSegment)
			table = append(table, evaluate(c, start, t))
		}
		start = c.End
	}
	return table, nil
}

func evaluate(c Command, start geom.Point, t float64) geom.Point {
	switch c.Kind {
	case QuadTo:
		return geom.Quadratic(t, start, c.Control1, c.End)
	case CubicTo:
		return geom.Cubic(t, start, c.Control1, c.Control2, c.End)
	default:
		return geom.Linear(t, start, c.End)
	}
}
