package curve

import (
	"fmt"

	"github.com/olivier-w/wavetrack/internal/geom"
)

// DefaultMaxDistance is the hit-test radius used when the caller has no
// better value.
const DefaultMaxDistance = 100

// Nearest returns the table point closest to probe. ok is false when even
// the closest point is maxDistance or more away. On equal distances the
// lower index wins.
func (lt LookupTable) Nearest(probe geom.Point, maxDistance float64) (pt geom.Point, ok bool, err error) {
	if len(lt) == 0 {
		return geom.Point{}, false, fmt.Errorf("nearest: empty lookup table: %w", ErrInvalidArgument)
	}

	best := 0
	bestDist := geom.Distance(probe, lt[0])
	for i := 1; i < len(lt); i++ {
		if d := geom.Distance(probe, lt[i]); d < bestDist {
			best, bestDist = i, d
		}
	}

	if bestDist >= maxDistance {
		return geom.Point{}, false, nil
	}
	return lt[best], true, nil
}

// Nearest is the free-function form of LookupTable.Nearest.
func Nearest(probe geom.Point, table LookupTable, maxDistance float64) (geom.Point, bool, error) {
	return table.Nearest(probe, maxDistance)
}
