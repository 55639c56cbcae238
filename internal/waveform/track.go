package waveform

import (
	"fmt"

	"github.com/olivier-w/wavetrack/internal/curve"
	"github.com/olivier-w/wavetrack/internal/geom"
)

// Layout is the unscaled bar geometry of a track.
type Layout struct {
	BarWidth    float64
	BarSpacing  float64
	TrackHeight float64
}

// Pitch is the horizontal distance from one bar to the next.
func (l Layout) Pitch() float64 { return l.BarWidth + l.BarSpacing }

// Geometry is everything derived from the amplitudes at one scale.
type Geometry struct {
	Scale        float64
	ContentWidth float64
	Points       []geom.Point
	Path         curve.Path
	Table        curve.LookupTable
}

// Track owns an amplitude array and rebuilds its geometry lazily. A
// rebuild happens only when the amplitudes, the scale or the path mode
// changed since the last call to Geometry.
type Track struct {
	layout     Layout
	capacity   int
	mode       curve.Mode
	amplitudes []float64

	gen      uint64
	builtGen uint64
	built    bool
	cache    Geometry
	cacheErr error
	rebuilds int
}

// NewTrack returns an empty track. capacity is the lookup table budget;
// non-positive values select curve.DefaultCapacity.
func NewTrack(layout Layout, capacity int, mode curve.Mode) *Track {
	if capacity <= 0 {
		capacity = curve.DefaultCapacity
	}
	return &Track{layout: layout, capacity: capacity, mode: mode}
}

// SetAmplitudes replaces the amplitude array and marks the geometry dirty.
func (t *Track) SetAmplitudes(amplitudes []float64) {
	t.amplitudes = amplitudes
	t.gen++
}

// SetMode switches between the smooth and linear outline.
func (t *Track) SetMode(mode curve.Mode) {
	if t.mode == mode {
		return
	}
	t.mode = mode
	t.gen++
}

func (t *Track) Mode() curve.Mode      { return t.mode }
func (t *Track) Layout() Layout        { return t.layout }
func (t *Track) Bars() int             { return len(t.amplitudes) }
func (t *Track) Amplitudes() []float64 { return t.amplitudes }

// Rebuilds reports how many times the geometry was actually recomputed.
func (t *Track) Rebuilds() int { return t.rebuilds }

// ContentWidth is the width of all bars at scale.
func (t *Track) ContentWidth(scale float64) float64 {
	return float64(len(t.amplitudes)) * t.layout.Pitch() * scale
}

// Geometry returns the outline, path and lookup table at scale.
func (t *Track) Geometry(scale float64) (Geometry, error) {
	if t.built && t.builtGen == t.gen && t.cache.Scale == scale {
		return t.cache, t.cacheErr
	}

	t.cache, t.cacheErr = t.build(scale)
	t.builtGen = t.gen
	t.built = true
	t.rebuilds++
	return t.cache, t.cacheErr
}

func (t *Track) build(scale float64) (Geometry, error) {
	g := Geometry{Scale: scale, ContentWidth: t.ContentWidth(scale)}

	points, err := BuildEnvelope(t.amplitudes, t.layout.BarWidth*scale, t.layout.BarSpacing*scale, t.layout.TrackHeight)
	if err != nil {
		return g, err
	}
	for i, pt := range points {
		if pt.IsNaN() {
			return g, fmt.Errorf("track geometry: point %d is %s at scale %g: %w", i, pt, scale, ErrInvalidArgument)
		}
	}
	g.Points = points
	g.Path = curve.Build(points, t.mode, geom.RectWH(g.ContentWidth, t.layout.TrackHeight))

	g.Table, err = curve.Sample(g.Path, t.capacity)
	if err != nil {
		return g, fmt.Errorf("track geometry: %w", err)
	}
	return g, nil
}

// HitTest returns the sampled outline point nearest to probe at scale.
func (t *Track) HitTest(scale float64, probe geom.Point, maxDistance float64) (geom.Point, bool, error) {
	g, err := t.Geometry(scale)
	if err != nil {
		return geom.Point{}, false, err
	}
	return g.Table.Nearest(probe, maxDistance)
}

// BarAt maps a content x coordinate at scale to a bar index, clamped to
// the track.
func (t *Track) BarAt(x, scale float64) int {
	n := len(t.amplitudes)
	if n == 0 {
		return 0
	}
	pitch := t.layout.Pitch() * scale
	if pitch <= 0 {
		return 0
	}
	i := int(x / pitch)
	if i < 0 {
		return 0
	}
	if i >= n {
		return n - 1
	}
	return i
}
