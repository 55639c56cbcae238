// Package amplitude reduces decoded audio to one level per waveform bar.
package amplitude

import (
	"errors"
	"fmt"
	"math"

	"github.com/go-audio/audio"
	"gonum.org/v1/gonum/floats"
)

// ErrNoAudio is returned when a file decodes to zero frames.
var ErrNoAudio = errors.New("amplitude: no audio frames")

// Reducer accumulates the mean absolute level of each bar. Frames are
// assigned to bars proportionally, so every bar covers the same share of
// the file.
type Reducer struct {
	sums   []float64
	counts []int
	total  int64
	frame  int64
}

// NewReducer prepares bars buckets for a stream of totalFrames frames.
func NewReducer(bars int, totalFrames int64) (*Reducer, error) {
	if bars <= 0 {
		return nil, fmt.Errorf("amplitude: %d bars", bars)
	}
	if totalFrames <= 0 {
		return nil, ErrNoAudio
	}
	return &Reducer{
		sums:   make([]float64, bars),
		counts: make([]int, bars),
		total:  totalFrames,
	}, nil
}

// Add consumes the whole frames held in buf. Eight-bit data is treated as
// unsigned, the way WAV stores it.
func (r *Reducer) Add(buf *audio.IntBuffer) {
	if buf == nil || buf.Format == nil || buf.Format.NumChannels <= 0 {
		return
	}
	ch := buf.Format.NumChannels
	depth := buf.SourceBitDepth
	if depth <= 0 {
		depth = 16
	}
	fullScale := math.Ldexp(1, depth-1)
	bias := 0
	if depth == 8 {
		bias = 128
	}

	bars := int64(len(r.sums))
	frames := buf.NumFrames()
	for f := range frames {
		var level float64
		for c := range ch {
			level += math.Abs(float64(buf.Data[f*ch+c] - bias))
		}
		i := min(r.frame*bars/r.total, bars-1)
		r.sums[i] += level / float64(ch) / fullScale
		r.counts[i]++
		r.frame++
	}
}

// Done reports the fraction of expected frames consumed so far.
func (r *Reducer) Done() float64 {
	return min(1, float64(r.frame)/float64(r.total))
}

// Bars returns the per-bar means scaled so the loudest bar is 1. A
// silent file yields all zeros.
func (r *Reducer) Bars() []float64 {
	out := make([]float64, len(r.sums))
	for i, s := range r.sums {
		if r.counts[i] > 0 {
			out[i] = s / float64(r.counts[i])
		}
	}
	if peak := floats.Max(out); peak > 0 {
		floats.Scale(1/peak, out)
	}
	return out
}

// Demo returns a deterministic test signal: a few beating sines under a
// slow swell.
func Demo(bars int) []float64 {
	out := make([]float64, max(bars, 0))
	for i := range out {
		t := float64(i) / float64(max(bars-1, 1))
		swell := 0.35 + 0.65*math.Sin(math.Pi*t)
		beat := 0.5 + 0.3*math.Sin(2*math.Pi*7*t) + 0.2*math.Sin(2*math.Pi*23*t+1)
		out[i] = swell * beat
	}
	if len(out) > 0 {
		if peak := floats.Max(out); peak > 0 {
			floats.Scale(1/peak, out)
		}
	}
	return out
}
