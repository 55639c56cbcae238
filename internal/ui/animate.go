package ui

import (
	"math"

	"github.com/charmbracelet/harmonica"
)

const (
	// settle animations shorter or longer than this are stretched or cut
	minAnimMillis = 90
	maxAnimMillis = 700
	// how far past the release point a flick coasts, in milliseconds of
	// release velocity
	coastMillis = 300
)

// scrollAnim drives the content offset toward a target with a critically
// damped spring tuned so it settles in roughly the requested time.
type scrollAnim struct {
	spring harmonica.Spring
	pos    float64
	vel    float64
	target float64
	frames int
	limit  int
}

func (a *scrollAnim) start(from, to, durationMillis float64) {
	secs := math.Max(minAnimMillis, math.Min(durationMillis, maxAnimMillis)) / 1000
	if math.IsNaN(secs) {
		secs = minAnimMillis / 1000.0
	}
	a.spring = harmonica.NewSpring(harmonica.FPS(fps), 6/secs, 1)
	a.pos, a.vel, a.target = from, 0, to
	a.frames = 0
	a.limit = int(math.Ceil(secs * fps))
}

// step advances one frame. The final frame lands exactly on the target.
func (a *scrollAnim) step() (float64, bool) {
	a.pos, a.vel = a.spring.Update(a.pos, a.vel, a.target)
	a.frames++
	if a.frames >= a.limit || (math.Abs(a.target-a.pos) < 0.05 && math.Abs(a.vel) < 0.05) {
		a.pos, a.vel = a.target, 0
		return a.pos, true
	}
	return a.pos, false
}
