package geom

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

const eps = 1e-9

func assertPoint(t *testing.T, want, got Point) {
	t.Helper()
	assert.InDelta(t, want.X, got.X, eps, "x of %v", got)
	assert.InDelta(t, want.Y, got.Y, eps, "y of %v", got)
}

func TestBlendsHitEndpoints(t *testing.T) {
	p1, p2, p3, p4 := Pt(0, 0), Pt(1, 5), Pt(4, -2), Pt(6, 3)

	assertPoint(t, p1, Linear(0, p1, p4))
	assertPoint(t, p4, Linear(1, p1, p4))
	assertPoint(t, p1, Quadratic(0, p1, p2, p4))
	assertPoint(t, p4, Quadratic(1, p1, p2, p4))
	assertPoint(t, p1, Cubic(0, p1, p2, p3, p4))
	assertPoint(t, p4, Cubic(1, p1, p2, p3, p4))
}

func TestBlendsMidpoint(t *testing.T) {
	assertPoint(t, Pt(1, 2), Linear(0.5, Pt(0, 0), Pt(2, 4)))
	// (1/4)p1 + (1/2)p2 + (1/4)p3
	assertPoint(t, Pt(1, 1), Quadratic(0.5, Pt(0, 0), Pt(1, 2), Pt(2, 0)))
	// (1/8)p1 + (3/8)p2 + (3/8)p3 + (1/8)p4
	assertPoint(t, Pt(1.5, 1.5), Cubic(0.5, Pt(0, 0), Pt(0, 2), Pt(3, 2), Pt(3, 0)))
}

func TestLinearExtrapolates(t *testing.T) {
	assertPoint(t, Pt(-1, -1), Linear(-1, Pt(0, 0), Pt(1, 1)))
	assertPoint(t, Pt(2, 2), Linear(2, Pt(0, 0), Pt(1, 1)))
}

func TestCubicWithCollinearControlsStaysOnLine(t *testing.T) {
	p1, p4 := Pt(0, 1), Pt(3, 7)
	c1, c2 := Linear(1.0/3, p1, p4), Linear(2.0/3, p1, p4)
	for i := 0; i <= 10; i++ {
		tt := float64(i) / 10
		got := Cubic(tt, p1, c1, c2, p4)
		assert.InDelta(t, 2*got.X+1, got.Y, eps)
	}
}

func TestDistance(t *testing.T) {
	assert.InDelta(t, 5.0, Distance(Pt(0, 0), Pt(3, 4)), eps)
	assert.Equal(t, 0.0, Distance(Pt(2, 2), Pt(2, 2)))

	big := 1e200
	d := Distance(Pt(0, 0), Pt(big, big))
	assert.False(t, math.IsInf(d, 0), "distance overflowed")
	assert.InDelta(t, big*math.Sqrt2, d, big*1e-12)
}

func TestRect(t *testing.T) {
	r := RectWH(480, 70)
	assert.Equal(t, 480.0, r.Width())
	assert.Equal(t, 70.0, r.Height())
}
