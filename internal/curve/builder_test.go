package curve

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"github.com/olivier-w/wavetrack/internal/geom"
)

const eps = 1e-9

func pts(xy ...float64) []geom.Point {
	out := make([]geom.Point, 0, len(xy)/2)
	for i := 0; i+1 < len(xy); i += 2 {
		out = append(out, geom.Pt(xy[i], xy[i+1]))
	}
	return out
}

func TestBuildLinearCommandCount(t *testing.T) {
	for n := 1; n <= 6; n++ {
		in := make([]geom.Point, n)
		for i := range in {
			in[i] = geom.Pt(float64(i), float64(i*i))
		}
		p := BuildLinear(in)
		require.Len(t, p.Commands, n+1)
		assert.Equal(t, MoveTo, p.Commands[0].Kind)
		last := p.Commands[len(p.Commands)-1]
		assert.Equal(t, LineTo, last.Kind)
		assert.Equal(t, in[0], last.End, "path must close on its start point")
	}
}

func TestBuildLinearEmpty(t *testing.T) {
	p := BuildLinear(nil)
	assert.True(t, p.Empty())
	assert.Equal(t, 0, p.Segments())
}

func TestBuildSmoothDegenerateInput(t *testing.T) {
	assert.True(t, BuildSmooth(nil, geom.Rect{}).Empty())
	assert.True(t, BuildSmooth(pts(1, 1), geom.Rect{}).Empty())
}

func TestBuildSmoothTwoPointsIsStraight(t *testing.T) {
	p := BuildSmooth(pts(0, 0, 3, 6), geom.RectWH(3, 6))
	require.Len(t, p.Commands, 2)

	c := p.Commands[1]
	assert.Equal(t, CubicTo, c.Kind)
	assert.InDelta(t, 1.0, c.Control1.X, eps)
	assert.InDelta(t, 2.0, c.Control1.Y, eps)
	assert.InDelta(t, 2.0, c.Control2.X, eps)
	assert.InDelta(t, 4.0, c.Control2.Y, eps)
	assert.Equal(t, geom.RectWH(3, 6), p.Bounds)
}

func TestBuildSmoothSegmentCount(t *testing.T) {
	in := pts(0, 0, 1, 3, 2, -1, 3, 4, 4, 0)
	p := BuildSmooth(in, geom.Rect{})
	require.Len(t, p.Commands, len(in))
	assert.Equal(t, len(in)-1, p.Segments())
	for i, c := range p.Commands[1:] {
		assert.Equal(t, CubicTo, c.Kind)
		assert.Equal(t, in[i+1], c.End)
	}
}

func TestBuildSmoothCollinearStaysOnLine(t *testing.T) {
	// y = 2x + 1 with uneven spacing
	xs := []float64{0, 0.5, 2, 2.25, 5, 9}
	in := make([]geom.Point, len(xs))
	for i, x := range xs {
		in[i] = geom.Pt(x, 2*x+1)
	}

	p := BuildSmooth(in, geom.Rect{})
	for _, c := range p.Commands[1:] {
		assert.InDelta(t, 2*c.Control1.X+1, c.Control1.Y, 1e-9)
		assert.InDelta(t, 2*c.Control2.X+1, c.Control2.Y, 1e-9)
	}
}

func TestBuildSmoothIsC1(t *testing.T) {
	in := pts(0, 10, 3, 2, 6, 15, 9, 7, 12, 12, 15, 1)
	p := BuildSmooth(in, geom.Rect{})

	for i := 1; i < len(p.Commands)-1; i++ {
		in, out := p.Commands[i], p.Commands[i+1]
		knot := in.End
		incoming := knot.Sub(in.Control2)
		outgoing := out.Control1.Sub(knot)
		assert.InDelta(t, incoming.X, outgoing.X, 1e-9, "knot %d", i)
		assert.InDelta(t, incoming.Y, outgoing.Y, 1e-9, "knot %d", i)
	}
}

func TestBuildDispatchesOnMode(t *testing.T) {
	in := pts(0, 0, 1, 1, 2, 0)
	bounds := geom.RectWH(2, 1)

	lin := Build(in, Linear, bounds)
	assert.Equal(t, LineTo, lin.Commands[1].Kind)
	assert.Equal(t, bounds, lin.Bounds)

	cur := Build(in, Curved, bounds)
	assert.Equal(t, CubicTo, cur.Commands[1].Kind)
}

func TestSolveTridiagonalMatchesDenseSolve(t *testing.T) {
	lower := []float64{0, 1, 1, 1, 1, 2}
	diag := []float64{2, 4, 4, 4, 4, 7}
	upper := []float64{1, 1, 1, 1, 1, 0}
	rhs := []float64{3, -2, 7.5, 0.25, 11, 4}
	n := len(diag)

	a := mat.NewDense(n, n, nil)
	for i := range n {
		a.Set(i, i, diag[i])
		if i > 0 {
			a.Set(i, i-1, lower[i])
		}
		if i < n-1 {
			a.Set(i, i+1, upper[i])
		}
	}
	var want mat.VecDense
	require.NoError(t, want.SolveVec(a, mat.NewVecDense(n, append([]float64(nil), rhs...))))

	got := solveTridiagonal(lower, diag, upper, rhs)
	for i := range n {
		assert.InDelta(t, want.AtVec(i), got[i], 1e-12, "row %d", i)
	}
}

func TestControlPointsSatisfySystem(t *testing.T) {
	in := pts(0, 0, 2, 5, 4, 1, 7, 3)
	cp := ControlPoints(in)
	require.Len(t, cp, 3)

	// first row: 2*C0 + C1 = P0 + 2*P1
	lhs := cp[0].First.Scale(2).Add(cp[1].First)
	rhs := in[0].Add(in[1].Scale(2))
	assert.InDelta(t, rhs.X, lhs.X, 1e-9)
	assert.InDelta(t, rhs.Y, lhs.Y, 1e-9)

	// interior row: C0 + 4*C1 + C2 = 4*P1 + 2*P2
	lhs = cp[0].First.Add(cp[1].First.Scale(4)).Add(cp[2].First)
	rhs = in[1].Scale(4).Add(in[2].Scale(2))
	assert.InDelta(t, rhs.X, lhs.X, 1e-9)
	assert.InDelta(t, rhs.Y, lhs.Y, 1e-9)

	// last row: 2*C1 + 7*C2 = 8*P2 + P3
	lhs = cp[1].First.Scale(2).Add(cp[2].First.Scale(7))
	rhs = in[2].Scale(8).Add(in[3])
	assert.InDelta(t, rhs.X, lhs.X, 1e-9)
	assert.InDelta(t, rhs.Y, lhs.Y, 1e-9)
}
