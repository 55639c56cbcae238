package curve

import "github.com/olivier-w/wavetrack/internal/geom"

// Mode selects how Build connects the input points.
type Mode uint8

const (
	Curved Mode = iota
	Linear
)

func (m Mode) String() string {
	if m == Linear {
		return "linear"
	}
	return "curved"
}

// ControlPair holds the two control points of the cubic segment that
// ends at a given knot.
type ControlPair struct {
	First  geom.Point
	Second geom.Point
}

// Build dispatches to BuildSmooth or BuildLinear.
func Build(points []geom.Point, mode Mode, bounds geom.Rect) Path {
	if mode == Linear {
		p := BuildLinear(points)
		p.Bounds = bounds
		return p
	}
	return BuildSmooth(points, bounds)
}

// BuildLinear connects points with straight lines and closes the outline
// with a final line back to the first point. An empty input yields an
// empty path.
func BuildLinear(points []geom.Point) Path {
	var p Path
	if len(points) == 0 {
		return p
	}
	p.Commands = make([]Command, 0, len(points)+1)
	p.moveTo(points[0])
	for _, pt := range points[1:] {
		p.lineTo(pt)
	}
	p.lineTo(points[0])
	return p
}

// BuildSmooth returns a C1-continuous cubic path through points, one
// CubicTo per consecutive pair. Fewer than two points yield an empty
// path. bounds is stored on the result untouched.
func BuildSmooth(points []geom.Point, bounds geom.Rect) Path {
	p := Path{Bounds: bounds}
	if len(points) < 2 {
		return p
	}
	controls := ControlPoints(points)
	p.Commands = make([]Command, 0, len(points))
	p.moveTo(points[0])
	for i, c := range controls {
		p.cubicTo(c.First, c.Second, points[i+1])
	}
	return p
}

// ControlPoints solves for the control points of an open cubic spline
// through points. The result has len(points)-1 entries; entry i governs
// the segment from points[i] to points[i+1].
func ControlPoints(points []geom.Point) []ControlPair {
	segments := len(points) - 1
	if segments < 1 {
		return nil
	}

	out := make([]ControlPair, segments)
	if segments == 1 {
		first := points[0].Scale(2).Add(points[1]).Scale(1.0 / 3)
		out[0] = ControlPair{
			First:  first,
			Second: first.Scale(2).Sub(points[0]),
		}
		return out
	}

	lower := make([]float64, segments)
	diag := make([]float64, segments)
	upper := make([]float64, segments)
	rhsX := make([]float64, segments)
	rhsY := make([]float64, segments)

	for i := range segments {
		p0, p3 := points[i], points[i+1]
		var rhs geom.Point
		switch i {
		case 0:
			lower[i], diag[i], upper[i] = 0, 2, 1
			rhs = p0.Add(p3.Scale(2))
		case segments - 1:
			lower[i], diag[i], upper[i] = 2, 7, 0
			rhs = p0.Scale(8).Add(p3)
		default:
			lower[i], diag[i], upper[i] = 1, 4, 1
			rhs = p0.Scale(4).Add(p3.Scale(2))
		}
		rhsX[i], rhsY[i] = rhs.X, rhs.Y
	}

	xs := solveTridiagonal(lower, diag, upper, rhsX)
	ys := solveTridiagonal(lower, diag, upper, rhsY)

	for i := range segments {
		out[i].First = geom.Pt(xs[i], ys[i])
	}
	for i := range segments {
		knot := points[i+1]
		if i == segments-1 {
			out[i].Second = knot.Add(out[i].First).Scale(0.5)
			continue
		}
		out[i].Second = knot.Scale(2).Sub(out[i+1].First)
	}
	return out
}

// solveTridiagonal runs the Thomas algorithm on the system whose row i is
// lower[i]*x[i-1] + diag[i]*x[i] + upper[i]*x[i+1] = rhs[i]. lower[0] and
// upper[n-1] are ignored. The inputs are left untouched.
func solveTridiagonal(lower, diag, upper, rhs []float64) []float64 {
	n := len(diag)
	c := make([]float64, n)
	d := make([]float64, n)

	c[0] = upper[0] / diag[0]
	d[0] = rhs[0] / diag[0]
	for i := 1; i < n; i++ {
		m := diag[i] - lower[i]*c[i-1]
		if i < n-1 {
			c[i] = upper[i] / m
		}
		d[i] = (rhs[i] - lower[i]*d[i-1]) / m
	}

	x := make([]float64, n)
	x[n-1] = d[n-1]
	for i := n - 2; i >= 0; i-- {
		x[i] = d[i] - c[i]*x[i+1]
	}
	return x
}
