// Package geom holds the 2D point type and the Bezier blends used to
// build and sample waveform outlines.
package geom

import (
	"fmt"
	"math"
)

// Point is a 2D coordinate in track units.
type Point struct {
	X float64
	Y float64
}

// Pt is shorthand for Point{X: x, Y: y}.
func Pt(x, y float64) Point { return Point{X: x, Y: y} }

func (p Point) Add(q Point) Point             { return Point{X: p.X + q.X, Y: p.Y + q.Y} }
func (p Point) Sub(q Point) Point             { return Point{X: p.X - q.X, Y: p.Y - q.Y} }
func (p Point) Scale(f float64) Point         { return Point{X: p.X * f, Y: p.Y * f} }
func (p Point) String() string                { return fmt.Sprintf("(%g, %g)", p.X, p.Y) }
func (p Point) IsNaN() bool                   { return math.IsNaN(p.X) || math.IsNaN(p.Y) }
func (p Point) Lerp(q Point, t float64) Point { return Linear(t, p, q) }

// Rect is an axis-aligned box. It travels with a path as a hint for
// renderers.
type Rect struct {
	Min Point
	Max Point
}

// RectWH returns the rectangle at the origin with the given size.
func RectWH(w, h float64) Rect {
	return Rect{Max: Point{X: w, Y: h}}
}

func (r Rect) Width() float64  { return r.Max.X - r.Min.X }
func (r Rect) Height() float64 { return r.Max.Y - r.Min.Y }

// Distance returns the Euclidean distance between a and b.
func Distance(a, b Point) float64 {
	return math.Hypot(a.X-b.X, a.Y-b.Y)
}

// Linear evaluates the straight segment p1→p2 at t. Values of t outside
// [0,1] extrapolate along the line.
func Linear(t float64, p1, p2 Point) Point {
	mt := 1 - t
	return Point{
		X: mt*p1.X + t*p2.X,
		Y: mt*p1.Y + t*p2.Y,
	}
}

// Quadratic evaluates the quadratic Bezier with control point p2 at t.
func Quadratic(t float64, p1, p2, p3 Point) Point {
	mt := 1 - t
	a := mt * mt
	b := 2 * mt * t
	c := t * t
	return Point{
		X: a*p1.X + b*p2.X + c*p3.X,
		Y: a*p1.Y + b*p2.Y + c*p3.Y,
	}
}

// Cubic evaluates the cubic Bezier with control points p2 and p3 at t.
func Cubic(t float64, p1, p2, p3, p4 Point) Point {
	mt := 1 - t
	mt2 := mt * mt
	t2 := t * t

	a := mt2 * mt
	b := 3 * mt2 * t
	c := 3 * mt * t2
	d := t * t2
	return Point{
		X: a*p1.X + b*p2.X + c*p3.X + d*p4.X,
		Y: a*p1.Y + b*p2.Y + c*p3.Y + d*p4.Y,
	}
}
