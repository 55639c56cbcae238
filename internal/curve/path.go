// Package curve turns ordered point sequences into vector paths, samples
// those paths into lookup tables and answers nearest-point queries
// against them.
package curve

import (
	"errors"
	"fmt"

	"github.com/olivier-w/wavetrack/internal/geom"
)

// ErrInvalidArgument reports empty or otherwise unusable input.
var ErrInvalidArgument = errors.New("curve: invalid argument")

// Kind identifies a path command.
type Kind uint8

const (
	MoveTo Kind = iota + 1
	LineTo
	QuadTo
	CubicTo
)

func (k Kind) String() string {
	switch k {
	case MoveTo:
		return "MoveTo"
	case LineTo:
		return "LineTo"
	case QuadTo:
		return "QuadTo"
	case CubicTo:
		return "CubicTo"
	default:
		return "Invalid"
	}
}

// Command is one element of a Path. Control1 is used by QuadTo and
// CubicTo, Control2 only by CubicTo. The start point is implicit: it is
// the End of the previous command.
type Command struct {
	Kind     Kind
	Control1 geom.Point
	Control2 geom.Point
	End      geom.Point
}

func (c Command) String() string {
	switch c.Kind {
	case QuadTo:
		return fmt.Sprintf("%s(%s, %s)", c.Kind, c.Control1, c.End)
	case CubicTo:
		return fmt.Sprintf("%s(%s, %s, %s)", c.Kind, c.Control1, c.Control2, c.End)
	default:
		return fmt.Sprintf("%s(%s)", c.Kind, c.End)
	}
}

// Path is an ordered list of commands starting with a MoveTo.
type Path struct {
	Commands []Command
	Bounds   geom.Rect
}

// Empty reports whether the path has no commands at all.
func (p Path) Empty() bool { return len(p.Commands) == 0 }

// Segments counts the drawing commands, i.e. everything but MoveTo.
func (p Path) Segments() int {
	n := 0
	for _, c := range p.Commands {
		if c.Kind != MoveTo {
			n++
		}
	}
	return n
}

func (p *Path) moveTo(pt geom.Point) {
	p.Commands = append(p.Commands, Command{Kind: MoveTo, End: pt})
}

func (p *Path) lineTo(pt geom.Point) {
	p.Commands = append(p.Commands, Command{Kind: LineTo, End: pt})
}

func (p *Path) cubicTo(c1, c2, pt geom.Point) {
	p.Commands = append(p.Commands, Command{Kind: CubicTo, Control1: c1, Control2: c2, End: pt})
}
