package snap

import "fmt"

// Command is the outbound instruction produced by a controller event.
// It is one of SetScale, AnimateScrollTo or HighlightSnap.
type Command interface {
	command()
}

// SetScale tells the host to redraw at ScaleX with the viewport moved to
// Offset.
type SetScale struct {
	ScaleX float64
	Offset float64
}

// AnimateScrollTo asks the host to move the content offset to Offset
// over Duration time units, then call OnSettleComplete.
type AnimateScrollTo struct {
	Index    int
	Offset   float64
	Duration float64
}

// HighlightSnap marks snap point Index as the current one.
type HighlightSnap struct {
	Index int
}

func (SetScale) command()        {}
func (AnimateScrollTo) command() {}
func (HighlightSnap) command()   {}

func (c SetScale) String() string { return fmt.Sprintf("SetScale(%.3f, %.1f)", c.ScaleX, c.Offset) }
func (c AnimateScrollTo) String() string {
	return fmt.Sprintf("AnimateScrollTo(#%d, %.1f, %.1f)", c.Index, c.Offset, c.Duration)
}
func (c HighlightSnap) String() string { return fmt.Sprintf("HighlightSnap(#%d)", c.Index) }
