package snap

import (
	"fmt"
	"math"
	"sort"
)

// Phase is the scroll phase of the controller.
type Phase uint8

const (
	Idle Phase = iota
	Dragging
	Decelerating
)

func (p Phase) String() string {
	switch p {
	case Dragging:
		return "dragging"
	case Decelerating:
		return "decelerating"
	default:
		return "idle"
	}
}

const (
	// speed is sampled at most once per sampleInterval time units
	sampleInterval = 0.3
	speedFactor    = 10 * 2
	fastSpeed      = 0.05
	settleSpeed    = 0.07

	scrollMagnetLimit = 30
	// width of the virtual target before the first and after the last point
	openGap = 1000
	// speed used for keyboard stepping between snap points
	stepSpeed = 2
)

// Options configures a Controller. Widths are unscaled track units.
type Options struct {
	Bars                 int
	BarWidth             float64
	BarSpacing           float64
	ViewportWidth        float64
	MarkerSize           float64
	ScaleX               float64
	MinScaleX            float64
	MaxScaleX            float64
	Percentages          []float64
	MagnetWhileScrolling bool
}

// Controller consumes drag, scroll and pinch events and decides when to
// pull the view onto a snap point. It never touches a rendering surface:
// every event returns at most one Command for the host to carry out.
type Controller struct {
	bars       int
	pitch      float64
	markerSize float64
	viewport   float64

	scale       ScaleState
	percentages []float64
	points      []Point
	magnet      MagnetConfig

	phase        Phase
	offset       float64
	sampled      bool
	sampleOffset float64
	sampleTime   float64
	lastSpeed    float64
	fast         bool

	candidate   int
	pending     int
	highlighted int
}

// NewController validates opts and places the snap points at the initial
// scale.
func NewController(opts Options) (*Controller, error) {
	if opts.Bars < 0 || opts.BarWidth < 0 || opts.BarSpacing < 0 || opts.BarWidth+opts.BarSpacing <= 0 {
		return nil, fmt.Errorf("controller: bad bar geometry %d×(%g+%g): %w", opts.Bars, opts.BarWidth, opts.BarSpacing, ErrInvalidArgument)
	}
	if opts.MaxScaleX <= 0 {
		return nil, fmt.Errorf("controller: max scale %g: %w", opts.MaxScaleX, ErrInvalidArgument)
	}
	if opts.ScaleX == 0 {
		opts.ScaleX = 1
	}

	c := &Controller{
		bars:       opts.Bars,
		pitch:      opts.BarWidth + opts.BarSpacing,
		markerSize: opts.MarkerSize,
		viewport:   opts.ViewportWidth,
		scale: ScaleState{
			ScaleX:    opts.ScaleX,
			MinScaleX: opts.MinScaleX,
			MaxScaleX: opts.MaxScaleX,
		},
		magnet:    MagnetConfig{MagnetWhileScrolling: opts.MagnetWhileScrolling},
		candidate: -1,
		pending:   -1,
	}
	c.scale.fit(c.viewport, c.unscaledWidth())
	if err := c.SetPercentages(opts.Percentages); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *Controller) Phase() Phase           { return c.phase }
func (c *Controller) Scale() ScaleState      { return c.scale }
func (c *Controller) Offset() float64        { return c.offset }
func (c *Controller) Magnet() MagnetConfig   { return c.magnet }
func (c *Controller) LastSpeed() float64     { return c.lastSpeed }
func (c *Controller) Fast() bool             { return c.fast }
func (c *Controller) Highlighted() int       { return c.highlighted }
func (c *Controller) Percentages() []float64 { return c.percentages }

// Points returns the snap points at the current scale.
func (c *Controller) Points() []Point { return c.points }

// ContentWidth is the width of all bars at the current scale.
func (c *Controller) ContentWidth() float64 { return c.unscaledWidth() * c.scale.ScaleX }

// MagnetCandidate reports the snap point detected during a slow drag, if
// any. Detection does not move the view.
func (c *Controller) MagnetCandidate() (int, bool) {
	return c.candidate, c.candidate >= 0
}

// SetMagnetWhileScrolling toggles slow-drag magnet detection.
func (c *Controller) SetMagnetWhileScrolling(on bool) {
	c.magnet.MagnetWhileScrolling = on
	if !on {
		c.candidate = -1
	}
}

// SetPercentages replaces the snap percentages. The magnet distance is
// derived from the unscaled track; offsets follow the current scale.
func (c *Controller) SetPercentages(percentages []float64) error {
	_, magnet, err := Rebuild(percentages, c.unscaledWidth(), c.markerSize)
	if err != nil {
		return err
	}
	points, _, err := Rebuild(percentages, c.ContentWidth(), c.markerSize)
	if err != nil {
		return err
	}
	c.percentages = percentages
	c.points = points
	c.magnet.DistanceToMagnet = magnet.DistanceToMagnet
	c.candidate = -1
	c.pending = -1
	if c.highlighted >= len(points) {
		c.highlighted = 0
	}
	return nil
}

// SetViewport recomputes the minimum scale for a new viewport width. It
// returns SetScale when the current scale had to change.
func (c *Controller) SetViewport(width float64) Command {
	c.viewport = width
	prev := c.scale.ScaleX
	c.scale.fit(width, c.unscaledWidth())
	if c.scale.ScaleX == prev {
		return nil
	}
	c.rescale(prev)
	return SetScale{ScaleX: c.scale.ScaleX, Offset: c.offset}
}

// OnDragStart begins a drag and resets the speed window.
func (c *Controller) OnDragStart() Command {
	c.phase = Dragging
	c.sampled = false
	c.lastSpeed = 0
	c.fast = false
	c.candidate = -1
	c.pending = -1
	return nil
}

// OnScrollSample records the content offset at timestamp. Speed is only
// measured while dragging.
func (c *Controller) OnScrollSample(offset, timestamp float64) Command {
	prev := c.offset
	c.offset = offset
	if c.phase != Dragging {
		return nil
	}

	if !c.sampled {
		c.sampled = true
		c.sampleOffset, c.sampleTime = offset, timestamp
	} else if dt := timestamp - c.sampleTime; dt >= sampleInterval {
		c.lastSpeed = math.Abs(offset-c.sampleOffset) * speedFactor / dt
		c.fast = c.lastSpeed > fastSpeed
		c.sampleOffset, c.sampleTime = offset, timestamp
	}

	c.candidate = -1
	if !c.fast && c.magnet.MagnetWhileScrolling {
		c.candidate = c.scanMagnet(offset, offset-prev)
	}
	return nil
}

// scanMagnet returns the first snap point close to offset that lies in
// the direction of travel, or -1.
func (c *Controller) scanMagnet(offset, delta float64) int {
	limit := math.Min(scrollMagnetLimit, c.magnet.DistanceToMagnet*c.scale.ScaleX)
	for i, p := range c.points {
		d := p.Offset - offset
		if math.Abs(d) <= limit && delta*d > 0 {
			return i
		}
	}
	return -1
}

// OnDragEnd finishes a drag. Without deceleration the controller goes
// idle and may settle onto a snap point.
func (c *Controller) OnDragEnd(willDecelerate bool) Command {
	if willDecelerate {
		c.phase = Decelerating
		return nil
	}
	c.phase = Idle
	return c.settle()
}

// OnDecelerationEnd goes idle and may settle onto a snap point.
func (c *Controller) OnDecelerationEnd() Command {
	c.phase = Idle
	return c.settle()
}

// OnSettleComplete is called by the host when an AnimateScrollTo has
// finished.
func (c *Controller) OnSettleComplete() Command {
	if c.pending < 0 || c.pending >= len(c.points) {
		c.pending = -1
		return nil
	}
	idx := c.pending
	c.pending = -1
	c.offset = c.points[idx].Offset
	c.highlighted = idx
	return HighlightSnap{Index: idx}
}

// Step animates to the neighbouring snap point in direction dir (-1 or
// +1) from the current offset.
func (c *Controller) Step(dir int) Command {
	if len(c.points) == 0 || dir == 0 {
		return nil
	}
	idx := -1
	if dir > 0 {
		for i, p := range c.points {
			if p.Offset > c.offset+0.5 {
				idx = i
				break
			}
		}
	} else {
		for i := len(c.points) - 1; i >= 0; i-- {
			if c.points[i].Offset < c.offset-0.5 {
				idx = i
				break
			}
		}
	}
	if idx < 0 {
		return nil
	}
	c.phase = Idle
	c.pending = idx
	target := c.points[idx].Offset
	return AnimateScrollTo{Index: idx, Offset: target, Duration: math.Abs(target-c.offset) / stepSpeed}
}

func (c *Controller) settle() Command {
	if c.lastSpeed <= settleSpeed || len(c.points) == 0 {
		return nil
	}
	idx, ok := c.settleTarget(c.offset)
	if !ok {
		return nil
	}
	c.pending = idx
	target := c.points[idx].Offset
	return AnimateScrollTo{
		Index:    idx,
		Offset:   target,
		Duration: math.Abs(target-c.offset) / c.lastSpeed,
	}
}

// settleTarget picks the nearer of the two snap points bracketing x when
// it lies within the gap's magnet threshold. The regions before the first
// and past the last point are bracketed by a virtual target that is
// never chosen.
func (c *Controller) settleTarget(x float64) (int, bool) {
	n := len(c.points)
	right := sort.Search(n, func(i int) bool { return c.points[i].Offset > x })
	left := right - 1

	var leftOff, rightOff float64
	if left < 0 {
		leftOff = c.points[0].Offset - openGap
	} else {
		leftOff = c.points[left].Offset
	}
	if right >= n {
		rightOff = c.points[n-1].Offset + openGap
	} else {
		rightOff = c.points[right].Offset
	}

	threshold := clamp((rightOff-leftOff)/2-settleMagnetInset, minMagnetDistance, maxMagnetDistance)
	leftDist, rightDist := x-leftOff, rightOff-x

	idx, dist := left, leftDist
	if rightDist < leftDist {
		idx, dist = right, rightDist
	}
	if idx < 0 || idx >= n || dist > threshold {
		return -1, false
	}
	return idx, true
}

// OnPinch multiplies the scale by delta, keeps the bar under the cursor
// in place and moves the snap points to the new content width.
func (c *Controller) OnPinch(delta float64) Command {
	if delta <= 0 || math.IsNaN(delta) || math.IsInf(delta, 0) {
		return nil
	}
	prev := c.scale.ScaleX
	c.scale.ScaleX = c.scale.Clamp(prev * delta)
	c.rescale(prev)
	return SetScale{ScaleX: c.scale.ScaleX, Offset: c.offset}
}

func (c *Controller) rescale(prev float64) {
	bar := c.offset / (c.pitch * prev)
	c.offset = math.Max(0, bar*c.pitch*c.scale.ScaleX)
	c.points, _, _ = Rebuild(c.percentages, c.ContentWidth(), c.markerSize)
	c.pending = -1
	c.candidate = -1
}

func (c *Controller) unscaledWidth() float64 {
	return float64(c.bars) * c.pitch
}
