package snap

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newScenarioController lays out 1000 bars of pitch 1 so the track is
// 1000 units wide at scale 1.
func newScenarioController(t *testing.T, percentages ...float64) *Controller {
	t.Helper()
	if percentages == nil {
		percentages = []float64{0, 0.5, 1}
	}
	c, err := NewController(Options{
		Bars:                 1000,
		BarWidth:             0.5,
		BarSpacing:           0.5,
		ViewportWidth:        300,
		MarkerSize:           8,
		MinScaleX:            0.3,
		MaxScaleX:            3,
		Percentages:          percentages,
		MagnetWhileScrolling: true,
	})
	require.NoError(t, err)
	return c
}

// drag feeds a drag that ends at offset with the given speed.
func drag(c *Controller, from, to, dt float64) {
	c.OnDragStart()
	c.OnScrollSample(from, 0)
	c.OnScrollSample(to, dt)
}

func TestNewControllerValidates(t *testing.T) {
	_, err := NewController(Options{Bars: 10, MaxScaleX: 3})
	assert.ErrorIs(t, err, ErrInvalidArgument)

	_, err = NewController(Options{Bars: 10, BarWidth: 2, BarSpacing: 1})
	assert.ErrorIs(t, err, ErrInvalidArgument)

	_, err = NewController(Options{Bars: 10, BarWidth: 2, BarSpacing: 1, MaxScaleX: 3, Percentages: []float64{2}})
	assert.ErrorIs(t, err, ErrInvalidArgument)
}

func TestControllerInitialState(t *testing.T) {
	c := newScenarioController(t)
	assert.Equal(t, Idle, c.Phase())
	assert.Equal(t, 1.0, c.Scale().ScaleX)
	assert.Equal(t, 0.3, c.Scale().MinScaleX)
	assert.Equal(t, 1000.0, c.ContentWidth())
	assert.Equal(t, []float64{-4, 496, 996}, Offsets(c.Points()))
	assert.Equal(t, 30.0, c.Magnet().DistanceToMagnet)
}

func TestSettleScenario(t *testing.T) {
	c := newScenarioController(t)
	drag(c, 500, 510, 2000)
	require.InDelta(t, 0.1, c.LastSpeed(), 1e-12)
	assert.True(t, c.Fast())

	cmd := c.OnDragEnd(false)
	require.IsType(t, AnimateScrollTo{}, cmd)
	anim := cmd.(AnimateScrollTo)
	assert.Equal(t, 1, anim.Index)
	assert.Equal(t, 496.0, anim.Offset)
	assert.InDelta(t, 140, anim.Duration, 1e-9)
	assert.Equal(t, Idle, c.Phase())

	done := c.OnSettleComplete()
	assert.Equal(t, HighlightSnap{Index: 1}, done)
	assert.Equal(t, 1, c.Highlighted())
	assert.Equal(t, 496.0, c.Offset())

	assert.Nil(t, c.OnSettleComplete(), "completion is reported once")
}

func TestSettleRequiresSpeed(t *testing.T) {
	c := newScenarioController(t)
	// 1 unit over 1000 time units: 0.02
	drag(c, 509, 510, 1000)
	assert.False(t, c.Fast())
	assert.Nil(t, c.OnDragEnd(false))
}

func TestDragStartForgetsPreviousSpeed(t *testing.T) {
	c := newScenarioController(t)
	drag(c, 500, 510, 2000)
	require.IsType(t, AnimateScrollTo{}, c.OnDragEnd(false))
	c.OnSettleComplete()

	// a click: one sample, no motion
	c.OnDragStart()
	assert.Zero(t, c.LastSpeed())
	c.OnScrollSample(498, 3000)
	assert.Nil(t, c.OnDragEnd(false))
	assert.Equal(t, Idle, c.Phase())
}

func TestSettleOutsideThreshold(t *testing.T) {
	c := newScenarioController(t)
	drag(c, 560, 600, 2000)
	assert.Nil(t, c.OnDragEnd(false), "104 units from the nearest point")
}

func TestSettleTiesGoLeft(t *testing.T) {
	c := newScenarioController(t, 0.5, 0.515625)
	// offsets 496 and 511.625, threshold 10; x=503.8125 is equidistant
	drag(c, 500, 503.8125, 500)
	cmd := c.OnDragEnd(false)
	require.IsType(t, AnimateScrollTo{}, cmd)
	assert.Equal(t, 0, cmd.(AnimateScrollTo).Index)
}

func TestSettleNearerRight(t *testing.T) {
	c := newScenarioController(t)
	drag(c, 960, 980, 2000)
	cmd := c.OnDragEnd(false)
	require.IsType(t, AnimateScrollTo{}, cmd)
	assert.Equal(t, 2, cmd.(AnimateScrollTo).Index)
}

func TestSettleVirtualEnds(t *testing.T) {
	c := newScenarioController(t, 0.5)
	// past the last point: nearer to 496 than to the virtual 1496
	drag(c, 480, 520, 2000)
	cmd := c.OnDragEnd(false)
	require.IsType(t, AnimateScrollTo{}, cmd)
	assert.Equal(t, 0, cmd.(AnimateScrollTo).Index)

	// before the first point, within range
	drag(c, 440, 480, 2000)
	cmd = c.OnDragEnd(false)
	require.IsType(t, AnimateScrollTo{}, cmd)
	assert.Equal(t, 0, cmd.(AnimateScrollTo).Index)

	// before the first point, far away
	drag(c, 100, 140, 2000)
	assert.Nil(t, c.OnDragEnd(false))
}

func TestDecelerationDefersSettle(t *testing.T) {
	c := newScenarioController(t)
	drag(c, 500, 510, 2000)
	assert.Nil(t, c.OnDragEnd(true))
	assert.Equal(t, Decelerating, c.Phase())

	c.OnScrollSample(505, 2100)
	assert.InDelta(t, 0.1, c.LastSpeed(), 1e-12, "speed is only sampled while dragging")

	cmd := c.OnDecelerationEnd()
	assert.Equal(t, Idle, c.Phase())
	require.IsType(t, AnimateScrollTo{}, cmd)
	assert.InDelta(t, 90, cmd.(AnimateScrollTo).Duration, 1e-9)
}

func TestSpeedSampleWindow(t *testing.T) {
	c := newScenarioController(t)
	c.OnDragStart()
	c.OnScrollSample(0, 0)
	c.OnScrollSample(100, 0.1)
	assert.Equal(t, 0.0, c.LastSpeed(), "samples closer than 0.3 apart are skipped")

	c.OnScrollSample(100, 0.5)
	assert.InDelta(t, 100*20/0.5, c.LastSpeed(), 1e-9)
	assert.Equal(t, 100.0, c.Offset())
}

func TestScrollSamplesIgnoredWhenIdle(t *testing.T) {
	c := newScenarioController(t)
	c.OnScrollSample(10, 0)
	c.OnScrollSample(50, 10)
	assert.Equal(t, 0.0, c.LastSpeed())
	assert.Equal(t, 50.0, c.Offset())
	assert.Equal(t, Idle, c.Phase())
}

func TestMagnetWhileScrollingDetectsWithoutPull(t *testing.T) {
	c := newScenarioController(t)
	c.OnDragStart()
	c.OnScrollSample(470, 0)
	c.OnScrollSample(480, 10000)
	require.False(t, c.Fast())

	idx, ok := c.MagnetCandidate()
	require.True(t, ok)
	assert.Equal(t, 1, idx)
	assert.Equal(t, 480.0, c.Offset(), "detection must not move the view")

	// moving away from the point is not eligible
	c.OnScrollSample(475, 30000)
	_, ok = c.MagnetCandidate()
	assert.False(t, ok)

	c.SetMagnetWhileScrolling(false)
	c.OnScrollSample(480, 50000)
	_, ok = c.MagnetCandidate()
	assert.False(t, ok)
}

func TestMagnetLimitFollowsScale(t *testing.T) {
	c := newScenarioController(t)
	c.OnPinch(0.3)
	// distanceToMagnet 30 * 0.3 = 9 units at this scale
	offsets := Offsets(c.Points())
	require.InDelta(t, 146, offsets[1], 1e-9)

	c.OnDragStart()
	c.OnScrollSample(130, 0)
	c.OnScrollSample(135, 10000)
	require.False(t, c.Fast())
	_, ok := c.MagnetCandidate()
	assert.False(t, ok, "11 units away is outside the scaled limit")

	c.OnScrollSample(140, 20000)
	idx, ok := c.MagnetCandidate()
	require.True(t, ok)
	assert.Equal(t, 1, idx)
}

func TestPinchClampsToMaximum(t *testing.T) {
	c := newScenarioController(t)
	cmd := c.OnPinch(5)
	require.IsType(t, SetScale{}, cmd)
	assert.Equal(t, 3.0, cmd.(SetScale).ScaleX)
	assert.Equal(t, 3.0, c.Scale().ScaleX)
}

func TestPinchClampsToMinimum(t *testing.T) {
	c := newScenarioController(t)
	c.OnPinch(0.01)
	assert.Equal(t, 0.3, c.Scale().ScaleX)
}

func TestPinchKeepsBarUnderCursor(t *testing.T) {
	c := newScenarioController(t)
	c.OnScrollSample(250, 0)

	cmd := c.OnPinch(2)
	require.IsType(t, SetScale{}, cmd)
	assert.Equal(t, 500.0, cmd.(SetScale).Offset)
	assert.Equal(t, 500.0, c.Offset())
	assert.Equal(t, 2000.0, c.ContentWidth())
	assert.Equal(t, []float64{-4, 996, 1996}, Offsets(c.Points()))

	c.OnScrollSample(-40, 1)
	c.OnPinch(1.5)
	assert.Equal(t, 0.0, c.Offset(), "recentred offset is never negative")
}

func TestPinchIgnoresNonPositiveDelta(t *testing.T) {
	c := newScenarioController(t)
	assert.Nil(t, c.OnPinch(0))
	assert.Nil(t, c.OnPinch(-2))
	assert.Equal(t, 1.0, c.Scale().ScaleX)
}

func TestSetViewportRecomputesMinimum(t *testing.T) {
	c := newScenarioController(t)
	assert.Nil(t, c.SetViewport(500))
	assert.Equal(t, 0.5, c.Scale().MinScaleX)

	cmd := c.SetViewport(2000)
	require.IsType(t, SetScale{}, cmd)
	assert.Equal(t, 2.0, c.Scale().ScaleX)
}

func TestStepMovesBetweenPoints(t *testing.T) {
	c := newScenarioController(t)
	c.OnScrollSample(100, 0)

	cmd := c.Step(1)
	require.IsType(t, AnimateScrollTo{}, cmd)
	assert.Equal(t, 1, cmd.(AnimateScrollTo).Index)
	assert.Equal(t, HighlightSnap{Index: 1}, c.OnSettleComplete())

	cmd = c.Step(-1)
	require.IsType(t, AnimateScrollTo{}, cmd)
	assert.Equal(t, 0, cmd.(AnimateScrollTo).Index)

	c.OnSettleComplete()
	assert.Nil(t, c.Step(-1))
}

func TestNewDragCancelsPendingSettle(t *testing.T) {
	c := newScenarioController(t)
	drag(c, 500, 510, 2000)
	require.NotNil(t, c.OnDragEnd(false))

	c.OnDragStart()
	assert.Nil(t, c.OnSettleComplete())
	assert.Equal(t, Dragging, c.Phase())
}

func TestSetPercentagesRebuilds(t *testing.T) {
	c := newScenarioController(t)
	require.NoError(t, c.SetPercentages([]float64{0.25, 0.75}))
	assert.Equal(t, []float64{246, 746}, Offsets(c.Points()))
	assert.Equal(t, 30.0, c.Magnet().DistanceToMagnet)

	assert.ErrorIs(t, c.SetPercentages([]float64{3}), ErrInvalidArgument)
	assert.Len(t, c.Points(), 2, "failed rebuild keeps the previous points")
}
