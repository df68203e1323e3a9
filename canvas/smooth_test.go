// Copyright (c) 2025, The Noddle Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package canvas

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tpoveda/noddle/inputs"
	"github.com/tpoveda/noddle/math32"
)

func testCanvas() *Canvas {
	var cfg Config
	cfg.Defaults()
	cfg.MinScale = 0.2
	cfg.MaxScale = 3
	bindings := inputs.NewBindings()
	bindings.Add(ActionPan, inputs.Chord{Button: inputs.Middle})
	return New(cfg, bindings, math32.Vec2(800, 600))
}

// runTicks advances the animation until it stops, failing the test if it
// never terminates.
func runTicks(t *testing.T, c *Canvas) int {
	t.Helper()
	for i := 0; i < 10_000; i++ {
		if !c.Tick() {
			return i + 1
		}
	}
	t.Fatal("animation did not terminate")
	return 0
}

func TestZoomClamping(t *testing.T) {
	c := testCanvas()
	for _, factor := range []float32{0.0001, 0.5, 1, 1.0000001, 2, 100, 1e6} {
		c.Zoom(factor)
		scale := c.Scale()
		assert.GreaterOrEqual(t, scale, float32(0.2))
		assert.LessOrEqual(t, scale, float32(3))
	}
}

func TestZoomDefensiveNoOps(t *testing.T) {
	c := testCanvas()
	assert.False(t, c.Zoom(0))
	assert.False(t, c.Zoom(-2))
	assert.False(t, c.Zoom(1))
	assert.Equal(t, float32(1), c.Scale())
}

func TestScaleRangeAutoSwap(t *testing.T) {
	vt := NewViewTransform(3, 0.2, math32.Vec2(100, 100))
	lo, hi := vt.ScaleRange()
	assert.Equal(t, float32(0.2), lo)
	assert.Equal(t, float32(3), hi)
}

func TestPanFollowsCursor(t *testing.T) {
	c := testCanvas()
	require.True(t, c.Pan(math32.Vec2(10, 0)))
	// Dragging right moves content right, so the view origin scene
	// coordinate decreases.
	assert.InDelta(t, -10, c.Transform().Offset().X, 1e-5)
	assert.InDelta(t, 0, c.Transform().Offset().Y, 1e-5)
}

func TestPanNoOpBelowEpsilon(t *testing.T) {
	c := testCanvas()
	before := c.Transform().Offset()
	assert.False(t, c.Pan(math32.Vec2(0, 0)))
	assert.Equal(t, before, c.Transform().Offset())
	assert.False(t, c.NeedsRedraw())
}

func TestSmoothZoomConvergesToTarget(t *testing.T) {
	c := testCanvas()
	c.SmoothZoomTo(2, math32.Vec2(400, 300))
	runTicks(t, c)
	assert.InDelta(t, 2, c.Scale(), 1e-4)
	assert.False(t, c.Animating())
}

func TestAnchorPinning(t *testing.T) {
	c := testCanvas()
	anchor := math32.Vec2(400, 300)
	scenePoint := c.Transform().MapToScene(anchor)
	c.SmoothZoomTo(2, anchor)
	runTicks(t, c)
	back := c.Transform().MapFromScene(scenePoint)
	assert.InDelta(t, anchor.X, back.X, 0.01)
	assert.InDelta(t, anchor.Y, back.Y, 0.01)
}

func TestWheelZoomInAtCursor(t *testing.T) {
	c := testCanvas()
	pos := math32.Vec2(400, 300)
	scenePoint := c.Transform().MapToScene(pos)
	c.MouseScroll(120, 0, pos)
	runTicks(t, c)
	// One notch at the default 1.25 rate.
	assert.InDelta(t, 1.25, c.Scale(), 1e-3)
	back := c.Transform().MapFromScene(scenePoint)
	assert.InDelta(t, pos.X, back.X, 0.01)
	assert.InDelta(t, pos.Y, back.Y, 0.01)
}

func TestWheelPixelFallbackAndStepCap(t *testing.T) {
	c := testCanvas()
	// 8 notches at rate 1.25 would be ~4.66x; the per-event factor is
	// capped at MaxStepZoomFactor (2), so the eased target is 2.
	c.MouseScroll(0, 960, math32.Vec2(0, 0))
	runTicks(t, c)
	assert.InDelta(t, 2, c.Scale(), 1e-3)
}

func TestSmoothPanByViewEases(t *testing.T) {
	c := testCanvas()
	c.SmoothPanByView(math32.Vec2(100, -40))
	runTicks(t, c)
	offset := c.Transform().Offset()
	// The queued delta is applied in rounded integer steps; the snap
	// threshold leaves at most a fraction of a pixel unapplied.
	assert.InDelta(t, -100, offset.X, 1.5)
	assert.InDelta(t, 40, offset.Y, 1.5)
	assert.True(t, c.smooth.pendingPan.IsZero())
}

func TestInertiaTerminates(t *testing.T) {
	c := testCanvas()
	c.SetInertialPanVelocity(math32.Vec2(10, 10))
	ticks := runTicks(t, c)
	assert.True(t, c.smooth.inertia.IsZero())
	assert.False(t, c.Animating())
	// 0.85^n * 10 < 0.05 at n ~= 33; the self-stop tick adds one more.
	assert.LessOrEqual(t, ticks, 40)
}

func TestMousePanWithInertialRelease(t *testing.T) {
	c := testCanvas()
	c.MousePress(inputs.Middle, 0, math32.Vec2(100, 100))
	c.MouseMove(math32.Vec2(110, 100))
	c.MouseMove(math32.Vec2(125, 100))
	moved := c.Transform().Offset()
	assert.InDelta(t, -25, moved.X, 1e-4)
	c.MouseRelease(inputs.Middle, 0, math32.Vec2(125, 100))
	require.True(t, c.Animating())
	runTicks(t, c)
	// Inertia keeps moving the view in the drag direction after release.
	assert.Less(t, c.Transform().Offset().X, moved.X)
}

func TestMousePressInterruptsZoom(t *testing.T) {
	c := testCanvas()
	c.SmoothZoomTo(3, math32.Vec2(0, 0))
	c.Tick()
	mid := c.Scale()
	require.Less(t, mid, float32(3))
	c.MousePress(inputs.Left, 0, math32.Vec2(10, 10))
	runTicks(t, c)
	// The cancel pins the target at the current scale.
	assert.InDelta(t, mid, c.Scale(), 1e-4)
}

func TestUnmatchedButtonDoesNotPan(t *testing.T) {
	c := testCanvas()
	c.MousePress(inputs.Left, 0, math32.Vec2(0, 0))
	c.MouseMove(math32.Vec2(50, 50))
	assert.Equal(t, math32.Vec2(0, 0), c.Transform().Offset())
}
