// Copyright (c) 2025, The Noddle Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package canvas implements the node-graph canvas interaction and rendering
// core: a smooth pan/zoom engine driven by per-frame ticks, and an adaptive
// background grid renderer that produces batched, deterministic geometry.
//
// The package is host-agnostic: the host viewport supplies mouse and wheel
// events and a [Painter] surface, and drives [Canvas.Tick] from its frame
// loop while [Canvas.Animating] reports true.
package canvas

import (
	"image/color"
	"time"

	"github.com/tpoveda/noddle/inputs"
	"github.com/tpoveda/noddle/math32"
)

// ActionPan is the bindings action name that puts the canvas into pan mode
// on mouse press.
const ActionPan = "Canvas.Pan"

// Config is the canvas configuration, snapshotted once at construction from
// the host preferences. The canvas does not react to later changes.
type Config struct {

	// MinScale and MaxScale bound the view scale. An inverted pair is
	// swapped rather than rejected.
	MinScale float32
	MaxScale float32

	// WheelZoomRate is the zoom factor applied per wheel notch
	// (120 units of angle delta).
	WheelZoomRate float32

	// Smoothing is the per-tick interpolation amount for eased zoom and
	// queued pan, clamped to [0, 1].
	Smoothing float32

	// Friction is the per-tick multiplier applied to inertial pan
	// velocity, clamped to [0, 1].
	Friction float32

	// MaxStepZoomFactor caps the instantaneous zoom factor from a single
	// wheel event, guarding against spikes from high-resolution devices.
	MaxStepZoomFactor float32

	// TickInterval is the suggested animation tick interval for hosts
	// driving [Canvas.Tick] from a timer. Clamped to at least 4ms.
	TickInterval time.Duration

	// LODs is the number of level-of-detail steps reported by [Canvas.LOD].
	LODs int

	// Background is the canvas background fill color.
	Background color.RGBA

	// DrawGrid toggles background grid rendering entirely.
	DrawGrid bool

	// Grid configures the background grid tiers.
	Grid GridConfig
}

// Defaults sets standard configuration values.
func (c *Config) Defaults() {
	c.MinScale = 0.1
	c.MaxScale = 4
	c.WheelZoomRate = 1.25
	c.Smoothing = 0.25
	c.Friction = 0.85
	c.MaxStepZoomFactor = 2
	c.TickInterval = 16 * time.Millisecond
	c.LODs = 5
	c.Background = color.RGBA{R: 40, G: 40, B: 40, A: 255}
	c.DrawGrid = true
	c.Grid.Defaults()
}

// sanitize clamps configuration values into their valid ranges.
func (c *Config) sanitize() {
	if c.MinScale > c.MaxScale {
		c.MinScale, c.MaxScale = c.MaxScale, c.MinScale
	}
	c.Smoothing = math32.Clamp(c.Smoothing, 0, 1)
	c.Friction = math32.Clamp(c.Friction, 0, 1)
	if c.MaxStepZoomFactor < 1 {
		c.MaxStepZoomFactor = 1
	}
	if c.WheelZoomRate <= 0 {
		c.WheelZoomRate = 1.25
	}
	if c.TickInterval < 4*time.Millisecond {
		c.TickInterval = 4 * time.Millisecond
	}
	if c.LODs < 1 {
		c.LODs = 1
	}
}

// Canvas owns the view transform and the smooth interaction state for one
// host viewport. It is exclusively owned by a single (UI) goroutine; no
// operation blocks or spawns goroutines.
type Canvas struct {
	Config Config

	transform *ViewTransform
	bindings  *inputs.Bindings

	smooth smoothState

	panning       bool
	lastMousePos  math32.Vector2
	lastMoveDelta math32.Vector2

	needsRedraw bool
}

// New returns a new [Canvas] with the given configuration, input bindings,
// and view size in device pixels. A nil bindings registry disables
// chord-driven pan mode; explicit pan/zoom calls still work.
func New(cfg Config, bindings *inputs.Bindings, viewSize math32.Vector2) *Canvas {
	cfg.sanitize()
	c := &Canvas{
		Config:    cfg,
		transform: NewViewTransform(cfg.MinScale, cfg.MaxScale, viewSize),
		bindings:  bindings,
	}
	c.smooth.reset(c.transform.Scale())
	return c
}

// Transform returns the canvas view transform.
func (c *Canvas) Transform() *ViewTransform {
	return c.transform
}

// Scale returns the current view scale.
func (c *Canvas) Scale() float32 {
	return c.transform.Scale()
}

// LOD returns the level-of-detail step for the current scale, from
// Config.LODs at minimum zoom down to 1 at maximum zoom.
func (c *Canvas) LOD() int {
	lo, hi := c.transform.ScaleRange()
	if hi <= lo { // degenerate range, only one detail level
		return 1
	}
	t := math32.Clamp((c.transform.Scale()-lo)/(hi-lo), 0, 1)
	return int(math32.Round(math32.Lerp(float32(c.Config.LODs), 1, t)))
}

// NeedsRedraw reports whether the transform changed since the last call and
// clears the flag.
func (c *Canvas) NeedsRedraw() bool {
	n := c.needsRedraw
	c.needsRedraw = false
	return n
}

// MousePress feeds a mouse press event. If the button and modifiers match
// the Canvas.Pan binding, the canvas enters pan mode; any in-flight eased
// zoom is cancelled either way, giving click-to-interrupt semantics.
func (c *Canvas) MousePress(button inputs.Buttons, mods inputs.Modifiers, pos math32.Vector2) {
	c.lastMousePos = pos
	c.cancelZoomAnimation()
	if c.bindings != nil && c.bindings.Matches(ActionPan, button, mods) {
		c.panning = true
		c.smooth.inertia.SetZero()
		c.lastMoveDelta.SetZero()
	}
}

// MouseMove feeds a mouse move event. While panning, the view follows the
// cursor and the last move delta is kept for inertial release.
func (c *Canvas) MouseMove(pos math32.Vector2) {
	delta := pos.Sub(c.lastMousePos)
	c.lastMousePos = pos
	if !c.panning {
		return
	}
	c.Pan(delta)
	c.lastMoveDelta = delta
}

// MouseRelease feeds a mouse release event, leaving pan mode and handing the
// last drag velocity to the inertia decay.
func (c *Canvas) MouseRelease(button inputs.Buttons, mods inputs.Modifiers, pos math32.Vector2) {
	c.lastMousePos = pos
	if !c.panning {
		return
	}
	c.panning = false
	if !c.lastMoveDelta.IsZero() {
		c.SetInertialPanVelocity(c.lastMoveDelta)
	}
}

// MouseScroll feeds a wheel event at the given view position. Angle delta is
// preferred; pixel delta is used at the same rate when angle delta is zero.
// One wheel notch is 120 delta units. The instantaneous factor is capped to
// [1/MaxStepZoomFactor, MaxStepZoomFactor], and the eased target is computed
// from the current scale and re-anchored at the cursor.
func (c *Canvas) MouseScroll(angleDelta, pixelDelta float32, pos math32.Vector2) {
	c.lastMousePos = pos
	delta := angleDelta
	if delta == 0 {
		delta = pixelDelta
	}
	if delta == 0 {
		return
	}
	steps := delta / 120
	factor := math32.Pow(c.Config.WheelZoomRate, steps)
	maxStep := c.Config.MaxStepZoomFactor
	factor = math32.Clamp(factor, 1/maxStep, maxStep)
	target := c.transform.ClampScale(c.transform.Scale() * factor)
	c.SmoothZoomTo(target, pos)
}

// DrawBackground fills the background and draws the adaptive grid onto the
// given painter. Grid geometry is recomputed from the current scale and
// visible rect every call; see [LayoutGrid].
func (c *Canvas) DrawBackground(p Painter) {
	rect := c.transform.SceneRect()
	p.FillRect(rect, c.Config.Background)
	if !c.Config.DrawGrid || c.Config.Grid.Mode == NoGrid {
		return
	}
	g := LayoutGrid(c.transform.Scale(), rect, &c.Config.Grid)
	g.Draw(p, &c.Config.Grid)
}
