// Copyright (c) 2025, The Noddle Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package canvas

import (
	"github.com/tpoveda/noddle/math32"
)

// Policy constants controlling termination and snap behavior. Changing these
// trades perpetual micro-animation against visibly abrupt snapping.
const (
	// zoomEpsilon is the minimum net relative zoom effect worth applying.
	zoomEpsilon = 1e-6

	// panEpsilon is the minimum scene-space translation worth applying.
	panEpsilon = 1e-6

	// panSnapPixels snaps the queued pan delta to zero once both axes
	// fall below this many view pixels.
	panSnapPixels = 0.1

	// inertiaDeadZone zeroes an inertial velocity axis below this
	// magnitude, guaranteeing eventual termination.
	inertiaDeadZone = 0.05
)

// smoothState is the transient per-canvas interaction state: the eased
// absolute zoom target, the (view, scene) anchor pair recorded when a zoom
// gesture starts, the accumulated view-space pan delta awaiting easing, and
// the decaying inertial velocity. It goes back to idle once a tick finds
// nothing left to do.
type smoothState struct {
	targetScale float32
	hasAnchor   bool
	anchorView  math32.Vector2
	anchorScene math32.Vector2
	pendingPan  math32.Vector2
	inertia     math32.Vector2
	animating   bool
}

// reset returns the state to idle at the given current scale.
func (s *smoothState) reset(scale float32) {
	s.targetScale = scale
	s.hasAnchor = false
	s.pendingPan.SetZero()
	s.inertia.SetZero()
	s.animating = false
}

// Zoom multiplies the current scale by the given factor, clamped into the
// allowed range. The clamped absolute result is converted back into an
// effective relative factor and applied only if the net effect exceeds
// [zoomEpsilon]. Non-positive inputs and degenerate current scale are
// ignored. Reports whether the transform changed.
func (c *Canvas) Zoom(factor float32) bool {
	cur := c.transform.Scale()
	if factor <= 0 || cur <= 0 {
		return false
	}
	next := c.transform.ClampScale(cur * factor)
	if math32.Abs(next/cur-1) <= zoomEpsilon {
		return false
	}
	c.transform.SetScale(next)
	c.needsRedraw = true
	return true
}

// Pan translates the view by the given delta in view pixels, so content
// follows the cursor: the delta is divided by the current scale and negated
// before being applied to the scene offset. Zero deltas, degenerate scale,
// and translations below [panEpsilon] are ignored. Reports whether the
// transform changed.
func (c *Canvas) Pan(delta math32.Vector2) bool {
	scale := c.transform.Scale()
	if delta.IsZero() || scale <= 0 {
		return false
	}
	sceneDelta := delta.DivScalar(scale).Negate()
	if sceneDelta.Length() < panEpsilon {
		return false
	}
	c.transform.SetOffset(c.transform.Offset().Add(sceneDelta))
	c.needsRedraw = true
	return true
}

// SmoothZoomTo sets an eased absolute zoom target, clamped into the allowed
// range, and records the anchor pair: the given view position and the scene
// position currently under it. The animation starts if not already running.
func (c *Canvas) SmoothZoomTo(scale float32, anchorView math32.Vector2) {
	c.smooth.targetScale = c.transform.ClampScale(scale)
	c.smooth.anchorView = anchorView
	c.smooth.anchorScene = c.transform.MapToScene(anchorView)
	c.smooth.hasAnchor = true
	c.smooth.animating = true
}

// SmoothPanByView queues a view-space pan delta to be eased over subsequent
// ticks, accumulating into any delta already pending.
func (c *Canvas) SmoothPanByView(delta math32.Vector2) {
	c.smooth.pendingPan = c.smooth.pendingPan.Add(delta)
	c.smooth.animating = true
}

// SetInertialPanVelocity overwrites the decaying inertial pan velocity, in
// view pixels per tick, and starts the animation.
func (c *Canvas) SetInertialPanVelocity(velocity math32.Vector2) {
	c.smooth.inertia = velocity
	c.smooth.animating = true
}

// Animating reports whether any eased zoom, queued pan, or inertial pan is
// still in flight. Hosts keep calling [Canvas.Tick] while this is true.
func (c *Canvas) Animating() bool {
	return c.smooth.animating
}

// cancelZoomAnimation halts further zoom easing by resetting the target to
// the current scale and clearing the anchor pair. Pan and inertia easing
// keep running.
func (c *Canvas) cancelZoomAnimation() {
	c.smooth.targetScale = c.transform.Scale()
	c.smooth.hasAnchor = false
}

// applyZoomStep applies a relative zoom factor and, if an anchor pair is
// recorded, pans away the drift so the anchored scene point stays visually
// pinned under the cursor. Reports whether the transform changed.
func (c *Canvas) applyZoomStep(factor float32) bool {
	if !c.Zoom(factor) {
		return false
	}
	if c.smooth.hasAnchor {
		newView := c.transform.MapFromScene(c.smooth.anchorScene)
		c.Pan(c.smooth.anchorView.Sub(newView))
	}
	return true
}

// Tick advances the smooth interaction state by one animation step and
// reports whether the animation is still running. Hosts call it on a fixed
// interval (Config.TickInterval) or once per display refresh while
// [Canvas.Animating] reports true.
//
// Within one tick the order is fixed: zoom easing, then queued pan easing,
// then inertial decay. Each step composes a translation into the shared
// scene offset, so reordering would change the final frame.
func (c *Canvas) Tick() bool {
	if !c.smooth.animating {
		return false
	}
	changed := false

	// Zoom easing toward the absolute target, anchored.
	cur := c.transform.Scale()
	if cur > 0 {
		next := math32.Lerp(cur, c.smooth.targetScale, c.Config.Smoothing)
		next = c.transform.ClampScale(next)
		if next <= 0 {
			next = cur
		}
		if step := next / cur; math32.Abs(step-1) > zoomEpsilon {
			if c.applyZoomStep(step) {
				changed = true
			}
		}
	}

	// Queued pan easing: rounded integer steps, fractional remainder kept.
	if !c.smooth.pendingPan.IsZero() {
		step := c.smooth.pendingPan.MulScalar(c.Config.Smoothing).Round()
		if !step.IsZero() {
			if c.Pan(step) {
				changed = true
			}
			c.smooth.pendingPan = c.smooth.pendingPan.Sub(step)
		}
		if math32.Abs(c.smooth.pendingPan.X) < panSnapPixels && math32.Abs(c.smooth.pendingPan.Y) < panSnapPixels {
			c.smooth.pendingPan.SetZero()
		}
	}

	// Inertial pan decay.
	if !c.smooth.inertia.IsZero() {
		if c.Pan(c.smooth.inertia) {
			changed = true
		}
		c.smooth.inertia = c.smooth.inertia.MulScalar(c.Config.Friction)
		if math32.Abs(c.smooth.inertia.X) < inertiaDeadZone {
			c.smooth.inertia.X = 0
		}
		if math32.Abs(c.smooth.inertia.Y) < inertiaDeadZone {
			c.smooth.inertia.Y = 0
		}
	}

	if !changed {
		c.smooth.reset(c.transform.Scale())
	}
	return c.smooth.animating
}
