// Copyright (c) 2025, The Noddle Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package canvas

import (
	"github.com/tpoveda/noddle/math32"
)

// minScaleFloor is the smallest scale the transform will ever hold.
// Scale is clamped strictly above zero so view-to-scene division is
// always defined.
const minScaleFloor = 1e-9

// ViewTransform is the canvas zoom/pan state: a single uniform scale factor
// (scene units to device pixels) plus the scene-space coordinate that the
// view origin maps to, and the view size in device pixels. Scale is always
// kept within the configured [min, max] range and is never <= 0.
type ViewTransform struct {
	scale    float32
	minScale float32
	maxScale float32
	offset   math32.Vector2
	viewSize math32.Vector2
}

// NewViewTransform returns a transform at scale 1 with the given scale range
// and view size in device pixels. An inverted range is swapped rather than
// rejected.
func NewViewTransform(minScale, maxScale float32, viewSize math32.Vector2) *ViewTransform {
	vt := &ViewTransform{scale: 1, viewSize: viewSize}
	vt.SetScaleRange(minScale, maxScale)
	return vt
}

// SetScaleRange sets the allowed scale range, swapping min and max if they
// are inverted and flooring min above zero. The current scale is re-clamped
// into the new range.
func (vt *ViewTransform) SetScaleRange(minScale, maxScale float32) {
	if minScale > maxScale {
		minScale, maxScale = maxScale, minScale
	}
	if minScale <= 0 {
		minScale = minScaleFloor
	}
	if maxScale < minScale {
		maxScale = minScale
	}
	vt.minScale = minScale
	vt.maxScale = maxScale
	vt.scale = vt.ClampScale(vt.scale)
}

// ScaleRange returns the allowed (min, max) scale range.
func (vt *ViewTransform) ScaleRange() (float32, float32) {
	return vt.minScale, vt.maxScale
}

// ClampScale returns the given scale clamped into the allowed range.
func (vt *ViewTransform) ClampScale(scale float32) float32 {
	return math32.Clamp(scale, vt.minScale, vt.maxScale)
}

// Scale returns the current uniform scale factor.
func (vt *ViewTransform) Scale() float32 {
	return vt.scale
}

// SetScale sets the current scale, clamped into the allowed range.
// Non-positive values are ignored.
func (vt *ViewTransform) SetScale(scale float32) {
	if scale <= 0 {
		return
	}
	vt.scale = vt.ClampScale(scale)
}

// Offset returns the scene-space coordinate at the view origin.
func (vt *ViewTransform) Offset() math32.Vector2 {
	return vt.offset
}

// SetOffset sets the scene-space coordinate at the view origin.
func (vt *ViewTransform) SetOffset(offset math32.Vector2) {
	vt.offset = offset
}

// ViewSize returns the view size in device pixels.
func (vt *ViewTransform) ViewSize() math32.Vector2 {
	return vt.viewSize
}

// SetViewSize sets the view size in device pixels.
func (vt *ViewTransform) SetViewSize(size math32.Vector2) {
	vt.viewSize = size
}

// SceneRect returns the scene-space rectangle currently visible in the view.
func (vt *ViewTransform) SceneRect() math32.Box2 {
	return math32.Box2{
		Min: vt.offset,
		Max: vt.offset.Add(vt.viewSize.DivScalar(vt.scale)),
	}
}

// MapToScene maps a view-space (device pixel) position to scene space.
func (vt *ViewTransform) MapToScene(view math32.Vector2) math32.Vector2 {
	return vt.offset.Add(view.DivScalar(vt.scale))
}

// MapFromScene maps a scene-space position to view space (device pixels).
func (vt *ViewTransform) MapFromScene(scene math32.Vector2) math32.Vector2 {
	return scene.Sub(vt.offset).MulScalar(vt.scale)
}
