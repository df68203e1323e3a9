// Copyright (c) 2025, The Noddle Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package canvas

import (
	"image/color"

	"github.com/tpoveda/noddle/math32"
)

// Painter is the drawing surface supplied by the host viewport. All
// coordinates are in scene space; the host applies the view transform.
// Line and point batches are issued as single calls so hosts can submit
// them in one draw operation, which matters at high line counts during
// zoom-out.
type Painter interface {

	// FillRect fills the given scene-space rectangle.
	FillRect(rect math32.Box2, c color.RGBA)

	// Lines strokes a batch of 1px cosmetic hairlines.
	Lines(lines []Line, c color.RGBA)

	// Points draws a batch of dots with the given diameter in device
	// pixels.
	Points(pts []math32.Vector2, c color.RGBA, diameter float32)

	// Text draws a label at the given scene position with the given font
	// point size.
	Text(pos math32.Vector2, text string, c color.RGBA, pointSize float32)
}

// Recorder is a [Painter] that records every call, for tests and headless
// runs.
type Recorder struct {
	Rects      []math32.Box2
	LineCalls  [][]Line
	PointCalls [][]math32.Vector2
	Texts      []string
}

// NumLines returns the total number of lines across all recorded batches.
func (r *Recorder) NumLines() int {
	n := 0
	for _, b := range r.LineCalls {
		n += len(b)
	}
	return n
}

// NumPoints returns the total number of points across all recorded batches.
func (r *Recorder) NumPoints() int {
	n := 0
	for _, b := range r.PointCalls {
		n += len(b)
	}
	return n
}

func (r *Recorder) FillRect(rect math32.Box2, c color.RGBA) {
	r.Rects = append(r.Rects, rect)
}

func (r *Recorder) Lines(lines []Line, c color.RGBA) {
	r.LineCalls = append(r.LineCalls, lines)
}

func (r *Recorder) Points(pts []math32.Vector2, c color.RGBA, diameter float32) {
	r.PointCalls = append(r.PointCalls, pts)
}

func (r *Recorder) Text(pos math32.Vector2, text string, c color.RGBA, pointSize float32) {
	r.Texts = append(r.Texts, text)
}
