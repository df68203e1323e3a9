// Copyright (c) 2025, The Noddle Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package canvas

import (
	"image/color"
	"strconv"

	"github.com/tpoveda/noddle/math32"
)

// GridModes are the background grid rendering modes.
type GridModes int32

const (
	// NoGrid disables the background grid.
	NoGrid GridModes = iota

	// Dots draws a dot at each small-grid intersection.
	Dots

	// Lines draws small and large grid hairlines.
	Lines
)

func (g GridModes) String() string {
	switch g {
	case NoGrid:
		return "none"
	case Dots:
		return "dots"
	case Lines:
		return "lines"
	}
	return "GridModes(" + strconv.Itoa(int(g)) + ")"
}

// Pixel-density thresholds for tier alpha fades, tuned so a tier never
// renders when its cells are sub-pixel and is fully opaque once comfortably
// visible.
const (
	smallFadeLow  = 1.25
	smallFadeHigh = 8
	largeFadeLow  = 0.75
	largeFadeHigh = 4
	labelFadeLow  = 8
	labelFadeHigh = 20

	// minPixelsPerCell skips a tier entirely below this density.
	minPixelsPerCell = 0.5
)

// GridConfig is the immutable-per-frame grid configuration, snapshotted from
// the host preferences.
type GridConfig struct {

	// SizeSmall and SizeLarge are the two grid cell sizes in scene units.
	SizeSmall float32
	SizeLarge float32

	// Color is the small-grid color; ColorDarker is the large-grid
	// variant.
	Color       color.RGBA
	ColorDarker color.RGBA

	// Mode selects lines, dots, or no grid.
	Mode GridModes

	// DrawNumbers toggles coordinate labels at large-grid intersections.
	DrawNumbers bool
}

// Defaults sets standard grid configuration values.
func (g *GridConfig) Defaults() {
	g.SizeSmall = 10
	g.SizeLarge = 100
	g.Color = color.RGBA{R: 60, G: 60, B: 60, A: 255}
	g.ColorDarker = color.RGBA{R: 30, G: 30, B: 30, A: 255}
	g.Mode = Lines
	g.DrawNumbers = true
}

// Line is a single scene-space line segment.
type Line struct {
	Start math32.Vector2
	End   math32.Vector2
}

// Label is a coordinate label positioned in scene space.
type Label struct {
	Pos  math32.Vector2
	Text string
}

// GridTier is the batched geometry for one grid cell size.
type GridTier struct {
	HLines []Line
	VLines []Line

	// Alpha is the fade amount for this tier, in [0, 1].
	Alpha float32

	// PixelsPerCell is the on-screen cell size in device pixels.
	PixelsPerCell float32
}

// GridLayout is the full batched grid geometry for one frame. It depends
// only on (scale, rect, config), so two calls with the same inputs produce
// identical layouts.
type GridLayout struct {
	Small GridTier
	Large GridTier

	Dots        []math32.Vector2
	DotDiameter float32

	Labels     []Label
	LabelAlpha float32
	FontSize   float32
}

// tierAlpha returns the fade alpha for a tier with the given on-screen cell
// density.
func tierAlpha(pixelsPerCell, low, high float32) float32 {
	return math32.SmoothStep(low, high, pixelsPerCell)
}

// tierLines computes the batched hairlines for one cell size across the
// visible rect. Start coordinates snap to the cell boundary at or below the
// rect edge, and every coordinate is offset by half a device pixel in scene
// space so 1px cosmetic strokes land on pixel centers instead of blurring
// across two rows.
func tierLines(rect math32.Box2, cell, halfPx float32) (h, v []Line) {
	firstX := math32.Floor(rect.Min.X/cell) * cell
	firstY := math32.Floor(rect.Min.Y/cell) * cell
	for x := firstX; x <= rect.Max.X; x += cell {
		v = append(v, Line{
			Start: math32.Vec2(x+halfPx, rect.Min.Y),
			End:   math32.Vec2(x+halfPx, rect.Max.Y),
		})
	}
	for y := firstY; y <= rect.Max.Y; y += cell {
		h = append(h, Line{
			Start: math32.Vec2(rect.Min.X, y+halfPx),
			End:   math32.Vec2(rect.Max.X, y+halfPx),
		})
	}
	return h, v
}

// LayoutGrid computes the full grid geometry for the given view scale,
// visible scene rect, and configuration. It is a pure function: no state is
// read or written, and identical inputs produce identical output.
func LayoutGrid(scale float32, rect math32.Box2, cfg *GridConfig) *GridLayout {
	g := &GridLayout{}
	if scale <= 0 || cfg.Mode == NoGrid {
		return g
	}

	halfPx := 0.5 / scale
	g.Small.PixelsPerCell = cfg.SizeSmall * scale
	g.Large.PixelsPerCell = cfg.SizeLarge * scale
	g.Small.Alpha = tierAlpha(g.Small.PixelsPerCell, smallFadeLow, smallFadeHigh)
	g.Large.Alpha = tierAlpha(g.Large.PixelsPerCell, largeFadeLow, largeFadeHigh)

	smallVisible := g.Small.PixelsPerCell >= minPixelsPerCell && g.Small.Alpha > 0
	largeVisible := g.Large.PixelsPerCell >= minPixelsPerCell && g.Large.Alpha > 0

	switch cfg.Mode {
	case Lines:
		if smallVisible {
			g.Small.HLines, g.Small.VLines = tierLines(rect, cfg.SizeSmall, halfPx)
		}
		if largeVisible {
			g.Large.HLines, g.Large.VLines = tierLines(rect, cfg.SizeLarge, halfPx)
		}
	case Dots:
		if smallVisible {
			cell := cfg.SizeSmall
			firstX := math32.Floor(rect.Min.X/cell) * cell
			firstY := math32.Floor(rect.Min.Y/cell) * cell
			for x := firstX; x <= rect.Max.X; x += cell {
				for y := firstY; y <= rect.Max.Y; y += cell {
					g.Dots = append(g.Dots, math32.Vec2(x+halfPx, y+halfPx))
				}
			}
			g.DotDiameter = math32.Clamp(g.Small.PixelsPerCell*0.16, 1.5, 2.4)
		}
	}

	if cfg.DrawNumbers && largeVisible {
		g.LabelAlpha = tierAlpha(g.Large.PixelsPerCell, labelFadeLow, labelFadeHigh)
		if g.LabelAlpha > 0 {
			// Labels grow as the user zooms out so they stay legible.
			g.FontSize = math32.Clamp(6.0/math32.Max(math32.Min(scale, 1), 0.1), 6, 11)
			cell := cfg.SizeLarge
			firstX := math32.Floor(rect.Min.X/cell) * cell
			firstY := math32.Floor(rect.Min.Y/cell) * cell
			for x := firstX; x <= rect.Max.X; x += cell {
				for y := firstY; y <= rect.Max.Y; y += cell {
					text := strconv.Itoa(int(x)) + ", " + strconv.Itoa(int(y))
					g.Labels = append(g.Labels, Label{Pos: math32.Vec2(x+halfPx, y+halfPx), Text: text})
				}
			}
		}
	}

	return g
}

// Draw issues the batched layout against the given painter, one call per
// batch rather than per line.
func (g *GridLayout) Draw(p Painter, cfg *GridConfig) {
	if len(g.Small.HLines) > 0 || len(g.Small.VLines) > 0 {
		c := ApplyAlpha(cfg.Color, g.Small.Alpha)
		p.Lines(g.Small.HLines, c)
		p.Lines(g.Small.VLines, c)
	}
	if len(g.Large.HLines) > 0 || len(g.Large.VLines) > 0 {
		c := ApplyAlpha(cfg.ColorDarker, g.Large.Alpha)
		p.Lines(g.Large.HLines, c)
		p.Lines(g.Large.VLines, c)
	}
	if len(g.Dots) > 0 {
		p.Points(g.Dots, ApplyAlpha(cfg.Color, g.Small.Alpha), g.DotDiameter)
	}
	if len(g.Labels) > 0 {
		c := ApplyAlpha(cfg.ColorDarker, g.LabelAlpha)
		for _, l := range g.Labels {
			p.Text(l.Pos, l.Text, c, g.FontSize)
		}
	}
}

// ApplyAlpha scales an (alpha-premultiplied) color by the given opacity
// in [0, 1].
func ApplyAlpha(c color.RGBA, alpha float32) color.RGBA {
	a := math32.Clamp(alpha, 0, 1)
	return color.RGBA{
		R: uint8(float32(c.R) * a),
		G: uint8(float32(c.G) * a),
		B: uint8(float32(c.B) * a),
		A: uint8(float32(c.A) * a),
	}
}
