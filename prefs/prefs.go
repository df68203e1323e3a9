// Copyright (c) 2025, The Noddle Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package prefs holds the user preferences consumed by the canvas, stored
// as TOML. The canvas snapshots these values once at construction and does
// not observe later changes.
package prefs

import (
	"fmt"
	"image/color"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"

	"github.com/tpoveda/noddle/canvas"
)

// Settings is the root preferences document.
type Settings struct {
	Canvas CanvasSettings `toml:"canvas"`
}

// CanvasSettings are the canvas and grid preferences. Colors are "#RRGGBB"
// or "#RRGGBBAA" hex strings.
type CanvasSettings struct {
	BackgroundColor string  `toml:"background_color"`
	GridColor       string  `toml:"grid_color"`
	GridColorDarker string  `toml:"grid_color_darker"`
	GridSizeSmall   float32 `toml:"grid_size_small"`
	GridSizeLarge   float32 `toml:"grid_size_large"`
	DrawGrid        bool    `toml:"draw_grid"`
	DrawNumbers     bool    `toml:"draw_numbers"`

	// GridMode is "none", "dots", or "lines".
	GridMode string `toml:"grid_mode"`

	LODs     int     `toml:"lods"`
	MinScale float32 `toml:"min_scale"`
	MaxScale float32 `toml:"max_scale"`

	MouseWheelZoomRate      float32 `toml:"mouse_wheel_zoom_rate"`
	SmoothSmoothing         float32 `toml:"smooth_smoothing"`
	SmoothFriction          float32 `toml:"smooth_friction"`
	SmoothMaxStepZoomFactor float32 `toml:"smooth_max_step_zoom_factor"`
	SmoothTickMS            int     `toml:"smooth_tick_ms"`
}

// Defaults returns settings matching the canvas defaults.
func Defaults() *Settings {
	return &Settings{
		Canvas: CanvasSettings{
			BackgroundColor:         "#282828",
			GridColor:               "#3c3c3c",
			GridColorDarker:         "#1e1e1e",
			GridSizeSmall:           10,
			GridSizeLarge:           100,
			DrawGrid:                true,
			DrawNumbers:             true,
			GridMode:                "lines",
			LODs:                    5,
			MinScale:                0.1,
			MaxScale:                4,
			MouseWheelZoomRate:      1.25,
			SmoothSmoothing:         0.25,
			SmoothFriction:          0.85,
			SmoothMaxStepZoomFactor: 2,
			SmoothTickMS:            16,
		},
	}
}

// Open reads settings from the given TOML file.
func Open(path string) (*Settings, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	s := Defaults()
	if err := toml.Unmarshal(raw, s); err != nil {
		return nil, fmt.Errorf("prefs: invalid settings in %s: %w", path, err)
	}
	return s, nil
}

// Save writes settings as TOML to the given file.
func (s *Settings) Save(path string) error {
	raw, err := toml.Marshal(s)
	if err != nil {
		return fmt.Errorf("prefs: serializing settings: %w", err)
	}
	return os.WriteFile(path, raw, 0o666)
}

// CanvasConfig converts the settings into a [canvas.Config] snapshot.
func (s *Settings) CanvasConfig() (canvas.Config, error) {
	var cfg canvas.Config
	cfg.Defaults()
	cs := &s.Canvas

	var err error
	if cfg.Background, err = ParseHexColor(cs.BackgroundColor); err != nil {
		return cfg, err
	}
	if cfg.Grid.Color, err = ParseHexColor(cs.GridColor); err != nil {
		return cfg, err
	}
	if cfg.Grid.ColorDarker, err = ParseHexColor(cs.GridColorDarker); err != nil {
		return cfg, err
	}
	switch cs.GridMode {
	case "none":
		cfg.Grid.Mode = canvas.NoGrid
	case "dots":
		cfg.Grid.Mode = canvas.Dots
	case "lines", "":
		cfg.Grid.Mode = canvas.Lines
	default:
		return cfg, fmt.Errorf("prefs: unknown grid mode %q", cs.GridMode)
	}

	cfg.Grid.SizeSmall = cs.GridSizeSmall
	cfg.Grid.SizeLarge = cs.GridSizeLarge
	cfg.Grid.DrawNumbers = cs.DrawNumbers
	cfg.DrawGrid = cs.DrawGrid
	cfg.LODs = cs.LODs
	cfg.MinScale = cs.MinScale
	cfg.MaxScale = cs.MaxScale
	cfg.WheelZoomRate = cs.MouseWheelZoomRate
	cfg.Smoothing = cs.SmoothSmoothing
	cfg.Friction = cs.SmoothFriction
	cfg.MaxStepZoomFactor = cs.SmoothMaxStepZoomFactor
	cfg.TickInterval = time.Duration(cs.SmoothTickMS) * time.Millisecond
	return cfg, nil
}

// ParseHexColor parses a "#RRGGBB" or "#RRGGBBAA" color string.
func ParseHexColor(s string) (color.RGBA, error) {
	h := strings.TrimPrefix(s, "#")
	if len(h) != 6 && len(h) != 8 {
		return color.RGBA{}, fmt.Errorf("prefs: invalid color %q", s)
	}
	v, err := strconv.ParseUint(h, 16, 64)
	if err != nil {
		return color.RGBA{}, fmt.Errorf("prefs: invalid color %q: %w", s, err)
	}
	c := color.RGBA{A: 255}
	if len(h) == 8 {
		c.A = uint8(v)
		v >>= 8
	}
	c.B = uint8(v)
	c.G = uint8(v >> 8)
	c.R = uint8(v >> 16)
	return c, nil
}
