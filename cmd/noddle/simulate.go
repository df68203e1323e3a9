// Copyright (c) 2025, The Noddle Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tpoveda/noddle/canvas"
	"github.com/tpoveda/noddle/inputs"
	"github.com/tpoveda/noddle/math32"
	"github.com/tpoveda/noddle/prefs"
)

func simulateCmd() *cobra.Command {
	var prefsPath string
	var notches int
	cmd := &cobra.Command{
		Use:   "simulate",
		Short: "Run a headless canvas session: wheel zoom at the view center, tick to convergence",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			settings := prefs.Defaults()
			if prefsPath != "" {
				var err error
				if settings, err = prefs.Open(prefsPath); err != nil {
					return err
				}
			}
			cfg, err := settings.CanvasConfig()
			if err != nil {
				return err
			}

			bindings := inputs.NewBindings()
			bindings.Add(canvas.ActionPan, inputs.Chord{Button: inputs.Middle})

			c := canvas.New(cfg, bindings, math32.Vec2(800, 600))
			center := math32.Vec2(400, 300)
			c.MouseScroll(float32(notches)*120, 0, center)

			w := cmd.OutOrStdout()
			for frame := 0; c.Animating(); frame++ {
				c.Tick()
				offset := c.Transform().Offset()
				fmt.Fprintf(w, "frame %3d  scale %.4f  offset (%.2f, %.2f)\n",
					frame, c.Scale(), offset.X, offset.Y)
			}

			rec := &canvas.Recorder{}
			c.DrawBackground(rec)
			fmt.Fprintf(w, "final scale %.4f  lod %d  grid lines %d  dots %d  labels %d\n",
				c.Scale(), c.LOD(), rec.NumLines(), rec.NumPoints(), len(rec.Texts))
			return nil
		},
	}
	cmd.Flags().StringVar(&prefsPath, "prefs", "", "preferences TOML file (defaults used when omitted)")
	cmd.Flags().IntVar(&notches, "notches", 4, "wheel notches to zoom in (negative zooms out)")
	return cmd
}
