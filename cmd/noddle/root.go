// Copyright (c) 2025, The Noddle Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"
)

func rootCmd() *cobra.Command {
	var verbose bool
	cmd := &cobra.Command{
		Use:           "noddle",
		Short:         "Build and inspect noddle component stacks",
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			level := slog.LevelInfo
			if verbose {
				level = slog.LevelDebug
			}
			slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
		},
	}
	cmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	cmd.AddCommand(buildCmd())
	cmd.AddCommand(inspectCmd())
	cmd.AddCommand(simulateCmd())
	return cmd
}
