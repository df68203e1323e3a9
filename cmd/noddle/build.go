// Copyright (c) 2025, The Noddle Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tpoveda/noddle/stack"
)

func buildCmd() *cobra.Command {
	var stopOnError bool
	cmd := &cobra.Command{
		Use:   "build <stack-file>",
		Short: "Execute a stack file in build order and report statuses",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s := stack.New(demoRegistry())
			if err := s.Load(args[0]); err != nil {
				return err
			}
			buildErr := s.Build(stack.BuildOptions{StopOnError: stopOnError})
			for _, comp := range s.BuildOrder() {
				cb := comp.AsComponent()
				fmt.Fprintf(cmd.OutOrStdout(), "%-30s %s\n", cb.Label(), cb.Status())
			}
			return buildErr
		},
	}
	cmd.Flags().BoolVar(&stopOnError, "stop-on-error", false, "halt the build at the first failed component")
	return cmd
}
