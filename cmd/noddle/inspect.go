// Copyright (c) 2025, The Noddle Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"github.com/spf13/cobra"

	"github.com/tpoveda/noddle/stack"
)

func inspectCmd() *cobra.Command {
	var outputs bool
	cmd := &cobra.Command{
		Use:   "inspect <stack-file>",
		Short: "Print the components of a stack file with their declared attributes",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s := stack.New(demoRegistry())
			if err := s.Load(args[0]); err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			for _, comp := range s.BuildOrder() {
				cb := comp.AsComponent()
				cb.WriteSummary(w)
				if outputs {
					cb.WriteOutputs(w)
				}
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&outputs, "outputs", false, "also print declared outputs")
	return cmd
}
