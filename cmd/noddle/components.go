// Copyright (c) 2025, The Noddle Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"fmt"
	"log/slog"

	"github.com/tpoveda/noddle/stack"
)

// demoRegistry returns a registry with the built-in component types the CLI
// can load stack files against.
func demoRegistry() *stack.Registry {
	reg := stack.NewRegistry()
	_ = reg.Register("noddle.constant", 1, func() stack.Component { return &constant{} })
	_ = reg.Register("noddle.print", 1, func() stack.Component { return &printer{} })
	return reg
}

// constant exposes a single option as an output, so other components can
// reference it through an address.
type constant struct {
	stack.ComponentBase
}

func (c *constant) Init() {
	c.DeclareOption("value", nil).
		SetDescription("Value exposed through the result output.")
	c.DeclareOutput("result", "The configured value.")
}

func (c *constant) Run() error {
	v, err := c.Option("value").Get()
	if err != nil {
		return err
	}
	c.Output("result").Set(v)
	return nil
}

// printer logs its message input, which is typically an address pointing at
// another component's output.
type printer struct {
	stack.ComponentBase
}

func (p *printer) Init() {
	p.DeclareInput("message", nil).
		SetDescription("Value to print; may be an address.")
}

func (p *printer) Run() error {
	v, err := p.Input("message").Get()
	if err != nil {
		return err
	}
	if v == nil {
		return fmt.Errorf("message resolved to nothing")
	}
	slog.Info("print", "component", p.Label(), "message", v)
	return nil
}
