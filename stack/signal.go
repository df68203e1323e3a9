// Copyright (c) 2025, The Noddle Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package stack

import (
	"log/slog"
)

// Signal is an ordered multicast of lifecycle callbacks. Listeners run
// synchronously, in registration order, on the emitter's call stack. A
// panicking listener is recovered and logged so the remaining listeners
// still run; lifecycle signals are best-effort.
type Signal struct {
	funcs []func()
}

// Connect registers a listener.
func (s *Signal) Connect(f func()) {
	s.funcs = append(s.funcs, f)
}

// Emit calls all listeners in registration order.
func (s *Signal) Emit() {
	for _, f := range s.funcs {
		call(f)
	}
}

func call(f func()) {
	defer func() {
		if r := recover(); r != nil {
			slog.Error("stack: signal listener panicked", "panic", r)
		}
	}()
	f()
}

// ComponentSignal is a [Signal] whose listeners receive the component the
// event is about.
type ComponentSignal struct {
	funcs []func(c Component)
}

// Connect registers a listener.
func (s *ComponentSignal) Connect(f func(c Component)) {
	s.funcs = append(s.funcs, f)
}

// Emit calls all listeners in registration order with the given component.
func (s *ComponentSignal) Emit(c Component) {
	for _, f := range s.funcs {
		call(func() { f(c) })
	}
}
