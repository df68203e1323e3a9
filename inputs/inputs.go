// Copyright (c) 2025, The Noddle Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package inputs maps named editor actions (for example "Canvas.Pan") to one
// or more mouse chords, decoupling hard-coded bindings from the canvas
// interaction engine. A [Bindings] registry is constructed once at
// application start and passed to every consumer; there is no global
// registry.
package inputs

import (
	"encoding/json"
	"fmt"
)

// Buttons is a mouse button in a chord definition.
type Buttons int32

const (
	NoButton Buttons = iota
	Left
	Middle
	Right
)

var buttonNames = map[Buttons]string{
	NoButton: "none",
	Left:     "left",
	Middle:   "middle",
	Right:    "right",
}

func (b Buttons) String() string {
	if s, ok := buttonNames[b]; ok {
		return s
	}
	return fmt.Sprintf("Buttons(%d)", int32(b))
}

// Modifiers is a bit flag set of keyboard modifiers held during a chord.
type Modifiers int32

const (
	Shift Modifiers = 1 << iota
	Control
	Alt
	Meta
)

// HasAll returns whether all of the given modifier bits are set.
func (m Modifiers) HasAll(mods Modifiers) bool {
	return m&mods == mods
}

// Chord is a single mouse chord: a button plus the exact modifier set that
// must be held for the chord to match.
type Chord struct {
	Button    Buttons   `json:"button"`
	Modifiers Modifiers `json:"modifiers"`
}

// Matches returns whether the chord matches the given button and modifiers.
// Modifiers must match exactly so overlapping chords on the same button
// remain distinguishable.
func (c Chord) Matches(button Buttons, mods Modifiers) bool {
	return c.Button == button && c.Modifiers == mods
}

// Action is a named action with the chords that trigger it.
type Action struct {
	Name   string  `json:"name"`
	Chords []Chord `json:"chords"`
}

// ActionFromJSON decodes an [Action] from JSON data. Missing or malformed
// fields are reported as a single wrapped error so callers have one failure
// surface to catch.
func ActionFromJSON(data []byte) (Action, error) {
	var a Action
	if err := json.Unmarshal(data, &a); err != nil {
		return Action{}, fmt.Errorf("inputs: invalid action data: %w", err)
	}
	if a.Name == "" {
		return Action{}, fmt.Errorf("inputs: invalid action data: missing name")
	}
	for _, c := range a.Chords {
		if c.Button < NoButton || c.Button > Right {
			return Action{}, fmt.Errorf("inputs: invalid action data: unknown button %d in %q", c.Button, a.Name)
		}
	}
	return a, nil
}

// Bindings is the registry of actions. The zero value is usable.
type Bindings struct {
	actions map[string][]Chord
}

// NewBindings returns a new empty [Bindings] registry.
func NewBindings() *Bindings {
	return &Bindings{}
}

func (b *Bindings) init() {
	if b.actions == nil {
		b.actions = make(map[string][]Chord)
	}
}

// Add appends a chord to the given action name.
func (b *Bindings) Add(action string, chord Chord) {
	b.init()
	b.actions[action] = append(b.actions[action], chord)
}

// Set replaces all chords for the given action name.
func (b *Bindings) Set(action string, chords ...Chord) {
	b.init()
	b.actions[action] = chords
}

// Chords returns the chords registered for the given action name.
func (b *Bindings) Chords(action string) []Chord {
	return b.actions[action]
}

// Matches returns whether the given button and modifiers match any chord
// registered for the action.
func (b *Bindings) Matches(action string, button Buttons, mods Modifiers) bool {
	for _, c := range b.actions[action] {
		if c.Matches(button, mods) {
			return true
		}
	}
	return false
}
