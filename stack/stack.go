// Copyright (c) 2025, The Noddle Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package stack implements the component stack data model: a flat registry
// of components with declared option/input/output attributes, a build order,
// lazy cross-component attribute resolution through address strings, and
// JSON persistence.
//
// The stack is single-writer: all mutation and signal dispatch happens
// synchronously on the caller's goroutine.
package stack

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/google/uuid"
)

// ErrDuplicateLabel is returned when adding or renaming a component would
// leave two components in the stack with the same label. Labels are the
// lookup key for address resolution, so they stay unique by construction.
var ErrDuplicateLabel = errors.New("stack: duplicate component label")

// Stack owns a set of components and their build order.
type Stack struct {

	// ComponentAdded is emitted after a component has been added and
	// initialized.
	ComponentAdded ComponentSignal

	// ComponentRemoved is emitted after a component has been removed.
	ComponentRemoved ComponentSignal

	// BuildOrderChanged is emitted when the build order changes.
	BuildOrderChanged Signal

	// Changed aggregates every structural or component-level change.
	Changed Signal

	// BuildStarted is emitted when a build begins.
	BuildStarted Signal

	// BuildCompleted is emitted when a build finishes, successful or not.
	BuildCompleted Signal

	registry *Registry

	components []Component
	index      map[string]int    // uuid -> components index
	labels     map[string]string // label -> uuid

	buildOrder []string          // uuids
	parents    map[string]string // uuid -> parent uuid
}

// New returns a new empty [Stack] using the given component type registry.
func New(registry *Registry) *Stack {
	return &Stack{
		registry: registry,
		index:    make(map[string]int),
		labels:   make(map[string]string),
		parents:  make(map[string]string),
	}
}

// Registry returns the component type registry this stack creates
// components from.
func (s *Stack) Registry() *Registry { return s.registry }

// Len returns the number of components in the stack.
func (s *Stack) Len() int { return len(s.components) }

// Components returns the components in insertion order.
func (s *Stack) Components() []Component {
	out := make([]Component, len(s.components))
	copy(out, s.components)
	return out
}

// ComponentByID returns the component with the given unique id, or nil.
func (s *Stack) ComponentByID(id string) Component {
	i, ok := s.index[id]
	if !ok {
		return nil
	}
	return s.components[i]
}

// ComponentByLabel returns the component with the given label, or nil.
// Labels are unique within a stack.
func (s *Stack) ComponentByLabel(label string) Component {
	return s.ComponentByID(s.labels[label])
}

// AddComponent creates a component of the given registered type, wires it
// into the stack, and appends it to the build order. An empty label uses
// the type id. The label must be unique; use [Stack.UniqueLabel] to derive
// a free one.
func (s *Stack) AddComponent(typeID, label string) (Component, error) {
	return s.newComponent(typeID, 0, label, "")
}

// newComponent creates and wires a component, optionally with a pinned type
// version and a preassigned unique id (used when loading).
func (s *Stack) newComponent(typeID string, version int, label, uid string) (Component, error) {
	if s.registry == nil {
		return nil, fmt.Errorf("stack: no component registry")
	}
	if label == "" {
		label = typeID
	}
	if _, taken := s.labels[label]; taken {
		return nil, fmt.Errorf("%w: %q", ErrDuplicateLabel, label)
	}
	comp, builtVersion, err := s.registry.New(typeID, version)
	if err != nil {
		return nil, err
	}
	if uid == "" {
		uid = uuid.NewString()
	}
	cb := comp.AsComponent()
	cb.This = comp
	cb.stack = s
	cb.uniqueID = uid
	cb.typeID = typeID
	cb.version = builtVersion
	cb.label = label
	cb.enabled = true
	cb.status = NotExecuted
	comp.Init()

	s.index[uid] = len(s.components)
	s.components = append(s.components, comp)
	s.labels[label] = uid
	s.buildOrder = append(s.buildOrder, uid)
	// Forward through the current stack pointer so edits on a removed
	// component no longer reach this stack.
	cb.Changed.Connect(func() {
		if cb.stack != nil {
			cb.stack.Changed.Emit()
		}
	})

	if h, ok := comp.(interface{ OnEnterStack() }); ok {
		h.OnEnterStack()
	}
	s.ComponentAdded.Emit(comp)
	s.BuildOrderChanged.Emit()
	s.Changed.Emit()
	return comp, nil
}

// RemoveComponent removes the component from the stack, its build order, and
// its parenting.
func (s *Stack) RemoveComponent(comp Component) error {
	cb := comp.AsComponent()
	i, ok := s.index[cb.uniqueID]
	if !ok {
		return fmt.Errorf("stack: component %q is not in this stack", cb.label)
	}
	s.components = append(s.components[:i], s.components[i+1:]...)
	delete(s.index, cb.uniqueID)
	for j := i; j < len(s.components); j++ {
		s.index[s.components[j].AsComponent().uniqueID] = j
	}
	delete(s.labels, cb.label)
	s.buildOrder = removeString(s.buildOrder, cb.uniqueID)
	delete(s.parents, cb.uniqueID)
	for child, parent := range s.parents {
		if parent == cb.uniqueID {
			delete(s.parents, child)
		}
	}
	cb.stack = nil

	if h, ok := comp.(interface{ RemovedFromStack() }); ok {
		h.RemovedFromStack()
	}
	s.ComponentRemoved.Emit(comp)
	s.BuildOrderChanged.Emit()
	s.Changed.Emit()
	return nil
}

func removeString(ss []string, v string) []string {
	for i, x := range ss {
		if x == v {
			return append(ss[:i], ss[i+1:]...)
		}
	}
	return ss
}

// relabel moves the label index entry for a rename, rejecting duplicates.
func (s *Stack) relabel(cb *ComponentBase, label string) error {
	if label == cb.label {
		return nil
	}
	if _, taken := s.labels[label]; taken {
		return fmt.Errorf("%w: %q", ErrDuplicateLabel, label)
	}
	delete(s.labels, cb.label)
	s.labels[label] = cb.uniqueID
	return nil
}

// UniqueLabel returns base if it is free, or base with the lowest numeric
// suffix that makes it free.
func (s *Stack) UniqueLabel(base string) string {
	return s.uniqueLabel(base)
}

func (s *Stack) uniqueLabel(base string) string {
	if _, taken := s.labels[base]; !taken {
		return base
	}
	for i := 1; ; i++ {
		label := fmt.Sprintf("%s %d", base, i)
		if _, taken := s.labels[label]; !taken {
			return label
		}
	}
}

// BuildOrder returns the components in build order.
func (s *Stack) BuildOrder() []Component {
	out := make([]Component, 0, len(s.buildOrder))
	for _, uid := range s.buildOrder {
		if c := s.ComponentByID(uid); c != nil {
			out = append(out, c)
		}
	}
	return out
}

// SetBuildPosition moves the component to the end of the build order, or
// directly after the given parent, and records the parenting.
func (s *Stack) SetBuildPosition(comp Component, parent Component) {
	cb := comp.AsComponent()
	s.buildOrder = removeString(s.buildOrder, cb.uniqueID)
	if parent == nil {
		delete(s.parents, cb.uniqueID)
		s.buildOrder = append(s.buildOrder, cb.uniqueID)
	} else {
		pid := parent.AsComponent().uniqueID
		s.parents[cb.uniqueID] = pid
		inserted := false
		for i, uid := range s.buildOrder {
			if uid == pid {
				s.buildOrder = append(s.buildOrder[:i+1], append([]string{cb.uniqueID}, s.buildOrder[i+1:]...)...)
				inserted = true
				break
			}
		}
		if !inserted {
			s.buildOrder = append(s.buildOrder, cb.uniqueID)
		}
	}
	s.BuildOrderChanged.Emit()
	s.Changed.Emit()
}

// ParentOf returns the component's parent in the build order, or nil.
func (s *Stack) ParentOf(comp Component) Component {
	pid, ok := s.parents[comp.AsComponent().uniqueID]
	if !ok {
		return nil
	}
	return s.ComponentByID(pid)
}

// BuildOptions control how [Stack.Build] reacts to component failures.
type BuildOptions struct {

	// StopOnError halts the build at the first invalid or failed
	// component. By default the build keeps going and reports all
	// failures at the end.
	StopOnError bool
}

// Build executes all enabled components in build order. Every component's
// status is reset first. Validated inputs are checked before each run; a
// failing input marks the component Invalid without running it. Run errors
// and panics mark the component Failed. The statuses always reflect the
// outcome; the returned error joins every failure.
func (s *Stack) Build(opts BuildOptions) error {
	s.BuildStarted.Emit()
	defer s.BuildCompleted.Emit()

	for _, comp := range s.components {
		comp.AsComponent().status = NotExecuted
	}

	var errs []error
	for _, comp := range s.BuildOrder() {
		cb := comp.AsComponent()
		if !cb.enabled {
			continue
		}
		if bad := invalidInputs(cb); len(bad) > 0 {
			cb.status = Invalid
			errs = append(errs, fmt.Errorf("stack: component %q has missing inputs: %v", cb.label, bad))
			if opts.StopOnError {
				break
			}
			continue
		}
		if err := cb.runBuild(); err != nil {
			errs = append(errs, err)
			if opts.StopOnError {
				break
			}
		}
	}
	return errors.Join(errs...)
}

func invalidInputs(cb *ComponentBase) []string {
	var bad []string
	for _, in := range cb.inputs {
		if !in.Validate() {
			bad = append(bad, in.name)
		}
	}
	return bad
}

// StackData is the serialized form of a stack.
type StackData struct {
	Components []ComponentData   `json:"components"`
	BuildOrder []string          `json:"build_order"`
	Parents    map[string]string `json:"parents,omitempty"`
}

// Serialize returns the serialized form of the stack, components in
// insertion order.
func (s *Stack) Serialize() StackData {
	d := StackData{BuildOrder: append([]string(nil), s.buildOrder...)}
	for _, comp := range s.components {
		d.Components = append(d.Components, comp.AsComponent().Serialize())
	}
	if len(s.parents) > 0 {
		d.Parents = make(map[string]string, len(s.parents))
		for k, v := range s.parents {
			d.Parents[k] = v
		}
	}
	return d
}

// Save writes the stack as indented JSON to the given file.
func (s *Stack) Save(path string) error {
	data, err := json.MarshalIndent(s.Serialize(), "", "    ")
	if err != nil {
		return fmt.Errorf("stack: serializing stack: %w", err)
	}
	return os.WriteFile(path, data, 0o666)
}

// Load reads a stack file and recreates its components from this stack's
// registry, honoring pinned versions, stored uuids, labels, enabled flags,
// attribute values, build order, and parenting. The stack must be empty.
func (s *Stack) Load(path string) error {
	if len(s.components) > 0 {
		return fmt.Errorf("stack: loading into a non-empty stack")
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	var d StackData
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	if err := dec.Decode(&d); err != nil {
		return fmt.Errorf("stack: invalid stack data in %s: %w", path, err)
	}
	for i := range d.Components {
		cd := &d.Components[i]
		comp, err := s.newComponent(cd.ComponentType, cd.ForcedVersion, cd.Label, cd.UUID)
		if err != nil {
			return err
		}
		cb := comp.AsComponent()
		cb.forcedVersion = cd.ForcedVersion
		cb.enabled = cd.Enabled
		cb.applyData(cd)
	}
	if len(d.BuildOrder) > 0 {
		order := make([]string, 0, len(d.BuildOrder))
		for _, uid := range d.BuildOrder {
			if s.ComponentByID(uid) != nil {
				order = append(order, uid)
			}
		}
		s.buildOrder = order
	}
	for child, parent := range d.Parents {
		if s.ComponentByID(child) != nil && s.ComponentByID(parent) != nil {
			s.parents[child] = parent
		}
	}
	s.BuildOrderChanged.Emit()
	s.Changed.Emit()
	return nil
}
