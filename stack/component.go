// Copyright (c) 2025, The Noddle Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package stack

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"

	"github.com/jinzhu/copier"
)

// Component is a single item within a stack. Component types embed
// [ComponentBase] and implement Init to declare their options, inputs, and
// outputs, and Run to do the work.
type Component interface {

	// AsComponent returns the [ComponentBase] of this component. Most
	// component functionality is implemented on ComponentBase.
	AsComponent() *ComponentBase

	// Init is called once, after the component has been wired into its
	// stack and before it is announced. Attribute declarations belong
	// here.
	Init()

	// Run executes the component. Populate declared outputs here. A
	// returned error (or a panic) marks the component Failed without
	// aborting the enclosing build by default.
	Run() error
}

// ComponentBase implements the common functionality of a [Component] and
// must be embedded in all component types. Components are created through
// [Stack.AddComponent], which wires the base before calling Init.
type ComponentBase struct {

	// This is the component as its true underlying type, so base methods
	// can reach methods defined on the concrete type. Set by the stack at
	// creation.
	This Component `copier:"-" json:"-"`

	// BuildStarted is emitted just before the component runs.
	BuildStarted Signal `copier:"-" json:"-"`

	// BuildCompleted is emitted after the run, whether it succeeded or
	// not.
	BuildCompleted Signal `copier:"-" json:"-"`

	// Changed is emitted when the component label, enabled state, or any
	// attribute value changes.
	Changed Signal `copier:"-" json:"-"`

	label         string
	stack         *Stack
	uniqueID      string
	typeID        string
	version       int
	forcedVersion int
	options       []*Attribute
	inputs        []*Attribute
	outputs       []*Attribute
	status        Status
	enabled       bool
}

// AsComponent returns this [ComponentBase].
func (c *ComponentBase) AsComponent() *ComponentBase { return c }

// Init does nothing by default.
func (c *ComponentBase) Init() {}

// Label returns the human-readable component name shown in the UI.
func (c *ComponentBase) Label() string { return c.label }

// SetLabel renames the component. Labels are unique within a stack; a
// duplicate is rejected with [ErrDuplicateLabel].
func (c *ComponentBase) SetLabel(label string) error {
	if c.stack != nil {
		if err := c.stack.relabel(c, label); err != nil {
			return err
		}
	}
	c.label = label
	c.Changed.Emit()
	return nil
}

// Stack returns the stack that owns this component.
func (c *ComponentBase) Stack() *Stack { return c.stack }

// UniqueID returns the immutable identifier assigned at creation.
func (c *ComponentBase) UniqueID() string { return c.uniqueID }

// TypeID returns the registered component type identifier.
func (c *ComponentBase) TypeID() string { return c.typeID }

// Version returns the component type version this instance was built from.
func (c *ComponentBase) Version() int { return c.version }

// ForcedVersion returns the pinned type version, or 0 when the latest
// available version is used.
func (c *ComponentBase) ForcedVersion() int { return c.forcedVersion }

// SetForcedVersion pins the component to a specific type version. Pass 0 to
// always use the latest available version.
func (c *ComponentBase) SetForcedVersion(v int) { c.forcedVersion = v }

// IsEnabled returns whether the component will be executed by builds.
func (c *ComponentBase) IsEnabled() bool { return c.enabled }

// SetEnabled sets whether the component is executed by builds.
func (c *ComponentBase) SetEnabled(v bool) {
	c.enabled = v
	c.Changed.Emit()
}

// Status returns the current execution status. Disabled components always
// report [Disabled].
func (c *ComponentBase) Status() Status {
	if !c.enabled {
		return Disabled
	}
	return c.status
}

// SetStatus sets the stored execution status.
func (c *ComponentBase) SetStatus(s Status) { c.status = s }

// Parent returns the component's parent in the build order, or nil.
func (c *ComponentBase) Parent() Component {
	if c.stack == nil {
		return nil
	}
	return c.stack.ParentOf(c.This)
}

func (c *ComponentBase) declare(category Category, name string, value any) *Attribute {
	a := &Attribute{name: name, value: value, category: category, owner: c}
	a.ValueChanged.Connect(c.Changed.Emit)
	return a
}

// DeclareOption adds a configuration option with the given name and value.
// Use the returned attribute's Set* methods to fill in description, group,
// and flags.
func (c *ComponentBase) DeclareOption(name string, value any) *Attribute {
	a := c.declare(Option, name, value)
	c.options = append(c.options, a)
	return a
}

// DeclareInput adds a data requirement with the given name and value.
// Inputs are validated before the component runs; use
// [Attribute.SetValidated] to opt out.
func (c *ComponentBase) DeclareInput(name string, value any) *Attribute {
	a := c.declare(Input, name, value)
	a.validated = true
	c.inputs = append(c.inputs, a)
	return a
}

// DeclareOutput adds an output that the component guarantees to populate
// during its run, letting other components resolve the value through an
// address rather than have it explicitly set.
func (c *ComponentBase) DeclareOutput(name string, description string) *Attribute {
	a := c.declare(Output, name, nil)
	a.description = description
	c.outputs = append(c.outputs, a)
	return a
}

// Options returns all declared options.
func (c *ComponentBase) Options() []*Attribute { return c.options }

// Inputs returns all declared inputs.
func (c *ComponentBase) Inputs() []*Attribute { return c.inputs }

// Outputs returns all declared outputs.
func (c *ComponentBase) Outputs() []*Attribute { return c.outputs }

// Option returns the option with the given name, or nil.
func (c *ComponentBase) Option(name string) *Attribute {
	return findAttribute(c.options, name)
}

// Input returns the input with the given name, or nil.
func (c *ComponentBase) Input(name string) *Attribute {
	return findAttribute(c.inputs, name)
}

// Output returns the output with the given name, or nil.
func (c *ComponentBase) Output(name string) *Attribute {
	return findAttribute(c.outputs, name)
}

func (c *ComponentBase) attribute(category Category, name string) *Attribute {
	switch category {
	case Option:
		return c.Option(name)
	case Input:
		return c.Input(name)
	case Output:
		return c.Output(name)
	}
	return nil
}

func findAttribute(attrs []*Attribute, name string) *Attribute {
	for _, a := range attrs {
		if a.name == name {
			return a
		}
	}
	return nil
}

// CopyFieldsFrom copies the other component's declared attribute values
// (unresolved, so addresses stay addresses), enabled state, and any exported
// concrete-type fields into this component. The label is not copied; labels
// are unique per stack.
func (c *ComponentBase) CopyFieldsFrom(other Component) error {
	err := copier.CopyWithOption(c.This, other, copier.Option{CaseSensitive: true, DeepCopy: true})
	if err != nil {
		return fmt.Errorf("stack: copying %q: %w", other.AsComponent().label, err)
	}
	ob := other.AsComponent()
	for _, in := range c.inputs {
		if o := ob.Input(in.name); o != nil {
			in.Set(o.Value())
		}
	}
	for _, op := range c.options {
		if o := ob.Option(op.name); o != nil {
			op.Set(o.Value())
		}
	}
	c.enabled = ob.enabled
	c.Changed.Emit()
	return nil
}

// Duplicate creates a copy of this component in the same stack, placed at
// the same build position, with a uniquified label. Children are not
// duplicated.
func (c *ComponentBase) Duplicate() (Component, error) {
	if c.stack == nil {
		return nil, fmt.Errorf("stack: component %q is not in a stack", c.label)
	}
	nc, err := c.stack.AddComponent(c.typeID, c.stack.uniqueLabel(c.label))
	if err != nil {
		return nil, err
	}
	if err := nc.AsComponent().CopyFieldsFrom(c.This); err != nil {
		return nil, err
	}
	c.stack.SetBuildPosition(nc, c.Parent())
	return nc, nil
}

// ComponentData is the serialized form of a component.
type ComponentData struct {
	ComponentType string          `json:"component_type"`
	ForcedVersion int             `json:"forced_version"`
	UUID          string          `json:"uuid"`
	Label         string          `json:"label"`
	Enabled       bool            `json:"enabled"`
	Inputs        []AttributeData `json:"inputs"`
	Options       []AttributeData `json:"options"`
}

// Serialize returns the serialized form of the component.
func (c *ComponentBase) Serialize() ComponentData {
	d := ComponentData{
		ComponentType: c.typeID,
		ForcedVersion: c.forcedVersion,
		UUID:          c.uniqueID,
		Label:         c.label,
		Enabled:       c.enabled,
	}
	for _, in := range c.inputs {
		d.Inputs = append(d.Inputs, in.Serialize())
	}
	for _, op := range c.options {
		d.Options = append(d.Options, op.Serialize())
	}
	return d
}

// Save writes the component settings as indented JSON to the given file.
func (c *ComponentBase) Save(path string) error {
	data, err := json.MarshalIndent(c.Serialize(), "", "    ")
	if err != nil {
		return fmt.Errorf("stack: serializing component %q: %w", c.label, err)
	}
	return os.WriteFile(path, data, 0o666)
}

// Load reads component settings from the given file and applies the stored
// input and option values by name. Attributes present in the file but not
// declared on the component are ignored.
func (c *ComponentBase) Load(path string) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	var d ComponentData
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	if err := dec.Decode(&d); err != nil {
		return fmt.Errorf("stack: invalid component data in %s: %w", path, err)
	}
	c.applyData(&d)
	return nil
}

// normalizeJSONValue converts [json.Number] values produced by a UseNumber
// decoder back into int or float64, recursively through containers, so a
// saved int round-trips as an int instead of a float64.
func normalizeJSONValue(v any) any {
	switch n := v.(type) {
	case json.Number:
		if i, err := strconv.ParseInt(string(n), 10, 64); err == nil {
			return int(i)
		}
		f, _ := n.Float64()
		return f
	case []any:
		for i := range n {
			n[i] = normalizeJSONValue(n[i])
		}
	case map[string]any:
		for k := range n {
			n[k] = normalizeJSONValue(n[k])
		}
	}
	return v
}

// applyData applies stored attribute values, emitting one aggregate change.
func (c *ComponentBase) applyData(d *ComponentData) {
	for _, in := range d.Inputs {
		if a := c.Input(in.Name); a != nil {
			a.value = normalizeJSONValue(in.Value)
		}
	}
	for _, op := range d.Options {
		if a := c.Option(op.Name); a != nil {
			a.value = normalizeJSONValue(op.Value)
		}
	}
	c.Changed.Emit()
}

// WriteSummary writes a formatted description of the component's declared
// options and inputs to the given writer.
func (c *ComponentBase) WriteSummary(w io.Writer) {
	fmt.Fprintf(w, "Component Type : %s (Version : %d)\n", c.typeID, c.version)
	fmt.Fprintf(w, "    Identifier : %s\n", c.uniqueID)
	fmt.Fprintf(w, "    Label      : %s\n", c.label)
	fmt.Fprintln(w, "    Options    :")
	writeAttributes(w, c.options)
	fmt.Fprintln(w, "    Inputs     :")
	writeAttributes(w, c.inputs)
}

// WriteOutputs writes a formatted description of the component's outputs to
// the given writer.
func (c *ComponentBase) WriteOutputs(w io.Writer) {
	fmt.Fprintln(w, "    Outputs    :")
	writeAttributes(w, c.outputs)
}

func writeAttributes(w io.Writer, attrs []*Attribute) {
	width := 0
	for _, a := range attrs {
		if len(a.name) > width {
			width = len(a.name)
		}
	}
	for _, a := range attrs {
		v, err := a.Get()
		if err != nil {
			v = err
		}
		fmt.Fprintf(w, "        %-*s : %v\n", width+2, a.name, v)
	}
}

// runBuild runs the component wrapped in the build signals and status
// bookkeeping. An error or panic from Run marks the component Failed and is
// returned for the orchestrator to act on; it is never re-panicked.
func (c *ComponentBase) runBuild() (err error) {
	c.BuildStarted.Emit()
	defer c.BuildCompleted.Emit()
	defer func() {
		if r := recover(); r != nil {
			c.status = Failed
			err = fmt.Errorf("stack: component %q panicked: %v", c.label, r)
			slog.Error("component run panicked", "component", c.label, "panic", r)
		}
	}()
	if err := c.This.Run(); err != nil {
		c.status = Failed
		return fmt.Errorf("stack: component %q: %w", c.label, err)
	}
	c.status = Success
	return nil
}
