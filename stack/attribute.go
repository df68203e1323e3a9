// Copyright (c) 2025, The Noddle Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package stack

import (
	"fmt"
	"reflect"
)

// Attribute is a named value declared on a component: an option, an input
// (requirement), or an output, per its [Category]. The value may be a
// literal, or an address string referencing another component's attribute
// in the same stack; addresses are dereferenced lazily on [Attribute.Get].
type Attribute struct {
	name            string
	value           any
	description     string
	group           string
	shouldInherit   bool
	shouldPreExpose bool
	hidden          bool
	validated       bool
	category        Category
	owner           *ComponentBase

	// ValueChanged is emitted synchronously on every [Attribute.Set].
	ValueChanged Signal
}

// Name returns the attribute name.
func (a *Attribute) Name() string { return a.name }

// Category returns the attribute category.
func (a *Attribute) Category() Category { return a.category }

// Description returns the user-facing description.
func (a *Attribute) Description() string { return a.description }

// Group returns the UI grouping name, if any.
func (a *Attribute) Group() string { return a.group }

// ShouldInherit returns whether the value should be inherited from the
// parent component on initialization.
func (a *Attribute) ShouldInherit() bool { return a.shouldInherit }

// ShouldPreExpose returns whether the attribute should be pre-exposed.
func (a *Attribute) ShouldPreExpose() bool { return a.shouldPreExpose }

// Hidden returns whether the attribute is hidden from the UI.
func (a *Attribute) Hidden() bool { return a.hidden }

// Component returns the owning component, or nil.
func (a *Attribute) Component() Component {
	if a.owner == nil {
		return nil
	}
	return a.owner.This
}

// SetDescription sets the user-facing description. Returns the attribute
// for chaining after a Declare call.
func (a *Attribute) SetDescription(d string) *Attribute {
	a.description = d
	return a
}

// SetGroup sets the UI grouping name.
func (a *Attribute) SetGroup(g string) *Attribute {
	a.group = g
	return a
}

// SetShouldInherit sets whether the value is inherited from the parent.
func (a *Attribute) SetShouldInherit(v bool) *Attribute {
	a.shouldInherit = v
	return a
}

// SetShouldPreExpose sets whether the attribute is pre-exposed.
func (a *Attribute) SetShouldPreExpose(v bool) *Attribute {
	a.shouldPreExpose = v
	return a
}

// SetHidden sets whether the attribute is hidden from the UI.
func (a *Attribute) SetHidden(v bool) *Attribute {
	a.hidden = v
	return a
}

// SetValidated sets whether an input is validated before its component
// runs. It has no effect on options and outputs.
func (a *Attribute) SetValidated(v bool) *Attribute {
	a.validated = v
	return a
}

// Set overwrites the raw value and emits [Attribute.ValueChanged]
// synchronously.
func (a *Attribute) Set(value any) {
	a.value = value
	a.ValueChanged.Emit()
}

// Value returns the raw stored value without dereferencing: an address
// string stays an address string. Used for serialization and validation.
func (a *Attribute) Value() any {
	return a.value
}

// IsAddress reports whether the stored value is a string matching the
// address pattern.
func (a *Attribute) IsAddress() bool {
	_, ok := ParseAddress(a.value)
	return ok
}

// Get returns the resolved value. A literal value is returned directly;
// an address value is dereferenced through the owning stack, recursively
// (an address may point to another address). Resolution re-parses and
// re-resolves on every call; nothing is cached.
//
// A missing component, category, or attribute resolves to nil with no
// error. A cyclic address chain returns [ErrCyclicReference].
func (a *Attribute) Get() (any, error) {
	return a.resolve(nil)
}

type resolveKey struct {
	componentID string
	category    Category
	attribute   string
}

func (a *Attribute) resolve(visited map[resolveKey]bool) (any, error) {
	addr, ok := ParseAddress(a.value)
	if !ok {
		return a.value, nil
	}
	if a.owner == nil || a.owner.stack == nil {
		return nil, nil
	}
	if visited == nil {
		visited = make(map[resolveKey]bool)
	}
	key := resolveKey{a.owner.uniqueID, a.category, a.name}
	if visited[key] {
		return nil, fmt.Errorf("%w: %s", ErrCyclicReference, addr)
	}
	visited[key] = true

	comp := a.owner.stack.ComponentByLabel(addr.Component)
	if comp == nil {
		return nil, nil
	}
	target := comp.AsComponent().attribute(addr.Category, addr.Attribute)
	if target == nil {
		return nil, nil
	}
	return target.resolve(visited)
}

// Validate reports whether a validated input holds a truthy unresolved
// value. This only checks presence: an address pointing at a missing
// component still validates. Non-input attributes and inputs declared
// without validation always validate.
func (a *Attribute) Validate() bool {
	if a.category != Input || !a.validated {
		return true
	}
	return truthy(a.value)
}

func truthy(v any) bool {
	if v == nil {
		return false
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Slice, reflect.Map, reflect.Array, reflect.String:
		return rv.Len() > 0
	default:
		return !rv.IsZero()
	}
}

// AttributeData is the serialized form of an attribute.
type AttributeData struct {
	Name            string `json:"name"`
	Value           any    `json:"value"`
	Description     string `json:"description"`
	Group           string `json:"group"`
	ShouldInherit   bool   `json:"should_inherit"`
	ShouldPreExpose bool   `json:"should_pre_expose"`
	Hidden          bool   `json:"hidden"`
}

// Serialize returns the serialized form of the attribute. The value is
// resolved; if resolution fails (cyclic chain), the raw value is kept.
func (a *Attribute) Serialize() AttributeData {
	value, err := a.Get()
	if err != nil {
		value = a.value
	}
	return AttributeData{
		Name:            a.name,
		Value:           value,
		Description:     a.description,
		Group:           a.group,
		ShouldInherit:   a.shouldInherit,
		ShouldPreExpose: a.shouldPreExpose,
		Hidden:          a.hidden,
	}
}
