// Copyright (c) 2025, The Noddle Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package stack

import (
	"fmt"
	"sort"
)

// Factory creates a new, unwired instance of a component type.
type Factory func() Component

// Registry maps component type identifiers to versioned factories. Multiple
// versions of the same type can coexist; the highest version is used unless
// a component pins one via forced version. A registry is constructed once at
// application start and passed to each [Stack]; there is no global registry.
type Registry struct {
	types map[string]map[int]Factory
}

// NewRegistry returns a new empty [Registry].
func NewRegistry() *Registry {
	return &Registry{types: make(map[string]map[int]Factory)}
}

// Register adds a factory for the given type identifier and version.
// Registering the same (type, version) pair twice is an error.
func (r *Registry) Register(typeID string, version int, f Factory) error {
	if typeID == "" {
		return fmt.Errorf("stack: registering component with empty type id")
	}
	if version < 1 {
		return fmt.Errorf("stack: registering %q with version %d; versions start at 1", typeID, version)
	}
	versions := r.types[typeID]
	if versions == nil {
		versions = make(map[int]Factory)
		r.types[typeID] = versions
	}
	if _, ok := versions[version]; ok {
		return fmt.Errorf("stack: component %q version %d already registered", typeID, version)
	}
	versions[version] = f
	return nil
}

// Latest returns the highest registered version for the given type, or 0 if
// the type is unknown.
func (r *Registry) Latest(typeID string) int {
	latest := 0
	for v := range r.types[typeID] {
		if v > latest {
			latest = v
		}
	}
	return latest
}

// New creates an unwired component of the given type. Pass version 0 for
// the latest registered version.
func (r *Registry) New(typeID string, version int) (Component, int, error) {
	versions := r.types[typeID]
	if len(versions) == 0 {
		return nil, 0, fmt.Errorf("stack: unknown component type %q", typeID)
	}
	if version == 0 {
		version = r.Latest(typeID)
	}
	f, ok := versions[version]
	if !ok {
		return nil, 0, fmt.Errorf("stack: component type %q has no version %d", typeID, version)
	}
	return f(), version, nil
}

// Types returns the registered type identifiers, sorted.
func (r *Registry) Types() []string {
	ids := make([]string, 0, len(r.types))
	for id := range r.types {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
