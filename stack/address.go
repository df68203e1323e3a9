// Copyright (c) 2025, The Noddle Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package stack

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
)

// ErrCyclicReference is returned when resolving an attribute address chain
// that references itself, directly or through other components.
var ErrCyclicReference = errors.New("stack: cyclic attribute reference")

// Category is the kind of a declared attribute. It replaces stringly-typed
// dispatch in address resolution with an explicit three-way branch.
type Category int32

const (
	// Option is a configuration value set by the user.
	Option Category = iota

	// Input is a data dependency ("requirement"), optionally validated
	// before its component runs.
	Input

	// Output is declared by a component and populated during its run;
	// other components resolve it through addresses.
	Output
)

// categoryTokens are the category spellings used inside address strings.
var categoryTokens = []string{"option", "requirement", "output"}

func (c Category) String() string {
	if c < 0 || int(c) >= len(categoryTokens) {
		return "Category(" + strconv.Itoa(int(c)) + ")"
	}
	return categoryTokens[c]
}

func categoryFromToken(tok string) (Category, bool) {
	for i, t := range categoryTokens {
		if t == tok {
			return Category(i), true
		}
	}
	return 0, false
}

// addressRegex is the fixed pattern an attribute value must match to be
// treated as an address instead of a literal.
var addressRegex = regexp.MustCompile(`^\[(.*)\]\.\[(option|requirement|output)\]\.\[(.*)\]$`)

// Address is a parsed reference to another component's attribute within the
// same stack. Addresses never exist at rest; they are encoded as attribute
// value strings of the form "[component-label].[category].[attribute-name]"
// and dereferenced lazily on resolution.
type Address struct {
	Component string
	Category  Category
	Attribute string
}

// String returns the encoded address string.
func (a Address) String() string {
	return fmt.Sprintf("[%s].[%s].[%s]", a.Component, a.Category, a.Attribute)
}

// NewAddress returns the encoded address string referencing the given
// component label, category, and attribute name, suitable for use as an
// attribute value.
func NewAddress(componentLabel string, category Category, attribute string) string {
	return Address{Component: componentLabel, Category: category, Attribute: attribute}.String()
}

// ParseAddress parses an attribute value as an address. It reports false for
// non-strings and for strings not matching the address pattern; such values
// are literals.
func ParseAddress(value any) (Address, bool) {
	s, ok := value.(string)
	if !ok {
		return Address{}, false
	}
	m := addressRegex.FindStringSubmatch(s)
	if m == nil {
		return Address{}, false
	}
	cat, ok := categoryFromToken(m[2])
	if !ok {
		return Address{}, false
	}
	return Address{Component: m[1], Category: cat, Attribute: m[3]}, true
}
