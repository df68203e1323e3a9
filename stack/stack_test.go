// Copyright (c) 2025, The Noddle Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package stack

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// constant holds a configured value and publishes it as an output.
type constant struct {
	ComponentBase
}

func (c *constant) Init() {
	c.DeclareOption("value", nil).SetDescription("the value to publish")
	c.DeclareOutput("result", "the configured value")
}

func (c *constant) Run() error {
	v, err := c.Option("value").Get()
	if err != nil {
		return err
	}
	c.Output("result").Set(v)
	return nil
}

// adder sums its two inputs, which are typically addresses.
type adder struct {
	ComponentBase
}

func (a *adder) Init() {
	a.DeclareInput("a", nil)
	a.DeclareInput("b", nil)
	a.DeclareOutput("sum", "a + b")
}

func (a *adder) Run() error {
	av, err := a.Input("a").Get()
	if err != nil {
		return err
	}
	bv, err := a.Input("b").Get()
	if err != nil {
		return err
	}
	a.Output("sum").Set(toFloat(av) + toFloat(bv))
	return nil
}

func toFloat(v any) float64 {
	switch n := v.(type) {
	case int:
		return float64(n)
	case float64:
		return n
	}
	return 0
}

// flaky fails or panics on demand.
type flaky struct {
	ComponentBase
	FailWith  string
	PanicWith string
}

func (f *flaky) Init() {
	f.DeclareInput("source", "ok")
}

func (f *flaky) Run() error {
	if f.PanicWith != "" {
		panic(f.PanicWith)
	}
	if f.FailWith != "" {
		return errors.New(f.FailWith)
	}
	return nil
}

func testRegistry(t *testing.T) *Registry {
	t.Helper()
	r := NewRegistry()
	require.NoError(t, r.Register("test.constant", 1, func() Component { return &constant{} }))
	require.NoError(t, r.Register("test.constant", 2, func() Component { return &constant{} }))
	require.NoError(t, r.Register("test.adder", 1, func() Component { return &adder{} }))
	require.NoError(t, r.Register("test.flaky", 1, func() Component { return &flaky{} }))
	return r
}

func testStack(t *testing.T) *Stack {
	t.Helper()
	return New(testRegistry(t))
}

func TestAddComponent(t *testing.T) {
	s := testStack(t)
	c, err := s.AddComponent("test.constant", "A")
	require.NoError(t, err)
	cb := c.AsComponent()
	assert.Equal(t, "A", cb.Label())
	assert.Equal(t, "test.constant", cb.TypeID())
	assert.Equal(t, 2, cb.Version())
	assert.NotEmpty(t, cb.UniqueID())
	assert.True(t, cb.IsEnabled())
	assert.Equal(t, NotExecuted, cb.Status())
	assert.Same(t, c, s.ComponentByLabel("A"))
	assert.Same(t, c, s.ComponentByID(cb.UniqueID()))
	assert.Equal(t, 1, s.Len())

	// Init already declared the attributes.
	assert.NotNil(t, cb.Option("value"))
	assert.NotNil(t, cb.Output("result"))

	_, err = s.AddComponent("test.bogus", "B")
	assert.Error(t, err)
}

func TestAddComponentDefaultLabel(t *testing.T) {
	s := testStack(t)
	c, err := s.AddComponent("test.adder", "")
	require.NoError(t, err)
	assert.Equal(t, "test.adder", c.AsComponent().Label())
}

func TestDuplicateLabelRejected(t *testing.T) {
	s := testStack(t)
	_, err := s.AddComponent("test.constant", "A")
	require.NoError(t, err)
	_, err = s.AddComponent("test.adder", "A")
	assert.ErrorIs(t, err, ErrDuplicateLabel)
	assert.Equal(t, 1, s.Len())
}

func TestSetLabel(t *testing.T) {
	s := testStack(t)
	a, _ := s.AddComponent("test.constant", "A")
	b, _ := s.AddComponent("test.adder", "B")
	assert.ErrorIs(t, b.AsComponent().SetLabel("A"), ErrDuplicateLabel)
	assert.Equal(t, "B", b.AsComponent().Label())

	require.NoError(t, a.AsComponent().SetLabel("Base"))
	assert.Nil(t, s.ComponentByLabel("A"))
	assert.Same(t, a, s.ComponentByLabel("Base"))
}

func TestUniqueLabel(t *testing.T) {
	s := testStack(t)
	assert.Equal(t, "A", s.UniqueLabel("A"))
	s.AddComponent("test.constant", "A")
	assert.Equal(t, "A 1", s.UniqueLabel("A"))
	s.AddComponent("test.constant", "A 1")
	assert.Equal(t, "A 2", s.UniqueLabel("A"))
}

func TestRemoveComponent(t *testing.T) {
	s := testStack(t)
	a, _ := s.AddComponent("test.constant", "A")
	b, _ := s.AddComponent("test.adder", "B")
	s.SetBuildPosition(b, a)

	require.NoError(t, s.RemoveComponent(a))
	assert.Equal(t, 1, s.Len())
	assert.Nil(t, s.ComponentByLabel("A"))
	assert.Nil(t, s.ParentOf(b))
	assert.Nil(t, a.AsComponent().Stack())

	// The label is free again and the index stays consistent.
	c, err := s.AddComponent("test.constant", "A")
	require.NoError(t, err)
	assert.Same(t, c, s.ComponentByLabel("A"))

	err = s.RemoveComponent(a)
	assert.Error(t, err)
}

func TestBuildOrder(t *testing.T) {
	s := testStack(t)
	a, _ := s.AddComponent("test.constant", "A")
	b, _ := s.AddComponent("test.constant", "B")
	c, _ := s.AddComponent("test.constant", "C")
	assert.Equal(t, []Component{a, b, c}, s.BuildOrder())

	// Parenting inserts directly after the parent.
	s.SetBuildPosition(c, a)
	assert.Equal(t, []Component{a, c, b}, s.BuildOrder())
	assert.Same(t, a, s.ParentOf(c))
	assert.Same(t, a, c.AsComponent().Parent())

	// Clearing the parent moves the component to the end.
	s.SetBuildPosition(c, nil)
	assert.Equal(t, []Component{a, b, c}, s.BuildOrder())
	assert.Nil(t, s.ParentOf(c))
}

func TestBuildResolvesAddresses(t *testing.T) {
	s := testStack(t)
	a, _ := s.AddComponent("test.constant", "A")
	b, _ := s.AddComponent("test.constant", "B")
	sum, _ := s.AddComponent("test.adder", "Sum")
	a.AsComponent().Option("value").Set(2)
	b.AsComponent().Option("value").Set(3)
	sum.AsComponent().Input("a").Set(NewAddress("A", Output, "result"))
	sum.AsComponent().Input("b").Set(NewAddress("B", Output, "result"))

	require.NoError(t, s.Build(BuildOptions{}))
	for _, c := range s.Components() {
		assert.Equal(t, Success, c.AsComponent().Status())
	}
	v, err := sum.AsComponent().Output("sum").Get()
	require.NoError(t, err)
	assert.Equal(t, float64(5), v)
}

func TestBuildStatuses(t *testing.T) {
	s := testStack(t)
	ok, _ := s.AddComponent("test.flaky", "ok")
	failed, _ := s.AddComponent("test.flaky", "failed")
	failed.(*flaky).FailWith = "boom"
	invalid, _ := s.AddComponent("test.flaky", "invalid")
	invalid.AsComponent().Input("source").Set(nil)
	disabled, _ := s.AddComponent("test.flaky", "disabled")
	disabled.AsComponent().SetEnabled(false)

	err := s.Build(BuildOptions{})
	require.Error(t, err)
	assert.ErrorContains(t, err, "boom")
	assert.ErrorContains(t, err, "missing inputs")
	assert.Equal(t, Success, ok.AsComponent().Status())
	assert.Equal(t, Failed, failed.AsComponent().Status())
	assert.Equal(t, Invalid, invalid.AsComponent().Status())
	assert.Equal(t, Disabled, disabled.AsComponent().Status())
}

func TestBuildRecoversPanic(t *testing.T) {
	s := testStack(t)
	p, _ := s.AddComponent("test.flaky", "panicky")
	p.(*flaky).PanicWith = "kaboom"
	after, _ := s.AddComponent("test.flaky", "after")

	err := s.Build(BuildOptions{})
	require.Error(t, err)
	assert.ErrorContains(t, err, "panicked")
	assert.Equal(t, Failed, p.AsComponent().Status())
	// The panic does not abort the rest of the build.
	assert.Equal(t, Success, after.AsComponent().Status())
}

func TestBuildStopOnError(t *testing.T) {
	s := testStack(t)
	failed, _ := s.AddComponent("test.flaky", "failed")
	failed.(*flaky).FailWith = "boom"
	after, _ := s.AddComponent("test.flaky", "after")

	err := s.Build(BuildOptions{StopOnError: true})
	require.Error(t, err)
	assert.Equal(t, Failed, failed.AsComponent().Status())
	assert.Equal(t, NotExecuted, after.AsComponent().Status())
}

func TestBuildResetsStatuses(t *testing.T) {
	s := testStack(t)
	f, _ := s.AddComponent("test.flaky", "f")
	f.(*flaky).FailWith = "boom"
	require.Error(t, s.Build(BuildOptions{}))
	assert.Equal(t, Failed, f.AsComponent().Status())

	f.(*flaky).FailWith = ""
	require.NoError(t, s.Build(BuildOptions{}))
	assert.Equal(t, Success, f.AsComponent().Status())
}

func TestDuplicate(t *testing.T) {
	s := testStack(t)
	parent, _ := s.AddComponent("test.constant", "Parent")
	a, _ := s.AddComponent("test.flaky", "A")
	a.(*flaky).FailWith = "copied"
	a.AsComponent().Input("source").Set("custom")
	a.AsComponent().SetEnabled(false)
	s.SetBuildPosition(a, parent)

	d, err := a.AsComponent().Duplicate()
	require.NoError(t, err)
	db := d.AsComponent()
	assert.Equal(t, "A 1", db.Label())
	assert.NotEqual(t, a.AsComponent().UniqueID(), db.UniqueID())
	assert.Equal(t, "copied", d.(*flaky).FailWith)
	assert.Equal(t, "custom", db.Input("source").Value())
	assert.False(t, db.IsEnabled())
	assert.Same(t, parent, s.ParentOf(d))
}

func TestStackSaveLoad(t *testing.T) {
	s := testStack(t)
	a, _ := s.AddComponent("test.constant", "A")
	a.AsComponent().Option("value").Set(4.5)
	a.AsComponent().SetForcedVersion(1)
	sum, _ := s.AddComponent("test.adder", "Sum")
	sum.AsComponent().Input("a").Set(NewAddress("A", Output, "result"))
	sum.AsComponent().Input("b").Set(7)
	sum.AsComponent().SetEnabled(false)
	s.SetBuildPosition(a, sum)

	// Serialization stores resolved values, so build first to populate
	// the outputs the addresses point at.
	require.NoError(t, s.Build(BuildOptions{}))

	path := filepath.Join(t.TempDir(), "rig.noddle")
	require.NoError(t, s.Save(path))

	loaded := New(testRegistry(t))
	require.NoError(t, loaded.Load(path))
	require.Equal(t, 2, loaded.Len())

	la := loaded.ComponentByLabel("A").AsComponent()
	assert.Equal(t, a.AsComponent().UniqueID(), la.UniqueID())
	assert.Equal(t, 1, la.Version())
	assert.Equal(t, 1, la.ForcedVersion())
	assert.Equal(t, 4.5, la.Option("value").Value())

	ls := loaded.ComponentByLabel("Sum").AsComponent()
	assert.False(t, ls.IsEnabled())
	assert.Equal(t, 4.5, ls.Input("a").Value())
	assert.Equal(t, 7, ls.Input("b").Value())

	order := loaded.BuildOrder()
	require.Len(t, order, 2)
	assert.Equal(t, "Sum", order[0].AsComponent().Label())
	assert.Equal(t, "A", order[1].AsComponent().Label())
	assert.Same(t, order[0], loaded.ParentOf(order[1]))
}

func TestComponentSaveLoad(t *testing.T) {
	s := testStack(t)
	c, _ := s.AddComponent("test.adder", "Sum")
	c.AsComponent().Input("a").Set(2.5)
	c.AsComponent().Input("b").Set(5)

	path := filepath.Join(t.TempDir(), "sum.json")
	require.NoError(t, c.AsComponent().Save(path))

	fresh, _ := New(testRegistry(t)).AddComponent("test.adder", "Sum")
	require.NoError(t, fresh.AsComponent().Load(path))
	assert.Equal(t, 2.5, fresh.AsComponent().Input("a").Value())
	// Integer values survive as ints, not float64.
	assert.Equal(t, 5, fresh.AsComponent().Input("b").Value())
}

func TestLoadIntoNonEmptyStack(t *testing.T) {
	s := testStack(t)
	s.AddComponent("test.constant", "A")
	path := filepath.Join(t.TempDir(), "rig.noddle")
	require.NoError(t, s.Save(path))
	assert.Error(t, s.Load(path))
}

func TestStackSignals(t *testing.T) {
	s := testStack(t)
	var added, removed []string
	changes := 0
	s.ComponentAdded.Connect(func(c Component) {
		added = append(added, c.AsComponent().Label())
	})
	s.ComponentRemoved.Connect(func(c Component) {
		removed = append(removed, c.AsComponent().Label())
	})
	s.Changed.Connect(func() { changes++ })

	a, _ := s.AddComponent("test.constant", "A")
	assert.Equal(t, []string{"A"}, added)
	assert.Equal(t, 1, changes)

	// Attribute edits bubble up through the component to the stack.
	a.AsComponent().Option("value").Set(1)
	assert.Equal(t, 2, changes)

	s.RemoveComponent(a)
	assert.Equal(t, []string{"A"}, removed)

	// Edits on a removed component no longer reach the stack.
	after := changes
	a.AsComponent().Option("value").Set(2)
	assert.Equal(t, after, changes)
}
