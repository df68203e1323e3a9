// Copyright (c) 2025, The Noddle Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package inputs

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChordMatches(t *testing.T) {
	c := Chord{Button: Middle}
	assert.True(t, c.Matches(Middle, 0))
	assert.False(t, c.Matches(Left, 0))
	// Modifiers must match exactly, not as a superset.
	assert.False(t, c.Matches(Middle, Alt))

	c = Chord{Button: Left, Modifiers: Alt | Shift}
	assert.True(t, c.Matches(Left, Alt|Shift))
	assert.False(t, c.Matches(Left, Alt))
	assert.False(t, c.Matches(Left, Alt|Shift|Control))
}

func TestModifiersHasAll(t *testing.T) {
	m := Alt | Shift
	assert.True(t, m.HasAll(Alt))
	assert.True(t, m.HasAll(Alt|Shift))
	assert.False(t, m.HasAll(Control))
	assert.False(t, m.HasAll(Alt|Control))
}

func TestBindings(t *testing.T) {
	b := NewBindings()
	assert.False(t, b.Matches("Canvas.Pan", Middle, 0))

	b.Add("Canvas.Pan", Chord{Button: Middle})
	b.Add("Canvas.Pan", Chord{Button: Left, Modifiers: Alt})
	assert.True(t, b.Matches("Canvas.Pan", Middle, 0))
	assert.True(t, b.Matches("Canvas.Pan", Left, Alt))
	assert.False(t, b.Matches("Canvas.Pan", Left, 0))
	assert.False(t, b.Matches("Canvas.Zoom", Middle, 0))
	assert.Len(t, b.Chords("Canvas.Pan"), 2)

	b.Set("Canvas.Pan", Chord{Button: Right})
	assert.False(t, b.Matches("Canvas.Pan", Middle, 0))
	assert.True(t, b.Matches("Canvas.Pan", Right, 0))
}

func TestBindingsZeroValue(t *testing.T) {
	var b Bindings
	assert.False(t, b.Matches("Canvas.Pan", Middle, 0))
	b.Add("Canvas.Pan", Chord{Button: Middle})
	assert.True(t, b.Matches("Canvas.Pan", Middle, 0))
}

func TestActionFromJSON(t *testing.T) {
	a, err := ActionFromJSON([]byte(`{"name": "Canvas.Pan", "chords": [{"button": 2, "modifiers": 0}]}`))
	require.NoError(t, err)
	assert.Equal(t, "Canvas.Pan", a.Name)
	require.Len(t, a.Chords, 1)
	assert.Equal(t, Middle, a.Chords[0].Button)

	// Every failure mode surfaces as the same wrapped error.
	for _, data := range []string{
		`{`,
		`{"chords": []}`,
		`{"name": "Canvas.Pan", "chords": [{"button": 99}]}`,
		`{"name": "Canvas.Pan", "chords": "middle"}`,
	} {
		_, err := ActionFromJSON([]byte(data))
		assert.ErrorContains(t, err, "invalid action data", data)
	}
}

func TestButtonsString(t *testing.T) {
	assert.Equal(t, "middle", Middle.String())
	assert.Equal(t, "none", NoButton.String())
	assert.Equal(t, "Buttons(9)", Buttons(9).String())
}
