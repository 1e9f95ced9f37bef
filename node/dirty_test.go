// Copyright 2025 Daniel Toske. All rights reserved.

package node

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dtoske/stage/linear"
)

// dirtyRoots resolves the internal root set into handles.
func dirtyRoots(g *Graph) []Node {
	var ns []Node
	for _, i := range g.dirty {
		ns = append(ns, handle(i, g.nodes[i].gen))
	}
	return ns
}

func TestDirtyRootMinimal(t *testing.T) {
	var g Graph
	r, _ := g.New(Nil)
	a, _ := g.New(r)
	b, _ := g.New(a)
	c, _ := g.New(r)

	m := translate(1, 0, 0)

	// Marking a descendant first, then its ancestor, subsumes
	// the descendant's root entry.
	require.NoError(t, g.SetLocal(b, &m))
	assert.ElementsMatch(t, []Node{b}, dirtyRoots(&g))
	require.NoError(t, g.SetLocal(a, &m))
	assert.ElementsMatch(t, []Node{a}, dirtyRoots(&g))

	// Marking below an existing root changes nothing.
	require.NoError(t, g.SetLocal(b, &m))
	assert.ElementsMatch(t, []Node{a}, dirtyRoots(&g))

	// A disjoint subtree gets its own root.
	require.NoError(t, g.SetLocal(c, &m))
	assert.ElementsMatch(t, []Node{a, c}, dirtyRoots(&g))

	// The hierarchy root subsumes everything.
	require.NoError(t, g.SetLocal(r, &m))
	assert.ElementsMatch(t, []Node{r}, dirtyRoots(&g))

	// No member is an ancestor or descendant of another, for any
	// edit order.
	g.Propagate()
	g.ClearChanged()
	for _, n := range []Node{c, b, r, a, b, c} {
		require.NoError(t, g.SetLocal(n, &m))
	}
	roots := dirtyRoots(&g)
	assert.ElementsMatch(t, []Node{r}, roots)
}

func TestDirtyFlags(t *testing.T) {
	var g Graph
	r, _ := g.New(Nil)
	a, _ := g.New(r)
	b, _ := g.New(a)
	c, _ := g.New(r)

	m := translate(1, 0, 0)
	require.NoError(t, g.SetLocal(a, &m))

	for n, want := range map[Node]bool{r: false, a: true, b: true, c: false} {
		d, err := g.IsDirty(n)
		require.NoError(t, err)
		assert.Equal(t, want, d)
	}

	g.Propagate()
	for _, n := range []Node{r, a, b, c} {
		d, err := g.IsDirty(n)
		require.NoError(t, err)
		assert.False(t, d)
	}
}

func TestPropagateChain(t *testing.T) {
	var g Graph
	r, _ := g.New(Nil)
	c, _ := g.New(r)
	gc, _ := g.New(c)

	tr := translate(1, 0, 0)
	tc := translate(0, 2, 0)
	tg := translate(0, 0, 3)
	require.NoError(t, g.SetLocal(r, &tr))
	require.NoError(t, g.SetLocal(c, &tc))
	require.NoError(t, g.SetLocal(gc, &tg))
	g.Propagate()

	// Parent-before-child composition.
	var want linear.M4
	want.Mul(&tr, &tc)
	want.Mul(&want, &tg)
	w, err := g.World(gc)
	require.NoError(t, err)
	assert.Equal(t, want, w)
	assert.Equal(t, translate(1, 2, 3), w)

	w, err = g.World(c)
	require.NoError(t, err)
	assert.Equal(t, translate(1, 2, 0), w)
}

func TestPropagateIdempotent(t *testing.T) {
	var g Graph
	r, _ := g.New(Nil)
	a, _ := g.New(r)

	m := translate(4, 5, 6)
	require.NoError(t, g.SetLocal(r, &m))
	g.Propagate()

	worlds := make(map[Node]linear.M4)
	for _, n := range []Node{r, a} {
		w, err := g.World(n)
		require.NoError(t, err)
		worlds[n] = w
	}
	changed := append([]Node{}, g.Changed()...)
	assert.Empty(t, g.dirty)

	// No intervening edits: the second call is a no-op.
	g.Propagate()
	for _, n := range []Node{r, a} {
		w, err := g.World(n)
		require.NoError(t, err)
		assert.Equal(t, worlds[n], w)
	}
	assert.Equal(t, changed, g.Changed())
	assert.Empty(t, g.dirty)
}

func TestChangedComplete(t *testing.T) {
	var g Graph
	r, _ := g.New(Nil)
	a, _ := g.New(r)
	b, _ := g.New(a)
	c, _ := g.New(r)
	other, _ := g.New(Nil)

	m := translate(1, 0, 0)
	require.NoError(t, g.SetLocal(a, &m))
	g.Propagate()

	// a and every descendant of a, and nothing else.
	assert.ElementsMatch(t, []Node{a, b}, g.Changed())
	for _, n := range []Node{r, c, other} {
		assert.NotContains(t, g.Changed(), n)
	}
}

func TestChangedAccumulates(t *testing.T) {
	var g Graph
	a, _ := g.New(Nil)
	b, _ := g.New(Nil)

	m := translate(1, 0, 0)
	require.NoError(t, g.SetLocal(a, &m))
	g.Propagate()
	require.NoError(t, g.SetLocal(b, &m))
	g.Propagate()

	// Two cycles without a clear: the ledger is the union.
	assert.ElementsMatch(t, []Node{a, b}, g.Changed())

	// Re-propagating a node already in the ledger does not
	// duplicate it.
	m = translate(2, 0, 0)
	require.NoError(t, g.SetLocal(a, &m))
	g.Propagate()
	assert.ElementsMatch(t, []Node{a, b}, g.Changed())

	g.ClearChanged()
	assert.Empty(t, g.Changed())

	// The ledger tracks recomputation anew after a clear.
	require.NoError(t, g.SetLocal(b, &m))
	g.Propagate()
	assert.ElementsMatch(t, []Node{b}, g.Changed())
}

func TestRemovePurges(t *testing.T) {
	var g Graph
	r, _ := g.New(Nil)
	a, _ := g.New(r)
	b, _ := g.New(a)
	c, _ := g.New(Nil)

	m := translate(1, 0, 0)
	require.NoError(t, g.SetLocal(a, &m))
	require.NoError(t, g.SetLocal(c, &m))
	g.Propagate()
	require.NoError(t, g.SetLocal(b, &m))
	require.NoError(t, g.Remove(a))

	// Removed handles are invalid...
	for _, n := range []Node{a, b} {
		_, err := g.World(n)
		assert.ErrorIs(t, err, ErrNode)
	}
	// ...and gone from both the root set and the ledger.
	assert.Empty(t, dirtyRoots(&g))
	assert.ElementsMatch(t, []Node{c}, g.Changed())

	// Propagation after the purge is a no-op, not a fault.
	g.Propagate()
	assert.ElementsMatch(t, []Node{c}, g.Changed())
}
