// Copyright 2025 Daniel Toske. All rights reserved.

// Package node implements the scene's transform hierarchy.
//
// A Graph is a flat arena of nodes addressed by opaque handles.
// Each node holds a local transform relative to its parent and a
// world transform derived from it by propagation. Transform edits
// mark the affected subtree stale; a single Propagate call then
// recomputes every stale world transform exactly once and records
// the recomputed nodes in a ledger for downstream consumers.
//
// A Graph must not be operated on concurrently. Distinct graphs
// share no state and may be used by different goroutines.
package node

import (
	"errors"

	"github.com/dtoske/stage/internal/bitvec"
	"github.com/dtoske/stage/linear"
)

const prefix = "node: "

// ErrNode indicates use of a stale or unknown node handle.
// It usually means the caller kept a handle past Remove.
var ErrNode = errors.New(prefix + "invalid handle")

// Node identifies a node in a Graph.
// Handles are stable for the lifetime of the node. A handle left
// over from a removed node never identifies a live one, even when
// the underlying storage slot has been reused.
type Node int64

// Nil represents an invalid Node.
const Nil Node = 0

// handle packs a slot index and its generation into a Node.
func handle(i int, gen uint32) Node {
	return Node(uint64(gen)<<32 | uint64(i+1))
}

// node is the arena element backing one Node handle.
type node struct {
	parent   int
	children []int
	local    linear.M4
	world    linear.M4
	name     string
	gen      uint32
	dirty    bool
	recorded bool
}

// Graph is a transform hierarchy.
// The zero value is an empty graph ready for use.
type Graph struct {
	nodes   []node
	slots   bitvec.V[uint32]
	dirty   []int
	changed []Node
}

// slot resolves a handle into an arena index.
func (g *Graph) slot(n Node) (int, bool) {
	i := int(uint32(n)) - 1
	if i < 0 || i >= len(g.nodes) || !g.slots.IsSet(i) || g.nodes[i].gen != uint32(uint64(n)>>32) {
		return -1, false
	}
	return i, true
}

// alloc claims a free arena slot, growing the arena if need be.
func (g *Graph) alloc() int {
	i, ok := g.slots.Search()
	if !ok {
		i = g.slots.Grow(1)
		g.nodes = append(g.nodes, make([]node, g.slots.Len()-len(g.nodes))...)
	}
	g.slots.Set(i)
	return i
}

// New creates a new node with identity local and world transforms
// and appends it to parent's child list. A Nil parent creates a
// root node.
func (g *Graph) New(parent Node) (Node, error) {
	p := -1
	if parent != Nil {
		var ok bool
		if p, ok = g.slot(parent); !ok {
			return Nil, ErrNode
		}
	}
	i := g.alloc()
	nd := &g.nodes[i]
	nd.parent = p
	nd.children = nd.children[:0]
	nd.local.I()
	nd.world.I()
	nd.name = ""
	nd.dirty = false
	nd.recorded = false
	if p >= 0 {
		g.nodes[p].children = append(g.nodes[p].children, i)
		// A node born under a stale subtree is recomputed on the
		// next propagation like any other descendant.
		nd.dirty = g.nodes[p].dirty
	}
	return handle(i, nd.gen), nil
}

// Remove removes node n and every descendant of n.
// Handles of removed nodes become invalid, and any of them still
// pending in the dirty-root set or the changed ledger are dropped.
func (g *Graph) Remove(n Node) error {
	i, ok := g.slot(n)
	if !ok {
		return ErrNode
	}
	if p := g.nodes[i].parent; p >= 0 {
		g.unlink(p, i)
	}
	stk := []int{i}
	for len(stk) > 0 {
		j := stk[len(stk)-1]
		stk = stk[:len(stk)-1]
		stk = append(stk, g.nodes[j].children...)
		g.free(j)
	}
	d := g.dirty[:0]
	for _, r := range g.dirty {
		if g.slots.IsSet(r) {
			d = append(d, r)
		}
	}
	g.dirty = d
	c := g.changed[:0]
	for _, h := range g.changed {
		if _, ok := g.slot(h); ok {
			c = append(c, h)
		}
	}
	g.changed = c
	return nil
}

// free releases one arena slot.
// Bumping the generation invalidates outstanding handles.
func (g *Graph) free(i int) {
	nd := &g.nodes[i]
	nd.parent = -1
	nd.children = nd.children[:0]
	nd.name = ""
	nd.gen++
	nd.dirty = false
	nd.recorded = false
	g.slots.Unset(i)
}

// unlink removes child index c from parent index p.
// Sibling order of the remaining children is preserved.
func (g *Graph) unlink(p, c int) {
	s := g.nodes[p].children
	for i := range s {
		if s[i] == c {
			g.nodes[p].children = append(s[:i], s[i+1:]...)
			return
		}
	}
}

// Reparent detaches node n from its current parent and appends it
// to parent's child list, keeping n's local transform unchanged.
// A Nil parent turns n into a root node. Making a node a descendant
// of itself fails with ErrNode.
func (g *Graph) Reparent(n, parent Node) error {
	i, ok := g.slot(n)
	if !ok {
		return ErrNode
	}
	p := -1
	if parent != Nil {
		if p, ok = g.slot(parent); !ok {
			return ErrNode
		}
		if p == i || g.isBelow(p, i) {
			return ErrNode
		}
	}
	if old := g.nodes[i].parent; old >= 0 {
		g.unlink(old, i)
	}
	g.nodes[i].parent = p
	if p >= 0 {
		g.nodes[p].children = append(g.nodes[p].children, i)
	}
	g.reroot(i)
	return nil
}

// SetLocal overwrites the local transform of node n and marks the
// subtree rooted at n stale.
func (g *Graph) SetLocal(n Node, m *linear.M4) error {
	i, ok := g.slot(n)
	if !ok {
		return ErrNode
	}
	g.nodes[i].local = *m
	g.markDirty(i)
	return nil
}

// Local returns the local transform of node n.
func (g *Graph) Local(n Node) (linear.M4, error) {
	i, ok := g.slot(n)
	if !ok {
		return linear.M4{}, ErrNode
	}
	return g.nodes[i].local, nil
}

// World returns the world transform of node n as of the last
// propagation. It never recomputes: a dirty node yields the
// previous value, and the caller is expected to call Propagate
// first when freshness matters. This keeps the cost of an edit
// proportional to the subtree it touched rather than to the
// number of reads.
func (g *Graph) World(n Node) (linear.M4, error) {
	i, ok := g.slot(n)
	if !ok {
		return linear.M4{}, ErrNode
	}
	return g.nodes[i].world, nil
}

// IsDirty reports whether the world transform of node n may be
// stale relative to its local transform or an ancestor's.
func (g *Graph) IsDirty(n Node) (bool, error) {
	i, ok := g.slot(n)
	if !ok {
		return false, ErrNode
	}
	return g.nodes[i].dirty, nil
}

// Parent returns the parent of node n, or Nil for a root.
func (g *Graph) Parent(n Node) (Node, error) {
	i, ok := g.slot(n)
	if !ok {
		return Nil, ErrNode
	}
	p := g.nodes[i].parent
	if p < 0 {
		return Nil, nil
	}
	return handle(p, g.nodes[p].gen), nil
}

// Children returns the children of node n in insertion order.
func (g *Graph) Children(n Node) ([]Node, error) {
	i, ok := g.slot(n)
	if !ok {
		return nil, ErrNode
	}
	s := g.nodes[i].children
	if len(s) == 0 {
		return nil, nil
	}
	ns := make([]Node, len(s))
	for x, c := range s {
		ns[x] = handle(c, g.nodes[c].gen)
	}
	return ns, nil
}

// SetName sets a name for node n.
// Names are not used by graph code.
func (g *Graph) SetName(n Node, name string) error {
	i, ok := g.slot(n)
	if !ok {
		return ErrNode
	}
	g.nodes[i].name = name
	return nil
}

// Name returns the name of node n.
func (g *Graph) Name(n Node) (string, error) {
	i, ok := g.slot(n)
	if !ok {
		return "", ErrNode
	}
	return g.nodes[i].name, nil
}

// Valid reports whether n identifies a live node of g.
func (g *Graph) Valid(n Node) bool {
	_, ok := g.slot(n)
	return ok
}

// Len returns the number of live nodes in the graph.
func (g *Graph) Len() int { return g.slots.Len() - g.slots.Rem() }

// ForEach calls f for each descendant of node n.
// Ancestors are processed first. The graph must not be changed
// until this method returns.
func (g *Graph) ForEach(n Node, f func(Node)) error {
	i, ok := g.slot(n)
	if !ok {
		return ErrNode
	}
	stk := append([]int{}, g.nodes[i].children...)
	for len(stk) > 0 {
		j := stk[len(stk)-1]
		stk = stk[:len(stk)-1]
		f(handle(j, g.nodes[j].gen))
		stk = append(stk, g.nodes[j].children...)
	}
	return nil
}

// isBelow reports whether arena index j is a strict descendant
// of arena index i.
func (g *Graph) isBelow(j, i int) bool {
	for p := g.nodes[j].parent; p >= 0; p = g.nodes[p].parent {
		if p == i {
			return true
		}
	}
	return false
}
