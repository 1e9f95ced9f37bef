// Copyright 2025 Daniel Toske. All rights reserved.

package node

import (
	"github.com/dtoske/stage/linear"
)

// markDirty marks the subtree rooted at arena index i stale and
// maintains the minimal dirty-root set.
//
// An already dirty node is covered by an existing root: either the
// node is a root itself, or one of its ancestors is. Re-marking it
// is therefore O(1), no matter how large its subtree.
func (g *Graph) markDirty(i int) {
	if g.nodes[i].dirty {
		return
	}
	g.reroot(i)
}

// reroot registers arena index i as a dirty root, unless a dirty
// ancestor already covers it. Existing roots subsumed by i are
// dropped, so no member of the set is ever an ancestor or a
// descendant of another member.
//
// Unlike markDirty, reroot handles a node that is already dirty.
// Reparent needs this: the root that used to cover the moved node
// may no longer be one of its ancestors.
func (g *Graph) reroot(i int) {
	d := g.dirty[:0]
	for _, r := range g.dirty {
		if r != i && !g.isBelow(r, i) {
			d = append(d, r)
		}
	}
	g.dirty = d
	if p := g.nodes[i].parent; p < 0 || !g.nodes[p].dirty {
		g.dirty = append(g.dirty, i)
	}
	g.markSubtree(i)
}

// markSubtree sets the dirty flag on arena index i and every
// descendant of i. Pre-marking the whole subtree is what lets a
// later edit below i take the O(1) path in markDirty.
//
// Subtrees that are already dirty are pruned: marking a node
// always marks its whole subtree, so a set flag means there is
// nothing left to do below it.
func (g *Graph) markSubtree(i int) {
	stk := []int{i}
	for len(stk) > 0 {
		j := stk[len(stk)-1]
		stk = stk[:len(stk)-1]
		if j != i && g.nodes[j].dirty {
			continue
		}
		g.nodes[j].dirty = true
		stk = append(stk, g.nodes[j].children...)
	}
}

// Propagate recomputes the world transform of every stale node and
// clears the dirty-root set. Each recomputed node is recorded in
// the changed ledger. With no pending edits, Propagate is a no-op.
//
// Every node under a dirty root is recomputed, even when its own
// local transform did not change, since its ancestor's world
// transform did. Iteration order over disjoint dirty subtrees is
// unspecified.
func (g *Graph) Propagate() {
	for _, r := range g.dirty {
		if p := g.nodes[r].parent; p >= 0 {
			g.propagate(r, &g.nodes[p].world)
		} else {
			g.propagate(r, nil)
		}
	}
	g.dirty = g.dirty[:0]
}

// propagate walks the subtree at arena index i in pre-order,
// deriving each world transform from the parent's.
func (g *Graph) propagate(i int, parent *linear.M4) {
	nd := &g.nodes[i]
	if parent != nil {
		nd.world.Mul(parent, &nd.local)
	} else {
		nd.world = nd.local
	}
	nd.dirty = false
	if !nd.recorded {
		nd.recorded = true
		g.changed = append(g.changed, handle(i, nd.gen))
	}
	for _, c := range nd.children {
		g.propagate(c, &nd.world)
	}
}

// Changed returns the handles of every node whose world transform
// was recomputed since the last ClearChanged. Set semantics: a node
// recomputed by several Propagate calls appears once. The returned
// slice aliases the graph's state and must not be mutated by the
// caller; it remains valid until the next graph operation.
func (g *Graph) Changed() []Node { return g.changed }

// ClearChanged empties the changed ledger.
// Propagate never clears the ledger on its own, so any number of
// consumers can read the same changed set, and several Propagate
// calls can accumulate into one before a shared synchronization.
func (g *Graph) ClearChanged() {
	for _, h := range g.changed {
		if i, ok := g.slot(h); ok {
			g.nodes[i].recorded = false
		}
	}
	g.changed = g.changed[:0]
}
