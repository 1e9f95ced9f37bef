// Copyright 2025 Daniel Toske. All rights reserved.

package render

import (
	"github.com/dtoske/stage/linear"
	"github.com/dtoske/stage/node"
)

// IndexMap resolves a node into the drawable indices registered
// for it, in registration order. It is maintained by the drawable
// registration subsystem; Sync treats it as a pure lookup.
type IndexMap interface {
	// Lookup returns the drawable indices of n.
	// A node with no drawables yields an empty result.
	Lookup(n node.Node) []int
}

// WorldSource yields world transforms for node handles.
// *node.Graph implements it.
type WorldSource interface {
	World(n node.Node) (linear.M4, error)
}

// Sync writes the current world transform of every changed node
// into the cull and draw entries of its drawables. changed is
// typically the graph's ledger, taken after Propagate.
//
// Cost is proportional to the total fan-out of the changed set,
// never to the size of the stores. Nodes with no drawables are
// skipped, as are handles that no longer resolve: a drawable can
// be deregistered, or its node removed, between a transform edit
// and the synchronization that would have consumed it.
func Sync(st *Stores, changed []node.Node, src WorldSource, m IndexMap) {
	for _, n := range changed {
		w, err := src.World(n)
		if err != nil {
			continue
		}
		for _, i := range m.Lookup(n) {
			st.cull[i].World = w
			st.draw[i].Transform = w
		}
	}
}
