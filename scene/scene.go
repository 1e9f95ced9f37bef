// Copyright 2025 Daniel Toske. All rights reserved.

// Package scene ties a transform hierarchy to the drawable stores
// renderers consume.
//
// A Scene owns one node.Graph, one render.Stores pair, and the
// mapping between nodes and the drawable indices registered for
// them. It is the subsystem the render package calls the index-map
// owner: it resizes the stores, and it repairs the reverse mapping
// when a swap-remove moves an entry.
//
// The intended per-frame sequence is: edit transforms, Update,
// cull, hand the visible indices and the draw store to a renderer.
// A Scene is single-threaded; distinct scenes are independent.
package scene

import (
	"github.com/dtoske/stage/linear"
	"github.com/dtoske/stage/node"
	"github.com/dtoske/stage/render"
)

// Scene is a transform hierarchy with registered drawables.
type Scene struct {
	graph     node.Graph
	stores    render.Stores
	drawables map[node.Node][]int
	owners    []node.Node
}

// New creates an initialized scene.
func New() *Scene { return new(Scene).Init() }

// Init initializes a scene.
func (s *Scene) Init() *Scene {
	s.drawables = make(map[node.Node][]int)
	return s
}

// Graph returns the scene's transform hierarchy.
func (s *Scene) Graph() *node.Graph { return &s.graph }

// Stores returns the scene's drawable stores.
func (s *Scene) Stores() *render.Stores { return &s.stores }

// Lookup returns the drawable indices registered for node n, in
// registration order. It implements render.IndexMap. The returned
// slice aliases the scene's state and must not be mutated.
func (s *Scene) Lookup(n node.Node) []int { return s.drawables[n] }

// Register adds a drawable for node n and returns its index in
// the stores. The entry transforms are seeded from n's current
// world transform. One node may carry any number of drawables,
// e.g. one per section of a multi-material mesh.
func (s *Scene) Register(n node.Node, c render.CullEntry, d render.DrawEntry) (int, error) {
	w, err := s.graph.World(n)
	if err != nil {
		return 0, err
	}
	c.World = w
	d.Transform = w
	i := s.stores.Append(c, d)
	s.drawables[n] = append(s.drawables[n], i)
	s.owners = append(s.owners, n)
	return i, nil
}

// Deregister removes the drawable at index i from the stores and
// from its node's index list. Indices held by the caller for other
// drawables may be invalidated: the trailing entry is swapped into
// i, and the mapping is repaired accordingly.
func (s *Scene) Deregister(i int) error {
	if i < 0 || i >= len(s.owners) {
		return render.ErrIndex
	}
	n := s.owners[i]
	last := len(s.owners) - 1
	if _, err := s.stores.Remove(i); err != nil {
		return err
	}
	s.dropIndex(n, i)
	if i < last {
		m := s.owners[last]
		s.owners[i] = m
		s.replaceIndex(m, last, i)
	}
	s.owners = s.owners[:last]
	return nil
}

// dropIndex removes index i from n's list.
func (s *Scene) dropIndex(n node.Node, i int) {
	idx := s.drawables[n]
	for x := range idx {
		if idx[x] == i {
			idx = append(idx[:x], idx[x+1:]...)
			break
		}
	}
	if len(idx) == 0 {
		delete(s.drawables, n)
	} else {
		s.drawables[n] = idx
	}
}

// replaceIndex rewrites index from as index to in n's list.
func (s *Scene) replaceIndex(n node.Node, from, to int) {
	idx := s.drawables[n]
	for x := range idx {
		if idx[x] == from {
			idx[x] = to
			return
		}
	}
}

// RemoveNode removes node n and its whole subtree from the graph
// and deregisters every drawable any of those nodes carried.
// Removing nodes through Graph.Remove directly leaves their store
// entries behind; use RemoveNode for nodes with drawables.
func (s *Scene) RemoveNode(n node.Node) error {
	targets := []node.Node{n}
	err := s.graph.ForEach(n, func(d node.Node) {
		targets = append(targets, d)
	})
	if err != nil {
		return err
	}
	if err := s.graph.Remove(n); err != nil {
		return err
	}
	for _, t := range targets {
		for {
			idx := s.drawables[t]
			if len(idx) == 0 {
				break
			}
			s.Deregister(idx[len(idx)-1])
		}
	}
	return nil
}

// Update runs one propagate-then-sync cycle: stale world
// transforms are recomputed, the changed set is written through
// to the stores, and the ledger is cleared. Callers that need
// several propagation passes against one ledger, or several
// ledger consumers, use the graph and render APIs directly.
func (s *Scene) Update() {
	s.graph.Propagate()
	render.Sync(&s.stores, s.graph.Changed(), &s.graph, s)
	s.graph.ClearChanged()
}

// Visible appends the indices of the drawables whose bounds
// intersect the frustum to dst and returns the extended slice.
func (s *Scene) Visible(dst []int, planes *[render.NumPlanes]render.Plane, view *linear.M4) []int {
	return render.Visible(dst, planes, view, s.stores.CullData())
}
