package graph

import "causeway/internal/effect"

// slot is one node position in the dynamic form. A tombstoned slot keeps its
// position so that live siblings keep their indices until the next freeze.
type slot[T any] struct {
	payload T
	live    bool
}

// edge is one directed edge in the dynamic form. Parallel edges and
// self-loops are allowed; an edge may reference a tombstoned node.
type edge struct {
	src    int
	dst    int
	weight float64
}

// dynamic is the mutable construction form: an ordered slot list with
// tombstones, an ordered edge list, and an optional root index.
type dynamic[T any] struct {
	slots    []slot[T]
	edges    []edge
	root     int // -1 when absent
	live     int
	weighted bool
}

func newDynamic[T any](weighted bool) *dynamic[T] {
	return &dynamic[T]{root: -1, weighted: weighted}
}

// inRange reports whether idx names an existing slot, live or tombstoned.
func (d *dynamic[T]) inRange(idx int) bool {
	return idx >= 0 && idx < len(d.slots)
}

// isLive reports whether idx names a live node.
func (d *dynamic[T]) isLive(idx int) bool {
	return d.inRange(idx) && d.slots[idx].live
}

func (d *dynamic[T]) addNode(payload T) int {
	d.slots = append(d.slots, slot[T]{payload: payload, live: true})
	d.live++
	return len(d.slots) - 1
}

func (d *dynamic[T]) updateNode(idx int, payload T) error {
	if !d.isLive(idx) {
		return effect.NodeNotFoundErr(idx)
	}
	d.slots[idx].payload = payload
	return nil
}

// removeNode tombstones the slot. It does not renumber surviving nodes and
// does not touch edges; edges referencing the tombstone become unreachable
// on traversal and are dropped by the next freeze.
func (d *dynamic[T]) removeNode(idx int) error {
	if !d.isLive(idx) {
		return effect.NodeNotFoundErr(idx)
	}
	var zero T
	d.slots[idx] = slot[T]{payload: zero, live: false}
	d.live--
	if d.root == idx {
		d.root = -1
	}
	return nil
}

func (d *dynamic[T]) addEdge(src, dst int, weight float64) error {
	if !d.inRange(src) {
		return effect.NodeNotFoundErr(src)
	}
	if !d.inRange(dst) {
		return effect.NodeNotFoundErr(dst)
	}
	d.edges = append(d.edges, edge{src: src, dst: dst, weight: weight})
	return nil
}

// removeEdge removes one occurrence of (src, dst). With parallel edges the
// first occurrence in insertion order goes.
func (d *dynamic[T]) removeEdge(src, dst int) error {
	for i, e := range d.edges {
		if e.src == src && e.dst == dst {
			d.edges = append(d.edges[:i], d.edges[i+1:]...)
			return nil
		}
	}
	return effect.ErrEdgeNotFound
}

func (d *dynamic[T]) containsEdge(src, dst int) bool {
	for _, e := range d.edges {
		if e.src == src && e.dst == dst {
			return true
		}
	}
	return false
}

// successors returns the targets of all edges leaving idx, in insertion
// order, including edges into tombstoned nodes.
func (d *dynamic[T]) successors(idx int) []int {
	var out []int
	for _, e := range d.edges {
		if e.src == idx {
			out = append(out, e.dst)
		}
	}
	return out
}
