// Package graph provides the dual-representation causal graph store: a
// mutable, tombstone-tolerant construction form and an immutable,
// cache-friendly CSR traversal form, switched by Freeze and Unfreeze. The
// store is generic over the node payload; reasoning wires causaloids in.
//
// A frozen graph is logically immutable and safe to share for concurrent
// read-only traversal. The engine performs no internal synchronization;
// callers own exclusivity during mutation and during Freeze/Unfreeze.
package graph

import (
	"causeway/internal/effect"
	"causeway/internal/logging"
)

// Graph holds exactly one of the two representations. Mutation methods work
// only while unfrozen; traversal only while frozen; reads work in either
// mode as applicable.
type Graph[T any] struct {
	dyn            *dynamic[T]
	frz            *frozen[T]
	weighted       bool
	radixThreshold int
}

// New creates an empty unweighted graph in the unfrozen state.
func New[T any]() *Graph[T] {
	return &Graph[T]{
		dyn:            newDynamic[T](false),
		radixThreshold: DefaultRadixSortThreshold,
	}
}

// NewWeighted creates an empty weighted graph in the unfrozen state. Its
// frozen form carries a weight array parallel to the column indices.
func NewWeighted[T any]() *Graph[T] {
	return &Graph[T]{
		dyn:            newDynamic[T](true),
		weighted:       true,
		radixThreshold: DefaultRadixSortThreshold,
	}
}

// SetRadixSortThreshold tunes the row fan-out at which freeze switches to
// the radix sort. Values below 1 reset to the default. Takes effect at the
// next freeze.
func (g *Graph[T]) SetRadixSortThreshold(n int) {
	if n < 1 {
		n = DefaultRadixSortThreshold
	}
	g.radixThreshold = n
}

// IsFrozen reports whether the CSR representation is active.
func (g *Graph[T]) IsFrozen() bool { return g.frz != nil }

// Freeze converts the graph to its immutable CSR form and returns the
// old-index -> new-index remap table (-1 for tombstoned slots). Freezing an
// already-frozen graph is an idempotent no-op returning nil.
func (g *Graph[T]) Freeze() []int {
	if g.frz != nil {
		return nil
	}
	frz, remap := freeze(g.dyn, g.radixThreshold)
	g.frz = frz
	g.dyn = nil
	logging.GraphDebug("freeze: %d nodes, %d edges, root=%d", frz.numberNodes(), frz.numberEdges(), frz.root)
	return remap
}

// Unfreeze converts the graph back to its mutable form. Unfreezing an
// already-unfrozen graph is a no-op.
func (g *Graph[T]) Unfreeze() {
	if g.dyn != nil {
		return
	}
	g.dyn = unfreeze(g.frz, g.weighted)
	g.frz = nil
	logging.GraphDebug("unfreeze: %d nodes, %d edges", g.dyn.live, len(g.dyn.edges))
}

// AddNode appends a live node and returns its index.
func (g *Graph[T]) AddNode(payload T) (int, error) {
	if g.frz != nil {
		return 0, effect.ErrGraphFrozen
	}
	return g.dyn.addNode(payload), nil
}

// AddRootNode appends a live node and marks it as the distinguished root.
func (g *Graph[T]) AddRootNode(payload T) (int, error) {
	if g.frz != nil {
		return 0, effect.ErrGraphFrozen
	}
	idx := g.dyn.addNode(payload)
	g.dyn.root = idx
	return idx, nil
}

// UpdateNode replaces the payload at idx.
func (g *Graph[T]) UpdateNode(idx int, payload T) error {
	if g.frz != nil {
		return effect.ErrGraphFrozen
	}
	return g.dyn.updateNode(idx, payload)
}

// RemoveNode tombstones the node at idx. Indices of untouched siblings are
// preserved until the next freeze; edges referencing the tombstone stay in
// place and are dropped by freeze.
func (g *Graph[T]) RemoveNode(idx int) error {
	if g.frz != nil {
		return effect.ErrGraphFrozen
	}
	return g.dyn.removeNode(idx)
}

// AddEdge inserts a directed edge. Parallel edges and self-loops are
// permitted, and either endpoint may be a tombstoned slot.
func (g *Graph[T]) AddEdge(src, dst int) error {
	if g.frz != nil {
		return effect.ErrGraphFrozen
	}
	return g.dyn.addEdge(src, dst, 0)
}

// AddWeightedEdge inserts a directed edge carrying a weight.
func (g *Graph[T]) AddWeightedEdge(src, dst int, weight float64) error {
	if g.frz != nil {
		return effect.ErrGraphFrozen
	}
	return g.dyn.addEdge(src, dst, weight)
}

// RemoveEdge removes one occurrence of (src, dst).
func (g *Graph[T]) RemoveEdge(src, dst int) error {
	if g.frz != nil {
		return effect.ErrGraphFrozen
	}
	return g.dyn.removeEdge(src, dst)
}

// ContainsNode reports whether idx names a live node.
func (g *Graph[T]) ContainsNode(idx int) bool {
	if g.frz != nil {
		return g.frz.containsNode(idx)
	}
	return g.dyn.isLive(idx)
}

// GetNode returns the payload at idx.
func (g *Graph[T]) GetNode(idx int) (T, error) {
	if g.frz != nil {
		return g.frz.node(idx)
	}
	if !g.dyn.isLive(idx) {
		var zero T
		return zero, effect.NodeNotFoundErr(idx)
	}
	return g.dyn.slots[idx].payload, nil
}

// ContainsEdge reports whether at least one (src, dst) edge exists.
func (g *Graph[T]) ContainsEdge(src, dst int) bool {
	if g.frz != nil {
		return g.frz.containsEdge(src, dst)
	}
	return g.dyn.containsEdge(src, dst)
}

// GetEdges returns the successor indices of idx. In the frozen form the
// result is the sorted CSR row and must be treated as read-only; in the
// mutable form it is a fresh slice in edge insertion order.
func (g *Graph[T]) GetEdges(idx int) ([]int, error) {
	if g.frz != nil {
		return g.frz.successors(idx)
	}
	if !g.dyn.inRange(idx) {
		return nil, effect.NodeNotFoundErr(idx)
	}
	return g.dyn.successors(idx), nil
}

// GetEdgeWeights returns the weight row parallel to GetEdges for a weighted
// frozen graph, nil for an unweighted one.
func (g *Graph[T]) GetEdgeWeights(idx int) ([]float64, error) {
	if g.frz == nil {
		return nil, effect.ErrGraphNotFrozen
	}
	return g.frz.rowWeights(idx)
}

// NumberNodes returns the live node count.
func (g *Graph[T]) NumberNodes() int {
	if g.frz != nil {
		return g.frz.numberNodes()
	}
	return g.dyn.live
}

// NumberEdges returns the edge count. In the mutable form edges touching
// tombstones still count; they disappear at the next freeze.
func (g *Graph[T]) NumberEdges() int {
	if g.frz != nil {
		return g.frz.numberEdges()
	}
	return len(g.dyn.edges)
}

// ContainsRootNode reports whether a root is set and live.
func (g *Graph[T]) ContainsRootNode() bool {
	if g.frz != nil {
		return g.frz.root >= 0
	}
	return g.dyn.root >= 0
}

// GetRootIndex returns the root index and whether one is set.
func (g *Graph[T]) GetRootIndex() (int, bool) {
	if g.frz != nil {
		return g.frz.root, g.frz.root >= 0
	}
	return g.dyn.root, g.dyn.root >= 0
}

// GetRootNode returns the root payload.
func (g *Graph[T]) GetRootNode() (T, error) {
	idx, ok := g.GetRootIndex()
	if !ok {
		var zero T
		return zero, effect.NodeNotFoundErr(-1)
	}
	return g.GetNode(idx)
}

// ShortestPath returns one shortest path by edge count between two nodes of
// a frozen graph, inclusive of both endpoints.
func (g *Graph[T]) ShortestPath(start, stop int) ([]int, error) {
	if g.frz == nil {
		return nil, effect.ErrGraphNotFrozen
	}
	return g.frz.shortestPath(start, stop)
}
