package graph

import "causeway/internal/effect"

// frozen is the immutable traversal form in Compressed-Sparse-Row layout:
// a dense payload array, row offsets of length nodes+1, column indices
// sorted ascending per row, and an optional parallel weight array. It is
// produced only by freeze and never mutated.
type frozen[T any] struct {
	payloads   []T
	rowOffsets []int
	colIndices []int
	weights    []float64 // nil when the graph is unweighted
	root       int       // -1 when absent
}

func (f *frozen[T]) numberNodes() int { return len(f.payloads) }

func (f *frozen[T]) numberEdges() int { return len(f.colIndices) }

func (f *frozen[T]) containsNode(idx int) bool {
	return idx >= 0 && idx < len(f.payloads)
}

func (f *frozen[T]) node(idx int) (T, error) {
	if !f.containsNode(idx) {
		var zero T
		return zero, effect.NodeNotFoundErr(idx)
	}
	return f.payloads[idx], nil
}

// successors returns the adjacency row for idx. The returned slice aliases
// the CSR storage and must not be modified.
func (f *frozen[T]) successors(idx int) ([]int, error) {
	if !f.containsNode(idx) {
		return nil, effect.NodeNotFoundErr(idx)
	}
	return f.colIndices[f.rowOffsets[idx]:f.rowOffsets[idx+1]], nil
}

// rowWeights returns the weight row for idx, nil when unweighted.
func (f *frozen[T]) rowWeights(idx int) ([]float64, error) {
	if !f.containsNode(idx) {
		return nil, effect.NodeNotFoundErr(idx)
	}
	if f.weights == nil {
		return nil, nil
	}
	return f.weights[f.rowOffsets[idx]:f.rowOffsets[idx+1]], nil
}

func (f *frozen[T]) containsEdge(src, dst int) bool {
	row, err := f.successors(src)
	if err != nil {
		return false
	}
	// Rows are sorted ascending; binary search.
	lo, hi := 0, len(row)
	for lo < hi {
		mid := (lo + hi) / 2
		if row[mid] < dst {
			lo = mid + 1
		} else {
			hi = mid
		}
	}
	return lo < len(row) && row[lo] == dst
}

// shortestPath returns one shortest path by edge count from start to stop
// over the CSR adjacency, inclusive of both endpoints. Successors are
// visited in ascending index order (the row order), so ties resolve toward
// lower-indexed paths.
func (f *frozen[T]) shortestPath(start, stop int) ([]int, error) {
	if !f.containsNode(start) {
		return nil, effect.NodeNotFoundErr(start)
	}
	if !f.containsNode(stop) {
		return nil, effect.NodeNotFoundErr(stop)
	}
	if start == stop {
		return []int{start}, nil
	}

	prev := make([]int, len(f.payloads))
	for i := range prev {
		prev[i] = -1
	}
	prev[start] = start

	queue := []int{start}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		row := f.colIndices[f.rowOffsets[cur]:f.rowOffsets[cur+1]]
		for _, next := range row {
			if prev[next] != -1 {
				continue
			}
			prev[next] = cur
			if next == stop {
				return assemblePath(prev, start, stop), nil
			}
			queue = append(queue, next)
		}
	}
	return nil, effect.PathNotFoundErr(start, stop)
}

func assemblePath(prev []int, start, stop int) []int {
	var rev []int
	for at := stop; at != start; at = prev[at] {
		rev = append(rev, at)
	}
	rev = append(rev, start)
	for i, j := 0, len(rev)-1; i < j; i, j = i+1, j-1 {
		rev[i], rev[j] = rev[j], rev[i]
	}
	return rev
}
