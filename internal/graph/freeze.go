package graph

import "sort"

// DefaultRadixSortThreshold is the row fan-out at which freeze switches from
// a comparison sort to a linear-time radix sort. Empirically chosen; tunable
// through Graph.SetRadixSortThreshold or config.
const DefaultRadixSortThreshold = 128

// freeze converts the dynamic form into CSR. Tombstoned slots are dropped
// and surviving nodes are renumbered densely in original order (stable
// remap); edges touching a tombstoned endpoint are dropped silently; edge
// multiplicity and self-loops survive. Returns the frozen form and the
// old-index -> new-index remap table, -1 for dropped slots.
func freeze[T any](d *dynamic[T], radixThreshold int) (*frozen[T], []int) {
	remap := make([]int, len(d.slots))
	payloads := make([]T, 0, d.live)
	for i, s := range d.slots {
		if !s.live {
			remap[i] = -1
			continue
		}
		remap[i] = len(payloads)
		payloads = append(payloads, s.payload)
	}

	n := len(payloads)
	f := &frozen[T]{
		payloads:   payloads,
		rowOffsets: make([]int, n+1),
		root:       -1,
	}

	// Count surviving out-degrees, then prefix-sum into row offsets.
	counts := make([]int, n)
	surviving := 0
	for _, e := range d.edges {
		if remap[e.src] < 0 || remap[e.dst] < 0 {
			continue
		}
		counts[remap[e.src]]++
		surviving++
	}
	for i := 0; i < n; i++ {
		f.rowOffsets[i+1] = f.rowOffsets[i] + counts[i]
	}

	f.colIndices = make([]int, surviving)
	if d.weighted {
		f.weights = make([]float64, surviving)
	}

	// Scatter edges into their rows.
	cursor := make([]int, n)
	copy(cursor, f.rowOffsets[:n])
	for _, e := range d.edges {
		src, dst := remap[e.src], remap[e.dst]
		if src < 0 || dst < 0 {
			continue
		}
		f.colIndices[cursor[src]] = dst
		if d.weighted {
			f.weights[cursor[src]] = e.weight
		}
		cursor[src]++
	}

	// Sort each row ascending, carrying weights along. Hub rows at or above
	// the threshold take the radix path to bound worst-case cost.
	for i := 0; i < n; i++ {
		lo, hi := f.rowOffsets[i], f.rowOffsets[i+1]
		row := f.colIndices[lo:hi]
		var w []float64
		if d.weighted {
			w = f.weights[lo:hi]
		}
		if len(row) < radixThreshold {
			sortRow(row, w)
		} else {
			radixSortRow(row, w, n)
		}
	}

	if d.root >= 0 && remap[d.root] >= 0 {
		f.root = remap[d.root]
	}
	return f, remap
}

// unfreeze converts CSR back into the dynamic form: every row becomes a live
// node in the same order, every column entry one edge. The root needs no
// remapping since the frozen form has no tombstones.
func unfreeze[T any](f *frozen[T], weighted bool) *dynamic[T] {
	d := newDynamic[T](weighted)
	d.slots = make([]slot[T], len(f.payloads))
	for i, p := range f.payloads {
		d.slots[i] = slot[T]{payload: p, live: true}
	}
	d.live = len(f.payloads)
	d.root = f.root

	d.edges = make([]edge, 0, len(f.colIndices))
	for src := 0; src < len(f.payloads); src++ {
		for k := f.rowOffsets[src]; k < f.rowOffsets[src+1]; k++ {
			e := edge{src: src, dst: f.colIndices[k]}
			if f.weights != nil {
				e.weight = f.weights[k]
			}
			d.edges = append(d.edges, e)
		}
	}
	return d
}

// sortRow is the comparison path for rows below the radix threshold.
func sortRow(row []int, weights []float64) {
	if weights == nil {
		sort.Ints(row)
		return
	}
	sort.Sort(&pairedRow{cols: row, weights: weights})
}

type pairedRow struct {
	cols    []int
	weights []float64
}

func (p *pairedRow) Len() int           { return len(p.cols) }
func (p *pairedRow) Less(i, j int) bool { return p.cols[i] < p.cols[j] }
func (p *pairedRow) Swap(i, j int) {
	p.cols[i], p.cols[j] = p.cols[j], p.cols[i]
	p.weights[i], p.weights[j] = p.weights[j], p.weights[i]
}

// radixSortRow sorts row ascending with an LSD radix sort over 8-bit digits.
// Keys are node indices in [0, max), so the pass count is bounded by the
// index domain, not the row length.
func radixSortRow(row []int, weights []float64, max int) {
	tmpCols := make([]int, len(row))
	var tmpWeights []float64
	if weights != nil {
		tmpWeights = make([]float64, len(weights))
	}

	for shift := 0; max > (1 << shift); shift += 8 {
		var count [257]int
		for _, c := range row {
			count[((c>>shift)&0xff)+1]++
		}
		for i := 1; i < 257; i++ {
			count[i] += count[i-1]
		}
		for k, c := range row {
			digit := (c >> shift) & 0xff
			tmpCols[count[digit]] = c
			if weights != nil {
				tmpWeights[count[digit]] = weights[k]
			}
			count[digit]++
		}
		copy(row, tmpCols)
		if weights != nil {
			copy(weights, tmpWeights)
		}
	}
}
