// Package reasoning walks a frozen causal graph, threading a
// PropagatingEffect from node to node. Three entry points exist: single-node
// evaluation, adaptive breadth-first subgraph propagation (which a node may
// redirect mid-walk with a RelayTo effect), and fixed-path evaluation along
// one shortest path.
//
// All three require the graph to be frozen; the engine is synchronous,
// deterministic, and performs no internal synchronization.
package reasoning

import (
	"causeway/internal/effect"
	"causeway/internal/graph"
	"causeway/internal/logging"
)

// Evaluator is the monadic evaluate capability every node payload must
// implement. Evaluate must not mutate its input; failures travel in the
// returned effect's Err field.
type Evaluator interface {
	Evaluate(in *effect.PropagatingEffect) *effect.PropagatingEffect
}

// workItem pairs a node index with the effect it will be evaluated with.
type workItem struct {
	index int
	in    *effect.PropagatingEffect
}

// EvaluateSingleCause evaluates the node at index with the given effect and
// returns its result verbatim. A missing node yields ErrNodeNotFound
// carrying the input's logs unchanged.
func EvaluateSingleCause[T Evaluator](g *graph.Graph[T], index int, in *effect.PropagatingEffect) *effect.PropagatingEffect {
	if !g.IsFrozen() {
		return in.WithErr(effect.ErrGraphNotFrozen)
	}
	node, err := g.GetNode(index)
	if err != nil {
		return in.WithErr(effect.NodeNotFoundErr(index))
	}
	return node.Evaluate(in)
}

// EvaluateSubgraphFromCause propagates breadth-first from start. Each node
// is evaluated with its incoming effect; its result becomes the input of
// its unvisited successors. A result carrying an error aborts the whole
// walk; a RelayTo result clears all pending work and continues at the relay
// target alone with the relay's inner effect. A falsy deterministic result
// does not prune: only errors stop propagation early.
//
// The return value is the effect of the last node successfully evaluated,
// initialized to the caller's initial effect.
func EvaluateSubgraphFromCause[T Evaluator](g *graph.Graph[T], start int, initial *effect.PropagatingEffect) *effect.PropagatingEffect {
	if !g.IsFrozen() {
		return initial.WithErr(effect.ErrGraphNotFrozen)
	}
	if !g.ContainsNode(start) {
		return initial.WithErr(effect.NodeNotFoundErr(start))
	}

	visited := make([]bool, g.NumberNodes())
	visited[start] = true

	queue := []workItem{{index: start, in: initial}}
	last := initial

	for len(queue) > 0 {
		item := queue[0]
		queue = queue[1:]

		node, err := g.GetNode(item.index)
		if err != nil {
			return last.WithErr(effect.NodeNotFoundErr(item.index))
		}

		res := node.Evaluate(item.in)
		if res.IsErr() {
			logging.ReasoningDebug("subgraph walk aborted at node %d: %v", item.index, res.Err)
			return res
		}
		last = res

		if relay, ok := res.Relay(); ok {
			// Dynamic jump: the deciding node redirects the entire
			// remaining walk, discarding the normal successor set.
			if !g.ContainsNode(relay.Target) {
				return res.WithErr(effect.RelayTargetNotFoundErr(relay.Target))
			}
			logging.ReasoningDebug("node %d relays to %d", item.index, relay.Target)
			queue = queue[:0]
			if !visited[relay.Target] {
				visited[relay.Target] = true
				queue = append(queue, workItem{index: relay.Target, in: relay.Inner})
			}
			continue
		}

		successors, err := g.GetEdges(item.index)
		if err != nil {
			return last.WithErr(err)
		}
		for _, next := range successors {
			if visited[next] {
				continue
			}
			visited[next] = true
			queue = append(queue, workItem{index: next, in: res})
		}
	}
	return last
}

// EvaluateShortestPathBetweenCauses evaluates every node on one shortest
// path (by edge count) from start to stop, threading the effect forward.
// start == stop bypasses path search and evaluates that single node. An
// error at any step aborts immediately. A RelayTo produced on the path is
// not followed: the fixed-path contract assumes no redirection, so the
// relay effect is returned to the caller as-is.
func EvaluateShortestPathBetweenCauses[T Evaluator](g *graph.Graph[T], start, stop int, initial *effect.PropagatingEffect) *effect.PropagatingEffect {
	if !g.IsFrozen() {
		return initial.WithErr(effect.ErrGraphNotFrozen)
	}
	if start == stop {
		return EvaluateSingleCause(g, start, initial)
	}

	path, err := g.ShortestPath(start, stop)
	if err != nil {
		return initial.WithErr(err)
	}
	logging.ReasoningDebug("fixed-path walk %d -> %d over %d nodes", start, stop, len(path))

	current := initial
	for _, idx := range path {
		node, err := g.GetNode(idx)
		if err != nil {
			return current.WithErr(effect.NodeNotFoundErr(idx))
		}
		res := node.Evaluate(current)
		if res.IsErr() {
			return res
		}
		if res.IsRelay() {
			return res
		}
		current = res
	}
	return current
}
