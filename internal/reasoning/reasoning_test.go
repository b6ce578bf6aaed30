package reasoning

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"causeway/internal/effect"
	"causeway/internal/graph"
)

// probe is a test node that records whether it was evaluated and with what
// input, and returns a canned result.
type probe struct {
	name   string
	result func(in *effect.PropagatingEffect) *effect.PropagatingEffect
	called int
	lastIn *effect.PropagatingEffect
}

func (p *probe) Evaluate(in *effect.PropagatingEffect) *effect.PropagatingEffect {
	p.called++
	p.lastIn = in
	if p.result == nil {
		return in
	}
	return p.result(in)
}

func constant(v effect.Value) func(*effect.PropagatingEffect) *effect.PropagatingEffect {
	return func(*effect.PropagatingEffect) *effect.PropagatingEffect { return effect.New(v) }
}

func failing(err error) func(*effect.PropagatingEffect) *effect.PropagatingEffect {
	return func(*effect.PropagatingEffect) *effect.PropagatingEffect { return effect.NewError(err) }
}

// buildChain builds root -> n1 -> n2 -> ... and freezes.
func buildChain(t *testing.T, nodes ...*probe) *graph.Graph[*probe] {
	t.Helper()
	g := graph.New[*probe]()
	prev := -1
	for i, n := range nodes {
		var idx int
		var err error
		if i == 0 {
			idx, err = g.AddRootNode(n)
		} else {
			idx, err = g.AddNode(n)
		}
		require.NoError(t, err)
		if prev >= 0 {
			require.NoError(t, g.AddEdge(prev, idx))
		}
		prev = idx
	}
	g.Freeze()
	return g
}

func TestRequiresFrozenGraph(t *testing.T) {
	g := graph.New[*probe]()
	_, err := g.AddNode(&probe{})
	require.NoError(t, err)

	in := effect.NewDeterministic(true)

	res := EvaluateSingleCause(g, 0, in)
	assert.True(t, errors.Is(res.Err, effect.ErrGraphNotFrozen))

	res = EvaluateSubgraphFromCause(g, 0, in)
	assert.True(t, errors.Is(res.Err, effect.ErrGraphNotFrozen))

	res = EvaluateShortestPathBetweenCauses(g, 0, 1, in)
	assert.True(t, errors.Is(res.Err, effect.ErrGraphNotFrozen))
}

func TestEvaluateSingleCause(t *testing.T) {
	n := &probe{name: "n", result: constant(effect.Probability(0.9))}
	g := buildChain(t, n)

	res := EvaluateSingleCause(g, 0, effect.NewNumerical(3))
	require.False(t, res.IsErr())
	assert.Equal(t, effect.Probability(0.9), res.Value)
	assert.Equal(t, 1, n.called)
	assert.Equal(t, effect.Numerical(3), n.lastIn.Value)

	// Missing node: NodeNotFound with the input's logs unchanged.
	in := effect.NewNumerical(3).Logged(0, "seed")
	res = EvaluateSingleCause(g, 7, in)
	assert.True(t, errors.Is(res.Err, effect.ErrNodeNotFound))
	assert.Equal(t, in.Logs, res.Logs)
}

func TestSubgraphPropagatesBreadthFirst(t *testing.T) {
	root := &probe{name: "root"}
	a := &probe{name: "a"}
	b := &probe{name: "b"}
	g := buildChain(t, root, a, b)

	res := EvaluateSubgraphFromCause(g, 0, effect.NewDeterministic(true))
	require.False(t, res.IsErr())
	assert.Equal(t, 1, root.called)
	assert.Equal(t, 1, a.called)
	assert.Equal(t, 1, b.called)
	assert.Equal(t, effect.Deterministic(true), res.Value)
}

func TestAdaptiveRelayRedirection(t *testing.T) {
	// root -> A -> B where root relays straight to B: A is never visited
	// and B is evaluated with the relay's inner effect.
	effectX := effect.NewProbability(0.77)
	root := &probe{name: "root", result: func(*effect.PropagatingEffect) *effect.PropagatingEffect {
		return effect.NewRelayTo(2, effectX)
	}}
	a := &probe{name: "a"}
	b := &probe{name: "b", result: constant(effect.Deterministic(true))}
	g := buildChain(t, root, a, b)

	res := EvaluateSubgraphFromCause(g, 0, effect.NewNone())
	require.False(t, res.IsErr())
	assert.Equal(t, 0, a.called, "relay must bypass the normal successor set")
	assert.Equal(t, 1, b.called)
	assert.Same(t, effectX, b.lastIn)
	assert.Equal(t, effect.Deterministic(true), res.Value)
}

func TestRelayTargetNotFound(t *testing.T) {
	root := &probe{result: func(*effect.PropagatingEffect) *effect.PropagatingEffect {
		return effect.NewRelayTo(42, effect.NewNone())
	}}
	g := buildChain(t, root, &probe{})

	res := EvaluateSubgraphFromCause(g, 0, effect.NewNone())
	assert.True(t, errors.Is(res.Err, effect.ErrRelayTargetNotFound))
}

func TestRelayToVisitedNodeEndsWalk(t *testing.T) {
	// Relaying back to an already-visited node terminates: the queue was
	// cleared and the target is not re-enqueued.
	root := &probe{}
	a := &probe{result: func(*effect.PropagatingEffect) *effect.PropagatingEffect {
		return effect.NewRelayTo(0, effect.NewNone())
	}}
	g := buildChain(t, root, a)

	res := EvaluateSubgraphFromCause(g, 0, effect.NewDeterministic(true))
	require.False(t, res.IsErr())
	assert.Equal(t, 1, root.called)
	assert.True(t, res.IsRelay(), "last successful effect was the relay itself")
}

func TestErrorAbortsTraversal(t *testing.T) {
	boom := errors.New("sensor offline")
	root := &probe{}
	a := &probe{result: failing(boom)}
	b := &probe{}
	g := buildChain(t, root, a, b)

	res := EvaluateSubgraphFromCause(g, 0, effect.NewDeterministic(true))
	require.True(t, res.IsErr())
	assert.True(t, errors.Is(res.Err, boom))
	assert.Equal(t, 0, b.called, "nodes after the failure must not run")
}

func TestDeterministicFalseDoesNotPrune(t *testing.T) {
	root := &probe{}
	a := &probe{result: constant(effect.Deterministic(false))}
	b := &probe{}
	g := buildChain(t, root, a, b)

	res := EvaluateSubgraphFromCause(g, 0, effect.NewDeterministic(true))
	require.False(t, res.IsErr())
	assert.Equal(t, 1, b.called, "a falsy result still propagates to children")
	assert.Equal(t, effect.Deterministic(false), b.lastIn.Value)
	assert.Equal(t, effect.Deterministic(false), res.Value)
}

func TestSubgraphFanOutSharesEffect(t *testing.T) {
	// root with two children: both receive root's result, and the result
	// of the walk is the last evaluated node's effect.
	g := graph.New[*probe]()
	root := &probe{result: constant(effect.Numerical(5))}
	left := &probe{}
	right := &probe{}
	rootIdx, err := g.AddRootNode(root)
	require.NoError(t, err)
	l, err := g.AddNode(left)
	require.NoError(t, err)
	r, err := g.AddNode(right)
	require.NoError(t, err)
	require.NoError(t, g.AddEdge(rootIdx, l))
	require.NoError(t, g.AddEdge(rootIdx, r))
	g.Freeze()

	res := EvaluateSubgraphFromCause(g, rootIdx, effect.NewNone())
	require.False(t, res.IsErr())
	assert.Equal(t, effect.Numerical(5), left.lastIn.Value)
	assert.Equal(t, effect.Numerical(5), right.lastIn.Value)
	assert.Equal(t, effect.Numerical(5), res.Value)
}

func TestSubgraphMissingStart(t *testing.T) {
	g := buildChain(t, &probe{})
	res := EvaluateSubgraphFromCause(g, 12, effect.NewNone())
	assert.True(t, errors.Is(res.Err, effect.ErrNodeNotFound))
}

func TestFixedPathEvaluation(t *testing.T) {
	start := &probe{result: constant(effect.Numerical(1))}
	mid := &probe{result: constant(effect.Numerical(2))}
	stop := &probe{result: constant(effect.Numerical(3))}
	g := buildChain(t, start, mid, stop)

	res := EvaluateShortestPathBetweenCauses(g, 0, 2, effect.NewNone())
	require.False(t, res.IsErr())
	assert.Equal(t, effect.Numerical(3), res.Value)
	assert.Equal(t, effect.Numerical(1), mid.lastIn.Value)
	assert.Equal(t, effect.Numerical(2), stop.lastIn.Value)
}

func TestFixedPathRelayInterruption(t *testing.T) {
	start := &probe{}
	relayEffect := effect.NewRelayTo(0, effect.NewNone())
	mid := &probe{result: func(*effect.PropagatingEffect) *effect.PropagatingEffect {
		return relayEffect
	}}
	stop := &probe{}
	g := buildChain(t, start, mid, stop)

	res := EvaluateShortestPathBetweenCauses(g, 0, 2, effect.NewDeterministic(true))
	require.False(t, res.IsErr())
	assert.True(t, res.IsRelay(), "relay on a fixed path is returned, not followed")
	assert.Same(t, relayEffect, res)
	assert.Equal(t, 0, stop.called, "stop must not be evaluated after the relay")
}

func TestFixedPathErrorAborts(t *testing.T) {
	boom := errors.New("bad reading")
	start := &probe{}
	mid := &probe{result: failing(boom)}
	stop := &probe{}
	g := buildChain(t, start, mid, stop)

	res := EvaluateShortestPathBetweenCauses(g, 0, 2, effect.NewNone())
	require.True(t, res.IsErr())
	assert.True(t, errors.Is(res.Err, boom))
	assert.Equal(t, 0, stop.called)
}

func TestFixedPathSameStartStop(t *testing.T) {
	only := &probe{result: constant(effect.Deterministic(true))}
	g := buildChain(t, only, &probe{})

	res := EvaluateShortestPathBetweenCauses(g, 0, 0, effect.NewNone())
	require.False(t, res.IsErr())
	assert.Equal(t, 1, only.called)
	assert.Equal(t, effect.Deterministic(true), res.Value)
}

func TestFixedPathUnreachable(t *testing.T) {
	a := &probe{}
	b := &probe{}
	g := graph.New[*probe]()
	_, err := g.AddNode(a)
	require.NoError(t, err)
	_, err = g.AddNode(b)
	require.NoError(t, err)
	g.Freeze()

	res := EvaluateShortestPathBetweenCauses(g, 0, 1, effect.NewNone())
	assert.True(t, errors.Is(res.Err, effect.ErrPathNotFound))
	assert.Equal(t, 0, a.called)
	assert.Equal(t, 0, b.called)
}
