// Package causaloid provides the evaluable node payload of a causal graph.
// A causaloid is exactly one of three forms: a singleton wrapping a causal
// function (optionally context-aware), a collection of causaloids reduced
// under quantifier logic, or an embedded frozen causal graph evaluated by
// the reasoning engine.
package causaloid

import (
	"sync/atomic"

	"github.com/google/uuid"

	"causeway/internal/aggregate"
	"causeway/internal/effect"
	"causeway/internal/graph"
	"causeway/internal/reasoning"
)

// Fn is a pure causal function: it receives the incoming effect and returns
// a new one. It must not mutate its input.
type Fn func(in *effect.PropagatingEffect) (*effect.PropagatingEffect, error)

// ContextualFn is a causal function with access to an attached context
// object (owned by the caller, opaque to the engine).
type ContextualFn func(ctx any, in *effect.PropagatingEffect) (*effect.PropagatingEffect, error)

type kind int

const (
	kindSingleton kind = iota
	kindCollection
	kindGraph
)

// Causaloid is a polymorphic evaluable unit. The three forms are mutually
// exclusive; Evaluate dispatches to the matching one.
type Causaloid struct {
	id          uuid.UUID
	description string
	kind        kind

	// Singleton form.
	fn      Fn
	context any
	ctxFn   ContextualFn

	// Collection form.
	members   []*Causaloid
	logic     aggregate.Logic
	threshold *float64

	// Graph form.
	graph *graph.Graph[*Causaloid]

	// active caches the boolean interpretation of the last evaluation for
	// explanation. It is set, never read for control flow. Atomic because
	// a frozen graph may be traversed concurrently by readers.
	active atomic.Bool
}

// NewSingleton creates a causaloid wrapping a pure causal function.
func NewSingleton(description string, fn Fn) *Causaloid {
	return &Causaloid{
		id:          uuid.New(),
		description: description,
		kind:        kindSingleton,
		fn:          fn,
	}
}

// NewContextual creates a singleton causaloid whose function sees ctx on
// every evaluation.
func NewContextual(description string, ctx any, fn ContextualFn) *Causaloid {
	return &Causaloid{
		id:          uuid.New(),
		description: description,
		kind:        kindSingleton,
		context:     ctx,
		ctxFn:       fn,
	}
}

// NewCollection creates a causaloid that evaluates every member with the
// incoming effect and reduces the results under logic. threshold feeds
// threshold-based aggregation and may be nil when none applies.
func NewCollection(description string, logic aggregate.Logic, threshold *float64, members ...*Causaloid) *Causaloid {
	return &Causaloid{
		id:          uuid.New(),
		description: description,
		kind:        kindCollection,
		members:     members,
		logic:       logic,
		threshold:   threshold,
	}
}

// NewGraph creates a causaloid embedding a causal graph. The graph must be
// frozen and have a root before evaluation.
func NewGraph(description string, g *graph.Graph[*Causaloid]) *Causaloid {
	return &Causaloid{
		id:          uuid.New(),
		description: description,
		kind:        kindGraph,
		graph:       g,
	}
}

// ID returns the causaloid's identity.
func (c *Causaloid) ID() uuid.UUID { return c.id }

// Description returns the human-readable description.
func (c *Causaloid) Description() string { return c.description }

// IsActive reports the cached boolean interpretation of the last
// evaluation. Explanation only; never drives control flow.
func (c *Causaloid) IsActive() bool { return c.active.Load() }

// Evaluate runs the causaloid against the incoming effect and returns a new
// effect. Failures travel in the result's Err field.
func (c *Causaloid) Evaluate(in *effect.PropagatingEffect) *effect.PropagatingEffect {
	var res *effect.PropagatingEffect
	switch c.kind {
	case kindCollection:
		res = c.evaluateCollection(in)
	case kindGraph:
		res = c.evaluateGraph(in)
	default:
		res = c.evaluateSingleton(in)
	}
	if !res.IsErr() {
		c.active.Store(truthy(res.Value))
	}
	return res
}

func (c *Causaloid) evaluateSingleton(in *effect.PropagatingEffect) *effect.PropagatingEffect {
	var out *effect.PropagatingEffect
	var err error
	if c.ctxFn != nil {
		out, err = c.ctxFn(c.context, in)
	} else {
		out, err = c.fn(in)
	}
	if err != nil {
		return in.WithErr(err)
	}
	if out == nil {
		out = effect.NewNone()
	}
	return out
}

func (c *Causaloid) evaluateCollection(in *effect.PropagatingEffect) *effect.PropagatingEffect {
	values := make([]effect.Value, 0, len(c.members))
	for _, m := range c.members {
		res := m.Evaluate(in)
		if res.IsErr() {
			return res
		}
		if res.IsRelay() {
			// A relay is a control token; feeding it into aggregation is
			// a programming error.
			return res.WithErr(effect.UnsupportedTypeErr(res.Value))
		}
		values = append(values, res.Value)
	}
	agg, err := aggregate.Aggregate(values, c.logic, c.threshold)
	if err != nil {
		return in.WithErr(err)
	}
	return effect.New(agg)
}

func (c *Causaloid) evaluateGraph(in *effect.PropagatingEffect) *effect.PropagatingEffect {
	if !c.graph.IsFrozen() {
		return in.WithErr(effect.ErrGraphNotFrozen)
	}
	root, ok := c.graph.GetRootIndex()
	if !ok {
		return in.WithErr(effect.NodeNotFoundErr(-1))
	}
	return reasoning.EvaluateSubgraphFromCause(c.graph, root, in)
}

// truthy is the boolean interpretation backing the active flag.
func truthy(v effect.Value) bool {
	switch x := v.(type) {
	case effect.Deterministic:
		return bool(x)
	case effect.Probability:
		return float64(x) > 0.5
	case effect.Numerical:
		return float64(x) != 0
	case effect.Typed:
		if x.Kind == effect.NumericInt {
			return x.Int != 0
		}
		return x.Float != 0
	case effect.UncertainBool:
		p, err := x.Sampler.Probability()
		return err == nil && p > 0.5
	default:
		return false
	}
}
