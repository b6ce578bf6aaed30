// Package aggregate reduces a collection of effect values to one under a
// quantifier (All/Any/None/Some(k)). The strategy is picked from the payload
// types present, preferring the most information-preserving interpretation:
// uncertain composition when every element is uncertain, probabilistic
// arithmetic when any numeric or probability is present, and plain boolean
// logic when everything is deterministic.
package aggregate

import (
	"fmt"

	"causeway/internal/effect"
	"causeway/internal/logging"
)

// Op is the quantifier kind.
type Op int

const (
	OpAll Op = iota
	OpAny
	OpNone
	OpSome
)

// Logic is a quantifier over a finite collection of truth signals. Some
// carries its k.
type Logic struct {
	Op Op
	K  int
}

// All requires every element to hold.
func All() Logic { return Logic{Op: OpAll} }

// Any requires at least one element to hold.
func Any() Logic { return Logic{Op: OpAny} }

// None requires no element to hold.
func None() Logic { return Logic{Op: OpNone} }

// Some requires at least k elements to hold.
func Some(k int) Logic { return Logic{Op: OpSome, K: k} }

func (l Logic) String() string {
	switch l.Op {
	case OpAll:
		return "All"
	case OpAny:
		return "Any"
	case OpNone:
		return "None"
	default:
		return fmt.Sprintf("Some(%d)", l.K)
	}
}

// Aggregate reduces values under logic. threshold is required for Some under
// the probabilistic strategy and for any threshold vote over uncertain
// values; pass nil when no threshold applies. RelayTo is a control token,
// never aggregation input; its presence is a programming error surfaced as
// ErrUnsupportedAggregationType.
func Aggregate(values []effect.Value, logic Logic, threshold *float64) (effect.Value, error) {
	if len(values) == 0 {
		return nil, effect.ErrEmptyAggregationInput
	}

	strategy, err := selectStrategy(values)
	if err != nil {
		return nil, err
	}
	logging.Get(logging.CategoryAggregate).Debug("aggregate %s over %d values via %s", logic, len(values), strategy)

	switch strategy {
	case strategyUncertain:
		return aggregateUncertain(values, logic, threshold)
	case strategyProbabilistic:
		return aggregateProbabilistic(values, logic, threshold)
	default:
		return aggregateDeterministic(values, logic)
	}
}

type strategy int

const (
	strategyDeterministic strategy = iota
	strategyProbabilistic
	strategyUncertain
)

func (s strategy) String() string {
	switch s {
	case strategyUncertain:
		return "uncertain"
	case strategyProbabilistic:
		return "probabilistic"
	default:
		return "deterministic"
	}
}

// selectStrategy inspects the payload types present. Unsupported payloads
// (tensors, complex, quaternions, relay tokens, absence) fail here, naming
// the offending type.
func selectStrategy(values []effect.Value) (strategy, error) {
	allUncertain := true
	anyUncertain := false
	anyNumeric := false
	for _, v := range values {
		switch v.(type) {
		case effect.UncertainBool, effect.UncertainFloat:
			anyUncertain = true
		case effect.Deterministic:
			allUncertain = false
		case effect.Probability, effect.Numerical, effect.Typed:
			anyNumeric = true
			allUncertain = false
		default:
			return 0, effect.UnsupportedTypeErr(v)
		}
	}
	switch {
	case anyUncertain && allUncertain:
		return strategyUncertain, nil
	case anyUncertain || anyNumeric:
		return strategyProbabilistic, nil
	default:
		return strategyDeterministic, nil
	}
}
