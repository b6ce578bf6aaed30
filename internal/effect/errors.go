package effect

import (
	"errors"
	"fmt"
)

// Sentinel errors forming the closed failure taxonomy of the engine.
// Traversal failures travel inside PropagatingEffect.Err; structural
// operations (mutation, freeze, lookups) return them directly.
var (
	// ErrGraphNotFrozen is returned when a traversal is attempted on a
	// graph that is still in its mutable form.
	ErrGraphNotFrozen = errors.New("graph is not frozen")

	// ErrGraphFrozen is returned when a mutation is attempted on a
	// graph that is in its frozen form.
	ErrGraphFrozen = errors.New("graph is frozen")

	// ErrNodeNotFound is returned when a node index is absent at lookup time.
	ErrNodeNotFound = errors.New("node not found")

	// ErrEdgeNotFound is returned when an edge lookup or removal names an
	// edge that does not exist.
	ErrEdgeNotFound = errors.New("edge not found")

	// ErrRelayTargetNotFound is returned when a RelayTo instruction names a
	// nonexistent node.
	ErrRelayTargetNotFound = errors.New("relay target not found")

	// ErrPathNotFound is returned when no path exists between two valid
	// node indices.
	ErrPathNotFound = errors.New("no path between causes")

	// ErrEmptyAggregationInput is returned when aggregation is invoked on
	// an empty collection.
	ErrEmptyAggregationInput = errors.New("aggregation input is empty")

	// ErrUnsupportedAggregationType is returned when a collection contains
	// a payload type the selected aggregation strategy cannot interpret.
	// Wrap it with the offending type name.
	ErrUnsupportedAggregationType = errors.New("unsupported aggregation type")

	// ErrMissingAggregationThreshold is returned when threshold-based
	// aggregation is invoked without a caller-supplied threshold.
	ErrMissingAggregationThreshold = errors.New("missing aggregation threshold")
)

// NodeNotFoundErr wraps ErrNodeNotFound with the offending index.
func NodeNotFoundErr(index int) error {
	return fmt.Errorf("index %d: %w", index, ErrNodeNotFound)
}

// RelayTargetNotFoundErr wraps ErrRelayTargetNotFound with the target index.
func RelayTargetNotFoundErr(target int) error {
	return fmt.Errorf("relay target %d: %w", target, ErrRelayTargetNotFound)
}

// PathNotFoundErr wraps ErrPathNotFound with both endpoints.
func PathNotFoundErr(start, stop int) error {
	return fmt.Errorf("from %d to %d: %w", start, stop, ErrPathNotFound)
}

// UnsupportedTypeErr wraps ErrUnsupportedAggregationType naming the
// offending payload type.
func UnsupportedTypeErr(v Value) error {
	return fmt.Errorf("%s: %w", TypeName(v), ErrUnsupportedAggregationType)
}
