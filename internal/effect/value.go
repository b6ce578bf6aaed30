// Package effect defines the PropagatingEffect envelope threaded through
// every causaloid evaluation, the closed Value union it carries, and the
// engine's error taxonomy. The RelayTo variant is a control instruction,
// not data: consumers that treat an effect as terminal data must check for
// it explicitly before interpreting the value.
package effect

import "fmt"

// Value is the closed tagged union of effect payloads. Only types in this
// package implement it.
type Value interface {
	isValue()
	String() string
}

// None is the absence of a value.
type None struct{}

// Deterministic is a boolean truth value.
type Deterministic bool

// Probability is a float in [0,1] by convention. The bound is not enforced.
type Probability float64

// Numerical is a generic numeric scalar.
type Numerical float64

// NumericKind distinguishes the sub-kinds of a Typed numeric value.
type NumericKind int

const (
	NumericInt NumericKind = iota
	NumericFloat
)

// Typed is a numeric value carrying its sub-kind explicitly.
type Typed struct {
	Kind  NumericKind
	Int   int64
	Float float64
}

// UncertainBool wraps a boolean distribution produced by the external
// sampling engine. Opaque to the core except through the BoolSampler
// boundary.
type UncertainBool struct {
	Sampler BoolSampler
}

// UncertainFloat wraps a float distribution produced by the external
// sampling engine.
type UncertainFloat struct {
	Sampler FloatSampler
}

// Tensor, ComplexTensor, QuaternionTensor, Complex and Quaternion are
// opaque numeric payloads owned by the external numeric tower. The core
// moves them through traversal untouched; aggregation rejects them.
type Tensor struct{ V any }
type ComplexTensor struct{ V any }
type QuaternionTensor struct{ V any }
type Complex struct{ V any }
type Quaternion struct{ V any }

// RelayTo is a control-flow instruction, not a data value. It signals that
// traversal must continue at Target with Inner as the new input, discarding
// the normal successor set.
type RelayTo struct {
	Target int
	Inner  *PropagatingEffect
}

func (None) isValue()             {}
func (Deterministic) isValue()    {}
func (Probability) isValue()      {}
func (Numerical) isValue()        {}
func (Typed) isValue()            {}
func (UncertainBool) isValue()    {}
func (UncertainFloat) isValue()   {}
func (Tensor) isValue()           {}
func (ComplexTensor) isValue()    {}
func (QuaternionTensor) isValue() {}
func (Complex) isValue()          {}
func (Quaternion) isValue()       {}
func (RelayTo) isValue()          {}

func (None) String() string            { return "None" }
func (d Deterministic) String() string { return fmt.Sprintf("Deterministic(%t)", bool(d)) }
func (p Probability) String() string   { return fmt.Sprintf("Probability(%g)", float64(p)) }
func (n Numerical) String() string     { return fmt.Sprintf("Numerical(%g)", float64(n)) }

func (t Typed) String() string {
	if t.Kind == NumericInt {
		return fmt.Sprintf("Typed(int %d)", t.Int)
	}
	return fmt.Sprintf("Typed(float %g)", t.Float)
}

func (UncertainBool) String() string    { return "UncertainBool" }
func (UncertainFloat) String() string   { return "UncertainFloat" }
func (Tensor) String() string           { return "Tensor" }
func (ComplexTensor) String() string    { return "ComplexTensor" }
func (QuaternionTensor) String() string { return "QuaternionTensor" }
func (Complex) String() string          { return "Complex" }
func (Quaternion) String() string       { return "Quaternion" }

func (r RelayTo) String() string { return fmt.Sprintf("RelayTo(%d)", r.Target) }

// TypeName returns the variant name of v for error messages.
func TypeName(v Value) string {
	switch v.(type) {
	case nil:
		return "nil"
	case None:
		return "None"
	case Deterministic:
		return "Deterministic"
	case Probability:
		return "Probability"
	case Numerical:
		return "Numerical"
	case Typed:
		return "Typed"
	case UncertainBool:
		return "UncertainBool"
	case UncertainFloat:
		return "UncertainFloat"
	case Tensor:
		return "Tensor"
	case ComplexTensor:
		return "ComplexTensor"
	case QuaternionTensor:
		return "QuaternionTensor"
	case Complex:
		return "Complex"
	case Quaternion:
		return "Quaternion"
	case RelayTo:
		return "RelayTo"
	default:
		return fmt.Sprintf("%T", v)
	}
}

// IsRelay reports whether v is the RelayTo control variant.
func IsRelay(v Value) bool {
	_, ok := v.(RelayTo)
	return ok
}
