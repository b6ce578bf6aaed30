package effect

import "fmt"

// LogEntry is one step of the evaluation trace carried by an effect.
type LogEntry struct {
	Node    int
	Message string
}

// PropagatingEffect is the envelope threaded through every node evaluation:
// a payload value, an optional error, and an ordered evaluation log.
// Evaluation never mutates an input effect in place; effects are cheap to
// clone for fan-out.
type PropagatingEffect struct {
	Value Value
	Err   error
	Logs  []LogEntry
}

// New builds an effect from a raw value with no error and no logs.
func New(v Value) *PropagatingEffect {
	if v == nil {
		v = None{}
	}
	return &PropagatingEffect{Value: v}
}

// NewNone builds an effect carrying the absence value.
func NewNone() *PropagatingEffect { return New(None{}) }

// NewDeterministic builds a boolean effect.
func NewDeterministic(b bool) *PropagatingEffect { return New(Deterministic(b)) }

// NewProbability builds a probability effect.
func NewProbability(p float64) *PropagatingEffect { return New(Probability(p)) }

// NewNumerical builds a numeric scalar effect.
func NewNumerical(n float64) *PropagatingEffect { return New(Numerical(n)) }

// NewRelayTo builds a relay control effect redirecting traversal to target
// with inner as the replacement input.
func NewRelayTo(target int, inner *PropagatingEffect) *PropagatingEffect {
	if inner == nil {
		inner = NewNone()
	}
	return New(RelayTo{Target: target, Inner: inner})
}

// NewError builds an effect that carries only an error. The value is None.
func NewError(err error) *PropagatingEffect {
	return &PropagatingEffect{Value: None{}, Err: err}
}

// IsErr reports whether the effect carries an error.
func (e *PropagatingEffect) IsErr() bool { return e.Err != nil }

// IsRelay reports whether the effect's value is the RelayTo control variant.
func (e *PropagatingEffect) IsRelay() bool { return IsRelay(e.Value) }

// Relay returns the relay instruction and true when the value is RelayTo.
func (e *PropagatingEffect) Relay() (RelayTo, bool) {
	r, ok := e.Value.(RelayTo)
	return r, ok
}

// Clone returns a copy of the effect with its own log slice. The value is
// shared; all variants are immutable from the core's point of view.
func (e *PropagatingEffect) Clone() *PropagatingEffect {
	logs := make([]LogEntry, len(e.Logs))
	copy(logs, e.Logs)
	return &PropagatingEffect{Value: e.Value, Err: e.Err, Logs: logs}
}

// WithErr returns a new effect carrying err and this effect's logs. Used
// when a traversal must surface a failure without losing the trace so far.
func (e *PropagatingEffect) WithErr(err error) *PropagatingEffect {
	out := e.Clone()
	out.Value = None{}
	out.Err = err
	return out
}

// Logged returns a new effect with an extra log entry appended.
func (e *PropagatingEffect) Logged(node int, format string, args ...any) *PropagatingEffect {
	out := e.Clone()
	out.Logs = append(out.Logs, LogEntry{Node: node, Message: fmt.Sprintf(format, args...)})
	return out
}

func (e *PropagatingEffect) String() string {
	if e.Err != nil {
		return fmt.Sprintf("Effect(%s, err=%v)", e.Value, e.Err)
	}
	return fmt.Sprintf("Effect(%s)", e.Value)
}
