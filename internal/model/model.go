// Package model loads declarative causal models from YAML and builds
// frozen causaloid graphs from them. A model file names its nodes, wires
// them with edges, and picks a built-in causal-function kind per node; the
// builder resolves names to indices, constructs the graph, and freezes it
// ready for reasoning.
package model

import (
	"fmt"
	"os"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"causeway/internal/causaloid"
	"causeway/internal/effect"
	"causeway/internal/graph"
	"causeway/internal/logging"
	"causeway/internal/reasoning"
)

// Spec is the YAML shape of a causal model.
type Spec struct {
	Name        string     `yaml:"name"`
	Description string     `yaml:"description"`
	Threshold   *float64   `yaml:"threshold"` // decision threshold for aggregation, optional
	Nodes       []NodeSpec `yaml:"nodes"`
	Edges       []EdgeSpec `yaml:"edges"`
}

// NodeSpec describes one causaloid. Kind selects a built-in causal
// function; Param is its tunable; Target is the relay destination for the
// relay kind.
type NodeSpec struct {
	Name        string  `yaml:"name"`
	Description string  `yaml:"description"`
	Kind        string  `yaml:"kind"` // threshold, probability, relay, passthrough
	Param       float64 `yaml:"param"`
	Target      string  `yaml:"target"`
	Root        bool    `yaml:"root"`
}

// EdgeSpec wires two named nodes.
type EdgeSpec struct {
	From string `yaml:"from"`
	To   string `yaml:"to"`
}

// Model is a built, frozen causal model ready for evaluation.
type Model struct {
	ID        uuid.UUID
	Name      string
	Threshold *float64
	Graph     *graph.Graph[*causaloid.Causaloid]

	index map[string]int // node name -> frozen index
	names []string       // frozen index -> node name
}

// defaultRadixThreshold, when positive, overrides the graph engine's freeze
// sort threshold for models built by this package.
var defaultRadixThreshold int

// SetDefaultRadixThreshold sets the freeze sort threshold applied to all
// subsequently built models. Values below 1 keep the engine default.
func SetDefaultRadixThreshold(n int) { defaultRadixThreshold = n }

// LoadFile parses and builds a model from a YAML file.
func LoadFile(path string) (*Model, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read model file: %w", err)
	}
	return Parse(data)
}

// Parse parses and builds a model from YAML bytes.
func Parse(data []byte) (*Model, error) {
	var spec Spec
	if err := yaml.Unmarshal(data, &spec); err != nil {
		return nil, fmt.Errorf("failed to parse model: %w", err)
	}
	return Build(&spec)
}

// Build validates the spec, constructs the causaloid graph, and freezes it.
func Build(spec *Spec) (*Model, error) {
	if len(spec.Nodes) == 0 {
		return nil, fmt.Errorf("model %q has no nodes", spec.Name)
	}

	// First pass: resolve names so relay targets can be forward references.
	index := make(map[string]int, len(spec.Nodes))
	names := make([]string, len(spec.Nodes))
	for i, n := range spec.Nodes {
		if n.Name == "" {
			return nil, fmt.Errorf("node %d has no name", i)
		}
		if _, dup := index[n.Name]; dup {
			return nil, fmt.Errorf("duplicate node name %q", n.Name)
		}
		index[n.Name] = i
		names[i] = n.Name
	}

	g := graph.New[*causaloid.Causaloid]()
	if defaultRadixThreshold > 0 {
		g.SetRadixSortThreshold(defaultRadixThreshold)
	}
	rootSeen := false
	for i, n := range spec.Nodes {
		fn, err := causalFn(n, index)
		if err != nil {
			return nil, err
		}
		c := causaloid.NewSingleton(n.Name, fn)
		isRoot := n.Root || (!rootSeen && i == 0 && !anyRoot(spec.Nodes))
		if isRoot {
			if rootSeen {
				return nil, fmt.Errorf("model %q has more than one root", spec.Name)
			}
			rootSeen = true
			if _, err := g.AddRootNode(c); err != nil {
				return nil, err
			}
		} else {
			if _, err := g.AddNode(c); err != nil {
				return nil, err
			}
		}
	}

	for _, e := range spec.Edges {
		src, ok := index[e.From]
		if !ok {
			return nil, fmt.Errorf("edge references unknown node %q", e.From)
		}
		dst, ok := index[e.To]
		if !ok {
			return nil, fmt.Errorf("edge references unknown node %q", e.To)
		}
		if err := g.AddEdge(src, dst); err != nil {
			return nil, err
		}
	}

	g.Freeze()
	logging.Model("built model %q: %d nodes, %d edges", spec.Name, g.NumberNodes(), g.NumberEdges())

	return &Model{
		ID:        uuid.New(),
		Name:      spec.Name,
		Threshold: spec.Threshold,
		Graph:     g,
		index:     index,
		names:     names,
	}, nil
}

func anyRoot(nodes []NodeSpec) bool {
	for _, n := range nodes {
		if n.Root {
			return true
		}
	}
	return false
}

// DecisionThreshold returns the model's decision threshold, or fallback when
// the model file does not set one.
func (m *Model) DecisionThreshold(fallback float64) float64 {
	if m.Threshold != nil {
		return *m.Threshold
	}
	return fallback
}

// NodeIndex resolves a node name to its frozen index.
func (m *Model) NodeIndex(name string) (int, bool) {
	idx, ok := m.index[name]
	return idx, ok
}

// NodeName resolves a frozen index back to the node name.
func (m *Model) NodeName(idx int) string {
	if idx < 0 || idx >= len(m.names) {
		return ""
	}
	return m.names[idx]
}

// Evaluate propagates one numeric observation from the model root.
func (m *Model) Evaluate(observation float64) *effect.PropagatingEffect {
	root, ok := m.Graph.GetRootIndex()
	if !ok {
		return effect.NewError(effect.NodeNotFoundErr(-1))
	}
	return reasoning.EvaluateSubgraphFromCause(m.Graph, root, effect.NewNumerical(observation))
}

// causalFn maps a node spec to its built-in causal function.
func causalFn(n NodeSpec, index map[string]int) (causaloid.Fn, error) {
	switch n.Kind {
	case "threshold":
		limit := n.Param
		return func(in *effect.PropagatingEffect) (*effect.PropagatingEffect, error) {
			v, err := numericOf(in.Value)
			if err != nil {
				return nil, err
			}
			return effect.NewDeterministic(v > limit), nil
		}, nil

	case "probability":
		factor := n.Param
		return func(in *effect.PropagatingEffect) (*effect.PropagatingEffect, error) {
			v, err := numericOf(in.Value)
			if err != nil {
				return nil, err
			}
			return effect.NewProbability(clamp01(v * factor)), nil
		}, nil

	case "relay":
		target, ok := index[n.Target]
		if !ok {
			return nil, fmt.Errorf("relay node %q names unknown target %q", n.Name, n.Target)
		}
		trigger := n.Param
		return func(in *effect.PropagatingEffect) (*effect.PropagatingEffect, error) {
			v, err := numericOf(in.Value)
			if err != nil {
				return nil, err
			}
			if v > trigger {
				return effect.NewRelayTo(target, in.Clone()), nil
			}
			return in.Clone(), nil
		}, nil

	case "passthrough", "":
		return func(in *effect.PropagatingEffect) (*effect.PropagatingEffect, error) {
			return in.Clone(), nil
		}, nil

	default:
		return nil, fmt.Errorf("node %q has unknown kind %q", n.Name, n.Kind)
	}
}

// numericOf extracts a numeric magnitude from the effect values the
// built-in kinds accept.
func numericOf(v effect.Value) (float64, error) {
	switch x := v.(type) {
	case effect.Numerical:
		return float64(x), nil
	case effect.Probability:
		return float64(x), nil
	case effect.Deterministic:
		if x {
			return 1, nil
		}
		return 0, nil
	case effect.Typed:
		if x.Kind == effect.NumericInt {
			return float64(x.Int), nil
		}
		return x.Float, nil
	default:
		return 0, fmt.Errorf("cannot interpret %s as a number", effect.TypeName(v))
	}
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
