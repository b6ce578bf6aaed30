package model

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"causeway/internal/effect"
)

const wildfireYAML = `
name: wildfire
description: smoke density drives a fire-risk estimate
nodes:
  - name: smoke
    kind: threshold
    param: 0.3
    root: true
  - name: fire
    kind: probability
    param: 0.9
edges:
  - from: smoke
    to: fire
`

func TestParseAndEvaluate(t *testing.T) {
	m, err := Parse([]byte(wildfireYAML))
	require.NoError(t, err)
	assert.Equal(t, "wildfire", m.Name)
	assert.NotEqual(t, "", m.ID.String())
	require.True(t, m.Graph.IsFrozen())
	assert.Equal(t, 2, m.Graph.NumberNodes())

	idx, ok := m.NodeIndex("fire")
	require.True(t, ok)
	assert.Equal(t, 1, idx)
	assert.Equal(t, "fire", m.NodeName(1))
	assert.Equal(t, "", m.NodeName(9))

	// 0.8 > 0.3 fires smoke; fire sees Deterministic(true) -> 1.0 * 0.9.
	res := m.Evaluate(0.8)
	require.False(t, res.IsErr())
	assert.InDelta(t, 0.9, float64(res.Value.(effect.Probability)), 1e-9)

	// 0.1 does not fire smoke; fire sees false -> 0.0.
	res = m.Evaluate(0.1)
	require.False(t, res.IsErr())
	assert.InDelta(t, 0.0, float64(res.Value.(effect.Probability)), 1e-9)
}

func TestRelayNodeRedirects(t *testing.T) {
	body := `
name: escalation
nodes:
  - name: reading
    kind: relay
    target: alarm
    param: 0.8
    root: true
  - name: damped
    kind: probability
    param: 0.1
  - name: alarm
    kind: threshold
    param: 0.5
edges:
  - from: reading
    to: damped
`
	m, err := Parse([]byte(body))
	require.NoError(t, err)

	// Above the trigger, the reading relays straight to the alarm,
	// bypassing the damped branch.
	res := m.Evaluate(0.95)
	require.False(t, res.IsErr())
	assert.Equal(t, effect.Deterministic(true), res.Value)

	// Below the trigger it propagates normally into the damped branch.
	res = m.Evaluate(0.4)
	require.False(t, res.IsErr())
	assert.InDelta(t, 0.04, float64(res.Value.(effect.Probability)), 1e-9)
}

func TestFirstNodeIsImplicitRoot(t *testing.T) {
	body := `
name: implicit
nodes:
  - name: only
    kind: passthrough
`
	m, err := Parse([]byte(body))
	require.NoError(t, err)
	root, ok := m.Graph.GetRootIndex()
	require.True(t, ok)
	assert.Equal(t, 0, root)
}

func TestBuildValidation(t *testing.T) {
	cases := []struct {
		name string
		body string
		want string
	}{
		{"no nodes", `name: empty`, "has no nodes"},
		{"unnamed node", "name: x\nnodes:\n  - kind: passthrough", "has no name"},
		{"duplicate", "name: x\nnodes:\n  - name: a\n  - name: a", "duplicate node name"},
		{"bad kind", "name: x\nnodes:\n  - name: a\n    kind: warp", "unknown kind"},
		{"bad edge", "name: x\nnodes:\n  - name: a\nedges:\n  - from: a\n    to: ghost", "unknown node"},
		{"bad relay", "name: x\nnodes:\n  - name: a\n    kind: relay\n    target: ghost", "unknown target"},
		{"two roots", "name: x\nnodes:\n  - name: a\n    root: true\n  - name: b\n    root: true", "more than one root"},
	}
	for _, tc := range cases {
		_, err := Parse([]byte(tc.body))
		require.Error(t, err, tc.name)
		assert.Contains(t, err.Error(), tc.want, tc.name)
	}
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "model.yaml")
	require.NoError(t, os.WriteFile(path, []byte(wildfireYAML), 0644))

	m, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "wildfire", m.Name)

	_, err = LoadFile(filepath.Join(dir, "missing.yaml"))
	assert.Error(t, err)
}

func TestNonNumericInputFailsCleanly(t *testing.T) {
	m, err := Parse([]byte(wildfireYAML))
	require.NoError(t, err)

	root, _ := m.Graph.GetRootIndex()
	node, err := m.Graph.GetNode(root)
	require.NoError(t, err)

	res := node.Evaluate(effect.New(effect.Tensor{}))
	require.True(t, res.IsErr())
	assert.Contains(t, res.Err.Error(), "Tensor")
}

func TestEvaluateBatch(t *testing.T) {
	m, err := Parse([]byte(wildfireYAML))
	require.NoError(t, err)

	obs := []float64{0.1, 0.5, 0.9, 0.2, 0.7}
	results, err := m.EvaluateBatch(context.Background(), obs, 3)
	require.NoError(t, err)
	require.Len(t, results, len(obs))

	for i, o := range obs {
		require.False(t, results[i].IsErr())
		want := 0.0
		if o > 0.3 {
			want = 0.9
		}
		assert.InDelta(t, want, float64(results[i].Value.(effect.Probability)), 1e-9, "observation %g", o)
	}
}

func TestEvaluateBatchCancelled(t *testing.T) {
	m, err := Parse([]byte(wildfireYAML))
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err = m.EvaluateBatch(ctx, make([]float64, 64), 2)
	assert.True(t, errors.Is(err, context.Canceled))
}
