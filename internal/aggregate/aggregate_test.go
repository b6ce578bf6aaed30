package aggregate

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"causeway/internal/effect"
)

// fakeSampler is a point-mass stand-in for the external sampling engine.
type fakeSampler struct{ p float64 }

func (f *fakeSampler) And(other effect.BoolSampler) effect.BoolSampler {
	return &fakeSampler{p: f.p * other.(*fakeSampler).p}
}

func (f *fakeSampler) Or(other effect.BoolSampler) effect.BoolSampler {
	q := other.(*fakeSampler).p
	return &fakeSampler{p: 1 - (1-f.p)*(1-q)}
}

func (f *fakeSampler) Not() effect.BoolSampler { return &fakeSampler{p: 1 - f.p} }

func (f *fakeSampler) Probability() (float64, error) { return f.p, nil }

// fakeFloatSampler is a point-mass float distribution.
type fakeFloatSampler struct{ v float64 }

func (f *fakeFloatSampler) GreaterThan(threshold float64) effect.BoolSampler {
	if f.v > threshold {
		return &fakeSampler{p: 1}
	}
	return &fakeSampler{p: 0}
}

func (f *fakeFloatSampler) Mean() (float64, error) { return f.v, nil }

func ptr(f float64) *float64 { return &f }

func bools(bs ...bool) []effect.Value {
	out := make([]effect.Value, len(bs))
	for i, b := range bs {
		out[i] = effect.Deterministic(b)
	}
	return out
}

func probs(ps ...float64) []effect.Value {
	out := make([]effect.Value, len(ps))
	for i, p := range ps {
		out[i] = effect.Probability(p)
	}
	return out
}

func TestDeterministicQuantifiers(t *testing.T) {
	in := bools(true, false, true)

	cases := []struct {
		logic Logic
		want  bool
	}{
		{All(), false},
		{Any(), true},
		{None(), false},
		{Some(2), true},
		{Some(3), false},
	}
	for _, tc := range cases {
		got, err := Aggregate(in, tc.logic, nil)
		require.NoError(t, err, tc.logic.String())
		assert.Equal(t, effect.Deterministic(tc.want), got, tc.logic.String())
	}

	got, err := Aggregate(bools(false, false), None(), nil)
	require.NoError(t, err)
	assert.Equal(t, effect.Deterministic(true), got)
}

func TestProbabilisticQuantifiers(t *testing.T) {
	in := probs(0.5, 0.6)

	got, err := Aggregate(in, All(), nil)
	require.NoError(t, err)
	assert.InDelta(t, 0.3, float64(got.(effect.Probability)), 1e-9)

	got, err = Aggregate(in, Any(), nil)
	require.NoError(t, err)
	assert.InDelta(t, 0.8, float64(got.(effect.Probability)), 1e-9)

	got, err = Aggregate(in, None(), nil)
	require.NoError(t, err)
	assert.InDelta(t, 0.2, float64(got.(effect.Probability)), 1e-9)
}

func TestProbabilisticSomeNeedsThreshold(t *testing.T) {
	in := probs(0.2, 0.9, 0.95)

	_, err := Aggregate(in, Some(2), nil)
	assert.True(t, errors.Is(err, effect.ErrMissingAggregationThreshold))

	got, err := Aggregate(in, Some(2), ptr(0.5))
	require.NoError(t, err)
	assert.Equal(t, effect.Probability(1.0), got)

	got, err = Aggregate(in, Some(3), ptr(0.5))
	require.NoError(t, err)
	assert.Equal(t, effect.Probability(0.0), got)
}

func TestBooleansPromoteUnderProbabilistic(t *testing.T) {
	// A boolean alongside a probability promotes to 1.0/0.0.
	in := []effect.Value{effect.Deterministic(true), effect.Probability(0.5)}
	got, err := Aggregate(in, All(), nil)
	require.NoError(t, err)
	assert.InDelta(t, 0.5, float64(got.(effect.Probability)), 1e-9)

	in = []effect.Value{effect.Deterministic(false), effect.Probability(0.5)}
	got, err = Aggregate(in, Any(), nil)
	require.NoError(t, err)
	assert.InDelta(t, 0.5, float64(got.(effect.Probability)), 1e-9)

	// Numeric and typed values contribute their magnitude.
	in = []effect.Value{effect.Numerical(0.5), effect.Typed{Kind: effect.NumericFloat, Float: 0.5}}
	got, err = Aggregate(in, All(), nil)
	require.NoError(t, err)
	assert.InDelta(t, 0.25, float64(got.(effect.Probability)), 1e-9)
}

func TestUncertainComposition(t *testing.T) {
	in := []effect.Value{
		effect.UncertainBool{Sampler: &fakeSampler{p: 0.5}},
		effect.UncertainBool{Sampler: &fakeSampler{p: 0.6}},
	}

	got, err := Aggregate(in, All(), nil)
	require.NoError(t, err)
	ub := got.(effect.UncertainBool)
	p, err := ub.Sampler.Probability()
	require.NoError(t, err)
	assert.InDelta(t, 0.3, p, 1e-9)

	got, err = Aggregate(in, Any(), nil)
	require.NoError(t, err)
	p, _ = got.(effect.UncertainBool).Sampler.Probability()
	assert.InDelta(t, 0.8, p, 1e-9)

	got, err = Aggregate(in, None(), nil)
	require.NoError(t, err)
	p, _ = got.(effect.UncertainBool).Sampler.Probability()
	assert.InDelta(t, 0.2, p, 1e-9)
}

func TestUncertainSomeIsThresholdVote(t *testing.T) {
	in := []effect.Value{
		effect.UncertainBool{Sampler: &fakeSampler{p: 0.9}},
		effect.UncertainBool{Sampler: &fakeSampler{p: 0.8}},
		effect.UncertainBool{Sampler: &fakeSampler{p: 0.1}},
	}

	_, err := Aggregate(in, Some(2), nil)
	assert.True(t, errors.Is(err, effect.ErrMissingAggregationThreshold))

	got, err := Aggregate(in, Some(2), ptr(0.5))
	require.NoError(t, err)
	assert.Equal(t, effect.Deterministic(true), got)

	got, err = Aggregate(in, Some(3), ptr(0.5))
	require.NoError(t, err)
	assert.Equal(t, effect.Deterministic(false), got)
}

func TestUncertainFloatNeedsThreshold(t *testing.T) {
	in := []effect.Value{
		effect.UncertainFloat{Sampler: &fakeFloatSampler{v: 0.9}},
		effect.UncertainFloat{Sampler: &fakeFloatSampler{v: 0.2}},
	}

	_, err := Aggregate(in, All(), nil)
	assert.True(t, errors.Is(err, effect.ErrMissingAggregationThreshold))

	got, err := Aggregate(in, Any(), ptr(0.5))
	require.NoError(t, err)
	p, err := got.(effect.UncertainBool).Sampler.Probability()
	require.NoError(t, err)
	assert.InDelta(t, 1.0, p, 1e-9)
}

func TestMixedUncertainFallsToProbabilistic(t *testing.T) {
	// Uncertain mixed with deterministic: every element reduces to its
	// point estimate and probability arithmetic applies.
	in := []effect.Value{
		effect.UncertainBool{Sampler: &fakeSampler{p: 0.5}},
		effect.Deterministic(true),
	}
	got, err := Aggregate(in, All(), nil)
	require.NoError(t, err)
	assert.InDelta(t, 0.5, float64(got.(effect.Probability)), 1e-9)
}

func TestEmptyInputIsError(t *testing.T) {
	_, err := Aggregate(nil, All(), nil)
	assert.True(t, errors.Is(err, effect.ErrEmptyAggregationInput))

	_, err = Aggregate([]effect.Value{}, Any(), nil)
	assert.True(t, errors.Is(err, effect.ErrEmptyAggregationInput))
}

func TestUnsupportedTypesAreNamed(t *testing.T) {
	cases := []struct {
		v    effect.Value
		name string
	}{
		{effect.Tensor{}, "Tensor"},
		{effect.Complex{}, "Complex"},
		{effect.Quaternion{}, "Quaternion"},
		{effect.None{}, "None"},
		{effect.RelayTo{Target: 1}, "RelayTo"},
	}
	for _, tc := range cases {
		_, err := Aggregate([]effect.Value{effect.Probability(0.5), tc.v}, All(), nil)
		require.Error(t, err, tc.name)
		assert.True(t, errors.Is(err, effect.ErrUnsupportedAggregationType), tc.name)
		assert.Contains(t, err.Error(), tc.name)
	}
}
