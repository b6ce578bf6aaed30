package aggregate

import "causeway/internal/effect"

// boolSamplerOf converts an uncertain element to a BoolSampler. Uncertain
// floats become booleans via a threshold comparison, which is why every
// uncertain-float input requires the caller threshold.
func boolSamplerOf(v effect.Value, threshold *float64) (effect.BoolSampler, error) {
	switch x := v.(type) {
	case effect.UncertainBool:
		return x.Sampler, nil
	case effect.UncertainFloat:
		if threshold == nil {
			return nil, effect.ErrMissingAggregationThreshold
		}
		return x.Sampler.GreaterThan(*threshold), nil
	default:
		return nil, effect.UnsupportedTypeErr(v)
	}
}

// aggregateUncertain composes the uncertain values themselves: All folds
// with And, Any with Or, None negates Any. Some(k) is a threshold vote over
// the per-element point estimates and requires the caller threshold.
func aggregateUncertain(values []effect.Value, logic Logic, threshold *float64) (effect.Value, error) {
	if logic.Op == OpSome {
		if threshold == nil {
			return nil, effect.ErrMissingAggregationThreshold
		}
		voting := 0
		for _, v := range values {
			p, err := probabilityOf(v)
			if err != nil {
				return nil, err
			}
			if p > *threshold {
				voting++
			}
		}
		return effect.Deterministic(voting >= logic.K), nil
	}

	samplers := make([]effect.BoolSampler, len(values))
	for i, v := range values {
		s, err := boolSamplerOf(v, threshold)
		if err != nil {
			return nil, err
		}
		samplers[i] = s
	}

	acc := samplers[0]
	for _, s := range samplers[1:] {
		switch logic.Op {
		case OpAll:
			acc = acc.And(s)
		default: // Any and None both fold with Or; None negates below.
			acc = acc.Or(s)
		}
	}
	if logic.Op == OpNone {
		acc = acc.Not()
	}
	return effect.UncertainBool{Sampler: acc}, nil
}
