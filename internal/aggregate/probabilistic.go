package aggregate

import "causeway/internal/effect"

// probabilityOf maps one element to a probability. Booleans promote to
// 1.0/0.0; uncertain values contribute their point estimate.
func probabilityOf(v effect.Value) (float64, error) {
	switch x := v.(type) {
	case effect.Deterministic:
		if x {
			return 1.0, nil
		}
		return 0.0, nil
	case effect.Probability:
		return float64(x), nil
	case effect.Numerical:
		return float64(x), nil
	case effect.Typed:
		if x.Kind == effect.NumericInt {
			return float64(x.Int), nil
		}
		return x.Float, nil
	case effect.UncertainBool:
		return x.Sampler.Probability()
	case effect.UncertainFloat:
		return x.Sampler.Mean()
	default:
		return 0, effect.UnsupportedTypeErr(v)
	}
}

// aggregateProbabilistic reduces mixed boolean/probability/numeric input
// with probability arithmetic under an independence assumption:
// All is the product, Any the complement of the product of complements,
// None the complement of Any. Some(k) is 1.0 iff at least k elements exceed
// the caller threshold, which is therefore required.
func aggregateProbabilistic(values []effect.Value, logic Logic, threshold *float64) (effect.Value, error) {
	probs := make([]float64, len(values))
	for i, v := range values {
		p, err := probabilityOf(v)
		if err != nil {
			return nil, err
		}
		probs[i] = p
	}

	switch logic.Op {
	case OpAll:
		product := 1.0
		for _, p := range probs {
			product *= p
		}
		return effect.Probability(product), nil
	case OpAny:
		noneOf := 1.0
		for _, p := range probs {
			noneOf *= 1.0 - p
		}
		return effect.Probability(1.0 - noneOf), nil
	case OpNone:
		noneOf := 1.0
		for _, p := range probs {
			noneOf *= 1.0 - p
		}
		return effect.Probability(noneOf), nil
	default: // Some(k)
		if threshold == nil {
			return nil, effect.ErrMissingAggregationThreshold
		}
		exceeding := 0
		for _, p := range probs {
			if p > *threshold {
				exceeding++
			}
		}
		if exceeding >= logic.K {
			return effect.Probability(1.0), nil
		}
		return effect.Probability(0.0), nil
	}
}
