package aggregate

import "causeway/internal/effect"

// aggregateDeterministic reduces all-boolean input with plain logic.
// Some(k) holds iff at least k elements are true.
func aggregateDeterministic(values []effect.Value, logic Logic) (effect.Value, error) {
	trueCount := 0
	for _, v := range values {
		if bool(v.(effect.Deterministic)) {
			trueCount++
		}
	}
	switch logic.Op {
	case OpAll:
		return effect.Deterministic(trueCount == len(values)), nil
	case OpAny:
		return effect.Deterministic(trueCount > 0), nil
	case OpNone:
		return effect.Deterministic(trueCount == 0), nil
	default: // Some(k)
		return effect.Deterministic(trueCount >= logic.K), nil
	}
}
