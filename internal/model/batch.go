package model

import (
	"context"

	"golang.org/x/sync/errgroup"

	"causeway/internal/effect"
)

// EvaluateBatch evaluates many observations against the same frozen model
// concurrently. The frozen graph is read-only during traversal, so sharing
// it across goroutines is safe. Results are positionally aligned with the
// observations; per-observation failures stay inside their effect and do
// not cancel the batch.
func (m *Model) EvaluateBatch(ctx context.Context, observations []float64, concurrency int) ([]*effect.PropagatingEffect, error) {
	if concurrency < 1 {
		concurrency = 1
	}

	results := make([]*effect.PropagatingEffect, len(observations))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)

	for i, obs := range observations {
		i, obs := i, obs
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			results[i] = m.Evaluate(obs)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
