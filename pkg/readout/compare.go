package readout

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"
)

// Compare runs the same rows under each named policy concurrently. Each run
// owns its own simulation state. Results are returned in policy order. When
// a run id is fixed with WithRunID, each run's id gets the policy name as a
// suffix.
func Compare(ctx context.Context, cfg Config, policies []string, rows [][]uint8, opts ...Option) ([]*Output, error) {
	if len(policies) == 0 {
		policies = Policies()
	}

	base := defaultOptions()
	for _, opt := range opts {
		opt(&base)
	}

	results := make([]*Output, len(policies))
	g, gctx := errgroup.WithContext(ctx)
	for i, policy := range policies {
		i, policy := i, policy
		g.Go(func() error {
			c := cfg
			c.Policy = policy
			runOpts := append([]Option(nil), opts...)
			if base.runID != "" {
				runOpts = append(runOpts, WithRunID(base.runID+"-"+policy))
			}
			r, err := New(c, runOpts...)
			if err != nil {
				return fmt.Errorf("policy %s: %w", policy, err)
			}
			out, err := r.Run(gctx, rows)
			if err != nil {
				return fmt.Errorf("policy %s: %w", policy, err)
			}
			results[i] = out
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
