package sim

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/san-kum/heatgrid/internal/heat"
)

// SweepPoint is the outcome of one conductivity value in a sweep.
type SweepPoint struct {
	Conductivity float64
	Stable       bool
	Result       *Result
}

// Sweep runs the same scene once per conductivity value in [from, to]
// (steps values, inclusive). Every run owns a clone of base and is stepped by
// a single goroutine; runs proceed concurrently.
func Sweep(ctx context.Context, base *heat.Field, dt, from, to float64, steps int, cfg Config) ([]SweepPoint, error) {
	if steps < 1 {
		return nil, fmt.Errorf("sweep needs at least one step, got %d", steps)
	}

	points := make([]SweepPoint, steps)
	g, ctx := errgroup.WithContext(ctx)
	for i := 0; i < steps; i++ {
		k := from
		if steps > 1 {
			k = from + (to-from)*float64(i)/float64(steps-1)
		}
		points[i].Conductivity = k

		g.Go(func() error {
			st := heat.NewStepper(k, dt)
			s := New(base.Clone(), st)
			res, err := s.Run(ctx, cfg)
			if err != nil {
				return fmt.Errorf("conductivity %g: %w", k, err)
			}
			points[i].Stable = st.Stable() && len(res.Errors) == 0
			points[i].Result = res
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return points, nil
}
