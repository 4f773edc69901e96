package grid

import (
	"context"
	"runtime"
	"time"

	"golang.org/x/sync/errgroup"
)

// ComputeAll computes the grids for surfaces, running up to workers
// surfaces at once (GOMAXPROCS if workers <= 0). The result is in the
// same order as surfaces.
//
// Every surface is validated before any work starts. If ctx is
// cancelled, surfaces that have not started are abandoned and ctx's
// error is returned.
func ComputeAll(ctx context.Context, env *Env, surfaces []Surface, workers int) ([]*EnergyGrid, error) {
	for _, s := range surfaces {
		if err := s.Validate(); err != nil {
			return nil, err
		}
	}
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	start := time.Now()
	grids := make([]*EnergyGrid, len(surfaces))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, s := range surfaces {
		if gctx.Err() != nil {
			break
		}
		i, s := i, s
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			grids[i] = env.Compute(s)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	env.logger().Debug("computed surface grids",
		"surfaces", len(surfaces), "workers", workers, "elapsed", time.Since(start))
	return grids, nil
}
