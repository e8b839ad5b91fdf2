package engine

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// lazySmp runs all workers on the shared transposition table.
// The helpers are stopped as soon as the main worker returns.
func (e *Engine) lazySmp(ctx context.Context) error {
	var g, gctx = errgroup.WithContext(ctx)
	gctx, cancel := context.WithCancel(gctx)
	defer cancel()
	for _, w := range e.workers {
		var w = w
		g.Go(func() error {
			if w.index == 0 {
				defer cancel()
			}
			return w.iterativeDeepening(gctx)
		})
	}
	return g.Wait()
}
