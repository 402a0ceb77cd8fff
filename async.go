package valar

import (
	"context"

	"golang.org/x/sync/errgroup"
)

///////////////////////////////////////////////////////////////////////////////
// Asynchronous fan-out
///////////////////////////////////////////////////////////////////////////////

// fanOut launches n sibling validations concurrently and waits for all of
// them. Nothing is cancelled when a sibling fails: accumulating semantics
// need every sibling's result regardless of the others' outcomes, so the
// workers never return an error to the group. Results come back indexed by
// position; callers merge them in declaration order, which keeps completion
// order out of the output.
func fanOut(ctx context.Context, n int, run func(ctx context.Context, i int) []FieldError) [][]FieldError {
	results := make([][]FieldError, n)
	collect(ctx, n, func(ctx context.Context, i int) {
		results[i] = run(ctx, i)
	})
	return results
}

func collect(ctx context.Context, n int, run func(ctx context.Context, i int)) {
	if n == 0 {
		return
	}
	g, ctx := errgroup.WithContext(ctx)
	for i := 0; i < n; i++ {
		g.Go(func() error {
			run(ctx, i)
			return nil
		})
	}
	// Workers never fail; Wait only joins.
	_ = g.Wait()
}
