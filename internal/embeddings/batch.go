package embeddings

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"
)

const defaultParallelism = 4

// EmbedEach issues one provider call per input, fanning out up to parallelism
// concurrent requests. There is no ordering dependency between the calls, but
// the returned slice always preserves input order. The first failure cancels
// the remaining calls.
func EmbedEach(ctx context.Context, p Provider, inputs []string, parallelism int) ([][]float32, error) {
	if p == nil {
		return nil, fmt.Errorf("no embeddings provider configured")
	}
	if parallelism <= 0 {
		parallelism = defaultParallelism
	}
	out := make([][]float32, len(inputs))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(parallelism)
	for i, input := range inputs {
		g.Go(func() error {
			vecs, err := p.Embed(gctx, []string{input})
			if err != nil {
				return fmt.Errorf("embed %q: %w", input, err)
			}
			if len(vecs) != 1 {
				return fmt.Errorf("embed %q: expected 1 embedding, got %d", input, len(vecs))
			}
			out[i] = vecs[0]
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}
