package app

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/quantmind-br/deckgen-go/internal/domain"
	"github.com/quantmind-br/deckgen-go/internal/manifest"
	"github.com/quantmind-br/deckgen-go/internal/utils"
)

// BatchResult is the outcome of one manifest source.
type BatchResult struct {
	URL    string
	Result *domain.GenerationResult
	Err    error
}

// RunBatch processes every manifest source through the pipeline,
// honoring the manifest's concurrency and continue-on-error settings.
// Results come back in source order.
func (p *Pipeline) RunBatch(ctx context.Context, m *manifest.Manifest, base domain.GenerationRequest, showProgress bool) ([]BatchResult, error) {
	results := make([]BatchResult, len(m.Sources))
	for i, src := range m.Sources {
		results[i] = BatchResult{URL: src.URL}
	}

	var bar interface{ Add(int) error }
	if showProgress {
		bar = utils.NewProgressBar(len(m.Sources), utils.DescGenerating)
	}

	batchCtx := ctx
	var cancel context.CancelFunc
	if !m.Options.ContinueOnError {
		batchCtx, cancel = context.WithCancel(ctx)
		defer cancel()
	}

	var mu sync.Mutex
	indexes := make([]int, len(m.Sources))
	for i := range indexes {
		indexes[i] = i
	}

	errs := utils.ParallelForEach(batchCtx, indexes, m.Options.Concurrency, func(ctx context.Context, idx int) error {
		src := m.Sources[idx]
		req := src.Request(base)

		result, err := p.Run(ctx, &req)

		mu.Lock()
		results[idx].Result = result
		results[idx].Err = err
		mu.Unlock()

		if bar != nil {
			_ = bar.Add(1)
		}

		if err != nil {
			p.logger.Error().Err(err).Str("repo", src.URL).Msg("Batch source failed")
			if !m.Options.ContinueOnError {
				cancel()
			}
			return err
		}
		return nil
	})

	if ctx.Err() != nil {
		return results, ctx.Err()
	}

	if err := utils.FirstError(errs); err != nil && !m.Options.ContinueOnError {
		return results, fmt.Errorf("batch aborted: %w", err)
	}

	var failed int
	for _, r := range results {
		if r.Err != nil && !errors.Is(r.Err, context.Canceled) {
			failed++
		}
	}
	if failed > 0 {
		p.logger.Warn().
			Int("failed", failed).
			Int("total", len(m.Sources)).
			Msg("Batch finished with failures")
	}

	return results, nil
}
