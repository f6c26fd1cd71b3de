// Package app wires the pipeline stages together: acquire, digest,
// analyze, format, render.
package app

import (
	"context"
	"fmt"
	"time"

	"github.com/quantmind-br/deckgen-go/internal/content"
	"github.com/quantmind-br/deckgen-go/internal/digest"
	"github.com/quantmind-br/deckgen-go/internal/domain"
	"github.com/quantmind-br/deckgen-go/internal/utils"
)

// Pipeline runs one repository through the full generation sequence.
// Stages run strictly in order; the first failure aborts the run with
// the failing stage recorded on the error.
type Pipeline struct {
	acquirer       domain.Acquirer
	digester       domain.DigestProducer
	analyzer       domain.Analyzer
	renderer       domain.RenderService
	prefsStore     domain.PreferencesStore
	maxDigestChars int
	cleanup        bool
	logger         *utils.Logger
}

// PipelineOptions contains options for creating a Pipeline
type PipelineOptions struct {
	Acquirer       domain.Acquirer
	Digester       domain.DigestProducer
	Analyzer       domain.Analyzer
	Renderer       domain.RenderService
	PrefsStore     domain.PreferencesStore // optional
	MaxDigestChars int
	Cleanup        bool
	Logger         *utils.Logger
}

// NewPipeline creates a new Pipeline
func NewPipeline(opts PipelineOptions) *Pipeline {
	logger := opts.Logger
	if logger == nil {
		logger = utils.NewDefaultLogger()
	}

	return &Pipeline{
		acquirer:       opts.Acquirer,
		digester:       opts.Digester,
		analyzer:       opts.Analyzer,
		renderer:       opts.Renderer,
		prefsStore:     opts.PrefsStore,
		maxDigestChars: opts.MaxDigestChars,
		cleanup:        opts.Cleanup,
		logger:         logger.WithComponent("pipeline"),
	}
}

// Run executes the pipeline for one request. The request is validated
// before any collaborator is touched; an acquired working copy is
// released exactly once, on failure paths always and on success unless
// the caller asked to keep it.
func (p *Pipeline) Run(ctx context.Context, req *domain.GenerationRequest) (*domain.GenerationResult, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	p.persistPreferences(ctx, req)

	start := time.Now()
	log := p.logger.WithRepo(req.RepoURL)

	log.Info().Msg("Starting generation")

	wc, err := p.acquirer.Acquire(ctx, req.RepoURL)
	if err != nil {
		return nil, domain.NewPipelineError(domain.StageAcquire, req.RepoURL, err)
	}

	released := false
	release := func() {
		if !released {
			released = true
			p.acquirer.Release(wc)
		}
	}
	defer release()

	rawDigest, err := p.digester.Produce(ctx, wc)
	if err != nil {
		return nil, domain.NewPipelineError(domain.StageDigest, req.RepoURL, err)
	}
	repoDigest := digest.Truncate(rawDigest, p.maxDigestChars)

	facts, err := p.analyzer.Analyze(ctx, repoDigest)
	if err != nil {
		return nil, domain.NewPipelineError(domain.StageAnalyze, req.RepoURL, err)
	}

	markdown := content.Format(facts)

	rendered, err := p.renderer.Generate(ctx, markdown, req.Preferences())
	if err != nil {
		return nil, domain.NewPipelineError(domain.StageRender, req.RepoURL, err)
	}

	if req.KeepWorkingCopy || !p.cleanup {
		released = true
		log.Info().Str("path", wc.Path).Msg("Keeping working copy")
	} else {
		release()
	}

	elapsed := time.Since(start)
	log.Info().
		Str("presentation_id", rendered.PresentationID).
		Dur("elapsed", elapsed).
		Msg("Generation complete")

	return &domain.GenerationResult{
		Status:          "success",
		PresentationID:  rendered.PresentationID,
		DownloadURL:     rendered.DownloadURL,
		EditURL:         rendered.EditURL,
		CreditsConsumed: rendered.CreditsConsumed,
		ProcessingTime:  elapsed,
		Message: fmt.Sprintf("Generated presentation for %s/%s in %s",
			wc.Owner, wc.Repo, elapsed.Round(time.Millisecond)),
	}, nil
}

// Export re-exports an existing presentation in another format.
func (p *Pipeline) Export(ctx context.Context, presentationID, exportAs string) (*domain.RenderResult, error) {
	if presentationID == "" {
		return nil, domain.NewValidationError("presentation_id", "cannot be empty")
	}
	if exportAs != "" && !domain.IsValidExportFormat(exportAs) {
		return nil, domain.NewValidationError("export_as", "must be one of: pptx, pdf")
	}
	return p.renderer.Export(ctx, presentationID, exportAs)
}

// persistPreferences records the request's explicit preferences for
// future runs. Failures are logged and never abort the run.
func (p *Pipeline) persistPreferences(ctx context.Context, req *domain.GenerationRequest) {
	if p.prefsStore == nil {
		return
	}
	if err := p.prefsStore.Merge(ctx, req.PreferencesUpdate()); err != nil {
		p.logger.Warn().Err(err).Msg("Failed to persist preferences")
	}
}
