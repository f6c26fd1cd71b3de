package app

import (
	"context"
	"fmt"
	"os"

	"github.com/quantmind-br/deckgen-go/internal/config"
	"github.com/quantmind-br/deckgen-go/internal/digest"
	"github.com/quantmind-br/deckgen-go/internal/domain"
	"github.com/quantmind-br/deckgen-go/internal/llm"
	"github.com/quantmind-br/deckgen-go/internal/prefs"
	"github.com/quantmind-br/deckgen-go/internal/render"
	"github.com/quantmind-br/deckgen-go/internal/repo"
	"github.com/quantmind-br/deckgen-go/internal/utils"
)

// CloseFunc releases resources held by a built pipeline.
type CloseFunc func() error

// Build wires a Pipeline from configuration: git acquirer, digest
// tool, LLM analyzer, render client, and the optional preference
// store. API keys fall back to conventional environment variables when
// the config leaves them empty.
func Build(cfg *config.Config, logger *utils.Logger) (*Pipeline, CloseFunc, error) {
	if logger == nil {
		logger = utils.NewDefaultLogger()
	}

	acquirer := repo.NewAcquirer(repo.AcquirerOptions{
		TempDir:      cfg.Repo.TempDir,
		MaxSizeMB:    cfg.Repo.MaxSizeMB,
		CloneTimeout: cfg.Repo.CloneTimeout,
		Logger:       logger,
	})

	runner := digest.NewCLIRunner(digest.CLIRunnerOptions{
		Binary:        cfg.Digest.Binary,
		MaxDepth:      cfg.Digest.MaxDepth,
		MaxFileSizeKB: cfg.Digest.MaxFileSizeKB,
		Ignore:        cfg.Digest.IgnorePatterns,
		Timeout:       cfg.Digest.Timeout,
	})
	producer := digest.NewProducer(digest.ProducerOptions{
		Runner:   runner,
		MinChars: cfg.Digest.MinChars,
		Logger:   logger,
	})

	llmCfg := cfg.LLM
	if llmCfg.APIKey == "" {
		llmCfg.APIKey = llmKeyFromEnv(llmCfg.Provider)
	}

	provider, err := llm.NewProviderFromConfig(&llmCfg)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to configure LLM provider: %w", err)
	}

	analyzer := llm.NewAnalyzer(llm.AnalyzerOptions{
		Provider: provider,
		Retrier:  llm.NewRetrier(llm.RetrierOptions{MaxAttempts: cfg.LLM.MaxAttempts}),
		Logger:   logger,
	})

	renderKey := cfg.Render.APIKey
	if renderKey == "" {
		renderKey = os.Getenv("PRESENTON_API_KEY")
	}

	renderer := render.NewClient(render.ClientOptions{
		BaseURL:       cfg.Render.BaseURL,
		APIKey:        renderKey,
		Timeout:       cfg.Render.Timeout,
		ExportTimeout: cfg.Render.ExportTimeout,
		Defaults:      cfg.Defaults,
		Logger:        logger,
	})

	var store domain.PreferencesStore
	if cfg.Prefs.Enabled {
		badgerStore, err := prefs.NewBadgerStore(prefs.BadgerStoreOptions{
			Directory: utils.ExpandPath(cfg.Prefs.Directory),
			Logger:    logger,
		})
		if err != nil {
			// The overlay is best-effort; run without it.
			logger.Warn().Err(err).Msg("Preference store unavailable")
		} else {
			store = badgerStore
		}
	}

	pipeline := NewPipeline(PipelineOptions{
		Acquirer:       acquirer,
		Digester:       producer,
		Analyzer:       analyzer,
		Renderer:       renderer,
		PrefsStore:     store,
		MaxDigestChars: cfg.Digest.MaxChars,
		Cleanup:        cfg.Cleanup,
		Logger:         logger,
	})

	closeFn := func() error {
		err := analyzer.Close()
		if store != nil {
			if cerr := store.Close(); err == nil {
				err = cerr
			}
		}
		return err
	}

	return pipeline, closeFn, nil
}

// ApplyStoredPreferences fills unset request fields from the durable
// preference overlay. Best-effort: a missing or failing store leaves
// the request untouched.
func (p *Pipeline) ApplyStoredPreferences(ctx context.Context, req *domain.GenerationRequest) {
	if p.prefsStore == nil {
		return
	}

	stored, err := p.prefsStore.Load(ctx)
	if err != nil {
		p.logger.Warn().Err(err).Msg("Failed to load stored preferences")
		return
	}

	if req.Tone == "" && stored.Tone != nil {
		req.Tone = *stored.Tone
	}
	if req.Verbosity == "" && stored.Verbosity != nil {
		req.Verbosity = *stored.Verbosity
	}
	if req.Template == "" && stored.Template != nil {
		req.Template = *stored.Template
	}
	if req.ExportAs == "" && stored.ExportAs != nil {
		req.ExportAs = *stored.ExportAs
	}
	if req.SlideCount == 0 && stored.SlideCount != nil {
		req.SlideCount = *stored.SlideCount
	}
	if req.IncludeTitle == nil && stored.IncludeTitle != nil {
		req.IncludeTitle = stored.IncludeTitle
	}
	if req.IncludeTOC == nil && stored.IncludeTOC != nil {
		req.IncludeTOC = stored.IncludeTOC
	}
}

func llmKeyFromEnv(provider string) string {
	switch provider {
	case "google":
		for _, name := range []string{"GEMINI_API_KEY", "GOOGLE_API_KEY"} {
			if v := os.Getenv(name); v != "" {
				return v
			}
		}
	case "openai":
		return os.Getenv("OPENAI_API_KEY")
	}
	return ""
}
