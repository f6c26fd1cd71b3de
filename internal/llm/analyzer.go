package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/quantmind-br/deckgen-go/internal/domain"
	"github.com/quantmind-br/deckgen-go/internal/utils"
)

// Analyzer extracts a structured fact set from a repository digest by
// prompting an LLM and validating its JSON output. Malformed or
// incomplete answers are retried with backoff up to the attempt cap.
type Analyzer struct {
	provider domain.LLMProvider
	retrier  *Retrier
	logger   *utils.Logger
}

// AnalyzerOptions contains options for creating an Analyzer
type AnalyzerOptions struct {
	Provider domain.LLMProvider
	Retrier  *Retrier
	Logger   *utils.Logger
}

// NewAnalyzer creates a new Analyzer
func NewAnalyzer(opts AnalyzerOptions) *Analyzer {
	retrier := opts.Retrier
	if retrier == nil {
		retrier = NewRetrier(RetrierOptions{})
	}

	logger := opts.Logger
	if logger == nil {
		logger = utils.NewDefaultLogger()
	}

	return &Analyzer{
		provider: opts.Provider,
		retrier:  retrier,
		logger:   logger.WithComponent("analyzer"),
	}
}

// Analyze prompts the model with the digest and returns the validated
// fact set. Each attempt issues a fresh completion; a response only
// counts as success when all required keys are present and non-empty.
func (a *Analyzer) Analyze(ctx context.Context, digest string) (*domain.FactSet, error) {
	req := &domain.LLMRequest{
		Messages: []domain.LLMMessage{
			{Role: domain.RoleSystem, Content: systemPrompt},
			{Role: domain.RoleUser, Content: analysisPrompt(digest)},
		},
	}

	var (
		factSet     *domain.FactSet
		attempts    int
		lastMissing []string
	)

	err := a.retrier.Execute(ctx, func() error {
		attempts++
		lastMissing = nil

		a.logger.Debug().
			Int("attempt", attempts).
			Int("max_attempts", a.retrier.MaxAttempts()).
			Msg("Requesting analysis")

		resp, err := a.provider.Complete(ctx, req)
		if err != nil {
			a.logger.Warn().Err(err).Int("attempt", attempts).Msg("Completion failed")
			return err
		}

		parsed, err := parseFactSet(resp.Content)
		if err != nil {
			a.logger.Warn().Err(err).Int("attempt", attempts).Msg("Unparseable analysis output")
			return err
		}

		if missing := parsed.Validate(); len(missing) > 0 {
			lastMissing = missing
			a.logger.Warn().
				Strs("missing_keys", missing).
				Int("attempt", attempts).
				Msg("Incomplete analysis output")
			return fmt.Errorf("%w: missing keys [%s]",
				domain.ErrAnalysisSchema, strings.Join(missing, ", "))
		}

		factSet = parsed
		return nil
	})

	if err != nil {
		return nil, &domain.AnalysisError{
			Attempts:    attempts,
			MissingKeys: lastMissing,
			Err:         fmt.Errorf("%w: %w", domain.ErrAnalysisExhausted, err),
		}
	}

	a.logger.Info().
		Int("attempts", attempts).
		Str("project", factSet.ProjectName).
		Msg("Analysis complete")

	return factSet, nil
}

// Close releases the underlying provider.
func (a *Analyzer) Close() error {
	if a.provider != nil {
		return a.provider.Close()
	}
	return nil
}
