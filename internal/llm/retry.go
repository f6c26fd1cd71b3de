package llm

import (
	"context"
	"errors"
	"time"

	"github.com/cenkalti/backoff/v4"

	"github.com/quantmind-br/deckgen-go/internal/domain"
)

// Retrier wraps backoff with the retry policy for analysis attempts:
// malformed output and rate limits get another try, auth failures and
// context cancellation do not.
type Retrier struct {
	maxAttempts     int
	initialInterval time.Duration
	maxInterval     time.Duration
}

// RetrierOptions contains options for creating a Retrier
type RetrierOptions struct {
	MaxAttempts     int
	InitialInterval time.Duration
	MaxInterval     time.Duration
}

// NewRetrier creates a new Retrier
func NewRetrier(opts RetrierOptions) *Retrier {
	if opts.MaxAttempts <= 0 {
		opts.MaxAttempts = 3
	}
	if opts.InitialInterval <= 0 {
		opts.InitialInterval = 500 * time.Millisecond
	}
	if opts.MaxInterval <= 0 {
		opts.MaxInterval = 10 * time.Second
	}

	return &Retrier{
		maxAttempts:     opts.MaxAttempts,
		initialInterval: opts.InitialInterval,
		maxInterval:     opts.MaxInterval,
	}
}

// MaxAttempts returns the total number of attempts the retrier allows.
func (r *Retrier) MaxAttempts() int {
	return r.maxAttempts
}

// Execute runs op up to MaxAttempts times with exponential backoff,
// stopping early on non-retryable errors or context cancellation.
func (r *Retrier) Execute(ctx context.Context, op func() error) error {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = r.initialInterval
	b.MaxInterval = r.maxInterval

	policy := backoff.WithContext(
		backoff.WithMaxRetries(b, uint64(r.maxAttempts-1)), ctx)

	return backoff.Retry(func() error {
		err := op()
		if err == nil {
			return nil
		}
		if !isRetryable(err) {
			return backoff.Permanent(err)
		}
		return err
	}, policy)
}

func isRetryable(err error) bool {
	switch {
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return false
	case errors.Is(err, domain.ErrLLMAuthFailed):
		return false
	case errors.Is(err, domain.ErrAnalysisParse), errors.Is(err, domain.ErrAnalysisSchema):
		return true
	case errors.Is(err, domain.ErrLLMRateLimited):
		return true
	}

	var llmErr *domain.LLMError
	if errors.As(err, &llmErr) {
		// Server-side failures and transport errors are worth retrying.
		return llmErr.StatusCode == 0 || llmErr.StatusCode >= 500 || llmErr.StatusCode == 429
	}

	return true
}
