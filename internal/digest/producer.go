package digest

import (
	"context"
	"fmt"

	"github.com/quantmind-br/deckgen-go/internal/domain"
	"github.com/quantmind-br/deckgen-go/internal/utils"
)

// TruncationMarker is appended when a digest is cut at the length cap.
const TruncationMarker = "\n\n... [Content truncated due to size limits] ..."

// Producer generates bounded textual digests of working copies.
type Producer struct {
	runner   ToolRunner
	minChars int
	logger   *utils.Logger
}

// ProducerOptions contains options for creating a Producer
type ProducerOptions struct {
	Runner   ToolRunner
	MinChars int
	Logger   *utils.Logger
}

// NewProducer creates a new Producer
func NewProducer(opts ProducerOptions) *Producer {
	minChars := opts.MinChars
	if minChars <= 0 {
		minChars = 100
	}

	logger := opts.Logger
	if logger == nil {
		logger = utils.NewDefaultLogger()
	}

	return &Producer{
		runner:   opts.Runner,
		minChars: minChars,
		logger:   logger.WithComponent("digest"),
	}
}

// Produce runs the digest tool against the working copy. Output below
// the plausibility floor is treated as a silent tool failure.
func (p *Producer) Produce(ctx context.Context, wc *domain.WorkingCopy) (string, error) {
	p.logger.Info().Str("path", wc.Path).Msg("Generating digest")

	content, err := p.runner.Run(ctx, wc.Path)
	if err != nil {
		return "", err
	}

	if len(content) < p.minChars {
		return "", fmt.Errorf("%w: %d chars (minimum %d)",
			domain.ErrDigestTooSmall, len(content), p.minChars)
	}

	p.logger.Info().Int("chars", len(content)).Msg("Digest generated")
	return content, nil
}

// Truncate caps a digest at maxLength characters, appending a visible
// marker. Pure and idempotent: short input passes through untouched,
// and re-truncating already-truncated output yields the same bytes.
func Truncate(digest string, maxLength int) string {
	if maxLength <= 0 || len(digest) <= maxLength {
		return digest
	}
	return digest[:maxLength] + TruncationMarker
}
