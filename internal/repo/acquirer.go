package repo

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/transport"
	githttp "github.com/go-git/go-git/v5/plumbing/transport/http"
	"github.com/google/uuid"

	"github.com/quantmind-br/deckgen-go/internal/domain"
	"github.com/quantmind-br/deckgen-go/internal/utils"
)

// Acquirer produces local working copies of remote repositories. Each
// checkout lands in a run-scoped directory so concurrent runs against
// the same repository never collide.
type Acquirer struct {
	client       GitClient
	tempDir      string
	maxSizeMB    float64
	cloneTimeout time.Duration
	logger       *utils.Logger
	runID        func() string
}

// AcquirerOptions contains options for creating an Acquirer
type AcquirerOptions struct {
	Client       GitClient
	TempDir      string
	MaxSizeMB    float64
	CloneTimeout time.Duration
	Logger       *utils.Logger
	RunID        func() string // injectable for tests
}

// NewAcquirer creates a new Acquirer
func NewAcquirer(opts AcquirerOptions) *Acquirer {
	client := opts.Client
	if client == nil {
		client = NewClient()
	}

	runID := opts.RunID
	if runID == nil {
		runID = func() string { return uuid.NewString()[:8] }
	}

	logger := opts.Logger
	if logger == nil {
		logger = utils.NewDefaultLogger()
	}

	return &Acquirer{
		client:       client,
		tempDir:      opts.TempDir,
		maxSizeMB:    opts.MaxSizeMB,
		cloneTimeout: opts.CloneTimeout,
		logger:       logger.WithComponent("acquirer"),
		runID:        runID,
	}
}

// Acquire clones the repository into a fresh run-scoped directory,
// enforces the size ceiling, and returns the working copy. No retries
// happen at this layer.
func (a *Acquirer) Acquire(ctx context.Context, repoURL string) (*domain.WorkingCopy, error) {
	info, err := ParseRepoURL(repoURL)
	if err != nil {
		return nil, err
	}

	if err := utils.EnsureDir(a.tempDir); err != nil {
		return nil, fmt.Errorf("failed to create temp dir: %w", err)
	}

	dirName := fmt.Sprintf("%s_%s_%s", info.Owner, utils.SanitizeRepoName(info.Repo), a.runID())
	clonePath := filepath.Join(a.tempDir, dirName)

	// Remove any stale directory from an earlier attempt of this run
	// so retries stay idempotent.
	if _, err := os.Stat(clonePath); err == nil {
		a.logger.Info().Str("path", clonePath).Msg("Removing existing directory")
		if err := os.RemoveAll(clonePath); err != nil {
			return nil, fmt.Errorf("failed to remove stale directory: %w", err)
		}
	}

	a.logger.Info().Str("repo", info.FullName()).Msg("Cloning repository")

	cloneCtx := ctx
	if a.cloneTimeout > 0 {
		var cancel context.CancelFunc
		cloneCtx, cancel = context.WithTimeout(ctx, a.cloneTimeout)
		defer cancel()
	}

	cloneOpts := &git.CloneOptions{
		URL:          info.URL,
		Depth:        1,
		SingleBranch: true,
	}
	if token := os.Getenv("GITHUB_TOKEN"); token != "" {
		cloneOpts.Auth = &githttp.BasicAuth{
			Username: "token",
			Password: token,
		}
	}

	if _, err := a.client.PlainCloneContext(cloneCtx, clonePath, false, cloneOpts); err != nil {
		_ = utils.RemoveDirQuiet(clonePath)
		return nil, a.mapCloneError(ctx, cloneCtx, info, err)
	}

	sizeMB, err := utils.DirSizeMB(clonePath)
	if err != nil {
		_ = utils.RemoveDirQuiet(clonePath)
		return nil, fmt.Errorf("failed to compute checkout size: %w", err)
	}

	if sizeMB > a.maxSizeMB {
		_ = utils.RemoveDirQuiet(clonePath)
		return nil, fmt.Errorf("%w: %.1fMB exceeds %.0fMB ceiling",
			domain.ErrRepoTooLarge, sizeMB, a.maxSizeMB)
	}

	a.logger.Info().
		Str("repo", info.FullName()).
		Str("path", clonePath).
		Float64("size_mb", sizeMB).
		Msg("Repository cloned")

	return &domain.WorkingCopy{
		Path:   clonePath,
		Owner:  info.Owner,
		Repo:   info.Repo,
		SizeMB: sizeMB,
	}, nil
}

// Release deletes the working copy. Idempotent; deletion errors are
// logged, never propagated, because Release runs on failure paths.
func (a *Acquirer) Release(wc *domain.WorkingCopy) {
	if wc == nil || wc.Path == "" {
		return
	}
	if _, err := os.Stat(wc.Path); os.IsNotExist(err) {
		return
	}
	a.logger.Info().Str("path", wc.Path).Msg("Cleaning up working copy")
	if err := os.RemoveAll(wc.Path); err != nil {
		a.logger.Warn().Err(err).Str("path", wc.Path).Msg("Failed to remove working copy")
	}
}

func (a *Acquirer) mapCloneError(ctx, cloneCtx context.Context, info *RepoInfo, err error) error {
	switch {
	case ctx.Err() != nil:
		return ctx.Err()
	case errors.Is(cloneCtx.Err(), context.DeadlineExceeded):
		return fmt.Errorf("%w: %s", domain.ErrCloneTimeout, info.FullName())
	case errors.Is(err, transport.ErrRepositoryNotFound):
		return fmt.Errorf("%w: %s", domain.ErrRepoNotFound, info.FullName())
	case errors.Is(err, transport.ErrAuthenticationRequired),
		errors.Is(err, transport.ErrAuthorizationFailed):
		return fmt.Errorf("%w: %s", domain.ErrRepoAccessDenied, info.FullName())
	default:
		return fmt.Errorf("clone failed for %s: %w", info.FullName(), err)
	}
}
