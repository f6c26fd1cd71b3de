package app

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quantmind-br/deckgen-go/internal/domain"
)

// Stub collaborators. Each one records its calls so tests can assert
// on ordering and cleanup guarantees.

type stubAcquirer struct {
	mu           sync.Mutex
	dir          string
	acquireErr   error
	acquireCalls int
	releases     int
}

func (a *stubAcquirer) Acquire(ctx context.Context, repoURL string) (*domain.WorkingCopy, error) {
	a.mu.Lock()
	a.acquireCalls++
	a.mu.Unlock()
	if a.acquireErr != nil {
		return nil, a.acquireErr
	}
	if err := os.MkdirAll(a.dir, 0755); err != nil {
		return nil, err
	}
	return &domain.WorkingCopy{Path: a.dir, Owner: "octocat", Repo: "Hello-World", SizeMB: 0.1}, nil
}

func (a *stubAcquirer) Release(wc *domain.WorkingCopy) {
	a.mu.Lock()
	a.releases++
	a.mu.Unlock()
	if wc != nil && wc.Path != "" {
		_ = os.RemoveAll(wc.Path)
	}
}

func (a *stubAcquirer) released() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.releases
}

func (a *stubAcquirer) acquired() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.acquireCalls
}

type stubDigester struct {
	mu     sync.Mutex
	output string
	err    error
	calls  int
}

func (d *stubDigester) Produce(ctx context.Context, wc *domain.WorkingCopy) (string, error) {
	d.mu.Lock()
	d.calls++
	d.mu.Unlock()
	return d.output, d.err
}

type stubAnalyzer struct {
	mu    sync.Mutex
	facts *domain.FactSet
	err   error
	calls int
	seen  string
}

func (a *stubAnalyzer) Analyze(ctx context.Context, digest string) (*domain.FactSet, error) {
	a.mu.Lock()
	a.calls++
	a.seen = digest
	a.mu.Unlock()
	if a.err != nil {
		return nil, a.err
	}
	return a.facts, nil
}

type stubRenderer struct {
	mu      sync.Mutex
	result  *domain.RenderResult
	err     error
	calls   int
	content string
	prefs   domain.RenderPreferences
}

func (r *stubRenderer) Generate(ctx context.Context, content string, prefs domain.RenderPreferences) (*domain.RenderResult, error) {
	r.mu.Lock()
	r.calls++
	r.content = content
	r.prefs = prefs
	r.mu.Unlock()
	if r.err != nil {
		return nil, r.err
	}
	return r.result, nil
}

func (r *stubRenderer) Export(ctx context.Context, presentationID, exportAs string) (*domain.RenderResult, error) {
	return r.result, r.err
}

type stubPrefsStore struct {
	mu       sync.Mutex
	mergeErr error
	merges   int
	loaded   *domain.PreferencesUpdate
}

func (s *stubPrefsStore) Merge(ctx context.Context, update domain.PreferencesUpdate) error {
	s.mu.Lock()
	s.merges++
	s.mu.Unlock()
	return s.mergeErr
}

func (s *stubPrefsStore) Load(ctx context.Context) (*domain.PreferencesUpdate, error) {
	if s.loaded == nil {
		return &domain.PreferencesUpdate{}, nil
	}
	return s.loaded, nil
}

func (s *stubPrefsStore) Close() error { return nil }

func completeFacts() *domain.FactSet {
	return &domain.FactSet{
		ProjectName:    "Hello-World",
		Tagline:        "The classic starter repo",
		Problem:        "Getting started is hard",
		Solution:       "A hello world",
		TechStack:      []string{"Git"},
		KeyFeatures:    []string{"Simplicity"},
		Innovation:     "None needed",
		Architecture:   "Single file",
		DemoHighlights: []string{"Opening the README"},
		FutureScope:    []string{"More greetings"},
	}
}

type pipelineFixture struct {
	pipeline *Pipeline
	acquirer *stubAcquirer
	digester *stubDigester
	analyzer *stubAnalyzer
	renderer *stubRenderer
	store    *stubPrefsStore
}

func newFixture(t *testing.T) *pipelineFixture {
	t.Helper()

	f := &pipelineFixture{
		acquirer: &stubAcquirer{dir: filepath.Join(t.TempDir(), "octocat_Hello-World_run1")},
		digester: &stubDigester{output: strings.Repeat("digest ", 100)},
		analyzer: &stubAnalyzer{facts: completeFacts()},
		renderer: &stubRenderer{result: &domain.RenderResult{
			PresentationID: "abc123",
			DownloadURL:    "https://example.com/deck.pptx",
			EditURL:        "https://example.com/edit/abc123",
		}},
		store: &stubPrefsStore{},
	}
	f.pipeline = NewPipeline(PipelineOptions{
		Acquirer:       f.acquirer,
		Digester:       f.digester,
		Analyzer:       f.analyzer,
		Renderer:       f.renderer,
		PrefsStore:     f.store,
		MaxDigestChars: 50000,
		Cleanup:        true,
	})
	return f
}

func validRequest() domain.GenerationRequest {
	return domain.GenerationRequest{
		RepoURL:    "https://github.com/octocat/Hello-World",
		SlideCount: 8,
		ExportAs:   "pptx",
	}
}

func TestPipelineRun(t *testing.T) {
	t.Parallel()

	t.Run("end to end success", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t)
		req := validRequest()

		result, err := f.pipeline.Run(context.Background(), &req)
		require.NoError(t, err)

		assert.Equal(t, "success", result.Status)
		assert.Equal(t, "abc123", result.PresentationID)
		assert.Equal(t, "https://example.com/deck.pptx", result.DownloadURL)
		assert.GreaterOrEqual(t, result.ProcessingTime, time.Duration(0))
		assert.Contains(t, result.Message, "octocat/Hello-World")

		// Formatted content flowed to the renderer.
		assert.Contains(t, f.renderer.content, "# Hello-World")
		assert.Equal(t, 8, f.renderer.prefs.SlideCount)
		assert.Equal(t, "pptx", f.renderer.prefs.ExportAs)

		// Working copy cleaned up exactly once.
		assert.Equal(t, 1, f.acquirer.released())
		assert.NoDirExists(t, f.acquirer.dir)

		// Explicit preferences persisted.
		assert.Equal(t, 1, f.store.merges)
	})

	t.Run("invalid request touches no collaborators", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t)
		req := validRequest()
		req.RepoURL = "https://gitlab.com/owner/repo"

		_, err := f.pipeline.Run(context.Background(), &req)
		require.Error(t, err)

		var verr *domain.ValidationError
		assert.ErrorAs(t, err, &verr)
		assert.Zero(t, f.acquirer.acquired())
		assert.Zero(t, f.digester.calls)
		assert.Zero(t, f.analyzer.calls)
		assert.Zero(t, f.renderer.calls)
		assert.Zero(t, f.store.merges)
	})

	t.Run("slide count out of bounds rejected", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t)
		req := validRequest()
		req.SlideCount = 30

		_, err := f.pipeline.Run(context.Background(), &req)
		assert.Error(t, err)
		assert.Zero(t, f.acquirer.acquired())
	})

	t.Run("acquire failure tagged with stage", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t)
		f.acquirer.acquireErr = domain.ErrRepoNotFound
		req := validRequest()

		_, err := f.pipeline.Run(context.Background(), &req)
		require.Error(t, err)
		assert.Equal(t, domain.StageAcquire, domain.FailedStage(err))
		assert.ErrorIs(t, err, domain.ErrRepoNotFound)
		assert.Zero(t, f.acquirer.released(), "nothing to release when acquisition failed")
	})

	t.Run("digest failure releases the working copy", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t)
		f.digester.err = domain.ErrDigestToolFailed
		req := validRequest()

		_, err := f.pipeline.Run(context.Background(), &req)
		require.Error(t, err)
		assert.Equal(t, domain.StageDigest, domain.FailedStage(err))
		assert.Equal(t, 1, f.acquirer.released())
		assert.Zero(t, f.analyzer.calls)
	})

	t.Run("analysis failure releases the working copy", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t)
		f.analyzer.err = &domain.AnalysisError{Attempts: 3, Err: domain.ErrAnalysisExhausted}
		req := validRequest()

		_, err := f.pipeline.Run(context.Background(), &req)
		require.Error(t, err)
		assert.Equal(t, domain.StageAnalyze, domain.FailedStage(err))
		assert.Equal(t, 1, f.acquirer.released())
		assert.Zero(t, f.renderer.calls)
	})

	t.Run("render failure releases the working copy", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t)
		f.renderer.err = domain.ErrRenderRejected
		req := validRequest()

		_, err := f.pipeline.Run(context.Background(), &req)
		require.Error(t, err)
		assert.Equal(t, domain.StageRender, domain.FailedStage(err))
		assert.Equal(t, 1, f.acquirer.released())
	})

	t.Run("digest is truncated before analysis", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t)
		f.digester.output = strings.Repeat("a", 1000)
		f.pipeline.maxDigestChars = 100
		req := validRequest()

		_, err := f.pipeline.Run(context.Background(), &req)
		require.NoError(t, err)
		assert.Less(t, len(f.analyzer.seen), 200)
		assert.Contains(t, f.analyzer.seen, "truncated")
	})

	t.Run("keep flag skips success cleanup", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t)
		req := validRequest()
		req.KeepWorkingCopy = true

		_, err := f.pipeline.Run(context.Background(), &req)
		require.NoError(t, err)
		assert.Zero(t, f.acquirer.released())
		assert.DirExists(t, f.acquirer.dir)
	})

	t.Run("cleanup disabled skips success cleanup", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t)
		f.pipeline.cleanup = false
		req := validRequest()

		_, err := f.pipeline.Run(context.Background(), &req)
		require.NoError(t, err)
		assert.Zero(t, f.acquirer.released())
	})

	t.Run("preference persistence failure does not abort", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t)
		f.store.mergeErr = errors.New("disk full")
		req := validRequest()

		result, err := f.pipeline.Run(context.Background(), &req)
		require.NoError(t, err)
		assert.Equal(t, "abc123", result.PresentationID)
	})

	t.Run("runs without a preference store", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t)
		f.pipeline.prefsStore = nil
		req := validRequest()

		_, err := f.pipeline.Run(context.Background(), &req)
		assert.NoError(t, err)
	})
}

func TestPipelineExport(t *testing.T) {
	t.Parallel()

	t.Run("delegates to renderer", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t)
		result, err := f.pipeline.Export(context.Background(), "abc123", "pdf")
		require.NoError(t, err)
		assert.Equal(t, "abc123", result.PresentationID)
	})

	t.Run("empty presentation id rejected", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t)
		_, err := f.pipeline.Export(context.Background(), "", "pdf")
		assert.Error(t, err)
	})

	t.Run("unknown format rejected", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t)
		_, err := f.pipeline.Export(context.Background(), "abc123", "keynote")
		assert.Error(t, err)
	})
}

func TestApplyStoredPreferences(t *testing.T) {
	t.Parallel()

	tone := "casual"
	slides := 12

	t.Run("fills unset fields only", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t)
		f.store.loaded = &domain.PreferencesUpdate{Tone: &tone, SlideCount: &slides}

		req := domain.GenerationRequest{
			RepoURL: "https://github.com/octocat/Hello-World",
			Tone:    "professional",
		}
		f.pipeline.ApplyStoredPreferences(context.Background(), &req)

		assert.Equal(t, "professional", req.Tone, "explicit request value wins")
		assert.Equal(t, 12, req.SlideCount, "unset field takes the stored value")
	})

	t.Run("no store is a no-op", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t)
		f.pipeline.prefsStore = nil

		req := domain.GenerationRequest{RepoURL: "https://github.com/octocat/Hello-World"}
		f.pipeline.ApplyStoredPreferences(context.Background(), &req)
		assert.Zero(t, req.SlideCount)
	})
}
