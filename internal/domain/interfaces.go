package domain

import "context"

// Acquirer produces and tears down local working copies of remote
// repositories. Release must be idempotent and must never return an
// error into a failure path.
type Acquirer interface {
	// Acquire clones the repository into a fresh run-scoped directory
	Acquire(ctx context.Context, repoURL string) (*WorkingCopy, error)
	// Release deletes the working copy; safe to call more than once
	Release(wc *WorkingCopy)
}

// DigestProducer turns a working copy into a bounded textual digest.
type DigestProducer interface {
	// Produce runs the external digest tool against the working copy
	Produce(ctx context.Context, wc *WorkingCopy) (string, error)
}

// Analyzer extracts a schema-validated FactSet from a digest, retrying
// around the non-deterministic text-generation call.
type Analyzer interface {
	Analyze(ctx context.Context, digest string) (*FactSet, error)
}

// RenderService submits formatted content to the external presentation
// renderer. Render requests may be billable, so implementations never
// retry on their own.
type RenderService interface {
	// Generate submits one synchronous render request
	Generate(ctx context.Context, content string, prefs RenderPreferences) (*RenderResult, error)
	// Export re-exports an existing presentation in another format
	Export(ctx context.Context, presentationID, exportAs string) (*RenderResult, error)
}

// PreferencesStore is a durable best-effort key-value overlay of the
// last-used presentation preferences. Merge overwrites only the fields
// set in the update; concurrent writers race and the last one wins.
type PreferencesStore interface {
	Merge(ctx context.Context, update PreferencesUpdate) error
	Load(ctx context.Context) (*PreferencesUpdate, error)
	Close() error
}

// LLMProvider defines the interface for LLM interactions
type LLMProvider interface {
	// Name returns the provider name (openai, google)
	Name() string
	// Complete sends a request and returns the response
	Complete(ctx context.Context, req *LLMRequest) (*LLMResponse, error)
	// Close releases resources
	Close() error
}
