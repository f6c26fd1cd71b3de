package domain

import (
	"errors"
	"fmt"
	"strings"
)

// Pipeline stages, used to tag terminal failures with their origin.
type Stage string

const (
	StageValidate Stage = "validate"
	StageAcquire  Stage = "acquire"
	StageDigest   Stage = "digest"
	StageAnalyze  Stage = "analyze"
	StageFormat   Stage = "format"
	StageRender   Stage = "render"
)

// Acquisition sentinel errors
var (
	// ErrInvalidRepoURL indicates the URL does not name a host/owner/repo repository
	ErrInvalidRepoURL = errors.New("invalid repository URL")

	// ErrRepoNotFound indicates the remote repository does not exist
	ErrRepoNotFound = errors.New("repository not found")

	// ErrRepoAccessDenied indicates the remote repository is private or requires auth
	ErrRepoAccessDenied = errors.New("repository access denied")

	// ErrRepoTooLarge indicates the checkout exceeded the configured size ceiling
	ErrRepoTooLarge = errors.New("repository size exceeds limit")

	// ErrCloneTimeout indicates the fetch exceeded its bounded duration
	ErrCloneTimeout = errors.New("repository clone timed out")
)

// Digest sentinel errors
var (
	// ErrDigestToolFailed indicates the external digest tool exited abnormally
	ErrDigestToolFailed = errors.New("digest tool failed")

	// ErrDigestTooSmall indicates the digest output is below the plausibility floor
	ErrDigestTooSmall = errors.New("digest output too small")

	// ErrDigestTimeout indicates digest generation exceeded its bounded duration
	ErrDigestTimeout = errors.New("digest generation timed out")
)

// Analysis sentinel errors
var (
	// ErrAnalysisParse indicates the model response was not valid structured data
	ErrAnalysisParse = errors.New("analysis response is not valid JSON")

	// ErrAnalysisSchema indicates the parsed response is missing required keys
	ErrAnalysisSchema = errors.New("analysis response missing required keys")

	// ErrAnalysisExhausted indicates all analysis attempts were consumed
	ErrAnalysisExhausted = errors.New("analysis failed after all attempts")
)

// Render sentinel errors
var (
	// ErrRenderTimeout indicates the render request exceeded its bounded duration
	ErrRenderTimeout = errors.New("render request timed out")

	// ErrRenderRejected indicates the render service returned a non-success response
	ErrRenderRejected = errors.New("render request rejected")

	// ErrRenderTransport indicates a connectivity failure reaching the render service
	ErrRenderTransport = errors.New("render service unreachable")
)

// LLM sentinel errors
var (
	// ErrLLMNotConfigured indicates LLM provider is not configured
	ErrLLMNotConfigured = errors.New("LLM provider not configured")

	// ErrLLMMissingAPIKey indicates API key is required but not provided
	ErrLLMMissingAPIKey = errors.New("LLM API key is required")

	// ErrLLMMissingModel indicates model is required but not provided
	ErrLLMMissingModel = errors.New("LLM model is required")

	// ErrLLMInvalidProvider indicates an invalid provider type
	ErrLLMInvalidProvider = errors.New("invalid LLM provider")

	// ErrLLMRequestFailed indicates the LLM request failed
	ErrLLMRequestFailed = errors.New("LLM request failed")

	// ErrLLMRateLimited indicates rate limit was exceeded
	ErrLLMRateLimited = errors.New("LLM rate limit exceeded")

	// ErrLLMAuthFailed indicates authentication failed
	ErrLLMAuthFailed = errors.New("LLM authentication failed")
)

// ValidationError represents a request validation error
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error for %s: %s", e.Field, e.Message)
}

// NewValidationError creates a new ValidationError
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{
		Field:   field,
		Message: message,
	}
}

// PipelineError is the single terminal failure of a run, carrying the
// originating stage and the underlying cause.
type PipelineError struct {
	Stage Stage
	Repo  string
	Err   error
}

func (e *PipelineError) Error() string {
	if e.Repo != "" {
		return fmt.Sprintf("stage %s failed for %s: %v", e.Stage, e.Repo, e.Err)
	}
	return fmt.Sprintf("stage %s failed: %v", e.Stage, e.Err)
}

func (e *PipelineError) Unwrap() error {
	return e.Err
}

// NewPipelineError creates a new PipelineError
func NewPipelineError(stage Stage, repo string, err error) *PipelineError {
	return &PipelineError{Stage: stage, Repo: repo, Err: err}
}

// FailedStage returns the stage a pipeline error originated from,
// or an empty Stage for errors raised outside the pipeline.
func FailedStage(err error) Stage {
	var pe *PipelineError
	if errors.As(err, &pe) {
		return pe.Stage
	}
	return ""
}

// AnalysisError carries the classification of a failed analysis run.
type AnalysisError struct {
	Attempts    int
	MissingKeys []string
	Err         error
}

func (e *AnalysisError) Error() string {
	if len(e.MissingKeys) > 0 {
		return fmt.Sprintf("analysis failed after %d attempts: missing keys [%s]",
			e.Attempts, strings.Join(e.MissingKeys, ", "))
	}
	return fmt.Sprintf("analysis failed after %d attempts: %v", e.Attempts, e.Err)
}

func (e *AnalysisError) Unwrap() error {
	return e.Err
}

// RenderError carries the render service's error payload.
type RenderError struct {
	StatusCode int
	Detail     string
	Err        error
}

func (e *RenderError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("render error (HTTP %d): %s", e.StatusCode, e.Detail)
	}
	return fmt.Sprintf("render error: %v", e.Err)
}

func (e *RenderError) Unwrap() error {
	return e.Err
}

// LLMError represents an LLM-specific error
type LLMError struct {
	Provider   string
	StatusCode int
	Message    string
	Err        error
}

func (e *LLMError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("%s error (HTTP %d): %s", e.Provider, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("%s error: %s", e.Provider, e.Message)
}

func (e *LLMError) Unwrap() error {
	return e.Err
}

// NewLLMError creates a new LLMError
func NewLLMError(provider string, statusCode int, message string, err error) *LLMError {
	return &LLMError{
		Provider:   provider,
		StatusCode: statusCode,
		Message:    message,
		Err:        err,
	}
}
