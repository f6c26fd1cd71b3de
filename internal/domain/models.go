package domain

import "time"

// Tones accepted by the render service
var ValidTones = []string{"default", "casual", "professional", "funny", "educational", "sales_pitch"}

// Verbosity levels accepted by the render service
var ValidVerbosity = []string{"concise", "standard", "text-heavy"}

// Export formats accepted by the render service
var ValidExportFormats = []string{"pptx", "pdf"}

// GenerationRequest describes one presentation-generation run.
// It is immutable once accepted: Validate is called before the pipeline
// starts and the request is never mutated afterwards.
type GenerationRequest struct {
	RepoURL         string `json:"github_url"`
	SlideCount      int    `json:"n_slides"`
	Tone            string `json:"tone"`
	Verbosity       string `json:"verbosity"`
	Language        string `json:"language"`
	Template        string `json:"template"`
	ExportAs        string `json:"export_as"`
	IncludeTitle    *bool  `json:"include_title_slide,omitempty"`
	IncludeTOC      *bool  `json:"include_table_of_contents,omitempty"`
	ImageType       string `json:"image_type,omitempty"`
	WebSearch       *bool  `json:"web_search,omitempty"`
	KeepWorkingCopy bool   `json:"-"`
}

// WorkingCopy is a local temporary checkout of a remote repository,
// owned by exactly one pipeline run.
type WorkingCopy struct {
	Path   string
	Owner  string
	Repo   string
	SizeMB float64
}

// FactSet is the schema-validated output of codebase analysis.
// All ten fields must be populated after a successful Analyze call.
type FactSet struct {
	ProjectName    string   `json:"project_name"`
	Tagline        string   `json:"tagline"`
	Problem        string   `json:"problem"`
	Solution       string   `json:"solution"`
	TechStack      []string `json:"tech_stack"`
	KeyFeatures    []string `json:"key_features"`
	Innovation     string   `json:"innovation"`
	Architecture   string   `json:"architecture"`
	DemoHighlights []string `json:"demo_highlights"`
	FutureScope    []string `json:"future_scope"`
}

// RequiredFactKeys lists the JSON keys a valid analysis response must carry.
var RequiredFactKeys = []string{
	"project_name", "tagline", "problem", "solution",
	"tech_stack", "key_features", "innovation",
	"architecture", "demo_highlights", "future_scope",
}

// RenderPreferences are the presentation options sent to the render
// service. Zero-valued fields are resolved from process-wide defaults
// by the renderer, each one independently.
type RenderPreferences struct {
	SlideCount   int
	Tone         string
	Verbosity    string
	Language     string
	Template     string
	ExportAs     string
	IncludeTitle *bool
	IncludeTOC   *bool
	WebSearch    *bool
	ImageType    string
}

// RenderResult is the immutable outcome of one render request.
type RenderResult struct {
	PresentationID  string   `json:"presentation_id"`
	DownloadURL     string   `json:"path,omitempty"`
	EditURL         string   `json:"edit_path,omitempty"`
	CreditsConsumed *float64 `json:"credits_consumed,omitempty"`
}

// GenerationResult is the single terminal outcome of a successful run.
type GenerationResult struct {
	Status          string        `json:"status"`
	PresentationID  string        `json:"presentation_id"`
	DownloadURL     string        `json:"download_url,omitempty"`
	EditURL         string        `json:"edit_url,omitempty"`
	CreditsConsumed *float64      `json:"credits_consumed,omitempty"`
	ProcessingTime  time.Duration `json:"-"`
	Message         string        `json:"message"`
}

// PreferencesUpdate is a partial overlay of the durable user preferences.
// Nil fields are left untouched by Merge.
type PreferencesUpdate struct {
	Tone         *string `json:"tone,omitempty"`
	Verbosity    *string `json:"verbosity,omitempty"`
	Template     *string `json:"template,omitempty"`
	ExportAs     *string `json:"export_as,omitempty"`
	IncludeTitle *bool   `json:"include_title_slide,omitempty"`
	IncludeTOC   *bool   `json:"include_table_of_contents,omitempty"`
	SlideCount   *int    `json:"slide_count,omitempty"`
}

// =============================================================================
// LLM Types
// =============================================================================

// MessageRole represents the role in a conversation
type MessageRole string

const (
	// RoleSystem represents a system message
	RoleSystem MessageRole = "system"
	// RoleUser represents a user message
	RoleUser MessageRole = "user"
	// RoleAssistant represents an assistant message
	RoleAssistant MessageRole = "assistant"
)

// LLMMessage represents a message in the conversation
type LLMMessage struct {
	Role    MessageRole
	Content string
}

// LLMRequest represents a completion request
type LLMRequest struct {
	Messages    []LLMMessage
	MaxTokens   int      // 0 = use provider default
	Temperature *float64 // nil = use provider default
}

// LLMResponse represents the LLM response
type LLMResponse struct {
	Content      string
	Model        string
	FinishReason string
	Usage        LLMUsage
}

// LLMUsage contains token usage statistics
type LLMUsage struct {
	PromptTokens     int
	CompletionTokens int
	TotalTokens      int
}
