package domain

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"
)

// Slide count bounds enforced before a run starts.
const (
	MinSlideCount = 5
	MaxSlideCount = 15
)

// repoPathPattern matches /owner/repository with an optional trailing slash.
var repoPathPattern = regexp.MustCompile(`^/[\w-]+/[\w.-]+/?$`)

// ValidateRepoURL checks that the URL names exactly owner/repo under
// github.com.
func ValidateRepoURL(rawURL string) error {
	if strings.TrimSpace(rawURL) == "" {
		return NewValidationError("github_url", "URL cannot be empty")
	}

	u, err := url.Parse(rawURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return NewValidationError("github_url", "invalid URL format")
	}

	host := strings.ToLower(u.Host)
	if host != "github.com" && host != "www.github.com" {
		return NewValidationError("github_url", "URL must be from github.com")
	}

	if !repoPathPattern.MatchString(u.Path) {
		return NewValidationError("github_url",
			"expected https://github.com/owner/repository")
	}

	return nil
}

// Validate checks the request against the closed enumerations and slide
// bounds. It has no side effects; a failing request never reaches the
// pipeline.
func (r *GenerationRequest) Validate() error {
	if err := ValidateRepoURL(r.RepoURL); err != nil {
		return err
	}

	if r.SlideCount < MinSlideCount || r.SlideCount > MaxSlideCount {
		return NewValidationError("n_slides",
			fmt.Sprintf("must be between %d and %d", MinSlideCount, MaxSlideCount))
	}

	if r.Tone != "" && !contains(ValidTones, r.Tone) {
		return NewValidationError("tone",
			"must be one of: "+strings.Join(ValidTones, ", "))
	}

	if r.Verbosity != "" && !contains(ValidVerbosity, r.Verbosity) {
		return NewValidationError("verbosity",
			"must be one of: "+strings.Join(ValidVerbosity, ", "))
	}

	if r.ExportAs != "" && !contains(ValidExportFormats, r.ExportAs) {
		return NewValidationError("export_as",
			"must be one of: "+strings.Join(ValidExportFormats, ", "))
	}

	return nil
}

// Preferences projects the request's presentation options for the
// render service.
func (r *GenerationRequest) Preferences() RenderPreferences {
	return RenderPreferences{
		SlideCount:   r.SlideCount,
		Tone:         r.Tone,
		Verbosity:    r.Verbosity,
		Language:     r.Language,
		Template:     r.Template,
		ExportAs:     r.ExportAs,
		IncludeTitle: r.IncludeTitle,
		IncludeTOC:   r.IncludeTOC,
		WebSearch:    r.WebSearch,
		ImageType:    r.ImageType,
	}
}

// PreferencesUpdate projects the request's set fields into a durable
// preferences overlay.
func (r *GenerationRequest) PreferencesUpdate() PreferencesUpdate {
	update := PreferencesUpdate{
		IncludeTitle: r.IncludeTitle,
		IncludeTOC:   r.IncludeTOC,
	}
	if r.Tone != "" {
		update.Tone = &r.Tone
	}
	if r.Verbosity != "" {
		update.Verbosity = &r.Verbosity
	}
	if r.Template != "" {
		update.Template = &r.Template
	}
	if r.ExportAs != "" {
		update.ExportAs = &r.ExportAs
	}
	if r.SlideCount > 0 {
		update.SlideCount = &r.SlideCount
	}
	return update
}

// Validate reports the required keys absent from the fact set. An empty
// slice means the analysis response is complete.
func (f *FactSet) Validate() []string {
	var missing []string
	if f.ProjectName == "" {
		missing = append(missing, "project_name")
	}
	if f.Tagline == "" {
		missing = append(missing, "tagline")
	}
	if f.Problem == "" {
		missing = append(missing, "problem")
	}
	if f.Solution == "" {
		missing = append(missing, "solution")
	}
	if len(f.TechStack) == 0 {
		missing = append(missing, "tech_stack")
	}
	if len(f.KeyFeatures) == 0 {
		missing = append(missing, "key_features")
	}
	if f.Innovation == "" {
		missing = append(missing, "innovation")
	}
	if f.Architecture == "" {
		missing = append(missing, "architecture")
	}
	if len(f.DemoHighlights) == 0 {
		missing = append(missing, "demo_highlights")
	}
	if len(f.FutureScope) == 0 {
		missing = append(missing, "future_scope")
	}
	return missing
}

// IsValidExportFormat reports whether v is an accepted export format.
func IsValidExportFormat(v string) bool {
	return contains(ValidExportFormats, v)
}

func contains(values []string, v string) bool {
	for _, val := range values {
		if val == v {
			return true
		}
	}
	return false
}
