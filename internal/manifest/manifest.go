// Package manifest loads batch generation manifests: a list of
// repositories to process plus per-repository preference overrides.
package manifest

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/quantmind-br/deckgen-go/internal/domain"
)

// ErrEmptyManifest indicates a manifest with no sources.
var ErrEmptyManifest = errors.New("manifest contains no sources")

// Source is one repository entry. Unset fields inherit the run-level
// request settings.
type Source struct {
	URL        string `yaml:"url" json:"url"`
	SlideCount int    `yaml:"n_slides,omitempty" json:"n_slides,omitempty"`
	Tone       string `yaml:"tone,omitempty" json:"tone,omitempty"`
	Template   string `yaml:"template,omitempty" json:"template,omitempty"`
	ExportAs   string `yaml:"export_as,omitempty" json:"export_as,omitempty"`
}

// Options controls batch execution behavior.
type Options struct {
	ContinueOnError bool `yaml:"continue_on_error" json:"continue_on_error"`
	Concurrency     int  `yaml:"concurrency" json:"concurrency"`
}

// Manifest is a parsed batch manifest.
type Manifest struct {
	Sources []Source `yaml:"sources" json:"sources"`
	Options Options  `yaml:"options" json:"options"`
}

// Load reads and validates a manifest file. The format is chosen by
// extension: .json is JSON, everything else is YAML.
func Load(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read manifest: %w", err)
	}

	var m Manifest
	if strings.EqualFold(filepath.Ext(path), ".json") {
		err = json.Unmarshal(data, &m)
	} else {
		err = yaml.Unmarshal(data, &m)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to parse manifest: %w", err)
	}

	if err := m.Validate(); err != nil {
		return nil, err
	}

	return &m, nil
}

// Validate checks every source URL up front so a batch never starts
// with entries that are guaranteed to fail.
func (m *Manifest) Validate() error {
	if len(m.Sources) == 0 {
		return ErrEmptyManifest
	}

	for i, src := range m.Sources {
		if err := domain.ValidateRepoURL(src.URL); err != nil {
			return fmt.Errorf("source %d (%s): %w", i+1, src.URL, err)
		}
		if src.SlideCount != 0 &&
			(src.SlideCount < domain.MinSlideCount || src.SlideCount > domain.MaxSlideCount) {
			return fmt.Errorf("source %d (%s): n_slides must be between %d and %d",
				i+1, src.URL, domain.MinSlideCount, domain.MaxSlideCount)
		}
	}

	if m.Options.Concurrency < 0 {
		return fmt.Errorf("concurrency must not be negative")
	}
	if m.Options.Concurrency == 0 {
		m.Options.Concurrency = 1
	}

	return nil
}

// Request builds the generation request for one source on top of the
// run-level base request.
func (s *Source) Request(base domain.GenerationRequest) domain.GenerationRequest {
	req := base
	req.RepoURL = s.URL
	if s.SlideCount != 0 {
		req.SlideCount = s.SlideCount
	}
	if s.Tone != "" {
		req.Tone = s.Tone
	}
	if s.Template != "" {
		req.Template = s.Template
	}
	if s.ExportAs != "" {
		req.ExportAs = s.ExportAs
	}
	return req
}
