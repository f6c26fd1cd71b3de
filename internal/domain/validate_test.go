package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateRepoURL(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{
			name:    "plain github repo",
			input:   "https://github.com/octocat/Hello-World",
			wantErr: false,
		},
		{
			name:    "www prefix accepted",
			input:   "https://www.github.com/octocat/Hello-World",
			wantErr: false,
		},
		{
			name:    "trailing slash accepted",
			input:   "https://github.com/octocat/Hello-World/",
			wantErr: false,
		},
		{
			name:    "dotted repo name accepted",
			input:   "https://github.com/golang/go.tools",
			wantErr: false,
		},
		{
			name:    "empty URL rejected",
			input:   "",
			wantErr: true,
		},
		{
			name:    "whitespace only rejected",
			input:   "   ",
			wantErr: true,
		},
		{
			name:    "gitlab host rejected",
			input:   "https://gitlab.com/owner/repo",
			wantErr: true,
		},
		{
			name:    "bitbucket host rejected",
			input:   "https://bitbucket.org/owner/repo",
			wantErr: true,
		},
		{
			name:    "missing repo segment rejected",
			input:   "https://github.com/octocat",
			wantErr: true,
		},
		{
			name:    "extra path segments rejected",
			input:   "https://github.com/octocat/Hello-World/tree/main",
			wantErr: true,
		},
		{
			name:    "no scheme rejected",
			input:   "github.com/octocat/Hello-World",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			err := ValidateRepoURL(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				var verr *ValidationError
				assert.ErrorAs(t, err, &verr)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestGenerationRequestValidate(t *testing.T) {
	t.Parallel()

	valid := func() GenerationRequest {
		return GenerationRequest{
			RepoURL:    "https://github.com/octocat/Hello-World",
			SlideCount: 8,
		}
	}

	t.Run("minimal valid request", func(t *testing.T) {
		t.Parallel()
		req := valid()
		assert.NoError(t, req.Validate())
	})

	t.Run("slide count below minimum", func(t *testing.T) {
		t.Parallel()
		req := valid()
		req.SlideCount = 4
		err := req.Validate()
		require.Error(t, err)
		var verr *ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Equal(t, "n_slides", verr.Field)
	})

	t.Run("slide count above maximum", func(t *testing.T) {
		t.Parallel()
		req := valid()
		req.SlideCount = 16
		assert.Error(t, req.Validate())
	})

	t.Run("slide count at bounds", func(t *testing.T) {
		t.Parallel()
		for _, n := range []int{MinSlideCount, MaxSlideCount} {
			req := valid()
			req.SlideCount = n
			assert.NoError(t, req.Validate())
		}
	})

	t.Run("unknown tone rejected", func(t *testing.T) {
		t.Parallel()
		req := valid()
		req.Tone = "sarcastic"
		assert.Error(t, req.Validate())
	})

	t.Run("all listed tones accepted", func(t *testing.T) {
		t.Parallel()
		for _, tone := range ValidTones {
			req := valid()
			req.Tone = tone
			assert.NoError(t, req.Validate())
		}
	})

	t.Run("unknown verbosity rejected", func(t *testing.T) {
		t.Parallel()
		req := valid()
		req.Verbosity = "rambling"
		assert.Error(t, req.Validate())
	})

	t.Run("unknown export format rejected", func(t *testing.T) {
		t.Parallel()
		req := valid()
		req.ExportAs = "keynote"
		assert.Error(t, req.Validate())
	})

	t.Run("empty optional enums accepted", func(t *testing.T) {
		t.Parallel()
		req := valid()
		req.Tone = ""
		req.Verbosity = ""
		req.ExportAs = ""
		assert.NoError(t, req.Validate())
	})
}

func TestFactSetValidate(t *testing.T) {
	t.Parallel()

	complete := func() FactSet {
		return FactSet{
			ProjectName:    "deckgen",
			Tagline:        "Repos to slides",
			Problem:        "Demos take too long to prepare",
			Solution:       "Automate the deck",
			TechStack:      []string{"Go"},
			KeyFeatures:    []string{"One command"},
			Innovation:     "Pipeline design",
			Architecture:   "Staged pipeline",
			DemoHighlights: []string{"Live run"},
			FutureScope:    []string{"More templates"},
		}
	}

	t.Run("complete set has no missing keys", func(t *testing.T) {
		t.Parallel()
		fs := complete()
		assert.Empty(t, fs.Validate())
	})

	t.Run("empty set reports all keys", func(t *testing.T) {
		t.Parallel()
		fs := FactSet{}
		missing := fs.Validate()
		assert.Len(t, missing, len(RequiredFactKeys))
	})

	t.Run("single missing string key", func(t *testing.T) {
		t.Parallel()
		fs := complete()
		fs.Innovation = ""
		assert.Equal(t, []string{"innovation"}, fs.Validate())
	})

	t.Run("empty array counts as missing", func(t *testing.T) {
		t.Parallel()
		fs := complete()
		fs.TechStack = nil
		assert.Equal(t, []string{"tech_stack"}, fs.Validate())
	})
}

func TestPreferencesUpdateProjection(t *testing.T) {
	t.Parallel()

	t.Run("only set fields projected", func(t *testing.T) {
		t.Parallel()
		req := GenerationRequest{
			RepoURL:    "https://github.com/octocat/Hello-World",
			SlideCount: 10,
			Tone:       "casual",
		}
		update := req.PreferencesUpdate()
		require.NotNil(t, update.Tone)
		assert.Equal(t, "casual", *update.Tone)
		require.NotNil(t, update.SlideCount)
		assert.Equal(t, 10, *update.SlideCount)
		assert.Nil(t, update.Verbosity)
		assert.Nil(t, update.Template)
		assert.Nil(t, update.ExportAs)
	})

	t.Run("empty request projects nothing", func(t *testing.T) {
		t.Parallel()
		req := GenerationRequest{RepoURL: "https://github.com/octocat/Hello-World"}
		update := req.PreferencesUpdate()
		assert.Equal(t, PreferencesUpdate{}, update)
	})
}
