package config

import (
	"os"
	"path/filepath"
	"time"
)

// Default values
const (
	// Repository defaults
	DefaultTempDir       = "./temp_repos"
	DefaultMaxRepoSizeMB = 500
	DefaultCloneTimeout  = 120 * time.Second

	// Digest defaults
	DefaultDigestBinary        = "cdigest"
	DefaultDigestMaxDepth      = 10
	DefaultDigestMaxFileSizeKB = 10240
	DefaultDigestTimeout       = 5 * time.Minute
	DefaultDigestMaxChars      = 50000
	DefaultDigestMinChars      = 100

	// LLM defaults
	DefaultLLMProvider    = "google"
	DefaultLLMModel       = "gemini-pro"
	DefaultLLMBaseURL     = "https://generativelanguage.googleapis.com"
	DefaultLLMMaxTokens   = 4000
	DefaultLLMTemperature = 0.7
	DefaultLLMTimeout     = 60 * time.Second
	DefaultLLMMaxAttempts = 3

	// Render defaults
	DefaultRenderBaseURL = "https://api.presenton.ai"
	DefaultRenderTimeout = 180 * time.Second
	DefaultExportTimeout = 120 * time.Second

	// Presentation defaults
	DefaultSlideCount = 8
	DefaultTone       = "professional"
	DefaultVerbosity  = "concise"
	DefaultLanguage   = "English"
	DefaultTemplate   = "general"
	DefaultExportAs   = "pptx"
	DefaultImageType  = "stock"

	// Logging defaults
	DefaultLogLevel  = "info"
	DefaultLogFormat = "pretty"
)

// DefaultIgnorePatterns excludes build artifacts, lockfiles, VCS
// metadata, and binaries from the digest.
var DefaultIgnorePatterns = []string{
	"*.pyc", "*.pyo", "*.pyd", "__pycache__",
	"node_modules", "bower_components",
	".git", ".svn", ".hg", ".gitignore",
	"venv", ".venv", "env", ".env", "*.env",
	".idea", ".vscode",
	"*.log", "*.bak", "*.swp", "*.tmp",
	".DS_Store", "Thumbs.db",
	"build", "dist",
	"*.so", "*.dylib", "*.dll",
	"package-lock.json", "yarn.lock", "poetry.lock", "go.sum",
}

// ConfigDir returns the config directory path
func ConfigDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".deckgen"
	}
	return filepath.Join(home, ".deckgen")
}

// PrefsDir returns the preference store directory path
func PrefsDir() string {
	return filepath.Join(ConfigDir(), "prefs")
}

// Default returns the default configuration
func Default() *Config {
	return &Config{
		Repo: RepoConfig{
			TempDir:      DefaultTempDir,
			MaxSizeMB:    DefaultMaxRepoSizeMB,
			CloneTimeout: DefaultCloneTimeout,
		},
		Digest: DigestConfig{
			Binary:         DefaultDigestBinary,
			MaxDepth:       DefaultDigestMaxDepth,
			MaxFileSizeKB:  DefaultDigestMaxFileSizeKB,
			IgnorePatterns: DefaultIgnorePatterns,
			Timeout:        DefaultDigestTimeout,
			MaxChars:       DefaultDigestMaxChars,
			MinChars:       DefaultDigestMinChars,
		},
		LLM: LLMConfig{
			Provider:    DefaultLLMProvider,
			BaseURL:     DefaultLLMBaseURL,
			Model:       DefaultLLMModel,
			MaxTokens:   DefaultLLMMaxTokens,
			Temperature: DefaultLLMTemperature,
			Timeout:     DefaultLLMTimeout,
			MaxAttempts: DefaultLLMMaxAttempts,
		},
		Render: RenderConfig{
			BaseURL:       DefaultRenderBaseURL,
			Timeout:       DefaultRenderTimeout,
			ExportTimeout: DefaultExportTimeout,
		},
		Defaults: DefaultsConfig{
			SlideCount:   DefaultSlideCount,
			Tone:         DefaultTone,
			Verbosity:    DefaultVerbosity,
			Language:     DefaultLanguage,
			Template:     DefaultTemplate,
			ExportAs:     DefaultExportAs,
			IncludeTitle: true,
			IncludeTOC:   false,
			ImageType:    DefaultImageType,
			WebSearch:    false,
		},
		Prefs: PrefsConfig{
			Enabled:   true,
			Directory: PrefsDir(),
		},
		Cleanup: true,
		Logging: LoggingConfig{
			Level:  DefaultLogLevel,
			Format: DefaultLogFormat,
		},
	}
}
