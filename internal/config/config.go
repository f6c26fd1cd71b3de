package config

import (
	"time"
)

// Config represents the application configuration
type Config struct {
	Repo     RepoConfig     `mapstructure:"repo" yaml:"repo"`
	Digest   DigestConfig   `mapstructure:"digest" yaml:"digest"`
	LLM      LLMConfig      `mapstructure:"llm" yaml:"llm"`
	Render   RenderConfig   `mapstructure:"render" yaml:"render"`
	Defaults DefaultsConfig `mapstructure:"defaults" yaml:"defaults"`
	Prefs    PrefsConfig    `mapstructure:"prefs" yaml:"prefs"`
	Cleanup  bool           `mapstructure:"cleanup_after_generation" yaml:"cleanup_after_generation"`
	Logging  LoggingConfig  `mapstructure:"logging" yaml:"logging"`
}

// RepoConfig contains repository acquisition settings
type RepoConfig struct {
	TempDir      string        `mapstructure:"temp_dir" yaml:"temp_dir"`
	MaxSizeMB    float64       `mapstructure:"max_size_mb" yaml:"max_size_mb"`
	CloneTimeout time.Duration `mapstructure:"clone_timeout" yaml:"clone_timeout"`
}

// DigestConfig contains settings for the external digest tool
type DigestConfig struct {
	Binary         string        `mapstructure:"binary" yaml:"binary"`
	MaxDepth       int           `mapstructure:"max_depth" yaml:"max_depth"`
	MaxFileSizeKB  int           `mapstructure:"max_file_size_kb" yaml:"max_file_size_kb"`
	IgnorePatterns []string      `mapstructure:"ignore_patterns" yaml:"ignore_patterns"`
	Timeout        time.Duration `mapstructure:"timeout" yaml:"timeout"`
	MaxChars       int           `mapstructure:"max_chars" yaml:"max_chars"`
	MinChars       int           `mapstructure:"min_chars" yaml:"min_chars"`
}

// LLMConfig contains LLM provider settings
type LLMConfig struct {
	Provider    string        `mapstructure:"provider" yaml:"provider"`
	APIKey      string        `mapstructure:"api_key" yaml:"api_key"`
	BaseURL     string        `mapstructure:"base_url" yaml:"base_url"`
	Model       string        `mapstructure:"model" yaml:"model"`
	MaxTokens   int           `mapstructure:"max_tokens" yaml:"max_tokens"`
	Temperature float64       `mapstructure:"temperature" yaml:"temperature"`
	Timeout     time.Duration `mapstructure:"timeout" yaml:"timeout"`
	MaxAttempts int           `mapstructure:"max_attempts" yaml:"max_attempts"`
}

// RenderConfig contains render service settings
type RenderConfig struct {
	BaseURL       string        `mapstructure:"base_url" yaml:"base_url"`
	APIKey        string        `mapstructure:"api_key" yaml:"api_key"`
	Timeout       time.Duration `mapstructure:"timeout" yaml:"timeout"`
	ExportTimeout time.Duration `mapstructure:"export_timeout" yaml:"export_timeout"`
}

// DefaultsConfig contains fallback presentation preferences. Each field
// is resolved independently when the request leaves it unset.
type DefaultsConfig struct {
	SlideCount   int    `mapstructure:"slide_count" yaml:"slide_count"`
	Tone         string `mapstructure:"tone" yaml:"tone"`
	Verbosity    string `mapstructure:"verbosity" yaml:"verbosity"`
	Language     string `mapstructure:"language" yaml:"language"`
	Template     string `mapstructure:"template" yaml:"template"`
	ExportAs     string `mapstructure:"export_as" yaml:"export_as"`
	IncludeTitle bool   `mapstructure:"include_title_slide" yaml:"include_title_slide"`
	IncludeTOC   bool   `mapstructure:"include_table_of_contents" yaml:"include_table_of_contents"`
	ImageType    string `mapstructure:"image_type" yaml:"image_type"`
	WebSearch    bool   `mapstructure:"web_search" yaml:"web_search"`
}

// PrefsConfig contains durable preference overlay settings
type PrefsConfig struct {
	Enabled   bool   `mapstructure:"enabled" yaml:"enabled"`
	Directory string `mapstructure:"directory" yaml:"directory"`
}

// LoggingConfig contains logging settings
type LoggingConfig struct {
	Level  string `mapstructure:"level" yaml:"level"`
	Format string `mapstructure:"format" yaml:"format"`
}

// Validate validates the configuration and falls back to defaults for
// out-of-range values.
func (c *Config) Validate() error {
	if c.Repo.MaxSizeMB <= 0 {
		c.Repo.MaxSizeMB = DefaultMaxRepoSizeMB
	}
	if c.Repo.CloneTimeout < time.Second {
		c.Repo.CloneTimeout = DefaultCloneTimeout
	}
	if c.Repo.TempDir == "" {
		c.Repo.TempDir = DefaultTempDir
	}
	if c.Digest.Binary == "" {
		c.Digest.Binary = DefaultDigestBinary
	}
	if c.Digest.MaxDepth < 1 {
		c.Digest.MaxDepth = DefaultDigestMaxDepth
	}
	if c.Digest.MaxFileSizeKB <= 0 {
		c.Digest.MaxFileSizeKB = DefaultDigestMaxFileSizeKB
	}
	if c.Digest.Timeout < time.Second {
		c.Digest.Timeout = DefaultDigestTimeout
	}
	if c.Digest.MaxChars <= 0 {
		c.Digest.MaxChars = DefaultDigestMaxChars
	}
	if c.Digest.MinChars <= 0 {
		c.Digest.MinChars = DefaultDigestMinChars
	}
	if len(c.Digest.IgnorePatterns) == 0 {
		c.Digest.IgnorePatterns = DefaultIgnorePatterns
	}
	if c.LLM.Timeout < time.Second {
		c.LLM.Timeout = DefaultLLMTimeout
	}
	if c.LLM.MaxAttempts < 1 {
		c.LLM.MaxAttempts = DefaultLLMMaxAttempts
	}
	if c.Render.Timeout < time.Second {
		c.Render.Timeout = DefaultRenderTimeout
	}
	if c.Render.ExportTimeout < time.Second {
		c.Render.ExportTimeout = DefaultExportTimeout
	}
	if c.Defaults.SlideCount < 1 {
		c.Defaults.SlideCount = DefaultSlideCount
	}
	return nil
}
