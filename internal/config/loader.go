package config

import (
	"os"
	"strings"

	"github.com/spf13/viper"
)

// Load loads configuration from file, environment, and defaults.
// Uses the global viper instance to access CLI flag bindings.
func Load() (*Config, error) {
	v := viper.GetViper()

	setDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(ConfigDir())
	v.AddConfigPath(".")

	// Read config file (ignore if not found)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
	}

	// Environment variables (DECKGEN_*)
	v.SetEnvPrefix("DECKGEN")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	// Repository defaults
	v.SetDefault("repo.temp_dir", DefaultTempDir)
	v.SetDefault("repo.max_size_mb", DefaultMaxRepoSizeMB)
	v.SetDefault("repo.clone_timeout", DefaultCloneTimeout)

	// Digest defaults
	v.SetDefault("digest.binary", DefaultDigestBinary)
	v.SetDefault("digest.max_depth", DefaultDigestMaxDepth)
	v.SetDefault("digest.max_file_size_kb", DefaultDigestMaxFileSizeKB)
	v.SetDefault("digest.ignore_patterns", DefaultIgnorePatterns)
	v.SetDefault("digest.timeout", DefaultDigestTimeout)
	v.SetDefault("digest.max_chars", DefaultDigestMaxChars)
	v.SetDefault("digest.min_chars", DefaultDigestMinChars)

	// LLM defaults
	v.SetDefault("llm.provider", DefaultLLMProvider)
	v.SetDefault("llm.base_url", DefaultLLMBaseURL)
	v.SetDefault("llm.model", DefaultLLMModel)
	v.SetDefault("llm.max_tokens", DefaultLLMMaxTokens)
	v.SetDefault("llm.temperature", DefaultLLMTemperature)
	v.SetDefault("llm.timeout", DefaultLLMTimeout)
	v.SetDefault("llm.max_attempts", DefaultLLMMaxAttempts)

	// Render defaults
	v.SetDefault("render.base_url", DefaultRenderBaseURL)
	v.SetDefault("render.timeout", DefaultRenderTimeout)
	v.SetDefault("render.export_timeout", DefaultExportTimeout)

	// Presentation defaults
	v.SetDefault("defaults.slide_count", DefaultSlideCount)
	v.SetDefault("defaults.tone", DefaultTone)
	v.SetDefault("defaults.verbosity", DefaultVerbosity)
	v.SetDefault("defaults.language", DefaultLanguage)
	v.SetDefault("defaults.template", DefaultTemplate)
	v.SetDefault("defaults.export_as", DefaultExportAs)
	v.SetDefault("defaults.include_title_slide", true)
	v.SetDefault("defaults.include_table_of_contents", false)
	v.SetDefault("defaults.image_type", DefaultImageType)
	v.SetDefault("defaults.web_search", false)

	// Preference store defaults
	v.SetDefault("prefs.enabled", true)
	v.SetDefault("prefs.directory", PrefsDir())

	v.SetDefault("cleanup_after_generation", true)

	// Logging defaults
	v.SetDefault("logging.level", DefaultLogLevel)
	v.SetDefault("logging.format", DefaultLogFormat)
}

// EnsureConfigDir creates the config directory if it doesn't exist
func EnsureConfigDir() error {
	return os.MkdirAll(ConfigDir(), 0755)
}
