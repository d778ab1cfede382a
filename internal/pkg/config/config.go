// Package config provides configuration management for commitollama.
package config

import "time"

// Built-in defaults.
const (
	// DefaultModel is used when no model is configured.
	DefaultModel = "llama3:latest"
	// ModelCustom selects the identifier stored under custom.model.
	ModelCustom = "custom"
	// DefaultEndpoint is the local Ollama server.
	DefaultEndpoint = "http://127.0.0.1:11434"
	// DefaultTemperature applies to both the summary and commit calls.
	DefaultTemperature = 0.8
	// DefaultProvider speaks the native Ollama chat protocol.
	DefaultProvider = "ollama"
	// DefaultTimeoutSeconds bounds a single inference HTTP round trip.
	DefaultTimeoutSeconds = 120
)

// KnownModels lists the models offered by the setup wizard.
var KnownModels = []string{
	"llama3:latest",
	"codegemma:latest",
	"codellama",
	"mistral:latest",
}

// CommitTypes is the closed set of conventional-commit type tags.
var CommitTypes = []string{
	"init", "feat", "fix", "docs", "style", "refactor",
	"perf", "test", "build", "ci", "chore", "revert",
}

// DefaultCommitEmojis maps every commit type tag to its decoration.
func DefaultCommitEmojis() map[string]string {
	return map[string]string{
		"init":     "🎉",
		"feat":     "✨",
		"fix":      "🔧",
		"docs":     "📝",
		"style":    "💅",
		"refactor": "♻️",
		"perf":     "🚀",
		"test":     "🔎",
		"build":    "📦",
		"ci":       "🤖",
		"chore":    "📌",
		"revert":   "⏪",
	}
}

// Config mirrors the configuration file layout.
type Config struct {
	Model        string            `mapstructure:"model"`
	Custom       CustomConfig      `mapstructure:"custom"`
	UseEmojis    bool              `mapstructure:"use_emojis"`
	UseUppercase bool              `mapstructure:"use_uppercase"`
	CommitEmojis map[string]string `mapstructure:"commit_emojis"`
	Inference    InferenceConfig   `mapstructure:"inference"`
	Git          GitConfig         `mapstructure:"git"`
	UI           UIConfig          `mapstructure:"ui"`
	History      HistoryConfig     `mapstructure:"history"`
	Security     SecurityConfig    `mapstructure:"security"`
	Log          LogConfig         `mapstructure:"log"`
}

// CustomConfig holds the user overrides for model, endpoint and prompts.
type CustomConfig struct {
	Model              string  `mapstructure:"model"`
	Endpoint           string  `mapstructure:"endpoint"`
	SummaryPrompt      string  `mapstructure:"summary_prompt"`
	SummaryTemperature float64 `mapstructure:"summary_temperature"`
	CommitPrompt       string  `mapstructure:"commit_prompt"`
	CommitTemperature  float64 `mapstructure:"commit_temperature"`
}

// InferenceConfig contains transport settings for the inference server.
type InferenceConfig struct {
	Provider       string `mapstructure:"provider"`
	APIKey         string `mapstructure:"api_key"`
	MaxConcurrency int    `mapstructure:"max_concurrency"`
	TimeoutSeconds int    `mapstructure:"timeout_seconds"`
}

// GitConfig contains Git-related settings.
type GitConfig struct {
	// ExcludePatterns are globs; "**" crosses directories and a trailing
	// slash excludes a directory at any depth.
	ExcludePatterns []string `mapstructure:"exclude_patterns"`
}

// UIConfig contains UI-related settings.
type UIConfig struct {
	Editor       string `mapstructure:"editor"`
	ColorEnabled bool   `mapstructure:"color_enabled"`
}

// HistoryConfig contains history-related settings.
type HistoryConfig struct {
	Enabled    bool   `mapstructure:"enabled"`
	MaxEntries int    `mapstructure:"max_entries"`
	FilePath   string `mapstructure:"file_path"`
}

// SecurityConfig contains security-related settings.
type SecurityConfig struct {
	// WarningAcknowledged is set once the user accepted the remote endpoint notice.
	WarningAcknowledged bool `mapstructure:"warning_acknowledged"`
}

// LogConfig controls diagnostic output on stderr.
type LogConfig struct {
	// Level is one of error, warn, info or debug. --verbose forces debug.
	Level string `mapstructure:"level"`
}

// Settings is the resolved, immutable view consumed by one generation flow.
type Settings struct {
	Provider           string
	Endpoint           string
	APIKey             string
	ModelName          string
	UseEmojis          bool
	UseUppercase       bool
	CommitEmojis       map[string]string
	SummaryPrompt      string
	SummaryTemperature float64
	CommitPrompt       string
	CommitTemperature  float64
	MaxConcurrency     int
	Timeout            time.Duration
	ExcludePatterns    []string
}

// Resolver produces a fresh Settings snapshot on every call.
type Resolver interface {
	Resolve() Settings
}

// Manager defines the interface for configuration management.
type Manager interface {
	Resolver
	Load() (*Config, error)
	Set(key string, value string) error
	Get(key string) (string, error)
	Init() error
	List() map[string]interface{}
	GetConfigPath() string
}
