package config

import (
	"strings"
	"time"

	apperrors "github.com/commitollama/commitollama/internal/pkg/errors"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Resolve builds a fresh Settings snapshot. The config file is re-read on
// every call, so edits made between two invocations are picked up. An
// unreadable file never fails resolution; built-in defaults fill the gaps.
func (m *ViperManager) Resolve() Settings {
	if err := m.readConfig(); err != nil {
		apperrors.Warn("Ignoring configuration file: %v", err)
	}

	cfg, err := m.unmarshal()
	if err != nil {
		apperrors.Warn("Using default settings: %v", err)
		cfg = DefaultConfig()
	}

	return cfg.Settings()
}

// Settings converts the raw configuration into resolved settings.
func (c *Config) Settings() Settings {
	timeout := time.Duration(c.Inference.TimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = DefaultTimeoutSeconds * time.Second
	}

	maxConcurrency := c.Inference.MaxConcurrency
	if maxConcurrency < 0 {
		maxConcurrency = 0
	}

	return Settings{
		Provider:           ResolveProvider(c.Inference.Provider),
		Endpoint:           NormalizeEndpoint(c.Custom.Endpoint),
		APIKey:             strings.TrimSpace(c.Inference.APIKey),
		ModelName:          ResolveModel(c.Model, c.Custom.Model),
		UseEmojis:          c.UseEmojis,
		UseUppercase:       c.UseUppercase,
		CommitEmojis:       NormalizeEmojis(c.CommitEmojis, c.UseUppercase),
		SummaryPrompt:      c.Custom.SummaryPrompt,
		SummaryTemperature: c.Custom.SummaryTemperature,
		CommitPrompt:       c.Custom.CommitPrompt,
		CommitTemperature:  c.Custom.CommitTemperature,
		MaxConcurrency:     maxConcurrency,
		Timeout:            timeout,
		ExcludePatterns:    append([]string(nil), c.Git.ExcludePatterns...),
	}
}

// NormalizeEndpoint trims whitespace and strips exactly one trailing slash.
// An empty endpoint falls back to DefaultEndpoint.
func NormalizeEndpoint(endpoint string) string {
	endpoint = strings.TrimSpace(endpoint)
	if endpoint == "" {
		return DefaultEndpoint
	}
	return strings.TrimSpace(strings.TrimSuffix(endpoint, "/"))
}

// ResolveModel substitutes custom.model when the model selector is "custom".
func ResolveModel(model, customModel string) string {
	model = strings.TrimSpace(model)
	switch model {
	case "":
		return DefaultModel
	case ModelCustom:
		if custom := strings.TrimSpace(customModel); custom != "" {
			return custom
		}
		apperrors.Warn("model is set to %q but custom.model is empty; using %s", ModelCustom, DefaultModel)
		return DefaultModel
	default:
		return model
	}
}

// ResolveProvider returns a supported provider name.
func ResolveProvider(provider string) string {
	provider = strings.ToLower(strings.TrimSpace(provider))
	switch provider {
	case "ollama", "openai":
		return provider
	case "":
		return DefaultProvider
	default:
		apperrors.Warn("unknown inference provider %q; using %s", provider, DefaultProvider)
		return DefaultProvider
	}
}

// NormalizeEmojis merges overrides over the default table and rewrites every
// value to upper or lower case. The returned map is always a new copy.
// Empty overrides and unknown tags are ignored.
func NormalizeEmojis(overrides map[string]string, uppercase bool) map[string]string {
	emojis := DefaultCommitEmojis()
	for tag, emoji := range overrides {
		tag = strings.ToLower(strings.TrimSpace(tag))
		if _, known := emojis[tag]; !known {
			apperrors.Debug("ignoring emoji for unknown commit type %q", tag)
			continue
		}
		if emoji == "" {
			continue
		}
		emojis[tag] = emoji
	}

	caser := cases.Lower(language.Und)
	if uppercase {
		caser = cases.Upper(language.Und)
	}
	for tag, emoji := range emojis {
		emojis[tag] = caser.String(emoji)
	}
	return emojis
}
