package config

import (
	"os"
	"path/filepath"
	"reflect"
	"strconv"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// genNonEmptyAlphaString generates non-empty alphabetic strings with length between min and max.
// This avoids the high discard rate of SuchThat filters.
func genNonEmptyAlphaString(minLen, maxLen int) gopter.Gen {
	return gen.IntRange(minLen, maxLen).FlatMap(func(length interface{}) gopter.Gen {
		n := length.(int)
		return gen.SliceOfN(n, gen.Rune()).Map(func(runes []rune) string {
			for i := range runes {
				runes[i] = 'a' + (runes[i] % 26)
			}
			return string(runes)
		})
	}, reflect.TypeOf(""))
}

func newInitializedManager(t *testing.T) (*ViperManager, string) {
	t.Helper()
	configPath := filepath.Join(t.TempDir(), "config.yaml")
	mgr, err := NewManager(configPath)
	require.NoError(t, err)
	require.NoError(t, mgr.Init())
	return mgr, configPath
}

// Priority order: flags > env > file > defaults
func TestConfigPrecedence_Property(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 50
	parameters.Rng.Seed(42)

	properties := gopter.NewProperties(parameters)

	properties.Property("env vars override file values for model", prop.ForAll(
		func(fileValue, envValue string) bool {
			configPath := filepath.Join(t.TempDir(), "config.yaml")
			mgr, err := NewManager(configPath)
			if err != nil {
				t.Logf("Failed to create manager: %v", err)
				return false
			}
			if err := mgr.Set("model", fileValue); err != nil {
				t.Logf("Failed to set file value: %v", err)
				return false
			}

			os.Setenv("COMMITOLLAMA_MODEL", envValue)
			defer os.Unsetenv("COMMITOLLAMA_MODEL")

			mgr2, err := NewManager(configPath)
			if err != nil {
				t.Logf("Failed to create second manager: %v", err)
				return false
			}

			return mgr2.Resolve().ModelName == envValue
		},
		genNonEmptyAlphaString(3, 15),
		genNonEmptyAlphaString(3, 15),
	))

	properties.Property("file values override defaults for custom.endpoint", prop.ForAll(
		func(host string) bool {
			os.Unsetenv("COMMITOLLAMA_CUSTOM_ENDPOINT")

			configPath := filepath.Join(t.TempDir(), "config.yaml")
			mgr, err := NewManager(configPath)
			if err != nil {
				t.Logf("Failed to create manager: %v", err)
				return false
			}
			endpoint := "http://" + host + ":11434"
			if err := mgr.Set("custom.endpoint", endpoint); err != nil {
				t.Logf("Failed to set file value: %v", err)
				return false
			}

			return mgr.Resolve().Endpoint == endpoint
		},
		genNonEmptyAlphaString(3, 25),
	))

	properties.Property("SetOverride (flags) override env and file values", prop.ForAll(
		func(fileValue, envValue, flagValue string) bool {
			configPath := filepath.Join(t.TempDir(), "config.yaml")
			mgr, err := NewManager(configPath)
			if err != nil {
				t.Logf("Failed to create manager: %v", err)
				return false
			}
			if err := mgr.Set("model", fileValue); err != nil {
				t.Logf("Failed to set file value: %v", err)
				return false
			}

			os.Setenv("COMMITOLLAMA_MODEL", envValue)
			defer os.Unsetenv("COMMITOLLAMA_MODEL")

			mgr2, err := NewManager(configPath)
			if err != nil {
				t.Logf("Failed to create second manager: %v", err)
				return false
			}
			mgr2.SetOverride("model", flagValue)

			return mgr2.Resolve().ModelName == flagValue
		},
		genNonEmptyAlphaString(3, 15),
		genNonEmptyAlphaString(3, 15),
		genNonEmptyAlphaString(3, 15),
	))

	properties.Property("precedence holds for numeric config values", prop.ForAll(
		func(fileValue, envValue int) bool {
			configPath := filepath.Join(t.TempDir(), "config.yaml")
			mgr, err := NewManager(configPath)
			if err != nil {
				t.Logf("Failed to create manager: %v", err)
				return false
			}
			if err := mgr.Set("inference.max_concurrency", strconv.Itoa(fileValue)); err != nil {
				t.Logf("Failed to set file value: %v", err)
				return false
			}

			os.Setenv("COMMITOLLAMA_INFERENCE_MAX_CONCURRENCY", strconv.Itoa(envValue))
			defer os.Unsetenv("COMMITOLLAMA_INFERENCE_MAX_CONCURRENCY")

			mgr2, err := NewManager(configPath)
			if err != nil {
				t.Logf("Failed to create second manager: %v", err)
				return false
			}

			return mgr2.Resolve().MaxConcurrency == envValue
		},
		gen.IntRange(1, 64),
		gen.IntRange(1, 64),
	))

	properties.TestingRun(t)
}

func TestDefaultsWithoutConfigFile(t *testing.T) {
	mgr, err := NewManager(filepath.Join(t.TempDir(), "missing", "config.yaml"))
	require.NoError(t, err)

	settings := mgr.Resolve()

	assert.Equal(t, DefaultModel, settings.ModelName)
	assert.Equal(t, DefaultEndpoint, settings.Endpoint)
	assert.Equal(t, DefaultProvider, settings.Provider)
	assert.Equal(t, 0.8, settings.SummaryTemperature)
	assert.Equal(t, 0.8, settings.CommitTemperature)
	assert.False(t, settings.UseEmojis)
	assert.False(t, settings.UseUppercase)
	assert.Empty(t, settings.SummaryPrompt)
	assert.Empty(t, settings.CommitPrompt)
	assert.Equal(t, DefaultCommitEmojis(), settings.CommitEmojis)
	assert.Contains(t, settings.ExcludePatterns, "go.sum")
	assert.Equal(t, float64(DefaultTimeoutSeconds), settings.Timeout.Seconds())
}

func TestResolveRereadsFileOnEveryCall(t *testing.T) {
	mgr, configPath := newInitializedManager(t)

	assert.Equal(t, DefaultModel, mgr.Resolve().ModelName)

	// Edit the file behind the manager's back.
	other, err := NewManager(configPath)
	require.NoError(t, err)
	require.NoError(t, other.Set("model", "mistral:latest"))

	assert.Equal(t, "mistral:latest", mgr.Resolve().ModelName)
}

func TestResolveMalformedFileFallsBackToDefaults(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(configPath, []byte("model: [unterminated\n\t:::"), 0600))

	mgr, err := NewManager(configPath)
	require.NoError(t, err)

	var settings Settings
	assert.NotPanics(t, func() { settings = mgr.Resolve() })
	assert.Equal(t, DefaultModel, settings.ModelName)
	assert.Equal(t, DefaultEndpoint, settings.Endpoint)

	_, err = mgr.Load()
	assert.Error(t, err)
}

func TestResolveCustomModel(t *testing.T) {
	mgr, _ := newInitializedManager(t)
	require.NoError(t, mgr.Set("model", ModelCustom))
	require.NoError(t, mgr.Set("custom.model", "qwen2.5-coder:7b"))

	assert.Equal(t, "qwen2.5-coder:7b", mgr.Resolve().ModelName)
}

func TestResolveReturnsPrivateEmojiMap(t *testing.T) {
	mgr, _ := newInitializedManager(t)

	first := mgr.Resolve()
	first.CommitEmojis["feat"] = "changed"

	second := mgr.Resolve()
	assert.Equal(t, "✨", second.CommitEmojis["feat"])
}

func TestResolveEmojiOverridesFromFile(t *testing.T) {
	mgr, _ := newInitializedManager(t)
	require.NoError(t, mgr.Set("commit_emojis.feat", ":sparkles:"))
	require.NoError(t, mgr.Set("use_uppercase", "true"))

	settings := mgr.Resolve()

	assert.True(t, settings.UseUppercase)
	assert.Equal(t, ":SPARKLES:", settings.CommitEmojis["feat"])
	assert.Equal(t, "🔧", settings.CommitEmojis["fix"])
	assert.Len(t, settings.CommitEmojis, len(CommitTypes))
}

// TestSetOverrideDoesNotPersist verifies that SetOverride doesn't persist to the config file.
func TestSetOverrideDoesNotPersist(t *testing.T) {
	mgr, configPath := newInitializedManager(t)

	originalValue := "codellama"
	require.NoError(t, mgr.Set("model", originalValue))

	mgr.SetOverride("model", "mistral:latest")
	assert.Equal(t, "mistral:latest", mgr.Resolve().ModelName)

	mgr2, err := NewManager(configPath)
	require.NoError(t, err)
	assert.Equal(t, originalValue, mgr2.Resolve().ModelName, "override persisted to file")
}

// TestCustomConfigPath verifies that --config flag works correctly.
func TestCustomConfigPath(t *testing.T) {
	tmpDir := t.TempDir()
	defaultPath := filepath.Join(tmpDir, "default.yaml")
	customPath := filepath.Join(tmpDir, "custom.yaml")

	defaultMgr, err := NewManager(defaultPath)
	require.NoError(t, err)
	require.NoError(t, defaultMgr.Init())
	require.NoError(t, defaultMgr.Set("inference.provider", "ollama"))

	customMgr, err := NewManager(customPath)
	require.NoError(t, err)
	require.NoError(t, customMgr.Init())
	require.NoError(t, customMgr.Set("inference.provider", "openai"))

	loadMgr, err := NewManager(customPath)
	require.NoError(t, err)

	cfg, err := loadMgr.Load()
	require.NoError(t, err)
	assert.Equal(t, "openai", cfg.Inference.Provider)
}

func TestInitRefusesExistingFile(t *testing.T) {
	mgr, configPath := newInitializedManager(t)

	info, err := os.Stat(configPath)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())

	assert.Error(t, mgr.Init())
}

func TestSetConvertsTypes(t *testing.T) {
	mgr, _ := newInitializedManager(t)

	require.NoError(t, mgr.Set("custom.commit_temperature", "0.3"))
	require.NoError(t, mgr.Set("use_emojis", "true"))
	assert.Error(t, mgr.Set("use_uppercase", "maybe"))

	value, err := mgr.Get("custom.commit_temperature")
	require.NoError(t, err)
	assert.Equal(t, "0.3", value)

	settings := mgr.Resolve()
	assert.Equal(t, 0.3, settings.CommitTemperature)
	assert.True(t, settings.UseEmojis)
}

func TestGetUnknownKey(t *testing.T) {
	mgr, _ := newInitializedManager(t)

	_, err := mgr.Get("does.not.exist")
	assert.Error(t, err)
}

func TestSecurityWarningAcknowledgement(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), ".commitollama", "config.yaml")
	mgr, err := NewManager(configPath)
	require.NoError(t, err)

	assert.False(t, mgr.IsSecurityWarningAcknowledged())
	require.NoError(t, mgr.AcknowledgeSecurityWarning())
	assert.True(t, mgr.ConfigExists())

	mgr2, err := NewManager(configPath)
	require.NoError(t, err)
	assert.True(t, mgr2.IsSecurityWarningAcknowledged())
}

func TestLogLevelKey(t *testing.T) {
	mgr, _ := newInitializedManager(t)

	cfg, err := mgr.Load()
	require.NoError(t, err)
	assert.Equal(t, "warn", cfg.Log.Level)

	require.NoError(t, mgr.Set("log.level", "info"))
	cfg, err = mgr.Load()
	require.NoError(t, err)
	assert.Equal(t, "info", cfg.Log.Level)

	t.Setenv("COMMITOLLAMA_LOG_LEVEL", "debug")
	cfg, err = mgr.Load()
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.Log.Level)
}
