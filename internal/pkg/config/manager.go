package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/viper"
)

const (
	// DefaultConfigDir is the directory under the user's home holding all state.
	DefaultConfigDir = ".commitollama"
	// DefaultConfigFileExt is the default config file extension.
	DefaultConfigFileExt = "yaml"
	// EnvPrefix prefixes every environment variable override.
	EnvPrefix = "COMMITOLLAMA"
)

// ViperManager implements the Manager interface using Viper.
type ViperManager struct {
	v          *viper.Viper
	configPath string
}

// NewManager creates a new configuration manager.
// If configPath is empty, it uses ~/.commitollama/config.yaml.
func NewManager(configPath string) (*ViperManager, error) {
	v := viper.New()
	v.SetConfigType(DefaultConfigFileExt)

	if configPath == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("failed to get home directory: %w", err)
		}
		configPath = filepath.Join(homeDir, DefaultConfigDir, "config.yaml")
	}
	v.SetConfigFile(configPath)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults must exist before nested keys can be bound to the environment.
	setDefaults(v)
	bindEnvVars(v)

	return &ViperManager{
		v:          v,
		configPath: configPath,
	}, nil
}

// envKeys lists every scalar key that can be overridden from the environment.
var envKeys = []string{
	"model",
	"custom.model",
	"custom.endpoint",
	"custom.summary_prompt",
	"custom.summary_temperature",
	"custom.commit_prompt",
	"custom.commit_temperature",
	"use_emojis",
	"use_uppercase",
	"inference.provider",
	"inference.api_key",
	"inference.max_concurrency",
	"inference.timeout_seconds",
	"ui.editor",
	"ui.color_enabled",
	"history.enabled",
	"history.max_entries",
	"history.file_path",
	"security.warning_acknowledged",
	"log.level",
}

// bindEnvVars explicitly binds environment variables for all config keys.
// AutomaticEnv alone does not reach nested keys during Unmarshal.
func bindEnvVars(v *viper.Viper) {
	for _, key := range envKeys {
		_ = v.BindEnv(key, envName(key))
	}
	for _, tag := range CommitTypes {
		key := "commit_emojis." + tag
		_ = v.BindEnv(key, envName(key))
	}
}

// envName maps a dotted key to its environment variable, e.g.
// custom.endpoint -> COMMITOLLAMA_CUSTOM_ENDPOINT.
func envName(key string) string {
	return EnvPrefix + "_" + strings.ToUpper(strings.ReplaceAll(key, ".", "_"))
}

// setDefaults registers the built-in values of every key.
func setDefaults(v *viper.Viper) {
	d := DefaultConfig()

	v.SetDefault("model", d.Model)
	v.SetDefault("custom.model", d.Custom.Model)
	v.SetDefault("custom.endpoint", d.Custom.Endpoint)
	v.SetDefault("custom.summary_prompt", d.Custom.SummaryPrompt)
	v.SetDefault("custom.summary_temperature", d.Custom.SummaryTemperature)
	v.SetDefault("custom.commit_prompt", d.Custom.CommitPrompt)
	v.SetDefault("custom.commit_temperature", d.Custom.CommitTemperature)
	v.SetDefault("use_emojis", d.UseEmojis)
	v.SetDefault("use_uppercase", d.UseUppercase)
	for tag, emoji := range d.CommitEmojis {
		v.SetDefault("commit_emojis."+tag, emoji)
	}

	v.SetDefault("inference.provider", d.Inference.Provider)
	v.SetDefault("inference.api_key", d.Inference.APIKey)
	v.SetDefault("inference.max_concurrency", d.Inference.MaxConcurrency)
	v.SetDefault("inference.timeout_seconds", d.Inference.TimeoutSeconds)

	v.SetDefault("git.exclude_patterns", d.Git.ExcludePatterns)

	v.SetDefault("ui.editor", d.UI.Editor)
	v.SetDefault("ui.color_enabled", d.UI.ColorEnabled)

	v.SetDefault("history.enabled", d.History.Enabled)
	v.SetDefault("history.max_entries", d.History.MaxEntries)
	v.SetDefault("history.file_path", d.History.FilePath)

	v.SetDefault("security.warning_acknowledged", d.Security.WarningAcknowledged)

	v.SetDefault("log.level", d.Log.Level)
}

// DefaultConfig returns the built-in configuration.
func DefaultConfig() *Config {
	historyPath := ""
	if homeDir, err := os.UserHomeDir(); err == nil {
		historyPath = filepath.Join(homeDir, DefaultConfigDir, "history.json")
	}

	return &Config{
		Model: DefaultModel,
		Custom: CustomConfig{
			Endpoint:           DefaultEndpoint,
			SummaryTemperature: DefaultTemperature,
			CommitTemperature:  DefaultTemperature,
		},
		CommitEmojis: DefaultCommitEmojis(),
		Inference: InferenceConfig{
			Provider:       DefaultProvider,
			TimeoutSeconds: DefaultTimeoutSeconds,
		},
		Git: GitConfig{
			ExcludePatterns: []string{
				"*.lock",
				"go.sum",
				"package-lock.json",
				"yarn.lock",
				"pnpm-lock.yaml",
				"Cargo.lock",
			},
		},
		UI: UIConfig{
			ColorEnabled: true,
		},
		History: HistoryConfig{
			Enabled:    true,
			MaxEntries: 1000,
			FilePath:   historyPath,
		},
		Log: LogConfig{
			Level: "warn",
		},
	}
}

// GetConfigPath returns the path to the configuration file.
func (m *ViperManager) GetConfigPath() string {
	return m.configPath
}

// readConfig re-reads the config file. A missing file is not an error.
func (m *ViperManager) readConfig() error {
	if err := m.v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok || os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("failed to read config file: %w", err)
	}
	return nil
}

func (m *ViperManager) unmarshal() (*Config, error) {
	var cfg Config
	if err := m.v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	return &cfg, nil
}

// Load loads the configuration from file, environment, and defaults.
// Priority: flags > env > file > defaults
func (m *ViperManager) Load() (*Config, error) {
	if err := m.readConfig(); err != nil {
		return nil, err
	}
	return m.unmarshal()
}

// Init creates a new configuration file with default values.
// Sets file permissions to 0600 since the file may hold an API key.
func (m *ViperManager) Init() error {
	if _, err := os.Stat(m.configPath); err == nil {
		return fmt.Errorf("config file already exists at %s", m.configPath)
	}

	dir := filepath.Dir(m.configPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	if err := m.v.WriteConfigAs(m.configPath); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	if err := os.Chmod(m.configPath, 0600); err != nil {
		return fmt.Errorf("failed to set config file permissions: %w", err)
	}

	return nil
}

// Set sets a configuration value by key and writes the file.
// Supports nested keys using dot notation (e.g., "custom.endpoint").
func (m *ViperManager) Set(key string, value string) error {
	if err := m.readConfig(); err != nil {
		return err
	}

	existingValue := m.v.Get(key)
	convertedValue, err := convertValue(value, existingValue)
	if err != nil {
		return fmt.Errorf("failed to convert value for key %s: %w", key, err)
	}

	m.v.Set(key, convertedValue)

	if err := m.ensureFile(); err != nil {
		return err
	}
	if err := m.v.WriteConfig(); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// ensureFile creates an empty config file so WriteConfig has a target.
func (m *ViperManager) ensureFile() error {
	if _, err := os.Stat(m.configPath); err == nil {
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(m.configPath), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	f, err := os.OpenFile(m.configPath, os.O_CREATE|os.O_WRONLY, 0600)
	if err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}
	return f.Close()
}

// convertValue converts a string value to the appropriate type based on the existing value type.
func convertValue(value string, existingValue interface{}) (interface{}, error) {
	if existingValue == nil {
		return value, nil
	}

	switch existingValue.(type) {
	case bool:
		return strconv.ParseBool(value)
	case int, int64:
		return strconv.ParseInt(value, 10, 64)
	case float32, float64:
		return strconv.ParseFloat(value, 64)
	case []interface{}, []string:
		return strings.Split(value, ","), nil
	default:
		return value, nil
	}
}

// Get retrieves a configuration value by key.
func (m *ViperManager) Get(key string) (string, error) {
	if err := m.readConfig(); err != nil {
		return "", err
	}

	value := m.v.Get(key)
	if value == nil {
		return "", fmt.Errorf("key not found: %s", key)
	}

	return fmt.Sprintf("%v", value), nil
}

// List returns all configuration values as a map.
func (m *ViperManager) List() map[string]interface{} {
	_ = m.readConfig()
	return m.v.AllSettings()
}

// SetOverride sets a temporary override for a configuration key.
// Used for command-line flags; the value is never written to the file.
func (m *ViperManager) SetOverride(key string, value interface{}) {
	m.v.Set(key, value)
}

// ConfigExists checks if the configuration file exists.
func (m *ViperManager) ConfigExists() bool {
	_, err := os.Stat(m.configPath)
	return err == nil
}

// AcknowledgeSecurityWarning marks the remote endpoint notice as acknowledged.
func (m *ViperManager) AcknowledgeSecurityWarning() error {
	return m.Set("security.warning_acknowledged", "true")
}

// IsSecurityWarningAcknowledged checks if the remote endpoint notice has been acknowledged.
func (m *ViperManager) IsSecurityWarningAcknowledged() bool {
	_ = m.readConfig()
	return m.v.GetBool("security.warning_acknowledged")
}
