package cmd

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	apperrors "github.com/commitollama/commitollama/internal/pkg/errors"
)

// NewConfigCmd creates the config command and its subcommands.
func NewConfigCmd() *cobra.Command {
	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Manage commitollama configuration",
		Long: `Manage commitollama configuration settings.

Use subcommands to initialize, view, or modify configuration values.
Configuration is stored in ~/.commitollama/config.yaml by default and every
key can be overridden with a COMMITOLLAMA_ environment variable
(e.g. COMMITOLLAMA_CUSTOM_ENDPOINT).`,
	}

	configCmd.AddCommand(newConfigInitCmd())
	configCmd.AddCommand(newConfigSetCmd())
	configCmd.AddCommand(newConfigGetCmd())
	configCmd.AddCommand(newConfigListCmd())

	return configCmd
}

// newConfigInitCmd creates the 'config init' subcommand.
func newConfigInitCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Initialize configuration file",
		Long: `Create a new configuration file with default values.

The file is created with permissions 0600 (user read/write only).`,
		RunE: func(cmd *cobra.Command, args []string) error {
			mgr, err := persistentManager(cmd)
			if err != nil {
				return apperrors.Wrap(err, apperrors.ErrInvalidConfig, "failed to create config manager")
			}

			if err := mgr.Init(); err != nil {
				return apperrors.Wrap(err, apperrors.ErrInvalidConfig, "failed to initialize config")
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Configuration file created at %s\n", mgr.GetConfigPath())
			return nil
		},
	}
}

// newConfigSetCmd creates the 'config set' subcommand.
func newConfigSetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "set <key> <value>",
		Short: "Set a configuration value",
		Long: `Set a configuration value by key. The file is created if needed.

Supports nested keys using dot notation.

Examples:
  commitollama config set model codellama
  commitollama config set model custom
  commitollama config set custom.model qwen2.5-coder:7b
  commitollama config set custom.endpoint http://gpu-box:11434
  commitollama config set use_emojis true
  commitollama config set inference.max_concurrency 2`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			key, value := args[0], args[1]

			mgr, err := persistentManager(cmd)
			if err != nil {
				return apperrors.Wrap(err, apperrors.ErrInvalidConfig, "failed to create config manager")
			}

			if err := mgr.Set(key, value); err != nil {
				return apperrors.Wrap(err, apperrors.ErrInvalidConfig, "failed to set "+key)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Set %s = %s\n", key, displayValue(key, value))
			return nil
		},
	}
}

// newConfigGetCmd creates the 'config get' subcommand.
func newConfigGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <key>",
		Short: "Print a configuration value",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			mgr, err := persistentManager(cmd)
			if err != nil {
				return apperrors.Wrap(err, apperrors.ErrInvalidConfig, "failed to create config manager")
			}

			value, err := mgr.Get(args[0])
			if err != nil {
				return apperrors.Wrap(err, apperrors.ErrInvalidArguments, "unknown key "+args[0])
			}

			fmt.Fprintln(cmd.OutOrStdout(), displayValue(args[0], value))
			return nil
		},
	}
}

// newConfigListCmd creates the 'config list' subcommand.
func newConfigListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all configuration values",
		Long: `Display all current configuration values, including defaults.

API keys are masked, showing only the last 4 characters.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			mgr, err := persistentManager(cmd)
			if err != nil {
				return apperrors.Wrap(err, apperrors.ErrInvalidConfig, "failed to create config manager")
			}

			printSettings(cmd.OutOrStdout(), "", mgr.List())
			return nil
		},
	}
}

// displayValue masks secrets.
func displayValue(key, value string) string {
	if strings.Contains(strings.ToLower(key), "api_key") && value != "" {
		return apperrors.MaskAPIKey(value)
	}
	return value
}

// printSettings prints nested settings in key order, indenting each level.
func printSettings(w io.Writer, indent string, settings map[string]interface{}) {
	keys := make([]string, 0, len(settings))
	for k := range settings {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, key := range keys {
		switch v := settings[key].(type) {
		case map[string]interface{}:
			fmt.Fprintf(w, "%s%s:\n", indent, key)
			printSettings(w, indent+"  ", v)
		default:
			fmt.Fprintf(w, "%s%s: %s\n", indent, key, displayValue(key, fmt.Sprintf("%v", v)))
		}
	}
}
