// Package cmd contains the CLI command definitions for commitollama.
package cmd

import (
	"github.com/spf13/cobra"
)

// NewRootCmd creates the root command for the commitollama CLI.
func NewRootCmd(version, commitHash, date string) *cobra.Command {
	flags := &CreateFlags{}

	rootCmd := &cobra.Command{
		Use:   "commitollama",
		Short: "Commit message drafts from a local Ollama server",
		Long: `commitollama drafts conventional commit messages for your staged changes.

Each staged file's diff is summarized by a model served from a local Ollama
instance, and the summaries are combined into a single commit message that
you can accept, edit, regenerate or cancel.`,
		Version: version,
		Args:    cobra.ArbitraryArgs,
		// Default action is 'create'
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCreate(cmd, args, flags)
		},
		SilenceErrors: true,
		SilenceUsage:  true,
	}

	rootCmd.SetVersionTemplate(`commitollama {{.Version}}
Commit: ` + commitHash + `
Built:  ` + date + "\n")

	// Global flags
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().String("config", "", "Config file path (default: ~/.commitollama/config.yaml)")
	rootCmd.PersistentFlags().String("model", "", "Model to use for this run")
	rootCmd.PersistentFlags().String("endpoint", "", "Inference endpoint to use for this run")

	bindCreateFlags(rootCmd, flags)

	rootCmd.AddCommand(NewCreateCmd())
	rootCmd.AddCommand(NewGenerateCmd())
	rootCmd.AddCommand(NewHookCmd())
	rootCmd.AddCommand(NewConfigCmd())
	rootCmd.AddCommand(NewHistoryCmd())

	return rootCmd
}
