package cmd

import (
	"github.com/spf13/cobra"
)

// NewGenerateCmd creates the generate command as an alias for create --dry-run.
func NewGenerateCmd() *cobra.Command {
	flags := &CreateFlags{}

	cmd := &cobra.Command{
		Use:   "generate [REPO...]",
		Short: "Draft a commit message without committing",
		Long: `Draft a commit message for the staged changes without committing.

This is equivalent to running 'commitollama create --dry-run'.

Examples:
  commitollama generate              # Draft and review
  commitollama generate -o msg.txt   # Save the draft to a file
  commitollama generate --yes        # Print the draft without prompting`,
		RunE: func(cmd *cobra.Command, args []string) error {
			flags.DryRun = true
			return runCreate(cmd, args, flags)
		},
	}

	cmd.Flags().BoolVarP(&flags.Yes, "yes", "y", false, "Print the draft without prompting")
	cmd.Flags().StringVarP(&flags.OutputFile, "output", "o", "", "Write the draft to a file")
	cmd.Flags().BoolVar(&flags.StageAll, "stage-all", false, "Run 'git add -A' before drafting")

	return cmd
}
