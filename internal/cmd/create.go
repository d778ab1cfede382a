package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/commitollama/commitollama/internal/app"
	"github.com/commitollama/commitollama/internal/pkg/ai"
	"github.com/commitollama/commitollama/internal/pkg/config"
	apperrors "github.com/commitollama/commitollama/internal/pkg/errors"
	"github.com/commitollama/commitollama/internal/pkg/git"
	"github.com/commitollama/commitollama/internal/pkg/ui"
)

// CreateFlags holds the flags for the create command.
type CreateFlags struct {
	DryRun     bool
	Yes        bool
	OutputFile string
	StageAll   bool
}

// NewCreateCmd creates the create command.
func NewCreateCmd() *cobra.Command {
	flags := &CreateFlags{}

	cmd := &cobra.Command{
		Use:   "create [REPO...]",
		Short: "Draft a commit message for the staged changes and commit",
		Long: `Draft a commit message for the staged changes of each repository.

Every staged file is summarized separately, then the summaries are combined
into one conventional commit message. Without arguments the repository
containing the current directory is used.

Examples:
  commitollama create                 # Review and commit in the current repo
  commitollama create --dry-run       # Review without committing
  commitollama create -o msg.txt      # Write the draft to a file
  commitollama create ../api ../web   # Process two repositories in turn`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCreate(cmd, args, flags)
		},
	}

	bindCreateFlags(cmd, flags)
	return cmd
}

func bindCreateFlags(cmd *cobra.Command, flags *CreateFlags) {
	cmd.Flags().BoolVar(&flags.DryRun, "dry-run", false, "Generate the message without committing")
	cmd.Flags().BoolVarP(&flags.Yes, "yes", "y", false, "Accept the generated message without prompting")
	cmd.Flags().StringVarP(&flags.OutputFile, "output", "o", "", "Write the generated message to a file instead of committing")
	cmd.Flags().BoolVar(&flags.StageAll, "stage-all", false, "Run 'git add -A' before drafting")
}

// runCreate executes the create workflow for every repository in args.
func runCreate(cmd *cobra.Command, args []string, flags *CreateFlags) error {
	repos := args
	if len(repos) == 0 {
		repos = []string{"."}
	}
	if flags.OutputFile != "" && len(repos) > 1 {
		return apperrors.New(apperrors.ErrInvalidArguments, "--output accepts a single repository").
			WithContext("repositories", len(repos)).
			WithSuggestion("run once per repository")
	}

	ctx, cancel := commandContext(cmd)
	defer cancel()

	cfgMgr, err := newConfigManager(cmd)
	if err != nil {
		return err
	}

	if !cfgMgr.ConfigExists() && !flags.Yes && isInteractive() {
		store, err := persistentManager(cmd)
		if err == nil {
			err = ui.RunInteractiveSetup(store)
		}
		if err != nil {
			apperrors.Warn("Setup skipped: %v", err)
		}
	}

	cfg := loadConfig(cfgMgr)
	uiMgr := newUIManager(cfg, flags)

	ok, err := confirmEndpoint(cmd, cfgMgr, uiMgr, flags.Yes)
	if err != nil {
		return err
	}
	if !ok {
		uiMgr.ShowInfo("Cancelled")
		return nil
	}

	svc := app.NewCommitService(cfgMgr, ai.NewClient, uiMgr, newHistoryManager(cfg))

	if flags.OutputFile != "" {
		return writeDraft(ctx, svc, uiMgr, repos[0], flags)
	}

	opts := app.ReviewOptions{DryRun: flags.DryRun, StageAll: flags.StageAll}
	var firstErr error
	for _, dir := range repos {
		if err := reviewRepository(ctx, svc, uiMgr, dir, opts); err != nil && firstErr == nil {
			firstErr = err
		}
		if ctx.Err() != nil {
			break
		}
	}
	return firstErr
}

// newUIManager picks the terminal UI, or the plain one when nobody is
// there to answer prompts.
func newUIManager(cfg *config.Config, flags *CreateFlags) ui.Manager {
	if flags.Yes || flags.OutputFile != "" || !isInteractive() {
		return ui.NewNonInteractiveManager(cfg.UI.ColorEnabled)
	}
	return ui.NewDefaultManager(cfg.UI.ColorEnabled, cfg.UI.Editor)
}

func reviewRepository(ctx context.Context, svc *app.CommitService, uiMgr ui.Manager, dir string, opts app.ReviewOptions) error {
	repo, err := git.Open(ctx, dir, git.NewMemoryBox(""))
	if err != nil {
		uiMgr.ShowError(err)
		return apperrors.MarkReported(err)
	}
	apperrors.Debug("Repository: %s", repo.Root())
	return svc.ReviewAndCommit(ctx, repo, opts)
}

// writeDraft drafts a message for dir into flags.OutputFile. Nothing is
// committed.
func writeDraft(ctx context.Context, svc *app.CommitService, uiMgr ui.Manager, dir string, flags *CreateFlags) error {
	box := git.NewFileBox(flags.OutputFile)
	repo, err := git.Open(ctx, dir, box)
	if err != nil {
		uiMgr.ShowError(err)
		return apperrors.MarkReported(err)
	}

	if flags.StageAll {
		if err := repo.AddAll(ctx); err != nil {
			uiMgr.ShowError(err)
			return apperrors.MarkReported(err)
		}
	}

	if err := svc.CreateCommitMessage(ctx, repo); err != nil {
		return err
	}
	fmt.Fprintf(os.Stderr, "Commit message written to %s\n", box.Path())
	return nil
}
