package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/commitollama/commitollama/internal/app"
	"github.com/commitollama/commitollama/internal/pkg/ai"
	apperrors "github.com/commitollama/commitollama/internal/pkg/errors"
	"github.com/commitollama/commitollama/internal/pkg/git"
	"github.com/commitollama/commitollama/internal/pkg/security"
	"github.com/commitollama/commitollama/internal/pkg/ui"
)

// skippedHookSources are prepare-commit-msg sources that already carry a
// message the user chose.
var skippedHookSources = map[string]bool{
	"message": true,
	"merge":   true,
	"squash":  true,
	"commit":  true,
}

// shouldDraftForSource reports whether the hook should fill the message for
// the given prepare-commit-msg source argument.
func shouldDraftForSource(source string) bool {
	return !skippedHookSources[source]
}

// NewHookCmd creates the hook command, meant to be called from a
// prepare-commit-msg hook.
func NewHookCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "hook MSGFILE [SOURCE [SHA]]",
		Short: "Fill the commit message file from a prepare-commit-msg hook",
		Long: `Draft a commit message into MSGFILE, keeping the comment lines git wrote.

Install it with:
  printf '#!/bin/sh\ncommitollama hook "$@"\n' > .git/hooks/prepare-commit-msg
  chmod +x .git/hooks/prepare-commit-msg

Nothing is drafted when git already has a message (-m, merge, squash, amend).
Failures are reported but never abort the commit.`,
		Args: cobra.RangeArgs(1, 3),
		RunE: runHook,
	}
}

func runHook(cmd *cobra.Command, args []string) error {
	msgFile := args[0]
	source := ""
	if len(args) > 1 {
		source = args[1]
	}
	if !shouldDraftForSource(source) {
		apperrors.Debug("Skipping hook for source %q", source)
		return nil
	}

	ctx, cancel := commandContext(cmd)
	defer cancel()

	cfgMgr, err := newConfigManager(cmd)
	if err != nil {
		fmt.Fprintln(cmd.ErrOrStderr(), apperrors.FormatError(err))
		return nil
	}
	cfg := loadConfig(cfgMgr)
	uiMgr := ui.NewNonInteractiveManager(cfg.UI.ColorEnabled)

	endpoint := cfgMgr.Resolve().Endpoint
	if security.NeedsRemoteWarning(endpoint, cfgMgr.IsSecurityWarningAcknowledged()) {
		fmt.Fprint(os.Stderr, security.RemoteEndpointWarning(endpoint))
		uiMgr.ShowInfo("Run 'commitollama create' once to acknowledge this endpoint")
		return nil
	}

	repo, err := git.Open(ctx, ".", git.NewFileBox(msgFile))
	if err != nil {
		uiMgr.ShowError(err)
		return nil
	}

	svc := app.NewCommitService(cfgMgr, ai.NewClient, uiMgr, nil)
	if err := svc.CreateCommitMessage(ctx, repo); err != nil {
		apperrors.Debug("Hook draft failed: %v", err)
	}
	return nil
}
