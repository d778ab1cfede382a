// Package app contains the commit workflow built on top of the pkg layer.
package app

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/commitollama/commitollama/internal/pkg/ai"
	"github.com/commitollama/commitollama/internal/pkg/config"
	apperrors "github.com/commitollama/commitollama/internal/pkg/errors"
	"github.com/commitollama/commitollama/internal/pkg/generator"
	"github.com/commitollama/commitollama/internal/pkg/git"
	"github.com/commitollama/commitollama/internal/pkg/history"
	"github.com/commitollama/commitollama/internal/pkg/message"
	"github.com/commitollama/commitollama/internal/pkg/processor"
	"github.com/commitollama/commitollama/internal/pkg/security"
	"github.com/commitollama/commitollama/internal/pkg/ui"
)

// MaxRegenerationAttempts is the maximum number of times a user can regenerate a commit message.
const MaxRegenerationAttempts = 5

// ClientFactory builds the inference client for one flow.
type ClientFactory func(settings config.Settings) (ai.Client, error)

// ReviewOptions contains options for the review-and-commit workflow.
type ReviewOptions struct {
	// DryRun stops after the message is accepted.
	DryRun bool
	// StageAll runs 'git add -A' before anything else.
	StageAll bool
}

// CommitService drafts commit messages and drives the review loop.
type CommitService struct {
	resolver   config.Resolver
	newClient  ClientFactory
	uiManager  ui.Manager
	historyMgr history.Manager
}

// NewCommitService creates a CommitService. historyMgr may be nil to
// disable history.
func NewCommitService(
	resolver config.Resolver,
	newClient ClientFactory,
	uiManager ui.Manager,
	historyMgr history.Manager,
) *CommitService {
	if newClient == nil {
		newClient = ai.NewClient
	}
	return &CommitService{
		resolver:   resolver,
		newClient:  newClient,
		uiManager:  uiManager,
		historyMgr: historyMgr,
	}
}

// draft is one generated message together with the summaries behind it.
type draft struct {
	settings  config.Settings
	gen       *generator.Generator
	summaries []string
	message   string
}

// CreateCommitMessage summarizes every staged change of repo, composes a
// commit message from the summaries and writes it to the repository's input
// box. On failure the error is shown once, the box keeps its previous
// contents, and the returned error is marked as reported.
func (s *CommitService) CreateCommitMessage(ctx context.Context, repo git.Repository) error {
	_, err := s.createDraft(ctx, repo, s.resolver.Resolve())
	return err
}

func (s *CommitService) createDraft(ctx context.Context, repo git.Repository, settings config.Settings) (*draft, error) {
	d, err := s.generate(ctx, repo, settings)
	if err == nil {
		err = repo.InputBox().SetValue(d.message)
	}
	if err != nil {
		return nil, s.report(err)
	}
	return d, nil
}

func (s *CommitService) generate(ctx context.Context, repo git.Repository, settings config.Settings) (*draft, error) {
	changes, err := repo.StagedChanges(ctx)
	if err != nil {
		return nil, err
	}
	changes = processor.NewFilter(settings.ExcludePatterns).Apply(changes)
	if len(changes) == 0 {
		return nil, apperrors.NewEmptyChangeSetError()
	}

	records := make([]generator.DiffRecord, 0, len(changes))
	for _, c := range changes {
		diff, err := repo.FileDiff(ctx, c)
		if err != nil {
			return nil, err
		}
		records = append(records, generator.DiffRecord{FilePath: c.Path, DiffText: diff})
	}

	client, err := s.newClient(settings)
	if err != nil {
		return nil, apperrors.NewConnectionError(err)
	}
	gen := generator.New(client)

	progress := s.uiManager.ShowProgress("Summarizing changes", len(records))
	progress.Start()
	defer progress.Stop()

	summaries, err := summarizeAll(ctx, gen, records, settings, progress)
	if err != nil {
		return nil, err
	}

	progress.UpdateText("Composing commit message")
	msg, err := gen.Compose(ctx, summaries, settings)
	if err != nil {
		return nil, err
	}
	apperrors.Debug("composed message: %s", security.SanitizeForLogging(msg))

	return &draft{settings: settings, gen: gen, summaries: summaries, message: msg}, nil
}

// summarizeAll runs one Summarize call per record concurrently and returns
// the summaries in record order. Every call runs to completion; the first
// error wins and the other results are discarded.
func summarizeAll(
	ctx context.Context,
	gen *generator.Generator,
	records []generator.DiffRecord,
	settings config.Settings,
	progress ui.Progress,
) ([]string, error) {
	summaries := make([]string, len(records))

	var g errgroup.Group
	if settings.MaxConcurrency > 0 {
		g.SetLimit(settings.MaxConcurrency)
	}
	for i, rec := range records {
		i, rec := i, rec
		g.Go(func() error {
			summary, err := gen.Summarize(ctx, rec.DiffText, settings)
			if err != nil {
				return err
			}
			apperrors.Debug("summary of %s: %s", rec.FilePath, security.SanitizeForLogging(summary))
			summaries[i] = summary
			progress.Advance(rec.FilePath)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return summaries, nil
}

// ReviewAndCommit drafts a message, lets the user accept, edit, regenerate
// or cancel it, records it in history and commits unless opts.DryRun is set.
func (s *CommitService) ReviewAndCommit(ctx context.Context, repo git.Repository, opts ReviewOptions) error {
	if opts.StageAll {
		spinner := s.uiManager.ShowSpinner("Staging all changes...")
		spinner.Start()
		err := repo.AddAll(ctx)
		spinner.Stop()
		if err != nil {
			return s.report(err)
		}
	}

	d, err := s.createDraft(ctx, repo, s.resolver.Resolve())
	if err != nil {
		return err
	}

	msg, ok, err := s.review(ctx, repo, d)
	if err != nil {
		return s.report(err)
	}
	if !ok {
		s.uiManager.ShowInfo("Commit cancelled")
		return nil
	}

	s.saveHistory(repo, d, msg, !opts.DryRun)

	if opts.DryRun {
		s.uiManager.ShowSuccess("Dry run: message generated but not committed")
		return nil
	}

	spinner := s.uiManager.ShowSpinner("Committing changes...")
	spinner.Start()
	err = repo.Commit(ctx, msg)
	spinner.Stop()
	if err != nil {
		return s.report(err)
	}

	s.uiManager.ShowSuccess("Committed: " + firstLine(msg))
	return nil
}

// review runs the action loop. It returns the accepted message, or
// ok=false when the user cancelled.
func (s *CommitService) review(ctx context.Context, repo git.Repository, d *draft) (msg string, ok bool, err error) {
	msg = d.message
	regenerations := 0

	for {
		if err := s.uiManager.DisplayMessage(msg); err != nil {
			return "", false, err
		}
		s.uiManager.ShowWarnings(validationNotes(msg))

		action, err := s.uiManager.PromptAction()
		if err != nil {
			return "", false, fmt.Errorf("failed to get user action: %w", err)
		}

		switch action {
		case ui.ActionAccept:
			return msg, true, nil

		case ui.ActionEdit:
			edited, err := s.uiManager.EditMessage(msg)
			if err != nil {
				s.uiManager.ShowError(err)
				continue
			}
			if edited == "" {
				return "", false, nil
			}
			if err := repo.InputBox().SetValue(edited); err != nil {
				return "", false, err
			}
			return edited, true, nil

		case ui.ActionRegenerate:
			regenerations++
			if regenerations > MaxRegenerationAttempts {
				s.uiManager.ShowInfo(fmt.Sprintf("Maximum regeneration attempts (%d) reached", MaxRegenerationAttempts))
				continue
			}
			regenerated, err := s.recompose(ctx, d)
			if err != nil {
				return "", false, err
			}
			if err := repo.InputBox().SetValue(regenerated); err != nil {
				return "", false, err
			}
			msg = regenerated
			d.message = regenerated

		default:
			return "", false, nil
		}
	}
}

// recompose asks for a new message from the summaries already collected.
func (s *CommitService) recompose(ctx context.Context, d *draft) (string, error) {
	spinner := s.uiManager.ShowSpinner("Regenerating commit message...")
	spinner.Start()
	defer spinner.Stop()
	return d.gen.Compose(ctx, d.summaries, d.settings)
}

// validationNotes turns format problems into advisory lines.
func validationNotes(msg string) []string {
	result := message.Parse(msg).Validate()
	notes := make([]string, 0, len(result.Errors)+len(result.Warnings))
	notes = append(notes, result.Errors...)
	return append(notes, result.Warnings...)
}

func (s *CommitService) saveHistory(repo git.Repository, d *draft, msg string, committed bool) {
	if s.historyMgr == nil {
		return
	}
	entry := &history.Entry{
		Repository: repo.Root(),
		Message:    msg,
		Summaries:  d.summaries,
		Provider:   d.settings.Provider,
		Model:      d.settings.ModelName,
		Committed:  committed,
	}
	if err := s.historyMgr.Save(entry); err != nil {
		apperrors.Warn("failed to save history: %v", err)
	}
}

// report shows err as a one-line notification and marks it so the caller
// does not print it again.
func (s *CommitService) report(err error) error {
	if apperrors.IsReported(err) {
		return err
	}
	apperrors.Debug("%s", apperrors.FormatErrorVerbose(err))
	s.uiManager.ShowError(err)
	return apperrors.MarkReported(err)
}

func firstLine(s string) string {
	for i, r := range s {
		if r == '\n' {
			return s[:i]
		}
	}
	return s
}
