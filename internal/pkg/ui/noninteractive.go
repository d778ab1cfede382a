package ui

import (
	"fmt"
	"io"
	"os"

	apperrors "github.com/commitollama/commitollama/internal/pkg/errors"
)

// NonInteractiveManager implements Manager for --yes runs and git hooks:
// it never prompts and draws no animations.
type NonInteractiveManager struct {
	out    io.Writer
	errOut io.Writer
	styles *styles
}

// NewNonInteractiveManager creates a NonInteractiveManager on stdout and stderr.
func NewNonInteractiveManager(colorEnabled bool) *NonInteractiveManager {
	return &NonInteractiveManager{
		out:    os.Stdout,
		errOut: os.Stderr,
		styles: newStyles(colorEnabled),
	}
}

// SetOutput redirects regular and error output.
func (m *NonInteractiveManager) SetOutput(out, errOut io.Writer) {
	m.out = out
	m.errOut = errOut
}

// DisplayMessage prints the message as is.
func (m *NonInteractiveManager) DisplayMessage(raw string) error {
	if raw == "" {
		return fmt.Errorf("message cannot be empty")
	}
	fmt.Fprintln(m.out, raw)
	return nil
}

// ShowWarnings prints warnings to stderr.
func (m *NonInteractiveManager) ShowWarnings(warnings []string) {
	for _, w := range warnings {
		fmt.Fprintln(m.errOut, m.styles.warning.Render("warning: "+w))
	}
}

// PromptAction always accepts.
func (m *NonInteractiveManager) PromptAction() (Action, error) {
	return ActionAccept, nil
}

// EditMessage returns raw unchanged.
func (m *NonInteractiveManager) EditMessage(raw string) (string, error) {
	return raw, nil
}

// ShowSpinner returns a spinner that draws nothing.
func (m *NonInteractiveManager) ShowSpinner(string) Spinner {
	return noopProgress{}
}

// ShowProgress returns a progress indicator that draws nothing.
func (m *NonInteractiveManager) ShowProgress(string, int) Progress {
	return noopProgress{}
}

// ShowError prints err as a single line on stderr.
func (m *NonInteractiveManager) ShowError(err error) {
	if err == nil {
		return
	}
	fmt.Fprintln(m.errOut, m.styles.errorStyle.Render(apperrors.FormatError(err)))
}

// ShowInfo prints text on stderr so stdout carries only the message.
func (m *NonInteractiveManager) ShowInfo(text string) {
	fmt.Fprintln(m.errOut, text)
}

// ShowSuccess prints text on stderr.
func (m *NonInteractiveManager) ShowSuccess(text string) {
	fmt.Fprintln(m.errOut, m.styles.success.Render(text))
}

// PromptConfirm always confirms.
func (m *NonInteractiveManager) PromptConfirm(string) (bool, error) {
	return true, nil
}

type noopProgress struct{}

func (noopProgress) Start()            {}
func (noopProgress) Stop()             {}
func (noopProgress) UpdateText(string) {}
func (noopProgress) SetTotal(int)      {}
func (noopProgress) Advance(string)    {}
