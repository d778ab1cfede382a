// Package ui provides the terminal components used by the commit workflow.
package ui

import (
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	apperrors "github.com/commitollama/commitollama/internal/pkg/errors"
	"github.com/commitollama/commitollama/internal/pkg/message"
)

// Action represents a user action in the review loop.
type Action int

const (
	ActionAccept Action = iota
	ActionEdit
	ActionRegenerate
	ActionCancel
)

// String returns the string representation of an Action.
func (a Action) String() string {
	switch a {
	case ActionAccept:
		return "accept"
	case ActionEdit:
		return "edit"
	case ActionRegenerate:
		return "regenerate"
	case ActionCancel:
		return "cancel"
	default:
		return "unknown"
	}
}

// Spinner provides loading animation functionality.
type Spinner interface {
	Start()
	Stop()
	UpdateText(text string)
}

// Progress is a spinner that also counts finished work items.
type Progress interface {
	Spinner
	SetTotal(total int)
	// Advance marks one more item as done; file names the item.
	Advance(file string)
}

// Manager defines the interface for UI operations.
type Manager interface {
	DisplayMessage(raw string) error
	ShowWarnings(warnings []string)
	PromptAction() (Action, error)
	EditMessage(raw string) (string, error)
	ShowSpinner(text string) Spinner
	ShowProgress(text string, total int) Progress
	ShowError(err error)
	ShowInfo(text string)
	ShowSuccess(text string)
	PromptConfirm(question string) (bool, error)
}

// editorHint is appended to the file handed to an external editor.
const editorHint = "# Edit the commit message above. Lines starting with '#' are ignored."

// DefaultManager implements Manager with bubbletea, huh and lipgloss.
type DefaultManager struct {
	colorEnabled bool
	editor       string
	out          io.Writer
	errOut       io.Writer
	styles       *styles
}

type styles struct {
	title      lipgloss.Style
	decoration lipgloss.Style
	header     lipgloss.Style
	body       lipgloss.Style
	footer     lipgloss.Style
	success    lipgloss.Style
	warning    lipgloss.Style
	errorStyle lipgloss.Style
	info       lipgloss.Style
}

// NewDefaultManager creates a DefaultManager writing to stdout and stderr.
func NewDefaultManager(colorEnabled bool, editor string) *DefaultManager {
	return &DefaultManager{
		colorEnabled: colorEnabled,
		editor:       editor,
		out:          os.Stdout,
		errOut:       os.Stderr,
		styles:       newStyles(colorEnabled),
	}
}

// SetOutput redirects regular and error output.
func (m *DefaultManager) SetOutput(out, errOut io.Writer) {
	m.out = out
	m.errOut = errOut
}

func newStyles(colorEnabled bool) *styles {
	if !colorEnabled {
		plain := lipgloss.NewStyle()
		return &styles{
			title: plain, decoration: plain, header: plain, body: plain, footer: plain,
			success: plain, warning: plain, errorStyle: plain, info: plain,
		}
	}

	return &styles{
		title: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("39")),
		decoration: lipgloss.NewStyle(),
		header: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("220")),
		body: lipgloss.NewStyle().
			Foreground(lipgloss.Color("252")),
		footer: lipgloss.NewStyle().
			Foreground(lipgloss.Color("245")).
			Italic(true),
		success: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("42")),
		warning: lipgloss.NewStyle().
			Foreground(lipgloss.Color("214")),
		errorStyle: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("196")),
		info: lipgloss.NewStyle().
			Foreground(lipgloss.Color("39")),
	}
}

// DisplayMessage prints a generated commit message between rules.
func (m *DefaultManager) DisplayMessage(raw string) error {
	if strings.TrimSpace(raw) == "" {
		return fmt.Errorf("message cannot be empty")
	}

	fmt.Fprintln(m.out)
	fmt.Fprintln(m.out, m.styles.title.Render("Generated Commit Message"))
	fmt.Fprintln(m.out, strings.Repeat("-", 50))
	fmt.Fprintln(m.out, renderMessage(m.styles, raw))
	fmt.Fprintln(m.out, strings.Repeat("-", 50))
	fmt.Fprintln(m.out)
	return nil
}

func renderMessage(s *styles, raw string) string {
	cm := message.Parse(raw)

	var sb strings.Builder
	header := cm.Header()
	if cm.Decoration != "" {
		sb.WriteString(s.decoration.Render(cm.Decoration))
		sb.WriteString(" ")
		header = strings.TrimPrefix(header, cm.Decoration+" ")
	}
	sb.WriteString(s.header.Render(header))
	if cm.Body != "" {
		sb.WriteString("\n\n")
		sb.WriteString(s.body.Render(cm.Body))
	}
	if cm.Footer != "" {
		sb.WriteString("\n\n")
		sb.WriteString(s.footer.Render(cm.Footer))
	}
	return sb.String()
}

// ShowWarnings prints advisory notes about the message format.
func (m *DefaultManager) ShowWarnings(warnings []string) {
	for _, w := range warnings {
		fmt.Fprintln(m.out, m.styles.warning.Render("! "+w))
	}
	if len(warnings) > 0 {
		fmt.Fprintln(m.out)
	}
}

// PromptAction asks what to do with the displayed message.
func (m *DefaultManager) PromptAction() (Action, error) {
	return runActionPrompt()
}

// EditMessage lets the user change raw in their editor, or inline when no
// editor is configured or it fails to start.
func (m *DefaultManager) EditMessage(raw string) (string, error) {
	if editor := m.getEditor(); editor != "" {
		edited, err := m.editWithExternalEditor(editor, raw)
		if err == nil {
			return cleanEditedMessage(edited), nil
		}
		apperrors.Debug("external editor failed: %v", err)
		m.ShowInfo("External editor not available, using inline editor...")
	}

	edited, err := editInline(raw)
	if err != nil {
		return "", fmt.Errorf("failed to edit message: %w", err)
	}
	return cleanEditedMessage(edited), nil
}

// getEditor returns the configured editor, then $VISUAL, then $EDITOR.
func (m *DefaultManager) getEditor() string {
	if m.editor != "" {
		return m.editor
	}
	if editor := os.Getenv("VISUAL"); editor != "" {
		return editor
	}
	return os.Getenv("EDITOR")
}

func (m *DefaultManager) editWithExternalEditor(editor, content string) (string, error) {
	// "code --wait" style commands carry their own arguments.
	args := strings.Fields(editor)
	if len(args) == 0 {
		return "", fmt.Errorf("invalid editor command %q", editor)
	}

	tmpFile, err := os.CreateTemp("", "commitollama-*.txt")
	if err != nil {
		return "", fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmpFile.Name()
	defer os.Remove(tmpPath)

	if _, err := tmpFile.WriteString(content + "\n\n" + editorHint + "\n"); err != nil {
		tmpFile.Close()
		return "", fmt.Errorf("failed to write to temp file: %w", err)
	}
	tmpFile.Close()

	cmd := exec.Command(args[0], append(args[1:], tmpPath)...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return "", fmt.Errorf("editor failed: %w", err)
	}

	edited, err := os.ReadFile(tmpPath)
	if err != nil {
		return "", fmt.Errorf("failed to read edited file: %w", err)
	}
	return string(edited), nil
}

func editInline(content string) (string, error) {
	edited := content
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewText().
				Title("Edit Commit Message").
				Description("Tab then Enter to save. Esc to cancel.").
				Value(&edited).
				CharLimit(0),
		),
	)
	if err := form.Run(); err != nil {
		return "", err
	}
	return edited, nil
}

// cleanEditedMessage drops comment lines and surrounding blank space.
func cleanEditedMessage(edited string) string {
	lines := strings.Split(strings.ReplaceAll(edited, "\r\n", "\n"), "\n")
	kept := lines[:0]
	for _, line := range lines {
		if strings.HasPrefix(line, "#") {
			continue
		}
		kept = append(kept, strings.TrimRight(line, " \t"))
	}
	return strings.TrimSpace(strings.Join(kept, "\n"))
}

// ShowSpinner creates a spinner on stderr.
func (m *DefaultManager) ShowSpinner(text string) Spinner {
	return newBubbleSpinner(text, m.errOut)
}

// ShowProgress creates a progress bar on stderr.
func (m *DefaultManager) ShowProgress(text string, total int) Progress {
	return newBubbleProgress(text, total, m.errOut)
}

// ShowError prints err as a single notification line.
func (m *DefaultManager) ShowError(err error) {
	if err == nil {
		return
	}
	fmt.Fprintln(m.errOut, m.styles.errorStyle.Render(apperrors.FormatError(err)))
}

// ShowInfo prints an informational line.
func (m *DefaultManager) ShowInfo(text string) {
	fmt.Fprintln(m.out, m.styles.info.Render(text))
}

// ShowSuccess prints a success line.
func (m *DefaultManager) ShowSuccess(text string) {
	fmt.Fprintln(m.out, m.styles.success.Render("[OK] "+text))
}

// PromptConfirm asks a yes/no question.
func (m *DefaultManager) PromptConfirm(question string) (bool, error) {
	return runConfirmPrompt(question)
}
