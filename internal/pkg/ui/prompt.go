package ui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

var (
	promptTitleStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39"))
	promptSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("212"))
	promptNormalStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	promptHintStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
)

func runActionPrompt() (Action, error) {
	final, err := tea.NewProgram(newActionModel()).Run()
	if err != nil {
		return ActionCancel, err
	}
	return final.(actionModel).selected, nil
}

type actionChoice struct {
	action Action
	label  string
	key    string
	desc   string
}

// actionModel is the bubbletea model behind PromptAction.
type actionModel struct {
	choices  []actionChoice
	cursor   int
	selected Action
	done     bool
}

func newActionModel() actionModel {
	return actionModel{
		choices: []actionChoice{
			{ActionAccept, "Accept", "a", "Commit with this message"},
			{ActionEdit, "Edit", "e", "Change the message first"},
			{ActionRegenerate, "Regenerate", "r", "Ask the model again"},
			{ActionCancel, "Cancel", "c", "Leave without committing"},
		},
		selected: ActionCancel,
	}
}

func (m actionModel) Init() tea.Cmd {
	return nil
}

func (m actionModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch k := key.String(); k {
	case "ctrl+c", "q", "esc":
		return m.choose(ActionCancel)
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.choices)-1 {
			m.cursor++
		}
	case "enter", " ":
		return m.choose(m.choices[m.cursor].action)
	default:
		for _, c := range m.choices {
			if c.key == k {
				return m.choose(c.action)
			}
		}
	}
	return m, nil
}

func (m actionModel) choose(a Action) (tea.Model, tea.Cmd) {
	m.selected = a
	m.done = true
	return m, tea.Quit
}

func (m actionModel) View() string {
	if m.done {
		return ""
	}

	var sb strings.Builder
	sb.WriteString(promptTitleStyle.Render("What would you like to do?"))
	sb.WriteString("\n\n")

	for i, c := range m.choices {
		cursor := "  "
		style := promptNormalStyle
		if m.cursor == i {
			cursor = "▸ "
			style = promptSelectedStyle
		}
		sb.WriteString(fmt.Sprintf("%s[%s] %s", cursor, c.key, style.Render(c.label)))
		sb.WriteString(promptHintStyle.Render(" - " + c.desc))
		sb.WriteString("\n")
	}

	sb.WriteString("\n")
	sb.WriteString(promptHintStyle.Render("↑/↓ to move, enter to select, a/e/r/c shortcuts"))
	return sb.String()
}

func runConfirmPrompt(question string) (bool, error) {
	final, err := tea.NewProgram(confirmModel{question: question}).Run()
	if err != nil {
		return false, err
	}
	return final.(confirmModel).confirmed, nil
}

// confirmModel is a yes/no question defaulting to yes.
type confirmModel struct {
	question  string
	no        bool
	confirmed bool
	done      bool
}

func (m confirmModel) Init() tea.Cmd {
	return nil
}

func (m confirmModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch key.String() {
	case "ctrl+c", "q", "n", "N", "esc":
		m.confirmed = false
		m.done = true
		return m, tea.Quit
	case "y", "Y":
		m.confirmed = true
		m.done = true
		return m, tea.Quit
	case "left", "h":
		m.no = false
	case "right", "l":
		m.no = true
	case "enter", " ":
		m.confirmed = !m.no
		m.done = true
		return m, tea.Quit
	}
	return m, nil
}

func (m confirmModel) View() string {
	if m.done {
		return ""
	}

	yes, no := promptSelectedStyle, promptHintStyle
	if m.no {
		yes, no = promptHintStyle, promptSelectedStyle
	}
	return promptTitleStyle.Render(m.question) + " " + yes.Render("[Y]es") + " / " + no.Render("[N]o")
}
