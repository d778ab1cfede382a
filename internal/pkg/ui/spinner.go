package ui

import (
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

var spinnerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))

type textMsg string

type quitMsg struct{}

// teaRunner owns one background bubbletea program. Stop waits for the
// program to restore the terminal before returning.
type teaRunner struct {
	mu      sync.Mutex
	out     io.Writer
	program *tea.Program
	done    chan struct{}
}

func (r *teaRunner) start(model tea.Model) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.program != nil {
		return
	}

	// No input: the spinner must not compete with git or the editor for stdin.
	r.program = tea.NewProgram(model, tea.WithOutput(r.out), tea.WithInput(nil))
	r.done = make(chan struct{})
	go func(p *tea.Program, done chan struct{}) {
		defer close(done)
		_, _ = p.Run()
	}(r.program, r.done)
}

func (r *teaRunner) send(msg tea.Msg) {
	r.mu.Lock()
	p := r.program
	r.mu.Unlock()
	if p != nil {
		p.Send(msg)
	}
}

func (r *teaRunner) stop() {
	r.mu.Lock()
	p, done := r.program, r.done
	r.program = nil
	r.mu.Unlock()
	if p == nil {
		return
	}
	p.Send(quitMsg{})
	<-done
}

// bubbleSpinner implements Spinner.
type bubbleSpinner struct {
	runner teaRunner
	text   string
}

func newBubbleSpinner(text string, out io.Writer) *bubbleSpinner {
	return &bubbleSpinner{runner: teaRunner{out: out}, text: text}
}

func (s *bubbleSpinner) Start() {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = spinnerStyle
	s.runner.start(spinnerModel{spinner: sp, text: s.text})
}

func (s *bubbleSpinner) Stop() {
	s.runner.stop()
}

func (s *bubbleSpinner) UpdateText(text string) {
	s.runner.send(textMsg(text))
}

type spinnerModel struct {
	spinner  spinner.Model
	text     string
	quitting bool
}

func (m spinnerModel) Init() tea.Cmd {
	return m.spinner.Tick
}

func (m spinnerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case textMsg:
		m.text = string(msg)
	case quitMsg:
		m.quitting = true
		return m, tea.Quit
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m spinnerModel) View() string {
	if m.quitting {
		return ""
	}
	return fmt.Sprintf("%s %s", m.spinner.View(), m.text)
}

// bubbleProgress implements Progress. Advance may be called from several
// goroutines at once.
type bubbleProgress struct {
	runner  teaRunner
	mu      sync.Mutex
	text    string
	total   int
	current int
}

type progressMsg struct {
	current int
	total   int
	file    string
}

func newBubbleProgress(text string, total int, out io.Writer) *bubbleProgress {
	return &bubbleProgress{runner: teaRunner{out: out}, text: text, total: total}
}

func (p *bubbleProgress) Start() {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = spinnerStyle

	p.mu.Lock()
	model := progressModel{
		spinner: sp,
		bar: progress.New(
			progress.WithDefaultGradient(),
			progress.WithWidth(20),
			progress.WithoutPercentage(),
		),
		text:    p.text,
		total:   p.total,
		current: p.current,
	}
	p.mu.Unlock()

	p.runner.start(model)
}

func (p *bubbleProgress) Stop() {
	p.runner.stop()
}

func (p *bubbleProgress) UpdateText(text string) {
	p.mu.Lock()
	p.text = text
	p.mu.Unlock()
	p.runner.send(textMsg(text))
}

func (p *bubbleProgress) SetTotal(total int) {
	p.mu.Lock()
	p.total = total
	msg := progressMsg{current: p.current, total: total}
	p.mu.Unlock()
	p.runner.send(msg)
}

func (p *bubbleProgress) Advance(file string) {
	p.mu.Lock()
	p.current++
	msg := progressMsg{current: p.current, total: p.total, file: file}
	p.mu.Unlock()
	p.runner.send(msg)
}

type progressModel struct {
	spinner  spinner.Model
	bar      progress.Model
	text     string
	total    int
	current  int
	file     string
	quitting bool
}

func (m progressModel) Init() tea.Cmd {
	return m.spinner.Tick
}

func (m progressModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case progressMsg:
		m.current, m.total = msg.current, msg.total
		if msg.file != "" {
			m.file = msg.file
		}
	case textMsg:
		m.text = string(msg)
	case quitMsg:
		m.quitting = true
		return m, tea.Quit
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	case progress.FrameMsg:
		bar, cmd := m.bar.Update(msg)
		m.bar = bar.(progress.Model)
		return m, cmd
	}
	return m, nil
}

func (m progressModel) View() string {
	if m.quitting {
		return ""
	}

	percent := 0.0
	if m.total > 0 {
		percent = float64(m.current) / float64(m.total)
	}

	var sb strings.Builder
	sb.WriteString(m.spinner.View())
	sb.WriteString(" ")
	sb.WriteString(m.bar.ViewAs(percent))
	sb.WriteString(fmt.Sprintf(" %d/%d %s", m.current, m.total, m.text))
	if m.file != "" {
		sb.WriteString(" → ")
		sb.WriteString(lipgloss.NewStyle().Foreground(lipgloss.Color("39")).Render(shortenPath(m.file, 30)))
	}
	return sb.String()
}

// shortenPath keeps the tail of p so that it fits in max runes.
func shortenPath(p string, max int) string {
	r := []rune(p)
	if len(r) <= max || max <= 3 {
		return p
	}
	return "..." + string(r[len(r)-(max-3):])
}
