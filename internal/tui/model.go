// Package tui provides the Bubble Tea quiz interface.
package tui

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/quartal/tritone/internal/parse"
	"github.com/quartal/tritone/internal/session"
	statsPkg "github.com/quartal/tritone/internal/stats"
)

var (
	promptStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0"))
	wrongStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F"))
	dimStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C"))
	rightStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#C89A3A"))
	footerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
)

// Model implements the Bubble Tea quiz UI: a scrolling transcript above a
// single answer line.
type Model struct {
	engine *session.Engine
	input  textinput.Model

	transcript []string
	width      int
	height     int
	done       bool
}

// NewModel constructs a quiz TUI model around a started session. The first
// response from Engine.Start seeds the transcript.
func NewModel(engine *session.Engine, first session.Response) *Model {
	ti := textinput.New()
	ti.Prompt = "> "
	ti.Focus()
	m := &Model{engine: engine, input: ti}
	m.appendResponse(first, nil)
	return m
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return textinput.Blink
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil
	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC:
			return m, tea.Quit
		case tea.KeyEnter:
			if m.done {
				return m, tea.Quit
			}
			raw := m.input.Value()
			m.input.SetValue("")
			m.transcript = append(m.transcript, dimStyle.Render("> "+raw))
			resp, err := m.engine.Submit(raw)
			m.appendResponse(resp, err)
			if m.done {
				return m, tea.Quit
			}
			return m, nil
		}
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// View implements tea.Model.
func (m *Model) View() string {
	lines := m.transcript
	if m.height > 3 && len(lines) > m.height-3 {
		lines = lines[len(lines)-(m.height-3):]
	}
	var b strings.Builder
	b.WriteString(strings.Join(lines, "\n"))
	b.WriteString("\n")
	if !m.done {
		b.WriteString(m.input.View())
		b.WriteString("\n")
		b.WriteString(footerStyle.Render(m.footer()))
	}
	return b.String()
}

func (m *Model) footer() string {
	answered, target := m.engine.Progress()
	tally := m.engine.Tally()
	question := answered + 1
	if question > target {
		question = target
	}
	return fmt.Sprintf("Question %d/%d · accuracy %.0f%%", question, target, tally.Accuracy()*100)
}

// appendResponse turns one engine response into transcript lines.
func (m *Model) appendResponse(resp session.Response, err error) {
	switch {
	case err != nil:
		var perr *parse.Error
		if errors.As(err, &perr) {
			m.transcript = append(m.transcript, dimStyle.Render(fmt.Sprintf("...%v", perr)))
		} else {
			m.transcript = append(m.transcript, wrongStyle.Render(fmt.Sprintf("error: %v", err)))
		}
	case resp.Kind == session.ResponseCorrect:
		m.transcript = append(m.transcript, rightStyle.Render("...ok (+1)"))
	case resp.Kind == session.ResponseIncorrect:
		m.transcript = append(m.transcript,
			wrongStyle.Render(fmt.Sprintf("...no! correct: %s", strings.Join(resp.Expected, " / "))))
	}
	if resp.Output != "" {
		for _, line := range strings.Split(resp.Output, "\n") {
			m.transcript = append(m.transcript, dimStyle.Render(line))
		}
	}
	if resp.Kind == session.ResponseCompleted {
		m.finish(resp)
		return
	}
	if resp.Question != nil {
		m.transcript = append(m.transcript, promptStyle.Render(resp.Question.Prompt))
	}
}

func (m *Model) finish(resp session.Response) {
	m.done = true
	if resp.Score == nil {
		return
	}
	tally := resp.Score.Tally()
	m.transcript = append(m.transcript,
		promptStyle.Render(statsPkg.SummaryLine(resp.Score.Game, resp.Score.StartedAt, resp.Score.EndedAt, tally)),
		promptStyle.Render(fmt.Sprintf("%s %.0f%%", statsPkg.Bar(tally), tally.Accuracy()*100)),
		dimStyle.Render("press enter to exit"))
}

// Transcript exposes the rendered transcript lines.
func (m *Model) Transcript() []string {
	return append([]string(nil), m.transcript...)
}

// Done reports whether the session has completed.
func (m *Model) Done() bool { return m.done }

var _ tea.Model = (*Model)(nil)
