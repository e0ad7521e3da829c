package bubble_tea

import (
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// TextInput is a single line text input.
type TextInput struct {
	ti            textinput.Model
	placeholder   string
	submitted     bool
	quitRequested bool
}

func NewTextInput(placeholder, initial string) *TextInput {
	ti := textinput.New()
	ti.Prompt = "┃ "
	ti.Placeholder = placeholder
	ti.SetValue(initial)
	ti.Focus()
	ti.CharLimit = 256
	ti.Width = 40
	ti.PromptStyle = lipgloss.NewStyle().Foreground(accent)
	ti.PlaceholderStyle = lipgloss.NewStyle().Foreground(muted)
	return &TextInput{
		ti:          ti,
		placeholder: placeholder,
	}
}

func (m *TextInput) Value() string {
	return m.ti.Value()
}

func (m *TextInput) Submitted() bool {
	return m.submitted
}

func (m *TextInput) Init() tea.Cmd {
	return textinput.Blink
}

func (m *TextInput) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		if msg.Width > 26 {
			m.ti.Width = msg.Width - 26
		}
		return m, nil
	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyEnter:
			m.submitted = true
			return m, tea.Quit
		case tea.KeyEsc, tea.KeyCtrlC:
			m.quitRequested = true
			return m, tea.Quit
		}
	}

	var cmd tea.Cmd
	m.ti, cmd = m.ti.Update(msg)
	return m, cmd
}

func (m *TextInput) View() string {
	if m.submitted || m.quitRequested {
		return ""
	}
	return renderScreen(m.placeholder, []string{m.ti.View()}, "enter confirm | esc exit")
}
