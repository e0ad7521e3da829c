package bubble_tea

import (
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

type selectorKeyMap struct {
	Up     key.Binding
	Down   key.Binding
	Select key.Binding
	Quit   key.Binding
}

func defaultSelectorKeyMap() selectorKeyMap {
	return selectorKeyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("up/k", "move up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("down/j", "move down"),
		),
		Select: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "select"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "esc", "ctrl+c"),
			key.WithHelp("q", "exit"),
		),
	}
}

func (k selectorKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Select, k.Quit}
}

func (k selectorKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{k.ShortHelp()}
}

type Selector struct {
	placeholder   string
	options       []string
	cursor        int
	choice        string
	done          bool
	quitRequested bool
	help          help.Model
	keys          selectorKeyMap
}

func NewSelector(placeholder string, choices []string) Selector {
	return Selector{
		placeholder: placeholder,
		options:     choices,
		help:        help.New(),
		keys:        defaultSelectorKeyMap(),
	}
}

func (m Selector) Choice() string {
	return m.choice
}

func (m Selector) QuitRequested() bool {
	return m.quitRequested
}

func (m Selector) Init() tea.Cmd {
	return nil
}

func (m Selector) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.help.Width = msg.Width
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitRequested = true
			return m, tea.Quit
		case key.Matches(msg, m.keys.Up):
			if m.cursor > 0 {
				m.cursor--
			}
		case key.Matches(msg, m.keys.Down):
			if m.cursor < len(m.options)-1 {
				m.cursor++
			}
		case key.Matches(msg, m.keys.Select):
			if len(m.options) > 0 {
				m.choice = m.options[m.cursor]
				m.done = true
			}
			return m, tea.Quit
		}
	}
	return m, nil
}

func (m Selector) View() string {
	if m.done || m.quitRequested {
		return ""
	}
	lines := make([]string, 0, len(m.options))
	for i, choice := range m.options {
		if m.cursor == i {
			lines = append(lines, activeOptionStyle().Render("> "+choice))
			continue
		}
		lines = append(lines, optionStyle().Render("  "+choice))
	}
	return renderScreen(m.placeholder, lines, m.help.View(m.keys))
}
