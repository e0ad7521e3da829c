package bubble_tea

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	accent = lipgloss.AdaptiveColor{Light: "#00ADD8", Dark: "#00ADD8"}
	muted  = lipgloss.AdaptiveColor{Light: "#4b5563", Dark: "#9ca3af"}
)

func titleStyle() lipgloss.Style {
	return lipgloss.NewStyle().Bold(true).Foreground(accent)
}

func activeOptionStyle() lipgloss.Style {
	return lipgloss.NewStyle().Bold(true).Foreground(accent)
}

func optionStyle() lipgloss.Style {
	return lipgloss.NewStyle()
}

func hintStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(muted)
}

func renderScreen(title string, body []string, hint string) string {
	var b strings.Builder
	b.WriteString(titleStyle().Render(title))
	b.WriteString("\n\n")
	for _, line := range body {
		b.WriteString(line)
		b.WriteString("\n")
	}
	if hint != "" {
		b.WriteString("\n")
		b.WriteString(hintStyle().Render(hint))
		b.WriteString("\n")
	}
	return b.String()
}
