package client

import "github.com/charmbracelet/lipgloss"

type styles struct {
	box    lipgloss.Style
	title  lipgloss.Style
	accent lipgloss.Style
	hint   lipgloss.Style
}

func newStyles(r *lipgloss.Renderer) styles {
	return styles{
		box: r.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#5fd7ff")).
			Padding(0, 2),
		title:  r.NewStyle().Bold(true).Foreground(lipgloss.Color("#ff5f87")),
		accent: r.NewStyle().Foreground(lipgloss.Color("#ffd75f")),
		hint:   r.NewStyle().Faint(true),
	}
}
