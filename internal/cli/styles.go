package cli

import "github.com/charmbracelet/lipgloss"

type styles struct {
	title    lipgloss.Style
	detail   lipgloss.Style
	prompt   lipgloss.Style
	good     lipgloss.Style
	bad      lipgloss.Style
	warning  lipgloss.Style
	score    lipgloss.Style
	section  lipgloss.Style
	faint    lipgloss.Style
	pinOpen  lipgloss.Style
	pinHit   lipgloss.Style
	pinMiss  lipgloss.Style
	pinWrong lipgloss.Style
	pinDown  lipgloss.Style
}

func newStyles() styles {
	return styles{
		title:    lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39")),
		detail:   lipgloss.NewStyle().Foreground(lipgloss.Color("252")),
		prompt:   lipgloss.NewStyle().Bold(true),
		good:     lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("34")),
		bad:      lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("203")),
		warning:  lipgloss.NewStyle().Foreground(lipgloss.Color("214")),
		score:    lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("159")),
		section:  lipgloss.NewStyle().MarginTop(1),
		faint:    lipgloss.NewStyle().Faint(true),
		pinOpen:  lipgloss.NewStyle().Foreground(lipgloss.Color("252")),
		pinHit:   lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("34")),
		pinMiss:  lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("196")),
		pinWrong: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("208")),
		pinDown:  lipgloss.NewStyle().Foreground(lipgloss.Color("240")),
	}
}
