package cli

import "github.com/charmbracelet/lipgloss"

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("62"))
	warnStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("226"))
	okStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("46"))
	pathStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
)
