package cli

import (
	"github.com/charmbracelet/lipgloss"
)

var (
	successStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("10"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("9"))

	subtleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))
)
