package ui

import (
	"github.com/charmbracelet/lipgloss"
)

var (
	fileHeaderStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("6")).
			Bold(true)

	hunkHeaderStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("5"))

	addedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("2"))

	removedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("1"))

	successStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("2")).
			Bold(true)

	failureStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("1")).
			Bold(true)

	detailStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("8")).
			PaddingLeft(1)
)
