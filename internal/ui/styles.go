package ui

import "github.com/charmbracelet/lipgloss"

var (
	primaryColor = lipgloss.Color("#7D56F4")
	successColor = lipgloss.Color("#43BF6D")
	warningColor = lipgloss.Color("#FFA500")
	errorColor   = lipgloss.Color("#FF5F5F")
	subtleColor  = lipgloss.Color("#626262")
)

var (
	titleStyle = lipgloss.NewStyle().
			Foreground(primaryColor).
			Bold(true).
			MarginBottom(1)

	modeStyle = lipgloss.NewStyle().
			Foreground(warningColor).
			Italic(true)

	labelStyle = lipgloss.NewStyle().
			Width(16).
			Foreground(subtleColor)

	focusedLabelStyle = labelStyle.
				Foreground(primaryColor).
				Bold(true)

	fieldErrorStyle = lipgloss.NewStyle().
			Foreground(errorColor).
			PaddingLeft(18)

	formErrorStyle = lipgloss.NewStyle().
			Foreground(errorColor).
			Bold(true).
			MarginTop(1)

	statusStyle = lipgloss.NewStyle().
			Foreground(successColor).
			MarginTop(1)

	footerStyle = lipgloss.NewStyle().
			MarginTop(1)
)
