package tui

import "github.com/charmbracelet/lipgloss"

var (
	// Colors
	colorPrimary   = lipgloss.Color("12")  // bright blue
	colorSecondary = lipgloss.Color("10")  // bright green
	colorDim       = lipgloss.Color("240") // gray
	colorHighlight = lipgloss.Color("11")  // bright yellow
	colorBorder    = lipgloss.Color("238") // dark gray

	// Sender prompt (option 2)
	styleInputPrompt = lipgloss.NewStyle().
				Foreground(colorPrimary).
				Bold(true)

	styleInput = lipgloss.NewStyle().
			Foreground(colorSecondary)

	// Menu options
	styleMenuKey = lipgloss.NewStyle().
			Foreground(colorPrimary).
			Width(3)

	styleMenuSelected = lipgloss.NewStyle().
				Foreground(colorHighlight).
				Bold(true)

	styleMenuNormal = lipgloss.NewStyle().
			Foreground(lipgloss.Color("252"))

	// Selected sender, under the menu
	styleSender = lipgloss.NewStyle().
			Foreground(colorSecondary).
			Bold(true)

	// Panels
	stylePanelBorder = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(colorBorder)

	styleActiveBorder = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(colorPrimary)

	// Status bar
	styleStatusBar = lipgloss.NewStyle().
			Foreground(colorDim).
			Padding(0, 1)

	// Panel titles
	styleTitle = lipgloss.NewStyle().
			Foreground(colorDim).
			Bold(true)
)
