package tui

import "github.com/charmbracelet/lipgloss"

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FFFFFF")).
			Background(lipgloss.Color("#2C9B5E")).
			Padding(0, 2)

	monthStyle = lipgloss.NewStyle().
			Bold(true).
			Border(lipgloss.RoundedBorder()).
			Padding(0, 2)

	dayStyle = lipgloss.NewStyle().
			Width(6).
			Align(lipgloss.Center)

	selectedDayStyle = dayStyle.
				Bold(true).
				Foreground(lipgloss.Color("#FFFFFF")).
				Background(lipgloss.Color("#2C9B5E"))

	cardStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#BFE1D6")).
			Padding(0, 1).
			Width(48)

	selectedCardStyle = cardStyle.
				BorderForeground(lipgloss.Color("#2C9B5E"))

	taskTitleStyle = lipgloss.NewStyle().Bold(true)
	dimStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	noticeStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#E5C07B")).Bold(true)
	activeTabStyle = lipgloss.NewStyle().Bold(true).Underline(true).Foreground(lipgloss.Color("#2C9B5E"))
	tabStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
)
