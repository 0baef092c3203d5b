package tui

import "github.com/charmbracelet/lipgloss"

// ------- minimal styling helpers (Lip Gloss) -------
var (
	titleStyle   = lipgloss.NewStyle().Bold(true)
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	pendingStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	accentStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("12"))
	mutedStyle   = lipgloss.NewStyle().Faint(true)
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true)
	overdueStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	answerStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("159")).Italic(true)

	selectedStyle = lipgloss.NewStyle().Bold(true).Reverse(true)
	doneStyle     = lipgloss.NewStyle().Faint(true).Strikethrough(true)
	savingStyle   = lipgloss.NewStyle().Faint(true).Italic(true)
	helpStyle     = lipgloss.NewStyle().Faint(true)

	buttonStyle = lipgloss.NewStyle().Padding(0, 1).Background(lipgloss.Color("238"))
	copiedStyle = buttonStyle.Background(lipgloss.Color("28")).Foreground(lipgloss.Color("15"))

	panelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("8")).
			Padding(0, 1)
	alertStyle = lipgloss.NewStyle().
			Border(lipgloss.DoubleBorder()).
			BorderForeground(lipgloss.Color("9")).
			Padding(1, 3)

	boxChecked   = "☑"
	boxUnchecked = "☐"
	foldOpen     = "▾"
	foldClosed   = "▸"
)

// levelColors tint question bullets by nesting depth, cycling past the end.
var levelColors = []lipgloss.Color{"12", "42", "214", "205", "141", "87"}

func levelStyle(level int) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(levelColors[level%len(levelColors)]).Bold(level == 0)
}
