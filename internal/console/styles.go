package console

import "github.com/charmbracelet/lipgloss"

// Moraine color palette
var (
	ColorSlate  = lipgloss.Color("#A8D8EA") // accents and headers
	ColorStone  = lipgloss.Color("#596E79") // secondary text
	ColorText   = lipgloss.Color("#E0E0E0") // primary text
	ColorAlert  = lipgloss.Color("#FF6B6B") // errors
	ColorGood   = lipgloss.Color("#4ECDC4") // success
	ColorWarn   = lipgloss.Color("#FFE66D") // warnings
	ColorMuted  = lipgloss.Color("#6c757d") // muted text
	ColorRemove = lipgloss.Color("#FF6B6B") // diff removals
	ColorAdd    = lipgloss.Color("#4ECDC4") // diff additions
)

var (
	StyleHeader = lipgloss.NewStyle().
			Foreground(ColorSlate).
			Bold(true).
			Border(lipgloss.NormalBorder(), false, false, true, false).
			BorderForeground(ColorStone).
			Padding(0, 1)

	StyleTitle = lipgloss.NewStyle().
			Foreground(ColorSlate).
			Bold(true)

	StyleSubtitle = lipgloss.NewStyle().
			Foreground(ColorStone).
			Italic(true)

	StyleStatusGood = lipgloss.NewStyle().Foreground(ColorGood).Bold(true)
	StyleStatusBad  = lipgloss.NewStyle().Foreground(ColorAlert).Bold(true)
	StyleStatusWarn = lipgloss.NewStyle().Foreground(ColorWarn).Bold(true)

	StyleCard = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorStone).
			Padding(0, 1)

	StyleKey = lipgloss.NewStyle().
			Foreground(ColorStone).
			Bold(true)

	StyleValue = lipgloss.NewStyle().Foreground(ColorText)

	StyleMuted = lipgloss.NewStyle().Foreground(ColorMuted).Faint(true)

	StyleDiffAdd    = lipgloss.NewStyle().Foreground(ColorAdd)
	StyleDiffRemove = lipgloss.NewStyle().Foreground(ColorRemove)
	StyleDiffHunk   = lipgloss.NewStyle().Foreground(ColorSlate)
)
