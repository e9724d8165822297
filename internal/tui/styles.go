package tui

import "github.com/charmbracelet/lipgloss"

var (
	// Colors
	colorPrimary = lipgloss.Color("#F59E0B")
	colorSuccess = lipgloss.Color("#22C55E")
	colorWarning = lipgloss.Color("#FBBF24")
	colorDanger  = lipgloss.Color("#EF4444")
	colorMuted   = lipgloss.Color("#6B7280")
	colorBorder  = lipgloss.Color("#374151")

	// Base styles
	styleHeader = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#1F2937")).
			Background(colorPrimary).
			Padding(0, 1)

	styleHelp = lipgloss.NewStyle().
			Foreground(colorMuted).
			Padding(0, 1)

	styleAlert = lipgloss.NewStyle().
			Foreground(colorDanger).
			Bold(true).
			Blink(true)

	styleError = lipgloss.NewStyle().
			Foreground(colorDanger).
			Bold(true)

	styleOK = lipgloss.NewStyle().
		Foreground(colorSuccess)

	// Tab styles
	styleTab = lipgloss.NewStyle().
			Foreground(colorMuted).
			Padding(0, 1)

	styleTabActive = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FFFFFF")).
			Background(colorBorder).
			Padding(0, 1)

	styleBadge = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorWarning)

	// Table styles
	styleTableHeader = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("#FFFFFF")).
				Background(colorBorder).
				Padding(0, 1)

	styleRow = lipgloss.NewStyle().
			Padding(0, 1)

	styleRowSelected = lipgloss.NewStyle().
				Background(lipgloss.Color("#1F2937")).
				Foreground(lipgloss.Color("#FFFFFF")).
				Padding(0, 1)

	// Box styles
	styleBox = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorBorder).
			Padding(0, 1)

	styleMuted = lipgloss.NewStyle().
			Foreground(colorMuted)
)

// statusBadge 给订单状态一个带色标记。
func statusBadge(status string) string {
	switch status {
	case "ORDER_PLACED":
		return styleAlert.Render("● NEW")
	case "ACCEPTED":
		return styleOK.Render("● ACCEPTED")
	case "PREPARING":
		return styleBadge.Render("◐ PREPARING")
	case "READY":
		return styleOK.Render("◉ READY")
	case "COMPLETED":
		return styleMuted.Render("✓ DONE")
	default:
		return styleMuted.Render(status)
	}
}
