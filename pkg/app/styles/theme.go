package styles

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/kerbaras/mangashelf/pkg/data"
	"github.com/kerbaras/mangashelf/pkg/reader"
)

var (
	// Color palette
	Primary    = lipgloss.Color("#FF6B9D")
	Secondary  = lipgloss.Color("#C792EA")
	Success    = lipgloss.Color("#C3E88D")
	Warning    = lipgloss.Color("#FFCB6B")
	Error      = lipgloss.Color("#F07178")
	Info       = lipgloss.Color("#82AAFF")
	Muted      = lipgloss.Color("#546E7A")
	Background = lipgloss.Color("#263238")
	Foreground = lipgloss.Color("#EEFFFF")
	Surface    = lipgloss.Color("#37474F")

	// Border styles
	RoundedBorder = lipgloss.RoundedBorder()
	ThickBorder   = lipgloss.ThickBorder()
)

// Base styles
var (
	// Title style for headings
	TitleStyle = lipgloss.NewStyle().
			Foreground(Primary).
			Bold(true).
			MarginBottom(1)

	SubtitleStyle = lipgloss.NewStyle().
			Foreground(Secondary).
			Italic(true)

	TextStyle = lipgloss.NewStyle().
			Foreground(Foreground)

	MutedStyle = lipgloss.NewStyle().
			Foreground(Muted)

	SelectedStyle = lipgloss.NewStyle().
			Foreground(Primary).
			Bold(true).
			BorderStyle(RoundedBorder).
			BorderForeground(Primary).
			Padding(0, 1)

	CardStyle = lipgloss.NewStyle().
			Border(RoundedBorder).
			BorderForeground(Secondary).
			Padding(1, 2).
			MarginBottom(1)

	ActiveCardStyle = lipgloss.NewStyle().
			Border(ThickBorder).
			BorderForeground(Primary).
			Padding(1, 2).
			MarginBottom(1)

	StatusDownloading = lipgloss.NewStyle().
				Foreground(Info).
				Bold(true)

	StatusCompleted = lipgloss.NewStyle().
			Foreground(Success).
			Bold(true)

	StatusError = lipgloss.NewStyle().
			Foreground(Error).
			Bold(true)

	ProgressBarStyle = lipgloss.NewStyle().
				Foreground(Primary)

	ProgressEmptyStyle = lipgloss.NewStyle().
				Foreground(Muted)

	ActiveTabStyle = lipgloss.NewStyle().
			Foreground(Primary).
			Background(Surface).
			Padding(0, 2).
			Bold(true)

	InactiveTabStyle = lipgloss.NewStyle().
				Foreground(Muted).
				Padding(0, 2)

	HelpStyle = lipgloss.NewStyle().
			Foreground(Muted).
			Italic(true).
			MarginTop(1)

	InputStyle = lipgloss.NewStyle().
			Border(RoundedBorder).
			BorderForeground(Secondary).
			Padding(0, 1)

	FocusedInputStyle = lipgloss.NewStyle().
				Border(RoundedBorder).
				BorderForeground(Primary).
				Padding(0, 1)
)

// Reader styles
var (
	OverlayBarStyle = lipgloss.NewStyle().
			Foreground(Foreground).
			Background(Surface).
			Padding(0, 1)

	TransitionStyle = lipgloss.NewStyle().
			Foreground(Foreground).
			Border(RoundedBorder).
			BorderForeground(Secondary).
			Padding(1, 4).
			Align(lipgloss.Center)

	SettingsPanelStyle = lipgloss.NewStyle().
				Border(RoundedBorder).
				BorderForeground(Primary).
				Background(Background).
				Padding(1, 2)

	// DefaultValueStyle marks settings inherited from the defaults.
	DefaultValueStyle = lipgloss.NewStyle().
				Foreground(Muted).
				Italic(true)

	tapZoneColors = map[reader.TapZoneRegion]lipgloss.Color{
		reader.RegionMenu:     Surface,
		reader.RegionPrevious: Info,
		reader.RegionNext:     Success,
	}
)

// TapZoneStyle paints a region of the tap zone preview.
func TapZoneStyle(region reader.TapZoneRegion) lipgloss.Style {
	return lipgloss.NewStyle().Background(tapZoneColors[region]).Foreground(Background)
}

func StatusStyle(status string) lipgloss.Style {
	switch status {
	case data.StatusDownloading:
		return StatusDownloading
	case data.StatusCompleted, "complete":
		return StatusCompleted
	case data.StatusError, data.StatusPartial:
		return StatusError
	default:
		return MutedStyle
	}
}

// Truncate shortens s to width terminal cells.
func Truncate(s string, width int) string {
	if width <= 0 {
		return ""
	}
	return runewidth.Truncate(s, width, "…")
}
