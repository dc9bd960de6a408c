package theme

import "github.com/charmbracelet/lipgloss"

// Main UI styles
var (
	BranchStyle = lipgloss.NewStyle().
			Foreground(ColorMuted)

	HelpStyle = lipgloss.NewStyle().
			Foreground(ColorMuted).
			Padding(1, 0)

	NormalStyle = lipgloss.NewStyle().
			Foreground(ColorNormal)

	SubtleStyle = lipgloss.NewStyle().
			Foreground(ColorSubtle)

	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorPrimary).
			Padding(1, 0)
)

// Shift state styles
var (
	AutoClosedStyle = lipgloss.NewStyle().
			Foreground(ColorAutoClosed).
			Bold(true)

	ClosedStyle = lipgloss.NewStyle().
			Foreground(ColorClosed)

	OpenStyle = lipgloss.NewStyle().
			Foreground(ColorOpen).
			Bold(true)

	OvertimeStyle = lipgloss.NewStyle().
			Foreground(ColorOvertime).
			Bold(true)
)

// Header styles
var (
	AppNameStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorPrimary)

	SubtitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorSecondary)

	VersionStyle = lipgloss.NewStyle().
			Foreground(ColorVersion)
)

// Banner styles
var (
	BannerStyle = lipgloss.NewStyle().
			Foreground(ColorWarning).
			Bold(true).
			Padding(0, 1).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorWarning)

	SuccessStyle = lipgloss.NewStyle().
			Foreground(ColorSuccess).
			Bold(true)
)

// Report preview style
var PreviewStyle = lipgloss.NewStyle().
	Foreground(ColorNormal).
	Padding(0, 1).
	Border(lipgloss.NormalBorder()).
	BorderForeground(ColorMuted)

// Spinner style
var SpinnerStyle = lipgloss.NewStyle().
	Foreground(ColorSpinner)

// Error style
var ErrorStyle = lipgloss.NewStyle().
	Foreground(ColorError).
	Bold(true)

// LabelStyle is the key half of a key/value row
var LabelStyle = lipgloss.NewStyle().
	Foreground(ColorSubtle).
	Width(14)

// ValueStyle is the value half of a key/value row
var ValueStyle = lipgloss.NewStyle().
	Foreground(ColorHighlight)
