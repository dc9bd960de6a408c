package theme

import "github.com/charmbracelet/lipgloss"

// Color is an alias for lipgloss.Color for convenience
type Color = lipgloss.Color

// Brand colors
const (
	ColorPrimary   Color = "99" // Purple - app name, titles
	ColorSecondary Color = "86" // Cyan - subtitles
)

// Shift state colors
const (
	ColorOpen       Color = "2" // Green - shift running
	ColorClosed     Color = "8" // Gray - no active shift
	ColorAutoClosed Color = "3" // Yellow - closed by the server sweep
	ColorOvertime   Color = "1" // Red - shift past the auto-close cap
)

// UI semantic colors
const (
	ColorError     Color = "196" // Bright red
	ColorHighlight Color = "255" // White - emphasis
	ColorMuted     Color = "241" // Gray - secondary text
	ColorNormal    Color = "250" // Default text
	ColorSubtle    Color = "245" // Light gray - labels
	ColorVersion   Color = "240" // Dark gray
)

// Accent colors
const (
	ColorSuccess Color = "46"  // Green - confirmations
	ColorSpinner Color = "205" // Pink
	ColorWarning Color = "214" // Orange - banners
)
