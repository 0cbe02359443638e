package theme

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/opencivic/civicwatch/internal/model"
)

// Adaptive color pairs (dark terminal value, light terminal value).
var (
	ColorBlue    = lipgloss.AdaptiveColor{Dark: "#5B9BD5", Light: "#2B6CB0"}
	ColorGreen   = lipgloss.AdaptiveColor{Dark: "#6BCB77", Light: "#2F855A"}
	ColorYellow  = lipgloss.AdaptiveColor{Dark: "#FFD93D", Light: "#B7791F"}
	ColorRed     = lipgloss.AdaptiveColor{Dark: "#FF6B6B", Light: "#C53030"}
	ColorMagenta = lipgloss.AdaptiveColor{Dark: "#CC5DE8", Light: "#805AD5"}
	ColorGray    = lipgloss.AdaptiveColor{Dark: "#868E96", Light: "#718096"}
	ColorWhite   = lipgloss.AdaptiveColor{Dark: "#F8F9FA", Light: "#1A202C"}
	ColorSubtle  = lipgloss.AdaptiveColor{Dark: "#495057", Light: "#CBD5E0"}
	ColorBorder  = lipgloss.AdaptiveColor{Dark: "#495057", Light: "#E2E8F0"}
)

// HeaderStyle is used for top-level section headers and the application title.
var HeaderStyle = lipgloss.NewStyle().
	Bold(true).
	Foreground(ColorWhite).
	Background(ColorBlue).
	Padding(0, 1)

// StatusBarStyle is used for the bottom status bar.
var StatusBarStyle = lipgloss.NewStyle().
	Foreground(ColorWhite).
	Background(ColorSubtle).
	Padding(0, 1)

// DetailPanelStyle wraps the detail view content area.
var DetailPanelStyle = lipgloss.NewStyle().
	Padding(1, 2).
	Border(lipgloss.RoundedBorder()).
	BorderForeground(ColorBorder)

// ListItemStyle is the base style for items in a list.
var ListItemStyle = lipgloss.NewStyle().
	PaddingLeft(2)

// SelectedItemStyle highlights the currently focused list item.
var SelectedItemStyle = lipgloss.NewStyle().
	PaddingLeft(1).
	Bold(true).
	Foreground(ColorBlue).
	Border(lipgloss.NormalBorder(), false, false, false, true).
	BorderForeground(ColorBlue)

// HelpStyle is used for keyboard shortcut hints and help text.
var HelpStyle = lipgloss.NewStyle().
	Foreground(ColorGray).
	Italic(true)

// PlaceholderStyle renders empty-state and failure placeholders.
var PlaceholderStyle = lipgloss.NewStyle().
	Foreground(ColorGray)

// StatusColor returns the color for an issue status. The mapping is total:
// unknown statuses map to gray.
func StatusColor(status model.IssueStatus) lipgloss.AdaptiveColor {
	switch status {
	case model.StatusPending:
		return ColorYellow
	case model.StatusApproved:
		return ColorGreen
	case model.StatusRejected:
		return ColorRed
	case model.StatusOnHold:
		return ColorGray
	case model.StatusInProgress:
		return ColorBlue
	case model.StatusResolved:
		return ColorMagenta
	default:
		return ColorGray
	}
}

// StatusStyle returns a color-coded badge style for the given issue status.
func StatusStyle(status model.IssueStatus) lipgloss.Style {
	return lipgloss.NewStyle().Bold(true).Padding(0, 1).Foreground(StatusColor(status))
}

// PriorityColor returns the color for a report priority, gray for unknown.
func PriorityColor(p model.Priority) lipgloss.AdaptiveColor {
	switch p {
	case model.PriorityLow:
		return ColorGreen
	case model.PriorityMedium:
		return ColorYellow
	case model.PriorityHigh:
		return ColorRed
	default:
		return ColorGray
	}
}

// PriorityStyle returns a color-coded style for the given priority.
func PriorityStyle(p model.Priority) lipgloss.Style {
	return lipgloss.NewStyle().Bold(true).Foreground(PriorityColor(p))
}

// SeverityColor returns the color for a notification severity, blue (info)
// for unknown.
func SeverityColor(s model.Severity) lipgloss.AdaptiveColor {
	switch s {
	case model.SeveritySuccess:
		return ColorGreen
	case model.SeverityError:
		return ColorRed
	case model.SeverityWarning:
		return ColorYellow
	default:
		return ColorBlue
	}
}

// SeverityStyle returns the style for a notification entry.
func SeverityStyle(s model.Severity) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(SeverityColor(s))
}

// SeverityIcon returns the marker shown before a notification message.
func SeverityIcon(s model.Severity) string {
	switch s {
	case model.SeveritySuccess:
		return "✔"
	case model.SeverityError:
		return "✘"
	case model.SeverityWarning:
		return "▲"
	default:
		return "ℹ"
	}
}

// ToastStyle renders the transient toast surface for a severity.
func ToastStyle(s model.Severity) lipgloss.Style {
	return lipgloss.NewStyle().
		Bold(true).
		Padding(0, 1).
		Foreground(ColorWhite).
		Background(SeverityColor(s))
}
