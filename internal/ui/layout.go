package ui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/opencivic/civicwatch/internal/theme"
)

// Layout manages the terminal layout dimensions: a header, a content area
// split between the reports list and the notification feed, and a status bar.
type Layout struct {
	Width           int
	Height          int
	HeaderHeight    int
	StatusBarHeight int
}

// NewLayout creates a Layout with the given terminal dimensions.
func NewLayout(width, height int) Layout {
	return Layout{
		Width:           width,
		Height:          height,
		HeaderHeight:    1,
		StatusBarHeight: 1,
	}
}

// ContentHeight returns the height available for the main content area.
func (l Layout) ContentHeight() int {
	return l.Height - l.HeaderHeight - l.StatusBarHeight
}

// ReportsWidth returns the width of the reports pane (left, two thirds).
func (l Layout) ReportsWidth() int {
	return l.Width * 2 / 3
}

// FeedWidth returns the width of the notification feed pane.
func (l Layout) FeedWidth() int {
	return l.Width - l.ReportsWidth()
}

// RenderHeader renders the top header bar with a title and connection state.
func (l Layout) RenderHeader(title string, connState string) string {
	titleRendered := theme.HeaderStyle.Render(title)

	stateRendered := theme.HeaderStyle.
		Align(lipgloss.Right).
		Render(connState)

	gap := l.Width -
		lipgloss.Width(titleRendered) -
		lipgloss.Width(stateRendered)
	if gap < 0 {
		gap = 0
	}

	filler := theme.HeaderStyle.Render(
		lipgloss.NewStyle().
			Width(gap).
			Background(theme.HeaderStyle.GetBackground()).
			Render(""),
	)

	return lipgloss.JoinHorizontal(
		lipgloss.Top,
		titleRendered,
		filler,
		stateRendered,
	)
}

// RenderStatusBar renders the bottom status bar with keyboard hints.
func (l Layout) RenderStatusBar(hints string) string {
	rendered := theme.StatusBarStyle.Render(hints)

	gap := l.Width - lipgloss.Width(rendered)
	if gap < 0 {
		gap = 0
	}

	filler := theme.StatusBarStyle.Render(
		lipgloss.NewStyle().
			Width(gap).
			Background(theme.StatusBarStyle.GetBackground()).
			Render(""),
	)

	return lipgloss.JoinHorizontal(lipgloss.Top, rendered, filler)
}

// RenderWithFrame composes a full terminal view by vertically joining the
// header, content area, and status bar.
func (l Layout) RenderWithFrame(
	header string,
	content string,
	statusBar string,
) string {
	return lipgloss.JoinVertical(
		lipgloss.Left,
		header,
		content,
		statusBar,
	)
}

// RenderSplit joins the reports pane and the notification feed horizontally.
func (l Layout) RenderSplit(reports string, feed string) string {
	left := lipgloss.NewStyle().
		Width(l.ReportsWidth()).
		Height(l.ContentHeight()).
		Render(reports)
	right := lipgloss.NewStyle().
		Width(l.FeedWidth()).
		Height(l.ContentHeight()).
		Render(feed)
	return lipgloss.JoinHorizontal(lipgloss.Top, left, right)
}
