package detail

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/opencivic/civicwatch/internal/keys"
	"github.com/opencivic/civicwatch/internal/model"
	"github.com/opencivic/civicwatch/internal/theme"
)

// BackMsg signals the parent to navigate back to the list view.
type BackMsg struct{}

// Model is the issue detail view component.
type Model struct {
	issue    *model.Issue
	viewport viewport.Model
	keys     *keys.KeyMap
	width    int
	height   int
}

// New creates a new detail view model.
func New(keys *keys.KeyMap, width, height int) Model {
	vp := viewport.New(width, height-2)
	vp.Style = lipgloss.NewStyle()

	return Model{
		viewport: vp,
		keys:     keys,
		width:    width,
		height:   height,
	}
}

// Update handles messages for the detail view.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		if key.Matches(msg, m.keys.Back) {
			return m, func() tea.Msg {
				return BackMsg{}
			}
		}
	}

	// Delegate to viewport for scrolling (j/k, up/down, pgup/pgdn)
	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

// View renders the detail view.
func (m Model) View() string {
	if m.issue == nil {
		emptyStyle := lipgloss.NewStyle().
			Width(m.width).
			Height(m.height).
			Align(lipgloss.Center, lipgloss.Center).
			Foreground(theme.ColorGray)
		return emptyStyle.Render("No report selected")
	}

	return m.viewport.View()
}

// SetIssue updates the issue being displayed and re-renders the content.
// A refreshed snapshot for the same issue replaces the stale copy in place.
func (m *Model) SetIssue(issue *model.Issue) {
	m.issue = issue
	m.viewport.SetContent(m.renderContent())
	m.viewport.GotoTop()
}

// Issue returns the issue currently on display, or nil.
func (m Model) Issue() *model.Issue {
	return m.issue
}

// SetSize updates the detail view dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.viewport.Width = width
	m.viewport.Height = height - 2
}

// renderContent builds the full detail content string for the viewport.
func (m Model) renderContent() string {
	if m.issue == nil {
		return ""
	}

	issue := m.issue
	var sections []string

	// Title
	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(theme.ColorWhite)
	sections = append(sections, titleStyle.Render(issue.Title))

	// Badges line: status + category + priority
	statusBadge := theme.StatusStyle(issue.Status).Render(string(issue.Status))
	catBadge := lipgloss.NewStyle().
		Foreground(theme.ColorBlue).
		Render(strings.ToUpper(issue.Category))
	priBadge := theme.PriorityStyle(issue.Priority).Render(string(issue.Priority))

	badgeLine := lipgloss.JoinHorizontal(
		lipgloss.Top, statusBadge, "  ", catBadge, "  ", priBadge,
	)
	sections = append(sections, badgeLine)
	sections = append(sections, "")

	// Metadata table
	metaStyle := lipgloss.NewStyle().Foreground(theme.ColorGray)
	valStyle := lipgloss.NewStyle().Foreground(theme.ColorWhite)

	sections = append(sections, fmt.Sprintf(
		"%s  %s",
		metaStyle.Render("Location:"),
		valStyle.Render(issue.DisplayAddress()),
	))
	if issue.Location.Latitude != 0 || issue.Location.Longitude != 0 {
		sections = append(sections, fmt.Sprintf(
			"%s    %s",
			metaStyle.Render("Coords:"),
			valStyle.Render(fmt.Sprintf(
				"%.5f, %.5f", issue.Location.Latitude, issue.Location.Longitude,
			)),
		))
	}
	if !issue.CreatedAt.IsZero() {
		sections = append(sections, fmt.Sprintf(
			"%s     %s",
			metaStyle.Render("Filed:"),
			valStyle.Render(issue.CreatedAt.Format("2006-01-02 15:04")),
		))
	}

	// Separator
	sepStyle := lipgloss.NewStyle().Foreground(theme.ColorSubtle)
	separator := sepStyle.Render(strings.Repeat("─", min(m.width-4, 80)))
	sections = append(sections, "")
	sections = append(sections, separator)
	sections = append(sections, "")

	// Description
	descHeaderStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(theme.ColorWhite).
		MarginBottom(1)

	sections = append(sections, descHeaderStyle.Render("Description"))

	body := issue.Description
	if body == "" {
		body = lipgloss.NewStyle().
			Foreground(theme.ColorGray).
			Italic(true).
			Render("No description")
	}
	sections = append(sections, body)

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}
