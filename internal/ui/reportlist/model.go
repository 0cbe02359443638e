package reportlist

import (
	"context"

	"github.com/apex/log"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/opencivic/civicwatch/internal/keys"
	"github.com/opencivic/civicwatch/internal/model"
	"github.com/opencivic/civicwatch/internal/theme"
)

// Placeholder texts for the empty and failed states.
const (
	emptyPlaceholder  = "No reports found"
	failedPlaceholder = "Failed to load reports"
)

// ReportsLoadedMsg is sent when a snapshot fetch completes. Seq identifies
// which request produced it so stale responses can be discarded.
type ReportsLoadedMsg struct {
	Issues []model.Issue
	Err    error
	Seq    uint64
}

// SelectedReportMsg is sent when a user opens a report's detail view.
type SelectedReportMsg struct {
	Issue model.Issue
}

// Fetcher is the part of the API client the view needs.
type Fetcher interface {
	PublicIssues(ctx context.Context) ([]model.Issue, error)
}

// Model is the public reports list view.
type Model struct {
	list    list.Model
	client  Fetcher
	keys    *keys.KeyMap
	maxRows int

	// seq numbers refresh requests; a response tagged with an older
	// sequence than the latest issued request is dropped, so the last
	// request wins rather than the last response.
	seq        uint64
	failed     bool
	everLoaded bool
	width      int
	height     int
}

// New creates a new reports list view. maxRows bounds how many reports are
// shown regardless of how many the server returns.
func New(client Fetcher, k *keys.KeyMap, maxRows, width, height int) Model {
	delegate := ReportDelegate{}
	l := list.New([]list.Item{}, delegate, width, height-2)
	l.Title = "Recent Reports"
	l.SetShowStatusBar(false)
	l.SetShowHelp(false)
	l.SetFilteringEnabled(false)
	l.Styles.Title = theme.HeaderStyle

	if maxRows <= 0 {
		maxRows = 10
	}

	return Model{
		list:    l,
		client:  client,
		keys:    k,
		maxRows: maxRows,
		width:   width,
		height:  height,
	}
}

// Refresh issues a new snapshot fetch and bumps the request sequence so any
// still-in-flight older fetch is superseded.
func (m Model) Refresh() (Model, tea.Cmd) {
	m.seq++
	seq := m.seq
	client := m.client
	return m, func() tea.Msg {
		issues, err := client.PublicIssues(context.Background())
		if err != nil {
			log.WithError(err).Error("loading reports failed")
			return ReportsLoadedMsg{Err: err, Seq: seq}
		}
		return ReportsLoadedMsg{Issues: issues, Seq: seq}
	}
}

// Update handles messages for the reports list view.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case ReportsLoadedMsg:
		if msg.Seq != m.seq {
			// A newer request is in flight or already applied.
			return m, nil
		}
		m.everLoaded = true
		if msg.Err != nil {
			m.failed = true
			return m, nil
		}
		m.failed = false

		issues := msg.Issues
		if len(issues) > m.maxRows {
			issues = issues[:m.maxRows]
		}
		items := make([]list.Item, len(issues))
		for i, issue := range issues {
			items[i] = ReportItem{Issue: issue}
		}
		cmd := m.list.SetItems(items)
		return m, cmd

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Select):
			item, ok := m.list.SelectedItem().(ReportItem)
			if !ok {
				return m, nil
			}
			return m, func() tea.Msg {
				return SelectedReportMsg{Issue: item.Issue}
			}

		case key.Matches(msg, m.keys.Refresh):
			return m.Refresh()
		}
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

// View renders the reports list view.
func (m Model) View() string {
	if m.failed {
		return m.renderPlaceholder(failedPlaceholder, theme.ColorRed)
	}
	if m.everLoaded && len(m.list.Items()) == 0 {
		return m.renderPlaceholder(emptyPlaceholder, theme.ColorGray)
	}
	return m.list.View()
}

// Rows returns the issues currently displayed, in display order.
func (m Model) Rows() []model.Issue {
	items := m.list.Items()
	issues := make([]model.Issue, 0, len(items))
	for _, it := range items {
		if ri, ok := it.(ReportItem); ok {
			issues = append(issues, ri.Issue)
		}
	}
	return issues
}

// Failed reports whether the last applied fetch ended in an error.
func (m Model) Failed() bool { return m.failed }

func (m Model) renderPlaceholder(text string, color lipgloss.AdaptiveColor) string {
	return lipgloss.NewStyle().
		Width(m.width).
		Height(m.height).
		Align(lipgloss.Center, lipgloss.Center).
		Foreground(color).
		Render(text)
}

// SetSize updates the list dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.list.SetSize(width, height-2)
}
