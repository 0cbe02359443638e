package reportlist

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/opencivic/civicwatch/internal/model"
	"github.com/opencivic/civicwatch/internal/theme"
)

// ReportItem wraps a model.Issue so it can be used in a bubbles/list.
type ReportItem struct {
	Issue model.Issue
}

// FilterValue returns the string used for fuzzy filtering.
func (i ReportItem) FilterValue() string { return i.Issue.Title }

// Title returns the report title for the list.
func (i ReportItem) Title() string { return i.Issue.Title }

// Description returns a short summary line for the list.
func (i ReportItem) Description() string {
	parts := []string{
		string(i.Issue.Status),
		i.Issue.Category,
		i.Issue.DisplayAddress(),
	}
	return strings.Join(parts, " | ")
}

// ReportDelegate implements list.ItemDelegate for rendering report rows.
type ReportDelegate struct{}

// Height returns the number of lines each item takes.
func (d ReportDelegate) Height() int { return 2 }

// Spacing returns the number of blank lines between items.
func (d ReportDelegate) Spacing() int { return 0 }

// Update handles per-item messages (unused).
func (d ReportDelegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd {
	return nil
}

// Render draws a single report row: title with status and priority badges,
// then the location and filing date.
func (d ReportDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	ri, ok := item.(ReportItem)
	if !ok {
		return
	}

	issue := ri.Issue
	isSelected := index == m.Index()

	statusBadge := theme.StatusStyle(issue.Status).Render(string(issue.Status))
	priBadge := theme.PriorityStyle(issue.Priority).
		Render(fmt.Sprintf("%s priority", priorityLabel(issue.Priority)))
	category := lipgloss.NewStyle().
		Foreground(theme.ColorGray).
		Render(issue.Category)

	top := fmt.Sprintf("%s %s %s %s", issue.Title, statusBadge, category, priBadge)
	bottom := lipgloss.NewStyle().
		Foreground(theme.ColorGray).
		Render(fmt.Sprintf("%s · %s", issue.DisplayAddress(), filedDate(issue.CreatedAt)))

	line := top + "\n" + bottom
	if isSelected {
		line = theme.SelectedItemStyle.Render(line)
	} else {
		line = theme.ListItemStyle.Render(line)
	}

	fmt.Fprint(w, line)
}

// priorityLabel returns the display label for a priority.
func priorityLabel(p model.Priority) string {
	if p == "" {
		return "unset"
	}
	return string(p)
}

// filedDate formats the report creation date for the row.
func filedDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format("Jan 2, 2006")
}
