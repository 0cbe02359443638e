package notices

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/opencivic/civicwatch/internal/model"
	"github.com/opencivic/civicwatch/internal/notify"
	"github.com/opencivic/civicwatch/internal/theme"
)

// feedExpireMsg retires one feed entry when its display window lapses.
type feedExpireMsg struct {
	id string
}

// toastExpireMsg hides the toast identified by seq. A stale seq is ignored,
// so a newer toast is never cut short by an older timer.
type toastExpireMsg struct {
	seq uint64
}

// Model renders the notification feed with the current toast above it.
type Model struct {
	sink *notify.Sink

	feedTTL  time.Duration
	toastTTL time.Duration

	cursor int
	width  int
	height int
}

// New creates a notices model over the given sink. TTLs at or below zero
// disable the corresponding auto-expiry.
func New(sink *notify.Sink, feedTTL, toastTTL time.Duration, width, height int) Model {
	return Model{
		sink:     sink,
		feedTTL:  feedTTL,
		toastTTL: toastTTL,
		width:    width,
		height:   height,
	}
}

// Publish adds a notification to the feed and shows it as the toast,
// returning the timer commands that retire both.
func (m *Model) Publish(n model.Notification) tea.Cmd {
	seq := m.sink.Publish(n)

	var cmds []tea.Cmd
	if m.feedTTL > 0 {
		id := n.ID
		cmds = append(cmds, tea.Tick(m.feedTTL, func(time.Time) tea.Msg {
			return feedExpireMsg{id: id}
		}))
	}
	if m.toastTTL > 0 {
		cmds = append(cmds, tea.Tick(m.toastTTL, func(time.Time) tea.Msg {
			return toastExpireMsg{seq: seq}
		}))
	}
	m.clampCursor()
	return tea.Batch(cmds...)
}

// IsTimerMsg reports whether msg is one of the pane's expiry timers. The
// parent routes these here no matter which view is active, so entries
// expire even while another view has focus.
func IsTimerMsg(msg tea.Msg) bool {
	switch msg.(type) {
	case feedExpireMsg, toastExpireMsg:
		return true
	}
	return false
}

// Update handles expiry timers and cursor movement for the feed.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case feedExpireMsg:
		m.sink.Expire(msg.id)
		m.clampCursor()
	case toastExpireMsg:
		m.sink.HideToast(msg.seq)
	}
	return m, nil
}

// MoveCursor shifts the feed selection by delta, clamped to the feed.
func (m *Model) MoveCursor(delta int) {
	m.cursor += delta
	m.clampCursor()
}

// DismissSelected removes the feed entry under the cursor.
func (m *Model) DismissSelected() {
	feed := m.sink.Feed()
	if m.cursor < 0 || m.cursor >= len(feed) {
		return
	}
	m.sink.Dismiss(feed[m.cursor].ID)
	m.clampCursor()
}

// View renders the toast slot followed by the feed entries.
func (m Model) View() string {
	var b strings.Builder

	if toast, ok := m.sink.Toast(); ok {
		b.WriteString(m.renderToast(toast))
		b.WriteString("\n\n")
	}

	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(theme.ColorWhite)
	b.WriteString(titleStyle.Render("Notifications"))
	b.WriteString("\n")

	feed := m.sink.Feed()
	if len(feed) == 0 {
		b.WriteString(theme.PlaceholderStyle.Render("No notifications"))
		return b.String()
	}

	for i, n := range feed {
		b.WriteString(m.renderEntry(n, i == m.cursor))
		if i < len(feed)-1 {
			b.WriteString("\n")
		}
	}
	return b.String()
}

// Feed returns the visible notifications, most recent first.
func (m Model) Feed() []model.Notification {
	return m.sink.Feed()
}

// SetSize updates the pane dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
}

func (m Model) renderToast(n model.Notification) string {
	icon := theme.SeverityIcon(n.Severity)
	line := fmt.Sprintf("%s %s", icon, n.Message)
	return theme.ToastStyle(n.Severity).
		MaxWidth(m.width).
		Render(line)
}

func (m Model) renderEntry(n model.Notification, selected bool) string {
	icon := theme.SeverityStyle(n.Severity).Render(theme.SeverityIcon(n.Severity))
	ts := lipgloss.NewStyle().Foreground(theme.ColorGray).
		Render(n.CreatedAt.Format("15:04"))

	msgStyle := lipgloss.NewStyle().Foreground(theme.ColorWhite)
	prefix := "  "
	if selected {
		prefix = "> "
		msgStyle = msgStyle.Bold(true)
	}

	line := fmt.Sprintf("%s%s %s %s", prefix, icon, msgStyle.Render(n.Message), ts)
	return lipgloss.NewStyle().MaxWidth(m.width).Render(line)
}

func (m *Model) clampCursor() {
	n := m.sink.Len()
	if m.cursor >= n {
		m.cursor = n - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}
