package app

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/opencivic/civicwatch/internal/api"
	"github.com/opencivic/civicwatch/internal/capture"
	"github.com/opencivic/civicwatch/internal/geo"
	"github.com/opencivic/civicwatch/internal/keys"
	"github.com/opencivic/civicwatch/internal/model"
	"github.com/opencivic/civicwatch/internal/notify"
	"github.com/opencivic/civicwatch/internal/realtime"
	"github.com/opencivic/civicwatch/internal/ui"
	"github.com/opencivic/civicwatch/internal/ui/command"
	"github.com/opencivic/civicwatch/internal/ui/detail"
	helpview "github.com/opencivic/civicwatch/internal/ui/help"
	"github.com/opencivic/civicwatch/internal/ui/notices"
	"github.com/opencivic/civicwatch/internal/ui/reportform"
	"github.com/opencivic/civicwatch/internal/ui/reportlist"
)

// ViewState represents the current active view in the application.
type ViewState int

const (
	ViewList ViewState = iota
	ViewDetail
	ViewForm
	ViewHelp
	ViewCommand
)

// eventInbox collects notifications produced by push-event handlers.
// Handlers run on the Bubble Tea goroutine via Dispatch, so no locking is
// needed; the update loop drains the inbox right after dispatching.
type eventInbox struct {
	pending []model.Notification
}

func (b *eventInbox) drain() []model.Notification {
	out := b.pending
	b.pending = nil
	return out
}

// Model is the root Bubble Tea model that manages view routing, layout,
// and the collaborators behind each view.
type Model struct {
	currentView  ViewState
	previousView ViewState
	layout       ui.Layout
	keys         *keys.KeyMap
	cfg          *model.AppConfig

	client   *api.Client
	listener *realtime.Listener
	locator  geo.Locator
	recorder *capture.Recorder
	inbox    *eventInbox

	reportList  reportlist.Model
	noticesView notices.Model
	detail      detail.Model
	reportForm  reportform.Model
	helpView    helpview.Model
	commandView command.Model

	// draft survives failed submissions and view switches; it is cleared
	// only after the server accepts the report.
	draft model.Draft

	ready     bool
	connected bool
	focusFeed bool
	unseen    int
}

// New creates the root application model and registers the push-event
// handlers that turn server events into notifications.
func New(
	cfg *model.AppConfig,
	client *api.Client,
	listener *realtime.Listener,
	locator geo.Locator,
	recorder *capture.Recorder,
) Model {
	k := keys.DefaultKeyMap()
	sink := notify.NewSink(cfg.Notifications.MaxVisible)

	inbox := &eventInbox{}
	listener.Subscribe(model.EventIssueStatus, func(ev model.StatusEvent) {
		inbox.pending = append(inbox.pending, notify.Normalize(ev))
	})
	listener.Subscribe(model.EventIssueUpdated, func(ev model.StatusEvent) {
		inbox.pending = append(inbox.pending, notify.NormalizeUpdate(ev))
	})

	feedTTL := secondsToDuration(cfg.Notifications.FeedTTLSec)
	toastTTL := secondsToDuration(cfg.Notifications.ToastTTLSec)

	return Model{
		currentView: ViewList,
		keys:        k,
		cfg:         cfg,
		client:      client,
		listener:    listener,
		locator:     locator,
		recorder:    recorder,
		inbox:       inbox,
		reportList:  reportlist.New(client, k, cfg.Reports.PageSize, 80, 24),
		noticesView: notices.New(sink, feedTTL, toastTTL, 40, 24),
		detail:      detail.New(k, 80, 24),
		reportForm:  reportform.New(80, 24),
		helpView:    helpview.New(k, 80, 24),
		commandView: command.New(80, 24),
	}
}

// Init connects to the realtime endpoint and waits for the first message.
// The initial reports fetch is issued once the terminal size is known.
func (m Model) Init() tea.Cmd {
	return m.listener.Start()
}

// Update handles messages and dispatches to the active view.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	// Expiry timers always reach the notices pane, whatever is on screen.
	if notices.IsTimerMsg(msg) {
		var cmd tea.Cmd
		m.noticesView, cmd = m.noticesView.Update(msg)
		return m, cmd
	}

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.layout = ui.NewLayout(msg.Width, msg.Height)
		contentWidth := m.layout.Width
		contentHeight := m.layout.ContentHeight()
		m.reportList.SetSize(m.layout.ReportsWidth(), contentHeight)
		m.noticesView.SetSize(m.layout.FeedWidth(), contentHeight)
		m.detail.SetSize(contentWidth, contentHeight)
		m.reportForm.SetSize(contentWidth, contentHeight)
		m.helpView.SetSize(contentWidth, contentHeight)
		m.commandView.SetSize(contentWidth, contentHeight)

		if !m.ready {
			m.ready = true
			m.connected = m.listener.Connected()
			var cmd tea.Cmd
			m.reportList, cmd = m.reportList.Refresh()
			return m, cmd
		}
		// Forward to active view so huh forms can calculate their layout.
		return m.updateActiveView(msg)

	case realtime.EventMsg:
		m.connected = true
		m.listener.Dispatch(msg)

		var cmds []tea.Cmd
		for _, n := range m.inbox.drain() {
			cmds = append(cmds, m.noticesView.Publish(n))
			m.unseen++
		}

		// Every push event may have changed the public snapshot.
		var cmd tea.Cmd
		m.reportList, cmd = m.reportList.Refresh()
		cmds = append(cmds, cmd, m.listener.WaitForNextEvent())
		return m, tea.Batch(cmds...)

	case realtime.DisconnectedMsg:
		m.connected = false
		if msg.Err != nil {
			cmd := m.noticesView.Publish(notify.NewRecord(
				"Live updates disconnected.", model.SeverityWarning,
			))
			return m, cmd
		}
		return m, nil

	case reportlist.ReportsLoadedMsg:
		// Snapshot responses are handled regardless of the active view so
		// background refreshes keep the list current.
		var cmd tea.Cmd
		m.reportList, cmd = m.reportList.Update(msg)
		m.refreshDetailSnapshot()
		return m, cmd

	case reportlist.SelectedReportMsg:
		m.previousView = m.currentView
		m.currentView = ViewDetail
		issue := msg.Issue
		m.detail.SetIssue(&issue)
		return m, nil

	case detail.BackMsg:
		m.currentView = ViewList
		return m, nil

	case reportform.SubmitRequestedMsg:
		m.draft = mergeFormDraft(m.draft, msg.Draft)
		cmd := m.submitDraft()
		return m, cmd

	case reportform.CancelMsg:
		m.draft = m.reportForm.Draft(m.draft)
		m.currentView = ViewList
		return m, nil

	case submitResultMsg:
		return m.handleSubmitResult(msg)

	case locationResultMsg:
		return m.handleLocationResult(msg)

	case recordingStartedMsg:
		return m.handleRecordingStarted(msg)

	case recordingStoppedMsg:
		return m.handleRecordingStopped(msg)

	case command.CommandMsg:
		m.currentView = m.previousView
		cmd := m.executeCommand(string(msg))
		return m, cmd

	case tea.KeyMsg:
		if handled, mdl, cmd := m.handleGlobalKey(msg); handled {
			return mdl, cmd
		}
	}

	// Delegate to active sub-view
	return m.updateActiveView(msg)
}

// handleGlobalKey processes keys that apply across views. It reports
// whether the key was consumed.
func (m Model) handleGlobalKey(msg tea.KeyMsg) (bool, tea.Model, tea.Cmd) {
	inText := m.currentView == ViewForm || m.currentView == ViewCommand

	switch msg.String() {
	case "ctrl+c":
		m.listener.Stop()
		m.recorder.Abort()
		return true, m, tea.Quit

	case "q":
		if m.currentView == ViewList {
			m.listener.Stop()
			m.recorder.Abort()
			return true, m, tea.Quit
		}

	case "?":
		if inText {
			break
		}
		if m.currentView == ViewHelp {
			m.currentView = m.previousView
			return true, m, nil
		}
		m.previousView = m.currentView
		m.currentView = ViewHelp
		return true, m, nil

	case ":":
		if inText {
			break
		}
		if m.currentView == ViewCommand {
			m.currentView = m.previousView
			return true, m, nil
		}
		m.previousView = m.currentView
		m.currentView = ViewCommand
		cmd := m.commandView.Focus()
		return true, m, cmd

	case "n":
		if m.currentView == ViewList {
			cmd := m.openForm()
			return true, m, cmd
		}

	case "g":
		if m.currentView == ViewList {
			return true, m, m.captureLocation()
		}

	case "ctrl+g":
		if m.currentView == ViewList || m.currentView == ViewForm {
			return true, m, m.captureLocation()
		}

	case "m":
		if m.currentView == ViewList {
			return true, m, m.toggleRecording()
		}

	case "ctrl+r":
		if m.currentView == ViewList || m.currentView == ViewForm {
			return true, m, m.toggleRecording()
		}

	case "tab":
		if m.currentView == ViewList {
			m.focusFeed = !m.focusFeed
			if m.focusFeed {
				m.unseen = 0
			}
			return true, m, nil
		}

	case "x":
		if m.currentView == ViewList && m.focusFeed {
			m.noticesView.DismissSelected()
			return true, m, nil
		}

	case "j", "down":
		if m.currentView == ViewList && m.focusFeed {
			m.noticesView.MoveCursor(1)
			return true, m, nil
		}

	case "k", "up":
		if m.currentView == ViewList && m.focusFeed {
			m.noticesView.MoveCursor(-1)
			return true, m, nil
		}
	}

	return false, m, nil
}

// updateActiveView dispatches the message to the currently active view.
func (m Model) updateActiveView(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch m.currentView {
	case ViewList:
		// Keys go to the focused pane only; everything else reaches both.
		if _, isKey := msg.(tea.KeyMsg); isKey && m.focusFeed {
			m.noticesView, cmd = m.noticesView.Update(msg)
			return m, cmd
		}
		var cmds []tea.Cmd
		m.reportList, cmd = m.reportList.Update(msg)
		cmds = append(cmds, cmd)
		m.noticesView, cmd = m.noticesView.Update(msg)
		cmds = append(cmds, cmd)
		return m, tea.Batch(cmds...)
	case ViewDetail:
		m.detail, cmd = m.detail.Update(msg)
	case ViewForm:
		m.reportForm, cmd = m.reportForm.Update(msg)
	case ViewHelp:
		m.helpView, cmd = m.helpView.Update(msg)
	case ViewCommand:
		m.commandView, cmd = m.commandView.Update(msg)
	}

	return m, cmd
}

// View renders the full terminal UI using the layout manager.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}

	headerTitle := "CivicWatch"
	if m.unseen > 0 {
		headerTitle = fmt.Sprintf("CivicWatch [%d new]", m.unseen)
	}
	header := m.layout.RenderHeader(headerTitle, m.connState())
	content := m.renderContent()
	statusBar := m.layout.RenderStatusBar(m.keyHints())

	return m.layout.RenderWithFrame(header, content, statusBar)
}

// renderContent returns the rendered string for the current active view.
func (m Model) renderContent() string {
	switch m.currentView {
	case ViewList:
		return m.layout.RenderSplit(m.reportList.View(), m.noticesView.View())
	case ViewDetail:
		return m.detail.View()
	case ViewForm:
		return m.reportForm.View()
	case ViewHelp:
		return m.helpView.View()
	case ViewCommand:
		return m.commandView.View()
	default:
		return ""
	}
}

// connState returns the realtime connection label for the header.
func (m Model) connState() string {
	if m.connected {
		return "● live"
	}
	return "○ offline"
}

// keyHints returns keyboard shortcut hints for the status bar.
func (m Model) keyHints() string {
	switch m.currentView {
	case ViewHelp:
		return "? close help | esc back"
	case ViewCommand:
		return ": close command | enter execute | esc back"
	case ViewDetail:
		return "esc back | j/k scroll"
	case ViewForm:
		return "enter next | ctrl+g location | ctrl+r record | esc cancel"
	default:
		if m.focusFeed {
			return "j/k move | x dismiss | tab reports | q quit"
		}
		return "q quit | ? help | n new report | r refresh | g location | m record | tab feed"
	}
}

// refreshDetailSnapshot replaces the detail view's issue with the freshly
// fetched copy so an open detail never shows a stale status.
func (m *Model) refreshDetailSnapshot() {
	current := m.detail.Issue()
	if current == nil {
		return
	}
	for _, issue := range m.reportList.Rows() {
		if issue.ID == current.ID {
			fresh := issue
			m.detail.SetIssue(&fresh)
			return
		}
	}
}

// executeCommand handles a command string from the command palette.
func (m *Model) executeCommand(cmd string) tea.Cmd {
	switch cmd {
	case "refresh", "r":
		var c tea.Cmd
		m.reportList, c = m.reportList.Refresh()
		return c
	case "new", "report":
		return m.openForm()
	case "quit", "q":
		m.listener.Stop()
		m.recorder.Abort()
		return tea.Quit
	default:
		return nil
	}
}

// openForm switches to the report form, restoring any saved draft.
func (m *Model) openForm() tea.Cmd {
	m.previousView = m.currentView
	m.currentView = ViewForm
	return m.reportForm.Start(m.draft)
}

// mergeFormDraft overlays the form fields onto the saved draft, keeping the
// captured location and audio attachment.
func mergeFormDraft(base, form model.Draft) model.Draft {
	base.Title = form.Title
	base.Description = form.Description
	base.Category = form.Category
	base.Priority = form.Priority
	return base
}
