package app

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/apex/log"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/opencivic/civicwatch/internal/api"
	"github.com/opencivic/civicwatch/internal/capture"
	"github.com/opencivic/civicwatch/internal/device"
	"github.com/opencivic/civicwatch/internal/geo"
	"github.com/opencivic/civicwatch/internal/model"
	"github.com/opencivic/civicwatch/internal/notify"
)

// submitResultMsg carries the outcome of a report submission.
type submitResultMsg struct {
	err error
}

// locationResultMsg carries the outcome of a position capture.
type locationResultMsg struct {
	pos geo.Position
	err error
}

// recordingStartedMsg carries the outcome of opening a capture session.
type recordingStartedMsg struct {
	err error
}

// recordingStoppedMsg carries the finished clip, already written to disk.
type recordingStoppedMsg struct {
	path string
	err  error
}

func secondsToDuration(sec int) time.Duration {
	if sec <= 0 {
		return 0
	}
	return time.Duration(sec) * time.Second
}

// submitDraft validates the current draft and, when complete, sends it.
// An incomplete draft short-circuits to a validation result without
// touching the network.
func (m *Model) submitDraft() tea.Cmd {
	if missing := m.draft.MissingFields(); len(missing) > 0 {
		err := &api.ValidationError{Fields: missing}
		log.WithError(err).Warn("report submission blocked")
		return func() tea.Msg {
			return submitResultMsg{err: err}
		}
	}

	req := api.SubmitRequest{
		Title:       strings.TrimSpace(m.draft.Title),
		Description: strings.TrimSpace(m.draft.Description),
		Category:    m.draft.Category,
		Latitude:    *m.draft.Latitude,
		Longitude:   *m.draft.Longitude,
		Priority:    m.draft.EffectivePriority(),
		Address:     m.draft.Address,
	}

	client := m.client
	return func() tea.Msg {
		return submitResultMsg{err: client.SubmitIssue(context.Background(), req)}
	}
}

// handleSubmitResult applies the submission outcome: the draft is cleared
// only when the server accepted the report.
func (m Model) handleSubmitResult(msg submitResultMsg) (tea.Model, tea.Cmd) {
	if msg.err == nil {
		m.draft.Reset()
		m.currentView = ViewList
		var refreshCmd tea.Cmd
		m.reportList, refreshCmd = m.reportList.Refresh()
		publishCmd := m.noticesView.Publish(notify.NewRecord(
			"Issue reported successfully!", model.SeveritySuccess,
		))
		return m, tea.Batch(publishCmd, refreshCmd)
	}

	message := "Network error. Please try again."
	if api.IsValidationError(msg.err) {
		message = "Please fill in all required fields and capture a location."
	} else if se, ok := api.IsServerError(msg.err); ok {
		message = se.Message
		if message == "" {
			message = "Failed to submit report. Please try again."
		}
	}

	// The draft and form stay intact so the user can retry.
	m.currentView = ViewForm
	publishCmd := m.noticesView.Publish(notify.NewRecord(message, model.SeverityError))
	formCmd := m.reportForm.Start(m.draft)
	return m, tea.Batch(publishCmd, formCmd)
}

// captureLocation queries the locator and reports the result back to the
// update loop.
func (m Model) captureLocation() tea.Cmd {
	locator := m.locator
	return func() tea.Msg {
		pos, err := locator.Current(context.Background())
		return locationResultMsg{pos: pos, err: err}
	}
}

// handleLocationResult stores the captured position on the draft, or clears
// the draft position when the capture failed.
func (m Model) handleLocationResult(msg locationResultMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		m.draft.Latitude = nil
		m.draft.Longitude = nil
		m.draft.Address = ""
		m.reportForm.SetLocation("")

		message := "Unable to determine your location."
		if device.IsError(msg.err) {
			message = msg.err.Error()
		}
		cmd := m.noticesView.Publish(notify.NewRecord(message, model.SeverityError))
		return m, cmd
	}

	lat, lng := msg.pos.Latitude, msg.pos.Longitude
	m.draft.Latitude = &lat
	m.draft.Longitude = &lng
	m.draft.Address = msg.pos.Display()
	m.reportForm.SetLocation(m.draft.Address)

	cmd := m.noticesView.Publish(notify.NewRecord(
		"Location captured successfully!", model.SeveritySuccess,
	))
	return m, cmd
}

// toggleRecording starts a capture session, or stops the active one and
// writes the clip to disk.
func (m Model) toggleRecording() tea.Cmd {
	rec := m.recorder
	if !rec.Active() {
		return func() tea.Msg {
			return recordingStartedMsg{err: rec.Start(context.Background())}
		}
	}
	return func() tea.Msg {
		clip, err := rec.Stop()
		if err != nil {
			return recordingStoppedMsg{err: err}
		}
		path, err := saveClip(clip)
		return recordingStoppedMsg{path: path, err: err}
	}
}

func (m Model) handleRecordingStarted(msg recordingStartedMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		m.reportForm.SetRecording(false)
		cmd := m.noticesView.Publish(notify.NewRecord(
			msg.err.Error(), model.SeverityError,
		))
		return m, cmd
	}

	m.reportForm.SetRecording(true)
	cmd := m.noticesView.Publish(notify.NewRecord(
		"Recording started...", model.SeverityInfo,
	))
	return m, cmd
}

func (m Model) handleRecordingStopped(msg recordingStoppedMsg) (tea.Model, tea.Cmd) {
	m.reportForm.SetRecording(false)

	if msg.err != nil {
		m.draft.AudioPath = ""
		m.reportForm.SetAudio(false)
		cmd := m.noticesView.Publish(notify.NewRecord(
			msg.err.Error(), model.SeverityError,
		))
		return m, cmd
	}

	m.draft.AudioPath = msg.path
	m.reportForm.SetAudio(true)
	cmd := m.noticesView.Publish(notify.NewRecord(
		"Audio recorded successfully and attached to your report.",
		model.SeveritySuccess,
	))
	return m, cmd
}

// saveClip writes a finished clip to a temp file and returns its path.
func saveClip(clip capture.Clip) (string, error) {
	path := filepath.Join(os.TempDir(), fmt.Sprintf(
		"civicwatch-%d%s", time.Now().UnixNano(), clipExtension(clip.MimeType),
	))
	if err := os.WriteFile(path, clip.Data, 0o600); err != nil {
		log.WithError(err).Error("writing audio clip failed")
		return "", &device.Error{Op: "capture", Message: err.Error()}
	}
	return path, nil
}

func clipExtension(mimeType string) string {
	switch {
	case strings.HasPrefix(mimeType, "audio/webm"):
		return ".webm"
	case mimeType == "audio/mp4":
		return ".m4a"
	case mimeType == "audio/wav":
		return ".wav"
	default:
		return ".bin"
	}
}
