package app

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/opencivic/civicwatch/internal/api"
	"github.com/opencivic/civicwatch/internal/capture"
	"github.com/opencivic/civicwatch/internal/geo"
	"github.com/opencivic/civicwatch/internal/model"
	"github.com/opencivic/civicwatch/internal/realtime"
	"github.com/opencivic/civicwatch/internal/ui/reportform"
)

type fakeLocator struct {
	pos geo.Position
	err error
}

func (f fakeLocator) Current(context.Context) (geo.Position, error) {
	return f.pos, f.err
}

type fakeStream struct {
	ch chan []byte
}

func (s fakeStream) Chunks() <-chan []byte { return s.ch }
func (s fakeStream) Close() error {
	close(s.ch)
	return nil
}

type fakeDevice struct{}

func (fakeDevice) Supports(string) bool { return true }
func (fakeDevice) Open(context.Context, string) (capture.Stream, error) {
	return fakeStream{ch: make(chan []byte, 1)}, nil
}

// newTestApp wires an app against the given API base URL. TTLs are zeroed
// so Publish never schedules timers the test would have to drain.
func newTestApp(baseURL string) Model {
	cfg := &model.AppConfig{
		Server:        model.ServerConfig{BaseURL: baseURL},
		Notifications: model.NotificationsConfig{MaxVisible: 100},
		Reports:       model.ReportsConfig{PageSize: 10},
	}
	return New(
		cfg,
		api.NewClient(baseURL),
		realtime.NewListener("ws://127.0.0.1:1/events"),
		fakeLocator{pos: geo.Position{Latitude: 10.5, Longitude: 106.25}},
		capture.NewRecorder(fakeDevice{}),
	)
}

func completeDraft() model.Draft {
	lat, lng := 10.5, 106.25
	return model.Draft{
		Title:       "Pothole on Main St",
		Description: "Large pothole near the intersection",
		Category:    model.CategoryRoads,
		Latitude:    &lat,
		Longitude:   &lng,
		Address:     "Lat 10.50000, Lng 106.25000",
	}
}

func TestIncompleteDraftSubmitsNothing(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(
		func(w http.ResponseWriter, r *http.Request) {
			hits.Add(1)
		},
	))
	defer srv.Close()

	m := newTestApp(srv.URL)

	draft := completeDraft()
	draft.Longitude = nil

	mdl, cmd := m.Update(reportform.SubmitRequestedMsg{Draft: draft})
	m = mdl.(Model)
	require.NotNil(t, cmd)

	mdl, _ = m.Update(cmd())
	m = mdl.(Model)

	assert.Equal(t, int32(0), hits.Load())
	assert.Equal(t, ViewForm, m.currentView)
	feed := m.noticesView.Feed()
	require.NotEmpty(t, feed)
	assert.Equal(t,
		"Please fill in all required fields and capture a location.",
		feed[0].Message,
	)
	assert.Equal(t, model.SeverityError, feed[0].Severity)
}

func TestAcceptedSubmissionClearsDraft(t *testing.T) {
	var got api.SubmitRequest
	srv := httptest.NewServer(http.HandlerFunc(
		func(w http.ResponseWriter, r *http.Request) {
			require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
			w.WriteHeader(http.StatusCreated)
		},
	))
	defer srv.Close()

	m := newTestApp(srv.URL)
	m.draft = completeDraft()

	mdl, cmd := m.Update(reportform.SubmitRequestedMsg{Draft: m.draft})
	m = mdl.(Model)
	require.NotNil(t, cmd)

	result, ok := cmd().(submitResultMsg)
	require.True(t, ok)
	require.NoError(t, result.err)
	assert.Equal(t, "Pothole on Main St", got.Title)
	assert.Equal(t, model.PriorityMedium, got.Priority)
	assert.Equal(t, 106.25, got.Longitude)

	mdl, _ = m.Update(result)
	m = mdl.(Model)

	assert.Equal(t, model.Draft{}, m.draft)
	assert.Equal(t, ViewList, m.currentView)
	feed := m.noticesView.Feed()
	require.NotEmpty(t, feed)
	assert.Equal(t, "Issue reported successfully!", feed[0].Message)
	assert.Equal(t, model.SeveritySuccess, feed[0].Severity)
}

func TestRejectedSubmissionKeepsDraft(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(
		func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusConflict)
			_, _ = w.Write([]byte(`{"message":"duplicate report"}`))
		},
	))
	defer srv.Close()

	m := newTestApp(srv.URL)
	m.draft = completeDraft()

	mdl, cmd := m.Update(reportform.SubmitRequestedMsg{Draft: m.draft})
	m = mdl.(Model)
	require.NotNil(t, cmd)

	result := cmd().(submitResultMsg)
	require.Error(t, result.err)

	mdl, _ = m.Update(result)
	m = mdl.(Model)

	assert.Equal(t, "Pothole on Main St", m.draft.Title)
	assert.Equal(t, ViewForm, m.currentView)
	feed := m.noticesView.Feed()
	require.NotEmpty(t, feed)
	assert.Equal(t, "duplicate report", feed[0].Message)
}

func TestTransportFailureShowsNetworkError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(
		func(w http.ResponseWriter, r *http.Request) {},
	))
	srv.Close()

	m := newTestApp(srv.URL)
	m.draft = completeDraft()

	mdl, cmd := m.Update(reportform.SubmitRequestedMsg{Draft: m.draft})
	m = mdl.(Model)

	result := cmd().(submitResultMsg)
	require.True(t, api.IsTransportError(result.err))

	mdl, _ = m.Update(result)
	m = mdl.(Model)

	assert.Equal(t, "Pothole on Main St", m.draft.Title)
	feed := m.noticesView.Feed()
	require.NotEmpty(t, feed)
	assert.Equal(t, "Network error. Please try again.", feed[0].Message)
}

func TestStatusEventPublishesAndRefreshes(t *testing.T) {
	m := newTestApp("http://127.0.0.1:1")

	mdl, cmd := m.Update(realtime.EventMsg{
		Kind: model.EventIssueStatus,
		Event: model.StatusEvent{
			Status: model.StatusApproved,
			Title:  "Pothole",
		},
	})
	m = mdl.(Model)

	// The batch re-arms the event wait and refreshes the snapshot.
	require.NotNil(t, cmd)
	assert.Equal(t, 1, m.unseen)

	feed := m.noticesView.Feed()
	require.Len(t, feed, 1)
	assert.Equal(t, `Your "Pothole" report has been approved`, feed[0].Message)
	assert.Equal(t, model.SeveritySuccess, feed[0].Severity)
}

func TestUpdatedEventIsAlwaysInfo(t *testing.T) {
	m := newTestApp("http://127.0.0.1:1")

	mdl, _ := m.Update(realtime.EventMsg{
		Kind: model.EventIssueUpdated,
		Event: model.StatusEvent{
			Status: model.StatusRejected,
			Title:  "Streetlight out",
		},
	})
	m = mdl.(Model)

	feed := m.noticesView.Feed()
	require.Len(t, feed, 1)
	assert.Equal(t, `"Streetlight out" status updated to rejected`, feed[0].Message)
	assert.Equal(t, model.SeverityInfo, feed[0].Severity)
}

func TestLocationCaptureFillsDraft(t *testing.T) {
	m := newTestApp("http://127.0.0.1:1")

	cmd := m.captureLocation()
	result := cmd().(locationResultMsg)
	require.NoError(t, result.err)

	mdl, _ := m.Update(result)
	m = mdl.(Model)

	require.NotNil(t, m.draft.Latitude)
	require.NotNil(t, m.draft.Longitude)
	assert.Equal(t, 10.5, *m.draft.Latitude)
	assert.Equal(t, "Lat 10.50000, Lng 106.25000", m.draft.Address)

	feed := m.noticesView.Feed()
	require.NotEmpty(t, feed)
	assert.Equal(t, "Location captured successfully!", feed[0].Message)
}

func TestDisconnectPublishesWarning(t *testing.T) {
	m := newTestApp("http://127.0.0.1:1")
	m.connected = true

	mdl, _ := m.Update(realtime.DisconnectedMsg{Err: assert.AnError})
	m = mdl.(Model)

	assert.False(t, m.connected)
	feed := m.noticesView.Feed()
	require.NotEmpty(t, feed)
	assert.Equal(t, "Live updates disconnected.", feed[0].Message)
	assert.Equal(t, model.SeverityWarning, feed[0].Severity)
}
