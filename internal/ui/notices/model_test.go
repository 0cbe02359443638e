package notices

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/opencivic/civicwatch/internal/model"
	"github.com/opencivic/civicwatch/internal/notify"
)

func notice(id, message string) model.Notification {
	return model.Notification{
		ID:        id,
		Message:   message,
		Severity:  model.SeverityInfo,
		CreatedAt: time.Date(2026, 8, 31, 10, 30, 0, 0, time.UTC),
	}
}

func TestModel_PublishShowsToastAndFeedEntry(t *testing.T) {
	sink := notify.NewSink(0)
	m := New(sink, 10*time.Second, 5*time.Second, 60, 20)

	cmd := m.Publish(notice("n1", "Your report has been approved"))
	require.NotNil(t, cmd)

	view := m.View()
	// Both the toast slot and the feed carry the message.
	assert.Equal(t, 2, strings.Count(view, "Your report has been approved"))
}

func TestModel_FeedExpiryRemovesEntry(t *testing.T) {
	sink := notify.NewSink(0)
	m := New(sink, 10*time.Second, 5*time.Second, 60, 20)
	m.Publish(notice("n1", "stale entry"))

	m, _ = m.Update(feedExpireMsg{id: "n1"})

	assert.Equal(t, 0, sink.Len())
	assert.Contains(t, m.View(), "No notifications")
}

func TestModel_ExpiryAfterDismissIsNoOp(t *testing.T) {
	sink := notify.NewSink(0)
	m := New(sink, 10*time.Second, 5*time.Second, 60, 20)
	m.Publish(notice("a", "first"))
	m.Publish(notice("b", "second"))

	// Cursor sits at the head, which is the most recent entry.
	m.DismissSelected()
	require.Equal(t, 1, sink.Len())

	// The timer for the dismissed entry fires later and must not disturb
	// the remaining feed.
	m, _ = m.Update(feedExpireMsg{id: "b"})
	require.Equal(t, 1, sink.Len())
	assert.Equal(t, "a", sink.Feed()[0].ID)
}

func TestModel_StaleToastTimerIgnored(t *testing.T) {
	sink := notify.NewSink(0)
	m := New(sink, 10*time.Second, 5*time.Second, 60, 20)

	m.Publish(notice("old", "old toast"))
	m.Publish(notice("new", "new toast"))

	// Seq 1 belongs to the replaced toast; its timer must not hide seq 2.
	m, _ = m.Update(toastExpireMsg{seq: 1})
	toast, visible := sink.Toast()
	require.True(t, visible)
	assert.Equal(t, "new", toast.ID)

	m, _ = m.Update(toastExpireMsg{seq: 2})
	_, visible = sink.Toast()
	assert.False(t, visible)
}

func TestModel_CursorClampsToFeed(t *testing.T) {
	sink := notify.NewSink(0)
	m := New(sink, 0, 0, 60, 20)
	m.Publish(notice("a", "first"))
	m.Publish(notice("b", "second"))

	m.MoveCursor(5)
	assert.Equal(t, 1, m.cursor)
	m.MoveCursor(-10)
	assert.Equal(t, 0, m.cursor)

	// Dismissing everything leaves the cursor at zero, not negative.
	m.DismissSelected()
	m.DismissSelected()
	assert.Equal(t, 0, m.cursor)
	m.DismissSelected()
}

func TestModel_ZeroTTLSchedulesNoTimers(t *testing.T) {
	sink := notify.NewSink(0)
	m := New(sink, 0, 0, 60, 20)

	cmd := m.Publish(notice("n1", "kept forever"))
	assert.Nil(t, cmd)
}
