package notify

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/opencivic/civicwatch/internal/model"
)

func rec(id string) model.Notification {
	return model.Notification{ID: id, Message: id, Severity: model.SeverityInfo}
}

func TestSink_PublishInsertsAtHead(t *testing.T) {
	s := NewSink(0)
	s.Publish(rec("first"))
	s.Publish(rec("second"))

	feed := s.Feed()
	require.Len(t, feed, 2)
	assert.Equal(t, "second", feed[0].ID)
	assert.Equal(t, "first", feed[1].ID)
}

func TestSink_MaxVisibleTrimsOldest(t *testing.T) {
	s := NewSink(3)
	for i := 0; i < 5; i++ {
		s.Publish(rec(fmt.Sprintf("n%d", i)))
	}

	feed := s.Feed()
	require.Len(t, feed, 3)
	assert.Equal(t, "n4", feed[0].ID)
	assert.Equal(t, "n2", feed[2].ID)
}

func TestSink_ZeroMaxVisibleIsUnbounded(t *testing.T) {
	s := NewSink(0)
	for i := 0; i < 250; i++ {
		s.Publish(rec(fmt.Sprintf("n%d", i)))
	}
	assert.Equal(t, 250, s.Len())
}

func TestSink_ExpireAfterDismissIsNoOp(t *testing.T) {
	s := NewSink(0)
	s.Publish(rec("a"))
	s.Publish(rec("b"))

	assert.True(t, s.Dismiss("a"))
	// The scheduled expiry fires later; it must not remove anything else
	// or report a removal.
	assert.False(t, s.Expire("a"))
	assert.Equal(t, 1, s.Len())
	assert.Equal(t, "b", s.Feed()[0].ID)
}

func TestSink_ExpireRemovesOnlyItsRecord(t *testing.T) {
	s := NewSink(0)
	s.Publish(rec("a"))
	s.Publish(rec("b"))

	assert.True(t, s.Expire("a"))
	require.Equal(t, 1, s.Len())
	assert.Equal(t, "b", s.Feed()[0].ID)
}

func TestSink_ToastLastWriteWins(t *testing.T) {
	s := NewSink(0)
	seq1 := s.Publish(rec("first"))
	seq2 := s.Publish(rec("second"))

	toast, visible := s.Toast()
	require.True(t, visible)
	assert.Equal(t, "second", toast.ID)

	// The hide scheduled for the replaced toast must not clear the newer one.
	assert.False(t, s.HideToast(seq1))
	_, visible = s.Toast()
	assert.True(t, visible)

	assert.True(t, s.HideToast(seq2))
	_, visible = s.Toast()
	assert.False(t, visible)
}

func TestSink_HideToastTwiceIsNoOp(t *testing.T) {
	s := NewSink(0)
	seq := s.Publish(rec("only"))

	assert.True(t, s.HideToast(seq))
	assert.False(t, s.HideToast(seq))
}
