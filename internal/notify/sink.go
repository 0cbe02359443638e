package notify

import "github.com/opencivic/civicwatch/internal/model"

// Sink holds the visible notification state: an insertion-ordered feed
// (most recent first) and a single toast slot mirroring the latest record.
// It is pure state; timers live in the UI layer, which calls Expire and
// HideToast when they fire.
type Sink struct {
	// MaxVisible caps the feed length. Zero means unbounded, though a
	// bound is recommended for long-lived sessions.
	MaxVisible int

	feed []model.Notification

	toast        model.Notification
	toastVisible bool
	toastSeq     uint64
}

// NewSink creates a sink with the given feed cap. maxVisible <= 0 leaves
// the feed unbounded.
func NewSink(maxVisible int) *Sink {
	return &Sink{MaxVisible: maxVisible}
}

// Publish inserts the record at the head of the feed and replaces the
// toast. It returns the toast sequence number for the caller to schedule
// the auto-hide against; a replaced toast's pending hide becomes a no-op.
func (s *Sink) Publish(rec model.Notification) uint64 {
	s.feed = append([]model.Notification{rec}, s.feed...)
	if s.MaxVisible > 0 && len(s.feed) > s.MaxVisible {
		s.feed = s.feed[:s.MaxVisible]
	}

	s.toast = rec
	s.toastVisible = true
	s.toastSeq++
	return s.toastSeq
}

// Dismiss removes the record with the given ID immediately. It reports
// whether a record was removed.
func (s *Sink) Dismiss(id string) bool {
	return s.remove(id)
}

// Expire removes the record with the given ID when its display interval
// elapses. Expiry after an explicit dismissal is a no-op.
func (s *Sink) Expire(id string) bool {
	return s.remove(id)
}

func (s *Sink) remove(id string) bool {
	for i, rec := range s.feed {
		if rec.ID == id {
			s.feed = append(s.feed[:i], s.feed[i+1:]...)
			return true
		}
	}
	return false
}

// HideToast clears the toast if seq still identifies the visible one.
// A stale sequence (the toast was replaced since the hide was scheduled)
// leaves the newer toast untouched.
func (s *Sink) HideToast(seq uint64) bool {
	if !s.toastVisible || seq != s.toastSeq {
		return false
	}
	s.toastVisible = false
	return true
}

// Feed returns the visible notifications, most recent first.
func (s *Sink) Feed() []model.Notification {
	return s.feed
}

// Toast returns the toast record and whether it is currently visible.
func (s *Sink) Toast() (model.Notification, bool) {
	return s.toast, s.toastVisible
}

// Len returns the number of feed entries.
func (s *Sink) Len() int {
	return len(s.feed)
}
