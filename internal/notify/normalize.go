// Package notify turns inbound realtime events and submission outcomes into
// the notifications the UI shows, and owns the visible notification state.
package notify

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/opencivic/civicwatch/internal/model"
)

// SeverityFor maps an issue status to a notification severity. The mapping
// is total: unknown statuses map to info.
func SeverityFor(status model.IssueStatus) model.Severity {
	switch status {
	case model.StatusApproved, model.StatusResolved:
		return model.SeveritySuccess
	case model.StatusRejected:
		return model.SeverityError
	case model.StatusOnHold:
		return model.SeverityWarning
	case model.StatusInProgress:
		return model.SeverityInfo
	default:
		return model.SeverityInfo
	}
}

// Normalize maps an issue:status event to a notification. A server-provided
// message is used verbatim; otherwise one is synthesized from the title and
// status, with "Your issue" standing in for a missing title.
func Normalize(ev model.StatusEvent) model.Notification {
	title := ev.Title
	if title == "" {
		title = "Your issue"
	}

	message := ev.Message
	if message == "" {
		message = fmt.Sprintf("Your %q report has been %s", title, ev.Status)
	}

	return newNotification(message, SeverityFor(ev.Status))
}

// NormalizeUpdate maps an issue:updated event to a notification. The
// severity is always info regardless of the carried status; the title falls
// back to "Issue".
func NormalizeUpdate(ev model.StatusEvent) model.Notification {
	title := ev.Title
	if title == "" {
		title = "Issue"
	}

	message := ev.Message
	if message == "" {
		message = fmt.Sprintf("%q status updated to %s", title, ev.Status)
	}

	return newNotification(message, model.SeverityInfo)
}

// NewRecord builds a notification for a locally produced outcome, such as a
// submission result or a device error.
func NewRecord(message string, severity model.Severity) model.Notification {
	return newNotification(message, severity)
}

func newNotification(message string, severity model.Severity) model.Notification {
	return model.Notification{
		ID:        uuid.NewString(),
		Message:   message,
		Severity:  severity,
		CreatedAt: time.Now(),
	}
}
