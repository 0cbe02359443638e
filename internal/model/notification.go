package model

import "time"

// Severity classifies a notification independently of the issue status that
// produced it.
type Severity string

const (
	SeveritySuccess Severity = "success"
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
	SeverityInfo    Severity = "info"
)

// Notification is a single entry in the notification feed.
type Notification struct {
	// ID is the unique identifier for this notification.
	ID string `json:"id"`

	// Message is the human-readable notification text.
	Message string `json:"message"`

	// Severity classifies the notification for display.
	Severity Severity `json:"severity"`

	// CreatedAt is when this notification was published.
	CreatedAt time.Time `json:"created_at"`
}
