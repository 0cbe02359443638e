package model

// Push event kinds delivered over the realtime transport.
const (
	EventIssueStatus  = "issue:status"
	EventIssueUpdated = "issue:updated"
)

// StatusEvent is the payload of a realtime push event. It is constructed by
// the transport, consumed immediately, and never persisted. Any field may be
// empty; consumers fall back to defaults rather than fail.
type StatusEvent struct {
	// Status is the issue status carried by the event.
	Status IssueStatus `json:"status"`

	// Title is the title of the affected issue, when the server sends one.
	Title string `json:"title,omitempty"`

	// Message is a server-provided notification text that overrides the
	// synthesized one.
	Message string `json:"message,omitempty"`
}
