package model

import "time"

// IssueStatus is the server-side lifecycle state of a reported issue.
type IssueStatus string

const (
	StatusPending    IssueStatus = "pending"
	StatusApproved   IssueStatus = "approved"
	StatusRejected   IssueStatus = "rejected"
	StatusOnHold     IssueStatus = "on-hold"
	StatusInProgress IssueStatus = "in-progress"
	StatusResolved   IssueStatus = "resolved"
)

// Priority is the reporter-assigned urgency of an issue.
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

// Category values offered when filing a report. The server accepts free-form
// categories; these are the ones the form presents.
const (
	CategoryRoads       = "roads"
	CategoryWater       = "water"
	CategorySanitation  = "sanitation"
	CategoryElectricity = "electricity"
	CategoryLighting    = "lighting"
	CategoryOther       = "other"
)

// Location is where an issue was reported.
type Location struct {
	// Address is the human-readable description, when one is known.
	Address *string `json:"address,omitempty"`

	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// Issue is a read-only projection of a server-side issue record. It is
// rendered as-is and never mutated by the client.
type Issue struct {
	// ID is the server-assigned identifier.
	ID string `json:"id"`

	// Title is the short summary entered by the reporter.
	Title string `json:"title"`

	// Description is the full report text.
	Description string `json:"description"`

	// Status is the current lifecycle state.
	Status IssueStatus `json:"status"`

	// Category is the issue category label.
	Category string `json:"category"`

	// Priority is the reporter-assigned urgency.
	Priority Priority `json:"priority"`

	// Location is where the issue was reported.
	Location Location `json:"location"`

	// CreatedAt is when the report was filed.
	CreatedAt time.Time `json:"createdAt"`
}

// DisplayAddress returns the location line shown for an issue.
func (i Issue) DisplayAddress() string {
	if i.Location.Address != nil && *i.Location.Address != "" {
		return *i.Location.Address
	}
	return "Location not specified"
}
