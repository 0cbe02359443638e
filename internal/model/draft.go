package model

import "strings"

// Draft is a user-entered, not-yet-submitted issue report.
type Draft struct {
	Title       string
	Description string
	Category    string

	// Priority defaults to medium when the user makes no selection.
	Priority Priority

	// Latitude and Longitude are nil until a position has been captured.
	Latitude  *float64
	Longitude *float64

	// Address is the display form of the captured position, sent to the
	// server alongside the coordinates.
	Address string

	// AudioPath points at a recorded clip attached to the draft, if any.
	AudioPath string
}

// MissingFields returns the names of required fields that are absent.
// Text fields are trimmed before the presence check.
func (d Draft) MissingFields() []string {
	var missing []string
	if strings.TrimSpace(d.Title) == "" {
		missing = append(missing, "title")
	}
	if strings.TrimSpace(d.Description) == "" {
		missing = append(missing, "description")
	}
	if strings.TrimSpace(d.Category) == "" {
		missing = append(missing, "category")
	}
	if d.Latitude == nil {
		missing = append(missing, "latitude")
	}
	if d.Longitude == nil {
		missing = append(missing, "longitude")
	}
	return missing
}

// EffectivePriority returns the draft priority, defaulting to medium.
func (d Draft) EffectivePriority() Priority {
	if d.Priority == "" {
		return PriorityMedium
	}
	return d.Priority
}

// Reset clears all user-entered state, returning the draft to its initial
// empty form.
func (d *Draft) Reset() {
	*d = Draft{}
}
