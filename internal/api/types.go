package api

import "github.com/opencivic/civicwatch/internal/model"

// SubmitRequest is the body of POST /api/issues.
type SubmitRequest struct {
	Title       string         `json:"title"`
	Description string         `json:"description"`
	Category    string         `json:"category"`
	Latitude    float64        `json:"latitude"`
	Longitude   float64        `json:"longitude"`
	Priority    model.Priority `json:"priority"`
	Address     string         `json:"address"`
}

// issuesResponse is the body of GET /api/issues/public. A nil or empty
// issues array is a valid, non-error response.
type issuesResponse struct {
	Issues []model.Issue `json:"issues"`
}

// errorResponse is the optional body of a non-2xx response.
type errorResponse struct {
	Message string `json:"message"`
}
