package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/apex/log"

	"github.com/opencivic/civicwatch/internal/model"
)

// Client is a thin HTTP client for the issue-reporting REST API. It handles
// JSON marshaling and maps non-2xx responses to ServerError and network or
// decode failures to TransportError. Requests run to completion; there is no
// retry policy.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a new API client. The baseURL should be the root URL of
// the service (e.g., http://localhost:3000).
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// SubmitIssue sends a new issue report. The success body is ignored beyond
// the ok-check.
func (c *Client) SubmitIssue(ctx context.Context, req SubmitRequest) error {
	return c.do(ctx, http.MethodPost, "/api/issues", req, nil)
}

// PublicIssues fetches the current public report snapshot. An absent or
// empty issues array yields an empty, non-nil slice.
func (c *Client) PublicIssues(ctx context.Context) ([]model.Issue, error) {
	var resp issuesResponse
	if err := c.do(ctx, http.MethodGet, "/api/issues/public", nil, &resp); err != nil {
		return nil, err
	}
	if resp.Issues == nil {
		return []model.Issue{}, nil
	}
	return resp.Issues, nil
}

// do builds the request, executes it, and decodes the JSON response.
func (c *Client) do(
	ctx context.Context,
	method string,
	path string,
	body interface{},
	result interface{},
) error {
	url := c.baseURL + path

	var bodyReader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return &TransportError{Op: method + " " + path, Err: err}
		}
		bodyReader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, bodyReader)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &TransportError{Op: method + " " + path, Err: err}
	}

	respBody, readErr := io.ReadAll(resp.Body)
	resp.Body.Close()
	if readErr != nil {
		return &TransportError{Op: method + " " + path, Err: readErr}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		serverErr := &ServerError{StatusCode: resp.StatusCode}
		var apiErr errorResponse
		if json.Unmarshal(respBody, &apiErr) == nil {
			serverErr.Message = apiErr.Message
		}
		log.WithFields(log.Fields{
			"method": method,
			"path":   path,
			"status": resp.StatusCode,
		}).Warn("request rejected by server")
		return serverErr
	}

	if result == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}

	if err := json.Unmarshal(respBody, result); err != nil {
		return &TransportError{Op: method + " " + path, Err: err}
	}

	return nil
}
