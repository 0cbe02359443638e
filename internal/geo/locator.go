// Package geo provides single-shot position lookups with a short-lived
// cache, mirroring a one-off geolocation query.
package geo

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/apex/log"

	"github.com/opencivic/civicwatch/internal/device"
)

// Position is a captured geographic position.
type Position struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`

	// At is when the position was obtained.
	At time.Time `json:"-"`
}

// Display returns the position formatted as a location line for the draft
// address field.
func (p Position) Display() string {
	return fmt.Sprintf("Lat %.5f, Lng %.5f", p.Latitude, p.Longitude)
}

// Locator obtains the current position. Implementations must honor the
// context for cancellation.
type Locator interface {
	Current(ctx context.Context) (Position, error)
}

// Options controls a position query.
type Options struct {
	// HighAccuracy requests the most precise position available.
	HighAccuracy bool

	// Timeout bounds a single query.
	Timeout time.Duration

	// MaxAge is how long a previously captured position may be served
	// from cache without a fresh query.
	MaxAge time.Duration
}

// DefaultOptions matches the capture settings used when filing a report.
func DefaultOptions() Options {
	return Options{
		HighAccuracy: true,
		Timeout:      10 * time.Second,
		MaxAge:       60 * time.Second,
	}
}

// HTTPLocator queries an HTTP geolocation provider. A position younger than
// MaxAge is returned from cache without touching the network.
type HTTPLocator struct {
	url        string
	opts       Options
	httpClient *http.Client

	mu     sync.Mutex
	cached *Position

	// now is replaceable in tests.
	now func() time.Time
}

// NewHTTPLocator creates a locator against the given provider URL.
func NewHTTPLocator(url string, opts Options) *HTTPLocator {
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultOptions().Timeout
	}
	return &HTTPLocator{
		url:        url,
		opts:       opts,
		httpClient: &http.Client{Timeout: opts.Timeout},
		now:        time.Now,
	}
}

// Current returns the device position, consulting the cache first.
func (l *HTTPLocator) Current(ctx context.Context) (Position, error) {
	l.mu.Lock()
	if l.cached != nil && l.now().Sub(l.cached.At) <= l.opts.MaxAge {
		pos := *l.cached
		l.mu.Unlock()
		return pos, nil
	}
	l.mu.Unlock()

	pos, err := l.query(ctx)
	if err != nil {
		return Position{}, err
	}

	l.mu.Lock()
	l.cached = &pos
	l.mu.Unlock()
	return pos, nil
}

func (l *HTTPLocator) query(ctx context.Context) (Position, error) {
	if l.url == "" {
		return Position{}, &device.Error{
			Op:      "geolocation",
			Message: "no geolocation provider configured",
		}
	}

	ctx, cancel := context.WithTimeout(ctx, l.opts.Timeout)
	defer cancel()

	url := l.url
	if l.opts.HighAccuracy {
		url += "?accuracy=high"
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return Position{}, &device.Error{Op: "geolocation", Message: err.Error()}
	}

	resp, err := l.httpClient.Do(req)
	if err != nil {
		log.WithError(err).Warn("geolocation query failed")
		return Position{}, &device.Error{Op: "geolocation", Message: err.Error()}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return Position{}, &device.Error{
			Op:      "geolocation",
			Message: fmt.Sprintf("provider returned status %d", resp.StatusCode),
		}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return Position{}, &device.Error{Op: "geolocation", Message: err.Error()}
	}

	var pos Position
	if err := json.Unmarshal(body, &pos); err != nil {
		return Position{}, &device.Error{Op: "geolocation", Message: err.Error()}
	}

	pos.At = l.now()
	return pos, nil
}
