package testutil

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/opencivic/civicwatch/internal/api"
	"github.com/opencivic/civicwatch/internal/model"
)

var upgrader = websocket.Upgrader{}

// Server is a fake issue-reporting backend for tests: the REST snapshot and
// submission endpoints plus the websocket push endpoint. It shuts down when
// the test completes.
type Server struct {
	t    *testing.T
	http *httptest.Server

	mu          sync.Mutex
	issues      []model.Issue
	submissions []api.SubmitRequest
	conns       []*websocket.Conn
}

// NewServer starts a fake backend.
func NewServer(t *testing.T) *Server {
	t.Helper()

	s := &Server{t: t}

	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/issues", s.handleSubmit)
	mux.HandleFunc("GET /api/issues/public", s.handlePublic)
	mux.HandleFunc("GET /events", s.handleEvents)

	s.http = httptest.NewServer(mux)
	t.Cleanup(s.close)
	return s
}

// BaseURL returns the REST base URL.
func (s *Server) BaseURL() string {
	return s.http.URL
}

// EventsURL returns the websocket push endpoint URL.
func (s *Server) EventsURL() string {
	return "ws" + strings.TrimPrefix(s.http.URL, "http") + "/events"
}

// SeedIssues sets the snapshot served by the public endpoint.
func (s *Server) SeedIssues(issues ...model.Issue) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.issues = issues
}

// Submissions returns the decoded bodies of accepted submissions.
func (s *Server) Submissions() []api.SubmitRequest {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]api.SubmitRequest(nil), s.submissions...)
}

// PushEvent sends a push frame to every connected client, waiting briefly
// for a connection when none is registered yet.
func (s *Server) PushEvent(kind string, ev model.StatusEvent) {
	s.t.Helper()

	deadline := time.Now().Add(3 * time.Second)
	for {
		s.mu.Lock()
		conns := append([]*websocket.Conn(nil), s.conns...)
		s.mu.Unlock()
		if len(conns) > 0 {
			frame := struct {
				Event string            `json:"event"`
				Data  model.StatusEvent `json:"data"`
			}{Event: kind, Data: ev}
			for _, c := range conns {
				if err := c.WriteJSON(frame); err != nil {
					s.t.Fatalf("pushing event: %v", err)
				}
			}
			return
		}
		if time.Now().After(deadline) {
			s.t.Fatal("no websocket client connected")
		}
		time.Sleep(10 * time.Millisecond)
	}
}

func (s *Server) handleSubmit(w http.ResponseWriter, r *http.Request) {
	var req api.SubmitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		w.WriteHeader(http.StatusBadRequest)
		_ = json.NewEncoder(w).Encode(map[string]string{"message": "invalid body"})
		return
	}

	s.mu.Lock()
	s.submissions = append(s.submissions, req)
	s.mu.Unlock()

	w.WriteHeader(http.StatusCreated)
	_ = json.NewEncoder(w).Encode(map[string]string{"id": uuid.NewString()})
}

func (s *Server) handlePublic(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	issues := append([]model.Issue(nil), s.issues...)
	s.mu.Unlock()

	_ = json.NewEncoder(w).Encode(map[string][]model.Issue{"issues": issues})
}

func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}

	s.mu.Lock()
	s.conns = append(s.conns, conn)
	s.mu.Unlock()

	// Hold the connection open; reads discard client frames until close.
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (s *Server) close() {
	s.mu.Lock()
	conns := s.conns
	s.conns = nil
	s.mu.Unlock()

	for _, c := range conns {
		_ = c.Close()
	}
	s.http.Close()
}
