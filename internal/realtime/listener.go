// Package realtime consumes server-to-client push events over a WebSocket
// and delivers them into the Bubble Tea runtime.
package realtime

import (
	"sync"

	"github.com/apex/log"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/gorilla/websocket"

	"github.com/opencivic/civicwatch/internal/model"
)

// EventMsg is a tea.Msg carrying a single decoded push event.
type EventMsg struct {
	Kind  string
	Event model.StatusEvent
}

// DisconnectedMsg is a tea.Msg sent when the read loop ends. Err is nil on
// a clean shutdown.
type DisconnectedMsg struct {
	Err error
}

// Handler processes a push event. Handlers run on the Bubble Tea goroutine
// in arrival order, never concurrently.
type Handler func(model.StatusEvent)

// Subscription identifies a registered handler and can cancel it.
type Subscription struct {
	listener *Listener
	kind     string
	id       int
}

// Cancel removes the subscription's handler. Safe to call more than once.
func (s *Subscription) Cancel() {
	if s.listener == nil {
		return
	}
	s.listener.unsubscribe(s.kind, s.id)
	s.listener = nil
}

// frame is the wire shape of a push message.
type frame struct {
	Event string            `json:"event"`
	Data  model.StatusEvent `json:"data"`
}

// Listener maintains the WebSocket connection and fans events out to
// subscribed handlers.
type Listener struct {
	url    string
	dialer *websocket.Dialer

	mu      sync.Mutex
	subs    map[string]map[int]Handler
	nextID  int
	conn    *websocket.Conn
	running bool

	eventCh chan tea.Msg
}

// NewListener creates a listener for the given WebSocket URL.
func NewListener(url string) *Listener {
	return &Listener{
		url:     url,
		dialer:  websocket.DefaultDialer,
		subs:    make(map[string]map[int]Handler),
		eventCh: make(chan tea.Msg, 16),
	}
}

// Subscribe registers a handler for an event kind and returns its
// subscription handle.
func (l *Listener) Subscribe(kind string, h Handler) *Subscription {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.nextID++
	if l.subs[kind] == nil {
		l.subs[kind] = make(map[int]Handler)
	}
	l.subs[kind][l.nextID] = h
	return &Subscription{listener: l, kind: kind, id: l.nextID}
}

func (l *Listener) unsubscribe(kind string, id int) {
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.subs[kind], id)
}

// Start dials the server and begins the read loop. The returned command
// waits for the first message from the connection; callers re-arm with
// WaitForEvent after each delivered message. There is no automatic
// reconnect.
func (l *Listener) Start() tea.Cmd {
	l.mu.Lock()
	if l.running {
		l.mu.Unlock()
		return nil
	}

	conn, _, err := l.dialer.Dial(l.url, nil)
	if err != nil {
		l.mu.Unlock()
		log.WithError(err).WithField("url", l.url).Warn("realtime connect failed")
		return func() tea.Msg { return DisconnectedMsg{Err: err} }
	}

	l.conn = conn
	l.running = true
	l.mu.Unlock()

	log.WithField("url", l.url).Info("realtime connected")
	go l.readLoop(conn)

	return l.waitForEvent()
}

// Stop closes the connection and ends the read loop.
func (l *Listener) Stop() {
	l.mu.Lock()
	defer l.mu.Unlock()

	if !l.running {
		return
	}
	l.running = false
	_ = l.conn.Close()
}

// Connected reports whether the read loop is active.
func (l *Listener) Connected() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.running
}

// readLoop decodes frames off the socket and queues them for the UI
// goroutine. A read error ends the loop.
func (l *Listener) readLoop(conn *websocket.Conn) {
	for {
		var f frame
		if err := conn.ReadJSON(&f); err != nil {
			l.mu.Lock()
			wasRunning := l.running
			l.running = false
			l.mu.Unlock()

			if wasRunning {
				log.WithError(err).Warn("realtime read failed")
				l.send(DisconnectedMsg{Err: err})
			} else {
				l.send(DisconnectedMsg{})
			}
			return
		}

		l.send(EventMsg{Kind: f.Event, Event: f.Data})
	}
}

// send queues a message without blocking the read loop.
func (l *Listener) send(msg tea.Msg) {
	select {
	case l.eventCh <- msg:
	default:
		// Drop if the channel is full to avoid blocking the reader.
	}
}

// waitForEvent returns a tea.Cmd that waits for the next queued message.
func (l *Listener) waitForEvent() tea.Cmd {
	return func() tea.Msg {
		msg, ok := <-l.eventCh
		if !ok {
			return nil
		}
		return msg
	}
}

// WaitForNextEvent re-arms the subscription after an EventMsg has been
// processed.
func (l *Listener) WaitForNextEvent() tea.Cmd {
	return l.waitForEvent()
}

// Dispatch invokes the handlers subscribed to the message's kind. It is
// called from the UI goroutine, so handlers observe arrival order and never
// overlap. Kinds with no subscribers are ignored.
func (l *Listener) Dispatch(msg EventMsg) {
	l.mu.Lock()
	handlers := make([]Handler, 0, len(l.subs[msg.Kind]))
	for _, h := range l.subs[msg.Kind] {
		handlers = append(handlers, h)
	}
	l.mu.Unlock()

	for _, h := range handlers {
		h(msg.Event)
	}
}
