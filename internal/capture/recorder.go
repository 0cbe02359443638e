// Package capture manages audio recording sessions against a pluggable
// capture device. Only one session may be active at a time, and the device
// stream is released deterministically on stop or error.
package capture

import (
	"context"
	"errors"
	"sync"

	"github.com/apex/log"

	"github.com/opencivic/civicwatch/internal/device"
)

// preferredMimeTypes is the negotiation order. The last entry is the
// uncapped fallback used when nothing earlier is supported.
var preferredMimeTypes = []string{
	"audio/webm;codecs=opus",
	"audio/webm",
	"audio/mp4",
	"audio/wav",
}

// ErrSessionActive is returned by Start while a recording is in progress.
var ErrSessionActive = errors.New("a recording session is already active")

// ErrNoSession is returned by Stop when nothing is recording.
var ErrNoSession = errors.New("no active recording session")

// Device is an audio capture source.
type Device interface {
	// Supports reports whether the device can record the given MIME type.
	Supports(mimeType string) bool

	// Open starts capturing in the given format. The returned stream's
	// chunk channel is closed when the stream is closed.
	Open(ctx context.Context, mimeType string) (Stream, error)
}

// Stream is an open capture stream.
type Stream interface {
	// Chunks delivers recorded data as it becomes available.
	Chunks() <-chan []byte

	// Close stops capturing and releases the device.
	Close() error
}

// Clip is a finished recording.
type Clip struct {
	MimeType string
	Data     []byte
}

// Session is a single in-progress recording. It is owned by the Recorder
// and never aliased.
type Session struct {
	MimeType string

	stream Stream

	mu     sync.Mutex
	chunks [][]byte
	done   chan struct{}
}

func (s *Session) accumulate() {
	for chunk := range s.stream.Chunks() {
		if len(chunk) == 0 {
			continue
		}
		s.mu.Lock()
		s.chunks = append(s.chunks, chunk)
		s.mu.Unlock()
	}
	close(s.done)
}

func (s *Session) clip() Clip {
	s.mu.Lock()
	defer s.mu.Unlock()

	var size int
	for _, c := range s.chunks {
		size += len(c)
	}
	data := make([]byte, 0, size)
	for _, c := range s.chunks {
		data = append(data, c...)
	}
	return Clip{MimeType: s.MimeType, Data: data}
}

// NegotiateMimeType returns the first format in the preference chain the
// device supports, falling back to the final entry unconditionally.
func NegotiateMimeType(d Device) string {
	for _, mt := range preferredMimeTypes[:len(preferredMimeTypes)-1] {
		if d.Supports(mt) {
			return mt
		}
	}
	return preferredMimeTypes[len(preferredMimeTypes)-1]
}

// Recorder coordinates recording sessions on a device.
type Recorder struct {
	device Device

	mu      sync.Mutex
	session *Session
}

// NewRecorder creates a recorder for the given device.
func NewRecorder(d Device) *Recorder {
	return &Recorder{device: d}
}

// Active reports whether a session is in progress.
func (r *Recorder) Active() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.session != nil
}

// Start negotiates a format and opens a capture session. Starting while a
// session is active fails with ErrSessionActive.
func (r *Recorder) Start(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.session != nil {
		return ErrSessionActive
	}

	mimeType := NegotiateMimeType(r.device)
	stream, err := r.device.Open(ctx, mimeType)
	if err != nil {
		log.WithError(err).Warn("capture device open failed")
		if device.IsError(err) {
			return err
		}
		return &device.Error{Op: "capture", Message: err.Error()}
	}

	s := &Session{
		MimeType: mimeType,
		stream:   stream,
		done:     make(chan struct{}),
	}
	go s.accumulate()

	r.session = s
	log.WithField("mime_type", mimeType).Info("recording started")
	return nil
}

// Stop ends the active session, releases the device, and returns the
// assembled clip.
func (r *Recorder) Stop() (Clip, error) {
	r.mu.Lock()
	s := r.session
	r.session = nil
	r.mu.Unlock()

	if s == nil {
		return Clip{}, ErrNoSession
	}

	if err := s.stream.Close(); err != nil {
		log.WithError(err).Warn("capture stream close failed")
	}
	<-s.done

	clip := s.clip()
	log.WithFields(log.Fields{
		"mime_type": clip.MimeType,
		"bytes":     len(clip.Data),
	}).Info("recording stopped")
	return clip, nil
}

// Abort tears down the active session without keeping the clip. Used when a
// device error forces the recording UI back to its initial state.
func (r *Recorder) Abort() {
	r.mu.Lock()
	s := r.session
	r.session = nil
	r.mu.Unlock()

	if s == nil {
		return
	}
	_ = s.stream.Close()
	<-s.done
}
