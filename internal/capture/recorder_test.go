package capture

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/opencivic/civicwatch/internal/device"
)

// fakeStream feeds canned chunks and records its close.
type fakeStream struct {
	ch     chan []byte
	closed bool
}

func (f *fakeStream) Chunks() <-chan []byte { return f.ch }

func (f *fakeStream) Close() error {
	if !f.closed {
		f.closed = true
		close(f.ch)
	}
	return nil
}

// fakeDevice implements Device with a configurable support set.
type fakeDevice struct {
	supported map[string]bool
	openErr   error
	stream    *fakeStream
}

func (f *fakeDevice) Supports(mimeType string) bool { return f.supported[mimeType] }

func (f *fakeDevice) Open(_ context.Context, _ string) (Stream, error) {
	if f.openErr != nil {
		return nil, f.openErr
	}
	f.stream = &fakeStream{ch: make(chan []byte, 8)}
	return f.stream, nil
}

func TestNegotiateMimeType_PrefersOpus(t *testing.T) {
	d := &fakeDevice{supported: map[string]bool{
		"audio/webm;codecs=opus": true,
		"audio/webm":             true,
	}}
	assert.Equal(t, "audio/webm;codecs=opus", NegotiateMimeType(d))
}

func TestNegotiateMimeType_WalksTheChain(t *testing.T) {
	d := &fakeDevice{supported: map[string]bool{"audio/mp4": true}}
	assert.Equal(t, "audio/mp4", NegotiateMimeType(d))
}

func TestNegotiateMimeType_FallsBackToWav(t *testing.T) {
	d := &fakeDevice{supported: map[string]bool{}}
	assert.Equal(t, "audio/wav", NegotiateMimeType(d))
}

func TestRecorder_SingleActiveSession(t *testing.T) {
	d := &fakeDevice{supported: map[string]bool{"audio/webm": true}}
	r := NewRecorder(d)

	require.NoError(t, r.Start(context.Background()))
	assert.True(t, r.Active())

	err := r.Start(context.Background())
	assert.ErrorIs(t, err, ErrSessionActive)

	_, err = r.Stop()
	require.NoError(t, err)
	assert.False(t, r.Active())
}

func TestRecorder_StopAssemblesChunksAndReleasesDevice(t *testing.T) {
	d := &fakeDevice{supported: map[string]bool{"audio/webm": true}}
	r := NewRecorder(d)

	require.NoError(t, r.Start(context.Background()))
	d.stream.ch <- []byte("abc")
	d.stream.ch <- nil // empty chunks are skipped
	d.stream.ch <- []byte("def")

	clip, err := r.Stop()
	require.NoError(t, err)
	assert.Equal(t, "audio/webm", clip.MimeType)
	assert.Equal(t, []byte("abcdef"), clip.Data)
	assert.True(t, d.stream.closed, "device stream must be released on stop")
}

func TestRecorder_StopWithoutSession(t *testing.T) {
	r := NewRecorder(&fakeDevice{})
	_, err := r.Stop()
	assert.ErrorIs(t, err, ErrNoSession)
}

func TestRecorder_OpenFailureIsDeviceError(t *testing.T) {
	d := &fakeDevice{
		supported: map[string]bool{"audio/wav": true},
		openErr:   &device.Error{Op: "capture", Message: "permission denied"},
	}
	r := NewRecorder(d)

	err := r.Start(context.Background())
	require.Error(t, err)
	assert.True(t, device.IsError(err))
	assert.False(t, r.Active(), "failed start must not leave a session behind")
}

func TestRecorder_AbortReleasesDevice(t *testing.T) {
	d := &fakeDevice{supported: map[string]bool{"audio/webm": true}}
	r := NewRecorder(d)

	require.NoError(t, r.Start(context.Background()))
	r.Abort()
	assert.False(t, r.Active())
	assert.True(t, d.stream.closed)
}
