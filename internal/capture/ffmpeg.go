package capture

import (
	"context"
	"io"
	"os/exec"
	"sync"

	"github.com/apex/log"

	"github.com/opencivic/civicwatch/internal/device"
)

// ffmpegEncoders maps a negotiable MIME type to ffmpeg output arguments.
var ffmpegEncoders = map[string][]string{
	"audio/webm;codecs=opus": {"-c:a", "libopus", "-f", "webm"},
	"audio/webm":             {"-c:a", "libopus", "-f", "webm"},
	"audio/mp4":              {"-c:a", "aac", "-f", "mp4", "-movflags", "frag_keyframe+empty_moov"},
	"audio/wav":              {"-c:a", "pcm_s16le", "-f", "wav"},
}

// FFmpegDevice records microphone audio by running ffmpeg and streaming its
// stdout. It satisfies Device.
type FFmpegDevice struct {
	// InputFormat is the ffmpeg input device flag, e.g. "alsa" or
	// "pulse" on Linux, "avfoundation" on macOS.
	InputFormat string

	// Source is the input identifier passed to -i, e.g. "default".
	Source string
}

// NewFFmpegDevice returns a device reading from the default system
// microphone via ALSA.
func NewFFmpegDevice() *FFmpegDevice {
	return &FFmpegDevice{InputFormat: "alsa", Source: "default"}
}

// Supports reports whether ffmpeg is available and knows the given format.
func (d *FFmpegDevice) Supports(mimeType string) bool {
	if _, err := exec.LookPath("ffmpeg"); err != nil {
		return false
	}
	_, ok := ffmpegEncoders[mimeType]
	return ok
}

// Open starts an ffmpeg capture process writing the encoded stream to
// stdout. The returned stream's chunk channel closes once the process
// stdout reaches EOF.
func (d *FFmpegDevice) Open(ctx context.Context, mimeType string) (Stream, error) {
	enc, ok := ffmpegEncoders[mimeType]
	if !ok {
		return nil, &device.Error{
			Op:      "capture",
			Message: "unsupported recording format " + mimeType,
		}
	}

	args := []string{
		"-hide_banner", "-loglevel", "error",
		"-f", d.InputFormat, "-i", d.Source,
	}
	args = append(args, enc...)
	args = append(args, "pipe:1")

	cmd := exec.CommandContext(ctx, "ffmpeg", args...)
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, &device.Error{Op: "capture", Message: err.Error()}
	}

	if err := cmd.Start(); err != nil {
		log.WithError(err).Error("starting ffmpeg failed")
		return nil, &device.Error{Op: "capture", Message: err.Error()}
	}

	s := &ffmpegStream{
		cmd:    cmd,
		stdout: stdout,
		ch:     make(chan []byte, 8),
	}
	go s.read()
	return s, nil
}

type ffmpegStream struct {
	cmd    *exec.Cmd
	stdout io.ReadCloser
	ch     chan []byte

	closeOnce sync.Once
}

func (s *ffmpegStream) Chunks() <-chan []byte {
	return s.ch
}

// read pumps encoded audio off the process until EOF, then closes the
// chunk channel.
func (s *ffmpegStream) read() {
	defer close(s.ch)
	buf := make([]byte, 32*1024)
	for {
		n, err := s.stdout.Read(buf)
		if n > 0 {
			chunk := make([]byte, n)
			copy(chunk, buf[:n])
			s.ch <- chunk
		}
		if err != nil {
			return
		}
	}
}

// Close interrupts ffmpeg so it flushes and exits; the reader goroutine
// observes EOF and closes the chunk channel.
func (s *ffmpegStream) Close() error {
	var err error
	s.closeOnce.Do(func() {
		err = s.cmd.Process.Kill()
		_ = s.cmd.Wait()
	})
	return err
}
