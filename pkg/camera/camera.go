package camera

import (
	"context"
	"errors"
	"image"
	"sync"
)

// Sentinel errors for acquisition and reads.
var (
	// ErrUnavailable is returned when no capture device could be opened.
	ErrUnavailable = errors.New("camera: device unavailable")

	// ErrPermissionDenied is returned when the platform refuses access.
	ErrPermissionDenied = errors.New("camera: permission denied")

	// ErrStopped is returned when reading from a released stream.
	ErrStopped = errors.New("camera: stream stopped")

	// ErrNoFrame is returned when the device produced an empty frame.
	ErrNoFrame = errors.New("camera: no frame available")
)

// Source acquires video streams.
type Source interface {
	// Open requests a video-only stream. The caller owns the returned
	// stream and must Stop it.
	Open(ctx context.Context) (Stream, error)
}

// Stream is an exclusive lease on a capture device.
type Stream interface {
	// Read returns the current frame at native resolution.
	Read() (image.Image, error)

	// Size returns the native frame size, or zeros if unknown.
	Size() (width, height int)

	// Tracks returns the media tracks held by this stream.
	Tracks() []Track

	// Stop releases all tracks. Only the first call has an effect.
	Stop() error

	// Active reports whether the stream has not been stopped.
	Active() bool
}

// Track is one media track of a stream.
type Track interface {
	Kind() string
	Stop() error
}

// lease stops a set of tracks exactly once.
type lease struct {
	once    sync.Once
	mu      sync.RWMutex
	stopped bool
	err     error
}

func (l *lease) release(tracks []Track) error {
	l.once.Do(func() {
		l.mu.Lock()
		l.stopped = true
		l.mu.Unlock()

		var errs []error
		for _, t := range tracks {
			if err := t.Stop(); err != nil {
				errs = append(errs, err)
			}
		}
		l.err = errors.Join(errs...)
	})
	return l.err
}

func (l *lease) active() bool {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return !l.stopped
}
