package camera

import (
	"context"
	"image"
	"image/color"
	"sync"
	"sync/atomic"
)

// Static is a Source that serves a fixed image. It backs the demo mode and
// tests.
type Static struct {
	mu      sync.Mutex
	img     image.Image
	openErr error
	readErr error
	opened  []*StaticStream
}

// NewStatic creates a source serving img. A nil img yields a gradient test
// pattern of the default config size.
func NewStatic(img image.Image) *Static {
	if img == nil {
		cfg := DefaultConfig()
		img = TestPattern(cfg.Width, cfg.Height)
	}
	return &Static{img: img}
}

// FailOpen makes subsequent Open calls fail with err.
func (s *Static) FailOpen(err error) {
	s.mu.Lock()
	s.openErr = err
	s.mu.Unlock()
}

// FailRead makes reads on streams opened afterwards fail with err.
func (s *Static) FailRead(err error) {
	s.mu.Lock()
	s.readErr = err
	s.mu.Unlock()
}

// Open returns a new stream over the fixed image.
func (s *Static) Open(ctx context.Context) (Stream, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.openErr != nil {
		return nil, s.openErr
	}
	st := &StaticStream{img: s.img, readErr: s.readErr}
	st.track = &StaticTrack{}
	s.opened = append(s.opened, st)
	return st, nil
}

// Opened returns every stream handed out so far.
func (s *Static) Opened() []*StaticStream {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*StaticStream, len(s.opened))
	copy(out, s.opened)
	return out
}

// StaticStream is the Stream returned by Static.
type StaticStream struct {
	img     image.Image
	readErr error
	track   *StaticTrack
	lease   lease
	reads   atomic.Int64
}

func (s *StaticStream) Read() (image.Image, error) {
	if !s.lease.active() {
		return nil, ErrStopped
	}
	s.reads.Add(1)
	if s.readErr != nil {
		return nil, s.readErr
	}
	return s.img, nil
}

func (s *StaticStream) Size() (int, int) {
	b := s.img.Bounds()
	return b.Dx(), b.Dy()
}

func (s *StaticStream) Tracks() []Track { return []Track{s.track} }

func (s *StaticStream) Stop() error { return s.lease.release(s.Tracks()) }

func (s *StaticStream) Active() bool { return s.lease.active() }

// Reads returns how many frames were read.
func (s *StaticStream) Reads() int64 { return s.reads.Load() }

// Track returns the single video track.
func (s *StaticStream) Track() *StaticTrack { return s.track }

// StaticTrack counts how often it was stopped.
type StaticTrack struct {
	stops atomic.Int32
}

func (t *StaticTrack) Kind() string { return "video" }

func (t *StaticTrack) Stop() error {
	t.stops.Add(1)
	return nil
}

// Stops returns how many times Stop was called on the track.
func (t *StaticTrack) Stops() int { return int(t.stops.Load()) }

// TestPattern draws a diagonal gradient, enough to tell frames apart from
// blank ones in the dashboard.
func TestPattern(w, h int) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{
				R: uint8(x * 255 / max(w, 1)),
				G: uint8(y * 255 / max(h, 1)),
				B: 160,
				A: 255,
			})
		}
	}
	return img
}
