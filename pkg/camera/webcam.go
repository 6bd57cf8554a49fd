package camera

import (
	"context"
	"fmt"
	"image"
	"sync"

	"gocv.io/x/gocv"
)

// Webcam opens local capture devices through OpenCV.
type Webcam struct {
	manager *Manager
}

// NewWebcam creates a webcam source. The manager's config is read each time
// the camera is opened.
func NewWebcam(m *Manager) *Webcam {
	return &Webcam{manager: m}
}

// Open opens the configured device and checks it produces a frame.
func (w *Webcam) Open(ctx context.Context) (Stream, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	cfg := w.manager.GetConfig()

	vc, err := gocv.VideoCaptureDevice(cfg.Device)
	if err != nil {
		return nil, fmt.Errorf("%w: device %d: %v", ErrUnavailable, cfg.Device, err)
	}
	if !vc.IsOpened() {
		vc.Close()
		return nil, fmt.Errorf("%w: device %d did not open", ErrUnavailable, cfg.Device)
	}

	vc.Set(gocv.VideoCaptureFrameWidth, float64(cfg.Width))
	vc.Set(gocv.VideoCaptureFrameHeight, float64(cfg.Height))
	vc.Set(gocv.VideoCaptureFPS, float64(cfg.Framerate))

	s := &webcamStream{
		vc:  vc,
		mat: gocv.NewMat(),
	}
	s.track = &webcamTrack{stream: s}

	// A device that opens but never delivers frames is as good as missing
	if _, err := s.Read(); err != nil {
		s.Stop()
		return nil, fmt.Errorf("%w: device %d: %v", ErrUnavailable, cfg.Device, err)
	}

	return s, nil
}

// webcamStream guards the non-thread-safe VideoCapture with a mutex.
type webcamStream struct {
	mu    sync.Mutex
	vc    *gocv.VideoCapture
	mat   gocv.Mat
	track *webcamTrack
	lease lease

	width, height int
}

func (s *webcamStream) Read() (image.Image, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.vc == nil {
		return nil, ErrStopped
	}
	if ok := s.vc.Read(&s.mat); !ok || s.mat.Empty() {
		return nil, ErrNoFrame
	}
	s.width, s.height = s.mat.Cols(), s.mat.Rows()

	img, err := s.mat.ToImage()
	if err != nil {
		return nil, fmt.Errorf("convert frame: %w", err)
	}
	return img, nil
}

func (s *webcamStream) Size() (int, int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.width, s.height
}

func (s *webcamStream) Tracks() []Track {
	return []Track{s.track}
}

func (s *webcamStream) Stop() error {
	return s.lease.release(s.Tracks())
}

func (s *webcamStream) Active() bool {
	return s.lease.active()
}

type webcamTrack struct {
	stream *webcamStream
}

func (t *webcamTrack) Kind() string { return "video" }

func (t *webcamTrack) Stop() error {
	s := t.stream
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.vc == nil {
		return nil
	}
	err := s.vc.Close()
	s.mat.Close()
	s.vc = nil
	return err
}
