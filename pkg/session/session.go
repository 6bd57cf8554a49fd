// Package session owns one interactive session: the camera lease, the
// periodic gesture poller and the capture-transfer records.
package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/teslashibe/air-magic/pkg/camera"
	"github.com/teslashibe/air-magic/pkg/gesture"
	"github.com/teslashibe/air-magic/pkg/raster"
	"github.com/teslashibe/air-magic/pkg/transfer"
)

// Status messages shown to the operator.
const (
	MessageReady       = "Ready for Magic Interaction"
	MessageMonitoring  = "System Monitoring Activated. Show a 'V' sign or hold fingers together."
	MessageCameraError = "Error: Could not access camera. Please check permissions."
	MessageDetected    = "Gesture Detected! Capturing screen..."
	MessageTransferred = "Image successfully transferred to Node Receiver."
)

// Defaults for Options.
const (
	DefaultSampleInterval  = 4 * time.Second
	DefaultPreviewInterval = 200 * time.Millisecond
	DefaultPreviewQuality  = 60
)

var (
	// ErrNoSource is returned by New without a camera source.
	ErrNoSource = errors.New("session: camera source required")

	// ErrCameraInactive is returned when capturing without a live stream.
	ErrCameraInactive = errors.New("session: camera not active")

	// ErrClosed is returned after Close.
	ErrClosed = errors.New("session: closed")
)

// Tone colours the status message.
type Tone string

const (
	ToneInfo    Tone = "info"
	ToneSuccess Tone = "success"
	ToneError   Tone = "error"
)

// toneFor derives the tone of a status message.
func toneFor(message string) Tone {
	switch {
	case strings.HasPrefix(message, "Error"):
		return ToneError
	case strings.Contains(message, "Detected"):
		return ToneSuccess
	default:
		return ToneInfo
	}
}

// Classifier decides whether a sampled frame shows the trigger gesture.
// Payload is base64 JPEG text without a data URL header.
type Classifier interface {
	Classify(ctx context.Context, payload string) (gesture.Verdict, error)
}

// Options configures a Session.
type Options struct {
	// Source acquires the camera stream. Required.
	Source camera.Source

	// Classifier answers sampled frames. Nil disables polling; manual
	// capture still works.
	Classifier Classifier

	SampleInterval  time.Duration
	TransferDelay   time.Duration
	PreviewInterval time.Duration
	PreviewQuality  int

	Logger *slog.Logger

	// Now and NewID override the record clock and identifiers.
	Now   func() time.Time
	NewID func() string
}

// State is a snapshot of the session.
type State struct {
	CameraActive bool   `json:"camera_active"`
	Processing   bool   `json:"processing"`
	PollArmed    bool   `json:"poll_armed"`
	Message      string `json:"message"`
	Tone         Tone   `json:"tone"`
	Records      int    `json:"records"`
	Ticks        uint64 `json:"ticks"`
	Skipped      uint64 `json:"skipped"`
}

// Session is safe for concurrent use.
type Session struct {
	opts    Options
	machine *transfer.Machine
	logger  *slog.Logger

	// ctx bounds classification calls; cancelled by Close.
	ctx    context.Context
	cancel context.CancelFunc

	startMu sync.Mutex

	mu         sync.Mutex
	stream     camera.Stream
	message    string
	pollCancel context.CancelFunc
	closed     bool

	inFlight atomic.Bool
	ticks    atomic.Uint64
	skipped  atomic.Uint64

	lmu       sync.RWMutex
	listeners []func(State)
	previews  []func([]byte)

	wg sync.WaitGroup
}

// New creates an idle session. The camera is not opened until StartCamera.
func New(opts Options) (*Session, error) {
	if opts.Source == nil {
		return nil, ErrNoSource
	}
	if opts.SampleInterval <= 0 {
		opts.SampleInterval = DefaultSampleInterval
	}
	if opts.TransferDelay <= 0 {
		opts.TransferDelay = transfer.DefaultDelay
	}
	if opts.PreviewInterval <= 0 {
		opts.PreviewInterval = DefaultPreviewInterval
	}
	if opts.PreviewQuality <= 0 || opts.PreviewQuality > 100 {
		opts.PreviewQuality = DefaultPreviewQuality
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	logger := opts.Logger.With("component", "session")

	mopts := []transfer.Option{
		transfer.WithDelay(opts.TransferDelay),
		transfer.WithLogger(opts.Logger),
	}
	if opts.Now != nil {
		mopts = append(mopts, transfer.WithClock(opts.Now))
	}
	if opts.NewID != nil {
		mopts = append(mopts, transfer.WithIDFunc(opts.NewID))
	}

	ctx, cancel := context.WithCancel(context.Background())
	s := &Session{
		opts:    opts,
		machine: transfer.NewMachine(mopts...),
		logger:  logger,
		ctx:     ctx,
		cancel:  cancel,
		message: MessageReady,
	}
	s.machine.OnChange(s.onTransfer)
	return s, nil
}

// StartCamera acquires the camera and arms the poller. It is a no-op while
// the camera is already active. On failure the session stays inactive, the
// status message reports the error and nothing is retried.
func (s *Session) StartCamera(ctx context.Context) error {
	s.startMu.Lock()
	defer s.startMu.Unlock()

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return ErrClosed
	}
	if s.stream != nil {
		s.mu.Unlock()
		return nil
	}
	s.mu.Unlock()

	stream, err := s.opts.Source.Open(ctx)
	if err != nil {
		s.logger.Warn("camera access failed", "error", err)
		s.setMessage(MessageCameraError)
		return fmt.Errorf("start camera: %w", err)
	}

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		stream.Stop()
		return ErrClosed
	}
	s.stream = stream
	s.message = MessageMonitoring

	pollCtx, cancel := context.WithCancel(s.ctx)
	s.pollCancel = cancel
	if s.opts.Classifier != nil {
		s.wg.Add(1)
		go s.poll(pollCtx)
	}
	s.wg.Add(1)
	go s.preview(pollCtx)
	s.mu.Unlock()

	w, h := stream.Size()
	s.logger.Info("camera started", "width", w, "height", h, "polling", s.opts.Classifier != nil)
	s.notify()
	return nil
}

// StopCamera disarms the poller and releases the stream. Pending transfers
// and an in-flight classification are left alone.
func (s *Session) StopCamera() error {
	s.mu.Lock()
	stream := s.detachLocked()
	if stream != nil && !s.closed {
		s.message = MessageReady
	}
	s.mu.Unlock()

	if stream == nil {
		return nil
	}
	err := stream.Stop()
	s.logger.Info("camera stopped")
	s.notify()
	return err
}

// detachLocked cancels the poll loop and hands back the stream to stop.
func (s *Session) detachLocked() camera.Stream {
	if s.pollCancel != nil {
		s.pollCancel()
		s.pollCancel = nil
	}
	stream := s.stream
	s.stream = nil
	return stream
}

// Capture records the current frame as a new transfer.
func (s *Session) Capture() (transfer.Record, error) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return transfer.Record{}, ErrClosed
	}
	stream := s.stream
	s.mu.Unlock()

	if stream == nil {
		return transfer.Record{}, ErrCameraInactive
	}

	frame, err := stream.Read()
	if err != nil {
		if errors.Is(err, camera.ErrStopped) {
			return transfer.Record{}, ErrCameraInactive
		}
		return transfer.Record{}, fmt.Errorf("capture: %w", err)
	}
	w, h := stream.Size()
	data, err := raster.EncodePNG(raster.Native(frame, w, h))
	if err != nil {
		return transfer.Record{}, fmt.Errorf("capture: %w", err)
	}

	r, err := s.machine.Begin(data)
	if errors.Is(err, transfer.ErrStopped) {
		return transfer.Record{}, ErrClosed
	}
	return r, err
}

// onTransfer updates the status message from machine events.
func (s *Session) onTransfer(e transfer.Event) {
	switch e.Kind {
	case transfer.EventCreated:
		s.setMessage(MessageDetected)
	case transfer.EventReceived:
		s.setMessage(MessageTransferred)
	}
}

func (s *Session) setMessage(msg string) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.message = msg
	s.mu.Unlock()
	s.notify()
}

// State returns a snapshot.
func (s *Session) State() State {
	s.mu.Lock()
	st := State{
		CameraActive: s.stream != nil,
		PollArmed:    s.pollCancel != nil && s.opts.Classifier != nil,
		Message:      s.message,
		Tone:         toneFor(s.message),
	}
	s.mu.Unlock()

	st.Processing = s.inFlight.Load()
	st.Records = s.machine.Len()
	st.Ticks = s.ticks.Load()
	st.Skipped = s.skipped.Load()
	return st
}

// PollArmed reports whether the periodic classifier loop is running.
func (s *Session) PollArmed() bool {
	return s.State().PollArmed
}

// Records returns every record, newest first.
func (s *Session) Records() []transfer.Record {
	return s.machine.Records()
}

// Record looks a record up by ID.
func (s *Session) Record(id string) (transfer.Record, bool) {
	return s.machine.Record(id)
}

// OnChange registers a listener called with a fresh snapshot after every
// change.
func (s *Session) OnChange(fn func(State)) {
	s.lmu.Lock()
	defer s.lmu.Unlock()
	s.listeners = append(s.listeners, fn)
}

// OnPreview registers a listener for JPEG preview frames.
func (s *Session) OnPreview(fn func([]byte)) {
	s.lmu.Lock()
	defer s.lmu.Unlock()
	s.previews = append(s.previews, fn)
}

func (s *Session) notify() {
	s.lmu.RLock()
	listeners := make([]func(State), len(s.listeners))
	copy(listeners, s.listeners)
	s.lmu.RUnlock()

	if len(listeners) == 0 {
		return
	}
	st := s.State()
	for _, fn := range listeners {
		fn(st)
	}
}

// Close tears the session down: the poller stops, pending transfers are
// cancelled, the stream is released and records are discarded. Results of
// a classification still in flight are ignored.
func (s *Session) Close() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	stream := s.detachLocked()
	s.mu.Unlock()

	s.cancel()
	cancelled := s.machine.Stop()

	var err error
	if stream != nil {
		err = stream.Stop()
	}
	s.wg.Wait()

	s.logger.Info("session closed", "cancelled_transfers", cancelled)
	return err
}

func (s *Session) isClosed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}
