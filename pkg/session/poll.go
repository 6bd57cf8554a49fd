package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/teslashibe/air-magic/pkg/gesture"
	"github.com/teslashibe/air-magic/pkg/raster"
)

// Outcome describes what a single tick did.
type Outcome int

const (
	// OutcomeSkipped means a classification was already in flight.
	OutcomeSkipped Outcome = iota
	// OutcomeInactive means there was no camera stream to sample.
	OutcomeInactive
	OutcomeIdle
	OutcomeTriggered
	// OutcomeFailed means sampling or classification failed; the tick
	// changed nothing.
	OutcomeFailed
	// OutcomeDiscarded means a trigger arrived after the camera was stopped
	// or the session closed.
	OutcomeDiscarded
)

func (o Outcome) String() string {
	switch o {
	case OutcomeSkipped:
		return "skipped"
	case OutcomeInactive:
		return "inactive"
	case OutcomeIdle:
		return "idle"
	case OutcomeTriggered:
		return "triggered"
	case OutcomeFailed:
		return "failed"
	case OutcomeDiscarded:
		return "discarded"
	default:
		return "unknown"
	}
}

// Tick samples the current frame, classifies it and captures on a trigger.
// At most one tick is in flight; overlapping ticks are skipped, not queued.
func (s *Session) Tick(ctx context.Context) (Outcome, error) {
	s.ticks.Add(1)
	if !s.inFlight.CompareAndSwap(false, true) {
		s.skipped.Add(1)
		return OutcomeSkipped, nil
	}
	defer func() {
		s.inFlight.Store(false)
		s.notify()
	}()

	s.mu.Lock()
	stream := s.stream
	s.mu.Unlock()
	if stream == nil || s.opts.Classifier == nil {
		return OutcomeInactive, nil
	}
	s.notify()

	frame, err := stream.Read()
	if err != nil {
		return OutcomeFailed, fmt.Errorf("sample frame: %w", err)
	}
	payload, err := raster.SamplePayload(frame)
	if err != nil {
		return OutcomeFailed, fmt.Errorf("sample frame: %w", err)
	}

	verdict, err := s.opts.Classifier.Classify(ctx, payload)
	if err != nil {
		return OutcomeFailed, err
	}
	if verdict != gesture.Trigger {
		return OutcomeIdle, nil
	}

	if s.isClosed() {
		return OutcomeDiscarded, nil
	}
	r, err := s.Capture()
	switch {
	case errors.Is(err, ErrCameraInactive), errors.Is(err, ErrClosed):
		return OutcomeDiscarded, nil
	case err != nil:
		return OutcomeFailed, err
	}
	s.logger.Info("gesture triggered capture", "id", r.ID)
	return OutcomeTriggered, nil
}

// poll runs one tick per interval until ctx is cancelled. Each tick runs on
// its own goroutine so a slow classifier shows up as skipped ticks.
func (s *Session) poll(ctx context.Context) {
	defer s.wg.Done()

	ticker := time.NewTicker(s.opts.SampleInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.wg.Add(1)
			go s.runTick()
		}
	}
}

func (s *Session) runTick() {
	defer s.wg.Done()
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("tick panicked", "panic", r)
		}
	}()

	outcome, err := s.Tick(s.ctx)
	switch {
	case err != nil:
		s.logger.Warn("tick failed", "outcome", outcome.String(), "error", err)
	case outcome == OutcomeSkipped:
		s.logger.Debug("tick skipped, classification in flight")
	default:
		s.logger.Debug("tick", "outcome", outcome.String())
	}
}

// preview publishes JPEG frames to preview listeners while the camera is on.
func (s *Session) preview(ctx context.Context) {
	defer s.wg.Done()

	ticker := time.NewTicker(s.opts.PreviewInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.publishPreview()
		}
	}
}

func (s *Session) publishPreview() {
	s.lmu.RLock()
	previews := make([]func([]byte), len(s.previews))
	copy(previews, s.previews)
	s.lmu.RUnlock()
	if len(previews) == 0 {
		return
	}

	s.mu.Lock()
	stream := s.stream
	s.mu.Unlock()
	if stream == nil {
		return
	}

	frame, err := stream.Read()
	if err != nil {
		s.logger.Debug("preview read failed", "error", err)
		return
	}
	w, h := stream.Size()
	data, err := raster.EncodeJPEG(raster.Native(frame, w, h), s.opts.PreviewQuality)
	if err != nil {
		s.logger.Debug("preview encode failed", "error", err)
		return
	}
	for _, fn := range previews {
		fn(data)
	}
}
