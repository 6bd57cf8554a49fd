package transfer

import (
	"errors"
	"sync/atomic"
	"testing"
	"time"
)

func TestSchedulerRuns(t *testing.T) {
	s := NewScheduler()
	done := make(chan struct{})

	if _, err := s.After(5*time.Millisecond, func() { close(done) }); err != nil {
		t.Fatalf("After failed: %v", err)
	}

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Task did not run")
	}
	if s.Pending() != 0 {
		t.Errorf("Expected 0 pending, got %d", s.Pending())
	}
}

func TestSchedulerCancel(t *testing.T) {
	s := NewScheduler()
	var ran atomic.Bool

	cancel, _ := s.After(20*time.Millisecond, func() { ran.Store(true) })
	if !cancel() {
		t.Error("Expected cancel to prevent the task")
	}
	if cancel() {
		t.Error("Second cancel should report false")
	}

	time.Sleep(50 * time.Millisecond)
	if ran.Load() {
		t.Error("Cancelled task ran")
	}
}

func TestSchedulerStop(t *testing.T) {
	s := NewScheduler()
	var ran atomic.Int32

	for i := 0; i < 3; i++ {
		s.After(20*time.Millisecond, func() { ran.Add(1) })
	}
	if s.Pending() != 3 {
		t.Fatalf("Expected 3 pending, got %d", s.Pending())
	}

	if n := s.Stop(); n != 3 {
		t.Errorf("Expected 3 cancelled, got %d", n)
	}
	if !s.Stopped() {
		t.Error("Expected Stopped")
	}
	if _, err := s.After(time.Millisecond, func() {}); !errors.Is(err, ErrStopped) {
		t.Errorf("Expected ErrStopped, got %v", err)
	}

	time.Sleep(50 * time.Millisecond)
	if ran.Load() != 0 {
		t.Errorf("Expected no task to run after Stop, %d ran", ran.Load())
	}
}
