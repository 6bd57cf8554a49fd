package inference

import (
	"context"
	"errors"
	"testing"
)

func TestChainFallback(t *testing.T) {
	failing := WithError(errors.New("provider 1 failed"))
	working := NewMock("TRIGGER")

	chain, err := NewChain(failing, working)
	if err != nil {
		t.Fatalf("Failed to create chain: %v", err)
	}
	defer chain.Close()

	resp, err := chain.Vision(context.Background(), &VisionRequest{Payload: "x"})
	if err != nil {
		t.Fatalf("Chain vision failed: %v", err)
	}
	if resp.Content != "TRIGGER" {
		t.Errorf("Unexpected response: %s", resp.Content)
	}
	if failing.CallCount("Vision") != 1 || working.CallCount("Vision") != 1 {
		t.Error("Expected both providers to be tried once")
	}
}

func TestChainStopsAtFirstSuccess(t *testing.T) {
	first := NewMock("IDLE")
	second := NewMock("TRIGGER")

	chain, _ := NewChain(first, second)
	resp, err := chain.Vision(context.Background(), &VisionRequest{Payload: "x"})
	if err != nil {
		t.Fatalf("Chain vision failed: %v", err)
	}
	if resp.Content != "IDLE" {
		t.Errorf("Expected first provider's answer, got %s", resp.Content)
	}
	if second.CallCount("Vision") != 0 {
		t.Error("Second provider should not be called")
	}
}

func TestChainAllFail(t *testing.T) {
	err1 := errors.New("provider 1 failed")
	err2 := errors.New("provider 2 failed")

	chain, _ := NewChain(WithError(err1), WithError(err2))
	defer chain.Close()

	_, err := chain.Vision(context.Background(), &VisionRequest{Payload: "x"})
	if err == nil {
		t.Fatal("Expected error when all providers fail")
	}

	var chainErr *ChainError
	if !errors.As(err, &chainErr) {
		t.Fatalf("Expected ChainError, got %T", err)
	}
	if len(chainErr.Errors) != 2 {
		t.Errorf("Expected 2 errors, got %d", len(chainErr.Errors))
	}
	if !errors.Is(err, err1) || !errors.Is(err, err2) {
		t.Error("Expected both provider errors to be reachable")
	}
}

func TestChainContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	first := &Mock{VisionFunc: func(ctx context.Context, req *VisionRequest) (*VisionResponse, error) {
		cancel()
		return nil, errors.New("cancelled mid-call")
	}}
	second := NewMock("TRIGGER")

	chain, _ := NewChain(first, second)
	_, err := chain.Vision(ctx, &VisionRequest{Payload: "x"})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Expected context.Canceled, got %v", err)
	}
	if second.CallCount("Vision") != 0 {
		t.Error("Expected chain to stop after cancellation")
	}
}

func TestChainEmpty(t *testing.T) {
	if _, err := NewChain(); !errors.Is(err, ErrProviderUnavailable) {
		t.Errorf("Expected ErrProviderUnavailable, got %v", err)
	}
}

func TestChainCloseAll(t *testing.T) {
	closeErr := errors.New("close failed")
	a := NewMock("x")
	b := NewMock("y")
	b.CloseFunc = func() error { return closeErr }

	chain, _ := NewChain(a, b)
	if err := chain.Close(); !errors.Is(err, closeErr) {
		t.Errorf("Expected close error, got %v", err)
	}
	if a.CallCount("Close") != 1 || b.CallCount("Close") != 1 {
		t.Error("Expected every provider to be closed")
	}
}
