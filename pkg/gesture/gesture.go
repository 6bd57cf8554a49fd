// Package gesture turns a sampled camera frame into a trigger verdict by
// asking a vision provider whether the frame shows the capture gesture.
package gesture

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/teslashibe/air-magic/pkg/inference"
)

// Prompt is the fixed instruction sent alongside every sampled frame.
const Prompt = "Analyze this image for a hand gesture. If you see a 'V' sign " +
	"(index and middle fingers up) or index and middle fingers touching in a " +
	"'pinching' or 'pointing' trigger configuration, respond with 'TRIGGER'. " +
	"Otherwise respond with 'IDLE'."

// Verdict is the outcome of classifying one frame.
type Verdict int

const (
	Idle Verdict = iota
	Trigger
)

// String returns the upper-case token the provider is asked to answer with.
func (v Verdict) String() string {
	if v == Trigger {
		return "TRIGGER"
	}
	return "IDLE"
}

// ParseVerdict maps free-form provider text to a verdict. Any text containing
// "trigger" in any case is a Trigger; everything else, including empty text,
// is Idle.
func ParseVerdict(text string) Verdict {
	if strings.Contains(strings.ToUpper(text), "TRIGGER") {
		return Trigger
	}
	return Idle
}

// Classifier asks a vision provider about sampled frames.
type Classifier struct {
	provider inference.Provider
	model    string
	logger   *slog.Logger
}

// Option configures a Classifier.
type Option func(*Classifier)

// WithModel overrides the provider's default vision model.
func WithModel(model string) Option {
	return func(c *Classifier) { c.model = model }
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(c *Classifier) { c.logger = l }
}

// NewClassifier wraps a provider.
func NewClassifier(p inference.Provider, opts ...Option) *Classifier {
	c := &Classifier{
		provider: p,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.logger = c.logger.With("component", "gesture")
	return c
}

// Classify sends a base64 JPEG payload (no data URL header) with Prompt and
// parses the answer. An empty answer counts as Idle.
func (c *Classifier) Classify(ctx context.Context, payload string) (Verdict, error) {
	resp, err := c.provider.Vision(ctx, &inference.VisionRequest{
		Payload:  payload,
		MIMEType: "image/jpeg",
		Prompt:   Prompt,
		Model:    c.model,
	})
	if errors.Is(err, inference.ErrNoContent) {
		c.logger.Debug("empty answer treated as idle", "error", err)
		return Idle, nil
	}
	if err != nil {
		return Idle, fmt.Errorf("classify frame: %w", err)
	}

	v := ParseVerdict(resp.Content)
	c.logger.Debug("frame classified",
		"provider", resp.Provider,
		"answer", resp.Content,
		"verdict", v.String(),
		"latency_ms", resp.LatencyMs,
	)
	return v, nil
}
