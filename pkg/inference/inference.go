// Package inference provides vision providers for classifying camera frames.
//
// A Provider takes an already-encoded image payload plus a text prompt and
// returns the model's free-text answer. Implementations exist for the Gemini
// REST API and Vertex AI; Chain falls back across several of them.
//
// Example usage:
//
//	p, _ := inference.NewGemini(
//	    inference.WithAPIKey(os.Getenv("GEMINI_API_KEY")),
//	)
//	defer p.Close()
//
//	resp, _ := p.Vision(ctx, &inference.VisionRequest{
//	    Payload:  b64JPEG,
//	    MIMEType: "image/jpeg",
//	    Prompt:   "Is anyone waving?",
//	})
package inference

import "context"

// Provider is the vision inference interface.
type Provider interface {
	// Vision analyzes an image with a text prompt.
	Vision(ctx context.Context, req *VisionRequest) (*VisionResponse, error)

	// Name identifies the provider in logs and errors.
	Name() string

	// Close releases any resources held by the provider.
	Close() error
}

// VisionRequest for image analysis.
type VisionRequest struct {
	// Payload is the base64-encoded image, without a data URL header.
	Payload string

	// MIMEType of the encoded image. Defaults to image/jpeg.
	MIMEType string

	// Prompt describing what to analyze or ask about the image.
	Prompt string

	// Model overrides the provider's default vision model.
	Model string

	// MaxTokens limits the response length.
	MaxTokens int

	// Temperature controls randomness.
	Temperature float64
}

// VisionResponse from image analysis.
type VisionResponse struct {
	// Content is the natural language response.
	Content string

	// Model used for analysis.
	Model string

	// Provider that produced the response.
	Provider string

	// LatencyMs is the response time in milliseconds.
	LatencyMs int64
}

func (r *VisionRequest) mimeType() string {
	if r.MIMEType == "" {
		return "image/jpeg"
	}
	return r.MIMEType
}
