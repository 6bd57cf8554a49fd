package inference

import (
	"context"
	"encoding/base64"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"cloud.google.com/go/vertexai/genai"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/option"
)

const providerVertex = "vertex"

// cloudPlatformScope is required by the Vertex AI API.
const cloudPlatformScope = "https://www.googleapis.com/auth/cloud-platform"

// Vertex implements Provider on top of the Vertex AI Gemini SDK.
type Vertex struct {
	client *genai.Client
	config *Config
	logger *slog.Logger
}

// NewVertex creates a Vertex AI provider for the given project and region.
// Client options carry credentials; see VertexCredentials.
func NewVertex(ctx context.Context, project, region string, opts []Option, clientOpts ...option.ClientOption) (*Vertex, error) {
	if project == "" {
		return nil, WrapError(providerVertex, ErrNoProject)
	}
	if region == "" {
		region = "us-central1"
	}

	cfg := DefaultConfig()
	cfg.Apply(opts...)

	client, err := genai.NewClient(ctx, project, region, clientOpts...)
	if err != nil {
		return nil, WrapError(providerVertex, fmt.Errorf("genai.NewClient: %w", err))
	}

	return &Vertex{
		client: client,
		config: cfg,
		logger: cfg.Logger.With("component", "inference.vertex"),
	}, nil
}

// VertexCredentials resolves credentials for the Vertex client. An empty
// path uses Application Default Credentials.
func VertexCredentials(ctx context.Context, path string) (option.ClientOption, error) {
	if path == "" {
		creds, err := google.FindDefaultCredentials(ctx, cloudPlatformScope)
		if err != nil {
			return nil, WrapError(providerVertex, fmt.Errorf("default credentials: %w", err))
		}
		return option.WithCredentials(creds), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, WrapError(providerVertex, fmt.Errorf("read credentials: %w", err))
	}
	creds, err := google.CredentialsFromJSON(ctx, data, cloudPlatformScope)
	if err != nil {
		return nil, WrapError(providerVertex, fmt.Errorf("parse credentials: %w", err))
	}
	return option.WithCredentials(creds), nil
}

// Name returns "vertex".
func (v *Vertex) Name() string { return providerVertex }

// Vision sends the decoded image and prompt to the model.
func (v *Vertex) Vision(ctx context.Context, req *VisionRequest) (*VisionResponse, error) {
	if req.Payload == "" {
		return nil, WrapError(providerVertex, ErrNoPayload)
	}
	start := time.Now()

	data, err := base64.StdEncoding.DecodeString(req.Payload)
	if err != nil {
		return nil, WrapError(providerVertex, fmt.Errorf("decode payload: %w", err))
	}

	name := req.Model
	if name == "" {
		name = v.config.VisionModel
	}
	maxTokens := req.MaxTokens
	if maxTokens == 0 {
		maxTokens = v.config.MaxTokens
	}
	temp := req.Temperature
	if temp == 0 {
		temp = v.config.Temperature
	}

	model := v.client.GenerativeModel(name)
	model.SetTemperature(float32(temp))
	model.SetMaxOutputTokens(int32(maxTokens))

	format := strings.TrimPrefix(req.mimeType(), "image/")
	resp, err := model.GenerateContent(ctx, genai.ImageData(format, data), genai.Text(req.Prompt))
	if err != nil {
		return nil, WrapError(providerVertex, err)
	}

	text := vertexText(resp)
	if text == "" {
		return nil, WrapError(providerVertex, ErrNoContent)
	}

	latency := time.Since(start).Milliseconds()
	v.logger.Debug("vision call complete", "model", name, "latency_ms", latency)

	return &VisionResponse{
		Content:   text,
		Model:     name,
		Provider:  providerVertex,
		LatencyMs: latency,
	}, nil
}

// Close closes the underlying client.
func (v *Vertex) Close() error {
	return v.client.Close()
}

func vertexText(resp *genai.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return ""
	}
	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if t, ok := part.(genai.Text); ok {
			sb.WriteString(string(t))
		}
	}
	return strings.TrimSpace(sb.String())
}

// Verify Vertex implements Provider at compile time.
var _ Provider = (*Vertex)(nil)
