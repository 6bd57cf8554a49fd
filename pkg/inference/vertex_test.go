package inference

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"cloud.google.com/go/vertexai/genai"
)

func TestNewVertexRequiresProject(t *testing.T) {
	_, err := NewVertex(context.Background(), "", "us-central1", nil)
	if !errors.Is(err, ErrNoProject) {
		t.Errorf("Expected ErrNoProject, got %v", err)
	}
}

func TestVertexCredentialsMissingFile(t *testing.T) {
	_, err := VertexCredentials(context.Background(), filepath.Join(t.TempDir(), "missing.json"))
	if err == nil {
		t.Error("Expected error for missing credentials file")
	}
}

func TestVertexCredentialsInvalidJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "creds.json")
	os.WriteFile(path, []byte("{not json"), 0o600)

	if _, err := VertexCredentials(context.Background(), path); err == nil {
		t.Error("Expected error for malformed credentials")
	}
}

func TestVertexText(t *testing.T) {
	if vertexText(nil) != "" {
		t.Error("Expected empty text for nil response")
	}

	resp := &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{
			Content: &genai.Content{Parts: []genai.Part{
				genai.Text(" TRIG"),
				genai.Blob{MIMEType: "image/png"},
				genai.Text("GER "),
			}},
		}},
	}
	if got := vertexText(resp); got != "TRIGGER" {
		t.Errorf("Expected TRIGGER, got %q", got)
	}
}
