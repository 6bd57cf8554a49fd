package inference

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func newTestGemini(t *testing.T, handler http.HandlerFunc) *Gemini {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	g, err := NewGemini(
		WithAPIKey("test-key"),
		WithBaseURL(srv.URL+"/"),
		WithHTTPClient(srv.Client()),
	)
	if err != nil {
		t.Fatalf("NewGemini failed: %v", err)
	}
	return g
}

func TestNewGeminiRequiresKey(t *testing.T) {
	_, err := NewGemini()
	if !errors.Is(err, ErrNoAPIKey) {
		t.Errorf("Expected ErrNoAPIKey, got %v", err)
	}
}

func TestGeminiVisionRequest(t *testing.T) {
	var got geminiRequest
	g := newTestGemini(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("Expected POST, got %s", r.Method)
		}
		if r.URL.Path != "/models/gemini-3-flash-preview:generateContent" {
			t.Errorf("Unexpected path %s", r.URL.Path)
		}
		if r.Header.Get("x-goog-api-key") != "test-key" {
			t.Errorf("Expected API key header, got %q", r.Header.Get("x-goog-api-key"))
		}
		if r.URL.Query().Get("key") != "" {
			t.Error("API key must not be sent in the query string")
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		w.Write([]byte(`{"candidates":[{"content":{"parts":[{"text":" TRIGGER "}]}}]}`))
	})

	resp, err := g.Vision(context.Background(), &VisionRequest{
		Payload: "QUJD",
		Prompt:  "classify",
	})
	if err != nil {
		t.Fatalf("Vision failed: %v", err)
	}
	if resp.Content != "TRIGGER" {
		t.Errorf("Expected trimmed TRIGGER, got %q", resp.Content)
	}
	if resp.Provider != "gemini" || resp.Model != "gemini-3-flash-preview" {
		t.Errorf("Unexpected provider/model: %s/%s", resp.Provider, resp.Model)
	}

	if len(got.Contents) != 1 || len(got.Contents[0].Parts) != 2 {
		t.Fatalf("Expected one content with two parts, got %+v", got.Contents)
	}
	img := got.Contents[0].Parts[0].InlineData
	if img == nil || img.Data != "QUJD" || img.MIMEType != "image/jpeg" {
		t.Errorf("Expected inline JPEG payload first, got %+v", img)
	}
	if got.Contents[0].Parts[1].Text != "classify" {
		t.Errorf("Expected prompt second, got %+v", got.Contents[0].Parts[1])
	}
	if got.GenerationConfig.MaxOutputTokens != DefaultConfig().MaxTokens {
		t.Errorf("Expected default max tokens, got %d", got.GenerationConfig.MaxOutputTokens)
	}
}

func TestGeminiVisionModelOverride(t *testing.T) {
	g := newTestGemini(t, func(w http.ResponseWriter, r *http.Request) {
		if !strings.Contains(r.URL.Path, "/models/custom:") {
			t.Errorf("Expected custom model in path, got %s", r.URL.Path)
		}
		w.Write([]byte(`{"candidates":[{"content":{"parts":[{"text":"IDLE"}]}}]}`))
	})

	if _, err := g.Vision(context.Background(), &VisionRequest{Payload: "x", Model: "custom"}); err != nil {
		t.Fatalf("Vision failed: %v", err)
	}
}

func TestGeminiVisionAPIError(t *testing.T) {
	g := newTestGemini(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		w.Write([]byte(`{"error":{"message":"quota exceeded","code":429}}`))
	})

	_, err := g.Vision(context.Background(), &VisionRequest{Payload: "x"})
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("Expected APIError, got %T: %v", err, err)
	}
	if !apiErr.IsRateLimited() || apiErr.Message != "quota exceeded" {
		t.Errorf("Unexpected API error: %+v", apiErr)
	}
}

func TestGeminiVisionPlainTextError(t *testing.T) {
	g := newTestGemini(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "upstream down", http.StatusBadGateway)
	})

	_, err := g.Vision(context.Background(), &VisionRequest{Payload: "x"})
	var apiErr *APIError
	if !errors.As(err, &apiErr) || apiErr.Message != "upstream down" {
		t.Errorf("Expected raw body as message, got %v", err)
	}
}

func TestGeminiVisionEmptyAndMalformed(t *testing.T) {
	tests := []struct {
		name string
		body string
		want error
	}{
		{"no candidates", `{"candidates":[]}`, ErrNoContent},
		{"empty text", `{"candidates":[{"content":{"parts":[{"text":"  "}]}}]}`, ErrNoContent},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := newTestGemini(t, func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(tt.body))
			})
			_, err := g.Vision(context.Background(), &VisionRequest{Payload: "x"})
			if !errors.Is(err, tt.want) {
				t.Errorf("Expected %v, got %v", tt.want, err)
			}
		})
	}

	g := newTestGemini(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`not json`))
	})
	if _, err := g.Vision(context.Background(), &VisionRequest{Payload: "x"}); err == nil {
		t.Error("Expected decode error")
	}
}

func TestGeminiVisionRequiresPayload(t *testing.T) {
	g := newTestGemini(t, func(w http.ResponseWriter, r *http.Request) {
		t.Error("No request expected")
	})
	if _, err := g.Vision(context.Background(), &VisionRequest{}); !errors.Is(err, ErrNoPayload) {
		t.Errorf("Expected ErrNoPayload, got %v", err)
	}
}

func TestGeminiResponseJoinsParts(t *testing.T) {
	var r geminiResponse
	json.Unmarshal([]byte(`{"candidates":[{"content":{"parts":[{"text":"TRIG"},{"text":"GER"}]}}]}`), &r)
	if r.text() != "TRIGGER" {
		t.Errorf("Expected joined parts, got %q", r.text())
	}
}
